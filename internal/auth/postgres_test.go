package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password", "is_super_user", "is_admin",
		"role_id", "role_name", "organization_id", "created_at", "updated_at",
	})
}

func TestUserByIDJoinsRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)

	now := time.Now()
	mock.ExpectQuery("select u.id, u.username.*from users u join roles r on r.id = u.role_id where u.id = \\$1").
		WithArgs(int64(42)).
		WillReturnRows(userRows().AddRow(42, "alice", "a@x.com", "hash", false, true, 2, "admin", nil, now, now))

	user, err := store.UserByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("UserByID: %v", err)
	}
	if user.RoleName != "admin" {
		t.Fatalf("expected joined role name, got %+v", user)
	}
	if user.OrganizationID != nil {
		t.Fatalf("null organization must map to nil")
	}
}

func TestUserLookupAbsence(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)

	mock.ExpectQuery("select u.id, u.username.*where u.username = \\$1 or u.email = \\$1").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	if _, err := store.UserByUsernameOrEmail(context.Background(), "ghost"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestRegisterAdminOrganizationConflictCreatesNothing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery("select id from organizations where organization_name = \\$1").
		WithArgs("Acme").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectRollback()

	_, err = store.RegisterAdmin(context.Background(), &AdminRegistration{
		Username: "new", Email: "n@x.com", PasswordHash: "hash", RoleID: 2, OrganizationName: "Acme",
	})
	if !errors.Is(err, ErrOrganizationExists) {
		t.Fatalf("expected ErrOrganizationExists, got %v", err)
	}
	// No insert may run after the first conflict fires.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegisterAdminUsernameTakesPrecedenceOverEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery("select id from organizations").
		WithArgs("Acme").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("select username, email from users where username = \\$1 or email = \\$2").
		WithArgs("new", "n@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"username", "email"}).AddRow("new", "n@x.com"))
	mock.ExpectRollback()

	_, err = store.RegisterAdmin(context.Background(), &AdminRegistration{
		Username: "new", Email: "n@x.com", PasswordHash: "hash", RoleID: 2, OrganizationName: "Acme",
	})
	if !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

func TestRegisterAdminEmailConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery("select id from organizations").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("select username, email from users").
		WillReturnRows(sqlmock.NewRows([]string{"username", "email"}).AddRow("other", "n@x.com"))
	mock.ExpectRollback()

	_, err = store.RegisterAdmin(context.Background(), &AdminRegistration{
		Username: "new", Email: "n@x.com", PasswordHash: "hash", RoleID: 2, OrganizationName: "Acme",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestRegisterAdminCreatesOrganizationThenUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("select id from organizations").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("select username, email from users").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("insert into organizations").
		WithArgs("Acme", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery("insert into users").
		WithArgs("new", "n@x.com", "hash", int64(2), int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(5, now, now))
	mock.ExpectCommit()

	account, err := store.RegisterAdmin(context.Background(), &AdminRegistration{
		Username: "new", Email: "n@x.com", PasswordHash: "hash", RoleID: 2, OrganizationName: "Acme",
	})
	if err != nil {
		t.Fatalf("RegisterAdmin: %v", err)
	}
	if account.ID != 5 || account.OrganizationID != 11 {
		t.Fatalf("unexpected account %+v", account)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
