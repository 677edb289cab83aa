package auth

import (
	"context"
	"database/sql"
	"errors"

	"registra.org/internal/pgerr"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

const userSelect = `select u.id, u.username, u.email, u.password, u.is_super_user, u.is_admin,
	u.role_id, r.role_name, u.organization_id, u.created_at, u.updated_at
from users u join roles r on r.id = u.role_id`

func (s *PGStore) UserByID(ctx context.Context, id int64) (*User, error) {
	return scanUser(s.db.QueryRowContext(ctx, userSelect+` where u.id = $1`, id))
}

func (s *PGStore) UserByUsernameOrEmail(ctx context.Context, identifier string) (*User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		userSelect+` where u.username = $1 or u.email = $1`, identifier))
}

func (s *PGStore) UserByUsernameAndEmail(ctx context.Context, username, email string) (*User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		userSelect+` where u.username = $1 and u.email = $2`, username, email))
}

func scanUser(row *sql.Row) (*User, error) {
	var (
		u     User
		orgID sql.NullInt64
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsSuperUser, &u.IsAdmin,
		&u.RoleID, &u.RoleName, &orgID, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, pgerr.Classify(err)
	}
	if orgID.Valid {
		u.OrganizationID = &orgID.Int64
	}
	return &u, nil
}

// RegisterAdmin performs the whole bootstrap in one transaction. The check
// order (organization name, then username, then email) is a contract: it
// makes the conflict message deterministic when several would apply.
func (s *PGStore) RegisterAdmin(ctx context.Context, reg *AdminRegistration) (*AdminAccount, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var existingOrg int64
	err = tx.QueryRowContext(ctx,
		`select id from organizations where organization_name = $1`,
		reg.OrganizationName).Scan(&existingOrg)
	if err == nil {
		return nil, ErrOrganizationExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, pgerr.Classify(err)
	}

	var existingUsername, existingEmail string
	err = tx.QueryRowContext(ctx,
		`select username, email from users where username = $1 or email = $2`,
		reg.Username, reg.Email).Scan(&existingUsername, &existingEmail)
	if err == nil {
		if existingUsername == reg.Username {
			return nil, ErrUsernameExists
		}
		return nil, ErrEmailExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, pgerr.Classify(err)
	}

	account := AdminAccount{
		Username:                reg.Username,
		Email:                   reg.Email,
		RoleID:                  reg.RoleID,
		OrganizationName:        reg.OrganizationName,
		OrganizationDescription: reg.OrganizationDescription,
	}

	err = tx.QueryRowContext(ctx,
		`insert into organizations (organization_name, organization_description)
		values ($1, $2) returning id`,
		reg.OrganizationName, reg.OrganizationDescription).Scan(&account.OrganizationID)
	if err != nil {
		return nil, pgerr.Classify(err)
	}

	err = tx.QueryRowContext(ctx,
		`insert into users (username, email, password, is_admin, role_id, organization_id)
		values ($1, $2, $3, true, $4, $5) returning id, created_at, updated_at`,
		reg.Username, reg.Email, reg.PasswordHash, reg.RoleID, account.OrganizationID).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, pgerr.Classify(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, pgerr.Classify(err)
	}
	return &account, nil
}
