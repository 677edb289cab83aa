package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeStore is an in-memory Store for flow tests.
type fakeStore struct {
	users       []*User
	registered  *AdminRegistration
	registerErr error
}

func (f *fakeStore) UserByID(_ context.Context, id int64) (*User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (f *fakeStore) UserByUsernameOrEmail(_ context.Context, identifier string) (*User, error) {
	for _, u := range f.users {
		if u.Username == identifier || u.Email == identifier {
			return u, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (f *fakeStore) UserByUsernameAndEmail(_ context.Context, username, email string) (*User, error) {
	for _, u := range f.users {
		if u.Username == username && u.Email == email {
			return u, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (f *fakeStore) RegisterAdmin(_ context.Context, reg *AdminRegistration) (*AdminAccount, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	f.registered = reg
	return &AdminAccount{ID: 1, Username: reg.Username, Email: reg.Email, RoleID: reg.RoleID, OrganizationID: 1}, nil
}

func newFlowService(t *testing.T, store Store) *Service {
	t.Helper()
	tokens, err := NewTokenService(testSecret, 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return NewService(store, tokens)
}

func seededUser(t *testing.T) *User {
	t.Helper()
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	orgID := int64(3)
	return &User{
		ID:             42,
		Username:       "alice",
		Email:          "a@x.com",
		PasswordHash:   hash,
		RoleID:         2,
		RoleName:       "admin",
		OrganizationID: &orgID,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
}

func TestLoginReturnsTokenPairAndRole(t *testing.T) {
	user := seededUser(t)
	svc := newFlowService(t, &fakeStore{users: []*User{user}})

	result, err := svc.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.TokenType != "bearer" || result.RoleID != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatalf("expected both tokens")
	}
	if result.AccessToken == result.RefreshToken {
		t.Fatalf("access and refresh tokens must differ")
	}
}

func TestLoginNormalizesIdentifierCase(t *testing.T) {
	user := seededUser(t)
	svc := newFlowService(t, &fakeStore{users: []*User{user}})

	if _, err := svc.Login(context.Background(), "Alice", "secret"); err != nil {
		t.Fatalf("mixed-case identifier must resolve: %v", err)
	}
	if _, err := svc.Login(context.Background(), "A@X.com", "secret"); err != nil {
		t.Fatalf("mixed-case email must resolve: %v", err)
	}
	// The supplied password is lowercased before verification as well; the
	// stored hash is always of the lowercase form.
	if _, err := svc.Login(context.Background(), "alice", "SECRET"); err != nil {
		t.Fatalf("password normalization: %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	user := seededUser(t)
	svc := newFlowService(t, &fakeStore{users: []*User{user}})

	if _, err := svc.Login(context.Background(), "nobody", "secret"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRefreshIssuesAccessTokenOnly(t *testing.T) {
	user := seededUser(t)
	store := &fakeStore{users: []*User{user}}
	svc := newFlowService(t, store)

	login, err := svc.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.TokenType != "bearer" {
		t.Fatalf("unexpected result %+v", refreshed)
	}

	// Account deleted after the refresh token was issued.
	store.users = nil
	if _, err := svc.Refresh(context.Background(), login.RefreshToken); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	if _, err := svc.Refresh(context.Background(), "garbage"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestResolveCurrentUserComposesIdentity(t *testing.T) {
	user := seededUser(t)
	store := &fakeStore{users: []*User{user}}
	svc := newFlowService(t, store)

	login, err := svc.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	current, err := svc.ResolveCurrentUser(context.Background(), login.AccessToken)
	if err != nil {
		t.Fatalf("ResolveCurrentUser: %v", err)
	}
	if current.ID != 42 || current.Username != "alice" || current.RoleName != "admin" {
		t.Fatalf("unexpected identity %+v", current)
	}
	if current.OrganizationID == nil || *current.OrganizationID != 3 {
		t.Fatalf("organization linkage lost: %+v", current)
	}

	// Account deleted after issuance: resolution must end Unauthenticated.
	store.users = nil
	if _, err := svc.ResolveCurrentUser(context.Background(), login.AccessToken); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRegisterAdminHashesAndNormalizes(t *testing.T) {
	store := &fakeStore{}
	svc := newFlowService(t, store)

	desc := "School district"
	_, err := svc.RegisterAdmin(context.Background(), RegisterAdminInput{
		Username:                "NewAdmin",
		Email:                   "Admin@Acme.org",
		Password:                "secret",
		RoleID:                  2,
		OrganizationName:        "Acme",
		OrganizationDescription: &desc,
	})
	if err != nil {
		t.Fatalf("RegisterAdmin: %v", err)
	}
	if store.registered.Username != "newadmin" || store.registered.Email != "admin@acme.org" {
		t.Fatalf("identity not normalized: %+v", store.registered)
	}
	if store.registered.PasswordHash == "secret" || store.registered.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}
	if err := VerifyPassword(store.registered.PasswordHash, "secret"); err != nil {
		t.Fatalf("stored hash must verify: %v", err)
	}
}

func TestRegisterAdminPropagatesConflicts(t *testing.T) {
	svc := newFlowService(t, &fakeStore{registerErr: ErrOrganizationExists})

	_, err := svc.RegisterAdmin(context.Background(), RegisterAdminInput{
		Username: "new", Email: "n@x.com", Password: "pw", RoleID: 2, OrganizationName: "Acme",
	})
	if !errors.Is(err, ErrOrganizationExists) {
		t.Fatalf("expected ErrOrganizationExists, got %v", err)
	}
}
