// Package account is the entity service for user accounts. Usernames and
// emails are stored lowercase; passwords are stored as one-way hashes only.
// The role reference is required, the organization reference optional --
// the asymmetry is intentional.
package account

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"registra.org/internal/auth"
	"registra.org/internal/resource"
)

// ErrIncorrectPassword reports a failed old-password check during a
// password change.
var ErrIncorrectPassword = errors.New("account: incorrect password")

// Account is the persisted user record. The password hash never serializes.
type Account struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	IsSuperUser    bool      `json:"is_super_user"`
	IsAdmin        bool      `json:"is_admin"`
	RoleID         int64     `json:"role_id"`
	OrganizationID *int64    `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Create is the creation input shape. Password arrives plaintext and is
// hashed before it reaches the repository.
type Create struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	IsSuperUser    bool   `json:"is_super_user"`
	IsAdmin        bool   `json:"is_admin"`
	RoleID         int64  `json:"role_id"`
	OrganizationID *int64 `json:"organization_id"`
}

// Update is the partial-update input shape. Passwords change only through
// the dedicated flow, never through Update.
type Update struct {
	Username       *string `json:"username"`
	Email          *string `json:"email"`
	IsSuperUser    *bool   `json:"is_super_user"`
	IsAdmin        *bool   `json:"is_admin"`
	RoleID         *int64  `json:"role_id"`
	OrganizationID *int64  `json:"organization_id"`
}

// PasswordChange is the input to the password-change flow.
type PasswordChange struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// passwordPatch is the internal update shape used by ChangePassword.
type passwordPatch struct {
	hash *string
}

func descriptor() resource.Descriptor[Account, Create, Update] {
	return resource.Descriptor[Account, Create, Update]{
		Table: "users",
		Columns: []string{
			"id", "username", "email", "password", "is_super_user", "is_admin",
			"role_id", "organization_id", "created_at", "updated_at",
		},
		Scan:   scanAccount,
		Insert: insertColumns,
		Update: updateChanges,
	}
}

func scanAccount(s resource.Scanner) (*Account, error) {
	var (
		a     Account
		orgID sql.NullInt64
	)
	err := s.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.IsSuperUser, &a.IsAdmin,
		&a.RoleID, &orgID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if orgID.Valid {
		a.OrganizationID = &orgID.Int64
	}
	return &a, nil
}

func insertColumns(c *Create) ([]string, []any) {
	return []string{"username", "email", "password", "is_super_user", "is_admin", "role_id", "organization_id"},
		[]any{c.Username, c.Email, c.Password, c.IsSuperUser, c.IsAdmin, c.RoleID, c.OrganizationID}
}

func updateChanges(u *Update) map[string]any {
	changes := map[string]any{}
	if u.Username != nil {
		changes["username"] = strings.ToLower(*u.Username)
	}
	if u.Email != nil {
		changes["email"] = strings.ToLower(*u.Email)
	}
	if u.IsSuperUser != nil {
		changes["is_super_user"] = *u.IsSuperUser
	}
	if u.IsAdmin != nil {
		changes["is_admin"] = *u.IsAdmin
	}
	if u.RoleID != nil {
		changes["role_id"] = *u.RoleID
	}
	if u.OrganizationID != nil {
		changes["organization_id"] = *u.OrganizationID
	}
	return changes
}

func passwordDescriptor() resource.Descriptor[Account, Create, passwordPatch] {
	return resource.Descriptor[Account, Create, passwordPatch]{
		Table:   "users",
		Columns: descriptor().Columns,
		Scan:    scanAccount,
		Insert:  insertColumns,
		Update: func(p *passwordPatch) map[string]any {
			if p.hash == nil {
				return nil
			}
			return map[string]any{"password": *p.hash}
		},
	}
}

// Service provides account operations.
type Service struct {
	repo     *resource.Repository[Account, Create, Update]
	password *resource.Repository[Account, Create, passwordPatch]
}

func NewService(db *sql.DB) *Service {
	return &Service{
		repo:     resource.New(db, descriptor()),
		password: resource.New(db, passwordDescriptor()),
	}
}

// Create hashes the password and normalizes username and email to lowercase
// before persisting. Uniqueness of both fields is enforced by the store and
// surfaces as a classified constraint violation.
func (s *Service) Create(ctx context.Context, input *Create) (*Account, error) {
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	normalized := *input
	normalized.Username = strings.ToLower(strings.TrimSpace(input.Username))
	normalized.Email = strings.ToLower(strings.TrimSpace(input.Email))
	normalized.Password = hash
	return s.repo.Create(ctx, &normalized)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*Account, error) {
	return s.repo.GetByField(ctx, "username", strings.ToLower(username))
}

func (s *Service) List(ctx context.Context, page, limit int) (*resource.Page[Account], error) {
	return s.repo.List(ctx, page, limit)
}

func (s *Service) Update(ctx context.Context, id int64, input *Update) (*Account, error) {
	return s.repo.Update(ctx, id, input)
}

func (s *Service) Delete(ctx context.Context, id int64) (*Account, error) {
	return s.repo.Delete(ctx, id)
}

// ChangePassword verifies the old password and stores a hash of the new
// one. Returns (false, nil) when the account does not exist and
// ErrIncorrectPassword when the old password does not match.
func (s *Service) ChangePassword(ctx context.Context, id int64, change *PasswordChange) (bool, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, nil
	}
	if err := auth.VerifyPassword(current.PasswordHash, change.OldPassword); err != nil {
		return false, ErrIncorrectPassword
	}
	hash, err := auth.HashPassword(change.NewPassword)
	if err != nil {
		return false, err
	}
	if _, err := s.password.Update(ctx, id, &passwordPatch{hash: &hash}); err != nil {
		return false, err
	}
	return true, nil
}
