package auth

import "context"

// Store is the read view over persisted accounts the authentication
// subsystem needs, plus the one transactional write flow it owns
// (organization + admin bootstrap). All lookups join the required role;
// absence surfaces as ErrAccountNotFound.
type Store interface {
	// UserByID resolves an account by identity.
	UserByID(ctx context.Context, id int64) (*User, error)
	// UserByUsernameOrEmail resolves an account whose username or email
	// equals identifier (login lookup).
	UserByUsernameOrEmail(ctx context.Context, identifier string) (*User, error)
	// UserByUsernameAndEmail resolves an account matching both fields
	// (refresh lookup; both claims must match).
	UserByUsernameAndEmail(ctx context.Context, username, email string) (*User, error)
	// RegisterAdmin runs the bootstrap transaction: organization-name,
	// username and email uniqueness checks in that exact order, then
	// organization creation followed by the admin account referencing it.
	RegisterAdmin(ctx context.Context, reg *AdminRegistration) (*AdminAccount, error)
}
