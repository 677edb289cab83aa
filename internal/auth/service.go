package auth

import (
	"context"
	"errors"
	"strings"
)

// Service composes the token service with the identity store to implement
// the authentication flows: login, refresh, session resolution and the
// admin bootstrap registration.
type Service struct {
	store  Store
	tokens *TokenService
}

// NewService constructs the authentication service.
func NewService(store Store, tokens *TokenService) *Service {
	return &Service{store: store, tokens: tokens}
}

// Login authenticates an account by username or email and mints one access
// and one refresh token from the minimal identity claim. The identifier and
// password are lowercased first; stored identities are lowercase and the
// normalization is part of the external contract.
func (s *Service) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	password = strings.ToLower(password)

	user, err := s.store.UserByUsernameOrEmail(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(user.ID, user.Username, user.Email, TokenAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Issue(user.ID, user.Username, user.Email, TokenRefresh)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		TokenType:    tokenType,
		AccessToken:  access,
		RefreshToken: refresh,
		RoleID:       user.RoleID,
	}, nil
}

// Refresh verifies a refresh token, re-resolves the account by the claim's
// username and email (both must match), and issues a fresh access token
// only. Refresh tokens are not rotated in this design.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil, err
	}
	user, err := s.store.UserByUsernameAndEmail(ctx, claims.Username, claims.Email)
	if err != nil {
		return nil, err
	}
	access, err := s.tokens.Issue(user.ID, user.Username, user.Email, TokenAccess)
	if err != nil {
		return nil, err
	}
	return &RefreshResult{TokenType: tokenType, AccessToken: access}, nil
}

// ResolveCurrentUser converts a bearer token into the composed identity view
// protected operations authorize against. Verification failure, an absent
// account (deleted after the token was issued) or any store failure all
// terminate in ErrUnauthenticated; there is no retry within a request.
func (s *Service) ResolveCurrentUser(ctx context.Context, token string) (*CurrentUser, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	if claims.Username == "" || claims.Email == "" {
		return nil, ErrTokenInvalid
	}
	user, err := s.store.UserByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return &CurrentUser{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		RoleID:         user.RoleID,
		RoleName:       user.RoleName,
		OrganizationID: user.OrganizationID,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}, nil
}

// RegisterAdminInput is the plaintext-password form accepted by the flow.
type RegisterAdminInput struct {
	Username                string
	Email                   string
	Password                string
	RoleID                  int64
	OrganizationName        string
	OrganizationDescription *string
}

// RegisterAdmin hashes the password and runs the transactional bootstrap
// through the store. Conflicts come back as the typed errors declared in
// errors.go, in check order.
func (s *Service) RegisterAdmin(ctx context.Context, input RegisterAdminInput) (*AdminAccount, error) {
	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	return s.store.RegisterAdmin(ctx, &AdminRegistration{
		Username:                strings.ToLower(strings.TrimSpace(input.Username)),
		Email:                   strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash:            hash,
		RoleID:                  input.RoleID,
		OrganizationName:        input.OrganizationName,
		OrganizationDescription: input.OrganizationDescription,
	})
}
