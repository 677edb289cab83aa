package auth

import "time"

// User is the identity store's read view of a persisted account, joined with
// its role. The password field carries the one-way hash, never plaintext.
type User struct {
	ID             int64
	Username       string
	Email          string
	PasswordHash   string
	IsSuperUser    bool
	IsAdmin        bool
	RoleID         int64
	RoleName       string
	OrganizationID *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CurrentUser is the composed identity every protected operation authorizes
// against. It is derived per request and never cached.
type CurrentUser struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	RoleID         int64     `json:"role_id"`
	RoleName       string    `json:"role_name"`
	OrganizationID *int64    `json:"organization_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// LoginResult carries both session tokens minted at login.
type LoginResult struct {
	TokenType    string `json:"token_type"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	RoleID       int64  `json:"role_id"`
}

// RefreshResult carries the single access token minted on refresh. Refresh
// tokens are never rotated.
type RefreshResult struct {
	TokenType   string `json:"token_type"`
	AccessToken string `json:"access_token"`
}

// AdminRegistration is the input to the transactional organization+admin
// bootstrap flow.
type AdminRegistration struct {
	Username                string
	Email                   string
	PasswordHash            string
	RoleID                  int64
	OrganizationName        string
	OrganizationDescription *string
}

// AdminAccount is the composed result of a successful registration.
type AdminAccount struct {
	ID                      int64     `json:"id"`
	Username                string    `json:"username"`
	Email                   string    `json:"email"`
	RoleID                  int64     `json:"role_id"`
	OrganizationID          int64     `json:"organization_id"`
	OrganizationName        string    `json:"organization_name"`
	OrganizationDescription *string   `json:"organization_description,omitempty"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

const tokenType = "bearer"
