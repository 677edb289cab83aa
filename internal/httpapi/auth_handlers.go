package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"registra.org/internal/auth"
)

type registerAdminRequest struct {
	Username                string  `json:"username"`
	Email                   string  `json:"email"`
	Password                string  `json:"password"`
	RoleID                  int64   `json:"role_id"`
	OrganizationName        string  `json:"organization_name"`
	OrganizationDescription *string `json:"organization_description"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (a *API) handleRegisterAdmin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req registerAdminRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" ||
		req.Password == "" || req.RoleID == 0 || strings.TrimSpace(req.OrganizationName) == "" {
		writeDetail(w, http.StatusBadRequest, "username, email, password, role_id and organization_name are required")
		return
	}

	created, err := a.auth.RegisterAdmin(r.Context(), auth.RegisterAdminInput{
		Username:                req.Username,
		Email:                   req.Email,
		Password:                req.Password,
		RoleID:                  req.RoleID,
		OrganizationName:        req.OrganizationName,
		OrganizationDescription: req.OrganizationDescription,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrOrganizationExists):
			writeDetail(w, http.StatusConflict, msgOrganizationExists)
		case errors.Is(err, auth.ErrUsernameExists):
			writeDetail(w, http.StatusConflict, msgUsernameExists)
		case errors.Is(err, auth.ErrEmailExists):
			writeDetail(w, http.StatusConflict, msgEmailExists)
		default:
			handleStoreError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	identifier, password, err := loginCredentials(w, r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := a.auth.Login(r.Context(), identifier, password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAccountNotFound):
			writeDetail(w, http.StatusNotFound, msgUserNotFound)
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeDetail(w, http.StatusUnauthorized, msgIncorrectPassword)
		default:
			handleStoreError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// loginCredentials accepts either a JSON body or a classic form post so the
// endpoint works with standard OAuth2 password-flow tooling.
func loginCredentials(w http.ResponseWriter, r *http.Request) (string, string, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return "", "", err
		}
		identifier := r.PostFormValue("username")
		password := r.PostFormValue("password")
		if identifier == "" || password == "" {
			return "", "", errors.New("username and password are required")
		}
		return identifier, password, nil
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return "", "", err
	}
	if req.Username == "" || req.Password == "" {
		return "", "", errors.New("username and password are required")
	}
	return req.Username, req.Password, nil
}

// handleMe returns the identity the bearer token resolved to.
func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	current, ok := auth.CurrentUserFromContext(r.Context())
	if !ok {
		writeDetail(w, http.StatusUnauthorized, msgCouldNotValidate)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		writeDetail(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	result, err := a.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			writeDetail(w, http.StatusUnauthorized, msgTokenExpired)
		case errors.Is(err, auth.ErrTokenInvalid):
			writeDetail(w, http.StatusUnauthorized, msgInvalidToken)
		case errors.Is(err, auth.ErrAccountNotFound):
			writeDetail(w, http.StatusNotFound, msgUserNotFound)
		default:
			handleStoreError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}
