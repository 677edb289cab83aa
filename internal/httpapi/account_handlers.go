package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"registra.org/internal/account"
)

func (a *API) handleUser(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/user/")
	switch {
	case rest == "":
		switch r.Method {
		case http.MethodPost:
			a.createUser(w, r)
		case http.MethodGet:
			a.listUsers(w, r)
		default:
			methodNotAllowed(w, http.MethodPost, http.MethodGet)
		}
	case strings.HasPrefix(rest, "username/"):
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		username := strings.TrimSuffix(strings.TrimPrefix(rest, "username/"), "/")
		if username == "" || strings.Contains(username, "/") {
			writeDetail(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		a.getUserByUsername(w, r, username)
	case strings.HasPrefix(rest, "change-password/"):
		if r.Method != http.MethodPatch {
			methodNotAllowed(w, http.MethodPatch)
			return
		}
		id, ok := pathID(strings.TrimPrefix(rest, "change-password/"))
		if !ok {
			writeDetail(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		a.changePassword(w, r, id)
	default:
		id, ok := pathID(rest)
		if !ok {
			writeDetail(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			a.getUser(w, r, id)
		case http.MethodPut, http.MethodPatch:
			a.updateUser(w, r, id)
		case http.MethodDelete:
			a.deleteUser(w, r, id)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
		}
	}
}

func (a *API) createUser(w http.ResponseWriter, r *http.Request) {
	var req account.Create
	if err := decodeJSON(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" ||
		req.Password == "" || req.RoleID == 0 {
		writeDetail(w, http.StatusBadRequest, "username, email, password and role_id are required")
		return
	}

	created, err := a.accounts.Create(r.Context(), &req)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) getUser(w http.ResponseWriter, r *http.Request, id int64) {
	acc, err := a.accounts.GetByID(r.Context(), id)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if acc == nil {
		writeDetail(w, http.StatusNotFound, msgUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

func (a *API) getUserByUsername(w http.ResponseWriter, r *http.Request, username string) {
	acc, err := a.accounts.GetByUsername(r.Context(), username)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if acc == nil {
		writeDetail(w, http.StatusNotFound, msgUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := a.accounts.List(r.Context(), page, limit)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) updateUser(w http.ResponseWriter, r *http.Request, id int64) {
	var req account.Update
	if err := decodeJSON(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	acc, err := a.accounts.Update(r.Context(), id, &req)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if acc == nil {
		writeDetail(w, http.StatusNotFound, msgUserNotFound)
		return
	}
	writeJSON(w, http.StatusAccepted, acc)
}

func (a *API) deleteUser(w http.ResponseWriter, r *http.Request, id int64) {
	acc, err := a.accounts.Delete(r.Context(), id)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if acc == nil {
		writeDetail(w, http.StatusNotFound, msgUserNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) changePassword(w http.ResponseWriter, r *http.Request, id int64) {
	var req account.PasswordChange
	if err := decodeJSON(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		writeDetail(w, http.StatusBadRequest, "old_password and new_password are required")
		return
	}

	found, err := a.accounts.ChangePassword(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, account.ErrIncorrectPassword) {
			writeDetail(w, http.StatusBadRequest, msgIncorrectPassword)
			return
		}
		handleStoreError(w, err)
		return
	}
	if !found {
		writeDetail(w, http.StatusNotFound, msgUserNotFound)
		return
	}
	writeDetail(w, http.StatusAccepted, msgPasswordChanged)
}
