package httpapi

import (
	"net/http"
	"strings"

	"registra.org/internal/role"
)

func (a *API) handleRole(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/role/")
	switch {
	case rest == "":
		switch r.Method {
		case http.MethodPost:
			a.createRole(w, r)
		case http.MethodGet:
			a.listRoles(w, r)
		default:
			methodNotAllowed(w, http.MethodPost, http.MethodGet)
		}
	case strings.HasPrefix(rest, "name/"):
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		name := strings.TrimSuffix(strings.TrimPrefix(rest, "name/"), "/")
		if name == "" || strings.Contains(name, "/") {
			writeDetail(w, http.StatusNotFound, msgRoleNotFound)
			return
		}
		a.getRoleByName(w, r, name)
	default:
		id, ok := pathID(rest)
		if !ok {
			writeDetail(w, http.StatusNotFound, msgRoleNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			a.getRole(w, r, id)
		case http.MethodPut, http.MethodPatch:
			a.updateRole(w, r, id)
		case http.MethodDelete:
			a.deleteRole(w, r, id)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
		}
	}
}

func (a *API) createRole(w http.ResponseWriter, r *http.Request) {
	var req role.Create
	if err := decodeJSON(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" {
		writeDetail(w, http.StatusBadRequest, "role_name and role_description are required")
		return
	}

	created, err := a.roles.Create(r.Context(), &req)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) getRole(w http.ResponseWriter, r *http.Request, id int64) {
	rec, err := a.roles.GetByID(r.Context(), id)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if rec == nil {
		writeDetail(w, http.StatusNotFound, msgRoleNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *API) getRoleByName(w http.ResponseWriter, r *http.Request, name string) {
	rec, err := a.roles.GetByName(r.Context(), name)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if rec == nil {
		writeDetail(w, http.StatusNotFound, msgRoleNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *API) listRoles(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := a.roles.List(r.Context(), page, limit)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) updateRole(w http.ResponseWriter, r *http.Request, id int64) {
	var req role.Update
	if err := decodeJSON(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := a.roles.Update(r.Context(), id, &req)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if rec == nil {
		writeDetail(w, http.StatusNotFound, msgRoleNotFound)
		return
	}
	writeJSON(w, http.StatusAccepted, rec)
}

func (a *API) deleteRole(w http.ResponseWriter, r *http.Request, id int64) {
	rec, err := a.roles.Delete(r.Context(), id)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if rec == nil {
		writeDetail(w, http.StatusNotFound, msgRoleNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
