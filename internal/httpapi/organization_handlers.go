package httpapi

import (
	"net/http"
	"strings"

	"registra.org/internal/organization"
)

func (a *API) handleOrganization(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/organization/")
	switch {
	case rest == "":
		switch r.Method {
		case http.MethodPost:
			a.createOrganization(w, r)
		case http.MethodGet:
			a.listOrganizations(w, r)
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
			writeDetail(w, http.StatusNotFound, msgOrganizationNotFound)
			return
		}
		a.getOrganizationByName(w, r, name)
	default:
		id, ok := pathID(rest)
		if !ok {
			writeDetail(w, http.StatusNotFound, msgOrganizationNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			a.getOrganization(w, r, id)
		case http.MethodPut, http.MethodPatch:
			a.updateOrganization(w, r, id)
		case http.MethodDelete:
			a.deleteOrganization(w, r, id)
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
		}
	}
}

func (a *API) createOrganization(w http.ResponseWriter, r *http.Request) {
	var req organization.Create
	if err := decodeJSON(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeDetail(w, http.StatusBadRequest, "organization_name is required")
		return
	}

	created, err := a.orgs.Create(r.Context(), &req)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) getOrganization(w http.ResponseWriter, r *http.Request, id int64) {
	org, err := a.orgs.GetByID(r.Context(), id)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if org == nil {
		writeDetail(w, http.StatusNotFound, msgOrganizationNotFound)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

func (a *API) getOrganizationByName(w http.ResponseWriter, r *http.Request, name string) {
	org, err := a.orgs.GetByName(r.Context(), name)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if org == nil {
		writeDetail(w, http.StatusNotFound, msgOrganizationNotFound)
		return
	}
	writeJSON(w, http.StatusOK, org)
}

func (a *API) listOrganizations(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := a.orgs.List(r.Context(), page, limit)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) updateOrganization(w http.ResponseWriter, r *http.Request, id int64) {
	var req organization.Update
	if err := decodeJSON(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	org, err := a.orgs.Update(r.Context(), id, &req)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if org == nil {
		writeDetail(w, http.StatusNotFound, msgOrganizationNotFound)
		return
	}
	writeJSON(w, http.StatusAccepted, org)
}

func (a *API) deleteOrganization(w http.ResponseWriter, r *http.Request, id int64) {
	org, err := a.orgs.Delete(r.Context(), id)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if org == nil {
		writeDetail(w, http.StatusNotFound, msgOrganizationNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
