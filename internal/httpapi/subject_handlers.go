package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"registra.org/internal/subject"
)

type gradeSubjectsResponse struct {
	Records []*subject.Subject `json:"records"`
}

func (a *API) handleSubject(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/subject/")
	switch {
	case rest == "":
		switch r.Method {
		case http.MethodPost:
			a.createSubject(w, r)
		case http.MethodGet:
			a.listSubjects(w, r)
		default:
			methodNotAllowed(w, http.MethodPost, http.MethodGet)
		}
	case strings.HasPrefix(rest, "grade/"):
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		grade, ok := pathID(strings.TrimPrefix(rest, "grade/"))
		if !ok {
			writeDetail(w, http.StatusNotFound, msgSubjectNotFound)
			return
		}
		a.listSubjectsByGrade(w, r, int(grade))
	default:
		// The trailing segment is a subject id for reads and updates but a
		// grade level for deletes.
		id, ok := pathID(rest)
		if !ok {
			writeDetail(w, http.StatusNotFound, msgSubjectNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			a.getSubject(w, r, id)
		case http.MethodPut, http.MethodPatch:
			a.updateSubject(w, r, id)
		case http.MethodDelete:
			a.deleteSubjectsByGrade(w, r, int(id))
		default:
			methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
		}
	}
}

func (a *API) createSubject(w http.ResponseWriter, r *http.Request) {
	var req subject.Create
	if err := decodeJSON(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.GradeLevel < 1 {
		writeDetail(w, http.StatusBadRequest, "subject_name and grade_level are required")
		return
	}

	created, err := a.subjects.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, subject.ErrAlreadyCreated) {
			writeDetail(w, http.StatusConflict, msgSubjectAlreadyCreated)
			return
		}
		handleStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) getSubject(w http.ResponseWriter, r *http.Request, id int64) {
	sub, err := a.subjects.GetByID(r.Context(), id)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if sub == nil {
		writeDetail(w, http.StatusNotFound, msgSubjectNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (a *API) listSubjects(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := a.subjects.List(r.Context(), page, limit)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) listSubjectsByGrade(w http.ResponseWriter, r *http.Request, grade int) {
	subs, err := a.subjects.ListByGradeLevel(r.Context(), grade)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if len(subs) == 0 {
		writeDetail(w, http.StatusNotFound, msgSubjectNotFound)
		return
	}
	writeJSON(w, http.StatusOK, gradeSubjectsResponse{Records: subs})
}

func (a *API) updateSubject(w http.ResponseWriter, r *http.Request, id int64) {
	var req subject.Update
	if err := decodeJSON(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	sub, err := a.subjects.Update(r.Context(), id, &req)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if sub == nil {
		writeDetail(w, http.StatusNotFound, msgSubjectNotFound)
		return
	}
	writeJSON(w, http.StatusAccepted, sub)
}

func (a *API) deleteSubjectsByGrade(w http.ResponseWriter, r *http.Request, grade int) {
	deleted, err := a.subjects.DeleteByGradeLevel(r.Context(), grade)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if len(deleted) == 0 {
		writeDetail(w, http.StatusNotFound, msgSubjectNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
