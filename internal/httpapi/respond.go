package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"registra.org/internal/pgerr"
)

type detailResponse struct {
	Detail string `json:"detail"`
}

// writeJSON marshals before writing so a serialization failure still
// produces the contractual 422 body instead of a truncated response.
func writeJSON(w http.ResponseWriter, code int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"` + msgInvalidResponseBody + `"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

func writeDetail(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, detailResponse{Detail: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeDetail(w, http.StatusMethodNotAllowed, "Method not allowed")
}

// handleStoreError translates classified persistence failures; everything
// unclassified stays opaque.
func handleStoreError(w http.ResponseWriter, err error) {
	var pgE *pgerr.Error
	if errors.As(err, &pgE) {
		writeDetail(w, http.StatusConflict, pgE.Error())
		return
	}
	writeDetail(w, http.StatusInternalServerError, msgInternalServerError)
}

// pathID parses the single trailing identifier segment of a resource path.
func pathID(rest string) (int64, bool) {
	rest = strings.TrimSuffix(rest, "/")
	if rest == "" || strings.Contains(rest, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// pagination reads optional page/limit query parameters. Zero values select
// the single-page listing mode.
func pagination(r *http.Request) (page, limit int, err error) {
	q := r.URL.Query()
	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, errors.New("page must be a positive integer")
		}
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, errors.New("limit must be a positive integer")
		}
	}
	return page, limit, nil
}
