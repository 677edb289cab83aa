package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"registra.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

var publicPaths = []string{
	"/healthz",
	"/readyz",
	"/metrics",
}

var publicPrefixes = []string{
	"/auth/",
}

// withAuth resolves the bearer token into the current user and rejects
// everything else on protected paths.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			writeDetail(w, http.StatusUnauthorized, msgCouldNotValidate)
			return
		}

		current, err := a.auth.ResolveCurrentUser(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				writeDetail(w, http.StatusUnauthorized, msgTokenExpired)
			case errors.Is(err, auth.ErrTokenInvalid):
				writeDetail(w, http.StatusUnauthorized, msgInvalidToken)
			case errors.Is(err, auth.ErrUnauthenticated):
				writeDetail(w, http.StatusUnauthorized, msgCouldNotValidate)
			default:
				writeDetail(w, http.StatusInternalServerError, msgInternalServerError)
			}
			return
		}

		ctx := auth.ContextWithCurrentUser(r.Context(), current)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
