package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"registra.org/internal/account"
	"registra.org/internal/auth"
	"registra.org/internal/obs"
	"registra.org/internal/organization"
	"registra.org/internal/role"
	"registra.org/internal/subject"
)

// ReadyProbe reports whether the backing store is reachable.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer. Handlers dispatch onto the services and translate
// their typed errors into the response vocabulary.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	auth     *auth.Service
	orgs     *organization.Service
	roles    *role.Service
	accounts *account.Service
	subjects *subject.Service

	rateBurst    int
	ratePerSec   int
	maxBodyBytes int64
}

func New(
	rp ReadyProbe,
	version string,
	authSvc *auth.Service,
	orgs *organization.Service,
	roles *role.Service,
	accounts *account.Service,
	subjects *subject.Service,
) *API {
	a := &API{
		mux:        http.NewServeMux(),
		readyProbe: rp,
		version:    version,

		auth:     authSvc,
		orgs:     orgs,
		roles:    roles,
		accounts: accounts,
		subjects: subjects,

		rateBurst:    40,
		ratePerSec:   20,
		maxBodyBytes: 1 << 20,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/auth/register/", a.handleRegisterAdmin)
	a.mux.HandleFunc("/auth/login/", a.handleLogin)
	a.mux.HandleFunc("/auth/refresh/", a.handleRefresh)

	a.mux.HandleFunc("/me/", a.handleMe)

	a.mux.HandleFunc("/organization/", a.handleOrganization)
	a.mux.HandleFunc("/role/", a.handleRole)
	a.mux.HandleFunc("/user/", a.handleUser)
	a.mux.HandleFunc("/subject/", a.handleSubject)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// SetLimits overrides the default rate and body-size limits. Call before
// Handler; the chain captures the values once.
func (a *API) SetLimits(rateBurst, ratePerSec int, maxBodyBytes int64) {
	if rateBurst > 0 {
		a.rateBurst = rateBurst
	}
	if ratePerSec > 0 {
		a.ratePerSec = ratePerSec
	}
	if maxBodyBytes > 0 {
		a.maxBodyBytes = maxBodyBytes
	}
}

// Handler assembles the middleware chain around the mux.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = MaxBodyBytes(h, a.maxBodyBytes)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = Recover(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "registra-api",
		"version": a.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}
