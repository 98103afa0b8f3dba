// Package web is the HTTP surface: thin JSON handlers over the service layer,
// cookie-session authentication and the admin gate.
package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/socialmaster/socialmaster/internal/service"
	"github.com/socialmaster/socialmaster/internal/store"
	"github.com/socialmaster/socialmaster/pkg/httpx"
	"github.com/socialmaster/socialmaster/pkg/slogx"
)

// SessionCookie is the name of the session cookie.
const SessionCookie = "sm_session"

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AuthService   *service.AuthService
	UserService   *service.UserService
	ConfigService *service.ConfigService
	AuditService  *service.AuditService
	ClientService *service.ClientService
	PostService   *service.PostService

	// CookieSecure controls the Secure flag on session cookies; disable only
	// for local plain-HTTP development.
	CookieSecure bool
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		CookieSecure: true,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAdmin()
	r.registerClients()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService:  r.AuthService,
		UserService:  r.UserService,
		CookieSecure: r.CookieSecure,
	}

	// Credential endpoints get the strict outer limit; the audit-backed
	// limiter inside AuthService is the durable one.
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			r.RequireSession,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{
		UserService:   r.UserService,
		ConfigService: r.ConfigService,
		AuditService:  r.AuditService,
	}

	secured := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			r.RequireSession,
			RequireAdmin,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/admin/users/pending", secured(h.HandleListPending))
	r.Mux.Handle("POST /v1/admin/users/{id}/activate", secured(h.HandleActivate))
	r.Mux.Handle("POST /v1/admin/users/{id}/promote", secured(h.HandlePromote))
	r.Mux.Handle("PUT /v1/admin/users/{id}/class-code", secured(h.HandleSetClassCode))
	r.Mux.Handle("GET /v1/admin/config", secured(h.HandleListConfig))
	r.Mux.Handle("PUT /v1/admin/config/{variable}", secured(h.HandleSetConfig))
	r.Mux.Handle("GET /v1/admin/audit", secured(h.HandleListAudit))
}

func (r *Router) registerClients() {
	h := &ClientsHandler{
		ClientService: r.ClientService,
		PostService:   r.PostService,
	}

	secured := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			r.RequireSession,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/clients", secured(h.HandleCreate))
	r.Mux.Handle("GET /v1/clients", secured(h.HandleList))
	r.Mux.Handle("DELETE /v1/clients/{id}", secured(h.HandleDelete))
	r.Mux.Handle("POST /v1/clients/{id}/posts", secured(h.HandleSchedulePost))
	r.Mux.Handle("GET /v1/clients/{id}/posts", secured(h.HandleListPosts))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
