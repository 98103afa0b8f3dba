package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/socialmaster/socialmaster/internal/domain"
	"github.com/socialmaster/socialmaster/pkg/httpx"
	"github.com/socialmaster/socialmaster/pkg/slogx"
)

type sessionKeyType struct{}

var sessionKey sessionKeyType

// SessionFromContext returns the authenticated session placed on the request
// context by RequireSession.
func SessionFromContext(ctx context.Context) (domain.Session, bool) {
	s, ok := ctx.Value(sessionKey).(domain.Session)
	return s, ok
}

// RequireSession resolves the session cookie and attaches the session to the
// request context. Requests without a valid session get 401.
func (r *Router) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		cookie, err := req.Cookie(SessionCookie)
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
			return
		}

		session, err := r.AuthService.SessionFromToken(req.Context(), cookie.Value)
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Session is invalid or expired")
			return
		}

		ctx := context.WithValue(req.Context(), sessionKey, session)
		ctx = slogx.WithContext(ctx, slogx.FromContext(ctx).With("user_id", session.UserID))
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// RequireAdmin gates a route on the session's role snapshot. The snapshot is
// taken at login, so demotions apply from the next login onward.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		session, ok := SessionFromContext(req.Context())
		if !ok || session.Role != domain.RoleAdmin {
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "Admin access required")
			return
		}
		next.ServeHTTP(w, req)
	})
}

var errNoSession = errors.New("no session on context")

// mustSession fetches the context session, writing a 401 when absent. The
// boolean result tells the handler whether to continue.
func mustSession(w http.ResponseWriter, req *http.Request) (domain.Session, bool) {
	session, ok := SessionFromContext(req.Context())
	if !ok {
		slogx.FromContext(req.Context()).Error("handler reached without session", "err", errNoSession)
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return domain.Session{}, false
	}
	return session, true
}
