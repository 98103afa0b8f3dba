package httpx

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP extracts the originating client IP from a request, honouring
// X-Forwarded-For and X-Real-IP set by a fronting proxy before falling back
// to the socket address. The result is what gets stamped on audit entries
// and fed to the login rate limiter.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, found := strings.Cut(xff, ","); found || first != "" {
			return strings.TrimSpace(first)
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
