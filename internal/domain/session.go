package domain

import "time"

// Session is a server-side session record. The browser holds only the opaque
// token; the store keys sessions by its SHA-256 fingerprint. Role is a
// snapshot taken at login and is deliberately not refreshed per request.
type Session struct {
	ID        string
	TokenHash string
	UserID    string
	Role      Role
	IP        string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
