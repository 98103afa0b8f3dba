package domain

import "time"

// Audit action types. The login rate limiter counts entries by these tags,
// so renaming one is a behavioural change, not a cosmetic one.
const (
	ActionLoginFailed       = "login_failed"
	ActionLoginSuccess      = "login_success"
	ActionLogout            = "logout"
	ActionRateLimitExceeded = "rate_limit_exceeded"
	ActionUserRegistered    = "user_registered"
	ActionUserActivated     = "user_activated"
	ActionClassCodeChanged  = "class_code_changed"
	ActionAdminCreation     = "admin_creation"
	ActionConfigUpdated     = "config_updated"
	ActionClientCreated     = "client_created"
	ActionClientDeleted     = "client_deleted"
	ActionPostScheduled     = "post_scheduled"
)

// AuditEntry is one append-only record in the audit trail. Entries are never
// updated or deleted; the rate limiter derives its counts from them.
type AuditEntry struct {
	ID          string
	UserID      *string // nil for system-initiated events
	IP          string
	ActionType  string
	Description string
	Details     map[string]any // optional structured payload, stored as JSON
	CreatedAt   time.Time
}
