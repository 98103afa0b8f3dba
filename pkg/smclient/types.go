package smclient

import "time"

// User mirrors the API's user payload.
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Company   string     `json:"company,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	ClassCode string     `json:"class_code"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	LastUsed  *time.Time `json:"last_used_at,omitempty"`
}

// SocialClient is a social-media client the user schedules posts for. Named
// to avoid clashing with the API Client type.
type SocialClient struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Description string    `json:"description,omitempty"`
	Platforms   []string  `json:"platforms,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// Post is a scheduled post.
type Post struct {
	ID           string     `json:"id"`
	ClientID     string     `json:"client_id"`
	Content      string     `json:"content"`
	Platforms    []string   `json:"platforms,omitempty"`
	MediaURLs    []string   `json:"media_urls,omitempty"`
	ScheduledAt  time.Time  `json:"scheduled_at"`
	Status       string     `json:"status"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ConfigEntry is one runtime configuration variable.
type ConfigEntry struct {
	Variable    string    `json:"variable"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AuditEntry is one audit trail record.
type AuditEntry struct {
	ID          string         `json:"id"`
	UserID      *string        `json:"user_id,omitempty"`
	IP          string         `json:"ip"`
	ActionType  string         `json:"action_type"`
	Description string         `json:"description,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Health is the livez/readyz payload.
type Health struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// RegisterParams is the self-registration request.
type RegisterParams struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Company  string `json:"company,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// CreateClientParams is the client creation request.
type CreateClientParams struct {
	Name        string   `json:"name"`
	Email       string   `json:"email,omitempty"`
	Description string   `json:"description,omitempty"`
	Platforms   []string `json:"platforms,omitempty"`
}

// SchedulePostParams is the post scheduling request.
type SchedulePostParams struct {
	Content     string    `json:"content"`
	Platforms   []string  `json:"platforms,omitempty"`
	MediaURLs   []string  `json:"media_urls,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
}
