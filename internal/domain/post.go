package domain

import "time"

// Post lifecycle states.
const (
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
)

// Post is a scheduled social-media post belonging to a client. This service
// only schedules and tracks posts; actual publishing happens elsewhere.
type Post struct {
	ID           string
	ClientID     string
	Content      string
	Platforms    []string
	MediaURLs    []string
	ScheduledAt  time.Time
	Status       string
	PublishedAt  *time.Time
	ErrorMessage string
	CreatedAt    time.Time
}
