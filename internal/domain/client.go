package domain

import "time"

// Client is a social-media client owned by a user. Each client can target
// multiple platforms.
type Client struct {
	ID          string
	UserID      string
	Name        string
	Email       string
	Description string
	Platforms   []string // e.g. "facebook", "instagram", "linkedin"
	Active      bool
	CreatedAt   time.Time
}
