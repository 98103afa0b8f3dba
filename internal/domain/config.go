package domain

import "time"

// Runtime-tunable configuration variables, seeded at first boot and
// admin-editable afterwards.
const (
	// ConfigLoginFailsNew is the failed-attempt ceiling per IP inside the
	// counting window.
	ConfigLoginFailsNew = "LoginFailsNew"

	// ConfigLoginNewDeltaTime is the sliding window, in seconds, over which
	// failed attempts are counted.
	ConfigLoginNewDeltaTime = "LoginNewDeltaTime"

	// ConfigLoginNewTimeout is how long, in seconds, an IP stays blocked
	// after tripping the limiter.
	ConfigLoginNewTimeout = "LoginNewTimeout"

	// ConfigMaxUsersPerIP caps registrations per IP inside the counting window.
	ConfigMaxUsersPerIP = "MaxUsersPerIP"

	ConfigRegistrationEnabled = "RegistrationEnabled"
	ConfigMaintenanceMode     = "MaintenanceMode"
	ConfigMaxClientsPerUser   = "MaxClientsPerUser"
	ConfigMaxPostsPerDay      = "MaxPostsPerDay"
)

// ConfigEntry is a single key/value row in the config table.
type ConfigEntry struct {
	Variable    string
	Value       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
