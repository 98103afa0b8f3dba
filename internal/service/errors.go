package service

import "errors"

// User-facing error kinds. All recoverable; none fatal to the process.
var (
	// ErrInvalidCredentials covers both unknown-identifier and wrong-password
	// cases. The two are indistinguishable on purpose.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrPendingApproval means the password verified but the account awaits
	// admin activation. Distinct from a failed login and never rate limited.
	ErrPendingApproval = errors.New("pending_approval")

	// ErrRateLimited means the source IP tripped the login limiter and is
	// blocked for the timeout window.
	ErrRateLimited = errors.New("rate_limited")

	// ErrConflict reports a duplicate username or email on registration.
	ErrConflict = errors.New("conflict")

	// ErrNotFound reports an unknown entity id on admin actions.
	ErrNotFound = errors.New("not_found")

	// ErrForbidden reports a caller lacking the capability for an operation.
	ErrForbidden = errors.New("forbidden")

	// ErrRegistrationClosed means self-registration is disabled in config.
	ErrRegistrationClosed = errors.New("registration_closed")

	// ErrMaintenance means the system is in maintenance mode and the caller
	// is not an admin.
	ErrMaintenance = errors.New("maintenance_mode")

	// ErrInvalidClassCode reports a class code that is not 5 decimal digits.
	ErrInvalidClassCode = errors.New("invalid_class_code")

	// ErrSessionInvalid means the presented session token is unknown or expired.
	ErrSessionInvalid = errors.New("session_invalid")
)
