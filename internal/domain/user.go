package domain

import "time"

// Role is the capability tier derived from a user's class code at login time.
// Sessions store a snapshot of it; class-code changes take effect on the next
// login.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Class code layout: five decimal digits, one per capability slot.
// Positions 0-3 are verification/consent flags (email, SMS, WhatsApp,
// consent); position 4 is the admin level.
const (
	ClassCodeLength = 5

	// DefaultClassCode is assigned to every self-registered account.
	DefaultClassCode = "00000"

	// SuperAdminClassCode marks the bootstrap account.
	SuperAdminClassCode = "99999"
)

type User struct {
	ID           string
	Username     string
	Email        string
	Company      string
	Phone        string
	PasswordHash string // argon2id, PHC encoded
	ClassCode    string // exactly 5 decimal digits
	Active       bool
	CreatedAt    time.Time
	LastUsedAt   *time.Time
	LastSeenIP   string
}

// ValidClassCode reports whether code is exactly five decimal digits.
func ValidClassCode(code string) bool {
	if len(code) != ClassCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// IsAdminCode reports whether the class code's admin digit grants admin
// access (last digit >= 5).
func IsAdminCode(code string) bool {
	return ValidClassCode(code) && code[ClassCodeLength-1] >= '5'
}

// IsSuperAdminCode reports whether the admin digit is maxed out.
func IsSuperAdminCode(code string) bool {
	return ValidClassCode(code) && code[ClassCodeLength-1] == '9'
}

// RoleForClassCode maps a class code to the session role recorded at login.
func RoleForClassCode(code string) Role {
	if IsAdminCode(code) {
		return RoleAdmin
	}
	return RoleUser
}

func (u User) IsAdmin() bool      { return IsAdminCode(u.ClassCode) }
func (u User) IsSuperAdmin() bool { return IsSuperAdminCode(u.ClassCode) }
