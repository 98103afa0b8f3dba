package store

import (
	"context"
	"errors"
	"time"

	"github.com/socialmaster/socialmaster/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement it. Sub-repositories keep concerns tidy; the Tx-scoped variant
// exposes the same repositories so multi-step operations stay atomic.
type Store interface {
	Users() Users
	AuditLog() AuditLog
	Config() Config
	Sessions() Sessions
	Clients() Clients
	Posts() Posts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns nil
	// and rolling back otherwise. This is the recommended entry point; the
	// whole login sequence (block check, credential check, audit append,
	// session insert) runs through it.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Same repositories plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByIdentifier matches the identifier exactly against username or
	// email. Case-sensitive by design.
	GetUserByIdentifier(ctx context.Context, identifier string) (domain.User, error)

	// CreateUser inserts a new user (id provided by the app via ULID).
	// Returns ErrAlreadyExists when username or email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// ActivateUser sets active=true. A no-op for already-active accounts.
	ActivateUser(ctx context.Context, userID string) error

	// UpdateClassCode replaces the 5-digit class code. Format validation is
	// the service's job.
	UpdateClassCode(ctx context.Context, userID, code string) error

	// UpdateLastSeen stamps last_used_at and last_accessed_ip after a
	// successful login.
	UpdateLastSeen(ctx context.Context, userID, ip string, at time.Time) error

	// ListPendingUsers returns inactive accounts, oldest first.
	ListPendingUsers(ctx context.Context) ([]domain.User, error)

	// IsEmpty reports whether any user exists; drives first-boot bootstrap.
	IsEmpty(ctx context.Context) (bool, error)
}

type AuditLog interface {
	// AppendEntry writes one immutable audit record. There is deliberately
	// no update or delete on this interface.
	AppendEntry(ctx context.Context, e domain.AuditEntry) error

	// CountByIPAction counts entries for (ip, action_type) with
	// created_at >= since. This is the rate limiter's sliding-window query;
	// the table is indexed on (ip, action_type, created_at) for it.
	CountByIPAction(ctx context.Context, ip, actionType string, since time.Time) (int, error)

	// ListRecentEntries returns the newest entries for the admin view.
	ListRecentEntries(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

type Config interface {
	// GetValue returns the value for a config variable.
	GetValue(ctx context.Context, variable string) (string, error)

	// Upsert creates or updates a variable, bumping updated_at.
	Upsert(ctx context.Context, variable, value, description string) error

	// SeedDefault inserts a variable only if absent; used at first boot so
	// operator overrides survive restarts.
	SeedDefault(ctx context.Context, variable, value, description string) error

	// ListAll returns every config row ordered by variable name.
	ListAll(ctx context.Context) ([]domain.ConfigEntry, error)
}

type Sessions interface {
	// CreateSession stores a new session record keyed by token fingerprint.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByTokenHash returns the session for a token fingerprint,
	// expired or not; expiry is the service's call.
	GetSessionByTokenHash(ctx context.Context, hash string) (domain.Session, error)

	// DeleteSessionByTokenHash removes a session. Not finding one is not an
	// error; logout is idempotent.
	DeleteSessionByTokenHash(ctx context.Context, hash string) error

	// DeleteExpiredSessions is housekeeping.
	DeleteExpiredSessions(ctx context.Context, now time.Time) error
}

type Clients interface {
	CreateClient(ctx context.Context, c domain.Client) error
	GetClientByID(ctx context.Context, id string) (domain.Client, error)
	ListClientsByUser(ctx context.Context, userID string) ([]domain.Client, error)
	CountClientsByUser(ctx context.Context, userID string) (int, error)
	DeleteClient(ctx context.Context, id string) error
}

type Posts interface {
	CreatePost(ctx context.Context, p domain.Post) error
	GetPostByID(ctx context.Context, id string) (domain.Post, error)
	ListPostsByClient(ctx context.Context, clientID string) ([]domain.Post, error)

	// CountPostsByUserSince counts posts created since a time across all of a
	// user's clients; backs the MaxPostsPerDay cap.
	CountPostsByUserSince(ctx context.Context, userID string, since time.Time) (int, error)

	// ListDuePosts returns scheduled posts whose time has come, oldest first.
	ListDuePosts(ctx context.Context, now time.Time) ([]domain.Post, error)

	// MarkPostPublished transitions scheduled -> published.
	MarkPostPublished(ctx context.Context, id string, at time.Time) error

	// MarkPostFailed transitions scheduled -> failed with an error message.
	MarkPostFailed(ctx context.Context, id, message string) error
}
