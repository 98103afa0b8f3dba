package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/socialmaster/socialmaster/internal/domain"
	"github.com/socialmaster/socialmaster/internal/store"
	"github.com/socialmaster/socialmaster/internal/store/drivers/sqlite"
	"github.com/socialmaster/socialmaster/pkg/cryptox"
	"github.com/socialmaster/socialmaster/pkg/idx"
)

var pepperOnce sync.Once

func initPepper(t *testing.T) {
	t.Helper()
	pepperOnce.Do(func() {
		cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))
	})
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	initPepper(t)

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

// stack bundles the services under test over one shared store.
type stack struct {
	Store store.Store
	Cfg   *ConfigService
	RL    *RateLimitService
	Users *UserService
	Auth  *AuthService
}

func newStack(t *testing.T) *stack {
	t.Helper()

	st := newTestStore(t)
	cfg := &ConfigService{Store: st}
	require.NoError(t, cfg.SeedDefaults(context.Background()))

	rl := &RateLimitService{Store: st}
	return &stack{
		Store: st,
		Cfg:   cfg,
		RL:    rl,
		Users: &UserService{Store: st, RateLimiter: rl},
		Auth:  &AuthService{Store: st, RateLimiter: rl},
	}
}

// seedUser inserts a user directly, bypassing registration limits.
func seedUser(t *testing.T, st store.Store, username, password, classCode string, active bool) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	user := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		ClassCode:    classCode,
		Active:       active,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), user))
	return user
}

// backdateAudit plants an audit entry with an old timestamp so window-expiry
// behaviour is testable without sleeping.
func backdateAudit(t *testing.T, st store.Store, ip, actionType string, age time.Duration) {
	t.Helper()

	entry := domain.AuditEntry{
		ID:         idx.New().String(),
		IP:         ip,
		ActionType: actionType,
		CreatedAt:  time.Now().UTC().Add(-age),
	}
	require.NoError(t, st.AuditLog().AppendEntry(context.Background(), entry))
}

// countAudit counts all entries for (ip, action) regardless of age.
func countAudit(t *testing.T, st store.Store, ip, actionType string) int {
	t.Helper()

	n, err := st.AuditLog().CountByIPAction(context.Background(), ip, actionType, time.Unix(0, 0))
	require.NoError(t, err)
	return n
}
