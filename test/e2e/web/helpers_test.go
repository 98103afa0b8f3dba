package web_test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/socialmaster/socialmaster/internal/service"
	"github.com/socialmaster/socialmaster/internal/store"
	"github.com/socialmaster/socialmaster/internal/store/drivers/sqlite"
	"github.com/socialmaster/socialmaster/internal/web"
	"github.com/socialmaster/socialmaster/pkg/cryptox"
	"github.com/socialmaster/socialmaster/pkg/smclient"
)

/*
 * End-to-end tests for the web service. The full application stack (sqlite
 * store, services, router) runs in-process behind httptest and is driven
 * through the smclient API client, cookies and all.
 */

const (
	adminUsername = "admin"
	adminEmail    = "admin@example.com"
	adminPassword = "Admin123!"
)

var pepperOnce sync.Once

// setupServer boots a fresh application stack and returns its base URL plus
// the backing store for direct assertions.
func setupServer(t *testing.T) (string, store.Store) {
	t.Helper()
	pepperOnce.Do(func() {
		cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))
	})

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	cfg := &service.ConfigService{Store: st}
	require.NoError(t, service.Bootstrap(context.Background(), st, cfg, service.BootstrapParams{
		AdminUsername: adminUsername,
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
	}))

	rl := &service.RateLimitService{Store: st}
	router := web.NewRouter("e2e", st, slog.Default())
	router.AuthService = &service.AuthService{Store: st, RateLimiter: rl}
	router.UserService = &service.UserService{Store: st, RateLimiter: rl}
	router.ConfigService = cfg
	router.AuditService = &service.AuditService{Store: st}
	router.ClientService = &service.ClientService{Store: st}
	router.PostService = &service.PostService{Store: st}
	router.CookieSecure = false // httptest serves plain HTTP
	router.ApplyRoutes()

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server.URL, st
}

// newClient returns an API client with its own cookie jar.
func newClient(t *testing.T, baseURL string) *smclient.Client {
	t.Helper()
	c, err := smclient.New(baseURL)
	require.NoError(t, err)
	return c
}

// loginAdmin returns a client already authenticated as the bootstrap admin.
func loginAdmin(t *testing.T, baseURL string) *smclient.Client {
	t.Helper()
	c := newClient(t, baseURL)
	_, err := c.Login(context.Background(), adminUsername, adminPassword)
	require.NoError(t, err)
	return c
}
