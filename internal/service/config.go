package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/socialmaster/socialmaster/internal/domain"
	"github.com/socialmaster/socialmaster/internal/store"
	"github.com/socialmaster/socialmaster/pkg/slogx"
)

// Built-in fallbacks, used when a config row is missing or unparseable.
// SeedDefaults writes the same values at first boot.
const (
	DefaultLoginFailsNew     = 5
	DefaultLoginNewDeltaTime = 600 // seconds
	DefaultLoginNewTimeout   = 600 // seconds
	DefaultMaxUsersPerIP     = 5
	DefaultMaxClientsPerUser = 10
	DefaultMaxPostsPerDay    = 100
)

type configDefault struct {
	variable    string
	value       string
	description string
}

var configDefaults = []configDefault{
	{domain.ConfigLoginFailsNew, strconv.Itoa(DefaultLoginFailsNew), "Maximum failed login attempts per IP inside the counting window"},
	{domain.ConfigLoginNewDeltaTime, strconv.Itoa(DefaultLoginNewDeltaTime), "Sliding window for counting failed logins (seconds)"},
	{domain.ConfigLoginNewTimeout, strconv.Itoa(DefaultLoginNewTimeout), "How long an IP stays blocked after tripping the limiter (seconds)"},
	{domain.ConfigMaxUsersPerIP, strconv.Itoa(DefaultMaxUsersPerIP), "Maximum registrations per IP inside the counting window"},
	{domain.ConfigRegistrationEnabled, "true", "Enable self-registration"},
	{domain.ConfigMaintenanceMode, "false", "Refuse non-admin logins while enabled"},
	{domain.ConfigMaxClientsPerUser, strconv.Itoa(DefaultMaxClientsPerUser), "Maximum clients per user"},
	{domain.ConfigMaxPostsPerDay, strconv.Itoa(DefaultMaxPostsPerDay), "Maximum scheduled posts per user per day"},
}

// ConfigService wraps the config table. Reads go through helpers that fall
// back to built-in defaults so a missing row never breaks a rate-limit check.
type ConfigService struct {
	Store store.Store
}

// SeedDefaults inserts any missing default rows. Existing values, including
// operator overrides, are left untouched.
func (s *ConfigService) SeedDefaults(ctx context.Context) error {
	for _, def := range configDefaults {
		if err := s.Store.Config().SeedDefault(ctx, def.variable, def.value, def.description); err != nil {
			return err
		}
	}
	return nil
}

// ListAll returns every config entry for the admin surface.
func (s *ConfigService) ListAll(ctx context.Context) ([]domain.ConfigEntry, error) {
	return s.Store.Config().ListAll(ctx)
}

// Set updates (or creates) a variable and audits the change.
func (s *ConfigService) Set(ctx context.Context, actorID, variable, value, description, ip string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Config().Upsert(ctx, variable, value, description); err != nil {
			return err
		}
		return appendAudit(ctx, tx, &actorID, ip, domain.ActionConfigUpdated,
			"config variable "+variable+" updated",
			map[string]any{"variable": variable, "value": value})
	})
}

// configInt reads an integer config variable from st, falling back to the
// built-in default when the row is missing or malformed. st may be a Tx so
// rate-limit checks read config inside their transaction.
func configInt(ctx context.Context, st store.Store, variable string, fallback int) int {
	raw, err := st.Config().GetValue(ctx, variable)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		slogx.FromContext(ctx).Warn("config variable not an integer, using default",
			"variable", variable, "value", raw)
		return fallback
	}
	return n
}

// configBool reads a boolean config variable with a fallback.
func configBool(ctx context.Context, st store.Store, variable string, fallback bool) bool {
	raw, err := st.Config().GetValue(ctx, variable)
	if err != nil {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return fallback
	}
}
