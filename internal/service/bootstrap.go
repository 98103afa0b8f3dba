package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/socialmaster/socialmaster/internal/domain"
	"github.com/socialmaster/socialmaster/internal/store"
	"github.com/socialmaster/socialmaster/pkg/cryptox"
	"github.com/socialmaster/socialmaster/pkg/idx"
	"github.com/socialmaster/socialmaster/pkg/slogx"
)

// BootstrapParams carries deployment-time credentials for the first admin.
// Password comes from the environment; when empty a random one is generated
// and logged once. It is never a source literal.
type BootstrapParams struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// Bootstrap prepares an empty deployment: seeds config defaults and, when no
// user exists at all, creates the super-admin account with class code 99999.
// Safe to run on every boot.
func Bootstrap(ctx context.Context, st store.Store, cfg *ConfigService, p BootstrapParams) error {
	l := slogx.FromContext(ctx)

	if err := cfg.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("seed config defaults: %w", err)
	}

	empty, err := st.Users().IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("check users: %w", err)
	}
	if !empty {
		return nil
	}

	password := p.AdminPassword
	generated := false
	if password == "" {
		password, err = cryptox.GeneratePassword()
		if err != nil {
			return fmt.Errorf("generate admin password: %w", err)
		}
		generated = true
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := domain.User{
		ID:           idx.New().String(),
		Username:     p.AdminUsername,
		Email:        p.AdminEmail,
		PasswordHash: hash,
		ClassCode:    domain.SuperAdminClassCode,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	err = st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, admin); err != nil {
			return err
		}
		return appendAudit(ctx, tx, nil, "system", domain.ActionAdminCreation,
			fmt.Sprintf("bootstrap admin %q created", admin.Username),
			map[string]any{"user_id": admin.ID})
	})
	if err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}

	if generated {
		l.Warn("generated bootstrap admin password, change it after first login",
			slog.String("username", admin.Username), slog.String("password", password))
	} else {
		l.Info("bootstrap admin created", slog.String("username", admin.Username))
	}
	return nil
}
