package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/socialmaster/socialmaster/internal/domain"
	"github.com/socialmaster/socialmaster/internal/store"
	"github.com/socialmaster/socialmaster/pkg/cryptox"
	"github.com/socialmaster/socialmaster/pkg/idx"
	"github.com/socialmaster/socialmaster/pkg/slogx"
)

// UserService is the account directory: registration, activation and
// class-code management. Activation and class-code promotion are separate
// operations on purpose; approving an account does not imply granting it any
// capability digits.
type UserService struct {
	Store       store.Store
	RateLimiter *RateLimitService
}

// RegisterParams carries self-registration input.
type RegisterParams struct {
	Username string
	Email    string
	Password string
	Company  string
	Phone    string
	SourceIP string
}

// Register creates a pending account with class code "00000". The new account
// cannot authenticate until an admin activates it. Registration is capped per
// IP over the audit log, reusing the limiter's counting window.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (domain.User, error) {
	l := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     p.Username,
		Email:        p.Email,
		Company:      p.Company,
		Phone:        p.Phone,
		PasswordHash: hash,
		ClassCode:    domain.DefaultClassCode,
		Active:       false,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if !configBool(ctx, tx, domain.ConfigRegistrationEnabled, true) {
			return ErrRegistrationClosed
		}

		maxPerIP := configInt(ctx, tx, domain.ConfigMaxUsersPerIP, DefaultMaxUsersPerIP)
		windowSec := configInt(ctx, tx, domain.ConfigLoginNewDeltaTime, DefaultLoginNewDeltaTime)
		since := time.Now().UTC().Add(-time.Duration(windowSec) * time.Second)

		count, err := tx.AuditLog().CountByIPAction(ctx, p.SourceIP, domain.ActionUserRegistered, since)
		if err != nil {
			return err
		}
		if count >= maxPerIP {
			return ErrRateLimited
		}

		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrConflict
			}
			return err
		}

		return appendAudit(ctx, tx, &user.ID, p.SourceIP, domain.ActionUserRegistered,
			fmt.Sprintf("user %q registered, pending approval", user.Username), nil)
	})
	if err != nil {
		return domain.User{}, err
	}

	l.Info("user registered", slog.String("user_id", user.ID), slog.String("username", user.Username))
	return user, nil
}

// GetByID fetches a user by id.
func (s *UserService) GetByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrNotFound
	}
	return user, err
}

// ListPending returns accounts awaiting activation.
func (s *UserService) ListPending(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListPendingUsers(ctx)
}

// Activate flips the activation flag. Idempotent; activating an already
// active account succeeds without a second audit entry. It never touches the
// class code.
func (s *UserService) Activate(ctx context.Context, actorID, userID, ip string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if user.Active {
			return nil
		}

		if err := tx.Users().ActivateUser(ctx, userID); err != nil {
			return err
		}
		return appendAudit(ctx, tx, &actorID, ip, domain.ActionUserActivated,
			fmt.Sprintf("user %q activated", user.Username),
			map[string]any{"user_id": userID})
	})
}

// SetClassCode replaces a user's 5-digit class code.
func (s *UserService) SetClassCode(ctx context.Context, actorID, userID, code, ip string) error {
	if !domain.ValidClassCode(code) {
		return ErrInvalidClassCode
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Users().UpdateClassCode(ctx, userID, code); err != nil {
			return err
		}
		return appendAudit(ctx, tx, &actorID, ip, domain.ActionClassCodeChanged,
			fmt.Sprintf("class code for %q changed", user.Username),
			map[string]any{"user_id": userID, "old_code": user.ClassCode, "new_code": code})
	})
}

// PromoteAdmin raises the admin digit to the minimal admin level ('5'),
// keeping the capability flags untouched. Explicitly separate from Activate.
func (s *UserService) PromoteAdmin(ctx context.Context, actorID, userID, ip string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if domain.IsAdminCode(user.ClassCode) {
			return nil
		}

		code := user.ClassCode[:domain.ClassCodeLength-1] + "5"
		if err := tx.Users().UpdateClassCode(ctx, userID, code); err != nil {
			return err
		}
		return appendAudit(ctx, tx, &actorID, ip, domain.ActionClassCodeChanged,
			fmt.Sprintf("user %q promoted to admin", user.Username),
			map[string]any{"user_id": userID, "old_code": user.ClassCode, "new_code": code})
	})
}
