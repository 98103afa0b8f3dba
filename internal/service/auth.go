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

// DefaultSessionTTL is how long a session lives without re-authentication.
const DefaultSessionTTL = 24 * time.Hour

// AuthService authenticates credentials and manages opaque session tokens.
// The whole login sequence, block check, credential verification, audit
// append and session creation, runs in one transaction so concurrent attempts
// from the same IP serialize against the audit log.
type AuthService struct {
	Store       store.Store
	RateLimiter *RateLimitService

	// SessionTTL overrides DefaultSessionTTL when non-zero.
	SessionTTL time.Duration
}

// LoginResult carries the plaintext session token back to the transport
// layer. The token is never stored; only its fingerprint is.
type LoginResult struct {
	User    domain.User
	Session domain.Session
	Token   string
}

func (s *AuthService) sessionTTL() time.Duration {
	if s.SessionTTL != 0 {
		return s.SessionTTL
	}
	return DefaultSessionTTL
}

// Login runs the authentication state machine:
//
//  1. IP blocked: fail with ErrRateLimited before touching credentials.
//  2. Unknown identifier or wrong password: append login_failed, re-check the
//     limiter (the fresh entry counts), fail with ErrInvalidCredentials.
//  3. Correct password on an inactive account: ErrPendingApproval with no
//     audit entry, so a pending user retrying never trips the limiter.
//  4. Maintenance mode shuts out non-admins after verification.
//  5. Success: create the session, append login_success, stamp last-seen.
func (s *AuthService) Login(ctx context.Context, identifier, password, ip string) (LoginResult, error) {
	l := slogx.FromContext(ctx)

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return LoginResult{}, fmt.Errorf("generate session token: %w", err)
	}

	// Outcome errors are carried out-of-band so the transaction still commits:
	// the login_failed and rate_limit_exceeded appends on the failure path are
	// the rate limiter's state and must survive the rejection.
	var result LoginResult
	var outcome error
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		blocked, err := s.RateLimiter.IsBlocked(ctx, tx, ip)
		if err != nil {
			return err
		}
		if blocked {
			outcome = ErrRateLimited
			return nil
		}

		user, err := tx.Users().GetUserByIdentifier(ctx, identifier)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				outcome = ErrInvalidCredentials
				return s.recordFailure(ctx, tx, nil, identifier, ip)
			}
			return err
		}

		if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
			if errors.Is(err, cryptox.ErrPasswordMismatch) {
				outcome = ErrInvalidCredentials
				return s.recordFailure(ctx, tx, &user.ID, identifier, ip)
			}
			return fmt.Errorf("verify password: %w", err)
		}

		if !user.Active {
			outcome = ErrPendingApproval
			return nil
		}

		role := domain.RoleForClassCode(user.ClassCode)
		if configBool(ctx, tx, domain.ConfigMaintenanceMode, false) && role != domain.RoleAdmin {
			outcome = ErrMaintenance
			return nil
		}

		now := time.Now().UTC()
		session := domain.Session{
			ID:        idx.New().String(),
			TokenHash: cryptox.FingerprintToken(token),
			UserID:    user.ID,
			Role:      role,
			IP:        ip,
			CreatedAt: now,
			ExpiresAt: now.Add(s.sessionTTL()),
		}
		if err := tx.Sessions().CreateSession(ctx, session); err != nil {
			return err
		}

		err = appendAudit(ctx, tx, &user.ID, ip, domain.ActionLoginSuccess,
			fmt.Sprintf("user %q logged in", user.Username), nil)
		if err != nil {
			return err
		}
		if err := tx.Users().UpdateLastSeen(ctx, user.ID, ip, now); err != nil {
			return err
		}

		result = LoginResult{User: user, Session: session, Token: token}
		return nil
	})
	if err != nil {
		return LoginResult{}, err
	}
	if outcome != nil {
		return LoginResult{}, outcome
	}

	l.Info("login", slog.String("user_id", result.User.ID), slog.String("role", string(result.Session.Role)))
	return result, nil
}

// recordFailure appends a login_failed entry, then runs the limiter check so
// the failure that crossed the threshold also writes the block marker. The
// block only surfaces on the next attempt; this one still reads as a plain
// credential failure.
func (s *AuthService) recordFailure(ctx context.Context, tx store.Tx, userID *string, identifier, ip string) error {
	err := appendAudit(ctx, tx, userID, ip, domain.ActionLoginFailed,
		fmt.Sprintf("failed login for %q", identifier), nil)
	if err != nil {
		return err
	}
	_, err = s.RateLimiter.Check(ctx, tx, ip, domain.ActionLoginFailed)
	return err
}

// SessionFromToken resolves a plaintext token to its live session. Expired
// sessions are deleted on sight.
func (s *AuthService) SessionFromToken(ctx context.Context, token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, ErrSessionInvalid
	}

	hash := cryptox.FingerprintToken(token)
	session, err := s.Store.Sessions().GetSessionByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrSessionInvalid
		}
		return domain.Session{}, err
	}

	if session.Expired(time.Now().UTC()) {
		_ = s.Store.Sessions().DeleteSessionByTokenHash(ctx, hash)
		return domain.Session{}, ErrSessionInvalid
	}
	return session, nil
}

// Logout deletes the session and audits the event. Deleting an unknown or
// already-deleted token is a no-op.
func (s *AuthService) Logout(ctx context.Context, token, ip string) error {
	if token == "" {
		return nil
	}
	hash := cryptox.FingerprintToken(token)

	session, err := s.Store.Sessions().GetSessionByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().DeleteSessionByTokenHash(ctx, hash); err != nil {
			return err
		}
		return appendAudit(ctx, tx, &session.UserID, ip, domain.ActionLogout, "user logged out", nil)
	})
}
