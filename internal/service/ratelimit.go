package service

import (
	"context"
	"fmt"
	"time"

	"github.com/socialmaster/socialmaster/internal/domain"
	"github.com/socialmaster/socialmaster/internal/store"
)

// RateLimitService slows brute-force attempts per source IP using a sliding
// window derived from the audit log. There is no separate counter table: the
// `login_failed` entries written by the authenticator are the substrate, and
// tripping the limiter writes a `rate_limit_exceeded` entry that drives the
// block window.
type RateLimitService struct {
	Store store.Store
}

// Decision is the outcome of a rate-limit check.
type Decision struct {
	Allowed   bool
	Remaining int
	Window    time.Duration
}

// st returns the store to run against: the provided transaction when the
// caller is mid-operation, otherwise the service's own store.
func (s *RateLimitService) st(tx store.Store) store.Store {
	if tx != nil {
		return tx
	}
	return s.Store
}

// Check counts audit entries for (ip, actionType) inside the configured
// sliding window. When the ceiling is hit it appends a rate_limit_exceeded
// entry; that entry is what IsBlocked keys on. Pass the enclosing Tx so the
// count and the append commit together.
func (s *RateLimitService) Check(ctx context.Context, tx store.Store, ip, actionType string) (Decision, error) {
	st := s.st(tx)

	maxAttempts := configInt(ctx, st, domain.ConfigLoginFailsNew, DefaultLoginFailsNew)
	windowSec := configInt(ctx, st, domain.ConfigLoginNewDeltaTime, DefaultLoginNewDeltaTime)
	window := time.Duration(windowSec) * time.Second

	since := time.Now().UTC().Add(-window)
	count, err := st.AuditLog().CountByIPAction(ctx, ip, actionType, since)
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit count: %w", err)
	}

	decision := Decision{
		Allowed:   count < maxAttempts,
		Remaining: max(0, maxAttempts-count),
		Window:    window,
	}

	if !decision.Allowed {
		err := appendAudit(ctx, st, nil, ip, domain.ActionRateLimitExceeded,
			fmt.Sprintf("rate limit exceeded for %s", actionType),
			map[string]any{"attempts": count, "max_attempts": maxAttempts, "action_type": actionType})
		if err != nil {
			return Decision{}, err
		}
	}

	return decision, nil
}

// IsBlocked reports whether the IP has a rate_limit_exceeded entry inside the
// block window. The block window is independent from the counting window: a
// block persists for its full timeout regardless of further attempts.
func (s *RateLimitService) IsBlocked(ctx context.Context, tx store.Store, ip string) (bool, error) {
	st := s.st(tx)

	timeoutSec := configInt(ctx, st, domain.ConfigLoginNewTimeout, DefaultLoginNewTimeout)
	since := time.Now().UTC().Add(-time.Duration(timeoutSec) * time.Second)

	count, err := st.AuditLog().CountByIPAction(ctx, ip, domain.ActionRateLimitExceeded, since)
	if err != nil {
		return false, fmt.Errorf("rate limit block check: %w", err)
	}
	return count > 0, nil
}
