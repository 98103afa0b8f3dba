package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/socialmaster/socialmaster/internal/domain"
)

func TestLoginSuccess(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	user := seedUser(t, s.Store, "alice", "correct horse", "00000", true)

	res, err := s.Auth.Login(ctx, "alice", "correct horse", "10.0.0.1")
	require.NoError(t, err)
	require.Equal(t, user.ID, res.User.ID)
	require.Equal(t, domain.RoleUser, res.Session.Role)
	require.NotEmpty(t, res.Token)

	// Token resolves back to the session until it expires.
	session, err := s.Auth.SessionFromToken(ctx, res.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, session.UserID)

	require.Equal(t, 1, countAudit(t, s.Store, "10.0.0.1", domain.ActionLoginSuccess))

	// Last-seen metadata is stamped.
	got, err := s.Store.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastUsedAt)
	require.Equal(t, "10.0.0.1", got.LastSeenIP)
}

func TestLoginByEmail(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	seedUser(t, s.Store, "bob", "pw", "00000", true)

	_, err := s.Auth.Login(ctx, "bob@example.com", "pw", "10.0.0.1")
	require.NoError(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	seedUser(t, s.Store, "alice", "right", "00000", true)

	_, err := s.Auth.Login(ctx, "alice", "wrong", "10.0.0.2")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, 1, countAudit(t, s.Store, "10.0.0.2", domain.ActionLoginFailed))
}

func TestLoginUnknownUserIndistinguishable(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)

	_, err := s.Auth.Login(ctx, "nobody", "whatever", "10.0.0.3")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, 1, countAudit(t, s.Store, "10.0.0.3", domain.ActionLoginFailed))
}

func TestPendingAccountCannotAuthenticate(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	seedUser(t, s.Store, "newbie", "pw", "00000", false)

	_, err := s.Auth.Login(ctx, "newbie", "pw", "10.0.0.4")
	require.ErrorIs(t, err, ErrPendingApproval)

	// A correct-password pending attempt is not a failed login.
	require.Equal(t, 0, countAudit(t, s.Store, "10.0.0.4", domain.ActionLoginFailed))
}

func TestPendingAccountRetriesNeverRateLimit(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	seedUser(t, s.Store, "patient", "pw", "00000", false)

	for i := 0; i < 20; i++ {
		_, err := s.Auth.Login(ctx, "patient", "pw", "10.0.0.5")
		require.ErrorIs(t, err, ErrPendingApproval)
	}
	require.Equal(t, 0, countAudit(t, s.Store, "10.0.0.5", domain.ActionLoginFailed))
	require.Equal(t, 0, countAudit(t, s.Store, "10.0.0.5", domain.ActionRateLimitExceeded))
}

func TestRateLimitTripsAfterMaxFailures(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	seedUser(t, s.Store, "victim", "secret", "00000", true)
	ip := "10.1.0.1"

	for i := 0; i < DefaultLoginFailsNew; i++ {
		_, err := s.Auth.Login(ctx, "victim", "wrong", ip)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// The fifth failure crossed the threshold and wrote the block marker.
	require.Equal(t, 1, countAudit(t, s.Store, ip, domain.ActionRateLimitExceeded))

	// The next attempt is refused outright, even with correct credentials.
	_, err := s.Auth.Login(ctx, "victim", "secret", ip)
	require.ErrorIs(t, err, ErrRateLimited)

	// The blocked attempt added no failed-login entry.
	require.Equal(t, DefaultLoginFailsNew, countAudit(t, s.Store, ip, domain.ActionLoginFailed))
}

func TestRateLimitIsPerIP(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	seedUser(t, s.Store, "shared", "secret", "00000", true)

	for i := 0; i < DefaultLoginFailsNew; i++ {
		_, err := s.Auth.Login(ctx, "shared", "wrong", "10.2.0.1")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err := s.Auth.Login(ctx, "shared", "secret", "10.2.0.1")
	require.ErrorIs(t, err, ErrRateLimited)

	// Another IP is unaffected.
	_, err = s.Auth.Login(ctx, "shared", "secret", "10.2.0.2")
	require.NoError(t, err)
}

func TestRateLimitBlockExpires(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	seedUser(t, s.Store, "slow", "secret", "00000", true)
	ip := "10.3.0.1"

	// A block marker older than LoginNewTimeout no longer blocks.
	backdateAudit(t, s.Store, ip, domain.ActionRateLimitExceeded,
		time.Duration(DefaultLoginNewTimeout+60)*time.Second)

	_, err := s.Auth.Login(ctx, "slow", "secret", ip)
	require.NoError(t, err)
}

func TestRateLimitCountingWindowSlides(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	seedUser(t, s.Store, "slider", "secret", "00000", true)
	ip := "10.3.0.2"

	// Old failures outside LoginNewDeltaTime do not count toward the ceiling.
	for i := 0; i < DefaultLoginFailsNew; i++ {
		backdateAudit(t, s.Store, ip, domain.ActionLoginFailed,
			time.Duration(DefaultLoginNewDeltaTime+60)*time.Second)
	}

	_, err := s.Auth.Login(ctx, "slider", "wrong", ip)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, 0, countAudit(t, s.Store, ip, domain.ActionRateLimitExceeded))
}

func TestConcurrentFailedLoginsAllRecorded(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)

	// Raise the ceiling so no attempt is blocked mid-storm.
	require.NoError(t, s.Store.Config().Upsert(ctx, domain.ConfigLoginFailsNew, "1000", ""))

	seedUser(t, s.Store, "storm", "secret", "00000", true)
	ip := "10.4.0.1"

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Auth.Login(ctx, "storm", "wrong", ip)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	require.Equal(t, n, countAudit(t, s.Store, ip, domain.ActionLoginFailed))
}

func TestMaintenanceModeBlocksNonAdmins(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	require.NoError(t, s.Store.Config().Upsert(ctx, domain.ConfigMaintenanceMode, "true", ""))

	seedUser(t, s.Store, "plain", "pw", "00000", true)
	seedUser(t, s.Store, "boss", "pw", "00005", true)

	_, err := s.Auth.Login(ctx, "plain", "pw", "10.5.0.1")
	require.ErrorIs(t, err, ErrMaintenance)

	_, err = s.Auth.Login(ctx, "boss", "pw", "10.5.0.1")
	require.NoError(t, err)
}

func TestSessionRoleSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	user := seedUser(t, s.Store, "climber", "pw", "00000", true)
	actor := seedUser(t, s.Store, "root", "pw", "99999", true)

	res, err := s.Auth.Login(ctx, "climber", "pw", "10.6.0.1")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, res.Session.Role)

	// Promotion does not touch the live session; the snapshot holds.
	require.NoError(t, s.Users.PromoteAdmin(ctx, actor.ID, user.ID, "10.6.0.1"))
	session, err := s.Auth.SessionFromToken(ctx, res.Token)
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, session.Role)

	// A fresh login picks up the new role.
	res2, err := s.Auth.Login(ctx, "climber", "pw", "10.6.0.1")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, res2.Session.Role)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	seedUser(t, s.Store, "leaver", "pw", "00000", true)

	res, err := s.Auth.Login(ctx, "leaver", "pw", "10.7.0.1")
	require.NoError(t, err)

	require.NoError(t, s.Auth.Logout(ctx, res.Token, "10.7.0.1"))
	_, err = s.Auth.SessionFromToken(ctx, res.Token)
	require.ErrorIs(t, err, ErrSessionInvalid)

	// Logging out again is a no-op.
	require.NoError(t, s.Auth.Logout(ctx, res.Token, "10.7.0.1"))
	require.Equal(t, 1, countAudit(t, s.Store, "10.7.0.1", domain.ActionLogout))
}

func TestExpiredSessionRejected(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	s.Auth.SessionTTL = -time.Minute // sessions are born expired

	seedUser(t, s.Store, "ghost", "pw", "00000", true)
	res, err := s.Auth.Login(ctx, "ghost", "pw", "10.8.0.1")
	require.NoError(t, err)

	_, err = s.Auth.SessionFromToken(ctx, res.Token)
	require.ErrorIs(t, err, ErrSessionInvalid)
}
