package sqlite

import (
	"context"
	"time"

	"github.com/socialmaster/socialmaster/internal/domain"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (token_hash, id, user_id, role, ip, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.TokenHash, s.ID, s.UserID, string(s.Role), s.IP, s.CreatedAt, s.ExpiresAt,
	)
	return mapConflict(err)
}

func (r *sessionsRepo) GetSessionByTokenHash(ctx context.Context, hash string) (domain.Session, error) {
	var s domain.Session
	var role string
	err := r.db.QueryRowContext(ctx, `
		SELECT token_hash, id, user_id, role, ip, created_at, expires_at
		FROM sessions WHERE token_hash = ?`, hash,
	).Scan(&s.TokenHash, &s.ID, &s.UserID, &role, &s.IP, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.Role = domain.Role(role)
	return s, nil
}

func (r *sessionsRepo) DeleteSessionByTokenHash(ctx context.Context, hash string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE token_hash = ?`, hash)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, now)
	return err
}
