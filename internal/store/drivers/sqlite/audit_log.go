package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/socialmaster/socialmaster/internal/domain"
)

type auditLogRepo struct {
	db dbtx
}

func (r *auditLogRepo) AppendEntry(ctx context.Context, e domain.AuditEntry) error {
	var details sql.NullString
	if len(e.Details) > 0 {
		raw, err := json.Marshal(e.Details)
		if err != nil {
			return err
		}
		details = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_log (id, user_id, ip, action_type, description, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, mapOptionalString(e.UserID), e.IP, e.ActionType,
		e.Description, details, e.CreatedAt,
	)
	return err
}

func (r *auditLogRepo) CountByIPAction(ctx context.Context, ip, actionType string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM audit_log
		WHERE ip = ? AND action_type = ? AND created_at >= ?`,
		ip, actionType, since,
	).Scan(&count)
	return count, err
}

func (r *auditLogRepo) ListRecentEntries(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, ip, action_type, description, details, created_at
		FROM audit_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var userID, details sql.NullString
		if err := rows.Scan(&e.ID, &userID, &e.IP, &e.ActionType, &e.Description, &details, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.UserID = mapNullStringPtr(userID)
		if details.Valid {
			_ = json.Unmarshal([]byte(details.String), &e.Details)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
