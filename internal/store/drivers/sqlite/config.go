package sqlite

import (
	"context"
	"time"

	"github.com/socialmaster/socialmaster/internal/domain"
)

type configRepo struct {
	db dbtx
}

func (r *configRepo) GetValue(ctx context.Context, variable string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM config WHERE variable = ?`, variable).Scan(&value)
	if err != nil {
		return "", mapNotFound(err)
	}
	return value, nil
}

func (r *configRepo) Upsert(ctx context.Context, variable, value, description string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (variable, value, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (variable) DO UPDATE SET
			value = excluded.value,
			description = CASE WHEN excluded.description != '' THEN excluded.description ELSE config.description END,
			updated_at = excluded.updated_at`,
		variable, value, description, now, now,
	)
	return err
}

func (r *configRepo) SeedDefault(ctx context.Context, variable, value, description string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (variable, value, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (variable) DO NOTHING`,
		variable, value, description, now, now,
	)
	return err
}

func (r *configRepo) ListAll(ctx context.Context) ([]domain.ConfigEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT variable, value, description, created_at, updated_at
		FROM config ORDER BY variable ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ConfigEntry
	for rows.Next() {
		var e domain.ConfigEntry
		if err := rows.Scan(&e.Variable, &e.Value, &e.Description, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
