package sqlite

import (
	"context"

	"github.com/socialmaster/socialmaster/internal/domain"
)

type clientsRepo struct {
	db dbtx
}

func (r *clientsRepo) CreateClient(ctx context.Context, c domain.Client) error {
	platforms, err := encodeJSONList(c.Platforms)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO clients (id, user_id, name, email, description, platforms, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, c.Email, c.Description, platforms, c.Active, c.CreatedAt,
	)
	return mapConflict(err)
}

func (r *clientsRepo) GetClientByID(ctx context.Context, id string) (domain.Client, error) {
	var c domain.Client
	var platforms string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, email, description, platforms, active, created_at
		FROM clients WHERE id = ?`, id,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Description, &platforms, &c.Active, &c.CreatedAt)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	c.Platforms = decodeJSONList(platforms)
	return c, nil
}

func (r *clientsRepo) ListClientsByUser(ctx context.Context, userID string) ([]domain.Client, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, email, description, platforms, active, created_at
		FROM clients WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		var c domain.Client
		var platforms string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Description, &platforms, &c.Active, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Platforms = decodeJSONList(platforms)
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *clientsRepo) CountClientsByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM clients WHERE user_id = ?`, userID).Scan(&count)
	return count, err
}

func (r *clientsRepo) DeleteClient(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
