package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/socialmaster/socialmaster/internal/domain"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, username, email, company, phone, password_hash, class_code, active, created_at, last_used_at, last_accessed_ip`

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var lastUsed sql.NullTime
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.Company, &u.Phone,
		&u.PasswordHash, &u.ClassCode, &u.Active, &u.CreatedAt,
		&lastUsed, &u.LastSeenIP,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.LastUsedAt = mapNullTimePtr(lastUsed)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? OR email = ?`,
		identifier, identifier)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, company, phone, password_hash, class_code, active, created_at, last_used_at, last_accessed_ip)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.Company, u.Phone,
		u.PasswordHash, u.ClassCode, u.Active, u.CreatedAt,
		mapOptionalTime(u.LastUsedAt), u.LastSeenIP,
	)
	return mapConflict(err)
}

func (r *usersRepo) ActivateUser(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET active = 1 WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) UpdateClassCode(ctx context.Context, userID, code string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET class_code = ? WHERE id = ?`, code, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) UpdateLastSeen(ctx context.Context, userID, ip string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_used_at = ?, last_accessed_ip = ? WHERE id = ?`,
		at, ip, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) ListPendingUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE active = 0 ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		var lastUsed sql.NullTime
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.Company, &u.Phone,
			&u.PasswordHash, &u.ClassCode, &u.Active, &u.CreatedAt,
			&lastUsed, &u.LastSeenIP,
		); err != nil {
			return nil, err
		}
		u.LastUsedAt = mapNullTimePtr(lastUsed)
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}
