package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/socialmaster/socialmaster/internal/domain"
)

type postsRepo struct {
	db dbtx
}

const postColumns = `id, client_id, content, platforms, media_urls, scheduled_at, status, published_at, error_message, created_at`

func (r *postsRepo) CreatePost(ctx context.Context, p domain.Post) error {
	platforms, err := encodeJSONList(p.Platforms)
	if err != nil {
		return err
	}
	mediaURLs, err := encodeJSONList(p.MediaURLs)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO posts (id, client_id, content, platforms, media_urls, scheduled_at, status, published_at, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.ClientID, p.Content, platforms, mediaURLs,
		p.ScheduledAt, p.Status, mapOptionalTime(p.PublishedAt), p.ErrorMessage, p.CreatedAt,
	)
	return mapConflict(err)
}

func (r *postsRepo) GetPostByID(ctx context.Context, id string) (domain.Post, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	return scanPost(row.Scan)
}

func (r *postsRepo) ListPostsByClient(ctx context.Context, clientID string) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE client_id = ? ORDER BY scheduled_at ASC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *postsRepo) CountPostsByUserSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM posts p
		JOIN clients c ON c.id = p.client_id
		WHERE c.user_id = ? AND p.created_at >= ?`,
		userID, since,
	).Scan(&count)
	return count, err
}

func (r *postsRepo) ListDuePosts(ctx context.Context, now time.Time) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE status = ? AND scheduled_at <= ?
		ORDER BY scheduled_at ASC`,
		domain.PostStatusScheduled, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *postsRepo) MarkPostPublished(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE posts SET status = ?, published_at = ? WHERE id = ? AND status = ?`,
		domain.PostStatusPublished, at, id, domain.PostStatusScheduled)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *postsRepo) MarkPostFailed(ctx context.Context, id, message string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE posts SET status = ?, error_message = ? WHERE id = ? AND status = ?`,
		domain.PostStatusFailed, message, id, domain.PostStatusScheduled)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func scanPost(scan func(dest ...any) error) (domain.Post, error) {
	var p domain.Post
	var platforms, mediaURLs string
	var published sql.NullTime
	err := scan(
		&p.ID, &p.ClientID, &p.Content, &platforms, &mediaURLs,
		&p.ScheduledAt, &p.Status, &published, &p.ErrorMessage, &p.CreatedAt,
	)
	if err != nil {
		return domain.Post{}, mapNotFound(err)
	}
	p.Platforms = decodeJSONList(platforms)
	p.MediaURLs = decodeJSONList(mediaURLs)
	p.PublishedAt = mapNullTimePtr(published)
	return p, nil
}

func collectPosts(rows *sql.Rows) ([]domain.Post, error) {
	var posts []domain.Post
	for rows.Next() {
		p, err := scanPost(rows.Scan)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
