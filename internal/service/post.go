package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/socialmaster/socialmaster/internal/domain"
	"github.com/socialmaster/socialmaster/internal/store"
	"github.com/socialmaster/socialmaster/pkg/idx"
)

// PostService schedules posts against a user's clients. Publishing itself is
// out of scope; ListDue and the Mark* operations exist for an external
// publisher to drive.
type PostService struct {
	Store store.Store
}

// SchedulePostParams carries scheduling input.
type SchedulePostParams struct {
	UserID      string
	ClientID    string
	Content     string
	Platforms   []string
	MediaURLs   []string
	ScheduledAt time.Time
	SourceIP    string
}

// Schedule creates a scheduled post after checking client ownership and the
// per-user daily cap. The day boundary is midnight UTC.
func (s *PostService) Schedule(ctx context.Context, p SchedulePostParams) (domain.Post, error) {
	if p.Content == "" {
		return domain.Post{}, fmt.Errorf("%w: empty content", ErrForbidden)
	}

	post := domain.Post{
		ID:          idx.New().String(),
		ClientID:    p.ClientID,
		Content:     p.Content,
		Platforms:   p.Platforms,
		MediaURLs:   p.MediaURLs,
		ScheduledAt: p.ScheduledAt.UTC(),
		Status:      domain.PostStatusScheduled,
		CreatedAt:   time.Now().UTC(),
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		client, err := tx.Clients().GetClientByID(ctx, p.ClientID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if client.UserID != p.UserID {
			return ErrNotFound
		}

		maxPerDay := configInt(ctx, tx, domain.ConfigMaxPostsPerDay, DefaultMaxPostsPerDay)
		dayStart := time.Now().UTC().Truncate(24 * time.Hour)
		count, err := tx.Posts().CountPostsByUserSince(ctx, p.UserID, dayStart)
		if err != nil {
			return err
		}
		if count >= maxPerDay {
			return ErrRateLimited
		}

		if err := tx.Posts().CreatePost(ctx, post); err != nil {
			return err
		}
		return appendAudit(ctx, tx, &p.UserID, p.SourceIP, domain.ActionPostScheduled,
			fmt.Sprintf("post scheduled for client %q", client.Name),
			map[string]any{"post_id": post.ID, "client_id": p.ClientID, "scheduled_at": post.ScheduledAt.Format(time.RFC3339)})
	})
	if err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

// ListByClient returns a client's posts after checking ownership.
func (s *PostService) ListByClient(ctx context.Context, userID, clientID string) ([]domain.Post, error) {
	client, err := s.Store.Clients().GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if client.UserID != userID {
		return nil, ErrNotFound
	}
	return s.Store.Posts().ListPostsByClient(ctx, clientID)
}

// ListDue returns scheduled posts whose time has come, oldest first.
func (s *PostService) ListDue(ctx context.Context) ([]domain.Post, error) {
	return s.Store.Posts().ListDuePosts(ctx, time.Now().UTC())
}

// MarkPublished records a successful publish.
func (s *PostService) MarkPublished(ctx context.Context, postID string) error {
	err := s.Store.Posts().MarkPostPublished(ctx, postID, time.Now().UTC())
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// MarkFailed records a failed publish with the publisher's error message.
func (s *PostService) MarkFailed(ctx context.Context, postID, message string) error {
	err := s.Store.Posts().MarkPostFailed(ctx, postID, message)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
