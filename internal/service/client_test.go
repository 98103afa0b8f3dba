package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/socialmaster/socialmaster/internal/domain"
)

func newClientStack(t *testing.T) (*stack, *ClientService, *PostService) {
	t.Helper()
	s := newStack(t)
	return s, &ClientService{Store: s.Store}, &PostService{Store: s.Store}
}

func TestClientLifecycle(t *testing.T) {
	ctx := context.Background()
	s, clients, _ := newClientStack(t)
	user := seedUser(t, s.Store, "owner", "pw", "00000", true)

	client, err := clients.Create(ctx, CreateClientParams{
		UserID:    user.ID,
		Name:      "Cafe Nine",
		Email:     "social@cafenine.example",
		Platforms: []string{"facebook", "instagram"},
		SourceIP:  "10.30.0.1",
	})
	require.NoError(t, err)
	require.True(t, client.Active)

	got, err := clients.Get(ctx, user.ID, client.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"facebook", "instagram"}, got.Platforms)

	list, err := clients.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, clients.Delete(ctx, user.ID, client.ID, "10.30.0.1"))
	_, err = clients.Get(ctx, user.ID, client.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClientOwnershipScoping(t *testing.T) {
	ctx := context.Background()
	s, clients, _ := newClientStack(t)
	owner := seedUser(t, s.Store, "owner", "pw", "00000", true)
	intruder := seedUser(t, s.Store, "intruder", "pw", "00000", true)

	client, err := clients.Create(ctx, CreateClientParams{UserID: owner.ID, Name: "Private", SourceIP: "10.30.0.2"})
	require.NoError(t, err)

	// Foreign clients read as not-found, not forbidden.
	_, err = clients.Get(ctx, intruder.ID, client.ID)
	require.ErrorIs(t, err, ErrNotFound)

	err = clients.Delete(ctx, intruder.ID, client.ID, "10.30.0.2")
	require.ErrorIs(t, err, ErrNotFound)

	// Still there for the owner.
	_, err = clients.Get(ctx, owner.ID, client.ID)
	require.NoError(t, err)
}

func TestClientPerUserCap(t *testing.T) {
	ctx := context.Background()
	s, clients, _ := newClientStack(t)
	require.NoError(t, s.Store.Config().Upsert(ctx, domain.ConfigMaxClientsPerUser, "2", ""))
	user := seedUser(t, s.Store, "owner", "pw", "00000", true)

	for i := 0; i < 2; i++ {
		_, err := clients.Create(ctx, CreateClientParams{UserID: user.ID, Name: fmt.Sprintf("c%d", i), SourceIP: "10.30.0.3"})
		require.NoError(t, err)
	}

	_, err := clients.Create(ctx, CreateClientParams{UserID: user.ID, Name: "overflow", SourceIP: "10.30.0.3"})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestSchedulePost(t *testing.T) {
	ctx := context.Background()
	s, clients, posts := newClientStack(t)
	user := seedUser(t, s.Store, "owner", "pw", "00000", true)

	client, err := clients.Create(ctx, CreateClientParams{UserID: user.ID, Name: "Cafe", SourceIP: "10.31.0.1"})
	require.NoError(t, err)

	when := time.Now().UTC().Add(2 * time.Hour)
	post, err := posts.Schedule(ctx, SchedulePostParams{
		UserID:      user.ID,
		ClientID:    client.ID,
		Content:     "Opening hours update",
		Platforms:   []string{"facebook"},
		ScheduledAt: when,
		SourceIP:    "10.31.0.1",
	})
	require.NoError(t, err)
	require.Equal(t, domain.PostStatusScheduled, post.Status)

	list, err := posts.ListByClient(ctx, user.ID, client.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 1, countAudit(t, s.Store, "10.31.0.1", domain.ActionPostScheduled))
}

func TestScheduleForeignClient(t *testing.T) {
	ctx := context.Background()
	s, clients, posts := newClientStack(t)
	owner := seedUser(t, s.Store, "owner", "pw", "00000", true)
	intruder := seedUser(t, s.Store, "intruder", "pw", "00000", true)

	client, err := clients.Create(ctx, CreateClientParams{UserID: owner.ID, Name: "Cafe", SourceIP: "10.31.0.2"})
	require.NoError(t, err)

	_, err = posts.Schedule(ctx, SchedulePostParams{
		UserID:      intruder.ID,
		ClientID:    client.ID,
		Content:     "spam",
		ScheduledAt: time.Now().UTC(),
		SourceIP:    "10.31.0.2",
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleDailyCap(t *testing.T) {
	ctx := context.Background()
	s, clients, posts := newClientStack(t)
	require.NoError(t, s.Store.Config().Upsert(ctx, domain.ConfigMaxPostsPerDay, "2", ""))
	user := seedUser(t, s.Store, "owner", "pw", "00000", true)

	client, err := clients.Create(ctx, CreateClientParams{UserID: user.ID, Name: "Cafe", SourceIP: "10.31.0.3"})
	require.NoError(t, err)

	when := time.Now().UTC().Add(time.Hour)
	for i := 0; i < 2; i++ {
		_, err := posts.Schedule(ctx, SchedulePostParams{
			UserID: user.ID, ClientID: client.ID, Content: fmt.Sprintf("post %d", i),
			ScheduledAt: when, SourceIP: "10.31.0.3",
		})
		require.NoError(t, err)
	}

	_, err = posts.Schedule(ctx, SchedulePostParams{
		UserID: user.ID, ClientID: client.ID, Content: "one too many",
		ScheduledAt: when, SourceIP: "10.31.0.3",
	})
	require.ErrorIs(t, err, ErrRateLimited)
}

func TestPostPublishLifecycle(t *testing.T) {
	ctx := context.Background()
	s, clients, posts := newClientStack(t)
	user := seedUser(t, s.Store, "owner", "pw", "00000", true)

	client, err := clients.Create(ctx, CreateClientParams{UserID: user.ID, Name: "Cafe", SourceIP: "10.31.0.4"})
	require.NoError(t, err)

	due, err := posts.Schedule(ctx, SchedulePostParams{
		UserID: user.ID, ClientID: client.ID, Content: "due now",
		ScheduledAt: time.Now().UTC().Add(-time.Minute), SourceIP: "10.31.0.4",
	})
	require.NoError(t, err)

	_, err = posts.Schedule(ctx, SchedulePostParams{
		UserID: user.ID, ClientID: client.ID, Content: "much later",
		ScheduledAt: time.Now().UTC().Add(24 * time.Hour), SourceIP: "10.31.0.4",
	})
	require.NoError(t, err)

	pending, err := posts.ListDue(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, due.ID, pending[0].ID)

	require.NoError(t, posts.MarkPublished(ctx, due.ID))
	got, err := s.Store.Posts().GetPostByID(ctx, due.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PostStatusPublished, got.Status)
	require.NotNil(t, got.PublishedAt)

	// Published posts drop out of the due list.
	pending, err = posts.ListDue(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestPostMarkFailed(t *testing.T) {
	ctx := context.Background()
	s, clients, posts := newClientStack(t)
	user := seedUser(t, s.Store, "owner", "pw", "00000", true)

	client, err := clients.Create(ctx, CreateClientParams{UserID: user.ID, Name: "Cafe", SourceIP: "10.31.0.5"})
	require.NoError(t, err)

	post, err := posts.Schedule(ctx, SchedulePostParams{
		UserID: user.ID, ClientID: client.ID, Content: "doomed",
		ScheduledAt: time.Now().UTC().Add(-time.Minute), SourceIP: "10.31.0.5",
	})
	require.NoError(t, err)

	require.NoError(t, posts.MarkFailed(ctx, post.ID, "platform rejected media"))
	got, err := s.Store.Posts().GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, domain.PostStatusFailed, got.Status)
	require.Equal(t, "platform rejected media", got.ErrorMessage)
}
