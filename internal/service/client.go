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

// ClientService manages the social-media accounts a user schedules posts for.
// Every operation is scoped to the owning user; admins have no cross-tenant
// view here.
type ClientService struct {
	Store store.Store
}

// CreateClientParams carries client creation input.
type CreateClientParams struct {
	UserID      string
	Name        string
	Email       string
	Description string
	Platforms   []string
	SourceIP    string
}

// Create adds a client, enforcing the per-user cap from config.
func (s *ClientService) Create(ctx context.Context, p CreateClientParams) (domain.Client, error) {
	client := domain.Client{
		ID:          idx.New().String(),
		UserID:      p.UserID,
		Name:        p.Name,
		Email:       p.Email,
		Description: p.Description,
		Platforms:   p.Platforms,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		maxClients := configInt(ctx, tx, domain.ConfigMaxClientsPerUser, DefaultMaxClientsPerUser)
		count, err := tx.Clients().CountClientsByUser(ctx, p.UserID)
		if err != nil {
			return err
		}
		if count >= maxClients {
			return ErrForbidden
		}

		if err := tx.Clients().CreateClient(ctx, client); err != nil {
			return err
		}
		return appendAudit(ctx, tx, &p.UserID, p.SourceIP, domain.ActionClientCreated,
			fmt.Sprintf("client %q created", client.Name),
			map[string]any{"client_id": client.ID, "platforms": client.Platforms})
	})
	if err != nil {
		return domain.Client{}, err
	}
	return client, nil
}

// Get returns a client owned by userID.
func (s *ClientService) Get(ctx context.Context, userID, clientID string) (domain.Client, error) {
	client, err := s.Store.Clients().GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Client{}, ErrNotFound
		}
		return domain.Client{}, err
	}
	if client.UserID != userID {
		return domain.Client{}, ErrNotFound
	}
	return client, nil
}

// ListByUser returns the caller's clients.
func (s *ClientService) ListByUser(ctx context.Context, userID string) ([]domain.Client, error) {
	return s.Store.Clients().ListClientsByUser(ctx, userID)
}

// Delete removes a client the caller owns. Scheduled posts for the client are
// removed with it by the store's cascade.
func (s *ClientService) Delete(ctx context.Context, userID, clientID, ip string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		client, err := tx.Clients().GetClientByID(ctx, clientID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotFound
			}
			return err
		}
		if client.UserID != userID {
			return ErrNotFound
		}

		if err := tx.Clients().DeleteClient(ctx, clientID); err != nil {
			return err
		}
		return appendAudit(ctx, tx, &userID, ip, domain.ActionClientDeleted,
			fmt.Sprintf("client %q deleted", client.Name),
			map[string]any{"client_id": clientID})
	})
}
