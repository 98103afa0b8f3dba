package smclient

import (
	"context"
	"net/http"
)

// CreateClient adds a social-media client for the authenticated user.
func (c *Client) CreateClient(ctx context.Context, p CreateClientParams) (*SocialClient, error) {
	var client SocialClient
	if err := c.doJSON(ctx, http.MethodPost, "/v1/clients", p, &client, http.StatusCreated); err != nil {
		return nil, err
	}
	return &client, nil
}

// ListClients returns the authenticated user's clients.
func (c *Client) ListClients(ctx context.Context) ([]SocialClient, error) {
	var clients []SocialClient
	if err := c.doJSON(ctx, http.MethodGet, "/v1/clients", nil, &clients, http.StatusOK); err != nil {
		return nil, err
	}
	return clients, nil
}

// DeleteClient removes a client the user owns.
func (c *Client) DeleteClient(ctx context.Context, clientID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/v1/clients/"+clientID, nil, nil, http.StatusNoContent)
}

// SchedulePost schedules a post for one of the user's clients.
func (c *Client) SchedulePost(ctx context.Context, clientID string, p SchedulePostParams) (*Post, error) {
	var post Post
	if err := c.doJSON(ctx, http.MethodPost, "/v1/clients/"+clientID+"/posts", p, &post, http.StatusCreated); err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts returns a client's scheduled posts.
func (c *Client) ListPosts(ctx context.Context, clientID string) ([]Post, error) {
	var posts []Post
	if err := c.doJSON(ctx, http.MethodGet, "/v1/clients/"+clientID+"/posts", nil, &posts, http.StatusOK); err != nil {
		return nil, err
	}
	return posts, nil
}
