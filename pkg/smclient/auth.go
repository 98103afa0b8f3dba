package smclient

import (
	"context"
	"net/http"
)

// Register creates a pending account. It does not log in; the account has to
// be activated by an admin first.
func (c *Client) Register(ctx context.Context, p RegisterParams) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/register", p, &user, http.StatusCreated); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and stores the session cookie in the client's jar.
// identifier may be the username or the email.
func (c *Client) Login(ctx context.Context, identifier, password string) (*User, error) {
	body := map[string]string{"identifier": identifier, "password": password}

	var user User
	if err := c.doJSON(ctx, http.MethodPost, "/v1/auth/login", body, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout ends the session. The server clears the cookie.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/auth/logout", nil, nil, http.StatusNoContent)
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, "/v1/me", nil, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// Livez checks the liveness probe.
func (c *Client) Livez(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.doJSON(ctx, http.MethodGet, "/livez", nil, &h, http.StatusOK); err != nil {
		return nil, err
	}
	return &h, nil
}

// Readyz checks the readiness probe.
func (c *Client) Readyz(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, &h, http.StatusOK); err != nil {
		return nil, err
	}
	return &h, nil
}
