package smclient

import (
	"context"
	"net/http"
	"strconv"
)

// Admin endpoints. All of these require a session whose role snapshot is
// admin; the server answers 403 otherwise.

// ListPendingUsers returns accounts awaiting activation.
func (c *Client) ListPendingUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.doJSON(ctx, http.MethodGet, "/v1/admin/users/pending", nil, &users, http.StatusOK); err != nil {
		return nil, err
	}
	return users, nil
}

// ActivateUser approves a pending account.
func (c *Client) ActivateUser(ctx context.Context, userID string) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/admin/users/"+userID+"/activate", nil, nil, http.StatusNoContent)
}

// PromoteUser raises a user's admin digit to the minimal admin level.
func (c *Client) PromoteUser(ctx context.Context, userID string) error {
	return c.doJSON(ctx, http.MethodPost, "/v1/admin/users/"+userID+"/promote", nil, nil, http.StatusNoContent)
}

// SetClassCode replaces a user's 5-digit class code.
func (c *Client) SetClassCode(ctx context.Context, userID, classCode string) error {
	body := map[string]string{"class_code": classCode}
	return c.doJSON(ctx, http.MethodPut, "/v1/admin/users/"+userID+"/class-code", body, nil, http.StatusNoContent)
}

// ListConfig returns every runtime config variable.
func (c *Client) ListConfig(ctx context.Context) ([]ConfigEntry, error) {
	var entries []ConfigEntry
	if err := c.doJSON(ctx, http.MethodGet, "/v1/admin/config", nil, &entries, http.StatusOK); err != nil {
		return nil, err
	}
	return entries, nil
}

// SetConfig updates (or creates) a runtime config variable.
func (c *Client) SetConfig(ctx context.Context, variable, value, description string) error {
	body := map[string]string{"value": value, "description": description}
	return c.doJSON(ctx, http.MethodPut, "/v1/admin/config/"+variable, body, nil, http.StatusNoContent)
}

// ListAudit returns the newest audit entries. limit <= 0 uses the server
// default.
func (c *Client) ListAudit(ctx context.Context, limit int) ([]AuditEntry, error) {
	path := "/v1/admin/audit"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var entries []AuditEntry
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &entries, http.StatusOK); err != nil {
		return nil, err
	}
	return entries, nil
}
