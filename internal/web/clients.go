package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/socialmaster/socialmaster/internal/domain"
	"github.com/socialmaster/socialmaster/internal/service"
	"github.com/socialmaster/socialmaster/pkg/httpx"
	"github.com/socialmaster/socialmaster/pkg/slogx"
)

// ClientsHandler serves the caller's clients and their scheduled posts.
type ClientsHandler struct {
	ClientService *service.ClientService
	PostService   *service.PostService
}

type createClientRequest struct {
	Name        string   `json:"name"`
	Email       string   `json:"email,omitempty"`
	Description string   `json:"description,omitempty"`
	Platforms   []string `json:"platforms,omitempty"`
}

type clientResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Description string    `json:"description,omitempty"`
	Platforms   []string  `json:"platforms,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

func toClientResponse(c domain.Client) clientResponse {
	return clientResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		Description: c.Description,
		Platforms:   c.Platforms,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
	}
}

func (h *ClientsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	var req createClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Name == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	client, err := h.ClientService.Create(ctx, service.CreateClientParams{
		UserID:      session.UserID,
		Name:        req.Name,
		Email:       req.Email,
		Description: req.Description,
		Platforms:   req.Platforms,
		SourceIP:    httpx.ClientIP(r),
	})
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "Client limit reached")
			return
		}
		slogx.FromContext(ctx).Error("failed to create client", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create client")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toClientResponse(client))
}

func (h *ClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	clients, err := h.ClientService.ListByUser(ctx, session.UserID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list clients", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list clients")
		return
	}

	out := make([]clientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *ClientsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	err := h.ClientService.Delete(ctx, session.UserID, r.PathValue("id"), httpx.ClientIP(r))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Unknown client")
			return
		}
		slogx.FromContext(ctx).Error("failed to delete client", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to delete client")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type schedulePostRequest struct {
	Content     string    `json:"content"`
	Platforms   []string  `json:"platforms,omitempty"`
	MediaURLs   []string  `json:"media_urls,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
}

type postResponse struct {
	ID           string     `json:"id"`
	ClientID     string     `json:"client_id"`
	Content      string     `json:"content"`
	Platforms    []string   `json:"platforms,omitempty"`
	MediaURLs    []string   `json:"media_urls,omitempty"`
	ScheduledAt  time.Time  `json:"scheduled_at"`
	Status       string     `json:"status"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toPostResponse(p domain.Post) postResponse {
	return postResponse{
		ID:           p.ID,
		ClientID:     p.ClientID,
		Content:      p.Content,
		Platforms:    p.Platforms,
		MediaURLs:    p.MediaURLs,
		ScheduledAt:  p.ScheduledAt,
		Status:       p.Status,
		PublishedAt:  p.PublishedAt,
		ErrorMessage: p.ErrorMessage,
		CreatedAt:    p.CreatedAt,
	}
}

func (h *ClientsHandler) HandleSchedulePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	var req schedulePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Content == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "content is required")
		return
	}
	if req.ScheduledAt.IsZero() {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "scheduled_at is required")
		return
	}

	post, err := h.PostService.Schedule(ctx, service.SchedulePostParams{
		UserID:      session.UserID,
		ClientID:    r.PathValue("id"),
		Content:     req.Content,
		Platforms:   req.Platforms,
		MediaURLs:   req.MediaURLs,
		ScheduledAt: req.ScheduledAt,
		SourceIP:    httpx.ClientIP(r),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Unknown client")
		case errors.Is(err, service.ErrRateLimited):
			httpx.WriteError(w, http.StatusTooManyRequests, "rate_limited", "Daily post limit reached")
		default:
			slogx.FromContext(ctx).Error("failed to schedule post", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to schedule post")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toPostResponse(post))
}

func (h *ClientsHandler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	posts, err := h.PostService.ListByClient(ctx, session.UserID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Unknown client")
			return
		}
		slogx.FromContext(ctx).Error("failed to list posts", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list posts")
		return
	}

	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
