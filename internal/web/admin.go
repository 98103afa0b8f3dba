package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/socialmaster/socialmaster/internal/service"
	"github.com/socialmaster/socialmaster/pkg/httpx"
	"github.com/socialmaster/socialmaster/pkg/slogx"
)

// AdminHandler serves the admin surface: user approval, class codes, runtime
// config and the audit trail.
type AdminHandler struct {
	UserService   *service.UserService
	ConfigService *service.ConfigService
	AuditService  *service.AuditService
}

func (h *AdminHandler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.UserService.ListPending(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list pending users", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list pending users")
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *AdminHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	err := h.UserService.Activate(ctx, session.UserID, r.PathValue("id"), httpx.ClientIP(r))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Unknown user")
			return
		}
		slogx.FromContext(ctx).Error("failed to activate user", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to activate user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) HandlePromote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	err := h.UserService.PromoteAdmin(ctx, session.UserID, r.PathValue("id"), httpx.ClientIP(r))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Unknown user")
			return
		}
		slogx.FromContext(ctx).Error("failed to promote user", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to promote user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type classCodeRequest struct {
	ClassCode string `json:"class_code"`
}

func (h *AdminHandler) HandleSetClassCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	var req classCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	err := h.UserService.SetClassCode(ctx, session.UserID, r.PathValue("id"), req.ClassCode, httpx.ClientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidClassCode):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_class_code", "Class code must be exactly 5 decimal digits")
		case errors.Is(err, service.ErrNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Unknown user")
		default:
			slogx.FromContext(ctx).Error("failed to set class code", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to set class code")
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type configResponse struct {
	Variable    string    `json:"variable"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (h *AdminHandler) HandleListConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entries, err := h.ConfigService.ListAll(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list config", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list config")
		return
	}

	out := make([]configResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, configResponse{
			Variable:    e.Variable,
			Value:       e.Value,
			Description: e.Description,
			UpdatedAt:   e.UpdatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

type configUpdateRequest struct {
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

func (h *AdminHandler) HandleSetConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	var req configUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	variable := r.PathValue("variable")
	err := h.ConfigService.Set(ctx, session.UserID, variable, req.Value, req.Description, httpx.ClientIP(r))
	if err != nil {
		slogx.FromContext(ctx).Error("failed to update config", "variable", variable, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to update config")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type auditEntryResponse struct {
	ID          string         `json:"id"`
	UserID      *string        `json:"user_id,omitempty"`
	IP          string         `json:"ip"`
	ActionType  string         `json:"action_type"`
	Description string         `json:"description,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (h *AdminHandler) HandleListAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.AuditService.ListRecent(ctx, limit)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list audit entries", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list audit entries")
		return
	}

	out := make([]auditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditEntryResponse{
			ID:          e.ID,
			UserID:      e.UserID,
			IP:          e.IP,
			ActionType:  e.ActionType,
			Description: e.Description,
			Details:     e.Details,
			CreatedAt:   e.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
