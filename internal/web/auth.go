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

// AuthHandler serves registration, login, logout and the current-user view.
type AuthHandler struct {
	AuthService  *service.AuthService
	UserService  *service.UserService
	CookieSecure bool
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Company  string `json:"company,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type userResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Company   string     `json:"company,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	ClassCode string     `json:"class_code"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	LastUsed  *time.Time `json:"last_used_at,omitempty"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Company:   u.Company,
		Phone:     u.Phone,
		ClassCode: u.ClassCode,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		LastUsed:  u.LastUsedAt,
	}
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "username, email and password are required")
		return
	}

	user, err := h.UserService.Register(ctx, service.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Company:  req.Company,
		Phone:    req.Phone,
		SourceIP: httpx.ClientIP(r),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConflict):
			httpx.WriteError(w, http.StatusConflict, "conflict", "Username or email is already taken")
		case errors.Is(err, service.ErrRegistrationClosed):
			httpx.WriteError(w, http.StatusForbidden, "registration_closed", "Self-registration is disabled")
		case errors.Is(err, service.ErrRateLimited):
			httpx.WriteError(w, http.StatusTooManyRequests, "rate_limited", "Too many registrations from this address")
		default:
			log.Error("failed to register user", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to register")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(user))
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Identifier == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "identifier and password are required")
		return
	}

	res, err := h.AuthService.Login(ctx, req.Identifier, req.Password, httpx.ClientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		case errors.Is(err, service.ErrPendingApproval):
			httpx.WriteError(w, http.StatusForbidden, "pending_approval", "Account is awaiting admin approval")
		case errors.Is(err, service.ErrRateLimited):
			httpx.WriteError(w, http.StatusTooManyRequests, "rate_limited", "Too many failed attempts. Try again later.")
		case errors.Is(err, service.ErrMaintenance):
			httpx.WriteError(w, http.StatusServiceUnavailable, "maintenance_mode", "Service is under maintenance")
		default:
			log.Error("failed to log in", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to log in")
		}
		return
	}

	http.SetCookie(w, h.sessionCookie(res.Token, res.Session.ExpiresAt))
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(res.User))
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := h.AuthService.Logout(ctx, cookie.Value, httpx.ClientIP(r)); err != nil {
			slogx.FromContext(ctx).Error("failed to log out", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to log out")
			return
		}
	}

	// Clear the cookie either way.
	http.SetCookie(w, h.sessionCookie("", time.Unix(0, 0)))
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := mustSession(w, r)
	if !ok {
		return
	}

	user, err := h.UserService.GetByID(ctx, session.UserID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to load current user", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to load user")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
