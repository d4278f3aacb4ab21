// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/mileusna/useragent"

	"github.com/olegiv/agenda-go/internal/geoip"
	"github.com/olegiv/agenda-go/internal/middleware"
	"github.com/olegiv/agenda-go/internal/model"
	"github.com/olegiv/agenda-go/internal/service"
	"github.com/olegiv/agenda-go/internal/util"
)

// AuthHandler handles authentication routes.
type AuthHandler struct {
	authService     *service.AuthService
	sessionManager  *scs.SessionManager
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
	geo             *geoip.Lookup
}

// NewAuthHandler creates a new AuthHandler. geo may be nil when country
// lookup is not configured.
func NewAuthHandler(db *sql.DB, sm *scs.SessionManager, lp *middleware.LoginProtection, geo *geoip.Lookup) *AuthHandler {
	return &AuthHandler{
		authService:     service.NewAuthService(db),
		sessionManager:  sm,
		eventService:    service.NewEventService(db),
		loginProtection: lp,
		geo:             geo,
	}
}

// LoginRequest is the request body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses. The role is derived from
// the email domain, never stored.
type UserResponse struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	City        string     `json:"city,omitempty"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func userToResponse(u *model.User) UserResponse {
	resp := UserResponse{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		City:  u.City,
		Role:  u.Role(),
	}
	if u.LastLoginAt.Valid {
		resp.LastLoginAt = &u.LastLoginAt.Time
	}
	return resp
}

// loginMetadata builds event-log metadata from the request's user agent and,
// when available, the client's country.
func (h *AuthHandler) loginMetadata(r *http.Request, email string) map[string]any {
	ua := useragent.Parse(r.UserAgent())

	device := "desktop"
	switch {
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	case ua.Bot:
		device = "bot"
	}

	metadata := map[string]any{
		"email":   email,
		"browser": ua.Name,
		"os":      ua.OS,
		"device":  device,
	}
	if h.geo != nil {
		if country := h.geo.LookupCountry(util.ClientIP(r)); country != "" {
			metadata["country"] = country
		}
	}
	return metadata
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	if req.Email == "" || req.Password == "" {
		validationErrors := make(map[string]string)
		if req.Email == "" {
			validationErrors["email"] = "Email is required"
		}
		if req.Password == "" {
			validationErrors["password"] = "Password is required"
		}
		WriteValidationError(w, validationErrors)
		return
	}

	clientIP := util.ClientIP(r)

	// Check if the account is locked before touching the database
	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(req.Email); locked {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login attempt on locked account", nil, clientIP, h.loginMetadata(r, req.Email))
			WriteError(w, http.StatusTooManyRequests, "account_locked",
				"Account temporarily locked. Try again in "+remaining.Round(time.Second).String(), nil)
			return
		}
	}

	user, err := h.authService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Login failed", nil, clientIP, h.loginMetadata(r, req.Email))

			// Record the failure even for unknown emails to prevent enumeration
			if h.loginProtection != nil {
				if locked, lockDuration := h.loginProtection.RecordFailedAttempt(req.Email); locked {
					_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, "Account locked due to failed attempts", nil, clientIP, map[string]any{"email": req.Email, "duration": lockDuration.String()})
					WriteError(w, http.StatusTooManyRequests, "account_locked",
						"Too many failed attempts. Try again in "+lockDuration.Round(time.Second).String(), nil)
					return
				}
			}

			// Same message for unknown email and wrong password
			WriteUnauthorized(w, "Invalid email or password")
			return
		}

		slog.Error("login error", "error", err)
		WriteInternalError(w, "Login failed")
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(req.Email)
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		slog.Error("session renewal error", "error", err)
		WriteInternalError(w, "Login failed")
		return
	}

	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged in", &user.ID, clientIP, h.loginMetadata(r, user.Email))

	WriteSuccess(w, userToResponse(&user), nil)
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID)

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
		WriteInternalError(w, "Logout failed")
		return
	}

	if userID > 0 {
		_ = h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged out", &userID, util.ClientIP(r), nil)
	}

	WriteSuccess(w, map[string]string{"status": "logged_out"}, nil)
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}

	WriteSuccess(w, userToResponse(user), nil)
}
