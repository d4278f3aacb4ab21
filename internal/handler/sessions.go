// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/agenda-go/internal/imaging"
	"github.com/olegiv/agenda-go/internal/middleware"
	"github.com/olegiv/agenda-go/internal/model"
	"github.com/olegiv/agenda-go/internal/render"
	"github.com/olegiv/agenda-go/internal/service"
	"github.com/olegiv/agenda-go/internal/util"
)

// Form limits from the session form: titles shorter than 3 runes and
// descriptions shorter than 10 are rejected.
const (
	minTitleLen       = 3
	minDescriptionLen = 10
)

// SessionHandler handles the session collection routes.
type SessionHandler struct {
	svc          *service.SessionService
	eventService *service.EventService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(db *sql.DB, svc *service.SessionService) *SessionHandler {
	return &SessionHandler{
		svc:          svc,
		eventService: service.NewEventService(db),
	}
}

// SessionResponse represents a session in API responses.
type SessionResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description"`
	DescriptionHTML string    `json:"description_html,omitempty"`
	Category        string    `json:"category"`
	City            string    `json:"city"`
	StartsAt        time.Time `json:"starts_at"`
	Status          string    `json:"status"`
	Color           string    `json:"color"`
	ImageURL        string    `json:"image_url,omitempty"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateSessionRequest is the request body for creating a session.
type CreateSessionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	City        string `json:"city"`
	StartsAt    string `json:"starts_at"`
	Status      string `json:"status,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// UpdateSessionRequest is the request body for a partial session update.
type UpdateSessionRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	City        *string `json:"city,omitempty"`
	StartsAt    *string `json:"starts_at,omitempty"`
	Status      *string `json:"status,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

func sessionToResponse(s model.Session) SessionResponse {
	resp := SessionResponse{
		ID:          s.ID,
		Title:       s.Title,
		Slug:        s.Slug,
		Description: s.Description,
		Category:    s.Category,
		City:        s.City,
		StartsAt:    s.StartsAt,
		Status:      s.Status,
		Color:       model.CategoryColor(s.Category),
		ImageURL:    s.ImageURL,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}

	if html, err := render.Markdown(s.Description); err == nil {
		resp.DescriptionHTML = html
	}

	return resp
}

func sessionsToResponse(sessions []model.Session) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionToResponse(s))
	}
	return out
}

// List handles GET /api/v1/sessions with optional category, status and q
// filter parameters. Filters are conjunctive and preserve insertion order.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.SessionFilter{
		Category:   q.Get("category"),
		Status:     q.Get("status"),
		SearchTerm: q.Get("q"),
	}

	if filter.Category != "" && !model.IsValidCategory(filter.Category) {
		WriteValidationError(w, map[string]string{"category": "Unknown category"})
		return
	}
	if filter.Status != "" && !model.IsValidStatus(filter.Status) {
		WriteValidationError(w, map[string]string{"status": "Unknown status"})
		return
	}

	sessions, err := h.svc.Filtered(r.Context(), filter)
	if err != nil {
		slog.Error("listing sessions", "error", err)
		WriteInternalError(w, "Failed to list sessions")
		return
	}

	WriteSuccess(w, sessionsToResponse(sessions), &Meta{Total: len(sessions)})
}

// Get handles GET /api/v1/sessions/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			WriteNotFound(w, "Session not found")
		} else {
			slog.Error("retrieving session", "error", err, "id", id)
			WriteInternalError(w, "Failed to retrieve session")
		}
		return
	}

	WriteSuccess(w, sessionToResponse(session), nil)
}

// Create handles POST /api/v1/sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	validationErrors := make(map[string]string)
	validateTitle(req.Title, validationErrors)
	validateDescription(req.Description, validationErrors)
	validateCategory(req.Category, true, validationErrors)
	validateCity(req.City, true, validationErrors)
	if req.Status != "" && !model.IsValidStatus(req.Status) {
		validationErrors["status"] = "Unknown status"
	}

	startsAt, _ := parseStartsAt(req.StartsAt, true, validationErrors)
	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return
	}

	imageURL, ok := normalizeImage(w, req.ImageURL)
	if !ok {
		return
	}

	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}

	session, err := h.svc.Create(r.Context(), service.CreateSessionParams{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Category:    req.Category,
		City:        req.City,
		StartsAt:    startsAt,
		Status:      req.Status,
		ImageURL:    imageURL,
		CreatedBy:   user.Email,
	})
	if err != nil {
		slog.Error("creating session", "error", err)
		WriteInternalError(w, "Failed to create session")
		return
	}

	_ = h.eventService.LogSessionEvent(r.Context(), model.EventLevelInfo, "Session created", &user.ID, util.ClientIP(r), map[string]any{"session_id": session.ID, "title": session.Title})

	WriteCreated(w, sessionToResponse(session))
}

// Update handles PUT /api/v1/sessions/{id}. Only supplied fields change.
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	validationErrors := make(map[string]string)
	params := service.UpdateSessionParams{
		Description: req.Description,
	}

	if req.Title != nil {
		validateTitle(*req.Title, validationErrors)
		trimmed := strings.TrimSpace(*req.Title)
		params.Title = &trimmed
	}
	if req.Description != nil {
		validateDescription(*req.Description, validationErrors)
	}
	if req.Category != nil {
		validateCategory(*req.Category, true, validationErrors)
		params.Category = req.Category
	}
	if req.City != nil {
		validateCity(*req.City, true, validationErrors)
		params.City = req.City
	}
	if req.Status != nil {
		if !model.IsValidStatus(*req.Status) {
			validationErrors["status"] = "Unknown status"
		}
		params.Status = req.Status
	}
	if req.StartsAt != nil {
		t, err := time.Parse(time.RFC3339, *req.StartsAt)
		if err != nil {
			validationErrors["starts_at"] = "Invalid date format. Use RFC3339 (e.g., 2026-01-03T10:00:00Z)"
		} else {
			params.StartsAt = &t
		}
	}
	if len(validationErrors) > 0 {
		WriteValidationError(w, validationErrors)
		return
	}

	if req.ImageURL != nil {
		imageURL, ok := normalizeImage(w, *req.ImageURL)
		if !ok {
			return
		}
		params.ImageURL = &imageURL
	}

	session, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			WriteNotFound(w, "Session not found")
		} else {
			slog.Error("updating session", "error", err, "id", id)
			WriteInternalError(w, "Failed to update session")
		}
		return
	}

	_ = h.eventService.LogSessionEvent(r.Context(), model.EventLevelInfo, "Session updated", middleware.GetUserIDPtr(r), util.ClientIP(r), map[string]any{"session_id": session.ID})

	WriteSuccess(w, sessionToResponse(session), nil)
}

// Delete handles DELETE /api/v1/sessions/{id}. The acting user must share
// the session's city; deleting an absent id succeeds as a no-op.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}

	deleted, err := h.svc.Delete(r.Context(), user, id)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			WriteForbidden(w, "Sessions can only be deleted by users from the same city")
			return
		}
		slog.Error("deleting session", "error", err, "id", id)
		WriteInternalError(w, "Failed to delete session")
		return
	}

	if deleted {
		_ = h.eventService.LogSessionEvent(r.Context(), model.EventLevelInfo, "Session deleted", &user.ID, util.ClientIP(r), map[string]any{"session_id": id})
	}

	w.WriteHeader(http.StatusNoContent)
}

func validateTitle(title string, errs map[string]string) {
	if utf8.RuneCountInString(strings.TrimSpace(title)) < minTitleLen {
		errs["title"] = fmt.Sprintf("Title must be at least %d characters", minTitleLen)
	}
}

func validateDescription(description string, errs map[string]string) {
	if utf8.RuneCountInString(strings.TrimSpace(description)) < minDescriptionLen {
		errs["description"] = fmt.Sprintf("Description must be at least %d characters", minDescriptionLen)
	}
}

func validateCategory(category string, required bool, errs map[string]string) {
	if category == "" {
		if required {
			errs["category"] = "Category is required"
		}
		return
	}
	if !model.IsValidCategory(category) {
		errs["category"] = "Unknown category"
	}
}

func validateCity(city string, required bool, errs map[string]string) {
	if city == "" {
		if required {
			errs["city"] = "City is required"
		}
		return
	}
	if !model.IsValidCity(city) {
		errs["city"] = "Unknown city"
	}
}

func parseStartsAt(value string, required bool, errs map[string]string) (time.Time, error) {
	if value == "" {
		if required {
			errs["starts_at"] = "Start time is required"
		}
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		errs["starts_at"] = "Invalid date format. Use RFC3339 (e.g., 2026-01-03T10:00:00Z)"
		return time.Time{}, err
	}
	return t, nil
}

// normalizeImage validates an optional session image. Data URIs are decoded
// and re-encoded; plain URLs pass through. Returns false if a response was
// already written.
func normalizeImage(w http.ResponseWriter, imageURL string) (string, bool) {
	if imageURL == "" {
		return "", true
	}

	if strings.HasPrefix(imageURL, "data:") {
		normalized, err := imaging.NormalizeDataURI(imageURL)
		if err != nil {
			if errors.Is(err, imaging.ErrImageTooLarge) {
				WriteValidationError(w, map[string]string{"image_url": "Image exceeds the maximum size"})
			} else {
				WriteValidationError(w, map[string]string{"image_url": "Invalid image data"})
			}
			return "", false
		}
		return normalized, true
	}

	if !strings.HasPrefix(imageURL, "http://") && !strings.HasPrefix(imageURL, "https://") {
		WriteValidationError(w, map[string]string{"image_url": "Image must be a data URI or an http(s) URL"})
		return "", false
	}
	return imageURL, true
}
