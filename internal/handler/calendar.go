// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/olegiv/agenda-go/internal/cache"
	"github.com/olegiv/agenda-go/internal/model"
	"github.com/olegiv/agenda-go/internal/service"
)

// CalendarHandler serves the calendar projection of published sessions,
// as display events and as an iCalendar export.
type CalendarHandler struct {
	svc   *service.SessionService
	cache *cache.Manager
}

// NewCalendarHandler creates a calendar handler. The cache manager is
// optional; without it every request recomputes the projection.
func NewCalendarHandler(svc *service.SessionService, cm *cache.Manager) *CalendarHandler {
	return &CalendarHandler{svc: svc, cache: cm}
}

// publishedSessions loads the sessions shown on the calendar.
func (h *CalendarHandler) publishedSessions(r *http.Request) ([]model.Session, error) {
	return h.svc.Filtered(r.Context(), model.SessionFilter{Status: model.StatusPublished})
}

// Events handles GET /api/v1/calendar.
func (h *CalendarHandler) Events(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if events, ok := h.cache.GetCalendar(r.Context()); ok {
			WriteSuccess(w, events, nil)
			return
		}
	}

	sessions, err := h.publishedSessions(r)
	if err != nil {
		slog.Error("listing sessions for calendar failed", "error", err)
		WriteInternalError(w, "Failed to load calendar")
		return
	}

	events := service.ProjectCalendar(sessions)
	if h.cache != nil {
		h.cache.SetCalendar(r.Context(), events)
	}
	WriteSuccess(w, events, nil)
}

// ICS handles GET /api/v1/calendar.ics.
func (h *CalendarHandler) ICS(w http.ResponseWriter, r *http.Request) {
	if h.cache != nil {
		if doc, ok := h.cache.GetICS(r.Context()); ok {
			writeICSResponse(w, doc)
			return
		}
	}

	sessions, err := h.publishedSessions(r)
	if err != nil {
		slog.Error("listing sessions for calendar export failed", "error", err)
		WriteInternalError(w, "Failed to load calendar")
		return
	}

	var buf bytes.Buffer
	if err := service.WriteICS(&buf, sessions); err != nil {
		slog.Error("rendering calendar export failed", "error", err)
		WriteInternalError(w, "Failed to render calendar")
		return
	}

	doc := buf.Bytes()
	if h.cache != nil {
		h.cache.SetICS(r.Context(), doc)
	}
	writeICSResponse(w, doc)
}

func writeICSResponse(w http.ResponseWriter, doc []byte) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="agenda.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}
