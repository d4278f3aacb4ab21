// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/olegiv/agenda-go/internal/service"
)

// Cache keys for the calendar projection.
const (
	keyCalendarEvents = "calendar:events"
	keyCalendarICS    = "calendar:ics"
)

// Manager provides typed access to the cached calendar projection.
// The projection is invalidated whenever the session collection mutates.
type Manager struct {
	backend Cacher
	ttl     time.Duration
}

// NewManager creates a cache manager over the given backend.
func NewManager(backend Cacher, ttl time.Duration) *Manager {
	return &Manager{backend: backend, ttl: ttl}
}

// GetCalendar returns the cached calendar events, or ok=false on a miss.
func (m *Manager) GetCalendar(ctx context.Context) ([]service.CalendarEvent, bool) {
	data, err := m.backend.Get(ctx, keyCalendarEvents)
	if err != nil {
		return nil, false
	}

	var events []service.CalendarEvent
	if err := json.Unmarshal(data, &events); err != nil {
		// Stale or corrupt entry: drop it and treat as a miss
		_ = m.backend.Delete(ctx, keyCalendarEvents)
		return nil, false
	}
	return events, true
}

// SetCalendar stores the calendar events projection.
func (m *Manager) SetCalendar(ctx context.Context, events []service.CalendarEvent) {
	data, err := json.Marshal(events)
	if err != nil {
		return
	}
	if err := m.backend.Set(ctx, keyCalendarEvents, data, m.ttl); err != nil {
		slog.Debug("caching calendar events failed", "error", err)
	}
}

// GetICS returns the cached iCalendar document, or ok=false on a miss.
func (m *Manager) GetICS(ctx context.Context) ([]byte, bool) {
	data, err := m.backend.Get(ctx, keyCalendarICS)
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetICS stores the rendered iCalendar document.
func (m *Manager) SetICS(ctx context.Context, document []byte) {
	if err := m.backend.Set(ctx, keyCalendarICS, document, m.ttl); err != nil {
		slog.Debug("caching calendar document failed", "error", err)
	}
}

// Invalidate drops all cached calendar entries. Registered as the session
// service's change callback.
func (m *Manager) Invalidate() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = m.backend.Delete(ctx, keyCalendarEvents)
	_ = m.backend.Delete(ctx, keyCalendarICS)
}

// Close closes the underlying backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}
