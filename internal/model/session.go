// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"time"
)

// Session categories. The values are the fixed Spanish domain labels and are
// stored verbatim.
const (
	CategoryFormacion   = "Formación"
	CategoryReunion     = "Reunión"
	CategoryDemo        = "Demo"
	CategoryWorkshop    = "Workshop"
	CategoryConferencia = "Conferencia"
)

// Session statuses (lifecycle stages of a session record).
const (
	StatusDraft     = "borrador"
	StatusLocked    = "bloqueado"
	StatusHidden    = "oculto"
	StatusPublished = "publicado"
)

// Categories lists all valid session categories.
var Categories = []string{
	CategoryFormacion,
	CategoryReunion,
	CategoryDemo,
	CategoryWorkshop,
	CategoryConferencia,
}

// Statuses lists all valid session statuses.
var Statuses = []string{
	StatusDraft,
	StatusLocked,
	StatusHidden,
	StatusPublished,
}

// Cities lists the cities sessions can be scheduled in.
var Cities = []string{"Madrid", "Barcelona", "Valencia", "Sevilla", "Bilbao"}

// DefaultEventColor is the calendar color for unrecognized categories.
const DefaultEventColor = "#95a5a6"

// categoryColors maps each category to its fixed calendar color.
var categoryColors = map[string]string{
	CategoryFormacion:   "#3498db",
	CategoryReunion:     "#9b59b6",
	CategoryDemo:        "#e74c3c",
	CategoryWorkshop:    "#f39c12",
	CategoryConferencia: "#1abc9c",
}

// CategoryColor returns the calendar color for a category, falling back to
// DefaultEventColor for unknown values.
func CategoryColor(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return DefaultEventColor
}

// IsValidCategory reports whether category is one of the fixed categories.
func IsValidCategory(category string) bool {
	_, ok := categoryColors[category]
	return ok
}

// IsValidStatus reports whether status is one of the fixed statuses.
func IsValidStatus(status string) bool {
	for _, s := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidCity reports whether city is in the fixed city list.
func IsValidCity(city string) bool {
	for _, c := range Cities {
		if c == city {
			return true
		}
	}
	return false
}

// Session is a schedulable event/activity record (not an auth session).
type Session struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	City        string    `json:"city"`
	StartsAt    time.Time `json:"starts_at"`
	Status      string    `json:"status"`
	ImageURL    string    `json:"image_url,omitempty"` // data URI or URL
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsPublished reports whether the session is visible on the public calendar.
func (s *Session) IsPublished() bool {
	return s.Status == StatusPublished
}

// SessionFilter is a transient query over the session collection. Zero-value
// fields are skipped; present fields combine conjunctively.
type SessionFilter struct {
	Category   string
	Status     string
	SearchTerm string
}

// IsZero reports whether no criteria are set.
func (f SessionFilter) IsZero() bool {
	return f.Category == "" && f.Status == "" && f.SearchTerm == ""
}
