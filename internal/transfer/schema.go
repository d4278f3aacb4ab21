// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer provides import/export of the session collection as a
// single JSON document.
package transfer

import (
	"time"

	"github.com/olegiv/agenda-go/internal/model"
)

// ExportVersion is the current version of the export format.
const ExportVersion = "1.0"

// ExportData is the complete export document: the whole session collection
// serialized as one blob. Importing it replaces the collection wholesale.
type ExportData struct {
	Version    string          `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	Sessions   []ExportSession `json:"sessions"`
}

// ExportSession is a session record in the export format. It mirrors the
// stored record field for field so export followed by import is lossless.
type ExportSession struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	City        string    `json:"city"`
	StartsAt    time.Time `json:"starts_at"`
	Status      string    `json:"status"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// fromModel converts a stored session to its export form.
func fromModel(s model.Session) ExportSession {
	return ExportSession(s)
}

// toModel converts an export record back to a stored session.
func (e ExportSession) toModel() model.Session {
	return model.Session(e)
}
