// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/olegiv/agenda-go/internal/model"
	"github.com/olegiv/agenda-go/internal/store"
)

// ErrInvalidData marks an import document that failed validation. The stored
// collection is left untouched in that case.
var ErrInvalidData = errors.New("invalid import data")

// ValidationError describes a single problem found in an import document.
type ValidationError struct {
	ID      string `json:"id,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Importer replaces the session collection with an import document.
type Importer struct {
	store *store.Queries
	db    *sql.DB
}

// NewImporter creates a new Importer instance.
func NewImporter(queries *store.Queries, db *sql.DB) *Importer {
	return &Importer{store: queries, db: db}
}

// Validate checks an import document without touching the database.
func (i *Importer) Validate(data *ExportData) []ValidationError {
	var errs []ValidationError
	add := func(id, field, message string) {
		errs = append(errs, ValidationError{ID: id, Field: field, Message: message})
	}

	if data == nil {
		add("", "document", "empty document")
		return errs
	}
	if data.Sessions == nil {
		add("", "sessions", "missing sessions collection")
		return errs
	}

	seen := make(map[string]bool, len(data.Sessions))
	for _, s := range data.Sessions {
		if s.ID == "" {
			add(s.ID, "id", "missing id")
			continue
		}
		if seen[s.ID] {
			add(s.ID, "id", "duplicate id")
		}
		seen[s.ID] = true

		if utf8.RuneCountInString(s.Title) < 3 {
			add(s.ID, "title", "title must be at least 3 characters")
		}
		if utf8.RuneCountInString(s.Description) < 10 {
			add(s.ID, "description", "description must be at least 10 characters")
		}
		if !model.IsValidCategory(s.Category) {
			add(s.ID, "category", fmt.Sprintf("unknown category %q", s.Category))
		}
		if !model.IsValidCity(s.City) {
			add(s.ID, "city", fmt.Sprintf("unknown city %q", s.City))
		}
		if !model.IsValidStatus(s.Status) {
			add(s.ID, "status", fmt.Sprintf("unknown status %q", s.Status))
		}
		if s.StartsAt.IsZero() {
			add(s.ID, "starts_at", "missing start time")
		}
		if s.CreatedBy == "" {
			add(s.ID, "created_by", "missing creator")
		}
	}
	return errs
}

// ImportResult reports the outcome of an import.
type ImportResult struct {
	Imported int               `json:"imported"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// Import validates the document and, if valid, replaces the whole collection
// in a single transaction. An invalid document returns ErrInvalidData with
// the per-record problems in the result; the stored collection is unchanged.
func (i *Importer) Import(ctx context.Context, data *ExportData) (*ImportResult, error) {
	if errs := i.Validate(data); len(errs) > 0 {
		return &ImportResult{Errors: errs}, ErrInvalidData
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	queries := i.store.WithTx(tx)

	if err := queries.DeleteAllSessions(ctx); err != nil {
		return nil, fmt.Errorf("clearing sessions: %w", err)
	}
	for _, s := range data.Sessions {
		if err := queries.CreateSession(ctx, s.toModel()); err != nil {
			return nil, fmt.Errorf("importing session %s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing import: %w", err)
	}
	return &ImportResult{Imported: len(data.Sessions)}, nil
}
