// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/agenda-go/internal/model"
	"github.com/olegiv/agenda-go/internal/store"
	"github.com/olegiv/agenda-go/internal/util"
)

// SessionService manages the session collection. All mutations are written
// through to the database before returning, so no partial-write state is
// ever observable by a later read.
type SessionService struct {
	queries  *store.Queries
	onChange func() // invoked after every successful mutation
}

// NewSessionService creates a new SessionService.
func NewSessionService(db *sql.DB) *SessionService {
	return &SessionService{queries: store.New(db)}
}

// OnChange registers a callback invoked after every successful mutation.
// Used for cache invalidation.
func (s *SessionService) OnChange(fn func()) {
	s.onChange = fn
}

func (s *SessionService) notifyChange() {
	if s.onChange != nil {
		s.onChange()
	}
}

// List returns the full collection in insertion order.
func (s *SessionService) List(ctx context.Context) ([]model.Session, error) {
	return s.queries.ListSessions(ctx)
}

// Filtered returns the subsequence of the collection matching the criteria.
func (s *SessionService) Filtered(ctx context.Context, filter model.SessionFilter) ([]model.Session, error) {
	sessions, err := s.queries.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	return FilterSessions(sessions, filter), nil
}

// Get returns a single session by id.
func (s *SessionService) Get(ctx context.Context, id string) (model.Session, error) {
	session, err := s.queries.GetSession(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, ErrNotFound
	}
	return session, err
}

// CreateSessionParams holds the fields for a new session record.
// The id is never supplied by the caller.
type CreateSessionParams struct {
	Title       string
	Description string
	Category    string
	City        string
	StartsAt    time.Time
	Status      string // defaults to borrador when empty
	ImageURL    string
	CreatedBy   string
}

// Create assigns a fresh identifier and appends the record to the
// collection. UUIDs rule out id collisions under rapid creation.
func (s *SessionService) Create(ctx context.Context, arg CreateSessionParams) (model.Session, error) {
	status := arg.Status
	if status == "" {
		status = model.StatusDraft
	}

	now := time.Now().UTC()
	session := model.Session{
		ID:          uuid.NewString(),
		Title:       arg.Title,
		Slug:        util.Slugify(arg.Title),
		Description: arg.Description,
		Category:    arg.Category,
		City:        arg.City,
		StartsAt:    arg.StartsAt.UTC(),
		Status:      status,
		ImageURL:    arg.ImageURL,
		CreatedBy:   arg.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.queries.CreateSession(ctx, session); err != nil {
		return model.Session{}, fmt.Errorf("creating session: %w", err)
	}

	s.notifyChange()
	return session, nil
}

// UpdateSessionParams holds the partial patch for a session update.
// Nil fields are left untouched.
type UpdateSessionParams struct {
	Title       *string
	Description *string
	Category    *string
	City        *string
	StartsAt    *time.Time
	Status      *string
	ImageURL    *string
}

// Update shallow-merges the supplied fields into the existing record.
// Returns ErrNotFound if the id does not exist.
func (s *SessionService) Update(ctx context.Context, id string, arg UpdateSessionParams) (model.Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return model.Session{}, err
	}

	if arg.Title != nil {
		session.Title = *arg.Title
		session.Slug = util.Slugify(*arg.Title)
	}
	if arg.Description != nil {
		session.Description = *arg.Description
	}
	if arg.Category != nil {
		session.Category = *arg.Category
	}
	if arg.City != nil {
		session.City = *arg.City
	}
	if arg.StartsAt != nil {
		session.StartsAt = arg.StartsAt.UTC()
	}
	if arg.Status != nil {
		session.Status = *arg.Status
	}
	if arg.ImageURL != nil {
		session.ImageURL = *arg.ImageURL
	}
	session.UpdatedAt = time.Now().UTC()

	affected, err := s.queries.UpdateSession(ctx, session)
	if err != nil {
		return model.Session{}, fmt.Errorf("updating session: %w", err)
	}
	if affected == 0 {
		// Deleted between the read and the write.
		return model.Session{}, ErrNotFound
	}

	s.notifyChange()
	return session, nil
}

// Delete removes the record if present. Deleting an absent id is a no-op,
// not an error. The city policy is enforced here, not only in the UI:
// the acting user must share the session's city.
func (s *SessionService) Delete(ctx context.Context, actor *model.User, id string) (bool, error) {
	session, err := s.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !CanDelete(actor, &session) {
		return false, ErrForbidden
	}

	deleted, err := s.queries.DeleteSession(ctx, id)
	if err != nil {
		return false, fmt.Errorf("deleting session: %w", err)
	}

	if deleted {
		s.notifyChange()
	}
	return deleted, nil
}
