// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/olegiv/agenda-go/internal/model"
)

const sessionColumns = `id, title, slug, description, category, city, starts_at,
status, image_url, created_by, created_at, updated_at`

const createSession = `
INSERT INTO agenda_sessions (id, title, slug, description, category, city,
starts_at, status, image_url, created_by, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// CreateSession inserts a new session record. The id must be pre-assigned.
func (q *Queries) CreateSession(ctx context.Context, s model.Session) error {
	_, err := q.db.ExecContext(ctx, createSession,
		s.ID, s.Title, s.Slug, s.Description, s.Category, s.City,
		s.StartsAt.UTC(), s.Status, s.ImageURL, s.CreatedBy, s.CreatedAt.UTC(), s.UpdatedAt.UTC())
	return err
}

const getSession = `
SELECT ` + sessionColumns + `
FROM agenda_sessions WHERE id = ?
`

// GetSession returns the session with the given id, or sql.ErrNoRows.
func (q *Queries) GetSession(ctx context.Context, id string) (model.Session, error) {
	var s model.Session
	err := q.db.QueryRowContext(ctx, getSession, id).Scan(
		&s.ID, &s.Title, &s.Slug, &s.Description, &s.Category, &s.City,
		&s.StartsAt, &s.Status, &s.ImageURL, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Insertion order is the collection's canonical order; rowid preserves it
// even when records share a creation timestamp.
const listSessions = `
SELECT ` + sessionColumns + `
FROM agenda_sessions ORDER BY rowid
`

// ListSessions returns all session records in insertion order.
func (q *Queries) ListSessions(ctx context.Context) ([]model.Session, error) {
	rows, err := q.db.QueryContext(ctx, listSessions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.Title, &s.Slug, &s.Description, &s.Category, &s.City,
			&s.StartsAt, &s.Status, &s.ImageURL, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

const updateSession = `
UPDATE agenda_sessions
SET title = ?, slug = ?, description = ?, category = ?, city = ?,
    starts_at = ?, status = ?, image_url = ?, created_by = ?, updated_at = ?
WHERE id = ?
`

// UpdateSession stores the full merged record. Returns the number of rows
// affected (0 when the id does not exist).
func (q *Queries) UpdateSession(ctx context.Context, s model.Session) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateSession,
		s.Title, s.Slug, s.Description, s.Category, s.City,
		s.StartsAt.UTC(), s.Status, s.ImageURL, s.CreatedBy, s.UpdatedAt.UTC(), s.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteSession removes a session record. Returns true if a row was deleted.
func (q *Queries) DeleteSession(ctx context.Context, id string) (bool, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM agenda_sessions WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CountSessions returns the number of session records.
func (q *Queries) CountSessions(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM agenda_sessions`).Scan(&n)
	return n, err
}

// DeleteAllSessions removes every session record. Used by collection import.
func (q *Queries) DeleteAllSessions(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM agenda_sessions`)
	return err
}
