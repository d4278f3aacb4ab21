// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/agenda-go/internal/model"
)

// CreateEventParams holds the fields for an audit log entry.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	IPAddress string
	Metadata  string
	CreatedAt time.Time
}

const createEvent = `
INSERT INTO events (level, category, message, user_id, ip_address, metadata, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id, level, category, message, user_id, ip_address, metadata, created_at
`

// CreateEvent inserts an audit log entry.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (model.Event, error) {
	var e model.Event
	err := q.db.QueryRowContext(ctx, createEvent,
		arg.Level, arg.Category, arg.Message, arg.UserID, arg.IPAddress, arg.Metadata, arg.CreatedAt).
		Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserID, &e.IPAddress, &e.Metadata, &e.CreatedAt)
	return e, err
}

const listEvents = `
SELECT id, level, category, message, user_id, ip_address, metadata, created_at
FROM events ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?
`

// ListEvents returns audit log entries, newest first.
func (q *Queries) ListEvents(ctx context.Context, limit, offset int64) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx, listEvents, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserID,
			&e.IPAddress, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CountEvents returns the number of audit log entries.
func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

// DeleteOldEvents removes audit log entries created before the cutoff.
func (q *Queries) DeleteOldEvents(ctx context.Context, cutoff time.Time) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, cutoff)
	return err
}
