// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/olegiv/agenda-go/internal/model"
)

// CreateUserParams holds the fields for creating a user.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	Name         string
	City         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const createUser = `
INSERT INTO users (email, password_hash, name, city, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, email, password_hash, name, city, created_at, updated_at, last_login_at
`

// CreateUser inserts a new user and returns the stored row.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.Email, arg.PasswordHash, arg.Name, arg.City, arg.CreatedAt, arg.UpdatedAt)
	return scanUser(row)
}

const getUserByID = `
SELECT id, email, password_hash, name, city, created_at, updated_at, last_login_at
FROM users WHERE id = ?
`

// GetUserByID returns the user with the given id, or sql.ErrNoRows.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByEmail = `
SELECT id, email, password_hash, name, city, created_at, updated_at, last_login_at
FROM users WHERE email = ?
`

// GetUserByEmail returns the user with the given email, or sql.ErrNoRows.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByEmail, email))
}

const listUsers = `
SELECT id, email, password_hash, name, city, created_at, updated_at, last_login_at
FROM users ORDER BY id
`

// ListUsers returns all users ordered by id.
func (q *Queries) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := q.db.QueryContext(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.City,
			&u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountUsers returns the number of user rows.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// UpdateUserPasswordParams holds the fields for a password update.
type UpdateUserPasswordParams struct {
	PasswordHash string
	UpdatedAt    time.Time
	ID           int64
}

// UpdateUserPassword replaces the stored password hash.
func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		arg.PasswordHash, arg.UpdatedAt, arg.ID)
	return err
}

// UpdateUserLastLogin records the time of the user's last successful login.
func (q *Queries) UpdateUserLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, at, id)
	return err
}

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.City,
		&u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	return u, err
}
