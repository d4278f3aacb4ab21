// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including User, Session, Event, and filter structures.
package model

import (
	"database/sql"
	"strings"
	"time"
)

// User roles. Role is never stored: it is a pure function of the email
// domain (AdminEmailDomain suffix means admin).
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// AdminEmailDomain is the email domain suffix that grants the admin role.
const AdminEmailDomain = "@sdi.es"

// User represents an account that can sign in to the service.
type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	Name         string       `json:"name"`
	City         string       `json:"city,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LastLoginAt  sql.NullTime `json:"last_login_at,omitempty"`
}

// RoleForEmail derives the role from an email address.
func RoleForEmail(email string) string {
	if strings.HasSuffix(strings.ToLower(email), AdminEmailDomain) {
		return RoleAdmin
	}
	return RoleUser
}

// Role returns the user's derived role.
func (u *User) Role() string {
	return RoleForEmail(u.Email)
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role() == RoleAdmin
}
