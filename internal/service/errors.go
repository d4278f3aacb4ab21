// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides business logic: authentication, the session
// collection with its access policy, filtering, the calendar projection,
// and audit event logging.
package service

import "errors"

// Closed set of error kinds surfaced by the service layer. Handlers map
// these to HTTP statuses; messages shown to users stay generic.
var (
	// ErrInvalidCredentials is returned for any failed login. Unknown email
	// and wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound is returned when a session id does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrForbidden is returned when the acting user may not perform the
	// operation (city policy).
	ErrForbidden = errors.New("operation not permitted")
)
