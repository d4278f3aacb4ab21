// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "github.com/olegiv/agenda-go/internal/model"

// CanDelete reports whether the acting user may delete the given session:
// only sessions in the user's own city. An unset city on either side never
// matches. Unlike the UI-only gate this rule replaces, the service layer
// enforces it on every delete.
func CanDelete(user *model.User, session *model.Session) bool {
	if user == nil || session == nil {
		return false
	}
	if user.City == "" || session.City == "" {
		return false
	}
	return user.City == session.City
}
