// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"strings"

	"github.com/olegiv/agenda-go/internal/model"
)

// FilterSessions applies the filter criteria to the collection and returns
// the matching subsequence, preserving the input order. The function is
// pure: identical input and criteria always produce identical output.
//
// Criteria combine conjunctively: exact category match, exact status match,
// and a case-insensitive substring match against title or description. Unset
// criteria are skipped; an empty filter returns the input unchanged.
func FilterSessions(sessions []model.Session, filter model.SessionFilter) []model.Session {
	if filter.IsZero() {
		return sessions
	}

	term := strings.ToLower(filter.SearchTerm)

	filtered := make([]model.Session, 0, len(sessions))
	for _, s := range sessions {
		if filter.Category != "" && s.Category != filter.Category {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(s.Title), term) &&
			!strings.Contains(strings.ToLower(s.Description), term) {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered
}
