// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/olegiv/agenda-go/internal/store"
)

// Exporter serializes the session collection.
type Exporter struct {
	store *store.Queries
}

// NewExporter creates a new Exporter instance.
func NewExporter(queries *store.Queries) *Exporter {
	return &Exporter{store: queries}
}

// Export builds the export document from the current collection,
// preserving insertion order.
func (e *Exporter) Export(ctx context.Context) (*ExportData, error) {
	sessions, err := e.store.ListSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	data := &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		Sessions:   make([]ExportSession, 0, len(sessions)),
	}
	for _, s := range sessions {
		data.Sessions = append(data.Sessions, fromModel(s))
	}
	return data, nil
}
