// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/agenda-go/internal/middleware"
	"github.com/olegiv/agenda-go/internal/model"
	"github.com/olegiv/agenda-go/internal/service"
	"github.com/olegiv/agenda-go/internal/store"
	"github.com/olegiv/agenda-go/internal/transfer"
	"github.com/olegiv/agenda-go/internal/util"
)

// maxImportBytes caps the import request body. Generous because sessions may
// embed data-URI images.
const maxImportBytes = 32 << 20 // 32 MB

// TransferHandler serves whole-collection export and import. Admin only.
type TransferHandler struct {
	exporter     *transfer.Exporter
	importer     *transfer.Importer
	eventService *service.EventService
	onChange     func()
}

// NewTransferHandler creates a transfer handler. onChange is called after a
// successful import (cache invalidation); it may be nil.
func NewTransferHandler(db *sql.DB, onChange func()) *TransferHandler {
	queries := store.New(db)
	return &TransferHandler{
		exporter:     transfer.NewExporter(queries),
		importer:     transfer.NewImporter(queries, db),
		eventService: service.NewEventService(db),
		onChange:     onChange,
	}
}

// Export handles GET /api/v1/export. The response body is the export
// document itself so it can be fed back to Import unchanged.
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.exporter.Export(r.Context())
	if err != nil {
		slog.Error("exporting sessions failed", "error", err)
		WriteInternalError(w, "Failed to export sessions")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="agenda-export.json"`)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(data)
}

// Import handles POST /api/v1/import. A corrupt or invalid document is
// rejected with 400 and leaves the stored collection untouched.
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	var doc transfer.ExportData
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := json.NewDecoder(body).Decode(&doc); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_import", "Request body is not a valid export document", nil)
		return
	}

	result, err := h.importer.Import(r.Context(), &doc)
	if err != nil {
		if errors.Is(err, transfer.ErrInvalidData) {
			WriteError(w, http.StatusBadRequest, "invalid_import", "Export document failed validation",
				validationDetails(result.Errors))
			return
		}
		slog.Error("importing sessions failed", "error", err)
		WriteInternalError(w, "Failed to import sessions")
		return
	}

	if h.onChange != nil {
		h.onChange()
	}

	_ = h.eventService.LogSessionEvent(r.Context(), model.EventLevelInfo, "Collection imported",
		middleware.GetUserIDPtr(r), util.ClientIP(r), map[string]any{"imported": result.Imported})

	WriteSuccess(w, result, nil)
}

// validationDetails flattens import validation errors into the details map,
// keyed by record id and field.
func validationDetails(errs []transfer.ValidationError) map[string]string {
	details := make(map[string]string, len(errs))
	for _, e := range errs {
		key := e.Field
		if e.ID != "" {
			key = e.ID + "." + e.Field
		}
		details[key] = e.Message
	}
	return details
}
