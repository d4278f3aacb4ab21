// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/olegiv/agenda-go/internal/ai"
	"github.com/olegiv/agenda-go/internal/model"
)

// DescribeHandler suggests session descriptions via the AI client.
// Registered only when an API key is configured.
type DescribeHandler struct {
	client *ai.Client
}

// NewDescribeHandler creates a describe handler.
func NewDescribeHandler(client *ai.Client) *DescribeHandler {
	return &DescribeHandler{client: client}
}

// DescribeRequest is the input for a description suggestion.
type DescribeRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	City     string `json:"city"`
}

// DescribeResponse carries the suggested description.
type DescribeResponse struct {
	Description string `json:"description"`
}

// Describe handles POST /api/v1/sessions/describe.
func (h *DescribeHandler) Describe(w http.ResponseWriter, r *http.Request) {
	var req DescribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	fieldErrors := make(map[string]string)
	req.Title = strings.TrimSpace(req.Title)
	if utf8.RuneCountInString(req.Title) < minTitleLen {
		fieldErrors["title"] = "Title must be at least 3 characters"
	}
	if req.Category != "" && !model.IsValidCategory(req.Category) {
		fieldErrors["category"] = "Unknown category"
	}
	if req.City != "" && !model.IsValidCity(req.City) {
		fieldErrors["city"] = "Unknown city"
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	description, err := h.client.SuggestDescription(r.Context(), req.Title, req.Category, req.City)
	if err != nil {
		slog.Error("description suggestion failed", "error", err)
		WriteError(w, http.StatusBadGateway, "suggestion_failed", "Description suggestion is unavailable", nil)
		return
	}

	WriteSuccess(w, DescribeResponse{Description: description}, nil)
}
