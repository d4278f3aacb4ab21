package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/agenda-go/internal/ai"
)

func describeRequest(t *testing.T, h *DescribeHandler, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/describe", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	h.Describe(rec, req)
	return rec
}

func TestDescribeSuggestion(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "Taller práctico de teatro para el equipo."}},
			},
		})
	}))
	defer backend.Close()

	h := NewDescribeHandler(ai.NewClient("key", "gpt-4o-mini", backend.URL))

	rec := describeRequest(t, h, DescribeRequest{
		Title:    `Teatro "Inmaculados"`,
		Category: "Demo",
		City:     "Madrid",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var envelope struct {
		Data DescribeResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if envelope.Data.Description != "Taller práctico de teatro para el equipo." {
		t.Errorf("description = %q", envelope.Data.Description)
	}
}

func TestDescribeValidation(t *testing.T) {
	h := NewDescribeHandler(ai.NewClient("key", "gpt-4o-mini", "http://unused.invalid"))

	rec := describeRequest(t, h, DescribeRequest{Title: "ab", Category: "Nada", City: "Paris"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var envelope ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	for _, field := range []string{"title", "category", "city"} {
		if envelope.Error.Details[field] == "" {
			t.Errorf("missing field error for %q: %v", field, envelope.Error.Details)
		}
	}
}

func TestDescribeBackendFailure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream broken", http.StatusInternalServerError)
	}))
	defer backend.Close()

	h := NewDescribeHandler(ai.NewClient("key", "gpt-4o-mini", backend.URL))

	rec := describeRequest(t, h, DescribeRequest{Title: "Curso de Go"})
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}
