// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSuggestDescription(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  Una sesión práctica de Go.\n"}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", "gpt-4o-mini", srv.URL)
	got, err := c.SuggestDescription(context.Background(), "Curso de Go", "Formación", "Madrid")
	if err != nil {
		t.Fatalf("SuggestDescription: %v", err)
	}

	if got != "Una sesión práctica de Go." {
		t.Errorf("suggestion = %q, want trimmed content", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v", gotBody["model"])
	}

	messages, _ := gotBody["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("sent %d messages, want 2", len(messages))
	}
	user, _ := messages[1].(map[string]any)
	content, _ := user["content"].(string)
	for _, want := range []string{"Curso de Go", "Formación", "Madrid"} {
		if !strings.Contains(content, want) {
			t.Errorf("user message %q missing %q", content, want)
		}
	}
}

func TestSuggestDescriptionAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"invalid key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad-key", "gpt-4o-mini", srv.URL)
	if _, err := c.SuggestDescription(context.Background(), "Curso", "Demo", "Bilbao"); err == nil {
		t.Error("SuggestDescription succeeded on API error")
	}
}

func TestSuggestDescriptionNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := NewClient("key", "gpt-4o-mini", srv.URL)
	if _, err := c.SuggestDescription(context.Background(), "Curso", "Demo", "Bilbao"); err == nil {
		t.Error("SuggestDescription succeeded with empty choices")
	}
}
