package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSessionsSeeded(t *testing.T) {
	env := newTestEnv(t)
	env.loginUser()

	resp := env.get("/api/v1/sessions")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Data []SessionResponse `json:"data"`
		Meta *Meta             `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	resp.Body.Close()

	require.Len(t, envelope.Data, 8)
	require.NotNil(t, envelope.Meta)
	assert.Equal(t, 8, envelope.Meta.Total)

	// Insertion order preserved
	assert.Equal(t, "1", envelope.Data[0].ID)
	assert.Equal(t, "8", envelope.Data[7].ID)

	// Category color travels with each record
	assert.Equal(t, "#f39c12", envelope.Data[0].Color) // Workshop
	assert.Equal(t, "#e74c3c", envelope.Data[1].Color) // Demo
}

func TestListSessionsFiltered(t *testing.T) {
	env := newTestEnv(t)
	env.loginUser()

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"by category", "?category=Workshop", []string{"1", "3"}},
		{"by search term", "?q=bailes", []string{"6"}},
		{"search matches description", "?q=cohesión", []string{"1"}},
		{"conjunctive", "?category=Demo&q=especial", []string{"8"}},
		{"no matches", "?q=zzzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.get("/api/v1/sessions" + tt.query)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var sessions []SessionResponse
			decodeData(t, resp, &sessions)

			var gotIDs []string
			for _, s := range sessions {
				gotIDs = append(gotIDs, s.ID)
			}
			assert.Equal(t, tt.wantIDs, gotIDs)
		})
	}
}

func TestListSessionsRejectsUnknownFilterValues(t *testing.T) {
	env := newTestEnv(t)
	env.loginUser()

	resp := env.get("/api/v1/sessions?category=Fiesta")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	resp = env.get("/api/v1/sessions?status=activo")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
}

func TestGetSession(t *testing.T) {
	env := newTestEnv(t)
	env.loginUser()

	resp := env.get("/api/v1/sessions/6")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var s SessionResponse
	decodeData(t, resp, &s)

	assert.Equal(t, "Bailes regionales", s.Title)
	assert.Equal(t, "bailes-regionales", s.Slug)
	assert.Equal(t, "Valencia", s.City)
	assert.Equal(t, "#3498db", s.Color) // Formación
	assert.NotEmpty(t, s.DescriptionHTML)
}

func TestGetSessionNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.loginUser()

	resp := env.get("/api/v1/sessions/does-not-exist")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	errDetail := decodeError(t, resp)
	assert.Equal(t, "not_found", errDetail.Code)
}

func TestCreateSessionRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.loginUser()

	resp := env.postJSON("/api/v1/sessions", map[string]string{
		"title":       "Nueva sesión",
		"description": "Descripción suficientemente larga",
		"category":    "Demo",
		"city":        "Madrid",
		"starts_at":   "2026-03-01T10:00:00Z",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCreateSession(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin()

	resp := env.postJSON("/api/v1/sessions", map[string]string{
		"title":       "Curso de Go avanzado",
		"description": "Formación interna sobre concurrencia en Go",
		"category":    "Formación",
		"city":        "Bilbao",
		"starts_at":   "2026-03-01T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var s SessionResponse
	decodeData(t, resp, &s)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "curso-de-go-avanzado", s.Slug)
	assert.Equal(t, "borrador", s.Status, "status defaults to draft")
	assert.Equal(t, "admin@sdi.es", s.CreatedBy)
	assert.Equal(t, "#3498db", s.Color)

	// Visible in the collection afterwards
	resp = env.get("/api/v1/sessions/" + s.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateSessionValidation(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin()

	resp := env.postJSON("/api/v1/sessions", map[string]string{
		"title":       "ab",
		"description": "corta",
		"category":    "Fiesta",
		"city":        "Paris",
		"starts_at":   "mañana",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	errDetail := decodeError(t, resp)
	assert.Equal(t, "validation_error", errDetail.Code)
	for _, field := range []string{"title", "description", "category", "city", "starts_at"} {
		assert.Contains(t, errDetail.Details, field)
	}
}

func TestUpdateSessionPartial(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin()

	resp := env.doJSON(http.MethodPut, "/api/v1/sessions/6", map[string]string{
		"status": "oculto",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var s SessionResponse
	decodeData(t, resp, &s)

	assert.Equal(t, "oculto", s.Status)
	// Untouched fields survive a partial update
	assert.Equal(t, "Bailes regionales", s.Title)
	assert.Equal(t, "Valencia", s.City)
}

func TestUpdateSessionNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin()

	resp := env.doJSON(http.MethodPut, "/api/v1/sessions/missing", map[string]string{
		"title": "Nuevo título",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteSessionSameCity(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin() // admin is from Madrid

	// Session 1 is in Madrid
	resp := env.doJSON(http.MethodDelete, "/api/v1/sessions/1", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.get("/api/v1/sessions/1")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteSessionCityMismatch(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin() // admin is from Madrid

	// Session 6 is in Valencia
	resp := env.doJSON(http.MethodDelete, "/api/v1/sessions/6", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	errDetail := decodeError(t, resp)
	assert.Equal(t, "forbidden", errDetail.Code)

	// Record still there
	resp = env.get("/api/v1/sessions/6")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDeleteSessionAbsentIDIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin()

	resp := env.doJSON(http.MethodDelete, "/api/v1/sessions/never-existed", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
