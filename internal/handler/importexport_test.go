package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/olegiv/agenda-go/internal/transfer"
)

func TestExportRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.loginUser()

	resp := env.get("/api/v1/export")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin()

	resp := env.get("/api/v1/export")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status = %d", resp.StatusCode)
	}
	blob, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}

	var doc transfer.ExportData
	if err := json.Unmarshal(blob, &doc); err != nil {
		t.Fatalf("export is not a valid document: %v", err)
	}
	if len(doc.Sessions) != 8 {
		t.Fatalf("exported %d sessions, want 8", len(doc.Sessions))
	}

	// Feed the blob straight back
	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/v1/import", bytes.NewReader(blob))
	if err != nil {
		t.Fatalf("building import request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err = env.client.Do(req)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("import status = %d, body %s", resp.StatusCode, body)
	}

	var result transfer.ImportResult
	decodeData(t, resp, &result)
	if result.Imported != 8 {
		t.Errorf("imported = %d, want 8", result.Imported)
	}

	// Collection unchanged after the round trip
	resp = env.get("/api/v1/sessions")
	var envelope struct {
		Meta *Meta `json:"meta"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	resp.Body.Close()
	if envelope.Meta == nil || envelope.Meta.Total != 8 {
		t.Errorf("collection size after round trip = %v, want 8", envelope.Meta)
	}
}

func TestImportReplacesCollectionWholesale(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin()

	doc := transfer.ExportData{
		Version: transfer.ExportVersion,
		Sessions: []transfer.ExportSession{
			{
				ID:          "only-one",
				Title:       "Sesión única",
				Slug:        "sesion-unica",
				Description: "La única sesión tras la importación",
				Category:    "Demo",
				City:        "Sevilla",
				StartsAt:    mustParseTime(t, "2026-05-01T10:00:00Z"),
				Status:      "publicado",
				CreatedBy:   "admin@sdi.es",
				CreatedAt:   mustParseTime(t, "2026-05-01T09:00:00Z"),
				UpdatedAt:   mustParseTime(t, "2026-05-01T09:00:00Z"),
			},
		},
	}

	resp := env.postJSON("/api/v1/import", doc)
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("import status = %d, body %s", resp.StatusCode, body)
	}
	resp.Body.Close()

	resp = env.get("/api/v1/sessions")
	var envelope struct {
		Data []SessionResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	resp.Body.Close()

	if len(envelope.Data) != 1 || envelope.Data[0].ID != "only-one" {
		t.Errorf("collection after import = %+v, want the single imported record", envelope.Data)
	}
}

func TestImportRejectsCorruptBody(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin()

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/v1/import", bytes.NewReader([]byte("{corrupt")))
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.client.Do(req)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	errDetail := decodeError(t, resp)
	if errDetail.Code != "invalid_import" {
		t.Errorf("code = %q", errDetail.Code)
	}

	// Collection untouched
	resp = env.get("/api/v1/sessions")
	var envelope struct {
		Meta *Meta `json:"meta"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&envelope)
	resp.Body.Close()
	if envelope.Meta == nil || envelope.Meta.Total != 8 {
		t.Errorf("collection size after corrupt import = %v, want 8", envelope.Meta)
	}
}

func TestImportRejectsInvalidRecords(t *testing.T) {
	env := newTestEnv(t)
	env.loginAdmin()

	doc := transfer.ExportData{
		Version: transfer.ExportVersion,
		Sessions: []transfer.ExportSession{
			{ID: "bad", Title: "x", Description: "corta", Category: "Nada", City: "Paris", Status: "raro", CreatedBy: ""},
		},
	}

	resp := env.postJSON("/api/v1/import", doc)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	errDetail := decodeError(t, resp)
	if len(errDetail.Details) == 0 {
		t.Error("invalid import returned no details")
	}
}
