package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/olegiv/agenda-go/internal/model"
)

func TestSessionService_ListSeeded(t *testing.T) {
	svc := NewSessionService(testDB(t))
	ctx := context.Background()

	sessions, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(sessions) != 8 {
		t.Fatalf("seeded collection has %d records, want 8", len(sessions))
	}
	for i, s := range sessions {
		if s.Status != model.StatusPublished {
			t.Errorf("seed record %d status = %q, want publicado", i, s.Status)
		}
		if s.CreatedBy != "admin@sdi.es" {
			t.Errorf("seed record %d created_by = %q", i, s.CreatedBy)
		}
	}
}

func TestSessionService_FilteredSeededByDemo(t *testing.T) {
	svc := NewSessionService(testDB(t))

	got, err := svc.Filtered(context.Background(), model.SessionFilter{Category: model.CategoryDemo})
	if err != nil {
		t.Fatalf("Filtered: %v", err)
	}

	if len(got) != 5 {
		t.Fatalf("Demo filter returned %d records, want 5", len(got))
	}
	want := []string{"2", "4", "5", "7", "8"}
	for i, s := range got {
		if s.ID != want[i] {
			t.Errorf("record %d id = %s, want %s (original relative order)", i, s.ID, want[i])
		}
	}
}

func TestSessionService_Create(t *testing.T) {
	svc := NewSessionService(testDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateSessionParams{
		Title:       "Test",
		Description: "Sesión de prueba con descripción",
		Category:    model.CategoryDemo,
		City:        "Madrid",
		StartsAt:    time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
		CreatedBy:   "admin@sdi.es",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.ID == "" {
		t.Error("created session must have a non-empty id")
	}
	if created.Status != model.StatusDraft {
		t.Errorf("status = %q, want default borrador", created.Status)
	}
	if created.Slug != "test" {
		t.Errorf("slug = %q, want %q", created.Slug, "test")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get after Create: %v", err)
	}
	if got.Title != "Test" || got.City != "Madrid" {
		t.Errorf("persisted record mismatch: %+v", got)
	}
}

func TestSessionService_CreateUniqueIDs(t *testing.T) {
	svc := NewSessionService(testDB(t))
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		s, err := svc.Create(ctx, CreateSessionParams{
			Title:       "Rápida",
			Description: "Creación repetida en ráfaga",
			Category:    model.CategoryReunion,
			City:        "Bilbao",
			StartsAt:    time.Now().Add(time.Hour),
			CreatedBy:   "maria@sdi.es",
		})
		if err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
		if seen[s.ID] {
			t.Fatalf("duplicate id generated: %s", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestSessionService_CreateAppendsInOrder(t *testing.T) {
	svc := NewSessionService(testDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateSessionParams{
		Title:       "Nueva al final",
		Description: "Debe quedar la última",
		Category:    model.CategoryConferencia,
		City:        "Sevilla",
		StartsAt:    time.Now().Add(48 * time.Hour),
		CreatedBy:   "admin@sdi.es",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	sessions, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if sessions[len(sessions)-1].ID != created.ID {
		t.Error("create must append to the end of the collection")
	}
}

func TestSessionService_UpdatePartialPatch(t *testing.T) {
	svc := NewSessionService(testDB(t))
	ctx := context.Background()

	before, err := svc.Get(ctx, "1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	status := model.StatusPublished
	after, err := svc.Update(ctx, "1", UpdateSessionParams{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if after.Status != model.StatusPublished {
		t.Errorf("status = %q, want publicado", after.Status)
	}
	// All other fields unchanged.
	if after.Title != before.Title || after.Description != before.Description ||
		after.Category != before.Category || after.City != before.City ||
		!after.StartsAt.Equal(before.StartsAt) || after.ImageURL != before.ImageURL ||
		after.CreatedBy != before.CreatedBy {
		t.Errorf("update touched unrelated fields: before=%+v after=%+v", before, after)
	}
}

func TestSessionService_UpdateNotFound(t *testing.T) {
	svc := NewSessionService(testDB(t))

	title := "No existe"
	_, err := svc.Update(context.Background(), "missing-id", UpdateSessionParams{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update of missing id: err = %v, want ErrNotFound", err)
	}
}

func TestSessionService_DeleteCityPolicy(t *testing.T) {
	svc := NewSessionService(testDB(t))
	ctx := context.Background()

	madrid := &model.User{Email: "admin@sdi.es", City: "Madrid"}
	barcelona := &model.User{Email: "maria@sdi.es", City: "Barcelona"}

	// Session 1 is in Madrid: Barcelona user must be refused.
	if _, err := svc.Delete(ctx, barcelona, "1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("cross-city delete: err = %v, want ErrForbidden", err)
	}

	deleted, err := svc.Delete(ctx, madrid, "1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !deleted {
		t.Fatal("same-city delete should succeed")
	}

	if _, err := svc.Get(ctx, "1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete: err = %v, want ErrNotFound", err)
	}
}

func TestSessionService_DeleteMissingIsNoop(t *testing.T) {
	svc := NewSessionService(testDB(t))

	actor := &model.User{Email: "admin@sdi.es", City: "Madrid"}
	deleted, err := svc.Delete(context.Background(), actor, "missing-id")
	if err != nil {
		t.Fatalf("Delete of missing id: %v", err)
	}
	if deleted {
		t.Error("delete of a missing id should report false, not an error")
	}
}

func TestSessionService_OnChangeFires(t *testing.T) {
	svc := NewSessionService(testDB(t))
	ctx := context.Background()

	var calls int
	svc.OnChange(func() { calls++ })

	_, err := svc.Create(ctx, CreateSessionParams{
		Title:       "Cache bust",
		Description: "Invalidación tras mutación",
		Category:    model.CategoryDemo,
		City:        "Madrid",
		StartsAt:    time.Now().Add(time.Hour),
		CreatedBy:   "admin@sdi.es",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if calls != 1 {
		t.Errorf("onChange calls = %d, want 1", calls)
	}
}
