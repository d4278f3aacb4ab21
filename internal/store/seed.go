// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/agenda-go/internal/auth"
	"github.com/olegiv/agenda-go/internal/model"
	"github.com/olegiv/agenda-go/internal/util"
)

// Fixed credential set. Passwords are hashed at seed time; role is derived
// from the email domain and never stored.
var seedUsers = []struct {
	Email    string
	Password string
	Name     string
	City     string
}{
	{"admin@sdi.es", "admin123", "Juan Administrador", "Madrid"},
	{"maria@sdi.es", "admin123", "María González", "Barcelona"},
	{"usuario@gmail.com", "user123", "Carlos Usuario", "Madrid"},
	{"ana@hotmail.com", "user123", "Ana López", "Valencia"},
}

// seedSessionCreator is the identity that owns all fixture sessions.
const seedSessionCreator = "admin@sdi.es"

// seedSessions is the fixture session collection: eight published records.
var seedSessions = []model.Session{
	{
		ID:          "1",
		Title:       "Visita guiada al Team Building",
		Description: "Actividad de team building para mejorar la cohesión del equipo",
		Category:    model.CategoryWorkshop,
		City:        "Madrid",
		StartsAt:    time.Date(2026, time.January, 3, 10, 30, 0, 0, time.UTC),
	},
	{
		ID:          "2",
		Title:       `Teatro "Inmaculados"`,
		Description: "Presentación de teatro corporativo",
		Category:    model.CategoryDemo,
		City:        "Madrid",
		StartsAt:    time.Date(2026, time.January, 7, 19, 30, 0, 0, time.UTC),
	},
	{
		ID:          "3",
		Title:       "Visita guiada al Team Building",
		Description: "Segunda sesión de team building",
		Category:    model.CategoryWorkshop,
		City:        "Madrid",
		StartsAt:    time.Date(2026, time.January, 10, 10, 0, 0, 0, time.UTC),
	},
	{
		ID:          "4",
		Title:       `Teatro "Inmaculados"`,
		Description: "Sesión de teatro",
		Category:    model.CategoryDemo,
		City:        "Barcelona",
		StartsAt:    time.Date(2026, time.January, 13, 19, 0, 0, 0, time.UTC),
	},
	{
		ID:          "5",
		Title:       `Teatro "Inmaculados"`,
		Description: "Representación teatral corporativa",
		Category:    model.CategoryDemo,
		City:        "Madrid",
		StartsAt:    time.Date(2026, time.January, 17, 19, 30, 0, 0, time.UTC),
	},
	{
		ID:          "6",
		Title:       "Bailes regionales",
		Description: "Taller de bailes tradicionales",
		Category:    model.CategoryFormacion,
		City:        "Valencia",
		StartsAt:    time.Date(2026, time.January, 21, 11, 0, 0, 0, time.UTC),
	},
	{
		ID:          "7",
		Title:       `Teatro "Inmaculados"`,
		Description: "Última sesión del mes",
		Category:    model.CategoryDemo,
		City:        "Madrid",
		StartsAt:    time.Date(2026, time.January, 22, 20, 30, 0, 0, time.UTC),
	},
	{
		ID:          "8",
		Title:       `Teatro "Inmaculados"`,
		Description: "Representación especial",
		Category:    model.CategoryDemo,
		City:        "Madrid",
		StartsAt:    time.Date(2026, time.January, 27, 19, 30, 0, 0, time.UTC),
	},
}

// Seed creates the fixed credential set and, when the session collection is
// empty, the fixture session records. Safe to call on every start.
func Seed(ctx context.Context, db *sql.DB, force bool) error {
	queries := New(db)

	if err := seedCredentials(ctx, queries); err != nil {
		return err
	}

	count, err := queries.CountSessions(ctx)
	if err != nil {
		return fmt.Errorf("counting sessions: %w", err)
	}
	if count > 0 && !force {
		return nil
	}

	return seedFixtureSessions(ctx, queries)
}

func seedCredentials(ctx context.Context, queries *Queries) error {
	now := time.Now()
	for _, su := range seedUsers {
		_, err := queries.GetUserByEmail(ctx, su.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking for user %s: %w", su.Email, err)
		}

		passwordHash, err := auth.HashPassword(su.Password)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}

		user, err := queries.CreateUser(ctx, CreateUserParams{
			Email:        su.Email,
			PasswordHash: passwordHash,
			Name:         su.Name,
			City:         su.City,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("creating user %s: %w", su.Email, err)
		}

		slog.Info("created seed user",
			"id", user.ID,
			"email", user.Email,
			"role", user.Role(),
		)
	}
	return nil
}

func seedFixtureSessions(ctx context.Context, queries *Queries) error {
	now := time.Now()
	for _, s := range seedSessions {
		if _, err := queries.GetSession(ctx, s.ID); err == nil {
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking for session %s: %w", s.ID, err)
		}

		s.Slug = util.Slugify(s.Title)
		s.Status = model.StatusPublished
		s.CreatedBy = seedSessionCreator
		s.CreatedAt = now
		s.UpdatedAt = now

		if err := queries.CreateSession(ctx, s); err != nil {
			return fmt.Errorf("creating session %s: %w", s.ID, err)
		}
	}

	slog.Info("seeded fixture sessions", "count", len(seedSessions))
	return nil
}
