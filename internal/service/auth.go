// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/olegiv/agenda-go/internal/auth"
	"github.com/olegiv/agenda-go/internal/model"
	"github.com/olegiv/agenda-go/internal/store"
)

// AuthService resolves login attempts against the credential store.
type AuthService struct {
	queries *store.Queries
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *sql.DB) *AuthService {
	return &AuthService{queries: store.New(db)}
}

// Authenticate looks up an exact email/password match. Any failure yields
// ErrInvalidCredentials: unknown email and wrong password are deliberately
// indistinguishable to callers.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	user, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("database error during login", "error", err)
		}
		// Burn comparable time for unknown emails so the two failure
		// modes are not separable by timing.
		_, _ = auth.CheckPassword(password, dummyHash)
		return model.User{}, ErrInvalidCredentials
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err)
		return model.User{}, ErrInvalidCredentials
	}
	if !valid {
		return model.User{}, ErrInvalidCredentials
	}

	// Re-hash password if it uses old/expensive parameters
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    time.Now(),
				ID:           user.ID,
			}); err != nil {
				slog.Error("failed to re-hash password", "error", err, "user_id", user.ID)
			} else {
				slog.Info("password re-hashed with updated parameters", "user_id", user.ID)
			}
		}
	}

	if err := s.queries.UpdateUserLastLogin(ctx, user.ID, time.Now()); err != nil {
		slog.Error("failed to update last login time", "error", err, "user_id", user.ID)
		// Don't block login on this error
	}

	return user, nil
}

// dummyHash is a valid argon2id hash of a throwaway value, used to equalize
// timing between unknown-email and wrong-password failures.
const dummyHash = "$argon2id$v=19$m=19456,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$L9tOc6g9Tn1SFRxvE6YyXH1bTsNLkEFiUqYx6IYBjsY"
