// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/agenda-go/internal/cache"
	"github.com/olegiv/agenda-go/internal/middleware"
	"github.com/olegiv/agenda-go/internal/store"
	"github.com/olegiv/agenda-go/internal/version"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	queries   *store.Queries
	sm        *scs.SessionManager
	cache     cache.Cacher
	startTime time.Time
}

// NewHealthHandler creates a new health handler. The cache backend is
// optional.
func NewHealthHandler(db *sql.DB, sm *scs.SessionManager, c cache.Cacher) *HealthHandler {
	return &HealthHandler{
		db:        db,
		queries:   store.New(db),
		sm:        sm,
		cache:     c,
		startTime: time.Now(),
	}
}

// StartTime returns when the handler (and application) was started.
func (h *HealthHandler) StartTime() time.Time {
	return h.startTime
}

// HealthStatusPublic is the minimal health response for unauthenticated callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus represents the overall health status (authenticated callers only).
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAllocKB   uint64 `json:"mem_alloc_kb"`
	MemSysKB     uint64 `json:"mem_sys_kb"`
}

// Health handles GET /health requests.
// Returns minimal status for unauthenticated callers, full details for admins.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase()

	overallStatus := "healthy"
	if dbCheck.Status != "healthy" {
		overallStatus = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	if overallStatus != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	// Unauthenticated callers get minimal response
	if !h.isAuthenticated(r) {
		_ = json.NewEncoder(w).Encode(HealthStatusPublic{
			Status: overallStatus,
		})
		return
	}

	// Authenticated non-admin: basic response without check details
	if !h.isAdmin(r) {
		_ = json.NewEncoder(w).Encode(HealthStatus{
			Status:    overallStatus,
			Timestamp: time.Now().UTC(),
			Uptime:    time.Since(h.startTime).Round(time.Second).String(),
			Version:   version.Get().Version,
		})
		return
	}

	// Admin only: full details including checks and optional system info
	status := HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   version.Get().Version,
		Checks: map[string]Check{
			"database": dbCheck,
			"cache":    h.checkCache(r),
		},
	}

	if r.URL.Query().Get("verbose") == "true" {
		status.System = getSystemInfo()
	}

	_ = json.NewEncoder(w).Encode(status)
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "alive",
	})
}

// Readiness handles GET /health/ready - checks if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase()

	w.Header().Set("Content-Type", "application/json")

	if dbCheck.Status == "healthy" {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "ready",
		})
		return
	}

	w.WriteHeader(http.StatusServiceUnavailable)
	resp := map[string]string{
		"status": "not_ready",
	}
	// Only include error details for authenticated callers
	if h.isAuthenticated(r) {
		resp["message"] = dbCheck.Message
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// isAuthenticated checks if the request carries a valid user session.
// SCS panics if session data is not loaded into context, so recover gracefully.
func (h *HealthHandler) isAuthenticated(r *http.Request) (authenticated bool) {
	if h.sm == nil {
		return false
	}
	defer func() {
		if rec := recover(); rec != nil {
			authenticated = false
		}
	}()

	userID := h.sm.GetInt64(r.Context(), middleware.SessionKeyUserID)
	if userID <= 0 {
		return false
	}
	_, err := h.queries.GetUserByID(r.Context(), userID)
	return err == nil
}

// isAdmin checks if the request comes from an authenticated admin user.
func (h *HealthHandler) isAdmin(r *http.Request) (admin bool) {
	if h.sm == nil {
		return false
	}
	defer func() {
		if rec := recover(); rec != nil {
			admin = false
		}
	}()

	userID := h.sm.GetInt64(r.Context(), middleware.SessionKeyUserID)
	if userID <= 0 {
		return false
	}
	user, err := h.queries.GetUserByID(r.Context(), userID)
	return err == nil && user.IsAdmin()
}

// checkDatabase verifies database connectivity.
func (h *HealthHandler) checkDatabase() Check {
	start := time.Now()

	err := h.db.Ping()
	latency := time.Since(start)

	if err != nil {
		return Check{
			Status:  "unhealthy",
			Message: err.Error(),
			Latency: latency.String(),
		}
	}

	return Check{
		Status:  "healthy",
		Message: "Connected",
		Latency: latency.String(),
	}
}

// checkCache verifies the cache backend responds.
func (h *HealthHandler) checkCache(r *http.Request) Check {
	if h.cache == nil {
		return Check{Status: "healthy", Message: "Not configured"}
	}

	start := time.Now()
	_, err := h.cache.Has(r.Context(), "health:probe")
	latency := time.Since(start)

	if err != nil {
		return Check{
			Status:  "unhealthy",
			Message: err.Error(),
			Latency: latency.String(),
		}
	}

	return Check{
		Status:  "healthy",
		Latency: latency.String(),
	}
}

// getSystemInfo returns system-level metrics.
func getSystemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAllocKB:   m.Alloc / 1024,
		MemSysKB:     m.Sys / 1024,
	}
}
