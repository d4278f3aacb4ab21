// Copyright (c) 2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/agenda-go/internal/geoip"
	"github.com/olegiv/agenda-go/internal/service"
)

// Scheduler handles scheduled maintenance: purging old audit events and
// refreshing the GeoIP database.
type Scheduler struct {
	db             *sql.DB
	cron           *cron.Cron
	logger         *slog.Logger
	geo            *geoip.Lookup
	eventRetention time.Duration
}

// New creates a new scheduler instance. geo may be nil.
func New(db *sql.DB, logger *slog.Logger, geo *geoip.Lookup, eventRetentionDays int) *Scheduler {
	if eventRetentionDays <= 0 {
		eventRetentionDays = 90
	}
	return &Scheduler{
		db:             db,
		cron:           cron.New(),
		logger:         logger,
		geo:            geo,
		eventRetention: time.Duration(eventRetentionDays) * 24 * time.Hour,
	}
}

// Start registers the maintenance jobs and begins the scheduler.
func (s *Scheduler) Start() error {
	// Purge old audit events nightly
	if _, err := s.cron.AddFunc("30 3 * * *", func() {
		if err := s.purgeOldEvents(); err != nil {
			s.logger.Error("failed to purge old events", "error", err)
		}
	}); err != nil {
		return err
	}

	// Pick up GeoIP database updates
	if s.geo != nil {
		if _, err := s.cron.AddFunc("0 4 * * *", func() {
			if err := s.geo.Reload(); err != nil {
				s.logger.Warn("failed to reload geoip database", "error", err)
			}
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// purgeOldEvents removes audit events older than the retention period.
func (s *Scheduler) purgeOldEvents() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	events := service.NewEventService(s.db)
	if err := events.DeleteOldEvents(ctx, s.eventRetention); err != nil {
		return err
	}

	s.logger.Info("purged old audit events", "retention", s.eventRetention.String())
	return nil
}
