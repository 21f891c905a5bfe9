// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic jobs: publishing stories whose
// scheduled time has arrived and purging expired audit records.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/newsdesk/newsdesk-go/internal/model"
	"github.com/newsdesk/newsdesk-go/internal/store"
	"github.com/newsdesk/newsdesk-go/internal/workflow"
)

// Scheduler handles scheduled tasks like publishing stories on time.
type Scheduler struct {
	db             *sql.DB
	engine         *workflow.Engine
	cron           *cron.Cron
	logger         *slog.Logger
	auditRetention time.Duration
}

// New creates a new scheduler instance. auditRetention bounds how long
// audit records are kept; zero disables the purge job.
func New(db *sql.DB, engine *workflow.Engine, logger *slog.Logger, auditRetention time.Duration) *Scheduler {
	return &Scheduler{
		db:             db,
		engine:         engine,
		cron:           cron.New(),
		logger:         logger,
		auditRetention: auditRetention,
	}
}

// Start begins the scheduler with a publish sweep every minute and a
// nightly audit purge.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("* * * * *", func() {
		if err := s.ProcessScheduledStories(context.Background()); err != nil {
			s.logger.Error("failed to process scheduled stories", "error", err)
		}
	})
	if err != nil {
		return err
	}

	if s.auditRetention > 0 {
		_, err = s.cron.AddFunc("0 3 * * *", func() {
			if err := s.PurgeAuditRecords(context.Background()); err != nil {
				s.logger.Error("failed to purge audit records", "error", err)
			}
		})
		if err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// ProcessScheduledStories publishes every story whose scheduled time has
// passed. Stories still at APPROVED are first marked translated, which
// the engine refuses while translation requests remain unresolved; those
// stories are retried on the next sweep.
func (s *Scheduler) ProcessScheduledStories(ctx context.Context) error {
	queries := store.New(s.db)

	actor, err := s.systemActor(ctx, queries)
	if err != nil {
		return err
	}

	now := time.Now()
	stories, err := queries.ListScheduledStoriesDue(ctx, now)
	if err != nil {
		return err
	}
	if len(stories) == 0 {
		return nil
	}

	s.logger.Info("processing scheduled stories", "count", len(stories))

	for _, story := range stories {
		if err := s.publishStory(ctx, actor, story); err != nil {
			s.logger.Warn("scheduled publish deferred",
				"story_id", story.ID,
				"story_title", story.Title,
				"error", err,
			)
			continue
		}

		s.logger.Info("published scheduled story",
			"story_id", story.ID,
			"story_title", story.Title,
			"scheduled_at", story.ScheduledAt.Time,
		)
	}

	return nil
}

func (s *Scheduler) publishStory(ctx context.Context, actor workflow.Actor, story store.Story) error {
	if story.Stage == model.StageApproved {
		updated, err := s.engine.ApplyTransition(ctx, workflow.TransitionRequest{
			StoryID: story.ID,
			Action:  model.ActionMarkAsTranslated,
			Actor:   actor,
		})
		if err != nil {
			return err
		}
		story = *updated
	}

	_, err := s.engine.ApplyTransition(ctx, workflow.TransitionRequest{
		StoryID: story.ID,
		Action:  model.ActionPublishStory,
		Actor:   actor,
	})
	return err
}

// PurgeAuditRecords removes audit records older than the configured
// retention window.
func (s *Scheduler) PurgeAuditRecords(ctx context.Context) error {
	queries := store.New(s.db)

	cutoff := time.Now().Add(-s.auditRetention)
	deleted, err := queries.DeleteOldAuditRecords(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.logger.Info("purged audit records", "deleted", deleted, "cutoff", cutoff)
	}
	return nil
}

// systemActor resolves the seeded superadmin the scheduler acts as.
func (s *Scheduler) systemActor(ctx context.Context, queries *store.Queries) (workflow.Actor, error) {
	admin, err := queries.GetUserByEmail(ctx, store.DefaultAdminEmail)
	if err != nil {
		return workflow.Actor{}, err
	}
	return workflow.Actor{UserID: admin.ID, Role: admin.Role}, nil
}
