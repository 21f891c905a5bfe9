// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk/newsdesk-go/internal/audit"
	"github.com/newsdesk/newsdesk-go/internal/model"
	"github.com/newsdesk/newsdesk-go/internal/scheduler"
	"github.com/newsdesk/newsdesk-go/internal/store"
	"github.com/newsdesk/newsdesk-go/internal/testutil"
	"github.com/newsdesk/newsdesk-go/internal/workflow"
)

func setup(t *testing.T) (*scheduler.Scheduler, *store.Queries, func()) {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	require.NoError(t, store.Seed(context.Background(), db))

	logger := testutil.TestLogger()
	engine := workflow.New(db, audit.NewRecorder(nil, logger), logger)
	s := scheduler.New(db, engine, logger, 30*24*time.Hour)
	return s, store.New(db), cleanup
}

func createScheduledStory(t *testing.T, q *store.Queries, slug, stage string, scheduledAt time.Time) store.Story {
	t.Helper()
	admin, err := q.GetUserByEmail(context.Background(), store.DefaultAdminEmail)
	require.NoError(t, err)

	now := time.Now()
	s, err := q.CreateStory(context.Background(), store.CreateStoryParams{
		Slug:        slug,
		Title:       "Title " + slug,
		Body:        "Body.",
		AuthorID:    admin.ID,
		AuthorRole:  admin.Role,
		Stage:       stage,
		Status:      model.StatusForStage(stage),
		Language:    "ENGLISH",
		ScheduledAt: sql.NullTime{Time: scheduledAt, Valid: true},
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)
	return s
}

func TestProcessScheduledStories(t *testing.T) {
	s, q, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	due := createScheduledStory(t, q, "due-story", model.StageTranslated, time.Now().Add(-time.Minute))
	future := createScheduledStory(t, q, "future-story", model.StageTranslated, time.Now().Add(time.Hour))

	require.NoError(t, s.ProcessScheduledStories(ctx))

	published, err := q.GetStoryByID(ctx, due.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StagePublished, published.Stage)
	assert.True(t, published.PublishedAt.Valid)

	pending, err := q.GetStoryByID(ctx, future.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageTranslated, pending.Stage)
}

func TestProcessScheduledStoriesFromApproved(t *testing.T) {
	s, q, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	story := createScheduledStory(t, q, "approved-story", model.StageApproved, time.Now().Add(-time.Minute))

	require.NoError(t, s.ProcessScheduledStories(ctx))

	published, err := q.GetStoryByID(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StagePublished, published.Stage)
}

func TestProcessScheduledStoriesDefersOnOpenRequests(t *testing.T) {
	s, q, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	admin, err := q.GetUserByEmail(ctx, store.DefaultAdminEmail)
	require.NoError(t, err)
	story := createScheduledStory(t, q, "blocked-story", model.StageApproved, time.Now().Add(-time.Minute))

	now := time.Now()
	_, err = q.CreateTranslationRequest(ctx, store.CreateTranslationRequestParams{
		OriginalStoryID: story.ID,
		AssignedToID:    admin.ID,
		TargetLanguage:  "ZULU",
		Status:          model.TranslationInProgress,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	require.NoError(t, err)

	// The sweep itself succeeds; the blocked story is skipped.
	require.NoError(t, s.ProcessScheduledStories(ctx))

	reloaded, err := q.GetStoryByID(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageApproved, reloaded.Stage)
}

func TestPurgeAuditRecords(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	require.NoError(t, store.Seed(context.Background(), db))
	ctx := context.Background()
	q := store.New(db)

	logger := testutil.TestLogger()
	engine := workflow.New(db, audit.NewRecorder(nil, logger), logger)

	old := time.Now().Add(-48 * time.Hour)
	_, err := q.CreateAuditRecord(ctx, store.CreateAuditRecordParams{
		RequestID:  "old",
		Action:     model.AuditSystemEvent,
		TargetType: model.AuditTargetSystem,
		Details:    "{}",
		CreatedAt:  old,
	})
	require.NoError(t, err)
	_, err = q.CreateAuditRecord(ctx, store.CreateAuditRecordParams{
		RequestID:  "recent",
		Action:     model.AuditSystemEvent,
		TargetType: model.AuditTargetSystem,
		Details:    "{}",
		CreatedAt:  time.Now(),
	})
	require.NoError(t, err)

	s := scheduler.New(db, engine, logger, 24*time.Hour)
	require.NoError(t, s.PurgeAuditRecords(ctx))

	records, err := q.ListAuditRecordsByTarget(ctx, model.AuditTargetSystem, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "recent", records[0].RequestID)
}
