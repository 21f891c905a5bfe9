// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package workflow

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk/newsdesk-go/internal/audit"
	"github.com/newsdesk/newsdesk-go/internal/model"
	"github.com/newsdesk/newsdesk-go/internal/store"
	"github.com/newsdesk/newsdesk-go/internal/testutil"
)

func newTestEngine(t *testing.T) (*Engine, *store.Queries, func()) {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	recorder := audit.NewRecorder(nil, testutil.TestLogger())
	engine := New(db, recorder, testutil.TestLogger())
	return engine, store.New(db), cleanup
}

var userSeq int64

func createUser(t *testing.T, q *store.Queries, role string) store.User {
	t.Helper()
	userSeq++
	now := time.Now()
	u, err := q.CreateUser(context.Background(), store.CreateUserParams{
		Email:        fmt.Sprintf("user%d@example.com", userSeq),
		PasswordHash: "x",
		Role:         role,
		Name:         fmt.Sprintf("User %d", userSeq),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	return u
}

type storyOpts struct {
	stage           string
	isTranslation   bool
	originalStoryID int64
	language        string
}

var storySeq int64

func createStory(t *testing.T, q *store.Queries, author store.User, opts storyOpts) store.Story {
	t.Helper()
	storySeq++
	if opts.stage == "" {
		opts.stage = model.StageDraft
	}
	if opts.language == "" {
		opts.language = "ENGLISH"
	}
	var originalID sql.NullInt64
	if opts.originalStoryID != 0 {
		originalID = sql.NullInt64{Int64: opts.originalStoryID, Valid: true}
	}
	now := time.Now()
	s, err := q.CreateStory(context.Background(), store.CreateStoryParams{
		Slug:            fmt.Sprintf("story-%d", storySeq),
		Title:           fmt.Sprintf("Story %d", storySeq),
		Body:            "Body text.",
		AuthorID:        author.ID,
		AuthorRole:      author.Role,
		Stage:           opts.stage,
		Status:          model.StatusForStage(opts.stage),
		Language:        opts.language,
		IsTranslation:   opts.isTranslation,
		OriginalStoryID: originalID,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	require.NoError(t, err)
	return s
}

// makeApprovable attaches the category plus LANGUAGE and RELIGION
// classifications a story needs to pass approval preconditions.
func makeApprovable(t *testing.T, q *store.Queries, story store.Story) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	cat, err := q.CreateCategory(ctx, store.CreateCategoryParams{
		Name:      fmt.Sprintf("Category %d", story.ID),
		Slug:      fmt.Sprintf("category-%d", story.ID),
		CreatedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, q.UpdateStoryCategory(ctx, story.ID, sql.NullInt64{Int64: cat.ID, Valid: true}, now))

	addClassification(t, q, story, model.ClassificationLanguage)
	addClassification(t, q, story, model.ClassificationReligion)
}

var classificationSeq int64

func addClassification(t *testing.T, q *store.Queries, story store.Story, typ string) {
	t.Helper()
	ctx := context.Background()
	classificationSeq++
	c, err := q.CreateClassification(ctx, store.CreateClassificationParams{
		Type:      typ,
		Name:      fmt.Sprintf("%s %d", typ, classificationSeq),
		Slug:      fmt.Sprintf("classification-%d", classificationSeq),
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, q.AddStoryClassification(ctx, story.ID, c.ID))
}

func auditCount(t *testing.T, q *store.Queries, action string, targetID int64) int64 {
	t.Helper()
	n, err := q.CountAuditRecordsByAction(context.Background(), action, targetID)
	require.NoError(t, err)
	return n
}

func TestSubmitForReviewRequiresAssignee(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	intern := createUser(t, q, model.RoleIntern)
	story := createStory(t, q, intern, storyOpts{})

	_, err := engine.ApplyTransition(ctx, TransitionRequest{
		StoryID: story.ID,
		Action:  model.ActionSubmitForReview,
		Actor:   Actor{UserID: intern.ID, Role: intern.Role},
	})
	require.Error(t, err)
	assert.Equal(t, KindPreconditionFailed, KindOf(err))

	reloaded, err := q.GetStoryByID(ctx, story.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageDraft, reloaded.Stage, "failed transition must not mutate state")
}

func TestSubmitForReview(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	intern := createUser(t, q, model.RoleIntern)
	journalist := createUser(t, q, model.RoleJournalist)
	story := createStory(t, q, intern, storyOpts{})

	updated, err := engine.ApplyTransition(ctx, TransitionRequest{
		StoryID: story.ID,
		Action:  model.ActionSubmitForReview,
		Actor:   Actor{UserID: intern.ID, Role: intern.Role},
		Payload: Payload{
			AssignedUserID: journalist.ID,
			Checklist:      map[string]bool{"spellchecked": true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StageNeedsReview, updated.Stage)
	assert.Equal(t, journalist.ID, updated.AssignedReviewerID.Int64)
	assert.JSONEq(t, `{"spellchecked":true}`, updated.AuthorChecklist)

	records, err := q.ListAuditRecordsByTarget(ctx, model.AuditTargetStory, story.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.AuditSubmitForReview, records[0].Action)
	assert.Equal(t, model.StageDraft, records[0].PreviousStage)
	assert.Equal(t, model.StageNeedsReview, records[0].NewStage)
}

func TestSubmitForReviewOnlyByAuthor(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()

	author := createUser(t, q, model.RoleIntern)
	other := createUser(t, q, model.RoleIntern)
	journalist := createUser(t, q, model.RoleJournalist)
	story := createStory(t, q, author, storyOpts{})

	_, err := engine.ApplyTransition(context.Background(), TransitionRequest{
		StoryID: story.ID,
		Action:  model.ActionSubmitForReview,
		Actor:   Actor{UserID: other.ID, Role: other.Role},
		Payload: Payload{AssignedUserID: journalist.ID},
	})
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestSendForApprovalJournalistDraft(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	journalist := createUser(t, q, model.RoleJournalist)
	subEditor := createUser(t, q, model.RoleSubEditor)
	story := createStory(t, q, journalist, storyOpts{})

	updated, err := engine.ApplyTransition(ctx, TransitionRequest{
		StoryID: story.ID,
		Action:  model.ActionSendForApproval,
		Actor:   Actor{UserID: journalist.ID, Role: journalist.Role},
		Payload: Payload{AssignedUserID: subEditor.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StageNeedsApproval, updated.Stage, "journalist drafts skip journalist review")
	assert.Equal(t, subEditor.ID, updated.AssignedApproverID.Int64)
	assert.EqualValues(t, 1, auditCount(t, q, model.AuditSendForApproval, story.ID))
}

func TestInternDraftCannotSkipReview(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()

	intern := createUser(t, q, model.RoleIntern)
	subEditor := createUser(t, q, model.RoleSubEditor)
	story := createStory(t, q, intern, storyOpts{})
	makeApprovable(t, q, story)

	// An intern-authored draft must pass through journalist review.
	_, err := engine.ApplyTransition(context.Background(), TransitionRequest{
		StoryID: story.ID,
		Action:  model.ActionApproveStory,
		Actor:   Actor{UserID: subEditor.ID, Role: subEditor.Role},
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidTransition, KindOf(err))
	assert.Contains(t, err.Error(), model.StageDraft, "error names the current stage")
}

func TestSubEditorDraftDirectApproval(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()

	subEditor := createUser(t, q, model.RoleSubEditor)
	story := createStory(t, q, subEditor, storyOpts{})
	makeApprovable(t, q, story)

	updated, err := engine.ApplyTransition(context.Background(), TransitionRequest{
		StoryID: story.ID,
		Action:  model.ActionApproveStory,
		Actor:   Actor{UserID: subEditor.ID, Role: subEditor.Role},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StageApproved, updated.Stage)
}

func TestRoleGate(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	journalist := createUser(t, q, model.RoleJournalist)
	intern := createUser(t, q, model.RoleIntern)

	tests := []struct {
		action string
		stage  string
	}{
		{model.ActionApproveStory, model.StageNeedsApproval},
		{model.ActionSendForTranslation, model.StageApproved},
		{model.ActionMarkAsTranslated, model.StageApproved},
		{model.ActionPublishStory, model.StageTranslated},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			story := createStory(t, q, journalist, storyOpts{stage: tt.stage})
			_, err := engine.ApplyTransition(ctx, TransitionRequest{
				StoryID: story.ID,
				Action:  tt.action,
				Actor:   Actor{UserID: intern.ID, Role: intern.Role},
			})
			assert.Equal(t, KindForbidden, KindOf(err), "role outside the action's set must be forbidden")
		})
	}
}

func TestApprovePreconditions(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	journalist := createUser(t, q, model.RoleJournalist)
	subEditor := createUser(t, q, model.RoleSubEditor)

	approve := func(storyID int64) error {
		_, err := engine.ApplyTransition(ctx, TransitionRequest{
			StoryID: storyID,
			Action:  model.ActionApproveStory,
			Actor:   Actor{UserID: subEditor.ID, Role: subEditor.Role},
		})
		return err
	}

	t.Run("missing category", func(t *testing.T) {
		story := createStory(t, q, journalist, storyOpts{stage: model.StageNeedsApproval})
		addClassification(t, q, story, model.ClassificationLanguage)
		addClassification(t, q, story, model.ClassificationReligion)

		err := approve(story.ID)
		require.Error(t, err)
		assert.Equal(t, KindPreconditionFailed, KindOf(err))
		assert.Contains(t, err.Error(), "category")
	})

	t.Run("missing language classification", func(t *testing.T) {
		story := createStory(t, q, journalist, storyOpts{stage: model.StageNeedsApproval})
		now := time.Now()
		cat, err := q.CreateCategory(ctx, store.CreateCategoryParams{Name: "News", Slug: "news", CreatedAt: now})
		require.NoError(t, err)
		require.NoError(t, q.UpdateStoryCategory(ctx, story.ID, sql.NullInt64{Int64: cat.ID, Valid: true}, now))
		addClassification(t, q, story, model.ClassificationReligion)

		err = approve(story.ID)
		require.Error(t, err)
		assert.Equal(t, KindPreconditionFailed, KindOf(err))
		assert.Contains(t, err.Error(), "LANGUAGE")

		reloaded, err := q.GetStoryByID(ctx, story.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StageNeedsApproval, reloaded.Stage)
	})

	t.Run("missing religion classification", func(t *testing.T) {
		story := createStory(t, q, journalist, storyOpts{stage: model.StageNeedsApproval})
		now := time.Now()
		cat, err := q.CreateCategory(ctx, store.CreateCategoryParams{Name: "Sport", Slug: "sport", CreatedAt: now})
		require.NoError(t, err)
		require.NoError(t, q.UpdateStoryCategory(ctx, story.ID, sql.NullInt64{Int64: cat.ID, Valid: true}, now))
		addClassification(t, q, story, model.ClassificationLanguage)

		err = approve(story.ID)
		require.Error(t, err)
		assert.Equal(t, KindPreconditionFailed, KindOf(err))
		assert.Contains(t, err.Error(), "RELIGION")
	})
}

func TestApproveStory(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()

	journalist := createUser(t, q, model.RoleJournalist)
	subEditor := createUser(t, q, model.RoleSubEditor)
	story := createStory(t, q, journalist, storyOpts{stage: model.StageNeedsApproval})
	makeApprovable(t, q, story)

	updated, err := engine.ApplyTransition(context.Background(), TransitionRequest{
		StoryID: story.ID,
		Action:  model.ActionApproveStory,
		Actor:   Actor{UserID: subEditor.ID, Role: subEditor.Role},
		Payload: Payload{Checklist: map[string]bool{"facts_checked": true}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StageApproved, updated.Stage)
	assert.JSONEq(t, `{"facts_checked":true}`, updated.ApproverChecklist)
}

func TestApproveTranslationStoryGoesToTranslated(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()

	journalist := createUser(t, q, model.RoleJournalist)
	subEditor := createUser(t, q, model.RoleSubEditor)
	original := createStory(t, q, journalist, storyOpts{stage: model.StageApproved})
	translation := createStory(t, q, journalist, storyOpts{
		stage:           model.StageNeedsApproval,
		isTranslation:   true,
		originalStoryID: original.ID,
		language:        "ZULU",
	})
	makeApprovable(t, q, translation)

	updated, err := engine.ApplyTransition(context.Background(), TransitionRequest{
		StoryID: translation.ID,
		Action:  model.ActionApproveStory,
		Actor:   Actor{UserID: subEditor.ID, Role: subEditor.Role},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StageTranslated, updated.Stage, "a translation has no further translation step of its own")
}

func TestSendForTranslation(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	journalist := createUser(t, q, model.RoleJournalist)
	subEditor := createUser(t, q, model.RoleSubEditor)
	translator1 := createUser(t, q, model.RoleJournalist)
	translator2 := createUser(t, q, model.RoleJournalist)
	story := createStory(t, q, journalist, storyOpts{stage: model.StageApproved})

	seedLanguages(t, q)

	updated, err := engine.ApplyTransition(ctx, TransitionRequest{
		StoryID: story.ID,
		Action:  model.ActionSendForTranslation,
		Actor:   Actor{UserID: subEditor.ID, Role: subEditor.Role},
		Payload: Payload{Translations: []TranslationTarget{
			{Language: "XHOSA", TranslatorID: translator1.ID},
			{Language: "ZULU", TranslatorID: translator2.ID},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StageApproved, updated.Stage, "commissioning translations keeps the story at APPROVED")

	requests, err := q.ListTranslationRequestsByStory(ctx, story.ID)
	require.NoError(t, err)
	require.Len(t, requests, 2)
	for _, r := range requests {
		assert.Equal(t, model.TranslationPending, r.Status)
	}
	assert.EqualValues(t, 1, auditCount(t, q, model.AuditSendForTranslation, story.ID))
}

func TestSendForTranslationRequiresLanguages(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()

	journalist := createUser(t, q, model.RoleJournalist)
	subEditor := createUser(t, q, model.RoleSubEditor)
	story := createStory(t, q, journalist, storyOpts{stage: model.StageApproved})

	_, err := engine.ApplyTransition(context.Background(), TransitionRequest{
		StoryID: story.ID,
		Action:  model.ActionSendForTranslation,
		Actor:   Actor{UserID: subEditor.ID, Role: subEditor.Role},
	})
	require.Error(t, err)
	assert.Equal(t, KindPreconditionFailed, KindOf(err))
}

func TestSendForTranslationUnknownLanguage(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()

	journalist := createUser(t, q, model.RoleJournalist)
	subEditor := createUser(t, q, model.RoleSubEditor)
	translator := createUser(t, q, model.RoleJournalist)
	story := createStory(t, q, journalist, storyOpts{stage: model.StageApproved})

	_, err := engine.ApplyTransition(context.Background(), TransitionRequest{
		StoryID: story.ID,
		Action:  model.ActionSendForTranslation,
		Actor:   Actor{UserID: subEditor.ID, Role: subEditor.Role},
		Payload: Payload{Translations: []TranslationTarget{
			{Language: "KLINGON", TranslatorID: translator.ID},
		}},
	})
	require.Error(t, err)
	assert.Equal(t, KindPreconditionFailed, KindOf(err))
}

func TestSendForTranslationDuplicateLanguage(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	journalist := createUser(t, q, model.RoleJournalist)
	subEditor := createUser(t, q, model.RoleSubEditor)
	translator := createUser(t, q, model.RoleJournalist)
	story := createStory(t, q, journalist, storyOpts{stage: model.StageApproved})

	seedLanguages(t, q)

	_, err := engine.ApplyTransition(ctx, TransitionRequest{
		StoryID: story.ID,
		Action:  model.ActionSendForTranslation,
		Actor:   Actor{UserID: subEditor.ID, Role: subEditor.Role},
		Payload: Payload{Translations: []TranslationTarget{
			{Language: "ZULU", TranslatorID: translator.ID},
		}},
	})
	require.NoError(t, err)

	_, err = engine.ApplyTransition(ctx, TransitionRequest{
		StoryID: story.ID,
		Action:  model.ActionSendForTranslation,
		Actor:   Actor{UserID: subEditor.ID, Role: subEditor.Role},
		Payload: Payload{Translations: []TranslationTarget{
			{Language: "ZULU", TranslatorID: translator.ID},
		}},
	})
	require.Error(t, err)
	assert.Equal(t, KindPreconditionFailed, KindOf(err), "recommissioning a language must be rejected before the write")
	assert.Contains(t, err.Error(), "ZULU")

	requests, err := q.ListTranslationRequestsByStory(ctx, story.ID)
	require.NoError(t, err)
	assert.Len(t, requests, 1)
}

func TestSendForTranslationDuplicateLanguageInPayload(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()

	journalist := createUser(t, q, model.RoleJournalist)
	subEditor := createUser(t, q, model.RoleSubEditor)
	translator1 := createUser(t, q, model.RoleJournalist)
	translator2 := createUser(t, q, model.RoleJournalist)
	story := createStory(t, q, journalist, storyOpts{stage: model.StageApproved})

	seedLanguages(t, q)

	_, err := engine.ApplyTransition(context.Background(), TransitionRequest{
		StoryID: story.ID,
		Action:  model.ActionSendForTranslation,
		Actor:   Actor{UserID: subEditor.ID, Role: subEditor.Role},
		Payload: Payload{Translations: []TranslationTarget{
			{Language: "XHOSA", TranslatorID: translator1.ID},
			{Language: "XHOSA", TranslatorID: translator2.ID},
		}},
	})
	require.Error(t, err)
	assert.Equal(t, KindPreconditionFailed, KindOf(err))
}

func TestPublishCascade(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	journalist := createUser(t, q, model.RoleJournalist)
	editor := createUser(t, q, model.RoleEditor)
	original := createStory(t, q, journalist, storyOpts{stage: model.StageTranslated})
	tr1 := createStory(t, q, journalist, storyOpts{
		stage: model.StageTranslated, isTranslation: true, originalStoryID: original.ID, language: "XHOSA",
	})
	tr2 := createStory(t, q, journalist, storyOpts{
		stage: model.StageTranslated, isTranslation: true, originalStoryID: original.ID, language: "ZULU",
	})

	updated, err := engine.ApplyTransition(ctx, TransitionRequest{
		StoryID: original.ID,
		Action:  model.ActionPublishStory,
		Actor:   Actor{UserID: editor.ID, Role: editor.Role},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StagePublished, updated.Stage)
	assert.Equal(t, model.StatusPublished, updated.Status, "legacy status stays in sync")
	assert.True(t, updated.PublishedAt.Valid)
	assert.Equal(t, editor.ID, updated.PublishedBy.Int64)

	for _, id := range []int64{tr1.ID, tr2.ID} {
		sib, err := q.GetStoryByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.StagePublished, sib.Stage)
		assert.Equal(t, model.StatusPublished, sib.Status)
		assert.True(t, sib.PublishedAt.Valid)
		assert.EqualValues(t, 1, auditCount(t, q, model.AuditAutoPublishTranslation, id))
	}
	assert.EqualValues(t, 1, auditCount(t, q, model.AuditPublishStory, original.ID))
}

func TestPublishOnlyFromTranslated(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()

	journalist := createUser(t, q, model.RoleJournalist)
	editor := createUser(t, q, model.RoleEditor)
	story := createStory(t, q, journalist, storyOpts{stage: model.StageApproved})

	_, err := engine.ApplyTransition(context.Background(), TransitionRequest{
		StoryID: story.ID,
		Action:  model.ActionPublishStory,
		Actor:   Actor{UserID: editor.ID, Role: editor.Role},
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidTransition, KindOf(err))
}

func TestMarkAsTranslatedBlockedByOutstandingRequests(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	journalist := createUser(t, q, model.RoleJournalist)
	subEditor := createUser(t, q, model.RoleSubEditor)
	translator := createUser(t, q, model.RoleJournalist)
	story := createStory(t, q, journalist, storyOpts{stage: model.StageApproved})

	now := time.Now()
	_, err := q.CreateTranslationRequest(ctx, store.CreateTranslationRequestParams{
		OriginalStoryID: story.ID,
		AssignedToID:    translator.ID,
		TargetLanguage:  "ZULU",
		Status:          model.TranslationInProgress,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	require.NoError(t, err)

	_, err = engine.ApplyTransition(ctx, TransitionRequest{
		StoryID: story.ID,
		Action:  model.ActionMarkAsTranslated,
		Actor:   Actor{UserID: subEditor.ID, Role: subEditor.Role},
	})
	require.Error(t, err)
	assert.Equal(t, KindPreconditionFailed, KindOf(err))
}

func TestRevisionLoop(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	journalist := createUser(t, q, model.RoleJournalist)
	subEditor := createUser(t, q, model.RoleSubEditor)
	story := createStory(t, q, journalist, storyOpts{stage: model.StageNeedsApproval})

	updated, err := engine.ApplyTransition(ctx, TransitionRequest{
		StoryID: story.ID,
		Action:  model.ActionRequestRevision,
		Actor:   Actor{UserID: subEditor.ID, Role: subEditor.Role},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StageNeedsRevision, updated.Stage)

	updated, err = engine.ApplyTransition(ctx, TransitionRequest{
		StoryID: story.ID,
		Action:  model.ActionResumeEditing,
		Actor:   Actor{UserID: journalist.ID, Role: journalist.Role},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StageDraft, updated.Stage)
}

func TestUnauthorized(t *testing.T) {
	engine, _, cleanup := newTestEngine(t)
	defer cleanup()

	_, err := engine.ApplyTransition(context.Background(), TransitionRequest{
		StoryID: 1,
		Action:  model.ActionPublishStory,
	})
	assert.Equal(t, KindUnauthorized, KindOf(err))
}

func TestStoryNotFound(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()

	editor := createUser(t, q, model.RoleEditor)
	_, err := engine.ApplyTransition(context.Background(), TransitionRequest{
		StoryID: 9999,
		Action:  model.ActionPublishStory,
		Actor:   Actor{UserID: editor.ID, Role: editor.Role},
	})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestUnknownAction(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()

	editor := createUser(t, q, model.RoleEditor)
	_, err := engine.ApplyTransition(context.Background(), TransitionRequest{
		StoryID: 1,
		Action:  "delete_story",
		Actor:   Actor{UserID: editor.ID, Role: editor.Role},
	})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestTranslationStoryApprovalAdvancesOriginal(t *testing.T) {
	engine, q, cleanup := newTestEngine(t)
	defer cleanup()
	ctx := context.Background()

	journalist := createUser(t, q, model.RoleJournalist)
	subEditor := createUser(t, q, model.RoleSubEditor)
	original := createStory(t, q, journalist, storyOpts{stage: model.StageApproved})
	tr1 := createStory(t, q, journalist, storyOpts{
		stage: model.StageTranslated, isTranslation: true, originalStoryID: original.ID, language: "XHOSA",
	})
	_ = tr1
	tr2 := createStory(t, q, journalist, storyOpts{
		stage: model.StageNeedsApproval, isTranslation: true, originalStoryID: original.ID, language: "ZULU",
	})
	makeApprovable(t, q, tr2)

	// Approving the last pending translation story advances the original.
	_, err := engine.ApplyTransition(ctx, TransitionRequest{
		StoryID: tr2.ID,
		Action:  model.ActionApproveStory,
		Actor:   Actor{UserID: subEditor.ID, Role: subEditor.Role},
	})
	require.NoError(t, err)

	reloaded, err := q.GetStoryByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageTranslated, reloaded.Stage)
	assert.EqualValues(t, 1, auditCount(t, q, model.AuditAutoMarkAsTranslated, original.ID))
}

func seedLanguages(t *testing.T, q *store.Queries) {
	t.Helper()
	ctx := context.Background()
	for _, code := range []string{"ENGLISH", "XHOSA", "ZULU"} {
		if _, err := q.GetLanguageByCode(ctx, code); err == nil {
			continue
		}
		_, err := q.CreateLanguage(ctx, store.CreateLanguageParams{
			Code: code, Name: code, Enabled: true, CreatedAt: time.Now(),
		})
		require.NoError(t, err)
	}
}
