// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package workflow

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/newsdesk/newsdesk-go/internal/audit"
	"github.com/newsdesk/newsdesk-go/internal/model"
	"github.com/newsdesk/newsdesk-go/internal/store"
	"github.com/newsdesk/newsdesk-go/internal/util"
)

// ApplyTranslationTransition validates and applies a translation request
// transition. Approving the last outstanding request of a story triggers
// the original-story auto-advance, inside the same transaction as the
// request's own status write.
func (e *Engine) ApplyTranslationTransition(ctx context.Context, req TranslationTransitionRequest) (*store.TranslationRequest, error) {
	if req.Actor.UserID == 0 {
		return nil, errUnauthorized()
	}
	if !model.IsValidTranslationAction(req.Action) {
		return nil, errValidation("unknown translation action: " + req.Action)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errTransient("starting transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := store.New(e.db).WithTx(tx)

	request, err := q.GetTranslationRequestByID(ctx, req.RequestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errNotFound("translation request not found")
		}
		return nil, errTransient("loading translation request", err)
	}

	if err := authorizeTranslation(req.Actor, req.Action, request); err != nil {
		return nil, err
	}

	target, err := resolveTranslationStatus(req.Action, request)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updated, err := q.SetTranslationRequestStatus(ctx, request.ID, target, now)
	if err != nil {
		return nil, errTransient("updating translation request", err)
	}

	details := map[string]any{
		"original_story_id": request.OriginalStoryID,
		"target_language":   request.TargetLanguage,
	}

	if req.Action == model.TranslationActionStart {
		translation, err := e.ensureTranslationStory(ctx, q, request, now)
		if err != nil {
			return nil, err
		}
		details["translation_story_id"] = translation.ID
	}

	if req.Action == model.TranslationActionApprove {
		if err := e.cascadeAdvanceOriginalFromRequests(ctx, q, request, req.Actor, req.Meta, now); err != nil {
			return nil, err
		}
	}

	if _, err := e.recorder.Record(ctx, q, audit.Entry{
		ActorID:       req.Actor.UserID,
		Action:        model.AuditActionForTranslationAction(req.Action),
		TargetType:    model.AuditTargetTranslation,
		TargetID:      request.ID,
		PreviousStage: request.Status,
		NewStage:      updated.Status,
		Details:       details,
		Meta:          req.Meta,
	}); err != nil {
		return nil, errTransient("recording audit", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errTransient("committing transaction", err)
	}

	e.logger.Info("translation transition applied",
		"request_id", request.ID,
		"action", req.Action,
		"from", request.Status,
		"to", updated.Status,
		"actor_id", req.Actor.UserID,
	)
	return &updated, nil
}

// ensureTranslationStory creates the working copy a translator edits
// when they pick up a request. The copy starts as a DRAFT in the target
// language, seeded from the original's content and classifications. A
// restart after rejection reuses the copy created on the first start.
func (e *Engine) ensureTranslationStory(ctx context.Context, q *store.Queries, request store.TranslationRequest, now time.Time) (store.Story, error) {
	existing, err := q.GetTranslationStory(ctx, request.OriginalStoryID, request.TargetLanguage)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return store.Story{}, errTransient("loading translation story", err)
	}

	original, err := q.GetStoryByID(ctx, request.OriginalStoryID)
	if err != nil {
		return store.Story{}, errTransient("loading original story", err)
	}
	translator, err := q.GetUserByID(ctx, request.AssignedToID)
	if err != nil {
		return store.Story{}, errTransient("loading translator", err)
	}

	slug, err := util.UniqueSlug(ctx, util.TranslationSlug(original.Slug, request.TargetLanguage), q.SlugExists)
	if err != nil {
		return store.Story{}, errTransient("allocating slug", err)
	}

	story, err := q.CreateStory(ctx, store.CreateStoryParams{
		Slug:            slug,
		Title:           original.Title,
		Body:            original.Body,
		AuthorID:        translator.ID,
		AuthorRole:      translator.Role,
		Stage:           model.StageDraft,
		Status:          model.StatusDraft,
		CategoryID:      original.CategoryID,
		Language:        request.TargetLanguage,
		IsTranslation:   true,
		OriginalStoryID: sql.NullInt64{Int64: original.ID, Valid: true},
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return store.Story{}, errTransient("creating translation story", err)
	}

	classifications, err := q.ListStoryClassifications(ctx, original.ID)
	if err != nil {
		return store.Story{}, errTransient("loading classifications", err)
	}
	for _, c := range classifications {
		if err := q.AddStoryClassification(ctx, story.ID, c.ID); err != nil {
			return store.Story{}, errTransient("copying classification", err)
		}
	}

	e.logger.Info("translation story created",
		"story_id", story.ID,
		"original_story_id", original.ID,
		"language", request.TargetLanguage,
		"slug", story.Slug,
	)
	return story, nil
}

// cascadeAdvanceOriginalFromRequests advances the original story to
// TRANSLATED when the just-approved request was the last unresolved one.
// The original's stage and the request statuses are read inside the open
// transaction, so two racing approvals on the last two requests produce
// exactly one advance.
func (e *Engine) cascadeAdvanceOriginalFromRequests(ctx context.Context, q *store.Queries, request store.TranslationRequest, actor Actor, meta audit.RequestMeta, now time.Time) error {
	unresolved, err := q.CountUnresolvedTranslationRequests(ctx, request.OriginalStoryID)
	if err != nil {
		return errTransient("counting translation requests", err)
	}
	if unresolved > 0 {
		return nil
	}

	original, err := q.GetStoryByID(ctx, request.OriginalStoryID)
	if err != nil {
		return errTransient("loading original story", err)
	}
	if original.Stage != model.StageApproved {
		// Already advanced (or not yet approved): nothing to do.
		return nil
	}

	return e.advanceOriginal(ctx, q, original, map[string]any{
		"title":                 original.Title,
		"triggering_request_id": request.ID,
		"target_language":       request.TargetLanguage,
	}, actor, meta, now)
}
