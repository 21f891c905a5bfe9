// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package workflow implements the stage transition engine for stories
// and translation requests: role permission checks, stage preconditions,
// cascading side effects and audit emission, all applied inside a single
// database transaction per request.
package workflow

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/newsdesk/newsdesk-go/internal/audit"
	"github.com/newsdesk/newsdesk-go/internal/model"
	"github.com/newsdesk/newsdesk-go/internal/store"
)

// Engine validates and applies workflow transitions.
type Engine struct {
	db       *sql.DB
	recorder *audit.Recorder
	logger   *slog.Logger
}

// New creates an Engine.
func New(db *sql.DB, recorder *audit.Recorder, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{db: db, recorder: recorder, logger: logger}
}

// TranslationTarget pairs a target language with its translator.
type TranslationTarget struct {
	Language     string `json:"language"`
	TranslatorID int64  `json:"translator_id"`
}

// Payload carries action-specific input for a transition.
type Payload struct {
	AssignedUserID int64               `json:"assigned_user_id,omitempty"`
	Checklist      map[string]bool     `json:"checklist,omitempty"`
	Translations   []TranslationTarget `json:"translation_languages,omitempty"`
}

// TransitionRequest is one requested story transition.
type TransitionRequest struct {
	StoryID int64
	Action  string
	Actor   Actor
	Payload Payload
	Meta    audit.RequestMeta
}

// TranslationTransitionRequest is one requested translation request
// transition.
type TranslationTransitionRequest struct {
	RequestID int64
	Action    string
	Actor     Actor
	Meta      audit.RequestMeta
}

// ApplyTransition validates and applies a story transition. The primary
// update, every cascaded update and every audit record commit or roll
// back together; on failure the returned error is a typed *Error and no
// partial state is visible.
func (e *Engine) ApplyTransition(ctx context.Context, req TransitionRequest) (*store.Story, error) {
	if req.Actor.UserID == 0 {
		return nil, errUnauthorized()
	}
	if !model.IsValidAction(req.Action) {
		return nil, errValidation("unknown action: " + req.Action)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errTransient("starting transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := store.New(e.db).WithTx(tx)

	story, err := q.GetStoryByID(ctx, req.StoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errNotFound("story not found")
		}
		return nil, errTransient("loading story", err)
	}

	if err := authorize(req.Actor, req.Action, story); err != nil {
		return nil, err
	}

	target, err := resolveStoryStage(req.Action, story)
	if err != nil {
		return nil, err
	}

	if err := e.checkPayload(ctx, q, story, req.Action, req.Payload); err != nil {
		return nil, err
	}
	if req.Action == model.ActionApproveStory {
		if err := e.checkApprovePreconditions(ctx, q, story); err != nil {
			return nil, err
		}
	}
	if req.Action == model.ActionMarkAsTranslated {
		unresolved, err := q.CountUnresolvedTranslationRequests(ctx, story.ID)
		if err != nil {
			return nil, errTransient("counting translation requests", err)
		}
		if unresolved > 0 {
			return nil, errPreconditionFailed(
				fmt.Sprintf("%d translation requests are still outstanding", unresolved),
				"translation_requests")
		}
	}

	now := time.Now()
	updated, details, err := e.applyPrimary(ctx, q, story, req, target, now)
	if err != nil {
		return nil, err
	}

	// Cascades run after the primary write, inside the same transaction.
	switch {
	case req.Action == model.ActionPublishStory && !story.IsTranslation:
		if err := e.cascadePublishTranslations(ctx, q, story, req, now); err != nil {
			return nil, err
		}
	case req.Action == model.ActionApproveStory && story.IsTranslation && story.OriginalStoryID.Valid:
		if err := e.cascadeAdvanceOriginal(ctx, q, story.OriginalStoryID.Int64, story.ID, req.Actor, req.Meta, now); err != nil {
			return nil, err
		}
	}

	if _, err := e.recorder.Record(ctx, q, audit.Entry{
		ActorID:       req.Actor.UserID,
		Action:        model.AuditActionForStoryAction(req.Action),
		TargetType:    model.AuditTargetStory,
		TargetID:      story.ID,
		PreviousStage: story.Stage,
		NewStage:      updated.Stage,
		Details:       details,
		Meta:          req.Meta,
	}); err != nil {
		return nil, errTransient("recording audit", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errTransient("committing transaction", err)
	}

	e.logger.Info("story transition applied",
		"story_id", story.ID,
		"action", req.Action,
		"from", story.Stage,
		"to", updated.Stage,
		"actor_id", req.Actor.UserID,
	)
	return &updated, nil
}

// checkPayload enforces payload completeness per action.
func (e *Engine) checkPayload(ctx context.Context, q *store.Queries, story store.Story, action string, p Payload) error {
	switch action {
	case model.ActionSubmitForReview:
		if p.AssignedUserID == 0 {
			return errPreconditionFailed("must assign a journalist for review", "assigned_user_id")
		}
	case model.ActionSendForApproval:
		if p.AssignedUserID == 0 {
			return errPreconditionFailed("must assign a sub-editor for approval", "assigned_user_id")
		}
	case model.ActionSendForTranslation:
		if len(p.Translations) == 0 {
			return errPreconditionFailed("at least one translation language is required", "translation_languages")
		}
		existing, err := q.ListTranslationRequestsByStory(ctx, story.ID)
		if err != nil {
			return errTransient("loading translation requests", err)
		}
		commissioned := make(map[string]bool, len(existing)+len(p.Translations))
		for _, r := range existing {
			commissioned[r.TargetLanguage] = true
		}
		for _, t := range p.Translations {
			if t.Language == "" || t.TranslatorID == 0 {
				return errValidation("each translation entry needs a language and a translator")
			}
			if commissioned[t.Language] {
				return errPreconditionFailed("language "+t.Language+" already has a translation request", "language")
			}
			commissioned[t.Language] = true
			lang, err := q.GetLanguageByCode(ctx, t.Language)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return errPreconditionFailed("language "+t.Language+" is not available for translation", "language")
				}
				return errTransient("loading language", err)
			}
			if !lang.Enabled {
				return errPreconditionFailed("language "+t.Language+" is not available for translation", "language")
			}
		}
	}
	return nil
}

// checkApprovePreconditions enforces the required fields for approval: a
// category plus at least one LANGUAGE and one RELIGION classification.
func (e *Engine) checkApprovePreconditions(ctx context.Context, q *store.Queries, story store.Story) error {
	if !story.CategoryID.Valid {
		return errPreconditionFailed("a category is required before approval", "category")
	}

	classifications, err := q.ListStoryClassifications(ctx, story.ID)
	if err != nil {
		return errTransient("loading classifications", err)
	}

	var hasLanguage, hasReligion bool
	for _, c := range classifications {
		switch c.Type {
		case model.ClassificationLanguage:
			hasLanguage = true
		case model.ClassificationReligion:
			hasReligion = true
		}
	}
	if !hasLanguage {
		return errPreconditionFailed("a LANGUAGE classification is required before approval", "classification:LANGUAGE")
	}
	if !hasReligion {
		return errPreconditionFailed("a RELIGION classification is required before approval", "classification:RELIGION")
	}
	return nil
}

// applyPrimary persists the primary transition and returns the updated
// story along with the action-specific audit details.
func (e *Engine) applyPrimary(ctx context.Context, q *store.Queries, story store.Story, req TransitionRequest, target string, now time.Time) (store.Story, map[string]any, error) {
	details := map[string]any{"title": story.Title}

	var updated store.Story
	var err error

	switch req.Action {
	case model.ActionSubmitForReview:
		details["assigned_reviewer_id"] = req.Payload.AssignedUserID
		updated, err = q.AssignReviewer(ctx, store.AssignReviewerParams{
			ID:              story.ID,
			Stage:           target,
			ReviewerID:      req.Payload.AssignedUserID,
			AuthorChecklist: checklistJSON(req.Payload.Checklist, story.AuthorChecklist),
			UpdatedAt:       now,
		})

	case model.ActionSendForApproval:
		details["assigned_approver_id"] = req.Payload.AssignedUserID
		updated, err = q.AssignApprover(ctx, store.AssignApproverParams{
			ID:                story.ID,
			Stage:             target,
			ApproverID:        req.Payload.AssignedUserID,
			ReviewerChecklist: checklistJSON(req.Payload.Checklist, story.ReviewerChecklist),
			UpdatedAt:         now,
		})

	case model.ActionApproveStory:
		updated, err = q.ApproveStory(ctx, store.ApproveStoryParams{
			ID:                story.ID,
			Stage:             target,
			ApproverChecklist: checklistJSON(req.Payload.Checklist, story.ApproverChecklist),
			UpdatedAt:         now,
		})

	case model.ActionSendForTranslation:
		langs := make([]string, 0, len(req.Payload.Translations))
		for _, t := range req.Payload.Translations {
			if _, err := q.CreateTranslationRequest(ctx, store.CreateTranslationRequestParams{
				OriginalStoryID: story.ID,
				AssignedToID:    t.TranslatorID,
				TargetLanguage:  t.Language,
				Status:          model.TranslationPending,
				CreatedAt:       now,
				UpdatedAt:       now,
			}); err != nil {
				return store.Story{}, nil, errTransient("creating translation request", err)
			}
			langs = append(langs, t.Language)
		}
		details["languages"] = langs
		updated, err = q.SetStoryStage(ctx, store.SetStoryStageParams{
			ID:        story.ID,
			Stage:     target,
			Status:    model.StatusForStage(target),
			UpdatedAt: now,
		})

	case model.ActionPublishStory:
		details["published_by"] = req.Actor.UserID
		updated, err = q.PublishStory(ctx, store.PublishStoryParams{
			ID:          story.ID,
			PublishedAt: now,
			PublishedBy: req.Actor.UserID,
		})

	default: // mark_as_translated, request_revision, resume_editing
		updated, err = q.SetStoryStage(ctx, store.SetStoryStageParams{
			ID:        story.ID,
			Stage:     target,
			Status:    model.StatusForStage(target),
			UpdatedAt: now,
		})
	}

	if err != nil {
		return store.Story{}, nil, errTransient("updating story", err)
	}
	return updated, details, nil
}

// cascadePublishTranslations publishes every translation story of a
// freshly published original, emitting one audit record per sibling.
func (e *Engine) cascadePublishTranslations(ctx context.Context, q *store.Queries, original store.Story, req TransitionRequest, now time.Time) error {
	siblings, err := q.ListTranslationStories(ctx, original.ID)
	if err != nil {
		return errTransient("listing translation stories", err)
	}

	for _, sib := range siblings {
		if sib.Stage == model.StagePublished {
			continue
		}
		if _, err := q.PublishStory(ctx, store.PublishStoryParams{
			ID:          sib.ID,
			PublishedAt: now,
			PublishedBy: req.Actor.UserID,
		}); err != nil {
			return errTransient("publishing translation story", err)
		}
		if _, err := e.recorder.Record(ctx, q, audit.Entry{
			ActorID:       req.Actor.UserID,
			Action:        model.AuditAutoPublishTranslation,
			TargetType:    model.AuditTargetStory,
			TargetID:      sib.ID,
			PreviousStage: sib.Stage,
			NewStage:      model.StagePublished,
			Details: map[string]any{
				"title":             sib.Title,
				"original_story_id": original.ID,
			},
			Meta: req.Meta,
		}); err != nil {
			return errTransient("recording cascade audit", err)
		}
	}
	return nil
}

// cascadeAdvanceOriginal advances an original story from APPROVED to
// TRANSLATED once every sibling translation story has resolved. The
// original's stage is re-read inside the open transaction, so racing
// approvals produce exactly one advance: the loser observes the already
// advanced stage and does nothing.
func (e *Engine) cascadeAdvanceOriginal(ctx context.Context, q *store.Queries, originalID, triggerID int64, actor Actor, meta audit.RequestMeta, now time.Time) error {
	original, err := q.GetStoryByID(ctx, originalID)
	if err != nil {
		return errTransient("loading original story", err)
	}
	if original.Stage != model.StageApproved {
		return nil
	}

	siblings, err := q.ListTranslationStories(ctx, originalID)
	if err != nil {
		return errTransient("listing translation stories", err)
	}
	for _, sib := range siblings {
		if sib.ID == triggerID {
			continue
		}
		switch sib.Stage {
		case model.StageApproved, model.StageTranslated, model.StagePublished:
		default:
			return nil
		}
	}

	// Requests without a produced translation story also block the
	// advance.
	unresolved, err := q.CountUnresolvedTranslationRequests(ctx, originalID)
	if err != nil {
		return errTransient("counting translation requests", err)
	}
	if unresolved > 0 {
		return nil
	}

	return e.advanceOriginal(ctx, q, original, map[string]any{
		"title":               original.Title,
		"triggering_story_id": triggerID,
	}, actor, meta, now)
}

// advanceOriginal performs the APPROVED to TRANSLATED move on an
// original story and records the AUTO_MARK_AS_TRANSLATED audit entry.
func (e *Engine) advanceOriginal(ctx context.Context, q *store.Queries, original store.Story, details map[string]any, actor Actor, meta audit.RequestMeta, now time.Time) error {
	if _, err := q.SetStoryStage(ctx, store.SetStoryStageParams{
		ID:        original.ID,
		Stage:     model.StageTranslated,
		Status:    model.StatusForStage(model.StageTranslated),
		UpdatedAt: now,
	}); err != nil {
		return errTransient("advancing original story", err)
	}

	if _, err := e.recorder.Record(ctx, q, audit.Entry{
		ActorID:       actor.UserID,
		Action:        model.AuditAutoMarkAsTranslated,
		TargetType:    model.AuditTargetStory,
		TargetID:      original.ID,
		PreviousStage: model.StageApproved,
		NewStage:      model.StageTranslated,
		Details:       details,
		Meta:          meta,
	}); err != nil {
		return errTransient("recording cascade audit", err)
	}
	return nil
}

// checklistJSON marshals a checklist snapshot, keeping the existing
// stored value when the payload omits one.
func checklistJSON(m map[string]bool, existing string) string {
	if m == nil {
		return existing
	}
	b, err := json.Marshal(m)
	if err != nil {
		return existing
	}
	return string(b)
}
