// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/newsdesk/newsdesk-go/internal/audit"
	"github.com/newsdesk/newsdesk-go/internal/markup"
	"github.com/newsdesk/newsdesk-go/internal/middleware"
	"github.com/newsdesk/newsdesk-go/internal/model"
	"github.com/newsdesk/newsdesk-go/internal/store"
	"github.com/newsdesk/newsdesk-go/internal/util"
)

// CreateStoryRequest is the payload for creating a story.
type CreateStoryRequest struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	Language    string `json:"language"`
	CategoryID  int64  `json:"category_id,omitempty"`
	ScheduledAt string `json:"scheduled_at,omitempty"` // RFC 3339
}

// CreateStory creates a new story in DRAFT for the authenticated user.
func (h *Handler) CreateStory(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "authentication required")
		return
	}

	var req CreateStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "invalid JSON body", nil)
		return
	}

	fieldErrors := map[string]string{}
	if req.Title == "" {
		fieldErrors["title"] = "title is required"
	}
	if req.Body == "" {
		fieldErrors["body"] = "body is required"
	}
	if req.Language == "" {
		req.Language = "ENGLISH"
	}
	if ok, err := h.languages.IsEnabled(r.Context(), req.Language); err != nil {
		WriteInternalError(w, "failed to check language")
		return
	} else if !ok {
		fieldErrors["language"] = "language " + req.Language + " is not enabled"
	}

	var scheduledAt sql.NullTime
	if req.ScheduledAt != "" {
		at, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			fieldErrors["scheduled_at"] = "must be an RFC 3339 timestamp"
		} else {
			scheduledAt = sql.NullTime{Time: at, Valid: true}
		}
	}
	if len(fieldErrors) > 0 {
		WriteValidationError(w, fieldErrors)
		return
	}

	slug, err := util.UniqueSlug(r.Context(), util.Slugify(req.Title), h.queries.SlugExists)
	if err != nil {
		WriteInternalError(w, "failed to derive slug")
		return
	}

	var categoryID sql.NullInt64
	if req.CategoryID != 0 {
		if _, err := h.queries.GetCategoryByID(r.Context(), req.CategoryID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				WriteValidationError(w, map[string]string{"category_id": "category not found"})
			} else {
				WriteInternalError(w, "failed to check category")
			}
			return
		}
		categoryID = sql.NullInt64{Int64: req.CategoryID, Valid: true}
	}

	now := time.Now()
	story, err := h.queries.CreateStory(r.Context(), store.CreateStoryParams{
		Slug:        slug,
		Title:       req.Title,
		Body:        markup.SanitizeBody(req.Body),
		AuthorID:    user.ID,
		AuthorRole:  user.Role,
		Stage:       model.StageDraft,
		Status:      model.StatusDraft,
		CategoryID:  categoryID,
		Language:    req.Language,
		ScheduledAt: scheduledAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		h.logger.Error("failed to create story", "error", err)
		WriteInternalError(w, "failed to create story")
		return
	}

	if h.recorder != nil {
		if _, err := h.recorder.Record(r.Context(), h.queries, audit.Entry{
			ActorID:    user.ID,
			Action:     model.AuditCreateStory,
			TargetType: model.AuditTargetStory,
			TargetID:   story.ID,
			NewStage:   story.Stage,
			Details:    map[string]any{"title": story.Title, "slug": story.Slug},
			Meta:       requestMeta(r),
		}); err != nil {
			h.logger.Warn("failed to record story creation", "story_id", story.ID, "error", err)
		}
	}

	WriteCreated(w, story)
}

// GetStory returns one story by id.
func (h *Handler) GetStory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid story ID", nil)
		return
	}

	story, err := h.queries.GetStoryByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Story not found")
		} else {
			WriteInternalError(w, "failed to retrieve story")
		}
		return
	}

	WriteSuccess(w, story, nil)
}

// RenderedStory pairs a story with its rendered HTML body.
type RenderedStory struct {
	store.Story
	RenderedBody string `json:"rendered_body"`
}

// GetRenderedStory returns one story with its body rendered to
// sanitized HTML.
func (h *Handler) GetRenderedStory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid story ID", nil)
		return
	}

	story, err := h.queries.GetStoryByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Story not found")
		} else {
			WriteInternalError(w, "failed to retrieve story")
		}
		return
	}

	rendered, err := markup.RenderBody(story.Body)
	if err != nil {
		WriteInternalError(w, "failed to render story body")
		return
	}

	WriteSuccess(w, RenderedStory{Story: story, RenderedBody: string(rendered)}, nil)
}

// ListStories returns stories, optionally filtered by stage.
func (h *Handler) ListStories(w http.ResponseWriter, r *http.Request) {
	stage := r.URL.Query().Get("stage")
	if stage != "" && !model.IsValidStage(stage) {
		WriteBadRequest(w, "unknown stage: "+stage, nil)
		return
	}

	page, perPage := parsePagination(r)
	stories, err := h.queries.ListStories(r.Context(), store.ListStoriesParams{
		Stage:  stage,
		Limit:  int64(perPage),
		Offset: int64((page - 1) * perPage),
	})
	if err != nil {
		WriteInternalError(w, "failed to list stories")
		return
	}
	total, err := h.queries.CountStories(r.Context(), stage)
	if err != nil {
		WriteInternalError(w, "failed to count stories")
		return
	}

	WriteSuccess(w, stories, meta(r, total))
}

// AddClassificationRequest attaches a classification to a story.
type AddClassificationRequest struct {
	ClassificationID int64 `json:"classification_id"`
}

// AddStoryClassification attaches a classification to a story.
func (h *Handler) AddStoryClassification(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid story ID", nil)
		return
	}

	var req AddClassificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ClassificationID == 0 {
		WriteBadRequest(w, "classification_id is required", nil)
		return
	}

	if _, err := h.queries.GetStoryByID(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Story not found")
		} else {
			WriteInternalError(w, "failed to retrieve story")
		}
		return
	}
	if _, err := h.queries.GetClassificationByID(r.Context(), req.ClassificationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Classification not found")
		} else {
			WriteInternalError(w, "failed to retrieve classification")
		}
		return
	}

	if err := h.queries.AddStoryClassification(r.Context(), id, req.ClassificationID); err != nil {
		WriteInternalError(w, "failed to attach classification")
		return
	}

	classifications, err := h.queries.ListStoryClassifications(r.Context(), id)
	if err != nil {
		WriteInternalError(w, "failed to list classifications")
		return
	}
	WriteSuccess(w, classifications, nil)
}

// SetCategoryRequest sets a story's category.
type SetCategoryRequest struct {
	CategoryID int64 `json:"category_id"`
}

// SetStoryCategory assigns the story's category.
func (h *Handler) SetStoryCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid story ID", nil)
		return
	}

	var req SetCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CategoryID == 0 {
		WriteBadRequest(w, "category_id is required", nil)
		return
	}

	if _, err := h.queries.GetCategoryByID(r.Context(), req.CategoryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Category not found")
		} else {
			WriteInternalError(w, "failed to retrieve category")
		}
		return
	}

	if err := h.queries.UpdateStoryCategory(r.Context(), id,
		sql.NullInt64{Int64: req.CategoryID, Valid: true}, time.Now()); err != nil {
		WriteInternalError(w, "failed to set category")
		return
	}

	story, err := h.queries.GetStoryByID(r.Context(), id)
	if err != nil {
		WriteInternalError(w, "failed to retrieve story")
		return
	}
	WriteSuccess(w, story, nil)
}

// ListStoryAudit returns the audit trail for one story.
func (h *Handler) ListStoryAudit(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid story ID", nil)
		return
	}

	records, err := h.queries.ListAuditRecordsByTarget(r.Context(), model.AuditTargetStory, id)
	if err != nil {
		WriteInternalError(w, "failed to list audit records")
		return
	}
	WriteSuccess(w, records, nil)
}
