// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const storyColumns = `id, slug, title, body, author_id, author_role, stage, status,
	category_id, language, assigned_reviewer_id, assigned_approver_id,
	author_checklist, reviewer_checklist, approver_checklist, translation_checklist,
	is_translation, original_story_id, scheduled_at, published_at, published_by,
	created_at, updated_at`

func scanStory(row interface{ Scan(...any) error }) (Story, error) {
	var s Story
	err := row.Scan(&s.ID, &s.Slug, &s.Title, &s.Body, &s.AuthorID, &s.AuthorRole,
		&s.Stage, &s.Status, &s.CategoryID, &s.Language, &s.AssignedReviewerID,
		&s.AssignedApproverID, &s.AuthorChecklist, &s.ReviewerChecklist,
		&s.ApproverChecklist, &s.TranslationChecklist, &s.IsTranslation,
		&s.OriginalStoryID, &s.ScheduledAt, &s.PublishedAt, &s.PublishedBy,
		&s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// CreateStoryParams holds the fields for CreateStory.
type CreateStoryParams struct {
	Slug            string
	Title           string
	Body            string
	AuthorID        int64
	AuthorRole      string
	Stage           string
	Status          string
	CategoryID      sql.NullInt64
	Language        string
	IsTranslation   bool
	OriginalStoryID sql.NullInt64
	ScheduledAt     sql.NullTime
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateStory inserts a story and returns the stored row.
func (q *Queries) CreateStory(ctx context.Context, arg CreateStoryParams) (Story, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO stories (slug, title, body, author_id, author_role, stage, status,
			category_id, language, is_translation, original_story_id, scheduled_at,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+storyColumns,
		arg.Slug, arg.Title, arg.Body, arg.AuthorID, arg.AuthorRole, arg.Stage,
		arg.Status, arg.CategoryID, arg.Language, arg.IsTranslation,
		arg.OriginalStoryID, arg.ScheduledAt, arg.CreatedAt, arg.UpdatedAt)
	return scanStory(row)
}

// GetStoryByID returns the story with the given id.
func (q *Queries) GetStoryByID(ctx context.Context, id int64) (Story, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+storyColumns+` FROM stories WHERE id = ?`, id)
	return scanStory(row)
}

// GetStoryBySlug returns the story with the given slug.
func (q *Queries) GetStoryBySlug(ctx context.Context, slug string) (Story, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+storyColumns+` FROM stories WHERE slug = ?`, slug)
	return scanStory(row)
}

// SlugExists reports whether a story already uses the given slug.
func (q *Queries) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stories WHERE slug = ?`, slug).Scan(&n)
	return n > 0, err
}

// ListStoriesParams holds filters for ListStories.
type ListStoriesParams struct {
	Stage  string // empty matches all stages
	Limit  int64
	Offset int64
}

// ListStories returns stories newest first, optionally filtered by stage.
func (q *Queries) ListStories(ctx context.Context, arg ListStoriesParams) ([]Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories`
	args := []any{}
	if arg.Stage != "" {
		query += ` WHERE stage = ?`
		args = append(args, arg.Stage)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, arg.Limit, arg.Offset)

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []Story
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, s)
	}
	return stories, rows.Err()
}

// CountStories counts stories, optionally filtered by stage.
func (q *Queries) CountStories(ctx context.Context, stage string) (int64, error) {
	var n int64
	var err error
	if stage == "" {
		err = q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stories`).Scan(&n)
	} else {
		err = q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stories WHERE stage = ?`, stage).Scan(&n)
	}
	return n, err
}

// GetTranslationStory returns the translation story of an original in
// the given language.
func (q *Queries) GetTranslationStory(ctx context.Context, originalStoryID int64, language string) (Story, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+storyColumns+` FROM stories
		WHERE original_story_id = ? AND is_translation = 1 AND language = ?`,
		originalStoryID, language)
	return scanStory(row)
}

// ListTranslationStories returns the translation stories of an original.
func (q *Queries) ListTranslationStories(ctx context.Context, originalStoryID int64) ([]Story, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+storyColumns+` FROM stories
		WHERE original_story_id = ? AND is_translation = 1
		ORDER BY id`, originalStoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []Story
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, s)
	}
	return stories, rows.Err()
}

// ListScheduledStoriesDue returns originals whose scheduled publish time
// has arrived and that are ready to publish.
func (q *Queries) ListScheduledStoriesDue(ctx context.Context, now time.Time) ([]Story, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+storyColumns+` FROM stories
		WHERE is_translation = 0
		  AND scheduled_at IS NOT NULL AND scheduled_at <= ?
		  AND stage IN ('APPROVED', 'TRANSLATED')
		ORDER BY scheduled_at`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []Story
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, s)
	}
	return stories, rows.Err()
}

// SetStoryStageParams holds the fields for SetStoryStage.
type SetStoryStageParams struct {
	ID        int64
	Stage     string
	Status    string
	UpdatedAt time.Time
}

// SetStoryStage moves a story to a new stage, keeping the legacy status
// column in sync.
func (q *Queries) SetStoryStage(ctx context.Context, arg SetStoryStageParams) (Story, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE stories SET stage = ?, status = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+storyColumns,
		arg.Stage, arg.Status, arg.UpdatedAt, arg.ID)
	return scanStory(row)
}

// AssignReviewerParams holds the fields for AssignReviewer.
type AssignReviewerParams struct {
	ID              int64
	Stage           string
	ReviewerID      int64
	AuthorChecklist string
	UpdatedAt       time.Time
}

// AssignReviewer moves a story into review and records the assignee and
// the author's checklist snapshot.
func (q *Queries) AssignReviewer(ctx context.Context, arg AssignReviewerParams) (Story, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE stories
		SET stage = ?, assigned_reviewer_id = ?, author_checklist = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+storyColumns,
		arg.Stage, arg.ReviewerID, arg.AuthorChecklist, arg.UpdatedAt, arg.ID)
	return scanStory(row)
}

// AssignApproverParams holds the fields for AssignApprover.
type AssignApproverParams struct {
	ID                int64
	Stage             string
	ApproverID        int64
	ReviewerChecklist string
	UpdatedAt         time.Time
}

// AssignApprover moves a story into approval and records the assignee
// and the reviewer's checklist snapshot.
func (q *Queries) AssignApprover(ctx context.Context, arg AssignApproverParams) (Story, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE stories
		SET stage = ?, assigned_approver_id = ?, reviewer_checklist = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+storyColumns,
		arg.Stage, arg.ApproverID, arg.ReviewerChecklist, arg.UpdatedAt, arg.ID)
	return scanStory(row)
}

// ApproveStoryParams holds the fields for ApproveStory.
type ApproveStoryParams struct {
	ID                int64
	Stage             string
	ApproverChecklist string
	UpdatedAt         time.Time
}

// ApproveStory records an approval, storing the approver's checklist.
func (q *Queries) ApproveStory(ctx context.Context, arg ApproveStoryParams) (Story, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE stories
		SET stage = ?, approver_checklist = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+storyColumns,
		arg.Stage, arg.ApproverChecklist, arg.UpdatedAt, arg.ID)
	return scanStory(row)
}

// PublishStoryParams holds the fields for PublishStory.
type PublishStoryParams struct {
	ID          int64
	PublishedAt time.Time
	PublishedBy int64
}

// PublishStory marks a story published, stamping publication fields and
// the legacy status column.
func (q *Queries) PublishStory(ctx context.Context, arg PublishStoryParams) (Story, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE stories
		SET stage = 'PUBLISHED', status = 'PUBLISHED',
			published_at = ?, published_by = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+storyColumns,
		arg.PublishedAt, arg.PublishedBy, arg.PublishedAt, arg.ID)
	return scanStory(row)
}

// UpdateStoryCategory sets the story's category.
func (q *Queries) UpdateStoryCategory(ctx context.Context, id int64, categoryID sql.NullInt64, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE stories SET category_id = ?, updated_at = ? WHERE id = ?`,
		categoryID, updatedAt, id)
	return err
}

// AddStoryClassification attaches a classification to a story. Attaching
// the same classification twice is a no-op.
func (q *Queries) AddStoryClassification(ctx context.Context, storyID, classificationID int64) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO story_classifications (story_id, classification_id)
		VALUES (?, ?)`, storyID, classificationID)
	return err
}

// ListStoryClassifications returns a story's classifications.
func (q *Queries) ListStoryClassifications(ctx context.Context, storyID int64) ([]Classification, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT c.id, c.type, c.name, c.slug, c.created_at
		FROM classifications c
		JOIN story_classifications sc ON sc.classification_id = c.id
		WHERE sc.story_id = ?
		ORDER BY c.type, c.name`, storyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Classification
	for rows.Next() {
		var c Classification
		if err := rows.Scan(&c.ID, &c.Type, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
