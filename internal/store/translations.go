// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const translationRequestColumns = `id, original_story_id, assigned_to_id, target_language, status, created_at, updated_at`

func scanTranslationRequest(row interface{ Scan(...any) error }) (TranslationRequest, error) {
	var tr TranslationRequest
	err := row.Scan(&tr.ID, &tr.OriginalStoryID, &tr.AssignedToID,
		&tr.TargetLanguage, &tr.Status, &tr.CreatedAt, &tr.UpdatedAt)
	return tr, err
}

// CreateTranslationRequestParams holds the fields for CreateTranslationRequest.
type CreateTranslationRequestParams struct {
	OriginalStoryID int64
	AssignedToID    int64
	TargetLanguage  string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateTranslationRequest inserts a translation request and returns the
// stored row.
func (q *Queries) CreateTranslationRequest(ctx context.Context, arg CreateTranslationRequestParams) (TranslationRequest, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO translation_requests (original_story_id, assigned_to_id, target_language, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+translationRequestColumns,
		arg.OriginalStoryID, arg.AssignedToID, arg.TargetLanguage, arg.Status,
		arg.CreatedAt, arg.UpdatedAt)
	return scanTranslationRequest(row)
}

// GetTranslationRequestByID returns the translation request with the given id.
func (q *Queries) GetTranslationRequestByID(ctx context.Context, id int64) (TranslationRequest, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+translationRequestColumns+` FROM translation_requests WHERE id = ?`, id)
	return scanTranslationRequest(row)
}

// ListTranslationRequestsByStory returns all requests spawned from an
// original story.
func (q *Queries) ListTranslationRequestsByStory(ctx context.Context, originalStoryID int64) ([]TranslationRequest, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+translationRequestColumns+` FROM translation_requests
		WHERE original_story_id = ?
		ORDER BY id`, originalStoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []TranslationRequest
	for rows.Next() {
		tr, err := scanTranslationRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, tr)
	}
	return requests, rows.Err()
}

// ListTranslationRequestsByAssignee returns a translator's open requests.
func (q *Queries) ListTranslationRequestsByAssignee(ctx context.Context, assignedToID int64) ([]TranslationRequest, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+translationRequestColumns+` FROM translation_requests
		WHERE assigned_to_id = ?
		ORDER BY id`, assignedToID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []TranslationRequest
	for rows.Next() {
		tr, err := scanTranslationRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, tr)
	}
	return requests, rows.Err()
}

// SetTranslationRequestStatus advances a request to a new status.
func (q *Queries) SetTranslationRequestStatus(ctx context.Context, id int64, status string, updatedAt time.Time) (TranslationRequest, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE translation_requests SET status = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+translationRequestColumns,
		status, updatedAt, id)
	return scanTranslationRequest(row)
}

// CountUnresolvedTranslationRequests counts a story's requests that have
// not yet reached APPROVED.
func (q *Queries) CountUnresolvedTranslationRequests(ctx context.Context, originalStoryID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM translation_requests
		WHERE original_story_id = ? AND status != 'APPROVED'`, originalStoryID).Scan(&n)
	return n, err
}
