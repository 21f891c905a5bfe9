// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// CreateLanguageParams holds the fields for CreateLanguage.
type CreateLanguageParams struct {
	Code      string
	Name      string
	Enabled   bool
	CreatedAt time.Time
}

// CreateLanguage inserts a language and returns the stored row.
func (q *Queries) CreateLanguage(ctx context.Context, arg CreateLanguageParams) (Language, error) {
	var l Language
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO languages (code, name, enabled, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id, code, name, enabled, created_at`,
		arg.Code, arg.Name, arg.Enabled, arg.CreatedAt).
		Scan(&l.ID, &l.Code, &l.Name, &l.Enabled, &l.CreatedAt)
	return l, err
}

// GetLanguageByCode returns the language with the given code.
func (q *Queries) GetLanguageByCode(ctx context.Context, code string) (Language, error) {
	var l Language
	err := q.db.QueryRowContext(ctx, `
		SELECT id, code, name, enabled, created_at FROM languages WHERE code = ?`, code).
		Scan(&l.ID, &l.Code, &l.Name, &l.Enabled, &l.CreatedAt)
	return l, err
}

// ListEnabledLanguages returns all enabled languages ordered by code.
func (q *Queries) ListEnabledLanguages(ctx context.Context) ([]Language, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, code, name, enabled, created_at FROM languages
		WHERE enabled = 1 ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Language
	for rows.Next() {
		var l Language
		if err := rows.Scan(&l.ID, &l.Code, &l.Name, &l.Enabled, &l.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
