// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// CreateClassificationParams holds the fields for CreateClassification.
type CreateClassificationParams struct {
	Type      string
	Name      string
	Slug      string
	CreatedAt time.Time
}

// CreateClassification inserts a classification and returns the stored row.
func (q *Queries) CreateClassification(ctx context.Context, arg CreateClassificationParams) (Classification, error) {
	var c Classification
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO classifications (type, name, slug, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id, type, name, slug, created_at`,
		arg.Type, arg.Name, arg.Slug, arg.CreatedAt).
		Scan(&c.ID, &c.Type, &c.Name, &c.Slug, &c.CreatedAt)
	return c, err
}

// GetClassificationByID returns the classification with the given id.
func (q *Queries) GetClassificationByID(ctx context.Context, id int64) (Classification, error) {
	var c Classification
	err := q.db.QueryRowContext(ctx, `
		SELECT id, type, name, slug, created_at FROM classifications WHERE id = ?`, id).
		Scan(&c.ID, &c.Type, &c.Name, &c.Slug, &c.CreatedAt)
	return c, err
}

// ListClassificationsByType returns all classifications of one type.
func (q *Queries) ListClassificationsByType(ctx context.Context, typ string) ([]Classification, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, type, name, slug, created_at FROM classifications
		WHERE type = ? ORDER BY name`, typ)
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

// CreateCategoryParams holds the fields for CreateCategory.
type CreateCategoryParams struct {
	Name      string
	Slug      string
	CreatedAt time.Time
}

// CreateCategory inserts a category and returns the stored row.
func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	var c Category
	err := q.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, created_at)
		VALUES (?, ?, ?)
		RETURNING id, name, slug, created_at`,
		arg.Name, arg.Slug, arg.CreatedAt).
		Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	return c, err
}

// GetCategoryByID returns the category with the given id.
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	var c Category
	err := q.db.QueryRowContext(ctx, `
		SELECT id, name, slug, created_at FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	return c, err
}

// ListCategories returns all categories ordered by name.
func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, name, slug, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
