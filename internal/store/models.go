// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// User is a row in the users table.
type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	Role         string       `json:"role"`
	Name         string       `json:"name"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	LastLoginAt  sql.NullTime `json:"last_login_at,omitempty"`
}

// Language is a row in the languages table.
type Language struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// Category is a row in the categories table.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Classification is a typed editorial tag.
type Classification struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Story is a row in the stories table. Translation stories carry
// IsTranslation plus a non-null OriginalStoryID; originals never do.
type Story struct {
	ID                   int64          `json:"id"`
	Slug                 string         `json:"slug"`
	Title                string         `json:"title"`
	Body                 string         `json:"body"`
	AuthorID             int64          `json:"author_id"`
	AuthorRole           string         `json:"author_role"`
	Stage                string         `json:"stage"`
	Status               string         `json:"status"`
	CategoryID           sql.NullInt64  `json:"category_id,omitempty"`
	Language             string         `json:"language"`
	AssignedReviewerID   sql.NullInt64  `json:"assigned_reviewer_id,omitempty"`
	AssignedApproverID   sql.NullInt64  `json:"assigned_approver_id,omitempty"`
	AuthorChecklist      string         `json:"author_checklist"`
	ReviewerChecklist    string         `json:"reviewer_checklist"`
	ApproverChecklist    string         `json:"approver_checklist"`
	TranslationChecklist string         `json:"translation_checklist"`
	IsTranslation        bool           `json:"is_translation"`
	OriginalStoryID      sql.NullInt64  `json:"original_story_id,omitempty"`
	ScheduledAt          sql.NullTime   `json:"scheduled_at,omitempty"`
	PublishedAt          sql.NullTime   `json:"published_at,omitempty"`
	PublishedBy          sql.NullInt64  `json:"published_by,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// TranslationRequest tracks one (story, target language, translator)
// assignment, distinct from the resulting translation story.
type TranslationRequest struct {
	ID              int64     `json:"id"`
	OriginalStoryID int64     `json:"original_story_id"`
	AssignedToID    int64     `json:"assigned_to_id"`
	TargetLanguage  string    `json:"target_language"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AuditRecord is an append-only audit log entry.
type AuditRecord struct {
	ID            int64         `json:"id"`
	RequestID     string        `json:"request_id"`
	ActorID       sql.NullInt64 `json:"actor_id,omitempty"`
	Action        string        `json:"action"`
	TargetType    string        `json:"target_type"`
	TargetID      int64         `json:"target_id"`
	PreviousStage string        `json:"previous_stage"`
	NewStage      string        `json:"new_stage"`
	Details       string        `json:"details"`
	IPAddress     string        `json:"ip_address"`
	UserAgent     string        `json:"user_agent"`
	Country       string        `json:"country"`
	CreatedAt     time.Time     `json:"created_at"`
}
