// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a custom slog handler that integrates with
// the audit trail. It forwards logs at WARN level and above to the
// database as SYSTEM_EVENT records.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/newsdesk/newsdesk-go/internal/model"
	"github.com/newsdesk/newsdesk-go/internal/store"
)

// AuditLogHandler is a slog.Handler that wraps another handler and also
// writes WARN and ERROR level logs to the audit trail.
type AuditLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
}

// NewAuditLogHandler creates an AuditLogHandler that wraps the given
// handler. Logs at WARN level and above are written to both the wrapped
// handler and the audit trail.
func NewAuditLogHandler(inner slog.Handler, db *sql.DB) *AuditLogHandler {
	return &AuditLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   slog.LevelWarn,
	}
}

// NewAuditLogHandlerWithLevel creates an AuditLogHandler with a custom
// minimum forwarding level.
func NewAuditLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *AuditLogHandler {
	return &AuditLogHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *AuditLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *AuditLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.writeToAuditTrail(r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *AuditLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AuditLogHandler{
		inner:   h.inner.WithAttrs(attrs),
		queries: h.queries,
		level:   h.level,
	}
}

// WithGroup implements slog.Handler.
func (h *AuditLogHandler) WithGroup(name string) slog.Handler {
	return &AuditLogHandler{
		inner:   h.inner.WithGroup(name),
		queries: h.queries,
		level:   h.level,
	}
}

func (h *AuditLogHandler) writeToAuditTrail(r slog.Record) {
	details := map[string]any{
		"level":   r.Level.String(),
		"message": r.Message,
	}
	r.Attrs(func(a slog.Attr) bool {
		details[a.Key] = a.Value.Any()
		return true
	})

	detailsJSON := "{}"
	if b, err := json.Marshal(details); err == nil {
		detailsJSON = string(b)
	}

	// A background context keeps the record even when the request
	// context is already cancelled.
	_, _ = h.queries.CreateAuditRecord(context.Background(), store.CreateAuditRecordParams{
		RequestID:  "system",
		Action:     model.AuditSystemEvent,
		TargetType: model.AuditTargetSystem,
		Details:    detailsJSON,
		CreatedAt:  r.Time,
	})
}
