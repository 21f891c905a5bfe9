// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package audit records every state-changing operation as an append-only
// audit trail. The recorder writes through a store.Queries, so a caller
// holding an open transaction gets the audit write committed atomically
// with the mutation it describes.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"

	"github.com/newsdesk/newsdesk-go/internal/geoip"
	"github.com/newsdesk/newsdesk-go/internal/store"
)

// RequestMeta carries the request context stored with each record.
type RequestMeta struct {
	RequestID string
	IPAddress string
	UserAgent string
}

// MetaFromRequest extracts audit metadata from an HTTP request.
func MetaFromRequest(r *http.Request) RequestMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	// Honor the standard proxy header when present. Only the first hop
	// is the client address; later entries name intermediate proxies.
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip = strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
	}

	return RequestMeta{
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
}

// Entry describes one auditable state change.
type Entry struct {
	ActorID       int64 // 0 records a system actor
	Action        string
	TargetType    string
	TargetID      int64
	PreviousStage string
	NewStage      string
	Details       map[string]any
	Meta          RequestMeta
}

// Recorder writes audit records, enriching request metadata with parsed
// user agent and GeoIP country information.
type Recorder struct {
	geo    *geoip.Lookup
	logger *slog.Logger
}

// NewRecorder creates a Recorder. geo may be nil to skip country
// resolution.
func NewRecorder(geo *geoip.Lookup, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{geo: geo, logger: logger}
}

// Record appends one audit record through q. Pass a transaction-bound
// Queries to make the record part of an open transaction.
func (r *Recorder) Record(ctx context.Context, q *store.Queries, e Entry) (store.AuditRecord, error) {
	meta := e.Meta
	if meta.RequestID == "" {
		meta.RequestID = uuid.NewString()
	}

	details := e.Details
	if details == nil {
		details = map[string]any{}
	}
	if meta.UserAgent != "" {
		ua := useragent.Parse(meta.UserAgent)
		if ua.Name != "" {
			details["browser"] = ua.Name
		}
		if ua.OS != "" {
			details["os"] = ua.OS
		}
		if ua.Bot {
			details["bot"] = true
		}
	}

	detailsJSON := "{}"
	if b, err := json.Marshal(details); err == nil {
		detailsJSON = string(b)
	} else {
		r.logger.Warn("failed to marshal audit details", "error", err, "action", e.Action)
	}

	country := ""
	if r.geo != nil && meta.IPAddress != "" {
		country = r.geo.Country(meta.IPAddress)
	}

	var actorID sql.NullInt64
	if e.ActorID != 0 {
		actorID = sql.NullInt64{Int64: e.ActorID, Valid: true}
	}

	rec, err := q.CreateAuditRecord(ctx, store.CreateAuditRecordParams{
		RequestID:     meta.RequestID,
		ActorID:       actorID,
		Action:        e.Action,
		TargetType:    e.TargetType,
		TargetID:      e.TargetID,
		PreviousStage: e.PreviousStage,
		NewStage:      e.NewStage,
		Details:       detailsJSON,
		IPAddress:     meta.IPAddress,
		UserAgent:     meta.UserAgent,
		Country:       country,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		return store.AuditRecord{}, fmt.Errorf("creating audit record: %w", err)
	}
	return rec, nil
}
