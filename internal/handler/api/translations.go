// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/newsdesk/newsdesk-go/internal/middleware"
	"github.com/newsdesk/newsdesk-go/internal/model"
	"github.com/newsdesk/newsdesk-go/internal/workflow"
)

// GetTranslationRequest returns one translation request by id.
func (h *Handler) GetTranslationRequest(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid translation request ID", nil)
		return
	}

	req, err := h.queries.GetTranslationRequestByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Translation request not found")
		} else {
			WriteInternalError(w, "failed to retrieve translation request")
		}
		return
	}

	WriteSuccess(w, req, nil)
}

// ListStoryTranslationRequests lists the translation requests of a story.
func (h *Handler) ListStoryTranslationRequests(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid story ID", nil)
		return
	}

	requests, err := h.queries.ListTranslationRequestsByStory(r.Context(), id)
	if err != nil {
		WriteInternalError(w, "failed to list translation requests")
		return
	}
	WriteSuccess(w, requests, nil)
}

// ListMyTranslationRequests lists the authenticated user's assigned
// translation requests.
func (h *Handler) ListMyTranslationRequests(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "authentication required")
		return
	}

	requests, err := h.queries.ListTranslationRequestsByAssignee(r.Context(), user.ID)
	if err != nil {
		WriteInternalError(w, "failed to list translation requests")
		return
	}
	WriteSuccess(w, requests, nil)
}

// TranslationTransitionRequest is the payload for a translation request
// transition.
type TranslationTransitionRequest struct {
	Action string `json:"action"`
}

// ApplyTranslationTransition applies a workflow action to a translation
// request.
func (h *Handler) ApplyTranslationTransition(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "authentication required")
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid translation request ID", nil)
		return
	}

	var req TranslationTransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "invalid JSON body", nil)
		return
	}
	if req.Action == "" {
		WriteBadRequest(w, "action is required", nil)
		return
	}

	updated, err := h.engine.ApplyTranslationTransition(r.Context(), workflow.TranslationTransitionRequest{
		RequestID: id,
		Action:    req.Action,
		Actor:     workflow.Actor{UserID: user.ID, Role: user.Role},
		Meta:      requestMeta(r),
	})
	if err != nil {
		WriteWorkflowError(w, err)
		return
	}

	WriteSuccess(w, updated, nil)
}

// ListTranslationAudit returns the audit trail for one translation
// request.
func (h *Handler) ListTranslationAudit(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid translation request ID", nil)
		return
	}

	records, err := h.queries.ListAuditRecordsByTarget(r.Context(), model.AuditTargetTranslation, id)
	if err != nil {
		WriteInternalError(w, "failed to list audit records")
		return
	}
	WriteSuccess(w, records, nil)
}

// ListLanguages returns the enabled translation languages.
func (h *Handler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.languages.Enabled(r.Context())
	if err != nil {
		WriteInternalError(w, "failed to list languages")
		return
	}
	WriteSuccess(w, languages, nil)
}
