// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"

	"github.com/newsdesk/newsdesk-go/internal/middleware"
	"github.com/newsdesk/newsdesk-go/internal/workflow"
)

// TransitionRequest is the payload for a story transition.
type TransitionRequest struct {
	Action         string                       `json:"action"`
	AssignedUserID int64                        `json:"assigned_user_id,omitempty"`
	Checklist      map[string]bool              `json:"checklist,omitempty"`
	Translations   []workflow.TranslationTarget `json:"translation_languages,omitempty"`
}

// ApplyTransition applies a workflow action to a story.
func (h *Handler) ApplyTransition(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "authentication required")
		return
	}

	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "invalid story ID", nil)
		return
	}

	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "invalid JSON body", nil)
		return
	}
	if req.Action == "" {
		WriteBadRequest(w, "action is required", nil)
		return
	}

	story, err := h.engine.ApplyTransition(r.Context(), workflow.TransitionRequest{
		StoryID: id,
		Action:  req.Action,
		Actor:   workflow.Actor{UserID: user.ID, Role: user.Role},
		Payload: workflow.Payload{
			AssignedUserID: req.AssignedUserID,
			Checklist:      req.Checklist,
			Translations:   req.Translations,
		},
		Meta: requestMeta(r),
	})
	if err != nil {
		WriteWorkflowError(w, err)
		return
	}

	WriteSuccess(w, story, nil)
}
