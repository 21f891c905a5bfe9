// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/newsdesk/newsdesk-go/internal/model"
	"github.com/newsdesk/newsdesk-go/internal/store"
)

func TestApplyTransitionSubmitForReview(t *testing.T) {
	db, h := testSetup(t)
	author := createTestUser(t, db, "intern@example.com", model.RoleIntern)
	reviewer := createTestUser(t, db, "reviewer@example.com", model.RoleJournalist)
	story := createTestStory(t, db, author, "Taxi Rank Dispute", model.StageDraft)

	params := map[string]string{"id": fmt.Sprint(story.ID)}
	body := fmt.Sprintf(`{"action": "submit_for_review", "assigned_user_id": %d, "checklist": {"spellchecked": true}}`, reviewer.ID)
	req := withUser(newJSONRequest(t, http.MethodPost, "/api/v1/stories/1/transitions", body, params), author)
	w := executeHandler(t, h.ApplyTransition, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	got := unmarshalData[store.Story](t, w)
	if got.Stage != model.StageNeedsReview {
		t.Errorf("expected stage NEEDS_JOURNALIST_REVIEW, got %q", got.Stage)
	}
	if !got.AssignedReviewerID.Valid || got.AssignedReviewerID.Int64 != reviewer.ID {
		t.Errorf("expected reviewer %d assigned, got %+v", reviewer.ID, got.AssignedReviewerID)
	}

	// The transition lands in the story's audit trail.
	w = executeHandler(t, h.ListStoryAudit, newGetRequest(t, "/api/v1/stories/1/audit", params))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 from audit listing, got %d", w.Code)
	}
	records := unmarshalData[[]store.AuditRecord](t, w)
	if len(records) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(records))
	}
	if records[0].Action != model.AuditSubmitForReview {
		t.Errorf("expected action SUBMIT_FOR_REVIEW, got %q", records[0].Action)
	}
	if records[0].PreviousStage != model.StageDraft || records[0].NewStage != model.StageNeedsReview {
		t.Errorf("unexpected stage change in audit record: %q -> %q",
			records[0].PreviousStage, records[0].NewStage)
	}
}

func TestApplyTransitionErrors(t *testing.T) {
	db, h := testSetup(t)
	author := createTestUser(t, db, "intern@example.com", model.RoleIntern)
	outsider := createTestUser(t, db, "other@example.com", model.RoleJournalist)
	subEditor := createTestUser(t, db, "sub@example.com", model.RoleSubEditor)
	draft := createTestStory(t, db, author, "Draft Story", model.StageDraft)
	pending := createTestStory(t, db, author, "Pending Story", model.StageNeedsApproval)

	tests := []struct {
		name   string
		actor  store.User
		story  store.Story
		body   string
		status int
	}{
		{
			name:   "unknown action",
			actor:  author,
			story:  draft,
			body:   `{"action": "fold_story"}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "missing action",
			actor:  author,
			story:  draft,
			body:   `{}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "submit without reviewer",
			actor:  author,
			story:  draft,
			body:   `{"action": "submit_for_review"}`,
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "submit by non-author",
			actor:  outsider,
			story:  draft,
			body:   fmt.Sprintf(`{"action": "submit_for_review", "assigned_user_id": %d}`, outsider.ID),
			status: http.StatusForbidden,
		},
		{
			name:   "publish from draft",
			actor:  subEditor,
			story:  draft,
			body:   `{"action": "publish_story"}`,
			status: http.StatusConflict,
		},
		{
			name:   "approve without classifications",
			actor:  subEditor,
			story:  pending,
			body:   `{"action": "approve_story", "checklist": {"house_style": true}}`,
			status: http.StatusUnprocessableEntity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := map[string]string{"id": fmt.Sprint(tt.story.ID)}
			req := withUser(newJSONRequest(t, http.MethodPost, "/api/v1/stories/1/transitions", tt.body, params), tt.actor)
			w := executeHandler(t, h.ApplyTransition, req)
			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
		})
	}
}

func TestApplyTransitionNotFound(t *testing.T) {
	db, h := testSetup(t)
	user := createTestUser(t, db, "sub@example.com", model.RoleSubEditor)

	params := map[string]string{"id": "999"}
	req := withUser(newJSONRequest(t, http.MethodPost, "/api/v1/stories/999/transitions",
		`{"action": "publish_story"}`, params), user)
	w := executeHandler(t, h.ApplyTransition, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestApplyTransitionUnauthenticated(t *testing.T) {
	db, h := testSetup(t)
	author := createTestUser(t, db, "intern@example.com", model.RoleIntern)
	story := createTestStory(t, db, author, "Draft Story", model.StageDraft)

	params := map[string]string{"id": fmt.Sprint(story.ID)}
	req := newJSONRequest(t, http.MethodPost, "/api/v1/stories/1/transitions",
		`{"action": "submit_for_review"}`, params)
	w := executeHandler(t, h.ApplyTransition, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", w.Code)
	}
}
