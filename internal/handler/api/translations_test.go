// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/newsdesk/newsdesk-go/internal/model"
	"github.com/newsdesk/newsdesk-go/internal/store"
)

// createTranslationFixture creates an APPROVED original story with one
// pending translation request assigned to translator.
func createTranslationFixture(t *testing.T, db *sql.DB, author, translator store.User, language string) (store.Story, store.TranslationRequest) {
	t.Helper()

	story := createTestStory(t, db, author, "Original "+language, model.StageApproved)
	now := time.Now()
	request, err := store.New(db).CreateTranslationRequest(context.Background(), store.CreateTranslationRequestParams{
		OriginalStoryID: story.ID,
		AssignedToID:    translator.ID,
		TargetLanguage:  language,
		Status:          model.TranslationPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		t.Fatalf("CreateTranslationRequest: %v", err)
	}
	return story, request
}

func TestGetTranslationRequest(t *testing.T) {
	db, h := testSetup(t)
	author := createTestUser(t, db, "reporter@example.com", model.RoleJournalist)
	translator := createTestUser(t, db, "translator@example.com", model.RoleJournalist)
	_, request := createTranslationFixture(t, db, author, translator, "ZULU")

	params := map[string]string{"id": fmt.Sprint(request.ID)}
	w := executeHandler(t, h.GetTranslationRequest, newGetRequest(t, "/api/v1/translations/1", params))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	got := unmarshalData[store.TranslationRequest](t, w)
	if got.ID != request.ID || got.TargetLanguage != "ZULU" {
		t.Errorf("unexpected request: %+v", got)
	}

	w = executeHandler(t, h.GetTranslationRequest,
		newGetRequest(t, "/api/v1/translations/999", map[string]string{"id": "999"}))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestListStoryTranslationRequests(t *testing.T) {
	db, h := testSetup(t)
	author := createTestUser(t, db, "reporter@example.com", model.RoleJournalist)
	translator := createTestUser(t, db, "translator@example.com", model.RoleJournalist)
	story, _ := createTranslationFixture(t, db, author, translator, "ZULU")

	now := time.Now()
	if _, err := store.New(db).CreateTranslationRequest(context.Background(), store.CreateTranslationRequestParams{
		OriginalStoryID: story.ID,
		AssignedToID:    translator.ID,
		TargetLanguage:  "XHOSA",
		Status:          model.TranslationPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}); err != nil {
		t.Fatalf("CreateTranslationRequest: %v", err)
	}

	params := map[string]string{"id": fmt.Sprint(story.ID)}
	w := executeHandler(t, h.ListStoryTranslationRequests,
		newGetRequest(t, "/api/v1/stories/1/translations", params))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	requests := unmarshalData[[]store.TranslationRequest](t, w)
	if len(requests) != 2 {
		t.Errorf("expected 2 translation requests, got %d", len(requests))
	}
}

func TestListMyTranslationRequests(t *testing.T) {
	db, h := testSetup(t)
	author := createTestUser(t, db, "reporter@example.com", model.RoleJournalist)
	translator := createTestUser(t, db, "translator@example.com", model.RoleJournalist)
	other := createTestUser(t, db, "other@example.com", model.RoleJournalist)
	createTranslationFixture(t, db, author, translator, "ZULU")

	w := executeHandler(t, h.ListMyTranslationRequests,
		withUser(newGetRequest(t, "/api/v1/translations/mine", nil), translator))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	mine := unmarshalData[[]store.TranslationRequest](t, w)
	if len(mine) != 1 {
		t.Errorf("expected 1 assigned request, got %d", len(mine))
	}

	w = executeHandler(t, h.ListMyTranslationRequests,
		withUser(newGetRequest(t, "/api/v1/translations/mine", nil), other))
	none := unmarshalData[[]store.TranslationRequest](t, w)
	if len(none) != 0 {
		t.Errorf("expected no assigned requests, got %d", len(none))
	}
}

func TestApplyTranslationTransition(t *testing.T) {
	db, h := testSetup(t)
	author := createTestUser(t, db, "reporter@example.com", model.RoleJournalist)
	translator := createTestUser(t, db, "translator@example.com", model.RoleJournalist)
	outsider := createTestUser(t, db, "other@example.com", model.RoleIntern)
	_, request := createTranslationFixture(t, db, author, translator, "ZULU")

	params := map[string]string{"id": fmt.Sprint(request.ID)}

	// Only the assigned translator may start the work.
	w := executeHandler(t, h.ApplyTranslationTransition,
		withUser(newJSONRequest(t, http.MethodPost, "/api/v1/translations/1/transitions",
			`{"action": "start_translation"}`, params), outsider))
	if w.Code != http.StatusForbidden {
		t.Errorf("expected status 403 for unassigned actor, got %d", w.Code)
	}

	w = executeHandler(t, h.ApplyTranslationTransition,
		withUser(newJSONRequest(t, http.MethodPost, "/api/v1/translations/1/transitions",
			`{"action": "start_translation"}`, params), translator))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	got := unmarshalData[store.TranslationRequest](t, w)
	if got.Status != model.TranslationInProgress {
		t.Errorf("expected status IN_PROGRESS, got %q", got.Status)
	}

	// Approval out of order is rejected.
	w = executeHandler(t, h.ApplyTranslationTransition,
		withUser(newJSONRequest(t, http.MethodPost, "/api/v1/translations/1/transitions",
			`{"action": "approve_translation"}`, params), translator))
	if w.Code != http.StatusForbidden && w.Code != http.StatusConflict {
		t.Errorf("expected status 403 or 409, got %d", w.Code)
	}

	// The start lands in the request's audit trail.
	w = executeHandler(t, h.ListTranslationAudit,
		newGetRequest(t, "/api/v1/translations/1/audit", params))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 from audit listing, got %d", w.Code)
	}
	records := unmarshalData[[]store.AuditRecord](t, w)
	if len(records) != 1 || records[0].Action != model.AuditStartTranslation {
		t.Errorf("unexpected audit records: %+v", records)
	}
}

func TestListLanguages(t *testing.T) {
	_, h := testSetup(t)

	w := executeHandler(t, h.ListLanguages, newGetRequest(t, "/api/v1/languages", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	languages := unmarshalData[[]store.Language](t, w)
	if len(languages) != 4 {
		t.Errorf("expected 4 seeded languages, got %d", len(languages))
	}
}
