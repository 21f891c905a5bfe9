// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/newsdesk/newsdesk-go/internal/audit"
	"github.com/newsdesk/newsdesk-go/internal/auth"
	"github.com/newsdesk/newsdesk-go/internal/cache"
	"github.com/newsdesk/newsdesk-go/internal/middleware"
	"github.com/newsdesk/newsdesk-go/internal/model"
	"github.com/newsdesk/newsdesk-go/internal/store"
	"github.com/newsdesk/newsdesk-go/internal/testutil"
	"github.com/newsdesk/newsdesk-go/internal/workflow"
)

// testSetup creates a migrated, seeded test database and an API handler
// wired with an in-memory language cache and session manager.
func testSetup(t *testing.T) (*sql.DB, *Handler) {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	ctx := context.Background()
	if err := store.Seed(ctx, db); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	logger := testutil.TestLogger()
	recorder := audit.NewRecorder(nil, logger)
	engine := workflow.New(db, recorder, logger)

	memCache := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { _ = memCache.Close() })
	languages := cache.NewLanguageCache(memCache, store.New(db))

	sessions := scs.New()

	return db, NewHandler(db, engine, recorder, languages, sessions, logger)
}

// createTestUser creates a user with the given role.
func createTestUser(t *testing.T, db *sql.DB, email, role string) store.User {
	t.Helper()

	hash, err := auth.HashPassword("test-password-123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	now := time.Now()
	user, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Name:         strings.Split(email, "@")[0],
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return user
}

// createTestStory creates a story at the given stage.
func createTestStory(t *testing.T, db *sql.DB, author store.User, title, stage string) store.Story {
	t.Helper()

	now := time.Now()
	story, err := store.New(db).CreateStory(context.Background(), store.CreateStoryParams{
		Slug:       strings.ToLower(strings.ReplaceAll(title, " ", "-")),
		Title:      title,
		Body:       "Body of " + title,
		AuthorID:   author.ID,
		AuthorRole: author.Role,
		Stage:      stage,
		Status:     model.StatusForStage(stage),
		Language:   "ENGLISH",
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("CreateStory: %v", err)
	}
	return story
}

// withUser attaches an authenticated user to the request context, the
// same way the auth middleware does.
func withUser(r *http.Request, user store.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, user))
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// newJSONRequest creates an HTTP request with JSON body and optional URL params.
func newJSONRequest(t *testing.T, method, path string, body string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// newGetRequest creates an HTTP GET request with optional URL params.
func newGetRequest(t *testing.T, path string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// dataResponse is a generic wrapper for API responses with a "data" field.
type dataResponse[T any] struct {
	Data T `json:"data"`
}

// listResponse is a generic wrapper for API list responses with data and meta.
type listResponse[T any] struct {
	Data []T   `json:"data"`
	Meta *Meta `json:"meta"`
}

// unmarshalData unmarshals a JSON response body into the specified type.
func unmarshalData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp dataResponse[T]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return resp.Data
}

// unmarshalList unmarshals a JSON list response body into the specified type.
func unmarshalList[T any](t *testing.T, w *httptest.ResponseRecorder) ([]T, *Meta) {
	t.Helper()
	var resp listResponse[T]
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return resp.Data, resp.Meta
}

// unmarshalError unmarshals a JSON error response body.
func unmarshalError(t *testing.T, w *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}
	return resp.Error
}

// executeHandler executes a handler and returns the response recorder.
func executeHandler(t *testing.T, handler func(http.ResponseWriter, *http.Request), req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

// executeWithSession executes a handler inside the session middleware so
// session operations have a backing store.
func executeWithSession(t *testing.T, h *Handler, handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.sessions.LoadAndSave(handler).ServeHTTP(w, req)
	return w
}
