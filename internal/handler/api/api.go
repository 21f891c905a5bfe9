// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST API handlers for the newsdesk.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/newsdesk/newsdesk-go/internal/audit"
	"github.com/newsdesk/newsdesk-go/internal/cache"
	"github.com/newsdesk/newsdesk-go/internal/store"
	"github.com/newsdesk/newsdesk-go/internal/workflow"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db        *sql.DB
	queries   *store.Queries
	engine    *workflow.Engine
	recorder  *audit.Recorder
	languages *cache.LanguageCache
	sessions  *scs.SessionManager
	logger    *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(db *sql.DB, engine *workflow.Engine, recorder *audit.Recorder, languages *cache.LanguageCache, sessions *scs.SessionManager, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		db:        db,
		queries:   store.New(db),
		engine:    engine,
		recorder:  recorder,
		languages: languages,
		sessions:  sessions,
		logger:    logger,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination and other metadata.
type Meta struct {
	Total   int64 `json:"total,omitempty"`
	Page    int   `json:"page,omitempty"`
	PerPage int   `json:"per_page,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message, Details: details},
	})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteForbidden writes a 403 Forbidden response.
func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, "forbidden", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// WriteWorkflowError maps a typed workflow error to its HTTP response.
// Unclassified errors become 500s.
func WriteWorkflowError(w http.ResponseWriter, err error) {
	var status int
	switch workflow.KindOf(err) {
	case workflow.KindUnauthorized:
		status = http.StatusUnauthorized
	case workflow.KindForbidden:
		status = http.StatusForbidden
	case workflow.KindNotFound:
		status = http.StatusNotFound
	case workflow.KindInvalidTransition:
		status = http.StatusConflict
	case workflow.KindPreconditionFailed:
		status = http.StatusUnprocessableEntity
	case workflow.KindValidation:
		status = http.StatusBadRequest
	case workflow.KindTransientStore:
		status = http.StatusServiceUnavailable
	default:
		WriteInternalError(w, "unexpected error")
		return
	}

	var wErr *workflow.Error
	if !errors.As(err, &wErr) {
		WriteInternalError(w, "unexpected error")
		return
	}
	WriteError(w, status, string(wErr.Kind), wErr.Message, wErr.Details)
}

// parseIDParam parses the {id} chi URL parameter.
func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// parsePagination reads page/per_page query parameters with defaults.
func parsePagination(r *http.Request) (page, perPage int) {
	page = 1
	perPage = 20
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && v > 0 && v <= 100 {
		perPage = v
	}
	return page, perPage
}

// meta assembles the pagination metadata from a request and total count.
func meta(r *http.Request, total int64) *Meta {
	page, perPage := parsePagination(r)
	return &Meta{Total: total, Page: page, PerPage: perPage}
}

// requestMeta builds the audit metadata for a request, reusing chi's
// request id when present.
func requestMeta(r *http.Request) audit.RequestMeta {
	m := audit.MetaFromRequest(r)
	if id := r.Header.Get("X-Request-Id"); id != "" {
		m.RequestID = id
	}
	return m
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{Status: "ok", Version: "v1"}, nil)
}
