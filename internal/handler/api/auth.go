// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/newsdesk/newsdesk-go/internal/audit"
	"github.com/newsdesk/newsdesk-go/internal/auth"
	"github.com/newsdesk/newsdesk-go/internal/middleware"
	"github.com/newsdesk/newsdesk-go/internal/model"
)

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Login authenticates a user and establishes a session. protection, when
// set, enforces per-IP rate limiting and account lockout.
func (h *Handler) Login(protection *middleware.LoginProtection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meta := requestMeta(r)

		if protection != nil && !protection.CheckIPRateLimit(meta.IPAddress) {
			WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many login attempts, slow down", nil)
			return
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
			WriteBadRequest(w, "email and password are required", nil)
			return
		}

		if protection != nil {
			if locked, remaining := protection.IsAccountLocked(req.Email); locked {
				WriteError(w, http.StatusTooManyRequests, "account_locked",
					"account temporarily locked, try again in "+remaining.Round(time.Second).String(), nil)
				return
			}
		}

		user, err := h.queries.GetUserByEmail(r.Context(), req.Email)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				WriteInternalError(w, "failed to load user")
				return
			}
			// Hash anyway so missing accounts take as long as bad passwords
			_, _ = auth.HashPassword(req.Password)
			h.failLogin(w, protection, req.Email)
			return
		}

		ok, err := auth.CheckPassword(req.Password, user.PasswordHash)
		if err != nil || !ok {
			h.failLogin(w, protection, req.Email)
			return
		}

		if protection != nil {
			protection.RecordSuccess(req.Email)
		}

		// Rotate the session token on privilege change
		if err := h.sessions.RenewToken(r.Context()); err != nil {
			WriteInternalError(w, "failed to establish session")
			return
		}
		h.sessions.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

		if err := h.queries.UpdateUserLastLogin(r.Context(), user.ID, time.Now()); err != nil {
			h.logger.Warn("failed to update last login", "user_id", user.ID, "error", err)
		}

		if h.recorder != nil {
			if _, err := h.recorder.Record(r.Context(), h.queries, audit.Entry{
				ActorID:    user.ID,
				Action:     model.AuditLogin,
				TargetType: model.AuditTargetUser,
				TargetID:   user.ID,
				Meta:       meta,
			}); err != nil {
				h.logger.Warn("failed to record login", "user_id", user.ID, "error", err)
			}
		}

		WriteSuccess(w, UserResponse{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}, nil)
	}
}

func (h *Handler) failLogin(w http.ResponseWriter, protection *middleware.LoginProtection, email string) {
	if protection != nil {
		if locked, duration := protection.RecordFailedAttempt(email); locked {
			WriteError(w, http.StatusTooManyRequests, "account_locked",
				"account locked for "+duration.String()+" after repeated failures", nil)
			return
		}
	}
	WriteUnauthorized(w, "invalid email or password")
}

// Logout destroys the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessions.GetInt64(r.Context(), middleware.SessionKeyUserID)
	if err := h.sessions.Destroy(r.Context()); err != nil {
		WriteInternalError(w, "failed to destroy session")
		return
	}

	if h.recorder != nil && userID != 0 {
		if _, err := h.recorder.Record(r.Context(), h.queries, audit.Entry{
			ActorID:    userID,
			Action:     model.AuditLogout,
			TargetType: model.AuditTargetUser,
			TargetID:   userID,
			Meta:       requestMeta(r),
		}); err != nil {
			h.logger.Warn("failed to record logout", "user_id", userID, "error", err)
		}
	}

	WriteSuccess(w, map[string]string{"status": "logged_out"}, nil)
}

// Me returns the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		WriteUnauthorized(w, "authentication required")
		return
	}
	WriteSuccess(w, UserResponse{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}, nil)
}
