// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package workflow

import (
	"errors"
	"fmt"
)

// Kind classifies a workflow error for callers mapping it to a user
// response. Every kind except KindTransientStore is terminal: retrying
// the same call yields the same result.
type Kind string

const (
	KindUnauthorized       Kind = "unauthorized"
	KindForbidden          Kind = "forbidden"
	KindNotFound           Kind = "not_found"
	KindInvalidTransition  Kind = "invalid_transition"
	KindPreconditionFailed Kind = "precondition_failed"
	KindValidation         Kind = "validation_error"
	KindTransientStore     Kind = "transient_store_error"
)

// Error is a typed, user-facing workflow failure.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Retryable reports whether retrying the whole operation may succeed.
func (e *Error) Retryable() bool {
	return e.Kind == KindTransientStore
}

// KindOf returns the kind of a workflow error, or the empty string for
// any other error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func errUnauthorized() *Error {
	return &Error{Kind: KindUnauthorized, Message: "authentication required"}
}

func errForbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func errNotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func errInvalidTransition(action, currentStage string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("%s is not allowed from stage %s", action, currentStage),
		Details: map[string]string{"current_stage": currentStage},
	}
}

func errPreconditionFailed(msg, missing string) *Error {
	e := &Error{Kind: KindPreconditionFailed, Message: msg}
	if missing != "" {
		e.Details = map[string]string{"missing": missing}
	}
	return e
}

func errValidation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func errTransient(msg string, cause error) *Error {
	return &Error{Kind: KindTransientStore, Message: msg, cause: cause}
}
