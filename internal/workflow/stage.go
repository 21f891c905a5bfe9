// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package workflow

import (
	"github.com/newsdesk/newsdesk-go/internal/model"
	"github.com/newsdesk/newsdesk-go/internal/store"
)

// edge is one legal stage transition. The guard, when set, constrains
// the edge by the story's author-role snapshot: an intern-authored draft
// must pass through journalist review, a journalist-authored draft skips
// it, and a sub-editor-or-above draft may be approved directly.
type edge struct {
	from  string
	to    string
	guard func(authorRole string) bool
}

func authorIs(role string) func(string) bool {
	return func(authorRole string) bool { return authorRole == role }
}

func authorAtLeast(min string) func(string) bool {
	return func(authorRole string) bool { return model.RoleAtLeast(authorRole, min) }
}

// storyEdges is the story stage machine: for each action, the edges it
// may traverse. Stages only move forward along these edges or into the
// NEEDS_REVISION branch.
var storyEdges = map[string][]edge{
	model.ActionSubmitForReview: {
		{from: model.StageDraft, to: model.StageNeedsReview, guard: authorIs(model.RoleIntern)},
	},
	model.ActionSendForApproval: {
		{from: model.StageDraft, to: model.StageNeedsApproval, guard: authorAtLeast(model.RoleJournalist)},
		{from: model.StageNeedsReview, to: model.StageNeedsApproval},
	},
	model.ActionApproveStory: {
		{from: model.StageNeedsApproval, to: model.StageApproved},
		{from: model.StageDraft, to: model.StageApproved, guard: authorAtLeast(model.RoleSubEditor)},
	},
	// Commissioning translations leaves the story at APPROVED; it only
	// reaches TRANSLATED once every translation resolves.
	model.ActionSendForTranslation: {
		{from: model.StageApproved, to: model.StageApproved},
	},
	model.ActionMarkAsTranslated: {
		{from: model.StageApproved, to: model.StageTranslated},
	},
	model.ActionPublishStory: {
		{from: model.StageTranslated, to: model.StagePublished},
	},
	model.ActionRequestRevision: {
		{from: model.StageNeedsReview, to: model.StageNeedsRevision},
		{from: model.StageNeedsApproval, to: model.StageNeedsRevision},
	},
	model.ActionResumeEditing: {
		{from: model.StageNeedsRevision, to: model.StageDraft},
	},
}

// translationEdges is the translation request status machine. REJECTED
// routes back to IN_PROGRESS for revision.
var translationEdges = map[string][]edge{
	model.TranslationActionStart: {
		{from: model.TranslationPending, to: model.TranslationInProgress},
		{from: model.TranslationRejected, to: model.TranslationInProgress},
	},
	model.TranslationActionSubmitReview: {
		{from: model.TranslationInProgress, to: model.TranslationNeedsReview},
	},
	model.TranslationActionApprove: {
		{from: model.TranslationNeedsReview, to: model.TranslationApproved},
	},
	model.TranslationActionReject: {
		{from: model.TranslationNeedsReview, to: model.TranslationRejected},
	},
}

// resolveStoryStage returns the target stage for an action on a story,
// or an InvalidTransition error naming the current stage. A translation
// story approved here jumps straight to TRANSLATED: it has no further
// translation step of its own.
func resolveStoryStage(action string, story store.Story) (string, error) {
	for _, e := range storyEdges[action] {
		if e.from != story.Stage {
			continue
		}
		if e.guard != nil && !e.guard(story.AuthorRole) {
			continue
		}
		if action == model.ActionApproveStory && story.IsTranslation {
			return model.StageTranslated, nil
		}
		return e.to, nil
	}
	return "", errInvalidTransition(action, story.Stage)
}

// resolveTranslationStatus returns the target status for an action on a
// translation request, or an InvalidTransition error.
func resolveTranslationStatus(action string, request store.TranslationRequest) (string, error) {
	for _, e := range translationEdges[action] {
		if e.from == request.Status {
			return e.to, nil
		}
	}
	return "", errInvalidTransition(action, request.Status)
}
