// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package workflow

import (
	"github.com/newsdesk/newsdesk-go/internal/model"
	"github.com/newsdesk/newsdesk-go/internal/store"
)

// Actor identifies the user requesting a transition.
type Actor struct {
	UserID int64
	Role   string
}

// actionPolicy is the declarative permission table: for each action, the
// roles allowed to request it. Ownership and assignment requirements are
// layered on top in authorize.
var actionPolicy = map[string]map[string]bool{
	model.ActionSubmitForReview: roleSet(model.RoleIntern),
	model.ActionSendForApproval: roleSetAtLeast(model.RoleJournalist),
	model.ActionApproveStory:    roleSetAtLeast(model.RoleSubEditor),

	model.ActionSendForTranslation: roleSetAtLeast(model.RoleSubEditor),
	model.ActionMarkAsTranslated:   roleSetAtLeast(model.RoleSubEditor),
	model.ActionPublishStory:       roleSetAtLeast(model.RoleSubEditor),

	model.ActionRequestRevision: roleSetAtLeast(model.RoleJournalist),
	model.ActionResumeEditing:   roleSetAtLeast(model.RoleIntern),
}

// translationActionPolicy is the permission table for translation
// request actions.
var translationActionPolicy = map[string]map[string]bool{
	model.TranslationActionStart:        roleSetAtLeast(model.RoleIntern),
	model.TranslationActionSubmitReview: roleSetAtLeast(model.RoleIntern),
	model.TranslationActionApprove:      roleSetAtLeast(model.RoleSubEditor),
	model.TranslationActionReject:       roleSetAtLeast(model.RoleSubEditor),
}

func roleSet(roles ...string) map[string]bool {
	set := make(map[string]bool, len(roles))
	for _, r := range roles {
		set[r] = true
	}
	return set
}

func roleSetAtLeast(min string) map[string]bool {
	set := make(map[string]bool)
	for _, r := range model.ValidRoles {
		if model.RoleAtLeast(r, min) {
			set[r] = true
		}
	}
	return set
}

// Role capability predicates, exposed for callers that gate UI or
// routing decisions without a full transition request.

// CanReviewStory reports whether role may act as a story reviewer.
func CanReviewStory(role string) bool {
	return model.RoleAtLeast(role, model.RoleJournalist)
}

// CanApproveStoryStage reports whether role may approve stories.
func CanApproveStoryStage(role string) bool {
	return model.RoleAtLeast(role, model.RoleSubEditor)
}

// CanSendForTranslation reports whether role may commission translations.
func CanSendForTranslation(role string) bool {
	return model.RoleAtLeast(role, model.RoleSubEditor)
}

// CanPublishStory reports whether role may publish stories.
func CanPublishStory(role string) bool {
	return model.RoleAtLeast(role, model.RoleSubEditor)
}

// authorize enforces the policy table plus ownership and assignment
// overlays for a story action. Returns a Forbidden error on failure.
func authorize(actor Actor, action string, story store.Story) error {
	allowed := actionPolicy[action]
	if allowed == nil || !allowed[actor.Role] {
		return errForbidden("your role may not perform " + action)
	}

	switch action {
	case model.ActionSubmitForReview:
		// Interns submit only their own stories.
		if story.AuthorID != actor.UserID {
			return errForbidden("only the story author may submit it for review")
		}
	case model.ActionSendForApproval:
		// From DRAFT the author sends their own story onward; from
		// review the assigned reviewer (or a sub-editor and above)
		// moves it along.
		switch story.Stage {
		case model.StageDraft:
			if story.AuthorID != actor.UserID {
				return errForbidden("only the story author may send it for approval")
			}
		case model.StageNeedsReview:
			if !isAssignedReviewer(actor, story) && !model.RoleAtLeast(actor.Role, model.RoleSubEditor) {
				return errForbidden("only the assigned reviewer may send this story for approval")
			}
		}
	case model.ActionRequestRevision:
		if story.Stage == model.StageNeedsReview &&
			!isAssignedReviewer(actor, story) && !model.RoleAtLeast(actor.Role, model.RoleSubEditor) {
			return errForbidden("only the assigned reviewer may request revisions")
		}
	case model.ActionResumeEditing:
		if story.AuthorID != actor.UserID && !model.RoleAtLeast(actor.Role, model.RoleSubEditor) {
			return errForbidden("only the story author may resume editing")
		}
	}

	return nil
}

// authorizeTranslation enforces the policy table plus assignment overlay
// for a translation request action.
func authorizeTranslation(actor Actor, action string, request store.TranslationRequest) error {
	allowed := translationActionPolicy[action]
	if allowed == nil || !allowed[actor.Role] {
		return errForbidden("your role may not perform " + action)
	}

	switch action {
	case model.TranslationActionStart, model.TranslationActionSubmitReview:
		// Translators work only their own assignments; senior staff may
		// step in.
		if request.AssignedToID != actor.UserID && !model.RoleAtLeast(actor.Role, model.RoleSubEditor) {
			return errForbidden("only the assigned translator may work this request")
		}
	}

	return nil
}

func isAssignedReviewer(actor Actor, story store.Story) bool {
	return story.AssignedReviewerID.Valid && story.AssignedReviewerID.Int64 == actor.UserID
}
