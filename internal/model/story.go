// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Story stages in pipeline order. NEEDS_REVISION sits outside the main
// line: a reviewer or approver parks a story there and the author
// returns it to DRAFT.
const (
	StageDraft         = "DRAFT"
	StageNeedsReview   = "NEEDS_JOURNALIST_REVIEW"
	StageNeedsApproval = "NEEDS_SUB_EDITOR_APPROVAL"
	StageApproved      = "APPROVED"
	StageTranslated    = "TRANSLATED"
	StagePublished     = "PUBLISHED"
	StageNeedsRevision = "NEEDS_REVISION"
)

// Legacy status values, kept in sync with the stage for callers that
// predate the staged workflow.
const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
)

// ValidStages contains all story stages.
var ValidStages = []string{
	StageDraft,
	StageNeedsReview,
	StageNeedsApproval,
	StageApproved,
	StageTranslated,
	StagePublished,
	StageNeedsRevision,
}

// IsValidStage reports whether stage names a known story stage.
func IsValidStage(stage string) bool {
	for _, s := range ValidStages {
		if s == stage {
			return true
		}
	}
	return false
}

// StatusForStage returns the legacy status value matching a stage.
func StatusForStage(stage string) string {
	if stage == StagePublished {
		return StatusPublished
	}
	return StatusDraft
}

// Workflow actions a caller may request on a story.
const (
	ActionSubmitForReview    = "submit_for_review"
	ActionSendForApproval    = "send_for_approval"
	ActionApproveStory       = "approve_story"
	ActionSendForTranslation = "send_for_translation"
	ActionMarkAsTranslated   = "mark_as_translated"
	ActionPublishStory       = "publish_story"
	ActionRequestRevision    = "request_revision"
	ActionResumeEditing      = "resume_editing"
)

// ValidActions contains all story workflow actions.
var ValidActions = []string{
	ActionSubmitForReview,
	ActionSendForApproval,
	ActionApproveStory,
	ActionSendForTranslation,
	ActionMarkAsTranslated,
	ActionPublishStory,
	ActionRequestRevision,
	ActionResumeEditing,
}

// IsValidAction reports whether action names a known workflow action.
func IsValidAction(action string) bool {
	for _, a := range ValidActions {
		if a == action {
			return true
		}
	}
	return false
}
