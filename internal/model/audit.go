// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Audit target types.
const (
	AuditTargetStory       = "story"
	AuditTargetTranslation = "translation_request"
	AuditTargetUser        = "user"
	AuditTargetSystem      = "system"
)

// Audit action names for primary transitions. Each workflow action
// records exactly one of these against the target entity.
const (
	AuditSubmitForReview    = "SUBMIT_FOR_REVIEW"
	AuditSendForApproval    = "SEND_FOR_APPROVAL"
	AuditApproveStory       = "APPROVE_STORY"
	AuditSendForTranslation = "SEND_FOR_TRANSLATION"
	AuditMarkAsTranslated   = "MARK_AS_TRANSLATED"
	AuditPublishStory       = "PUBLISH_STORY"
	AuditRequestRevision    = "REQUEST_REVISION"
	AuditResumeEditing      = "RESUME_EDITING"
)

// Audit action names for cascaded transitions, recorded alongside the
// primary record within the same transaction.
const (
	AuditAutoPublishTranslation = "AUTO_PUBLISH_TRANSLATION"
	AuditAutoMarkAsTranslated   = "AUTO_MARK_AS_TRANSLATED"
)

// Audit action names for translation request transitions.
const (
	AuditStartTranslation         = "START_TRANSLATION"
	AuditSubmitTranslationReview  = "SUBMIT_TRANSLATION_REVIEW"
	AuditApproveTranslation       = "APPROVE_TRANSLATION"
	AuditRejectTranslation        = "REJECT_TRANSLATION"
	AuditCreateTranslationRequest = "CREATE_TRANSLATION_REQUEST"
)

// Miscellaneous audit action names.
const (
	AuditLogin          = "LOGIN"
	AuditLogout         = "LOGOUT"
	AuditCreateStory    = "CREATE_STORY"
	AuditScheduledPurge = "SCHEDULED_AUDIT_PURGE"
	AuditSystemEvent    = "SYSTEM_EVENT"
)

// AuditActionForStoryAction maps a workflow action to its audit action
// name. Unknown actions map to the empty string.
func AuditActionForStoryAction(action string) string {
	switch action {
	case ActionSubmitForReview:
		return AuditSubmitForReview
	case ActionSendForApproval:
		return AuditSendForApproval
	case ActionApproveStory:
		return AuditApproveStory
	case ActionSendForTranslation:
		return AuditSendForTranslation
	case ActionMarkAsTranslated:
		return AuditMarkAsTranslated
	case ActionPublishStory:
		return AuditPublishStory
	case ActionRequestRevision:
		return AuditRequestRevision
	case ActionResumeEditing:
		return AuditResumeEditing
	}
	return ""
}

// AuditActionForTranslationAction maps a translation request action to
// its audit action name. Unknown actions map to the empty string.
func AuditActionForTranslationAction(action string) string {
	switch action {
	case TranslationActionStart:
		return AuditStartTranslation
	case TranslationActionSubmitReview:
		return AuditSubmitTranslationReview
	case TranslationActionApprove:
		return AuditApproveTranslation
	case TranslationActionReject:
		return AuditRejectTranslation
	}
	return ""
}
