// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Translation request statuses. A request is never deleted, only
// advanced; publication happens implicitly through the parent story.
const (
	TranslationPending     = "PENDING"
	TranslationInProgress  = "IN_PROGRESS"
	TranslationNeedsReview = "NEEDS_REVIEW"
	TranslationApproved    = "APPROVED"
	TranslationRejected    = "REJECTED"
)

// ValidTranslationStatuses contains all translation request statuses.
var ValidTranslationStatuses = []string{
	TranslationPending,
	TranslationInProgress,
	TranslationNeedsReview,
	TranslationApproved,
	TranslationRejected,
}

// Translation request actions.
const (
	TranslationActionStart        = "start_translation"
	TranslationActionSubmitReview = "submit_translation_review"
	TranslationActionApprove      = "approve_translation"
	TranslationActionReject       = "reject_translation"
)

// ValidTranslationActions contains all translation request actions.
var ValidTranslationActions = []string{
	TranslationActionStart,
	TranslationActionSubmitReview,
	TranslationActionApprove,
	TranslationActionReject,
}

// IsValidTranslationAction reports whether action names a known
// translation request action.
func IsValidTranslationAction(action string) bool {
	for _, a := range ValidTranslationActions {
		if a == action {
			return true
		}
	}
	return false
}

// TranslationResolved reports whether a request status counts as
// resolved when deciding if the original story may auto-advance.
func TranslationResolved(status string) bool {
	return status == TranslationApproved
}
