// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Classification types. LANGUAGE and RELIGION act as approval gates:
// a story cannot be approved without at least one of each.
const (
	ClassificationLanguage = "LANGUAGE"
	ClassificationReligion = "RELIGION"
	ClassificationLocality = "LOCALITY"
	ClassificationGeneral  = "GENERAL"
)

// ValidClassificationTypes contains all classification types.
var ValidClassificationTypes = []string{
	ClassificationLanguage,
	ClassificationReligion,
	ClassificationLocality,
	ClassificationGeneral,
}

// IsValidClassificationType reports whether t names a known type.
func IsValidClassificationType(t string) bool {
	for _, v := range ValidClassificationTypes {
		if v == t {
			return true
		}
	}
	return false
}
