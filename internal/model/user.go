// Copyright (c) 2026 Newsdesk Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain types shared across the application:
// staff roles, story stages, workflow actions and their helpers.
package model

// Staff roles, ordered by increasing editorial authority.
const (
	RoleIntern     = "intern"
	RoleJournalist = "journalist"
	RoleSubEditor  = "sub_editor"
	RoleEditor     = "editor"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// roleRank maps each role to its position in the editorial hierarchy.
var roleRank = map[string]int{
	RoleIntern:     0,
	RoleJournalist: 1,
	RoleSubEditor:  2,
	RoleEditor:     3,
	RoleAdmin:      4,
	RoleSuperadmin: 5,
}

// ValidRoles contains all staff roles in hierarchy order.
var ValidRoles = []string{
	RoleIntern,
	RoleJournalist,
	RoleSubEditor,
	RoleEditor,
	RoleAdmin,
	RoleSuperadmin,
}

// IsValidRole reports whether role names a known staff role.
func IsValidRole(role string) bool {
	_, ok := roleRank[role]
	return ok
}

// RoleAtLeast reports whether role carries at least the authority of min.
// Unknown roles never satisfy any minimum.
func RoleAtLeast(role, min string) bool {
	r, ok := roleRank[role]
	if !ok {
		return false
	}
	m, ok := roleRank[min]
	if !ok {
		return false
	}
	return r >= m
}
