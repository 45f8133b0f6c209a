// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package access answers "may a profile with role R perform an action
// requiring role-set S". It is deliberately free of I/O and injected
// collaborators so that policy stays a truth table.
package access

import (
	"github.com/canonical/workspace-service/internal/types"
)

// Allowed reports whether the profile's role satisfies the required set.
// system_admin passes every check, including an empty set. A nil profile
// never passes.
func Allowed(profile *types.Profile, requiredRoles []types.Role) bool {
	if profile == nil {
		return false
	}
	return AllowedRole(profile.Role, requiredRoles)
}

// AllowedRole is the role-only form of Allowed, for callers that have not
// resolved a full profile.
func AllowedRole(role types.Role, requiredRoles []types.Role) bool {
	if role == types.RoleSystemAdmin {
		return true
	}
	for _, required := range requiredRoles {
		if role == required {
			return true
		}
	}
	return false
}
