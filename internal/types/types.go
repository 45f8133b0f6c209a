// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"time"
)

// Role is the application role recorded on a profile.
type Role string

const (
	RoleSystemAdmin  Role = "system_admin"
	RoleOrgOwner     Role = "org_owner"
	RoleTourOperator Role = "tour_operator"
	RoleAgent        Role = "agent"
	RoleClient       Role = "client"
)

// Roles returns every valid role.
func Roles() []Role {
	return []Role{RoleSystemAdmin, RoleOrgOwner, RoleTourOperator, RoleAgent, RoleClient}
}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleSystemAdmin, RoleOrgOwner, RoleTourOperator, RoleAgent, RoleClient:
		return true
	}
	return false
}

// InvitableRoles are the roles an organization owner may invite. Owner
// equivalent roles are excluded so an invite cannot self-escalate.
func InvitableRoles() []Role {
	return []Role{RoleTourOperator, RoleAgent, RoleClient}
}

// Profile is the canonical local record for an identity, keyed 1:1 by the
// identity id. It is created lazily on first reconciliation and never
// deleted by this service.
type Profile struct {
	ID             string     `db:"id" json:"id"`
	DisplayName    string     `db:"display_name" json:"display_name"`
	Email          string     `db:"email" json:"email"`
	Role           Role       `db:"role" json:"role"`
	OrgID          *string    `db:"org_id" json:"org_id,omitempty"`
	TrialExpiresAt *time.Time `db:"trial_expires_at" json:"trial_expires_at,omitempty"`
	Currency       string     `db:"currency" json:"currency"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// Organization is a tenant record. Reads through this service never see
// soft-deleted rows.
type Organization struct {
	ID           string     `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	LogoURL      string     `db:"logo_url" json:"logo_url"`
	PrimaryColor string     `db:"primary_color" json:"primary_color"`
	DeletedAt    *time.Time `db:"deleted_at" json:"-"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusExpired  InvitationStatus = "expired"
)

// Invitation is a single-use, time-bounded token binding a future profile
// to an organization and role. Status is derived, never stored.
type Invitation struct {
	ID        string     `db:"id" json:"id"`
	Token     string     `db:"token" json:"token"`
	OrgID     string     `db:"org_id" json:"org_id"`
	Email     string     `db:"email" json:"email"`
	Role      Role       `db:"role" json:"role"`
	InviterID string     `db:"inviter_id" json:"inviter_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	ExpiresAt time.Time  `db:"expires_at" json:"expires_at"`
	UsedAt    *time.Time `db:"used_at" json:"used_at,omitempty"`

	Status InvitationStatus `db:"-" json:"status,omitempty"`
}

// IsExpired reports whether the invitation lapsed at the given instant.
// Expiry is independent of redemption.
func (i *Invitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// IsUsed reports whether the invitation has been redeemed.
func (i *Invitation) IsUsed() bool {
	return i.UsedAt != nil
}

// DeriveStatus computes the annotated status at the given instant.
func (i *Invitation) DeriveStatus(now time.Time) InvitationStatus {
	switch {
	case i.IsUsed():
		return InvitationStatusAccepted
	case i.IsExpired(now):
		return InvitationStatusExpired
	default:
		return InvitationStatusPending
	}
}

// Identity is the externally managed principal, read-only here.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	// RoleClaim is an optional role asserted by the identity provider.
	// It seeds new profiles but never overrides an existing row.
	RoleClaim string `json:"role_claim"`
}
