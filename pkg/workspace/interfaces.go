// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package workspace

import (
	"context"

	"github.com/canonical/workspace-service/internal/types"
)

// StorageInterface is the subset of the storage layer the reconciler and
// organization loader need.
type StorageInterface interface {
	GetProfileByID(ctx context.Context, id string) (*types.Profile, error)
	CreateProfile(ctx context.Context, p *types.Profile) (*types.Profile, error)
	UpdateProfile(ctx context.Context, p *types.Profile, paths []string) error
	GetOrganizationByID(ctx context.Context, id string) (*types.Organization, error)
}

// IdentityProviderInterface resolves an identity record from the identity
// provider. It is a subset of the kratos client.
type IdentityProviderInterface interface {
	GetIdentity(ctx context.Context, id string) (*types.Identity, error)
}

// ReconcilerInterface guarantees a profile row exists for an identity.
type ReconcilerInterface interface {
	Reconcile(ctx context.Context, identity *types.Identity) (*types.Profile, error)
}

// OrgLoaderInterface resolves the organization a profile references.
type OrgLoaderInterface interface {
	Load(ctx context.Context, orgID *string) (*types.Organization, error)
}

// CoordinatorInterface is one session's workspace state machine.
type CoordinatorInterface interface {
	SignedIn(ctx context.Context, identity *types.Identity)
	SignedOut()
	Refresh(ctx context.Context) bool
	State() State
	Allowed(requiredRoles []types.Role) bool
}

// ManagerInterface tracks one coordinator per active session.
type ManagerInterface interface {
	SignedIn(ctx context.Context, identity *types.Identity) *Coordinator
	SignedOut(ctx context.Context, identityID string)
	Ensure(ctx context.Context, identityID string) (*Coordinator, error)
	Get(identityID string) (*Coordinator, bool)
	Profile(ctx context.Context, identityID string) (*types.Profile, error)
	Refresh(ctx context.Context, identityID string)
}
