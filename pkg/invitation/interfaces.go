// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package invitation

import (
	"context"

	"github.com/canonical/workspace-service/internal/types"
)

// StorageInterface is the subset of the storage layer the invitation
// lifecycle needs.
type StorageInterface interface {
	CreateInvitation(ctx context.Context, inv *types.Invitation) (*types.Invitation, error)
	ListInvitationsByOrgID(ctx context.Context, orgID string) ([]*types.Invitation, error)
	RedeemInvitation(ctx context.Context, token, identityID string) (string, types.Role, error)
}

// KratosClientInterface provisions identities for invited emails. It is a
// subset of the kratos client.
type KratosClientInterface interface {
	GetIdentityIDByEmail(ctx context.Context, email string) (string, error)
	CreateIdentity(ctx context.Context, email string) (string, error)
	CreateRecoveryLink(ctx context.Context, identityID string, expiresIn string) (string, string, error)
}

// WorkspaceInterface resolves the caller's profile and keeps a live session
// in sync after redemption. It is a subset of the workspace manager.
type WorkspaceInterface interface {
	Profile(ctx context.Context, identityID string) (*types.Profile, error)
	Refresh(ctx context.Context, identityID string)
}

type ServiceInterface interface {
	Issue(ctx context.Context, orgID, inviterID, email string, role types.Role) (*types.Invitation, string, error)
	List(ctx context.Context, orgID string) ([]*types.Invitation, error)
	Redeem(ctx context.Context, token, identityID string) (string, types.Role, error)
}
