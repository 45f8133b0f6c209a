// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"

	"github.com/canonical/workspace-service/internal/types"
)

type StorageInterface interface {
	GetProfileByID(ctx context.Context, id string) (*types.Profile, error)
	CreateProfile(ctx context.Context, p *types.Profile) (*types.Profile, error)
	UpdateProfile(ctx context.Context, p *types.Profile, paths []string) error

	GetOrganizationByID(ctx context.Context, id string) (*types.Organization, error)
	CreateOrganization(ctx context.Context, o *types.Organization) (*types.Organization, error)
	UpdateOrganization(ctx context.Context, o *types.Organization, paths []string) error
	DeleteOrganization(ctx context.Context, id string) error

	CreateInvitation(ctx context.Context, inv *types.Invitation) (*types.Invitation, error)
	GetInvitationByToken(ctx context.Context, token string) (*types.Invitation, error)
	ListInvitationsByOrgID(ctx context.Context, orgID string) ([]*types.Invitation, error)
	RedeemInvitation(ctx context.Context, token, identityID string) (string, types.Role, error)
}
