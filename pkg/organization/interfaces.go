// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package organization

import (
	"context"

	"github.com/canonical/workspace-service/internal/types"
)

// StorageInterface is the subset of the storage layer organization
// administration needs.
type StorageInterface interface {
	GetOrganizationByID(ctx context.Context, id string) (*types.Organization, error)
	CreateOrganization(ctx context.Context, o *types.Organization) (*types.Organization, error)
	UpdateOrganization(ctx context.Context, o *types.Organization, paths []string) error
	DeleteOrganization(ctx context.Context, id string) error
	UpdateProfile(ctx context.Context, p *types.Profile, paths []string) error
}

// WorkspaceInterface resolves the caller's profile and keeps a live session
// in sync. It is a subset of the workspace manager.
type WorkspaceInterface interface {
	Profile(ctx context.Context, identityID string) (*types.Profile, error)
	Refresh(ctx context.Context, identityID string)
}

type ServiceInterface interface {
	Create(ctx context.Context, founderID string, org *types.Organization) (*types.Organization, error)
	Get(ctx context.Context, id string) (*types.Organization, error)
	Update(ctx context.Context, org *types.Organization, paths []string) (*types.Organization, error)
	Delete(ctx context.Context, id string) error
}
