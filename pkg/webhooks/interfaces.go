// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"

	"github.com/canonical/workspace-service/internal/types"
	"github.com/canonical/workspace-service/pkg/workspace"
)

// ReconcilerInterface guarantees a profile row exists for an identity. It is
// a subset of the workspace reconciler.
type ReconcilerInterface interface {
	Reconcile(ctx context.Context, identity *types.Identity) (*types.Profile, error)
}

// WorkspaceInterface tracks live sessions. It is a subset of the workspace
// manager.
type WorkspaceInterface interface {
	SignedIn(ctx context.Context, identity *types.Identity) *workspace.Coordinator
	SignedOut(ctx context.Context, identityID string)
}

// ServiceInterface defines the webhook service operations.
type ServiceInterface interface {
	HandleRegistration(ctx context.Context, identity *types.Identity) error
	HandleLogin(ctx context.Context, identity *types.Identity) error
	HandleLogout(ctx context.Context, identityID string) error
}
