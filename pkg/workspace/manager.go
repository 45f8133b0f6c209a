// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package workspace

import (
	"context"
	"fmt"
	"sync"

	"github.com/canonical/workspace-service/internal/logging"
	"github.com/canonical/workspace-service/internal/monitoring"
	"github.com/canonical/workspace-service/internal/tracing"
	"github.com/canonical/workspace-service/internal/types"
)

// Manager owns one coordinator per active session, keyed by identity id.
// Coordinators are created on the first sign-in or API touch and dropped on
// sign-out so the map tracks only live sessions.
type Manager struct {
	identities IdentityProviderInterface
	reconciler ReconcilerInterface
	orgs       OrgLoaderInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface

	mu       sync.Mutex
	sessions map[string]*Coordinator
}

var _ ManagerInterface = (*Manager)(nil)

func NewManager(
	identities IdentityProviderInterface,
	reconciler ReconcilerInterface,
	orgs OrgLoaderInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Manager {
	return &Manager{
		identities: identities,
		reconciler: reconciler,
		orgs:       orgs,
		tracer:     tracer,
		monitor:    monitor,
		logger:     logger,
		sessions:   make(map[string]*Coordinator),
	}
}

// SignedIn routes an identity lifecycle event to the session's coordinator,
// creating it if needed.
func (m *Manager) SignedIn(ctx context.Context, identity *types.Identity) *Coordinator {
	ctx, span := m.tracer.Start(ctx, "workspace.Manager.SignedIn")
	defer span.End()

	c := m.coordinator(identity.ID)
	c.SignedIn(ctx, identity)
	return c
}

// SignedOut tears the session down.
func (m *Manager) SignedOut(ctx context.Context, identityID string) {
	_, span := m.tracer.Start(ctx, "workspace.Manager.SignedOut")
	defer span.End()

	m.mu.Lock()
	c, ok := m.sessions[identityID]
	delete(m.sessions, identityID)
	m.mu.Unlock()

	if ok {
		c.SignedOut()
	}
}

// Ensure returns the session's coordinator, starting one from the identity
// provider's record when no sign-in event has been seen, e.g. after a
// service restart with live sessions.
func (m *Manager) Ensure(ctx context.Context, identityID string) (*Coordinator, error) {
	ctx, span := m.tracer.Start(ctx, "workspace.Manager.Ensure")
	defer span.End()

	if c, ok := m.Get(identityID); ok {
		return c, nil
	}

	identity, err := m.identities.GetIdentity(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve identity %s: %w", identityID, err)
	}

	return m.SignedIn(ctx, identity), nil
}

// Profile resolves the caller's profile synchronously, reusing the
// session's already resolved state when available and falling back to a
// direct reconcile otherwise.
func (m *Manager) Profile(ctx context.Context, identityID string) (*types.Profile, error) {
	ctx, span := m.tracer.Start(ctx, "workspace.Manager.Profile")
	defer span.End()

	if c, ok := m.Get(identityID); ok {
		if s := c.State(); s.Profile != nil {
			return s.Profile, nil
		}
	}

	identity, err := m.identities.GetIdentity(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve identity %s: %w", identityID, err)
	}

	return m.reconciler.Reconcile(ctx, identity)
}

// Refresh re-runs reconciliation for the session if one is live, e.g. after
// invitation redemption changed the profile's organization binding.
func (m *Manager) Refresh(ctx context.Context, identityID string) {
	if c, ok := m.Get(identityID); ok {
		c.Refresh(ctx)
	}
}

// Get returns the coordinator for an identity id if one exists.
func (m *Manager) Get(identityID string) (*Coordinator, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.sessions[identityID]
	return c, ok
}

func (m *Manager) coordinator(identityID string) *Coordinator {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.sessions[identityID]; ok {
		return c
	}

	c := NewCoordinator(m.reconciler, m.orgs, m.tracer, m.monitor, m.logger)
	m.sessions[identityID] = c
	return c
}
