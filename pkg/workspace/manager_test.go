// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package workspace

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/canonical/workspace-service/internal/logging"
	"github.com/canonical/workspace-service/internal/monitoring"
	"github.com/canonical/workspace-service/internal/tracing"
	"github.com/canonical/workspace-service/internal/types"
)

func newTestManager(identities IdentityProviderInterface, reconciler ReconcilerInterface, orgs OrgLoaderInterface) *Manager {
	return NewManager(
		identities,
		reconciler,
		orgs,
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor(),
		logging.NewNoopLogger(),
	)
}

func TestManagerSignedInStartsSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	identity := &types.Identity{ID: "u1", Email: "u1@example.com"}

	mockReconciler := NewMockReconcilerInterface(ctrl)
	mockReconciler.EXPECT().Reconcile(gomock.Any(), identity).Return(&types.Profile{ID: "u1", Role: types.RoleOrgOwner}, nil).AnyTimes()
	mockOrgs := NewMockOrgLoaderInterface(ctrl)
	mockOrgs.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	m := newTestManager(NewMockIdentityProviderInterface(ctrl), mockReconciler, mockOrgs)

	c := m.SignedIn(context.Background(), identity)
	waitForPhase(t, c, PhaseReady)

	got, ok := m.Get("u1")
	if !ok || got != c {
		t.Error("expected the session to be tracked")
	}
}

func TestManagerSignedOutDropsSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	identity := &types.Identity{ID: "u1"}

	mockReconciler := NewMockReconcilerInterface(ctrl)
	mockReconciler.EXPECT().Reconcile(gomock.Any(), gomock.Any()).Return(&types.Profile{ID: "u1", Role: types.RoleOrgOwner}, nil).AnyTimes()
	mockOrgs := NewMockOrgLoaderInterface(ctrl)
	mockOrgs.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	m := newTestManager(NewMockIdentityProviderInterface(ctrl), mockReconciler, mockOrgs)

	c := m.SignedIn(context.Background(), identity)
	waitForPhase(t, c, PhaseReady)

	m.SignedOut(context.Background(), "u1")

	if _, ok := m.Get("u1"); ok {
		t.Error("expected the session to be dropped")
	}
	if got := c.State().Phase; got != PhaseIdle {
		t.Errorf("expected idle coordinator after sign-out, got %s", got)
	}
}

func TestManagerEnsureResolvesIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	identity := &types.Identity{ID: "u1", Email: "u1@example.com"}

	mockIdentities := NewMockIdentityProviderInterface(ctrl)
	mockIdentities.EXPECT().GetIdentity(gomock.Any(), "u1").Return(identity, nil)
	mockReconciler := NewMockReconcilerInterface(ctrl)
	mockReconciler.EXPECT().Reconcile(gomock.Any(), identity).Return(&types.Profile{ID: "u1", Role: types.RoleAgent}, nil).AnyTimes()
	mockOrgs := NewMockOrgLoaderInterface(ctrl)
	mockOrgs.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	m := newTestManager(mockIdentities, mockReconciler, mockOrgs)

	c, err := m.Ensure(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitForPhase(t, c, PhaseReady)

	// A second call reuses the session without another identity lookup.
	again, err := m.Ensure(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != c {
		t.Error("expected the same coordinator")
	}
}

func TestManagerEnsurePropagatesIdentityErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockIdentities := NewMockIdentityProviderInterface(ctrl)
	mockIdentities.EXPECT().GetIdentity(gomock.Any(), "u1").Return(nil, errors.New("kratos down"))

	m := newTestManager(mockIdentities, NewMockReconcilerInterface(ctrl), NewMockOrgLoaderInterface(ctrl))

	if _, err := m.Ensure(context.Background(), "u1"); err == nil {
		t.Error("expected error but got none")
	}
}

func TestManagerProfileReusesResolvedState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	identity := &types.Identity{ID: "u1"}
	profile := &types.Profile{ID: "u1", Role: types.RoleOrgOwner}

	mockReconciler := NewMockReconcilerInterface(ctrl)
	mockReconciler.EXPECT().Reconcile(gomock.Any(), identity).Return(profile, nil)
	mockOrgs := NewMockOrgLoaderInterface(ctrl)
	mockOrgs.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, nil)

	m := newTestManager(NewMockIdentityProviderInterface(ctrl), mockReconciler, mockOrgs)

	c := m.SignedIn(context.Background(), identity)
	waitForPhase(t, c, PhaseReady)

	// No further reconcile or identity lookup expected.
	got, err := m.Profile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "u1" {
		t.Errorf("unexpected profile %+v", got)
	}
}

func TestManagerProfileFallsBackToReconcile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	identity := &types.Identity{ID: "u1"}
	profile := &types.Profile{ID: "u1", Role: types.RoleAgent}

	mockIdentities := NewMockIdentityProviderInterface(ctrl)
	mockIdentities.EXPECT().GetIdentity(gomock.Any(), "u1").Return(identity, nil)
	mockReconciler := NewMockReconcilerInterface(ctrl)
	mockReconciler.EXPECT().Reconcile(gomock.Any(), identity).Return(profile, nil)

	m := newTestManager(mockIdentities, mockReconciler, NewMockOrgLoaderInterface(ctrl))

	got, err := m.Profile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != profile {
		t.Errorf("unexpected profile %+v", got)
	}
}

func TestManagerRefreshWithoutSessionIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newTestManager(NewMockIdentityProviderInterface(ctrl), NewMockReconcilerInterface(ctrl), NewMockOrgLoaderInterface(ctrl))

	m.Refresh(context.Background(), "nobody")
}
