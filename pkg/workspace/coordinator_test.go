// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package workspace

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/canonical/workspace-service/internal/logging"
	"github.com/canonical/workspace-service/internal/monitoring"
	"github.com/canonical/workspace-service/internal/tracing"
	"github.com/canonical/workspace-service/internal/types"
)

func newTestCoordinator(reconciler ReconcilerInterface, orgs OrgLoaderInterface) *Coordinator {
	return NewCoordinator(
		reconciler,
		orgs,
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor(),
		logging.NewNoopLogger(),
	)
}

func waitForPhase(t *testing.T, c *Coordinator, phase Phase) State {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s := c.State()
		if s.Phase == phase {
			return s
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for phase %s, last state %+v", phase, c.State())
	return State{}
}

func TestCoordinatorSignInWithoutOrganizationReachesReady(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	identity := &types.Identity{ID: "u1", Email: "u1@example.com"}
	profile := &types.Profile{ID: "u1", Role: types.RoleOrgOwner, Currency: "USD"}

	mockReconciler := NewMockReconcilerInterface(ctrl)
	mockReconciler.EXPECT().Reconcile(gomock.Any(), identity).Return(profile, nil)
	mockOrgs := NewMockOrgLoaderInterface(ctrl)
	mockOrgs.EXPECT().Load(gomock.Any(), gomock.Nil()).Return(nil, nil)

	c := newTestCoordinator(mockReconciler, mockOrgs)
	if got := c.State().Phase; got != PhaseIdle {
		t.Fatalf("expected initial phase idle, got %s", got)
	}

	c.SignedIn(context.Background(), identity)

	state := waitForPhase(t, c, PhaseReady)
	if state.Profile == nil || state.Profile.Role != types.RoleOrgOwner {
		t.Errorf("expected default org_owner profile, got %+v", state.Profile)
	}
	if state.Organization != nil {
		t.Errorf("expected nil organization, got %+v", state.Organization)
	}
	if state.Error != "" {
		t.Errorf("expected no error, got %q", state.Error)
	}
}

func TestCoordinatorDanglingOrganizationDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orgID := "org-404"
	identity := &types.Identity{ID: "u2"}
	profile := &types.Profile{ID: "u2", Role: types.RoleAgent, OrgID: &orgID, Currency: "USD"}

	mockReconciler := NewMockReconcilerInterface(ctrl)
	mockReconciler.EXPECT().Reconcile(gomock.Any(), identity).Return(profile, nil)
	mockOrgs := NewMockOrgLoaderInterface(ctrl)
	mockOrgs.EXPECT().Load(gomock.Any(), &orgID).Return(nil, nil)

	c := newTestCoordinator(mockReconciler, mockOrgs)
	c.SignedIn(context.Background(), identity)

	state := waitForPhase(t, c, PhaseDegraded)
	if state.Profile == nil {
		t.Error("expected usable profile in degraded state")
	}
	if state.Organization != nil {
		t.Errorf("expected nil organization, got %+v", state.Organization)
	}
	if state.Error == "" {
		t.Error("expected a non-fatal error message")
	}
}

func TestCoordinatorOrganizationLoadFailureDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orgID := "org-1"
	identity := &types.Identity{ID: "u2"}
	profile := &types.Profile{ID: "u2", Role: types.RoleAgent, OrgID: &orgID, Currency: "USD"}

	mockReconciler := NewMockReconcilerInterface(ctrl)
	mockReconciler.EXPECT().Reconcile(gomock.Any(), identity).Return(profile, nil)
	mockOrgs := NewMockOrgLoaderInterface(ctrl)
	mockOrgs.EXPECT().Load(gomock.Any(), &orgID).Return(nil, errors.New("timeout"))

	c := newTestCoordinator(mockReconciler, mockOrgs)
	c.SignedIn(context.Background(), identity)

	state := waitForPhase(t, c, PhaseDegraded)
	if state.Profile == nil || state.Error == "" {
		t.Errorf("expected degraded state with profile and error, got %+v", state)
	}
}

func TestCoordinatorReconcileFailureFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	identity := &types.Identity{ID: "u3"}

	mockReconciler := NewMockReconcilerInterface(ctrl)
	mockReconciler.EXPECT().Reconcile(gomock.Any(), identity).Return(nil, context.DeadlineExceeded)
	mockOrgs := NewMockOrgLoaderInterface(ctrl)

	c := newTestCoordinator(mockReconciler, mockOrgs)
	c.SignedIn(context.Background(), identity)

	state := waitForPhase(t, c, PhaseFailed)
	if state.Profile != nil {
		t.Errorf("expected no profile in failed state, got %+v", state.Profile)
	}
	if state.Error == "" {
		t.Error("expected a diagnosable error message")
	}
}

func TestCoordinatorSignedOutResetsToIdle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	identity := &types.Identity{ID: "u1"}
	profile := &types.Profile{ID: "u1", Role: types.RoleOrgOwner, Currency: "USD"}

	mockReconciler := NewMockReconcilerInterface(ctrl)
	mockReconciler.EXPECT().Reconcile(gomock.Any(), identity).Return(profile, nil)
	mockOrgs := NewMockOrgLoaderInterface(ctrl)
	mockOrgs.EXPECT().Load(gomock.Any(), gomock.Nil()).Return(nil, nil)

	c := newTestCoordinator(mockReconciler, mockOrgs)
	c.SignedIn(context.Background(), identity)
	waitForPhase(t, c, PhaseReady)

	c.SignedOut()

	state := c.State()
	if state.Phase != PhaseIdle || state.Profile != nil {
		t.Errorf("expected full reset to idle, got %+v", state)
	}
}

func TestCoordinatorInFlightResultDiscardedAfterSignOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	identity := &types.Identity{ID: "u1"}
	profile := &types.Profile{ID: "u1", Role: types.RoleOrgOwner, Currency: "USD"}
	release := make(chan struct{})
	resolved := make(chan struct{})

	mockReconciler := NewMockReconcilerInterface(ctrl)
	mockReconciler.EXPECT().Reconcile(gomock.Any(), identity).DoAndReturn(
		func(context.Context, *types.Identity) (*types.Profile, error) {
			<-release
			defer close(resolved)
			return profile, nil
		})
	mockOrgs := NewMockOrgLoaderInterface(ctrl)
	mockOrgs.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	c := newTestCoordinator(mockReconciler, mockOrgs)
	c.SignedIn(context.Background(), identity)
	c.SignedOut()

	close(release)
	<-resolved
	// Give the run goroutine a moment to (incorrectly) apply its result.
	time.Sleep(20 * time.Millisecond)

	state := c.State()
	if state.Phase != PhaseIdle || state.Profile != nil {
		t.Errorf("stale result must not resurrect a signed-out session, got %+v", state)
	}
}

func TestCoordinatorIdentitySwapDiscardsStaleResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	u1 := &types.Identity{ID: "u1"}
	u2 := &types.Identity{ID: "u2"}
	u1Profile := &types.Profile{ID: "u1", Role: types.RoleOrgOwner, Currency: "USD"}
	u2Profile := &types.Profile{ID: "u2", Role: types.RoleAgent, Currency: "USD"}

	releaseU1 := make(chan struct{})
	u1Resolved := make(chan struct{})

	mockReconciler := NewMockReconcilerInterface(ctrl)
	mockReconciler.EXPECT().Reconcile(gomock.Any(), u1).DoAndReturn(
		func(context.Context, *types.Identity) (*types.Profile, error) {
			<-releaseU1
			defer close(u1Resolved)
			return u1Profile, nil
		})
	mockReconciler.EXPECT().Reconcile(gomock.Any(), u2).Return(u2Profile, nil)
	mockOrgs := NewMockOrgLoaderInterface(ctrl)
	mockOrgs.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	c := newTestCoordinator(mockReconciler, mockOrgs)
	c.SignedIn(context.Background(), u1)
	c.SignedIn(context.Background(), u2)

	state := waitForPhase(t, c, PhaseReady)
	if state.Profile.ID != "u2" {
		t.Fatalf("expected u2's workspace, got %+v", state.Profile)
	}

	// Let u1's stale attempt resolve; it must not overwrite u2's state.
	close(releaseU1)
	<-u1Resolved
	time.Sleep(20 * time.Millisecond)

	state = c.State()
	if state.Profile == nil || state.Profile.ID != "u2" {
		t.Errorf("stale u1 result overwrote u2's state: %+v", state)
	}
}

func TestCoordinatorRefreshKeepsLastKnownGood(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	identity := &types.Identity{ID: "u1"}
	oldProfile := &types.Profile{ID: "u1", DisplayName: "old", Role: types.RoleOrgOwner, Currency: "USD"}
	newProfile := &types.Profile{ID: "u1", DisplayName: "new", Role: types.RoleOrgOwner, Currency: "USD"}
	release := make(chan struct{})

	mockReconciler := NewMockReconcilerInterface(ctrl)
	gomock.InOrder(
		mockReconciler.EXPECT().Reconcile(gomock.Any(), identity).Return(oldProfile, nil),
		mockReconciler.EXPECT().Reconcile(gomock.Any(), identity).DoAndReturn(
			func(context.Context, *types.Identity) (*types.Profile, error) {
				<-release
				return newProfile, nil
			}),
	)
	mockOrgs := NewMockOrgLoaderInterface(ctrl)
	mockOrgs.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	c := newTestCoordinator(mockReconciler, mockOrgs)
	c.SignedIn(context.Background(), identity)
	waitForPhase(t, c, PhaseReady)

	if !c.Refresh(context.Background()) {
		t.Fatal("expected refresh to start")
	}

	// Stale-while-revalidate: initializing, but the old profile stays
	// visible until the new attempt resolves.
	state := c.State()
	if state.Phase != PhaseInitializing {
		t.Errorf("expected initializing during refresh, got %s", state.Phase)
	}
	if state.Profile == nil || state.Profile.DisplayName != "old" {
		t.Errorf("expected last known good profile during refresh, got %+v", state.Profile)
	}

	close(release)
	state = waitForPhase(t, c, PhaseReady)
	if state.Profile.DisplayName != "new" {
		t.Errorf("expected refreshed profile, got %+v", state.Profile)
	}
}

func TestCoordinatorRefreshWithoutIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c := newTestCoordinator(NewMockReconcilerInterface(ctrl), NewMockOrgLoaderInterface(ctrl))

	if c.Refresh(context.Background()) {
		t.Error("expected refresh to be a no-op with no identity")
	}
}

func TestCoordinatorAllowedGatedByPhase(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	identity := &types.Identity{ID: "u1"}
	profile := &types.Profile{ID: "u1", Role: types.RoleAgent, Currency: "USD"}

	mockReconciler := NewMockReconcilerInterface(ctrl)
	mockReconciler.EXPECT().Reconcile(gomock.Any(), identity).Return(profile, nil)
	mockOrgs := NewMockOrgLoaderInterface(ctrl)
	mockOrgs.EXPECT().Load(gomock.Any(), gomock.Nil()).Return(nil, nil)

	c := newTestCoordinator(mockReconciler, mockOrgs)

	if c.Allowed([]types.Role{types.RoleAgent}) {
		t.Error("expected idle workspace to deny")
	}

	c.SignedIn(context.Background(), identity)
	waitForPhase(t, c, PhaseReady)

	if !c.Allowed([]types.Role{types.RoleAgent, types.RoleTourOperator}) {
		t.Error("expected agent to be allowed")
	}
	if c.Allowed([]types.Role{types.RoleOrgOwner}) {
		t.Error("expected agent to be denied org_owner actions")
	}
}
