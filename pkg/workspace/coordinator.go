// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package workspace

import (
	"context"
	"fmt"
	"sync"

	"github.com/canonical/workspace-service/internal/db"
	"github.com/canonical/workspace-service/internal/logging"
	"github.com/canonical/workspace-service/internal/monitoring"
	"github.com/canonical/workspace-service/internal/storage"
	"github.com/canonical/workspace-service/internal/tracing"
	"github.com/canonical/workspace-service/internal/types"
	"github.com/canonical/workspace-service/pkg/access"
)

// Phase is the coordinator's externally visible lifecycle state.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseInitializing Phase = "initializing"
	PhaseReady        Phase = "ready"
	PhaseDegraded     Phase = "degraded"
	PhaseFailed       Phase = "failed"
)

// State is an immutable snapshot of one session's workspace. Degraded means
// the profile resolved but the organization view is stale or absent; the
// session stays usable.
type State struct {
	Phase        Phase               `json:"phase"`
	Profile      *types.Profile      `json:"profile,omitempty"`
	Organization *types.Organization `json:"organization,omitempty"`
	Error        string              `json:"error,omitempty"`
}

// Coordinator drives the per-session state machine
// Idle -> Initializing -> {Ready, Degraded, Failed}, resetting to Idle on
// sign-out or identity change. Reconciliation runs asynchronously; every
// run carries the generation current at launch and its result is discarded
// if a newer event advanced the generation in the meantime, so a stale
// attempt can never overwrite state belonging to a newer identity.
type Coordinator struct {
	reconciler ReconcilerInterface
	orgs       OrgLoaderInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface

	mu         sync.Mutex
	generation uint64
	identity   *types.Identity
	state      State
}

var _ CoordinatorInterface = (*Coordinator)(nil)

func NewCoordinator(
	reconciler ReconcilerInterface,
	orgs OrgLoaderInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Coordinator {
	return &Coordinator{
		reconciler: reconciler,
		orgs:       orgs,
		tracer:     tracer,
		monitor:    monitor,
		logger:     logger,
		state:      State{Phase: PhaseIdle},
	}
}

// State returns the current snapshot.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Allowed evaluates the access policy against the resolved profile. Only a
// Ready or Degraded workspace has a usable profile.
func (c *Coordinator) Allowed(requiredRoles []types.Role) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase != PhaseReady && c.state.Phase != PhaseDegraded {
		return false
	}
	return access.Allowed(c.state.Profile, requiredRoles)
}

// SignedIn reacts to an identity lifecycle event. A different identity id
// resets the machine completely; the same identity re-enters Initializing
// keeping the last known good profile and organization visible until the
// new attempt resolves.
func (c *Coordinator) SignedIn(ctx context.Context, identity *types.Identity) {
	c.mu.Lock()
	if c.identity != nil && c.identity.ID != identity.ID {
		c.state = State{Phase: PhaseIdle}
	}
	c.identity = identity
	c.generation++
	gen := c.generation
	if c.state.Phase == PhaseIdle {
		c.state = State{Phase: PhaseInitializing}
	} else {
		c.state.Phase = PhaseInitializing
		c.state.Error = ""
	}
	c.mu.Unlock()

	c.monitor.IncWorkspacePhase(string(PhaseInitializing))
	// Reconciliation outlives the request: detach from its cancelation and
	// from any request-scoped transaction before handing the context over.
	go c.run(db.Detach(context.WithoutCancel(ctx)), gen, identity)
}

// SignedOut resets the machine to Idle and invalidates any in-flight work.
func (c *Coordinator) SignedOut() {
	c.mu.Lock()
	c.identity = nil
	c.generation++
	c.state = State{Phase: PhaseIdle}
	c.mu.Unlock()

	c.monitor.IncWorkspacePhase(string(PhaseIdle))
}

// Refresh re-enters Initializing without discarding the last known good
// state. Returns false when no identity is signed in.
func (c *Coordinator) Refresh(ctx context.Context) bool {
	c.mu.Lock()
	if c.identity == nil {
		c.mu.Unlock()
		return false
	}
	identity := c.identity
	c.generation++
	gen := c.generation
	c.state.Phase = PhaseInitializing
	c.state.Error = ""
	c.mu.Unlock()

	c.monitor.IncWorkspacePhase(string(PhaseInitializing))
	go c.run(db.Detach(context.WithoutCancel(ctx)), gen, identity)
	return true
}

func (c *Coordinator) run(ctx context.Context, gen uint64, identity *types.Identity) {
	ctx, span := c.tracer.Start(ctx, "workspace.Coordinator.run")
	defer span.End()

	next := c.resolve(ctx, identity)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Debugf("discarding stale reconciliation result for %s", identity.ID)
		return
	}
	c.state = next
	c.mu.Unlock()

	c.monitor.IncWorkspacePhase(string(next.Phase))
	if next.Phase == PhaseFailed {
		c.logger.Errorf("workspace for %s failed: %s", identity.ID, next.Error)
	}
}

func (c *Coordinator) resolve(ctx context.Context, identity *types.Identity) State {
	profile, err := c.reconciler.Reconcile(ctx, identity)
	if err != nil {
		// No usable identity without a profile: always fatal.
		return State{
			Phase: PhaseFailed,
			Error: fmt.Sprintf("profile reconciliation failed (%s): %v", storage.Classify(err), err),
		}
	}

	org, err := c.orgs.Load(ctx, profile.OrgID)
	if err != nil {
		return State{
			Phase:   PhaseDegraded,
			Profile: profile,
			Error:   fmt.Sprintf("organization unavailable: %v", err),
		}
	}

	if profile.OrgID != nil && *profile.OrgID != "" && org == nil {
		// Dangling reference: the profile stays usable without its
		// organization view.
		return State{
			Phase:   PhaseDegraded,
			Profile: profile,
			Error:   fmt.Sprintf("organization %s not found", *profile.OrgID),
		}
	}

	return State{Phase: PhaseReady, Profile: profile, Organization: org}
}
