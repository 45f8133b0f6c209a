// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package workspace

import (
	"context"
	"errors"
	"sync"

	"github.com/canonical/workspace-service/internal/logging"
	"github.com/canonical/workspace-service/internal/monitoring"
	"github.com/canonical/workspace-service/internal/retry"
	"github.com/canonical/workspace-service/internal/storage"
	"github.com/canonical/workspace-service/internal/tracing"
	"github.com/canonical/workspace-service/internal/types"
)

const (
	defaultRole     = types.RoleOrgOwner
	defaultCurrency = "USD"
)

// Reconciler ensures exactly one profile row exists per identity. A missing
// row is created, a read blocked by row-level authorization is repaired by
// attempting the same creation, and transient failures are retried with
// exponential backoff. Attempt counts are keyed per identity id so that
// concurrent reconciles for the same identity share one budget while
// different identities never interfere; the counter is dropped on any
// terminal outcome so the map stays bounded by the number of in-flight
// identities.
type Reconciler struct {
	storage StorageInterface
	cfg     retry.Config

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface

	mu       sync.Mutex
	attempts map[string]int
}

var _ ReconcilerInterface = (*Reconciler)(nil)

func NewReconciler(
	storage StorageInterface,
	cfg retry.Config,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Reconciler {
	return &Reconciler{
		storage:  storage,
		cfg:      cfg,
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
		attempts: make(map[string]int),
	}
}

func (r *Reconciler) Reconcile(ctx context.Context, identity *types.Identity) (*types.Profile, error) {
	ctx, span := r.tracer.Start(ctx, "workspace.Reconciler.Reconcile")
	defer span.End()

	for {
		profile, err := r.attempt(ctx, identity)
		if err == nil {
			r.clearAttempts(identity.ID)
			return profile, nil
		}

		if storage.Classify(err) != storage.KindTransient {
			r.clearAttempts(identity.ID)
			return nil, err
		}

		attempt := r.nextAttempt(identity.ID)
		if attempt >= r.cfg.MaxAttempts {
			r.clearAttempts(identity.ID)
			return nil, errors.Join(retry.ErrMaxAttemptsExceeded, err)
		}

		r.logger.Debugf("transient failure reconciling profile for %s (attempt %d): %v", identity.ID, attempt, err)
		if werr := r.cfg.Wait(ctx, attempt-1); werr != nil {
			r.clearAttempts(identity.ID)
			return nil, werr
		}
	}
}

// attempt runs one full pass of the reconcile algorithm: read, then create
// when the read came back empty or was blocked by authorization.
func (r *Reconciler) attempt(ctx context.Context, identity *types.Identity) (*types.Profile, error) {
	var profile *types.Profile
	err := r.cfg.Call(ctx, func(callCtx context.Context) error {
		p, err := r.storage.GetProfileByID(callCtx, identity.ID)
		profile = p
		return err
	})
	if err == nil {
		return r.normalize(profile), nil
	}

	switch storage.Classify(err) {
	case storage.KindNotFound:
	case storage.KindPermissionDenied:
		// The read was blocked but inserting a self-row may still be
		// permitted. One repair attempt, not a retry loop.
		r.logger.Warnf("profile read for %s denied, attempting repair: %v", identity.ID, err)
	default:
		return nil, err
	}

	return r.create(ctx, identity)
}

func (r *Reconciler) create(ctx context.Context, identity *types.Identity) (*types.Profile, error) {
	seed := r.seed(identity)

	var created *types.Profile
	err := r.cfg.Call(ctx, func(callCtx context.Context) error {
		p, err := r.storage.CreateProfile(callCtx, seed)
		created = p
		return err
	})
	if err == nil {
		return r.normalize(created), nil
	}

	if storage.Classify(err) == storage.KindConflict {
		// Lost the creation race; the row exists now. Re-read once.
		var existing *types.Profile
		rerr := r.cfg.Call(ctx, func(callCtx context.Context) error {
			p, err := r.storage.GetProfileByID(callCtx, identity.ID)
			existing = p
			return err
		})
		if rerr != nil {
			return nil, rerr
		}
		return r.normalize(existing), nil
	}

	return nil, err
}

// seed builds the profile to insert for an identity that has none. The role
// claim is honored only when it names a known role; it can never grant more
// than the identity provider asserted.
func (r *Reconciler) seed(identity *types.Identity) *types.Profile {
	role := types.Role(identity.RoleClaim)
	if !role.IsValid() {
		role = defaultRole
	}

	return &types.Profile{
		ID:          identity.ID,
		DisplayName: identity.DisplayName,
		Email:       identity.Email,
		Role:        role,
		Currency:    defaultCurrency,
	}
}

// normalize replaces null-ish fields with canonical defaults so every caller
// sees the same shape regardless of which code path produced the row.
func (r *Reconciler) normalize(profile *types.Profile) *types.Profile {
	if profile == nil {
		return nil
	}
	if !profile.Role.IsValid() {
		profile.Role = defaultRole
	}
	if profile.Currency == "" {
		profile.Currency = defaultCurrency
	}
	return profile
}

func (r *Reconciler) nextAttempt(identityID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[identityID]++
	return r.attempts[identityID]
}

func (r *Reconciler) clearAttempts(identityID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attempts, identityID)
}
