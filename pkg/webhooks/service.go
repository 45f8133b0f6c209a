// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package webhooks

import (
	"context"
	"fmt"

	"github.com/canonical/workspace-service/internal/logging"
	"github.com/canonical/workspace-service/internal/monitoring"
	"github.com/canonical/workspace-service/internal/tracing"
	"github.com/canonical/workspace-service/internal/types"
)

type Service struct {
	reconciler ReconcilerInterface
	workspace  WorkspaceInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

var _ ServiceInterface = (*Service)(nil)

func NewService(
	reconciler ReconcilerInterface,
	workspace WorkspaceInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		reconciler: reconciler,
		workspace:  workspace,
		tracer:     tracer,
		monitor:    monitor,
		logger:     logger,
	}
}

// HandleRegistration provisions the profile row synchronously so the first
// sign-in never races profile creation.
func (s *Service) HandleRegistration(ctx context.Context, identity *types.Identity) error {
	ctx, span := s.tracer.Start(ctx, "webhooks.Service.HandleRegistration")
	defer span.End()

	if identity == nil || identity.ID == "" || identity.Email == "" {
		return fmt.Errorf("identity ID or email is empty")
	}

	s.logger.Debugf("Handling registration for identity %s with email %s", identity.ID, identity.Email)

	profile, err := s.reconciler.Reconcile(ctx, identity)
	if err != nil {
		return fmt.Errorf("failed to provision profile: %w", err)
	}

	s.logger.Infof("Successfully provisioned profile for identity %s with role %s", identity.ID, profile.Role)
	return nil
}

// HandleLogin starts a workspace session for the identity.
func (s *Service) HandleLogin(ctx context.Context, identity *types.Identity) error {
	ctx, span := s.tracer.Start(ctx, "webhooks.Service.HandleLogin")
	defer span.End()

	if identity == nil || identity.ID == "" {
		return fmt.Errorf("identity ID is empty")
	}

	s.workspace.SignedIn(ctx, identity)
	s.logger.Infof("Workspace session started for identity %s", identity.ID)
	return nil
}

// HandleLogout tears the identity's workspace session down.
func (s *Service) HandleLogout(ctx context.Context, identityID string) error {
	ctx, span := s.tracer.Start(ctx, "webhooks.Service.HandleLogout")
	defer span.End()

	if identityID == "" {
		return fmt.Errorf("identity ID is empty")
	}

	s.workspace.SignedOut(ctx, identityID)
	s.logger.Infof("Workspace session ended for identity %s", identityID)
	return nil
}
