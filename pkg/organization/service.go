// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package organization

import (
	"context"
	"fmt"

	"github.com/canonical/workspace-service/internal/logging"
	"github.com/canonical/workspace-service/internal/monitoring"
	"github.com/canonical/workspace-service/internal/tracing"
	"github.com/canonical/workspace-service/internal/types"
)

type Service struct {
	storage StorageInterface

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

var _ ServiceInterface = (*Service)(nil)

func NewService(
	storage StorageInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage: storage,
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

// Create persists a new organization and, when the founder has no
// organization yet, binds their profile to it.
func (s *Service) Create(ctx context.Context, founderID string, org *types.Organization) (*types.Organization, error) {
	ctx, span := s.tracer.Start(ctx, "organization.Service.Create")
	defer span.End()

	created, err := s.storage.CreateOrganization(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	if founderID != "" {
		update := &types.Profile{ID: founderID, OrgID: &created.ID}
		if err := s.storage.UpdateProfile(ctx, update, []string{"org_id"}); err != nil {
			// The organization exists; an unbound founder can still be
			// attached through an invitation.
			s.logger.Errorf("failed to bind founder %s to organization %s: %v", founderID, created.ID, err)
		}
	}

	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*types.Organization, error) {
	ctx, span := s.tracer.Start(ctx, "organization.Service.Get")
	defer span.End()

	return s.storage.GetOrganizationByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, org *types.Organization, paths []string) (*types.Organization, error) {
	ctx, span := s.tracer.Start(ctx, "organization.Service.Update")
	defer span.End()

	if err := s.storage.UpdateOrganization(ctx, org, paths); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	updated, err := s.storage.GetOrganizationByID(ctx, org.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get updated organization: %w", err)
	}

	return updated, nil
}

// Delete soft-deletes the organization; profiles referencing it degrade to
// a dangling reference, which the workspace treats as absence.
func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "organization.Service.Delete")
	defer span.End()

	if err := s.storage.DeleteOrganization(ctx, id); err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}

	return nil
}
