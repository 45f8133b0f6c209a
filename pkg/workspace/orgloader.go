// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package workspace

import (
	"context"
	"errors"

	"github.com/canonical/workspace-service/internal/logging"
	"github.com/canonical/workspace-service/internal/retry"
	"github.com/canonical/workspace-service/internal/storage"
	"github.com/canonical/workspace-service/internal/tracing"
	"github.com/canonical/workspace-service/internal/types"
)

// OrgLoader resolves the organization a profile references. "No
// organization" is a valid state: a nil reference returns immediately
// without I/O, and a dangling reference resolves to nil rather than an
// error so roles that need no organization keep a usable workspace.
// Transient fetch failures are retried under the configured backoff before
// the coordinator gets to degrade the session.
type OrgLoader struct {
	storage StorageInterface
	cfg     retry.Config

	tracer tracing.TracingInterface
	logger logging.LoggerInterface
}

var _ OrgLoaderInterface = (*OrgLoader)(nil)

func NewOrgLoader(storage StorageInterface, cfg retry.Config, tracer tracing.TracingInterface, logger logging.LoggerInterface) *OrgLoader {
	return &OrgLoader{
		storage: storage,
		cfg:     cfg,
		tracer:  tracer,
		logger:  logger,
	}
}

func (l *OrgLoader) Load(ctx context.Context, orgID *string) (*types.Organization, error) {
	if orgID == nil || *orgID == "" {
		return nil, nil
	}

	ctx, span := l.tracer.Start(ctx, "workspace.OrgLoader.Load")
	defer span.End()

	var org *types.Organization
	err := retry.Do(ctx, l.cfg, storage.IsRetryable, func(callCtx context.Context) error {
		o, err := l.storage.GetOrganizationByID(callCtx, *orgID)
		org = o
		return err
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			l.logger.Warnf("profile references organization %s which does not exist", *orgID)
			return nil, nil
		}
		return nil, err
	}

	return org, nil
}
