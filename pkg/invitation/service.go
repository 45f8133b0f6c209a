// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package invitation

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/canonical/workspace-service/internal/logging"
	"github.com/canonical/workspace-service/internal/monitoring"
	"github.com/canonical/workspace-service/internal/tracing"
	"github.com/canonical/workspace-service/internal/types"
)

var (
	// ErrInvalidEmail marks an invite for a malformed address.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrRoleNotInvitable marks an invite for a role that cannot be granted
	// through an invitation.
	ErrRoleNotInvitable = errors.New("role is not invitable")
)

// tokenBytes sizes the invitation token; 32 random bytes keeps tokens
// unguessable.
const tokenBytes = 32

type Service struct {
	storage  StorageInterface
	kratos   KratosClientInterface
	lifetime time.Duration
	validate *validator.Validate

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

var _ ServiceInterface = (*Service)(nil)

func NewService(
	storage StorageInterface,
	kratos KratosClientInterface,
	lifetime time.Duration,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *Service {
	return &Service{
		storage:  storage,
		kratos:   kratos,
		lifetime: lifetime,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}
}

// Issue creates a single-use, time-bounded invitation binding the email to
// the organization and role, provisioning the identity when it does not
// exist yet. Returns the invitation and a first-login recovery link.
func (s *Service) Issue(ctx context.Context, orgID, inviterID, email string, role types.Role) (*types.Invitation, string, error) {
	ctx, span := s.tracer.Start(ctx, "invitation.Service.Issue")
	defer span.End()

	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrInvalidEmail, email)
	}
	if !slices.Contains(types.InvitableRoles(), role) {
		return nil, "", fmt.Errorf("%w: %s", ErrRoleNotInvitable, role)
	}

	token, err := newToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate invitation token: %w", err)
	}

	created, err := s.storage.CreateInvitation(ctx, &types.Invitation{
		Token:     token,
		OrgID:     orgID,
		Email:     email,
		Role:      role,
		InviterID: inviterID,
		ExpiresAt: time.Now().UTC().Add(s.lifetime),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to persist invitation: %w", err)
	}
	created.Status = created.DeriveStatus(time.Now().UTC())

	identityID, err := s.kratos.GetIdentityIDByEmail(ctx, email)
	if err != nil {
		s.logger.Errorf("failed to check identity for %s: %v", email, err)
		return created, "", nil
	}
	if identityID == "" {
		s.logger.Infof("creating identity for invited email %s", email)
		identityID, err = s.kratos.CreateIdentity(ctx, email)
		if err != nil {
			s.logger.Errorf("failed to provision identity for %s: %v", email, err)
			return created, "", nil
		}
	}

	// The invitation stays valid even when the link cannot be minted; the
	// invitee can still redeem the token after signing in on their own.
	link, _, err := s.kratos.CreateRecoveryLink(ctx, identityID, s.lifetime.String())
	if err != nil {
		s.logger.Errorf("failed to create recovery link for %s: %v", email, err)
		return created, "", nil
	}

	return created, link, nil
}

// List returns an organization's invitations, newest first, each annotated
// with its derived status.
func (s *Service) List(ctx context.Context, orgID string) ([]*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "invitation.Service.List")
	defer span.End()

	invitations, err := s.storage.ListInvitationsByOrgID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	now := time.Now().UTC()
	for _, inv := range invitations {
		inv.Status = inv.DeriveStatus(now)
	}

	return invitations, nil
}

// Redeem marks the token used and binds the redeeming identity's profile to
// the invitation's organization and role, atomically.
func (s *Service) Redeem(ctx context.Context, token, identityID string) (string, types.Role, error) {
	ctx, span := s.tracer.Start(ctx, "invitation.Service.Redeem")
	defer span.End()

	orgID, role, err := s.storage.RedeemInvitation(ctx, token, identityID)
	if err != nil {
		return "", "", err
	}

	s.logger.Security().InvitationRedeemed(identityID, orgID)
	return orgID, role, nil
}

func newToken() (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
