// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package invitation

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/canonical/workspace-service/internal/logging"
	"github.com/canonical/workspace-service/internal/monitoring"
	"github.com/canonical/workspace-service/internal/storage"
	"github.com/canonical/workspace-service/internal/tracing"
	"github.com/canonical/workspace-service/internal/types"
)

//go:generate mockgen -build_flags=--mod=mod -package invitation -destination ./mock_logger.go -source=../../internal/logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package invitation -destination ./mock_monitor.go -source=../../internal/monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package invitation -destination ./mock_tracer.go -source=../../internal/tracing/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package invitation -destination ./mock_interfaces.go -source=./interfaces.go

const testLifetime = 168 * time.Hour

func newTestService(storage StorageInterface, kratos KratosClientInterface) *Service {
	return NewService(
		storage,
		kratos,
		testLifetime,
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor(),
		logging.NewNoopLogger(),
	)
}

func TestIssueCreatesInvitation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockStorage.EXPECT().CreateInvitation(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, inv *types.Invitation) (*types.Invitation, error) {
			if inv.Token == "" {
				t.Error("expected a generated token")
			}
			if inv.OrgID != "org-1" || inv.Email != "new@example.com" || inv.Role != types.RoleAgent {
				t.Errorf("unexpected invitation %+v", inv)
			}
			if inv.InviterID != "owner-1" {
				t.Errorf("expected inviter recorded, got %q", inv.InviterID)
			}
			want := time.Now().UTC().Add(testLifetime)
			if inv.ExpiresAt.Before(want.Add(-time.Minute)) || inv.ExpiresAt.After(want.Add(time.Minute)) {
				t.Errorf("expected expiry around %v, got %v", want, inv.ExpiresAt)
			}
			return inv, nil
		})

	mockKratos := NewMockKratosClientInterface(ctrl)
	mockKratos.EXPECT().GetIdentityIDByEmail(gomock.Any(), "new@example.com").Return("id-9", nil)
	mockKratos.EXPECT().CreateRecoveryLink(gomock.Any(), "id-9", testLifetime.String()).Return("https://recover", "code", nil)

	s := newTestService(mockStorage, mockKratos)

	inv, link, err := s.Issue(context.Background(), "org-1", "owner-1", "new@example.com", types.RoleAgent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Status != types.InvitationStatusPending {
		t.Errorf("expected pending status, got %s", inv.Status)
	}
	if link != "https://recover" {
		t.Errorf("expected recovery link, got %q", link)
	}
}

func TestIssueProvisionsMissingIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockStorage.EXPECT().CreateInvitation(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, inv *types.Invitation) (*types.Invitation, error) { return inv, nil })

	mockKratos := NewMockKratosClientInterface(ctrl)
	mockKratos.EXPECT().GetIdentityIDByEmail(gomock.Any(), "new@example.com").Return("", nil)
	mockKratos.EXPECT().CreateIdentity(gomock.Any(), "new@example.com").Return("id-new", nil)
	mockKratos.EXPECT().CreateRecoveryLink(gomock.Any(), "id-new", gomock.Any()).Return("https://recover", "code", nil)

	s := newTestService(mockStorage, mockKratos)

	if _, _, err := s.Issue(context.Background(), "org-1", "owner-1", "new@example.com", types.RoleClient); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestIssueRejectsInvalidEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := newTestService(NewMockStorageInterface(ctrl), NewMockKratosClientInterface(ctrl))

	_, _, err := s.Issue(context.Background(), "org-1", "owner-1", "not-an-email", types.RoleAgent)
	if !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestIssueRejectsNonInvitableRoles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := newTestService(NewMockStorageInterface(ctrl), NewMockKratosClientInterface(ctrl))

	for _, role := range []types.Role{types.RoleOrgOwner, types.RoleSystemAdmin, types.Role("bogus")} {
		if _, _, err := s.Issue(context.Background(), "org-1", "owner-1", "a@example.com", role); !errors.Is(err, ErrRoleNotInvitable) {
			t.Errorf("expected ErrRoleNotInvitable for %s, got %v", role, err)
		}
	}
}

func TestIssueSurvivesRecoveryLinkFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockStorage.EXPECT().CreateInvitation(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, inv *types.Invitation) (*types.Invitation, error) { return inv, nil })

	mockKratos := NewMockKratosClientInterface(ctrl)
	mockKratos.EXPECT().GetIdentityIDByEmail(gomock.Any(), gomock.Any()).Return("id-9", nil)
	mockKratos.EXPECT().CreateRecoveryLink(gomock.Any(), gomock.Any(), gomock.Any()).Return("", "", errors.New("kratos down"))

	s := newTestService(mockStorage, mockKratos)

	inv, link, err := s.Issue(context.Background(), "org-1", "owner-1", "a@example.com", types.RoleAgent)
	if err != nil {
		t.Fatalf("invitation must survive link failure, got %v", err)
	}
	if inv == nil || link != "" {
		t.Errorf("expected invitation without link, got %+v %q", inv, link)
	}
}

func TestListDerivesStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Now().UTC()
	used := now.Add(-time.Hour)

	mockStorage := NewMockStorageInterface(ctrl)
	mockStorage.EXPECT().ListInvitationsByOrgID(gomock.Any(), "org-1").Return([]*types.Invitation{
		{Token: "t1", ExpiresAt: now.Add(time.Hour), UsedAt: &used},
		{Token: "t2", ExpiresAt: now.Add(-time.Hour)},
		{Token: "t3", ExpiresAt: now.Add(time.Hour)},
	}, nil)

	s := newTestService(mockStorage, NewMockKratosClientInterface(ctrl))

	invitations, err := s.List(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []types.InvitationStatus{
		types.InvitationStatusAccepted,
		types.InvitationStatusExpired,
		types.InvitationStatusPending,
	}
	for i, inv := range invitations {
		if inv.Status != expected[i] {
			t.Errorf("invitation %s: expected status %s, got %s", inv.Token, expected[i], inv.Status)
		}
	}
}

func TestRedeemAuditsSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockStorage.EXPECT().RedeemInvitation(gomock.Any(), "tok", "id-1").Return("org-1", types.RoleAgent, nil)

	mockLogger := NewMockLoggerInterface(ctrl)
	mockSecurity := NewMockSecurityLoggerInterface(ctrl)
	mockLogger.EXPECT().Security().Return(mockSecurity)
	mockSecurity.EXPECT().InvitationRedeemed("id-1", "org-1")

	s := NewService(
		mockStorage,
		NewMockKratosClientInterface(ctrl),
		testLifetime,
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor(),
		mockLogger,
	)

	orgID, role, err := s.Redeem(context.Background(), "tok", "id-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orgID != "org-1" || role != types.RoleAgent {
		t.Errorf("unexpected redemption result %s %s", orgID, role)
	}
}

func TestRedeemPropagatesFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	for _, sentinel := range []error{storage.ErrNotFound, storage.ErrInvitationUsed, storage.ErrInvitationExpired} {
		mockStorage := NewMockStorageInterface(ctrl)
		mockStorage.EXPECT().RedeemInvitation(gomock.Any(), "tok", "id-1").Return("", types.Role(""), sentinel)

		s := newTestService(mockStorage, NewMockKratosClientInterface(ctrl))

		if _, _, err := s.Redeem(context.Background(), "tok", "id-1"); !errors.Is(err, sentinel) {
			t.Errorf("expected %v, got %v", sentinel, err)
		}
	}
}

func TestNewTokenIsUnguessable(t *testing.T) {
	a, err := newToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := newToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(a) < 40 {
		t.Errorf("expected at least 40 encoded characters, got %d", len(a))
	}
	if a == b {
		t.Error("expected distinct tokens")
	}
}
