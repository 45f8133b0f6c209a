// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package workspace

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/canonical/workspace-service/internal/logging"
	"github.com/canonical/workspace-service/internal/retry"
	"github.com/canonical/workspace-service/internal/storage"
	"github.com/canonical/workspace-service/internal/tracing"
	"github.com/canonical/workspace-service/internal/types"
)

func newTestOrgLoader(storage StorageInterface) *OrgLoader {
	cfg := retry.Config{
		MaxAttempts: 2,
		BaseDelay:   time.Millisecond,
		CallTimeout: 100 * time.Millisecond,
	}
	return NewOrgLoader(storage, cfg, tracing.NewNoopTracer(), logging.NewNoopLogger())
}

func TestLoadNilReferenceReturnsImmediately(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No expectations: a nil reference must not touch storage.
	mockStorage := NewMockStorageInterface(ctrl)
	l := newTestOrgLoader(mockStorage)

	org, err := l.Load(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org != nil {
		t.Errorf("expected nil organization, got %+v", org)
	}
}

func TestLoadEmptyReferenceReturnsImmediately(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	l := newTestOrgLoader(mockStorage)

	empty := ""
	org, err := l.Load(context.Background(), &empty)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org != nil {
		t.Errorf("expected nil organization, got %+v", org)
	}
}

func TestLoadResolvesOrganization(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockStorage.EXPECT().GetOrganizationByID(gomock.Any(), "org-1").Return(&types.Organization{ID: "org-1", Name: "Acme"}, nil)

	l := newTestOrgLoader(mockStorage)

	orgID := "org-1"
	org, err := l.Load(context.Background(), &orgID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org == nil || org.Name != "Acme" {
		t.Errorf("expected resolved organization, got %+v", org)
	}
}

func TestLoadDanglingReferenceIsAbsence(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockStorage.EXPECT().GetOrganizationByID(gomock.Any(), "org-404").Return(nil, storage.ErrNotFound)

	l := newTestOrgLoader(mockStorage)

	orgID := "org-404"
	org, err := l.Load(context.Background(), &orgID)
	if err != nil {
		t.Fatalf("expected dangling reference to be absence, got %v", err)
	}
	if org != nil {
		t.Errorf("expected nil organization, got %+v", org)
	}
}

func TestLoadPropagatesOtherErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	boom := errors.New("connection refused")
	mockStorage := NewMockStorageInterface(ctrl)
	mockStorage.EXPECT().GetOrganizationByID(gomock.Any(), "org-1").Return(nil, boom)

	l := newTestOrgLoader(mockStorage)

	orgID := "org-1"
	_, err := l.Load(context.Background(), &orgID)
	if !errors.Is(err, boom) {
		t.Fatalf("expected error propagated, got %v", err)
	}
}

func TestLoadRetriesTransientFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	gomock.InOrder(
		mockStorage.EXPECT().GetOrganizationByID(gomock.Any(), "org-1").Return(nil, fmt.Errorf("get organization: %w", context.DeadlineExceeded)),
		mockStorage.EXPECT().GetOrganizationByID(gomock.Any(), "org-1").Return(&types.Organization{ID: "org-1", Name: "Acme"}, nil),
	)

	l := newTestOrgLoader(mockStorage)

	orgID := "org-1"
	org, err := l.Load(context.Background(), &orgID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org == nil || org.Name != "Acme" {
		t.Errorf("expected resolved organization, got %+v", org)
	}
}

func TestLoadExhaustsTransientAttempts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockStorage.EXPECT().GetOrganizationByID(gomock.Any(), "org-1").Return(nil, context.DeadlineExceeded).Times(2)

	l := newTestOrgLoader(mockStorage)

	orgID := "org-1"
	_, err := l.Load(context.Background(), &orgID)
	if !errors.Is(err, retry.ErrMaxAttemptsExceeded) {
		t.Fatalf("expected attempts exhausted, got %v", err)
	}
}
