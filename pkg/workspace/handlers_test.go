// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/canonical/workspace-service/internal/logging"
	"github.com/canonical/workspace-service/internal/monitoring"
	"github.com/canonical/workspace-service/internal/storage"
	"github.com/canonical/workspace-service/internal/tracing"
	"github.com/canonical/workspace-service/internal/types"
	"github.com/canonical/workspace-service/pkg/authentication"
)

func newTestAPI(manager ManagerInterface, storage StorageInterface) *API {
	return NewAPI(
		manager,
		storage,
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor(),
		logging.NewNoopLogger(),
	)
}

// readyCoordinator builds a coordinator already resolved to Ready for the
// given profile.
func readyCoordinator(t *testing.T, ctrl *gomock.Controller, identity *types.Identity, profile *types.Profile) *Coordinator {
	t.Helper()

	mockReconciler := NewMockReconcilerInterface(ctrl)
	mockReconciler.EXPECT().Reconcile(gomock.Any(), identity).Return(profile, nil).AnyTimes()
	mockOrgs := NewMockOrgLoaderInterface(ctrl)
	mockOrgs.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	c := newTestCoordinator(mockReconciler, mockOrgs)
	c.SignedIn(context.Background(), identity)
	waitForPhase(t, c, PhaseReady)
	return c
}

func authedRequest(method, target string, body *bytes.Buffer, userID string) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}
	return req.WithContext(authentication.WithUserID(req.Context(), userID))
}

func TestGetWorkspaceUnauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := newTestAPI(NewMockManagerInterface(ctrl), NewMockStorageInterface(ctrl))
	mux := chi.NewMux()
	api.RegisterEndpoints(mux)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v0/workspace", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

func TestGetWorkspaceReturnsState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	identity := &types.Identity{ID: "u1"}
	profile := &types.Profile{ID: "u1", Role: types.RoleOrgOwner, Currency: "USD"}
	coordinator := readyCoordinator(t, ctrl, identity, profile)

	mockManager := NewMockManagerInterface(ctrl)
	mockManager.EXPECT().Ensure(gomock.Any(), "u1").Return(coordinator, nil)

	api := newTestAPI(mockManager, NewMockStorageInterface(ctrl))
	mux := chi.NewMux()
	api.RegisterEndpoints(mux)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, authedRequest(http.MethodGet, "/api/v0/workspace", nil, "u1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var state State
	if err := json.Unmarshal(rr.Body.Bytes(), &state); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if state.Phase != PhaseReady || state.Profile == nil || state.Profile.ID != "u1" {
		t.Errorf("unexpected state %+v", state)
	}
}

func TestRefreshWorkspaceAccepted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	identity := &types.Identity{ID: "u1"}
	profile := &types.Profile{ID: "u1", Role: types.RoleOrgOwner, Currency: "USD"}
	coordinator := readyCoordinator(t, ctrl, identity, profile)

	mockManager := NewMockManagerInterface(ctrl)
	mockManager.EXPECT().Ensure(gomock.Any(), "u1").Return(coordinator, nil)

	api := newTestAPI(mockManager, NewMockStorageInterface(ctrl))
	mux := chi.NewMux()
	api.RegisterEndpoints(mux)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, authedRequest(http.MethodPost, "/api/v0/workspace/refresh", nil, "u1"))

	if rr.Code != http.StatusAccepted {
		t.Errorf("expected 202, got %d", rr.Code)
	}
}

func TestAllowedRejectsUnknownRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := newTestAPI(NewMockManagerInterface(ctrl), NewMockStorageInterface(ctrl))
	mux := chi.NewMux()
	api.RegisterEndpoints(mux)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, authedRequest(http.MethodGet, "/api/v0/workspace/allowed?role=superuser", nil, "u1"))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestAllowedEvaluatesPolicy(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	identity := &types.Identity{ID: "u1"}
	profile := &types.Profile{ID: "u1", Role: types.RoleAgent, Currency: "USD"}
	coordinator := readyCoordinator(t, ctrl, identity, profile)

	mockManager := NewMockManagerInterface(ctrl)
	mockManager.EXPECT().Ensure(gomock.Any(), "u1").Return(coordinator, nil).Times(2)

	api := newTestAPI(mockManager, NewMockStorageInterface(ctrl))
	mux := chi.NewMux()
	api.RegisterEndpoints(mux)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, authedRequest(http.MethodGet, "/api/v0/workspace/allowed?role=agent&role=tour_operator", nil, "u1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string]bool
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !body["allowed"] {
		t.Error("expected agent to be allowed")
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, authedRequest(http.MethodGet, "/api/v0/workspace/allowed?role=org_owner", nil, "u1"))
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["allowed"] {
		t.Error("expected agent to be denied org_owner actions")
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := newTestAPI(NewMockManagerInterface(ctrl), NewMockStorageInterface(ctrl))
	mux := chi.NewMux()
	api.RegisterEndpoints(mux)

	rr := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"currency": "not-a-currency"}`)
	mux.ServeHTTP(rr, authedRequest(http.MethodPatch, "/api/v0/profile", body, "u1"))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestUpdateProfileEmptyBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := newTestAPI(NewMockManagerInterface(ctrl), NewMockStorageInterface(ctrl))
	mux := chi.NewMux()
	api.RegisterEndpoints(mux)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, authedRequest(http.MethodPatch, "/api/v0/profile", bytes.NewBufferString(`{}`), "u1"))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty update, got %d", rr.Code)
	}
}

func TestUpdateProfileSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockStorage.EXPECT().UpdateProfile(gomock.Any(), gomock.Any(), []string{"display_name", "currency"}).DoAndReturn(
		func(_ context.Context, p *types.Profile, _ []string) error {
			if p.ID != "u1" || p.DisplayName != "Ada" || p.Currency != "EUR" {
				t.Errorf("unexpected update %+v", p)
			}
			return nil
		})
	mockStorage.EXPECT().GetProfileByID(gomock.Any(), "u1").Return(&types.Profile{
		ID: "u1", DisplayName: "Ada", Currency: "EUR", Role: types.RoleAgent,
	}, nil)

	mockManager := NewMockManagerInterface(ctrl)
	mockManager.EXPECT().Get("u1").Return(nil, false)

	api := newTestAPI(mockManager, mockStorage)
	mux := chi.NewMux()
	api.RegisterEndpoints(mux)

	rr := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"display_name": "Ada", "currency": "EUR"}`)
	mux.ServeHTTP(rr, authedRequest(http.MethodPatch, "/api/v0/profile", body, "u1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var profile types.Profile
	if err := json.Unmarshal(rr.Body.Bytes(), &profile); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if profile.DisplayName != "Ada" || profile.Currency != "EUR" {
		t.Errorf("unexpected profile %+v", profile)
	}
}

func TestUpdateProfileNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := NewMockStorageInterface(ctrl)
	mockStorage.EXPECT().UpdateProfile(gomock.Any(), gomock.Any(), gomock.Any()).Return(storage.ErrNotFound)

	api := newTestAPI(NewMockManagerInterface(ctrl), mockStorage)
	mux := chi.NewMux()
	api.RegisterEndpoints(mux)

	rr := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"display_name": "Ada"}`)
	mux.ServeHTTP(rr, authedRequest(http.MethodPatch, "/api/v0/profile", body, "u1"))

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}
