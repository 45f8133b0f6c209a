// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package organization

import (
	"bytes"
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

func newTestAPI(service ServiceInterface, workspace WorkspaceInterface) *API {
	return NewAPI(
		service,
		workspace,
		tracing.NewNoopTracer(),
		monitoring.NewNoopMonitor(),
		logging.NewNoopLogger(),
	)
}

func boundProfile(role types.Role, orgID string) *types.Profile {
	return &types.Profile{ID: "user-1", Role: role, OrgID: &orgID, Currency: "USD"}
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

func serve(api *API, req *http.Request) *httptest.ResponseRecorder {
	mux := chi.NewMux()
	api.RegisterEndpoints(mux)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestCreateUnauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := newTestAPI(NewMockServiceInterface(ctrl), NewMockWorkspaceInterface(ctrl))

	rr := serve(api, httptest.NewRequest(http.MethodPost, "/api/v0/organizations", bytes.NewBufferString(`{}`)))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

func TestCreateForbiddenForRegularRoles(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWorkspace := NewMockWorkspaceInterface(ctrl)
	mockWorkspace.EXPECT().Profile(gomock.Any(), "user-1").Return(&types.Profile{ID: "user-1", Role: types.RoleAgent}, nil)

	api := newTestAPI(NewMockServiceInterface(ctrl), mockWorkspace)

	body := bytes.NewBufferString(`{"name": "Acme"}`)
	rr := serve(api, authedRequest(http.MethodPost, "/api/v0/organizations", body, "user-1"))
	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rr.Code)
	}
}

func TestCreateConflictsWhenAlreadyBound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWorkspace := NewMockWorkspaceInterface(ctrl)
	mockWorkspace.EXPECT().Profile(gomock.Any(), "user-1").Return(boundProfile(types.RoleOrgOwner, "org-1"), nil)

	api := newTestAPI(NewMockServiceInterface(ctrl), mockWorkspace)

	body := bytes.NewBufferString(`{"name": "Acme"}`)
	rr := serve(api, authedRequest(http.MethodPost, "/api/v0/organizations", body, "user-1"))
	if rr.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rr.Code)
	}
}

func TestCreateBindsOwnerAndRefreshes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWorkspace := NewMockWorkspaceInterface(ctrl)
	mockWorkspace.EXPECT().Profile(gomock.Any(), "user-1").Return(&types.Profile{ID: "user-1", Role: types.RoleOrgOwner}, nil)
	mockWorkspace.EXPECT().Refresh(gomock.Any(), "user-1")

	mockService := NewMockServiceInterface(ctrl)
	mockService.EXPECT().Create(gomock.Any(), "user-1", gomock.Any()).Return(&types.Organization{ID: "org-1", Name: "Acme"}, nil)

	api := newTestAPI(mockService, mockWorkspace)

	body := bytes.NewBufferString(`{"name": "Acme"}`)
	rr := serve(api, authedRequest(http.MethodPost, "/api/v0/organizations", body, "user-1"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var org types.Organization
	if err := json.Unmarshal(rr.Body.Bytes(), &org); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if org.ID != "org-1" {
		t.Errorf("unexpected organization %+v", org)
	}
}

func TestCreateByAdminLeavesProfileUnbound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWorkspace := NewMockWorkspaceInterface(ctrl)
	mockWorkspace.EXPECT().Profile(gomock.Any(), "admin-1").Return(&types.Profile{ID: "admin-1", Role: types.RoleSystemAdmin}, nil)

	mockService := NewMockServiceInterface(ctrl)
	mockService.EXPECT().Create(gomock.Any(), "", gomock.Any()).Return(&types.Organization{ID: "org-1"}, nil)

	api := newTestAPI(mockService, mockWorkspace)

	body := bytes.NewBufferString(`{"name": "Acme"}`)
	rr := serve(api, authedRequest(http.MethodPost, "/api/v0/organizations", body, "admin-1"))
	if rr.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rr.Code)
	}
}

func TestCreateValidatesRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{}`},
		{"bad logo url", `{"name": "Acme", "logo_url": "not-a-url"}`},
		{"bad color", `{"name": "Acme", "primary_color": "reddish"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockWorkspace := NewMockWorkspaceInterface(ctrl)
			mockWorkspace.EXPECT().Profile(gomock.Any(), "user-1").Return(&types.Profile{ID: "user-1", Role: types.RoleOrgOwner}, nil)

			api := newTestAPI(NewMockServiceInterface(ctrl), mockWorkspace)

			rr := serve(api, authedRequest(http.MethodPost, "/api/v0/organizations", bytes.NewBufferString(tt.body), "user-1"))
			if rr.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rr.Code)
			}
		})
	}
}

func TestGetRequiresMembership(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWorkspace := NewMockWorkspaceInterface(ctrl)
	mockWorkspace.EXPECT().Profile(gomock.Any(), "user-1").Return(boundProfile(types.RoleAgent, "org-other"), nil)

	api := newTestAPI(NewMockServiceInterface(ctrl), mockWorkspace)

	rr := serve(api, authedRequest(http.MethodGet, "/api/v0/organizations/org-1", nil, "user-1"))
	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rr.Code)
	}
}

func TestGetAllowsMember(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWorkspace := NewMockWorkspaceInterface(ctrl)
	mockWorkspace.EXPECT().Profile(gomock.Any(), "user-1").Return(boundProfile(types.RoleAgent, "org-1"), nil)

	mockService := NewMockServiceInterface(ctrl)
	mockService.EXPECT().Get(gomock.Any(), "org-1").Return(&types.Organization{ID: "org-1", Name: "Acme"}, nil)

	api := newTestAPI(mockService, mockWorkspace)

	rr := serve(api, authedRequest(http.MethodGet, "/api/v0/organizations/org-1", nil, "user-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestGetAllowsAdminAcrossOrganizations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWorkspace := NewMockWorkspaceInterface(ctrl)
	mockWorkspace.EXPECT().Profile(gomock.Any(), "admin-1").Return(&types.Profile{ID: "admin-1", Role: types.RoleSystemAdmin}, nil)

	mockService := NewMockServiceInterface(ctrl)
	mockService.EXPECT().Get(gomock.Any(), "org-1").Return(&types.Organization{ID: "org-1"}, nil)

	api := newTestAPI(mockService, mockWorkspace)

	rr := serve(api, authedRequest(http.MethodGet, "/api/v0/organizations/org-1", nil, "admin-1"))
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
}

func TestGetNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWorkspace := NewMockWorkspaceInterface(ctrl)
	mockWorkspace.EXPECT().Profile(gomock.Any(), "user-1").Return(boundProfile(types.RoleAgent, "org-1"), nil)

	mockService := NewMockServiceInterface(ctrl)
	mockService.EXPECT().Get(gomock.Any(), "org-1").Return(nil, storage.ErrNotFound)

	api := newTestAPI(mockService, mockWorkspace)

	rr := serve(api, authedRequest(http.MethodGet, "/api/v0/organizations/org-1", nil, "user-1"))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestUpdateForbiddenForMembers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWorkspace := NewMockWorkspaceInterface(ctrl)
	mockWorkspace.EXPECT().Profile(gomock.Any(), "user-1").Return(boundProfile(types.RoleAgent, "org-1"), nil)

	api := newTestAPI(NewMockServiceInterface(ctrl), mockWorkspace)

	body := bytes.NewBufferString(`{"name": "Renamed"}`)
	rr := serve(api, authedRequest(http.MethodPatch, "/api/v0/organizations/org-1", body, "user-1"))
	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rr.Code)
	}
}

func TestUpdateBuildsPaths(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWorkspace := NewMockWorkspaceInterface(ctrl)
	mockWorkspace.EXPECT().Profile(gomock.Any(), "user-1").Return(boundProfile(types.RoleOrgOwner, "org-1"), nil)

	mockService := NewMockServiceInterface(ctrl)
	mockService.EXPECT().Update(gomock.Any(), gomock.Any(), []string{"name", "primary_color"}).Return(
		&types.Organization{ID: "org-1", Name: "Renamed", PrimaryColor: "#ff0000"}, nil)

	api := newTestAPI(mockService, mockWorkspace)

	body := bytes.NewBufferString(`{"name": "Renamed", "primary_color": "#ff0000"}`)
	rr := serve(api, authedRequest(http.MethodPatch, "/api/v0/organizations/org-1", body, "user-1"))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestUpdateEmptyBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWorkspace := NewMockWorkspaceInterface(ctrl)
	mockWorkspace.EXPECT().Profile(gomock.Any(), "user-1").Return(boundProfile(types.RoleOrgOwner, "org-1"), nil)

	api := newTestAPI(NewMockServiceInterface(ctrl), mockWorkspace)

	rr := serve(api, authedRequest(http.MethodPatch, "/api/v0/organizations/org-1", bytes.NewBufferString(`{}`), "user-1"))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestDeleteRequiresSystemAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWorkspace := NewMockWorkspaceInterface(ctrl)
	mockWorkspace.EXPECT().Profile(gomock.Any(), "user-1").Return(boundProfile(types.RoleOrgOwner, "org-1"), nil)

	api := newTestAPI(NewMockServiceInterface(ctrl), mockWorkspace)

	rr := serve(api, authedRequest(http.MethodDelete, "/api/v0/organizations/org-1", nil, "user-1"))
	if rr.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rr.Code)
	}
}

func TestDeleteByAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWorkspace := NewMockWorkspaceInterface(ctrl)
	mockWorkspace.EXPECT().Profile(gomock.Any(), "admin-1").Return(&types.Profile{ID: "admin-1", Role: types.RoleSystemAdmin}, nil)

	mockService := NewMockServiceInterface(ctrl)
	mockService.EXPECT().Delete(gomock.Any(), "org-1").Return(nil)

	api := newTestAPI(mockService, mockWorkspace)

	rr := serve(api, authedRequest(http.MethodDelete, "/api/v0/organizations/org-1", nil, "admin-1"))
	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rr.Code)
	}
}
