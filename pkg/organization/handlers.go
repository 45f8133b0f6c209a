// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package organization

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/canonical/workspace-service/internal/logging"
	"github.com/canonical/workspace-service/internal/monitoring"
	"github.com/canonical/workspace-service/internal/storage"
	"github.com/canonical/workspace-service/internal/tracing"
	"github.com/canonical/workspace-service/internal/types"
	"github.com/canonical/workspace-service/pkg/access"
	"github.com/canonical/workspace-service/pkg/authentication"
)

type API struct {
	service   ServiceInterface
	workspace WorkspaceInterface
	validate  *validator.Validate

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewAPI(
	service ServiceInterface,
	workspace WorkspaceInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	return &API{
		service:   service,
		workspace: workspace,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		tracer:    tracer,
		monitor:   monitor,
		logger:    logger,
	}
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Post("/api/v0/organizations", a.create)
	mux.Get("/api/v0/organizations/{id}", a.get)
	mux.Patch("/api/v0/organizations/{id}", a.update)
	mux.Delete("/api/v0/organizations/{id}", a.remove)
}

type createOrganizationRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=128"`
	LogoURL      string `json:"logo_url" validate:"omitempty,url"`
	PrimaryColor string `json:"primary_color" validate:"omitempty,hexcolor"`
}

func (a *API) create(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "organization.API.create")
	defer span.End()

	userID, ok := authentication.GetUserID(ctx)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	profile, err := a.workspace.Profile(ctx, userID)
	if err != nil {
		a.logger.Errorf("failed to resolve profile for %s: %v", userID, err)
		http.Error(w, "failed to resolve profile", http.StatusInternalServerError)
		return
	}

	if !access.Allowed(profile, []types.Role{types.RoleOrgOwner}) {
		a.logger.Security().AuthzFailure(userID, "organization_create")
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	// Admins create unbound organizations; owners found their own and may
	// only belong to one.
	founderID := ""
	if profile.Role != types.RoleSystemAdmin {
		if profile.OrgID != nil && *profile.OrgID != "" {
			http.Error(w, "profile already belongs to an organization", http.StatusConflict)
			return
		}
		founderID = userID
	}

	var req createOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	org := &types.Organization{
		Name:         req.Name,
		LogoURL:      req.LogoURL,
		PrimaryColor: req.PrimaryColor,
	}

	created, err := a.service.Create(ctx, founderID, org)
	if err != nil {
		a.logger.Errorf("failed to create organization: %v", err)
		http.Error(w, "failed to create organization", http.StatusInternalServerError)
		return
	}

	if founderID != "" {
		a.workspace.Refresh(ctx, founderID)
	}

	a.writeJSON(w, http.StatusCreated, created)
}

func (a *API) get(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "organization.API.get")
	defer span.End()

	userID, ok := authentication.GetUserID(ctx)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")

	profile, err := a.workspace.Profile(ctx, userID)
	if err != nil {
		a.logger.Errorf("failed to resolve profile for %s: %v", userID, err)
		http.Error(w, "failed to resolve profile", http.StatusInternalServerError)
		return
	}

	if !a.memberOrAdmin(profile, id) {
		a.logger.Security().AuthzFailure(userID, "organization_get")
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	org, err := a.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "organization not found", http.StatusNotFound)
			return
		}
		a.logger.Errorf("failed to get organization %s: %v", id, err)
		http.Error(w, "failed to get organization", http.StatusInternalServerError)
		return
	}

	a.writeJSON(w, http.StatusOK, org)
}

type updateOrganizationRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=128"`
	LogoURL      *string `json:"logo_url" validate:"omitempty,url"`
	PrimaryColor *string `json:"primary_color" validate:"omitempty,hexcolor"`
}

func (a *API) update(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "organization.API.update")
	defer span.End()

	userID, ok := authentication.GetUserID(ctx)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")

	profile, err := a.workspace.Profile(ctx, userID)
	if err != nil {
		a.logger.Errorf("failed to resolve profile for %s: %v", userID, err)
		http.Error(w, "failed to resolve profile", http.StatusInternalServerError)
		return
	}

	if !a.ownerOrAdmin(profile, id) {
		a.logger.Security().AuthzFailure(userID, "organization_update")
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	var req updateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := a.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	org := &types.Organization{ID: id}
	var paths []string
	if req.Name != nil {
		org.Name = *req.Name
		paths = append(paths, "name")
	}
	if req.LogoURL != nil {
		org.LogoURL = *req.LogoURL
		paths = append(paths, "logo_url")
	}
	if req.PrimaryColor != nil {
		org.PrimaryColor = *req.PrimaryColor
		paths = append(paths, "primary_color")
	}
	if len(paths) == 0 {
		http.Error(w, "no fields to update", http.StatusBadRequest)
		return
	}

	updated, err := a.service.Update(ctx, org, paths)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "organization not found", http.StatusNotFound)
			return
		}
		a.logger.Errorf("failed to update organization %s: %v", id, err)
		http.Error(w, "failed to update organization", http.StatusInternalServerError)
		return
	}

	a.writeJSON(w, http.StatusOK, updated)
}

func (a *API) remove(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "organization.API.remove")
	defer span.End()

	userID, ok := authentication.GetUserID(ctx)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")

	profile, err := a.workspace.Profile(ctx, userID)
	if err != nil {
		a.logger.Errorf("failed to resolve profile for %s: %v", userID, err)
		http.Error(w, "failed to resolve profile", http.StatusInternalServerError)
		return
	}

	if !access.Allowed(profile, []types.Role{}) {
		a.logger.Security().AuthzFailure(userID, "organization_delete")
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if err := a.service.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "organization not found", http.StatusNotFound)
			return
		}
		a.logger.Errorf("failed to delete organization %s: %v", id, err)
		http.Error(w, "failed to delete organization", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// memberOrAdmin allows any member of the organization, or a system admin.
func (a *API) memberOrAdmin(profile *types.Profile, orgID string) bool {
	if profile == nil {
		return false
	}
	if profile.Role == types.RoleSystemAdmin {
		return true
	}
	return profile.OrgID != nil && *profile.OrgID == orgID
}

// ownerOrAdmin allows the owner of this organization, or a system admin.
func (a *API) ownerOrAdmin(profile *types.Profile, orgID string) bool {
	if !a.memberOrAdmin(profile, orgID) {
		return false
	}
	return access.Allowed(profile, []types.Role{types.RoleOrgOwner})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.Errorf("failed to encode response: %v", err)
	}
}
