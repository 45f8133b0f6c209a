// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/canonical/workspace-service/internal/logging"
	"github.com/canonical/workspace-service/internal/monitoring"
	"github.com/canonical/workspace-service/internal/storage"
	"github.com/canonical/workspace-service/internal/tracing"
	"github.com/canonical/workspace-service/internal/types"
	"github.com/canonical/workspace-service/pkg/authentication"
)

type API struct {
	manager  ManagerInterface
	storage  StorageInterface
	validate *validator.Validate

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewAPI(
	manager ManagerInterface,
	storage StorageInterface,
	tracer tracing.TracingInterface,
	monitor monitoring.MonitorInterface,
	logger logging.LoggerInterface,
) *API {
	return &API{
		manager:  manager,
		storage:  storage,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Get("/api/v0/workspace", a.getWorkspace)
	mux.Post("/api/v0/workspace/refresh", a.refreshWorkspace)
	mux.Get("/api/v0/workspace/allowed", a.allowed)
	mux.Patch("/api/v0/profile", a.updateProfile)
}

func (a *API) getWorkspace(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "workspace.API.getWorkspace")
	defer span.End()

	userID, ok := authentication.GetUserID(ctx)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	coordinator, err := a.manager.Ensure(ctx, userID)
	if err != nil {
		a.logger.Errorf("failed to ensure workspace for %s: %v", userID, err)
		http.Error(w, "failed to resolve workspace", http.StatusInternalServerError)
		return
	}

	a.writeJSON(w, http.StatusOK, coordinator.State())
}

func (a *API) refreshWorkspace(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "workspace.API.refreshWorkspace")
	defer span.End()

	userID, ok := authentication.GetUserID(ctx)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	coordinator, err := a.manager.Ensure(ctx, userID)
	if err != nil {
		a.logger.Errorf("failed to ensure workspace for %s: %v", userID, err)
		http.Error(w, "failed to resolve workspace", http.StatusInternalServerError)
		return
	}

	coordinator.Refresh(ctx)
	a.writeJSON(w, http.StatusAccepted, coordinator.State())
}

func (a *API) allowed(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "workspace.API.allowed")
	defer span.End()

	userID, ok := authentication.GetUserID(ctx)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var requiredRoles []types.Role
	for _, raw := range r.URL.Query()["role"] {
		role := types.Role(raw)
		if !role.IsValid() {
			http.Error(w, fmt.Sprintf("unknown role %q", raw), http.StatusBadRequest)
			return
		}
		requiredRoles = append(requiredRoles, role)
	}

	coordinator, err := a.manager.Ensure(ctx, userID)
	if err != nil {
		a.logger.Errorf("failed to ensure workspace for %s: %v", userID, err)
		http.Error(w, "failed to resolve workspace", http.StatusInternalServerError)
		return
	}

	allowed := coordinator.Allowed(requiredRoles)
	if !allowed {
		a.logger.Security().AuthzFailure(userID, "workspace_allowed")
	}

	a.writeJSON(w, http.StatusOK, map[string]bool{"allowed": allowed})
}

type updateProfileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=1,max=128"`
	Currency    *string `json:"currency" validate:"omitempty,iso4217"`
}

// updateProfile applies a partial update to the caller's own profile. Role
// and organization membership are deliberately not updatable here; those
// change only through invitation redemption.
func (a *API) updateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "workspace.API.updateProfile")
	defer span.End()

	userID, ok := authentication.GetUserID(ctx)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := a.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	update := &types.Profile{ID: userID}
	var paths []string
	if req.DisplayName != nil {
		update.DisplayName = *req.DisplayName
		paths = append(paths, "display_name")
	}
	if req.Currency != nil {
		update.Currency = *req.Currency
		paths = append(paths, "currency")
	}

	if len(paths) == 0 {
		http.Error(w, "no fields to update", http.StatusBadRequest)
		return
	}

	if err := a.storage.UpdateProfile(ctx, update, paths); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		a.logger.Errorf("failed to update profile %s: %v", userID, err)
		http.Error(w, "failed to update profile", http.StatusInternalServerError)
		return
	}

	profile, err := a.storage.GetProfileByID(ctx, userID)
	if err != nil {
		a.logger.Errorf("failed to read back profile %s: %v", userID, err)
		http.Error(w, "failed to read profile", http.StatusInternalServerError)
		return
	}

	// Keep the live workspace snapshot in sync with the new row.
	if coordinator, ok := a.manager.Get(userID); ok {
		coordinator.Refresh(ctx)
	}

	a.writeJSON(w, http.StatusOK, profile)
}

func (a *API) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.Errorf("failed to encode response: %v", err)
	}
}
