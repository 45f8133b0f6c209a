// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package invitation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

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
		tracer:    tracer,
		monitor:   monitor,
		logger:    logger,
	}
}

func (a *API) RegisterEndpoints(mux *chi.Mux) {
	mux.Post("/api/v0/invitations", a.issue)
	mux.Get("/api/v0/invitations", a.list)
	mux.Post("/api/v0/invitations/redeem", a.redeem)
}

type issueRequest struct {
	Email string     `json:"email"`
	Role  types.Role `json:"role"`
}

type issueResponse struct {
	Invitation *types.Invitation `json:"invitation"`
	Link       string            `json:"link,omitempty"`
}

func (a *API) issue(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "invitation.API.issue")
	defer span.End()

	userID, ok := authentication.GetUserID(ctx)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	_, orgID, ok := a.requireOrgOwner(ctx, w, userID, "invitation_issue")
	if !ok {
		return
	}

	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	inv, link, err := a.service.Issue(ctx, orgID, userID, req.Email, req.Role)
	if err != nil {
		if errors.Is(err, ErrInvalidEmail) || errors.Is(err, ErrRoleNotInvitable) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		a.logger.Errorf("failed to issue invitation: %v", err)
		http.Error(w, "failed to issue invitation", http.StatusInternalServerError)
		return
	}

	a.writeJSON(w, http.StatusCreated, issueResponse{Invitation: inv, Link: link})
}

func (a *API) list(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "invitation.API.list")
	defer span.End()

	userID, ok := authentication.GetUserID(ctx)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	_, orgID, ok := a.requireOrgOwner(ctx, w, userID, "invitation_list")
	if !ok {
		return
	}

	invitations, err := a.service.List(ctx, orgID)
	if err != nil {
		a.logger.Errorf("failed to list invitations: %v", err)
		http.Error(w, "failed to list invitations", http.StatusInternalServerError)
		return
	}

	a.writeJSON(w, http.StatusOK, invitations)
}

type redeemRequest struct {
	Token string `json:"token"`
}

type redeemResponse struct {
	OrgID string     `json:"org_id"`
	Role  types.Role `json:"role"`
}

func (a *API) redeem(w http.ResponseWriter, r *http.Request) {
	ctx, span := a.tracer.Start(r.Context(), "invitation.API.redeem")
	defer span.End()

	userID, ok := authentication.GetUserID(ctx)
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		http.Error(w, "invitation token is required", http.StatusBadRequest)
		return
	}

	orgID, role, err := a.service.Redeem(ctx, req.Token, userID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			http.Error(w, "invitation not found", http.StatusNotFound)
		case errors.Is(err, storage.ErrInvitationExpired):
			http.Error(w, "invitation expired", http.StatusGone)
		case errors.Is(err, storage.ErrInvitationUsed):
			http.Error(w, "invitation already used", http.StatusConflict)
		default:
			a.logger.Errorf("failed to redeem invitation: %v", err)
			http.Error(w, "failed to redeem invitation", http.StatusInternalServerError)
		}
		return
	}

	// The profile's organization binding changed; bring any live session up
	// to date.
	a.workspace.Refresh(ctx, userID)

	a.writeJSON(w, http.StatusOK, redeemResponse{OrgID: orgID, Role: role})
}

// requireOrgOwner resolves the caller's profile and enforces that it may
// manage invitations for its organization. Writes the error response itself
// and reports success via the returned flag.
func (a *API) requireOrgOwner(ctx context.Context, w http.ResponseWriter, userID, action string) (*types.Profile, string, bool) {
	profile, err := a.workspace.Profile(ctx, userID)
	if err != nil {
		a.logger.Errorf("failed to resolve profile for %s: %v", userID, err)
		http.Error(w, "failed to resolve profile", http.StatusInternalServerError)
		return nil, "", false
	}

	if !access.Allowed(profile, []types.Role{types.RoleOrgOwner}) {
		a.logger.Security().AuthzFailure(userID, action)
		http.Error(w, "forbidden", http.StatusForbidden)
		return nil, "", false
	}

	if profile.OrgID == nil || *profile.OrgID == "" {
		http.Error(w, "no organization", http.StatusConflict)
		return nil, "", false
	}

	return profile, *profile.OrgID, true
}

func (a *API) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.Errorf("failed to encode response: %v", err)
	}
}
