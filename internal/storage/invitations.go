// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/canonical/workspace-service/internal/types"
)

func (s *Storage) CreateInvitation(ctx context.Context, inv *types.Invitation) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "storage.CreateInvitation")
	defer span.End()

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation ID: %w", err)
	}

	var created types.Invitation
	err = s.db.Statement(ctx).
		Insert("invitations").
		Columns("id", "token", "org_id", "email", "role", "inviter_id", "expires_at").
		Values(id.String(), inv.Token, inv.OrgID, inv.Email, inv.Role, inv.InviterID, inv.ExpiresAt).
		Suffix("RETURNING id, token, org_id, email, role, inviter_id, created_at, expires_at, used_at").
		QueryRowContext(ctx).
		Scan(&created.ID, &created.Token, &created.OrgID, &created.Email, &created.Role, &created.InviterID, &created.CreatedAt, &created.ExpiresAt, &created.UsedAt)

	if err != nil {
		if IsDuplicateKeyError(err) {
			return nil, WrapDuplicateKeyError(err, "invitation token")
		}
		if IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("invitation organization %s: %w", inv.OrgID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to insert invitation: %w", err)
	}

	return &created, nil
}

func (s *Storage) GetInvitationByToken(ctx context.Context, token string) (*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "storage.GetInvitationByToken")
	defer span.End()

	var inv types.Invitation
	err := s.db.Statement(ctx).
		Select("id", "token", "org_id", "email", "role", "inviter_id", "created_at", "expires_at", "used_at").
		From("invitations").
		Where(sq.Eq{"token": token}).
		QueryRowContext(ctx).
		Scan(&inv.ID, &inv.Token, &inv.OrgID, &inv.Email, &inv.Role, &inv.InviterID, &inv.CreatedAt, &inv.ExpiresAt, &inv.UsedAt)

	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}

	return &inv, nil
}

func (s *Storage) ListInvitationsByOrgID(ctx context.Context, orgID string) ([]*types.Invitation, error) {
	ctx, span := s.tracer.Start(ctx, "storage.ListInvitationsByOrgID")
	defer span.End()

	rows, err := s.db.Statement(ctx).
		Select("id", "token", "org_id", "email", "role", "inviter_id", "created_at", "expires_at", "used_at").
		From("invitations").
		Where(sq.Eq{"org_id": orgID}).
		OrderBy("created_at DESC").
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*types.Invitation
	for rows.Next() {
		var inv types.Invitation
		if err := rows.Scan(&inv.ID, &inv.Token, &inv.OrgID, &inv.Email, &inv.Role, &inv.InviterID, &inv.CreatedAt, &inv.ExpiresAt, &inv.UsedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, &inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return invitations, nil
}

// RedeemInvitation marks the invitation used and binds the redeeming
// profile to its organization and role in one transaction. The conditional
// update makes concurrent redeemers race on the row: exactly one matches,
// the loser reads back the row to learn why it lost.
func (s *Storage) RedeemInvitation(ctx context.Context, token, identityID string) (string, types.Role, error) {
	ctx, span := s.tracer.Start(ctx, "storage.RedeemInvitation")
	defer span.End()

	var orgID string
	var role types.Role

	err := s.db.WithTx(ctx, func(txCtx context.Context) error {
		now := time.Now().UTC()

		err := s.db.Statement(txCtx).
			Update("invitations").
			Set("used_at", now).
			Where(sq.Eq{"token": token}).
			Where("used_at IS NULL").
			Where(sq.Gt{"expires_at": now}).
			Suffix("RETURNING org_id, role").
			QueryRowContext(txCtx).
			Scan(&orgID, &role)

		if err != nil {
			if !isNoRows(err) {
				return fmt.Errorf("failed to redeem invitation: %w", err)
			}
			return s.redeemFailureReason(txCtx, token, now)
		}

		res, err := s.db.Statement(txCtx).
			Update("profiles").
			Set("org_id", orgID).
			Set("role", role).
			Where(sq.Eq{"id": identityID}).
			ExecContext(txCtx)
		if err != nil {
			return fmt.Errorf("failed to bind profile to organization: %w", err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("profile %s: %w", identityID, ErrNotFound)
		}

		return nil
	})

	if err != nil {
		return "", "", err
	}

	return orgID, role, nil
}

// redeemFailureReason runs inside the redemption transaction to translate
// a zero-row conditional update into a precise failure. Expiry wins over
// used so the expiry check never depends on used_at.
func (s *Storage) redeemFailureReason(txCtx context.Context, token string, now time.Time) error {
	var expiresAt time.Time
	var usedAt *time.Time

	err := s.db.Statement(txCtx).
		Select("expires_at", "used_at").
		From("invitations").
		Where(sq.Eq{"token": token}).
		QueryRowContext(txCtx).
		Scan(&expiresAt, &usedAt)

	if err != nil {
		if isNoRows(err) {
			return fmt.Errorf("invitation: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to inspect invitation: %w", err)
	}

	if now.After(expiresAt) {
		return ErrInvitationExpired
	}
	if usedAt != nil {
		return ErrInvitationUsed
	}

	// Row mutated between the conditional update and this read; treat as a
	// lost race.
	return ErrInvitationUsed
}
