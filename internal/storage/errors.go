// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors for storage operations.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrDuplicateKey      = errors.New("duplicate key violation")
	ErrPermissionDenied  = errors.New("permission denied by store policy")
	ErrInvitationUsed    = errors.New("invitation already used")
	ErrInvitationExpired = errors.New("invitation expired")
)

// PostgreSQL error codes
const (
	pgErrCodeUniqueViolation       = "23505"
	pgErrCodeForeignKeyViolation   = "23503"
	pgErrCodeInsufficientPrivilege = "42501"
	pgErrCodeQueryCanceled         = "57014"
	pgErrClassConnection           = "08"
)

// Kind is the semantic classification of a store error. Every retry and
// repair decision downstream keys off this, so the mapping lives here and
// nowhere else.
type Kind int

const (
	KindUnknown Kind = iota
	KindTransient
	KindPermissionDenied
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindPermissionDenied:
		return "permission_denied"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Classify maps a store error onto its semantic kind. It recognizes this
// package's sentinels as well as raw pgx/pgconn/net errors, so callers can
// classify results from any depth of wrapping.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, pgx.ErrNoRows), errors.Is(err, sql.ErrNoRows):
		return KindNotFound
	case errors.Is(err, ErrDuplicateKey):
		return KindConflict
	case errors.Is(err, ErrPermissionDenied):
		return KindPermissionDenied
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return KindTransient
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgErrCodeUniqueViolation:
			return KindConflict
		case pgErr.Code == pgErrCodeInsufficientPrivilege:
			return KindPermissionDenied
		case strings.Contains(pgErr.Message, "row-level security"),
			strings.Contains(pgErr.Message, "permission denied"):
			return KindPermissionDenied
		case pgErr.Code == pgErrCodeQueryCanceled:
			return KindTransient
		case strings.HasPrefix(pgErr.Code, pgErrClassConnection):
			return KindTransient
		}
		return KindUnknown
	}

	if pgconn.Timeout(err) {
		return KindTransient
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTransient
	}

	if strings.Contains(strings.ToLower(err.Error()), "permission denied") {
		return KindPermissionDenied
	}

	return KindUnknown
}

// IsRetryable reports whether the error is worth retrying with backoff.
func IsRetryable(err error) bool {
	return Classify(err) == KindTransient
}

// IsDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation.
func IsDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrCodeUniqueViolation
	}
	return false
}

// IsForeignKeyViolation checks if the error is a PostgreSQL foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrCodeForeignKeyViolation
	}
	return false
}

// WrapDuplicateKeyError wraps a duplicate key error with context about which constraint was violated.
func WrapDuplicateKeyError(err error, context string) error {
	if !IsDuplicateKeyError(err) {
		return err
	}
	return fmt.Errorf("%s: %w", context, ErrDuplicateKey)
}
