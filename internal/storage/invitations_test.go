// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/canonical/workspace-service/internal/db"
	"github.com/canonical/workspace-service/internal/logging"
	"github.com/canonical/workspace-service/internal/monitoring"
	"github.com/canonical/workspace-service/internal/tracing"
	"github.com/canonical/workspace-service/internal/types"
)

// scriptedRow answers one QueryRowContext call with canned column values or
// a canned error.
type scriptedRow struct {
	err  error
	vals []any
}

func (r scriptedRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.vals[i]))
	}
	return nil
}

type scriptedExec struct {
	affected int64
	err      error
}

// scriptedRunner hands out scripted results in call order and records every
// statement it saw, so tests can assert on the generated SQL.
type scriptedRunner struct {
	t       *testing.T
	rows    []scriptedRow
	execs   []scriptedExec
	queries []string
}

func (r *scriptedRunner) QueryRowContext(_ context.Context, query string, _ ...interface{}) sq.RowScanner {
	r.queries = append(r.queries, query)
	if len(r.rows) == 0 {
		r.t.Fatalf("unexpected query: %s", query)
	}
	row := r.rows[0]
	r.rows = r.rows[1:]
	return row
}

func (r *scriptedRunner) ExecContext(_ context.Context, query string, _ ...interface{}) (sql.Result, error) {
	r.queries = append(r.queries, query)
	if len(r.execs) == 0 {
		r.t.Fatalf("unexpected exec: %s", query)
	}
	e := r.execs[0]
	r.execs = r.execs[1:]
	if e.err != nil {
		return nil, e.err
	}
	return fakeResult(e.affected), nil
}

func (r *scriptedRunner) Exec(query string, args ...interface{}) (sql.Result, error) {
	return r.ExecContext(context.Background(), query, args...)
}

func (r *scriptedRunner) Query(string, ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("not implemented")
}

type fakeResult int64

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return int64(r), nil }

// fakeDBClient binds statements to the scripted runner and counts the
// transactions opened around them.
type fakeDBClient struct {
	runner *scriptedRunner
	txs    int
}

var _ db.DBClientInterface = (*fakeDBClient)(nil)

func (f *fakeDBClient) Statement(context.Context) sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).RunWith(f.runner)
}

func (f *fakeDBClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	f.txs++
	return fn(ctx)
}

func (f *fakeDBClient) Close() {}

func newScriptedStorage(t *testing.T, rows []scriptedRow, execs []scriptedExec) (*Storage, *fakeDBClient) {
	t.Helper()
	fake := &fakeDBClient{runner: &scriptedRunner{t: t, rows: rows, execs: execs}}
	s := NewStorage(fake, tracing.NewNoopTracer(), monitoring.NewNoopMonitor(), logging.NewNoopLogger())
	return s, fake
}

func TestRedeemInvitationBindsWinner(t *testing.T) {
	s, fake := newScriptedStorage(t,
		[]scriptedRow{{vals: []any{"org-1", types.RoleAgent}}},
		[]scriptedExec{{affected: 1}},
	)

	orgID, role, err := s.RedeemInvitation(context.Background(), "tok-1", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orgID != "org-1" || role != types.RoleAgent {
		t.Errorf("unexpected binding %s/%s", orgID, role)
	}
	if fake.txs != 1 {
		t.Errorf("expected mark and bind in one transaction, got %d", fake.txs)
	}

	// The conditional update is what makes exactly one concurrent redeemer
	// win: it must only match an unused, unexpired row.
	mark := fake.runner.queries[0]
	if !strings.Contains(mark, "used_at IS NULL") {
		t.Errorf("redemption does not guard against reuse: %s", mark)
	}
	if !strings.Contains(mark, "expires_at >") {
		t.Errorf("redemption does not guard against expiry: %s", mark)
	}
}

func TestRedeemInvitationLoserObservesOutcome(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	testCases := []struct {
		name      string
		expiresAt time.Time
		usedAt    *time.Time
		expected  error
	}{
		// Expiry wins regardless of used_at.
		{"expired and used", past, &past, ErrInvitationExpired},
		{"expired and unused", past, (*time.Time)(nil), ErrInvitationExpired},
		{"live and used", future, &past, ErrInvitationUsed},
		// The row no longer matches but looks redeemable: a concurrent
		// redeemer got there between the update and the read-back.
		{"live and unused", future, (*time.Time)(nil), ErrInvitationUsed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newScriptedStorage(t,
				[]scriptedRow{
					{err: sql.ErrNoRows},
					{vals: []any{tc.expiresAt, tc.usedAt}},
				},
				nil,
			)

			_, _, err := s.RedeemInvitation(context.Background(), "tok-1", "u1")
			if !errors.Is(err, tc.expected) {
				t.Errorf("expected %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestRedeemInvitationUnknownToken(t *testing.T) {
	s, _ := newScriptedStorage(t,
		[]scriptedRow{
			{err: sql.ErrNoRows},
			{err: sql.ErrNoRows},
		},
		nil,
	)

	_, _, err := s.RedeemInvitation(context.Background(), "tok-404", "u1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRedeemInvitationMissingProfile(t *testing.T) {
	s, _ := newScriptedStorage(t,
		[]scriptedRow{{vals: []any{"org-1", types.RoleAgent}}},
		[]scriptedExec{{affected: 0}},
	)

	_, _, err := s.RedeemInvitation(context.Background(), "tok-1", "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
