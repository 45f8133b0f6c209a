// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tracing

import (
	"context"
	"testing"

	"github.com/canonical/workspace-service/internal/logging"
)

func TestNewTracerDisabledRecordsNothing(t *testing.T) {
	tracer := NewTracer(NewNoopConfig())

	_, span := tracer.Start(context.Background(), "test.Span")
	defer span.End()

	if span.SpanContext().IsValid() {
		t.Error("expected a noop span")
	}
}

func TestNewTracerEnabledProducesRecordingSpans(t *testing.T) {
	cfg := NewConfig(true, "", "localhost:4318", logging.NewNoopLogger())
	tracer := NewTracer(cfg)

	_, span := tracer.Start(context.Background(), "test.Span")
	defer span.End()

	if !span.SpanContext().IsValid() {
		t.Error("expected a recording span")
	}
}
