// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package tracing sets up the OpenTelemetry tracer provider for a run.
package tracing

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// ServiceName is recorded as service.name on every exported span
const ServiceName = "pii-redactor"

// Service owns the tracer provider. A nil Service falls back to the global
// provider and its Shutdown is a no-op.
type Service struct {
	provider *sdktrace.TracerProvider
}

// New creates a provider that exports every span as one JSON object per line
// to w. Spans are batched; Shutdown flushes them.
func New(w io.Writer, serviceVersion string) (*Service, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}
	return NewWithExporter(exporter, serviceVersion), nil
}

// NewWithExporter creates a provider around an existing exporter
func NewWithExporter(exporter sdktrace.SpanExporter, serviceVersion string) *Service {
	res := resource.NewSchemaless(
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", serviceVersion),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	return &Service{provider: provider}
}

// TracerProvider returns the provider spans should be started from
func (s *Service) TracerProvider() trace.TracerProvider {
	if s == nil {
		return otel.GetTracerProvider()
	}
	return s.provider
}

// Shutdown flushes pending spans and stops the exporter
func (s *Service) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	if err := s.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to flush traces: %w", err)
	}
	return nil
}
