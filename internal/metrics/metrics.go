// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package metrics exposes Prometheus counters for a redaction run.
package metrics

import (
	"fmt"
	"time"

	"pii-redactor/internal/validation"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pii_redactor"

// Metrics holds the collectors for one run. Methods are safe on a nil receiver
// so callers can leave metrics disabled.
type Metrics struct {
	registry *prometheus.Registry

	RecordsProcessed   prometheus.Counter
	CellsScanned       prometheus.Counter
	Detections         *prometheus.CounterVec
	ValidationOutcomes *prometheus.CounterVec
	DatasetDuration    prometheus.Histogram
}

// New creates a Metrics instance registered on its own registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RecordsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_processed_total",
			Help:      "Total data rows processed",
		}),
		CellsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cells_scanned_total",
			Help:      "Total non-empty cells scanned for PII",
		}),
		Detections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detections_total",
			Help:      "Resolved PII detections by type",
		}, []string{"type"}),
		ValidationOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_outcomes_total",
			Help:      "Ground-truth validation outcomes by kind (tp, fp, fn)",
		}, []string{"outcome"}),
		DatasetDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_duration_seconds",
			Help:      "Duration of a full dataset pass",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
	m.registry.MustRegister(
		m.RecordsProcessed,
		m.CellsScanned,
		m.Detections,
		m.ValidationOutcomes,
		m.DatasetDuration,
	)
	return m
}

// Registry returns the gatherer holding this run's collectors
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRecord records one processed row
func (m *Metrics) ObserveRecord(cellsScanned int) {
	if m != nil {
		m.RecordsProcessed.Inc()
		m.CellsScanned.Add(float64(cellsScanned))
	}
}

// IncrementDetection records one resolved detection of the given type
func (m *Metrics) IncrementDetection(piiType string) {
	if m != nil {
		m.Detections.WithLabelValues(piiType).Inc()
	}
}

// AddValidation records a record's validation delta
func (m *Metrics) AddValidation(delta validation.Counters) {
	if m == nil {
		return
	}
	if delta.TP > 0 {
		m.ValidationOutcomes.WithLabelValues("tp").Add(float64(delta.TP))
	}
	if delta.FP > 0 {
		m.ValidationOutcomes.WithLabelValues("fp").Add(float64(delta.FP))
	}
	if delta.FN > 0 {
		m.ValidationOutcomes.WithLabelValues("fn").Add(float64(delta.FN))
	}
}

// ObserveDatasetDuration records the duration of a dataset pass
func (m *Metrics) ObserveDatasetDuration(d time.Duration) {
	if m != nil {
		m.DatasetDuration.Observe(d.Seconds())
	}
}

// WriteTextfile writes the current values in the Prometheus text format,
// suitable for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
