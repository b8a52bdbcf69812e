// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"pii-redactor/internal/detector"
	"pii-redactor/internal/metrics"
	"pii-redactor/internal/observability"
	"pii-redactor/internal/parallel"
	"pii-redactor/internal/patterns"
	"pii-redactor/internal/redactors"
	"pii-redactor/internal/validation"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "pii-redactor/core"

// Processor drives the detection pipeline over a dataset.
// Registry nil means every built-in type. Workers <= 0 uses one worker per CPU.
type Processor struct {
	Registry *patterns.Registry
	Mode     redactors.ReplaceMode
	Workers  int
	Observer *observability.StandardObserver
	Metrics  *metrics.Metrics

	// TracerProvider receives the dataset and worker spans. Nil uses the
	// global provider.
	TracerProvider trace.TracerProvider

	// Progress, when set, is called after each record with the number of
	// records finished so far. It may be called from several goroutines.
	Progress func(done, total int)
}

// DatasetResult holds the per-record results in input order plus dataset totals
type DatasetResult struct {
	Records        []RecordResult
	Detections     []detector.Detection
	Counters       validation.Counters
	CellsScanned   int
	ValidationMode bool
}

// Metrics returns precision, recall and F1. The second value is false when the
// dataset carried no label column.
func (r *DatasetResult) Metrics() (validation.Metrics, bool) {
	if r == nil || !r.ValidationMode {
		return validation.Metrics{}, false
	}
	return r.Counters.Metrics(), true
}

// CountsByType returns the number of detections per type tag
func (r *DatasetResult) CountsByType() map[patterns.Type]int {
	counts := make(map[patterns.Type]int)
	if r == nil {
		return counts
	}
	for _, d := range r.Detections {
		counts[d.Type]++
	}
	return counts
}

// ProcessDataset processes records concurrently. Each worker owns a contiguous
// range of records and its own partial counters, which are summed once all
// workers finish. The context is checked between records; on cancellation the
// context error is returned and no partial result.
func (p *Processor) ProcessDataset(ctx context.Context, records []Record, validationMode bool) (*DatasetResult, error) {
	tracer := p.tracer()
	ctx, span := tracer.Start(ctx, "core.process_dataset", trace.WithAttributes(
		attribute.Int("records", len(records)),
		attribute.String("replace_mode", string(p.mode())),
		attribute.Bool("validation_mode", validationMode),
	))
	defer span.End()

	finishTiming := p.Observer.StartTiming("processor", "process_dataset", "")
	var finishStep func(bool, string)
	if p.Observer != nil && p.Observer.DebugObserver != nil {
		finishStep = p.Observer.DebugObserver.StartStep("processor", "process_dataset", fmt.Sprintf("%d records", len(records)))
	}
	start := time.Now()

	registry := p.Registry
	if registry == nil {
		registry = patterns.Default()
	}
	mode := p.mode()

	pool := parallel.NewWorkerPool(p.Workers, p.Observer)
	results := make([]RecordResult, len(records))
	partials := make([]validation.Counters, pool.Workers())
	var done atomic.Int64

	err := pool.Run(ctx, len(records), func(ctx context.Context, workerID int, r parallel.Range) error {
		_, rangeSpan := tracer.Start(ctx, "core.process_range", trace.WithAttributes(
			attribute.Int("worker", workerID),
			attribute.Int("start", r.Start),
			attribute.Int("end", r.End),
		))
		defer rangeSpan.End()

		for i := r.Start; i < r.End; i++ {
			if err := ctx.Err(); err != nil {
				rangeSpan.SetStatus(codes.Error, err.Error())
				return err
			}
			res := ProcessRecord(records[i], registry, mode)
			results[i] = res
			partials[workerID].Add(res.Delta)

			p.Metrics.ObserveRecord(res.CellsScanned)
			for _, d := range res.Detections {
				p.Metrics.IncrementDetection(string(d.Type))
			}
			if p.Progress != nil {
				p.Progress(int(done.Add(1)), len(records))
			}
		}
		return nil
	})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		if finishStep != nil {
			finishStep(false, err.Error())
		}
		return nil, fmt.Errorf("processing dataset: %w", err)
	}

	result := &DatasetResult{
		Records:        results,
		ValidationMode: validationMode,
	}
	for _, partial := range partials {
		result.Counters.Add(partial)
	}
	for _, res := range results {
		result.Detections = append(result.Detections, res.Detections...)
		result.CellsScanned += res.CellsScanned
	}

	if validationMode {
		p.Metrics.AddValidation(result.Counters)
	}
	p.Metrics.ObserveDatasetDuration(time.Since(start))

	span.SetAttributes(
		attribute.Int("detections", len(result.Detections)),
		attribute.Int("cells_scanned", result.CellsScanned),
	)
	finishTiming(true, map[string]interface{}{
		"records":    len(records),
		"detections": len(result.Detections),
		"workers":    pool.Workers(),
	})
	if finishStep != nil {
		finishStep(true, fmt.Sprintf("%d detections", len(result.Detections)))
	}
	return result, nil
}

func (p *Processor) tracer() trace.Tracer {
	if p.TracerProvider != nil {
		return p.TracerProvider.Tracer(tracerName)
	}
	return otel.Tracer(tracerName)
}

func (p *Processor) mode() redactors.ReplaceMode {
	if p.Mode == "" {
		return redactors.ReplaceOffsets
	}
	return p.Mode
}
