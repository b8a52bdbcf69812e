// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"runtime"

	"pii-redactor/internal/observability"

	"golang.org/x/sync/errgroup"
)

// Range is a half-open interval [Start, End) of work item indexes
type Range struct {
	Start int
	End   int
}

// Len returns the number of items in the range
func (r Range) Len() int {
	return r.End - r.Start
}

// WorkerPool fans a slice of independent work items out over a fixed number
// of goroutines. Each worker owns one contiguous range, so per-worker state
// (partial sums, buffers) never needs locking.
type WorkerPool struct {
	workers  int
	observer *observability.StandardObserver
}

// NewWorkerPool creates a pool. workers <= 0 selects runtime.NumCPU().
func NewWorkerPool(workers int, observer *observability.StandardObserver) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &WorkerPool{
		workers:  workers,
		observer: observer,
	}
}

// Workers returns the configured worker count
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// Partition splits n items into at most workers contiguous ranges whose sizes
// differ by at most one. It returns nil when n is zero.
func Partition(n, workers int) []Range {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	ranges := make([]Range, 0, workers)
	size, extra := n/workers, n%workers
	start := 0
	for i := 0; i < workers; i++ {
		end := start + size
		if i < extra {
			end++
		}
		ranges = append(ranges, Range{Start: start, End: end})
		start = end
	}
	return ranges
}

// Run partitions n items and calls fn once per range on its own goroutine.
// The first error cancels the context passed to the remaining workers and is
// returned after all workers exit.
func (wp *WorkerPool) Run(ctx context.Context, n int, fn func(ctx context.Context, workerID int, r Range) error) error {
	ranges := Partition(n, wp.workers)
	if len(ranges) == 0 {
		return ctx.Err()
	}

	g, ctx := errgroup.WithContext(ctx)
	for workerID, r := range ranges {
		g.Go(func() error {
			finishTiming := wp.observer.StartTiming("worker_pool", "process_range", "")
			err := fn(ctx, workerID, r)
			finishTiming(err == nil, map[string]interface{}{
				"worker_id": workerID,
				"start":     r.Start,
				"end":       r.End,
			})
			return err
		})
	}
	return g.Wait()
}
