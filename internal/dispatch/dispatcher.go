package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/tablestress/internal/domain"
	"github.com/bft-labs/tablestress/pkg/log"
)

// DefaultWorkers is the worker budget used when none is configured.
const DefaultWorkers = 10

// Operation applies one domain operation to a single work item. Operations
// must only read shared state; the dispatcher calls them from many workers.
type Operation func(ctx context.Context, item string) error

// Option configures optional behavior of a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger log.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithMetrics records item outcomes and durations in m.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithDeadline bounds every batch by timeout. Zero means no deadline, which
// lets a wedged external command hold the batch indefinitely.
func WithDeadline(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.deadline = timeout
	}
}

// Dispatcher fans a batch of work items out over a bounded set of workers
// and joins them. It holds no per-batch state and is safe for concurrent use.
type Dispatcher struct {
	workers  int
	deadline time.Duration
	logger   log.Logger
	metrics  *Metrics
}

// New creates a Dispatcher with the given worker budget.
func New(workers int, opts ...Option) *Dispatcher {
	if workers < 1 {
		workers = DefaultWorkers
	}
	d := &Dispatcher{
		workers: workers,
		logger:  log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Workers returns the worker budget.
func (d *Dispatcher) Workers() int {
	return d.workers
}

// tally is owned by exactly one worker until the join.
type tally struct {
	attempted int
	failed    int
	skipped   int
}

// Run partitions items, applies op to every item with one worker per
// partition and blocks until all workers are done. Item failures are logged
// and counted, never propagated.
func (d *Dispatcher) Run(ctx context.Context, name string, items []string, op Operation) domain.BatchSummary {
	start := time.Now()
	summary := domain.BatchSummary{
		BatchID: uuid.NewString(),
		Op:      name,
		Items:   len(items),
	}
	logger := d.logger.With(log.String("batch_id", summary.BatchID), log.String("op", name))

	parts := Partition(items, d.workers)
	summary.Partitions = len(parts)
	if len(parts) == 0 {
		logger.Debug("empty batch, nothing to dispatch")
		return summary
	}

	if d.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.deadline)
		defer cancel()
	}

	logger.Info("dispatching batch",
		log.Int("items", len(items)),
		log.Int("workers", len(parts)),
	)
	d.metrics.batchStarted(name)

	tallies := make([]tally, len(parts))
	var g errgroup.Group
	g.SetLimit(d.workers)
	for i, part := range parts {
		g.Go(func() error {
			tallies[i] = d.work(ctx, name, logger.With(log.Int("worker", i)), part, op)
			return nil
		})
	}
	// Workers never return errors; Wait is the join barrier.
	_ = g.Wait()

	for _, t := range tallies {
		summary.Attempted += t.attempted
		summary.Failed += t.failed
		summary.Skipped += t.skipped
	}
	summary.Elapsed = time.Since(start)

	done := logger.Info
	if summary.Failed > 0 || summary.Skipped > 0 {
		done = logger.Warn
	}
	done("batch complete",
		log.Int("attempted", summary.Attempted),
		log.Int("failed", summary.Failed),
		log.Int("skipped", summary.Skipped),
		log.Duration("elapsed", summary.Elapsed),
	)
	return summary
}

// work processes one partition sequentially.
func (d *Dispatcher) work(ctx context.Context, name string, logger log.Logger, part []string, op Operation) tally {
	d.metrics.workerStarted(name)
	defer d.metrics.workerDone(name)

	var t tally
	for i, item := range part {
		if err := ctx.Err(); err != nil {
			t.skipped = len(part) - i
			d.metrics.skipped(name, t.skipped)
			logger.Warn("batch cancelled, skipping rest of partition",
				log.Int("skipped", t.skipped),
				log.Err(err),
			)
			break
		}

		started := time.Now()
		err := apply(ctx, op, item)
		elapsed := time.Since(started)
		t.attempted++

		if err != nil {
			t.failed++
			d.metrics.observe(name, OutcomeFailed, elapsed)
			logger.Warn("item failed",
				log.String("item", item),
				log.Duration("elapsed", elapsed),
				log.Err(err),
			)
			continue
		}
		d.metrics.observe(name, OutcomeOK, elapsed)
		logger.Debug("item done",
			log.String("item", item),
			log.Duration("elapsed", elapsed),
		)
	}
	return t
}

// apply runs op, converting a panic into an item error.
func apply(ctx context.Context, op Operation, item string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("operation panicked: %v", r)
		}
	}()
	return op(ctx, item)
}
