package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/tablestress/pkg/log"
)

// recorder collects the order in which items were processed.
type recorder struct {
	mu    sync.Mutex
	order []string
}

func (r *recorder) add(item string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = append(r.order, item)
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}

func TestDispatcher_EmptyBatch(t *testing.T) {
	var calls atomic.Int32
	d := New(10)

	summary := d.Run(context.Background(), "create-table", nil, func(ctx context.Context, item string) error {
		calls.Add(1)
		return nil
	})

	assert.Zero(t, calls.Load())
	assert.Zero(t, summary.Partitions)
	assert.Zero(t, summary.Attempted)
	assert.NotEmpty(t, summary.BatchID)
}

func TestDispatcher_EveryItemExactlyOnce(t *testing.T) {
	rec := &recorder{}
	in := items(53)
	d := New(7)

	summary := d.Run(context.Background(), "load-table", in, func(ctx context.Context, item string) error {
		rec.add(item)
		return nil
	})

	assert.ElementsMatch(t, in, rec.seen())
	assert.Equal(t, 53, summary.Items)
	assert.Equal(t, 53, summary.Attempted)
	assert.Equal(t, 53, summary.Succeeded())
	assert.Zero(t, summary.Failed)
	assert.Equal(t, 7, summary.Partitions)
}

func TestDispatcher_SequentialWithinPartition(t *testing.T) {
	rec := &recorder{}
	in := items(40)
	d := New(4)

	d.Run(context.Background(), "autosetup", in, func(ctx context.Context, item string) error {
		rec.add(item)
		time.Sleep(time.Millisecond)
		return nil
	})

	pos := make(map[string]int)
	for i, item := range rec.seen() {
		pos[item] = i
	}
	for _, part := range Partition(in, 4) {
		for i := 1; i < len(part); i++ {
			assert.Less(t, pos[part[i-1]], pos[part[i]], "%s processed after %s", part[i-1], part[i])
		}
	}
}

func TestDispatcher_WorkersRunConcurrently(t *testing.T) {
	const workers = 4
	var arrived sync.WaitGroup
	arrived.Add(workers)
	release := make(chan struct{})
	go func() {
		arrived.Wait()
		close(release)
	}()

	d := New(workers)
	summary := d.Run(context.Background(), "status", items(workers), func(ctx context.Context, item string) error {
		arrived.Done()
		select {
		case <-release:
			return nil
		case <-time.After(5 * time.Second):
			return errors.New("workers did not overlap")
		}
	})

	assert.Zero(t, summary.Failed)
}

func TestDispatcher_FailureIsolation(t *testing.T) {
	rec := &recorder{}
	in := items(30)
	failing := in[2] // item 3 of the first partition of 10
	d := New(3)

	summary := d.Run(context.Background(), "create-table", in, func(ctx context.Context, item string) error {
		rec.add(item)
		if item == failing {
			return errors.New("exit status 1")
		}
		return nil
	})

	assert.ElementsMatch(t, in, rec.seen(), "every item is attempted")
	assert.Equal(t, 30, summary.Attempted)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 29, summary.Succeeded())
}

func TestDispatcher_PanicIsItemFailure(t *testing.T) {
	in := items(5)
	d := New(1)

	summary := d.Run(context.Background(), "load-table", in, func(ctx context.Context, item string) error {
		if item == in[1] {
			panic("boom")
		}
		return nil
	})

	assert.Equal(t, 5, summary.Attempted)
	assert.Equal(t, 1, summary.Failed)
}

func TestDispatcher_DeadlineSkipsRemainingItems(t *testing.T) {
	in := items(3)
	d := New(1, WithDeadline(20*time.Millisecond))

	summary := d.Run(context.Background(), "autosetup", in, func(ctx context.Context, item string) error {
		<-ctx.Done()
		return ctx.Err()
	})

	assert.Equal(t, 1, summary.Attempted)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 2, summary.Skipped)
}

// warnings keeps the messages logged at warn level.
type warnings struct {
	log.NoopLogger
	mu   *sync.Mutex
	msgs *[]string
}

func newWarnings() warnings {
	return warnings{mu: &sync.Mutex{}, msgs: &[]string{}}
}

func (w warnings) Warn(msg string, fields ...log.Field) {
	w.mu.Lock()
	defer w.mu.Unlock()
	*w.msgs = append(*w.msgs, msg)
}

func (w warnings) With(fields ...log.Field) log.Logger { return w }

func (w warnings) all() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), *w.msgs...)
}

func TestDispatcher_CallerCancelSkipsRemainingItems(t *testing.T) {
	logger := newWarnings()
	d := New(1, WithLogger(logger))
	ctx, cancel := context.WithCancel(context.Background())

	summary := d.Run(ctx, "load-table", items(4), func(ctx context.Context, item string) error {
		cancel()
		return nil
	})

	assert.Equal(t, 1, summary.Attempted)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 3, summary.Skipped)
	assert.Contains(t, logger.all(), "batch cancelled, skipping rest of partition")
	assert.NotContains(t, logger.all(), "batch deadline reached, skipping rest of partition")
}

func TestDispatcher_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	d := New(2, WithMetrics(m))

	in := items(6)
	d.Run(context.Background(), "create-table", in, func(ctx context.Context, item string) error {
		if item == in[0] {
			return errors.New("exit status 1")
		}
		return nil
	})

	assert.Equal(t, float64(1), testutil.ToFloat64(m.batches.WithLabelValues("create-table")))
	assert.Equal(t, float64(5), testutil.ToFloat64(m.items.WithLabelValues("create-table", OutcomeOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.items.WithLabelValues("create-table", OutcomeFailed)))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.workers.WithLabelValues("create-table")))

	count, err := testutil.GatherAndCount(reg, "tablestress_dispatch_item_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNew_DefaultsWorkerBudget(t *testing.T) {
	assert.Equal(t, DefaultWorkers, New(0).Workers())
	assert.Equal(t, 3, New(3).Workers())
}
