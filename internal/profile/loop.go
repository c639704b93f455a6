package profile

import (
	"context"
	"time"

	"github.com/bft-labs/tablestress/internal/ports"
	"github.com/bft-labs/tablestress/pkg/log"
)

// Loop repeats a profile run until cancelled or until Iterations runs are
// done.
type Loop struct {
	Runner *Runner
	// Source returns the profile for the next iteration.
	Source func() Profile
	// Reports, when set, receives the report of every iteration.
	Reports  ports.ReportRepository
	Interval time.Duration
	// Iterations of zero repeats until ctx is done.
	Iterations int
	Logger     log.Logger
}

// Run executes iterations back to back, pausing Interval between them.
// Cancellation ends the loop without error.
func (l *Loop) Run(ctx context.Context) error {
	for i := 1; ; i++ {
		p := l.Source()
		l.Logger.Info("starting iteration", log.Int("iteration", i), log.String("profile", p.Name))

		report := l.Runner.Run(ctx, p)
		report.Iteration = i
		if l.Reports != nil {
			if err := l.Reports.Save(ctx, report); err != nil {
				l.Logger.Error("failed to save run report", log.Int("iteration", i), log.Err(err))
			}
		}

		if l.Iterations > 0 && i >= l.Iterations {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}

		t := time.NewTimer(l.Interval)
		select {
		case <-ctx.Done():
			t.Stop()
			l.Logger.Info("loop stopped", log.Int("iterations", i))
			return nil
		case <-t.C:
		}
	}
}
