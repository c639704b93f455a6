package runner

import (
	"context"

	"github.com/bft-labs/tablestress/internal/domain"
	"github.com/bft-labs/tablestress/internal/ports"
	"github.com/bft-labs/tablestress/pkg/log"
)

// DryRunner logs every command instead of executing it and reports success
// with empty output. Read-only queries can be routed to a real runner so
// that enumeration and status still see the cluster.
type DryRunner struct {
	logger  log.Logger
	queries ports.CommandRunner
	isQuery func(domain.Command) bool
}

// NewDryRunner creates a DryRunner logging at info level.
func NewDryRunner(logger log.Logger) *DryRunner {
	return &DryRunner{logger: logger}
}

// WithQueries executes commands matching isQuery on next.
func (r *DryRunner) WithQueries(next ports.CommandRunner, isQuery func(domain.Command) bool) *DryRunner {
	r.queries = next
	r.isQuery = isQuery
	return r
}

// Run logs cmd and returns a successful empty result.
func (r *DryRunner) Run(ctx context.Context, cmd domain.Command) domain.Result {
	if r.queries != nil && r.isQuery(cmd) {
		return r.queries.Run(ctx, cmd)
	}
	r.logger.Info("dry run", log.String("command", cmd.String()))
	return domain.Result{Command: cmd}
}
