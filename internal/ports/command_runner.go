package ports

import (
	"context"

	"github.com/bft-labs/tablestress/internal/domain"
)

// CommandRunner executes external commands synchronously.
type CommandRunner interface {
	// Run executes cmd and blocks until it exits or ctx is done.
	// Failures are reported through the Result, never by panicking.
	Run(ctx context.Context, cmd domain.Command) domain.Result
}
