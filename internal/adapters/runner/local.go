// Package runner implements ports.CommandRunner on the local host, on a
// cluster node over SSH, and as a dry run that only logs.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/bft-labs/tablestress/internal/domain"
)

// ExitCodeNotRunnable is reported when the binary cannot be started.
const ExitCodeNotRunnable = 127

// LocalRunner executes commands on the local host.
type LocalRunner struct {
	// Env, when non-empty, replaces the process environment of each command.
	Env []string
}

// NewLocalRunner creates a LocalRunner inheriting the process environment.
func NewLocalRunner() *LocalRunner {
	return &LocalRunner{}
}

// Run executes cmd and waits for it. Cancelling ctx kills the process.
func (r *LocalRunner) Run(ctx context.Context, cmd domain.Command) domain.Result {
	start := time.Now()
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	if len(r.Env) > 0 {
		c.Env = r.Env
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	res := domain.Result{
		Command:  cmd,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Err:      err,
		Duration: time.Since(start),
	}
	if err == nil {
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		// Killed by a signal (context cancellation) reports -1.
		if res.ExitCode < 0 {
			res.ExitCode = 1
		}
		return res
	}

	res.ExitCode = 1
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		res.ExitCode = ExitCodeNotRunnable
	}
	return res
}
