// Package testutil provides fakes for the tablestress ports.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bft-labs/tablestress/internal/domain"
)

// RecordingRunner records every command and answers with Respond.
// It is safe for concurrent use by dispatch workers.
type RecordingRunner struct {
	// Respond returns the result for cmd. A nil Respond reports success with
	// empty output.
	Respond func(cmd domain.Command) domain.Result

	mu       sync.Mutex
	commands []domain.Command
}

// Run records cmd and returns the configured result.
func (r *RecordingRunner) Run(ctx context.Context, cmd domain.Command) domain.Result {
	r.mu.Lock()
	r.commands = append(r.commands, cmd)
	r.mu.Unlock()

	if r.Respond == nil {
		return domain.Result{Command: cmd}
	}
	res := r.Respond(cmd)
	res.Command = cmd
	return res
}

// Commands returns the recorded commands in call order.
func (r *RecordingRunner) Commands() []domain.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Command(nil), r.commands...)
}

// Lines returns the recorded command lines sorted, for order-insensitive
// comparison of concurrent batches.
func (r *RecordingRunner) Lines() []string {
	cmds := r.Commands()
	lines := make([]string, len(cmds))
	for i, c := range cmds {
		lines[i] = c.String()
	}
	sort.Strings(lines)
	return lines
}

// Output is a successful result with stdout.
func Output(stdout string) domain.Result {
	return domain.Result{Stdout: []byte(stdout)}
}

// Failure is a result with a non-zero exit code.
func Failure(code int, stderr string) domain.Result {
	return domain.Result{
		ExitCode: code,
		Stderr:   []byte(stderr),
		Err:      fmt.Errorf("exit status %d", code),
	}
}

// Lister maps container paths to children.
type Lister map[string][]string

// List returns the configured children of container.
func (l Lister) List(ctx context.Context, container string) []string {
	return append([]string(nil), l[container]...)
}

// StatusRecorder collects published replica statuses.
type StatusRecorder struct {
	mu       sync.Mutex
	statuses []domain.ReplicaStatus
}

// Publish records status.
func (s *StatusRecorder) Publish(ctx context.Context, status domain.ReplicaStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, status)
	return nil
}

// Statuses returns the recorded statuses in publish order.
func (s *StatusRecorder) Statuses() []domain.ReplicaStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ReplicaStatus(nil), s.statuses...)
}
