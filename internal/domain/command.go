package domain

import (
	"fmt"
	"strings"
	"time"
)

// Command is an external command invocation. Args are passed to the binary
// verbatim; no shell is involved.
type Command struct {
	Name string
	Args []string
}

// NewCommand builds a Command from a binary name and its arguments.
func NewCommand(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// String renders the command line for logs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// HasFlag reports whether flag appears among the arguments.
func (c Command) HasFlag(flag string) bool {
	for _, a := range c.Args {
		if a == flag {
			return true
		}
	}
	return false
}

// FlagValue returns the argument following flag, if any.
func (c Command) FlagValue(flag string) (string, bool) {
	for i := 0; i < len(c.Args)-1; i++ {
		if c.Args[i] == flag {
			return c.Args[i+1], true
		}
	}
	return "", false
}

// Result is the outcome of running a Command. Runners report every outcome
// through Result and leave the decision to ignore or propagate to the caller.
type Result struct {
	Command  Command
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	// Err is set when the command could not be started, was killed, or
	// exited non-zero.
	Err      error
	Duration time.Duration
}

// OK reports whether the command ran and exited with status zero.
func (r Result) OK() bool {
	return r.Err == nil && r.ExitCode == 0
}

// AsError converts a failed result into an error wrapping ErrCommandFailed.
// It returns nil for a successful result.
func (r Result) AsError() error {
	if r.OK() {
		return nil
	}
	if r.Err != nil {
		return fmt.Errorf("%w: %s (exit %d): %v", ErrCommandFailed, r.Command.Name, r.ExitCode, r.Err)
	}
	return fmt.Errorf("%w: %s (exit %d)", ErrCommandFailed, r.Command.Name, r.ExitCode)
}

// Output returns trimmed stdout, falling back to stderr when stdout is empty.
func (r Result) Output() string {
	if out := strings.TrimSpace(string(r.Stdout)); out != "" {
		return out
	}
	return strings.TrimSpace(string(r.Stderr))
}
