// Package ops is the operation library: each operation maps a resource path
// and fixed parameters to admin CLI or loadtest invocations.
//
// Operations return an error wrapping domain.ErrCommandFailed when a command
// fails; they never retry. The dispatch engine decides what to do with it.
package ops
