package domain

import "errors"

// Domain errors represent error conditions in the tablestress domain.
// They are wrapped with context and can be checked with errors.Is.
var (
	// ErrCommandFailed is returned when an external command exits non-zero
	// or cannot be started.
	ErrCommandFailed = errors.New("tablestress: command failed")

	// ErrMalformedOutput is returned when captured command output cannot be parsed.
	ErrMalformedOutput = errors.New("tablestress: malformed command output")

	// ErrStatusError is returned when the admin CLI reports status ERROR in its JSON envelope.
	ErrStatusError = errors.New("tablestress: admin cli reported error")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("tablestress: invalid configuration")

	// ErrInvalidProfile is returned when a stress profile fails validation.
	ErrInvalidProfile = errors.New("tablestress: invalid stress profile")
)
