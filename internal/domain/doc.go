// Package domain contains the value types shared by the tablestress packages.
//
// It has no dependencies on process execution, logging or transport.
//
// # Types
//
//   - [Command]: one external command line (binary plus arguments)
//   - [Result]: the outcome of running a Command (exit code, captured output)
//   - [ReplicaStatus]: one replica record reported by the admin CLI
//
// Sentinel errors in this package are wrapped by callers and checked with errors.Is.
package domain
