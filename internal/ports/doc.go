// Package ports defines the interfaces that connect the tablestress core to
// infrastructure adapters.
//
// # Port Interfaces
//
//   - [CommandRunner]: runs one external command and reports a domain.Result
//   - [Lister]: enumerates child resources of a container path
//   - [StatusSink]: receives replica status records
//   - [ReportRepository]: persists stress run reports
//
// The dispatch engine and operation library depend only on these interfaces.
// internal/adapters implements them with os/exec, SSH, hadoop, AMQP and the
// local file system.
package ports
