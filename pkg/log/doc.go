// Package log provides the logging abstraction used by tablestress packages.
//
// Library code logs through the Logger interface so it can run under the
// CLI's zerolog setup or silently in tests:
//
//	logger := log.NewZerologAdapterWithLogger(zl)
//	logger.With(log.String("op", "create-table")).Info("dispatching")
//
//	logger := log.NewNoopLogger()
package log
