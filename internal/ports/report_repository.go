package ports

import (
	"context"

	"github.com/bft-labs/tablestress/internal/domain"
)

// ReportRepository persists stress run reports.
type ReportRepository interface {
	// Load retrieves the last saved report.
	// Returns an empty report and nil error if none exists.
	Load(ctx context.Context) (domain.RunReport, error)

	// Save persists the report atomically (write to temp file, then rename)
	// so a crash never leaves a truncated report behind.
	Save(ctx context.Context, report domain.RunReport) error
}
