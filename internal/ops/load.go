package ops

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bft-labs/tablestress/internal/domain"
)

// LoadParams shapes the data written by LoadTable.
type LoadParams struct {
	Families int
	Columns  int
	Rows     int
	JSON     bool
}

// DefaultLoadParams matches the loadtest defaults of the CLI.
func DefaultLoadParams() LoadParams {
	return LoadParams{Families: 1, Columns: 3, Rows: 100000}
}

// Validate rejects non-positive shapes.
func (p LoadParams) Validate() error {
	if p.Families <= 0 || p.Columns <= 0 || p.Rows <= 0 {
		return fmt.Errorf("load params must be positive: families=%d columns=%d rows=%d", p.Families, p.Columns, p.Rows)
	}
	return nil
}

// LoadTableCommand returns the loadtest invocation for path.
func (l *Library) LoadTableCommand(path string, p LoadParams) domain.Command {
	args := []string{
		"-mode", "put",
		"-table", path,
		"-numfamilies", strconv.Itoa(p.Families),
		"-numcols", strconv.Itoa(p.Columns),
		"-numrows", strconv.Itoa(p.Rows),
	}
	if p.JSON {
		args = append(args, "-isjson", "true")
	}
	return domain.NewCommand(l.cfg.LoadTestPath, args...)
}

// LoadTable writes p.Rows rows into table path.
func (l *Library) LoadTable(ctx context.Context, path string, p LoadParams) error {
	return l.exec(ctx, l.LoadTableCommand(path, p))
}
