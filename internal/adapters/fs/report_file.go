// Package fs persists stress run reports on the local filesystem.
package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bft-labs/tablestress/internal/domain"
)

// ReportFileName is the file written into the report directory.
const ReportFileName = "stress-report.json"

// ReportFile implements ports.ReportRepository using a JSON file.
type ReportFile struct {
	dir string
}

// NewReportFile creates a ReportFile for the given directory.
func NewReportFile(dir string) *ReportFile {
	return &ReportFile{dir: dir}
}

// Load reads the last saved report.
// Returns an empty report and nil error if no report file exists.
func (r *ReportFile) Load(ctx context.Context) (domain.RunReport, error) {
	data, err := os.ReadFile(r.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return domain.RunReport{}, nil
		}
		return domain.RunReport{}, err
	}

	var report domain.RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return domain.RunReport{}, err
	}
	return report, nil
}

// Save writes report to a temp file and renames it into place.
func (r *ReportFile) Save(ctx context.Context, report domain.RunReport) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	path := r.Path()
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Path returns the full path to the report file.
func (r *ReportFile) Path() string {
	return filepath.Join(r.dir, ReportFileName)
}
