package domain

import "time"

// BatchSummary describes one completed dispatch batch.
type BatchSummary struct {
	BatchID    string `json:"batch_id"`
	Op         string `json:"op"`
	Items      int    `json:"items"`
	Partitions int    `json:"partitions"`
	Attempted  int    `json:"attempted"`
	Failed     int    `json:"failed"`
	// Skipped counts items never attempted because the batch deadline expired.
	Skipped int           `json:"skipped"`
	Elapsed time.Duration `json:"elapsed"`
}

// Succeeded returns the number of attempted items that did not fail.
func (s BatchSummary) Succeeded() int {
	return s.Attempted - s.Failed
}

// Add folds other into s. BatchID and Op of s are kept.
func (s *BatchSummary) Add(other BatchSummary) {
	s.Items += other.Items
	s.Partitions += other.Partitions
	s.Attempted += other.Attempted
	s.Failed += other.Failed
	s.Skipped += other.Skipped
	s.Elapsed += other.Elapsed
}

// StageSummary is the aggregated outcome of one stress profile stage.
type StageSummary struct {
	Stage   string         `json:"stage"`
	Batches []BatchSummary `json:"batches"`
}

// Totals folds all batches of the stage into one summary.
func (s StageSummary) Totals() BatchSummary {
	total := BatchSummary{Op: s.Stage}
	for _, b := range s.Batches {
		total.Add(b)
	}
	return total
}

// RunReport is the outcome of one stress profile iteration.
type RunReport struct {
	Profile    string         `json:"profile"`
	Iteration  int            `json:"iteration"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Stages     []StageSummary `json:"stages"`
}

// Failed returns the number of failed items across all stages.
func (r RunReport) Failed() int {
	n := 0
	for _, s := range r.Stages {
		n += s.Totals().Failed
	}
	return n
}
