package profile

import (
	"context"
	"time"

	"github.com/bft-labs/tablestress/internal/app"
	"github.com/bft-labs/tablestress/internal/domain"
	"github.com/bft-labs/tablestress/pkg/log"
)

// Stage names of a bulk run, in execution order.
const (
	StageCreateVolumes = "create-volumes"
	StageCreateTables  = "create-tables"
	StageLoad          = "load"
	StageAutosetup     = "autosetup"
)

// Runner executes bulk profiles through an App.
type Runner struct {
	app    *app.App
	logger log.Logger
	now    func() time.Time
}

// NewRunner creates a Runner.
func NewRunner(a *app.App, logger log.Logger) *Runner {
	return &Runner{app: a, logger: logger, now: time.Now}
}

// Run executes p: create volumes, create tables across all volumes, load
// every volume, then set up remote, local and multimaster replicas per
// volume. Item failures are recorded in the report; a cancelled context
// stops the run before the next stage.
func (r *Runner) Run(ctx context.Context, p Profile) (report domain.RunReport) {
	report = domain.RunReport{Profile: p.Name, StartedAt: r.now()}
	logger := r.logger.With(log.String("profile", p.Name))
	defer func() {
		report.FinishedAt = r.now()
		logger.Info("profile run finished",
			log.Int("stages", len(report.Stages)),
			log.Int("failed", report.Failed()),
			log.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
		)
	}()

	logger.Info("creating volumes", log.Int("volumes", p.NumSrcVols))
	created, volumes := r.app.CreateVolumes(ctx, p.VolumePrefix(), p.VolStartIndex, p.NumSrcVols)
	report.Stages = append(report.Stages, stage(StageCreateVolumes, created))
	if stopped(ctx, logger) {
		return report
	}

	logger.Info("creating tables", log.Int("tables_per_volume", p.NumSrcTables))
	tables, _ := r.app.CreateTables(ctx, p.TablePrefixes(volumes), p.TableStartIndex, p.NumSrcTables)
	report.Stages = append(report.Stages, stage(StageCreateTables, tables))
	if stopped(ctx, logger) {
		return report
	}

	load := domain.StageSummary{Stage: StageLoad}
	for _, v := range volumes {
		summary, err := r.app.LoadVolume(ctx, v, p.LoadParams())
		if err != nil {
			logger.Error("load skipped", log.String("volume", v), log.Err(err))
			continue
		}
		load.Batches = append(load.Batches, summary)
	}
	report.Stages = append(report.Stages, load)
	if stopped(ctx, logger) {
		return report
	}

	logger.Info("setting up replicas",
		log.String("remote_path", p.RemotePath()),
		log.String("local_path", p.LocalPath()),
	)
	autosetup := domain.StageSummary{Stage: StageAutosetup}
	for _, v := range volumes {
		for _, target := range []struct {
			parent      string
			count       int
			multimaster bool
		}{
			{p.RemotePath(), p.NumReplica, false},
			{p.LocalPath(), p.NumLocal, false},
			{p.RemotePath(), p.NumMultimaster, true},
		} {
			if target.count == 0 {
				continue
			}
			summary, err := r.app.AutosetupVolume(ctx, v, target.parent, target.count, target.multimaster)
			if err != nil {
				logger.Error("autosetup skipped", log.String("volume", v), log.Err(err))
				continue
			}
			autosetup.Batches = append(autosetup.Batches, summary)
		}
		if ctx.Err() != nil {
			break
		}
	}
	report.Stages = append(report.Stages, autosetup)
	return report
}

func stage(name string, batches ...domain.BatchSummary) domain.StageSummary {
	return domain.StageSummary{Stage: name, Batches: batches}
}

func stopped(ctx context.Context, logger log.Logger) bool {
	if err := ctx.Err(); err != nil {
		logger.Warn("profile run interrupted", log.Err(err))
		return true
	}
	return false
}
