package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bft-labs/tablestress/internal/adapters/fs"
	"github.com/bft-labs/tablestress/internal/profile"
	"github.com/bft-labs/tablestress/internal/report"
	"github.com/bft-labs/tablestress/pkg/log"
)

const defaultInterval = 30 * time.Minute

type stressFlags struct {
	profile   string
	loop      bool
	interval  time.Duration
	reportDir string
}

func (c *cli) stressCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Run stress profiles",
	}

	var f stressFlags
	bulk := &cobra.Command{
		Use:   "bulk",
		Short: "Create, load and replicate tables as described by a profile",
		Long: `Run the bulk profile: create volumes, create tables in every volume, load
every table, then set up remote, local and multimaster replicas per volume.

With --loop the profile is repeated every --interval until interrupted. When
--profile is set, edits to the file are picked up before the next iteration;
an invalid edit is logged and the previous profile kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStress(cmd.Context(), cmd, f)
		},
	}
	bulk.Flags().StringVar(&f.profile, "profile", "", "TOML profile file (default: built-in bulk profile)")
	bulk.Flags().BoolVar(&f.loop, "loop", false, "repeat the profile until interrupted")
	bulk.Flags().DurationVar(&f.interval, "interval", defaultInterval, "pause between iterations in --loop mode")
	bulk.Flags().StringVar(&f.reportDir, "report-dir", "", "write the run report of every iteration to this directory")

	cmd.AddCommand(bulk)
	return cmd
}

func (c *cli) runStress(ctx context.Context, cmd *cobra.Command, f stressFlags) error {
	prof := profile.DefaultProfile()
	if f.profile != "" {
		p, err := profile.LoadProfile(f.profile)
		if err != nil {
			return err
		}
		prof = p
	}
	if f.loop && f.interval < 0 {
		return errors.New("--interval must not be negative")
	}

	logger := c.env.logger.With(log.String("component", "stress"))
	a := c.env.app(report.NewPrinter(cmd.OutOrStdout(), false))

	loop := &profile.Loop{
		Runner:     profile.NewRunner(a, logger),
		Source:     func() profile.Profile { return prof },
		Interval:   f.interval,
		Iterations: 1,
		Logger:     logger,
	}
	if f.reportDir != "" {
		reports := fs.NewReportFile(f.reportDir)
		loop.Reports = reports
		logger.Info("writing run reports", log.String("path", reports.Path()))
	}
	if !f.loop {
		return loop.Run(ctx)
	}
	loop.Iterations = 0

	g, gctx := errgroup.WithContext(ctx)
	if f.profile != "" {
		watcher := profile.NewWatcher(f.profile, prof, logger)
		loop.Source = watcher.Current
		g.Go(func() error { return watcher.Run(gctx) })
	}
	g.Go(func() error {
		return loop.Run(gctx)
	})
	return g.Wait()
}
