package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/bft-labs/tablestress/internal/app"
	"github.com/bft-labs/tablestress/internal/domain"
	"github.com/bft-labs/tablestress/internal/ops"
	"github.com/bft-labs/tablestress/internal/report"
)

type trackFlags struct {
	path    string
	filter  string
	json    bool
	publish bool
}

func (t *trackFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&t.path, "path", "", "table or volume path")
	cmd.Flags().StringVar(&t.filter, "filter", "", "comma separated status fields to report (default: all)")
	cmd.Flags().BoolVar(&t.json, "json", false, "print one JSON object per replica")
	cmd.Flags().BoolVar(&t.publish, "publish", false, "also publish records to the amqp exchange")
	_ = cmd.MarkFlagRequired("path")
}

func (c *cli) repltrackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repltrack",
		Short: "Report replica status of tables",
	}

	var tableFlags trackFlags
	table := &cobra.Command{
		Use:   "table",
		Short: "Report the replicas of one table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, filter, err := c.tracker(cmd, tableFlags)
			if err != nil {
				return err
			}
			if err := a.TrackTable(cmd.Context(), tableFlags.path, filter); err != nil {
				c.env.zlog.Error().Err(err).Str("table", tableFlags.path).Msg("repltrack failed")
			}
			return nil
		},
	}
	tableFlags.bind(table)

	var volumeFlags trackFlags
	volume := &cobra.Command{
		Use:   "volume",
		Short: "Report the replicas of every table in a volume",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, filter, err := c.tracker(cmd, volumeFlags)
			if err != nil {
				return err
			}
			logSummary(c.env.zlog, a.TrackVolume(cmd.Context(), volumeFlags.path, filter))
			return nil
		},
	}
	volumeFlags.bind(volume)

	cmd.AddCommand(table, volume)
	return cmd
}

func (c *cli) tracker(cmd *cobra.Command, f trackFlags) (*app.App, ops.FieldFilter, error) {
	filter, unknown := ops.ParseFieldFilter(f.filter)
	if len(unknown) > 0 {
		c.env.zlog.Warn().Strs("fields", unknown).Strs("known", domain.KnownStatusFields).Msg("ignoring unknown status fields")
	}
	sink, err := c.env.statusSink(report.NewPrinter(cmd.OutOrStdout(), f.json), f.publish)
	if err != nil {
		return nil, filter, err
	}
	return c.env.app(sink), filter, nil
}

// isUsageError reports whether err stems from bad arguments rather than a
// failed cluster command.
func isUsageError(err error) bool {
	return errors.Is(err, domain.ErrInvalidConfig) || errors.Is(err, domain.ErrInvalidProfile)
}
