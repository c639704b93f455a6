package main

import (
	"github.com/spf13/cobra"

	"github.com/bft-labs/tablestress/internal/report"
)

type replicaFlags struct {
	count       int
	multimaster bool
}

func (r *replicaFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&r.count, "num-replica", 1, "replicas per source table")
	cmd.Flags().BoolVar(&r.multimaster, "multimaster", false, "set up multimaster replicas")
}

func (c *cli) autosetupCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autosetup",
		Short: "Set up table replicas with directcopy",
	}

	var tableFlags replicaFlags
	table := &cobra.Command{
		Use:   "table SRC REPLPATH",
		Short: "Replicate SRC into REPLPATH",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.env.app(report.NewPrinter(cmd.OutOrStdout(), false))
			err := a.AutosetupTable(cmd.Context(), args[0], args[1], tableFlags.count, tableFlags.multimaster)
			if err != nil {
				if isUsageError(err) {
					return err
				}
				c.env.zlog.Error().Err(err).Str("table", args[0]).Msg("autosetup failed")
			}
			return nil
		},
	}
	tableFlags.bind(table)

	var volumeFlags replicaFlags
	volume := &cobra.Command{
		Use:   "volume VOLUME REPLPATH",
		Short: "Replicate every table of VOLUME into REPLPATH",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.env.app(report.NewPrinter(cmd.OutOrStdout(), false))
			summary, err := a.AutosetupVolume(cmd.Context(), args[0], args[1], volumeFlags.count, volumeFlags.multimaster)
			if err != nil {
				return err
			}
			logSummary(c.env.zlog, summary)
			return nil
		},
	}
	volumeFlags.bind(volume)

	cmd.AddCommand(table, volume)
	return cmd
}
