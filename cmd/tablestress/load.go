package main

import (
	"github.com/spf13/cobra"

	"github.com/bft-labs/tablestress/internal/ops"
	"github.com/bft-labs/tablestress/internal/report"
)

func bindLoadFlags(cmd *cobra.Command, p *ops.LoadParams) {
	def := ops.DefaultLoadParams()
	cmd.Flags().IntVar(&p.Families, "num-cfs", def.Families, "column families per table")
	cmd.Flags().IntVar(&p.Columns, "num-cols", def.Columns, "columns per family")
	cmd.Flags().IntVar(&p.Rows, "num-rows", def.Rows, "rows to insert")
	cmd.Flags().BoolVar(&p.JSON, "json", false, "load JSON documents")
}

func (c *cli) loadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load rows into tables with loadtest",
	}

	var tableParams ops.LoadParams
	table := &cobra.Command{
		Use:   "table TABLE",
		Short: "Load a single table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tableParams.Validate(); err != nil {
				return err
			}
			a := c.env.app(report.NewPrinter(cmd.OutOrStdout(), false))
			if err := a.LoadTable(cmd.Context(), args[0], tableParams); err != nil {
				c.env.zlog.Error().Err(err).Str("table", args[0]).Msg("load failed")
			}
			return nil
		},
	}
	bindLoadFlags(table, &tableParams)

	var volumeParams ops.LoadParams
	volume := &cobra.Command{
		Use:   "volume VOLUME",
		Short: "Load every table in a volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.env.app(report.NewPrinter(cmd.OutOrStdout(), false))
			summary, err := a.LoadVolume(cmd.Context(), args[0], volumeParams)
			if err != nil {
				return err
			}
			logSummary(c.env.zlog, summary)
			return nil
		},
	}
	bindLoadFlags(volume, &volumeParams)

	cmd.AddCommand(table, volume)
	return cmd
}
