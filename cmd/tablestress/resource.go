package main

import (
	"github.com/spf13/cobra"

	"github.com/bft-labs/tablestress/internal/report"
)

type rangeFlags struct {
	count int
	start int
}

func (r *rangeFlags) bind(cmd *cobra.Command, countFlag, countHelp string) {
	cmd.Flags().IntVar(&r.count, countFlag, 1, countHelp)
	cmd.Flags().IntVar(&r.start, "start-idx", 1, "first suffix index")
}

func (c *cli) createCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create suffixed tables or volumes",
	}

	var tables rangeFlags
	table := &cobra.Command{
		Use:   "table PREFIX",
		Short: "Create PREFIX00001..PREFIXnnnnn tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.env.app(report.NewPrinter(cmd.OutOrStdout(), false))
			summary, _ := a.CreateTables(cmd.Context(), []string{args[0]}, tables.start, tables.count)
			logSummary(c.env.zlog, summary)
			return nil
		},
	}
	tables.bind(table, "num-tables", "number of tables to create")

	var volumes rangeFlags
	volume := &cobra.Command{
		Use:   "volume PREFIX",
		Short: "Create PREFIX00001..PREFIXnnnnn volumes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.env.app(report.NewPrinter(cmd.OutOrStdout(), false))
			summary, _ := a.CreateVolumes(cmd.Context(), args[0], volumes.start, volumes.count)
			logSummary(c.env.zlog, summary)
			return nil
		},
	}
	volumes.bind(volume, "num-volumes", "number of volumes to create")

	cmd.AddCommand(table, volume)
	return cmd
}

func (c *cli) deleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete suffixed tables or volumes",
	}

	var tables rangeFlags
	table := &cobra.Command{
		Use:   "table PREFIX",
		Short: "Delete PREFIX00001..PREFIXnnnnn tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.env.app(report.NewPrinter(cmd.OutOrStdout(), false))
			logSummary(c.env.zlog, a.DeleteTables(cmd.Context(), args[0], tables.start, tables.count))
			return nil
		},
	}
	tables.bind(table, "num-tables", "number of tables to delete")

	var volumes rangeFlags
	volume := &cobra.Command{
		Use:   "volume PREFIX",
		Short: "Remove PREFIX00001..PREFIXnnnnn volumes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.env.app(report.NewPrinter(cmd.OutOrStdout(), false))
			logSummary(c.env.zlog, a.DeleteVolumes(cmd.Context(), args[0], volumes.start, volumes.count))
			return nil
		},
	}
	volumes.bind(volume, "num-volumes", "number of volumes to remove")

	cmd.AddCommand(table, volume)
	return cmd
}
