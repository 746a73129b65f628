package cmd

import (
	"context"

	"github.com/relloyd/lakepipe/actions"
	"github.com/spf13/cobra"
)

var (
	partitionCrupCfg   actions.PartitionCrupConfig
	partitionListCfg   actions.PartitionListConfig
	partitionDeleteCfg actions.PartitionDeleteConfig
	partitionDatesCfg  actions.DatePartitionsConfig
)

var partitionCmd = &cobra.Command{
	Use:   "partition",
	Short: "Maintain Glue table partitions",
}

var partitionCrupCmd = &cobra.Command{
	Use:   "crup",
	Short: "Create or update a partition",
	Long: `Create a partition of a Glue table with the given values, or update it if it already exists.
The partition location is the table location followed by the values.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPartitionCrup()
	},
}

var partitionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the partitions of a table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPartitionList()
	},
}

var partitionDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the partitions of a table that match a pattern",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPartitionDelete()
	},
}

var partitionDatesCmd = &cobra.Command{
	Use:   "dates",
	Short: "Create or update one partition per day",
	Long: `Create or update a daily partition for each table between the begin and end dates inclusive.
Partition values are formatted using a Go time layout, by default D060102.Full.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPartitionDates()
	},
}

func init() {
	rootCmd.AddCommand(partitionCmd)
	partitionCmd.AddCommand(partitionCrupCmd, partitionListCmd, partitionDeleteCmd, partitionDatesCmd)
	// crup
	partitionCrupCmd.Flags().SortFlags = false
	switches.addFlag(partitionCrupCmd, &partitionCrupCfg.Database, "database", "", true, "")
	switches.addFlag(partitionCrupCmd, &partitionCrupCfg.Table, "table", "", true, "")
	switches.addFlag(partitionCrupCmd, &partitionCrupCfg.Values, "values", "", true, "")
	switches.addFlag(partitionCrupCmd, &logLevel, "log-level", "info", false, "")
	// list
	partitionListCmd.Flags().SortFlags = false
	switches.addFlag(partitionListCmd, &partitionListCfg.Database, "database", "", true, "")
	switches.addFlag(partitionListCmd, &partitionListCfg.Table, "table", "", true, "")
	switches.addFlag(partitionListCmd, &partitionListCfg.Pattern, "pattern", "", false, "")
	switches.addFlag(partitionListCmd, &logLevel, "log-level", "info", false, "")
	// delete
	partitionDeleteCmd.Flags().SortFlags = false
	switches.addFlag(partitionDeleteCmd, &partitionDeleteCfg.Database, "database", "", true, "")
	switches.addFlag(partitionDeleteCmd, &partitionDeleteCfg.Table, "table", "", true, "")
	switches.addFlag(partitionDeleteCmd, &partitionDeleteCfg.Pattern, "pattern", "", true,
		". Use '.' to delete every partition")
	switches.addFlag(partitionDeleteCmd, &logLevel, "log-level", "info", false, "")
	// dates
	partitionDatesCmd.Flags().SortFlags = false
	switches.addFlag(partitionDatesCmd, &partitionDatesCfg.Database, "database", "", true, "")
	switches.addFlag(partitionDatesCmd, &partitionDatesCfg.Tables, "tables", "", false, "")
	switches.addFlag(partitionDatesCmd, &partitionDatesCfg.Layout, "layout", "", false, "")
	switches.addFlag(partitionDatesCmd, &partitionDatesCfg.Begin, "begin-date", "", false, "")
	switches.addFlag(partitionDatesCmd, &partitionDatesCfg.End, "end-date", "", false, "")
	switches.addFlag(partitionDatesCmd, &logLevel, "log-level", "info", false, "")
}

func runPartitionCrup() error {
	return withEnv(func(ctx context.Context, env *actions.Env) error {
		return actions.RunPartitionCrup(ctx, env, partitionCrupCfg)
	})()
}

func runPartitionList() error {
	return withEnv(func(ctx context.Context, env *actions.Env) error {
		return actions.RunPartitionList(ctx, env, partitionListCfg)
	})()
}

func runPartitionDelete() error {
	return withEnv(func(ctx context.Context, env *actions.Env) error {
		return actions.RunPartitionDelete(ctx, env, partitionDeleteCfg)
	})()
}

func runPartitionDates() error {
	return withEnv(func(ctx context.Context, env *actions.Env) error {
		return actions.RunDatePartitions(ctx, env, partitionDatesCfg)
	})()
}
