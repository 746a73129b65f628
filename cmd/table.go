package cmd

import (
	"context"

	"github.com/relloyd/lakepipe/actions"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/helper"
	"github.com/spf13/cobra"
)

var (
	tableCrupCfg actions.TableCrupConfig
	tableListCfg actions.TableListConfig
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Maintain Glue tables",
}

var tableCrupCmd = &cobra.Command{
	Use:   "crup",
	Short: "Create or update a table",
	Long: `Create a Glue table from the table input template and a list of columns, or update it if it
already exists. Source column types are mapped to Glue types and the table location is the database
location followed by the upper case table name.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTableCrup()
	},
}

var tableListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tables in a database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTableList()
	},
}

func init() {
	rootCmd.AddCommand(tableCmd)
	tableCmd.AddCommand(tableCrupCmd, tableListCmd)
	// crup
	tableCrupCmd.Flags().SortFlags = false
	switches.addFlag(tableCrupCmd, &tableCrupCfg.Database, "database", "", true, "")
	switches.addFlag(tableCrupCmd, &tableCrupCfg.Table, "table", "", true, "")
	switches.addFlag(tableCrupCmd, &tableCrupCfg.ColumnsUrl, "columns-url", "", true, "")
	switches.addFlag(tableCrupCmd, &tableCrupCfg.TemplateUrl, "template-url", templateUrl(), false, "")
	switches.addFlag(tableCrupCmd, &logLevel, "log-level", "info", false, "")
	// list
	tableListCmd.Flags().SortFlags = false
	switches.addFlag(tableListCmd, &tableListCfg.Database, "database", "", true, "")
	switches.addFlag(tableListCmd, &tableListCfg.Pattern, "pattern", "", false, "")
	switches.addFlag(tableListCmd, &logLevel, "log-level", "info", false, "")
}

// templateUrl is the default table input template location, taken from GlueTableInputTemplateUrl when set.
func templateUrl() string {
	return helper.ReadValueFromEnvWithDefault(constants.EnvVarGlueTemplateUrl, constants.DefaultGlueTemplateUrl)
}

func runTableCrup() error {
	return withEnv(func(ctx context.Context, env *actions.Env) error {
		return actions.RunTableCrup(ctx, env, tableCrupCfg)
	})()
}

func runTableList() error {
	return withEnv(func(ctx context.Context, env *actions.Env) error {
		return actions.RunTableList(ctx, env, tableListCfg)
	})()
}
