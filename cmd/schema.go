package cmd

import (
	"context"

	"github.com/relloyd/lakepipe/actions"
	"github.com/spf13/cobra"
)

var (
	schemaExportCfg     actions.SchemaExportConfig
	schemaImportCfg     actions.SchemaImportConfig
	schemaDictionaryCfg actions.SchemaConvertConfig
	schemaMetaCfg       actions.SchemaConvertConfig
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Translate table schemas to and from RAML",
}

var schemaExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a Glue table schema as RAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchemaExport()
	},
}

var schemaImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import RAML as Glue table columns",
	Long: `Convert the properties of the RAML types to Glue table columns and print them as JSON.
Supply a database and table to create or update the table with the columns instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchemaImport()
	},
}

var schemaDictionaryCmd = &cobra.Command{
	Use:   "dictionary",
	Short: "Convert a FiscalData data dictionary CSV to RAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchemaDictionary()
	},
}

var schemaMetaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Convert a FiscalData API meta object to RAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchemaMeta()
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(schemaExportCmd, schemaImportCmd, schemaDictionaryCmd, schemaMetaCmd)
	// export
	schemaExportCmd.Flags().SortFlags = false
	switches.addFlag(schemaExportCmd, &schemaExportCfg.Database, "database", "", true, "")
	switches.addFlag(schemaExportCmd, &schemaExportCfg.Table, "table", "", true, "")
	switches.addFlag(schemaExportCmd, &schemaExportCfg.Output, "output", "", false, "")
	switches.addFlag(schemaExportCmd, &logLevel, "log-level", "info", false, "")
	// import
	schemaImportCmd.Flags().SortFlags = false
	switches.addFlag(schemaImportCmd, &schemaImportCfg.Input, "input", "", false, "")
	switches.addFlag(schemaImportCmd, &schemaImportCfg.Output, "output", "", false, "")
	switches.addFlag(schemaImportCmd, &schemaImportCfg.Database, "database", "", false, "")
	switches.addFlag(schemaImportCmd, &schemaImportCfg.Table, "table", "", false, "")
	switches.addFlag(schemaImportCmd, &schemaImportCfg.TemplateUrl, "template-url", templateUrl(), false, "")
	switches.addFlag(schemaImportCmd, &logLevel, "log-level", "info", false, "")
	// dictionary
	schemaDictionaryCmd.Flags().SortFlags = false
	switches.addFlag(schemaDictionaryCmd, &schemaDictionaryCfg.Input, "input", "", false, "")
	switches.addFlag(schemaDictionaryCmd, &schemaDictionaryCfg.Output, "output", "", false, "")
	switches.addFlag(schemaDictionaryCmd, &logLevel, "log-level", "info", false, "")
	// meta
	schemaMetaCmd.Flags().SortFlags = false
	switches.addFlag(schemaMetaCmd, &schemaMetaCfg.Input, "input", "", false, "")
	switches.addFlag(schemaMetaCmd, &schemaMetaCfg.Output, "output", "", false, "")
	switches.addFlag(schemaMetaCmd, &logLevel, "log-level", "info", false, "")
}

func runSchemaExport() error {
	return withEnv(func(ctx context.Context, env *actions.Env) error {
		return actions.RunSchemaExport(ctx, env, schemaExportCfg)
	})()
}

func runSchemaImport() error {
	return withEnv(func(ctx context.Context, env *actions.Env) error {
		return actions.RunSchemaImport(ctx, env, schemaImportCfg)
	})()
}

func runSchemaDictionary() error {
	return withEnv(func(ctx context.Context, env *actions.Env) error {
		return actions.RunSchemaDictionary(ctx, env, schemaDictionaryCfg)
	})()
}

func runSchemaMeta() error {
	return withEnv(func(ctx context.Context, env *actions.Env) error {
		return actions.RunSchemaMeta(ctx, env, schemaMetaCfg)
	})()
}
