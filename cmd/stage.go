package cmd

import (
	"context"
	"io/ioutil"
	"os"

	"github.com/relloyd/lakepipe/actions"
	"github.com/relloyd/lakepipe/constants"
	"github.com/spf13/cobra"
)

type stageConfig struct {
	Event     string
	EventFile string
}

var stageConfigs = map[string]*stageConfig{
	constants.ActionUnzip:    {},
	constants.ActionInitiate: {},
	constants.ActionConvert:  {},
}

var unzipCmd = newStageCmd(constants.ActionUnzip,
	"Unzip an archive into gzipped table and partition folders",
	`Download the ZIP archive named by process_parms, gzip each member and upload it to
<S3ExtractFolder>/<table>/<partition>/. The response adds ZipExtracted to process_parms.`)

var initiateCmd = newStageCmd(constants.ActionInitiate,
	"Start the workflow state machine for an archive that landed in S3",
	`Add BatchId, StepFnArn and ExecName to batch_parms and start the state machine
execution. Nothing is started when no ARN is found in the event or environment.`)

var convertCmd = newStageCmd(constants.ActionConvert,
	"Convert extracted CSV partitions to Parquet and register them",
	`Convert each table and partition listed in process_parms.ZipExtracted to snappy
Parquet using the table's catalog schema, then register the partitions.`)

func newStageCmd(action string, short string, long string) *cobra.Command {
	c := &cobra.Command{
		Use:   action,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(action)
		},
	}
	c.Flags().SortFlags = false
	return c
}

func init() {
	rootCmd.AddCommand(unzipCmd, initiateCmd, convertCmd)
	for _, c := range []*cobra.Command{unzipCmd, initiateCmd, convertCmd} {
		cfg := stageConfigs[c.Name()]
		switches.addFlag(c, &cfg.Event, "event", "", false, "")
		switches.addFlag(c, &cfg.EventFile, "event-file", "", false, "")
		switches.addFlag(c, &functionName, "function-name", "", false, "")
		switches.addFlag(c, &logLevel, "log-level", "info", false, "")
	}
}

// runStage reads the event for action, runs it and prints the response.
func runStage(action string) error {
	raw, err := readEvent(stageConfigs[action])
	if err != nil {
		return err
	}
	p, err := newPipeline()
	if err != nil {
		return err
	}
	return actions.RunStage(context.Background(), p.Stages, action, raw, os.Stdout)
}

// readEvent returns the inline event, else the content of the event file, else stdin.
func readEvent(cfg *stageConfig) ([]byte, error) {
	if cfg.Event != "" {
		return []byte(cfg.Event), nil
	}
	if cfg.EventFile != "" {
		return ioutil.ReadFile(cfg.EventFile)
	}
	return ioutil.ReadAll(os.Stdin)
}
