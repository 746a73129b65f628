package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/relloyd/lakepipe/actions"
	c "github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/errkind"
	"github.com/relloyd/lakepipe/event"
	"github.com/relloyd/lakepipe/helper"
	"github.com/relloyd/lakepipe/logger"
)

// init will be called first due to the lexical order in which these functions are executed.
// This ensures the value of twelveFactorMode is set such that other init() functions that configure
// Cobra can do the job of processing all environment variables that would contain equivalent of the CLI flag
// structures used by the actions.
func init() {
	setupTwelveFactorMode()
}

// setupTwelveFactorMode will enable or disable 12 factor mode based on environment variable.
func setupTwelveFactorMode() {
	mode := os.Getenv(envVarTwelveFactorMode)
	if mode != "" { // if variable for 12factor mode is set and we should read env vars to determine actions...
		twelveFactorMode = true
		if strings.ToLower(mode) == "lambda" {
			lambdaMode = true
		}
	} else { // else 12factor mode should be off...
		twelveFactorMode = false // explicitly turn off this mode since tests may have turned it on while others require it off.
		lambdaMode = false
	}
}

const (
	envVarTwelveFactorMode = c.EnvVarTwelveFactorMode
	envVarCommand          = c.EnvVarCommand
	envVarSubcommand       = c.EnvVarPrefix + "_" + "SUBCOMMAND"
	envVarLogLevel         = c.EnvVarLogLevel
	envVarStackDump        = c.EnvVarStackDump
)

var (
	twelveFactorMode bool // true if os env var envVarTwelveFactorMode is set
	lambdaMode       bool // true if os env var envVarTwelveFactorMode is "lambda"
	twelveFactorVars = map[string]string{
		envVarCommand:    "",
		envVarSubcommand: "",
		envVarLogLevel:   "",
		envVarStackDump:  "",
	}
)

type twelveFactorAction struct {
	stage      bool // true if the action handles pipeline events
	runnerFunc func() error
}

var twelveFactorActions = map[string]twelveFactorAction{
	c.ActionUnzip:       {stage: true, runnerFunc: func() error { return runStage(c.ActionUnzip) }},
	c.ActionInitiate:    {stage: true, runnerFunc: func() error { return runStage(c.ActionInitiate) }},
	c.ActionConvert:     {stage: true, runnerFunc: func() error { return runStage(c.ActionConvert) }},
	"partition-crup":    {runnerFunc: runPartitionCrup},
	"partition-list":    {runnerFunc: runPartitionList},
	"partition-delete":  {runnerFunc: runPartitionDelete},
	"partition-dates":   {runnerFunc: runPartitionDates},
	"table-crup":        {runnerFunc: runTableCrup},
	"table-list":        {runnerFunc: runTableList},
	"schema-export":     {runnerFunc: runSchemaExport},
	"schema-import":     {runnerFunc: runSchemaImport},
	"schema-dictionary": {runnerFunc: runSchemaDictionary},
	"schema-meta":       {runnerFunc: runSchemaMeta},
	"file-get":          {runnerFunc: runFileGet},
	"file-put":          {runnerFunc: runFilePut},
	"file-cp":           {runnerFunc: runFileCopy},
	"file-mv":           {runnerFunc: runFileMove},
	"file-rm":           {runnerFunc: runFileDelete},
	"file-ls":           {runnerFunc: runFileList},
}

// readTwelveFactorVars saves the values of twelveFactorVars from the environment and returns the action key,
// which is the command alone or <command>-<subcommand>.
func readTwelveFactorVars(log logger.Logger) string {
	for k := range twelveFactorVars { // for each env variable that we need...
		twelveFactorVars[k] = os.Getenv(k)
		log.Debug(k, "=", twelveFactorVars[k])
	}
	if twelveFactorVars[envVarSubcommand] == "" {
		return twelveFactorVars[envVarCommand]
	}
	return fmt.Sprintf("%v-%v", twelveFactorVars[envVarCommand], twelveFactorVars[envVarSubcommand])
}

// newTwelveFactorLogger always logs JSON in lambda mode.
func newTwelveFactorLogger() logger.Logger {
	logLevel := helper.ReadValueFromEnvWithDefault(envVarLogLevel, "info")
	stackDump := stackDumpOnPanic || helper.ReadBoolFromEnvWithDefault(envVarStackDump, false)
	if lambdaMode {
		return logger.NewJSONLogger(c.ServiceName, logLevel, stackDump)
	}
	return logger.NewLogger(c.ServiceName, logLevel, stackDump)
}

func execute12FactorMode(acts map[string]twelveFactorAction) (err error) {
	log := newTwelveFactorLogger()
	log.Info("Lakepipe is running in 12 Factor mode...")
	action := readTwelveFactorVars(log)
	a, ok := acts[action]
	if !ok {
		err = fmt.Errorf("invalid combination of command (%v) and subcommand (%v)", twelveFactorVars[envVarCommand], twelveFactorVars[envVarSubcommand])
		log.Error(err.Error())
		return
	}
	// Run the action.
	err = a.runnerFunc()
	if err != nil {
		log.Error("Error: ", err)
	}
	return err
}

// newLambdaHandler returns the function started by the Lambda runtime.
// Stages are given the invocation event while other actions run from their environment variables
// and return the event unchanged.
func newLambdaHandler(acts map[string]twelveFactorAction, getStage func(action string) (actions.StageFunc, error)) func(ctx context.Context, e event.Event) (event.Response, error) {
	log := newTwelveFactorLogger()
	action := readTwelveFactorVars(log)
	return func(ctx context.Context, e event.Event) (event.Response, error) {
		a, ok := acts[action]
		if !ok {
			err := errkind.Errorf(errkind.Configuration, "lambda", "unsupported action %q", action)
			log.Error(err)
			return event.Response{}, err
		}
		if !a.stage {
			if err := a.runnerFunc(); err != nil {
				log.Error("Error: ", err)
				return event.Response{}, err
			}
			return event.OK(e), nil
		}
		fn, err := getStage(action)
		if err != nil {
			log.Error("Error: ", err)
			return event.Response{}, err
		}
		resp, err := fn(ctx, e)
		if err != nil {
			log.Error("Error: ", err)
		}
		return resp, err
	}
}
