package cmd

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/relloyd/lakepipe/actions"
	"github.com/relloyd/lakepipe/config"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/logger"
)

var (
	logLevel     string // shared by the stage and utility commands
	functionName string // defaults to the Lambda function name, if any
)

// newPipeline loads the pipeline settings from the environment and config file and wires the AWS clients.
// The log-level flag takes priority over the configured level.
func newPipeline() (*actions.Pipeline, error) {
	cfg, err := config.LoadPipeline(config.Main)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	log := logger.NewLogger(constants.ServiceName, cfg.LogLevel, stackDumpOnPanic || cfg.StackDump)
	name := functionName
	if name == "" {
		name = lambdacontext.FunctionName
	}
	return actions.NewPipeline(log, cfg, name)
}

// withEnv returns a runner that calls fn with an Env over a new pipeline.
func withEnv(fn func(ctx context.Context, env *actions.Env) error) func() error {
	return func() error {
		p, err := newPipeline()
		if err != nil {
			return err
		}
		return fn(context.Background(), p.Env())
	}
}

var (
	lambdaPipeline     *actions.Pipeline
	lambdaPipelineErr  error
	lambdaPipelineOnce sync.Once
)

// getLambdaStage returns the stage for action from a pipeline that is built once per container.
func getLambdaStage(action string) (actions.StageFunc, error) {
	lambdaPipelineOnce.Do(func() {
		lambdaPipeline, lambdaPipelineErr = newPipeline()
	})
	if lambdaPipelineErr != nil {
		return nil, lambdaPipelineErr
	}
	return lambdaPipeline.Stage(action)
}
