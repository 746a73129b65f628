package actions

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/relloyd/lakepipe/aws/glue"
	"github.com/relloyd/lakepipe/aws/s3"
	"github.com/relloyd/lakepipe/aws/session"
	"github.com/relloyd/lakepipe/aws/sfn"
	"github.com/relloyd/lakepipe/catalog"
	"github.com/relloyd/lakepipe/config"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/convert"
	"github.com/relloyd/lakepipe/errkind"
	"github.com/relloyd/lakepipe/event"
	"github.com/relloyd/lakepipe/file"
	"github.com/relloyd/lakepipe/logger"
	"github.com/relloyd/lakepipe/trigger"
	"github.com/relloyd/lakepipe/unzip"
)

// StageFunc handles one pipeline event.
type StageFunc func(ctx context.Context, e event.Event) (event.Response, error)

// Pipeline holds the clients shared by the stages and the command line utilities.
type Pipeline struct {
	Log          logger.Logger
	Config       *config.Pipeline
	FunctionName string // the Lambda function name used to resolve $Stack in state machine ARNs
	Files        *file.Store
	Catalog      *catalog.Client
	Stages       map[string]StageFunc

	sess    client.ConfigProvider
	mu      sync.Mutex
	buckets map[string]s3.Client
}

// NewPipeline creates an AWS session for cfg.Region and wires the stages to it.
func NewPipeline(log logger.Logger, cfg *config.Pipeline, functionName string) (*Pipeline, error) {
	sess, err := session.New(cfg.Region)
	if err != nil {
		return nil, errkind.New(errkind.Configuration, "new pipeline", err)
	}
	return NewPipelineWithSession(log, cfg, functionName, sess), nil
}

// NewPipelineWithSession wires the stages to an existing session.
func NewPipelineWithSession(log logger.Logger, cfg *config.Pipeline, functionName string, sess client.ConfigProvider) *Pipeline {
	p := &Pipeline{
		Log:          log,
		Config:       cfg,
		FunctionName: functionName,
		sess:         sess,
		buckets:      make(map[string]s3.Client),
	}
	p.Files = &file.Store{Log: log, OpenBucket: p.Bucket}
	p.Catalog = &catalog.Client{API: glue.NewCatalogAPI(sess), Log: log}
	extractor := &unzip.Extractor{
		Log:        log,
		OpenBucket: func(name string) unzip.Bucket { return p.Bucket(name) },
		WorkRoot:   cfg.WorkFolder,
	}
	initiator := &trigger.Initiator{
		Log:          log,
		SFN:          sfn.NewExecutionStarter(sess),
		FallbackArn:  cfg.StepFnArn,
		FunctionName: functionName,
	}
	converter := &convert.Converter{
		Log:       log,
		Catalog:   p.Catalog,
		Files:     p.Files,
		Registrar: p.Catalog,
	}
	p.Stages = map[string]StageFunc{
		constants.ActionUnzip:    extractor.Handle,
		constants.ActionInitiate: initiator.Initiate,
		constants.ActionConvert:  converter.Handle,
	}
	return p
}

// Bucket returns the cached S3 client for name.
func (p *Pipeline) Bucket(name string) s3.Client {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.buckets[name]
	if !ok { // if this is the first use of the bucket...
		c = s3.NewClient(name, "", p.sess)
		p.buckets[name] = c
	}
	return c
}

// Stage returns the handler registered for action.
func (p *Pipeline) Stage(action string) (StageFunc, error) {
	return lookupStage(p.Stages, action)
}

func lookupStage(stages map[string]StageFunc, action string) (StageFunc, error) {
	fn, ok := stages[action]
	if !ok {
		return nil, errkind.Errorf(errkind.Configuration, "stage", "unsupported action %q", action)
	}
	return fn, nil
}
