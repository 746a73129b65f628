// Package trigger starts the workflow state machine for an archive that landed in S3.
package trigger

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sfn"
	awssfn "github.com/relloyd/lakepipe/aws/sfn"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/errkind"
	"github.com/relloyd/lakepipe/event"
	"github.com/relloyd/lakepipe/helper"
	"github.com/relloyd/lakepipe/logger"
)

// Initiator starts one state machine execution per event.
type Initiator struct {
	Log          logger.Logger
	SFN          awssfn.ExecutionStarter
	FallbackArn  string           // used when batch_parms has no StepFnArn
	FunctionName string           // replaces $Stack in the ARN, up to its last "-"
	Now          func() time.Time // defaults to time.Now
}

// Initiate adds BatchId, StepFnArn and ExecName to the event's batch_parms and starts the execution.
// Without an ARN it logs and returns the augmented event without starting anything.
func (i *Initiator) Initiate(ctx context.Context, e event.Event) (event.Response, error) {
	if e.Source() == "" {
		return event.Response{}, errkind.Errorf(errkind.Configuration, "initiate", "event source not specified")
	}
	obj, err := e.DetailObject()
	if err != nil {
		return event.Response{}, err
	}
	bp := e.Params(event.KeyBatchParms)
	parms := event.BatchParms{}
	if err = bp.Decode(&parms); err != nil {
		return event.Response{}, err
	}
	parms.BatchId = obj.Name()
	bp.Set(event.ParamBatchId, parms.BatchId)
	if parms.StepFnArn == "" && i.FallbackArn != "" { // if the event has no ARN use the configured one...
		parms.StepFnArn = i.FallbackArn
		bp.Set(event.ParamStepFnArn, parms.StepFnArn)
	}
	log := i.Log.WithField("batchId", parms.BatchId)
	if parms.StepFnArn == "" {
		log.Warn("no step function ARN to execute")
		return event.OK(e), nil
	}
	arn := strings.Replace(parms.StepFnArn, constants.StackPlaceholder, stackName(i.FunctionName), -1)
	parms.ExecName = i.now().Format(constants.TimeFormatExecName) + "-" + parms.BatchId
	bp.Set(event.ParamExecName, parms.ExecName)
	input, err := json.Marshal(e)
	if err != nil {
		return event.Response{}, errkind.New(errkind.Unknown, "encode execution input", err)
	}
	out, err := i.SFN.StartExecutionWithContext(ctx, &sfn.StartExecutionInput{
		StateMachineArn: aws.String(arn),
		Name:            aws.String(parms.ExecName),
		Input:           aws.String(string(input)),
	})
	if err != nil {
		return event.Response{}, errkind.FromAWS("start execution "+arn, err)
	}
	e[event.KeyStepFnExecArn] = aws.StringValue(out.ExecutionArn)
	log.Info("started execution ", parms.ExecName, " of ", arn)
	return event.OK(e), nil
}

func (i *Initiator) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}

// stackName returns the function name up to its last "-", or the whole name when it has none.
func stackName(functionName string) string {
	name, _ := helper.SplitRight(functionName, "-")
	return name
}
