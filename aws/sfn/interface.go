//go:generate mockgen -package mocks -destination mocks/interface.go -source=interface.go
package sfn

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/sfn"
)

// ExecutionStarter starts state machine executions. It is satisfied by *sfn.SFN.
type ExecutionStarter interface {
	StartExecutionWithContext(ctx aws.Context, input *sfn.StartExecutionInput, opts ...request.Option) (*sfn.StartExecutionOutput, error)
}

// NewExecutionStarter returns the SDK client for sess.
func NewExecutionStarter(sess client.ConfigProvider) ExecutionStarter {
	return sfn.New(sess)
}
