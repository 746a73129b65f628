// Package session builds the shared AWS session used by the S3, Glue and Step Functions clients.
package session

import (
	"github.com/aws/aws-sdk-go/aws"
	awssession "github.com/aws/aws-sdk-go/aws/session"
	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/constants"
)

// New returns a session for region, defaulting to constants.DefaultRegion.
// Credentials come from the standard provider chain.
func New(region string) (*awssession.Session, error) {
	if region == "" {
		region = constants.DefaultRegion
	}
	sess, err := awssession.NewSessionWithOptions(awssession.Options{
		Config:            *aws.NewConfig().WithRegion(region),
		SharedConfigState: awssession.SharedConfigEnable,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error creating AWS session for region %v", region)
	}
	return sess, nil
}
