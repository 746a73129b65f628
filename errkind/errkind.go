// Package errkind classifies pipeline failures so callers can decide on status codes and retries
// without inspecting AWS error codes or OS errors themselves.
package errkind

import (
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/glue"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/pkg/errors"
)

type Kind int

const (
	Unknown Kind = iota
	NotFound
	AlreadyExists
	ExternalService
	Configuration
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case AlreadyExists:
		return "AlreadyExists"
	case ExternalService:
		return "ExternalService"
	case Configuration:
		return "Configuration"
	default:
		return "Unknown"
	}
}

// Error wraps a failure with its Kind and the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%v: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%v: %v", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether a caller may reasonably retry the operation.
// Only failures of remote services qualify.
func (e *Error) Retryable() bool {
	return e.Kind == ExternalService
}

// New returns an *Error of the given kind.
func New(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf formats a message into a new *Error of the given kind.
func Errorf(kind Kind, op string, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind of the first *Error found in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsRetryable reports whether err may be retried.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable()
	}
	return false
}

// StatusCode maps err to the string status codes returned by file operations.
func StatusCode(err error) string {
	if err == nil {
		return "200"
	}
	switch KindOf(err) {
	case Configuration:
		return "400"
	case NotFound:
		return "404"
	case AlreadyExists:
		return "409"
	default:
		return "500"
	}
}

// FromAWS classifies an AWS SDK error by its error code.
// Errors that are already classified are returned unchanged.
func FromAWS(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if aerr, ok := err.(awserr.Error); ok {
		switch aerr.Code() {
		case glue.ErrCodeEntityNotFoundException, s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, "NotFound":
			return New(NotFound, op, err)
		case glue.ErrCodeAlreadyExistsException:
			return New(AlreadyExists, op, err)
		case "ValidationException", glue.ErrCodeInvalidInputException:
			return New(Configuration, op, err)
		}
	}
	return New(ExternalService, op, err)
}

// FromOS classifies a local file system error.
func FromOS(op string, err error) error {
	if err == nil {
		return nil
	}
	if os.IsNotExist(errors.Cause(err)) || os.IsNotExist(err) {
		return New(NotFound, op, err)
	}
	if os.IsExist(errors.Cause(err)) {
		return New(AlreadyExists, op, err)
	}
	return New(Unknown, op, err)
}
