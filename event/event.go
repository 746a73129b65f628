// Package event models the open parameter dictionary that flows between pipeline stages.
// Stages read the keys they know and append their own; unknown keys pass through untouched.
package event

import (
	"encoding/json"
	"net/url"
	"path"

	"github.com/aws/aws-lambda-go/events"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/errkind"
)

const (
	KeyProcessParms  = "process_parms"
	KeyBatchParms    = "batch_parms"
	KeySource        = "source"
	KeyDetail        = "detail"
	KeyRecords       = "Records"
	KeyStepFnExecArn = "StepFnExecArn"
	SourceS3         = "aws.s3"
)

// Event is the JSON object a stage is invoked with.
type Event map[string]interface{}

// Parse decodes a JSON object into an Event.
func Parse(b []byte) (Event, error) {
	e := make(Event)
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, errkind.New(errkind.Configuration, "parse event", err)
	}
	return e, nil
}

// Params returns the parameter block stored under key, adding an empty one to the event if it is missing.
func (e Event) Params(key string) Params {
	switch v := e[key].(type) {
	case Params:
		return v
	case map[string]interface{}:
		p := Params(v)
		e[key] = p
		return p
	}
	p := make(Params)
	e[key] = p
	return p
}

// Source returns the top level "source" field.
func (e Event) Source() string {
	s, _ := e[KeySource].(string)
	return s
}

// ObjectRef identifies the S3 object that caused the event.
type ObjectRef struct {
	Bucket string
	Key    string
}

// Folder returns the key without its final path segment; empty for keys at the bucket root.
func (o ObjectRef) Folder() string {
	d := path.Dir(o.Key)
	if d == "." || d == "/" {
		return ""
	}
	return d
}

// Name returns the final path segment of the key.
func (o ObjectRef) Name() string {
	return path.Base(o.Key)
}

type objectCreatedDetail struct {
	Bucket struct {
		Name string `mapstructure:"name"`
	} `mapstructure:"bucket"`
	Object struct {
		Key string `mapstructure:"key"`
	} `mapstructure:"object"`
}

// DetailObject returns the object of an EventBridge "Object Created" event (source aws.s3).
func (e Event) DetailObject() (ObjectRef, error) {
	if e.Source() != SourceS3 {
		return ObjectRef{}, errkind.Errorf(errkind.Configuration, "event detail", "unsupported event source %q", e.Source())
	}
	var d objectCreatedDetail
	if err := mapstructure.Decode(e[KeyDetail], &d); err != nil {
		return ObjectRef{}, errkind.New(errkind.Configuration, "event detail", err)
	}
	if d.Bucket.Name == "" || d.Object.Key == "" {
		return ObjectRef{}, errkind.Errorf(errkind.Configuration, "event detail", "missing detail.bucket.name or detail.object.key")
	}
	return ObjectRef{Bucket: d.Bucket.Name, Key: d.Object.Key}, nil
}

// Object returns the object that caused the event. Three shapes are accepted:
// an EventBridge event with source aws.s3, an S3 notification with Records,
// and a direct invocation carrying S3BucketName and S3Key.
func (e Event) Object() (ObjectRef, error) {
	if e.Source() != "" {
		return e.DetailObject()
	}
	if _, ok := e[KeyRecords]; ok {
		return e.notificationObject()
	}
	var direct struct {
		S3BucketName string
		S3Key        string
	}
	if err := mapstructure.Decode(map[string]interface{}(e), &direct); err != nil {
		return ObjectRef{}, errkind.New(errkind.Configuration, "event object", err)
	}
	if direct.S3BucketName == "" || direct.S3Key == "" {
		return ObjectRef{}, errkind.Errorf(errkind.Configuration, "event object", "event does not name an S3 object")
	}
	return ObjectRef{Bucket: direct.S3BucketName, Key: direct.S3Key}, nil
}

func (e Event) notificationObject() (ObjectRef, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return ObjectRef{}, errors.Wrap(err, "error encoding S3 notification")
	}
	var n events.S3Event
	if err = json.Unmarshal(b, &n); err != nil {
		return ObjectRef{}, errkind.New(errkind.Configuration, "event records", err)
	}
	if len(n.Records) == 0 {
		return ObjectRef{}, errkind.Errorf(errkind.Configuration, "event records", "S3 notification has no records")
	}
	r := n.Records[0].S3
	key, err := url.QueryUnescape(r.Object.Key) // notification keys are form encoded
	if err != nil {
		return ObjectRef{}, errkind.New(errkind.Configuration, "event records", err)
	}
	return ObjectRef{Bucket: r.Bucket.Name, Key: key}, nil
}

// Response is returned by every stage.
type Response struct {
	StatusCode int   `json:"statusCode"`
	Body       Event `json:"body"`
}

// OK wraps e in a 200 response.
func OK(e Event) Response {
	return Response{StatusCode: 200, Body: e}
}
