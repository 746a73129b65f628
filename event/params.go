package event

import (
	"github.com/mitchellh/mapstructure"
	"github.com/relloyd/lakepipe/errkind"
	"github.com/relloyd/lakepipe/helper"
)

const (
	ParamS3ExtractFolder    = "S3ExtractFolder"
	ParamS3InputFolder      = "S3InputFolder"
	ParamZipExtracted       = "ZipExtracted"
	ParamGlueDatabaseName   = "GlueDatabaseName"
	ParamS3LandingPadBucket = "S3LandingPadBucket"
	ParamS3LandingPadInput  = "S3LandingPadInput"
	ParamS3DatalakeBucket   = "S3DatalakeBucket"
	ParamS3DatalakeOutput   = "S3DatalakeOutput"
	ParamConverted          = "Converted"
	ParamBatchId            = "BatchId"
	ParamStepFnArn          = "StepFnArn"
	ParamExecName           = "ExecName"
)

// Params is an open parameter block such as process_parms or batch_parms.
type Params map[string]interface{}

// String returns the value of key if it is a non-empty string.
func (p Params) String(key string) (string, bool) {
	s, ok := p[key].(string)
	return s, ok && s != ""
}

// Set stores v under key.
func (p Params) Set(key string, v interface{}) {
	p[key] = v
}

// Decode copies the known keys of p into out, a pointer to a struct.
func (p Params) Decode(out interface{}) error {
	if err := mapstructure.Decode(map[string]interface{}(p), out); err != nil {
		return errkind.New(errkind.Configuration, "decode params", err)
	}
	return nil
}

// Manifest records what the extractor wrote.
type Manifest struct {
	GlueTableNames   []string `json:"GlueTableNames" mapstructure:"GlueTableNames"`
	PartitionFolders []string `json:"PartitionFolders" mapstructure:"PartitionFolders"`
	S3ExtractedUrls  []string `json:"S3ExtractedUrls" mapstructure:"S3ExtractedUrls"`
}

func NewManifest() *Manifest {
	return &Manifest{
		GlueTableNames:   make([]string, 0),
		PartitionFolders: make([]string, 0),
		S3ExtractedUrls:  make([]string, 0),
	}
}

// Add records one uploaded member. Table and partition names are kept once each, in first-seen order.
func (m *Manifest) Add(table, partition, url string) {
	m.GlueTableNames = helper.UniqueStrings(append(m.GlueTableNames, table))
	m.PartitionFolders = helper.UniqueStrings(append(m.PartitionFolders, partition))
	m.S3ExtractedUrls = append(m.S3ExtractedUrls, url)
}

// ProcessParms is the typed view of process_parms used by the extractor and converter.
type ProcessParms struct {
	S3ExtractFolder    string
	S3InputFolder      string
	GlueDatabaseName   string `errorTxt:"GlueDatabaseName" mandatory:"yes"`
	S3LandingPadBucket string `errorTxt:"S3LandingPadBucket" mandatory:"yes"`
	S3LandingPadInput  string
	S3DatalakeBucket   string `errorTxt:"S3DatalakeBucket" mandatory:"yes"`
	S3DatalakeOutput   string
	ZipExtracted       Manifest
}

// BatchParms is the typed view of batch_parms used by the trigger.
type BatchParms struct {
	BatchId   string
	StepFnArn string
	ExecName  string
}
