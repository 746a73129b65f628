package config

import (
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/helper"
)

// Getter fetches a key from a config source into out.
type Getter interface {
	Get(key string, out interface{}) error
}

// Pipeline holds the settings shared by every pipeline stage.
type Pipeline struct {
	Region                    string `errorTxt:"AWS region" mandatory:"yes"`
	WorkFolder                string `errorTxt:"work folder" mandatory:"yes"`
	StepFnArn                 string
	GlueTableInputTemplateUrl string
	LogLevel                  string
	StackDump                 bool
}

// LoadPipeline builds a Pipeline from the environment, falling back to values in file and then defaults.
// The file may be nil.
func LoadPipeline(file Getter) (*Pipeline, error) {
	get := func(envVar string, key string, defaultValue string) string {
		v := helper.ReadValueFromEnvWithDefault(envVar, "")
		if v == "" && file != nil { // if the env var is not set try the file...
			_ = file.Get(key, &v)
		}
		if v == "" {
			v = defaultValue
		}
		return v
	}
	p := &Pipeline{
		Region:                    get(constants.EnvVarRegion, "region", constants.DefaultRegion),
		WorkFolder:                get(constants.EnvVarWorkFolder, "work-folder", constants.DefaultWorkFolder),
		StepFnArn:                 get(constants.EnvVarStepFnArn, "step-fn-arn", ""),
		GlueTableInputTemplateUrl: get(constants.EnvVarGlueTemplateUrl, "glue-table-input-template-url", constants.DefaultGlueTemplateUrl),
		LogLevel:                  get(constants.EnvVarLogLevel, "log-level", "info"),
		StackDump:                 helper.GetTrueFalseStringAsBool(get(constants.EnvVarStackDump, "stack-dump", "false")),
	}
	if err := helper.ValidateStructIsPopulated(p); err != nil {
		return nil, err
	}
	return p, nil
}
