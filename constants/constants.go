package constants

const (
	TimeFormatYearSeconds      = "20060102T150405" // used for human readable file names
	TimeFormatYearSecondsRegex = "[0-9]{4}[0-9]{2}[0-9]{2}T[0-9]{6}"
	TimeFormatYearSecondsTZ    = "20060102T150405-0700"
	TimeFormatWorkFolder       = "20060102-150405"        // scratch folder prefix
	TimeFormatExecName         = "060102-150405"          // state machine execution name prefix
	TimeFormatDatePartition    = "D060102.Full"           // default daily partition value
	EmojiBang                  = "\U0001F4A5"
	EnvVarPrefix               = "LP" // prefixed for environment variables in twelveFactorMode
	EnvVarTwelveFactorMode     = EnvVarPrefix + "_12FACTOR_MODE"
	EnvVarCommand              = EnvVarPrefix + "_COMMAND"
	EnvVarEvent                = EnvVarPrefix + "_EVENT"
	EnvVarLogLevel             = EnvVarPrefix + "_LOG_LEVEL"
	EnvVarStackDump            = EnvVarPrefix + "_STACK_DUMP"
	EnvVarRegion               = "AWS_DEFAULT_REGION"
	EnvVarWorkFolder           = "WorkFolder"
	EnvVarStepFnArn            = "StepFnArn"
	EnvVarGlueTemplateUrl      = "GlueTableInputTemplateUrl"
	DefaultRegion              = "us-gov-west-1"
	DefaultWorkFolder          = "/tmp/unzip"
	DefaultGlueTemplateUrl     = "file://data/glue_table_input_template.json"
	DefaultConfigDir           = "~/.lakepipe"
	DefaultConfigFile          = "config.yaml"
	StackPlaceholder           = "$Stack"
	SchemeS3                   = "s3"
	SchemeFile                 = "file"
	ServiceName                = "lakepipe"
	ActionUnzip                = "unzip"
	ActionInitiate             = "initiate"
	ActionConvert              = "convert"
)
