package cmd

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/relloyd/lakepipe/config"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/helper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type cliFlag struct {
	name      string // name of flag
	val       string // default value
	shortHand string // single character name for the flag
	desc      string // description of the flag; the long text
}

type cliFlags map[string]cliFlag

var switches = cliFlags{
	"mock": cliFlag{name: "mock", shortHand: "m", desc: "mock switch for testing"},
	"log-level": cliFlag{name: "log-level", shortHand: "l",
		desc: "Log level: \"error | warn | info | debug\""},
	"event": cliFlag{name: "event", shortHand: "e",
		desc: "The event JSON to process. Takes priority over 'event-file'"},
	"event-file": cliFlag{name: "event-file", shortHand: "f",
		desc: "File containing the event JSON to process (default: read stdin)"},
	"function-name": cliFlag{name: "function-name", shortHand: "n",
		desc: "Function name whose prefix, up to the last '-', replaces $Stack in state machine ARNs"},
	"database": cliFlag{name: "database", shortHand: "d",
		desc: "Glue database name"},
	"table": cliFlag{name: "table", shortHand: "t",
		desc: "Glue table name"},
	"tables": cliFlag{name: "tables", shortHand: "T",
		desc: "CSV list of Glue table names (omit for all tables in the database)"},
	"values": cliFlag{name: "values", shortHand: "v",
		desc: "CSV list of partition values, one per partition key"},
	"pattern": cliFlag{name: "pattern", shortHand: "p",
		desc: "Regular expression used to filter results (omit to match all)"},
	"layout": cliFlag{name: "layout", shortHand: "L",
		desc: "Go time layout used to name daily partitions"},
	"begin-date": cliFlag{name: "begin-date", shortHand: "b",
		desc: "First day to register using format YYYY-MM-DD (default: today)"},
	"end-date": cliFlag{name: "end-date", shortHand: "E",
		desc: "Last day to register using format YYYY-MM-DD (default: begin-date)"},
	"columns-url": cliFlag{name: "columns-url", shortHand: "c",
		desc: "Location of the table columns as JSON, YAML or RAML (.raml), \n" +
			"e.g. file://columns.json or s3://<bucket>/<key>"},
	"template-url": cliFlag{name: "template-url", shortHand: "u",
		desc: "Location of the Glue table input template"},
	"input": cliFlag{name: "input", shortHand: "i",
		desc: "Input location, file://<path> or s3://<bucket>/<key> (default: read stdin)"},
	"output": cliFlag{name: "output", shortHand: "o",
		desc: "Output location, file://<path> or s3://<bucket>/<key> (default: write stdout)"},
	"append": cliFlag{name: "append", shortHand: "a",
		desc: "Append to the target instead of replacing it (local files only)"},
	"port": cliFlag{name: "port", shortHand: "p",
		desc: "Port to listen on"},
}

// addFlag add a flag to combra.Command c, based on the type of targetVar (which must be a pointer).
// The name of the flag is looked up in map, cliFlags.
// When running in twelveFactorMode, the targetVar is populated using the value of environment variable for the supplied
// name, or if not set then the supplied default value is used.
// When NOT running in twelveFactorMode, the default value is fetched from config if it exists else the supplied
// defaultValue is applied.
// The flag is marked as required in Cobra based on the value of required.
// Supply a value for desc2 to append to the existing description found in map cliFlags.
func (f *cliFlags) addFlag(c *cobra.Command, targetVar interface{}, name string, defaultValue string, required bool, desc2 string) {
	v := reflect.ValueOf(targetVar)
	if v.Kind() != reflect.Ptr {
		fmt.Println("error adding flag: targetVar must be a pointer")
		os.Exit(1)
	}
	sw := f.getCliFlag(name, defaultValue, config.Main.Get) // get the cliFlag details, with defaults taken from config or the supplied defaultValue
	desc := sw.desc + desc2                                 // create the full flag description for use below
	// Apply the flag.
	switch p := targetVar.(type) {
	case *string:
		if twelveFactorMode {
			*p = sw.val
		} else {
			c.Flags().StringVarP(p, sw.name, sw.shortHand, sw.val, desc)
			// Signal that the flag was set so defaults take effect.
			if sw.val != "" { // if there is a value via config or default...
				mustSetFlag(c.Flags(), sw.name, sw.val)
			}
		}
	case *bool:
		defaultBool := helper.GetTrueFalseStringAsBool(sw.val)
		if twelveFactorMode {
			*p = defaultBool
		} else {
			c.Flags().BoolVarP(p, sw.name, sw.shortHand, defaultBool, desc)
			mustSetFlag(c.Flags(), sw.name, strconv.FormatBool(defaultBool))
		}
	case *int:
		defaultInt, err := strconv.Atoi(sw.val)
		if err != nil {
			fmt.Printf("the value for flag %q must be an integer: %v\n", sw.name, err)
			os.Exit(1)
		}
		if twelveFactorMode {
			*p = defaultInt
		} else {
			c.Flags().IntVarP(p, sw.name, sw.shortHand, defaultInt, desc)
			if sw.val != "" { // if there is a value via config or default...
				mustSetFlag(c.Flags(), sw.name, sw.val)
			}
		}
	case *[]string:
		defaultSlice := splitCsv(sw.val)
		if twelveFactorMode {
			*p = defaultSlice
		} else {
			c.Flags().StringSliceVarP(p, sw.name, sw.shortHand, defaultSlice, desc)
		}
	default:
		panic("Error: unhandled CLI flag target value type")
	}
	// Optionally mark the flag as mandatory.
	if required && !twelveFactorMode { // if the flag is required...
		_ = c.MarkFlagRequired(sw.name)
	}
}

// getCliFlag fetches the value of name from the environment, when running in twelveFactorMode,
// else read the Main config file to find it.
// If a value cannot be found then use the supplied defaultValue in its place.
func (f *cliFlags) getCliFlag(name string, defaultValue string, fnGetConfig func(key string, out interface{}) error) cliFlag {
	s, ok := switches[name]
	if !ok {
		panic(fmt.Sprintf("unregistered CLI flag, %q", name))
	}
	if twelveFactorMode { // if we should read env vars...
		if err := helper.ReadValueFromEnv(flagNameToEnvVar(name), &s.val); err != nil { // if there's no value for the env var read into the switch val...
			// Apply the default.
			s.val = defaultValue
		}
	} else { // else check the config file or apply default...
		err := fnGetConfig(s.name, &s.val)
		if errors.As(err, &config.KeyNotFoundError{}) || s.val == "" { // if there was no key found...
			// Apply the default.
			s.val = defaultValue
		}
	}
	return s
}

// flagNameToEnvVar will form a sanitised environment variable name using constants.EnvVarPrefix.
func flagNameToEnvVar(name string) string {
	return constants.EnvVarPrefix + "_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func mustSetFlag(f *pflag.FlagSet, name string, val string) {
	if err := f.Set(name, val); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// splitCsv returns the trimmed, non-empty values in s.
func splitCsv(s string) []string {
	retval := make([]string, 0)
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			retval = append(retval, v)
		}
	}
	return retval
}
