package cmd

import (
	"fmt"

	"github.com/relloyd/lakepipe/constants"
	"github.com/spf13/cobra"
)

var twelveFactorCmd = &cobra.Command{
	Use:   "12f",
	Short: `View help notes for running in Twelve-Factor mode`,
	Long: fmt.Sprintf(`
Lakepipe can be controlled by environment variables, which is how it runs as
an AWS Lambda function.

To enable Twelve-Factor mode, set environment variable %[1]s_12FACTOR_MODE=1, or
%[1]s_12FACTOR_MODE=lambda to start the Lambda runtime. Choose the action with
%[1]s_COMMAND and, for commands with subcommands, %[1]s_SUBCOMMAND.
To supply flags documented by the regular command-line usage, set an
equivalent environment variable using the following convention:

%[1]s_<flag long-name in upper case>

For example, this Lambda function unzips the archives named by the events
it is invoked with:

export %[1]s_12FACTOR_MODE=lambda
export %[1]s_COMMAND=unzip
export WorkFolder=/tmp/unzip

While this registers today's partition for every table in a database:

export %[1]s_12FACTOR_MODE=1
export %[1]s_COMMAND=partition
export %[1]s_SUBCOMMAND=dates
export %[1]s_DATABASE=finance

Outside Lambda, stages read the event from %[1]s_EVENT or stdin.

`, constants.EnvVarPrefix),
}

func init() {
	rootCmd.AddCommand(twelveFactorCmd)
}
