package cmd

import (
	"net"

	"github.com/relloyd/lakepipe/actions"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a web service that runs pipeline stages for events posted as JSON",
	Long: `Start a web service that runs pipeline stages for events posted as JSON.
Routes: POST /unzip, POST /initiate, POST /convert, GET /health, GET /runs,
GET /runs/{runId} and /stop to shut down the server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logLevel = serveConfig.LogLevel
		p, err := newPipeline()
		if err != nil {
			return err
		}
		serveConfig.Stages = p.Stages
		serveConfig.StackDumpOnPanic = stackDumpOnPanic
		return actions.RunWebServer(&serveConfig)
	},
}

var serveConfig = actions.WebServerConfig{
	LogLevel: "info",
	Scheme:   "http",
	Addr:     net.IP{0, 0, 0, 0},
	Port:     8080,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().SortFlags = false
	serveCmd.Flags().IPVarP(&serveConfig.Addr, "address", "a", net.IP{0, 0, 0, 0}, "Address to listen on")
	switches.addFlag(serveCmd, &serveConfig.Port, "port", "8080", false, "")
	switches.addFlag(serveCmd, &functionName, "function-name", "", false, "")
	switches.addFlag(serveCmd, &serveConfig.LogLevel, "log-level", "info", false, "")
}
