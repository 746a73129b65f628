package actions

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/constants"
	"github.com/relloyd/lakepipe/helper"
	"github.com/relloyd/lakepipe/logger"
)

type WebServerConfig struct {
	LogLevel         string `errorTxt:"log level" mandatory:"yes"`
	Scheme           string `errorTxt:"scheme" mandatory:"no"`
	Addr             net.IP `errorTxt:"address" mandatory:"no"`
	Port             int    `errorTxt:"port" mandatory:"yes"`
	StackDumpOnPanic bool
	Stages           map[string]StageFunc
}

func RunWebServer(web *WebServerConfig) error {
	// Setup logging.
	if web == nil {
		return errors.New("nil pointer to web server config supplied")
	}
	log := logger.NewLogger(constants.ServiceName, web.LogLevel, web.StackDumpOnPanic)
	// Check if we have valid input params.
	err := helper.ValidateStructIsPopulated(web)
	if err != nil {
		return err
	}
	if len(web.Stages) == 0 {
		return errors.New("no pipeline stages supplied to the web server")
	}
	// Start the web server.
	srv, chanStopServer := runServer(log, web)
	// Block & wait for completion.
	return waitForServer(log, srv, chanStopServer)
}

// newRouter registers a POST route per stage plus the health, stop and run routes.
func newRouter(log logger.Logger, stages map[string]StageFunc, allRunInfo *SafeMapRunInfo, chanStopServer chan string) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/stop", GetHandlerStopServer(log, chanStopServer))
	r.Path("/health").Methods(http.MethodGet).HandlerFunc(GetHandlerHealth(log))
	r.Path("/runs").Methods(http.MethodGet).HandlerFunc(GetHandlerRunList(log, allRunInfo))
	r.Path("/runs/{runId}").Methods(http.MethodGet).HandlerFunc(GetHandlerRunStatus(log, allRunInfo))
	for action, fn := range stages { // for each stage...
		r.Path("/" + action).Methods(http.MethodPost).HandlerFunc(GetHandlerStage(log, allRunInfo, action, fn))
	}
	return r
}

// runServer starts a web server and returns:
// 1) the server; and
// 2) a channel that can be used to stop the web server
func runServer(log logger.Logger, web *WebServerConfig) (*http.Server, chan string) {
	chanStopServer := make(chan string, 1)
	r := newRouter(log, web.Stages, NewSafeMapRunInfo(), chanStopServer)
	// Configure HTTP server.
	// Stages download and convert whole archives so the write timeout is generous.
	srv := &http.Server{
		Addr:         fmt.Sprintf("%v:%v", web.Addr, web.Port),
		WriteTimeout: time.Minute * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      r,
	}
	// Run HTTP server non-blocking.
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			if err == http.ErrServerClosed {
				log.Info(err)
			} else {
				log.Panic(err)
			}
		}
	}()
	log.Info(fmt.Sprintf("Listening on %v://%v:%v", strings.ToLower(web.Scheme), web.Addr, web.Port))
	return srv, chanStopServer
}

func waitForServer(log logger.Logger, srv *http.Server, chanStopServer chan string) error {
	// Accept graceful shutdowns when quit via SIGINT (Ctrl+C)
	// SIGKILL, SIGQUIT or SIGTERM (Ctrl+\) will not be caught.
	chanOS := make(chan os.Signal, 1)
	signal.Notify(chanOS, os.Interrupt)
	select {
	case <-chanStopServer:
	case <-chanOS:
	}
	fmt.Println() // print new line char for clean looking CLI.
	log.Info("Shutting down web server...")
	// Running stages finish before Shutdown returns, up to the deadline.
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return srv.Shutdown(ctx)
}
