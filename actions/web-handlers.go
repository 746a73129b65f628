package actions

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/relloyd/lakepipe/errkind"
	"github.com/relloyd/lakepipe/event"
	"github.com/relloyd/lakepipe/logger"
)

type WebServerResponse uint32

const (
	Okay WebServerResponse = iota + 1
	Error
)

func (w WebServerResponse) MarshalJSON() ([]byte, error) {
	var retval string
	switch w {
	case Okay:
		retval = "ok"
	case Error:
		retval = "error"
	default:
		err := fmt.Errorf("unhandled WebServerResponse value in MarshalJSON() conversion")
		return nil, err
	}
	return json.Marshal(retval)
}

type ResponseSimple struct {
	ServerStatus WebServerResponse `json:"status"`
}

type ResponseStage struct {
	Status   WebServerResponse `json:"status"`
	Message  string            `json:"message,omitempty"`
	RunId    string            `json:"runId"`
	Response *event.Response   `json:"response,omitempty"`
}

type ResponseRunList struct {
	Status  WebServerResponse `json:"status"`
	RunList []RunInfo         `json:"runs"`
}

type ResponseRunStatus struct {
	Status  WebServerResponse `json:"status"`
	Message string            `json:"message"`
	Run     *RunInfo          `json:"run,omitempty"`
}

func GetHandlerHealth(log logger.Logger) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		respond(log, w, ResponseSimple{ServerStatus: Okay})
	}
}

func GetHandlerStopServer(log logger.Logger, chanStop chan string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		chanStop <- "stop"
		log.Info("Stop signal sent")
		respond(log, w, ResponseSimple{ServerStatus: Okay})
	}
}

// GetHandlerStage runs fn with the event in the request body.
// The HTTP status follows the kind of error returned by the stage.
func GetHandlerStage(log logger.Logger, allRunInfo *SafeMapRunInfo, action string, fn StageFunc) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := ioutil.ReadAll(r.Body)
		if err != nil {
			logAndRespond(log, err, w, ResponseStage{Status: Error, Message: fmt.Sprintf("error reading request: %v", err)})
			return
		}
		e, err := event.Parse(b)
		if err != nil {
			logAndRespond(log, err, w, ResponseStage{Status: Error, Message: fmt.Sprintf("error unmarshalling JSON: %v", err)})
			return
		}
		id := allRunInfo.Start(action)
		log.Info("starting ", action, " run ", id)
		resp, err := fn(r.Context(), e)
		allRunInfo.Finish(id, err)
		if err != nil {
			logAndRespond(log, err, w, ResponseStage{Status: Error, Message: err.Error(), RunId: id})
			return
		}
		w.WriteHeader(http.StatusOK)
		respond(log, w, ResponseStage{Status: Okay, RunId: id, Response: &resp})
	}
}

func GetHandlerRunList(log logger.Logger, allRunInfo *SafeMapRunInfo) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		respond(log, w, ResponseRunList{Status: Okay, RunList: allRunInfo.List()})
	}
}

func GetHandlerRunStatus(log logger.Logger, allRunInfo *SafeMapRunInfo) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		id := vars["runId"]
		ri, ok := allRunInfo.Load(id)
		if ok { // if the run exists...
			w.WriteHeader(http.StatusOK)
			respond(log, w, ResponseRunStatus{Status: Okay, Run: &ri})
		} else { // else the run doesn't exist...
			w.WriteHeader(http.StatusNotFound)
			log.Info("HTTP request status of run ", id, " that doesn't exist.")
			respond(log, w, ResponseRunStatus{Status: Error, Message: fmt.Sprintf("run %v does not exist", id)})
		}
	}
}

// logAndRespond will log the error, write the status matching its kind and r to w.
func logAndRespond(log logger.Logger, err error, w http.ResponseWriter, r ResponseStage) {
	log.Error(err)
	w.WriteHeader(httpStatus(err))
	respond(log, w, r)
}

func httpStatus(err error) int {
	code, convErr := strconv.Atoi(errkind.StatusCode(err))
	if convErr != nil {
		return http.StatusInternalServerError
	}
	return code
}

// respond will marshal i to a string and write it to w.
func respond(log logger.Logger, w http.ResponseWriter, i interface{}) {
	j, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		log.Panic(err)
	}
	_, err = fmt.Fprint(w, string(j))
	if err != nil {
		log.Panic(err)
	}
}
