package actions

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/xid"
)

type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusOk      RunStatus = "ok"
	RunStatusError   RunStatus = "error"
)

// RunInfo describes one stage invocation made through the web server.
type RunInfo struct {
	RunId    string    `json:"runId"`
	Action   string    `json:"action"`
	Status   RunStatus `json:"status"`
	Message  string    `json:"message,omitempty"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished,omitempty"`
}

// SafeMapRunInfo holds the runs started since the web server began.
type SafeMapRunInfo struct {
	sync.RWMutex
	Internal map[string]RunInfo
}

func NewSafeMapRunInfo() *SafeMapRunInfo {
	return &SafeMapRunInfo{Internal: make(map[string]RunInfo)}
}

// Start registers a running invocation of action and returns its id.
func (m *SafeMapRunInfo) Start(action string) string {
	id := xid.New().String()
	m.Lock()
	defer m.Unlock()
	m.Internal[id] = RunInfo{RunId: id, Action: action, Status: RunStatusRunning, Started: time.Now()}
	return id
}

// Finish records the outcome of run id.
func (m *SafeMapRunInfo) Finish(id string, err error) {
	m.Lock()
	defer m.Unlock()
	ri, ok := m.Internal[id]
	if !ok {
		return
	}
	ri.Status = RunStatusOk
	if err != nil {
		ri.Status = RunStatusError
		ri.Message = err.Error()
	}
	ri.Finished = time.Now()
	m.Internal[id] = ri
}

func (m *SafeMapRunInfo) Load(id string) (RunInfo, bool) {
	m.RLock()
	defer m.RUnlock()
	ri, ok := m.Internal[id]
	return ri, ok
}

// List returns all runs ordered by start time.
func (m *SafeMapRunInfo) List() []RunInfo {
	m.RLock()
	retval := make([]RunInfo, 0, len(m.Internal))
	for _, ri := range m.Internal {
		retval = append(retval, ri)
	}
	m.RUnlock()
	sort.Slice(retval, func(i, j int) bool {
		if retval[i].Started.Equal(retval[j].Started) {
			return retval[i].RunId < retval[j].RunId
		}
		return retval[i].Started.Before(retval[j].Started)
	})
	return retval
}
