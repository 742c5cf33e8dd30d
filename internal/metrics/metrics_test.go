package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfulz/boincgeist/protocol"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "not_authenticated", Outcome(protocol.NotAuthenticated("suspend_result")))
	assert.Equal(t, "unknown_error", Outcome(errors.New("boom")))
}

func TestObserverCountsCommands(t *testing.T) {
	r := New()
	obs := r.Observer()
	obs("get_cc_status", 10*time.Millisecond, nil)
	obs("get_cc_status", 20*time.Millisecond, nil)
	obs("quit", time.Millisecond, protocol.NotAuthenticated("quit"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.requests.WithLabelValues("get_cc_status", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues("quit", "not_authenticated")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.duration))
}

func TestSetDaemonState(t *testing.T) {
	r := New()
	status := protocol.CCStatus{TaskSuspendReason: protocol.SuspendUserReq}
	projects := []protocol.Project{{MasterURL: "a"}, {MasterURL: "b"}}
	tasks := []protocol.Task{
		{Name: "t1", ActiveTask: &protocol.ActiveTask{SchedulerState: protocol.SchedulerScheduled}},
		{Name: "t2", ActiveTask: &protocol.ActiveTask{SchedulerState: protocol.SchedulerScheduled}},
		{Name: "t3", ReadyToReport: true},
		{Name: "t4", State: protocol.ResultFilesDownloaded},
	}
	r.SetDaemonState("cruncher", status, projects, tasks)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.projects.WithLabelValues("cruncher")))
	assert.Equal(t, float64(protocol.SuspendUserReq), testutil.ToFloat64(r.suspendReason.WithLabelValues("cruncher")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.tasks.WithLabelValues("cruncher", "running")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.tasks.WithLabelValues("cruncher", "ready_to_report")))

	// a later poll drops states that vanished
	r.SetDaemonState("cruncher", status, projects, tasks[3:])
	assert.Equal(t, 1, testutil.CollectAndCount(r.tasks))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.tasks.WithLabelValues("cruncher", "queued")))
}

func TestTaskState(t *testing.T) {
	cases := map[string]protocol.Task{
		"suspended":   {SuspendedViaGUI: true},
		"preempted":   {ActiveTask: &protocol.ActiveTask{SchedulerState: protocol.SchedulerPreempted}},
		"downloading": {State: protocol.ResultFilesDownloading},
		"uploading":   {State: protocol.ResultFilesUploading},
		"failed":      {State: protocol.ResultComputeError},
	}
	for want, task := range cases {
		assert.Equal(t, want, TaskState(task))
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	r := New()
	r.Observe("get_results", time.Millisecond, nil)
	r.PollFailed("cruncher", protocol.ErrIoFailed)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `boincgeist_rpc_requests_total{command="get_results",outcome="ok"} 1`))
	assert.Contains(t, body, `boincgeist_poll_errors_total{host="cruncher",kind="io_failed"} 1`)
	assert.Contains(t, body, "go_goroutines")
}
