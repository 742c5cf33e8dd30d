// Package metrics exposes RPC and daemon state as prometheus metrics.
package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mfulz/boincgeist/dispatch"
	"github.com/mfulz/boincgeist/protocol"
)

const namespace = "boincgeist"

// Registry owns one set of collectors. Each exporter gets its own, so
// tests and multiple hosts do not share global state.
type Registry struct {
	reg *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	tasks         *prometheus.GaugeVec
	projects      *prometheus.GaugeVec
	suspendReason *prometheus.GaugeVec
	lastPoll      *prometheus.GaugeVec
	pollErrors    *prometheus.CounterVec
}

// New creates a registry with the RPC, daemon and runtime collectors.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rpc_requests_total",
				Help:      "GUI RPC requests by command and outcome.",
			},
			[]string{"command", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rpc_duration_seconds",
				Help:      "GUI RPC round trip duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		tasks: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "boinc",
				Name:      "tasks",
				Help:      "Tasks on the host by state.",
			},
			[]string{"host", "state"},
		),
		projects: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "boinc",
				Name:      "projects",
				Help:      "Attached projects.",
			},
			[]string{"host"},
		),
		suspendReason: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "boinc",
				Name:      "task_suspend_reason",
				Help:      "Bitmask of the reasons task execution is suspended, 0 when running.",
			},
			[]string{"host"},
		),
		lastPoll: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_poll_timestamp_seconds",
				Help:      "Unix time of the last successful poll.",
			},
			[]string{"host"},
		),
		pollErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "poll_errors_total",
				Help:      "Failed polls by error kind.",
			},
			[]string{"host", "kind"},
		),
	}
	r.reg.MustRegister(
		r.requests, r.duration,
		r.tasks, r.projects, r.suspendReason, r.lastPoll, r.pollErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Gatherer returns the underlying registry for scraping or inspection.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Handler serves the registry in the prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Outcome maps an RPC error to a label value: "ok" or the snake cased kind.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return labelReplacer.Replace(protocol.KindOf(err).String())
}

var labelReplacer = strings.NewReplacer(" ", "_", "/", "")

// Observe records one command.
func (r *Registry) Observe(tag string, elapsed time.Duration, err error) {
	r.requests.WithLabelValues(tag, Outcome(err)).Inc()
	r.duration.WithLabelValues(tag).Observe(elapsed.Seconds())
}

// Observer adapts the registry to the dispatcher hook.
func (r *Registry) Observer() dispatch.Observer { return r.Observe }

// SetDaemonState replaces the daemon gauges of host.
func (r *Registry) SetDaemonState(host string, status protocol.CCStatus, projects []protocol.Project, tasks []protocol.Task) {
	r.projects.WithLabelValues(host).Set(float64(len(projects)))
	r.suspendReason.WithLabelValues(host).Set(float64(status.TaskSuspendReason))

	counts := map[string]int{}
	for _, t := range tasks {
		counts[TaskState(t)]++
	}
	r.tasks.DeletePartialMatch(prometheus.Labels{"host": host})
	for state, n := range counts {
		r.tasks.WithLabelValues(host, state).Set(float64(n))
	}
	r.lastPoll.WithLabelValues(host).SetToCurrentTime()
}

// PollFailed counts a failed poll of host.
func (r *Registry) PollFailed(host string, err error) {
	r.pollErrors.WithLabelValues(host, Outcome(err)).Inc()
}

// TaskState buckets a task for the boinc_tasks gauge.
func TaskState(t protocol.Task) string {
	switch {
	case t.ReadyToReport:
		return "ready_to_report"
	case t.SuspendedViaGUI || t.ProjectSuspendedViaGUI:
		return "suspended"
	case t.ActiveTask != nil && t.SchedulerState() == protocol.SchedulerScheduled:
		return "running"
	case t.ActiveTask != nil:
		return "preempted"
	}
	switch t.State {
	case protocol.ResultNew, protocol.ResultFilesDownloading:
		return "downloading"
	case protocol.ResultFilesDownloaded:
		return "queued"
	case protocol.ResultFilesUploading:
		return "uploading"
	case protocol.ResultFilesUploaded:
		return "uploaded"
	default:
		return "failed"
	}
}
