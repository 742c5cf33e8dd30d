package watch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfulz/boincgeist/internal/metrics"
	"github.com/mfulz/boincgeist/protocol"
)

type fakeSource struct {
	status   protocol.CCStatus
	projects []protocol.Project
	tasks    []protocol.Task
	err      error
	calls    []string
}

func (f *fakeSource) CCStatus(context.Context) (protocol.CCStatus, error) {
	f.calls = append(f.calls, "status")
	return f.status, nil
}

func (f *fakeSource) Projects(context.Context) ([]protocol.Project, error) {
	f.calls = append(f.calls, "projects")
	return f.projects, f.err
}

func (f *fakeSource) Tasks(_ context.Context, activeOnly bool) ([]protocol.Task, error) {
	f.calls = append(f.calls, "tasks")
	return f.tasks, nil
}

type recordingSink struct {
	mu  sync.Mutex
	got []Snapshot
	err error
}

func (r *recordingSink) Publish(_ context.Context, s Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, s)
	return r.err
}

func sample() Snapshot {
	return Snapshot{
		Host:     "cruncher",
		Taken:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Projects: []protocol.Project{{ProjectName: "Einstein@Home"}},
		Tasks:    []protocol.Task{{Name: "t1", ReadyToReport: true}},
	}
}

func TestCollect(t *testing.T) {
	src := &fakeSource{
		status:   protocol.CCStatus{NetworkStatus: protocol.NetworkOnline},
		projects: []protocol.Project{{MasterURL: "u"}},
		tasks:    []protocol.Task{{Name: "t"}},
	}
	s, err := Collect(context.Background(), "h", src)
	require.NoError(t, err)
	assert.Equal(t, []string{"status", "projects", "tasks"}, src.calls)
	assert.Equal(t, "h", s.Host)
	assert.Len(t, s.Projects, 1)
	assert.Len(t, s.Tasks, 1)
	assert.False(t, s.Taken.IsZero())
}

func TestCollectStopsAtFirstError(t *testing.T) {
	src := &fakeSource{err: protocol.ErrIoFailed}
	_, err := Collect(context.Background(), "h", src)
	assert.ErrorIs(t, err, protocol.ErrIoFailed)
	assert.Equal(t, []string{"status", "projects"}, src.calls)
}

func TestPollOnceFeedsMetricsAndSinks(t *testing.T) {
	reg := metrics.New()
	sink := &recordingSink{err: errors.New("redis down")}
	p := NewPoller("cruncher", func(context.Context) (Snapshot, error) { return sample(), nil },
		WithMetrics(reg), WithSink(sink))

	assert.ErrorIs(t, p.Healthy(), ErrNoSnapshot)
	require.NoError(t, p.PollOnce(context.Background()))

	got, ok := p.Latest()
	require.True(t, ok)
	assert.Equal(t, "cruncher", got.Host)
	assert.Len(t, sink.got, 1)
	assert.NoError(t, p.Healthy(), "sink failures do not make the poller unhealthy")

	body := scrape(t, reg)
	assert.Contains(t, body, `boinc_projects{host="cruncher"} 1`)
	assert.Contains(t, body, `boinc_tasks{host="cruncher",state="ready_to_report"} 1`)
}

func TestPollFailureKeepsLastSnapshot(t *testing.T) {
	reg := metrics.New()
	fail := false
	p := NewPoller("cruncher", func(context.Context) (Snapshot, error) {
		if fail {
			return Snapshot{}, protocol.ErrClosed
		}
		return sample(), nil
	}, WithMetrics(reg))

	require.NoError(t, p.PollOnce(context.Background()))
	fail = true
	assert.ErrorIs(t, p.PollOnce(context.Background()), protocol.ErrClosed)

	_, ok := p.Latest()
	assert.True(t, ok)
	assert.ErrorIs(t, p.Healthy(), protocol.ErrClosed)
	assert.Contains(t, scrape(t, reg), `boincgeist_poll_errors_total{host="cruncher",kind="connection_closed"} 1`)
}

func TestHealthyGoesStale(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := NewPoller("h", func(context.Context) (Snapshot, error) { return sample(), nil }, WithInterval(time.Minute))
	p.now = func() time.Time { return now }
	require.NoError(t, p.PollOnce(context.Background()))
	assert.NoError(t, p.Healthy())

	now = now.Add(4 * time.Minute)
	assert.Error(t, p.Healthy())
}

func TestRunPollsUntilCancelled(t *testing.T) {
	var mu sync.Mutex
	polls := 0
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPoller("h", func(context.Context) (Snapshot, error) {
		mu.Lock()
		defer mu.Unlock()
		polls++
		if polls == 3 {
			cancel()
		}
		return sample(), nil
	}, WithInterval(time.Millisecond))

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	mu.Lock()
	defer mu.Unlock()
	// cancel and tick can race for one extra poll
	assert.GreaterOrEqual(t, polls, 3)
}

func TestHandler(t *testing.T) {
	reg := metrics.New()
	p := NewPoller("cruncher", func(context.Context) (Snapshot, error) { return sample(), nil }, WithMetrics(reg))
	srv := httptest.NewServer(NewHandler(p, reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/snapshot")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	require.NoError(t, p.PollOnce(context.Background()))

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var got struct {
		Host     string `json:"host"`
		Projects []struct {
			Name string `json:"project_name"`
		} `json:"projects"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "cruncher", got.Host)
	require.Len(t, got.Projects, 1)
	assert.Equal(t, "Einstein@Home", got.Projects[0].Name)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func scrape(t *testing.T, reg *metrics.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}
