package watch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mfulz/boincgeist/internal/logging"
	"github.com/mfulz/boincgeist/internal/metrics"
)

// DefaultInterval is the poll period when none is configured.
const DefaultInterval = 30 * time.Second

// PollFunc produces one snapshot. It owns its connection handling.
type PollFunc func(ctx context.Context) (Snapshot, error)

// Sink receives every successful snapshot.
type Sink interface {
	Publish(ctx context.Context, s Snapshot) error
}

// ErrNoSnapshot is returned by Healthy before the first successful poll.
var ErrNoSnapshot = errors.New("no snapshot yet")

type Option func(*Poller)

func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

func WithMetrics(r *metrics.Registry) Option {
	return func(p *Poller) { p.metrics = r }
}

// WithSink adds a publisher. Sink failures are logged and do not fail the
// poll.
func WithSink(s Sink) Option {
	return func(p *Poller) { p.sinks = append(p.sinks, s) }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Poller) { p.log = l }
}

// Poller runs a PollFunc on an interval and remembers the outcome.
type Poller struct {
	host     string
	poll     PollFunc
	interval time.Duration
	metrics  *metrics.Registry
	sinks    []Sink
	log      *zap.SugaredLogger
	now      func() time.Time

	mu      sync.RWMutex
	latest  *Snapshot
	lastErr error
	lastOK  time.Time
}

func NewPoller(host string, poll PollFunc, opts ...Option) *Poller {
	p := &Poller{
		host:     host,
		poll:     poll,
		interval: DefaultInterval,
		now:      time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	if p.log == nil {
		p.log = logging.Named("watch")
	}
	return p
}

// Run polls immediately and then every interval until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.Infow("watching daemon", "host", p.host, "interval", p.interval)
	for {
		_ = p.PollOnce(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// PollOnce runs a single poll and publishes the result.
func (p *Poller) PollOnce(ctx context.Context) error {
	s, err := p.poll(ctx)
	if err != nil {
		p.mu.Lock()
		p.lastErr = err
		p.mu.Unlock()
		if p.metrics != nil {
			p.metrics.PollFailed(p.host, err)
		}
		p.log.Warnw("poll failed", "host", p.host, "error", err)
		return err
	}

	p.mu.Lock()
	p.latest = &s
	p.lastErr = nil
	p.lastOK = p.now()
	p.mu.Unlock()

	if p.metrics != nil {
		p.metrics.SetDaemonState(p.host, s.Status, s.Projects, s.Tasks)
	}
	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, s); err != nil {
			p.log.Warnw("publishing snapshot failed", "host", p.host, "error", err)
		}
	}
	p.log.Debugw("polled daemon", "host", p.host, "projects", len(s.Projects), "tasks", len(s.Tasks))
	return nil
}

// Latest returns the last successful snapshot.
func (p *Poller) Latest() (Snapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.latest == nil {
		return Snapshot{}, false
	}
	return *p.latest, true
}

// Healthy reports nil while the last poll succeeded and is no older than
// three intervals.
func (p *Poller) Healthy() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	switch {
	case p.lastErr != nil:
		return p.lastErr
	case p.latest == nil:
		return ErrNoSnapshot
	}
	if age := p.now().Sub(p.lastOK); age > 3*p.interval {
		return fmt.Errorf("last snapshot is %s old", age.Round(time.Second))
	}
	return nil
}
