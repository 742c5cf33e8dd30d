// Package watch polls a daemon on an interval, keeps the latest snapshot,
// feeds the metrics registry and serves both over HTTP.
package watch

import (
	"context"
	"time"

	"github.com/mfulz/boincgeist/protocol"
)

// Snapshot is one poll of a daemon's state.
type Snapshot struct {
	Host     string             `json:"host" yaml:"host"`
	Taken    time.Time          `json:"taken" yaml:"taken"`
	Status   protocol.CCStatus  `json:"status" yaml:"status"`
	Projects []protocol.Project `json:"projects" yaml:"projects"`
	Tasks    []protocol.Task    `json:"tasks" yaml:"tasks"`
}

// Source is the subset of the client a poll needs.
type Source interface {
	CCStatus(ctx context.Context) (protocol.CCStatus, error)
	Projects(ctx context.Context) ([]protocol.Project, error)
	Tasks(ctx context.Context, activeOnly bool) ([]protocol.Task, error)
}

// Collect reads status, projects and tasks from src. The first failing
// command aborts the snapshot.
func Collect(ctx context.Context, host string, src Source) (Snapshot, error) {
	s := Snapshot{Host: host}
	var err error
	if s.Status, err = src.CCStatus(ctx); err != nil {
		return Snapshot{}, err
	}
	if s.Projects, err = src.Projects(ctx); err != nil {
		return Snapshot{}, err
	}
	if s.Tasks, err = src.Tasks(ctx, false); err != nil {
		return Snapshot{}, err
	}
	s.Taken = time.Now().UTC()
	return s, nil
}
