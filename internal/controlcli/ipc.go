package controlcli

import (
	"context"
	"time"

	"github.com/mfulz/boincgeist/client"
	"github.com/mfulz/boincgeist/commands"
	"github.com/mfulz/boincgeist/internal/watch"
	"github.com/mfulz/boincgeist/protocol"
)

func Version(ctx context.Context, r *Runner) (protocol.Version, error) {
	return execWithAuth(ctx, r, (*client.Client).ExchangeVersions)
}

func Status(ctx context.Context, r *Runner) (protocol.CCStatus, error) {
	return execWithAuth(ctx, r, (*client.Client).CCStatus)
}

func HostInfo(ctx context.Context, r *Runner) (protocol.HostInfo, error) {
	return execWithAuth(ctx, r, (*client.Client).HostInfo)
}

func DiskUsage(ctx context.Context, r *Runner) (protocol.DiskUsage, error) {
	return execWithAuth(ctx, r, (*client.Client).DiskUsage)
}

func Projects(ctx context.Context, r *Runner) ([]protocol.Project, error) {
	return execWithAuth(ctx, r, (*client.Client).Projects)
}

func Tasks(ctx context.Context, r *Runner, activeOnly bool) ([]protocol.Task, error) {
	return execWithAuth(ctx, r, func(c *client.Client, ctx context.Context) ([]protocol.Task, error) {
		return c.Tasks(ctx, activeOnly)
	})
}

func FileTransfers(ctx context.Context, r *Runner) ([]protocol.FileTransfer, error) {
	return execWithAuth(ctx, r, (*client.Client).FileTransfers)
}

// Messages returns event log entries with a sequence number above seqno.
func Messages(ctx context.Context, r *Runner, seqno int) ([]protocol.Message, error) {
	return execWithAuth(ctx, r, func(c *client.Client, ctx context.Context) ([]protocol.Message, error) {
		return c.Messages(ctx, seqno)
	})
}

func Notices(ctx context.Context, r *Runner, seqno int) ([]protocol.Notice, error) {
	return execWithAuth(ctx, r, func(c *client.Client, ctx context.Context) ([]protocol.Notice, error) {
		return c.Notices(ctx, seqno)
	})
}

func Attach(ctx context.Context, r *Runner, url, authenticator, name string) error {
	return do(ctx, r, "requested project attach", func(c *client.Client, ctx context.Context) error {
		return c.ProjectAttach(ctx, url, authenticator, name)
	})
}

func ProjectOp(ctx context.Context, r *Runner, url string, op commands.ProjectOperation) error {
	return do(ctx, r, "requested project "+string(op), func(c *client.Client, ctx context.Context) error {
		return c.ProjectOp(ctx, url, op)
	})
}

func TaskOp(ctx context.Context, r *Runner, url, name string, op commands.TaskOperation) error {
	return do(ctx, r, "requested task "+string(op), func(c *client.Client, ctx context.Context) error {
		return c.TaskOp(ctx, url, name, op)
	})
}

func TransferOp(ctx context.Context, r *Runner, url, file string, op commands.TransferOperation) error {
	return do(ctx, r, "requested transfer "+string(op), func(c *client.Client, ctx context.Context) error {
		return c.FileTransferOp(ctx, url, file, op)
	})
}

// SetMode changes a resource mode; a zero d makes the change permanent.
func SetMode(ctx context.Context, r *Runner, res commands.Resource, mode protocol.RunMode, d time.Duration) error {
	return do(ctx, r, "requested "+string(res)+" mode "+mode.Tag(), func(c *client.Client, ctx context.Context) error {
		return c.SetMode(ctx, res, mode, d)
	})
}

func Prefs(ctx context.Context, r *Runner) (protocol.GlobalPreferences, error) {
	return execWithAuth(ctx, r, (*client.Client).GlobalPrefsOverride)
}

// SetPrefs replaces the override file and has the daemon reread it.
func SetPrefs(ctx context.Context, r *Runner, p protocol.GlobalPreferences) error {
	return do(ctx, r, "updated preference override", func(c *client.Client, ctx context.Context) error {
		return c.SetGlobalPrefsOverride(ctx, p)
	})
}

func ReadPrefs(ctx context.Context, r *Runner) error {
	return do(ctx, r, "requested preference reread", (*client.Client).ReadGlobalPrefsOverride)
}

func ReadCCConfig(ctx context.Context, r *Runner) error {
	return do(ctx, r, "requested cc_config reread", (*client.Client).ReadCCConfig)
}

func NetworkAvailable(ctx context.Context, r *Runner) error {
	return do(ctx, r, "signalled network available", (*client.Client).NetworkAvailable)
}

func RunBenchmarks(ctx context.Context, r *Runner) error {
	return do(ctx, r, "requested benchmarks", (*client.Client).RunBenchmarks)
}

func Quit(ctx context.Context, r *Runner) error {
	return do(ctx, r, "requested daemon shutdown", (*client.Client).Quit)
}

// Poll returns a watch.PollFunc that collects one snapshot per session.
func (r *Runner) Poll() watch.PollFunc {
	return func(ctx context.Context) (watch.Snapshot, error) {
		return execWithAuth(ctx, r, func(c *client.Client, ctx context.Context) (watch.Snapshot, error) {
			return watch.Collect(ctx, r.Target.Name, c)
		})
	}
}
