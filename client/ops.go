package client

import (
	"context"
	"time"

	"github.com/mfulz/boincgeist/commands"
	"github.com/mfulz/boincgeist/protocol"
)

// ExchangeVersions announces protocol.ClientVersion and returns the daemon's
// version.
func (c *Client) ExchangeVersions(ctx context.Context) (protocol.Version, error) {
	return Execute(ctx, c, commands.ExchangeVersions{Version: protocol.ClientVersion})
}

func (c *Client) CCStatus(ctx context.Context) (protocol.CCStatus, error) {
	return Execute(ctx, c, commands.GetCCStatus{})
}

func (c *Client) HostInfo(ctx context.Context) (protocol.HostInfo, error) {
	return Execute(ctx, c, commands.GetHostInfo{})
}

func (c *Client) DiskUsage(ctx context.Context) (protocol.DiskUsage, error) {
	return Execute(ctx, c, commands.GetDiskUsage{})
}

func (c *Client) Projects(ctx context.Context) ([]protocol.Project, error) {
	return Execute(ctx, c, commands.GetProjectStatus{})
}

// Tasks lists tasks; activeOnly limits the list to tasks holding a slot.
func (c *Client) Tasks(ctx context.Context, activeOnly bool) ([]protocol.Task, error) {
	return Execute(ctx, c, commands.GetResults{ActiveOnly: activeOnly})
}

func (c *Client) FileTransfers(ctx context.Context) ([]protocol.FileTransfer, error) {
	return Execute(ctx, c, commands.GetFileTransfers{})
}

// Messages returns event log messages newer than seqno.
func (c *Client) Messages(ctx context.Context, seqno int) ([]protocol.Message, error) {
	return Execute(ctx, c, commands.GetMessages{Seqno: seqno})
}

// Notices returns notices newer than seqno.
func (c *Client) Notices(ctx context.Context, seqno int) ([]protocol.Notice, error) {
	return Execute(ctx, c, commands.GetNotices{Seqno: seqno})
}

func (c *Client) ProjectAttach(ctx context.Context, url, authenticator, name string) error {
	_, err := Execute(ctx, c, commands.ProjectAttach{URL: url, Authenticator: authenticator, Name: name})
	return err
}

func (c *Client) ProjectOp(ctx context.Context, url string, op commands.ProjectOperation) error {
	_, err := Execute(ctx, c, commands.ProjectOp{URL: url, Op: op})
	return err
}

func (c *Client) TaskOp(ctx context.Context, url, name string, op commands.TaskOperation) error {
	_, err := Execute(ctx, c, commands.TaskOp{URL: url, Name: name, Op: op})
	return err
}

func (c *Client) FileTransferOp(ctx context.Context, url, filename string, op commands.TransferOperation) error {
	_, err := Execute(ctx, c, commands.FileTransferOp{URL: url, Filename: filename, Op: op})
	return err
}

// SetMode changes the mode of res. A zero duration makes it permanent.
func (c *Client) SetMode(ctx context.Context, res commands.Resource, mode protocol.RunMode, d time.Duration) error {
	_, err := Execute(ctx, c, commands.SetMode{Resource: res, Mode: mode, Duration: d})
	return err
}

func (c *Client) GlobalPrefsOverride(ctx context.Context) (protocol.GlobalPreferences, error) {
	return Execute(ctx, c, commands.GetGlobalPrefsOverride{})
}

// SetGlobalPrefsOverride writes the override file and makes the daemon
// re-read it.
func (c *Client) SetGlobalPrefsOverride(ctx context.Context, prefs protocol.GlobalPreferences) error {
	if _, err := Execute(ctx, c, commands.SetGlobalPrefsOverride{Prefs: prefs}); err != nil {
		return err
	}
	return c.ReadGlobalPrefsOverride(ctx)
}

func (c *Client) ReadGlobalPrefsOverride(ctx context.Context) error {
	_, err := Execute(ctx, c, commands.ReadGlobalPrefsOverride{})
	return err
}

func (c *Client) ReadCCConfig(ctx context.Context) error {
	_, err := Execute(ctx, c, commands.ReadCCConfig{})
	return err
}

func (c *Client) NetworkAvailable(ctx context.Context) error {
	_, err := Execute(ctx, c, commands.NetworkAvailable{})
	return err
}

func (c *Client) RunBenchmarks(ctx context.Context) error {
	_, err := Execute(ctx, c, commands.RunBenchmarks{})
	return err
}

// Quit asks the daemon to shut down.
func (c *Client) Quit(ctx context.Context) error {
	_, err := Execute(ctx, c, commands.Quit{})
	return err
}
