package commands

import (
	"github.com/mfulz/boincgeist/interfaces"
	"github.com/mfulz/boincgeist/protocol"
)

// GetCCStatus returns run modes, suspend reasons and network state.
type GetCCStatus struct {
	open
	noBody
}

func (GetCCStatus) Tag() string { return protocol.CmdGetCCStatus }

func (GetCCStatus) Decode(reply *protocol.Node) (protocol.CCStatus, error) {
	return protocol.CCStatusSchema.DecodeChild(reply)
}

// GetHostInfo describes the host hardware and operating system.
type GetHostInfo struct {
	open
	noBody
}

func (GetHostInfo) Tag() string { return protocol.CmdGetHostInfo }

func (GetHostInfo) Decode(reply *protocol.Node) (protocol.HostInfo, error) {
	return protocol.HostInfoSchema.DecodeChild(reply)
}

// GetDiskUsage reports disk space, overall and per project.
type GetDiskUsage struct {
	open
	noBody
}

func (GetDiskUsage) Tag() string { return protocol.CmdGetDiskUsage }

func (GetDiskUsage) Decode(reply *protocol.Node) (protocol.DiskUsage, error) {
	return protocol.DiskUsageSchema.DecodeChild(reply)
}

// GetProjectStatus lists attached projects.
type GetProjectStatus struct {
	open
	noBody
}

func (GetProjectStatus) Tag() string { return protocol.CmdGetProjectStatus }

func (GetProjectStatus) Decode(reply *protocol.Node) ([]protocol.Project, error) {
	return protocol.ProjectListSchema.DecodeChild(reply)
}

// GetResults lists tasks; ActiveOnly restricts the list to tasks with a
// process slot.
type GetResults struct {
	open
	ActiveOnly bool
}

func (GetResults) Tag() string { return protocol.CmdGetResults }

func (c GetResults) Encode(w *protocol.Writer) { w.FlagIf("active_only", c.ActiveOnly) }

func (GetResults) Decode(reply *protocol.Node) ([]protocol.Task, error) {
	return protocol.TaskListSchema.DecodeChild(reply)
}

// GetFileTransfers lists pending uploads and downloads.
type GetFileTransfers struct {
	open
	noBody
}

func (GetFileTransfers) Tag() string { return protocol.CmdGetFileTransfers }

func (GetFileTransfers) Decode(reply *protocol.Node) ([]protocol.FileTransfer, error) {
	return protocol.FileTransferListSchema.DecodeChild(reply)
}

// GetMessages returns event log messages with a sequence number above Seqno.
type GetMessages struct {
	open
	Seqno int
}

func (GetMessages) Tag() string { return protocol.CmdGetMessages }

func (c GetMessages) Encode(w *protocol.Writer) { w.Int("seqno", c.Seqno) }

func (GetMessages) Decode(reply *protocol.Node) ([]protocol.Message, error) {
	return protocol.MessageListSchema.DecodeChild(reply)
}

// GetNotices returns notices with a sequence number above Seqno.
type GetNotices struct {
	privileged
	Seqno int
}

func (GetNotices) Tag() string { return protocol.CmdGetNotices }

func (c GetNotices) Encode(w *protocol.Writer) { w.Int("seqno", c.Seqno) }

func (GetNotices) Decode(reply *protocol.Node) ([]protocol.Notice, error) {
	return protocol.NoticeListSchema.DecodeChild(reply)
}

var (
	_ interfaces.Command[protocol.CCStatus]       = GetCCStatus{}
	_ interfaces.Command[protocol.HostInfo]       = GetHostInfo{}
	_ interfaces.Command[protocol.DiskUsage]      = GetDiskUsage{}
	_ interfaces.Command[[]protocol.Project]      = GetProjectStatus{}
	_ interfaces.Command[[]protocol.Task]         = GetResults{}
	_ interfaces.Command[[]protocol.FileTransfer] = GetFileTransfers{}
	_ interfaces.Command[[]protocol.Message]      = GetMessages{}
	_ interfaces.Command[[]protocol.Notice]       = GetNotices{}
)
