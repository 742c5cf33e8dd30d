package commands

import (
	"fmt"
	"slices"
	"time"

	"github.com/mfulz/boincgeist/interfaces"
	"github.com/mfulz/boincgeist/protocol"
)

// ProjectOperation selects the action of a ProjectOp request.
type ProjectOperation string

const (
	ProjectSuspend            ProjectOperation = "suspend"
	ProjectResume             ProjectOperation = "resume"
	ProjectDetach             ProjectOperation = "detach"
	ProjectReset              ProjectOperation = "reset"
	ProjectUpdate             ProjectOperation = "update"
	ProjectNoMoreWork         ProjectOperation = "nomorework"
	ProjectAllowMoreWork      ProjectOperation = "allowmorework"
	ProjectDetachWhenDone     ProjectOperation = "detach_when_done"
	ProjectDontDetachWhenDone ProjectOperation = "dont_detach_when_done"
)

// ProjectOperations lists every project operation in CLI order.
var ProjectOperations = []ProjectOperation{
	ProjectSuspend, ProjectResume, ProjectDetach, ProjectReset, ProjectUpdate,
	ProjectNoMoreWork, ProjectAllowMoreWork, ProjectDetachWhenDone, ProjectDontDetachWhenDone,
}

// TaskOperation selects the action of a TaskOp request.
type TaskOperation string

const (
	TaskAbort   TaskOperation = "abort"
	TaskSuspend TaskOperation = "suspend"
	TaskResume  TaskOperation = "resume"
)

var TaskOperations = []TaskOperation{TaskAbort, TaskSuspend, TaskResume}

// TransferOperation selects the action of a FileTransferOp request.
type TransferOperation string

const (
	TransferAbort TransferOperation = "abort"
	TransferRetry TransferOperation = "retry"
)

var TransferOperations = []TransferOperation{TransferAbort, TransferRetry}

// Resource names what a SetMode request changes.
type Resource string

const (
	ResourceRun     Resource = "run"
	ResourceGPU     Resource = "gpu"
	ResourceNetwork Resource = "network"
)

var Resources = []Resource{ResourceRun, ResourceGPU, ResourceNetwork}

func invalid(tag, what string, v any) error {
	return &protocol.Error{Kind: protocol.KindMalformed, Op: tag, Message: fmt.Sprintf("invalid %s: %v", what, v)}
}

// ProjectAttach attaches the host to a project using an account key.
type ProjectAttach struct {
	privileged
	ack
	URL           string
	Authenticator string
	Name          string
}

func (ProjectAttach) Tag() string { return protocol.CmdProjectAttach }

func (c ProjectAttach) Encode(w *protocol.Writer) {
	w.Text("project_url", c.URL).
		Text("authenticator", c.Authenticator).
		Text("project_name", c.Name)
}

func (c ProjectAttach) Validate() error {
	if c.URL == "" {
		return invalid(c.Tag(), "project url", c.URL)
	}
	return nil
}

// ProjectOp runs an operation on one attached project.
type ProjectOp struct {
	privileged
	ack
	URL string
	Op  ProjectOperation
}

func (c ProjectOp) Tag() string { return "project_" + string(c.Op) }

func (c ProjectOp) Encode(w *protocol.Writer) { w.Text("project_url", c.URL) }

func (c ProjectOp) Validate() error {
	if !slices.Contains(ProjectOperations, c.Op) {
		return invalid(c.Tag(), "project operation", c.Op)
	}
	return nil
}

// TaskOp runs an operation on one task.
type TaskOp struct {
	privileged
	ack
	URL  string
	Name string
	Op   TaskOperation
}

func (c TaskOp) Tag() string { return string(c.Op) + "_result" }

func (c TaskOp) Encode(w *protocol.Writer) {
	w.Text("project_url", c.URL).Text("name", c.Name)
}

func (c TaskOp) Validate() error {
	if !slices.Contains(TaskOperations, c.Op) {
		return invalid(c.Tag(), "task operation", c.Op)
	}
	return nil
}

// FileTransferOp aborts or retries one file transfer.
type FileTransferOp struct {
	privileged
	ack
	URL      string
	Filename string
	Op       TransferOperation
}

func (c FileTransferOp) Tag() string { return string(c.Op) + "_file_transfer" }

func (c FileTransferOp) Encode(w *protocol.Writer) {
	w.Text("project_url", c.URL).Text("filename", c.Filename)
}

func (c FileTransferOp) Validate() error {
	if !slices.Contains(TransferOperations, c.Op) {
		return invalid(c.Tag(), "transfer operation", c.Op)
	}
	return nil
}

// SetMode changes the run mode of a resource. A zero Duration makes the
// change permanent; otherwise the previous mode is restored afterwards.
type SetMode struct {
	privileged
	ack
	Resource Resource
	Mode     protocol.RunMode
	Duration time.Duration
}

func (c SetMode) Tag() string { return "set_" + string(c.Resource) + "_mode" }

func (c SetMode) Encode(w *protocol.Writer) {
	w.Flag(c.Mode.Tag()).Float("duration", c.Duration.Seconds())
}

func (c SetMode) Validate() error {
	if !slices.Contains(Resources, c.Resource) {
		return invalid(c.Tag(), "resource", c.Resource)
	}
	if c.Mode.Tag() == "" {
		return invalid(c.Tag(), "run mode", int(c.Mode))
	}
	if c.Duration < 0 {
		return invalid(c.Tag(), "duration", c.Duration)
	}
	return nil
}

type NetworkAvailable struct {
	privileged
	noBody
	ack
}

func (NetworkAvailable) Tag() string { return protocol.CmdNetworkAvailable }

type RunBenchmarks struct {
	privileged
	noBody
	ack
}

func (RunBenchmarks) Tag() string { return protocol.CmdRunBenchmarks }

type ReadCCConfig struct {
	privileged
	noBody
	ack
}

func (ReadCCConfig) Tag() string { return protocol.CmdReadCCConfig }

// Quit asks the daemon to exit.
type Quit struct {
	privileged
	noBody
	ack
}

func (Quit) Tag() string { return protocol.CmdQuit }

var (
	_ interfaces.Command[Ack] = ProjectAttach{}
	_ interfaces.Command[Ack] = ProjectOp{}
	_ interfaces.Command[Ack] = TaskOp{}
	_ interfaces.Command[Ack] = FileTransferOp{}
	_ interfaces.Command[Ack] = SetMode{}
	_ interfaces.Command[Ack] = NetworkAvailable{}
	_ interfaces.Command[Ack] = RunBenchmarks{}
	_ interfaces.Command[Ack] = ReadCCConfig{}
	_ interfaces.Command[Ack] = Quit{}

	_ interfaces.Validator = SetMode{}
)
