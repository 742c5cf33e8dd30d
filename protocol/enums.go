package protocol

import "fmt"

// RunMode is the activity mode of a resource (CPU, GPU, network).
type RunMode int

const (
	RunModeUnknown RunMode = 0
	RunModeAlways  RunMode = 1
	RunModeAuto    RunMode = 2
	RunModeNever   RunMode = 3
	RunModeRestore RunMode = 4
)

func (m RunMode) String() string {
	switch m {
	case RunModeAlways:
		return "always"
	case RunModeAuto:
		return "according to prefs"
	case RunModeNever:
		return "never"
	case RunModeRestore:
		return "restore"
	default:
		return "unknown"
	}
}

// Tag returns the flag tag that selects this mode in set_*_mode requests.
func (m RunMode) Tag() string {
	switch m {
	case RunModeAlways:
		return "always"
	case RunModeAuto:
		return "auto"
	case RunModeNever:
		return "never"
	case RunModeRestore:
		return "restore"
	default:
		return ""
	}
}

func (m RunMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// ParseRunMode maps a mode name (always, auto, never, restore) to its value.
func ParseRunMode(s string) (RunMode, error) {
	for _, m := range []RunMode{RunModeAlways, RunModeAuto, RunModeNever, RunModeRestore} {
		if m.Tag() == s {
			return m, nil
		}
	}
	return RunModeUnknown, fmt.Errorf("unknown run mode %q", s)
}

// NetworkStatus is the daemon's view of network connectivity.
type NetworkStatus int

const (
	NetworkOnline         NetworkStatus = 0
	NetworkWantConnection NetworkStatus = 1
	NetworkWantDisconnect NetworkStatus = 2
	NetworkLookupPending  NetworkStatus = 3
)

func (s NetworkStatus) String() string {
	switch s {
	case NetworkOnline:
		return "online"
	case NetworkWantConnection:
		return "need connection"
	case NetworkWantDisconnect:
		return "don't need connection"
	case NetworkLookupPending:
		return "reference site lookup pending"
	default:
		return "unknown"
	}
}

func (s NetworkStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// SuspendReason explains why a resource is suspended. Zero means running.
type SuspendReason int

const (
	SuspendNotSuspended         SuspendReason = 0
	SuspendBatteries            SuspendReason = 1 << 0
	SuspendUserActive           SuspendReason = 1 << 1
	SuspendUserReq              SuspendReason = 1 << 2
	SuspendTimeOfDay            SuspendReason = 1 << 3
	SuspendBenchmarks           SuspendReason = 1 << 4
	SuspendDiskSize             SuspendReason = 1 << 5
	SuspendCPUThrottle          SuspendReason = 1 << 6
	SuspendNoRecentInput        SuspendReason = 1 << 7
	SuspendInitialDelay         SuspendReason = 1 << 8
	SuspendExclusiveAppRunning  SuspendReason = 1 << 9
	SuspendCPUUsage             SuspendReason = 1 << 10
	SuspendNetworkQuotaExceeded SuspendReason = 1 << 11
	SuspendOS                   SuspendReason = 1 << 12
	SuspendWifiState            SuspendReason = 1<<12 + 1
	SuspendBatteryCharging      SuspendReason = 1<<12 + 2
	SuspendBatteryOverheated    SuspendReason = 1<<12 + 3
	SuspendNoGUIKeepalive       SuspendReason = 1<<12 + 4
)

var suspendReasonNames = map[SuspendReason]string{
	SuspendNotSuspended:         "not suspended",
	SuspendBatteries:            "on batteries",
	SuspendUserActive:           "computer is in use",
	SuspendUserReq:              "user request",
	SuspendTimeOfDay:            "time of day",
	SuspendBenchmarks:           "CPU benchmarks in progress",
	SuspendDiskSize:             "need disk space - check preferences",
	SuspendCPUThrottle:          "CPU throttled",
	SuspendNoRecentInput:        "no recent user activity",
	SuspendInitialDelay:         "initial delay",
	SuspendExclusiveAppRunning:  "an exclusive app is running",
	SuspendCPUUsage:             "CPU is busy",
	SuspendNetworkQuotaExceeded: "network transfer limit exceeded",
	SuspendOS:                   "requested by operating system",
	SuspendWifiState:            "not connected to WiFi network",
	SuspendBatteryCharging:      "battery low",
	SuspendBatteryOverheated:    "battery thermal protection",
	SuspendNoGUIKeepalive:       "GUI not active",
}

func (r SuspendReason) String() string {
	if s, ok := suspendReasonNames[r]; ok {
		return s
	}
	return "unknown"
}

func (r SuspendReason) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Suspended reports whether the reason denotes a suspension.
func (r SuspendReason) Suspended() bool { return r != SuspendNotSuspended }

// ResultClientState is the lifecycle state of a task on the host.
type ResultClientState int

const (
	ResultNew              ResultClientState = 0
	ResultFilesDownloading ResultClientState = 1
	ResultFilesDownloaded  ResultClientState = 2
	ResultComputeError     ResultClientState = 3
	ResultFilesUploading   ResultClientState = 4
	ResultFilesUploaded    ResultClientState = 5
	ResultAborted          ResultClientState = 6
	ResultUploadFailed     ResultClientState = 7
)

func (s ResultClientState) String() string {
	switch s {
	case ResultNew:
		return "new"
	case ResultFilesDownloading:
		return "downloading"
	case ResultFilesDownloaded:
		return "downloaded"
	case ResultComputeError:
		return "compute error"
	case ResultFilesUploading:
		return "uploading"
	case ResultFilesUploaded:
		return "uploaded"
	case ResultAborted:
		return "aborted"
	case ResultUploadFailed:
		return "upload failed"
	default:
		return "unknown"
	}
}

func (s ResultClientState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// ActiveTaskState is the state of the process running a task.
type ActiveTaskState int

const (
	TaskUninitialized ActiveTaskState = 0
	TaskExecuting     ActiveTaskState = 1
	TaskExited        ActiveTaskState = 2
	TaskWasSignaled   ActiveTaskState = 3
	TaskExitUnknown   ActiveTaskState = 4
	TaskAbortPending  ActiveTaskState = 5
	TaskAborted       ActiveTaskState = 6
	TaskCouldntStart  ActiveTaskState = 7
	TaskQuitPending   ActiveTaskState = 8
	TaskSuspended     ActiveTaskState = 9
	TaskCopyPending   ActiveTaskState = 10
)

var activeTaskStateNames = [...]string{
	"UNINITIALIZED", "EXECUTING", "EXITED", "WAS_SIGNALED", "EXIT_UNKNOWN",
	"ABORT_PENDING", "ABORTED", "COULDNT_START", "QUIT_PENDING", "SUSPENDED",
	"COPY_PENDING",
}

func (s ActiveTaskState) String() string {
	if s >= 0 && int(s) < len(activeTaskStateNames) {
		return activeTaskStateNames[s]
	}
	return "UNKNOWN"
}

func (s ActiveTaskState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// SchedulerState tells whether a task is currently scheduled to run.
type SchedulerState int

const (
	SchedulerUninitialized SchedulerState = 0
	SchedulerPreempted     SchedulerState = 1
	SchedulerScheduled     SchedulerState = 2
)

func (s SchedulerState) String() string {
	switch s {
	case SchedulerUninitialized:
		return "uninitialized"
	case SchedulerPreempted:
		return "preempted"
	case SchedulerScheduled:
		return "scheduled"
	default:
		return "unknown"
	}
}

func (s SchedulerState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// RpcReason is why a scheduler request to a project is pending.
type RpcReason int

const (
	RpcReasonNone       RpcReason = 0
	RpcReasonUserReq    RpcReason = 1
	RpcReasonResultsDue RpcReason = 2
	RpcReasonNeedWork   RpcReason = 3
	RpcReasonTrickleUp  RpcReason = 4
	RpcReasonAcctMgrReq RpcReason = 5
	RpcReasonInit       RpcReason = 6
	RpcReasonProjectReq RpcReason = 7
)

func (r RpcReason) String() string {
	switch r {
	case RpcReasonNone:
		return ""
	case RpcReasonUserReq:
		return "Requested by user"
	case RpcReasonResultsDue:
		return "To report completed tasks"
	case RpcReasonNeedWork:
		return "To fetch work"
	case RpcReasonTrickleUp:
		return "To send trickle-up message"
	case RpcReasonAcctMgrReq:
		return "Requested by account manager"
	case RpcReasonInit:
		return "Project initialization"
	case RpcReasonProjectReq:
		return "Requested by project"
	default:
		return "unknown"
	}
}

func (r RpcReason) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// MsgPriority classifies event log messages.
type MsgPriority int

const (
	MsgInfo          MsgPriority = 1
	MsgUserAlert     MsgPriority = 2
	MsgInternalError MsgPriority = 3
)

func (p MsgPriority) String() string {
	switch p {
	case MsgInfo:
		return "low"
	case MsgUserAlert:
		return "user notification"
	case MsgInternalError:
		return "internal error"
	default:
		return "unknown"
	}
}

func (p MsgPriority) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
