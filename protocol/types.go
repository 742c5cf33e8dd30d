package protocol

import (
	"fmt"
	"time"
)

// Version is a daemon or client software version.
type Version struct {
	Major   int `json:"major" yaml:"major"`
	Minor   int `json:"minor" yaml:"minor"`
	Release int `json:"release" yaml:"release"`
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Release)
}

// ClientVersion is the version announced in exchange_versions.
var ClientVersion = Version{Major: 7, Minor: 22, Release: 0}

// Encode writes the version fields into the current element.
func (v Version) Encode(w *Writer) {
	w.Int("major", v.Major).Int("minor", v.Minor).Int("release", v.Release)
}

// CCStatus is the daemon's core status: network state and the current and
// permanent modes of each resource.
type CCStatus struct {
	NetworkStatus        NetworkStatus `json:"network_status" yaml:"network_status"`
	AmsPasswordError     bool          `json:"ams_password_error" yaml:"ams_password_error"`
	ManagerMustQuit      bool          `json:"manager_must_quit" yaml:"manager_must_quit"`
	DisallowAttach       bool          `json:"disallow_attach" yaml:"disallow_attach"`
	SimpleGUIOnly        bool          `json:"simple_gui_only" yaml:"simple_gui_only"`
	MaxEventLogLines     int           `json:"max_event_log_lines" yaml:"max_event_log_lines"`
	TaskSuspendReason    SuspendReason `json:"task_suspend_reason" yaml:"task_suspend_reason"`
	TaskMode             RunMode       `json:"task_mode" yaml:"task_mode"`
	TaskModePerm         RunMode       `json:"task_mode_perm" yaml:"task_mode_perm"`
	TaskModeDelay        float64       `json:"task_mode_delay" yaml:"task_mode_delay"`
	GPUSuspendReason     SuspendReason `json:"gpu_suspend_reason" yaml:"gpu_suspend_reason"`
	GPUMode              RunMode       `json:"gpu_mode" yaml:"gpu_mode"`
	GPUModePerm          RunMode       `json:"gpu_mode_perm" yaml:"gpu_mode_perm"`
	GPUModeDelay         float64       `json:"gpu_mode_delay" yaml:"gpu_mode_delay"`
	NetworkSuspendReason SuspendReason `json:"network_suspend_reason" yaml:"network_suspend_reason"`
	NetworkMode          RunMode       `json:"network_mode" yaml:"network_mode"`
	NetworkModePerm      RunMode       `json:"network_mode_perm" yaml:"network_mode_perm"`
	NetworkModeDelay     float64       `json:"network_mode_delay" yaml:"network_mode_delay"`
}

// OpenCL describes the OpenCL capabilities of one coprocessor.
type OpenCL struct {
	Name          string  `json:"name" yaml:"name"`
	Vendor        string  `json:"vendor" yaml:"vendor"`
	DriverVersion string  `json:"driver_version" yaml:"driver_version"`
	DeviceVersion string  `json:"device_version" yaml:"device_version"`
	GlobalMemSize float64 `json:"global_mem_size" yaml:"global_mem_size"`
}

// Coproc is one GPU family installed on the host.
type Coproc struct {
	Name         string  `json:"name" yaml:"name"`
	Count        int     `json:"count" yaml:"count"`
	PeakFlops    float64 `json:"peak_flops" yaml:"peak_flops"`
	AvailableRAM float64 `json:"available_ram" yaml:"available_ram"`
	LocalRAM     int     `json:"local_ram" yaml:"local_ram"`
	Version      string  `json:"version,omitempty" yaml:"version,omitempty"`
	OpenCL       *OpenCL `json:"opencl,omitempty" yaml:"opencl,omitempty"`
}

// Coprocs groups coprocessors by vendor.
type Coprocs struct {
	CUDA  []Coproc `json:"cuda,omitempty" yaml:"cuda,omitempty"`
	AMD   []Coproc `json:"amd,omitempty" yaml:"amd,omitempty"`
	Intel []Coproc `json:"intel,omitempty" yaml:"intel,omitempty"`
}

// HostInfo describes the hardware and operating system of the host.
type HostInfo struct {
	Timezone      int       `json:"timezone" yaml:"timezone"`
	DomainName    string    `json:"domain_name" yaml:"domain_name"`
	IPAddr        string    `json:"ip_addr" yaml:"ip_addr"`
	HostCPID      string    `json:"host_cpid" yaml:"host_cpid"`
	NCPUs         int       `json:"p_ncpus" yaml:"p_ncpus"`
	CPUVendor     string    `json:"p_vendor" yaml:"p_vendor"`
	CPUModel      string    `json:"p_model" yaml:"p_model"`
	CPUFeatures   string    `json:"p_features" yaml:"p_features"`
	FPOps         float64   `json:"p_fpops" yaml:"p_fpops"`
	IntOps        float64   `json:"p_iops" yaml:"p_iops"`
	MemBW         float64   `json:"p_membw" yaml:"p_membw"`
	BenchmarkTime time.Time `json:"p_calculated" yaml:"p_calculated"`
	VMExtDisabled bool      `json:"p_vm_extensions_disabled" yaml:"p_vm_extensions_disabled"`
	MemBytes      float64   `json:"m_nbytes" yaml:"m_nbytes"`
	CacheBytes    float64   `json:"m_cache" yaml:"m_cache"`
	SwapBytes     float64   `json:"m_swap" yaml:"m_swap"`
	DiskTotal     float64   `json:"d_total" yaml:"d_total"`
	DiskFree      float64   `json:"d_free" yaml:"d_free"`
	OSName        string    `json:"os_name" yaml:"os_name"`
	OSVersion     string    `json:"os_version" yaml:"os_version"`
	ProductName   string    `json:"product_name" yaml:"product_name"`
	Coprocs       Coprocs   `json:"coprocs" yaml:"coprocs"`
}

// ProjectDiskUsage is the disk space used by one project.
type ProjectDiskUsage struct {
	MasterURL string  `json:"master_url" yaml:"master_url"`
	DiskUsage float64 `json:"disk_usage" yaml:"disk_usage"`
}

// DiskUsage summarizes disk space in bytes.
type DiskUsage struct {
	Total    float64            `json:"d_total" yaml:"d_total"`
	Free     float64            `json:"d_free" yaml:"d_free"`
	Boinc    float64            `json:"d_boinc" yaml:"d_boinc"`
	Allowed  float64            `json:"d_allowed" yaml:"d_allowed"`
	Projects []ProjectDiskUsage `json:"projects" yaml:"projects"`
}

// GuiURL is a project-supplied link shown by managers.
type GuiURL struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	URL         string `json:"url" yaml:"url"`
}

// Project is one attached project.
type Project struct {
	MasterURL                  string    `json:"master_url" yaml:"master_url"`
	ProjectName                string    `json:"project_name" yaml:"project_name"`
	UserName                   string    `json:"user_name" yaml:"user_name"`
	TeamName                   string    `json:"team_name" yaml:"team_name"`
	HostVenue                  string    `json:"host_venue,omitempty" yaml:"host_venue,omitempty"`
	ResourceShare              float64   `json:"resource_share" yaml:"resource_share"`
	UserTotalCredit            float64   `json:"user_total_credit" yaml:"user_total_credit"`
	UserExpavgCredit           float64   `json:"user_expavg_credit" yaml:"user_expavg_credit"`
	HostTotalCredit            float64   `json:"host_total_credit" yaml:"host_total_credit"`
	HostExpavgCredit           float64   `json:"host_expavg_credit" yaml:"host_expavg_credit"`
	NRPCFailures               int       `json:"nrpc_failures" yaml:"nrpc_failures"`
	MasterFetchFailures        int       `json:"master_fetch_failures" yaml:"master_fetch_failures"`
	MasterURLFetchPending      bool      `json:"master_url_fetch_pending" yaml:"master_url_fetch_pending"`
	SchedRPCPending            RpcReason `json:"sched_rpc_pending" yaml:"sched_rpc_pending"`
	TrickleUpPending           bool      `json:"trickle_up_pending" yaml:"trickle_up_pending"`
	AttachedViaAcctMgr         bool      `json:"attached_via_acct_mgr" yaml:"attached_via_acct_mgr"`
	Ended                      bool      `json:"ended" yaml:"ended"`
	SuspendedViaGUI            bool      `json:"suspended_via_gui" yaml:"suspended_via_gui"`
	DontRequestMoreWork        bool      `json:"dont_request_more_work" yaml:"dont_request_more_work"`
	DetachWhenDone             bool      `json:"detach_when_done" yaml:"detach_when_done"`
	DiskUsage                  float64   `json:"disk_usage" yaml:"disk_usage"`
	LastRPCTime                time.Time `json:"last_rpc_time" yaml:"last_rpc_time"`
	ProjectFilesDownloadedTime time.Time `json:"project_files_downloaded_time" yaml:"project_files_downloaded_time"`
	GuiURLs                    []GuiURL  `json:"gui_urls,omitempty" yaml:"gui_urls,omitempty"`
	NJobsSuccess               int       `json:"njobs_success" yaml:"njobs_success"`
	NJobsError                 int       `json:"njobs_error" yaml:"njobs_error"`
	ElapsedTime                float64   `json:"elapsed_time" yaml:"elapsed_time"`
	ExternalCPID               string    `json:"external_cpid" yaml:"external_cpid"`
}

// ActiveTask is the runtime state of a task that has a process slot.
type ActiveTask struct {
	State                  ActiveTaskState `json:"active_task_state" yaml:"active_task_state"`
	SchedulerState         SchedulerState  `json:"scheduler_state" yaml:"scheduler_state"`
	AppVersionNum          int             `json:"app_version_num" yaml:"app_version_num"`
	Slot                   int             `json:"slot" yaml:"slot"`
	PID                    int             `json:"pid" yaml:"pid"`
	CheckpointCPUTime      float64         `json:"checkpoint_cpu_time" yaml:"checkpoint_cpu_time"`
	CurrentCPUTime         float64         `json:"current_cpu_time" yaml:"current_cpu_time"`
	ElapsedTime            float64         `json:"elapsed_time" yaml:"elapsed_time"`
	FractionDone           float64         `json:"fraction_done" yaml:"fraction_done"`
	SwapSize               float64         `json:"swap_size" yaml:"swap_size"`
	WorkingSetSizeSmoothed float64         `json:"working_set_size_smoothed" yaml:"working_set_size_smoothed"`
	BytesSent              float64         `json:"bytes_sent" yaml:"bytes_sent"`
	BytesReceived          float64         `json:"bytes_received" yaml:"bytes_received"`
	TooLarge               bool            `json:"too_large" yaml:"too_large"`
	NeedsSharedMem         bool            `json:"needs_shmem" yaml:"needs_shmem"`
}

// Task is one work unit result known to the daemon.
type Task struct {
	Name                      string            `json:"name" yaml:"name"`
	WUName                    string            `json:"wu_name" yaml:"wu_name"`
	ProjectURL                string            `json:"project_url" yaml:"project_url"`
	VersionNum                int               `json:"version_num" yaml:"version_num"`
	PlanClass                 string            `json:"plan_class,omitempty" yaml:"plan_class,omitempty"`
	ReceivedTime              time.Time         `json:"received_time" yaml:"received_time"`
	ReportDeadline            time.Time         `json:"report_deadline" yaml:"report_deadline"`
	ReadyToReport             bool              `json:"ready_to_report" yaml:"ready_to_report"`
	GotServerAck              bool              `json:"got_server_ack" yaml:"got_server_ack"`
	State                     ResultClientState `json:"state" yaml:"state"`
	ExitStatus                int               `json:"exit_status" yaml:"exit_status"`
	Signal                    int               `json:"signal" yaml:"signal"`
	SuspendedViaGUI           bool              `json:"suspended_via_gui" yaml:"suspended_via_gui"`
	ProjectSuspendedViaGUI    bool              `json:"project_suspended_via_gui" yaml:"project_suspended_via_gui"`
	EstimatedCPUTimeRemaining float64           `json:"estimated_cpu_time_remaining" yaml:"estimated_cpu_time_remaining"`
	FinalCPUTime              float64           `json:"final_cpu_time" yaml:"final_cpu_time"`
	FinalElapsedTime          float64           `json:"final_elapsed_time" yaml:"final_elapsed_time"`
	Resources                 string            `json:"resources,omitempty" yaml:"resources,omitempty"`
	ActiveTask                *ActiveTask       `json:"active_task,omitempty" yaml:"active_task,omitempty"`
}

// SchedulerState returns the scheduler state of the task's process, or
// uninitialized when the task has none.
func (t Task) SchedulerState() SchedulerState {
	if t.ActiveTask == nil {
		return SchedulerUninitialized
	}
	return t.ActiveTask.SchedulerState
}

// PersistentXfer is the retry bookkeeping of a file transfer.
type PersistentXfer struct {
	NumRetries       int       `json:"num_retries" yaml:"num_retries"`
	FirstRequestTime time.Time `json:"first_request_time" yaml:"first_request_time"`
	NextRequestTime  time.Time `json:"next_request_time" yaml:"next_request_time"`
	TimeSoFar        float64   `json:"time_so_far" yaml:"time_so_far"`
	LastBytesXferred float64   `json:"last_bytes_xferred" yaml:"last_bytes_xferred"`
	IsUpload         bool      `json:"is_upload" yaml:"is_upload"`
}

// XferProgress is present while a transfer is actively moving bytes.
type XferProgress struct {
	BytesXferred               float64 `json:"bytes_xferred" yaml:"bytes_xferred"`
	FileOffset                 float64 `json:"file_offset" yaml:"file_offset"`
	XferSpeed                  float64 `json:"xfer_speed" yaml:"xfer_speed"`
	URL                        string  `json:"url" yaml:"url"`
	EstimatedXferTimeRemaining float64 `json:"estimated_xfer_time_remaining" yaml:"estimated_xfer_time_remaining"`
}

// FileTransfer is one pending upload or download.
type FileTransfer struct {
	Name           string          `json:"name" yaml:"name"`
	ProjectURL     string          `json:"project_url" yaml:"project_url"`
	ProjectName    string          `json:"project_name" yaml:"project_name"`
	NBytes         float64         `json:"nbytes" yaml:"nbytes"`
	MaxNBytes      float64         `json:"max_nbytes" yaml:"max_nbytes"`
	Status         int             `json:"status" yaml:"status"`
	Sticky         bool            `json:"sticky" yaml:"sticky"`
	ProjectBackoff float64         `json:"project_backoff" yaml:"project_backoff"`
	Persistent     *PersistentXfer `json:"persistent_file_xfer,omitempty" yaml:"persistent_file_xfer,omitempty"`
	Xfer           *XferProgress   `json:"file_xfer,omitempty" yaml:"file_xfer,omitempty"`
}

// Message is one event log entry.
type Message struct {
	Seqno     int         `json:"seqno" yaml:"seqno"`
	Project   string      `json:"project" yaml:"project"`
	Priority  MsgPriority `json:"pri" yaml:"pri"`
	Body      string      `json:"body" yaml:"body"`
	Timestamp time.Time   `json:"time" yaml:"time"`
}

// Notice is one entry of the notice feed.
type Notice struct {
	Seqno       int       `json:"seqno" yaml:"seqno"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	CreateTime  time.Time `json:"create_time" yaml:"create_time"`
	ArrivalTime time.Time `json:"arrival_time" yaml:"arrival_time"`
	IsPrivate   bool      `json:"is_private" yaml:"is_private"`
	ProjectName string    `json:"project_name" yaml:"project_name"`
	Category    string    `json:"category" yaml:"category"`
	Link        string    `json:"link" yaml:"link"`
}

// GlobalPreferences is the override preference document. Every field is
// optional; nil fields are neither written nor changed.
type GlobalPreferences struct {
	RunOnBatteries             *bool    `json:"run_on_batteries,omitempty" yaml:"run_on_batteries,omitempty" toml:"run_on_batteries,omitempty"`
	RunIfUserActive            *bool    `json:"run_if_user_active,omitempty" yaml:"run_if_user_active,omitempty" toml:"run_if_user_active,omitempty"`
	RunGPUIfUserActive         *bool    `json:"run_gpu_if_user_active,omitempty" yaml:"run_gpu_if_user_active,omitempty" toml:"run_gpu_if_user_active,omitempty"`
	IdleTimeToRun              *float64 `json:"idle_time_to_run,omitempty" yaml:"idle_time_to_run,omitempty" toml:"idle_time_to_run,omitempty"`
	SuspendCPUUsage            *float64 `json:"suspend_cpu_usage,omitempty" yaml:"suspend_cpu_usage,omitempty" toml:"suspend_cpu_usage,omitempty"`
	StartHour                  *float64 `json:"start_hour,omitempty" yaml:"start_hour,omitempty" toml:"start_hour,omitempty"`
	EndHour                    *float64 `json:"end_hour,omitempty" yaml:"end_hour,omitempty" toml:"end_hour,omitempty"`
	NetStartHour               *float64 `json:"net_start_hour,omitempty" yaml:"net_start_hour,omitempty" toml:"net_start_hour,omitempty"`
	NetEndHour                 *float64 `json:"net_end_hour,omitempty" yaml:"net_end_hour,omitempty" toml:"net_end_hour,omitempty"`
	LeaveAppsInMemory          *bool    `json:"leave_apps_in_memory,omitempty" yaml:"leave_apps_in_memory,omitempty" toml:"leave_apps_in_memory,omitempty"`
	ConfirmBeforeConnecting    *bool    `json:"confirm_before_connecting,omitempty" yaml:"confirm_before_connecting,omitempty" toml:"confirm_before_connecting,omitempty"`
	HangupIfDialed             *bool    `json:"hangup_if_dialed,omitempty" yaml:"hangup_if_dialed,omitempty" toml:"hangup_if_dialed,omitempty"`
	DontVerifyImages           *bool    `json:"dont_verify_images,omitempty" yaml:"dont_verify_images,omitempty" toml:"dont_verify_images,omitempty"`
	NetworkWifiOnly            *bool    `json:"network_wifi_only,omitempty" yaml:"network_wifi_only,omitempty" toml:"network_wifi_only,omitempty"`
	WorkBufMinDays             *float64 `json:"work_buf_min_days,omitempty" yaml:"work_buf_min_days,omitempty" toml:"work_buf_min_days,omitempty"`
	WorkBufAdditionalDays      *float64 `json:"work_buf_additional_days,omitempty" yaml:"work_buf_additional_days,omitempty" toml:"work_buf_additional_days,omitempty"`
	MaxNCPUsPct                *float64 `json:"max_ncpus_pct,omitempty" yaml:"max_ncpus_pct,omitempty" toml:"max_ncpus_pct,omitempty"`
	CPUSchedulingPeriodMinutes *float64 `json:"cpu_scheduling_period_minutes,omitempty" yaml:"cpu_scheduling_period_minutes,omitempty" toml:"cpu_scheduling_period_minutes,omitempty"`
	DiskInterval               *float64 `json:"disk_interval,omitempty" yaml:"disk_interval,omitempty" toml:"disk_interval,omitempty"`
	DiskMaxUsedGB              *float64 `json:"disk_max_used_gb,omitempty" yaml:"disk_max_used_gb,omitempty" toml:"disk_max_used_gb,omitempty"`
	DiskMaxUsedPct             *float64 `json:"disk_max_used_pct,omitempty" yaml:"disk_max_used_pct,omitempty" toml:"disk_max_used_pct,omitempty"`
	DiskMinFreeGB              *float64 `json:"disk_min_free_gb,omitempty" yaml:"disk_min_free_gb,omitempty" toml:"disk_min_free_gb,omitempty"`
	VMMaxUsedPct               *float64 `json:"vm_max_used_pct,omitempty" yaml:"vm_max_used_pct,omitempty" toml:"vm_max_used_pct,omitempty"`
	RAMMaxUsedBusyPct          *float64 `json:"ram_max_used_busy_pct,omitempty" yaml:"ram_max_used_busy_pct,omitempty" toml:"ram_max_used_busy_pct,omitempty"`
	RAMMaxUsedIdlePct          *float64 `json:"ram_max_used_idle_pct,omitempty" yaml:"ram_max_used_idle_pct,omitempty" toml:"ram_max_used_idle_pct,omitempty"`
	MaxBytesSecUp              *float64 `json:"max_bytes_sec_up,omitempty" yaml:"max_bytes_sec_up,omitempty" toml:"max_bytes_sec_up,omitempty"`
	MaxBytesSecDown            *float64 `json:"max_bytes_sec_down,omitempty" yaml:"max_bytes_sec_down,omitempty" toml:"max_bytes_sec_down,omitempty"`
	CPUUsageLimit              *float64 `json:"cpu_usage_limit,omitempty" yaml:"cpu_usage_limit,omitempty" toml:"cpu_usage_limit,omitempty"`
	DailyXferLimitMB           *float64 `json:"daily_xfer_limit_mb,omitempty" yaml:"daily_xfer_limit_mb,omitempty" toml:"daily_xfer_limit_mb,omitempty"`
	DailyXferPeriodDays        *int     `json:"daily_xfer_period_days,omitempty" yaml:"daily_xfer_period_days,omitempty" toml:"daily_xfer_period_days,omitempty"`
}
