package protocol

import (
	"strconv"
	"time"
)

// Reply element names.
const (
	TagServerVersion     = "server_version"
	TagCCStatus          = "cc_status"
	TagHostInfo          = "host_info"
	TagDiskUsageSummary  = "disk_usage_summary"
	TagProjects          = "projects"
	TagResults           = "results"
	TagFileTransfers     = "file_transfers"
	TagMsgs              = "msgs"
	TagNotices           = "notices"
	TagGlobalPreferences = "global_preferences"
)

// Schemas for every reply payload. They are built once and are safe for
// concurrent use.
var (
	VersionSchema           = newVersionSchema(TagServerVersion)
	CCStatusSchema          = newCCStatusSchema()
	HostInfoSchema          = newHostInfoSchema()
	DiskUsageSchema         = newDiskUsageSchema()
	ProjectSchema           = newProjectSchema()
	ProjectListSchema       = listSchema(TagProjects, "project", ProjectSchema)
	TaskSchema              = newTaskSchema()
	TaskListSchema          = listSchema(TagResults, "result", TaskSchema)
	FileTransferSchema      = newFileTransferSchema()
	FileTransferListSchema  = listSchema(TagFileTransfers, "file_transfer", FileTransferSchema)
	MessageSchema           = newMessageSchema()
	MessageListSchema       = listSchema(TagMsgs, "msg", MessageSchema)
	NoticeSchema            = newNoticeSchema()
	NoticeListSchema        = listSchema(TagNotices, "notice", NoticeSchema)
	GlobalPreferencesSchema = newGlobalPreferencesSchema()
)

func listSchema[U any](tag, item string, sub *Schema[U]) *Schema[[]U] {
	s := NewSchema[[]U](tag)
	Repeat(s, item, sub, func(l *[]U) *[]U { return l })
	return s
}

func newVersionSchema(tag string) *Schema[Version] {
	return NewSchema[Version](tag).
		Int("major", func(v *Version) *int { return &v.Major }, Required()).
		Int("minor", func(v *Version) *int { return &v.Minor }, Required()).
		Int("release", func(v *Version) *int { return &v.Release }, Required())
}

func newCCStatusSchema() *Schema[CCStatus] {
	s := NewSchema[CCStatus](TagCCStatus)
	Enum(s, "network_status", func(c *CCStatus) *NetworkStatus { return &c.NetworkStatus }, Required())
	s.Bool("ams_password_error", func(c *CCStatus) *bool { return &c.AmsPasswordError }).
		Bool("manager_must_quit", func(c *CCStatus) *bool { return &c.ManagerMustQuit }).
		Bool("disallow_attach", func(c *CCStatus) *bool { return &c.DisallowAttach }).
		Bool("simple_gui_only", func(c *CCStatus) *bool { return &c.SimpleGUIOnly }).
		Int("max_event_log_lines", func(c *CCStatus) *int { return &c.MaxEventLogLines })

	Enum(s, "task_suspend_reason", func(c *CCStatus) *SuspendReason { return &c.TaskSuspendReason })
	Enum(s, "task_mode", func(c *CCStatus) *RunMode { return &c.TaskMode }, Required())
	Enum(s, "task_mode_perm", func(c *CCStatus) *RunMode { return &c.TaskModePerm })
	s.Float("task_mode_delay", func(c *CCStatus) *float64 { return &c.TaskModeDelay })

	Enum(s, "gpu_suspend_reason", func(c *CCStatus) *SuspendReason { return &c.GPUSuspendReason })
	Enum(s, "gpu_mode", func(c *CCStatus) *RunMode { return &c.GPUMode })
	Enum(s, "gpu_mode_perm", func(c *CCStatus) *RunMode { return &c.GPUModePerm })
	s.Float("gpu_mode_delay", func(c *CCStatus) *float64 { return &c.GPUModeDelay })

	Enum(s, "network_suspend_reason", func(c *CCStatus) *SuspendReason { return &c.NetworkSuspendReason })
	Enum(s, "network_mode", func(c *CCStatus) *RunMode { return &c.NetworkMode })
	Enum(s, "network_mode_perm", func(c *CCStatus) *RunMode { return &c.NetworkModePerm })
	s.Float("network_mode_delay", func(c *CCStatus) *float64 { return &c.NetworkModeDelay })
	return s
}

func newCoprocSchema(tag string) *Schema[Coproc] {
	opencl := NewSchema[OpenCL]("coproc_opencl").
		Text("name", func(o *OpenCL) *string { return &o.Name }).
		Text("vendor", func(o *OpenCL) *string { return &o.Vendor }).
		Text("opencl_driver_version", func(o *OpenCL) *string { return &o.DriverVersion }).
		Text("opencl_device_version", func(o *OpenCL) *string { return &o.DeviceVersion }).
		Float("global_mem_size", func(o *OpenCL) *float64 { return &o.GlobalMemSize })

	s := NewSchema[Coproc](tag).
		Text("name", func(c *Coproc) *string { return &c.Name }).
		Int("count", func(c *Coproc) *int { return &c.Count }).
		Float("peak_flops", func(c *Coproc) *float64 { return &c.PeakFlops }).
		Float("available_ram", func(c *Coproc) *float64 { return &c.AvailableRAM }).
		Int("localRAM", func(c *Coproc) *int { return &c.LocalRAM }).
		Text("CALVersion", func(c *Coproc) *string { return &c.Version })
	NestPtr(s, "coproc_opencl", opencl, func(c *Coproc) **OpenCL { return &c.OpenCL })
	return s
}

func newHostInfoSchema() *Schema[HostInfo] {
	coprocs := NewSchema[Coprocs]("coprocs")
	Repeat(coprocs, "coproc_cuda", newCoprocSchema("coproc_cuda"), func(c *Coprocs) *[]Coproc { return &c.CUDA })
	Repeat(coprocs, "coproc_ati", newCoprocSchema("coproc_ati"), func(c *Coprocs) *[]Coproc { return &c.AMD })
	Repeat(coprocs, "coproc_intel_gpu", newCoprocSchema("coproc_intel_gpu"), func(c *Coprocs) *[]Coproc { return &c.Intel })

	s := NewSchema[HostInfo](TagHostInfo).
		Int("timezone", func(h *HostInfo) *int { return &h.Timezone }).
		Text("domain_name", func(h *HostInfo) *string { return &h.DomainName }).
		Text("ip_addr", func(h *HostInfo) *string { return &h.IPAddr }).
		Text("host_cpid", func(h *HostInfo) *string { return &h.HostCPID }).
		Int("p_ncpus", func(h *HostInfo) *int { return &h.NCPUs }).
		Text("p_vendor", func(h *HostInfo) *string { return &h.CPUVendor }).
		Text("p_model", func(h *HostInfo) *string { return &h.CPUModel }).
		Text("p_features", func(h *HostInfo) *string { return &h.CPUFeatures }).
		Float("p_fpops", func(h *HostInfo) *float64 { return &h.FPOps }).
		Float("p_iops", func(h *HostInfo) *float64 { return &h.IntOps }).
		Float("p_membw", func(h *HostInfo) *float64 { return &h.MemBW }).
		Time("p_calculated", func(h *HostInfo) *time.Time { return &h.BenchmarkTime }).
		Bool("p_vm_extensions_disabled", func(h *HostInfo) *bool { return &h.VMExtDisabled }).
		Float("m_nbytes", func(h *HostInfo) *float64 { return &h.MemBytes }).
		Float("m_cache", func(h *HostInfo) *float64 { return &h.CacheBytes }).
		Float("m_swap", func(h *HostInfo) *float64 { return &h.SwapBytes }).
		Float("d_total", func(h *HostInfo) *float64 { return &h.DiskTotal }).
		Float("d_free", func(h *HostInfo) *float64 { return &h.DiskFree }).
		Text("os_name", func(h *HostInfo) *string { return &h.OSName }).
		Text("os_version", func(h *HostInfo) *string { return &h.OSVersion }).
		Text("product_name", func(h *HostInfo) *string { return &h.ProductName })
	Nest(s, "coprocs", coprocs, func(h *HostInfo) *Coprocs { return &h.Coprocs })
	return s
}

func newDiskUsageSchema() *Schema[DiskUsage] {
	project := NewSchema[ProjectDiskUsage]("project").
		Text("master_url", func(p *ProjectDiskUsage) *string { return &p.MasterURL }, Required()).
		Float("disk_usage", func(p *ProjectDiskUsage) *float64 { return &p.DiskUsage })

	s := NewSchema[DiskUsage](TagDiskUsageSummary).
		Float("d_total", func(d *DiskUsage) *float64 { return &d.Total }).
		Float("d_free", func(d *DiskUsage) *float64 { return &d.Free }).
		Float("d_boinc", func(d *DiskUsage) *float64 { return &d.Boinc }).
		Float("d_allowed", func(d *DiskUsage) *float64 { return &d.Allowed })
	Repeat(s, "project", project, func(d *DiskUsage) *[]ProjectDiskUsage { return &d.Projects })
	return s
}

func newProjectSchema() *Schema[Project] {
	guiURL := NewSchema[GuiURL]("gui_url").
		Text("name", func(g *GuiURL) *string { return &g.Name }).
		Text("description", func(g *GuiURL) *string { return &g.Description }).
		Text("url", func(g *GuiURL) *string { return &g.URL })

	s := NewSchema[Project]("project").
		Transparent("ifteam", "gui_urls").
		Text("master_url", func(p *Project) *string { return &p.MasterURL }, Required()).
		Text("project_name", func(p *Project) *string { return &p.ProjectName }).
		Text("user_name", func(p *Project) *string { return &p.UserName }).
		Text("team_name", func(p *Project) *string { return &p.TeamName }).
		Text("host_venue", func(p *Project) *string { return &p.HostVenue }).
		Float("resource_share", func(p *Project) *float64 { return &p.ResourceShare }).
		Float("user_total_credit", func(p *Project) *float64 { return &p.UserTotalCredit }).
		Float("user_expavg_credit", func(p *Project) *float64 { return &p.UserExpavgCredit }).
		Float("host_total_credit", func(p *Project) *float64 { return &p.HostTotalCredit }).
		Float("host_expavg_credit", func(p *Project) *float64 { return &p.HostExpavgCredit }).
		Int("nrpc_failures", func(p *Project) *int { return &p.NRPCFailures }).
		Int("master_fetch_failures", func(p *Project) *int { return &p.MasterFetchFailures }).
		Bool("master_url_fetch_pending", func(p *Project) *bool { return &p.MasterURLFetchPending }).
		Bool("trickle_up_pending", func(p *Project) *bool { return &p.TrickleUpPending }).
		Bool("attached_via_acct_mgr", func(p *Project) *bool { return &p.AttachedViaAcctMgr }).
		Bool("ended", func(p *Project) *bool { return &p.Ended }).
		Bool("suspended_via_gui", func(p *Project) *bool { return &p.SuspendedViaGUI }).
		Bool("dont_request_more_work", func(p *Project) *bool { return &p.DontRequestMoreWork }).
		Bool("detach_when_done", func(p *Project) *bool { return &p.DetachWhenDone }).
		Float("disk_usage", func(p *Project) *float64 { return &p.DiskUsage }).
		Time("last_rpc_time", func(p *Project) *time.Time { return &p.LastRPCTime }).
		Time("project_files_downloaded_time", func(p *Project) *time.Time { return &p.ProjectFilesDownloadedTime }).
		Int("njobs_success", func(p *Project) *int { return &p.NJobsSuccess }).
		Int("njobs_error", func(p *Project) *int { return &p.NJobsError }).
		Float("elapsed_time", func(p *Project) *float64 { return &p.ElapsedTime }).
		Text("external_cpid", func(p *Project) *string { return &p.ExternalCPID })
	Enum(s, "sched_rpc_pending", func(p *Project) *RpcReason { return &p.SchedRPCPending })
	Repeat(s, "gui_url", guiURL, func(p *Project) *[]GuiURL { return &p.GuiURLs })
	return s
}

func newTaskSchema() *Schema[Task] {
	active := NewSchema[ActiveTask]("active_task").
		Int("app_version_num", func(a *ActiveTask) *int { return &a.AppVersionNum }).
		Int("slot", func(a *ActiveTask) *int { return &a.Slot }).
		Int("pid", func(a *ActiveTask) *int { return &a.PID }).
		Float("checkpoint_cpu_time", func(a *ActiveTask) *float64 { return &a.CheckpointCPUTime }).
		Float("current_cpu_time", func(a *ActiveTask) *float64 { return &a.CurrentCPUTime }).
		Float("elapsed_time", func(a *ActiveTask) *float64 { return &a.ElapsedTime }).
		Float("fraction_done", func(a *ActiveTask) *float64 { return &a.FractionDone }).
		Float("swap_size", func(a *ActiveTask) *float64 { return &a.SwapSize }).
		Float("working_set_size_smoothed", func(a *ActiveTask) *float64 { return &a.WorkingSetSizeSmoothed }).
		Float("bytes_sent", func(a *ActiveTask) *float64 { return &a.BytesSent }).
		Float("bytes_received", func(a *ActiveTask) *float64 { return &a.BytesReceived }).
		Bool("too_large", func(a *ActiveTask) *bool { return &a.TooLarge }).
		Bool("needs_shmem", func(a *ActiveTask) *bool { return &a.NeedsSharedMem })
	Enum(active, "active_task_state", func(a *ActiveTask) *ActiveTaskState { return &a.State })
	Enum(active, "scheduler_state", func(a *ActiveTask) *SchedulerState { return &a.SchedulerState })

	s := NewSchema[Task]("result").
		Text("name", func(t *Task) *string { return &t.Name }, Required()).
		Text("wu_name", func(t *Task) *string { return &t.WUName }).
		Text("project_url", func(t *Task) *string { return &t.ProjectURL }).
		Int("version_num", func(t *Task) *int { return &t.VersionNum }).
		Text("plan_class", func(t *Task) *string { return &t.PlanClass }).
		Time("received_time", func(t *Task) *time.Time { return &t.ReceivedTime }).
		Time("report_deadline", func(t *Task) *time.Time { return &t.ReportDeadline }).
		Bool("ready_to_report", func(t *Task) *bool { return &t.ReadyToReport }).
		Bool("got_server_ack", func(t *Task) *bool { return &t.GotServerAck }).
		Int("exit_status", func(t *Task) *int { return &t.ExitStatus }).
		Int("signal", func(t *Task) *int { return &t.Signal }).
		Bool("suspended_via_gui", func(t *Task) *bool { return &t.SuspendedViaGUI }).
		Bool("project_suspended_via_gui", func(t *Task) *bool { return &t.ProjectSuspendedViaGUI }).
		Float("estimated_cpu_time_remaining", func(t *Task) *float64 { return &t.EstimatedCPUTimeRemaining }).
		Float("final_cpu_time", func(t *Task) *float64 { return &t.FinalCPUTime }).
		Float("final_elapsed_time", func(t *Task) *float64 { return &t.FinalElapsedTime }).
		Text("resources", func(t *Task) *string { return &t.Resources })
	Enum(s, "state", func(t *Task) *ResultClientState { return &t.State })
	NestPtr(s, "active_task", active, func(t *Task) **ActiveTask { return &t.ActiveTask })
	return s
}

func newFileTransferSchema() *Schema[FileTransfer] {
	persistent := NewSchema[PersistentXfer]("persistent_file_xfer").
		Int("num_retries", func(p *PersistentXfer) *int { return &p.NumRetries }).
		Time("first_request_time", func(p *PersistentXfer) *time.Time { return &p.FirstRequestTime }).
		Time("next_request_time", func(p *PersistentXfer) *time.Time { return &p.NextRequestTime }).
		Float("time_so_far", func(p *PersistentXfer) *float64 { return &p.TimeSoFar }).
		Float("last_bytes_xferred", func(p *PersistentXfer) *float64 { return &p.LastBytesXferred }).
		Bool("is_upload", func(p *PersistentXfer) *bool { return &p.IsUpload })

	xfer := NewSchema[XferProgress]("file_xfer").
		Float("bytes_xferred", func(x *XferProgress) *float64 { return &x.BytesXferred }).
		Float("file_offset", func(x *XferProgress) *float64 { return &x.FileOffset }).
		Float("xfer_speed", func(x *XferProgress) *float64 { return &x.XferSpeed }).
		Text("url", func(x *XferProgress) *string { return &x.URL }).
		Float("estimated_xfer_time_remaining", func(x *XferProgress) *float64 { return &x.EstimatedXferTimeRemaining })

	s := NewSchema[FileTransfer]("file_transfer").
		Text("name", func(f *FileTransfer) *string { return &f.Name }, Required()).
		Text("project_url", func(f *FileTransfer) *string { return &f.ProjectURL }).
		Text("project_name", func(f *FileTransfer) *string { return &f.ProjectName }).
		Float("nbytes", func(f *FileTransfer) *float64 { return &f.NBytes }).
		Float("max_nbytes", func(f *FileTransfer) *float64 { return &f.MaxNBytes }).
		Int("status", func(f *FileTransfer) *int { return &f.Status }).
		Bool("sticky", func(f *FileTransfer) *bool { return &f.Sticky }).
		Float("project_backoff", func(f *FileTransfer) *float64 { return &f.ProjectBackoff })
	NestPtr(s, "persistent_file_xfer", persistent, func(f *FileTransfer) **PersistentXfer { return &f.Persistent })
	NestPtr(s, "file_xfer", xfer, func(f *FileTransfer) **XferProgress { return &f.Xfer })
	return s
}

func newMessageSchema() *Schema[Message] {
	s := NewSchema[Message]("msg").
		Int("seqno", func(m *Message) *int { return &m.Seqno }, Required()).
		Text("project", func(m *Message) *string { return &m.Project }).
		Text("body", func(m *Message) *string { return &m.Body }).
		Time("time", func(m *Message) *time.Time { return &m.Timestamp })
	Enum(s, "pri", func(m *Message) *MsgPriority { return &m.Priority })
	return s
}

func newNoticeSchema() *Schema[Notice] {
	return NewSchema[Notice]("notice").
		Int("seqno", func(n *Notice) *int { return &n.Seqno }, Required()).
		Text("title", func(n *Notice) *string { return &n.Title }).
		Text("description", func(n *Notice) *string { return &n.Description }).
		Time("create_time", func(n *Notice) *time.Time { return &n.CreateTime }).
		Time("arrival_time", func(n *Notice) *time.Time { return &n.ArrivalTime }).
		Bool("is_private", func(n *Notice) *bool { return &n.IsPrivate }).
		Text("project_name", func(n *Notice) *string { return &n.ProjectName }).
		Text("category", func(n *Notice) *string { return &n.Category }).
		Text("link", func(n *Notice) *string { return &n.Link })
}

// prefField binds one preference tag to its field. Exactly one getter is set.
type prefField struct {
	tag   string
	flag  func(*GlobalPreferences) **bool
	num   func(*GlobalPreferences) **float64
	count func(*GlobalPreferences) **int
}

// prefFields drives both encoding and decoding of preference documents, in
// wire order.
var prefFields = []prefField{
	{tag: "run_on_batteries", flag: func(p *GlobalPreferences) **bool { return &p.RunOnBatteries }},
	{tag: "run_if_user_active", flag: func(p *GlobalPreferences) **bool { return &p.RunIfUserActive }},
	{tag: "run_gpu_if_user_active", flag: func(p *GlobalPreferences) **bool { return &p.RunGPUIfUserActive }},
	{tag: "idle_time_to_run", num: func(p *GlobalPreferences) **float64 { return &p.IdleTimeToRun }},
	{tag: "suspend_cpu_usage", num: func(p *GlobalPreferences) **float64 { return &p.SuspendCPUUsage }},
	{tag: "start_hour", num: func(p *GlobalPreferences) **float64 { return &p.StartHour }},
	{tag: "end_hour", num: func(p *GlobalPreferences) **float64 { return &p.EndHour }},
	{tag: "net_start_hour", num: func(p *GlobalPreferences) **float64 { return &p.NetStartHour }},
	{tag: "net_end_hour", num: func(p *GlobalPreferences) **float64 { return &p.NetEndHour }},
	{tag: "leave_apps_in_memory", flag: func(p *GlobalPreferences) **bool { return &p.LeaveAppsInMemory }},
	{tag: "confirm_before_connecting", flag: func(p *GlobalPreferences) **bool { return &p.ConfirmBeforeConnecting }},
	{tag: "hangup_if_dialed", flag: func(p *GlobalPreferences) **bool { return &p.HangupIfDialed }},
	{tag: "dont_verify_images", flag: func(p *GlobalPreferences) **bool { return &p.DontVerifyImages }},
	{tag: "network_wifi_only", flag: func(p *GlobalPreferences) **bool { return &p.NetworkWifiOnly }},
	{tag: "work_buf_min_days", num: func(p *GlobalPreferences) **float64 { return &p.WorkBufMinDays }},
	{tag: "work_buf_additional_days", num: func(p *GlobalPreferences) **float64 { return &p.WorkBufAdditionalDays }},
	{tag: "max_ncpus_pct", num: func(p *GlobalPreferences) **float64 { return &p.MaxNCPUsPct }},
	{tag: "cpu_scheduling_period_minutes", num: func(p *GlobalPreferences) **float64 { return &p.CPUSchedulingPeriodMinutes }},
	{tag: "disk_interval", num: func(p *GlobalPreferences) **float64 { return &p.DiskInterval }},
	{tag: "disk_max_used_gb", num: func(p *GlobalPreferences) **float64 { return &p.DiskMaxUsedGB }},
	{tag: "disk_max_used_pct", num: func(p *GlobalPreferences) **float64 { return &p.DiskMaxUsedPct }},
	{tag: "disk_min_free_gb", num: func(p *GlobalPreferences) **float64 { return &p.DiskMinFreeGB }},
	{tag: "vm_max_used_pct", num: func(p *GlobalPreferences) **float64 { return &p.VMMaxUsedPct }},
	{tag: "ram_max_used_busy_pct", num: func(p *GlobalPreferences) **float64 { return &p.RAMMaxUsedBusyPct }},
	{tag: "ram_max_used_idle_pct", num: func(p *GlobalPreferences) **float64 { return &p.RAMMaxUsedIdlePct }},
	{tag: "max_bytes_sec_up", num: func(p *GlobalPreferences) **float64 { return &p.MaxBytesSecUp }},
	{tag: "max_bytes_sec_down", num: func(p *GlobalPreferences) **float64 { return &p.MaxBytesSecDown }},
	{tag: "cpu_usage_limit", num: func(p *GlobalPreferences) **float64 { return &p.CPUUsageLimit }},
	{tag: "daily_xfer_limit_mb", num: func(p *GlobalPreferences) **float64 { return &p.DailyXferLimitMB }},
	{tag: "daily_xfer_period_days", count: func(p *GlobalPreferences) **int { return &p.DailyXferPeriodDays }},
}

func newGlobalPreferencesSchema() *Schema[GlobalPreferences] {
	s := NewSchema[GlobalPreferences](TagGlobalPreferences)
	for _, f := range prefFields {
		switch {
		case f.flag != nil:
			s.BoolPtr(f.tag, f.flag)
		case f.num != nil:
			s.FloatPtr(f.tag, f.num)
		case f.count != nil:
			s.IntPtr(f.tag, f.count)
		}
	}
	return s
}

// Encode writes the preference document. Nil fields are omitted.
func (p GlobalPreferences) Encode(w *Writer) {
	w.Block(TagGlobalPreferences, func(w *Writer) {
		for _, f := range prefFields {
			switch {
			case f.flag != nil:
				w.OptBool(f.tag, *f.flag(&p))
			case f.num != nil:
				w.OptFloat(f.tag, *f.num(&p))
			case f.count != nil:
				w.OptInt(f.tag, *f.count(&p))
			}
		}
	})
}

// PrefValue is one set preference in display form.
type PrefValue struct {
	Tag   string
	Value string
}

// PreferenceFields lists the non-nil preferences of p in wire order.
func PreferenceFields(p GlobalPreferences) []PrefValue {
	var out []PrefValue
	for _, f := range prefFields {
		switch {
		case f.flag != nil:
			if v := *f.flag(&p); v != nil {
				out = append(out, PrefValue{f.tag, strconv.FormatBool(*v)})
			}
		case f.num != nil:
			if v := *f.num(&p); v != nil {
				out = append(out, PrefValue{f.tag, FormatFloat(*v)})
			}
		case f.count != nil:
			if v := *f.count(&p); v != nil {
				out = append(out, PrefValue{f.tag, strconv.Itoa(*v)})
			}
		}
	}
	return out
}
