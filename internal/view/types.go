package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/mfulz/boincgeist/protocol"
)

func (r *Renderer) tables(v any) ([]table, bool) {
	switch x := v.(type) {
	case protocol.Version:
		t := table{}
		t.kv("version", x)
		return []table{t}, true
	case protocol.CCStatus:
		return r.ccStatus(x), true
	case protocol.HostInfo:
		return r.hostInfo(x), true
	case protocol.DiskUsage:
		return r.diskUsage(x), true
	case []protocol.Project:
		return r.projects(x), true
	case []protocol.Task:
		return r.tasks(x), true
	case []protocol.FileTransfer:
		return r.transfers(x), true
	case []protocol.Message:
		return r.messages(x), true
	case []protocol.Notice:
		return r.notices(x), true
	case protocol.GlobalPreferences:
		return r.prefs(x), true
	}
	return nil, false
}

func (r *Renderer) when(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("2006-01-02 15:04:05")
}

// size renders a byte count with binary units.
func size(n float64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%.0f B", n)
	}
	units := []string{"KiB", "MiB", "GiB", "TiB", "PiB"}
	i := -1
	for n >= unit && i < len(units)-1 {
		n /= unit
		i++
	}
	return fmt.Sprintf("%.2f %s", n, units[i])
}

func seconds(s float64) string {
	return (time.Duration(s * float64(time.Second))).Round(time.Second).String()
}

func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func modeLine(mode, perm protocol.RunMode, delay float64) string {
	if delay > 0 && mode != perm {
		return fmt.Sprintf("%s for %s, then %s", mode, seconds(delay), perm)
	}
	return mode.String()
}

func suspendTone(r protocol.SuspendReason) tone {
	if r.Suspended() {
		return warn
	}
	return good
}

func (r *Renderer) ccStatus(s protocol.CCStatus) []table {
	t := table{title: "Status"}
	net := good
	if s.NetworkStatus != protocol.NetworkOnline {
		net = warn
	}
	t.kvTone(net, "network", s.NetworkStatus)
	t.kv("tasks mode", modeLine(s.TaskMode, s.TaskModePerm, s.TaskModeDelay))
	t.kvTone(suspendTone(s.TaskSuspendReason), "tasks", s.TaskSuspendReason)
	t.kv("gpu mode", modeLine(s.GPUMode, s.GPUModePerm, s.GPUModeDelay))
	t.kvTone(suspendTone(s.GPUSuspendReason), "gpu", s.GPUSuspendReason)
	t.kv("network mode", modeLine(s.NetworkMode, s.NetworkModePerm, s.NetworkModeDelay))
	t.kvTone(suspendTone(s.NetworkSuspendReason), "network activity", s.NetworkSuspendReason)
	if s.AmsPasswordError {
		t.kvTone(bad, "account manager", "password error")
	}
	if s.ManagerMustQuit {
		t.kvTone(bad, "manager", "must quit")
	}
	return []table{t}
}

func (r *Renderer) hostInfo(h protocol.HostInfo) []table {
	t := table{title: "Host"}
	t.kv("domain name", h.DomainName)
	t.kv("ip address", h.IPAddr)
	t.kv("host cpid", h.HostCPID)
	t.kv("os", strings.TrimSpace(h.OSName+" "+h.OSVersion))
	if h.ProductName != "" {
		t.kv("product", h.ProductName)
	}
	t.kv("cpu", fmt.Sprintf("%d x %s %s", h.NCPUs, h.CPUVendor, h.CPUModel))
	t.kv("fp ops/s", fmt.Sprintf("%.2f G", h.FPOps/1e9))
	t.kv("int ops/s", fmt.Sprintf("%.2f G", h.IntOps/1e9))
	t.kv("benchmarked", r.when(h.BenchmarkTime))
	t.kv("memory", size(h.MemBytes))
	t.kv("swap", size(h.SwapBytes))
	t.kv("disk", fmt.Sprintf("%s free of %s", size(h.DiskFree), size(h.DiskTotal)))
	t.kv("timezone", fmt.Sprintf("UTC%+d", h.Timezone/3600))

	out := []table{t}
	gpus := table{title: "Coprocessors", header: []string{"VENDOR", "NAME", "COUNT", "MEMORY", "PEAK GFLOPS"}}
	for _, g := range []struct {
		vendor string
		list   []protocol.Coproc
	}{{"nvidia", h.Coprocs.CUDA}, {"amd", h.Coprocs.AMD}, {"intel", h.Coprocs.Intel}} {
		for _, c := range g.list {
			gpus.add(plain, g.vendor, c.Name, fmt.Sprint(c.Count), size(c.AvailableRAM), fmt.Sprintf("%.0f", c.PeakFlops/1e9))
		}
	}
	if len(gpus.rows) > 0 {
		out = append(out, gpus)
	}
	return out
}

func (r *Renderer) diskUsage(d protocol.DiskUsage) []table {
	t := table{title: "Disk"}
	t.kv("total", size(d.Total))
	t.kv("free", size(d.Free))
	t.kv("used by boinc", size(d.Boinc))
	t.kv("allowed", size(d.Allowed))

	p := table{title: "Projects", header: []string{"PROJECT", "USAGE"}}
	for _, u := range d.Projects {
		p.add(plain, u.MasterURL, size(u.DiskUsage))
	}
	if len(p.rows) == 0 {
		return []table{t}
	}
	return []table{t, p}
}

func projectStatus(p protocol.Project) (string, tone) {
	var flags []string
	tn := good
	if p.SuspendedViaGUI {
		flags = append(flags, "suspended")
		tn = warn
	}
	if p.DontRequestMoreWork {
		flags = append(flags, "no new tasks")
		tn = warn
	}
	if p.DetachWhenDone {
		flags = append(flags, "detach when done")
	}
	if p.Ended {
		flags = append(flags, "ended")
		tn = bad
	}
	if p.SchedRPCPending != protocol.RpcReasonNone {
		flags = append(flags, "scheduler request pending")
	}
	if len(flags) == 0 {
		return "active", tn
	}
	return strings.Join(flags, ", "), tn
}

func (r *Renderer) projects(ps []protocol.Project) []table {
	t := table{header: []string{"NAME", "URL", "USER", "TEAM", "CREDIT", "AVG", "SHARE", "STATUS"}}
	for _, p := range ps {
		status, tn := projectStatus(p)
		t.add(tn, p.ProjectName, p.MasterURL, p.UserName, p.TeamName,
			fmt.Sprintf("%.0f", p.UserTotalCredit), fmt.Sprintf("%.2f", p.UserExpavgCredit),
			fmt.Sprintf("%.0f", p.ResourceShare), status)
	}
	return []table{t}
}

func taskStatus(t protocol.Task) (string, tone) {
	switch {
	case t.SuspendedViaGUI:
		return "suspended by user", warn
	case t.ProjectSuspendedViaGUI:
		return "project suspended", warn
	case t.State == protocol.ResultComputeError, t.State == protocol.ResultAborted, t.State == protocol.ResultUploadFailed:
		return t.State.String(), bad
	case t.ReadyToReport:
		return "ready to report", good
	case t.ActiveTask != nil:
		if t.SchedulerState() == protocol.SchedulerScheduled {
			return "running", good
		}
		return strings.ToLower(t.ActiveTask.State.String()), warn
	default:
		return t.State.String(), plain
	}
}

func (r *Renderer) tasks(ts []protocol.Task) []table {
	t := table{header: []string{"NAME", "PROJECT", "PROGRESS", "ELAPSED", "REMAINING", "DEADLINE", "STATUS"}}
	for _, task := range ts {
		progress, elapsed := "-", "-"
		if a := task.ActiveTask; a != nil {
			progress = percent(a.FractionDone)
			elapsed = seconds(a.ElapsedTime)
		}
		status, tn := taskStatus(task)
		t.add(tn, task.Name, task.ProjectURL, progress, elapsed,
			seconds(task.EstimatedCPUTimeRemaining), r.when(task.ReportDeadline), status)
	}
	return []table{t}
}

func (r *Renderer) transfers(xs []protocol.FileTransfer) []table {
	t := table{header: []string{"NAME", "PROJECT", "DIRECTION", "SIZE", "DONE", "SPEED", "STATUS"}}
	for _, x := range xs {
		direction, done, speed := "download", "-", "-"
		status, tn := "queued", plain
		if p := x.Persistent; p != nil {
			if p.IsUpload {
				direction = "upload"
			}
			if p.NumRetries > 0 {
				status, tn = fmt.Sprintf("retry %d, next %s", p.NumRetries, r.when(p.NextRequestTime)), warn
			}
		}
		if xf := x.Xfer; xf != nil {
			if x.NBytes > 0 {
				done = percent(xf.BytesXferred / x.NBytes)
			}
			speed = size(xf.XferSpeed) + "/s"
			status, tn = "active", good
		}
		t.add(tn, x.Name, x.ProjectName, direction, size(x.NBytes), done, speed, status)
	}
	return []table{t}
}

func (r *Renderer) messages(ms []protocol.Message) []table {
	t := table{header: []string{"SEQ", "TIME", "PROJECT", "MESSAGE"}}
	for _, m := range ms {
		tn := plain
		switch m.Priority {
		case protocol.MsgUserAlert:
			tn = warn
		case protocol.MsgInternalError:
			tn = bad
		}
		project := m.Project
		if project == "" {
			project = "-"
		}
		t.add(tn, fmt.Sprint(m.Seqno), r.when(m.Timestamp), project, strings.TrimSpace(m.Body))
	}
	return []table{t}
}

func (r *Renderer) notices(ns []protocol.Notice) []table {
	t := table{header: []string{"SEQ", "ARRIVED", "PROJECT", "CATEGORY", "TITLE"}}
	for _, n := range ns {
		t.add(plain, fmt.Sprint(n.Seqno), r.when(n.ArrivalTime), n.ProjectName, n.Category, n.Title)
	}
	return []table{t}
}

func (r *Renderer) prefs(p protocol.GlobalPreferences) []table {
	t := table{title: "Preference override"}
	for _, f := range protocol.PreferenceFields(p) {
		t.kv(f.Tag, f.Value)
	}
	return []table{t}
}
