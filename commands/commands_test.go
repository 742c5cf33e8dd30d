package commands

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfulz/boincgeist/interfaces"
	"github.com/mfulz/boincgeist/protocol"
)

func body(req interfaces.Request) string {
	return string(protocol.EncodeRequest(req.Tag(), req.Encode))
}

func reply(t *testing.T, inner string) *protocol.Node {
	t.Helper()
	n, err := protocol.OpenReply([]byte("<boinc_gui_rpc_reply>\n" + inner + "\n</boinc_gui_rpc_reply>\n"))
	require.NoError(t, err)
	return n
}

func TestRequestWireForm(t *testing.T) {
	cases := []struct {
		req  interfaces.Request
		want string
	}{
		{Auth1{}, "<auth1/>\n"},
		{Auth2{Digest: "ab12"}, "<auth2>\n<nonce_hash>ab12</nonce_hash>\n</auth2>\n"},
		{GetCCStatus{}, "<get_cc_status/>\n"},
		{GetResults{ActiveOnly: true}, "<get_results>\n<active_only/>\n</get_results>\n"},
		{GetResults{}, "<get_results/>\n"},
		{GetMessages{Seqno: 42}, "<get_messages>\n<seqno>42</seqno>\n</get_messages>\n"},
		{
			ProjectOp{URL: "foo.bar", Op: ProjectResume},
			"<project_resume>\n<project_url>foo.bar</project_url>\n</project_resume>\n",
		},
		{
			TaskOp{URL: "foo.bar", Name: "Some task", Op: TaskAbort},
			"<abort_result>\n<project_url>foo.bar</project_url>\n<name>Some task</name>\n</abort_result>\n",
		},
		{
			FileTransferOp{URL: "foo.bar", Filename: "Some file transfer", Op: TransferRetry},
			"<retry_file_transfer>\n<project_url>foo.bar</project_url>\n<filename>Some file transfer</filename>\n</retry_file_transfer>\n",
		},
		{
			SetMode{Resource: ResourceGPU, Mode: protocol.RunModeNever, Duration: 90 * time.Minute},
			"<set_gpu_mode>\n<never/>\n<duration>5400</duration>\n</set_gpu_mode>\n",
		},
		{
			ProjectAttach{URL: "https://a.org/", Authenticator: "k&y", Name: "A"},
			"<project_attach>\n<project_url>https://a.org/</project_url>\n<authenticator>k&amp;y</authenticator>\n<project_name>A</project_name>\n</project_attach>\n",
		},
		{Quit{}, "<quit/>\n"},
	}
	for _, tc := range cases {
		t.Run(tc.req.Tag(), func(t *testing.T) {
			got := body(tc.req)
			assert.Equal(t, "<boinc_gui_rpc_request>\n"+tc.want+"</boinc_gui_rpc_request>\n", got)
		})
	}
}

func TestSetModeTags(t *testing.T) {
	assert.Equal(t, protocol.CmdSetRunMode, SetMode{Resource: ResourceRun}.Tag())
	assert.Equal(t, protocol.CmdSetGpuMode, SetMode{Resource: ResourceGPU}.Tag())
	assert.Equal(t, protocol.CmdSetNetworkMode, SetMode{Resource: ResourceNetwork}.Tag())
}

func TestPrivilegedSet(t *testing.T) {
	open := []interfaces.Request{
		Auth1{}, Auth2{}, ExchangeVersions{}, GetCCStatus{}, GetHostInfo{}, GetDiskUsage{},
		GetProjectStatus{}, GetResults{}, GetFileTransfers{}, GetMessages{},
	}
	for _, r := range open {
		assert.False(t, r.Privileged(), r.Tag())
	}

	locked := []interfaces.Request{
		GetNotices{}, ProjectAttach{}, ProjectOp{Op: ProjectReset}, TaskOp{Op: TaskSuspend},
		FileTransferOp{Op: TransferAbort}, SetMode{Resource: ResourceRun}, GetGlobalPrefsOverride{},
		SetGlobalPrefsOverride{}, ReadGlobalPrefsOverride{}, ReadCCConfig{}, NetworkAvailable{},
		RunBenchmarks{}, Quit{},
	}
	for _, r := range locked {
		assert.True(t, r.Privileged(), r.Tag())
	}
}

func TestValidate(t *testing.T) {
	bad := []interfaces.Validator{
		ProjectOp{URL: "u", Op: "explode"},
		TaskOp{Op: "pause"},
		FileTransferOp{Op: "delete"},
		SetMode{Resource: "disk", Mode: protocol.RunModeAuto},
		SetMode{Resource: ResourceRun},
		SetMode{Resource: ResourceRun, Mode: protocol.RunModeAuto, Duration: -time.Second},
		ProjectAttach{},
	}
	for _, v := range bad {
		err := v.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, protocol.ErrMalformed))
	}
	assert.NoError(t, SetMode{Resource: ResourceRun, Mode: protocol.RunModeRestore}.Validate())
	for _, op := range ProjectOperations {
		assert.NoError(t, ProjectOp{Op: op}.Validate())
	}
}

func TestAuthReplies(t *testing.T) {
	nonce, err := Auth1{}.Decode(reply(t, "<nonce>1198959933.057125</nonce>"))
	require.NoError(t, err)
	assert.Equal(t, "1198959933.057125", nonce)

	_, err = Auth1{}.Decode(reply(t, "<something/>"))
	assert.True(t, errors.Is(err, protocol.ErrMissingField))

	ok, err := Auth2{}.Decode(reply(t, "<authorized/>"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAckReplies(t *testing.T) {
	_, err := Quit{}.Decode(reply(t, "<success/>"))
	assert.NoError(t, err)

	_, err = Quit{}.Decode(reply(t, "<cc_status/>"))
	assert.True(t, errors.Is(err, protocol.ErrMalformed))
}

func TestExchangeVersionsRoundTrip(t *testing.T) {
	cmd := ExchangeVersions{Version: protocol.Version{Major: 8, Minor: 0, Release: 4}}
	sent := body(cmd)

	// the daemon answers with the same fields under <server_version>
	root, err := protocol.Parse([]byte(sent))
	require.NoError(t, err)
	var fields strings.Builder
	for _, c := range root.Child(cmd.Tag()).Children {
		fields.WriteString("<" + c.Name + ">" + c.Text + "</" + c.Name + ">")
	}

	got, err := cmd.Decode(reply(t, "<server_version>"+fields.String()+"</server_version>"))
	require.NoError(t, err)
	assert.Equal(t, cmd.Version, got)
}

func TestGlobalPrefsRoundTrip(t *testing.T) {
	on, off := true, false
	start, end, pct := 7.0, 22.5, 50.0
	period := 30
	prefs := protocol.GlobalPreferences{
		RunOnBatteries:      &off,
		RunIfUserActive:     &on,
		StartHour:           &start,
		EndHour:             &end,
		MaxNCPUsPct:         &pct,
		DailyXferPeriodDays: &period,
	}

	sent := body(SetGlobalPrefsOverride{Prefs: prefs})
	root, err := protocol.Parse([]byte(sent))
	require.NoError(t, err)
	doc := root.Child(protocol.CmdSetGlobalPrefsOverride).Child(protocol.TagGlobalPreferences)
	require.NotNil(t, doc)
	assert.Len(t, doc.Children, 6)

	w := protocol.NewWriter()
	prefs.Encode(w)
	got, err := GetGlobalPrefsOverride{}.Decode(reply(t, w.String()))
	require.NoError(t, err)
	assert.Equal(t, prefs, got)
}

func TestListRepliesKeepOrder(t *testing.T) {
	tasks, err := GetResults{}.Decode(reply(t, `<results>
<result><name>b</name><state>2</state><active_task><active_task_state>1</active_task_state><scheduler_state>2</scheduler_state><fraction_done>0.5</fraction_done></active_task></result>
<result><name>a</name><state>5</state></result>
</results>`))
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "b", tasks[0].Name)
	assert.Equal(t, protocol.ResultFilesDownloaded, tasks[0].State)
	require.NotNil(t, tasks[0].ActiveTask)
	assert.Equal(t, protocol.TaskExecuting, tasks[0].ActiveTask.State)
	assert.Equal(t, protocol.SchedulerScheduled, tasks[0].SchedulerState())
	assert.Equal(t, 0.5, tasks[0].ActiveTask.FractionDone)
	assert.Equal(t, "a", tasks[1].Name)
	assert.Nil(t, tasks[1].ActiveTask)

	empty, err := GetMessages{}.Decode(reply(t, "<msgs>\n</msgs>"))
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = GetNotices{}.Decode(reply(t, "<msgs/>"))
	assert.True(t, errors.Is(err, protocol.ErrMalformed), "notices reply without <notices>")
}

func TestFileTransfersAndDiskUsage(t *testing.T) {
	xfers, err := GetFileTransfers{}.Decode(reply(t, `<file_transfers>
<file_transfer>
<project_url>https://a.org/</project_url>
<name>out_0</name>
<nbytes>2048</nbytes>
<persistent_file_xfer><num_retries>1</num_retries><is_upload>1</is_upload><time_so_far>3.5</time_so_far></persistent_file_xfer>
<file_xfer><bytes_xferred>1024</bytes_xferred><xfer_speed>512</xfer_speed></file_xfer>
</file_transfer>
</file_transfers>`))
	require.NoError(t, err)
	require.Len(t, xfers, 1)
	assert.Equal(t, "out_0", xfers[0].Name)
	require.NotNil(t, xfers[0].Persistent)
	assert.True(t, xfers[0].Persistent.IsUpload)
	require.NotNil(t, xfers[0].Xfer)
	assert.Equal(t, 1024.0, xfers[0].Xfer.BytesXferred)

	du, err := GetDiskUsage{}.Decode(reply(t, `<disk_usage_summary>
<project><master_url>https://a.org/</master_url><disk_usage>100</disk_usage></project>
<project><master_url>https://b.org/</master_url><disk_usage>200</disk_usage></project>
<d_total>1000</d_total><d_free>400</d_free>
</disk_usage_summary>`))
	require.NoError(t, err)
	assert.Equal(t, 1000.0, du.Total)
	assert.Equal(t, 400.0, du.Free)
	require.Len(t, du.Projects, 2)
	assert.Equal(t, "https://b.org/", du.Projects[1].MasterURL)
}
