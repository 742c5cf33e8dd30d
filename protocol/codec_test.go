package protocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRequest(t *testing.T) {
	raw := EncodeRequest(CmdGetCCStatus, nil)
	assert.Equal(t, "<boinc_gui_rpc_request>\n<get_cc_status/>\n</boinc_gui_rpc_request>\n", string(raw))
}

func TestOpenReplyFailureShapes(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		code int
		msg  string
	}{
		{
			name: "structured",
			doc:  "<boinc_gui_rpc_reply><error><error_num>197</error_num><error_msg>not authorized</error_msg></error></boinc_gui_rpc_reply>",
			code: 197,
			msg:  "not authorized",
		},
		{
			name: "plain text",
			doc:  "<boinc_gui_rpc_reply>\n<error>unrecognized op</error>\n</boinc_gui_rpc_reply>",
			code: 0,
			msg:  "unrecognized op",
		},
		{
			name: "number only",
			doc:  "<boinc_gui_rpc_reply><error><error_num>-102</error_num></error></boinc_gui_rpc_reply>",
			code: -102,
			msg:  "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := OpenReply([]byte(tc.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCommandFailed))
			code, msg, ok := IsCommandFailed(err)
			require.True(t, ok)
			assert.Equal(t, tc.code, code)
			assert.Equal(t, tc.msg, msg)
		})
	}
}

func TestOpenReplyUnauthorized(t *testing.T) {
	_, err := OpenReply([]byte("<boinc_gui_rpc_reply>\n<unauthorized/>\n</boinc_gui_rpc_reply>\n"))
	assert.True(t, errors.Is(err, ErrNotAuthenticated))
}

func TestOpenReplyWrongEnvelope(t *testing.T) {
	_, err := OpenReply([]byte("<something_else/>"))
	assert.True(t, errors.Is(err, ErrMalformed))

	_, err = OpenReply([]byte("garbage"))
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestExpectSuccess(t *testing.T) {
	reply, err := OpenReply([]byte("<boinc_gui_rpc_reply><success/></boinc_gui_rpc_reply>"))
	require.NoError(t, err)
	assert.NoError(t, ExpectSuccess(reply))

	reply, err = OpenReply([]byte("<boinc_gui_rpc_reply><cc_status/></boinc_gui_rpc_reply>"))
	require.NoError(t, err)
	assert.True(t, errors.Is(ExpectSuccess(reply), ErrMalformed))
}

func TestDecodeCCStatusReply(t *testing.T) {
	doc := `<boinc_gui_rpc_reply>
<cc_status>
   <network_status>2</network_status>
   <ams_password_error>0</ams_password_error>
   <task_suspend_reason>4</task_suspend_reason>
   <task_mode>3</task_mode>
   <task_mode_perm>2</task_mode_perm>
   <task_mode_delay>3600.000000</task_mode_delay>
   <gpu_suspend_reason>0</gpu_suspend_reason>
   <gpu_mode>2</gpu_mode>
   <gpu_mode_perm>2</gpu_mode_perm>
   <gpu_mode_delay>0.000000</gpu_mode_delay>
   <network_suspend_reason>0</network_suspend_reason>
   <network_mode>1</network_mode>
   <network_mode_perm>1</network_mode_perm>
   <network_mode_delay>0.000000</network_mode_delay>
   <disallow_attach>0</disallow_attach>
   <simple_gui_only>1</simple_gui_only>
   <max_event_log_lines>2000</max_event_log_lines>
</cc_status>
</boinc_gui_rpc_reply>`

	reply, err := OpenReply([]byte(doc))
	require.NoError(t, err)
	st, err := CCStatusSchema.DecodeChild(reply)
	require.NoError(t, err)

	assert.Equal(t, CCStatus{
		NetworkStatus:        NetworkWantDisconnect,
		TaskSuspendReason:    SuspendUserReq,
		TaskMode:             RunModeNever,
		TaskModePerm:         RunModeAuto,
		TaskModeDelay:        3600,
		GPUMode:              RunModeAuto,
		GPUModePerm:          RunModeAuto,
		NetworkSuspendReason: SuspendNotSuspended,
		NetworkMode:          RunModeAlways,
		NetworkModePerm:      RunModeAlways,
		SimpleGUIOnly:        true,
		MaxEventLogLines:     2000,
	}, st)
}

func TestDecodeCCStatusMissingRequired(t *testing.T) {
	reply, err := OpenReply([]byte("<boinc_gui_rpc_reply><cc_status><task_mode>1</task_mode></cc_status></boinc_gui_rpc_reply>"))
	require.NoError(t, err)
	_, err = CCStatusSchema.DecodeChild(reply)

	var pe *Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, KindMissingField, pe.Kind)
	assert.Equal(t, "cc_status.network_status", pe.Field)
}

func TestGlobalPreferencesRoundTrip(t *testing.T) {
	yes, hours, days := true, 8.0, 3
	share := 62.5
	in := GlobalPreferences{
		RunOnBatteries:      &yes,
		StartHour:           &hours,
		MaxNCPUsPct:         &share,
		DailyXferPeriodDays: &days,
	}

	w := NewWriter()
	in.Encode(w)
	out, err := GlobalPreferencesSchema.Decode(mustParse(t, w.String()))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
