// Package protocol implements the markup vocabulary and codecs of the BOINC
// GUI RPC protocol: the request writer, the reply parser, the schema-driven
// decoder and the typed reply payloads. It can be used externally to build
// additional tooling or integrations.
package protocol

// Wire constants.
const (
	// DefaultPort is the conventional GUI RPC port of the daemon.
	DefaultPort = 31416
	// DefaultHost is the loopback host the daemon listens on by default.
	DefaultHost = "localhost"

	// Terminator is the byte that ends every framed message on the wire.
	Terminator byte = 0x00
	// LegacyTerminator is the end-of-message byte used by stock daemons.
	LegacyTerminator byte = 0x03

	RequestTag = "boinc_gui_rpc_request"
	ReplyTag   = "boinc_gui_rpc_reply"
)

// Failure and acknowledgement shapes shared by all commands.
const (
	TagError        = "error"
	TagErrorNum     = "error_num"
	TagErrorMsg     = "error_msg"
	TagUnauthorized = "unauthorized"
	TagSuccess      = "success"
	TagAuthorized   = "authorized"
	TagNonce        = "nonce"
	TagNonceHash    = "nonce_hash"
)

// Command tags for the request body.
const (
	CmdAuth1                   = "auth1"
	CmdAuth2                   = "auth2"
	CmdExchangeVersions        = "exchange_versions"
	CmdGetCCStatus             = "get_cc_status"
	CmdGetHostInfo             = "get_host_info"
	CmdGetDiskUsage            = "get_disk_usage"
	CmdGetProjectStatus        = "get_project_status"
	CmdGetResults              = "get_results"
	CmdGetFileTransfers        = "get_file_transfers"
	CmdGetMessages             = "get_messages"
	CmdGetNotices              = "get_notices"
	CmdProjectAttach           = "project_attach"
	CmdGetGlobalPrefsOverride  = "get_global_prefs_override"
	CmdSetGlobalPrefsOverride  = "set_global_prefs_override"
	CmdReadGlobalPrefsOverride = "read_global_prefs_override"
	CmdReadCCConfig            = "read_cc_config"
	CmdNetworkAvailable        = "network_available"
	CmdRunBenchmarks           = "run_benchmarks"
	CmdQuit                    = "quit"
	CmdSetRunMode              = "set_run_mode"
	CmdSetGpuMode              = "set_gpu_mode"
	CmdSetNetworkMode          = "set_network_mode"
)
