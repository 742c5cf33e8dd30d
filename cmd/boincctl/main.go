// Command boincctl queries and controls BOINC clients over the GUI RPC
// protocol. Hosts, credentials and logging come from boincctl.yaml.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mfulz/boincgeist/cmd/boincctl/cmd"
	"github.com/mfulz/boincgeist/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.BuildVersion = version
	if err := cmd.RootCmd.ExecuteContext(ctx); err != nil {
		logging.Log.Errorf("[boincctl] %v", err)
		_ = logging.Log.Sync()
		stop()
		os.Exit(1)
	}
}
