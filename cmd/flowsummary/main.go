// Command flowsummary builds the token flow and holder summary document from the ledger store.
//
// Usage:
//
//	flowsummary generate --config config.yaml
//	flowsummary generate --use-fixtures --output out/summary.json
//	flowsummary migrate --config config.yaml
//	flowsummary seed --config config.yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Cancel the context on SIGINT/SIGTERM; store calls observe it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{}
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		if a.log != nil {
			a.log.Error("command failed", "error", err)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		return 1
	}
	return 0
}
