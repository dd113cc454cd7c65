package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Cancelled on Ctrl+C or SIGTERM; serve shuts down gracefully and scan
	// keeps the results that finished.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		os.Exit(130)
	default:
		os.Exit(1)
	}
}
