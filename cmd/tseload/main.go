package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/JonMunkholm/tseload/internal/cli"
	_ "github.com/JonMunkholm/tseload/internal/core/tables" // Register all tables
	"github.com/JonMunkholm/tseload/pkg/tseload"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(tseload.ExitPanic)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := cli.Execute(ctx)
	stop()

	if err != nil {
		os.Exit(tseload.ExitCodeForError(err))
	}
}
