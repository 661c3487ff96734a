// Package main is the entry point for the rebundle build cache.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grindlemire/graft"
	"go.trai.ch/rebundle/cmd/rebundle/commands"
	"go.trai.ch/rebundle/internal/adapters/telemetry"
	"go.trai.ch/rebundle/internal/app"
	_ "go.trai.ch/rebundle/internal/wiring"
)

const shutdownTimeout = 2 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		// Write directly to stderr
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	defer func() {
		_ = telemetry.Shutdown(components.Provider, shutdownTimeout)
	}()

	// 2. Interface - CLI
	cli := commands.New(components.App, components.Console)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return 1
	}
	return 0
}
