// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/rebundle/internal/adapters/config"
	_ "go.trai.ch/rebundle/internal/adapters/fs"
	_ "go.trai.ch/rebundle/internal/adapters/logger"
	_ "go.trai.ch/rebundle/internal/adapters/scan"
	_ "go.trai.ch/rebundle/internal/adapters/telemetry"
	_ "go.trai.ch/rebundle/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/rebundle/internal/app"
)
