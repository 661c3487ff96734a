package app

import (
	"context"

	"github.com/grindlemire/graft"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/rebundle/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/rebundle/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/rebundle/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/rebundle/internal/adapters/scan"      //nolint:depguard // Wired in app layer
	"go.trai.ch/rebundle/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/rebundle/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/rebundle/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components is everything the command line entry point needs.
type Components struct {
	App    *App
	Logger ports.Logger
	// Console is the concrete logger, for output and verbosity switches.
	Console  *logger.Logger
	Provider *sdktrace.TracerProvider
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.PortNodeID,
			telemetry.TracerNodeID,
			fs.StaterNodeID,
			scan.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			logger.PortNodeID,
			telemetry.ProviderNodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	stater, err := graft.Dep[ports.FileStater](ctx)
	if err != nil {
		return nil, err
	}

	scans, err := graft.Dep[*scan.Factory](ctx)
	if err != nil {
		return nil, err
	}

	watchers, err := graft.Dep[ports.WatcherFactory](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, tracer, stater, scans, watchers), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	console, err := graft.Dep[*logger.Logger](ctx)
	if err != nil {
		return nil, err
	}

	provider, err := graft.Dep[*sdktrace.TracerProvider](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:      app,
		Logger:   log,
		Console:  console,
		Provider: provider,
	}, nil
}
