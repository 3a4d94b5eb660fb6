package app

import (
	"io"
	"log/slog"

	"github.com/vk/wireflow/internal/engine"
	"github.com/vk/wireflow/internal/observe"
	"github.com/vk/wireflow/internal/registry"
	"github.com/vk/wireflow/internal/store"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	engine   *engine.Engine
	config   *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger, registry and
// engine.
func NewApp(outW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All behavior modules registered.", "behaviors", reg.Len())

	opts := []engine.Option{engine.WithObserver(observe.NewSlogObserver())}
	if cfg.WorkflowsDir != "" {
		opts = append(opts, engine.WithStore(store.NewFS(cfg.WorkflowsDir)))
		logger.Debug("Workflow store configured.", "dir", cfg.WorkflowsDir)
	}
	if cfg.RandSeed != 0 {
		opts = append(opts, engine.WithRandSeed(cfg.RandSeed))
	}

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		engine:   engine.New(reg, opts...),
		config:   cfg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
