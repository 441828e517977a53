// Package app wires the catalog, install pipeline, process supervisor and
// embedded engine into the operation surface the host layer exposes.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"modelhost/internal/catalog"
	"modelhost/internal/common/fsutil"
	"modelhost/internal/config"
	"modelhost/internal/engine"
	"modelhost/internal/events"
	"modelhost/internal/installer"
	"modelhost/internal/supervisor"
	"modelhost/internal/sysinfo"
	"modelhost/pkg/types"
)

// App is the application core. All operations resolve model ids against the
// catalog first, so collaborators only ever see validated descriptors.
type App struct {
	cat   *catalog.Catalog
	pipe  *installer.Pipeline
	sup   *supervisor.Supervisor
	eng   *engine.Context
	log   zerolog.Logger
	start time.Time
}

// New assembles the core from configuration. The data directory is created
// lazily by the install pipeline; construction never touches the disk.
func New(cfg config.Config, cat *catalog.Catalog, logger zerolog.Logger) (*App, error) {
	dataDir, err := fsutil.ExpandHome(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	pipe := installer.New(installer.Config{
		DataDir:   dataDir,
		PythonBin: cfg.PythonBin,
		Logger:    logger.With().Str("component", "installer").Logger(),
	})
	sup := supervisor.New(supervisor.Config{
		Layout:         pipe.Layout(),
		PythonBin:      cfg.PythonBin,
		ServerScript:   cfg.ServerScript,
		HealthAttempts: cfg.HealthAttempts,
		HealthInterval: cfg.HealthIntervalDuration(),
		Logger:         logger.With().Str("component", "supervisor").Logger(),
	})
	eng := engine.NewContext(engine.ContextConfig{
		CtxSize:   cfg.CtxSize,
		MaxTokens: cfg.MaxTokens,
		Logger:    logger.With().Str("component", "engine").Logger(),
	})
	return &App{
		cat:   cat,
		pipe:  pipe,
		sup:   sup,
		eng:   eng,
		log:   logger,
		start: time.Now(),
	}, nil
}

// Models lists the catalog.
func (a *App) Models() []types.Model { return a.cat.List() }

// Resolve maps a model id to its descriptor.
func (a *App) Resolve(id string) (types.Model, error) {
	m, ok := a.cat.ByID(id)
	if !ok {
		return types.Model{}, ErrNotFound(id)
	}
	return m, nil
}

// Install runs the install pipeline for a catalog model, streaming progress
// to the sink.
func (a *App) Install(ctx context.Context, id string, sink events.Sink) error {
	m, err := a.Resolve(id)
	if err != nil {
		return err
	}
	return a.pipe.Install(ctx, m, sink)
}

// Launch starts (or restarts) the backing service for an installed model and
// returns its port.
func (a *App) Launch(ctx context.Context, id string) (int, error) {
	m, err := a.Resolve(id)
	if err != nil {
		return 0, err
	}
	return a.sup.Launch(ctx, m)
}

// Load pulls an installed model into the embedded engine, replacing whatever
// was loaded before.
func (a *App) Load(id string) error {
	m, err := a.Resolve(id)
	if err != nil {
		return err
	}
	layout := a.pipe.Layout()
	if !layout.Installed(m) {
		return supervisor.ErrModelNotInstalled(m.ID)
	}
	return a.eng.LoadModel(layout.WeightsPath(m))
}

// Generate runs one generation on the embedded engine, streaming tokens to
// the sink. Concurrent calls serialize inside the engine.
func (a *App) Generate(ctx context.Context, prompt string, sink events.Sink) error {
	return a.eng.Generate(ctx, prompt, sink)
}

// Ready reports whether any model is live: loaded in the embedded engine or
// served by a running backing process.
func (a *App) Ready() bool {
	if a.eng.Ready() {
		return true
	}
	st := a.sup.Status()
	return st != nil && st.State == string(supervisor.StateRunning)
}

// Status snapshots the whole system: engine slot, supervised process,
// installed weights and host capabilities.
func (a *App) Status() types.StatusResponse {
	layout := a.pipe.Layout()
	installed := make([]string, 0)
	var engineModel string
	loaded := a.eng.LoadedPath()
	for _, m := range a.cat.List() {
		if layout.Installed(m) {
			installed = append(installed, m.ID)
		}
		if loaded != "" && layout.WeightsPath(m) == loaded {
			engineModel = m.ID
		}
	}
	return types.StatusResponse{
		EngineModel:    engineModel,
		EngineReady:    a.eng.Ready(),
		Service:        a.sup.Status(),
		Installed:      installed,
		Host:           sysinfo.Collect(),
		UptimeSeconds:  int64(time.Since(a.start).Seconds()),
		ServerTimeUnix: time.Now().Unix(),
	}
}

// Close releases the supervised process and the engine runtime.
func (a *App) Close() error {
	err := a.sup.Close()
	if cerr := a.eng.Close(); err == nil {
		err = cerr
	}
	return err
}
