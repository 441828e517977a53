// Package installer turns a catalog descriptor into on-disk weights plus a
// ready dependency environment, streaming progress events along the way.
package installer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"modelhost/internal/events"
	"modelhost/pkg/types"
)

// Pipeline runs installs. Safe for concurrent use; each Install call is
// independent and no state is shared beyond the filesystem.
type Pipeline struct {
	layout    Layout
	pythonBin string
	client    *http.Client
	log       zerolog.Logger
}

// Config holds Pipeline construction parameters.
type Config struct {
	DataDir   string
	PythonBin string // system interpreter used to create the venv
	Client    *http.Client
	Logger    zerolog.Logger
}

// New constructs a Pipeline.
func New(cfg Config) *Pipeline {
	py := cfg.PythonBin
	if py == "" {
		py = "python3"
	}
	cli := cfg.Client
	if cli == nil {
		// Timeout deliberately 0: downloads are long-lived and governed by
		// the caller's context.
		cli = &http.Client{Timeout: 0}
	}
	return &Pipeline{
		layout:    Layout{DataDir: cfg.DataDir},
		pythonBin: py,
		client:    cli,
		log:       cfg.Logger,
	}
}

// Layout exposes the on-disk layout so collaborators (the process
// supervisor) can resolve install artifacts.
func (p *Pipeline) Layout() Layout { return p.layout }

// Install runs the pipeline for one descriptor: ensure the virtualenv,
// download weights (skipped when present), install dependencies, emit the
// terminal event. Stage failures short-circuit and emit a terminal error
// status; nothing is retried and partial downloads are left in place.
func (p *Pipeline) Install(ctx context.Context, m types.Model, sink events.Sink) error {
	if sink == nil {
		sink = events.NopSink{}
	}
	em := &progressEmitter{sink: sink, modelID: m.ID}

	// Fully installed already: one completed event, no network traffic.
	if p.layout.Installed(m) {
		em.completed("Already installed.")
		return nil
	}

	if err := p.ensureVenv(ctx); err != nil {
		p.log.Error().Err(err).Str("model", m.ID).Msg("venv provisioning failed")
		em.error(err.Error())
		return err
	}

	if err := os.MkdirAll(p.layout.WeightsDir(m.ID), 0o755); err != nil {
		err = ErrDownload(fmt.Sprintf("create weights dir: %v", err))
		em.error(err.Error())
		return err
	}

	if err := p.download(ctx, m, em); err != nil {
		p.log.Error().Err(err).Str("model", m.ID).Msg("download failed")
		em.error(err.Error())
		return err
	}

	em.emit(types.InstallStatusInstallingDeps, 90, "Installing dependencies...")
	if err := p.installDeps(ctx, m.Dependencies); err != nil {
		p.log.Error().Err(err).Str("model", m.ID).Msg("dependency install failed")
		em.error(err.Error())
		return err
	}

	em.completed("Installation finished. Ready to launch.")
	p.log.Info().Str("model", m.ID).Str("path", p.layout.WeightsPath(m)).Msg("install complete")
	return nil
}

// download streams the weights file to disk, emitting a progress event
// whenever the integer percentage changes. A retried install truncates the
// destination and starts over; there is no resume.
func (p *Pipeline) download(ctx context.Context, m types.Model, em *progressEmitter) error {
	em.emit(types.InstallStatusDownloading, 0, "Starting download...")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.Source.URL, nil)
	if err != nil {
		return ErrDownload(fmt.Sprintf("request weights: %v", err))
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return ErrDownload(fmt.Sprintf("request weights: %v", err))
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ErrDownload(fmt.Sprintf("download failed: %s", resp.Status))
	}

	dst := p.layout.WeightsPath(m)
	f, err := os.Create(dst)
	if err != nil {
		return ErrDownload(fmt.Sprintf("create weights file: %v", err))
	}
	defer f.Close()

	total := resp.ContentLength // -1 when unknown
	var downloaded int64
	buf := make([]byte, 64*1024)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				return ErrDownload(fmt.Sprintf("write weights: %v", werr))
			}
			downloaded += int64(n)
			em.download(downloaded, total)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			if ctx.Err() != nil {
				return ErrDownload(fmt.Sprintf("download cancelled: %v", ctx.Err()))
			}
			return ErrDownload(fmt.Sprintf("read weights: %v", rerr))
		}
	}
	if err := f.Sync(); err != nil {
		return ErrDownload(fmt.Sprintf("sync weights: %v", err))
	}
	return nil
}

// progressEmitter rate-limits install-progress events: one event per changed
// integer percent, terminal event always emitted exactly once.
type progressEmitter struct {
	sink    events.Sink
	modelID string
	lastPct int
	lastMB  int64
	done    bool
}

func (e *progressEmitter) emit(status string, pct int, msg string) {
	if e.done {
		return
	}
	// Keep the stream non-decreasing: a stage that nominally reports a lower
	// percentage (deps at 90 after a fast download hit 100) is clamped up.
	if pct >= 0 && pct < e.lastPct {
		pct = e.lastPct
	}
	if pct > e.lastPct {
		e.lastPct = pct
	}
	e.sink.InstallProgress(types.InstallProgress{
		ModelID:  e.modelID,
		Status:   status,
		Progress: pct,
		Message:  msg,
	})
}

// download reports streaming progress. With a known total it emits on every
// integer percent change; otherwise it emits an indeterminate event per
// whole megabyte received.
func (e *progressEmitter) download(downloaded, total int64) {
	if total > 0 {
		pct := int(downloaded * 100 / total)
		if pct == e.lastPct {
			return
		}
		e.emit(types.InstallStatusDownloading, pct, fmt.Sprintf("%.2f MB / %.2f MB", mb(downloaded), mb(total)))
		return
	}
	if m := downloaded / (1024 * 1024); m != e.lastMB {
		e.lastMB = m
		e.emit(types.InstallStatusDownloading, types.ProgressIndeterminate, fmt.Sprintf("%.2f MB downloaded", mb(downloaded)))
	}
}

// completed emits the terminal success event at 100. Never dropped, even
// when the last downloading event already reached 100.
func (e *progressEmitter) completed(msg string) {
	e.emit(types.InstallStatusCompleted, 100, msg)
	e.done = true
}

// error emits the terminal failure event. Progress carries the last reported
// percentage so the stream stays non-decreasing.
func (e *progressEmitter) error(msg string) {
	e.emit(types.InstallStatusError, e.lastPct, msg)
	e.done = true
}

func mb(n int64) float64 { return float64(n) / 1024.0 / 1024.0 }
