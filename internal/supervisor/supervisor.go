// Package supervisor owns the lifetime of the single backing inference
// service process: spawn on an ephemeral port, verify reachability, and
// guarantee termination when superseded or on shutdown.
package supervisor

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"modelhost/internal/common/fsutil"
	"modelhost/internal/installer"
	"modelhost/pkg/types"
)

// Config holds Supervisor construction parameters.
type Config struct {
	Layout installer.Layout
	// PythonBin is the interpreter used when the venv has none yet.
	PythonBin string
	// ServerScript is the backing service entrypoint. When empty, PythonBin
	// itself is treated as the server binary (tests use this).
	ServerScript   string
	HealthAttempts int
	HealthInterval time.Duration
	Logger         zerolog.Logger
}

// Supervisor manages at most one backing process at a time. Launching always
// replaces: the previous handle is stopped before a new process is spawned.
type Supervisor struct {
	cfg    Config
	client *http.Client

	// launchMu serializes whole Launch calls so two racing launches cannot
	// both take the slot and orphan one of the spawned processes. mu guards
	// only the slot itself, keeping Status and Close responsive during the
	// health wait.
	launchMu sync.Mutex
	mu       sync.Mutex
	handle   *Handle
}

// New constructs a Supervisor.
func New(cfg Config) *Supervisor {
	if cfg.HealthAttempts <= 0 {
		cfg.HealthAttempts = 30
	}
	if cfg.HealthInterval <= 0 {
		cfg.HealthInterval = time.Second
	}
	if cfg.PythonBin == "" {
		cfg.PythonBin = "python3"
	}
	// Timeout 0: every request carries its own context deadline.
	return &Supervisor{cfg: cfg, client: &http.Client{Timeout: 0}}
}

// Launch starts a backing process for the model and returns its port once
// the health endpoint answers. Any previously supervised process is
// terminated first, and a failed launch never leaves a process behind.
func (s *Supervisor) Launch(ctx context.Context, m types.Model) (int, error) {
	s.launchMu.Lock()
	defer s.launchMu.Unlock()

	// Supersede: take the slot and destroy the previous owner.
	s.mu.Lock()
	prev := s.handle
	s.handle = nil
	s.mu.Unlock()
	if prev != nil {
		s.cfg.Logger.Info().Str("model", prev.ModelID()).Int("pid", prev.PID()).Msg("stopping previous service")
		prev.stop()
	}

	weights := s.cfg.Layout.WeightsPath(m)
	if !fsutil.PathExists(weights) {
		return 0, ErrModelNotInstalled(m.ID)
	}

	port, err := pickFreePort("127.0.0.1")
	if err != nil {
		return 0, ErrSpawn(fmt.Sprintf("allocate port: %v", err))
	}

	cmd := s.serverCommand(weights, port)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return 0, ErrSpawn(fmt.Sprintf("start backing service: %v", err))
	}
	h := newHandle(m.ID, port, cmd, &stderr)
	s.cfg.Logger.Info().Str("model", m.ID).Int("pid", h.PID()).Int("port", port).Msg("backing service started")

	// Publish the handle before the health wait so shutdown during the wait
	// still reaches the process.
	s.mu.Lock()
	s.handle = h
	s.mu.Unlock()

	h.setState(StateHealthChecking)
	if err := s.awaitHealthy(ctx, h); err != nil {
		h.setState(StateFailed)
		h.stop()
		s.clearIfCurrent(h)
		return 0, err
	}
	h.setState(StateRunning)
	s.cfg.Logger.Info().Str("model", m.ID).Int("port", port).Msg("backing service healthy")
	return port, nil
}

// serverCommand builds the spawn command. The venv interpreter is preferred
// once the install pipeline has provisioned it.
func (s *Supervisor) serverCommand(weights string, port int) *exec.Cmd {
	args := []string{"--model", weights, "--port", strconv.Itoa(port)}
	if s.cfg.ServerScript == "" {
		return exec.Command(s.cfg.PythonBin, args...)
	}
	python := s.cfg.PythonBin
	if venvPy := s.cfg.Layout.PythonBin(); fsutil.PathExists(venvPy) {
		python = venvPy
	}
	return exec.Command(python, append([]string{s.cfg.ServerScript}, args...)...)
}

// awaitHealthy polls GET /health once per interval up to the attempt budget.
// Early process death is surfaced immediately instead of burning the budget.
func (s *Supervisor) awaitHealthy(ctx context.Context, h *Handle) error {
	url := fmt.Sprintf("http://127.0.0.1:%d/health", h.Port())
	for attempt := 1; attempt <= s.cfg.HealthAttempts; attempt++ {
		select {
		case <-h.waitCh:
			return ErrSpawn(fmt.Sprintf("backing service exited before ready: %v; stderr tail: %s", h.waitErr, h.stderrTail()))
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if s.probe(ctx, url) {
			return nil
		}
		if attempt == s.cfg.HealthAttempts {
			break
		}
		select {
		case <-time.After(s.cfg.HealthInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return ErrHealthTimeout(fmt.Sprintf("backing service not healthy after %d attempts on %s", s.cfg.HealthAttempts, url))
}

func (s *Supervisor) probe(ctx context.Context, url string) bool {
	rctx, cancel := context.WithTimeout(ctx, s.cfg.HealthInterval)
	defer cancel()
	req, err := http.NewRequestWithContext(rctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Status reports the supervised process, nil when none runs. A process that
// died on its own is reported stopped, never as a stale running state.
func (s *Supervisor) Status() *types.ServiceStatus {
	s.mu.Lock()
	h := s.handle
	s.mu.Unlock()
	if h == nil {
		return nil
	}
	state := h.State()
	if h.Exited() && state == StateRunning {
		state = StateStopped
		h.setState(StateStopped)
	}
	return &types.ServiceStatus{
		ModelID: h.ModelID(),
		Port:    h.Port(),
		PID:     h.PID(),
		State:   string(state),
	}
}

// Close terminates the supervised process, if any.
func (s *Supervisor) Close() error {
	s.mu.Lock()
	h := s.handle
	s.handle = nil
	s.mu.Unlock()
	if h != nil {
		h.stop()
	}
	return nil
}

func (s *Supervisor) clearIfCurrent(h *Handle) {
	s.mu.Lock()
	if s.handle == h {
		s.handle = nil
	}
	s.mu.Unlock()
}

// pickFreePort asks the OS for an unused TCP port by binding to port 0.
func pickFreePort(host string) (int, error) {
	l, err := net.Listen("tcp", host+":0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
