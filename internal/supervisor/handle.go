package supervisor

import (
	"bytes"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// State is the lifecycle state of the supervised process.
type State string

const (
	StateStarting       State = "starting"
	StateHealthChecking State = "health_checking"
	StateRunning        State = "running"
	StateStopped        State = "stopped"
	StateFailed         State = "failed"
)

// Handle owns exactly one backing process. Termination is tied to the handle
// itself: stop() is idempotent and is invoked by every path that releases the
// handle (slot replacement, supervisor shutdown, failed launch), so the
// process cannot outlive its owner.
type Handle struct {
	modelID string
	port    int
	cmd     *exec.Cmd
	stderr  *bytes.Buffer

	mu    sync.Mutex
	state State

	stopOnce sync.Once
	// closed by the waiter goroutine once the process exits
	waitCh  chan struct{}
	waitErr error
}

func newHandle(modelID string, port int, cmd *exec.Cmd, stderr *bytes.Buffer) *Handle {
	h := &Handle{
		modelID: modelID,
		port:    port,
		cmd:     cmd,
		stderr:  stderr,
		state:   StateStarting,
		waitCh:  make(chan struct{}),
	}
	go func() {
		h.waitErr = cmd.Wait()
		close(h.waitCh)
	}()
	return h
}

func (h *Handle) ModelID() string { return h.modelID }
func (h *Handle) Port() int       { return h.port }
func (h *Handle) PID() int {
	if h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}

func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *Handle) setState(s State) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
}

// Exited reports whether the process has terminated on its own.
func (h *Handle) Exited() bool {
	select {
	case <-h.waitCh:
		return true
	default:
		return false
	}
}

// stderrTail returns the last 4 KiB of captured stderr for diagnostics.
func (h *Handle) stderrTail() string {
	s := h.stderr.String()
	if len(s) > 4096 {
		s = s[len(s)-4096:]
	}
	return s
}

// stop terminates the process: SIGTERM first, SIGKILL after a grace period.
// Safe to call multiple times and on an already-exited process.
func (h *Handle) stop() {
	h.stopOnce.Do(func() {
		defer h.setState(StateStopped)
		if h.cmd.Process == nil {
			return
		}
		select {
		case <-h.waitCh:
			return // already gone
		default:
		}
		_ = h.cmd.Process.Signal(syscall.SIGTERM)
		select {
		case <-h.waitCh:
		case <-time.After(2 * time.Second):
			_ = h.cmd.Process.Kill()
			<-h.waitCh
		}
	})
}
