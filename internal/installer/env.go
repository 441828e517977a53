package installer

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"modelhost/internal/common/fsutil"
)

// ensureVenv creates the shared virtualenv if it does not exist yet.
// Creation happens once per application install and is reused across models.
func (p *Pipeline) ensureVenv(ctx context.Context) error {
	venv := p.layout.VenvDir()
	if fsutil.PathExists(venv) {
		return nil
	}
	p.log.Info().Str("venv", venv).Msg("creating virtual environment")
	cmd := exec.CommandContext(ctx, p.pythonBin, "-m", "venv", venv)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return ErrDependencyInstall(fmt.Sprintf("venv creation failed: %v: %s", err, tail(out)))
	}
	return nil
}

// installDeps installs the descriptor's package list into the virtualenv.
// An empty list is a no-op. Non-zero exit surfaces captured output.
func (p *Pipeline) installDeps(ctx context.Context, packages []string) error {
	if len(packages) == 0 {
		return nil
	}
	pip := p.layout.PipBin()
	if !fsutil.PathExists(pip) {
		return ErrDependencyInstall(fmt.Sprintf("pip not found at %s: venv creation may have failed", pip))
	}
	args := append([]string{"install"}, packages...)
	p.log.Info().Strs("packages", packages).Msg("installing dependencies")
	cmd := exec.CommandContext(ctx, pip, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return ErrDependencyInstall(fmt.Sprintf("pip install failed: %v: %s", err, tail(out)))
	}
	return nil
}

// tail returns the last 4 KiB of command output for diagnostics.
func tail(out []byte) string {
	s := strings.TrimSpace(string(out))
	if len(s) > 4096 {
		s = s[len(s)-4096:]
	}
	return s
}
