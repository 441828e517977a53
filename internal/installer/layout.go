package installer

import (
	"path/filepath"
	"runtime"

	"modelhost/internal/common/fsutil"
	"modelhost/pkg/types"
)

// Layout maps the application data directory to the on-disk install layout:
// models/<id>/weights/<filename> plus one virtualenv shared by all models.
// Installation state is derived from file presence, never from a manifest.
type Layout struct {
	DataDir string
}

func (l Layout) ModelsDir() string { return filepath.Join(l.DataDir, "models") }

func (l Layout) WeightsDir(id string) string {
	return filepath.Join(l.ModelsDir(), id, "weights")
}

// WeightsPath is the destination of a model's weights file.
func (l Layout) WeightsPath(m types.Model) string {
	return filepath.Join(l.WeightsDir(m.ID), m.Source.Filename)
}

// Installed reports whether the model's weights file is present.
func (l Layout) Installed(m types.Model) bool {
	return fsutil.PathExists(l.WeightsPath(m))
}

func (l Layout) VenvDir() string { return filepath.Join(l.DataDir, "venv") }

// venvBin resolves an executable inside the virtualenv.
func (l Layout) venvBin(name string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(l.VenvDir(), "Scripts", name+".exe")
	}
	return filepath.Join(l.VenvDir(), "bin", name)
}

// PipBin is the package-manager executable inside the virtualenv.
func (l Layout) PipBin() string { return l.venvBin("pip") }

// PythonBin is the interpreter inside the virtualenv.
func (l Layout) PythonBin() string {
	if runtime.GOOS == "windows" {
		return l.venvBin("python")
	}
	return l.venvBin("python3")
}
