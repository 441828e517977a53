package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"modelhost/pkg/types"
)

// catalogFile is the on-disk shape of a catalog file.
type catalogFile struct {
	Models []types.Model `json:"models" yaml:"models" toml:"models"`
}

// LoadFile reads a catalog file based on its extension and validates it.
// Supports: .yaml/.yml, .json, .toml
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return nil, fmt.Errorf("empty catalog path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f catalogFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog extension: %s", ext)
	}
	if len(f.Models) == 0 {
		return nil, fmt.Errorf("catalog file %s lists no models", path)
	}
	return New(f.Models)
}
