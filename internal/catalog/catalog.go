// Package catalog holds the immutable list of installable model descriptors.
package catalog

import (
	"fmt"
	"strings"

	"modelhost/internal/common/fsutil"
	"modelhost/pkg/types"
)

// Catalog is an immutable, validated set of model descriptors.
type Catalog struct {
	models []types.Model
	byID   map[string]types.Model
}

// New validates the descriptors and builds a catalog. Duplicate ids, empty
// urls and unsafe filenames are construction errors.
func New(models []types.Model) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]types.Model, len(models))}
	for _, m := range models {
		id := strings.TrimSpace(m.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog: model with empty id (name=%q)", m.Name)
		}
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("catalog: duplicate model id %q", id)
		}
		if strings.TrimSpace(m.Source.URL) == "" {
			return nil, fmt.Errorf("catalog: model %q has empty source url", id)
		}
		if !fsutil.SafeLeafName(m.Source.Filename) {
			return nil, fmt.Errorf("catalog: model %q has unsafe filename %q", id, m.Source.Filename)
		}
		c.byID[id] = m
		c.models = append(c.models, m)
	}
	return c, nil
}

// List returns a copy of all descriptors in declaration order.
func (c *Catalog) List() []types.Model {
	out := make([]types.Model, len(c.models))
	copy(out, c.models)
	return out
}

// ByID looks up a descriptor.
func (c *Catalog) ByID(id string) (types.Model, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// Len reports the number of descriptors.
func (c *Catalog) Len() int { return len(c.models) }
