// Package registry holds the catalog of chains the application knows
// how to register with a wallet. The embedded catalog carries the Celo
// networks; operators can load their own catalog, which is validated
// against the same schema.
package registry

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"

	"github.com/safesignal/chainassure"
)

//go:embed chains.json
var defaultCatalog []byte

//go:embed chain-schema.json
var schemaBytes []byte

var catalogSchema *gojsonschema.Schema

func init() {
	loader := gojsonschema.NewBytesLoader(schemaBytes)
	var err error
	catalogSchema, err = gojsonschema.NewSchema(loader)
	if err != nil {
		panic(fmt.Sprintf("failed to load chain catalog schema: %v", err))
	}
}

// Registry is an immutable chain catalog keyed by chain id.
type Registry struct {
	chains map[uint64]chainassure.ChainDescriptor
}

// Parse validates data against the catalog schema and builds a
// registry from it.
func Parse(data []byte) (*Registry, error) {
	result, err := catalogSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("catalog validation error: %w", err)
	}
	if !result.Valid() {
		var msg string
		for _, desc := range result.Errors() {
			if msg != "" {
				msg += "; "
			}
			msg += desc.String()
		}
		return nil, fmt.Errorf("invalid chain catalog: %s", msg)
	}

	var descriptors []chainassure.ChainDescriptor
	if err := json.Unmarshal(data, &descriptors); err != nil {
		return nil, fmt.Errorf("decode chain catalog: %w", err)
	}

	chains := make(map[uint64]chainassure.ChainDescriptor, len(descriptors))
	for _, d := range descriptors {
		if _, exists := chains[d.ID]; exists {
			return nil, fmt.Errorf("duplicate chain id %d in catalog", d.ID)
		}
		chains[d.ID] = d
	}
	return &Registry{chains: chains}, nil
}

// Default returns the registry built from the embedded catalog.
func Default() *Registry {
	r, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded chain catalog is invalid: %v", err))
	}
	return r
}

// Lookup returns the descriptor for a chain id.
func (r *Registry) Lookup(id uint64) (chainassure.ChainDescriptor, bool) {
	d, ok := r.chains[id]
	return d, ok
}

// All returns every descriptor ordered by chain id.
func (r *Registry) All() []chainassure.ChainDescriptor {
	out := make([]chainassure.ChainDescriptor, 0, len(r.chains))
	for _, d := range r.chains {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
