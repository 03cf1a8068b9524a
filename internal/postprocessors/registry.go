package postprocessors

import (
	"fmt"
	"maps"
	"slices"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driven"
)

// BuilderFunc builds a processor from a loosely typed config map,
// usually decoded from TOML.
type BuilderFunc func(cfg map[string]any) (driven.PostProcessor, error)

// Registry looks up processor builders by name.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: map[string]BuilderFunc{}}
}

// Register adds or replaces the builder for name.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build constructs the named processor. Unknown names match domain.ErrInvalidInput.
func (r *Registry) Build(name string, cfg map[string]any) (driven.PostProcessor, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown processor %q: %w", name, domain.ErrInvalidInput)
	}
	return builder(cfg)
}

// BuildPipeline builds the named processors, in order, into one pipeline.
func (r *Registry) BuildPipeline(names []string, configs map[string]map[string]any) (*Pipeline, error) {
	p := NewPipeline()
	for _, name := range names {
		stage, err := r.Build(name, configs[name])
		if err != nil {
			return nil, err
		}
		p.Add(stage)
	}
	return p, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.builders))
}
