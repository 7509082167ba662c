package engine

import (
	"errors"
	"fmt"

	"github.com/grantmcd/prisoners-royale/internal/compiler"
	"github.com/grantmcd/prisoners-royale/internal/game"
	"github.com/grantmcd/prisoners-royale/internal/models"
)

// Resolver maps participant names to strategies: built-ins first, then
// graphs saved in the library.
type Resolver struct {
	registry *game.Registry
	library  *models.Library
}

// NewResolver returns a resolver. A nil library resolves built-ins only.
func NewResolver(registry *game.Registry, library *models.Library) *Resolver {
	if registry == nil {
		registry = game.NewRegistry(nil)
	}
	return &Resolver{registry: registry, library: library}
}

func (r *Resolver) Registry() *game.Registry { return r.registry }

func (r *Resolver) Library() *models.Library { return r.library }

func (r *Resolver) Resolve(name string) (game.Strategy, error) {
	s, err := r.registry.Lookup(name)
	if err == nil {
		return s, nil
	}
	if r.library == nil {
		return nil, err
	}

	saved, lerr := r.library.Load(name)
	if errors.Is(lerr, models.ErrNotFound) {
		return nil, err
	}
	if lerr != nil {
		return nil, fmt.Errorf("loading strategy %q: %w", name, lerr)
	}
	compiled, cerr := compiler.Compile(saved.Name, saved.Graph)
	if cerr != nil {
		return nil, fmt.Errorf("compiling strategy %q: %w", name, cerr)
	}
	return compiled, nil
}

// ResolveAll resolves every name, failing on the first error.
func (r *Resolver) ResolveAll(names []string) ([]game.Strategy, error) {
	out := make([]game.Strategy, 0, len(names))
	for _, name := range names {
		s, err := r.Resolve(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
