package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/dlasim/internal/config"
	"github.com/san-kum/dlasim/internal/dla"
	"github.com/san-kum/dlasim/internal/export"
	"github.com/san-kum/dlasim/internal/render"
)

// Registry maps renderer names to constructors.
type Registry struct {
	renderers map[string]func(cfg *config.Config) dla.Renderer
}

func NewRegistry() *Registry {
	r := &Registry{
		renderers: make(map[string]func(cfg *config.Config) dla.Renderer),
	}

	r.renderers["png"] = func(cfg *config.Config) dla.Renderer {
		return render.NewPNG(cfg.OutputDir, cfg.CellSize)
	}
	r.renderers["svg"] = func(cfg *config.Config) dla.Renderer {
		return export.NewSVGRenderer(cfg.OutputDir, float64(cfg.CellSize))
	}
	r.renderers["none"] = func(cfg *config.Config) dla.Renderer {
		return nil
	}

	return r
}

func (r *Registry) GetRenderer(name string, cfg *config.Config) (dla.Renderer, error) {
	fn, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("unknown renderer: %s (available: %v)", name, r.ListRenderers())
	}
	return fn(cfg), nil
}

func (r *Registry) ListRenderers() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
