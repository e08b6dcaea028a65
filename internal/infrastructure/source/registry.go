package source

import (
	"github.com/dealscout/backend/internal/domain"
	"github.com/rotisserie/eris"
)

// Registry holds offer sources in registration order. Aggregation merges
// listings in this order before ranking.
type Registry struct {
	sources []domain.OfferSource
	byName  map[string]domain.OfferSource
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]domain.OfferSource)}
}

// Register adds a source; names must be unique
func (r *Registry) Register(src domain.OfferSource) error {
	if src == nil {
		return eris.New("nil offer source")
	}
	if _, ok := r.byName[src.Name()]; ok {
		return eris.Errorf("offer source %q already registered", src.Name())
	}
	r.sources = append(r.sources, src)
	r.byName[src.Name()] = src
	return nil
}

// Get returns the source registered under name
func (r *Registry) Get(name string) (domain.OfferSource, bool) {
	src, ok := r.byName[name]
	return src, ok
}

// Sources returns all sources in registration order
func (r *Registry) Sources() []domain.OfferSource {
	out := make([]domain.OfferSource, len(r.sources))
	copy(out, r.sources)
	return out
}

// Names returns the registered source names in order
func (r *Registry) Names() []string {
	names := make([]string, len(r.sources))
	for i, s := range r.sources {
		names[i] = s.Name()
	}
	return names
}
