package source

import (
	"context"
	"strings"

	"github.com/dealscout/backend/internal/domain"
	"github.com/rotisserie/eris"
)

// StaticVendors resolves vendor metadata from a fixed table
type StaticVendors struct {
	vendors map[string]domain.Vendor
}

// NewStaticVendors builds a directory; lookups are case-insensitive
func NewStaticVendors(vendors ...domain.Vendor) *StaticVendors {
	m := make(map[string]domain.Vendor, len(vendors))
	for _, v := range vendors {
		m[strings.ToLower(v.Name)] = v
	}
	return &StaticVendors{vendors: m}
}

// DefaultVendors is the directory for the built-in sources
func DefaultVendors() *StaticVendors {
	return NewStaticVendors(
		domain.Vendor{Name: amazonVendor, Website: amazonDomain},
		domain.Vendor{Name: flipkartVendor, Website: flipkartDomain},
		domain.Vendor{Name: "Croma", Website: "https://www.croma.com"},
		domain.Vendor{Name: "Apple", Website: "https://www.apple.com/in"},
	)
}

func (s *StaticVendors) Lookup(_ context.Context, name string) (*domain.Vendor, error) {
	v, ok := s.vendors[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, eris.Wrapf(domain.ErrVendorLookupFailed, "unknown vendor %q", name)
	}
	return &v, nil
}
