package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dealscout/backend/internal/domain"
)

// MockOfferSource is a mock implementation of domain.OfferSource
type MockOfferSource struct {
	name     string
	listings []domain.ListingResult
	err      error
	panicMsg string
	delay    time.Duration
}

func (m *MockOfferSource) Name() string {
	return m.name
}

func (m *MockOfferSource) Search(ctx context.Context, query string) ([]domain.ListingResult, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.listings, nil
}

// MockVendorDirectory is a mock implementation of domain.VendorDirectory
type MockVendorDirectory struct {
	vendors map[string]string
}

func (m *MockVendorDirectory) Lookup(ctx context.Context, name string) (*domain.Vendor, error) {
	website, ok := m.vendors[name]
	if !ok {
		return nil, domain.ErrVendorLookupFailed
	}
	return &domain.Vendor{Name: name, Website: website}, nil
}

// MockSearchLogRepository is a mock implementation of domain.SearchLogRepository
type MockSearchLogRepository struct {
	mu           sync.Mutex
	searches     []domain.SearchLogEntry
	interactions []domain.InteractionEntry
	err          error
}

func (m *MockSearchLogRepository) LogSearch(ctx context.Context, entry domain.SearchLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, entry)
	return m.err
}

func (m *MockSearchLogRepository) TrackInteraction(ctx context.Context, entry domain.InteractionEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interactions = append(m.interactions, entry)
	return m.err
}

var errSourceDown = errors.New("source down")

func listing(vendor, title string, final float64) domain.ListingResult {
	return domain.ListingResult{
		Vendor:        vendor,
		Title:         title,
		ListedPrice:   final,
		OriginalPrice: final,
		FinalPrice:    final,
		URL:           "https://example.com/" + title,
	}
}
