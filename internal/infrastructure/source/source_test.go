package source

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dealscout/backend/internal/domain"
)

// fakeFetcher serves canned documents and records requested URLs
type fakeFetcher struct {
	mu   sync.Mutex
	doc  string
	err  error
	urls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	if f.err != nil {
		return "", f.err
	}
	return f.doc, nil
}

// nominalApplier mirrors the production rule: greatest nominal value wins,
// capped by maxDiscount and listed price.
type nominalApplier struct{}

func (nominalApplier) ApplyBest(listed float64, offers []domain.CandidateOffer) (*domain.CandidateOffer, float64) {
	if len(offers) == 0 {
		return nil, listed
	}
	best := offers[0]
	for _, o := range offers[1:] {
		if o.Value > best.Value {
			best = o
		}
	}
	applied := best.Value
	if best.MaxDiscount != nil && *best.MaxDiscount < applied {
		applied = *best.MaxDiscount
	}
	if applied > listed {
		applied = listed
	}
	best.Value = applied
	final := listed - applied
	if final < 0 {
		final = 0
	}
	return &best, final
}

var errUpstream = errors.New("upstream down")

func page(items ...string) string {
	return "<html><body>" + strings.Join(items, "\n") + "</body></html>"
}
