package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dealscout/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultAggregationBudget bounds a whole fan-out
const DefaultAggregationBudget = 60 * time.Second

const budgetExceededMsg = "aggregation budget exceeded"

// AggregatorConfig holds configuration for the aggregator
type AggregatorConfig struct {
	Budget time.Duration
}

// Aggregator fans a query out to every offer source and ranks the merged listings
type Aggregator struct {
	sources []domain.OfferSource
	vendors domain.VendorDirectory
	budget  time.Duration
}

// NewAggregator creates an aggregator over sources, in the order given.
// vendors may be nil, in which case listings are not checked against a
// vendor directory.
func NewAggregator(sources []domain.OfferSource, vendors domain.VendorDirectory, config AggregatorConfig) *Aggregator {
	budget := config.Budget
	if budget <= 0 {
		budget = DefaultAggregationBudget
	}
	return &Aggregator{
		sources: sources,
		vendors: vendors,
		budget:  budget,
	}
}

// sourceOutcome is what one task contributes
type sourceOutcome struct {
	listings []domain.ListingResult
	err      string
	duration time.Duration
	done     bool
}

// Aggregate runs every source concurrently. A source that errors, panics
// or outlives the budget contributes no listings. Only when no source
// yields anything does Aggregate fail, with domain.ErrAggregationEmpty.
func (a *Aggregator) Aggregate(ctx context.Context, query string) (*domain.ComparisonSummary, []domain.SourceReport, error) {
	budgetCtx, cancel := context.WithTimeout(ctx, a.budget)
	defer cancel()

	var mu sync.Mutex
	outcomes := make([]sourceOutcome, len(a.sources))

	var g errgroup.Group
	for i, src := range a.sources {
		g.Go(func() error {
			out := a.runSource(budgetCtx, src, query)
			mu.Lock()
			outcomes[i] = out
			mu.Unlock()
			return nil
		})
	}

	finished := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-budgetCtx.Done():
		zap.L().Warn("aggregation budget exceeded", zap.String("query", query), zap.Duration("budget", a.budget))
	}

	mu.Lock()
	snapshot := make([]sourceOutcome, len(outcomes))
	copy(snapshot, outcomes)
	mu.Unlock()

	reports := make([]domain.SourceReport, len(a.sources))
	var merged []domain.ListingResult
	for i, src := range a.sources {
		out := snapshot[i]
		report := domain.SourceReport{Source: src.Name()}
		if !out.done {
			report.Error = budgetExceededMsg
			reports[i] = report
			continue
		}

		kept := a.resolveVendors(ctx, out.listings)
		merged = append(merged, kept...)

		report.Listings = len(kept)
		report.Error = out.err
		report.DurationMs = out.duration.Milliseconds()
		reports[i] = report
	}

	if len(merged) == 0 {
		return nil, reports, domain.ErrAggregationEmpty
	}

	summary := Rank(merged)
	return &summary, reports, nil
}

// runSource invokes one source and converts any failure into an empty outcome
func (a *Aggregator) runSource(ctx context.Context, src domain.OfferSource, query string) (out sourceOutcome) {
	start := time.Now()
	logger := zap.L().With(zap.String("source", src.Name()), zap.String("query", query))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("offer source panicked", zap.Any("panic", r))
			out = sourceOutcome{err: fmt.Sprintf("panic: %v", r)}
		}
		out.duration = time.Since(start)
		out.done = true
	}()

	listings, err := src.Search(ctx, query)
	if err != nil {
		logger.Warn("offer source failed", zap.Error(err))
		return sourceOutcome{err: err.Error()}
	}

	logger.Debug("offer source finished", zap.Int("listings", len(listings)))
	return sourceOutcome{listings: listings}
}

// resolveVendors attaches vendor metadata, dropping listings whose vendor
// cannot be resolved
func (a *Aggregator) resolveVendors(ctx context.Context, listings []domain.ListingResult) []domain.ListingResult {
	if a.vendors == nil {
		return listings
	}

	kept := make([]domain.ListingResult, 0, len(listings))
	for _, l := range listings {
		vendor, err := a.vendors.Lookup(ctx, l.Vendor)
		if err != nil {
			zap.L().Debug("dropping listing", zap.String("vendor", l.Vendor), zap.String("title", l.Title), zap.Error(err))
			continue
		}
		l.VendorWebsite = vendor.Website
		kept = append(kept, l)
	}
	return kept
}
