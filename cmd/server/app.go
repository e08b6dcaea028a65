package main

import (
	"context"
	"time"

	"github.com/dealscout/backend/config"
	"github.com/dealscout/backend/internal/domain"
	"github.com/dealscout/backend/internal/infrastructure/cache"
	"github.com/dealscout/backend/internal/infrastructure/fetch"
	"github.com/dealscout/backend/internal/infrastructure/scheduler"
	"github.com/dealscout/backend/internal/infrastructure/source"
	"github.com/dealscout/backend/internal/infrastructure/store"
	"github.com/dealscout/backend/internal/usecase"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// app is the wired pipeline shared by the serve and search commands
type app struct {
	Search   *usecase.SearchService
	Registry *source.Registry
	Store    store.Store
	caches   map[string]*cache.MemoryCache
}

func fetchConfig(c config.FetchConfig) fetch.Config {
	return fetch.Config{
		Timeout:      c.Timeout,
		MaxAttempts:  c.MaxAttempts,
		RetryDelay:   c.RetryDelay,
		MinSpacing:   c.MinSpacing,
		CacheTTL:     c.CacheTTL,
		MaxBodyBytes: c.MaxBodyBytes,
	}
}

// buildApp gives every source its own fetch runtime and document cache,
// then wires the registry, the log store and the search service
func buildApp(ctx context.Context, c *config.Config) (*app, error) {
	logs, err := store.Open(ctx, c.Store.Driver, c.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "open log store")
	}

	a := &app{
		Registry: source.NewRegistry(),
		Store:    logs,
		caches:   make(map[string]*cache.MemoryCache),
	}

	fc := fetchConfig(c.Fetch)
	runtime := func(name string) *fetch.Runtime {
		docs := cache.NewMemoryCache()
		a.caches[name] = docs
		return fetch.NewRuntime(name, fc, docs)
	}

	discounts := usecase.NewDiscountEngine()
	perSource := c.Aggregation.MaxResultsPerSource
	for _, src := range []domain.OfferSource{
		source.NewAmazon(runtime("amazon"), discounts, perSource),
		source.NewFlipkart(runtime("flipkart"), discounts, perSource),
	} {
		if err := a.Registry.Register(src); err != nil {
			logs.Close() //nolint:errcheck
			return nil, err
		}
	}

	aggregator := usecase.NewAggregator(a.Registry.Sources(), source.DefaultVendors(), usecase.AggregatorConfig{
		Budget: c.Aggregation.Budget,
	})
	a.Search = usecase.NewSearchService(usecase.NewClassifier(), aggregator, logs, usecase.SearchServiceConfig{})

	zap.L().Info("pipeline ready",
		zap.Strings("sources", a.Registry.Names()),
		zap.String("store", c.Store.Driver),
		zap.Duration("budget", c.Aggregation.Budget),
	)
	return a, nil
}

// sweepJobs returns one eviction job per source document cache
func (a *app) sweepJobs() []scheduler.Job {
	jobs := make([]scheduler.Job, 0, len(a.caches))
	for _, name := range a.Registry.Names() {
		if docs, ok := a.caches[name]; ok {
			jobs = append(jobs, scheduler.Job{Name: "cache:" + name, Run: docs.Sweep})
		}
	}
	return jobs
}

// Close waits for pending log writes and releases the store
func (a *app) Close() {
	done := make(chan struct{})
	go func() {
		a.Search.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		zap.L().Warn("timed out waiting for search log writes")
	}

	if err := a.Store.Close(); err != nil {
		zap.L().Warn("failed to close log store", zap.Error(err))
	}
}
