package fetch

import (
	"context"
	"io"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/dealscout/backend/internal/domain"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultUserAgents is the rotation pool used when none is configured.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

// Accept-Encoding is left to the transport so gzip bodies are decoded transparently.
var browserHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
}

// Config tunes a single source's runtime
type Config struct {
	Timeout      time.Duration
	MaxAttempts  int
	RetryDelay   time.Duration
	MinSpacing   time.Duration
	CacheTTL     time.Duration
	MaxBodyBytes int64
	UserAgents   []string
}

// DefaultConfig returns the runtime defaults
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		MaxAttempts:  2,
		RetryDelay:   time.Second,
		MinSpacing:   500 * time.Millisecond,
		CacheTTL:     5 * time.Minute,
		MaxBodyBytes: 5 << 20,
		UserAgents:   DefaultUserAgents,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = d.RetryDelay
	}
	if c.MinSpacing < 0 {
		c.MinSpacing = d.MinSpacing
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = d.CacheTTL
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = d.MaxBodyBytes
	}
	if len(c.UserAgents) == 0 {
		c.UserAgents = d.UserAgents
	}
	return c
}

// Runtime fetches documents on behalf of one offer source. Each source owns
// its own Runtime, so caches and throttles are never shared between vendors.
type Runtime struct {
	name       string
	httpClient *http.Client
	cache      domain.DocumentCache
	throttle   *Throttle
	cfg        Config
	pick       func(n int) int
}

// NewRuntime creates a runtime for the named source
func NewRuntime(name string, cfg Config, cache domain.DocumentCache) *Runtime {
	cfg = cfg.withDefaults()
	return &Runtime{
		name:       name,
		httpClient: &http.Client{},
		cache:      cache,
		throttle:   NewThrottle(cfg.MinSpacing),
		cfg:        cfg,
		pick:       rand.IntN,
	}
}

// Name returns the owning source name
func (r *Runtime) Name() string {
	return r.name
}

// Fetch returns the document at url, from cache when a fresh copy exists.
func (r *Runtime) Fetch(ctx context.Context, url string) (string, error) {
	logger := zap.L().With(zap.String("source", r.name), zap.String("url", url))

	if doc, err := r.cache.Get(ctx, url); err == nil {
		logger.Debug("cache hit")
		return doc, nil
	}

	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		attempts = attempt
		logger.Debug("fetching document", zap.Int("attempt", attempt))

		doc, err := r.dispatch(ctx, url)
		if err == nil {
			if err := r.cache.Set(ctx, url, doc, r.cfg.CacheTTL); err != nil {
				logger.Warn("cache write failed", zap.Error(err))
			}
			return doc, nil
		}

		lastErr = err
		logger.Warn("fetch attempt failed", zap.Int("attempt", attempt), zap.Error(err))

		if ctx.Err() != nil || attempt == r.cfg.MaxAttempts {
			break
		}
		if err := sleep(ctx, time.Duration(attempt)*r.cfg.RetryDelay); err != nil {
			break
		}
	}

	return "", &domain.FetchError{URL: url, Attempts: attempts, Err: lastErr}
}

// dispatch performs one throttled HTTP request
func (r *Runtime) dispatch(ctx context.Context, url string) (string, error) {
	if err := r.throttle.Acquire(ctx); err != nil {
		return "", eris.Wrap(err, "waiting for dispatch slot")
	}
	defer r.throttle.Release()

	attemptCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", eris.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", r.cfg.UserAgents[r.pick(len(r.cfg.UserAgents))])
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.cfg.MaxBodyBytes))
	if err != nil {
		return "", eris.Wrap(err, "failed to read body")
	}

	if blocked, kind := DetectBlock(resp, body); blocked {
		return "", eris.Wrapf(domain.ErrBlockedPage, "%s (status %d)", kind, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", eris.Errorf("unexpected status %d", resp.StatusCode)
	}

	return string(body), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
