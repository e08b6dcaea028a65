package domain

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// DocumentCache defines the interface for caching fetched documents by URL
type DocumentCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, doc string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// DocumentFetcher obtains a raw document for a URL
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// OfferSource is one vendor-specific data provider
type OfferSource interface {
	Name() string
	Search(ctx context.Context, query string) ([]ListingResult, error)
}

// DiscountApplier selects and applies a single candidate offer to a listed price
type DiscountApplier interface {
	ApplyBest(listedPrice float64, offers []CandidateOffer) (*CandidateOffer, float64)
}

// VendorDirectory resolves auxiliary vendor metadata
type VendorDirectory interface {
	Lookup(ctx context.Context, vendorName string) (*Vendor, error)
}

// SearchLogEntry is a record of one completed search
type SearchLogEntry struct {
	ID          string
	Query       string
	UserID      string
	Vertical    Vertical
	ResultCount int
	BestPrice   *float64
	CreatedAt   time.Time
}

// InteractionEntry is a record of a user acting on a listing
type InteractionEntry struct {
	ID          string
	UserID      string
	ProductName string
	Vendor      string
	Price       float64
	Action      string
	CreatedAt   time.Time
}

// Summary renders the interaction as a single log line,
// e.g. "CLICK: iPhone 15 on Flipkart at ₹65999".
func (e InteractionEntry) Summary() string {
	return fmt.Sprintf("%s: %s on %s at ₹%s",
		e.Action, e.ProductName, e.Vendor, strconv.FormatFloat(e.Price, 'f', -1, 64))
}

// SearchLogRepository persists search history and click tracking
type SearchLogRepository interface {
	LogSearch(ctx context.Context, entry SearchLogEntry) error
	TrackInteraction(ctx context.Context, entry InteractionEntry) error
}
