package domain

// ListingResult is one vendor's canonical result for a query.
// Invariants: 0 <= FinalPrice <= ListedPrice <= OriginalPrice.
type ListingResult struct {
	Vendor        string          `json:"vendor"`
	VendorWebsite string          `json:"vendorWebsite,omitempty"`
	Title         string          `json:"title"`
	ListedPrice   float64         `json:"listedPrice"`   // price shown by the vendor, after platform discount
	OriginalPrice float64         `json:"originalPrice"` // pre-platform-discount reference price
	Offers        OfferGroups     `json:"offers"`
	AppliedOffer  *CandidateOffer `json:"appliedOffer,omitempty"`
	FinalPrice    float64         `json:"finalPrice"`
	URL           string          `json:"productUrl"`
	ImageURL      string          `json:"imageUrl,omitempty"`
	Rating        *float64        `json:"rating,omitempty"`
	Reviews       *int            `json:"reviews,omitempty"`
}

// ComparisonSummary is the ranked result set of an aggregation
type ComparisonSummary struct {
	Results      []ListingResult `json:"results"`
	TotalResults int             `json:"totalResults"`
	BestDeal     *ListingResult  `json:"bestDeal,omitempty"`
	AveragePrice *float64        `json:"averagePrice,omitempty"`
}

// SourceReport records how a single offer source fared during aggregation
type SourceReport struct {
	Source     string `json:"source"`
	Listings   int    `json:"listings"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"durationMs"`
}

// Vendor is auxiliary metadata about a known vendor
type Vendor struct {
	Name    string `json:"name"`
	Website string `json:"website"`
}
