package usecase

import (
	"math"
	"sort"

	"github.com/dealscout/backend/internal/domain"
)

// Rank orders listings by final price, cheapest first. Listings with equal
// prices keep their input order. The input slice is not modified.
func Rank(listings []domain.ListingResult) domain.ComparisonSummary {
	if len(listings) == 0 {
		return domain.ComparisonSummary{Results: []domain.ListingResult{}}
	}

	sorted := make([]domain.ListingResult, len(listings))
	copy(sorted, listings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FinalPrice < sorted[j].FinalPrice
	})

	var sum float64
	for _, l := range sorted {
		sum += l.FinalPrice
	}
	average := math.Round(sum / float64(len(sorted)))
	best := sorted[0]

	return domain.ComparisonSummary{
		Results:      sorted,
		TotalResults: len(sorted),
		BestDeal:     &best,
		AveragePrice: &average,
	}
}
