package usecase

import (
	"math"

	"github.com/dealscout/backend/internal/domain"
)

// DiscountEngine applies at most one candidate offer to a listing.
//
// The offer with the greatest nominal value is selected before any cap is
// considered. This can pick an offer whose capped value is lower than a
// rival's; that outcome is intended and callers rely on it.
type DiscountEngine struct{}

// NewDiscountEngine creates a new discount engine
func NewDiscountEngine() *DiscountEngine {
	return &DiscountEngine{}
}

// ApplyBest returns the applied offer, carrying its effective value, and
// the resulting final price. With no offers the listed price is returned
// unchanged.
func (e *DiscountEngine) ApplyBest(listedPrice float64, offers []domain.CandidateOffer) (*domain.CandidateOffer, float64) {
	if len(offers) == 0 {
		return nil, listedPrice
	}

	selected := offers[0]
	for _, o := range offers[1:] {
		if o.Value > selected.Value {
			selected = o
		}
	}

	applied := selected.Value
	if selected.MaxDiscount != nil {
		applied = math.Min(applied, *selected.MaxDiscount)
	}
	applied = math.Min(applied, listedPrice)
	applied = math.Max(applied, 0)

	finalPrice := math.Max(0, listedPrice-applied)

	selected.Value = applied
	return &selected, finalPrice
}
