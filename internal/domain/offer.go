package domain

// OfferCategory groups candidate offers by where the discount comes from
type OfferCategory string

const (
	OfferPlatform OfferCategory = "PLATFORM"
	OfferBank     OfferCategory = "BANK"
	OfferCard     OfferCategory = "CARD"
	OfferCoupon   OfferCategory = "COUPON"
	OfferCashback OfferCategory = "CASHBACK"
)

// CandidateOffer is a discount option attached to a listing, not yet applied
type CandidateOffer struct {
	Category    OfferCategory `json:"type"`
	Description string        `json:"description"`
	Value       float64       `json:"value"` // nominal currency amount
	Code        string        `json:"code,omitempty"`
	MinPurchase *float64      `json:"minPurchase,omitempty"`
	MaxDiscount *float64      `json:"maxDiscount,omitempty"` // cap on the applied value
}

// OfferGroups holds candidate offers grouped by category
type OfferGroups struct {
	Platform []CandidateOffer `json:"platformOffers"`
	Bank     []CandidateOffer `json:"bankOffers"`
	Card     []CandidateOffer `json:"cardOffers"`
	Coupons  []CandidateOffer `json:"coupons"`
	Cashback []CandidateOffer `json:"cashback"`
}

// GroupOffers sorts offers into their category buckets, keeping input order
func GroupOffers(offers []CandidateOffer) OfferGroups {
	groups := OfferGroups{
		Platform: []CandidateOffer{},
		Bank:     []CandidateOffer{},
		Card:     []CandidateOffer{},
		Coupons:  []CandidateOffer{},
		Cashback: []CandidateOffer{},
	}
	for _, o := range offers {
		switch o.Category {
		case OfferPlatform:
			groups.Platform = append(groups.Platform, o)
		case OfferBank:
			groups.Bank = append(groups.Bank, o)
		case OfferCard:
			groups.Card = append(groups.Card, o)
		case OfferCoupon:
			groups.Coupons = append(groups.Coupons, o)
		case OfferCashback:
			groups.Cashback = append(groups.Cashback, o)
		}
	}
	return groups
}

// All flattens the groups back into one slice in category order
func (g OfferGroups) All() []CandidateOffer {
	all := make([]CandidateOffer, 0, len(g.Platform)+len(g.Bank)+len(g.Card)+len(g.Coupons)+len(g.Cashback))
	all = append(all, g.Platform...)
	all = append(all, g.Bank...)
	all = append(all, g.Card...)
	all = append(all, g.Coupons...)
	all = append(all, g.Cashback...)
	return all
}
