package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dealscout/backend/internal/domain"
)

// Keyword lists per vertical. Matching is case-insensitive substring
// counting, so one word can score in several lists.
var (
	ecommerceKeywords = []string{
		"buy", "purchase", "price", "shop", "product", "laptop", "phone", "mobile",
		"iphone", "samsung", "tv", "camera", "watch", "headphone", "speaker",
		"tablet", "computer", "gaming", "console", "appliance", "refrigerator",
		"ac", "washing machine", "microwave", "furniture", "shoes", "clothing",
		"book", "electronic", "gadget", "accessory", "deal", "offer", "discount",
	}

	flightKeywords = []string{
		"flight", "flights", "fly", "flying", "airline", "air", "plane", "ticket",
		"tickets", "travel", "trip", "journey", "departure", "arrival", "airport",
		"booking", "book flight", "air travel", "domestic flight", "international flight",
	}

	hotelKeywords = []string{
		"hotel", "hotels", "accommodation", "stay", "room", "rooms", "booking",
		"resort", "lodge", "inn", "motel", "hostel", "guesthouse", "check-in",
		"check-out", "night", "nights", "bed", "breakfast",
	}
)

// Parameter extraction patterns. These are best-effort; a field that does
// not match is simply left out.
var (
	fromToPattern     = regexp.MustCompile(`(?i)from\s+([a-zA-Z\s]+?)\s+to\s+([a-zA-Z\s]+?)(?:\s|$)`)
	departDatePattern = regexp.MustCompile(`(?i)on\s+(\d{4}-\d{2}-\d{2}|\d{2}[/-]\d{2}[/-]\d{4})`)
	passengerPattern  = regexp.MustCompile(`(?i)(\d+)\s+passenger`)
	locationPattern   = regexp.MustCompile(`(?i)(?:in|at)\s+([a-zA-Z\s]+?)(?:\s+from|\s+for|\s+on|$)`)
	checkInPattern    = regexp.MustCompile(`(?i)from\s+(\d{4}-\d{2}-\d{2}|\d{2}[/-]\d{2}[/-]\d{4})`)
	checkOutPattern   = regexp.MustCompile(`(?i)to\s+(\d{4}-\d{2}-\d{2}|\d{2}[/-]\d{2}[/-]\d{4})`)
	guestPattern      = regexp.MustCompile(`(?i)(\d+)\s+guest`)
)

// defaultConfidence is reported when no keyword of any vertical matched
const defaultConfidence = 0.5

// Classifier routes free-text queries to a vertical
type Classifier struct{}

// NewClassifier creates a new query classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify scores the query against every keyword list and picks the
// vertical with the strictly highest count, checking ECOMMERCE, FLIGHT and
// HOTEL in that order so ties stay with the earlier vertical.
func (c *Classifier) Classify(query string) domain.Classification {
	lower := strings.ToLower(query)
	ecommerce := countMatches(lower, ecommerceKeywords)
	flight := countMatches(lower, flightKeywords)
	hotel := countMatches(lower, hotelKeywords)

	total := ecommerce + flight + hotel
	if total == 0 {
		return domain.Classification{
			Vertical:   domain.VerticalEcommerce,
			Confidence: defaultConfidence,
		}
	}

	vertical := domain.VerticalEcommerce
	best := ecommerce
	if flight > best {
		vertical = domain.VerticalFlight
		best = flight
	}
	if hotel > best {
		vertical = domain.VerticalHotel
		best = hotel
	}

	result := domain.Classification{
		Vertical:   vertical,
		Confidence: float64(best) / float64(total),
	}

	switch vertical {
	case domain.VerticalFlight:
		result.ExtractedParams = extractFlightParams(query)
	case domain.VerticalHotel:
		result.ExtractedParams = extractHotelParams(query)
	}

	return result
}

func countMatches(lowerQuery string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lowerQuery, kw) {
			n++
		}
	}
	return n
}

func extractFlightParams(query string) map[string]any {
	params := map[string]any{}

	if m := fromToPattern.FindStringSubmatch(query); m != nil {
		params["from"] = strings.TrimSpace(m[1])
		params["to"] = strings.TrimSpace(m[2])
	}
	if m := departDatePattern.FindStringSubmatch(query); m != nil {
		params["departDate"] = m[1]
	}
	if n, ok := matchInt(passengerPattern, query); ok {
		params["passengers"] = n
	}

	return params
}

func extractHotelParams(query string) map[string]any {
	params := map[string]any{}

	if m := locationPattern.FindStringSubmatch(query); m != nil {
		if loc := strings.TrimSpace(m[1]); loc != "" {
			params["location"] = loc
		}
	}
	if m := checkInPattern.FindStringSubmatch(query); m != nil {
		params["checkIn"] = m[1]
	}
	if m := checkOutPattern.FindStringSubmatch(query); m != nil {
		params["checkOut"] = m[1]
	}
	if n, ok := matchInt(guestPattern, query); ok {
		params["guests"] = n
	}

	return params
}

func matchInt(pattern *regexp.Regexp, query string) (int, bool) {
	m := pattern.FindStringSubmatch(query)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
