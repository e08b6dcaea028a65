package source

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dealscout/backend/internal/domain"
)

// DefaultMaxResults caps the listings a single source emits per query.
const DefaultMaxResults = 5

var (
	currencyReplacer = strings.NewReplacer("₹", "", "$", "", "€", "", "£", "", ",", "")
	numberPattern    = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// ExtractPrice returns the first numeric token of a price label after
// currency symbols and thousands separators are removed, or 0 when the
// label has no digits.
func ExtractPrice(text string) float64 {
	match := numberPattern.FindString(currencyReplacer.Replace(text))
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return v
}

// sanitizeText collapses runs of whitespace and trims the result
func sanitizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// firstText returns the text of the first element matched by the first
// selector that yields non-empty text.
func firstText(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		if text := sanitizeText(sel.Find(s).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// firstAttr is firstText for attribute values
func firstAttr(sel *goquery.Selection, attr string, selectors ...string) string {
	for _, s := range selectors {
		if v, ok := sel.Find(s).First().Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// firstMatching returns the elements of the first locator that matches anything
func firstMatching(doc *goquery.Document, selectors ...string) (*goquery.Selection, string) {
	for _, s := range selectors {
		if found := doc.Find(s); found.Length() > 0 {
			return found, s
		}
	}
	return doc.Find("__none__"), ""
}

func parseRating(text string) *float64 {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || v < 0 || v > 5 {
		return nil
	}
	return &v
}

func parseCount(text string) *int {
	digits := strings.ReplaceAll(strings.Trim(sanitizeText(text), "()"), ",", "")
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

// encodeComponent escapes a query for use inside a URL, spaces as %20
func encodeComponent(q string) string {
	return strings.ReplaceAll(url.QueryEscape(q), "+", "%20")
}

// bankTemplate is a vendor-specific bank offer expressed as a percentage
// of the listed price.
type bankTemplate struct {
	Description string
	Percent     float64
	Cap         float64
	// ClampNominal applies the cap to the advertised value as well.
	ClampNominal bool
}

func (b bankTemplate) offer(listedPrice float64) domain.CandidateOffer {
	value := math.Round(listedPrice * b.Percent / 100)
	if b.ClampNominal {
		value = math.Min(value, b.Cap)
	}
	maxDiscount := b.Cap
	return domain.CandidateOffer{
		Category:    domain.OfferBank,
		Description: b.Description,
		Value:       value,
		MaxDiscount: &maxDiscount,
	}
}

// rawListing holds the fields resolved from one candidate element
type rawListing struct {
	Title         string
	ListedPrice   float64
	OriginalPrice float64
	URL           string
	ImageURL      string
	Rating        *float64
	Reviews       *int
}

// valid reports whether every mandatory field was resolved
func (r rawListing) valid() bool {
	return r.Title != "" && r.ListedPrice > 0 && r.URL != ""
}

// price turns a resolved candidate into a priced listing
func price(vendor string, raw rawListing, platformLabel string, bank bankTemplate, discounts domain.DiscountApplier) domain.ListingResult {
	original := raw.OriginalPrice
	if original < raw.ListedPrice {
		original = raw.ListedPrice
	}

	var offers []domain.CandidateOffer
	if original > raw.ListedPrice {
		offers = append(offers, domain.CandidateOffer{
			Category:    domain.OfferPlatform,
			Description: platformLabel,
			Value:       original - raw.ListedPrice,
		})
	}
	offers = append(offers, bank.offer(raw.ListedPrice))

	applied, final := discounts.ApplyBest(raw.ListedPrice, offers)

	return domain.ListingResult{
		Vendor:        vendor,
		Title:         raw.Title,
		ListedPrice:   raw.ListedPrice,
		OriginalPrice: original,
		Offers:        domain.GroupOffers(offers),
		AppliedOffer:  applied,
		FinalPrice:    final,
		URL:           raw.URL,
		ImageURL:      raw.ImageURL,
		Rating:        raw.Rating,
		Reviews:       raw.Reviews,
	}
}
