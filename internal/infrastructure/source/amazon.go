package source

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dealscout/backend/internal/domain"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const (
	amazonName      = "amazon"
	amazonVendor    = "Amazon India"
	amazonDomain    = "https://www.amazon.in"
	amazonSearchURL = amazonDomain + "/s?k="
)

var amazonProductID = regexp.MustCompile(`/dp/([A-Z0-9]+)`)

var amazonBank = bankTemplate{
	Description:  "HDFC Bank Credit Card - 5% Instant Discount",
	Percent:      5,
	Cap:          1500,
	ClampNominal: true,
}

// Amazon extracts listings from Amazon India search result pages
type Amazon struct {
	fetcher    domain.DocumentFetcher
	discounts  domain.DiscountApplier
	maxResults int
}

// NewAmazon creates the Amazon India offer source
func NewAmazon(fetcher domain.DocumentFetcher, discounts domain.DiscountApplier, maxResults int) *Amazon {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Amazon{fetcher: fetcher, discounts: discounts, maxResults: maxResults}
}

func (a *Amazon) Name() string {
	return amazonName
}

// Search fetches the result page for query and returns up to maxResults listings
func (a *Amazon) Search(ctx context.Context, query string) ([]domain.ListingResult, error) {
	html, err := a.fetcher.Fetch(ctx, amazonSearchURL+encodeComponent(query))
	if err != nil {
		return nil, err
	}
	return a.parse(html)
}

func (a *Amazon) parse(html string) ([]domain.ListingResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "failed to parse amazon document")
	}

	items := doc.Find(`.s-result-item[data-component-type="s-search-result"]`)
	zap.L().Debug("amazon result items", zap.Int("count", items.Length()))

	var listings []domain.ListingResult
	items.EachWithBreak(func(_ int, item *goquery.Selection) bool {
		raw := a.extract(item)
		if !raw.valid() {
			zap.L().Debug("skipping amazon item", zap.String("title", raw.Title))
			return true
		}
		listings = append(listings, price(amazonVendor, raw, "Amazon Discount", amazonBank, a.discounts))
		return len(listings) < a.maxResults
	})

	return listings, nil
}

func (a *Amazon) extract(item *goquery.Selection) rawListing {
	raw := rawListing{
		Title:       firstText(item, "h2 span", ".a-size-medium", "h2"),
		ListedPrice: ExtractPrice(item.Find(".a-price-whole").First().Text()),
		URL: resolveAmazonURL(firstAttr(item, "href",
			"a.a-link-normal", "h2 a", `a[href*="/dp/"]`)),
		ImageURL: firstAttr(item, "src", "img.s-image"),
		Rating:   parseRating(item.Find(".a-icon-star-small .a-icon-alt").First().Text()),
		Reviews: parseCount(item.Find(`[aria-label*="stars"]`).First().
			Parent().Parent().Find("span").Last().Text()),
	}

	raw.OriginalPrice = raw.ListedPrice
	if text := item.Find(".a-price.a-text-price .a-offscreen").First().Text(); text != "" {
		raw.OriginalPrice = ExtractPrice(text)
	}
	return raw
}

// resolveAmazonURL turns a result link into a canonical product URL, or ""
// when no product can be identified.
func resolveAmazonURL(href string) string {
	switch {
	case href == "":
		return ""
	case strings.Contains(href, "/dp/"):
		if m := amazonProductID.FindStringSubmatch(href); m != nil {
			return amazonDomain + "/dp/" + m[1]
		}
		return ""
	case strings.Contains(href, "/sspa/click"):
		return resolveSponsored(href)
	case strings.HasPrefix(href, "/"):
		return amazonDomain + stripQuery(href)
	case strings.HasPrefix(href, "http"):
		return stripQuery(href)
	}
	return ""
}

// resolveSponsored extracts the product from a sponsored redirect link
func resolveSponsored(href string) string {
	idx := strings.Index(href, "url=")
	if idx < 0 {
		return ""
	}
	encoded := href[idx+len("url="):]
	if amp := strings.Index(encoded, "&"); amp >= 0 {
		encoded = encoded[:amp]
	}
	target, err := url.QueryUnescape(encoded)
	if err != nil {
		return ""
	}
	if m := amazonProductID.FindStringSubmatch(target); m != nil {
		return amazonDomain + "/dp/" + m[1]
	}
	return ""
}

func stripQuery(href string) string {
	if i := strings.Index(href, "?"); i >= 0 {
		return href[:i]
	}
	return href
}
