package source

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dealscout/backend/internal/domain"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const (
	flipkartName      = "flipkart"
	flipkartVendor    = "Flipkart"
	flipkartDomain    = "https://www.flipkart.com"
	flipkartSearchURL = flipkartDomain + "/search?q="
)

// Flipkart rotates its class names often; locators are tried newest first.
var flipkartItemSelectors = []string{
	".tUxRFH",
	"._1AtVbE",
	"._1fQZEK",
	"._13oc-S",
	"[data-id]",
	"._2kHMtA",
	".s1Q9rs",
}

var flipkartBank = bankTemplate{
	Description: "Axis Bank Credit Card - 10% Instant Discount",
	Percent:     10,
	Cap:         2000,
}

// Flipkart extracts listings from Flipkart search result pages
type Flipkart struct {
	fetcher    domain.DocumentFetcher
	discounts  domain.DiscountApplier
	maxResults int
}

// NewFlipkart creates the Flipkart offer source
func NewFlipkart(fetcher domain.DocumentFetcher, discounts domain.DiscountApplier, maxResults int) *Flipkart {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Flipkart{fetcher: fetcher, discounts: discounts, maxResults: maxResults}
}

func (f *Flipkart) Name() string {
	return flipkartName
}

// Search fetches the result page for query and returns up to maxResults listings
func (f *Flipkart) Search(ctx context.Context, query string) ([]domain.ListingResult, error) {
	html, err := f.fetcher.Fetch(ctx, flipkartSearchURL+encodeComponent(query))
	if err != nil {
		return nil, err
	}
	return f.parse(html)
}

func (f *Flipkart) parse(html string) ([]domain.ListingResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "failed to parse flipkart document")
	}

	items, selector := firstMatching(doc, flipkartItemSelectors...)
	if selector == "" {
		zap.L().Debug("no flipkart items matched any locator")
		return nil, nil
	}
	zap.L().Debug("flipkart result items", zap.String("selector", selector), zap.Int("count", items.Length()))

	var listings []domain.ListingResult
	items.EachWithBreak(func(_ int, item *goquery.Selection) bool {
		raw := f.extract(item)
		if !raw.valid() {
			zap.L().Debug("skipping flipkart item", zap.String("title", raw.Title))
			return true
		}
		listings = append(listings, price(flipkartVendor, raw, "Flipkart Discount", flipkartBank, f.discounts))
		return len(listings) < f.maxResults
	})

	return listings, nil
}

func (f *Flipkart) extract(item *goquery.Selection) rawListing {
	title := firstText(item, ".CGtC98", "._4rR01T, .IRpwTa, ._2WkVRV")
	if title == "" {
		title = sanitizeText(firstAttr(item, "title", "a[title]"))
	}

	priceText := firstText(item, ".Nx9bqj", "._30jeq3, ._1_WHN1")
	if priceText == "" {
		priceText = item.Text()
	}

	raw := rawListing{
		Title:       title,
		ListedPrice: ExtractPrice(priceText),
		URL:         resolveFlipkartURL(item.Find("a").First().AttrOr("href", "")),
		ImageURL:    item.Find("img").First().AttrOr("src", ""),
		Rating:      parseRating(item.Find("._3LWZlK, .XQDdHH").First().Text()),
	}

	raw.OriginalPrice = raw.ListedPrice
	if text := item.Find("._3I9_wc, ._2lQ_WZ").First().Text(); text != "" {
		raw.OriginalPrice = ExtractPrice(text)
	}
	return raw
}

func resolveFlipkartURL(href string) string {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "/"):
		return flipkartDomain + href
	case strings.HasPrefix(href, "http"):
		return href
	}
	return flipkartDomain + "/" + href
}
