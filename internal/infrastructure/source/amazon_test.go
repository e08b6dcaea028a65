package source

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dealscout/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const amazonIPhone = `<div class="s-result-item" data-component-type="s-search-result">
  <h2><a class="a-link-normal" href="/Apple-iPhone-15/dp/B0CHX1W1XY/ref=sr_1_1?keywords=iphone"><span>Apple iPhone 15 (128 GB) - Black</span></a></h2>
  <img class="s-image" src="https://m.media-amazon.com/images/I/iphone.jpg">
  <i class="a-icon a-icon-star-small"><span class="a-icon-alt">4.5 out of 5 stars</span></i>
  <div class="reviews"><span><span aria-label="4.5 out of 5 stars">*</span></span><span class="count">1,234</span></div>
  <span class="a-price"><span class="a-price-whole">69,900</span></span>
  <span class="a-price a-text-price"><span class="a-offscreen">₹79,900</span></span>
</div>`

const amazonSponsored = `<div class="s-result-item" data-component-type="s-search-result">
  <a class="a-link-normal" href="/sspa/click?ie=UTF8&spc=abc&url=%2FSamsung-Galaxy-S24%2Fdp%2FB0D1234567%2Fref%3Dsr_1&sp_csd=x">
    <h2><span>Samsung Galaxy S24</span></h2>
  </a>
  <span class="a-price"><span class="a-price-whole">74,999</span></span>
</div>`

const amazonNoPrice = `<div class="s-result-item" data-component-type="s-search-result">
  <h2><a class="a-link-normal" href="/x/dp/B000000001"><span>Currently unavailable</span></a></h2>
</div>`

const amazonNoLink = `<div class="s-result-item" data-component-type="s-search-result">
  <h2><span>Orphan Listing</span></h2>
  <span class="a-price-whole">1,000</span>
</div>`

const amazonAbsolute = `<div class="s-result-item" data-component-type="s-search-result">
  <a class="a-link-normal" href="https://www.amazon.in/gp/product/CABLE01?ref=abc">link</a>
  <span class="a-size-medium">USB-C Cable</span>
  <span class="a-price-whole">999</span>
</div>`

func amazonItem(n int) string {
	return fmt.Sprintf(`<div class="s-result-item" data-component-type="s-search-result">
  <h2><a class="a-link-normal" href="/item/dp/B00000000%d"><span>Item %d</span></a></h2>
  <span class="a-price-whole">%d</span>
</div>`, n, n, 100*(n+1))
}

func TestAmazon_Search(t *testing.T) {
	fetcher := &fakeFetcher{doc: page(amazonIPhone, amazonSponsored, amazonNoPrice, amazonNoLink, amazonAbsolute)}
	src := NewAmazon(fetcher, nominalApplier{}, 0)

	listings, err := src.Search(context.Background(), "iphone 15")
	require.NoError(t, err)

	require.Equal(t, []string{"https://www.amazon.in/s?k=iphone%2015"}, fetcher.urls)
	require.Len(t, listings, 3)

	t.Run("discounted listing", func(t *testing.T) {
		l := listings[0]
		assert.Equal(t, "Amazon India", l.Vendor)
		assert.Equal(t, "Apple iPhone 15 (128 GB) - Black", l.Title)
		assert.Equal(t, 69900.0, l.ListedPrice)
		assert.Equal(t, 79900.0, l.OriginalPrice)
		assert.Equal(t, "https://www.amazon.in/dp/B0CHX1W1XY", l.URL)
		assert.Equal(t, "https://m.media-amazon.com/images/I/iphone.jpg", l.ImageURL)
		require.NotNil(t, l.Rating)
		assert.Equal(t, 4.5, *l.Rating)
		require.NotNil(t, l.Reviews)
		assert.Equal(t, 1234, *l.Reviews)

		require.Len(t, l.Offers.Platform, 1)
		assert.Equal(t, 10000.0, l.Offers.Platform[0].Value)
		require.Len(t, l.Offers.Bank, 1)
		assert.Equal(t, 1500.0, l.Offers.Bank[0].Value)

		require.NotNil(t, l.AppliedOffer)
		assert.Equal(t, domain.OfferPlatform, l.AppliedOffer.Category)
		assert.Equal(t, 59900.0, l.FinalPrice)
	})

	t.Run("sponsored listing", func(t *testing.T) {
		l := listings[1]
		assert.Equal(t, "Samsung Galaxy S24", l.Title)
		assert.Equal(t, "https://www.amazon.in/dp/B0D1234567", l.URL)
		assert.Equal(t, 74999.0, l.OriginalPrice)
		assert.Empty(t, l.Offers.Platform)
		require.NotNil(t, l.AppliedOffer)
		assert.Equal(t, domain.OfferBank, l.AppliedOffer.Category)
		assert.Equal(t, 73499.0, l.FinalPrice)
		assert.Nil(t, l.Rating)
	})

	t.Run("absolute link and title fallback", func(t *testing.T) {
		l := listings[2]
		assert.Equal(t, "USB-C Cable", l.Title)
		assert.Equal(t, "https://www.amazon.in/gp/product/CABLE01", l.URL)
		assert.Equal(t, 949.0, l.FinalPrice)
	})

	for _, l := range listings {
		assert.GreaterOrEqual(t, l.FinalPrice, 0.0)
		assert.LessOrEqual(t, l.FinalPrice, l.ListedPrice)
		assert.GreaterOrEqual(t, l.OriginalPrice, l.ListedPrice)
	}
}

func TestAmazon_SearchCapsResults(t *testing.T) {
	var items []string
	for i := 1; i <= 7; i++ {
		items = append(items, amazonItem(i))
	}
	src := NewAmazon(&fakeFetcher{doc: page(items...)}, nominalApplier{}, 0)

	listings, err := src.Search(context.Background(), "item")
	require.NoError(t, err)
	require.Len(t, listings, DefaultMaxResults)
	assert.Equal(t, "Item 1", listings[0].Title)
	assert.Equal(t, "Item 5", listings[4].Title)
}

func TestAmazon_SearchFetchError(t *testing.T) {
	fetchErr := &domain.FetchError{URL: "https://www.amazon.in/s?k=x", Attempts: 2, Err: errUpstream}
	src := NewAmazon(&fakeFetcher{err: fetchErr}, nominalApplier{}, 0)

	listings, err := src.Search(context.Background(), "x")

	assert.Nil(t, listings)
	var target *domain.FetchError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, 2, target.Attempts)
}

func TestAmazon_SearchNoItems(t *testing.T) {
	src := NewAmazon(&fakeFetcher{doc: page("<p>nothing</p>")}, nominalApplier{}, 0)

	listings, err := src.Search(context.Background(), "x")

	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestResolveAmazonURL(t *testing.T) {
	tests := []struct {
		name     string
		href     string
		expected string
	}{
		{"empty", "", ""},
		{"product path", "/Some-Thing/dp/B0ABCDEF12/ref=sr_1_3?crid=1", "https://www.amazon.in/dp/B0ABCDEF12"},
		{"absolute product", "https://www.amazon.in/x/dp/B0ZZZZZZZZ?th=1", "https://www.amazon.in/dp/B0ZZZZZZZZ"},
		{"dp without id", "/dp/", ""},
		{"sponsored", "/sspa/click?url=%2Fx%2Fdp%2FB0SPONSOR1%2Fref&a=b", "https://www.amazon.in/dp/B0SPONSOR1"},
		{"sponsored without target", "/sspa/click?ie=UTF8", ""},
		{"sponsored bad escape", "/sspa/click?url=%zz", ""},
		{"relative", "/gp/bestsellers?ref=nav", "https://www.amazon.in/gp/bestsellers"},
		{"absolute", "https://www.amazon.in/gp/offer?x=1", "https://www.amazon.in/gp/offer"},
		{"unresolvable", "javascript:void(0)", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveAmazonURL(tt.href))
		})
	}
}
