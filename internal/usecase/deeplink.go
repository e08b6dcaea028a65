package usecase

import (
	"net/url"
	"strings"
)

type vendorLink struct {
	match  string
	prefix string
}

// Vendor search pages, matched by substring of the lowercased vendor name
var vendorLinks = []vendorLink{
	{match: "amazon", prefix: "https://amazon.in/s?k="},
	{match: "flipkart", prefix: "https://flipkart.com/search?q="},
	{match: "croma", prefix: "https://www.croma.com/search/?text="},
	{match: "apple", prefix: "https://www.apple.com/in/shop/search/"},
}

const fallbackSearchURL = "https://google.com/search?q="

// VendorDeepLink builds a vendor search URL for query. Unknown vendors get a
// generic web search.
func VendorDeepLink(vendor, query string) string {
	q := strings.ReplaceAll(url.QueryEscape(query), "+", "%20")
	name := strings.ToLower(vendor)

	for _, link := range vendorLinks {
		if strings.Contains(name, link.match) {
			return link.prefix + q
		}
	}
	return fallbackSearchURL + q
}
