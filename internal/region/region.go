// Package region holds the static registry of supported markets: currency,
// retailer lists, and per-retailer search URL builders. The registry is
// loaded once and never mutated.
package region

import (
	"fmt"
	"net/url"
	"strings"
)

// Config describes one supported market.
type Config struct {
	Code           string
	Name           string
	Currency       string
	CurrencySymbol string
	Locale         string
	AmazonDomain   string
	Retailers      []string
	// builders is ordered so substring fallback matches are deterministic.
	builders []urlBuilder
}

// urlBuilder maps a normalized retailer name to a search URL template with a
// single %s placeholder for the escaped query.
type urlBuilder struct {
	key      string
	template string
}

// DefaultCode is the region used for empty or unknown codes.
const DefaultCode = "US"

// Resolve returns the configuration for a region code. Input is trimmed and
// upper-cased; empty or unknown codes resolve to the default region. Never
// fails.
func Resolve(code string) Config {
	key := strings.ToUpper(strings.TrimSpace(code))
	if key == "" {
		return regions[DefaultCode]
	}
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	if rc, ok := regions[key]; ok {
		return rc
	}
	return regions[DefaultCode]
}

// Supported returns all supported regions in a stable order, excluding
// aliases.
func Supported() []Config {
	out := make([]Config, 0, len(regionOrder))
	for _, code := range regionOrder {
		out = append(out, regions[code])
	}
	return out
}

// SearchURL builds a search URL for a retailer in a region. Exact key match
// wins; otherwise the first builder whose key is contained in the retailer
// name is used. Unknown retailers fall back to a generic web search.
func SearchURL(retailer, productName string, rc Config) string {
	key := strings.ToLower(strings.TrimSpace(retailer))
	q := url.QueryEscape(productName)

	for _, b := range rc.builders {
		if b.key == key {
			return fmt.Sprintf(b.template, q)
		}
	}
	for _, b := range rc.builders {
		if strings.Contains(key, b.key) {
			return fmt.Sprintf(b.template, q)
		}
	}
	return "https://www.google.com/search?q=" + url.QueryEscape(productName+" "+retailer+" buy")
}

// manufacturers is a cross-region list of first-party storefronts that are
// always trusted.
var manufacturers = []string{
	"apple store", "apple", "samsung store", "samsung", "google store", "google",
	"sony store", "sony", "microsoft store", "microsoft", "oneplus", "dell", "lenovo", "hp store",
	"dyson", "bose", "nintendo", "playstation",
}

// IsTrusted reports whether a retailer name matches the region's curated
// retailer list, its URL builder keys, or a known manufacturer storefront.
// Matching is case-insensitive and fuzzy in both directions. Note that very
// short names can over-match; the rule is load-bearing for best-price
// selection, so it is kept as-is.
func IsTrusted(retailer string, rc Config) bool {
	key := strings.ToLower(strings.TrimSpace(retailer))
	if key == "" {
		return false
	}

	for _, r := range rc.Retailers {
		rk := strings.ToLower(r)
		if rk == key || strings.Contains(rk, key) || strings.Contains(key, rk) {
			return true
		}
	}
	for _, b := range rc.builders {
		if b.key == key || strings.Contains(b.key, key) || strings.Contains(key, b.key) {
			return true
		}
	}
	for _, m := range manufacturers {
		if strings.Contains(key, m) || strings.Contains(m, key) {
			return true
		}
	}
	return false
}

// RetailerDomains renders a "Name (domain), ..." list for the price search
// prompt so the web-search capability checks each retailer's actual site.
func RetailerDomains(rc Config) string {
	seen := make(map[string]bool)
	var pairs []string

	for _, b := range rc.builders {
		display := b.key
		for _, r := range rc.Retailers {
			rk := strings.ToLower(r)
			if rk == b.key || strings.Contains(rk, b.key) || strings.Contains(b.key, rk) {
				display = r
				break
			}
		}
		lower := strings.ToLower(display)
		if seen[lower] {
			continue
		}
		seen[lower] = true

		if domain := domainOf(fmt.Sprintf(b.template, "test")); domain != "" {
			pairs = append(pairs, fmt.Sprintf("%s (%s)", display, domain))
		} else {
			pairs = append(pairs, display)
		}
	}
	return strings.Join(pairs, ", ")
}

func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// FormatPrice renders a whole-unit price with the region's currency symbol
// and digit grouping.
func FormatPrice(price int, rc Config) string {
	return rc.CurrencySymbol + groupDigits(price, rc.Locale)
}

// groupDigits applies locale digit grouping. en-IN uses lakh/crore grouping
// (1,19,900); de-DE uses dot separators; everything else groups by thousands
// with commas.
func groupDigits(n int, locale string) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	sep := ","
	if locale == "de-DE" {
		sep = "."
	}

	var groups []string
	if locale == "en-IN" {
		// Last three digits, then groups of two
		if len(s) > 3 {
			head, tail := s[:len(s)-3], s[len(s)-3:]
			groups = append(groups, tail)
			for len(head) > 2 {
				groups = append([]string{head[len(head)-2:]}, groups...)
				head = head[:len(head)-2]
			}
			if head != "" {
				groups = append([]string{head}, groups...)
			}
		} else {
			groups = []string{s}
		}
	} else {
		for len(s) > 3 {
			groups = append([]string{s[len(s)-3:]}, groups...)
			s = s[:len(s)-3]
		}
		if s != "" {
			groups = append([]string{s}, groups...)
		}
	}

	out := strings.Join(groups, sep)
	if neg {
		out = "-" + out
	}
	return out
}
