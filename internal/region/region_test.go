package region

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Run("known codes", func(t *testing.T) {
		assert.Equal(t, "IN", Resolve("IN").Code)
		assert.Equal(t, "India", Resolve("in").Name)
		assert.Equal(t, "JP", Resolve("  jp ").Code)
	})

	t.Run("alias maps to canonical region", func(t *testing.T) {
		rc := Resolve("GB")
		assert.Equal(t, "UK", rc.Code)
		assert.Equal(t, "GBP", rc.Currency)
	})

	t.Run("unknown and empty codes fall back to default", func(t *testing.T) {
		for _, code := range []string{"", "XX", "ZZ", "   ", "mars"} {
			rc := Resolve(code)
			assert.Equal(t, DefaultCode, rc.Code, "code %q", code)
		}
	})
}

func TestSupported(t *testing.T) {
	regions := Supported()
	require.Len(t, regions, 8)
	// Alias excluded
	for _, rc := range regions {
		assert.NotEqual(t, "GB", rc.Code)
	}
	// Stable order
	assert.Equal(t, "IN", regions[0].Code)
	assert.Equal(t, "JP", regions[7].Code)
}

func TestSearchURL(t *testing.T) {
	in := Resolve("IN")

	t.Run("exact key", func(t *testing.T) {
		got := SearchURL("Flipkart", "iPhone 16", in)
		assert.Equal(t, "https://www.flipkart.com/search?q=iPhone+16", got)
	})

	t.Run("substring match", func(t *testing.T) {
		got := SearchURL("Amazon.in Marketplace", "iPhone 16", in)
		assert.Contains(t, got, "amazon.in/s?k=")
	})

	t.Run("unknown retailer falls back to web search", func(t *testing.T) {
		got := SearchURL("Unknown Bazaar", "iPhone 16", in)
		assert.True(t, strings.HasPrefix(got, "https://www.google.com/search?q="))
		assert.Contains(t, got, "Unknown+Bazaar")
	})
}

func TestIsTrusted(t *testing.T) {
	us := Resolve("US")

	t.Run("curated retailers", func(t *testing.T) {
		assert.True(t, IsTrusted("Amazon", us))
		assert.True(t, IsTrusted("best buy", us))
		assert.True(t, IsTrusted("BestBuy", us))
		assert.True(t, IsTrusted("Walmart.com", us))
	})

	t.Run("manufacturer storefronts", func(t *testing.T) {
		assert.True(t, IsTrusted("Apple Store", us))
		assert.True(t, IsTrusted("Samsung", Resolve("IN")))
	})

	t.Run("unknown sellers", func(t *testing.T) {
		assert.False(t, IsTrusted("Unknown Bazaar", us))
		assert.False(t, IsTrusted("", us))
	})
}

func TestRetailerDomains(t *testing.T) {
	got := RetailerDomains(Resolve("IN"))
	assert.Contains(t, got, "Amazon India (amazon.in)")
	assert.Contains(t, got, "Flipkart (flipkart.com)")
	// Deduplicated: "amazon india" and "amazon" keys collapse to one entry
	assert.Equal(t, 1, strings.Count(got, "amazon.in"))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "₹1,19,900", FormatPrice(119900, Resolve("IN")))
	assert.Equal(t, "$1,199", FormatPrice(1199, Resolve("US")))
	assert.Equal(t, "€1.199", FormatPrice(1199, Resolve("DE")))
	assert.Equal(t, "¥148,000", FormatPrice(148000, Resolve("JP")))
	assert.Equal(t, "$999", FormatPrice(999, Resolve("US")))
}
