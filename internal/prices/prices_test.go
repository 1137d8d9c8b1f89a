package prices

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savvit/savvit-server/internal/cache"
	"github.com/savvit/savvit-server/internal/common"
	"github.com/savvit/savvit-server/internal/llm"
	"github.com/savvit/savvit-server/internal/region"
)

type mockSearcher struct {
	result     llm.SearchResult
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (m *mockSearcher) Search(_ context.Context, system, user string) (llm.SearchResult, error) {
	m.calls++
	m.lastSystem = system
	m.lastUser = user
	return m.result, m.err
}

func newAggregator(searcher llm.Searcher) (*Aggregator, *cache.Store) {
	store := cache.New()
	return NewAggregator(searcher, store, slog.Default()), store
}

const searchPayload = `Here are the prices I found:
{
  "productName": "Apple iPhone 16 128GB",
  "prices": [
    {"retailer": "Flipkart", "price": "₹79,900", "currency": "INR", "url": "https://made-up.example/f", "inStock": true},
    {"retailer": "Amazon India", "price": 77900, "currency": "INR", "url": "https://made-up.example/a"},
    {"retailer": "GreyMarket Deals", "price": 69900, "currency": "INR"},
    {"retailer": "Croma", "price": 0, "offers": "No-cost EMI available"},
    {"retailer": "Nonsense", "price": 0}
  ],
  "summary": "Prices are stable this week."
}
Let me know if you need more.`

func TestSearch(t *testing.T) {
	in := region.Resolve("IN")

	t.Run("parses, classifies and sorts candidates", func(t *testing.T) {
		searcher := &mockSearcher{result: llm.SearchResult{
			Text:      searchPayload,
			Citations: []string{"https://example.com/review"},
		}}
		agg, _ := newAggregator(searcher)

		result, err := agg.Search(context.Background(), "Apple iPhone 16 128GB", in, "")
		require.NoError(t, err)

		assert.Equal(t, "Apple iPhone 16 128GB", result.ProductName)
		assert.Equal(t, "Prices are stable this week.", result.Summary)
		assert.Equal(t, []string{"https://example.com/review"}, result.Citations)

		// Empty candidate dropped, trusted sorted first by price, the
		// trusted offer-only entry last in its tier, untrusted after.
		require.Len(t, result.Prices, 4)
		assert.Equal(t, "Amazon India", result.Prices[0].Retailer)
		assert.Equal(t, 77900, result.Prices[0].Price)
		assert.Equal(t, "Flipkart", result.Prices[1].Retailer)
		assert.Equal(t, 79900, result.Prices[1].Price)
		assert.Equal(t, "Croma", result.Prices[2].Retailer)
		assert.Equal(t, "GreyMarket Deals", result.Prices[3].Retailer)
		assert.False(t, result.Prices[3].Trusted)

		// Cheapest trusted wins even though the grey market is cheaper.
		require.NotNil(t, result.BestPrice)
		assert.Equal(t, "Amazon India", result.BestPrice.Retailer)
		assert.Equal(t, 77900, result.BestPrice.Price)

		// Returned URLs are never passed through.
		assert.Contains(t, result.Prices[0].URL, "amazon.in")
		assert.Contains(t, result.Prices[1].URL, "flipkart.com")
	})

	t.Run("source retailer keeps its original URL", func(t *testing.T) {
		searcher := &mockSearcher{result: llm.SearchResult{Text: searchPayload}}
		agg, _ := newAggregator(searcher)

		sourceURL := "https://www.amazon.in/dp/B0ABCDEFXY"
		result, err := agg.Search(context.Background(), "Apple iPhone 16 128GB", in, sourceURL)
		require.NoError(t, err)

		var amazon *Candidate
		for i := range result.Prices {
			if result.Prices[i].Retailer == "Amazon India" {
				amazon = &result.Prices[i]
			}
		}
		require.NotNil(t, amazon)
		assert.Equal(t, sourceURL, amazon.URL)
		assert.Contains(t, searcher.lastSystem, "MUST include Amazon India")
	})

	t.Run("source retailer is synthesized when absent", func(t *testing.T) {
		payload := `{"productName": "Sony WH-1000XM5", "prices": [
			{"retailer": "Croma", "price": 24990, "currency": "INR"}
		], "summary": "ok"}`
		searcher := &mockSearcher{result: llm.SearchResult{Text: payload}}
		agg, _ := newAggregator(searcher)

		sourceURL := "https://www.flipkart.com/sony-wh-1000xm5/p/itmabc"
		result, err := agg.Search(context.Background(), "Sony WH-1000XM5", in, sourceURL)
		require.NoError(t, err)

		require.Len(t, result.Prices, 2)
		synth := result.Prices[1]
		assert.Equal(t, "Flipkart", synth.Retailer)
		assert.Equal(t, 0, synth.Price)
		assert.True(t, synth.Trusted)
		assert.Equal(t, sourceURL, synth.URL)
		assert.Equal(t, "Price available on retailer page", synth.Offers)

		require.NotNil(t, result.BestPrice)
		assert.Equal(t, "Croma", result.BestPrice.Retailer)
	})

	t.Run("caches results with at least one priced candidate", func(t *testing.T) {
		searcher := &mockSearcher{result: llm.SearchResult{Text: searchPayload}}
		agg, _ := newAggregator(searcher)

		_, err := agg.Search(context.Background(), "Apple iPhone 16 128GB", in, "")
		require.NoError(t, err)
		_, err = agg.Search(context.Background(), "apple iphone 16 128gb  ", in, "")
		require.NoError(t, err)
		assert.Equal(t, 1, searcher.calls)
	})

	t.Run("never caches a result without a confirmed price", func(t *testing.T) {
		payload := `{"productName": "X", "prices": [
			{"retailer": "Croma", "price": 0, "offers": "Check in store"}
		], "summary": "no prices online"}`
		searcher := &mockSearcher{result: llm.SearchResult{Text: payload}}
		agg, _ := newAggregator(searcher)

		_, err := agg.Search(context.Background(), "X", in, "")
		require.NoError(t, err)
		_, err = agg.Search(context.Background(), "X", in, "")
		require.NoError(t, err)
		assert.Equal(t, 2, searcher.calls)
	})

	t.Run("unparseable payload surfaces a malformed response error", func(t *testing.T) {
		searcher := &mockSearcher{result: llm.SearchResult{Text: "I could not find structured data, sorry."}}
		agg, _ := newAggregator(searcher)

		_, err := agg.Search(context.Background(), "X", in, "")
		assert.ErrorIs(t, err, common.ErrMalformedResponse)
	})

	t.Run("search errors pass through", func(t *testing.T) {
		searcher := &mockSearcher{err: common.ErrUpstreamUnavailable}
		agg, _ := newAggregator(searcher)

		_, err := agg.Search(context.Background(), "X", in, "")
		assert.ErrorIs(t, err, common.ErrUpstreamUnavailable)
	})

	t.Run("missing product name falls back to the query", func(t *testing.T) {
		payload := `{"prices": [{"retailer": "Amazon", "price": 100}], "summary": "ok"}`
		searcher := &mockSearcher{result: llm.SearchResult{Text: payload}}
		agg, _ := newAggregator(searcher)

		result, err := agg.Search(context.Background(), "mystery widget", region.Resolve("US"), "")
		require.NoError(t, err)
		assert.Equal(t, "mystery widget", result.ProductName)
	})
}

func TestBestPrice(t *testing.T) {
	t.Run("nil when nothing has a positive price", func(t *testing.T) {
		cs := []Candidate{{Retailer: "A", Price: 0}, {Retailer: "B", Price: -1}}
		assert.Nil(t, BestPrice(cs))
	})

	t.Run("falls back to untrusted when no trusted price exists", func(t *testing.T) {
		cs := []Candidate{
			{Retailer: "Sketchy", Price: 500, Trusted: false},
			{Retailer: "Croma", Price: 0, Trusted: true},
		}
		best := BestPrice(cs)
		require.NotNil(t, best)
		assert.Equal(t, "Sketchy", best.Retailer)
	})
}

func TestSearchLaunchIntel(t *testing.T) {
	t.Run("parses and caches per category", func(t *testing.T) {
		payload := `{"hasUpcomingLaunch": true, "details": "iPhone 17 expected at the fall event.", "expectedDate": "September 2026", "confidence": "HIGH"}`
		searcher := &mockSearcher{result: llm.SearchResult{
			Text:      payload,
			Citations: []string{"https://www.macrumors.com/iphone-17"},
		}}
		agg, _ := newAggregator(searcher)

		intel, err := agg.SearchLaunchIntel(context.Background(), "Apple iPhone 16", "iphone")
		require.NoError(t, err)
		require.NotNil(t, intel)
		assert.True(t, intel.HasUpcomingLaunch)
		assert.Equal(t, "high", intel.Confidence)
		assert.Equal(t, "September 2026", intel.ExpectedDate)
		assert.Equal(t, []string{"https://www.macrumors.com/iphone-17"}, intel.Citations)

		_, err = agg.SearchLaunchIntel(context.Background(), "Apple iPhone 16 Pro", "iphone")
		require.NoError(t, err)
		assert.Equal(t, 1, searcher.calls)
	})

	t.Run("degrades to nil on unparseable payloads", func(t *testing.T) {
		searcher := &mockSearcher{result: llm.SearchResult{Text: "no idea"}}
		agg, _ := newAggregator(searcher)

		intel, err := agg.SearchLaunchIntel(context.Background(), "X", "laptop")
		require.NoError(t, err)
		assert.Nil(t, intel)
	})

	t.Run("empty category skips the search", func(t *testing.T) {
		searcher := &mockSearcher{}
		agg, _ := newAggregator(searcher)

		intel, err := agg.SearchLaunchIntel(context.Background(), "X", "")
		require.NoError(t, err)
		assert.Nil(t, intel)
		assert.Zero(t, searcher.calls)
	})
}
