package deals

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
	result llm.SearchResult
	err    error
	calls  int
	system string
}

func (m *mockSearcher) Search(_ context.Context, system, _ string) (llm.SearchResult, error) {
	m.calls++
	m.system = system
	return m.result, m.err
}

func newFinder(searcher llm.Searcher) *Finder {
	return NewFinder(searcher, cache.New(), slog.Default())
}

func TestFind(t *testing.T) {
	in := region.Resolve("IN")

	t.Run("parses deals and normalizes types", func(t *testing.T) {
		payload := `Sure! {"deals": [
			{"type": "Bank Offer", "title": "HDFC instant discount", "description": "10% off with HDFC cards", "retailer": "Amazon India", "discount": "10%"},
			{"type": "weird", "title": "Festive price drop", "description": "Listed below MRP"},
			{"type": "coupon", "title": "", "description": "dropped, no title"}
		], "summary": "Two solid offers running."}`
		searcher := &mockSearcher{result: llm.SearchResult{Text: payload}}
		f := newFinder(searcher)

		result, err := f.Find(context.Background(), "Apple iPhone 16", in)
		require.NoError(t, err)

		require.Len(t, result.Deals, 2)
		assert.Equal(t, "bank-offer", result.Deals[0].Type)
		assert.Equal(t, "discount", result.Deals[1].Type)
		assert.Equal(t, "Two solid offers running.", result.Summary)
		assert.Contains(t, searcher.system, "No-Cost EMI")
	})

	t.Run("unparseable payload degrades to empty", func(t *testing.T) {
		searcher := &mockSearcher{result: llm.SearchResult{Text: "couldn't find anything structured"}}
		f := newFinder(searcher)

		result, err := f.Find(context.Background(), "X", in)
		require.NoError(t, err)
		assert.Empty(t, result.Deals)
		assert.NotEmpty(t, result.Summary)
	})

	t.Run("search errors pass through", func(t *testing.T) {
		searcher := &mockSearcher{err: common.ErrUpstreamUnavailable}
		f := newFinder(searcher)

		_, err := f.Find(context.Background(), "X", in)
		assert.ErrorIs(t, err, common.ErrUpstreamUnavailable)
	})

	t.Run("results are cached per region and query", func(t *testing.T) {
		payload := `{"deals": [], "summary": "Nothing right now."}`
		searcher := &mockSearcher{result: llm.SearchResult{Text: payload}}
		f := newFinder(searcher)

		_, err := f.Find(context.Background(), "Sony WH-1000XM5", in)
		require.NoError(t, err)
		_, err = f.Find(context.Background(), "sony wh-1000xm5", in)
		require.NoError(t, err)
		assert.Equal(t, 1, searcher.calls)

		_, err = f.Find(context.Background(), "Sony WH-1000XM5", region.Resolve("US"))
		require.NoError(t, err)
		assert.Equal(t, 2, searcher.calls)
	})
}
