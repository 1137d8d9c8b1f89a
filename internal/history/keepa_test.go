package history

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savvit/savvit-server/internal/cache"
)

// One observation at Keepa minute 7890000 (2026-01-02-ish is irrelevant; the
// assertion below pins the exact derived date), price 7790000 cents.
const keepaBody = `{
  "products": [
    {
      "title": "Apple iPhone 16 128GB",
      "csv": [null, [7890000, 7990000, 7900000, -1, 7950000, 7790000]],
      "stats": {
        "current": [0, 7790000],
        "min": [0, 6990000],
        "max": [0, 8990000],
        "avg30": [0, 7890000],
        "avg90": [0, 7990000],
        "avg180": [0, 8190000]
      }
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key", cache.New(), slog.Default())
	c.SetBaseURL(srv.URL)
	return c
}

func TestLookup(t *testing.T) {
	t.Run("parses stats and history", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "10", r.URL.Query().Get("domain"))
			assert.Equal(t, "B0ABCDEFXY", r.URL.Query().Get("asin"))
			w.Write([]byte(keepaBody))
		})

		stats, err := c.Lookup(context.Background(), "B0ABCDEFXY", "IN")
		require.NoError(t, err)
		require.NotNil(t, stats)

		assert.Equal(t, "Apple iPhone 16 128GB", stats.Title)
		assert.Equal(t, 77900, stats.CurrentPrice)
		assert.Equal(t, 69900, stats.AllTimeLow)
		assert.Equal(t, 89900, stats.AllTimeHigh)
		assert.Equal(t, 78900, stats.Avg30d)
		assert.Equal(t, 81900, stats.Avg180d)

		// The -1 gap in the series is dropped.
		require.Len(t, stats.History, 2)
		assert.Equal(t, 79900, stats.History[0].Price)
		assert.Equal(t, 77900, stats.History[1].Price)
		// keepaMinutes 7890000 => 2011-01-01 + ~15 years.
		assert.Equal(t, "2026-01-01", stats.History[0].Date)
	})

	t.Run("caches per region and asin", func(t *testing.T) {
		var hits atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Write([]byte(keepaBody))
		})

		_, err := c.Lookup(context.Background(), "B0ABCDEFXY", "IN")
		require.NoError(t, err)
		_, err = c.Lookup(context.Background(), "B0ABCDEFXY", "IN")
		require.NoError(t, err)
		assert.Equal(t, int32(1), hits.Load())

		_, err = c.Lookup(context.Background(), "B0ABCDEFXY", "US")
		require.NoError(t, err)
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("nil without an API key", func(t *testing.T) {
		c := NewClient("", cache.New(), slog.Default())
		stats, err := c.Lookup(context.Background(), "B0ABCDEFXY", "IN")
		require.NoError(t, err)
		assert.Nil(t, stats)
	})

	t.Run("nil for regions keepa does not cover", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("request should not reach upstream")
		})
		stats, err := c.Lookup(context.Background(), "B0ABCDEFXY", "AU")
		require.NoError(t, err)
		assert.Nil(t, stats)
	})

	t.Run("degrades to nil on upstream errors", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
		})
		stats, err := c.Lookup(context.Background(), "B0ABCDEFXY", "IN")
		require.NoError(t, err)
		assert.Nil(t, stats)
	})

	t.Run("degrades to nil on empty product lists", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"products": []}`))
		})
		stats, err := c.Lookup(context.Background(), "B0ABCDEFXY", "IN")
		require.NoError(t, err)
		assert.Nil(t, stats)
	})
}

func TestEnabled(t *testing.T) {
	c := NewClient("key", cache.New(), slog.Default())
	assert.True(t, c.Enabled("IN"))
	assert.True(t, c.Enabled("US"))
	assert.False(t, c.Enabled("AU"))

	c = NewClient("", cache.New(), slog.Default())
	assert.False(t, c.Enabled("IN"))
}

func TestTrendVsAverage(t *testing.T) {
	assert.Equal(t, "above", TrendVsAverage(110, 100))
	assert.Equal(t, "below", TrendVsAverage(90, 100))
	assert.Equal(t, "at", TrendVsAverage(101, 100))
	assert.Equal(t, "at", TrendVsAverage(0, 100))
	assert.Equal(t, "at", TrendVsAverage(100, 0))
}