// Package history fetches Amazon price history through the Keepa API. All of
// it is best-effort enrichment: no API key, an unsupported region, or an
// upstream failure all degrade to "no history" rather than an error.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/savvit/savvit-server/internal/cache"
	"github.com/savvit/savvit-server/internal/common"
)

// keepaEpochOffset converts Keepa minutes (since 2011-01-01) to Unix minutes.
const keepaEpochOffset = 21564000

// keepaDomains maps region codes to Keepa domain IDs. Regions Keepa does not
// cover are absent.
var keepaDomains = map[string]int{
	"US": 1,
	"UK": 2,
	"DE": 3,
	"FR": 4,
	"JP": 5,
	"CA": 6,
	"IN": 10,
}

// PricePoint is one dated price observation.
type PricePoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Price int    `json:"price"`
}

// Stats is the summarized price history for one ASIN.
type Stats struct {
	ASIN         string       `json:"asin"`
	Title        string       `json:"title"`
	CurrentPrice int          `json:"currentPrice"`
	AllTimeLow   int          `json:"allTimeLow"`
	AllTimeHigh  int          `json:"allTimeHigh"`
	Avg30d       int          `json:"avg30d"`
	Avg90d       int          `json:"avg90d"`
	Avg180d      int          `json:"avg180d"`
	History      []PricePoint `json:"priceHistory"`
	LastUpdated  time.Time    `json:"lastUpdated"`
}

// Client talks to the Keepa product API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	store      *cache.Store
	logger     *slog.Logger
}

// NewClient creates a Keepa client. An empty apiKey yields a client whose
// lookups always return nil.
func NewClient(apiKey string, store *cache.Store, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: "https://api.keepa.com",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		store:  store,
		logger: logger,
	}
}

// SetBaseURL overrides the API endpoint for testing.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// Enabled reports whether lookups can do anything at all for a region.
func (c *Client) Enabled(regionCode string) bool {
	if c.apiKey == "" {
		return false
	}
	_, ok := keepaDomains[regionCode]
	return ok
}

// Lookup fetches price history for an ASIN in a region. Returns nil, nil when
// history is unavailable for any reason.
func (c *Client) Lookup(ctx context.Context, asin, regionCode string) (*Stats, error) {
	if c.apiKey == "" {
		return nil, nil
	}
	domain, ok := keepaDomains[regionCode]
	if !ok {
		c.logger.Debug("price history not available for region", "region", regionCode)
		return nil, nil
	}

	cacheKey := cache.Key("keepa", regionCode, asin)
	if cached, ok := cache.Get[Stats](c.store, cacheKey); ok {
		return &cached, nil
	}

	reqURL := fmt.Sprintf("%s/product?key=%s&domain=%d&asin=%s&history=1&stats=180",
		c.baseURL, url.QueryEscape(c.apiKey), domain, url.QueryEscape(asin))

	body, err := c.fetch(ctx, reqURL)
	if err != nil {
		c.logger.Warn("keepa request failed", "error", err)
		return nil, nil
	}

	stats := parseProduct(body, asin)
	if stats == nil {
		return nil, nil
	}

	c.store.Set(cacheKey, *stats, cache.TTLPriceHistory)
	return stats, nil
}

// fetch issues the GET with retries. Network errors and 5xx/429 responses are
// retried; other non-OK statuses fail immediately.
func (c *Client) fetch(ctx context.Context, reqURL string) ([]byte, error) {
	var body []byte

	err := common.WithRetry(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return &common.RetryableError{Err: fmt.Errorf("creating keepa request: %w", err), Retryable: false}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &common.RetryableError{Err: err, Retryable: true}
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return common.ErrRateLimit
		}
		if resp.StatusCode != http.StatusOK {
			return &common.RetryableError{
				Err:       fmt.Errorf("keepa returned status %d", resp.StatusCode),
				Retryable: resp.StatusCode >= 500,
			}
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		if err != nil {
			return &common.RetryableError{Err: fmt.Errorf("reading keepa response: %w", err), Retryable: true}
		}
		return nil
	}, common.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2,
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Keepa wire format. csv[1] is the Amazon price series as alternating
// [keepaMinutes, priceCents] values; stats arrays are indexed by price type.
type keepaResponse struct {
	Products []keepaProduct `json:"products"`
}

type keepaProduct struct {
	Title string     `json:"title"`
	CSV   [][]int    `json:"csv"`
	Stats keepaStats `json:"stats"`
}

type keepaStats struct {
	Current []int `json:"current"`
	Min     []int `json:"min"`
	Max     []int `json:"max"`
	Avg30   []int `json:"avg30"`
	Avg90   []int `json:"avg90"`
	Avg180  []int `json:"avg180"`
}

func parseProduct(body []byte, asin string) *Stats {
	var kr keepaResponse
	if err := json.Unmarshal(body, &kr); err != nil || len(kr.Products) == 0 {
		return nil
	}
	p := kr.Products[0]

	stats := &Stats{
		ASIN:         asin,
		Title:        p.Title,
		CurrentPrice: centsAt(p.Stats.Current, 1),
		AllTimeLow:   centsAt(p.Stats.Min, 1),
		AllTimeHigh:  centsAt(p.Stats.Max, 1),
		Avg30d:       centsAt(p.Stats.Avg30, 1),
		Avg90d:       centsAt(p.Stats.Avg90, 1),
		Avg180d:      centsAt(p.Stats.Avg180, 1),
		LastUpdated:  time.Now().UTC(),
	}

	if len(p.CSV) > 1 {
		series := p.CSV[1]
		for i := 0; i+1 < len(series); i += 2 {
			priceCents := series[i+1]
			if priceCents <= 0 {
				continue
			}
			ts := time.Unix(int64(series[i]+keepaEpochOffset)*60, 0).UTC()
			stats.History = append(stats.History, PricePoint{
				Date:  ts.Format("2006-01-02"),
				Price: priceCents / 100,
			})
		}
	}
	return stats
}

func centsAt(arr []int, idx int) int {
	if idx >= len(arr) || arr[idx] <= 0 {
		return 0
	}
	return arr[idx] / 100
}

// TrendVsAverage classifies the current price against a reference average
// with a 3% dead band.
func TrendVsAverage(current, avg int) string {
	if current <= 0 || avg <= 0 {
		return "at"
	}
	diff := float64(current-avg) / float64(avg)
	switch {
	case diff > 0.03:
		return "above"
	case diff < -0.03:
		return "below"
	default:
		return "at"
	}
}
