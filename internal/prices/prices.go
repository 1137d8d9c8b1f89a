// Package prices aggregates live multi-retailer price candidates for a
// product. It drives the web-search capability with a fixed JSON schema,
// repairs and validates the payload, classifies retailer trust, and selects
// the best price deterministically.
package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/savvit/savvit-server/internal/cache"
	"github.com/savvit/savvit-server/internal/common"
	"github.com/savvit/savvit-server/internal/llm"
	"github.com/savvit/savvit-server/internal/region"
)

// Candidate is one retailer's price for the product.
type Candidate struct {
	Retailer string `json:"retailer"`
	Price    int    `json:"price"`
	Currency string `json:"currency"`
	URL      string `json:"url"`
	Offers   string `json:"offers,omitempty"`
	InStock  bool   `json:"inStock"`
	Trusted  bool   `json:"trusted"`
}

// Result is the aggregated price landscape for a product.
type Result struct {
	ProductName string               `json:"productName"`
	Prices      []Candidate          `json:"prices"`
	BestPrice   *Candidate           `json:"bestPrice"`
	Summary     string               `json:"summary"`
	Citations   []string             `json:"citations"`
	Images      []llm.ImageCandidate `json:"-"`
}

// Aggregator fetches and normalizes price candidates.
type Aggregator struct {
	searcher llm.Searcher
	store    *cache.Store
	logger   *slog.Logger
}

// NewAggregator creates a price aggregator.
func NewAggregator(searcher llm.Searcher, store *cache.Store, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		searcher: searcher,
		store:    store,
		logger:   logger,
	}
}

// Search returns the price landscape for productName in a region. sourceURL,
// when non-empty, is the retailer page the user came from; its retailer is
// guaranteed to appear in the result.
func (a *Aggregator) Search(ctx context.Context, productName string, rc region.Config, sourceURL string) (Result, error) {
	cacheKey := cache.Key("prices", rc.Code, productName)
	if cached, ok := cache.Get[Result](a.store, cacheKey); ok {
		a.logger.Debug("price cache hit", "key", cacheKey)
		return cached, nil
	}

	sourceRetailer := ""
	if sourceURL != "" {
		sourceRetailer, _ = region.DetectRetailer(sourceURL)
	}

	system := buildSearchPrompt(rc, sourceRetailer)
	user := fmt.Sprintf(`Find the current price of %q across all major retailers in %s. Include any ongoing offers or discounts.`, productName, rc.Name)

	searched, err := a.searcher.Search(ctx, system, user)
	if err != nil {
		return Result{}, fmt.Errorf("price search: %w", err)
	}

	result, err := a.parseResult(searched.Text, productName)
	if err != nil {
		a.logger.Error("price search returned unparseable payload",
			"product", productName,
			"snippet", snippet(searched.Text))
		return Result{}, err
	}
	result.Citations = searched.Citations
	result.Images = searched.Images

	a.normalize(&result, rc, sourceRetailer, sourceURL)

	// Never cache a degenerate result; it would poison identical queries
	// for the full TTL.
	if hasPositivePrice(result.Prices) {
		a.store.Set(cacheKey, result, cache.TTLPrices)
	}
	return result, nil
}

// rawResult tolerates the loosely typed JSON the search capability returns.
type rawResult struct {
	ProductName string         `json:"productName"`
	Prices      []rawCandidate `json:"prices"`
	Summary     string         `json:"summary"`
}

type rawCandidate struct {
	Retailer string `json:"retailer"`
	Price    any    `json:"price"`
	Currency string `json:"currency"`
	URL      string `json:"url"`
	Offers   string `json:"offers"`
	InStock  *bool  `json:"inStock"`
}

func (a *Aggregator) parseResult(text, fallbackName string) (Result, error) {
	obj, err := llm.ExtractJSONObject(text)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return Result{}, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}

	result := Result{
		ProductName: strings.TrimSpace(raw.ProductName),
		Summary:     raw.Summary,
	}
	if result.ProductName == "" {
		result.ProductName = fallbackName
	}

	for _, rp := range raw.Prices {
		if strings.TrimSpace(rp.Retailer) == "" {
			continue
		}
		c := Candidate{
			Retailer: strings.TrimSpace(rp.Retailer),
			Price:    llm.CoerceInt(rp.Price),
			Currency: rp.Currency,
			URL:      rp.URL,
			Offers:   strings.TrimSpace(rp.Offers),
			InStock:  rp.InStock == nil || *rp.InStock,
		}
		// A candidate with neither a usable price nor offer text is noise.
		if c.Price <= 0 && c.Offers == "" {
			continue
		}
		result.Prices = append(result.Prices, c)
	}
	return result, nil
}

// normalize applies the deterministic post-processing pass: URL replacement,
// trust classification, sorting, best-price selection, and the
// source-retailer guarantee.
func (a *Aggregator) normalize(result *Result, rc region.Config, sourceRetailer, sourceURL string) {
	for i := range result.Prices {
		c := &result.Prices[i]
		if c.Currency == "" {
			c.Currency = rc.Currency
		}
		// Never trust a URL hallucinated by the generation step. The one
		// exception is the page the user actually came from.
		if sourceRetailer != "" && retailerMatch(c.Retailer, sourceRetailer) {
			c.URL = sourceURL
		} else {
			c.URL = region.SearchURL(c.Retailer, result.ProductName, rc)
		}
		c.Trusted = region.IsTrusted(c.Retailer, rc)
	}

	if sourceRetailer != "" && !containsRetailer(result.Prices, sourceRetailer) {
		// The user came from that exact page, so its presence is
		// guaranteed even when the price could not be confirmed.
		result.Prices = append(result.Prices, Candidate{
			Retailer: sourceRetailer,
			Price:    0,
			Currency: rc.Currency,
			URL:      sourceURL,
			Offers:   "Price available on retailer page",
			InStock:  true,
			Trusted:  true,
		})
	}

	SortCandidates(result.Prices)
	result.BestPrice = BestPrice(result.Prices)
}

// SortCandidates orders candidates trusted-first, then ascending by price.
// Candidates with no known price sort last within their trust tier. The sort
// is stable so equal candidates keep their input order.
func SortCandidates(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Trusted != cs[j].Trusted {
			return cs[i].Trusted
		}
		pi, pj := cs[i].Price, cs[j].Price
		if (pi > 0) != (pj > 0) {
			return pi > 0
		}
		if pi <= 0 && pj <= 0 {
			return false
		}
		return pi < pj
	})
}

// BestPrice returns the cheapest trusted candidate with a positive price,
// falling back to the cheapest positive-price candidate overall, or nil.
func BestPrice(cs []Candidate) *Candidate {
	var bestTrusted, bestAny *Candidate
	for i := range cs {
		c := &cs[i]
		if c.Price <= 0 {
			continue
		}
		if bestAny == nil || c.Price < bestAny.Price {
			bestAny = c
		}
		if c.Trusted && (bestTrusted == nil || c.Price < bestTrusted.Price) {
			bestTrusted = c
		}
	}
	if bestTrusted != nil {
		best := *bestTrusted
		return &best
	}
	if bestAny != nil {
		best := *bestAny
		return &best
	}
	return nil
}

func buildSearchPrompt(rc region.Config, sourceRetailer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are a price research assistant for %s e-commerce. Return ONLY valid JSON.

Your job: Find the current price of a product across major retailers in %s.

Return this exact JSON structure:
{
  "productName": "exact product name with variant/storage",
  "prices": [
    {
      "retailer": "retailer name",
      "price": 119900,
      "currency": %q,
      "url": "leave empty string, will be auto-generated",
      "offers": "any special offers, EMI, bank discounts",
      "inStock": true
    }
  ],
  "bestPrice": { same structure as above, the cheapest option },
  "summary": "1-2 sentence summary of pricing landscape"
}

Retailers to check individually (visit each site): %s.

Rules:
- Prices in %s (integer, no decimals)
- Only include retailers that actually sell this product
- Include any ongoing offers, bank discounts, EMI options in the "offers" field
- If a retailer doesn't have the product, don't include it
- Sort prices low to high`,
		rc.Name, rc.Name, rc.Currency, region.RetailerDomains(rc), rc.Currency)

	if sourceRetailer != "" {
		fmt.Fprintf(&b, "\n- The user is looking at this product on %s. You MUST include %s's current price in the results.", sourceRetailer, sourceRetailer)
	}
	return b.String()
}

// retailerMatch applies the same bidirectional fuzzy rule used for trust
// classification: retailer names come back from the web in inconsistent
// variants.
func retailerMatch(a, b string) bool {
	ka := strings.ToLower(strings.TrimSpace(a))
	kb := strings.ToLower(strings.TrimSpace(b))
	if ka == "" || kb == "" {
		return false
	}
	return ka == kb || strings.Contains(ka, kb) || strings.Contains(kb, ka)
}

func containsRetailer(cs []Candidate, retailer string) bool {
	for i := range cs {
		if retailerMatch(cs[i].Retailer, retailer) {
			return true
		}
	}
	return false
}

func hasPositivePrice(cs []Candidate) bool {
	for i := range cs {
		if cs[i].Price > 0 {
			return true
		}
	}
	return false
}

func snippet(s string) string {
	if len(s) > 300 {
		return s[:300]
	}
	return s
}
