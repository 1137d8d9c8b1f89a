// Package deals collects active discounts, coupons, and financing offers for
// a product. Deal lookups are strictly best-effort: a failure here degrades
// to an empty list instead of failing the caller's request.
package deals

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/savvit/savvit-server/internal/cache"
	"github.com/savvit/savvit-server/internal/llm"
	"github.com/savvit/savvit-server/internal/region"
)

// Deal is a single actionable offer.
type Deal struct {
	Type        string `json:"type"` // discount, coupon, bank-offer, exchange, financing, bundle
	Title       string `json:"title"`
	Description string `json:"description"`
	Code        string `json:"code,omitempty"`
	Retailer    string `json:"retailer,omitempty"`
	Discount    string `json:"discount,omitempty"`
	ValidUntil  string `json:"validUntil,omitempty"`
	Source      string `json:"source,omitempty"`
}

// Result is the deal landscape for a product.
type Result struct {
	Deals   []Deal `json:"deals"`
	Summary string `json:"summary"`
}

// Finder fetches deals for products.
type Finder struct {
	searcher llm.Searcher
	store    *cache.Store
	logger   *slog.Logger
}

// NewFinder creates a deal finder.
func NewFinder(searcher llm.Searcher, store *cache.Store, logger *slog.Logger) *Finder {
	return &Finder{
		searcher: searcher,
		store:    store,
		logger:   logger,
	}
}

// Find returns active deals for productName in a region. It only returns an
// error when the search itself fails; a response that cannot be decoded
// yields an empty result.
func (f *Finder) Find(ctx context.Context, productName string, rc region.Config) (Result, error) {
	cacheKey := cache.Key("deals", rc.Code, productName)
	if cached, ok := cache.Get[Result](f.store, cacheKey); ok {
		return cached, nil
	}

	system := buildDealsPrompt(rc)
	user := fmt.Sprintf("What deals, coupon codes, bank offers, or financing options are currently available for %q in %s?", productName, rc.Name)

	searched, err := f.searcher.Search(ctx, system, user)
	if err != nil {
		return Result{}, fmt.Errorf("deal search: %w", err)
	}

	result := f.parseResult(searched.Text)
	f.store.Set(cacheKey, result, cache.TTLDeals)
	return result, nil
}

type rawResult struct {
	Deals   []Deal `json:"deals"`
	Summary string `json:"summary"`
}

func (f *Finder) parseResult(text string) Result {
	obj, err := llm.ExtractJSONObject(text)
	if err != nil {
		f.logger.Warn("deal response had no JSON payload")
		return Result{Summary: "No verified deals found right now."}
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		f.logger.Warn("deal payload did not decode", "error", err)
		return Result{Summary: "No verified deals found right now."}
	}

	result := Result{Summary: strings.TrimSpace(raw.Summary)}
	for _, d := range raw.Deals {
		d.Title = strings.TrimSpace(d.Title)
		if d.Title == "" {
			continue
		}
		d.Type = normalizeType(d.Type)
		result.Deals = append(result.Deals, d)
	}
	if result.Summary == "" {
		if len(result.Deals) == 0 {
			result.Summary = "No verified deals found right now."
		} else {
			result.Summary = fmt.Sprintf("%d active deals found.", len(result.Deals))
		}
	}
	return result
}

var dealTypes = map[string]bool{
	"discount":   true,
	"coupon":     true,
	"bank-offer": true,
	"exchange":   true,
	"financing":  true,
	"bundle":     true,
}

func normalizeType(s string) string {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, " ", "-")
	key = strings.ReplaceAll(key, "_", "-")
	if dealTypes[key] {
		return key
	}
	return "discount"
}

func buildDealsPrompt(rc region.Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are a deal hunter for %s e-commerce. Return ONLY valid JSON.

Find currently active deals, coupon codes, bank offers and financing options for the given product.

Return this exact JSON structure:
{
  "deals": [
    {
      "type": "discount | coupon | bank-offer | exchange | financing | bundle",
      "title": "short deal headline",
      "description": "what the deal is and how to get it",
      "code": "coupon code if any",
      "retailer": "which retailer offers it",
      "discount": "amount or percentage off",
      "validUntil": "expiry if known",
      "source": "where you found it"
    }
  ],
  "summary": "1 sentence on the overall deal situation"
}

Retailers to check: %s.

Rules:
- Only report deals that are verifiably active right now
- Skip expired deals and generic marketing claims
- %s
- If there are no real deals, return an empty deals array`,
		rc.Name, region.RetailerDomains(rc), regionHint(rc.Code))
	return b.String()
}

// regionHint steers the search toward the deal mechanics that actually move
// prices in each market.
func regionHint(code string) string {
	switch code {
	case "IN":
		return "Check for No-Cost EMI, bank card instant discounts, and exchange bonuses; these dominate Indian pricing"
	case "US", "CA":
		return "Check for price-match policies, cashback portals, and carrier/activation deals"
	case "UK", "DE", "FR":
		return "Check for cashback sites, student discounts, and bundled warranty offers"
	case "JP":
		return "Check for point-reward campaigns (Rakuten points, Yodobashi points) and carrier bundles"
	case "AU":
		return "Check for club pricing, gift card promotions, and seasonal storewide codes"
	default:
		return "Check for cashback, coupon codes, and financing offers"
	}
}
