// Package pipeline orchestrates a product search end to end: resolve the
// query to a product name, fan out to the price, deal, launch-intel, and
// price-history fetchers, look up static sale knowledge, and synthesize a
// purchase-timing verdict from the joined facts.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/savvit/savvit-server/internal/calendar"
	"github.com/savvit/savvit-server/internal/common"
	"github.com/savvit/savvit-server/internal/deals"
	"github.com/savvit/savvit-server/internal/history"
	"github.com/savvit/savvit-server/internal/images"
	"github.com/savvit/savvit-server/internal/llm"
	"github.com/savvit/savvit-server/internal/prices"
	"github.com/savvit/savvit-server/internal/region"
	"github.com/savvit/savvit-server/internal/resolver"
	"github.com/savvit/savvit-server/internal/verdict"
)

// minQueryLen is the shortest accepted product query.
const minQueryLen = 2

// Resolver names a product from a retailer URL.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (string, error)
}

// PriceSearcher fetches the price landscape for a product.
type PriceSearcher interface {
	Search(ctx context.Context, productName string, rc region.Config, sourceURL string) (prices.Result, error)
	SearchLaunchIntel(ctx context.Context, productName, category string) (*prices.LaunchIntel, error)
}

// DealFinder fetches active deals for a product.
type DealFinder interface {
	Find(ctx context.Context, productName string, rc region.Config) (deals.Result, error)
}

// VerdictEngine synthesizes the final recommendation.
type VerdictEngine interface {
	Generate(ctx context.Context, input verdict.Input) (verdict.Verdict, error)
}

// HistoryClient fetches historical price stats for an ASIN.
type HistoryClient interface {
	Lookup(ctx context.Context, asin, regionCode string) (*history.Stats, error)
}

// Pipeline wires the stages together.
type Pipeline struct {
	resolver Resolver
	prices   PriceSearcher
	deals    DealFinder
	verdicts VerdictEngine
	history  HistoryClient
	logger   *slog.Logger

	// saleWindow is how many months ahead a sale event still influences
	// the verdict. Product policy, injected so it stays visible.
	saleWindow int
	now        func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSaleWindow overrides the default upcoming-sale window in months.
func WithSaleWindow(months int) Option {
	return func(p *Pipeline) { p.saleWindow = months }
}

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a Pipeline. The history client may be nil when price history is
// not configured.
func New(res Resolver, ps PriceSearcher, df DealFinder, ve VerdictEngine, hc HistoryClient, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		resolver:   res,
		prices:     ps,
		deals:      df,
		verdicts:   ve,
		history:    hc,
		logger:     logger,
		saleWindow: calendar.DefaultSaleWindow,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SearchRequest is one product search.
type SearchRequest struct {
	Query     string `json:"query"`
	Region    string `json:"region,omitempty"`
	SourceURL string `json:"sourceUrl,omitempty"`
}

// NextSale is the upcoming sale event surfaced in a response.
type NextSale struct {
	Name     string `json:"name"`
	Month    int    `json:"month"`
	Discount string `json:"discount"`
}

// PriceHistory is the condensed historical view surfaced in a response.
type PriceHistory struct {
	AllTimeLow  int `json:"allTimeLow"`
	AllTimeHigh int `json:"allTimeHigh"`
	Avg90d      int `json:"avg90d"`
}

// Meta carries request diagnostics.
type Meta struct {
	LatencyMs int64 `json:"latencyMs"`
}

// SearchResponse is the full verdict payload.
type SearchResponse struct {
	Query        string               `json:"query"`
	Product      string               `json:"product"`
	Region       string               `json:"region"`
	Verdict      string               `json:"verdict"`
	Confidence   float64              `json:"confidence"`
	ShortReason  string               `json:"shortReason"`
	Reason       string               `json:"reason"`
	BestPrice    *prices.Candidate    `json:"bestPrice"`
	Prices       []prices.Candidate   `json:"prices"`
	ProAnalysis  verdict.ProAnalysis  `json:"proAnalysis"`
	LaunchIntel  *prices.LaunchIntel  `json:"launchIntel,omitempty"`
	NextSale     *NextSale            `json:"nextSale,omitempty"`
	Deals        []deals.Deal         `json:"deals,omitempty"`
	DealsSummary string               `json:"dealsSummary,omitempty"`
	PriceHistory *PriceHistory        `json:"priceHistory,omitempty"`
	ProductImage string               `json:"productImage,omitempty"`
	Citations    []string             `json:"citations"`
	Meta         Meta                 `json:"meta"`
}

// Search runs the whole pipeline for one request.
func (p *Pipeline) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	start := p.now()

	query := strings.TrimSpace(req.Query)
	if len(query) < minQueryLen {
		return nil, common.NewUserError(
			fmt.Sprintf("Query must be at least %d characters", minQueryLen),
			common.ErrQueryTooShort)
	}
	rc := region.Resolve(req.Region)

	sourceURL := strings.TrimSpace(req.SourceURL)
	productName := query
	if resolver.IsURL(query) {
		if sourceURL == "" {
			sourceURL = query
		}
		resolved, err := p.resolver.Resolve(ctx, query)
		if err != nil {
			return nil, err
		}
		p.logger.Info("resolved product url", "url", query, "product", resolved)
		productName = resolved
	}

	cycle := calendar.FindProductCycle(productName)
	category := "general"
	if cycle != nil {
		category = cycle.ProductLine
	}

	// The price search is load-bearing; deals, launch intel, and history
	// are best-effort and degrade to absence.
	var (
		priceResult prices.Result
		dealResult  deals.Result
		launchIntel *prices.LaunchIntel
		histStats   *history.Stats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		priceResult, err = p.prices.Search(gctx, productName, rc, sourceURL)
		return err
	})
	g.Go(func() error {
		result, err := p.deals.Find(gctx, productName, rc)
		if err != nil {
			p.logger.Warn("deal search failed", "product", productName, "error", err)
			return nil
		}
		dealResult = result
		return nil
	})
	g.Go(func() error {
		intel, err := p.prices.SearchLaunchIntel(gctx, productName, category)
		if err != nil {
			p.logger.Warn("launch intel search failed", "product", productName, "error", err)
			return nil
		}
		launchIntel = intel
		return nil
	})
	if p.history != nil && sourceURL != "" {
		if asin, ok := resolver.ExtractASIN(sourceURL); ok {
			g.Go(func() error {
				stats, err := p.history.Lookup(gctx, asin, rc.Code)
				if err != nil {
					p.logger.Warn("price history lookup failed", "asin", asin, "error", err)
					return nil
				}
				histStats = stats
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("searching prices for %q: %w", productName, err)
	}

	currentMonth := int(p.now().UTC().Month())
	nextSale := calendar.NextSaleEventWithin(currentMonth, rc.Code, p.saleWindow)

	v, err := p.verdicts.Generate(ctx, p.buildVerdictInput(priceResult, rc, histStats, launchIntel, nextSale, cycle, dealResult))
	if err != nil {
		return nil, fmt.Errorf("generating verdict for %q: %w", priceResult.ProductName, err)
	}

	resp := &SearchResponse{
		Query:        query,
		Product:      priceResult.ProductName,
		Region:       rc.Code,
		Verdict:      v.Decision,
		Confidence:   v.Confidence,
		ShortReason:  v.ShortReason,
		Reason:       v.Reason,
		BestPrice:    priceResult.BestPrice,
		Prices:       priceResult.Prices,
		ProAnalysis:  v.ProAnalysis,
		Deals:        dealResult.Deals,
		DealsSummary: dealResult.Summary,
		Citations:    mergeCitations(priceResult.Citations, launchIntel),
		Meta:         Meta{LatencyMs: p.now().Sub(start).Milliseconds()},
	}
	if launchIntel != nil && launchIntel.HasUpcomingLaunch {
		resp.LaunchIntel = launchIntel
	}
	if nextSale != nil {
		resp.NextSale = &NextSale{
			Name:     nextSale.Name,
			Month:    nextSale.TypicalMonth,
			Discount: nextSale.AvgDiscount,
		}
	}
	if histStats != nil {
		resp.PriceHistory = &PriceHistory{
			AllTimeLow:  histStats.AllTimeLow,
			AllTimeHigh: histStats.AllTimeHigh,
			Avg90d:      histStats.Avg90d,
		}
	}
	if url, ok := images.Pick(imageCandidates(priceResult.Images)); ok {
		resp.ProductImage = url
	}
	return resp, nil
}

func (p *Pipeline) buildVerdictInput(pr prices.Result, rc region.Config, hist *history.Stats, intel *prices.LaunchIntel, nextSale *calendar.SaleEvent, cycle *calendar.ProductCycle, dr deals.Result) verdict.Input {
	input := verdict.Input{
		ProductName:  pr.ProductName,
		Region:       rc,
		NextSale:     nextSale,
		ProductCycle: cycle,
	}
	for _, c := range pr.Prices {
		input.Prices = append(input.Prices, verdict.PricePoint{
			Retailer: c.Retailer,
			Price:    c.Price,
			Offers:   c.Offers,
		})
	}
	if pr.BestPrice != nil {
		input.BestPrice = &verdict.PricePoint{
			Retailer: pr.BestPrice.Retailer,
			Price:    pr.BestPrice.Price,
		}
	}
	if hist != nil {
		current := hist.CurrentPrice
		if pr.BestPrice != nil {
			current = pr.BestPrice.Price
		}
		input.History = &verdict.History{
			AllTimeLow:   hist.AllTimeLow,
			AllTimeHigh:  hist.AllTimeHigh,
			Avg90d:       hist.Avg90d,
			Avg180d:      hist.Avg180d,
			CurrentVsAvg: history.TrendVsAverage(current, hist.Avg90d),
		}
	}
	if intel != nil && intel.HasUpcomingLaunch {
		input.LaunchIntel = &verdict.LaunchIntel{
			Details:      intel.Details,
			ExpectedDate: intel.ExpectedDate,
			Confidence:   intel.Confidence,
		}
	}
	if len(dr.Deals) > 0 {
		input.DealsSummary = dr.Summary
	}
	return input
}

// mergeCitations combines the price search's sources with the launch intel's,
// price sources first, duplicates removed. Never nil.
func mergeCitations(priceCitations []string, intel *prices.LaunchIntel) []string {
	merged := make([]string, 0, len(priceCitations))
	seen := make(map[string]bool)
	add := func(urls []string) {
		for _, u := range urls {
			if u == "" || seen[u] {
				continue
			}
			seen[u] = true
			merged = append(merged, u)
		}
	}
	add(priceCitations)
	if intel != nil {
		add(intel.Citations)
	}
	return merged
}

func imageCandidates(in []llm.ImageCandidate) []images.Candidate {
	out := make([]images.Candidate, 0, len(in))
	for _, img := range in {
		out = append(out, images.Candidate{
			URL:       img.URL,
			OriginURL: img.OriginURL,
			Title:     img.Title,
		})
	}
	return out
}
