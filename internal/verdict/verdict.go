// Package verdict turns the aggregated facts about a product into a single
// purchase-timing recommendation: buy now, wait, or don't buy.
package verdict

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/savvit/savvit-server/internal/cache"
	"github.com/savvit/savvit-server/internal/calendar"
	"github.com/savvit/savvit-server/internal/common"
	"github.com/savvit/savvit-server/internal/llm"
	"github.com/savvit/savvit-server/internal/region"
)

// Decision values. Anything the model returns outside this set is coerced to
// DecisionWait; wrong "wait" advice costs the user far less than wrong "buy".
const (
	DecisionBuyNow  = "BUY_NOW"
	DecisionWait    = "WAIT"
	DecisionDontBuy = "DONT_BUY"
)

// PricePoint is one retailer price fed into the verdict.
type PricePoint struct {
	Retailer string
	Price    int
	Offers   string
}

// History summarizes historical pricing for the product, when available.
type History struct {
	AllTimeLow   int
	AllTimeHigh  int
	Avg90d       int
	Avg180d      int
	CurrentVsAvg string // above, below, at
}

// LaunchIntel summarizes successor-launch expectations, when available.
type LaunchIntel struct {
	Details      string
	ExpectedDate string
	Confidence   string
}

// Input carries everything the verdict engine reasons over.
type Input struct {
	ProductName  string
	Region       region.Config
	Prices       []PricePoint
	BestPrice    *PricePoint
	History      *History
	LaunchIntel  *LaunchIntel
	NextSale     *calendar.SaleEvent
	ProductCycle *calendar.ProductCycle
	DealsSummary string
}

// ProAnalysis is the detailed breakdown attached to a verdict.
type ProAnalysis struct {
	BestCurrentDeal  string `json:"bestCurrentDeal"`
	WaitReason       string `json:"waitReason,omitempty"`
	EstimatedSavings string `json:"estimatedSavings,omitempty"`
	BestTimeToBuy    string `json:"bestTimeToBuy,omitempty"`
	LaunchAlert      string `json:"launchAlert,omitempty"`
}

// Verdict is the final recommendation.
type Verdict struct {
	Decision    string      `json:"verdict"`
	Confidence  float64     `json:"confidence"`
	Reason      string      `json:"reason"`
	ShortReason string      `json:"shortReason"`
	ProAnalysis ProAnalysis `json:"proAnalysis"`
}

// Engine generates verdicts through a text-generation model.
type Engine struct {
	generator llm.Generator
	store     *cache.Store
	logger    *slog.Logger
}

// NewEngine creates a verdict engine.
func NewEngine(generator llm.Generator, store *cache.Store, logger *slog.Logger) *Engine {
	return &Engine{
		generator: generator,
		store:     store,
		logger:    logger,
	}
}

// Generate produces a verdict for the input. Verdicts are cached per product
// and region; the underlying facts move slower than prices do.
func (e *Engine) Generate(ctx context.Context, input Input) (Verdict, error) {
	cacheKey := cache.Key("verdict", input.Region.Code, input.ProductName)
	if cached, ok := cache.Get[Verdict](e.store, cacheKey); ok {
		e.logger.Debug("verdict cache hit", "key", cacheKey)
		return cached, nil
	}

	raw, err := e.generator.Generate(ctx, BuildPrompt(input))
	if err != nil {
		return Verdict{}, fmt.Errorf("verdict generation: %w", err)
	}

	v, err := parseVerdict(raw)
	if err != nil {
		e.logger.Error("verdict response was unparseable", "product", input.ProductName)
		return Verdict{}, err
	}

	e.store.Set(cacheKey, v, cache.TTLVerdict)
	return v, nil
}

// rawVerdict tolerates the loose typing of model output.
type rawVerdict struct {
	Verdict     string      `json:"verdict"`
	Confidence  any         `json:"confidence"`
	Reason      string      `json:"reason"`
	ShortReason string      `json:"shortReason"`
	ProAnalysis ProAnalysis `json:"proAnalysis"`
}

func parseVerdict(text string) (Verdict, error) {
	obj, err := llm.ExtractJSONObject(text)
	if err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}

	var raw rawVerdict
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	if strings.TrimSpace(raw.Reason) == "" {
		return Verdict{}, fmt.Errorf("%w: verdict payload missing reason", common.ErrMalformedResponse)
	}

	return Verdict{
		Decision:    NormalizeDecision(raw.Verdict),
		Confidence:  clampConfidence(llm.CoerceFloat(raw.Confidence)),
		Reason:      strings.TrimSpace(raw.Reason),
		ShortReason: strings.TrimSpace(raw.ShortReason),
		ProAnalysis: raw.ProAnalysis,
	}, nil
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// NormalizeDecision maps model output variants onto the canonical decision
// set. Unknown values become WAIT.
func NormalizeDecision(s string) string {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	switch key {
	case DecisionBuyNow, "BUY":
		return DecisionBuyNow
	case DecisionDontBuy, "DONT_BUY_NOW", "SKIP", "DON'T_BUY":
		return DecisionDontBuy
	default:
		return DecisionWait
	}
}

// BuildPrompt renders the verdict prompt. The layout is deterministic for a
// given input so identical inputs hit the same cached completions upstream.
func BuildPrompt(input Input) string {
	rc := input.Region
	var b strings.Builder

	fmt.Fprintf(&b, "You are Savvit, an AI purchase timing advisor. Analyze the data below and decide: should the user BUY NOW, WAIT, or DONT BUY this product?\n\n")
	fmt.Fprintf(&b, "PRODUCT: %s\nMARKET: %s (prices in %s)\n\nCURRENT PRICES:\n", input.ProductName, rc.Name, rc.Currency)

	for _, p := range input.Prices {
		if p.Price > 0 {
			fmt.Fprintf(&b, "- %s: %s", p.Retailer, region.FormatPrice(p.Price, rc))
		} else {
			fmt.Fprintf(&b, "- %s: price unconfirmed", p.Retailer)
		}
		if p.Offers != "" {
			fmt.Fprintf(&b, " (%s)", p.Offers)
		}
		b.WriteByte('\n')
	}

	if input.BestPrice != nil {
		fmt.Fprintf(&b, "\nBEST PRICE: %s on %s\n", region.FormatPrice(input.BestPrice.Price, rc), input.BestPrice.Retailer)
	} else {
		b.WriteString("\nBEST PRICE: Unknown\n")
	}

	if h := input.History; h != nil {
		fmt.Fprintf(&b, "\nPRICE HISTORY:\n- All-time low: %s\n- All-time high: %s\n- 90-day average: %s\n- 180-day average: %s\n- Current vs average: %s\n",
			region.FormatPrice(h.AllTimeLow, rc), region.FormatPrice(h.AllTimeHigh, rc),
			region.FormatPrice(h.Avg90d, rc), region.FormatPrice(h.Avg180d, rc), h.CurrentVsAvg)
	} else {
		b.WriteString("\nPRICE HISTORY: Not available yet\n")
	}

	if li := input.LaunchIntel; li != nil {
		fmt.Fprintf(&b, "\nLAUNCH INTEL:\n- %s\n- Expected: %s\n- Confidence: %s\n",
			li.Details, orUnknown(li.ExpectedDate), li.Confidence)
	} else {
		b.WriteString("\nLAUNCH INTEL: No upcoming replacement model detected\n")
	}

	if ev := input.NextSale; ev != nil {
		fmt.Fprintf(&b, "\nNEXT SALE EVENT:\n- %s (%s) in %s\n- Historical discount: %s\n",
			ev.Name, ev.Retailer, monthName(ev.TypicalMonth), ev.AvgDiscount)
	} else {
		b.WriteString("\nNEXT SALE: No major sale event coming up\n")
	}

	if pc := input.ProductCycle; pc != nil {
		fmt.Fprintf(&b, "\nPRODUCT CYCLE:\n- %s %s typically launches in %s; prices of outgoing models drop %s after\n",
			pc.Brand, pc.ProductLine, monthName(pc.TypicalLaunchMonth), pc.PriceDropAfterNew)
	}

	if input.DealsSummary != "" {
		fmt.Fprintf(&b, "\nACTIVE DEALS: %s\n", input.DealsSummary)
	}

	fmt.Fprintf(&b, `
Return ONLY valid JSON:
{
  "verdict": "BUY_NOW" | "WAIT" | "DONT_BUY",
  "confidence": 0.0 to 1.0,
  "reason": "2-3 sentence explanation for the user",
  "proAnalysis": {
    "bestCurrentDeal": "Where to buy right now and why",
    "waitReason": "Why waiting is smarter (or null if BUY_NOW)",
    "estimatedSavings": "How much they could save by waiting (e.g. '%s8,000-12,000') or null",
    "bestTimeToBuy": "When to buy for best price (e.g. 'October during a major sale') or null",
    "launchAlert": "Info about upcoming new model (or null)"
  },
  "shortReason": "One concise line (max 60 chars) for the verdict badge"
}

DECISION RULES:
- BUY_NOW: Price is at/near historical low, no major sale coming within 30 days, no new model within 60 days
- WAIT: Major sale coming within 60 days, OR new model launching within 90 days, OR price is significantly above average
- DONT_BUY: Price is at historical high, OR new model launching very soon (<30 days), OR clear price gouging
- When unsure, lean WAIT — it's safer advice
- Be specific with savings estimates and dates
- shortReason should be punchy: "Near all-time low" or "New model in 5 weeks" or "Price spike — avoid"`,
		rc.CurrencySymbol)

	return b.String()
}

var monthNames = [...]string{"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

func monthName(m int) string {
	if m < 1 || m > 12 {
		return "an unknown month"
	}
	return monthNames[m-1]
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
