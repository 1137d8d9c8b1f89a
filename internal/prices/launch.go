package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/savvit/savvit-server/internal/cache"
	"github.com/savvit/savvit-server/internal/llm"
)

// LaunchIntel summarizes upcoming-successor news for a product category.
type LaunchIntel struct {
	HasUpcomingLaunch bool     `json:"hasUpcomingLaunch"`
	Details           string   `json:"details"`
	ExpectedDate      string   `json:"expectedDate,omitempty"`
	Confidence        string   `json:"confidence"` // high, medium, low
	Citations         []string `json:"-"`
}

const launchSystemPrompt = `You are a tech product launch researcher. Return ONLY valid JSON.

Determine if a newer version/successor of the given product is expected to launch soon (within the next 3 months).

Return this exact JSON structure:
{
  "hasUpcomingLaunch": true,
  "details": "1-2 sentences on what's coming and when",
  "expectedDate": "approximate timeframe, e.g. 'September 2026'",
  "confidence": "high | medium | low"
}

Rules:
- Only report launches with credible reporting behind them, not pure speculation
- confidence "high" means officially announced, "medium" means consistent leaks, "low" means rumors
- If nothing credible is upcoming, set hasUpcomingLaunch to false and leave expectedDate empty`

// SearchLaunchIntel checks whether a successor to the product's category is
// launching soon. Results are cached per category; launch cycles do not vary
// by region. A nil result with nil error means no usable intel.
func (a *Aggregator) SearchLaunchIntel(ctx context.Context, productName, category string) (*LaunchIntel, error) {
	if category == "" {
		return nil, nil
	}

	cacheKey := cache.Key("launch", "GLOBAL", category)
	if cached, ok := cache.Get[LaunchIntel](a.store, cacheKey); ok {
		return &cached, nil
	}

	user := fmt.Sprintf("Is a successor to %q (%s category) expected to launch in the next 3 months? What do credible reports say?", productName, category)
	searched, err := a.searcher.Search(ctx, launchSystemPrompt, user)
	if err != nil {
		return nil, fmt.Errorf("launch intel search: %w", err)
	}

	obj, err := llm.ExtractJSONObject(searched.Text)
	if err != nil {
		a.logger.Warn("launch intel response had no JSON payload", "category", category)
		return nil, nil
	}

	var intel LaunchIntel
	if err := json.Unmarshal([]byte(obj), &intel); err != nil {
		a.logger.Warn("launch intel payload did not decode", "category", category, "error", err)
		return nil, nil
	}
	intel.Confidence = normalizeConfidence(intel.Confidence)
	intel.Citations = searched.Citations

	a.store.Set(cacheKey, intel, cache.TTLLaunchIntel)
	return &intel, nil
}

func normalizeConfidence(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return "high"
	case "medium":
		return "medium"
	default:
		return "low"
	}
}
