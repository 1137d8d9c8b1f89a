// Package resolver turns an arbitrary retailer product URL into a canonical
// product-name string via an ordered chain of strategies. Each strategy is
// attempted in order; the first non-empty, length-valid name wins. Exhausting
// the chain is a user-facing input error, distinct from a backend failure.
package resolver

import (
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/savvit/savvit-server/internal/common"
	"github.com/savvit/savvit-server/internal/llm"
	"github.com/savvit/savvit-server/internal/region"
)

// Name length bounds for an acceptable resolution.
const (
	minNameLen = 4
	maxNameLen = 200
)

// browserUA keeps retailer edges from serving bot pages.
const browserUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

var urlPattern = regexp.MustCompile(`(?i)^https?://`)
var shortenerPattern = regexp.MustCompile(`(?i)^(amzn\.in|amzn\.to|bit\.ly|tinyurl\.com|fkrt\.it)/`)

// IsURL reports whether a query string is a retailer URL rather than a
// product name. Common shorteners count even without a scheme.
func IsURL(s string) bool {
	s = strings.TrimSpace(s)
	return urlPattern.MatchString(s) || shortenerPattern.MatchString(s)
}

// Resolver resolves product URLs to product names.
type Resolver struct {
	httpClient *http.Client
	generator  llm.Generator
	logger     *slog.Logger
}

// New creates a Resolver. generator may be nil, in which case the final LLM
// fallback is skipped.
func New(generator llm.Generator, logger *slog.Logger) *Resolver {
	return &Resolver{
		generator: generator,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SetHTTPClient overrides the HTTP client. Used by tests.
func (r *Resolver) SetHTTPClient(c *http.Client) {
	r.httpClient = c
}

// resolveState carries what earlier steps learned for later strategies.
type resolveState struct {
	originalURL string
	finalURL    string // after following redirects; falls back to originalURL
	body        string // page body, fetched at most once
	bodyFetched bool
}

// strategy attempts to produce a product name. ok is false when the strategy
// has nothing usable and the chain should continue.
type strategy struct {
	name string
	fn   func(ctx context.Context, st *resolveState) (string, bool)
}

// Resolve runs the strategy chain for rawURL. It returns
// common.ErrURLResolveFailed when every strategy is exhausted.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !urlPattern.MatchString(rawURL) {
		rawURL = "https://" + rawURL
	}

	st := &resolveState{originalURL: rawURL, finalURL: rawURL}

	// Redirect-follow is a pre-step: it refines the URL later strategies
	// see. Network failure here is non-fatal.
	r.followRedirects(ctx, st)

	chain := []strategy{
		{"slug", r.extractSlug},
		{"title", r.scrapeTitle},
		{"identifier", r.identifierFallback},
		{"llm", r.llmFallback},
	}

	for _, s := range chain {
		name, ok := s.fn(ctx, st)
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if len(name) < minNameLen || len(name) > maxNameLen {
			continue
		}
		r.logger.Debug("resolved product url",
			"strategy", s.name,
			"url", rawURL,
			"product", name)
		return name, nil
	}

	return "", common.NewUserError(
		"Could not determine the product from that link. Please enter the product name instead.",
		fmt.Errorf("%w: %s", common.ErrURLResolveFailed, rawURL))
}

// followRedirects issues a HEAD request (GET on failure) and records the
// final URL. Shortened and affiliate links usually land on a canonical
// product page whose path is worth parsing.
func (r *Resolver) followRedirects(ctx context.Context, st *resolveState) {
	for _, method := range []string{http.MethodHead, http.MethodGet} {
		req, err := http.NewRequestWithContext(ctx, method, st.originalURL, nil)
		if err != nil {
			return
		}
		req.Header.Set("User-Agent", browserUA)

		resp, err := r.httpClient.Do(req)
		if err != nil {
			continue
		}
		final := resp.Request.URL.String()
		if method == http.MethodGet && resp.StatusCode == http.StatusOK {
			body, readErr := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
			if readErr == nil {
				st.body = string(body)
				st.bodyFetched = true
			}
		}
		_ = resp.Body.Close()
		st.finalURL = final
		return
	}
}

// slugPatterns extract the human-readable product slug from known retailer
// URL shapes. Applied to the path of the (possibly redirected) URL.
var slugPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/([^/]+)/dp/[A-Z0-9]{10}`),        // Amazon
	regexp.MustCompile(`/([^/]+)/p/itm[0-9A-Za-z]+`),      // Flipkart
	regexp.MustCompile(`/site/([^/]+)/\d+\.p`),            // Best Buy
	regexp.MustCompile(`/ip/([^/]+)/`),                    // Walmart
	regexp.MustCompile(`/p/([^/]+)/-/`),                   // Target
	regexp.MustCompile(`/([^/]+)/p($|[/?])`),              // Flipkart without item id
}

func (r *Resolver) extractSlug(_ context.Context, st *resolveState) (string, bool) {
	u, err := url.Parse(st.finalURL)
	if err != nil {
		return "", false
	}
	path := u.Path

	for _, re := range slugPatterns {
		m := re.FindStringSubmatch(path)
		if m == nil {
			continue
		}
		slug := strings.TrimSpace(strings.ReplaceAll(m[1], "-", " "))
		if decoded, decErr := url.PathUnescape(slug); decErr == nil {
			slug = decoded
		}
		if len(slug) <= minNameLen || slug == "/" {
			continue
		}
		return slug, true
	}
	return "", false
}

// titleSuffixes are stripped from scraped page titles, in order.
var titleSuffixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*[-:|]\s*Buy Online.*$`),
	regexp.MustCompile(`(?i)\s*-\s*Amazon\.[a-z.]+$`),
	regexp.MustCompile(`(?i)\s*:\s*Amazon\.[a-z.]+:.*$`),
	regexp.MustCompile(`(?i)\s*\|\s*Flipkart\.com$`),
	regexp.MustCompile(`(?i)\s+at\s+Best Price.*$`),
	regexp.MustCompile(`(?i)\s*-\s*Best Buy$`),
	regexp.MustCompile(`(?i)\s*-\s*Walmart\.com$`),
	regexp.MustCompile(`(?i)\s*:\s*Target$`),
	regexp.MustCompile(`(?i)\s*\|\s*Croma.*$`),
	regexp.MustCompile(`(?i)\s*-\s*Reliance Digital$`),
	regexp.MustCompile(`(?i)\s*Online\s+at\s+.*$`),
}

var titlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

func (r *Resolver) scrapeTitle(ctx context.Context, st *resolveState) (string, bool) {
	if !st.bodyFetched {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, st.finalURL, nil)
		if err != nil {
			return "", false
		}
		req.Header.Set("User-Agent", browserUA)

		resp, err := r.httpClient.Do(req)
		if err != nil {
			return "", false
		}
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 512*1024))
		_ = resp.Body.Close()
		if readErr != nil || resp.StatusCode != http.StatusOK {
			return "", false
		}
		st.body = string(body)
		st.bodyFetched = true
	}

	m := titlePattern.FindStringSubmatch(st.body)
	if m == nil {
		return "", false
	}
	title := strings.TrimSpace(html.UnescapeString(m[1]))
	for _, re := range titleSuffixes {
		title = re.ReplaceAllString(title, "")
	}
	title = strings.TrimSpace(title)
	if len(title) < minNameLen || len(title) > maxNameLen {
		return "", false
	}
	return title, true
}

var (
	asinPathPattern = regexp.MustCompile(`/dp/([A-Z0-9]{10})(?:[/?]|$)`)
	flipkartItemPat = regexp.MustCompile(`/p/(itm[0-9A-Za-z]+)`)
)

// ExtractASIN pulls an Amazon ASIN out of a product URL, when one is present
// in the path or an asin query parameter.
func ExtractASIN(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	if m := asinPathPattern.FindStringSubmatch(u.Path); m != nil {
		return m[1], true
	}
	if asin := u.Query().Get("asin"); len(asin) == 10 && isAlnum(asin) {
		return strings.ToUpper(asin), true
	}
	return "", false
}

// identifierFallback emits a synthetic name from a product identifier. A
// downstream web search resolves it to the real product.
func (r *Resolver) identifierFallback(_ context.Context, st *resolveState) (string, bool) {
	retailer, _ := region.DetectRetailer(st.finalURL)
	if retailer == "" {
		retailer = "Product"
	}

	if asin, ok := ExtractASIN(st.finalURL); ok {
		return fmt.Sprintf("%s ASIN %s", retailer, asin), true
	}

	u, err := url.Parse(st.finalURL)
	if err != nil {
		return "", false
	}
	if m := flipkartItemPat.FindStringSubmatch(u.Path); m != nil {
		return fmt.Sprintf("%s item %s", retailer, m[1]), true
	}
	return "", false
}

// refusalMarkers reject LLM answers that are apologies rather than names.
var refusalMarkers = []string{"sorry", "i cannot", "i can't", "unable to", "not able to", "as an ai"}

func (r *Resolver) llmFallback(ctx context.Context, st *resolveState) (string, bool) {
	if r.generator == nil {
		return "", false
	}

	prompt := fmt.Sprintf(`You are a product identifier. Given a product URL, return ONLY the exact product name with key specs (brand, model, storage/size/color if relevant). Nothing else — no explanation, no markdown, no quotes. Just the product name.

Examples:
- "Apple iPhone 16 Pro 256GB Black Titanium"
- "Sony WH-1000XM5 Wireless Noise Cancelling Headphones Black"
- "Philips HD2582/90 830W 2-Slice Pop-Up Toaster"

What product is this? %s`, st.finalURL)

	name, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		r.logger.Warn("llm url fallback failed", "error", err)
		return "", false
	}
	name = strings.Trim(strings.TrimSpace(name), `"'`)
	lower := strings.ToLower(name)
	for _, marker := range refusalMarkers {
		if strings.Contains(lower, marker) {
			return "", false
		}
	}
	if len(name) < minNameLen || len(name) > maxNameLen {
		return "", false
	}
	return name, true
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
