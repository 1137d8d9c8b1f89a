// Package llm provides clients for the external AI capabilities the pipeline
// consumes: web-augmented search and plain text generation. Both are fallible
// and rate-limited; callers own retries.
package llm

import (
	"context"
)

// ImageCandidate is an image returned alongside web search results.
type ImageCandidate struct {
	URL       string
	OriginURL string
	Title     string
}

// SearchResult is the raw output of a web search call.
type SearchResult struct {
	Text      string
	Citations []string
	Images    []ImageCandidate
}

// Searcher answers a prompt with live web data.
type Searcher interface {
	Search(ctx context.Context, system, user string) (SearchResult, error)
}

// Generator produces text from a prompt without web access.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds configuration shared by provider clients.
type Config struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	RateLimit   int
}
