package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/savvit/savvit-server/internal/common"
)

const defaultPerplexityURL = "https://api.perplexity.ai/chat/completions"

// PerplexityClient implements Searcher against the Perplexity chat API with
// the sonar model family.
type PerplexityClient struct {
	httpClient  *http.Client
	rateLimiter *rateLimiter
	baseURL     string
	apiKey      string
	model       string
	temperature float64
}

// NewPerplexityClient creates a Perplexity search client.
func NewPerplexityClient(cfg Config) (*PerplexityClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("perplexity API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "sonar"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.1
	}

	return &PerplexityClient{
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: temperature,
		baseURL:     defaultPerplexityURL,
		rateLimiter: newRateLimiter(cfg.RateLimit),
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *PerplexityClient) SetBaseURL(u string) {
	c.baseURL = u
}

// perplexityResponse mirrors the subset of the chat completion payload we
// consume.
type perplexityResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations"`
	Images    []struct {
		ImageURL  string `json:"image_url"`
		OriginURL string `json:"origin_url"`
		Title     string `json:"title"`
	} `json:"images"`
}

// Search sends a system+user prompt pair and returns the text answer with
// citations and any image results.
func (c *PerplexityClient) Search(ctx context.Context, system, user string) (SearchResult, error) {
	if err := c.rateLimiter.wait(ctx); err != nil {
		return SearchResult{}, err
	}

	requestBody := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"temperature":   c.temperature,
		"return_images": true,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return SearchResult{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(string(jsonBody)))
	if err != nil {
		return SearchResult{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("%w: perplexity request failed: %v", common.ErrUpstreamUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return SearchResult{}, fmt.Errorf("%w: failed to read response: %v", common.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return SearchResult{}, fmt.Errorf("%w: perplexity", common.ErrRateLimit)
	}
	if resp.StatusCode != http.StatusOK {
		return SearchResult{}, fmt.Errorf("%w: perplexity API status %d: %s", common.ErrUpstreamUnavailable, resp.StatusCode, truncate(string(body), 300))
	}

	var response perplexityResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return SearchResult{}, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}

	if len(response.Choices) == 0 {
		return SearchResult{}, fmt.Errorf("%w: no choices in response", common.ErrMalformedResponse)
	}

	result := SearchResult{
		Text:      response.Choices[0].Message.Content,
		Citations: response.Citations,
	}
	for _, img := range response.Images {
		result.Images = append(result.Images, ImageCandidate{
			URL:       img.ImageURL,
			OriginURL: img.OriginURL,
			Title:     img.Title,
		})
	}
	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
