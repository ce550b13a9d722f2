package reputation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.googleapis.com/customsearch/v1"

// Config holds Google Custom Search configuration.
type Config struct {
	APIKey         string
	SearchEngineID string
	BaseURL        string // override for tests; defaults to the Google endpoint
	Timeout        time.Duration
	CacheTTL       time.Duration
	RatePerMinute  int
}

// Client checks the live Custom Search API for provider reviews or news.
// Single attempt per lookup, no retries; every failure mode is folded into
// an error-status payload rather than an error return, so callers always
// hold a well-formed ProviderStats.
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      Cache
	log        *slog.Logger
}

func NewClient(cfg Config, cache Cache, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 6 * time.Hour
	}
	if cfg.RatePerMinute <= 0 {
		cfg.RatePerMinute = 30
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), cfg.RatePerMinute),
		cache:      cache,
		log:        logger,
	}
}

type searchResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Snippet     string `json:"snippet"`
		DisplayLink string `json:"displayLink"`
	} `json:"items"`
}

// Lookup queries `<provider> customer reviews` and folds the top result into
// a ProviderStats payload.
func (c *Client) Lookup(ctx context.Context, provider string) ProviderStats {
	if c.cfg.APIKey == "" || c.cfg.SearchEngineID == "" {
		c.log.Warn("reputation.unconfigured")
		return ProviderStats{
			Status:  StatusError,
			Summary: "Google Search API keys not configured.",
		}
	}

	key := CacheKey(provider)
	if c.cache != nil {
		if b, ok := c.cache.Get(ctx, key); ok {
			var stats ProviderStats
			if err := json.Unmarshal(b, &stats); err == nil {
				c.log.Debug("reputation.cache_hit", "provider", provider)
				return stats
			}
		}
	}

	stats := c.search(ctx, provider)

	// Error payloads are not cached; a transient outage should not stick
	// for the whole TTL.
	if c.cache != nil && stats.Status != StatusError {
		if b, err := json.Marshal(stats); err == nil {
			c.cache.Set(ctx, key, b, c.cfg.CacheTTL)
		}
	}
	return stats
}

func (c *Client) search(ctx context.Context, provider string) ProviderStats {
	start := time.Now()
	query := provider + " customer reviews"

	if err := c.limiter.Wait(ctx); err != nil {
		return ProviderStats{Status: StatusError, Summary: "Reputation lookup cancelled."}
	}

	params := url.Values{}
	params.Set("key", c.cfg.APIKey)
	params.Set("cx", c.cfg.SearchEngineID)
	params.Set("q", query)
	params.Set("num", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return ProviderStats{Status: StatusError, Summary: "An unknown error occurred during Google Search."}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("reputation.http_error", "provider", provider, "error", err)
		return ProviderStats{Status: StatusError, Summary: "An unknown error occurred during Google Search."}
	}
	defer func(Body io.ReadCloser) {
		if cerr := Body.Close(); cerr != nil {
			c.log.Warn("reputation response body close error", "error", cerr)
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error("reputation.bad_status", "provider", provider, "status", resp.StatusCode)
		return ProviderStats{
			Status:  StatusError,
			Summary: fmt.Sprintf("Could not connect to Google Search (HTTP Error: %d).", resp.StatusCode),
		}
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return ProviderStats{Status: StatusError, Summary: "An unknown error occurred during Google Search."}
	}

	c.log.Info("reputation.lookup.ok",
		"provider", provider,
		"results", len(sr.Items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if len(sr.Items) == 0 {
		return ProviderStats{
			Status:  StatusInfo,
			Summary: fmt.Sprintf("No search results found for '%s'.", query),
			Details: "This may mean the provider is not widely discussed.",
		}
	}

	top := sr.Items[0]
	summary := top.Snippet
	if summary == "" {
		summary = "No snippet available."
	}
	return ProviderStats{
		Status:  StatusInfo,
		Summary: summary,
		Details: fmt.Sprintf("Source: %s | Title: %s", orNA(top.DisplayLink), orNA(top.Title)),
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
