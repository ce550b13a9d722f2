package advice

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider over the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	cfg    Config
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(cfg Config) (*GeminiProvider, error) {
	if cfg.GeminiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiProvider{client: client, cfg: cfg}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Recommend generates advisory bullet items via Gemini.
func (p *GeminiProvider) Recommend(ctx context.Context, req RecommendRequest) ([]string, error) {
	timeout := p.cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	temp := p.cfg.Temperature
	resp, err := p.client.Models.GenerateContent(ctx, p.cfg.Model,
		genai.Text(BuildPrompt(req)),
		&genai.GenerateContentConfig{Temperature: genai.Ptr(temp)},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	items := SplitBullets(resp.Text())
	if len(items) == 0 {
		return nil, fmt.Errorf("gemini returned no advice")
	}
	return items, nil
}
