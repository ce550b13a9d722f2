package advice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claimsight/claim-analyzer/constants"
	"github.com/claimsight/claim-analyzer/internal/extract"
	"github.com/claimsight/claim-analyzer/internal/reputation"
)

// Provider defines the interface for generative recommendation backends.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Recommend generates advisory bullet items for an adjudicated claim
	Recommend(ctx context.Context, req RecommendRequest) ([]string, error)
}

// RecommendRequest contains the input for generative recommendations.
type RecommendRequest struct {
	Record  extract.FieldRecord
	Verdict constants.Verdict
	Stats   reputation.ProviderStats
}

// Config holds generative backend configuration.
type Config struct {
	// Provider name: "gemini", "openai", "" (disabled)
	Provider string

	// Model name (provider-specific)
	Model string

	GeminiKey string
	OpenAIKey string

	Temperature float32
	Timeout     time.Duration
}

// NewProvider builds the configured backend; ("", nil) means generative
// advice is disabled and callers fall back to the rule battery.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "gemini":
		return NewGeminiProvider(cfg)
	case "openai":
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown advice provider: %q", cfg.Provider)
	}
}

// BuildPrompt constructs the recommendation prompt from the adjudicated
// claim. The model sees only what the pipeline already derived.
func BuildPrompt(req RecommendRequest) string {
	fields := req.Record.Fields()
	return fmt.Sprintf(`You are an insurance claim assistant. Your job is to provide short, empathetic, and actionable recommendations to a user about their insurance claim.

Here is the data you have:

1. Extracted Claim Data:
   - Patient Age: %s
   - Insurance Provider: %s
   - Claim Amount: %s
   - Final Verification Status: %s

2. Live search result for the provider:
   - Snippet: %s

Based only on this information, generate 2-3 bullet points of helpful advice.

- Tone: helpful, empathetic, professional.
- Actionable: suggest what the user might do next (e.g., "follow up," "review your plan," "check for errors").
- Do not give financial or medical advice.
- Respond with only the bullet points, each starting with "- ".`,
		fields[constants.FieldPatientAge],
		fields[constants.FieldInsuranceProvider],
		fields[constants.FieldClaimAmount],
		req.Verdict,
		orDefault(req.Stats.Summary, "No info found."),
	)
}

// SplitBullets breaks a model response into discrete advisory items.
func SplitBullets(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "* ")
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
