package advice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claimsight/claim-analyzer/constants"
	"github.com/claimsight/claim-analyzer/internal/extract"
	"github.com/claimsight/claim-analyzer/internal/reputation"
)

// Advisor produces the final advisory list: the generative backend when one
// is configured, the deterministic rule battery otherwise. Generative
// failures degrade to a single error-describing item and never propagate to
// the caller.
type Advisor struct {
	provider Provider // nil = rule-based only
	log      *slog.Logger
}

func NewAdvisor(provider Provider, logger *slog.Logger) *Advisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Advisor{provider: provider, log: logger}
}

// Recommend returns a non-empty advisory list for the adjudicated claim.
func (a *Advisor) Recommend(ctx context.Context, rec extract.FieldRecord, verdict constants.Verdict, stats reputation.ProviderStats) []string {
	if a.provider == nil {
		return Synthesize(rec, stats)
	}

	items, err := a.provider.Recommend(ctx, RecommendRequest{Record: rec, Verdict: verdict, Stats: stats})
	if err != nil {
		a.log.Error("advice.generative_failed", "provider", a.provider.Name(), "error", err)
		return []string{fmt.Sprintf("Error generating AI recommendations: %v", err)}
	}
	a.log.Info("advice.generative_ok", "provider", a.provider.Name(), "items", len(items))
	return items
}
