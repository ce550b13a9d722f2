package pipeline

import (
	"context"
	"log/slog"

	"github.com/claimsight/claim-analyzer/constants"
	"github.com/claimsight/claim-analyzer/internal/entity"
	"github.com/claimsight/claim-analyzer/internal/extract"
	"github.com/claimsight/claim-analyzer/internal/reputation"
	"github.com/claimsight/claim-analyzer/internal/repository"
)

// ReputationLookup is the external provider-reputation collaborator.
type ReputationLookup interface {
	Lookup(ctx context.Context, providerName string) reputation.ProviderStats
}

// Recommender turns the decided record into advisory messages.
type Recommender interface {
	Recommend(ctx context.Context, rec extract.FieldRecord, verdict constants.Verdict, stats reputation.ProviderStats) []string
}

type EnrichStage struct {
	Jobs       repository.AnalysisJobRepository
	Claims     repository.ClaimRepository
	Reputation ReputationLookup
	Advisor    Recommender
	Logger     *slog.Logger
}

func NewEnrichStage(jobs repository.AnalysisJobRepository, claims repository.ClaimRepository, rep ReputationLookup, adv Recommender, logger *slog.Logger) *EnrichStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &EnrichStage{Jobs: jobs, Claims: claims, Reputation: rep, Advisor: adv, Logger: logger}
}

// Run looks up the provider's reputation and generates recommendations, then
// persists both on the claim. When the provider was never identified, both
// collaborators are skipped and a single explanatory message is stored.
func (s *EnrichStage) Run(ctx context.Context, job *entity.AnalysisJob, claim *entity.Claim) error {
	rec := claim.Record()

	var (
		stats *reputation.ProviderStats
		recos []string
	)
	if rec.InsuranceProvider != constants.NotFound {
		st := s.Reputation.Lookup(ctx, rec.InsuranceProvider)
		stats = &st
		recos = s.Advisor.Recommend(ctx, rec, claim.Verdict, st)
	} else {
		recos = []string{"Could not identify provider to generate recommendations."}
	}

	if err := s.Claims.UpdateEnrichment(ctx, claim.ID, stats, recos); err != nil {
		return err
	}
	claim.Reputation = stats
	claim.Recommendations = recos

	if err := s.Jobs.Finish(ctx, job.ID, constants.JobStatusEnriched); err != nil {
		return err
	}
	s.Logger.Info("pipeline.enrich.ok", "job_id", job.ID, "claim_id", claim.ID, "recommendations", len(recos))
	return nil
}
