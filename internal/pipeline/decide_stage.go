package pipeline

import (
	"context"
	"log/slog"

	"github.com/claimsight/claim-analyzer/constants"
	"github.com/claimsight/claim-analyzer/internal/entity"
	"github.com/claimsight/claim-analyzer/internal/extract"
	"github.com/claimsight/claim-analyzer/internal/repository"
	"github.com/claimsight/claim-analyzer/internal/verify"
)

type DecideStage struct {
	Jobs      repository.AnalysisJobRepository
	Claims    repository.ClaimRepository
	Extractor *extract.Extractor
	Engine    *verify.Engine
	Logger    *slog.Logger
}

func NewDecideStage(jobs repository.AnalysisJobRepository, claims repository.ClaimRepository, ex *extract.Extractor, en *verify.Engine, logger *slog.Logger) *DecideStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &DecideStage{Jobs: jobs, Claims: claims, Extractor: ex, Engine: en, Logger: logger}
}

// Run extracts fields from the recognized text, derives the verdict and
// persists the claim. The job advances to DECIDED even for Error and
// Manual Review verdicts; only infrastructure failures fail the job.
func (s *DecideStage) Run(ctx context.Context, job *entity.AnalysisJob, text string) (*entity.Claim, error) {
	rec, err := s.Extractor.Extract(ctx, text)
	if err != nil {
		_ = s.Jobs.FinishFailure(ctx, job.ID, err.Error())
		return nil, err
	}

	var (
		verdict constants.Verdict
		checks  []verify.CheckResult
	)
	if rec.Err != "" {
		// recognition model unavailable; terminal error verdict, no checks run
		verdict = constants.VerdictError
		checks = []verify.CheckResult{{Status: constants.CheckFail, Message: rec.Err}}
	} else {
		verdict, checks = s.Engine.Verify(rec)
	}

	claim := &entity.Claim{
		JobID:             job.ID,
		Filename:          job.Filename,
		PatientName:       rec.PatientName,
		PolicyNumber:      rec.PolicyNumber,
		ClaimAmount:       rec.ClaimAmount,
		DateOfService:     rec.DateOfService,
		InsuranceProvider: rec.InsuranceProvider,
		PatientAge:        rec.PatientAge,
		Verdict:           verdict,
		Checks:            checks,
	}
	if err := s.Claims.Create(ctx, claim); err != nil {
		_ = s.Jobs.FinishFailure(ctx, job.ID, err.Error())
		return nil, err
	}
	if err := s.Jobs.LinkClaim(ctx, job.ID, claim.ID); err != nil {
		return claim, err
	}
	if err := s.Jobs.SetStatus(ctx, job.ID, constants.JobStatusDecided); err != nil {
		return claim, err
	}
	s.Logger.Info("pipeline.decide.ok", "job_id", job.ID, "claim_id", claim.ID, "verdict", verdict)
	return claim, nil
}
