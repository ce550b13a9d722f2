package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/claimsight/claim-analyzer/constants"
	"github.com/claimsight/claim-analyzer/internal/entity"
	"github.com/claimsight/claim-analyzer/internal/repository"
)

// Processor coordinates OCR, decision and enrichment for one document.
type Processor struct {
	Logger *slog.Logger
	Jobs   repository.AnalysisJobRepository
	OCR    *OCRStage
	Decide *DecideStage
	Enrich *EnrichStage
}

func NewProcessor(logger *slog.Logger, jobs repository.AnalysisJobRepository, ocr *OCRStage, decide *DecideStage, enrich *EnrichStage) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Jobs: jobs, OCR: ocr, Decide: decide, Enrich: enrich}
}

// ProcessFile runs the full pipeline for a document on disk. Returns the job
// and, when the pipeline reached a decision, the persisted claim.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*entity.AnalysisJob, *entity.Claim, error) {
	filename := filepath.Base(path)
	ext := constants.NormalizeExt(filepath.Ext(path))

	job, err := p.Jobs.Start(ctx, path, filename, ext)
	if err != nil {
		return nil, nil, err
	}

	res, err := p.OCR.Run(ctx, job)
	if err != nil {
		p.Logger.Error("pipeline.ocr.failed", "job_id", job.ID, "error", err)
		return job, nil, err
	}

	claim, err := p.decideAndEnrich(ctx, job, res.Text)
	return job, claim, err
}

// ProcessText runs decision and enrichment on already-recognized text,
// skipping the OCR stage. Used by the API's raw-text analyze path.
func (p *Processor) ProcessText(ctx context.Context, name, text string) (*entity.AnalysisJob, *entity.Claim, error) {
	job, err := p.Jobs.Start(ctx, name, name, "txt")
	if err != nil {
		return nil, nil, err
	}
	if err := p.Jobs.MarkRunning(ctx, job.ID); err != nil {
		return job, nil, err
	}
	if err := p.Jobs.FinishOCR(ctx, job.ID, text, "raw-text", 1, 1.0); err != nil {
		return job, nil, err
	}

	claim, err := p.decideAndEnrich(ctx, job, text)
	return job, claim, err
}

func (p *Processor) decideAndEnrich(ctx context.Context, job *entity.AnalysisJob, text string) (*entity.Claim, error) {
	claim, err := p.Decide.Run(ctx, job, text)
	if err != nil {
		p.Logger.Error("pipeline.decide.failed", "job_id", job.ID, "error", err)
		return nil, err
	}
	if err := p.Enrich.Run(ctx, job, claim); err != nil {
		p.Logger.Error("pipeline.enrich.failed", "job_id", job.ID, "error", err)
		return claim, err
	}
	return claim, nil
}
