package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claimsight/claim-analyzer/constants"
	"github.com/claimsight/claim-analyzer/internal/entity"
	"github.com/claimsight/claim-analyzer/internal/ocr"
	"github.com/claimsight/claim-analyzer/internal/repository"
)

// TextExtractor is stage 1: file -> text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (ocr.ExtractionResult, error)
}

type OCRStage struct {
	Jobs      repository.AnalysisJobRepository
	Extractor TextExtractor
	Logger    *slog.Logger
}

func NewOCRStage(jobs repository.AnalysisJobRepository, tx TextExtractor, logger *slog.Logger) *OCRStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRStage{Jobs: jobs, Extractor: tx, Logger: logger}
}

// Run marks the job RUNNING, extracts text from its source file and persists
// the OCR outcome. On success the job is left in OCR_OK.
func (s *OCRStage) Run(ctx context.Context, job *entity.AnalysisJob) (ocr.ExtractionResult, error) {
	format := constants.MapExtToFormat(job.FileExt)
	if format == "" {
		msg := fmt.Sprintf("unsupported format: %s", job.FileExt)
		_ = s.Jobs.FinishFailure(ctx, job.ID, msg)
		return ocr.ExtractionResult{}, fmt.Errorf("%s", msg)
	}

	if err := s.Jobs.MarkRunning(ctx, job.ID); err != nil {
		return ocr.ExtractionResult{}, err
	}

	res, err := s.Extractor.Extract(ctx, job.SourcePath)
	if err != nil {
		_ = s.Jobs.FinishFailure(ctx, job.ID, err.Error())
		return res, err
	}

	if format == constants.IMAGE && res.Confidence > 0 && res.Confidence < ocr.ImageConfidenceThreshold {
		s.Logger.Warn("pipeline.ocr.low_confidence",
			"job_id", job.ID, "confidence", res.Confidence)
	}

	if err := s.Jobs.FinishOCR(ctx, job.ID, res.Text, res.Method, res.Pages, res.Confidence); err != nil {
		return res, err
	}
	s.Logger.Info("pipeline.ocr.ok",
		"job_id", job.ID, "method", res.Method, "pages", res.Pages, "confidence", res.Confidence)
	return res, nil
}
