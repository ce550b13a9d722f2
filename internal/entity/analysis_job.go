package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/claimsight/claim-analyzer/constants"
)

// AnalysisJob represents one run of the analysis pipeline for data transfer
// between layers.
type AnalysisJob struct {
	ID           uuid.UUID           `json:"id"`
	ClaimID      *uuid.UUID          `json:"claim_id,omitempty"`
	SourcePath   string              `json:"source_path"`
	Filename     string              `json:"filename"`
	FileExt      string              `json:"file_ext"`
	Status       constants.JobStatus `json:"status"`
	StartedAt    time.Time           `json:"started_at"`
	FinishedAt   *time.Time          `json:"finished_at,omitempty"`
	ErrorMessage *string             `json:"error_message,omitempty"`

	OCRText       *string  `json:"ocr_text,omitempty"`
	OCRMethod     *string  `json:"ocr_method,omitempty"`
	OCRPages      *int     `json:"ocr_pages,omitempty"`
	OCRConfidence *float32 `json:"ocr_confidence,omitempty"`
}
