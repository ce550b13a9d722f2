package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/claimsight/claim-analyzer/constants"
	"github.com/claimsight/claim-analyzer/internal/common"
	"github.com/claimsight/claim-analyzer/internal/entity"
)

type AnalysisJobRepository interface {
	Start(ctx context.Context, sourcePath, filename, fileExt string) (*entity.AnalysisJob, error)
	MarkRunning(ctx context.Context, jobID uuid.UUID) error
	FinishOCR(ctx context.Context, jobID uuid.UUID, text, method string, pages int, confidence float32) error
	SetStatus(ctx context.Context, jobID uuid.UUID, status constants.JobStatus) error
	LinkClaim(ctx context.Context, jobID, claimID uuid.UUID) error
	Finish(ctx context.Context, jobID uuid.UUID, status constants.JobStatus) error
	FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error
	Get(ctx context.Context, jobID uuid.UUID) (*entity.AnalysisJob, error)
}

type analysisJobRepo struct {
	db  *DB
	log *slog.Logger
}

func NewAnalysisJobRepository(db *DB, log *slog.Logger) AnalysisJobRepository {
	return &analysisJobRepo{db: db, log: log}
}

func (r *analysisJobRepo) Start(ctx context.Context, sourcePath, filename, fileExt string) (*entity.AnalysisJob, error) {
	job := &entity.AnalysisJob{
		ID:         uuid.New(),
		SourcePath: sourcePath,
		Filename:   filename,
		FileExt:    fileExt,
		Status:     constants.JobStatusQueued,
		StartedAt:  time.Now().UTC(),
	}
	q := r.db.Rebind(`INSERT INTO analysis_jobs
		(id, source_path, filename, file_ext, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := r.db.SQL.ExecContext(ctx, q,
		job.ID.String(), job.SourcePath, job.Filename, job.FileExt, string(job.Status), job.StartedAt)
	if err != nil {
		r.log.Error("job.start.failed", "filename", filename, "error", err)
		return nil, common.WrapSentinel(common.ErrDatabase, "failed to create analysis job", err)
	}
	r.log.Info("job.start", "job_id", job.ID, "filename", filename)
	return job, nil
}

func (r *analysisJobRepo) MarkRunning(ctx context.Context, jobID uuid.UUID) error {
	return r.SetStatus(ctx, jobID, constants.JobStatusRunning)
}

func (r *analysisJobRepo) FinishOCR(ctx context.Context, jobID uuid.UUID, text, method string, pages int, confidence float32) error {
	q := r.db.Rebind(`UPDATE analysis_jobs
		SET status = ?, ocr_text = ?, ocr_method = ?, ocr_pages = ?, ocr_confidence = ?
		WHERE id = ?`)
	_, err := r.db.SQL.ExecContext(ctx, q,
		string(constants.JobStatusOCROK), text, method, pages, confidence, jobID.String())
	if err != nil {
		r.log.Error("job.finish_ocr.failed", "job_id", jobID, "error", err)
		return common.WrapSentinel(common.ErrDatabase, "failed to record OCR result", err)
	}
	return nil
}

func (r *analysisJobRepo) SetStatus(ctx context.Context, jobID uuid.UUID, status constants.JobStatus) error {
	q := r.db.Rebind(`UPDATE analysis_jobs SET status = ? WHERE id = ?`)
	if _, err := r.db.SQL.ExecContext(ctx, q, string(status), jobID.String()); err != nil {
		r.log.Error("job.set_status.failed", "job_id", jobID, "status", status, "error", err)
		return common.WrapSentinel(common.ErrDatabase, "failed to update job status", err)
	}
	return nil
}

func (r *analysisJobRepo) LinkClaim(ctx context.Context, jobID, claimID uuid.UUID) error {
	q := r.db.Rebind(`UPDATE analysis_jobs SET claim_id = ? WHERE id = ?`)
	if _, err := r.db.SQL.ExecContext(ctx, q, claimID.String(), jobID.String()); err != nil {
		r.log.Error("job.link_claim.failed", "job_id", jobID, "error", err)
		return common.WrapSentinel(common.ErrDatabase, "failed to link claim", err)
	}
	return nil
}

func (r *analysisJobRepo) Finish(ctx context.Context, jobID uuid.UUID, status constants.JobStatus) error {
	q := r.db.Rebind(`UPDATE analysis_jobs SET status = ?, finished_at = ? WHERE id = ?`)
	if _, err := r.db.SQL.ExecContext(ctx, q, string(status), time.Now().UTC(), jobID.String()); err != nil {
		r.log.Error("job.finish.failed", "job_id", jobID, "error", err)
		return common.WrapSentinel(common.ErrDatabase, "failed to finish job", err)
	}
	r.log.Info("job.finish", "job_id", jobID, "status", status)
	return nil
}

func (r *analysisJobRepo) FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error {
	q := r.db.Rebind(`UPDATE analysis_jobs
		SET status = ?, error_message = ?, finished_at = ? WHERE id = ?`)
	if _, err := r.db.SQL.ExecContext(ctx, q,
		string(constants.JobStatusFailed), message, time.Now().UTC(), jobID.String()); err != nil {
		r.log.Error("job.finish_failure.failed", "job_id", jobID, "error", err)
		return common.WrapSentinel(common.ErrDatabase, "failed to record job failure", err)
	}
	r.log.Warn("job.failed", "job_id", jobID, "message", message)
	return nil
}

func (r *analysisJobRepo) Get(ctx context.Context, jobID uuid.UUID) (*entity.AnalysisJob, error) {
	q := r.db.Rebind(`SELECT id, claim_id, source_path, filename, file_ext, status,
		started_at, finished_at, error_message, ocr_text, ocr_method, ocr_pages, ocr_confidence
		FROM analysis_jobs WHERE id = ?`)
	row := r.db.SQL.QueryRowContext(ctx, q, jobID.String())

	var (
		job      entity.AnalysisJob
		id       string
		claimID  sql.NullString
		status   string
		finished sql.NullTime
		errMsg   sql.NullString
		ocrText  sql.NullString
		ocrMeth  sql.NullString
		ocrPages sql.NullInt64
		ocrConf  sql.NullFloat64
	)
	err := row.Scan(&id, &claimID, &job.SourcePath, &job.Filename, &job.FileExt, &status,
		&job.StartedAt, &finished, &errMsg, &ocrText, &ocrMeth, &ocrPages, &ocrConf)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.WrapSentinel(common.ErrDatabase, "failed to load analysis job", err)
	}

	job.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, common.WrapSentinel(common.ErrDatabase, "malformed job id", err)
	}
	if claimID.Valid {
		cid, err := uuid.Parse(claimID.String)
		if err == nil {
			job.ClaimID = &cid
		}
	}
	job.Status = constants.JobStatus(status)
	if finished.Valid {
		job.FinishedAt = &finished.Time
	}
	if errMsg.Valid {
		job.ErrorMessage = &errMsg.String
	}
	if ocrText.Valid {
		job.OCRText = &ocrText.String
	}
	if ocrMeth.Valid {
		job.OCRMethod = &ocrMeth.String
	}
	if ocrPages.Valid {
		p := int(ocrPages.Int64)
		job.OCRPages = &p
	}
	if ocrConf.Valid {
		c := float32(ocrConf.Float64)
		job.OCRConfidence = &c
	}
	return &job, nil
}
