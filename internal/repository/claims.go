package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/claimsight/claim-analyzer/constants"
	"github.com/claimsight/claim-analyzer/internal/common"
	"github.com/claimsight/claim-analyzer/internal/entity"
	"github.com/claimsight/claim-analyzer/internal/reputation"
)

type ClaimRepository interface {
	Create(ctx context.Context, claim *entity.Claim) error
	UpdateEnrichment(ctx context.Context, claimID uuid.UUID, stats *reputation.ProviderStats, recommendations []string) error
	Get(ctx context.Context, claimID uuid.UUID) (*entity.Claim, error)
	GetByJob(ctx context.Context, jobID uuid.UUID) (*entity.Claim, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Claim, error)
}

type claimRepo struct {
	db  *DB
	log *slog.Logger
}

func NewClaimRepository(db *DB, log *slog.Logger) ClaimRepository {
	return &claimRepo{db: db, log: log}
}

func (r *claimRepo) Create(ctx context.Context, claim *entity.Claim) error {
	if claim.ID == uuid.Nil {
		claim.ID = uuid.New()
	}
	now := time.Now().UTC()
	claim.CreatedAt = now
	claim.UpdatedAt = now

	checksJSON, err := json.Marshal(claim.Checks)
	if err != nil {
		return common.WrapSentinel(common.ErrInternal, "failed to encode checks", err)
	}

	q := r.db.Rebind(`INSERT INTO claims
		(id, job_id, filename, patient_name, policy_number, claim_amount,
		 date_of_service, insurance_provider, patient_age, verdict, checks_json,
		 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = r.db.SQL.ExecContext(ctx, q,
		claim.ID.String(), claim.JobID.String(), claim.Filename,
		claim.PatientName, claim.PolicyNumber, claim.ClaimAmount,
		claim.DateOfService, claim.InsuranceProvider, claim.PatientAge,
		string(claim.Verdict), string(checksJSON), claim.CreatedAt, claim.UpdatedAt)
	if err != nil {
		r.log.Error("claim.create.failed", "job_id", claim.JobID, "error", err)
		return common.WrapSentinel(common.ErrDatabase, "failed to store claim", err)
	}
	r.log.Info("claim.create", "claim_id", claim.ID, "verdict", claim.Verdict)
	return nil
}

func (r *claimRepo) UpdateEnrichment(ctx context.Context, claimID uuid.UUID, stats *reputation.ProviderStats, recommendations []string) error {
	var repJSON any
	if stats != nil {
		b, err := json.Marshal(stats)
		if err != nil {
			return common.WrapSentinel(common.ErrInternal, "failed to encode reputation", err)
		}
		repJSON = string(b)
	}
	recJSON, err := json.Marshal(recommendations)
	if err != nil {
		return common.WrapSentinel(common.ErrInternal, "failed to encode recommendations", err)
	}

	q := r.db.Rebind(`UPDATE claims
		SET reputation_json = ?, recommendations_json = ?, updated_at = ?
		WHERE id = ?`)
	_, err = r.db.SQL.ExecContext(ctx, q, repJSON, string(recJSON), time.Now().UTC(), claimID.String())
	if err != nil {
		r.log.Error("claim.enrich.failed", "claim_id", claimID, "error", err)
		return common.WrapSentinel(common.ErrDatabase, "failed to store enrichment", err)
	}
	return nil
}

const claimColumns = `id, job_id, filename, patient_name, policy_number, claim_amount,
	date_of_service, insurance_provider, patient_age, verdict, checks_json,
	reputation_json, recommendations_json, created_at, updated_at`

func (r *claimRepo) Get(ctx context.Context, claimID uuid.UUID) (*entity.Claim, error) {
	q := r.db.Rebind(`SELECT ` + claimColumns + ` FROM claims WHERE id = ?`)
	return r.scanOne(r.db.SQL.QueryRowContext(ctx, q, claimID.String()))
}

func (r *claimRepo) GetByJob(ctx context.Context, jobID uuid.UUID) (*entity.Claim, error) {
	q := r.db.Rebind(`SELECT ` + claimColumns + ` FROM claims WHERE job_id = ?`)
	return r.scanOne(r.db.SQL.QueryRowContext(ctx, q, jobID.String()))
}

func (r *claimRepo) List(ctx context.Context, limit, offset int) ([]*entity.Claim, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	q := r.db.Rebind(`SELECT ` + claimColumns + ` FROM claims
		ORDER BY created_at DESC LIMIT ? OFFSET ?`)
	rows, err := r.db.SQL.QueryContext(ctx, q, limit, offset)
	if err != nil {
		r.log.Error("claim.list.failed", "error", err)
		return nil, common.WrapSentinel(common.ErrDatabase, "failed to list claims", err)
	}
	defer rows.Close()

	var out []*entity.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapSentinel(common.ErrDatabase, "failed to list claims", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *claimRepo) scanOne(row *sql.Row) (*entity.Claim, error) {
	c, err := scanClaim(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	return c, err
}

func scanClaim(row rowScanner) (*entity.Claim, error) {
	var (
		c          entity.Claim
		id, jobID  string
		verdict    string
		checksJSON string
		repJSON    sql.NullString
		recJSON    sql.NullString
	)
	err := row.Scan(&id, &jobID, &c.Filename,
		&c.PatientName, &c.PolicyNumber, &c.ClaimAmount,
		&c.DateOfService, &c.InsuranceProvider, &c.PatientAge,
		&verdict, &checksJSON, &repJSON, &recJSON, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, common.WrapSentinel(common.ErrDatabase, "failed to scan claim", err)
	}

	if c.ID, err = uuid.Parse(id); err != nil {
		return nil, common.WrapSentinel(common.ErrDatabase, "malformed claim id", err)
	}
	if c.JobID, err = uuid.Parse(jobID); err != nil {
		return nil, common.WrapSentinel(common.ErrDatabase, "malformed job id", err)
	}
	c.Verdict = constants.Verdict(verdict)

	if err := json.Unmarshal([]byte(checksJSON), &c.Checks); err != nil {
		return nil, common.WrapSentinel(common.ErrDatabase, "malformed checks payload", err)
	}
	if repJSON.Valid && repJSON.String != "" {
		var stats reputation.ProviderStats
		if err := json.Unmarshal([]byte(repJSON.String), &stats); err != nil {
			return nil, common.WrapSentinel(common.ErrDatabase, "malformed reputation payload", err)
		}
		c.Reputation = &stats
	}
	if recJSON.Valid && recJSON.String != "" {
		if err := json.Unmarshal([]byte(recJSON.String), &c.Recommendations); err != nil {
			return nil, common.WrapSentinel(common.ErrDatabase, "malformed recommendations payload", err)
		}
	}
	return &c, nil
}
