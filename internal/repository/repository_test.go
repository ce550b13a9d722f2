package repository

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimsight/claim-analyzer/constants"
	"github.com/claimsight/claim-analyzer/internal/common"
	"github.com/claimsight/claim-analyzer/internal/entity"
	"github.com/claimsight/claim-analyzer/internal/reputation"
	"github.com/claimsight/claim-analyzer/internal/verify"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, Config{DSN: "file::memory:?cache=shared"}, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(slog.Default()) })
	require.NoError(t, Migrate(ctx, db.SQL, slog.Default()))
	return db
}

func TestRebindSQLitePassthrough(t *testing.T) {
	d := &DB{}
	assert.Equal(t, "SELECT * FROM t WHERE a = ? AND b = ?", d.Rebind("SELECT * FROM t WHERE a = ? AND b = ?"))
}

func TestJobLifecycle(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	jobs := NewAnalysisJobRepository(db, slog.Default())

	job, err := jobs.Start(ctx, "/drop/claim1.pdf", "claim1.pdf", "pdf")
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusQueued, job.Status)

	require.NoError(t, jobs.MarkRunning(ctx, job.ID))
	require.NoError(t, jobs.FinishOCR(ctx, job.ID, "Policy Number: AB-1234", "pdf-text", 1, 0.9))
	require.NoError(t, jobs.Finish(ctx, job.ID, constants.JobStatusEnriched))

	got, err := jobs.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusEnriched, got.Status)
	require.NotNil(t, got.OCRText)
	assert.Equal(t, "Policy Number: AB-1234", *got.OCRText)
	require.NotNil(t, got.OCRMethod)
	assert.Equal(t, "pdf-text", *got.OCRMethod)
	assert.NotNil(t, got.FinishedAt)
}

func TestJobFailure(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	jobs := NewAnalysisJobRepository(db, slog.Default())

	job, err := jobs.Start(ctx, "/drop/bad.pdf", "bad.pdf", "pdf")
	require.NoError(t, err)
	require.NoError(t, jobs.FinishFailure(ctx, job.ID, "pdftotext: exit status 1"))

	got, err := jobs.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Contains(t, *got.ErrorMessage, "pdftotext")
}

func TestJobGetMissing(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	jobs := NewAnalysisJobRepository(db, slog.Default())

	_, err := jobs.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestClaimCreateAndGet(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	jobs := NewAnalysisJobRepository(db, slog.Default())
	claims := NewClaimRepository(db, slog.Default())

	job, err := jobs.Start(ctx, "/drop/claim2.pdf", "claim2.pdf", "pdf")
	require.NoError(t, err)

	claim := &entity.Claim{
		JobID:             job.ID,
		Filename:          "claim2.pdf",
		PatientName:       "John Smith",
		PolicyNumber:      "AB-1234",
		ClaimAmount:       "$1,500.00",
		DateOfService:     "2024-03-15",
		InsuranceProvider: "Aetna",
		PatientAge:        "45",
		Verdict:           constants.VerdictApproved,
		Checks: []verify.CheckResult{
			{Status: constants.CheckPass, Message: "Policy Number 'AB-1234' is valid."},
		},
	}
	require.NoError(t, claims.Create(ctx, claim))
	assert.NotEqual(t, uuid.Nil, claim.ID)

	got, err := claims.Get(ctx, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, "AB-1234", got.PolicyNumber)
	assert.Equal(t, constants.VerdictApproved, got.Verdict)
	require.Len(t, got.Checks, 1)
	assert.Equal(t, constants.CheckPass, got.Checks[0].Status)
	assert.Nil(t, got.Reputation)
	assert.Empty(t, got.Recommendations)

	byJob, err := claims.GetByJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, claim.ID, byJob.ID)
}

func TestClaimEnrichmentRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	jobs := NewAnalysisJobRepository(db, slog.Default())
	claims := NewClaimRepository(db, slog.Default())

	job, err := jobs.Start(ctx, "/drop/claim3.pdf", "claim3.pdf", "pdf")
	require.NoError(t, err)

	claim := &entity.Claim{
		JobID:             job.ID,
		Filename:          "claim3.pdf",
		PatientName:       "Jane Doe",
		PolicyNumber:      "XY-9999",
		ClaimAmount:       "$200.00",
		DateOfService:     "2024-01-02",
		InsuranceProvider: "Cigna",
		PatientAge:        "31",
		Verdict:           constants.VerdictRejected,
		Checks:            []verify.CheckResult{},
	}
	require.NoError(t, claims.Create(ctx, claim))

	stats := &reputation.ProviderStats{
		Status:  reputation.StatusSuccess,
		Summary: "Cigna has strong customer reviews.",
		Details: "Source: example.com | Title: Cigna reviews",
	}
	recs := []string{"**Provider Info:** Cigna generally has a good reputation."}
	require.NoError(t, claims.UpdateEnrichment(ctx, claim.ID, stats, recs))

	got, err := claims.Get(ctx, claim.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Reputation)
	assert.Equal(t, reputation.StatusSuccess, got.Reputation.Status)
	assert.Equal(t, recs, got.Recommendations)
}

func TestClaimList(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	jobs := NewAnalysisJobRepository(db, slog.Default())
	claims := NewClaimRepository(db, slog.Default())

	for i := 0; i < 3; i++ {
		job, err := jobs.Start(ctx, "/drop/x.pdf", "x.pdf", "pdf")
		require.NoError(t, err)
		require.NoError(t, claims.Create(ctx, &entity.Claim{
			JobID:             job.ID,
			Filename:          "x.pdf",
			PatientName:       "P",
			PolicyNumber:      "AB-1234",
			ClaimAmount:       "$1.00",
			DateOfService:     "2024-01-01",
			InsuranceProvider: "Aetna",
			PatientAge:        "30",
			Verdict:           constants.VerdictManualReview,
			Checks:            []verify.CheckResult{},
		}))
	}

	all, err := claims.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := claims.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)
}
