package export

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/claimsight/claim-analyzer/constants"
	"github.com/claimsight/claim-analyzer/internal/entity"
	"github.com/claimsight/claim-analyzer/internal/repository"
	"github.com/claimsight/claim-analyzer/internal/verify"
)

func newTestClaims(t *testing.T) repository.ClaimRepository {
	t.Helper()
	ctx := context.Background()
	log := slog.Default()
	db, err := repository.Open(ctx, repository.Config{DSN: "file::memory:?cache=shared"}, log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(log) })
	require.NoError(t, repository.Migrate(ctx, db.SQL, log))

	jobs := repository.NewAnalysisJobRepository(db, log)
	claims := repository.NewClaimRepository(db, log)

	job, err := jobs.Start(ctx, "/drop/claim.pdf", "claim.pdf", "pdf")
	require.NoError(t, err)
	require.NoError(t, claims.Create(ctx, &entity.Claim{
		JobID:             job.ID,
		Filename:          "claim.pdf",
		PatientName:       "John Smith",
		PolicyNumber:      "AB-1234",
		ClaimAmount:       "$1,500.00",
		DateOfService:     "2024-03-15",
		InsuranceProvider: "Aetna",
		PatientAge:        "45",
		Verdict:           constants.VerdictApproved,
		Checks: []verify.CheckResult{
			{Status: constants.CheckPass, Message: "Policy Number 'AB-1234' is valid."},
			{Status: constants.CheckPass, Message: "Claim Amount $1,500.00 is within limits."},
		},
	}))
	return claims
}

func TestExportClaimsXLSX(t *testing.T) {
	svc := NewService(newTestClaims(t), slog.Default())

	out, err := svc.ExportClaimsXLSX(context.Background(), 100, 0)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	wb, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Claims")
	require.NoError(t, err)
	require.Len(t, rows, 2) // header + one claim

	header := rows[0]
	assert.Contains(t, header, "Verdict")
	assert.Contains(t, header, constants.FieldPolicyNumber)

	claimRow := rows[1]
	assert.Contains(t, claimRow, "AB-1234")
	assert.Contains(t, claimRow, "Approved")
}

func TestExportEmptyStillProducesWorkbook(t *testing.T) {
	ctx := context.Background()
	log := slog.Default()
	db, err := repository.Open(ctx, repository.Config{DSN: "file::memory:?cache=shared"}, log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(log) })
	require.NoError(t, repository.Migrate(ctx, db.SQL, log))

	svc := NewService(repository.NewClaimRepository(db, log), log)
	out, err := svc.ExportClaimsXLSX(ctx, 100, 0)
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Claims")
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only
}
