package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/claimsight/claim-analyzer/constants"
	"github.com/claimsight/claim-analyzer/internal/repository"
)

// Service is a tiny façade over the claim repository that produces XLSX
// bytes for adjudication exports.
type Service struct {
	claims repository.ClaimRepository
	logger *slog.Logger
}

func NewService(claims repository.ClaimRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{claims: claims, logger: logger}
}

// ExportClaimsXLSX returns an XLSX workbook (as bytes) with one row per
// analyzed claim. The verdict column is always populated.
func (s *Service) ExportClaimsXLSX(ctx context.Context, limit, offset int) ([]byte, error) {
	start := time.Now()

	claims, err := s.claims.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query claims: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Claims"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Analyzed At",
		"File",
		constants.FieldPatientName,
		constants.FieldPolicyNumber,
		constants.FieldClaimAmount,
		constants.FieldDateOfService,
		constants.FieldInsuranceProvider,
		constants.FieldPatientAge,
		"Verdict",
		"Checks",
		"Recommendations",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, c := range claims {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		var checkLines []string
		for _, chk := range c.Checks {
			checkLines = append(checkLines, fmt.Sprintf("[%s] %s", chk.Status, chk.Message))
		}

		write(1, c.CreatedAt.Format("2006-01-02 15:04"))
		write(2, c.Filename)
		write(3, c.PatientName)
		write(4, c.PolicyNumber)
		write(5, c.ClaimAmount)
		write(6, c.DateOfService)
		write(7, c.InsuranceProvider)
		write(8, c.PatientAge)
		write(9, string(c.Verdict))
		write(10, truncate(strings.Join(checkLines, "\n"), 500))
		write(11, truncate(strings.Join(c.Recommendations, "\n"), 500))

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 17) // timestamp
	_ = f.SetColWidth(sheet, "B", "B", 24) // file
	_ = f.SetColWidth(sheet, "C", "C", 22) // patient
	_ = f.SetColWidth(sheet, "D", "D", 16) // policy
	_ = f.SetColWidth(sheet, "E", "H", 16) // fields
	_ = f.SetColWidth(sheet, "I", "I", 14) // verdict
	_ = f.SetColWidth(sheet, "J", "K", 60) // checks, recommendations

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(claims),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
