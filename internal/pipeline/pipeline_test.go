package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimsight/claim-analyzer/constants"
	"github.com/claimsight/claim-analyzer/internal/advice"
	"github.com/claimsight/claim-analyzer/internal/extract"
	"github.com/claimsight/claim-analyzer/internal/ner"
	"github.com/claimsight/claim-analyzer/internal/ocr"
	"github.com/claimsight/claim-analyzer/internal/repository"
	"github.com/claimsight/claim-analyzer/internal/reputation"
	"github.com/claimsight/claim-analyzer/internal/verify"
)

const goodClaim = `Patient Name: John Smith
Policy Number: AB-1234
Claim Amount: $1,500.00
Date of Service: 2024-03-15
Insurance Provider: Aetna
Age: 45
`

type stubOCR struct {
	text string
	err  error
}

func (s stubOCR) Extract(_ context.Context, _ string) (ocr.ExtractionResult, error) {
	if s.err != nil {
		return ocr.ExtractionResult{}, s.err
	}
	return ocr.ExtractionResult{Text: s.text, Pages: 1, Method: "pdf-text", Confidence: 0.9}, nil
}

type stubRecognizer struct{ entities []ner.Entity }

// Recognize returns only the canned entities whose text actually appears in
// the input, so different documents see different spans.
func (s stubRecognizer) Recognize(_ context.Context, text string) ([]ner.Entity, error) {
	var out []ner.Entity
	for _, e := range s.entities {
		if strings.Contains(text, e.Text) {
			out = append(out, e)
		}
	}
	return out, nil
}

type stubReputation struct{ stats reputation.ProviderStats }

func (s stubReputation) Lookup(_ context.Context, _ string) reputation.ProviderStats {
	return s.stats
}

func newTestProcessor(t *testing.T, ocrStub TextExtractor) (*Processor, repository.ClaimRepository) {
	t.Helper()
	ctx := context.Background()
	log := slog.Default()

	db, err := repository.Open(ctx, repository.Config{DSN: "file::memory:?cache=shared"}, log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(log) })
	require.NoError(t, repository.Migrate(ctx, db.SQL, log))

	jobs := repository.NewAnalysisJobRepository(db, log)
	claims := repository.NewClaimRepository(db, log)

	recognizer := stubRecognizer{entities: []ner.Entity{
		{Kind: ner.KindPerson, Text: "John Smith"},
		{Kind: ner.KindDate, Text: "2024-03-15"},
		{Kind: ner.KindMoney, Text: "$1,500.00"},
		{Kind: ner.KindProvider, Text: "Aetna"},
	}}
	extractor := extract.NewExtractor(recognizer, log)
	engine := verify.NewEngine(verify.NewReferenceData([]string{"AB-1234"}, 5000.00), log)
	advisor := advice.NewAdvisor(nil, log)
	rep := stubReputation{stats: reputation.ProviderStats{
		Status:  reputation.StatusSuccess,
		Summary: "Aetna has strong reviews.",
	}}

	proc := NewProcessor(log, jobs,
		NewOCRStage(jobs, ocrStub, log),
		NewDecideStage(jobs, claims, extractor, engine, log),
		NewEnrichStage(jobs, claims, rep, advisor, log),
	)
	return proc, claims
}

func TestProcessFileEndToEnd(t *testing.T) {
	proc, claims := newTestProcessor(t, stubOCR{text: goodClaim})

	job, claim, err := proc.ProcessFile(context.Background(), "/drop/claim.pdf")
	require.NoError(t, err)
	require.NotNil(t, claim)

	assert.Equal(t, constants.VerdictApproved, claim.Verdict)
	assert.Equal(t, "AB-1234", claim.PolicyNumber)
	assert.NotEmpty(t, claim.Recommendations)
	require.NotNil(t, claim.Reputation)
	assert.Equal(t, reputation.StatusSuccess, claim.Reputation.Status)

	stored, err := claims.GetByJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, claim.ID, stored.ID)
	assert.Equal(t, constants.VerdictApproved, stored.Verdict)

	got, err := proc.Jobs.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusEnriched, got.Status)
}

func TestProcessFileOCRFailureFailsJob(t *testing.T) {
	proc, _ := newTestProcessor(t, stubOCR{err: assert.AnError})

	job, claim, err := proc.ProcessFile(context.Background(), "/drop/claim.pdf")
	require.Error(t, err)
	assert.Nil(t, claim)

	got, err := proc.Jobs.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
}

func TestProcessFileUnsupportedExtension(t *testing.T) {
	proc, _ := newTestProcessor(t, stubOCR{text: goodClaim})

	job, _, err := proc.ProcessFile(context.Background(), "/drop/claim.docx")
	require.Error(t, err)

	got, err := proc.Jobs.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusFailed, got.Status)
}

func TestProcessTextSkipsOCR(t *testing.T) {
	proc, _ := newTestProcessor(t, stubOCR{err: assert.AnError}) // would fail if OCR ran

	job, claim, err := proc.ProcessText(context.Background(), "pasted", goodClaim)
	require.NoError(t, err)
	require.NotNil(t, claim)
	assert.Equal(t, constants.VerdictApproved, claim.Verdict)

	got, err := proc.Jobs.Get(context.Background(), job.ID)
	require.NoError(t, err)
	require.NotNil(t, got.OCRMethod)
	assert.Equal(t, "raw-text", *got.OCRMethod)
}

func TestProcessTextUnknownProviderSkipsEnrichmentLookup(t *testing.T) {
	proc, _ := newTestProcessor(t, stubOCR{text: goodClaim})

	// no provider anywhere in the text and no gazetteer hit
	text := "Patient Name: Jane Doe\nPolicy Number: XY-1\nClaim Amount: $50.00\nDate of Service: 2024-01-01\nAge: 30\n"
	_, claim, err := proc.ProcessText(context.Background(), "pasted", text)
	require.NoError(t, err)
	require.NotNil(t, claim)

	assert.Nil(t, claim.Reputation)
	assert.Equal(t, []string{"Could not identify provider to generate recommendations."}, claim.Recommendations)
}
