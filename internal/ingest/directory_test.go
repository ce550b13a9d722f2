package ingest

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimsight/claim-analyzer/constants"
	"github.com/claimsight/claim-analyzer/internal/entity"
)

type stubAnalyzer struct {
	paths []string
	fail  map[string]bool
}

func (s *stubAnalyzer) ProcessFile(_ context.Context, path string) (*entity.AnalysisJob, *entity.Claim, error) {
	s.paths = append(s.paths, path)
	job := &entity.AnalysisJob{ID: uuid.New(), SourcePath: path}
	if s.fail[filepath.Base(path)] {
		return job, nil, assert.AnError
	}
	return job, &entity.Claim{ID: uuid.New(), JobID: job.ID, Verdict: constants.VerdictApproved}, nil
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestScanDirectoryFiltersAndCounts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf")
	writeFile(t, dir, "b.png")
	writeFile(t, dir, "notes.txt") // filtered out
	writeFile(t, dir, "nested/c.jpg")

	an := &stubAnalyzer{}
	in := NewIntake(an, slog.Default())

	results, stats, err := in.ScanDirectory(context.Background(), dir, nil, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), stats.Matched)
	assert.Equal(t, uint32(3), stats.Succeeded)
	assert.Equal(t, uint32(0), stats.Failed)
	assert.Len(t, results, 3)
	assert.Len(t, an.paths, 3)
	for _, r := range results {
		assert.NotEmpty(t, r.JobID)
		assert.Equal(t, "Approved", r.Verdict)
	}
}

func TestScanDirectorySkipsHidden(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".hidden/x.pdf")
	writeFile(t, dir, ".stray.pdf")
	writeFile(t, dir, "ok.pdf")

	an := &stubAnalyzer{}
	in := NewIntake(an, slog.Default())

	_, stats, err := in.ScanDirectory(context.Background(), dir, nil, true)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), stats.Matched)
}

func TestScanDirectoryRecordsFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.pdf")
	writeFile(t, dir, "bad.pdf")

	an := &stubAnalyzer{fail: map[string]bool{"bad.pdf": true}}
	in := NewIntake(an, slog.Default())

	results, stats, err := in.ScanDirectory(context.Background(), dir, nil, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), stats.Matched)
	assert.Equal(t, uint32(1), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Failed)

	var failed *FileResult
	for i := range results {
		if results[i].Err != "" {
			failed = &results[i]
		}
	}
	require.NotNil(t, failed)
	assert.Contains(t, failed.Path, "bad.pdf")
	assert.NotEmpty(t, failed.JobID)
}

func TestScanDirectoryCustomExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.pdf")
	writeFile(t, dir, "b.png")

	an := &stubAnalyzer{}
	in := NewIntake(an, slog.Default())

	_, stats, err := in.ScanDirectory(context.Background(), dir, []string{".PDF"}, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), stats.Matched)
}

func TestScanDirectoryEmptyRoot(t *testing.T) {
	in := NewIntake(&stubAnalyzer{}, slog.Default())
	_, _, err := in.ScanDirectory(context.Background(), "  ", nil, false)
	require.Error(t, err)
}
