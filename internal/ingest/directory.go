package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/claimsight/claim-analyzer/constants"
	"github.com/claimsight/claim-analyzer/internal/entity"
)

// Analyzer runs the full pipeline for one document on disk.
type Analyzer interface {
	ProcessFile(ctx context.Context, path string) (*entity.AnalysisJob, *entity.Claim, error)
}

type FileResult struct {
	Path    string
	JobID   string
	Verdict string
	Err     string
}

type DirStats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	Failed    uint32
}

// Intake feeds discovered documents into the analysis pipeline.
type Intake struct {
	Analyzer Analyzer
	Logger   *slog.Logger
}

func NewIntake(analyzer Analyzer, logger *slog.Logger) *Intake {
	if logger == nil {
		logger = slog.Default()
	}
	return &Intake{Analyzer: analyzer, Logger: logger}
}

// ScanDirectory walks root, filters by includeExts (or the intake defaults),
// skips hidden entries if requested, and analyzes each matching document.
// Per-file failures are recorded, never aborting the walk.
func (in *Intake) ScanDirectory(ctx context.Context, root string, includeExts []string, skipHidden bool) ([]FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root_path is required")
	}

	exts := map[string]struct{}{}
	if len(includeExts) == 0 {
		exts = constants.AllowedExtensions
	} else {
		for _, e := range includeExts {
			if e = constants.NormalizeExt(strings.TrimSpace(e)); e != "" {
				exts[e] = struct{}{}
			}
		}
	}

	var results []FileResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil // continue walking
		}
		if skipHidden && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := exts[constants.NormalizeExt(filepath.Ext(path))]; !ok {
			return nil
		}
		stats.Matched++

		job, claim, err := in.Analyzer.ProcessFile(ctx, path)
		res := FileResult{Path: path}
		if job != nil {
			res.JobID = job.ID.String()
		}
		if err != nil {
			res.Err = err.Error()
			results = append(results, res)
			stats.Failed++
			return nil
		}
		if claim != nil {
			res.Verdict = string(claim.Verdict)
		}
		results = append(results, res)
		stats.Succeeded++
		return nil
	})

	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	in.Logger.Info("ingest.scan.done",
		"root", root, "matched", stats.Matched, "succeeded", stats.Succeeded, "failed", stats.Failed)
	return results, stats, nil
}

// RunWatch consumes the watcher channels, analyzing every emitted path until
// ctx is done.
func (in *Intake) RunWatch(ctx context.Context, cfg WatchConfig) error {
	evCh, errCh, err := StartWatcher(ctx, cfg)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case path, ok := <-evCh:
			if !ok {
				return nil
			}
			if _, claim, err := in.Analyzer.ProcessFile(ctx, path); err != nil {
				in.Logger.Error("ingest.watch.analyze_failed", "path", path, "error", err)
			} else if claim != nil {
				in.Logger.Info("ingest.watch.analyzed", "path", path, "verdict", claim.Verdict)
			}
		case werr, ok := <-errCh:
			if ok && werr != nil {
				in.Logger.Error("ingest.watch.error", "error", werr)
			}
		}
	}
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
