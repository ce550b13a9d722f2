package ocr

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/claimsight/claim-analyzer/constants"
)

const ImageConfidenceThreshold = 0.6

// formLikenessFloor is the heuristic confidence below which recognized text
// does not look like a claim form at all (no field labels, no policy token,
// no amounts), regardless of how sure tesseract is about the characters.
const formLikenessFloor = 0.3

func (e *Extractor) extractImage(ctx context.Context, path string) (ExtractionResult, error) {
	txt, warn, err := e.tesseractOCR(ctx, path)
	if err != nil {
		return ExtractionResult{SourceType: constants.IMAGE, Warnings: warn}, err
	}
	txt = Normalize(txt)

	var ocrConf float32
	if e.cfg.EnableTSVConfidence {
		if c, w, err2 := e.tesseractTSVConfidence(ctx, path); err2 == nil {
			ocrConf = c
			warn = append(warn, w...)
		} else {
			warn = append(warn, err2.Error())
		}
	}
	heurConf := heuristicConfidence(txt)

	// Character-level certainty and claim-form likeness fail in different
	// ways: a crisp photo of a restaurant menu reads perfectly but carries
	// no claim fields. Blend both, leaning on tesseract when available.
	var conf float32
	if ocrConf > 0 {
		conf = 0.6*ocrConf + 0.4*heurConf
	} else {
		conf = heurConf
	}
	if conf > 1.0 {
		conf = 1.0
	}
	if heurConf < formLikenessFloor {
		warn = append(warn, "recognized text does not look like a claim form")
	}

	return ExtractionResult{
		Text:       txt,
		Pages:      1,
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
		Language:   e.cfg.TesseractLang,
		Warnings:   warn,
		Confidence: conf,
	}, nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", e.cfg.PSM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	// Claim forms align values in columns; collapsing the gaps glues a
	// label to the neighbouring column's value.
	args = append(args, "-c", "preserve_interword_spaces=1")

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}

	// scanned forms often carry ruled lines that read as ___ or ---
	txt := reBoxNoise.ReplaceAllString(string(out), "")
	return txt, nil, nil
}

// tesseractTSVConfidence runs tesseract in TSV mode and returns a
// length-weighted mean word confidence in 0..1. Weighting by word length
// keeps specks and ruled-line fragments, which scanned claim forms are full
// of, from dragging the mean down; single-character tokens are ignored for
// the same reason.
func (e *Extractor) tesseractTSVConfidence(ctx context.Context, path string) (float32, []string, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", fmt.Sprintf("%d", e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	args = append(args, "tsv")

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return 0, []string{string(errb)}, fmt.Errorf("tesseract TSV: %w", err)
	}
	lines := strings.Split(string(out), "\n")
	var sum, weight float64
	for i, ln := range lines {
		if i == 0 || len(ln) == 0 {
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := cols[len(cols)-2]
		word := strings.TrimSpace(cols[len(cols)-1])
		if confStr == "" || confStr == "-1" || len(word) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(confStr, 64)
		if err != nil {
			continue
		}
		w := float64(len(word))
		sum += v * w
		weight += w
	}
	if weight == 0 {
		return 0, nil, nil
	}
	mean := sum / weight // 0..100
	return float32(mean / 100.0), nil, nil
}
