package ocr

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimsight/claim-analyzer/constants"
)

type stubRunner struct {
	// keyed by command name; args are recorded for inspection
	outputs map[string][]byte
	errs    map[string]error
	calls   []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, name)
	if err, ok := s.errs[name]; ok && err != nil {
		return nil, []byte("boom"), err
	}
	return s.outputs[name], nil, nil
}

func newTestExtractor(r Runner) *Extractor {
	e := NewExtractor(Config{MinTextChars: 20}, nil)
	e.runner = r
	return e
}

func TestExtractPDFTextLayer(t *testing.T) {
	body := "Patient Name: John Smith\nPolicy Number: AB-1234\nClaim Amount: $500.00\n"
	r := &stubRunner{outputs: map[string][]byte{"pdftotext": []byte(body)}}
	e := newTestExtractor(r)

	res, err := e.Extract(context.Background(), "/tmp/claim.pdf")
	require.NoError(t, err)
	assert.Equal(t, constants.PDF, res.SourceType)
	assert.Equal(t, "pdf-text", res.Method)
	assert.Equal(t, 1, res.Pages)
	assert.Contains(t, res.Text, "Policy Number: AB-1234")
	assert.Equal(t, []string{"pdftotext"}, r.calls)
	assert.Greater(t, res.Confidence, float32(0.5))
}

func TestExtractPDFCountsPages(t *testing.T) {
	r := &stubRunner{outputs: map[string][]byte{
		"pdftotext": []byte("Policy Number: AB-1234 page one\fPolicy page two of claim\fpage three"),
	}}
	e := newTestExtractor(r)

	res, err := e.Extract(context.Background(), "/tmp/claim.pdf")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Pages)
}

func TestExtractPDFThinTextLayerFallsBackToOCR(t *testing.T) {
	// text layer too short -> pdftoppm + tesseract path; pdftoppm renders
	// nothing in this stub, so the fallback surfaces its error.
	r := &stubRunner{outputs: map[string][]byte{"pdftotext": []byte("  x  ")}}
	e := newTestExtractor(r)

	_, err := e.Extract(context.Background(), "/tmp/claim.pdf")
	require.Error(t, err)
	assert.Contains(t, r.calls, "pdftoppm")
}

func TestExtractPDFCommandFailureFallsBack(t *testing.T) {
	r := &stubRunner{
		errs: map[string]error{
			"pdftotext": fmt.Errorf("exit status 1"),
			"pdftoppm":  fmt.Errorf("exit status 1"),
		},
	}
	e := newTestExtractor(r)

	res, err := e.Extract(context.Background(), "/tmp/claim.pdf")
	require.Error(t, err)
	assert.Equal(t, constants.PDF, res.SourceType)
	assert.NotEmpty(t, res.Warnings)
}

func TestExtractImage(t *testing.T) {
	body := "Patient Name: Jane Doe\nAge: 45\nClaim Amount: $1,500.00\n"
	r := &stubRunner{outputs: map[string][]byte{"tesseract": []byte(body)}}
	e := newTestExtractor(r)

	res, err := e.Extract(context.Background(), "/tmp/claim.png")
	require.NoError(t, err)
	assert.Equal(t, constants.IMAGE, res.SourceType)
	assert.Equal(t, "image-ocr", res.Method)
	assert.Equal(t, 1, res.Pages)
	assert.Contains(t, res.Text, "Age: 45")
}

func TestExtractImageWarnsWhenNotClaimLike(t *testing.T) {
	r := &stubRunner{outputs: map[string][]byte{"tesseract": []byte("lorem ipsum dolor sit amet\n")}}
	e := newTestExtractor(r)

	res, err := e.Extract(context.Background(), "/tmp/menu.jpg")
	require.NoError(t, err)
	assert.Contains(t, res.Warnings, "recognized text does not look like a claim form")
}

func TestTSVConfidenceLengthWeighted(t *testing.T) {
	tsv := strings.Join([]string{
		"level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext",
		"5\t1\t1\t1\t1\t1\t0\t0\t10\t10\t90\tPolicy",
		"5\t1\t1\t1\t1\t2\t0\t0\t10\t10\t30\tNumber",
		"5\t1\t1\t1\t1\t3\t0\t0\t10\t10\t5\t|",  // single char, ignored
		"5\t1\t1\t1\t1\t4\t0\t0\t10\t10\t-1\t ", // layout row, ignored
		"",
	}, "\n")
	r := &stubRunner{outputs: map[string][]byte{"tesseract": []byte(tsv)}}
	e := newTestExtractor(r)

	conf, warns, err := e.tesseractTSVConfidence(context.Background(), "/tmp/claim.png")
	require.NoError(t, err)
	assert.Empty(t, warns)
	// equal-length words, so the weighted mean is (90+30)/2 = 60
	assert.InDelta(t, 0.60, float64(conf), 1e-6)
}

func TestExtractImageNoText(t *testing.T) {
	r := &stubRunner{outputs: map[string][]byte{"tesseract": []byte("   \n\n  ")}}
	e := newTestExtractor(r)

	_, err := e.Extract(context.Background(), "/tmp/claim.png")
	require.ErrorIs(t, err, ErrNoText)
}

func TestExtractUnsupportedExtension(t *testing.T) {
	e := newTestExtractor(&stubRunner{})
	_, err := e.Extract(context.Background(), "/tmp/claim.docx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported extension")
}

func TestNormalizeKeepsLineBreaks(t *testing.T) {
	in := "Age: 45\r\nPolicy  Number:\tAB-1234   \n\n\n\nend"
	out := Normalize(in)
	assert.Equal(t, "Age: 45\nPolicy Number: AB-1234\n\nend\n", out)
}

func TestNormalizePreservesFinalNewline(t *testing.T) {
	// OCR output always ends in a newline and the age pattern anchors on
	// the line break after the last field, so it must survive.
	out := Normalize("Policy Number: AB-1234\nAge: 45\n")
	assert.Equal(t, "Policy Number: AB-1234\nAge: 45\n", out)

	// and one is appended if the raw text lacked it
	assert.Equal(t, "Age: 45\n", Normalize("Age: 45"))
}

func TestHeuristicConfidenceOrdering(t *testing.T) {
	rich := heuristicConfidence("Policy Number: AB-1234\nDate of Service: 2024-03-15\nClaim Amount: $1,500.00")
	poor := heuristicConfidence("lorem ipsum")
	assert.Greater(t, rich, poor)
}
