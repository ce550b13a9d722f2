package ocr

import (
	"regexp"
	"strings"
)

var (
	reDate   = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b|\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	rePolicy = regexp.MustCompile(`\b\w+-\w+\b`)
	reAmount = regexp.MustCompile(`[$£€]\s*\d|\b\d{1,3}(,\d{3})*\.\d{2}\b`)
	reLabels = regexp.MustCompile(`\b(policy|claim|patient|provider|insurance|amount|age)\b`)
)

func hasDatePattern(s string) bool   { return reDate.MatchString(s) }
func hasPolicyPattern(s string) bool { return rePolicy.MatchString(s) }
func hasAmountPattern(s string) bool { return reAmount.MatchString(s) }
func hasFormLabels(s string) bool    { return reLabels.MatchString(s) }

// naive heuristic confidence based on decoded text characteristics
func heuristicConfidence(txt string) float32 {
	// boost if we see common claim-form artifacts: field labels,
	// a policy-number-shaped token, a date and a money amount.
	txtL := strings.ToLower(txt)
	score := float32(0.2) // base
	if hasFormLabels(txtL) {
		score += 0.2
	}
	if hasPolicyPattern(txtL) {
		score += 0.15
	}
	if hasDatePattern(txtL) {
		score += 0.15
	}
	if hasAmountPattern(txtL) {
		score += 0.15
	}
	if len(txt) > 120 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// textLayerConfidence scores text pulled straight from a PDF text layer.
// The layer itself is lossless, so only content shape is judged.
func textLayerConfidence(txt string) float32 {
	c := heuristicConfidence(txt) + 0.15
	if c > 1.0 {
		c = 1.0
	}
	return c
}
