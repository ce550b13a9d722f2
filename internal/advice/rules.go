package advice

import (
	"fmt"

	"github.com/claimsight/claim-analyzer/internal/extract"
	"github.com/claimsight/claim-analyzer/internal/reputation"
)

// Thresholds for the age/amount advisory rules.
const (
	planReviewAge       = 50
	planReviewAmount    = 1000.0
	preventativeAge     = 30
	preventativeAmount  = 200.0
	defaultNoActionText = "Your claim has been processed. No specific actions are recommended at this time."
)

// Synthesize produces advisory messages from claim data and the reputation
// payload. Deterministic, rule-based, independent of any generative model;
// every applicable rule fires and the result is never empty.
//
// Rules 3 and 4 need numeric age and amount. A record holding the NotFound
// sentinel in either field simply fails the comparison; it never errors.
func Synthesize(rec extract.FieldRecord, stats reputation.ProviderStats) []string {
	var recommendations []string

	switch stats.Status {
	case reputation.StatusWarning:
		recommendations = append(recommendations, fmt.Sprintf(
			"**Provider Alert:** %s We recommend you follow up on this claim in 5-7 business days to ensure it is processed correctly.",
			stats.Summary))
	case reputation.StatusSuccess:
		recommendations = append(recommendations, fmt.Sprintf("**Provider Info:** %s", stats.Summary))
	}

	age, ageKnown := rec.AgeYears()
	amount, amountKnown := rec.AmountValue()

	if ageKnown && amountKnown && age > planReviewAge && amount > planReviewAmount {
		recommendations = append(recommendations,
			"**Plan Review Suggestion:** This was a significant procedure for a patient over 50. "+
				"It may be beneficial to review your plan's *out-of-pocket maximum* and *deductible* "+
				"during the next open enrollment period to ensure it still fits your needs.")
	}

	if ageKnown && amountKnown && age < preventativeAge && amount < preventativeAmount {
		msg := "**Preventative Care:** We've noted this routine claim. Great job staying on top of your health!"
		if stats.Details != "" {
			msg += " " + stats.Details
		}
		recommendations = append(recommendations, msg)
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, defaultNoActionText)
	}
	return recommendations
}
