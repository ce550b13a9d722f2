package constants

// Verdict is the final claim decision. The strings are user-facing and
// stored verbatim in the claims table.
type Verdict string

const (
	VerdictApproved     Verdict = "Approved"
	VerdictRejected     Verdict = "Rejected"
	VerdictManualReview Verdict = "Manual Review"
	VerdictError        Verdict = "Error"
)

// CheckStatus marks an individual verification check as passed or failed.
type CheckStatus string

const (
	CheckPass CheckStatus = "Pass"
	CheckFail CheckStatus = "Fail"
)
