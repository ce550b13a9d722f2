package verify

import (
	"fmt"
	"log/slog"

	"github.com/claimsight/claim-analyzer/constants"
	"github.com/claimsight/claim-analyzer/internal/extract"
)

// CheckResult is one entry of the itemized verification output, in rule
// evaluation order (policy check precedes amount check).
type CheckResult struct {
	Status  constants.CheckStatus `json:"status"`
	Message string                `json:"message"`
}

// Engine evaluates a field record against the reference data. It holds no
// mutable state; one engine serves concurrent requests.
type Engine struct {
	refs *ReferenceData
	log  *slog.Logger
}

// NewEngine wires the engine to its reference data. Passing nil refs is
// allowed and yields the Error verdict on every Verify call, mirroring a
// reference-database load failure.
func NewEngine(refs *ReferenceData, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{refs: refs, log: logger}
}

// Verify runs the ordered battery of business-rule checks and derives the
// terminal verdict. Single deterministic pass, no retries.
//
// Ordering is load-bearing: the completeness gate runs before the policy and
// amount rules and short-circuits them, so a record missing any one field
// reports only the manual-review entry, even if its policy number is also
// invalid. This mirrors the historical behavior on purpose; changing it
// would alter verdicts.
func (e *Engine) Verify(rec extract.FieldRecord) (constants.Verdict, []CheckResult) {
	if e.refs == nil {
		return constants.VerdictError, []CheckResult{{
			Status:  constants.CheckFail,
			Message: "Could not load validation databases.",
		}}
	}

	var results []CheckResult

	if !rec.Complete() {
		results = append(results, CheckResult{
			Status:  constants.CheckFail,
			Message: "Key information missing from form. Flagging for manual review.",
		})
		e.log.Warn("verify.incomplete_record", "verdict", constants.VerdictManualReview)
		return constants.VerdictManualReview, results
	}

	approved := true

	// Policy check: exact membership, no short-circuit on failure.
	if e.refs.ValidPolicy(rec.PolicyNumber) {
		results = append(results, CheckResult{
			Status:  constants.CheckPass,
			Message: fmt.Sprintf("Policy Number '%s' is valid.", rec.PolicyNumber),
		})
	} else {
		results = append(results, CheckResult{
			Status:  constants.CheckFail,
			Message: fmt.Sprintf("Policy Number '%s' is NOT valid.", rec.PolicyNumber),
		})
		approved = false
	}

	// Amount checks: priority chain, first matching condition wins.
	amount, ok := rec.AmountValue()
	switch {
	case !ok:
		results = append(results, CheckResult{
			Status:  constants.CheckFail,
			Message: fmt.Sprintf("Claim Amount '%s' is not a valid number.", rec.ClaimAmount),
		})
		approved = false
	case amount > e.refs.MaxClaimAmount:
		results = append(results, CheckResult{
			Status: constants.CheckFail,
			Message: fmt.Sprintf("Claim Amount $%s exceeds the $%s limit.",
				extract.FormatMoney(amount), extract.FormatMoney(e.refs.MaxClaimAmount)),
		})
		approved = false
	case amount <= 0:
		results = append(results, CheckResult{
			Status:  constants.CheckFail,
			Message: "Claim Amount must be greater than $0.",
		})
		approved = false
	default:
		results = append(results, CheckResult{
			Status:  constants.CheckPass,
			Message: fmt.Sprintf("Claim Amount $%s is within limits.", extract.FormatMoney(amount)),
		})
	}

	verdict := constants.VerdictApproved
	if !approved {
		verdict = constants.VerdictRejected
	}
	e.log.Info("verify.done", "verdict", verdict, "checks", len(results))
	return verdict, results
}
