package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimsight/claim-analyzer/constants"
	"github.com/claimsight/claim-analyzer/internal/extract"
)

func testRefs() *ReferenceData {
	return NewReferenceData([]string{"P-VALID", "HC-9981", "AB-1234"}, 5000)
}

func completeRecord() extract.FieldRecord {
	rec := extract.NewFieldRecord()
	rec.PatientName = "Jane Smith"
	rec.PolicyNumber = "P-VALID"
	rec.ClaimAmount = "$250.00"
	rec.DateOfService = "06/03/2025"
	rec.InsuranceProvider = "Aetna"
	rec.PatientAge = "27"
	return rec
}

func TestVerify_NilReferenceDataIsTerminalError(t *testing.T) {
	e := NewEngine(nil, nil)
	verdict, results := e.Verify(completeRecord())
	assert.Equal(t, constants.VerdictError, verdict)
	require.Len(t, results, 1)
	assert.Equal(t, constants.CheckFail, results[0].Status)
	assert.Contains(t, results[0].Message, "validation databases")
}

func TestVerify_IncompleteRecordShortCircuitsToManualReview(t *testing.T) {
	e := NewEngine(testRefs(), nil)

	// One missing field suppresses all remaining rules, even an invalid
	// policy number on the same record.
	rec := completeRecord()
	rec.DateOfService = constants.NotFound
	rec.PolicyNumber = "X-999"

	verdict, results := e.Verify(rec)
	assert.Equal(t, constants.VerdictManualReview, verdict)
	require.Len(t, results, 1)
	assert.Equal(t, constants.CheckFail, results[0].Status)
	assert.Contains(t, results[0].Message, "manual review")
}

func TestVerify_ApprovedClaim(t *testing.T) {
	e := NewEngine(testRefs(), nil)
	verdict, results := e.Verify(completeRecord())

	assert.Equal(t, constants.VerdictApproved, verdict)
	require.Len(t, results, 2)
	assert.Equal(t, constants.CheckPass, results[0].Status)
	assert.Contains(t, results[0].Message, "P-VALID")
	assert.Equal(t, constants.CheckPass, results[1].Status)
	assert.Contains(t, results[1].Message, "$250.00 is within limits")
}

func TestVerify_InvalidPolicyAndExcessiveAmount(t *testing.T) {
	e := NewEngine(testRefs(), nil)
	rec := completeRecord()
	rec.PolicyNumber = "X-999"
	rec.ClaimAmount = "$6000.00"

	verdict, results := e.Verify(rec)
	assert.Equal(t, constants.VerdictRejected, verdict)
	require.Len(t, results, 2)
	assert.Equal(t, constants.CheckFail, results[0].Status)
	assert.Contains(t, results[0].Message, "NOT valid")
	assert.Equal(t, constants.CheckFail, results[1].Status)
	assert.Equal(t, "Claim Amount $6,000.00 exceeds the $5,000.00 limit.", results[1].Message)
}

func TestVerify_AmountChainPriority(t *testing.T) {
	e := NewEngine(testRefs(), nil)

	tests := []struct {
		name    string
		amount  string
		status  constants.CheckStatus
		message string
	}{
		{"unparsable", "twelve dollars", constants.CheckFail, "is not a valid number"},
		{"over limit", "$5,000.01", constants.CheckFail, "exceeds the"},
		{"zero", "$0.00", constants.CheckFail, "greater than $0"},
		{"negative", "-50.00", constants.CheckFail, "greater than $0"},
		{"at limit", "$5,000.00", constants.CheckPass, "within limits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := completeRecord()
			rec.ClaimAmount = tt.amount
			_, results := e.Verify(rec)
			require.Len(t, results, 2, "exactly one amount entry")
			assert.Equal(t, tt.status, results[1].Status)
			assert.Contains(t, results[1].Message, tt.message)
		})
	}
}

func TestVerify_PolicyFailureDoesNotShortCircuitAmountCheck(t *testing.T) {
	e := NewEngine(testRefs(), nil)
	rec := completeRecord()
	rec.PolicyNumber = "X-999"

	verdict, results := e.Verify(rec)
	assert.Equal(t, constants.VerdictRejected, verdict)
	require.Len(t, results, 2)
	assert.Equal(t, constants.CheckFail, results[0].Status)
	assert.Equal(t, constants.CheckPass, results[1].Status)
}

func TestVerify_DoesNotMutateRecord(t *testing.T) {
	e := NewEngine(testRefs(), nil)
	rec := completeRecord()
	before := rec.Fields()
	_, _ = e.Verify(rec)
	assert.Equal(t, before, rec.Fields())
}
