package constants

// NotFound is the sentinel stored for a claim field that was sought but not
// located. Downstream checks rely on every field key being present with this
// value rather than being absent.
const NotFound = "Not Found"

// Canonical field keys for a claim record, in display order.
const (
	FieldPatientName       = "Patient Name"
	FieldPolicyNumber      = "Policy Number"
	FieldClaimAmount       = "Claim Amount"
	FieldDateOfService     = "Date of Service"
	FieldInsuranceProvider = "Insurance Provider"
	FieldPatientAge        = "Patient Age"
)

// FieldKeys lists every claim field key. Order is stable and matches the
// display order on the original claim form.
var FieldKeys = []string{
	FieldPatientName,
	FieldPolicyNumber,
	FieldClaimAmount,
	FieldDateOfService,
	FieldInsuranceProvider,
	FieldPatientAge,
}
