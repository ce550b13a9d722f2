package extract

import (
	"github.com/claimsight/claim-analyzer/constants"
)

// FieldRecord is the canonical claim snapshot produced by extraction.
// Every field is always present; a field that was sought but not located
// holds the constants.NotFound sentinel, never an empty string. The record
// is constructed once per document and not mutated afterward.
type FieldRecord struct {
	PatientName       string `json:"patient_name"`
	PolicyNumber      string `json:"policy_number"`
	ClaimAmount       string `json:"claim_amount"` // original formatted form, e.g. "$1,500.00"
	DateOfService     string `json:"date_of_service"`
	InsuranceProvider string `json:"insurance_provider"`
	PatientAge        string `json:"patient_age"` // 1-2 digits, or the sentinel

	// Err is set only when the recognition model was unavailable; callers
	// must check it before consuming any other field.
	Err string `json:"error,omitempty"`
}

// NewFieldRecord returns a record with every field initialized to the
// NotFound sentinel.
func NewFieldRecord() FieldRecord {
	return FieldRecord{
		PatientName:       constants.NotFound,
		PolicyNumber:      constants.NotFound,
		ClaimAmount:       constants.NotFound,
		DateOfService:     constants.NotFound,
		InsuranceProvider: constants.NotFound,
		PatientAge:        constants.NotFound,
	}
}

// ErrorRecord is the sentinel record returned when the recognizer failed to
// load. It carries no claim fields.
func ErrorRecord(msg string) FieldRecord {
	return FieldRecord{Err: msg}
}

// Fields returns the record as a uniformly-keyed map in canonical order
// alignment with constants.FieldKeys.
func (r FieldRecord) Fields() map[string]string {
	return map[string]string{
		constants.FieldPatientName:       r.PatientName,
		constants.FieldPolicyNumber:      r.PolicyNumber,
		constants.FieldClaimAmount:       r.ClaimAmount,
		constants.FieldDateOfService:     r.DateOfService,
		constants.FieldInsuranceProvider: r.InsuranceProvider,
		constants.FieldPatientAge:        r.PatientAge,
	}
}

// Complete reports whether every field was located.
func (r FieldRecord) Complete() bool {
	for _, v := range r.Fields() {
		if v == constants.NotFound {
			return false
		}
	}
	return true
}

// AmountValue derives the numeric claim amount on demand. The formatted
// string stays the single source of truth; nothing stores the float.
func (r FieldRecord) AmountValue() (float64, bool) {
	if r.ClaimAmount == constants.NotFound {
		return 0, false
	}
	return ParseMoney(r.ClaimAmount)
}

// AgeYears derives the patient age on demand; false when the field holds the
// sentinel.
func (r FieldRecord) AgeYears() (int, bool) {
	if r.PatientAge == constants.NotFound {
		return 0, false
	}
	return ParseAge(r.PatientAge)
}
