package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/claimsight/claim-analyzer/constants"
	"github.com/claimsight/claim-analyzer/internal/extract"
	"github.com/claimsight/claim-analyzer/internal/reputation"
	"github.com/claimsight/claim-analyzer/internal/verify"
)

// Claim represents an analyzed claim for data transfer between layers.
// Field values keep their extracted string form; numeric views are derived
// through the record accessors, never stored.
type Claim struct {
	ID       uuid.UUID `json:"id"`
	JobID    uuid.UUID `json:"job_id"`
	Filename string    `json:"filename"`

	PatientName       string `json:"patient_name"`
	PolicyNumber      string `json:"policy_number"`
	ClaimAmount       string `json:"claim_amount"`
	DateOfService     string `json:"date_of_service"`
	InsuranceProvider string `json:"insurance_provider"`
	PatientAge        string `json:"patient_age"`

	Verdict constants.Verdict    `json:"verdict"`
	Checks  []verify.CheckResult `json:"checks"`

	Reputation      *reputation.ProviderStats `json:"reputation,omitempty"`
	Recommendations []string                  `json:"recommendations,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Record rebuilds the field record view of the claim.
func (c *Claim) Record() extract.FieldRecord {
	return extract.FieldRecord{
		PatientName:       c.PatientName,
		PolicyNumber:      c.PolicyNumber,
		ClaimAmount:       c.ClaimAmount,
		DateOfService:     c.DateOfService,
		InsuranceProvider: c.InsuranceProvider,
		PatientAge:        c.PatientAge,
	}
}

// ChecksJSON serializes the check results for storage.
func (c *Claim) ChecksJSON() (json.RawMessage, error) {
	return json.Marshal(c.Checks)
}
