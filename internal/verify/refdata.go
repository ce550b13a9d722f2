package verify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/claimsight/claim-analyzer/internal/common"
)

// DefaultMaxClaimAmount applies when the limits document omits the cap.
const DefaultMaxClaimAmount = 5000.00

// ReferenceData holds the two lookup sets verification depends on: the set
// of valid policy numbers and the procedure limits. Loaded once, read-only
// afterward, safe to share across requests.
type ReferenceData struct {
	policies       map[string]struct{}
	MaxClaimAmount float64
}

func policiesSchema() map[string]any {
	return map[string]any{
		"type":     "array",
		"items":    map[string]any{"type": "string", "minLength": 1},
		"minItems": 1,
	}
}

func limitsSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"max_claim_amount": map[string]any{"type": "number", "exclusiveMinimum": 0},
		},
		"required": []string{"max_claim_amount"},
	}
}

// LoadReferenceData reads and validates the two JSON documents. A missing or
// malformed document is a hard failure; verification cannot run without both.
func LoadReferenceData(policiesPath, limitsPath string, logger *slog.Logger) (*ReferenceData, error) {
	if logger == nil {
		logger = slog.Default()
	}

	policiesRaw, err := os.ReadFile(policiesPath)
	if err != nil {
		logger.Error("refdata.policies.read_failed", "path", policiesPath, "error", err)
		return nil, common.WrapError(err, "read policies database")
	}
	if err := common.ValidateJSONAgainstSchema(policiesSchema(), policiesRaw); err != nil {
		logger.Error("refdata.policies.invalid", "path", policiesPath, "error", err)
		return nil, common.WrapError(err, "validate policies database")
	}
	var policyList []string
	if err := json.Unmarshal(policiesRaw, &policyList); err != nil {
		return nil, common.WrapError(err, "decode policies database")
	}

	limitsRaw, err := os.ReadFile(limitsPath)
	if err != nil {
		logger.Error("refdata.limits.read_failed", "path", limitsPath, "error", err)
		return nil, common.WrapError(err, "read procedures database")
	}
	if err := common.ValidateJSONAgainstSchema(limitsSchema(), limitsRaw); err != nil {
		logger.Error("refdata.limits.invalid", "path", limitsPath, "error", err)
		return nil, common.WrapError(err, "validate procedures database")
	}
	var limits struct {
		MaxClaimAmount float64 `json:"max_claim_amount"`
	}
	if err := json.Unmarshal(limitsRaw, &limits); err != nil {
		return nil, common.WrapError(err, "decode procedures database")
	}
	if limits.MaxClaimAmount <= 0 {
		limits.MaxClaimAmount = DefaultMaxClaimAmount
	}

	policies := make(map[string]struct{}, len(policyList))
	for _, p := range policyList {
		policies[p] = struct{}{}
	}

	logger.Info("refdata.loaded",
		"policies", len(policies),
		"max_claim_amount", limits.MaxClaimAmount,
	)
	return &ReferenceData{policies: policies, MaxClaimAmount: limits.MaxClaimAmount}, nil
}

// NewReferenceData builds reference data directly from values, for tests and
// embedded deployments.
func NewReferenceData(policyNumbers []string, maxClaimAmount float64) *ReferenceData {
	policies := make(map[string]struct{}, len(policyNumbers))
	for _, p := range policyNumbers {
		policies[p] = struct{}{}
	}
	if maxClaimAmount <= 0 {
		maxClaimAmount = DefaultMaxClaimAmount
	}
	return &ReferenceData{policies: policies, MaxClaimAmount: maxClaimAmount}
}

// ValidPolicy reports exact membership in the valid-policy set.
func (r *ReferenceData) ValidPolicy(policyNumber string) bool {
	_, ok := r.policies[policyNumber]
	return ok
}

func (r *ReferenceData) String() string {
	return fmt.Sprintf("refdata(policies=%d, max=%.2f)", len(r.policies), r.MaxClaimAmount)
}
