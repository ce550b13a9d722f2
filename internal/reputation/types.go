package reputation

// Status qualifies a reputation lookup outcome.
type Status string

const (
	StatusInfo    Status = "info"
	StatusWarning Status = "warning"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ProviderStats is the external reputation payload consumed by the
// recommendation synthesizer. Opaque to the decision core beyond these
// fields.
type ProviderStats struct {
	Status  Status `json:"status"`
	Summary string `json:"summary"`
	Details string `json:"details,omitempty"`
}
