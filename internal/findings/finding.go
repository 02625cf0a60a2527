// Package findings renders classified diff deltas into the reporting shape
// consumed by every downstream surface. Field names are part of the output
// contract and must not change.
package findings

// Finding is one reportable breaking change in one file.
type Finding struct {
	Type        string            `json:"type"`
	Severity    string            `json:"severity"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	FilePath    string            `json:"filePath"`
	Remediation string            `json:"remediation"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

const (
	TypeBreakingAPI = "BREAKING_API"
	SeverityHigh    = "HIGH"
)
