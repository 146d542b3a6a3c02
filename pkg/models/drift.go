package models

import "time"

// Drift types produced by the detector.
const (
	DriftSchemaChange        = "schema_change"
	DriftFieldRemoval        = "field_removal"
	DriftConstraintViolation = "constraint_violation"
)

// Drift severities, ordered by weight for sorting.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// SeverityWeight returns the sort weight of a severity; unknown severities
// sort last.
func SeverityWeight(severity string) int {
	switch severity {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// SemanticDrift is one detected mismatch between a contract's assumptions
// and the live backend schema. Produced fresh on every detection run; has
// no lifecycle of its own unless persisted externally.
type SemanticDrift struct {
	ID          string     `json:"id"`
	TermID      string     `json:"term_id"`
	SourceID    string     `json:"source_id"`
	DetectedAt  time.Time  `json:"detected_at"`
	DriftType   string     `json:"drift_type"`
	Severity    string     `json:"severity"`
	Description string     `json:"description"`
	Impact      []string   `json:"impact,omitempty"`
	Resolution  string     `json:"resolution,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}
