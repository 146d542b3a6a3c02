package models

import "time"

// LineageStep records which source, object, and fields produced a slice of
// a response. One step per executed plan, appended in plan order.
type LineageStep struct {
	SourceID string   `json:"source_id"`
	Object   string   `json:"object"`
	Fields   []string `json:"fields"`
	Filter   any      `json:"filter,omitempty"`
	Query    any      `json:"query,omitempty"`
}

// Lineage is the ordered provenance record for one engine run. RunID is a
// process-generated opaque token used for correlation, not a strict UUID
// contract with callers.
type Lineage struct {
	RunID     string        `json:"run_id"`
	Timestamp time.Time     `json:"timestamp"`
	Steps     []LineageStep `json:"steps"`
}

// SourceTagField is injected into every merged row so consumers can
// disambiguate overlapping field names across sources.
const SourceTagField = "__source"

// ResponseEnvelope is the engine's merged result: rows from every plan,
// the lineage that produced them, the contract's term definitions, and
// any non-fatal notes (partial failures, lineage emit problems).
type ResponseEnvelope struct {
	Data        []map[string]any  `json:"data"`
	Lineage     Lineage           `json:"lineage"`
	Definitions map[string]string `json:"definitions,omitempty"`
	Notes       []string          `json:"notes,omitempty"`
}

// QueryHistoryEntry is one executed query plus its lineage, as supplied by
// callers of the debt assessor. Only the lineage shape matters here; the
// engine does not persist history itself.
type QueryHistoryEntry struct {
	Query      CanonicalQuery `json:"query"`
	Lineage    Lineage        `json:"lineage"`
	ExecutedAt time.Time      `json:"executed_at"`
}
