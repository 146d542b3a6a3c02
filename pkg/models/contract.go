package models

// Governance metadata attached to a contract or an individual term.
type Governance struct {
	Steward        string   `json:"steward,omitempty" yaml:"steward,omitempty"`
	ReviewCycle    string   `json:"review_cycle,omitempty" yaml:"review_cycle,omitempty"`
	Classification string   `json:"classification,omitempty" yaml:"classification,omitempty"`
	Tags           []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Term is a named business concept. Identity is ID; Name is display-only
// and not guaranteed unique across a contract.
type Term struct {
	ID                 string      `json:"id" yaml:"id"`
	Name               string      `json:"name" yaml:"name"`
	Description        string      `json:"description,omitempty" yaml:"description,omitempty"`
	Owner              string      `json:"owner,omitempty" yaml:"owner,omitempty"`
	Examples           []string    `json:"examples,omitempty" yaml:"examples,omitempty"`
	CounterExamples    []string    `json:"counter_examples,omitempty" yaml:"counter_examples,omitempty"`
	BusinessDefinition string      `json:"business_definition,omitempty" yaml:"business_definition,omitempty"`
	Governance         *Governance `json:"governance,omitempty" yaml:"governance,omitempty"`
}

// MappingRule binds one Term to one backend object. Expression is an
// opaque backend-specific filter string and is never parsed by the engine.
// Every entry in Fields should have a key in FieldMappings; the gap
// between the two feeds completeness scoring.
type MappingRule struct {
	ID            string            `json:"id" yaml:"id"`
	TermID        string            `json:"term_id" yaml:"term_id"`
	SourceID      string            `json:"source_id" yaml:"source_id"`
	Object        string            `json:"object" yaml:"object"`
	Expression    string            `json:"expression,omitempty" yaml:"expression,omitempty"`
	Fields        []string          `json:"fields,omitempty" yaml:"fields,omitempty"`
	FieldMappings map[string]string `json:"field_mappings" yaml:"field_mappings"`
}

// Constraints are contract-wide query bounds.
type Constraints struct {
	DefaultLimit int    `json:"default_limit,omitempty" yaml:"default_limit,omitempty"`
	MaxLimit     int    `json:"max_limit,omitempty" yaml:"max_limit,omitempty"`
	Timezone     string `json:"timezone,omitempty" yaml:"timezone,omitempty"`
}

// SemanticContract is the governing set of business terms and mapping
// rules plus global constraints. Owned by the contract store; this engine
// only reads it.
type SemanticContract struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Terms       []Term        `json:"terms" yaml:"terms"`
	Rules       []MappingRule `json:"rules" yaml:"rules"`
	Constraints *Constraints  `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Governance  *Governance   `json:"governance,omitempty" yaml:"governance,omitempty"`
}

// TermByID returns the term with the given ID, or nil.
func (c *SemanticContract) TermByID(id string) *Term {
	for i := range c.Terms {
		if c.Terms[i].ID == id {
			return &c.Terms[i]
		}
	}
	return nil
}

// Definitions returns the full term-name to description map carried in
// response envelopes. It is intentionally not filtered to the terms a
// query touched.
func (c *SemanticContract) Definitions() map[string]string {
	defs := make(map[string]string, len(c.Terms))
	for _, t := range c.Terms {
		desc := t.Description
		if t.BusinessDefinition != "" {
			desc = t.BusinessDefinition
		}
		defs[t.Name] = desc
	}
	return defs
}

// DataSourceRef describes a registered backend source. Config carries the
// adapter-specific connection settings (host, credentials, base URL).
type DataSourceRef struct {
	ID     string         `json:"id" yaml:"id"`
	Name   string         `json:"name" yaml:"name"`
	Kind   string         `json:"kind" yaml:"kind"` // "sql", "rest", "crm"
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}
