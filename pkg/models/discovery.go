package models

// FieldSchema describes one field of a discovered object.
type FieldSchema struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// ObjectSchema describes one object (table, endpoint, entity) exposed by a
// backend, either self-reported or inferred from samples.
type ObjectSchema struct {
	Name   string        `json:"name"`
	Fields []FieldSchema `json:"fields"`
	Hints  []string      `json:"hints,omitempty"`
}

// DiscoverySummary is a connector's schema snapshot.
type DiscoverySummary struct {
	Objects []ObjectSchema `json:"objects"`
}

// Object returns the schema for the named object, or nil.
func (s *DiscoverySummary) Object(name string) *ObjectSchema {
	for i := range s.Objects {
		if s.Objects[i].Name == name {
			return &s.Objects[i]
		}
	}
	return nil
}

// HasField reports whether the object exposes the named field.
func (o *ObjectSchema) HasField(name string) bool {
	for _, f := range o.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// ValueCount is one entry of a field profile's top-values list.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FieldProfile is a statistical sketch of one column computed from sampled
// rows. Ephemeral: produced for human review, never persisted.
type FieldProfile struct {
	Name          string       `json:"name"`
	NullRatio     float64      `json:"null_ratio"`
	DistinctCount int          `json:"distinct_count,omitempty"`
	TopValues     []ValueCount `json:"top_values,omitempty"`
	TypeGuess     string       `json:"type_guess,omitempty"`
}
