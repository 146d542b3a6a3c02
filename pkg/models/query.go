package models

// Sort directions accepted in CanonicalQuery.OrderBy.
const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)

// WhereClause is a single backend-agnostic filter predicate expressed in
// semantic field terms.
type WhereClause struct {
	Field string `json:"field" validate:"required"`
	Op    string `json:"op" validate:"required,oneof== != > >= < <= LIKE IN"`
	Value any    `json:"value"`
}

// OrderBy requests result ordering on a semantic field.
type OrderBy struct {
	Field     string `json:"field" validate:"required"`
	Direction string `json:"direction" validate:"omitempty,oneof=ASC DESC"`
}

// CanonicalQuery is a backend-agnostic request over business vocabulary.
// Object is matched against MappingRule.Object case-insensitively, exact
// match first with a substring fallback.
type CanonicalQuery struct {
	Object  string        `json:"object" validate:"required"`
	Select  []string      `json:"select" validate:"required,min=1,dive,required"`
	Where   []WhereClause `json:"where,omitempty" validate:"omitempty,dive"`
	OrderBy *OrderBy      `json:"order_by,omitempty"`
	Limit   int           `json:"limit,omitempty" validate:"gte=0"`
}

// SafePlan is a compiled, backend-specific, bounded query ready for
// dispatch. Fields holds the concrete field tokens extracted from the
// rule's mapping expressions (an over-approximation used for policy
// checks), not the semantic field names.
type SafePlan struct {
	SourceID    string      `json:"source_id"`
	RuleID      string      `json:"rule_id"`
	NativeQuery NativeQuery `json:"native_query"`
	Operators   []string    `json:"operators"`
	Fields      []string    `json:"fields"`
}

// Cond is one compiled predicate over a concrete backend field. Values
// stay typed so adapters can bind them as parameters instead of splicing
// them into query text.
type Cond struct {
	Field string `json:"field"`
	Op    string `json:"op"`
	Value any    `json:"value"`
}

// NativeQuery is the compiled, source-specific payload of a SafePlan.
// Field names are concrete (post-mapping); each adapter renders the query
// text in its own dialect and owns safe parameterization. Filter carries
// the rule's opaque backend filter expression verbatim; it is authored by
// contract operators, not by query callers.
type NativeQuery struct {
	Object     string   `json:"object"`
	Columns    []string `json:"columns"`
	Conds      []Cond   `json:"conds,omitempty"`
	Filter     string   `json:"filter,omitempty"`
	OrderBy    string   `json:"order_by,omitempty"`
	Descending bool     `json:"descending,omitempty"`
	Limit      int      `json:"limit"`
}
