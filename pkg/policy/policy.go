// Package policy defines the per-plan authorization collaborator. The
// compiler's SafePlan output (operators plus concrete fields) is exactly
// the shape a Checker inspects.
package policy

import (
	"context"
	"fmt"
)

// PlanCheck is the question asked about one compiled plan before dispatch.
type PlanCheck struct {
	Object       string   `json:"object"`
	Fields       []string `json:"fields"`
	Operators    []string `json:"operators"`
	PIIRequested bool     `json:"pii_requested"`
	Tenant       string   `json:"tenant"`
	Role         string   `json:"role"`
}

// Decision is the checker's verdict.
type Decision struct {
	Allow  bool   `json:"allow"`
	Reason string `json:"reason,omitempty"`
}

// Checker decides whether a plan may execute.
type Checker interface {
	Decide(ctx context.Context, check PlanCheck) (Decision, error)
}

// AllowAll permits every plan. The default when no policy is configured.
type AllowAll struct{}

func (AllowAll) Decide(_ context.Context, _ PlanCheck) (Decision, error) {
	return Decision{Allow: true}, nil
}

// DenyList blocks plans touching any listed field or operator. Field
// matching is exact on the concrete tokens the compiler extracted.
type DenyList struct {
	Fields    map[string]bool
	Operators map[string]bool
}

// NewDenyList builds a DenyList from field and operator names.
func NewDenyList(fields, operators []string) *DenyList {
	d := &DenyList{
		Fields:    make(map[string]bool, len(fields)),
		Operators: make(map[string]bool, len(operators)),
	}
	for _, f := range fields {
		d.Fields[f] = true
	}
	for _, op := range operators {
		d.Operators[op] = true
	}
	return d
}

func (d *DenyList) Decide(_ context.Context, check PlanCheck) (Decision, error) {
	for _, field := range check.Fields {
		if d.Fields[field] {
			return Decision{Allow: false, Reason: fmt.Sprintf("field %q is restricted", field)}, nil
		}
	}
	for _, op := range check.Operators {
		if d.Operators[op] {
			return Decision{Allow: false, Reason: fmt.Sprintf("operator %q is restricted", op)}, nil
		}
	}
	return Decision{Allow: true}, nil
}

var (
	_ Checker = AllowAll{}
	_ Checker = (*DenyList)(nil)
)
