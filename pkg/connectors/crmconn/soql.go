package crmconn

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// BuildSOQL renders a NativeQuery as a SOQL statement. SOQL has no bind
// parameters over the REST query endpoint, so literals are escaped and
// identifiers validated before interpolation.
func BuildSOQL(q models.NativeQuery) (string, error) {
	if !identPattern.MatchString(q.Object) {
		return "", fmt.Errorf("invalid object identifier: %q", q.Object)
	}
	for _, col := range q.Columns {
		if !identPattern.MatchString(col) {
			return "", fmt.Errorf("invalid column identifier: %q", col)
		}
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(q.Columns, ", "))
	b.WriteString(" FROM ")
	b.WriteString(q.Object)

	var conds []string
	for _, cond := range q.Conds {
		if !identPattern.MatchString(cond.Field) {
			return "", fmt.Errorf("invalid filter identifier: %q", cond.Field)
		}
		rendered, err := renderCond(cond)
		if err != nil {
			return "", err
		}
		conds = append(conds, rendered)
	}
	if q.Filter != "" {
		conds = append(conds, q.Filter)
	}
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}

	if q.OrderBy != "" {
		if !identPattern.MatchString(q.OrderBy) {
			return "", fmt.Errorf("invalid order-by identifier: %q", q.OrderBy)
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(q.OrderBy)
		if q.Descending {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
	}

	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}

	return b.String(), nil
}

func renderCond(cond models.Cond) (string, error) {
	switch cond.Op {
	case "=", "!=", ">", ">=", "<", "<=", "LIKE":
		return fmt.Sprintf("%s %s %s", cond.Field, cond.Op, renderLiteral(cond.Value)), nil
	case "IN":
		values, ok := cond.Value.([]any)
		if !ok {
			values = []any{cond.Value}
		}
		rendered := make([]string, len(values))
		for i, v := range values {
			rendered[i] = renderLiteral(v)
		}
		return fmt.Sprintf("%s IN (%s)", cond.Field, strings.Join(rendered, ", ")), nil
	default:
		return "", fmt.Errorf("unsupported operator: %s", cond.Op)
	}
}

// renderLiteral escapes a value for inline SOQL. Strings get single-quote
// and backslash escaping; numbers and booleans render bare.
func renderLiteral(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return fmt.Sprintf("%t", val)
	case int, int32, int64, float32, float64:
		return fmt.Sprint(val)
	default:
		s := fmt.Sprint(val)
		s = strings.ReplaceAll(s, `\`, `\\`)
		s = strings.ReplaceAll(s, `'`, `\'`)
		return "'" + s + "'"
	}
}
