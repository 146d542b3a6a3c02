package sqlconn

import (
	"fmt"
	"regexp"

	"github.com/huandu/go-sqlbuilder"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

// identPattern accepts bare or dot-qualified identifiers. Anything else in
// an object, column, or order-by position is rejected before it can reach
// query text.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// BuildSelect renders a NativeQuery as a parameterized SELECT in the given
// flavor. Values are always bound as arguments; only validated identifiers
// and the contract-authored filter expression appear in the text.
func BuildSelect(q models.NativeQuery, flavor sqlbuilder.Flavor) (string, []any, error) {
	if !identPattern.MatchString(q.Object) {
		return "", nil, fmt.Errorf("invalid object identifier: %q", q.Object)
	}
	for _, col := range q.Columns {
		if !identPattern.MatchString(col) {
			return "", nil, fmt.Errorf("invalid column identifier: %q", col)
		}
	}

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(q.Columns...)
	sb.From(q.Object)

	for _, cond := range q.Conds {
		if !identPattern.MatchString(cond.Field) {
			return "", nil, fmt.Errorf("invalid filter identifier: %q", cond.Field)
		}
		expr, err := condExpr(sb, cond)
		if err != nil {
			return "", nil, err
		}
		sb.Where(expr)
	}

	// Rule expressions are opaque backend filters written by contract
	// operators; they are appended verbatim, not parameterized.
	if q.Filter != "" {
		sb.Where(q.Filter)
	}

	if q.OrderBy != "" {
		if !identPattern.MatchString(q.OrderBy) {
			return "", nil, fmt.Errorf("invalid order-by identifier: %q", q.OrderBy)
		}
		sb.OrderBy(q.OrderBy)
		if q.Descending {
			sb.Desc()
		} else {
			sb.Asc()
		}
	}

	if q.Limit > 0 {
		sb.Limit(q.Limit)
	}

	query, args := sb.BuildWithFlavor(flavor)
	return query, args, nil
}

func condExpr(sb *sqlbuilder.SelectBuilder, cond models.Cond) (string, error) {
	switch cond.Op {
	case "=":
		return sb.Equal(cond.Field, cond.Value), nil
	case "!=":
		return sb.NotEqual(cond.Field, cond.Value), nil
	case ">":
		return sb.GreaterThan(cond.Field, cond.Value), nil
	case ">=":
		return sb.GreaterEqualThan(cond.Field, cond.Value), nil
	case "<":
		return sb.LessThan(cond.Field, cond.Value), nil
	case "<=":
		return sb.LessEqualThan(cond.Field, cond.Value), nil
	case "LIKE":
		return sb.Like(cond.Field, cond.Value), nil
	case "IN":
		values, ok := cond.Value.([]any)
		if !ok {
			values = []any{cond.Value}
		}
		return sb.In(cond.Field, values...), nil
	default:
		return "", fmt.Errorf("unsupported operator: %s", cond.Op)
	}
}
