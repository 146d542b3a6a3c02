package sqlconn

import (
	"testing"

	"github.com/huandu/go-sqlbuilder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

func baseQuery() models.NativeQuery {
	return models.NativeQuery{
		Object:  "customers",
		Columns: []string{"customers.id", "customers.name"},
		Limit:   10,
	}
}

func TestBuildSelectPostgres(t *testing.T) {
	q := baseQuery()
	q.Conds = []models.Cond{
		{Field: "customers.region", Op: "=", Value: "EMEA"},
		{Field: "customers.name", Op: "LIKE", Value: "A%"},
	}
	q.OrderBy = "customers.name"
	q.Descending = true

	sql, args, err := BuildSelect(q, sqlbuilder.PostgreSQL)
	require.NoError(t, err)

	assert.Contains(t, sql, "SELECT customers.id, customers.name")
	assert.Contains(t, sql, "FROM customers")
	assert.Contains(t, sql, "WHERE")
	assert.Contains(t, sql, "$1", "values bind as numbered placeholders")
	assert.Contains(t, sql, "ORDER BY customers.name DESC")
	assert.Contains(t, sql, "LIMIT")
	assert.Equal(t, []any{"EMEA", "A%"}, args)
	assert.NotContains(t, sql, "EMEA", "literal values never appear in query text")
}

func TestBuildSelectAllOperators(t *testing.T) {
	ops := []struct {
		op    string
		value any
	}{
		{"=", "x"}, {"!=", "x"}, {">", 1}, {">=", 1},
		{"<", 1}, {"<=", 1}, {"LIKE", "x%"},
	}
	for _, tt := range ops {
		q := baseQuery()
		q.Conds = []models.Cond{{Field: "customers.region", Op: tt.op, Value: tt.value}}
		sql, args, err := BuildSelect(q, sqlbuilder.PostgreSQL)
		require.NoError(t, err, "operator %s", tt.op)
		assert.Contains(t, sql, "customers.region")
		assert.Equal(t, []any{tt.value}, args)
	}
}

func TestBuildSelectInExpandsValues(t *testing.T) {
	q := baseQuery()
	q.Conds = []models.Cond{{Field: "customers.region", Op: "IN", Value: []any{"EMEA", "APAC"}}}

	sql, args, err := BuildSelect(q, sqlbuilder.PostgreSQL)
	require.NoError(t, err)
	assert.Contains(t, sql, "IN")
	assert.Equal(t, []any{"EMEA", "APAC"}, args)
}

func TestBuildSelectInWrapsScalar(t *testing.T) {
	q := baseQuery()
	q.Conds = []models.Cond{{Field: "customers.region", Op: "IN", Value: "EMEA"}}

	_, args, err := BuildSelect(q, sqlbuilder.PostgreSQL)
	require.NoError(t, err)
	assert.Equal(t, []any{"EMEA"}, args)
}

func TestBuildSelectAppendsRuleFilterVerbatim(t *testing.T) {
	q := baseQuery()
	q.Filter = "deleted_at IS NULL"

	sql, _, err := BuildSelect(q, sqlbuilder.PostgreSQL)
	require.NoError(t, err)
	assert.Contains(t, sql, "deleted_at IS NULL")
}

func TestBuildSelectSQLServerPlaceholders(t *testing.T) {
	q := baseQuery()
	q.Conds = []models.Cond{{Field: "customers.region", Op: "=", Value: "EMEA"}}
	q.OrderBy = "customers.id"

	sql, args, err := BuildSelect(q, sqlbuilder.SQLServer)
	require.NoError(t, err)
	assert.Contains(t, sql, "@p1")
	assert.Equal(t, []any{"EMEA"}, args)
}

func TestBuildSelectRejectsHostileIdentifiers(t *testing.T) {
	cases := []models.NativeQuery{
		{Object: "customers; DROP TABLE users", Columns: []string{"id"}},
		{Object: "customers", Columns: []string{"id, (SELECT 1)"}},
		{Object: "customers", Columns: []string{"id"}, Conds: []models.Cond{
			{Field: "1=1 OR region", Op: "=", Value: "x"},
		}},
		{Object: "customers", Columns: []string{"id"}, OrderBy: "name; --"},
	}
	for _, q := range cases {
		_, _, err := BuildSelect(q, sqlbuilder.PostgreSQL)
		assert.Error(t, err)
	}
}

func TestBuildSelectRejectsUnknownOperator(t *testing.T) {
	q := baseQuery()
	q.Conds = []models.Cond{{Field: "customers.region", Op: "BETWEEN", Value: "x"}}

	_, _, err := BuildSelect(q, sqlbuilder.PostgreSQL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BETWEEN")
}
