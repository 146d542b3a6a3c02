package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDoc = `
contract:
  id: contract-sales
  name: Sales Vocabulary
  terms:
    - id: term-customer
      name: Customer
      business_definition: A buying organization
      owner: data-team
      examples: ["Acme Corp"]
  rules:
    - id: rule-customers
      term_id: term-customer
      source_id: warehouse
      object: customers
      expression: "deleted_at IS NULL"
      field_mappings:
        id: customers.id
        name: customers.name
  constraints:
    default_limit: 50
    max_limit: 200
sources:
  - id: warehouse
    name: Sales Warehouse
    kind: sql
    config:
      dialect: postgres
      host: pg.internal
      database: sales
`

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contract.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	doc, err := LoadFile(writeDoc(t, validDoc))
	require.NoError(t, err)

	assert.Equal(t, "contract-sales", doc.Contract.ID)
	require.Len(t, doc.Contract.Terms, 1)
	assert.Equal(t, "A buying organization", doc.Contract.Terms[0].BusinessDefinition)

	require.Len(t, doc.Contract.Rules, 1)
	rule := doc.Contract.Rules[0]
	assert.Equal(t, "term-customer", rule.TermID)
	assert.Equal(t, "deleted_at IS NULL", rule.Expression)
	assert.Equal(t, "customers.id", rule.FieldMappings["id"])

	require.NotNil(t, doc.Contract.Constraints)
	assert.Equal(t, 200, doc.Contract.Constraints.MaxLimit)

	require.Len(t, doc.Sources, 1)
	assert.Equal(t, "sql", doc.Sources[0].Kind)
	assert.Equal(t, "postgres", doc.Sources[0].Config["dialect"])
}

func TestLoadFileMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadFileRejectsMalformedYAML(t *testing.T) {
	_, err := LoadFile(writeDoc(t, "contract: [not: a: mapping"))
	assert.Error(t, err)
}

func TestLoadFileRejectsUnknownTermReference(t *testing.T) {
	doc := `
contract:
  id: c1
  terms:
    - id: term-customer
      name: Customer
  rules:
    - id: r1
      term_id: term-ghost
      source_id: warehouse
      object: customers
sources:
  - id: warehouse
    kind: sql
`
	_, err := LoadFile(writeDoc(t, doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "term-ghost")
}

func TestLoadFileRejectsUnknownSourceReference(t *testing.T) {
	doc := `
contract:
  id: c1
  terms:
    - id: term-customer
      name: Customer
  rules:
    - id: r1
      term_id: term-customer
      source_id: missing-db
      object: customers
sources: []
`
	_, err := LoadFile(writeDoc(t, doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing-db")
}

func TestLoadFileRequiresContractID(t *testing.T) {
	_, err := LoadFile(writeDoc(t, "contract:\n  name: anonymous\n"))
	assert.Error(t, err)
}
