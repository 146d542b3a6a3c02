package contract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/apperrors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

func seedContract() models.SemanticContract {
	return models.SemanticContract{
		ID:   "contract-1",
		Name: "Sales",
		Terms: []models.Term{
			{ID: "t1", Name: "Customer"},
		},
		Rules: []models.MappingRule{
			{ID: "r1", TermID: "t1", SourceID: "warehouse", Object: "customers",
				FieldMappings: map[string]string{"id": "customers.id"}},
		},
	}
}

func TestMemoryRegistryContractRoundTrip(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()

	_, err := reg.GetContract(ctx)
	assert.ErrorIs(t, err, apperrors.ErrContractNotSet)

	require.NoError(t, reg.SetContract(ctx, seedContract()))

	got, err := reg.GetContract(ctx)
	require.NoError(t, err)
	assert.Equal(t, "contract-1", got.ID)

	terms, err := reg.ListTerms(ctx)
	require.NoError(t, err)
	assert.Len(t, terms, 1)

	rules, err := reg.ListRules(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}

func TestMemoryRegistryRejectsContractWithoutID(t *testing.T) {
	reg := NewMemoryRegistry()
	assert.Error(t, reg.SetContract(context.Background(), models.SemanticContract{Name: "anonymous"}))
}

func TestMemoryRegistrySourcesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()

	require.NoError(t, reg.UpsertSource(ctx, models.DataSourceRef{ID: "warehouse", Kind: "sql"}))
	require.NoError(t, reg.UpsertSource(ctx, models.DataSourceRef{ID: "crm", Kind: "crm"}))
	require.NoError(t, reg.UpsertSource(ctx, models.DataSourceRef{ID: "warehouse", Kind: "sql", Name: "renamed"}))

	sources, err := reg.GetSources(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 2, "upserting an existing id replaces, not appends")
	assert.Equal(t, "warehouse", sources[0].ID)
	assert.Equal(t, "renamed", sources[0].Name)
	assert.Equal(t, "crm", sources[1].ID)
}

func TestMemoryRegistryUpsertTerm(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()

	err := reg.UpsertTerm(ctx, models.Term{ID: "t2", Name: "Order"})
	assert.ErrorIs(t, err, apperrors.ErrContractNotSet)

	require.NoError(t, reg.SetContract(ctx, seedContract()))
	require.NoError(t, reg.UpsertTerm(ctx, models.Term{ID: "t2", Name: "Order"}))
	require.NoError(t, reg.UpsertTerm(ctx, models.Term{ID: "t1", Name: "Account"}))

	terms, err := reg.ListTerms(ctx)
	require.NoError(t, err)
	require.Len(t, terms, 2)
	assert.Equal(t, "Account", terms[0].Name, "matching id updates in place")
}

func TestMemoryRegistryUpsertRule(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()
	require.NoError(t, reg.SetContract(ctx, seedContract()))

	require.NoError(t, reg.UpsertRule(ctx, models.MappingRule{
		ID: "r1", TermID: "t1", SourceID: "crm", Object: "Account",
		FieldMappings: map[string]string{"id": "Account.Id"},
	}))

	rules, err := reg.ListRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "crm", rules[0].SourceID)

	assert.Error(t, reg.UpsertRule(ctx, models.MappingRule{TermID: "t1"}), "rule id is required")
}

func TestMemoryRegistryGetContractCopies(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()
	require.NoError(t, reg.SetContract(ctx, seedContract()))

	first, err := reg.GetContract(ctx)
	require.NoError(t, err)
	first.ID = "mutated"

	second, err := reg.GetContract(ctx)
	require.NoError(t, err)
	assert.Equal(t, "contract-1", second.ID)
}
