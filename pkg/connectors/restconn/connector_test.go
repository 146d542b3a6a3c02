package restconn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/apperrors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

func newTestConnector(t *testing.T, handler http.HandlerFunc, extra map[string]any) *Connector {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := map[string]any{"base_url": server.URL}
	for k, v := range extra {
		config[k] = v
	}
	conn, err := New(models.DataSourceRef{ID: "orders-api", Kind: "rest", Config: config}, nil)
	require.NoError(t, err)
	return conn
}

func TestExecuteEncodesFiltersAsQueryParams(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Write([]byte(`[{"id": 1, "status": "paid"}, {"id": 2, "status": "paid"}]`))
	}, nil)

	result, err := conn.Execute(context.Background(), models.NativeQuery{
		Object:  "orders",
		Columns: []string{"id", "status"},
		Conds: []models.Cond{
			{Field: "status", Op: "=", Value: "paid"},
			{Field: "amount", Op: ">=", Value: 100},
			{Field: "region", Op: "!=", Value: "test"},
		},
		OrderBy:    "placed_at",
		Descending: true,
		Limit:      50,
	})
	require.NoError(t, err)

	assert.Equal(t, "/orders", gotPath)
	assert.Equal(t, []string{"paid"}, gotQuery["status"], "equality uses the bare field name")
	assert.Equal(t, []string{"100"}, gotQuery["amount__gte"])
	assert.Equal(t, []string{"test"}, gotQuery["region__ne"])
	assert.Equal(t, []string{"50"}, gotQuery["limit"])
	assert.Equal(t, []string{"placed_at:desc"}, gotQuery["sort"])

	assert.Len(t, result.Rows, 2)
	assert.Equal(t, "orders-api", result.Step.SourceID)
	assert.Contains(t, result.Step.Query, "/orders?")
}

func TestExecuteEnforcesLimitLocally(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 1}, {"id": 2}, {"id": 3}]`))
	}, nil)

	result, err := conn.Execute(context.Background(), models.NativeQuery{
		Object:  "orders",
		Columns: []string{"id"},
		Limit:   2,
	})
	require.NoError(t, err)
	assert.Len(t, result.Rows, 2, "backends that ignore limit get truncated locally")
}

func TestExecuteUnwrapsEnvelopeResponses(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"id": "a"}], "total": 1}`))
	}, nil)

	result, err := conn.Execute(context.Background(), models.NativeQuery{
		Object:  "orders",
		Columns: []string{"id"},
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "a", result.Rows[0]["id"])
}

func TestExecuteSendsAPIKey(t *testing.T) {
	var gotAuth string
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}, map[string]any{"api_key": "key-42"})

	_, err := conn.Execute(context.Background(), models.NativeQuery{Object: "orders", Columns: []string{"id"}})
	require.NoError(t, err)
	assert.Equal(t, "Bearer key-42", gotAuth)
}

func TestExecuteErrorStatusIsConnectorUnavailable(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}, nil)

	_, err := conn.Execute(context.Background(), models.NativeQuery{Object: "orders", Columns: []string{"id"}})
	require.Error(t, err)

	var unavailable *apperrors.ConnectorUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, "orders-api", unavailable.SourceID)
}

func TestListEndpoints(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {}, map[string]any{
		"endpoints": []any{"orders", "refunds"},
	})

	endpoints, err := conn.ListEndpoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "refunds"}, endpoints)
}

func TestListEndpointsEmptyIsAnError(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {}, nil)
	_, err := conn.ListEndpoints(context.Background())
	assert.Error(t, err)
}

func TestSample(t *testing.T) {
	var gotLimit string
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`[{"id": 1}, {"id": 2}, {"id": 3}]`))
	}, nil)

	rows, err := conn.Sample(context.Background(), "orders", 2)
	require.NoError(t, err)
	assert.Equal(t, "2", gotLimit)
	assert.Len(t, rows, 2)
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(models.DataSourceRef{ID: "x", Config: map[string]any{}}, nil)
	assert.Error(t, err)
}
