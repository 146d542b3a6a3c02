package crmconn

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/apperrors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

func newTestConnector(t *testing.T, handler http.HandlerFunc, token string) *Connector {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	conn, err := New(models.DataSourceRef{
		ID:   "crm",
		Kind: "crm",
		Config: map[string]any{
			"base_url":     server.URL,
			"access_token": token,
		},
	}, nil)
	require.NoError(t, err)
	return conn
}

func accountQuery(limit int) models.NativeQuery {
	return models.NativeQuery{
		Object:  "Account",
		Columns: []string{"Id", "Name"},
		Limit:   limit,
	}
}

func TestExecuteSinglePage(t *testing.T) {
	var gotAuth, gotSOQL string
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotSOQL = r.URL.Query().Get("q")
		json.NewEncoder(w).Encode(queryResponse{
			TotalSize: 2,
			Done:      true,
			Records: []map[string]any{
				{"attributes": map[string]any{"type": "Account"}, "Id": "001", "Name": "Acme"},
				{"attributes": map[string]any{"type": "Account"}, "Id": "002", "Name": "Globex"},
			},
		})
	}, "tok-123")

	result, err := conn.Execute(context.Background(), accountQuery(10))
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "SELECT Id, Name FROM Account LIMIT 10", gotSOQL)

	require.Len(t, result.Rows, 2)
	assert.NotContains(t, result.Rows[0], "attributes", "the attributes envelope is stripped")
	assert.Equal(t, "Acme", result.Rows[0]["Name"])
	assert.Equal(t, "crm", result.Step.SourceID)
	assert.Equal(t, gotSOQL, result.Step.Query)
}

func TestExecuteFollowsPagination(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/query" {
			json.NewEncoder(w).Encode(queryResponse{
				Done:           false,
				NextRecordsURL: "/query/next-0200",
				Records:        []map[string]any{{"Id": "001"}, {"Id": "002"}},
			})
			return
		}
		json.NewEncoder(w).Encode(queryResponse{
			Done:    true,
			Records: []map[string]any{{"Id": "003"}},
		})
	}, "")

	result, err := conn.Execute(context.Background(), accountQuery(10))
	require.NoError(t, err)
	require.Len(t, result.Rows, 3)
	assert.Equal(t, "003", result.Rows[2]["Id"])
}

func TestExecuteStopsPagingAtLimit(t *testing.T) {
	pages := 0
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		pages++
		json.NewEncoder(w).Encode(queryResponse{
			Done:           false,
			NextRecordsURL: "/query/more",
			Records:        []map[string]any{{"Id": "a"}, {"Id": "b"}, {"Id": "c"}},
		})
	}, "")

	result, err := conn.Execute(context.Background(), accountQuery(2))
	require.NoError(t, err)
	assert.Equal(t, 1, pages, "no further pages once the limit is covered")
	assert.Len(t, result.Rows, 2, "rows truncate to the limit")
}

func TestExecuteServerErrorIsConnectorUnavailable(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}, "")

	_, err := conn.Execute(context.Background(), accountQuery(10))
	require.Error(t, err)

	var unavailable *apperrors.ConnectorUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, "crm", unavailable.SourceID)
}

func TestDescribe(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/describe", r.URL.Path)
		w.Write([]byte(`{"sobjects": [
			{"name": "Account", "fields": [
				{"name": "Id", "type": "id", "nillable": false},
				{"name": "Name", "type": "string", "nillable": true}
			]},
			{"name": "Contact", "fields": [{"name": "Email", "type": "email", "nillable": true}]}
		]}`))
	}, "")

	summary, err := conn.Describe(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Objects, 2)
	assert.Equal(t, "Account", summary.Objects[0].Name)
	require.Len(t, summary.Objects[0].Fields, 2)
	assert.False(t, summary.Objects[0].Fields[0].Nullable)
	assert.True(t, summary.Objects[0].Fields[1].Nullable)
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(models.DataSourceRef{ID: "crm", Config: map[string]any{}}, nil)
	assert.Error(t, err)
}
