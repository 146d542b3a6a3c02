package connectors

import (
	"context"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

// Connector kinds understood by the engine.
const (
	KindSQL  = "sql"
	KindREST = "rest"
	KindCRM  = "crm"
)

// ExecuteResult is one connector call's output: the raw rows plus the
// lineage step describing where they came from.
type ExecuteResult struct {
	Rows []map[string]any   `json:"rows"`
	Step models.LineageStep `json:"step"`
}

// Connector is the uniform execution capability every backend adapter
// implements. A connector must never fail on a well-formed empty result;
// it returns an empty row slice.
type Connector interface {
	// ID returns the source identifier this connector serves.
	ID() string

	// Kind returns the adapter kind ("sql", "rest", "crm").
	Kind() string

	// Execute runs a compiled native query against the backend.
	Execute(ctx context.Context, q models.NativeQuery) (*ExecuteResult, error)
}

// Describer is the optional schema self-reporting capability. Callers
// must check for it with a type assertion rather than assume it.
type Describer interface {
	Describe(ctx context.Context) (*models.DiscoverySummary, error)
}

// EndpointLister is the optional capability of enumerating queryable
// endpoints, used by discovery when no Describer is available.
type EndpointLister interface {
	ListEndpoints(ctx context.Context) ([]string, error)
}

// Sampler is the optional capability of fetching up to n raw rows from an
// endpoint for shape inference and profiling.
type Sampler interface {
	Sample(ctx context.Context, endpoint string, n int) ([]map[string]any, error)
}
