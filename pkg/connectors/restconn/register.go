package restconn

import (
	"context"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/connectors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

func init() {
	connectors.Register(connectors.AdapterRegistration{
		Info: connectors.AdapterInfo{
			Kind:        connectors.KindREST,
			DisplayName: "Generic REST API",
			Description: "JSON-over-HTTP endpoints with query-parameter filters",
		},
		Factory: func(ctx context.Context, source models.DataSourceRef) (connectors.Connector, error) {
			return New(source, nil)
		},
	})
}
