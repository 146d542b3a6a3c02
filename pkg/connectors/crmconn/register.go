package crmconn

import (
	"context"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/connectors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

func init() {
	connectors.Register(connectors.AdapterRegistration{
		Info: connectors.AdapterInfo{
			Kind:        connectors.KindCRM,
			DisplayName: "CRM",
			Description: "SOQL-style query API with describe support",
		},
		Factory: func(ctx context.Context, source models.DataSourceRef) (connectors.Connector, error) {
			return New(source, nil)
		},
	})
}
