package sqlconn

import (
	"context"
	"fmt"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/connectors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

func init() {
	connectors.Register(connectors.AdapterRegistration{
		Info: connectors.AdapterInfo{
			Kind:        connectors.KindSQL,
			DisplayName: "Relational database",
			Description: "PostgreSQL 12+ and SQL Server 2019+",
		},
		Factory: func(ctx context.Context, source models.DataSourceRef) (connectors.Connector, error) {
			cfg, err := ConfigFromSource(source)
			if err != nil {
				return nil, err
			}
			switch cfg.Dialect {
			case DialectSQLServer:
				return NewSQLServerConnector(ctx, source, cfg, nil)
			case DialectPostgres:
				return NewPostgresConnector(ctx, source, cfg, nil)
			default:
				return nil, fmt.Errorf("unsupported sql dialect: %s", cfg.Dialect)
			}
		},
	})
}
