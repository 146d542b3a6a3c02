package sqlconn

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	_ "github.com/microsoft/go-mssqldb"
	"go.uber.org/zap"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/apperrors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/connectors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/logging"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

// SQLServerConnector executes compiled plans against SQL Server through
// database/sql with the go-mssqldb driver.
type SQLServerConnector struct {
	id     string
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLServerConnector opens a SQL Server connection for the source.
func NewSQLServerConnector(ctx context.Context, source models.DataSourceRef, cfg *Config, logger *zap.Logger) (*SQLServerConnector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlserver", cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("connect to sqlserver: %w", err)
	}
	return NewSQLServerConnectorWithDB(source.ID, db, logger), nil
}

// NewSQLServerConnectorWithDB wraps an existing database handle. Used by
// tests to inject a mocked connection.
func NewSQLServerConnectorWithDB(id string, db *sql.DB, logger *zap.Logger) *SQLServerConnector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLServerConnector{
		id:     id,
		db:     db,
		logger: logger.Named("sqlserver-connector"),
	}
}

func (c *SQLServerConnector) ID() string   { return c.id }
func (c *SQLServerConnector) Kind() string { return connectors.KindSQL }

// Execute renders the plan in SQL Server dialect and runs it.
func (c *SQLServerConnector) Execute(ctx context.Context, q models.NativeQuery) (*connectors.ExecuteResult, error) {
	sqlText, args, err := BuildSelect(q, sqlbuilder.SQLServer)
	if err != nil {
		return nil, fmt.Errorf("build query for %s: %w", q.Object, err)
	}

	c.logger.Debug("Executing plan",
		zap.String("object", q.Object),
		zap.String("query", logging.SanitizeQuery(sqlText)))

	rows, err := c.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, &apperrors.ConnectorUnavailableError{SourceID: c.id, Err: err}
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	return &connectors.ExecuteResult{
		Rows: result,
		Step: models.LineageStep{
			SourceID: c.id,
			Object:   q.Object,
			Fields:   q.Columns,
			Filter:   q.Conds,
			Query:    logging.SanitizeQuery(sqlText),
		},
	}, nil
}

// Describe reports the live schema from INFORMATION_SCHEMA.
func (c *SQLServerConnector) Describe(ctx context.Context) (*models.DiscoverySummary, error) {
	const query = `
		SELECT TABLE_NAME, COLUMN_NAME, DATA_TYPE, IS_NULLABLE
		FROM INFORMATION_SCHEMA.COLUMNS
		ORDER BY TABLE_NAME, ORDINAL_POSITION`

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("describe sqlserver schema: %w", err)
	}
	defer rows.Close()

	summary := &models.DiscoverySummary{}
	index := make(map[string]int)
	for rows.Next() {
		var table, column, dataType, nullable string
		if err := rows.Scan(&table, &column, &dataType, &nullable); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		i, ok := index[table]
		if !ok {
			summary.Objects = append(summary.Objects, models.ObjectSchema{Name: table})
			i = len(summary.Objects) - 1
			index[table] = i
		}
		summary.Objects[i].Fields = append(summary.Objects[i].Fields, models.FieldSchema{
			Name:     column,
			Type:     dataType,
			Nullable: nullable == "YES",
		})
	}
	return summary, rows.Err()
}

// Close releases the database handle.
func (c *SQLServerConnector) Close() error {
	return c.db.Close()
}

// scanRows converts database/sql rows into generic maps.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	result := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

var (
	_ connectors.Connector = (*SQLServerConnector)(nil)
	_ connectors.Describer = (*SQLServerConnector)(nil)
)
