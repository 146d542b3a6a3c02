package sqlconn

import (
	"context"
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/apperrors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/connectors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/logging"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

// PostgresConnector executes compiled plans against PostgreSQL through a
// pgx connection pool.
type PostgresConnector struct {
	id     string
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresConnector dials a pgx pool for the source.
func NewPostgresConnector(ctx context.Context, source models.DataSourceRef, cfg *Config, logger *zap.Logger) (*PostgresConnector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pool, err := pgxpool.New(ctx, cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return &PostgresConnector{
		id:     source.ID,
		pool:   pool,
		logger: logger.Named("postgres-connector"),
	}, nil
}

func (c *PostgresConnector) ID() string   { return c.id }
func (c *PostgresConnector) Kind() string { return connectors.KindSQL }

// Execute renders the plan as a parameterized SELECT and runs it. Empty
// results come back as an empty row slice, never an error.
func (c *PostgresConnector) Execute(ctx context.Context, q models.NativeQuery) (*connectors.ExecuteResult, error) {
	sqlText, args, err := BuildSelect(q, sqlbuilder.PostgreSQL)
	if err != nil {
		return nil, fmt.Errorf("build query for %s: %w", q.Object, err)
	}

	c.logger.Debug("Executing plan",
		zap.String("object", q.Object),
		zap.String("query", logging.SanitizeQuery(sqlText)))

	rows, err := c.pool.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, &apperrors.ConnectorUnavailableError{SourceID: c.id, Err: err}
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	result := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row values: %w", err)
		}
		row := make(map[string]any, len(fieldDescs))
		for i, fd := range fieldDescs {
			row[string(fd.Name)] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperrors.ConnectorUnavailableError{SourceID: c.id, Err: err}
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

// Describe reports the live schema from information_schema, one object per
// user table.
func (c *PostgresConnector) Describe(ctx context.Context) (*models.DiscoverySummary, error) {
	const query = `
		SELECT table_name, column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
		ORDER BY table_name, ordinal_position`

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("describe postgres schema: %w", err)
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

// Close releases the connection pool.
func (c *PostgresConnector) Close() {
	c.pool.Close()
}

var (
	_ connectors.Connector = (*PostgresConnector)(nil)
	_ connectors.Describer = (*PostgresConnector)(nil)
)
