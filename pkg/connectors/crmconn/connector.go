// Package crmconn implements a CRM-style connector speaking a SOQL query
// API over HTTP, in the shape of the Salesforce REST query endpoint.
package crmconn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/apperrors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/connectors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

const defaultHTTPTimeout = 15 * time.Second

// Connector executes SOQL statements against a CRM query endpoint and
// self-reports schema through the describe endpoint.
type Connector struct {
	id      string
	baseURL string
	token   string
	client  *http.Client
	logger  *zap.Logger
}

// New builds a CRM connector from a source config. Recognized config keys:
// base_url (required), access_token.
func New(source models.DataSourceRef, logger *zap.Logger) (*Connector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL, _ := source.Config["base_url"].(string)
	if baseURL == "" {
		return nil, fmt.Errorf("crm source config missing base_url")
	}
	token, _ := source.Config["access_token"].(string)

	return &Connector{
		id:      source.ID,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: defaultHTTPTimeout},
		logger:  logger.Named("crm-connector"),
	}, nil
}

func (c *Connector) ID() string   { return c.id }
func (c *Connector) Kind() string { return connectors.KindCRM }

// queryResponse is the CRM query endpoint's envelope.
type queryResponse struct {
	TotalSize      int              `json:"totalSize"`
	Done           bool             `json:"done"`
	NextRecordsURL string           `json:"nextRecordsUrl,omitempty"`
	Records        []map[string]any `json:"records"`
}

// Execute renders the plan as SOQL and pages through the query endpoint
// until done or the limit is reached.
func (c *Connector) Execute(ctx context.Context, q models.NativeQuery) (*connectors.ExecuteResult, error) {
	soql, err := BuildSOQL(q)
	if err != nil {
		return nil, fmt.Errorf("build soql for %s: %w", q.Object, err)
	}

	c.logger.Debug("Executing plan", zap.String("object", q.Object), zap.String("soql", soql))

	rows := make([]map[string]any, 0)
	next := "/query?q=" + url.QueryEscape(soql)
	for next != "" {
		var page queryResponse
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, &apperrors.ConnectorUnavailableError{SourceID: c.id, Err: err}
		}
		for _, rec := range page.Records {
			// CRM records carry an attributes envelope; drop it so rows
			// look like every other connector's.
			delete(rec, "attributes")
			rows = append(rows, rec)
		}
		if page.Done || page.NextRecordsURL == "" {
			break
		}
		if q.Limit > 0 && len(rows) >= q.Limit {
			break
		}
		next = page.NextRecordsURL
	}

	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}

	return &connectors.ExecuteResult{
		Rows: rows,
		Step: models.LineageStep{
			SourceID: c.id,
			Object:   q.Object,
			Fields:   q.Columns,
			Filter:   q.Conds,
			Query:    soql,
		},
	}, nil
}

// describeResponse is the CRM global describe envelope.
type describeResponse struct {
	SObjects []struct {
		Name   string `json:"name"`
		Fields []struct {
			Name     string `json:"name"`
			Type     string `json:"type"`
			Nillable bool   `json:"nillable"`
		} `json:"fields"`
	} `json:"sobjects"`
}

// Describe fetches the CRM's self-reported object catalog.
func (c *Connector) Describe(ctx context.Context) (*models.DiscoverySummary, error) {
	var resp describeResponse
	if err := c.getJSON(ctx, "/describe", &resp); err != nil {
		return nil, fmt.Errorf("describe crm schema: %w", err)
	}

	summary := &models.DiscoverySummary{}
	for _, obj := range resp.SObjects {
		schema := models.ObjectSchema{Name: obj.Name}
		for _, f := range obj.Fields {
			schema.Fields = append(schema.Fields, models.FieldSchema{
				Name:     f.Name,
				Type:     f.Type,
				Nullable: f.Nillable,
			})
		}
		summary.Objects = append(summary.Objects, schema)
	}
	return summary, nil
}

func (c *Connector) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	return json.Unmarshal(body, out)
}

var (
	_ connectors.Connector = (*Connector)(nil)
	_ connectors.Describer = (*Connector)(nil)
)
