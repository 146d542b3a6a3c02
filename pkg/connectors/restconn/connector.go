// Package restconn implements a generic REST backend connector. It has no
// native schema introspection; discovery works through the EndpointLister
// and Sampler capabilities instead.
package restconn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/apperrors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/connectors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/jsonutil"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

const defaultHTTPTimeout = 15 * time.Second

// Connector speaks plain JSON-over-HTTP to a generic REST backend. Filter
// predicates become query parameters: equality as field=value, other
// operators as field__op=value.
type Connector struct {
	id        string
	baseURL   string
	endpoints []string
	client    *http.Client
	headers   map[string]string
	logger    *zap.Logger
}

// New builds a REST connector from a source config. Recognized config
// keys: base_url (required), endpoints (list), api_key, timeout_seconds.
func New(source models.DataSourceRef, logger *zap.Logger) (*Connector, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL, _ := source.Config["base_url"].(string)
	if baseURL == "" {
		return nil, fmt.Errorf("rest source config missing base_url")
	}

	timeout := defaultHTTPTimeout
	if secs, ok := source.Config["timeout_seconds"].(int); ok && secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}

	headers := map[string]string{}
	if key, ok := source.Config["api_key"].(string); ok && key != "" {
		headers["Authorization"] = "Bearer " + key
	}

	var endpoints []string
	switch v := source.Config["endpoints"].(type) {
	case []string:
		endpoints = v
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok {
				endpoints = append(endpoints, s)
			}
		}
	}

	return &Connector{
		id:        source.ID,
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: endpoints,
		client:    &http.Client{Timeout: timeout},
		headers:   headers,
		logger:    logger.Named("rest-connector"),
	}, nil
}

func (c *Connector) ID() string   { return c.id }
func (c *Connector) Kind() string { return connectors.KindREST }

// Execute fetches the object's endpoint with filters and limit encoded as
// query parameters.
func (c *Connector) Execute(ctx context.Context, q models.NativeQuery) (*connectors.ExecuteResult, error) {
	params := url.Values{}
	for _, cond := range q.Conds {
		key := cond.Field
		if cond.Op != "=" {
			key = cond.Field + "__" + opSuffix(cond.Op)
		}
		params.Set(key, fmt.Sprint(cond.Value))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.OrderBy != "" {
		dir := "asc"
		if q.Descending {
			dir = "desc"
		}
		params.Set("sort", q.OrderBy+":"+dir)
	}

	endpoint := "/" + strings.Trim(q.Object, "/")
	rows, err := c.fetch(ctx, endpoint, params)
	if err != nil {
		return nil, &apperrors.ConnectorUnavailableError{SourceID: c.id, Err: err}
	}

	// The backend may not honor limit; enforce the bound locally.
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
			Query:    endpoint + "?" + params.Encode(),
		},
	}, nil
}

// ListEndpoints returns the configured endpoint list.
func (c *Connector) ListEndpoints(ctx context.Context) ([]string, error) {
	if len(c.endpoints) == 0 {
		return nil, fmt.Errorf("rest source %s has no configured endpoints", c.id)
	}
	return c.endpoints, nil
}

// Sample fetches up to n rows from an endpoint for shape inference.
func (c *Connector) Sample(ctx context.Context, endpoint string, n int) ([]map[string]any, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(n))

	rows, err := c.fetch(ctx, "/"+strings.Trim(endpoint, "/"), params)
	if err != nil {
		return nil, err
	}
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}

func (c *Connector) fetch(ctx context.Context, path string, params url.Values) ([]map[string]any, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return jsonutil.DecodeRows(body)
}

func opSuffix(op string) string {
	switch op {
	case "!=":
		return "ne"
	case ">":
		return "gt"
	case ">=":
		return "gte"
	case "<":
		return "lt"
	case "<=":
		return "lte"
	case "LIKE":
		return "like"
	case "IN":
		return "in"
	default:
		return "eq"
	}
}

var (
	_ connectors.Connector      = (*Connector)(nil)
	_ connectors.EndpointLister = (*Connector)(nil)
	_ connectors.Sampler        = (*Connector)(nil)
)
