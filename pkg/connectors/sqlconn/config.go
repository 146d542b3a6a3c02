package sqlconn

import (
	"fmt"
	"net/url"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/config"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

// Supported relational dialects.
const (
	DialectPostgres  = "postgres"
	DialectSQLServer = "sqlserver"
)

// Config holds relational connection settings parsed from a source's
// config map.
type Config struct {
	Dialect  string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// ConfigFromSource extracts a Config from a DataSourceRef's config map.
func ConfigFromSource(source models.DataSourceRef) (*Config, error) {
	cfg := &Config{
		Dialect:  stringValue(source.Config, "dialect"),
		Host:     config.ResolveHostForDocker(stringValue(source.Config, "host")),
		User:     stringValue(source.Config, "user"),
		Password: stringValue(source.Config, "password"),
		Database: stringValue(source.Config, "database"),
		SSLMode:  stringValue(source.Config, "ssl_mode"),
	}
	cfg.Port = intValue(source.Config, "port")

	if cfg.Dialect == "" {
		cfg.Dialect = DialectPostgres
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields and the dialect value.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("sql source config missing host")
	}
	if c.Database == "" {
		return fmt.Errorf("sql source config missing database")
	}
	if c.Dialect != DialectPostgres && c.Dialect != DialectSQLServer {
		return fmt.Errorf("unsupported sql dialect: %s", c.Dialect)
	}
	return nil
}

// ConnString renders the dialect-specific connection string.
func (c *Config) ConnString() string {
	switch c.Dialect {
	case DialectSQLServer:
		u := &url.URL{
			Scheme: "sqlserver",
			User:   url.UserPassword(c.User, c.Password),
			Host:   fmt.Sprintf("%s:%d", c.Host, c.portOr(1433)),
		}
		q := url.Values{}
		q.Set("database", c.Database)
		u.RawQuery = q.Encode()
		return u.String()
	default:
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			url.QueryEscape(c.User), url.QueryEscape(c.Password),
			c.Host, c.portOr(5432), c.Database, sslMode)
	}
}

func (c *Config) portOr(def int) int {
	if c.Port > 0 {
		return c.Port
	}
	return def
}

func stringValue(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func intValue(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
