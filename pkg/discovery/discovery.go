// Package discovery infers object and field shape for connectors without
// native schema introspection, and profiles sampled rows for human review.
package discovery

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/connectors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

const (
	// SampleSize is how many rows to pull per endpoint.
	SampleSize = 25
	// inferRowCap bounds how many sampled rows feed shape inference.
	inferRowCap = 10
)

// Discoverer infers schema through connector capabilities.
type Discoverer struct {
	logger *zap.Logger
}

// New creates a Discoverer.
func New(logger *zap.Logger) *Discoverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Discoverer{logger: logger.Named("discovery")}
}

// Discover returns the connector's schema: self-reported when the
// connector can describe itself, otherwise inferred by sampling each
// listed endpoint. Endpoints whose sampling fails are skipped.
func (d *Discoverer) Discover(ctx context.Context, conn connectors.Connector) (*models.DiscoverySummary, error) {
	if describer, ok := conn.(connectors.Describer); ok {
		return describer.Describe(ctx)
	}

	lister, ok := conn.(connectors.EndpointLister)
	if !ok {
		return nil, fmt.Errorf("source %s supports neither describe nor endpoint listing", conn.ID())
	}
	sampler, ok := conn.(connectors.Sampler)
	if !ok {
		return nil, fmt.Errorf("source %s lists endpoints but cannot sample them", conn.ID())
	}

	endpoints, err := lister.ListEndpoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("list endpoints for %s: %w", conn.ID(), err)
	}

	summary := &models.DiscoverySummary{}
	for _, endpoint := range endpoints {
		rows, err := sampler.Sample(ctx, endpoint, SampleSize)
		if err != nil {
			d.logger.Warn("Skipping endpoint, sampling failed",
				zap.String("source_id", conn.ID()),
				zap.String("endpoint", endpoint),
				zap.Error(err))
			continue
		}
		summary.Objects = append(summary.Objects, models.ObjectSchema{
			Name:   endpoint,
			Fields: inferFields(rows),
			Hints:  []string{"inferred from sampled rows"},
		})
	}
	return summary, nil
}

// inferFields unions keys across up to inferRowCap rows and guesses each
// field's type from its first non-null value.
func inferFields(rows []map[string]any) []models.FieldSchema {
	if len(rows) > inferRowCap {
		rows = rows[:inferRowCap]
	}

	var names []string
	seen := make(map[string]bool)
	firstValue := make(map[string]any)
	nullSeen := make(map[string]bool)
	for _, row := range rows {
		for key, value := range row {
			if !seen[key] {
				seen[key] = true
				names = append(names, key)
			}
			if value == nil {
				nullSeen[key] = true
				continue
			}
			if _, ok := firstValue[key]; !ok {
				firstValue[key] = value
			}
		}
	}
	sort.Strings(names)

	fields := make([]models.FieldSchema, 0, len(names))
	for _, name := range names {
		fields = append(fields, models.FieldSchema{
			Name:     name,
			Type:     guessValueType(firstValue[name]),
			Nullable: nullSeen[name],
		})
	}
	return fields
}

// guessValueType applies ordered heuristics: numeric, boolean, ISO-date
// prefixed string, else string.
func guessValueType(value any) string {
	switch v := value.(type) {
	case nil:
		return "string"
	case bool:
		return "boolean"
	case int, int32, int64, float32, float64:
		return "number"
	case string:
		if _, err := strconv.ParseFloat(v, 64); err == nil && v != "" {
			return "number"
		}
		if isISODatePrefix(v) {
			return "timestamp"
		}
		return "string"
	default:
		return "string"
	}
}

// isISODatePrefix reports whether s starts with a YYYY-MM-DD date.
func isISODatePrefix(s string) bool {
	if len(s) < 10 {
		return false
	}
	_, err := time.Parse("2006-01-02", s[:10])
	return err == nil
}

// ProfileFields computes per-column statistics from sampled rows: null
// ratio, distinct count, top values with counts, and a crude type guess.
// These are best-effort signals for human review, not authoritative
// typing.
func ProfileFields(rows []map[string]any) []models.FieldProfile {
	if len(rows) == 0 {
		return nil
	}

	var names []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for key := range row {
			if !seen[key] {
				seen[key] = true
				names = append(names, key)
			}
		}
	}
	sort.Strings(names)

	profiles := make([]models.FieldProfile, 0, len(names))
	for _, name := range names {
		profiles = append(profiles, profileColumn(name, rows))
	}
	return profiles
}

func profileColumn(name string, rows []map[string]any) models.FieldProfile {
	counts := make(map[string]int)
	nulls := 0
	var sampleValue string
	for _, row := range rows {
		value, ok := row[name]
		if !ok || value == nil {
			nulls++
			continue
		}
		s := fmt.Sprint(value)
		if sampleValue == "" {
			sampleValue = s
		}
		counts[s]++
	}

	top := make([]models.ValueCount, 0, len(counts))
	for value, count := range counts {
		top = append(top, models.ValueCount{Value: value, Count: count})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Value < top[j].Value
	})
	if len(top) > 10 {
		top = top[:10]
	}

	return models.FieldProfile{
		Name:          name,
		NullRatio:     float64(nulls) / float64(len(rows)),
		DistinctCount: len(counts),
		TopValues:     top,
		TypeGuess:     guessProfileType(sampleValue),
	}
}

// guessProfileType classifies a sample value: long alphanumeric looks like
// an id, two letters a country code, leading $ or digit a currency amount,
// an @ an email, anything else an enum-ish label.
func guessProfileType(value string) string {
	switch {
	case value == "":
		return "enum"
	case len(value) >= 16 && isAlphanumeric(value):
		return "id"
	case len(value) == 2 && isAlpha(value):
		return "country"
	case strings.HasPrefix(value, "$") || (value[0] >= '0' && value[0] <= '9'):
		return "currency"
	case strings.Contains(value, "@"):
		return "email"
	default:
		return "enum"
	}
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	return true
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return true
}
