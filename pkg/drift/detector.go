// Package drift compares a semantic contract's assumed schema against the
// live backend schema and reports mismatches as findings, never errors.
package drift

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/connectors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/logging"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

// Detector re-discovers live schema per rule and diffs it against the
// rule's assumptions.
type Detector struct {
	logger *zap.Logger
}

// New creates a Detector.
func New(logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{logger: logger.Named("drift")}
}

// DetectDrift checks every rule whose connector can describe itself. One
// unreachable source becomes a critical finding and never aborts the
// assessment of remaining rules. Results sort by severity weight
// descending, stable on detection order.
func (d *Detector) DetectDrift(ctx context.Context, contract *models.SemanticContract, conns map[string]connectors.Connector) []models.SemanticDrift {
	if contract == nil {
		return nil
	}

	var drifts []models.SemanticDrift
	summaries := make(map[string]*models.DiscoverySummary)
	unreachable := make(map[string]bool)

	for _, rule := range contract.Rules {
		conn, ok := conns[rule.SourceID]
		if !ok {
			continue
		}
		describer, ok := conn.(connectors.Describer)
		if !ok {
			continue
		}

		if unreachable[rule.SourceID] {
			continue
		}
		summary, ok := summaries[rule.SourceID]
		if !ok {
			var err error
			summary, err = describer.Describe(ctx)
			if err != nil {
				d.logger.Warn("Source unreachable during drift detection",
					zap.String("source_id", rule.SourceID),
					zap.String("error", logging.SanitizeError(err)))
				unreachable[rule.SourceID] = true
				drifts = append(drifts, newDrift(rule,
					models.DriftConstraintViolation, models.SeverityCritical,
					fmt.Sprintf("source %s is unreachable: %s", rule.SourceID, logging.SanitizeError(err)),
					[]string{"all rules bound to this source are unverifiable"}))
				continue
			}
			summaries[rule.SourceID] = summary
		}

		drifts = append(drifts, diffRule(rule, summary)...)
	}

	sort.SliceStable(drifts, func(i, j int) bool {
		return models.SeverityWeight(drifts[i].Severity) > models.SeverityWeight(drifts[j].Severity)
	})
	return drifts
}

// diffRule compares one rule against a source's current schema.
func diffRule(rule models.MappingRule, summary *models.DiscoverySummary) []models.SemanticDrift {
	object := summary.Object(rule.Object)
	if object == nil {
		return []models.SemanticDrift{newDrift(rule,
			models.DriftSchemaChange, models.SeverityCritical,
			fmt.Sprintf("object %q is no longer available on source %s", rule.Object, rule.SourceID),
			[]string{fmt.Sprintf("queries over term %s will fail", rule.TermID)})}
	}

	// Field checks go against concrete mapped names; mapping expressions
	// may qualify them with the object prefix.
	var drifts []models.SemanticDrift
	keys := make([]string, 0, len(rule.FieldMappings))
	for key := range rule.FieldMappings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, semantic := range keys {
		concrete := bareField(rule.FieldMappings[semantic], rule.Object)
		if object.HasField(concrete) {
			continue
		}
		drifts = append(drifts, newDrift(rule,
			models.DriftFieldRemoval, models.SeverityHigh,
			fmt.Sprintf("field %q (mapped from %q) is missing on object %q", concrete, semantic, rule.Object),
			[]string{fmt.Sprintf("selecting %q through rule %s will fail", semantic, rule.ID)}))
	}
	return drifts
}

// bareField strips an object qualifier from a mapping expression, so
// "customers.id" checks as "id" against the customers object.
func bareField(expr, object string) string {
	prefix := object + "."
	if len(expr) > len(prefix) && expr[:len(prefix)] == prefix {
		return expr[len(prefix):]
	}
	return expr
}

func newDrift(rule models.MappingRule, driftType, severity, description string, impact []string) models.SemanticDrift {
	return models.SemanticDrift{
		ID:          uuid.NewString(),
		TermID:      rule.TermID,
		SourceID:    rule.SourceID,
		DetectedAt:  time.Now().UTC(),
		DriftType:   driftType,
		Severity:    severity,
		Description: description,
		Impact:      impact,
	}
}
