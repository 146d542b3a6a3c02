// Package compiler resolves canonical queries against a semantic contract
// into bounded, source-specific safe plans.
package compiler

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/apperrors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

// Limit bounds applied when the contract leaves constraints unset.
const (
	FallbackDefaultLimit = 50
	FallbackMaxLimit     = 200
)

// fieldTokenPattern extracts bare field identifiers from mapping
// expressions. It over-approximates the fields a plan touches, which is
// safe for conservative policy enforcement.
var fieldTokenPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_.]*`)

// RuleError reports a rule that matched the query but could not compile.
// Other matching rules compile independently.
type RuleError struct {
	RuleID string `json:"rule_id"`
	Object string `json:"object"`
	Err    error  `json:"-"`
}

func (e RuleError) Error() string {
	return fmt.Sprintf("rule %s (%s): %v", e.RuleID, e.Object, e.Err)
}

func (e RuleError) Unwrap() error { return e.Err }

// Compiler turns canonical queries into safe plans.
type Compiler struct {
	validate *validator.Validate
	logger   *zap.Logger
}

// New creates a Compiler.
func New(logger *zap.Logger) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Compiler{
		validate: validator.New(),
		logger:   logger.Named("compiler"),
	}
}

// Compile resolves the query against the contract, producing one plan per
// matching rule in contract rule order. Rules that cannot compile are
// reported in the second return value without blocking the others. The
// error return is non-nil only for invalid input or when no rule matches.
func (c *Compiler) Compile(query models.CanonicalQuery, contract *models.SemanticContract) ([]models.SafePlan, []RuleError, error) {
	if contract == nil {
		return nil, nil, apperrors.ErrContractNotSet
	}
	if err := c.validate.Struct(query); err != nil {
		return nil, nil, fmt.Errorf("invalid canonical query: %w", err)
	}

	matched := matchRules(query.Object, contract.Rules)
	if len(matched) == 0 {
		return nil, nil, fmt.Errorf("%w: %q", apperrors.ErrNoMappingRule, query.Object)
	}

	var plans []models.SafePlan
	var ruleErrs []RuleError
	for _, rule := range matched {
		plan, err := c.compileRule(query, rule, contract.Constraints)
		if err != nil {
			c.logger.Debug("Rule failed to compile",
				zap.String("rule_id", rule.ID),
				zap.Error(err))
			ruleErrs = append(ruleErrs, RuleError{RuleID: rule.ID, Object: rule.Object, Err: err})
			continue
		}
		plans = append(plans, plan)
	}
	return plans, ruleErrs, nil
}

// matchRules returns the rules whose object matches the queried object, in
// contract order. Exact case-insensitive matches win; the looser substring
// match is only a fallback so that "order" does not also pull in
// "order_items" when an exact rule exists.
func matchRules(object string, rules []models.MappingRule) []models.MappingRule {
	want := strings.ToLower(object)

	var exact []models.MappingRule
	for _, rule := range rules {
		if strings.ToLower(rule.Object) == want {
			exact = append(exact, rule)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	var loose []models.MappingRule
	for _, rule := range rules {
		if strings.Contains(strings.ToLower(rule.Object), want) {
			loose = append(loose, rule)
		}
	}
	return loose
}

func (c *Compiler) compileRule(query models.CanonicalQuery, rule models.MappingRule, constraints *models.Constraints) (models.SafePlan, error) {
	columns := make([]string, 0, len(query.Select))
	for _, field := range query.Select {
		concrete, ok := rule.FieldMappings[field]
		if !ok {
			return models.SafePlan{}, &apperrors.MissingFieldMappingError{Field: field, Object: rule.Object}
		}
		columns = append(columns, concrete)
	}

	conds := make([]models.Cond, 0, len(query.Where))
	operators := make([]string, 0, len(query.Where))
	seenOps := make(map[string]bool)
	for _, clause := range query.Where {
		concrete, ok := rule.FieldMappings[clause.Field]
		if !ok {
			return models.SafePlan{}, &apperrors.MissingFieldMappingError{Field: clause.Field, Object: rule.Object}
		}
		conds = append(conds, models.Cond{Field: concrete, Op: clause.Op, Value: clause.Value})
		if !seenOps[clause.Op] {
			seenOps[clause.Op] = true
			operators = append(operators, clause.Op)
		}
	}

	orderBy, descending, err := resolveOrderBy(query, rule, columns)
	if err != nil {
		return models.SafePlan{}, err
	}

	return models.SafePlan{
		SourceID: rule.SourceID,
		RuleID:   rule.ID,
		NativeQuery: models.NativeQuery{
			Object:     rule.Object,
			Columns:    columns,
			Conds:      conds,
			Filter:     rule.Expression,
			OrderBy:    orderBy,
			Descending: descending,
			Limit:      clampLimit(query.Limit, constraints),
		},
		Operators: operators,
		Fields:    ExtractConcreteFields(rule.FieldMappings),
	}, nil
}

// resolveOrderBy maps the caller's ordering to a concrete field, or
// defaults to the first selected concrete field ascending.
func resolveOrderBy(query models.CanonicalQuery, rule models.MappingRule, columns []string) (string, bool, error) {
	if query.OrderBy == nil {
		if len(columns) > 0 {
			return columns[0], false, nil
		}
		return "", false, nil
	}

	concrete, ok := rule.FieldMappings[query.OrderBy.Field]
	if !ok {
		return "", false, &apperrors.MissingFieldMappingError{Field: query.OrderBy.Field, Object: rule.Object}
	}
	return concrete, strings.EqualFold(query.OrderBy.Direction, models.SortDesc), nil
}

// clampLimit bounds the effective limit to
// min(query limit ?? default ?? 50, max ?? 200).
func clampLimit(requested int, constraints *models.Constraints) int {
	def, max := FallbackDefaultLimit, FallbackMaxLimit
	if constraints != nil {
		if constraints.DefaultLimit > 0 {
			def = constraints.DefaultLimit
		}
		if constraints.MaxLimit > 0 {
			max = constraints.MaxLimit
		}
	}

	limit := requested
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return limit
}

// ExtractConcreteFields collects the bare field identifiers appearing in a
// rule's mapping expressions, first-seen order, deduplicated. The result
// is stable across calls for the same mappings.
func ExtractConcreteFields(fieldMappings map[string]string) []string {
	// Walk mappings in a deterministic order so the output does not
	// depend on map iteration.
	keys := make([]string, 0, len(fieldMappings))
	for k := range fieldMappings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := make(map[string]bool)
	var fields []string
	for _, key := range keys {
		for _, token := range fieldTokenPattern.FindAllString(fieldMappings[key], -1) {
			if !seen[token] {
				seen[token] = true
				fields = append(fields, token)
			}
		}
	}
	return fields
}
