// Package engine dispatches compiled safe plans to their connectors,
// merges rows, and assembles verifiable lineage for every run.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/apperrors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/connectors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/lineage"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/logging"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/policy"
)

// Options tune execution behavior.
type Options struct {
	// MaxFanOut caps concurrent plan dispatch. Zero means sequential.
	MaxFanOut int
	// PlanTimeout bounds each connector call. Zero disables the bound.
	PlanTimeout time.Duration
	// Policy, when set, is consulted per plan before dispatch. Denied
	// plans are skipped with a note instead of failing the run.
	Policy policy.Checker
}

// Engine executes safe plans against an EngineContext's connectors.
type Engine struct {
	sink   lineage.Sink
	opts   Options
	logger *zap.Logger
}

// New creates an Engine emitting lineage to sink.
func New(sink lineage.Sink, opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxFanOut <= 0 {
		opts.MaxFanOut = 1
	}
	return &Engine{
		sink:   sink,
		opts:   opts,
		logger: logger.Named("engine"),
	}
}

// planOutcome holds one plan's rows and lineage step, indexed so merge
// order follows plan order rather than completion order.
type planOutcome struct {
	rows []map[string]any
	step models.LineageStep
	note string
}

// ExecutePlans dispatches every plan to its connector with bounded
// concurrency and merges the results into one envelope. A missing
// connector is a configuration fault and fails the whole run; a failing
// or timed-out connector call degrades to a partial result plus a note.
func (e *Engine) ExecutePlans(ctx context.Context, ectx *EngineContext, plans []models.SafePlan) (*models.ResponseEnvelope, error) {
	if ectx == nil || ectx.Contract == nil {
		return nil, apperrors.ErrContractNotSet
	}

	// Fail fast on unknown sources before any backend work starts.
	for _, plan := range plans {
		if _, ok := ectx.Connector(plan.SourceID); !ok {
			return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownSource, plan.SourceID)
		}
	}

	runID := uuid.NewString()
	started := time.Now().UTC()
	outcomes := make([]planOutcome, len(plans))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.MaxFanOut)
	for i, plan := range plans {
		i, plan := i, plan
		g.Go(func() error {
			outcomes[i] = e.runPlan(gctx, ectx, plan)
			return nil
		})
	}
	// Workers only record outcomes; the group error is always nil.
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	envelope := &models.ResponseEnvelope{
		Data: make([]map[string]any, 0),
		Lineage: models.Lineage{
			RunID:     runID,
			Timestamp: started,
		},
		Definitions: ectx.Contract.Definitions(),
	}
	for _, outcome := range outcomes {
		envelope.Data = append(envelope.Data, outcome.rows...)
		envelope.Lineage.Steps = append(envelope.Lineage.Steps, outcome.step)
		if outcome.note != "" {
			envelope.Notes = append(envelope.Notes, outcome.note)
		}
	}

	e.emitLineage(ctx, envelope)
	return envelope, nil
}

// runPlan executes one plan with its own timeout and converts failures
// into partial-result notes.
func (e *Engine) runPlan(ctx context.Context, ectx *EngineContext, plan models.SafePlan) planOutcome {
	conn, _ := ectx.Connector(plan.SourceID)

	if e.opts.Policy != nil {
		decision, err := e.opts.Policy.Decide(ctx, policy.PlanCheck{
			Object:    plan.NativeQuery.Object,
			Fields:    plan.Fields,
			Operators: plan.Operators,
		})
		if err != nil || !decision.Allow {
			reason := decision.Reason
			if err != nil {
				reason = err.Error()
			}
			return planOutcome{
				step: models.LineageStep{
					SourceID: plan.SourceID,
					Object:   plan.NativeQuery.Object,
					Fields:   plan.NativeQuery.Columns,
				},
				note: fmt.Sprintf("plan for source %s denied by policy: %s", plan.SourceID, reason),
			}
		}
	}

	if e.opts.PlanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.PlanTimeout)
		defer cancel()
	}

	result, err := conn.Execute(ctx, plan.NativeQuery)
	if err != nil {
		e.logger.Warn("Plan execution failed",
			zap.String("source_id", plan.SourceID),
			zap.String("object", plan.NativeQuery.Object),
			zap.String("error", logging.SanitizeError(err)))
		return planOutcome{
			step: models.LineageStep{
				SourceID: plan.SourceID,
				Object:   plan.NativeQuery.Object,
				Fields:   plan.NativeQuery.Columns,
			},
			note: fmt.Sprintf("source %s failed: %s", plan.SourceID, logging.SanitizeError(err)),
		}
	}

	rows := make([]map[string]any, 0, len(result.Rows))
	for _, row := range result.Rows {
		tagged := make(map[string]any, len(row)+1)
		for k, v := range row {
			tagged[k] = v
		}
		tagged[models.SourceTagField] = plan.SourceID
		rows = append(rows, tagged)
	}

	return planOutcome{rows: rows, step: result.Step}
}

// emitLineage hands the run's lineage to the sink. Failures become notes,
// never errors; a background emitter also surfaces earlier failures here.
func (e *Engine) emitLineage(ctx context.Context, envelope *models.ResponseEnvelope) {
	if e.sink == nil {
		return
	}
	if err := e.sink.EmitLineage(ctx, envelope.Lineage); err != nil {
		envelope.Notes = append(envelope.Notes,
			fmt.Sprintf("lineage emission failed: %v", err))
	}
	if pending, ok := e.sink.(interface{ PendingFailures() []string }); ok {
		envelope.Notes = append(envelope.Notes, pending.PendingFailures()...)
	}
}

// Run compiles nothing; it is a convenience wrapper for callers holding a
// connectors.Connector slice rather than a prebuilt context.
func (e *Engine) Run(ctx context.Context, conns []connectors.Connector, contract *models.SemanticContract, plans []models.SafePlan) (*models.ResponseEnvelope, error) {
	return e.ExecutePlans(ctx, NewEngineContext(conns, nil, contract), plans)
}
