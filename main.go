package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/config"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/connectors"
	_ "github.com/Mat-Tom-Son/jargon-sub000/pkg/connectors/crmconn"
	_ "github.com/Mat-Tom-Son/jargon-sub000/pkg/connectors/restconn"
	_ "github.com/Mat-Tom-Son/jargon-sub000/pkg/connectors/sqlconn"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/contract"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/debt"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/drift"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/engine"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/lineage"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/logging"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("Starting federation engine",
		zap.String("version", cfg.Version),
		zap.String("env", cfg.Env),
		zap.Int("max_fan_out", cfg.Engine.MaxFanOut))

	registry := contract.NewMemoryRegistry()
	ctx := context.Background()

	if cfg.ContractPath != "" {
		doc, err := contract.LoadFile(cfg.ContractPath)
		if err != nil {
			logger.Fatal("Failed to load contract", zap.Error(err))
		}
		if err := registry.SetContract(ctx, doc.Contract); err != nil {
			logger.Fatal("Failed to set contract", zap.Error(err))
		}
		for _, source := range doc.Sources {
			if err := registry.UpsertSource(ctx, source); err != nil {
				logger.Fatal("Failed to register source", zap.Error(err))
			}
		}
		logger.Info("Contract loaded",
			zap.String("contract_id", doc.Contract.ID),
			zap.Int("terms", len(doc.Contract.Terms)),
			zap.Int("rules", len(doc.Contract.Rules)),
			zap.Int("sources", len(doc.Sources)))
	}

	emitter := lineage.NewEmitter(lineage.NewLogSink(logger), lineage.EmitterOptions{
		QueueSize:   cfg.Lineage.QueueSize,
		EmitTimeout: cfg.Lineage.EmitTimeout(),
	}, logger)
	defer emitter.Close()

	eng := engine.New(emitter, engine.Options{
		MaxFanOut:   cfg.Engine.MaxFanOut,
		PlanTimeout: cfg.Engine.PlanTimeout(),
	}, logger)
	_ = eng // transport layers construct queries and call eng.ExecutePlans

	holder, err := buildContext(ctx, registry, logger)
	if err != nil {
		logger.Fatal("Failed to build engine context", zap.Error(err))
	}

	logger.Info("Engine ready",
		zap.Int("adapter_kinds", len(connectors.RegisteredAdapters())))

	// With a contract on hand, run the governance analyses once at startup
	// so operators get a health snapshot in the log.
	ectx := holder.Load()
	if ectx.Contract != nil {
		detector := drift.New(logger)
		findings := detector.DetectDrift(ctx, ectx.Contract, ectx.Connectors)
		if len(findings) > 0 {
			log.Print(drift.Report(findings))
		}

		assessment := debt.AssessContract(ectx.Contract, nil)
		logger.Info("Semantic debt assessment",
			zap.Float64("term_coverage", assessment.TermCoverage),
			zap.Float64("overall_score", assessment.OverallScore))
	}
}

// buildContext dials a connector per registered source and snapshots them
// together with the active contract.
func buildContext(ctx context.Context, registry contract.Registry, logger *zap.Logger) (*engine.ContextHolder, error) {
	sources, err := registry.GetSources(ctx)
	if err != nil {
		return nil, err
	}

	conns := make([]connectors.Connector, 0, len(sources))
	for _, source := range sources {
		conn, err := connectors.New(ctx, source)
		if err != nil {
			logger.Warn("Skipping source, connector construction failed",
				zap.String("source_id", source.ID),
				zap.String("kind", source.Kind),
				zap.Error(err))
			continue
		}
		conns = append(conns, conn)
	}

	active, err := registry.GetContract(ctx)
	if err != nil {
		active = nil // engine context without a contract is still useful for discovery
	}
	return engine.NewContextHolder(engine.NewEngineContext(conns, sources, active)), nil
}
