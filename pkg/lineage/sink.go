// Package lineage provides the sink collaborator interface the engine
// emits provenance records to, plus the default implementations.
package lineage

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

// Sink receives the lineage record of a completed run. Emission is
// best-effort auxiliary telemetry; the engine treats failures as notes,
// never as execution failures.
type Sink interface {
	EmitLineage(ctx context.Context, lin models.Lineage) error
}

// LogSink writes lineage records to the structured log.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a Sink backed by zap.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger.Named("lineage")}
}

func (s *LogSink) EmitLineage(_ context.Context, lin models.Lineage) error {
	sources := make([]string, 0, len(lin.Steps))
	for _, step := range lin.Steps {
		sources = append(sources, step.SourceID)
	}
	s.logger.Info("Lineage recorded",
		zap.String("run_id", lin.RunID),
		zap.Int("steps", len(lin.Steps)),
		zap.Strings("sources", sources))
	return nil
}

// MemorySink retains emitted lineage in memory. Used in tests and as a
// recent-runs buffer.
type MemorySink struct {
	mu      sync.Mutex
	records []models.Lineage
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) EmitLineage(_ context.Context, lin models.Lineage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, lin)
	return nil
}

// Records returns a copy of everything emitted so far.
func (s *MemorySink) Records() []models.Lineage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Lineage, len(s.records))
	copy(out, s.records)
	return out
}

var (
	_ Sink = (*LogSink)(nil)
	_ Sink = (*MemorySink)(nil)
)
