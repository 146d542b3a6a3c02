package engine

import (
	"sync/atomic"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/connectors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

// EngineContext is the immutable snapshot of registries an execution runs
// against. Reconfiguration builds a new context and swaps it atomically;
// in-flight executions keep the snapshot they started with.
type EngineContext struct {
	Connectors map[string]connectors.Connector
	Sources    map[string]models.DataSourceRef
	Contract   *models.SemanticContract
}

// NewEngineContext assembles a snapshot. The maps are copied so later
// mutation of the inputs cannot leak into a published context.
func NewEngineContext(conns []connectors.Connector, sources []models.DataSourceRef, contract *models.SemanticContract) *EngineContext {
	connMap := make(map[string]connectors.Connector, len(conns))
	for _, c := range conns {
		connMap[c.ID()] = c
	}
	srcMap := make(map[string]models.DataSourceRef, len(sources))
	for _, s := range sources {
		srcMap[s.ID] = s
	}
	return &EngineContext{
		Connectors: connMap,
		Sources:    srcMap,
		Contract:   contract,
	}
}

// Connector returns the connector registered for a source ID.
func (c *EngineContext) Connector(sourceID string) (connectors.Connector, bool) {
	conn, ok := c.Connectors[sourceID]
	return conn, ok
}

// ContextHolder publishes the current EngineContext to concurrent readers
// with an atomic pointer swap.
type ContextHolder struct {
	current atomic.Pointer[EngineContext]
}

// NewContextHolder starts with the given context.
func NewContextHolder(ectx *EngineContext) *ContextHolder {
	h := &ContextHolder{}
	h.current.Store(ectx)
	return h
}

// Load returns the current snapshot.
func (h *ContextHolder) Load() *EngineContext {
	return h.current.Load()
}

// Swap publishes a new snapshot.
func (h *ContextHolder) Swap(ectx *EngineContext) {
	h.current.Store(ectx)
}
