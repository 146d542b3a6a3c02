package connectors

import (
	"context"
	"fmt"
	"sync"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

// AdapterInfo describes a registered adapter kind.
type AdapterInfo struct {
	Kind        string `json:"kind"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

// Factory builds a connector for one data source from its config map.
type Factory func(ctx context.Context, source models.DataSourceRef) (Connector, error)

// AdapterRegistration pairs adapter info with its factory.
type AdapterRegistration struct {
	Info    AdapterInfo
	Factory Factory
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]AdapterRegistration)
)

// Register is called by each adapter package's init().
// Thread-safe for concurrent init() calls.
func Register(reg AdapterRegistration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reg.Info.Kind] = reg
}

// RegisteredAdapters returns info for all registered adapter kinds.
func RegisteredAdapters() []AdapterInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]AdapterInfo, 0, len(registry))
	for _, reg := range registry {
		result = append(result, reg.Info)
	}
	return result
}

// New builds a connector for the source using its registered kind factory.
func New(ctx context.Context, source models.DataSourceRef) (Connector, error) {
	registryMu.RLock()
	reg, ok := registry[source.Kind]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unsupported connector kind: %s (not compiled in)", source.Kind)
	}
	return reg.Factory(ctx, source)
}

// IsRegistered checks whether an adapter kind is available.
func IsRegistered(kind string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[kind]
	return ok
}
