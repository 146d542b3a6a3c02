// Package contract provides the in-memory registry collaborator: the
// read-mostly store of the active semantic contract and its data sources.
package contract

import (
	"context"
	"fmt"
	"sync"

	"github.com/Mat-Tom-Son/jargon-sub000/pkg/apperrors"
	"github.com/Mat-Tom-Son/jargon-sub000/pkg/models"
)

// Registry is the store interface the engine collaborates with. Calls are
// eventually consistent; no transactional guarantees across upserts.
type Registry interface {
	GetContract(ctx context.Context) (*models.SemanticContract, error)
	SetContract(ctx context.Context, c models.SemanticContract) error
	ListTerms(ctx context.Context) ([]models.Term, error)
	ListRules(ctx context.Context) ([]models.MappingRule, error)
	GetSources(ctx context.Context) ([]models.DataSourceRef, error)
	UpsertSource(ctx context.Context, s models.DataSourceRef) error
	UpsertTerm(ctx context.Context, t models.Term) error
	UpsertRule(ctx context.Context, r models.MappingRule) error
}

// MemoryRegistry keeps everything in process memory. Reads copy out so
// callers never observe a contract mid-update.
type MemoryRegistry struct {
	mu       sync.RWMutex
	contract *models.SemanticContract
	sources  map[string]models.DataSourceRef
	order    []string // source insertion order
}

// NewMemoryRegistry creates an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{sources: make(map[string]models.DataSourceRef)}
}

func (r *MemoryRegistry) GetContract(_ context.Context) (*models.SemanticContract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.contract == nil {
		return nil, apperrors.ErrContractNotSet
	}
	c := *r.contract
	return &c, nil
}

func (r *MemoryRegistry) SetContract(_ context.Context, c models.SemanticContract) error {
	if c.ID == "" {
		return fmt.Errorf("contract id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contract = &c
	return nil
}

func (r *MemoryRegistry) ListTerms(ctx context.Context) ([]models.Term, error) {
	c, err := r.GetContract(ctx)
	if err != nil {
		return nil, err
	}
	return c.Terms, nil
}

func (r *MemoryRegistry) ListRules(ctx context.Context) ([]models.MappingRule, error) {
	c, err := r.GetContract(ctx)
	if err != nil {
		return nil, err
	}
	return c.Rules, nil
}

func (r *MemoryRegistry) GetSources(_ context.Context) ([]models.DataSourceRef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.DataSourceRef, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sources[id])
	}
	return out, nil
}

func (r *MemoryRegistry) UpsertSource(_ context.Context, s models.DataSourceRef) error {
	if s.ID == "" {
		return fmt.Errorf("source id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sources[s.ID]; !exists {
		r.order = append(r.order, s.ID)
	}
	r.sources[s.ID] = s
	return nil
}

func (r *MemoryRegistry) UpsertTerm(_ context.Context, t models.Term) error {
	if t.ID == "" {
		return fmt.Errorf("term id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.contract == nil {
		return apperrors.ErrContractNotSet
	}
	for i := range r.contract.Terms {
		if r.contract.Terms[i].ID == t.ID {
			r.contract.Terms[i] = t
			return nil
		}
	}
	r.contract.Terms = append(r.contract.Terms, t)
	return nil
}

func (r *MemoryRegistry) UpsertRule(_ context.Context, rule models.MappingRule) error {
	if rule.ID == "" {
		return fmt.Errorf("rule id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.contract == nil {
		return apperrors.ErrContractNotSet
	}
	for i := range r.contract.Rules {
		if r.contract.Rules[i].ID == rule.ID {
			r.contract.Rules[i] = rule
			return nil
		}
	}
	r.contract.Rules = append(r.contract.Rules, rule)
	return nil
}

var _ Registry = (*MemoryRegistry)(nil)
