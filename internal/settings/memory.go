package settings

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository keeps the settings record in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Settings
}

// NewMemoryRepository builds an empty in-memory settings store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[uuid.UUID]*Settings)}
}

func (r *MemoryRepository) Get(ctx context.Context, id uuid.UUID) (*Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok {
		return nil, &NotFoundError{Key: id.String()}
	}
	return cloneSettings(record), nil
}

func (r *MemoryRepository) Create(ctx context.Context, record *Settings) (*Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := cloneSettings(record)
	r.records[clone.ID] = clone
	return cloneSettings(clone), nil
}

func (r *MemoryRepository) Update(ctx context.Context, record *Settings) (*Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.records[record.ID]
	if !ok {
		return nil, &NotFoundError{Key: record.ID.String()}
	}
	clone := cloneSettings(record)
	clone.CreatedAt = current.CreatedAt
	r.records[clone.ID] = clone
	return cloneSettings(clone), nil
}

func cloneSettings(record *Settings) *Settings {
	if record == nil {
		return nil
	}
	clone := *record
	if record.ExternalIntegrations != nil {
		clone.ExternalIntegrations = make(map[string]any, len(record.ExternalIntegrations))
		for key, value := range record.ExternalIntegrations {
			clone.ExternalIntegrations[key] = value
		}
	}
	return &clone
}
