package webhooks

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-headless/internal/domain"
	"github.com/google/uuid"
)

// MemoryRepository keeps webhook records in process memory.
type MemoryRepository struct {
	mu        sync.RWMutex
	endpoints map[uuid.UUID]*Endpoint
	logs      map[uuid.UUID]*EventLog
}

// NewMemoryRepository builds an empty in-memory webhook store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		endpoints: make(map[uuid.UUID]*Endpoint),
		logs:      make(map[uuid.UUID]*EventLog),
	}
}

func (r *MemoryRepository) CreateEndpoint(ctx context.Context, record *Endpoint) (*Endpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := cloneEndpoint(record)
	r.endpoints[clone.ID] = clone
	return cloneEndpoint(clone), nil
}

func (r *MemoryRepository) UpdateEndpoint(ctx context.Context, record *Endpoint) (*Endpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.endpoints[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "webhook endpoint", Key: record.ID.String()}
	}
	clone := cloneEndpoint(record)
	clone.CreatedAt = current.CreatedAt
	clone.CreatedBy = current.CreatedBy
	r.endpoints[clone.ID] = clone
	return cloneEndpoint(clone), nil
}

func (r *MemoryRepository) DeleteEndpoint(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.endpoints[id]; !ok {
		return &NotFoundError{Resource: "webhook endpoint", Key: id.String()}
	}
	delete(r.endpoints, id)
	return nil
}

func (r *MemoryRepository) GetEndpoint(ctx context.Context, id uuid.UUID) (*Endpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.endpoints[id]
	if !ok {
		return nil, &NotFoundError{Resource: "webhook endpoint", Key: id.String()}
	}
	return cloneEndpoint(record), nil
}

func (r *MemoryRepository) ListEndpoints(ctx context.Context) ([]*Endpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*Endpoint, 0, len(r.endpoints))
	for _, record := range r.endpoints {
		results = append(results, cloneEndpoint(record))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].CreatedAt.Before(results[j].CreatedAt) })
	return results, nil
}

func (r *MemoryRepository) ListSubscribed(ctx context.Context, event string) ([]*Endpoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*Endpoint, 0)
	for _, record := range r.endpoints {
		if !record.IsActive {
			continue
		}
		if !subscribes(record.SubscribedEvents, event) {
			continue
		}
		results = append(results, cloneEndpoint(record))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].CreatedAt.Before(results[j].CreatedAt) })
	return results, nil
}

func (r *MemoryRepository) AppendLog(ctx context.Context, record *EventLog) (*EventLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := cloneLog(record)
	r.logs[clone.ID] = clone
	return cloneLog(clone), nil
}

func (r *MemoryRepository) GetLog(ctx context.Context, id uuid.UUID) (*EventLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.logs[id]
	if !ok {
		return nil, &NotFoundError{Resource: "webhook log", Key: id.String()}
	}
	return cloneLog(record), nil
}

func (r *MemoryRepository) ListLogs(ctx context.Context, endpointID uuid.UUID, limit, offset int) ([]*EventLog, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]*EventLog, 0)
	for _, record := range r.logs {
		if record.EndpointID != endpointID {
			continue
		}
		matches = append(matches, record)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Timestamp.After(matches[j].Timestamp) })

	total := len(matches)
	if offset > 0 {
		if offset >= len(matches) {
			matches = nil
		} else {
			matches = matches[offset:]
		}
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]*EventLog, 0, len(matches))
	for _, record := range matches {
		results = append(results, cloneLog(record))
	}
	return results, total, nil
}

func subscribes(events []string, event string) bool {
	for _, subscribed := range events {
		if subscribed == event || subscribed == domain.EventWildcard {
			return true
		}
	}
	return false
}

func cloneEndpoint(record *Endpoint) *Endpoint {
	if record == nil {
		return nil
	}
	clone := *record
	clone.SubscribedEvents = append([]string(nil), record.SubscribedEvents...)
	if record.CreatedBy != nil {
		createdBy := *record.CreatedBy
		clone.CreatedBy = &createdBy
	}
	return &clone
}

func cloneLog(record *EventLog) *EventLog {
	if record == nil {
		return nil
	}
	clone := *record
	if record.RequestHeaders != nil {
		clone.RequestHeaders = make(map[string]string, len(record.RequestHeaders))
		for key, value := range record.RequestHeaders {
			clone.RequestHeaders[key] = value
		}
	}
	if record.ResponseStatusCode != nil {
		statusCode := *record.ResponseStatusCode
		clone.ResponseStatusCode = &statusCode
	}
	return &clone
}
