package webhooks

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BunRepository struct {
	db        *bun.DB
	endpoints repository.Repository[*Endpoint]
	logs      repository.Repository[*EventLog]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache constructs a webhook repository backed by bun with
// optional caching. Event logs bypass the cache; they are append-only and read
// rarely.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunRepository {
	endpoints := NewEndpointRepository(db)
	if cacheService != nil && keySerializer != nil {
		endpoints = repositorycache.New(endpoints, cacheService, keySerializer)
	}
	return &BunRepository{
		db:        db,
		endpoints: endpoints,
		logs:      NewEventLogRepository(db),
	}
}

func (r *BunRepository) CreateEndpoint(ctx context.Context, record *Endpoint) (*Endpoint, error) {
	created, err := r.endpoints.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "webhook endpoint", record.ID.String())
	}
	return created, nil
}

func (r *BunRepository) UpdateEndpoint(ctx context.Context, record *Endpoint) (*Endpoint, error) {
	updated, err := r.endpoints.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"target_url",
			"subscribed_events",
			"secret",
			"is_active",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "webhook endpoint", record.ID.String())
	}
	return updated, nil
}

func (r *BunRepository) DeleteEndpoint(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return fmt.Errorf("webhook repository: database not configured")
	}

	result, err := r.db.NewDelete().
		Model((*Endpoint)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete webhook endpoint: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("webhook endpoint delete rows affected: %w", err)
	}
	if affected == 0 {
		return &NotFoundError{Resource: "webhook endpoint", Key: id.String()}
	}
	return nil
}

func (r *BunRepository) GetEndpoint(ctx context.Context, id uuid.UUID) (*Endpoint, error) {
	result, err := r.endpoints.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "webhook endpoint", id.String())
	}
	return result, nil
}

func (r *BunRepository) ListEndpoints(ctx context.Context) ([]*Endpoint, error) {
	records, _, err := r.endpoints.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("whe.created_at ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "webhook endpoint", "")
	}
	return records, nil
}

func (r *BunRepository) ListSubscribed(ctx context.Context, event string) ([]*Endpoint, error) {
	records, _, err := r.endpoints.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.is_active = ?", true).Order("whe.created_at ASC")
		}),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "webhook endpoint", event)
	}

	// subscription lists live in a jsonb array; match after the fetch
	matched := records[:0]
	for _, record := range records {
		if subscribes(record.SubscribedEvents, event) {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

func (r *BunRepository) AppendLog(ctx context.Context, record *EventLog) (*EventLog, error) {
	created, err := r.logs.Create(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "webhook log", record.ID.String())
	}
	return created, nil
}

func (r *BunRepository) GetLog(ctx context.Context, id uuid.UUID) (*EventLog, error) {
	result, err := r.logs.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "webhook log", id.String())
	}
	return result, nil
}

func (r *BunRepository) ListLogs(ctx context.Context, endpointID uuid.UUID, limit, offset int) ([]*EventLog, int, error) {
	criteria := []repository.SelectCriteria{
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.endpoint_id = ?", endpointID).
				Order("whl.timestamp DESC")
		}),
	}
	if limit > 0 {
		criteria = append(criteria, repository.SelectPaginate(limit, offset))
	}

	records, total, err := r.logs.List(ctx, criteria...)
	if err != nil {
		return nil, 0, mapRepositoryError(err, "webhook log", endpointID.String())
	}
	return records, total, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}
