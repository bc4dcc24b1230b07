package content

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory content store for scaffolding/tests.
type MemoryRepository struct {
	mu        sync.RWMutex
	instances map[uuid.UUID]*ContentInstance
	fields    map[uuid.UUID]*ContentFieldInstance
	versions  map[uuid.UUID][]*ContentVersion
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		instances: make(map[uuid.UUID]*ContentInstance),
		fields:    make(map[uuid.UUID]*ContentFieldInstance),
		versions:  make(map[uuid.UUID][]*ContentVersion),
	}
}

// CreateInstance inserts the instance, its field rows, and the initial
// version as one unit.
func (m *MemoryRepository) CreateInstance(_ context.Context, record *ContentInstance, fields []*ContentFieldInstance, version *ContentVersion) (*ContentInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneInstance(record)
	m.instances[copied.ID] = copied
	for _, row := range fields {
		m.fields[row.ID] = cloneFieldRow(row)
	}
	if version != nil {
		m.versions[copied.ID] = append(m.versions[copied.ID], cloneVersion(version))
	}
	return cloneInstance(copied), nil
}

// UpdateInstance persists the instance mutation, field upserts/deletes, and
// the version append as one unit. The revision guard rejects stale writers.
func (m *MemoryRepository) UpdateInstance(_ context.Context, record *ContentInstance, expectedRevision int, upserts []*ContentFieldInstance, deleteIDs []uuid.UUID, version *ContentVersion) (*ContentInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.instances[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "content instance", Key: record.ID.String()}
	}
	if current.Revision != expectedRevision {
		return nil, ErrRevisionConflict
	}

	m.instances[record.ID] = cloneInstance(record)
	for _, row := range upserts {
		m.fields[row.ID] = cloneFieldRow(row)
	}
	for _, id := range deleteIDs {
		delete(m.fields, id)
	}
	if version != nil {
		m.versions[record.ID] = append(m.versions[record.ID], cloneVersion(version))
	}
	return cloneInstance(m.instances[record.ID]), nil
}

// GetByID retrieves an instance by identifier.
func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*ContentInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.instances[id]
	if !ok {
		return nil, &NotFoundError{Resource: "content instance", Key: id.String()}
	}
	return cloneInstance(record), nil
}

// List returns instances matching the options, newest first.
func (m *MemoryRepository) List(_ context.Context, opts ListOptions) ([]*ContentInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*ContentInstance, 0, len(m.instances))
	for _, record := range m.instances {
		if opts.ContentTypeID != nil && record.ContentTypeID != *opts.ContentTypeID {
			continue
		}
		if opts.Status != nil && record.Status != *opts.Status {
			continue
		}
		out = append(out, cloneInstance(record))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return []*ContentInstance{}, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

// Delete removes an instance with its field rows and versions.
func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.instances[id]; !ok {
		return &NotFoundError{Resource: "content instance", Key: id.String()}
	}
	for rowID, row := range m.fields {
		if row.ContentInstanceID == id {
			delete(m.fields, rowID)
		}
	}
	delete(m.versions, id)
	delete(m.instances, id)
	return nil
}

// ListFields returns every field row of an instance.
func (m *MemoryRepository) ListFields(_ context.Context, instanceID uuid.UUID) ([]*ContentFieldInstance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*ContentFieldInstance, 0)
	for _, row := range m.fields {
		if row.ContentInstanceID == instanceID {
			out = append(out, cloneFieldRow(row))
		}
	}
	return out, nil
}

// CountByContentType counts instances referencing the content type.
func (m *MemoryRepository) CountByContentType(_ context.Context, contentTypeID uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, record := range m.instances {
		if record.ContentTypeID == contentTypeID {
			count++
		}
	}
	return count, nil
}

// ListVersions returns versions newest first with the total count.
func (m *MemoryRepository) ListVersions(_ context.Context, instanceID uuid.UUID, limit, offset int) ([]*ContentVersion, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.versions[instanceID]
	out := make([]*ContentVersion, 0, len(stored))
	for _, version := range stored {
		out = append(out, cloneVersion(version))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	total := len(out)
	if offset > 0 {
		if offset >= len(out) {
			return []*ContentVersion{}, total, nil
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

// GetVersion retrieves a version by identifier.
func (m *MemoryRepository) GetVersion(_ context.Context, versionID uuid.UUID) (*ContentVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, stored := range m.versions {
		for _, version := range stored {
			if version.ID == versionID {
				return cloneVersion(version), nil
			}
		}
	}
	return nil, &NotFoundError{Resource: "content version", Key: versionID.String()}
}

func cloneInstance(record *ContentInstance) *ContentInstance {
	if record == nil {
		return nil
	}
	copied := *record
	if record.AuthorID != nil {
		author := *record.AuthorID
		copied.AuthorID = &author
	}
	if record.PublishedAt != nil {
		published := *record.PublishedAt
		copied.PublishedAt = &published
	}
	if record.DeletedAt != nil {
		deleted := *record.DeletedAt
		copied.DeletedAt = &deleted
	}
	if record.TermIDs != nil {
		copied.TermIDs = append([]uuid.UUID(nil), record.TermIDs...)
	}
	copied.Fields = nil
	copied.Versions = nil
	return &copied
}

func cloneFieldRow(record *ContentFieldInstance) *ContentFieldInstance {
	if record == nil {
		return nil
	}
	copied := *record
	if record.LanguageCode != nil {
		lang := *record.LanguageCode
		copied.LanguageCode = &lang
	}
	return &copied
}

func cloneVersion(record *ContentVersion) *ContentVersion {
	if record == nil {
		return nil
	}
	copied := *record
	if record.CreatedBy != nil {
		creator := *record.CreatedBy
		copied.CreatedBy = &creator
	}
	if record.DataSnapshot != nil {
		snapshot := make(VersionSnapshot, len(record.DataSnapshot))
		for group, values := range record.DataSnapshot {
			groupCopy := make(map[string]any, len(values))
			for apiID, value := range values {
				groupCopy[apiID] = value
			}
			snapshot[group] = groupCopy
		}
		copied.DataSnapshot = snapshot
	}
	return &copied
}
