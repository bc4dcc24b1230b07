package schema

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryContentTypeRepository is an in-memory schema store for scaffolding/tests.
type MemoryContentTypeRepository struct {
	mu         sync.RWMutex
	types      map[uuid.UUID]*ContentType
	apiIDIndex map[string]uuid.UUID
	fields     map[uuid.UUID]*FieldDefinition
}

// NewMemoryContentTypeRepository constructs the repository.
func NewMemoryContentTypeRepository() *MemoryContentTypeRepository {
	return &MemoryContentTypeRepository{
		types:      make(map[uuid.UUID]*ContentType),
		apiIDIndex: make(map[string]uuid.UUID),
		fields:     make(map[uuid.UUID]*FieldDefinition),
	}
}

// Create inserts the supplied content type.
func (m *MemoryContentTypeRepository) Create(_ context.Context, record *ContentType) (*ContentType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.apiIDIndex[record.APIID]; ok {
		return nil, &ConflictError{Resource: "content type", Key: record.APIID}
	}

	copied := cloneContentType(record)
	copied.Fields = nil
	m.types[copied.ID] = copied
	m.apiIDIndex[copied.APIID] = copied.ID
	return m.attachFields(cloneContentType(copied)), nil
}

// Update persists metadata changes for a content type.
func (m *MemoryContentTypeRepository) Update(_ context.Context, record *ContentType) (*ContentType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.types[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "content type", Key: record.ID.String()}
	}

	updated := cloneContentType(record)
	updated.APIID = current.APIID
	updated.Fields = nil
	m.types[record.ID] = updated
	return m.attachFields(cloneContentType(updated)), nil
}

// Delete removes a content type and its field definitions.
func (m *MemoryContentTypeRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.types[id]
	if !ok {
		return &NotFoundError{Resource: "content type", Key: id.String()}
	}
	for fieldID, field := range m.fields {
		if field.ContentTypeID == id {
			delete(m.fields, fieldID)
		}
	}
	delete(m.apiIDIndex, record.APIID)
	delete(m.types, id)
	return nil
}

// GetByID retrieves a content type with its fields.
func (m *MemoryContentTypeRepository) GetByID(_ context.Context, id uuid.UUID) (*ContentType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.types[id]
	if !ok {
		return nil, &NotFoundError{Resource: "content type", Key: id.String()}
	}
	return m.attachFields(cloneContentType(record)), nil
}

// GetByAPIID retrieves a content type by its api_id.
func (m *MemoryContentTypeRepository) GetByAPIID(_ context.Context, apiID string) (*ContentType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.apiIDIndex[apiID]
	if !ok {
		return nil, &NotFoundError{Resource: "content type", Key: apiID}
	}
	return m.attachFields(cloneContentType(m.types[id])), nil
}

// List returns every content type.
func (m *MemoryContentTypeRepository) List(_ context.Context) ([]*ContentType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*ContentType, 0, len(m.types))
	for _, record := range m.types {
		out = append(out, m.attachFields(cloneContentType(record)))
	}
	return out, nil
}

// CreateField inserts a field definition.
func (m *MemoryContentTypeRepository) CreateField(_ context.Context, record *FieldDefinition) (*FieldDefinition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.types[record.ContentTypeID]; !ok {
		return nil, &NotFoundError{Resource: "content type", Key: record.ContentTypeID.String()}
	}
	for _, field := range m.fields {
		if field.ContentTypeID == record.ContentTypeID && field.APIID == record.APIID {
			return nil, &ConflictError{Resource: "field", Key: record.APIID}
		}
	}

	copied := cloneField(record)
	m.fields[copied.ID] = copied
	return cloneField(copied), nil
}

// UpdateField persists changes to a field definition.
func (m *MemoryContentTypeRepository) UpdateField(_ context.Context, record *FieldDefinition) (*FieldDefinition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.fields[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "field", Key: record.ID.String()}
	}

	updated := cloneField(record)
	updated.APIID = current.APIID
	updated.FieldType = current.FieldType
	updated.ContentTypeID = current.ContentTypeID
	m.fields[record.ID] = updated
	return cloneField(updated), nil
}

// DeleteField removes a field definition.
func (m *MemoryContentTypeRepository) DeleteField(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.fields[id]; !ok {
		return &NotFoundError{Resource: "field", Key: id.String()}
	}
	delete(m.fields, id)
	return nil
}

// GetField retrieves a field definition by identifier.
func (m *MemoryContentTypeRepository) GetField(_ context.Context, id uuid.UUID) (*FieldDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.fields[id]
	if !ok {
		return nil, &NotFoundError{Resource: "field", Key: id.String()}
	}
	return cloneField(record), nil
}

// ListFields returns every field definition for a content type.
func (m *MemoryContentTypeRepository) ListFields(_ context.Context, contentTypeID uuid.UUID) ([]*FieldDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*FieldDefinition, 0)
	for _, record := range m.fields {
		if record.ContentTypeID == contentTypeID {
			out = append(out, cloneField(record))
		}
	}
	return out, nil
}

func (m *MemoryContentTypeRepository) attachFields(record *ContentType) *ContentType {
	if record == nil {
		return nil
	}
	for _, field := range m.fields {
		if field.ContentTypeID == record.ID {
			record.Fields = append(record.Fields, cloneField(field))
		}
	}
	sortFields(record.Fields)
	return record
}

// MemoryComponentRepository is an in-memory component store for scaffolding/tests.
type MemoryComponentRepository struct {
	mu         sync.RWMutex
	components map[uuid.UUID]*ComponentDefinition
	apiIDIndex map[string]uuid.UUID
	fields     map[uuid.UUID]*ComponentFieldDefinition
}

// NewMemoryComponentRepository constructs the repository.
func NewMemoryComponentRepository() *MemoryComponentRepository {
	return &MemoryComponentRepository{
		components: make(map[uuid.UUID]*ComponentDefinition),
		apiIDIndex: make(map[string]uuid.UUID),
		fields:     make(map[uuid.UUID]*ComponentFieldDefinition),
	}
}

// Create inserts the supplied component.
func (m *MemoryComponentRepository) Create(_ context.Context, record *ComponentDefinition) (*ComponentDefinition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.apiIDIndex[record.APIID]; ok {
		return nil, &ConflictError{Resource: "component", Key: record.APIID}
	}

	copied := cloneComponent(record)
	copied.Fields = nil
	m.components[copied.ID] = copied
	m.apiIDIndex[copied.APIID] = copied.ID
	return m.attachComponentFields(cloneComponent(copied)), nil
}

// Delete removes a component and its fields.
func (m *MemoryComponentRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.components[id]
	if !ok {
		return &NotFoundError{Resource: "component", Key: id.String()}
	}
	for fieldID, field := range m.fields {
		if field.ComponentID == id {
			delete(m.fields, fieldID)
		}
	}
	delete(m.apiIDIndex, record.APIID)
	delete(m.components, id)
	return nil
}

// GetByAPIID retrieves a component by its api_id.
func (m *MemoryComponentRepository) GetByAPIID(_ context.Context, apiID string) (*ComponentDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.apiIDIndex[apiID]
	if !ok {
		return nil, &NotFoundError{Resource: "component", Key: apiID}
	}
	return m.attachComponentFields(cloneComponent(m.components[id])), nil
}

// List returns every component.
func (m *MemoryComponentRepository) List(_ context.Context) ([]*ComponentDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*ComponentDefinition, 0, len(m.components))
	for _, record := range m.components {
		out = append(out, m.attachComponentFields(cloneComponent(record)))
	}
	return out, nil
}

// CreateField inserts a component field definition.
func (m *MemoryComponentRepository) CreateField(_ context.Context, record *ComponentFieldDefinition) (*ComponentFieldDefinition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.components[record.ComponentID]; !ok {
		return nil, &NotFoundError{Resource: "component", Key: record.ComponentID.String()}
	}

	copied := cloneComponentField(record)
	m.fields[copied.ID] = copied
	return cloneComponentField(copied), nil
}

// ListFields returns every field definition for a component.
func (m *MemoryComponentRepository) ListFields(_ context.Context, componentID uuid.UUID) ([]*ComponentFieldDefinition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*ComponentFieldDefinition, 0)
	for _, record := range m.fields {
		if record.ComponentID == componentID {
			out = append(out, cloneComponentField(record))
		}
	}
	return out, nil
}

func (m *MemoryComponentRepository) attachComponentFields(record *ComponentDefinition) *ComponentDefinition {
	if record == nil {
		return nil
	}
	for _, field := range m.fields {
		if field.ComponentID == record.ID {
			record.Fields = append(record.Fields, cloneComponentField(field))
		}
	}
	return record
}

func cloneContentType(record *ContentType) *ContentType {
	if record == nil {
		return nil
	}
	copied := *record
	if record.Description != nil {
		desc := *record.Description
		copied.Description = &desc
	}
	if record.DeletedAt != nil {
		deleted := *record.DeletedAt
		copied.DeletedAt = &deleted
	}
	copied.Fields = nil
	for _, field := range record.Fields {
		copied.Fields = append(copied.Fields, cloneField(field))
	}
	return &copied
}

func cloneField(record *FieldDefinition) *FieldDefinition {
	if record == nil {
		return nil
	}
	copied := *record
	return &copied
}

func cloneComponent(record *ComponentDefinition) *ComponentDefinition {
	if record == nil {
		return nil
	}
	copied := *record
	if record.Description != nil {
		desc := *record.Description
		copied.Description = &desc
	}
	copied.Fields = nil
	for _, field := range record.Fields {
		copied.Fields = append(copied.Fields, cloneComponentField(field))
	}
	return &copied
}

func cloneComponentField(record *ComponentFieldDefinition) *ComponentFieldDefinition {
	if record == nil {
		return nil
	}
	copied := *record
	return &copied
}
