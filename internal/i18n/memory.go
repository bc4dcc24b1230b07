package i18n

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryLanguageRepository is an in-memory language store for scaffolding/tests.
type MemoryLanguageRepository struct {
	mu        sync.RWMutex
	languages map[uuid.UUID]*Language
	codeIndex map[string]uuid.UUID
}

// NewMemoryLanguageRepository constructs the repository.
func NewMemoryLanguageRepository() *MemoryLanguageRepository {
	return &MemoryLanguageRepository{
		languages: make(map[uuid.UUID]*Language),
		codeIndex: make(map[string]uuid.UUID),
	}
}

// Create inserts the supplied language.
func (m *MemoryLanguageRepository) Create(_ context.Context, record *Language) (*Language, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	code := strings.ToLower(record.Code)
	if _, ok := m.codeIndex[code]; ok {
		return nil, ErrLanguageExists
	}

	copied := cloneLanguage(record)
	copied.Code = code
	m.languages[copied.ID] = copied
	m.codeIndex[code] = copied.ID
	return cloneLanguage(copied), nil
}

// Update persists changes to an existing language.
func (m *MemoryLanguageRepository) Update(_ context.Context, record *Language) (*Language, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.languages[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "language", Key: record.ID.String()}
	}

	updated := cloneLanguage(record)
	updated.Code = current.Code
	m.languages[record.ID] = updated
	return cloneLanguage(updated), nil
}

// Delete removes a language by identifier.
func (m *MemoryLanguageRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.languages[id]
	if !ok {
		return &NotFoundError{Resource: "language", Key: id.String()}
	}
	delete(m.codeIndex, record.Code)
	delete(m.languages, id)
	return nil
}

// GetByCode retrieves a language by its code.
func (m *MemoryLanguageRepository) GetByCode(_ context.Context, code string) (*Language, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.codeIndex[strings.ToLower(code)]
	if !ok {
		return nil, &NotFoundError{Resource: "language", Key: code}
	}
	return cloneLanguage(m.languages[id]), nil
}

// List returns every language.
func (m *MemoryLanguageRepository) List(_ context.Context) ([]*Language, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Language, 0, len(m.languages))
	for _, record := range m.languages {
		out = append(out, cloneLanguage(record))
	}
	return out, nil
}

// SetDefault marks the supplied code as the only default language.
func (m *MemoryLanguageRepository) SetDefault(_ context.Context, code string) (*Language, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.codeIndex[strings.ToLower(code)]
	if !ok {
		return nil, &NotFoundError{Resource: "language", Key: code}
	}

	for _, record := range m.languages {
		record.IsDefault = record.ID == id
	}
	return cloneLanguage(m.languages[id]), nil
}

func cloneLanguage(record *Language) *Language {
	if record == nil {
		return nil
	}
	copied := *record
	if record.DeletedAt != nil {
		deleted := *record.DeletedAt
		copied.DeletedAt = &deleted
	}
	return &copied
}
