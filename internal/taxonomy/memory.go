package taxonomy

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory taxonomy store for scaffolding/tests.
type MemoryRepository struct {
	mu         sync.RWMutex
	taxonomies map[uuid.UUID]*Taxonomy
	apiIDIndex map[string]uuid.UUID
	terms      map[uuid.UUID]*Term
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		taxonomies: make(map[uuid.UUID]*Taxonomy),
		apiIDIndex: make(map[string]uuid.UUID),
		terms:      make(map[uuid.UUID]*Term),
	}
}

// CreateTaxonomy inserts the supplied taxonomy.
func (m *MemoryRepository) CreateTaxonomy(_ context.Context, record *Taxonomy) (*Taxonomy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.apiIDIndex[record.APIID]; ok {
		return nil, &ConflictError{Resource: "taxonomy", Key: record.APIID}
	}

	copied := cloneTaxonomy(record)
	m.taxonomies[copied.ID] = copied
	m.apiIDIndex[copied.APIID] = copied.ID
	return cloneTaxonomy(copied), nil
}

// UpdateTaxonomy persists taxonomy changes.
func (m *MemoryRepository) UpdateTaxonomy(_ context.Context, record *Taxonomy) (*Taxonomy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.taxonomies[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "taxonomy", Key: record.ID.String()}
	}

	updated := cloneTaxonomy(record)
	updated.APIID = current.APIID
	m.taxonomies[record.ID] = updated
	return cloneTaxonomy(updated), nil
}

// DeleteTaxonomy removes a taxonomy and its terms.
func (m *MemoryRepository) DeleteTaxonomy(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.taxonomies[id]
	if !ok {
		return &NotFoundError{Resource: "taxonomy", Key: id.String()}
	}
	for termID, term := range m.terms {
		if term.TaxonomyID == id {
			delete(m.terms, termID)
		}
	}
	delete(m.apiIDIndex, record.APIID)
	delete(m.taxonomies, id)
	return nil
}

// GetTaxonomy retrieves a taxonomy by identifier.
func (m *MemoryRepository) GetTaxonomy(_ context.Context, id uuid.UUID) (*Taxonomy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.taxonomies[id]
	if !ok {
		return nil, &NotFoundError{Resource: "taxonomy", Key: id.String()}
	}
	return cloneTaxonomy(record), nil
}

// GetTaxonomyByAPIID retrieves a taxonomy by its api_id.
func (m *MemoryRepository) GetTaxonomyByAPIID(_ context.Context, apiID string) (*Taxonomy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.apiIDIndex[apiID]
	if !ok {
		return nil, &NotFoundError{Resource: "taxonomy", Key: apiID}
	}
	return cloneTaxonomy(m.taxonomies[id]), nil
}

// ListTaxonomies returns every taxonomy.
func (m *MemoryRepository) ListTaxonomies(_ context.Context) ([]*Taxonomy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Taxonomy, 0, len(m.taxonomies))
	for _, record := range m.taxonomies {
		out = append(out, cloneTaxonomy(record))
	}
	return out, nil
}

// CreateTerm inserts the supplied term.
func (m *MemoryRepository) CreateTerm(_ context.Context, record *Term) (*Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.taxonomies[record.TaxonomyID]; !ok {
		return nil, &NotFoundError{Resource: "taxonomy", Key: record.TaxonomyID.String()}
	}

	copied := cloneTerm(record)
	m.terms[copied.ID] = copied
	return cloneTerm(copied), nil
}

// UpdateTerm persists term changes.
func (m *MemoryRepository) UpdateTerm(_ context.Context, record *Term) (*Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.terms[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "term", Key: record.ID.String()}
	}

	updated := cloneTerm(record)
	updated.TaxonomyID = current.TaxonomyID
	m.terms[record.ID] = updated
	return cloneTerm(updated), nil
}

// DeleteTerm removes a term.
func (m *MemoryRepository) DeleteTerm(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.terms[id]; !ok {
		return &NotFoundError{Resource: "term", Key: id.String()}
	}
	delete(m.terms, id)
	return nil
}

// GetTerm retrieves a term by identifier.
func (m *MemoryRepository) GetTerm(_ context.Context, id uuid.UUID) (*Term, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.terms[id]
	if !ok {
		return nil, &NotFoundError{Resource: "term", Key: id.String()}
	}
	return cloneTerm(record), nil
}

// ListTerms returns every term of a taxonomy.
func (m *MemoryRepository) ListTerms(_ context.Context, taxonomyID uuid.UUID) ([]*Term, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Term, 0)
	for _, record := range m.terms {
		if record.TaxonomyID == taxonomyID {
			out = append(out, cloneTerm(record))
		}
	}
	return out, nil
}

// ListChildren returns the direct children of a term.
func (m *MemoryRepository) ListChildren(_ context.Context, parentID uuid.UUID) ([]*Term, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Term, 0)
	for _, record := range m.terms {
		if record.ParentID != nil && *record.ParentID == parentID {
			out = append(out, cloneTerm(record))
		}
	}
	return out, nil
}

func cloneTaxonomy(record *Taxonomy) *Taxonomy {
	if record == nil {
		return nil
	}
	copied := *record
	if record.ContentTypeIDs != nil {
		copied.ContentTypeIDs = append([]uuid.UUID(nil), record.ContentTypeIDs...)
	}
	if record.DeletedAt != nil {
		deleted := *record.DeletedAt
		copied.DeletedAt = &deleted
	}
	copied.Terms = nil
	return &copied
}

func cloneTerm(record *Term) *Term {
	if record == nil {
		return nil
	}
	copied := *record
	if record.ParentID != nil {
		parent := *record.ParentID
		copied.ParentID = &parent
	}
	copied.TranslatedNames = cloneStringMap(record.TranslatedNames)
	copied.TranslatedSlugs = cloneStringMap(record.TranslatedSlugs)
	return &copied
}

func cloneStringMap(input map[string]string) map[string]string {
	if input == nil {
		return nil
	}
	out := make(map[string]string, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
