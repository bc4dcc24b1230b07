package taxonomy

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewTaxonomyRepository(db *bun.DB) repository.Repository[*Taxonomy] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Taxonomy]{
		NewRecord: func() *Taxonomy { return &Taxonomy{} },
		GetID: func(t *Taxonomy) uuid.UUID {
			return t.ID
		},
		SetID: func(t *Taxonomy, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "api_id"
		},
		GetIdentifierValue: func(t *Taxonomy) string {
			return t.APIID
		},
	})
}

func NewTermRepository(db *bun.DB) repository.Repository[*Term] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Term]{
		NewRecord: func() *Term { return &Term{} },
		GetID: func(t *Term) uuid.UUID {
			return t.ID
		},
		SetID: func(t *Term, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return ""
		},
		GetIdentifierValue: func(*Term) string {
			return ""
		},
	})
}
