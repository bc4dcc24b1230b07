package schema

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewContentTypeRecordRepository(db *bun.DB) repository.Repository[*ContentType] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ContentType]{
		NewRecord: func() *ContentType { return &ContentType{} },
		GetID: func(ct *ContentType) uuid.UUID {
			return ct.ID
		},
		SetID: func(ct *ContentType, id uuid.UUID) {
			ct.ID = id
		},
		GetIdentifier: func() string {
			return "api_id"
		},
		GetIdentifierValue: func(ct *ContentType) string {
			return ct.APIID
		},
	})
}

func NewFieldDefinitionRepository(db *bun.DB) repository.Repository[*FieldDefinition] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*FieldDefinition]{
		NewRecord: func() *FieldDefinition { return &FieldDefinition{} },
		GetID: func(fd *FieldDefinition) uuid.UUID {
			return fd.ID
		},
		SetID: func(fd *FieldDefinition, id uuid.UUID) {
			fd.ID = id
		},
		GetIdentifier: func() string {
			return ""
		},
		GetIdentifierValue: func(*FieldDefinition) string {
			return ""
		},
	})
}

func NewComponentDefinitionRepository(db *bun.DB) repository.Repository[*ComponentDefinition] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ComponentDefinition]{
		NewRecord: func() *ComponentDefinition { return &ComponentDefinition{} },
		GetID: func(cd *ComponentDefinition) uuid.UUID {
			return cd.ID
		},
		SetID: func(cd *ComponentDefinition, id uuid.UUID) {
			cd.ID = id
		},
		GetIdentifier: func() string {
			return "api_id"
		},
		GetIdentifierValue: func(cd *ComponentDefinition) string {
			return cd.APIID
		},
	})
}

func NewComponentFieldDefinitionRepository(db *bun.DB) repository.Repository[*ComponentFieldDefinition] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ComponentFieldDefinition]{
		NewRecord: func() *ComponentFieldDefinition { return &ComponentFieldDefinition{} },
		GetID: func(cfd *ComponentFieldDefinition) uuid.UUID {
			return cfd.ID
		},
		SetID: func(cfd *ComponentFieldDefinition, id uuid.UUID) {
			cfd.ID = id
		},
		GetIdentifier: func() string {
			return ""
		},
		GetIdentifierValue: func(*ComponentFieldDefinition) string {
			return ""
		},
	})
}
