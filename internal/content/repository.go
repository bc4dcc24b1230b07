package content

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewInstanceRepository(db *bun.DB) repository.Repository[*ContentInstance] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ContentInstance]{
		NewRecord: func() *ContentInstance { return &ContentInstance{} },
		GetID: func(ci *ContentInstance) uuid.UUID {
			return ci.ID
		},
		SetID: func(ci *ContentInstance, id uuid.UUID) {
			ci.ID = id
		},
		GetIdentifier: func() string {
			return ""
		},
		GetIdentifierValue: func(*ContentInstance) string {
			return ""
		},
	})
}

func NewFieldInstanceRepository(db *bun.DB) repository.Repository[*ContentFieldInstance] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ContentFieldInstance]{
		NewRecord: func() *ContentFieldInstance { return &ContentFieldInstance{} },
		GetID: func(cfi *ContentFieldInstance) uuid.UUID {
			return cfi.ID
		},
		SetID: func(cfi *ContentFieldInstance, id uuid.UUID) {
			cfi.ID = id
		},
		GetIdentifier: func() string {
			return ""
		},
		GetIdentifierValue: func(*ContentFieldInstance) string {
			return ""
		},
	})
}

func NewVersionRepository(db *bun.DB) repository.Repository[*ContentVersion] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ContentVersion]{
		NewRecord: func() *ContentVersion { return &ContentVersion{} },
		GetID: func(cv *ContentVersion) uuid.UUID {
			return cv.ID
		},
		SetID: func(cv *ContentVersion, id uuid.UUID) {
			cv.ID = id
		},
		GetIdentifier: func() string {
			return ""
		},
		GetIdentifierValue: func(*ContentVersion) string {
			return ""
		},
	})
}
