package settings

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewSettingsRepository(db *bun.DB) repository.Repository[*Settings] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Settings]{
		NewRecord: func() *Settings { return &Settings{} },
		GetID: func(s *Settings) uuid.UUID {
			return s.ID
		},
		SetID: func(s *Settings, id uuid.UUID) {
			s.ID = id
		},
		GetIdentifier: func() string {
			return ""
		},
		GetIdentifierValue: func(*Settings) string {
			return ""
		},
	})
}
