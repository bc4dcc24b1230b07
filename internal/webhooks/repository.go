package webhooks

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewEndpointRepository(db *bun.DB) repository.Repository[*Endpoint] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Endpoint]{
		NewRecord: func() *Endpoint { return &Endpoint{} },
		GetID: func(e *Endpoint) uuid.UUID {
			return e.ID
		},
		SetID: func(e *Endpoint, id uuid.UUID) {
			e.ID = id
		},
		GetIdentifier: func() string {
			return ""
		},
		GetIdentifierValue: func(*Endpoint) string {
			return ""
		},
	})
}

func NewEventLogRepository(db *bun.DB) repository.Repository[*EventLog] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*EventLog]{
		NewRecord: func() *EventLog { return &EventLog{} },
		GetID: func(l *EventLog) uuid.UUID {
			return l.ID
		},
		SetID: func(l *EventLog, id uuid.UUID) {
			l.ID = id
		},
		GetIdentifier: func() string {
			return ""
		},
		GetIdentifierValue: func(*EventLog) string {
			return ""
		},
	})
}
