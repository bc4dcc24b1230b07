package comments

import (
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func NewCommentRepository(db *bun.DB) repository.Repository[*Comment] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Comment]{
		NewRecord: func() *Comment { return &Comment{} },
		GetID: func(c *Comment) uuid.UUID {
			return c.ID
		},
		SetID: func(c *Comment, id uuid.UUID) {
			c.ID = id
		},
		GetIdentifier: func() string {
			return ""
		},
		GetIdentifierValue: func(*Comment) string {
			return ""
		},
	})
}
