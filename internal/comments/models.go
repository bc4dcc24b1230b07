package comments

import (
	"time"

	"github.com/goliatone/go-headless/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Comment is a moderated, threadable comment on a content instance.
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:cmt"`

	ID                uuid.UUID            `bun:",pk,type:uuid"                         json:"id"`
	ContentInstanceID uuid.UUID            `bun:"content_instance_id,notnull,type:uuid" json:"content_instance_id"`
	UserID            uuid.UUID            `bun:"user_id,notnull,type:uuid"             json:"user_id"`
	ParentID          *uuid.UUID           `bun:"parent_id,type:uuid,nullzero"          json:"parent_id,omitempty"`
	Body              string               `bun:"body,notnull"                          json:"body"`
	Status            domain.CommentStatus `bun:"status,notnull,default:'pending'"      json:"status"`
	SubmittedAt       time.Time            `bun:"submitted_at,nullzero,default:current_timestamp" json:"submitted_at"`
	UpdatedAt         time.Time            `bun:"updated_at,nullzero,default:current_timestamp"   json:"updated_at"`

	Replies []*Comment `bun:"-" json:"replies,omitempty"`
}
