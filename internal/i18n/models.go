package i18n

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Language represents a language available for localized field values.
type Language struct {
	bun.BaseModel `bun:"table:languages,alias:lang"`

	ID        uuid.UUID  `bun:",pk,type:uuid"                    json:"id"`
	Code      string     `bun:"code,notnull,unique"              json:"code"`
	Name      string     `bun:"name,notnull"                     json:"name"`
	IsActive  bool       `bun:"is_active,notnull,default:true"   json:"is_active"`
	IsDefault bool       `bun:"is_default,notnull,default:false" json:"is_default"`
	CreatedAt time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	DeletedAt *time.Time `bun:"deleted_at,nullzero"              json:"deleted_at,omitempty"`
}
