package taxonomy

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Taxonomy groups terms and declares which content types the terms apply to.
type Taxonomy struct {
	bun.BaseModel `bun:"table:taxonomies,alias:tax"`

	ID             uuid.UUID   `bun:",pk,type:uuid"          json:"id"`
	Name           string      `bun:"name,notnull"           json:"name"`
	APIID          string      `bun:"api_id,notnull,unique"  json:"api_id"`
	Hierarchical   bool        `bun:"hierarchical,notnull,default:false" json:"hierarchical"`
	ContentTypeIDs []uuid.UUID `bun:"content_type_ids,type:jsonb" json:"content_type_ids,omitempty"`
	CreatedAt      time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	DeletedAt      *time.Time  `bun:"deleted_at,nullzero"    json:"deleted_at,omitempty"`

	Terms []*Term `bun:"rel:has-many,join:id=taxonomy_id" json:"terms,omitempty"`
}

// Term is one classification entry. Names and slugs are stored per language
// code; ParentID builds the tree in hierarchical taxonomies.
type Term struct {
	bun.BaseModel `bun:"table:taxonomy_terms,alias:term"`

	ID              uuid.UUID         `bun:",pk,type:uuid"                 json:"id"`
	TaxonomyID      uuid.UUID         `bun:"taxonomy_id,notnull,type:uuid" json:"taxonomy_id"`
	ParentID        *uuid.UUID        `bun:"parent_id,type:uuid,nullzero"  json:"parent_id,omitempty"`
	TranslatedNames map[string]string `bun:"translated_names,type:jsonb,notnull" json:"translated_names"`
	TranslatedSlugs map[string]string `bun:"translated_slugs,type:jsonb,notnull" json:"translated_slugs"`
	CreatedAt       time.Time         `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time         `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
