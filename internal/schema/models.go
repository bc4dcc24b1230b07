package schema

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ContentType defines a named content schema. Instances of the type carry one
// value row per field definition and language.
type ContentType struct {
	bun.BaseModel `bun:"table:content_types,alias:ct"`

	ID          uuid.UUID  `bun:",pk,type:uuid"       json:"id"`
	Name        string     `bun:"name,notnull"        json:"name"`
	APIID       string     `bun:"api_id,notnull,unique" json:"api_id"`
	Description *string    `bun:"description"         json:"description,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	DeletedAt   *time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`

	Fields []*FieldDefinition `bun:"rel:has-many,join:id=content_type_id" json:"fields,omitempty"`
}

// FieldDefinition describes one field of a content type.
type FieldDefinition struct {
	bun.BaseModel `bun:"table:field_definitions,alias:fd"`

	ID            uuid.UUID   `bun:",pk,type:uuid"                 json:"id"`
	ContentTypeID uuid.UUID   `bun:"content_type_id,notnull,type:uuid" json:"content_type_id"`
	Name          string      `bun:"name,notnull"                  json:"name"`
	APIID         string      `bun:"api_id,notnull"                json:"api_id"`
	FieldType     FieldType   `bun:"field_type,notnull"            json:"field_type"`
	Order         int         `bun:"field_order,notnull,default:0" json:"order"`
	Config        FieldConfig `bun:"config,type:jsonb"             json:"config"`
	CreatedAt     time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// ComponentDefinition describes a reusable group of fields that structured_list
// fields can reference.
type ComponentDefinition struct {
	bun.BaseModel `bun:"table:component_definitions,alias:cd"`

	ID          uuid.UUID  `bun:",pk,type:uuid"         json:"id"`
	Name        string     `bun:"name,notnull"          json:"name"`
	APIID       string     `bun:"api_id,notnull,unique" json:"api_id"`
	Description *string    `bun:"description"           json:"description,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	DeletedAt   *time.Time `bun:"deleted_at,nullzero"   json:"deleted_at,omitempty"`

	Fields []*ComponentFieldDefinition `bun:"rel:has-many,join:id=component_id" json:"fields,omitempty"`
}

// ComponentFieldDefinition describes one field of a component.
type ComponentFieldDefinition struct {
	bun.BaseModel `bun:"table:component_field_definitions,alias:cfd"`

	ID          uuid.UUID   `bun:",pk,type:uuid"                 json:"id"`
	ComponentID uuid.UUID   `bun:"component_id,notnull,type:uuid" json:"component_id"`
	Name        string      `bun:"name,notnull"                  json:"name"`
	APIID       string      `bun:"api_id,notnull"                json:"api_id"`
	FieldType   FieldType   `bun:"field_type,notnull"            json:"field_type"`
	Order       int         `bun:"field_order,notnull,default:0" json:"order"`
	Config      FieldConfig `bun:"config,type:jsonb"             json:"config"`
	CreatedAt   time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
