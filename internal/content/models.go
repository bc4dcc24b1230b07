package content

import (
	"time"

	"github.com/goliatone/go-headless/internal/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ContentInstance is the canonical record for an entry of a content type.
// Field values live in ContentFieldInstance rows, one per (field, language).
type ContentInstance struct {
	bun.BaseModel `bun:"table:content_instances,alias:ci"`

	ID            uuid.UUID     `bun:",pk,type:uuid"                     json:"id"`
	ContentTypeID uuid.UUID     `bun:"content_type_id,notnull,type:uuid" json:"content_type_id"`
	Status        domain.Status `bun:"status,notnull,default:'draft'"    json:"status"`
	AuthorID      *uuid.UUID    `bun:"author_id,type:uuid,nullzero"      json:"author_id,omitempty"`
	Revision      int           `bun:"revision,notnull,default:1"        json:"revision"`
	TermIDs       []uuid.UUID   `bun:"term_ids,type:jsonb"               json:"term_ids,omitempty"`
	PublishedAt   *time.Time    `bun:"published_at,nullzero"             json:"published_at,omitempty"`
	CreatedAt     time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	DeletedAt     *time.Time    `bun:"deleted_at,nullzero"               json:"deleted_at,omitempty"`

	Fields   []*ContentFieldInstance `bun:"rel:has-many,join:id=content_instance_id" json:"fields,omitempty"`
	Versions []*ContentVersion       `bun:"rel:has-many,join:id=content_instance_id" json:"versions,omitempty"`
}

// ContentFieldInstance stores one field value. LanguageCode is nil for
// non-localizable fields; (instance, field, language) is unique.
type ContentFieldInstance struct {
	bun.BaseModel `bun:"table:content_field_instances,alias:cfi"`

	ID                uuid.UUID `bun:",pk,type:uuid"                          json:"id"`
	ContentInstanceID uuid.UUID `bun:"content_instance_id,notnull,type:uuid"  json:"content_instance_id"`
	FieldDefinitionID uuid.UUID `bun:"field_definition_id,notnull,type:uuid"  json:"field_definition_id"`
	LanguageCode      *string   `bun:"language_code,nullzero"                 json:"language_code,omitempty"`
	Value             any       `bun:"value,type:jsonb"                       json:"value"`
	CreatedAt         time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// ContentVersion captures an immutable snapshot of an instance's field data
// and status. Rows are append-only.
type ContentVersion struct {
	bun.BaseModel `bun:"table:content_versions,alias:cv"`

	ID                uuid.UUID       `bun:",pk,type:uuid"                         json:"id"`
	ContentInstanceID uuid.UUID       `bun:"content_instance_id,notnull,type:uuid" json:"content_instance_id"`
	DataSnapshot      VersionSnapshot `bun:"data_snapshot,type:jsonb,notnull"      json:"data_snapshot"`
	StatusSnapshot    domain.Status   `bun:"status_snapshot,notnull"               json:"status_snapshot"`
	Message           string          `bun:"message"                               json:"message,omitempty"`
	CreatedBy         *uuid.UUID      `bun:"created_by,type:uuid,nullzero"         json:"created_by,omitempty"`
	CreatedAt         time.Time       `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// NonLocalizableKey groups values of non-localizable fields inside a version
// snapshot.
const NonLocalizableKey = "non_localizable"

// VersionSnapshot groups field values by language code, with non-localizable
// values under NonLocalizableKey: {lang: {api_id: value}}.
type VersionSnapshot map[string]map[string]any
