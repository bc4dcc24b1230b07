package media

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Folder groups media assets. Names are unique among siblings.
type Folder struct {
	bun.BaseModel `bun:"table:media_folders,alias:fld"`

	ID        uuid.UUID  `bun:",pk,type:uuid"                json:"id"`
	Name      string     `bun:"name,notnull"                 json:"name"`
	ParentID  *uuid.UUID `bun:"parent_id,type:uuid,nullzero" json:"parent_id,omitempty"`
	CreatedAt time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// MediaTag labels assets for filtering.
type MediaTag struct {
	bun.BaseModel `bun:"table:media_tags,alias:mtg"`

	ID        uuid.UUID `bun:",pk,type:uuid"        json:"id"`
	Name      string    `bun:"name,notnull"         json:"name"`
	Slug      string    `bun:"slug,notnull,unique"  json:"slug"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// ImageOptimizationProfile describes a derived rendition of uploaded images.
// Active profiles are applied whenever an asset is processed.
type ImageOptimizationProfile struct {
	bun.BaseModel `bun:"table:image_optimization_profiles,alias:iop"`

	ID        uuid.UUID `bun:",pk,type:uuid"       json:"id"`
	Name      string    `bun:"name,notnull"        json:"name"`
	Slug      string    `bun:"slug,notnull,unique" json:"slug"`
	MaxWidth  int       `bun:"max_width,notnull"   json:"max_width"`
	MaxHeight int       `bun:"max_height,notnull"  json:"max_height"`
	Format    string    `bun:"format,notnull"      json:"format"`
	Quality   int       `bun:"quality,notnull"     json:"quality"`
	IsActive  bool      `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// MediaAsset is the metadata record for a stored binary. Bytes live behind
// interfaces.FileStore under FileKey; optimized renditions are tracked as
// profile slug to derived key.
type MediaAsset struct {
	bun.BaseModel `bun:"table:media_assets,alias:mda"`

	ID                 uuid.UUID         `bun:",pk,type:uuid"                     json:"id"`
	TranslatedTitle    map[string]string `bun:"translated_title,type:jsonb"       json:"translated_title,omitempty"`
	TranslatedAltText  map[string]string `bun:"translated_alt_text,type:jsonb"    json:"translated_alt_text,omitempty"`
	TranslatedCaption  map[string]string `bun:"translated_caption,type:jsonb"     json:"translated_caption,omitempty"`
	FileKey            string            `bun:"file_key,notnull"                  json:"file_key"`
	Filename           string            `bun:"filename,notnull"                  json:"filename"`
	MimeType           string            `bun:"mime_type,notnull"                 json:"mime_type"`
	Size               int64             `bun:"size,notnull"                      json:"size"`
	Width              *int              `bun:"width,nullzero"                    json:"width,omitempty"`
	Height             *int              `bun:"height,nullzero"                   json:"height,omitempty"`
	FolderID           *uuid.UUID        `bun:"folder_id,type:uuid,nullzero"      json:"folder_id,omitempty"`
	TagIDs             []uuid.UUID       `bun:"tag_ids,type:jsonb"                json:"tag_ids,omitempty"`
	CustomMetadata     map[string]any    `bun:"custom_metadata,type:jsonb"        json:"custom_metadata,omitempty"`
	UploaderID         *uuid.UUID        `bun:"uploader_id,type:uuid,nullzero"    json:"uploader_id,omitempty"`
	OptimizedVersions  map[string]string `bun:"optimized_versions,type:jsonb"     json:"optimized_versions,omitempty"`
	CreatedAt          time.Time         `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt          time.Time         `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
