package settings

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Settings is the single site-wide configuration record. Exactly one row
// exists per deployment, keyed by a deterministic identifier.
type Settings struct {
	bun.BaseModel `bun:"table:system_settings,alias:set"`

	ID                   uuid.UUID      `bun:",pk,type:uuid"                   json:"id"`
	SiteName             string         `bun:"site_name,notnull"               json:"site_name"`
	DefaultLanguage      string         `bun:"default_language,notnull"        json:"default_language"`
	Timezone             string         `bun:"timezone,notnull"                json:"timezone"`
	DefaultContentStatus string         `bun:"default_content_status,notnull"  json:"default_content_status"`
	ExternalIntegrations map[string]any `bun:"external_integrations,type:jsonb" json:"external_integrations,omitempty"`
	CreatedAt            time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt            time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
