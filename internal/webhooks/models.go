package webhooks

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DeliveryStatus describes the outcome of a single delivery attempt.
type DeliveryStatus string

const (
	DeliverySuccess DeliveryStatus = "success"
	DeliveryFailed  DeliveryStatus = "failed"
)

// Endpoint is a webhook subscriber. SubscribedEvents holds event names or the
// "*" wildcard.
type Endpoint struct {
	bun.BaseModel `bun:"table:webhook_endpoints,alias:whe"`

	ID               uuid.UUID  `bun:",pk,type:uuid"                   json:"id"`
	TargetURL        string     `bun:"target_url,notnull"              json:"target_url"`
	SubscribedEvents []string   `bun:"subscribed_events,type:jsonb"    json:"subscribed_events"`
	Secret           string     `bun:"secret,notnull"                  json:"-"`
	IsActive         bool       `bun:"is_active,notnull,default:true"  json:"is_active"`
	CreatedBy        *uuid.UUID `bun:"created_by,type:uuid,nullzero"   json:"created_by,omitempty"`
	CreatedAt        time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// EventLog records one delivery attempt. The log is append-only; retries add
// rows instead of mutating earlier attempts.
type EventLog struct {
	bun.BaseModel `bun:"table:webhook_event_logs,alias:whl"`

	ID                 uuid.UUID         `bun:",pk,type:uuid"                  json:"id"`
	EndpointID         uuid.UUID         `bun:"endpoint_id,notnull,type:uuid"  json:"endpoint_id"`
	EventType          string            `bun:"event_type,notnull"             json:"event_type"`
	Payload            string            `bun:"payload,notnull"                json:"payload"`
	RequestHeaders     map[string]string `bun:"request_headers,type:jsonb"     json:"request_headers,omitempty"`
	ResponseStatusCode *int              `bun:"response_status_code,nullzero"  json:"response_status_code,omitempty"`
	ResponseBody       string            `bun:"response_body"                  json:"response_body,omitempty"`
	Status             DeliveryStatus    `bun:"status,notnull"                 json:"status"`
	Timestamp          time.Time         `bun:"timestamp,nullzero,default:current_timestamp" json:"timestamp"`
}
