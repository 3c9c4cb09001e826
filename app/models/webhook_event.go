package models

import "time"

// Payment providers that deliver webhooks to this service.
const (
	PaymentProviderStripe = "stripe"
	PaymentProviderSquare = "square"
)

// WebhookEvent stores one row per delivered webhook that passed signature
// verification. The unique index on event_id is the idempotency arbiter:
// a failed insert means another delivery already owns the event.
type WebhookEvent struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Provider     string     `gorm:"type:varchar(20);not null;index:idx_webhook_events_provider_type,priority:1" json:"provider"`
	EventType    string     `gorm:"type:varchar(100);not null;index:idx_webhook_events_provider_type,priority:2" json:"event_type"`
	EventID      string     `gorm:"type:varchar(191);not null;uniqueIndex:ux_webhook_events_event_id" json:"event_id"`
	Payload      string     `gorm:"type:longtext;not null" json:"payload"`
	Processed    bool       `gorm:"not null;default:false;index" json:"processed"`
	ProcessedAt  *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	ErrorMessage string     `gorm:"type:text" json:"error_message"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}
