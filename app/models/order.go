package models

import "time"

// Order status values. Transitions are enforced by the payments service,
// not here.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
	OrderStatusRefunded  = "refunded"
)

// Order is one row per completed payment. The unique index on
// (payment_provider, payment_id) guarantees at most one order per payment
// even when several qualifying webhook events reference the same purchase.
// Amounts are minor currency units (cents), never floating point.
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	PaymentProvider string      `gorm:"type:varchar(20);not null;uniqueIndex:ux_orders_provider_payment,priority:1" json:"payment_provider"`
	PaymentID       string      `gorm:"type:varchar(191);not null;uniqueIndex:ux_orders_provider_payment,priority:2" json:"payment_id"`
	PaymentIntentID string      `gorm:"type:varchar(191)" json:"payment_intent_id,omitempty"`
	CustomerEmail   string      `gorm:"type:varchar(255);index" json:"customer_email,omitempty"`
	CustomerName    string      `gorm:"type:varchar(255)" json:"customer_name,omitempty"`
	TotalAmount     int64       `gorm:"not null" json:"total_amount"`
	Currency        string      `gorm:"type:varchar(3);not null" json:"currency"`
	Status          string      `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	WebhookEventID  *uint       `gorm:"index" json:"webhook_event_id,omitempty"`
	Items           []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt       time.Time   `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}
