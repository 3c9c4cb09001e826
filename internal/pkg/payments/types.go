package payments

// EventKind is the canonical classification of a provider webhook event.
type EventKind string

const (
	KindPaymentSucceeded EventKind = "payment-succeeded"
	KindPaymentFailed    EventKind = "payment-failed"
	KindPaymentRefunded  EventKind = "payment-refunded"
	KindNoop             EventKind = "no-op"
)

// LineItem is a normalized order line carried by a provider payload, when the
// provider sends one. Most events carry none and the order is created without
// items.
type LineItem struct {
	ProductID uint  `json:"product_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
}

// NormalizedEvent is the provider-agnostic shape every payload is mapped
// into before materialization. Amounts are minor currency units.
type NormalizedEvent struct {
	Kind            EventKind
	PaymentID       string `validate:"required"`
	PaymentIntentID string
	AmountMinor     int64  `validate:"gte=0"`
	Currency        string `validate:"len=3"`
	CustomerEmail   string
	CustomerName    string
	Items           []LineItem
}

// Envelope pairs the provider delivery metadata with the normalized event.
// EventID is the idempotency key; Raw is the exact wire payload retained for
// audit.
type Envelope struct {
	Provider  string
	EventID   string
	EventType string
	Raw       []byte
	Event     NormalizedEvent
}

// Outcome reports what processing an envelope did, for response shaping and
// post-commit dispatch.
type Outcome struct {
	Duplicate    bool
	OrderCreated bool
	OrderID      uint
	Order        *OrderRef
}

// OrderRef carries the order fields post-commit collaborators need.
type OrderRef struct {
	ID            uint
	CustomerEmail string
	TotalAmount   int64
	Currency      string
	Items         []LineItem
}
