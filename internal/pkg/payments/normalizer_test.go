package payments

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopforge/shopforge/app/models"
)

func TestNormalizeStripePaymentIntentSucceeded(t *testing.T) {
	raw := []byte(`{
		"id": "evt_1",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_100", "amount": 1099, "currency": "usd", "receipt_email": "buyer@example.com"}}
	}`)

	envlp, err := NormalizeStripe(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, models.PaymentProviderStripe, envlp.Provider)
	assert.Equal(t, "evt_1", envlp.EventID)
	assert.Equal(t, "payment_intent.succeeded", envlp.EventType)
	assert.Equal(t, KindPaymentSucceeded, envlp.Event.Kind)
	assert.Equal(t, "pi_100", envlp.Event.PaymentID)
	assert.Equal(t, int64(1099), envlp.Event.AmountMinor)
	assert.Equal(t, "USD", envlp.Event.Currency)
	assert.Equal(t, "buyer@example.com", envlp.Event.CustomerEmail)
}

func TestNormalizeStripeChargeUsesPaymentIntentKey(t *testing.T) {
	raw := []byte(`{
		"id": "evt_2",
		"type": "charge.succeeded",
		"data": {"object": {"id": "ch_200", "amount": 2500, "currency": "eur", "payment_intent": "pi_100",
			"billing_details": {"email": "buyer@example.com", "name": "Jane Buyer"}}}
	}`)

	envlp, err := NormalizeStripe(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A charge and its payment intent must land on the same order key.
	assert.Equal(t, "pi_100", envlp.Event.PaymentID)
	assert.Equal(t, "pi_100", envlp.Event.PaymentIntentID)
	assert.Equal(t, "EUR", envlp.Event.Currency)
	assert.Equal(t, "Jane Buyer", envlp.Event.CustomerName)
}

func TestNormalizeStripeChargeWithoutIntentFallsBackToChargeID(t *testing.T) {
	raw := []byte(`{
		"id": "evt_3",
		"type": "charge.succeeded",
		"data": {"object": {"id": "ch_300", "amount": 500, "currency": "usd"}}
	}`)

	envlp, err := NormalizeStripe(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, "ch_300", envlp.Event.PaymentID)
}

func TestNormalizeStripeCheckoutSessionCompleted(t *testing.T) {
	raw := []byte(`{
		"id": "evt_4",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_400", "amount_total": 4999, "currency": "usd", "payment_intent": "pi_100",
			"customer_details": {"email": "buyer@example.com", "name": "Jane Buyer"}}}
	}`)

	envlp, err := NormalizeStripe(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, KindPaymentSucceeded, envlp.Event.Kind)
	assert.Equal(t, "pi_100", envlp.Event.PaymentID)
	assert.Equal(t, int64(4999), envlp.Event.AmountMinor)
	assert.Equal(t, "buyer@example.com", envlp.Event.CustomerEmail)
}

func TestNormalizeStripeFailureAndRefund(t *testing.T) {
	failed := []byte(`{
		"id": "evt_5",
		"type": "payment_intent.payment_failed",
		"data": {"object": {"id": "pi_100", "amount": 1099, "currency": "usd"}}
	}`)
	envlp, err := NormalizeStripe(failed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, KindPaymentFailed, envlp.Event.Kind)
	assert.Equal(t, "pi_100", envlp.Event.PaymentID)

	refunded := []byte(`{
		"id": "evt_6",
		"type": "charge.refunded",
		"data": {"object": {"id": "ch_200", "amount": 1099, "amount_refunded": 1099, "currency": "usd", "payment_intent": "pi_100"}}
	}`)
	envlp, err = NormalizeStripe(refunded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, KindPaymentRefunded, envlp.Event.Kind)
	assert.Equal(t, "pi_100", envlp.Event.PaymentID)
	assert.Equal(t, int64(1099), envlp.Event.AmountMinor)
}

func TestNormalizeStripeMissingCurrencyStaysEmpty(t *testing.T) {
	raw := []byte(`{
		"id": "evt_8",
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": "pi_100", "amount": 1099}}
	}`)

	envlp, err := NormalizeStripe(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// No currency is fabricated; materialization must reject the event.
	assert.Equal(t, "", envlp.Event.Currency)
}

func TestNormalizeStripeUnknownTypeIsNoop(t *testing.T) {
	raw := []byte(`{"id": "evt_7", "type": "customer.created", "data": {"object": {"id": "cus_1"}}}`)
	envlp, err := NormalizeStripe(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, KindNoop, envlp.Event.Kind)
	assert.Equal(t, "evt_7", envlp.EventID)
}

func TestNormalizeStripeMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{{{`},
		{"missing id", `{"type": "payment_intent.succeeded", "data": {"object": {"id": "pi_1"}}}`},
		{"missing type", `{"id": "evt_1", "data": {"object": {}}}`},
		{"succeeded without object id", `{"id": "evt_1", "type": "payment_intent.succeeded", "data": {"object": {}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeStripe([]byte(tt.raw))
			if !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}

func TestNormalizeSquarePaymentCompleted(t *testing.T) {
	raw := []byte(`{
		"event_id": "sq_evt_1",
		"type": "payment.updated",
		"data": {"object": {"payment": {"id": "sq_pay_1", "status": "COMPLETED",
			"amount_money": {"amount": 1500, "currency": "usd"}, "buyer_email_address": "buyer@example.com"}}}
	}`)

	envlp, err := NormalizeSquare(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Equal(t, models.PaymentProviderSquare, envlp.Provider)
	assert.Equal(t, "sq_evt_1", envlp.EventID)
	assert.Equal(t, KindPaymentSucceeded, envlp.Event.Kind)
	assert.Equal(t, "sq_pay_1", envlp.Event.PaymentID)
	assert.Equal(t, int64(1500), envlp.Event.AmountMinor)
	assert.Equal(t, "USD", envlp.Event.Currency)
	assert.Equal(t, "buyer@example.com", envlp.Event.CustomerEmail)
}

func TestNormalizeSquarePaymentStatuses(t *testing.T) {
	tests := []struct {
		status string
		kind   EventKind
	}{
		{"COMPLETED", KindPaymentSucceeded},
		{"FAILED", KindPaymentFailed},
		{"CANCELED", KindPaymentFailed},
		{"APPROVED", KindNoop},
		{"PENDING", KindNoop},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			raw := []byte(`{
				"event_id": "sq_evt_2",
				"type": "payment.updated",
				"data": {"object": {"payment": {"id": "sq_pay_1", "status": "` + tt.status + `",
					"amount_money": {"amount": 1500, "currency": "USD"}}}}
			}`)
			envlp, err := NormalizeSquare(raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if envlp.Event.Kind != tt.kind {
				t.Fatalf("status %s: expected kind %s, got %s", tt.status, tt.kind, envlp.Event.Kind)
			}
		})
	}
}

func TestNormalizeSquareRefundCompleted(t *testing.T) {
	raw := []byte(`{
		"event_id": "sq_evt_3",
		"type": "refund.updated",
		"data": {"object": {"refund": {"id": "sq_ref_1", "status": "COMPLETED", "payment_id": "sq_pay_1",
			"amount_money": {"amount": 1500, "currency": "USD"}}}}
	}`)

	envlp, err := NormalizeSquare(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, KindPaymentRefunded, envlp.Event.Kind)
	// The refund maps back to the payment's order key, not the refund id.
	assert.Equal(t, "sq_pay_1", envlp.Event.PaymentID)
}

func TestNormalizeSquareUnknownTypeIsNoop(t *testing.T) {
	raw := []byte(`{"event_id": "sq_evt_4", "type": "inventory.count.updated", "data": {"object": {}}}`)
	envlp, err := NormalizeSquare(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, KindNoop, envlp.Event.Kind)
}

func TestNormalizeSquareMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `]`},
		{"missing event id", `{"type": "payment.updated", "data": {"object": {"payment": {"id": "p"}}}}`},
		{"payment update without payment", `{"event_id": "e", "type": "payment.updated", "data": {"object": {}}}`},
		{"refund update without payment id", `{"event_id": "e", "type": "refund.updated", "data": {"object": {"refund": {"id": "r"}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeSquare([]byte(tt.raw))
			if !errors.Is(err, ErrMalformedPayload) {
				t.Fatalf("expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}
