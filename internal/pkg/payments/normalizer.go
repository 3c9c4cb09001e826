package payments

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopforge/shopforge/app/models"
)

// The normalizer maps provider payloads into the canonical Envelope shape.
// Unrecognized event types normalize to KindNoop; only structurally broken
// payloads are errors (ErrMalformedPayload), which the handler rejects
// before anything is persisted.

type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type stripePaymentIntent struct {
	ID           string `json:"id"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	ReceiptEmail string `json:"receipt_email"`
}

type stripeCharge struct {
	ID             string `json:"id"`
	Amount         int64  `json:"amount"`
	AmountRefunded int64  `json:"amount_refunded"`
	Currency       string `json:"currency"`
	PaymentIntent  string `json:"payment_intent"`
	BillingDetails struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"billing_details"`
}

type stripeCheckoutSession struct {
	ID              string `json:"id"`
	AmountTotal     int64  `json:"amount_total"`
	Currency        string `json:"currency"`
	CustomerEmail   string `json:"customer_email"`
	PaymentIntent   string `json:"payment_intent"`
	CustomerDetails struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"customer_details"`
}

// NormalizeStripe parses a verified Stripe event body into an Envelope.
func NormalizeStripe(raw []byte) (*Envelope, error) {
	var event stripeEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if strings.TrimSpace(event.ID) == "" || strings.TrimSpace(event.Type) == "" {
		return nil, fmt.Errorf("%w: stripe event is missing id or type", ErrMalformedPayload)
	}

	envlp := &Envelope{
		Provider:  models.PaymentProviderStripe,
		EventID:   event.ID,
		EventType: event.Type,
		Raw:       raw,
		Event:     NormalizedEvent{Kind: KindNoop},
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var pi stripePaymentIntent
		if err := json.Unmarshal(event.Data.Object, &pi); err != nil || pi.ID == "" {
			return nil, fmt.Errorf("%w: expected payment_intent object", ErrMalformedPayload)
		}
		envlp.Event = NormalizedEvent{
			Kind:            KindPaymentSucceeded,
			PaymentID:       pi.ID,
			PaymentIntentID: pi.ID,
			AmountMinor:     pi.Amount,
			Currency:        normalizeCurrency(pi.Currency),
			CustomerEmail:   pi.ReceiptEmail,
		}

	case "charge.succeeded":
		var ch stripeCharge
		if err := json.Unmarshal(event.Data.Object, &ch); err != nil || ch.ID == "" {
			return nil, fmt.Errorf("%w: expected charge object", ErrMalformedPayload)
		}
		envlp.Event = NormalizedEvent{
			Kind:            KindPaymentSucceeded,
			PaymentID:       stripePaymentKey(ch.PaymentIntent, ch.ID),
			PaymentIntentID: ch.PaymentIntent,
			AmountMinor:     ch.Amount,
			Currency:        normalizeCurrency(ch.Currency),
			CustomerEmail:   ch.BillingDetails.Email,
			CustomerName:    ch.BillingDetails.Name,
		}

	case "checkout.session.completed":
		var cs stripeCheckoutSession
		if err := json.Unmarshal(event.Data.Object, &cs); err != nil || cs.ID == "" {
			return nil, fmt.Errorf("%w: expected checkout session object", ErrMalformedPayload)
		}
		email := cs.CustomerEmail
		if email == "" {
			email = cs.CustomerDetails.Email
		}
		envlp.Event = NormalizedEvent{
			Kind:            KindPaymentSucceeded,
			PaymentID:       stripePaymentKey(cs.PaymentIntent, cs.ID),
			PaymentIntentID: cs.PaymentIntent,
			AmountMinor:     cs.AmountTotal,
			Currency:        normalizeCurrency(cs.Currency),
			CustomerEmail:   email,
			CustomerName:    cs.CustomerDetails.Name,
		}

	case "payment_intent.payment_failed":
		var pi stripePaymentIntent
		if err := json.Unmarshal(event.Data.Object, &pi); err != nil || pi.ID == "" {
			return nil, fmt.Errorf("%w: expected payment_intent object", ErrMalformedPayload)
		}
		envlp.Event = NormalizedEvent{
			Kind:            KindPaymentFailed,
			PaymentID:       pi.ID,
			PaymentIntentID: pi.ID,
			AmountMinor:     pi.Amount,
			Currency:        normalizeCurrency(pi.Currency),
		}

	case "charge.refunded":
		var ch stripeCharge
		if err := json.Unmarshal(event.Data.Object, &ch); err != nil || ch.ID == "" {
			return nil, fmt.Errorf("%w: expected charge object", ErrMalformedPayload)
		}
		envlp.Event = NormalizedEvent{
			Kind:            KindPaymentRefunded,
			PaymentID:       stripePaymentKey(ch.PaymentIntent, ch.ID),
			PaymentIntentID: ch.PaymentIntent,
			AmountMinor:     ch.AmountRefunded,
			Currency:        normalizeCurrency(ch.Currency),
		}
	}

	return envlp, nil
}

// stripePaymentKey prefers the payment intent id so every qualifying event
// for one purchase (charge, checkout session, intent) lands on the same
// (provider, payment_id) order key.
func stripePaymentKey(paymentIntentID, objectID string) string {
	if strings.TrimSpace(paymentIntentID) != "" {
		return paymentIntentID
	}
	return objectID
}

type squareEvent struct {
	EventID   string `json:"event_id"`
	EventType string `json:"type"`
	Data      struct {
		Object struct {
			Payment *squarePayment `json:"payment"`
			Refund  *squareRefund  `json:"refund"`
		} `json:"object"`
	} `json:"data"`
}

type squareMoney struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type squarePayment struct {
	ID                string      `json:"id"`
	Status            string      `json:"status"`
	AmountMoney       squareMoney `json:"amount_money"`
	BuyerEmailAddress string      `json:"buyer_email_address"`
}

type squareRefund struct {
	ID          string      `json:"id"`
	Status      string      `json:"status"`
	PaymentID   string      `json:"payment_id"`
	AmountMoney squareMoney `json:"amount_money"`
}

// NormalizeSquare parses a verified Square event body into an Envelope.
func NormalizeSquare(raw []byte) (*Envelope, error) {
	var event squareEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if strings.TrimSpace(event.EventID) == "" || strings.TrimSpace(event.EventType) == "" {
		return nil, fmt.Errorf("%w: square event is missing event_id or type", ErrMalformedPayload)
	}

	envlp := &Envelope{
		Provider:  models.PaymentProviderSquare,
		EventID:   event.EventID,
		EventType: event.EventType,
		Raw:       raw,
		Event:     NormalizedEvent{Kind: KindNoop},
	}

	switch event.EventType {
	case "payment.updated":
		payment := event.Data.Object.Payment
		if payment == nil || payment.ID == "" {
			return nil, fmt.Errorf("%w: missing payment object in event data", ErrMalformedPayload)
		}
		switch payment.Status {
		case "COMPLETED":
			envlp.Event = NormalizedEvent{
				Kind:          KindPaymentSucceeded,
				PaymentID:     payment.ID,
				AmountMinor:   payment.AmountMoney.Amount,
				Currency:      normalizeCurrency(payment.AmountMoney.Currency),
				CustomerEmail: payment.BuyerEmailAddress,
			}
		case "FAILED", "CANCELED":
			envlp.Event = NormalizedEvent{
				Kind:        KindPaymentFailed,
				PaymentID:   payment.ID,
				AmountMinor: payment.AmountMoney.Amount,
				Currency:    normalizeCurrency(payment.AmountMoney.Currency),
			}
		}

	case "refund.updated":
		refund := event.Data.Object.Refund
		if refund == nil || refund.PaymentID == "" {
			return nil, fmt.Errorf("%w: missing refund object in event data", ErrMalformedPayload)
		}
		if refund.Status == "COMPLETED" {
			envlp.Event = NormalizedEvent{
				Kind:        KindPaymentRefunded,
				PaymentID:   refund.PaymentID,
				AmountMinor: refund.AmountMoney.Amount,
				Currency:    normalizeCurrency(refund.AmountMoney.Currency),
			}
		}
	}

	return envlp, nil
}

// normalizeCurrency uppercases the provider currency code. A missing code is
// passed through empty; validation rejects it before materialization rather
// than fabricating a currency.
func normalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
