package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopforge/shopforge/app/models"
	"github.com/shopforge/shopforge/internal/pkg/env"
)

// Verifier decides whether a raw webhook body genuinely originates from its
// provider. Verification runs over the exact wire bytes, before any JSON
// parsing, and never mutates state. All variants fail closed: missing or
// malformed headers and a missing secret are ErrSignatureInvalid.
type Verifier interface {
	Provider() string
	Verify(body []byte, signatureHeader string) error
}

const defaultStripeTolerance = 5 * time.Minute

// StripeVerifier checks the Stripe-Signature header: a unix timestamp plus
// one or more HMAC-SHA256 signatures over "{timestamp}.{body}". Any matching
// v1 candidate is accepted, which supports secret rotation. Signatures whose
// timestamp is outside the tolerance window are rejected to limit replays.
type StripeVerifier struct {
	Secret    string
	Tolerance time.Duration

	now func() time.Time
}

// NewStripeVerifierFromEnv builds a StripeVerifier from STRIPE_WEBHOOK_SECRET
// and an optional STRIPE_WEBHOOK_TOLERANCE_SECONDS override.
func NewStripeVerifierFromEnv() *StripeVerifier {
	tolerance := defaultStripeTolerance
	if raw := strings.TrimSpace(env.GetEnv("STRIPE_WEBHOOK_TOLERANCE_SECONDS", "")); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			tolerance = time.Duration(secs) * time.Second
		}
	}
	return &StripeVerifier{
		Secret:    strings.TrimSpace(env.GetEnv("STRIPE_WEBHOOK_SECRET", "")),
		Tolerance: tolerance,
	}
}

func (v *StripeVerifier) Provider() string { return models.PaymentProviderStripe }

func (v *StripeVerifier) Verify(body []byte, signatureHeader string) error {
	if strings.TrimSpace(v.Secret) == "" {
		return fmt.Errorf("%w: no webhook secret configured", ErrSignatureInvalid)
	}

	timestamp, candidates, err := parseStripeSignatureHeader(signatureHeader)
	if err != nil {
		return err
	}

	tolerance := v.Tolerance
	if tolerance <= 0 {
		tolerance = defaultStripeTolerance
	}
	nowFn := v.now
	if nowFn == nil {
		nowFn = time.Now
	}
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: bad timestamp %q", ErrSignatureInvalid, timestamp)
	}
	age := nowFn().Sub(time.Unix(ts, 0))
	if age > tolerance || age < -tolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrSignatureInvalid)
	}

	// The signed payload is "{timestamp}.{raw_body}" using the header's
	// timestamp string verbatim.
	mac := hmac.New(sha256.New, []byte(v.Secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := mac.Sum(nil)

	for _, candidate := range candidates {
		decoded, err := hex.DecodeString(candidate)
		if err != nil {
			continue
		}
		if hmac.Equal(expected, decoded) {
			return nil
		}
	}
	return fmt.Errorf("%w: no matching v1 signature", ErrSignatureInvalid)
}

// parseStripeSignatureHeader splits "t=1700000000,v1=abc,v1=def" into the
// timestamp and the v1 signature candidates.
func parseStripeSignatureHeader(header string) (string, []string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", nil, fmt.Errorf("%w: missing Stripe-Signature header", ErrSignatureInvalid)
	}

	var timestamp string
	var candidates []string
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			candidates = append(candidates, value)
		}
	}
	if timestamp == "" || len(candidates) == 0 {
		return "", nil, fmt.Errorf("%w: malformed Stripe-Signature header", ErrSignatureInvalid)
	}
	return timestamp, candidates, nil
}

// SquareVerifier checks the x-square-hmacsha256-signature header: a single
// base64 HMAC-SHA256 over "{notification_url}{body}". The configured URL must
// match the one registered with Square byte for byte, since it is part of the
// signed material.
type SquareVerifier struct {
	SignatureKey    string
	NotificationURL string
}

// NewSquareVerifierFromEnv builds a SquareVerifier from
// SQUARE_WEBHOOK_SIGNATURE_KEY and SQUARE_WEBHOOK_URL.
func NewSquareVerifierFromEnv() *SquareVerifier {
	return &SquareVerifier{
		SignatureKey:    strings.TrimSpace(env.GetEnv("SQUARE_WEBHOOK_SIGNATURE_KEY", "")),
		NotificationURL: strings.TrimSpace(env.GetEnv("SQUARE_WEBHOOK_URL", "")),
	}
}

func (v *SquareVerifier) Provider() string { return models.PaymentProviderSquare }

func (v *SquareVerifier) Verify(body []byte, signatureHeader string) error {
	sig := strings.TrimSpace(signatureHeader)
	if sig == "" {
		return fmt.Errorf("%w: missing signature header", ErrSignatureInvalid)
	}
	if v.SignatureKey == "" || v.NotificationURL == "" {
		return fmt.Errorf("%w: square webhook verification not configured", ErrSignatureInvalid)
	}

	decoded, err := base64.StdEncoding.DecodeString(sig)
	if err != nil {
		return fmt.Errorf("%w: signature is not valid base64", ErrSignatureInvalid)
	}

	mac := hmac.New(sha256.New, []byte(v.SignatureKey))
	mac.Write([]byte(v.NotificationURL))
	mac.Write(body)
	if !hmac.Equal(mac.Sum(nil), decoded) {
		return fmt.Errorf("%w: signature mismatch", ErrSignatureInvalid)
	}
	return nil
}
