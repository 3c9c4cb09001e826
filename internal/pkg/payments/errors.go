package payments

import "errors"

// Error taxonomy for webhook processing. Handlers map these onto HTTP
// statuses: signature and payload errors never persist anything, invariant
// and storage errors surface as 5xx so the provider redelivers.
var (
	ErrSignatureInvalid   = errors.New("webhook signature invalid")
	ErrMalformedPayload   = errors.New("malformed webhook payload")
	ErrInvariantViolation = errors.New("materialization invariant violation")
)
