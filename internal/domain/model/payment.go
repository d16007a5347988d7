package model

import "time"

// PaymentAttemptStatus describes one attempt against the payment gateway.
type PaymentAttemptStatus string

const (
	PaymentAttemptCreated  PaymentAttemptStatus = "created"
	PaymentAttemptVerified PaymentAttemptStatus = "verified"
	PaymentAttemptFailed   PaymentAttemptStatus = "failed"
)

// PaymentAttempt records one payment intent created at the gateway. An order
// may accumulate several attempts across retries, but at most one may ever be
// verified.
type PaymentAttempt struct {
	// ID is the gateway's own identifier for the intent, distinct from the
	// order id.
	ID      string
	OrderID string
	Amount  int64
	Status  PaymentAttemptStatus
	// PaymentID and Signature arrive with the verification callback.
	PaymentID string
	Signature string
	CreatedAt time.Time
}

// PaymentIntent is the gateway's answer to an intent creation request.
type PaymentIntent struct {
	ExternalID string
	Amount     int64
	Currency   string
	Raw        []byte
}
