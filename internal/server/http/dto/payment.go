package dto

import "time"

// IntentRequest asks for a payment intent on an order.
type IntentRequest struct {
	OrderID string `json:"order_id"`
}

// IntentResponse returns the freshly created gateway intent.
type IntentResponse struct {
	OrderID  string `json:"order_id"`
	IntentID string `json:"intent_id"`
	Amount   int64  `json:"amount"`
	Status   string `json:"order_status"`
}

// PayRequest carries the gateway verification fields supplied by the client
// after the out-of-band payment completes.
type PayRequest struct {
	IntentID  string `json:"intent_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

// RefundRequest asks for a refund of an order's verified payment.
type RefundRequest struct {
	OrderID string `json:"order_id"`
}

// AttemptResponse mirrors a recorded payment attempt.
type AttemptResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Amount    int64     `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
