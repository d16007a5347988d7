package dto

import "time"

// OrderItemRequest is one requested line of a new order.
type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ShippingAddress is the delivery destination payload.
type ShippingAddress struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// CreateOrderRequest describes the order placement payload.
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress ShippingAddress    `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
}

// LineItemResponse mirrors a persisted order line.
type LineItemResponse struct {
	ProductID string `json:"product_id"`
	SellerID  int64  `json:"seller_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// AmountsResponse carries frozen order totals in minor currency units.
type AmountsResponse struct {
	ItemsTotal    int64 `json:"items_total"`
	ShippingTotal int64 `json:"shipping_total"`
	TaxTotal      int64 `json:"tax_total"`
	GrandTotal    int64 `json:"grand_total"`
}

// OrderResponse is the full order representation.
type OrderResponse struct {
	ID              string             `json:"id"`
	BuyerID         int64              `json:"buyer_id"`
	Status          string             `json:"status"`
	PaymentMethod   string             `json:"payment_method"`
	PaymentRef      string             `json:"payment_ref,omitempty"`
	Items           []LineItemResponse `json:"items"`
	Amounts         AmountsResponse    `json:"amounts"`
	ShippingAddress ShippingAddress    `json:"shipping_address"`
	CreatedAt       time.Time          `json:"created_at"`
	PaidAt          *time.Time         `json:"paid_at,omitempty"`
	DeliveredAt     *time.Time         `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time         `json:"cancelled_at,omitempty"`
}

// OrderListResponse is the paginated listing envelope.
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Page   int             `json:"page"`
	Pages  int             `json:"pages"`
	Count  int             `json:"count"`
}

// StatusUpdateRequest carries the seller/admin status change.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}
