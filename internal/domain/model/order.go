package model

import "time"

// OrderStatus describes the order lifecycle.
type OrderStatus string

const (
	OrderStatusDraft            OrderStatus = "draft"
	OrderStatusPending          OrderStatus = "pending"
	OrderStatusPaymentInitiated OrderStatus = "payment_initiated"
	OrderStatusPaid             OrderStatus = "paid"
	OrderStatusPaymentFailed    OrderStatus = "payment_failed"
	OrderStatusProcessing       OrderStatus = "processing"
	OrderStatusShipped          OrderStatus = "shipped"
	OrderStatusDelivered        OrderStatus = "delivered"
	OrderStatusCancelled        OrderStatus = "cancelled"
)

// PaymentMethod selects how an order gets settled.
type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodCOD    PaymentMethod = "cash_on_delivery"
)

// validNext is the authoritative transition table. Status never changes
// except through a transition validated against this table.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusDraft: {
		OrderStatusPending: true,
	},
	OrderStatusPending: {
		OrderStatusPaymentInitiated: true,
		OrderStatusProcessing:       true, // cash on delivery skips payment states
		OrderStatusCancelled:        true,
	},
	OrderStatusPaymentInitiated: {
		OrderStatusPaid:          true,
		OrderStatusPaymentFailed: true,
		OrderStatusCancelled:     true,
	},
	OrderStatusPaymentFailed: {
		OrderStatusPaymentInitiated: true, // retry with a fresh payment attempt
	},
	OrderStatusPaid: {
		OrderStatusProcessing: true,
		OrderStatusDelivered:  true,
		OrderStatusCancelled:  true,
	},
	OrderStatusProcessing: {
		OrderStatusShipped:   true,
		OrderStatusDelivered: true,
		OrderStatusCancelled: true,
	},
	OrderStatusShipped: {
		OrderStatusDelivered: true,
		OrderStatusCancelled: true,
	},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// CanTransition reports whether moving from one status to another is allowed.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// IsTerminal reports whether no further transitions are possible.
func IsTerminal(s OrderStatus) bool {
	return ValidStatus(s) && len(validNext[s]) == 0
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s OrderStatus) bool {
	_, ok := validNext[s]
	return ok
}

// LineItem is a purchased product snapshot. Unit price and seller are copied
// from the catalog at creation time and never change afterwards.
type LineItem struct {
	ProductID string
	SellerID  int64
	Name      string
	UnitPrice int64
	Quantity  int
}

// Amounts holds order totals in minor currency units, computed once at
// creation and frozen.
type Amounts struct {
	ItemsTotal    int64
	ShippingTotal int64
	TaxTotal      int64
	GrandTotal    int64
}

// ShippingAddress is the delivery destination captured at checkout.
type ShippingAddress struct {
	Name       string
	Address    string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
}

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

// CreateOrderInput is the validated request to place an order.
type CreateOrderInput struct {
	Items           []OrderItemInput
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
}

// Order is the aggregate root of the purchase lifecycle.
type Order struct {
	ID              string
	BuyerID         int64
	LineItems       []LineItem
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	Status          OrderStatus
	Amounts         Amounts
	// PaymentRef holds the external id of the current payment intent. A
	// retried payment gets a new ref; refs are never reused.
	PaymentRef string
	// Version guards concurrent transitions: each successful transition
	// increments it and a stale writer gets a conflict.
	Version         int64
	PaymentDeadline *time.Time
	CreatedAt       time.Time
	PaidAt          *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
}

// SoldBy reports whether the user sells at least one line item.
func (o *Order) SoldBy(userID int64) bool {
	for _, item := range o.LineItems {
		if item.SellerID == userID {
			return true
		}
	}
	return false
}

// SoldEntirelyBy reports whether the user sells every line item.
func (o *Order) SoldEntirelyBy(userID int64) bool {
	for _, item := range o.LineItems {
		if item.SellerID != userID {
			return false
		}
	}
	return len(o.LineItems) > 0
}

// PricingPolicy drives the totals computation at checkout.
type PricingPolicy struct {
	TaxRateBasisPoints int64
	FlatShipping       int64
	FreeShippingOver   int64
}

// ComputeAmounts derives frozen order totals from line items.
func ComputeAmounts(items []LineItem, policy PricingPolicy) Amounts {
	var itemsTotal int64
	for _, item := range items {
		itemsTotal += item.UnitPrice * int64(item.Quantity)
	}

	shipping := policy.FlatShipping
	if policy.FreeShippingOver > 0 && itemsTotal >= policy.FreeShippingOver {
		shipping = 0
	}

	tax := itemsTotal * policy.TaxRateBasisPoints / 10000

	return Amounts{
		ItemsTotal:    itemsTotal,
		ShippingTotal: shipping,
		TaxTotal:      tax,
		GrandTotal:    itemsTotal + shipping + tax,
	}
}
