package model

// ReservationState describes the lifecycle of a stock hold.
type ReservationState string

const (
	ReservationStateHeld      ReservationState = "held"
	ReservationStateCommitted ReservationState = "committed"
	ReservationStateReleased  ReservationState = "released"
)

// Reservation is a hold against available stock tied to a specific order.
// Held and committed quantities count against stock; a released reservation
// has returned its quantity to stock exactly once.
type Reservation struct {
	OrderID   string
	ProductID string
	Quantity  int
	State     ReservationState
}
