package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Orders() OrderRepository
	Reservations() ReservationRepository
	Payments() PaymentRepository
	Products() ProductRepository
	Carts() CartRepository
}
