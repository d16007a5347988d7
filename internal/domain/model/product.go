package model

import "time"

// Product is a catalog entry. Stock counts available units; held and
// committed reservations have already been subtracted from it.
type Product struct {
	ID        string
	SellerID  int64
	Name      string
	// Price in minor currency units.
	Price     int64
	Stock     int
	CreatedAt time.Time
}

// CartItem is a product selection waiting for checkout.
type CartItem struct {
	ProductID string
	Quantity  int
}
