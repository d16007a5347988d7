package dto

import "time"

// ProductRequest creates a catalog entry; price is in minor currency units.
type ProductRequest struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Stock int    `json:"stock"`
}

// ProductResponse mirrors a catalog entry.
type ProductResponse struct {
	ID        string    `json:"id"`
	SellerID  int64     `json:"seller_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductListResponse is the paginated catalog envelope.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Page     int               `json:"page"`
	Pages    int               `json:"pages"`
	Count    int               `json:"count"`
}

// CartItem is one cart line.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CartRequest replaces the cart contents.
type CartRequest struct {
	Items []CartItem `json:"items"`
}

// CartResponse returns the cart contents.
type CartResponse struct {
	Items []CartItem `json:"items"`
}
