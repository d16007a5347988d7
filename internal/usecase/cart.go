package usecase

import (
	"context"
	"fmt"

	domainErrors "github.com/shopflow/ordercore/internal/domain/errors"
	"github.com/shopflow/ordercore/internal/domain/model"
	"github.com/shopflow/ordercore/internal/domain/repository"
)

// CartUseCase stores checkout selections per user. Clearing on order
// placement is owned by the order and payment flows, not by handlers.
type CartUseCase struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(carts repository.CartRepository, products repository.ProductRepository) *CartUseCase {
	return &CartUseCase{carts: carts, products: products}
}

// Get returns the user's current cart.
func (u *CartUseCase) Get(ctx context.Context, userID int64) ([]model.CartItem, error) {
	return u.carts.Get(ctx, userID)
}

// Replace overwrites the cart after checking every referenced product exists.
func (u *CartUseCase) Replace(ctx context.Context, userID int64, items []model.CartItem) error {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return fmt.Errorf("%w: bad cart item", domainErrors.ErrValidation)
		}
		ids = append(ids, item.ProductID)
	}

	if len(ids) > 0 {
		known, err := u.products.GetBatch(ctx, ids)
		if err != nil {
			return err
		}
		if len(known) != len(ids) {
			return domainErrors.ErrNotFound
		}
	}

	return u.carts.Replace(ctx, userID, items)
}
