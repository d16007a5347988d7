package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domainErrors "github.com/shopflow/ordercore/internal/domain/errors"
	"github.com/shopflow/ordercore/internal/domain/model"
	"github.com/shopflow/ordercore/internal/domain/repository"
)

// CatalogUseCase covers the minimal product surface the order flow needs:
// sellers list stock, buyers browse it.
type CatalogUseCase struct {
	products repository.ProductRepository
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(products repository.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{products: products}
}

// CreateProduct adds a catalog entry owned by the acting seller.
func (u *CatalogUseCase) CreateProduct(ctx context.Context, actor model.Actor, name string, price int64, stock int) (*model.Product, error) {
	if actor.Role != model.RoleSeller && actor.Role != model.RoleAdmin {
		return nil, domainErrors.ErrForbidden
	}
	if name == "" {
		return nil, fmt.Errorf("%w: product name required", domainErrors.ErrValidation)
	}
	if price <= 0 {
		return nil, fmt.Errorf("%w: non-positive price", domainErrors.ErrValidation)
	}
	if stock < 0 {
		return nil, fmt.Errorf("%w: negative stock", domainErrors.ErrValidation)
	}

	product := &model.Product{
		ID:       uuid.NewString(),
		SellerID: actor.UserID,
		Name:     name,
		Price:    price,
		Stock:    stock,
	}
	if err := u.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct fetches one catalog entry.
func (u *CatalogUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	return u.products.GetByID(ctx, id)
}

// ListProducts returns a catalog page, newest first.
func (u *CatalogUseCase) ListProducts(ctx context.Context, page repository.Page) ([]model.Product, int, error) {
	return u.products.List(ctx, page)
}
