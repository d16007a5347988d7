package repository

import (
	"context"

	"github.com/shopflow/ordercore/internal/domain/model"
)

// ProductRepository describes catalog persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	GetBatch(ctx context.Context, ids []string) ([]model.Product, error)
	List(ctx context.Context, page Page) ([]model.Product, int, error)
}
