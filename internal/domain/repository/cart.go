package repository

import (
	"context"

	"github.com/shopflow/ordercore/internal/domain/model"
)

// CartRepository stores per-user checkout selections.
type CartRepository interface {
	Get(ctx context.Context, userID int64) ([]model.CartItem, error)
	Replace(ctx context.Context, userID int64, items []model.CartItem) error
	Clear(ctx context.Context, userID int64) error
}
