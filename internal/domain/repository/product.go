package repository

import (
	"context"

	"github.com/polkiloo/autoshop/internal/domain/model"
)

// ProductRepository provides catalog lookups and restocking.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
	IncreaseStock(ctx context.Context, id int64, quantity int) (*model.Product, error)
}
