package repository

import (
	"context"

	"github.com/polkiloo/autoshop/internal/domain/model"
)

// OrderRepository describes reads and field patches on committed orders.
// Implementations load Items; User and Garage are attached by callers.
type OrderRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	FindForTracking(ctx context.Context, number, email string) (*model.Order, error)
	SetInvoice(ctx context.Context, id int64, url, qr string) error
	SoftDelete(ctx context.Context, id int64) error
}
