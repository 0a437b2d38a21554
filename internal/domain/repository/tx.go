package repository

import (
	"context"

	"github.com/polkiloo/autoshop/internal/domain/model"
)

// Transactor runs fn inside one atomic unit of work.
// fn returning an error rolls back every write made through tx.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of writes that must share a transaction.
type Tx interface {
	OrderNumberExists(ctx context.Context, number string) (bool, error)
	// InsertOrder stores order and sets its ID and timestamps.
	// A taken order number yields ErrAlreadyExists.
	InsertOrder(ctx context.Context, order *model.Order) error
	InsertOrderItem(ctx context.Context, item *model.OrderItem) error
	// DecrementStock removes quantity units if that many are in stock and
	// returns the remaining quantity; otherwise ErrProductUnavailable.
	DecrementStock(ctx context.Context, productID int64, quantity int) (int, error)
	LockOrder(ctx context.Context, id int64) (*model.Order, error)
	SaveOrderStatus(ctx context.Context, order *model.Order) error
}
