package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/autoshop/internal/domain/errors"
	"github.com/polkiloo/autoshop/internal/domain/model"
	"github.com/polkiloo/autoshop/internal/domain/repository"
)

// OrderUseCase serves order reads, status transitions and deletion.
type OrderUseCase struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	garages  repository.GarageRepository
	tx       repository.Transactor
	notifier OrderNotifier
	logger   *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	users repository.UserRepository,
	garages repository.GarageRepository,
	tx repository.Transactor,
	notifier OrderNotifier,
	logger *slog.Logger,
) *OrderUseCase {
	return &OrderUseCase{orders: orders, users: users, garages: garages, tx: tx, notifier: notifier, logger: logger}
}

// Get returns an order with items, user and garage attached.
func (u *OrderUseCase) Get(ctx context.Context, id int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.attach(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// List returns orders filtered by owner, newest first, with users and
// garages attached.
func (u *OrderUseCase) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	orders, err := u.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := u.attachAll(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByUser returns orders placed by a registered user.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.List(ctx, model.OrderFilter{UserID: &userID})
}

// Track finds an order by number for a customer who knows the order email.
func (u *OrderUseCase) Track(ctx context.Context, number, email string) (*model.Order, error) {
	number = strings.TrimSpace(number)
	email = strings.TrimSpace(email)

	verr := domainErrors.NewValidationError()
	if number == "" {
		verr.Add("orderNumber", "is required")
	}
	if email == "" {
		verr.Add("email", "is required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	order, err := u.orders.FindForTracking(ctx, number, email)
	if err != nil {
		return nil, err
	}
	if err := u.attach(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus applies TransitionStatus under a row lock and queues a
// status-changed message after commit. Tracking details are stored when given.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus, tracking model.Tracking) (*model.Order, error) {
	if !status.Valid() {
		verr := domainErrors.NewValidationError()
		verr.Add("status", "must be one of pending, confirmed, processing, shipped, delivered, cancelled")
		return nil, verr
	}

	var (
		order    *model.Order
		previous model.OrderStatus
	)
	err := u.tx.WithinTransaction(ctx, func(tx repository.Tx) error {
		locked, err := tx.LockOrder(ctx, id)
		if err != nil {
			return err
		}
		previous = model.TransitionStatus(locked, status)
		if tracking.Number != "" {
			locked.Tracking = tracking
		}
		if err := tx.SaveOrderStatus(ctx, locked); err != nil {
			return err
		}
		order = locked
		return nil
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if reloaded, err := u.orders.GetByID(ctx, id); err == nil {
		order.Items = reloaded.Items
	}
	if err := u.attach(ctx, order); err != nil {
		u.logger.Warn("load order relations failed",
			slog.String("order", order.Number),
			slog.String("error", err.Error()),
		)
	}

	u.logger.Info("order status changed",
		slog.String("order", order.Number),
		slog.String("from", string(previous)),
		slog.String("to", string(status)),
	)
	if u.notifier != nil {
		u.notifier.StatusChanged(context.WithoutCancel(ctx), order, previous, status)
	}
	return order, nil
}

// Delete soft-deletes an order.
func (u *OrderUseCase) Delete(ctx context.Context, id int64) error {
	return u.orders.SoftDelete(ctx, id)
}

// attachAll loads each distinct user and garage once for the whole page.
func (u *OrderUseCase) attachAll(ctx context.Context, orders []model.Order) error {
	users := make(map[int64]*model.User)
	garages := make(map[int64]*model.Garage)

	for i := range orders {
		order := &orders[i]
		if order.UserID != nil && order.User == nil {
			user, seen := users[*order.UserID]
			if !seen {
				loaded, err := u.users.GetByID(ctx, *order.UserID)
				if err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
					return fmt.Errorf("load order user: %w", err)
				}
				user = loaded
				users[*order.UserID] = user
			}
			order.User = user
		}
		if garageID, ok := order.GarageID(); ok && order.Garage == nil {
			garage, seen := garages[garageID]
			if !seen {
				loaded, err := u.garages.GetByID(ctx, garageID)
				if err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
					return fmt.Errorf("load order garage: %w", err)
				}
				garage = loaded
				garages[garageID] = garage
			}
			order.Garage = garage
		}
	}
	return nil
}

func (u *OrderUseCase) attach(ctx context.Context, order *model.Order) error {
	if order.UserID != nil && order.User == nil {
		user, err := u.users.GetByID(ctx, *order.UserID)
		switch {
		case err == nil:
			order.User = user
		case !errors.Is(err, domainErrors.ErrNotFound):
			return fmt.Errorf("load order user: %w", err)
		}
	}
	if garageID, ok := order.GarageID(); ok && order.Garage == nil {
		garage, err := u.garages.GetByID(ctx, garageID)
		switch {
		case err == nil:
			order.Garage = garage
		case !errors.Is(err, domainErrors.ErrNotFound):
			return fmt.Errorf("load order garage: %w", err)
		}
	}
	return nil
}
