package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/polkiloo/autoshop/internal/domain/model"
	"github.com/polkiloo/autoshop/internal/domain/repository"
)

// Queue accepts messages for asynchronous delivery.
type Queue interface {
	Enqueue(msg Message) error
}

// AdminDirectory lists accounts that receive new order broadcasts.
type AdminDirectory interface {
	ListAdmins(ctx context.Context) ([]model.User, error)
}

// UserAdminDirectory reads administrators from the user repository.
type UserAdminDirectory struct {
	Users repository.UserRepository
}

// ListAdmins returns every user with the admin role.
func (d UserAdminDirectory) ListAdmins(ctx context.Context) ([]model.User, error) {
	return d.Users.ListByRole(ctx, model.RoleAdmin)
}

// Notifier turns committed order events into queued messages.
type Notifier struct {
	users   repository.UserRepository
	garages repository.GarageRepository
	admins  AdminDirectory
	queue   Queue
	logger  *slog.Logger
	now     func() time.Time
}

// NewNotifier constructs a notifier publishing to queue.
func NewNotifier(users repository.UserRepository, garages repository.GarageRepository, admins AdminDirectory, queue Queue, logger *slog.Logger) *Notifier {
	return &Notifier{
		users:   users,
		garages: garages,
		admins:  admins,
		queue:   queue,
		logger:  logger,
		now:     time.Now,
	}
}

// OrderPlaced enqueues the customer confirmation, one admin message per
// administrator and, for technician installs, the garage assignment.
func (n *Notifier) OrderPlaced(ctx context.Context, order *model.Order) {
	customer := n.customer(ctx, order)
	subject, body := confirmationContent(order, customer.DisplayName())
	n.publish(KindOrderConfirmation, customer, order, subject, body)

	admins, err := n.admins.ListAdmins(ctx)
	if err != nil {
		n.logger.Error("list admins failed", slog.String("order", order.Number), slog.String("error", err.Error()))
	}
	subject, body = adminContent(order)
	for _, admin := range admins {
		n.publish(KindAdminNewOrder, UserRecipient{User: admin}, order, subject, body)
	}

	if garage, ok := n.garage(ctx, order); ok {
		subject, body = garageContent(order, *garage)
		n.publish(KindGarageAssignment, GarageRecipient{Garage: *garage}, order, subject, body)
	}
}

// StatusChanged enqueues a single status update for the customer.
func (n *Notifier) StatusChanged(ctx context.Context, order *model.Order, previous, current model.OrderStatus) {
	if current == model.OrderStatusShipped && order.Garage == nil {
		if garage, ok := n.garage(ctx, order); ok {
			order.Garage = garage
		}
	}
	customer := n.customer(ctx, order)
	subject, body := statusContent(order, customer.DisplayName(), previous, current)
	n.publish(KindStatusUpdate, customer, order, subject, body)
}

func (n *Notifier) customer(ctx context.Context, order *model.Order) Recipient {
	guest := GuestRecipient{Email: order.GuestEmail, Name: order.Address.Name}
	if guest.Email == "" {
		guest.Email = order.Address.Email
	}
	if order.User != nil {
		return UserRecipient{User: *order.User}
	}
	if order.UserID == nil {
		return guest
	}
	user, err := n.users.GetByID(ctx, *order.UserID)
	if err != nil {
		n.logger.Warn("order user lookup failed, using guest email",
			slog.String("order", order.Number), slog.String("error", err.Error()))
		return guest
	}
	return UserRecipient{User: *user}
}

func (n *Notifier) garage(ctx context.Context, order *model.Order) (*model.Garage, bool) {
	if !order.Installation.RequiresTechnician() {
		return nil, false
	}
	if order.Garage != nil {
		return order.Garage, true
	}
	id, ok := order.GarageID()
	if !ok {
		return nil, false
	}
	garage, err := n.garages.GetByID(ctx, id)
	if err != nil {
		n.logger.Error("garage lookup failed", slog.String("order", order.Number), slog.Int64("garage_id", id), slog.String("error", err.Error()))
		return nil, false
	}
	return garage, true
}

func (n *Notifier) publish(kind Kind, to Recipient, order *model.Order, subject, body string) {
	msg, ok := newMessage(kind, to, order.Number, n.now())
	if !ok {
		n.logger.Warn("notification skipped, recipient has no address",
			slog.String("order", order.Number), slog.String("kind", string(kind)), slog.String("recipient", string(to.Kind())))
		return
	}
	msg.Subject = subject
	msg.Body = body
	if err := n.queue.Enqueue(msg); err != nil {
		n.logger.Error("notification enqueue failed",
			slog.String("order", order.Number), slog.String("recipient", msg.To), slog.String("error", err.Error()))
	}
}
