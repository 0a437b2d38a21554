package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/polkiloo/autoshop/internal/config"
	domainErrors "github.com/polkiloo/autoshop/internal/domain/errors"
	"github.com/polkiloo/autoshop/internal/domain/model"
	"github.com/polkiloo/autoshop/internal/domain/repository"
)

const tracerName = "github.com/polkiloo/autoshop/internal/usecase"

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// CartLine is a product and quantity submitted at checkout.
type CartLine struct {
	ProductID int64
	Quantity  int
}

// CheckoutRequest is the input of PlaceOrder.
type CheckoutRequest struct {
	UserID        *int64
	Address       model.ShippingAddress
	PaymentMethod model.PaymentMethod
	Items         []CartLine
	Installation  *model.Installation
	Notes         string
}

// InvoiceIssuer renders and attaches an invoice to a committed order.
type InvoiceIssuer interface {
	Issue(ctx context.Context, order *model.Order) error
}

// OrderNotifier queues customer, admin and garage messages for committed orders.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, order *model.Order)
	StatusChanged(ctx context.Context, order *model.Order, previous, current model.OrderStatus)
}

// CheckoutParams lists CheckoutUseCase dependencies.
type CheckoutParams struct {
	fx.In

	Products repository.ProductRepository
	Garages  repository.GarageRepository
	Tx       repository.Transactor
	Numbers  *OrderNumberGenerator
	Invoices InvoiceIssuer
	Notifier OrderNotifier
	Config   *config.Config
	Logger   *slog.Logger
}

// CheckoutUseCase places orders.
type CheckoutUseCase struct {
	products        repository.ProductRepository
	garages         repository.GarageRepository
	tx              repository.Transactor
	numbers         *OrderNumberGenerator
	invoices        InvoiceIssuer
	notifier        OrderNotifier
	installationFee decimal.Decimal
	logger          *slog.Logger
	tracer          trace.Tracer
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(p CheckoutParams) *CheckoutUseCase {
	fee := DefaultInstallationFee
	if p.Config != nil && p.Config.InstallationFee.IsPositive() {
		fee = p.Config.InstallationFee
	}
	numbers := p.Numbers
	if numbers == nil {
		numbers = NewOrderNumberGenerator()
	}
	return &CheckoutUseCase{
		products:        p.Products,
		garages:         p.Garages,
		tx:              p.Tx,
		numbers:         numbers,
		invoices:        p.Invoices,
		notifier:        p.Notifier,
		installationFee: fee,
		logger:          p.Logger,
		tracer:          otel.Tracer(tracerName),
	}
}

// PlaceOrder validates and prices the cart, then writes the order, its items and the
// stock decrements in one transaction. Invoice and notifications follow the commit
// and never fail the call.
func (u *CheckoutUseCase) PlaceOrder(ctx context.Context, req CheckoutRequest) (order *model.Order, err error) {
	ctx, span := u.tracer.Start(ctx, "checkout.PlaceOrder")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := u.validate(ctx, req); err != nil {
		return nil, err
	}

	items, err := u.resolveCart(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	quote := Price(items, req.Installation, u.installationFee)

	order = &model.Order{
		UserID:        req.UserID,
		GuestEmail:    req.Address.Email,
		Subtotal:      quote.Subtotal,
		Tax:           quote.Tax,
		Shipping:      quote.Shipping,
		Total:         quote.Total,
		Status:        model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusPending,
		PaymentMethod: req.PaymentMethod,
		Address:       req.Address,
		Installation:  req.Installation,
		Notes:         req.Notes,
	}
	if err := u.persist(ctx, order, items); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("order.number", order.Number), attribute.Int64("order.id", order.ID))
	u.logger.Info("order placed",
		slog.String("order", order.Number),
		slog.String("total", order.Total.StringFixed(2)),
		slog.Int("items", len(order.Items)),
	)

	u.afterCommit(context.WithoutCancel(ctx), order)
	return order, nil
}

func (u *CheckoutUseCase) validate(ctx context.Context, req CheckoutRequest) error {
	verr := domainErrors.NewValidationError()

	addr := req.Address
	required := []struct {
		field string
		value string
	}{
		{"shippingAddress.fullName", addr.Name},
		{"shippingAddress.phone", addr.Phone},
		{"shippingAddress.email", addr.Email},
		{"shippingAddress.address", addr.Address},
		{"shippingAddress.city", addr.City},
		{"shippingAddress.county", addr.County},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			verr.Add(r.field, "is required")
		}
	}
	if addr.Email != "" && !emailPattern.MatchString(addr.Email) {
		verr.Add("shippingAddress.email", "must be a valid email address")
	}

	if !req.PaymentMethod.Valid() {
		verr.Add("paymentMethod", "must be one of mpesa, card, bank")
	}

	if len(req.Items) == 0 {
		verr.Add("cartItems", "must contain at least one item")
	}
	for i, line := range req.Items {
		if line.ProductID <= 0 {
			verr.Add(fmt.Sprintf("cartItems.%d.productId", i), "is required")
		}
		if line.Quantity < 1 {
			verr.Add(fmt.Sprintf("cartItems.%d.quantity", i), "must be at least 1")
		}
	}

	if inst := req.Installation; inst != nil {
		switch {
		case !inst.Method.Valid():
			verr.Add("installationDetails.method", "must be one of self, technician")
		case inst.Method == model.InstallationTechnician && inst.GarageID == nil:
			verr.Add("installationDetails.garageId", "is required for technician installation")
		case inst.Method == model.InstallationTechnician:
			if _, err := u.garages.GetByID(ctx, *inst.GarageID); err != nil {
				if !errors.Is(err, domainErrors.ErrNotFound) {
					return fmt.Errorf("lookup garage: %w", err)
				}
				verr.Add("installationDetails.garageId", "garage not found")
			}
		}
	}

	return verr.OrNil()
}

// resolveCart snapshots every line against the catalog. Quantities of repeated
// products are summed before the availability check.
func (u *CheckoutUseCase) resolveCart(ctx context.Context, lines []CartLine) ([]model.OrderItem, error) {
	ctx, span := u.tracer.Start(ctx, "checkout.resolveCart")
	defer span.End()

	requested := make(map[int64]int, len(lines))
	items := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, err := u.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: product %d does not exist", domainErrors.ErrProductUnavailable, line.ProductID)
			}
			return nil, fmt.Errorf("lookup product %d: %w", line.ProductID, err)
		}
		requested[product.ID] += line.Quantity
		if !product.Available(requested[product.ID]) {
			return nil, fmt.Errorf("%w: %s is out of stock", domainErrors.ErrProductUnavailable, product.Name)
		}
		items = append(items, model.NewOrderItem(*product, line.Quantity))
	}
	return items, nil
}

func (u *CheckoutUseCase) persist(ctx context.Context, order *model.Order, items []model.OrderItem) error {
	ctx, span := u.tracer.Start(ctx, "checkout.persist")
	defer span.End()

	for attempt := 1; attempt <= u.numbers.Attempts(); attempt++ {
		err := u.tx.WithinTransaction(ctx, func(tx repository.Tx) error {
			return u.writeOrder(ctx, tx, order, items)
		})
		switch {
		case err == nil:
			return nil
		case errors.Is(err, domainErrors.ErrProductUnavailable):
			return err
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			u.logger.Warn("order number collision",
				slog.String("order", order.Number),
				slog.Int("attempt", attempt),
			)
		default:
			return fmt.Errorf("%w: %w", domainErrors.ErrPersistenceFailed, err)
		}
	}
	return fmt.Errorf("%w: %w", domainErrors.ErrPersistenceFailed, domainErrors.ErrOrderNumberExhausted)
}

func (u *CheckoutUseCase) writeOrder(ctx context.Context, tx repository.Tx, order *model.Order, items []model.OrderItem) error {
	number, err := u.numbers.Generate(ctx, tx.OrderNumberExists)
	if err != nil {
		return err
	}
	order.Number = number
	if err := tx.InsertOrder(ctx, order); err != nil {
		return err
	}

	written := make([]model.OrderItem, 0, len(items))
	for _, item := range items {
		if _, err := tx.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("decrement stock of %s: %w", item.ProductName, err)
		}
		item.OrderID = order.ID
		if err := tx.InsertOrderItem(ctx, &item); err != nil {
			return err
		}
		written = append(written, item)
	}
	order.Items = written
	return nil
}

func (u *CheckoutUseCase) afterCommit(ctx context.Context, order *model.Order) {
	if u.invoices != nil {
		if err := u.invoices.Issue(ctx, order); err != nil {
			u.logger.Error("invoice generation failed",
				slog.String("order", order.Number),
				slog.String("error", err.Error()),
			)
		}
	}
	if u.notifier != nil {
		u.notifier.OrderPlaced(ctx, order)
	}
}
