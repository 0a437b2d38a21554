package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainErrors "github.com/polkiloo/autoshop/internal/domain/errors"
	"github.com/polkiloo/autoshop/internal/domain/model"
	"github.com/polkiloo/autoshop/internal/domain/repository"
)

const (
	invoiceCurrency     = "KES"
	invoicePaymentTerms = 7 * 24 * time.Hour
)

// InvoiceRenderer turns an invoice snapshot into a downloadable document.
type InvoiceRenderer interface {
	Render(ctx context.Context, snapshot model.InvoiceSnapshot) (*model.InvoiceDocument, error)
	Locate(url string) (*model.InvoiceDocument, bool)
	Remove(url string) error
}

// InvoiceUseCase issues, regenerates and serves order invoices.
type InvoiceUseCase struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	renderer InvoiceRenderer
	now      func() time.Time
	logger   *slog.Logger
}

// NewInvoiceUseCase constructs InvoiceUseCase.
func NewInvoiceUseCase(orders repository.OrderRepository, users repository.UserRepository, renderer InvoiceRenderer, logger *slog.Logger) *InvoiceUseCase {
	return &InvoiceUseCase{orders: orders, users: users, renderer: renderer, now: time.Now, logger: logger}
}

// Issue renders an invoice for order and stores its URL and QR payload.
func (u *InvoiceUseCase) Issue(ctx context.Context, order *model.Order) error {
	if order.UserID != nil && order.User == nil {
		if user, err := u.users.GetByID(ctx, *order.UserID); err == nil {
			order.User = user
		}
	}

	doc, err := u.renderer.Render(ctx, u.Snapshot(order))
	if err != nil {
		return fmt.Errorf("render invoice: %w", err)
	}
	if err := u.orders.SetInvoice(ctx, order.ID, doc.URL, doc.QRPayload); err != nil {
		if removeErr := u.renderer.Remove(doc.URL); removeErr != nil {
			u.logger.Warn("remove orphan invoice failed", slog.String("url", doc.URL), slog.String("error", removeErr.Error()))
		}
		return fmt.Errorf("store invoice url: %w", err)
	}
	order.InvoiceURL = doc.URL
	order.InvoiceQR = doc.QRPayload
	return nil
}

// Regenerate renders a fresh invoice, points the order at it and removes the old file.
func (u *InvoiceUseCase) Regenerate(ctx context.Context, orderID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	previous := order.InvoiceURL
	if err := u.Issue(ctx, order); err != nil {
		return nil, err
	}
	if previous != "" && previous != order.InvoiceURL {
		if err := u.renderer.Remove(previous); err != nil {
			u.logger.Warn("remove previous invoice failed",
				slog.String("order", order.Number),
				slog.String("url", previous),
				slog.String("error", err.Error()),
			)
		}
	}
	u.logger.Info("invoice regenerated", slog.String("order", order.Number), slog.String("url", order.InvoiceURL))
	return order, nil
}

// Download locates the order's invoice, regenerating it when the file is gone.
func (u *InvoiceUseCase) Download(ctx context.Context, orderID int64) (*model.InvoiceDocument, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.InvoiceURL != "" {
		if doc, ok := u.renderer.Locate(order.InvoiceURL); ok {
			return doc, nil
		}
	}

	regenerated, err := u.Regenerate(ctx, orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, err
		}
		u.logger.Error("invoice regeneration failed", slog.Int64("order_id", orderID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrInvoiceUnavailable, err)
	}
	doc, ok := u.renderer.Locate(regenerated.InvoiceURL)
	if !ok {
		return nil, domainErrors.ErrInvoiceUnavailable
	}
	return doc, nil
}

// Snapshot captures the invoice view of order. An installation line is added when shipping is charged.
func (u *InvoiceUseCase) Snapshot(order *model.Order) model.InvoiceSnapshot {
	issued := u.now()
	lines := make([]model.InvoiceLine, 0, len(order.Items)+1)
	for _, item := range order.Items {
		lines = append(lines, model.InvoiceLine{
			Description: item.ProductName,
			Category:    string(item.ProductCategory),
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Total:       item.TotalPrice,
		})
	}
	if order.Shipping.IsPositive() {
		lines = append(lines, model.InvoiceLine{
			Description: "Installation Service",
			Category:    string(model.CategoryInstallation),
			UnitPrice:   order.Shipping,
			Quantity:    1,
			Total:       order.Shipping,
		})
	}

	return model.InvoiceSnapshot{
		Number:        "INV-" + order.Number,
		OrderID:       order.ID,
		OrderNumber:   order.Number,
		IssuedAt:      issued,
		PayUntil:      issued.Add(invoicePaymentTerms),
		BuyerName:     order.CustomerName(),
		BuyerEmail:    order.CustomerEmail(),
		Address:       order.Address,
		Lines:         lines,
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		Shipping:      order.Shipping,
		Total:         order.Total,
		Currency:      invoiceCurrency,
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: order.PaymentStatus,
	}
}
