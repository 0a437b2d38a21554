package handlers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/autoshop/internal/domain/model"
	pkgAuth "github.com/polkiloo/autoshop/internal/pkg/auth"
	"github.com/polkiloo/autoshop/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, req usecase.RegisterRequest) (*model.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
	ParseToken(token string) (pkgAuth.Claims, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, req usecase.CheckoutRequest) (*model.Order, error)
	Order(ctx context.Context, id int64) (*model.Order, error)
	Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	UserOrders(ctx context.Context, userID int64) ([]model.Order, error)
	TrackOrder(ctx context.Context, number, email string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus, tracking model.Tracking) (*model.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

// InvoiceFacade exposes invoice downloads and regeneration.
type InvoiceFacade interface {
	RegenerateInvoice(ctx context.Context, orderID int64) (*model.Order, error)
	DownloadInvoice(ctx context.Context, orderID int64) (*model.InvoiceDocument, error)
}

// CatalogFacade exposes products, packages and garages.
type CatalogFacade interface {
	Products(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
	Product(ctx context.Context, id int64) (*model.Product, error)
	Stock(ctx context.Context, id int64) (*model.StockLevel, error)
	Restock(ctx context.Context, id int64, quantity int) (*model.Product, error)
	Packages(ctx context.Context) ([]model.Package, error)
	Package(ctx context.Context, id int64) (*model.Package, error)
	Garages(ctx context.Context, county string) ([]model.Garage, error)
	Garage(ctx context.Context, id int64) (*model.Garage, error)
}

// LicenseFacade exposes MDVR licence operations.
type LicenseFacade interface {
	VehicleLicense(ctx context.Context, registration string) (*model.License, error)
	CheckLicense(ctx context.Context, registration string) (usecase.LicenseCheck, error)
	RenewalPrice(licenseType string) (model.LicenseType, decimal.Decimal)
	ActivateLicense(ctx context.Context, req usecase.ActivateLicenseRequest) (*model.License, error)
	RenewLicense(ctx context.Context, id int64, months int) (*model.License, error)
}

// HealthFacade reports storage readiness.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// StoreFacade aggregates the full set of operations used across handlers.
type StoreFacade interface {
	AuthFacade
	OrderFacade
	InvoiceFacade
	CatalogFacade
	LicenseFacade
	HealthFacade
}
