package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/autoshop/internal/domain/model"
	pkgAuth "github.com/polkiloo/autoshop/internal/pkg/auth"
	"github.com/polkiloo/autoshop/internal/usecase"
)

// HealthChecker reports whether storage is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type StoreFacade struct {
	auth     *usecase.AuthUseCase
	checkout *usecase.CheckoutUseCase
	orders   *usecase.OrderUseCase
	invoices *usecase.InvoiceUseCase
	catalog  *usecase.CatalogUseCase
	licenses *usecase.LicenseUseCase
	health   HealthChecker
}

func NewStoreFacade(
	auth *usecase.AuthUseCase,
	checkout *usecase.CheckoutUseCase,
	orders *usecase.OrderUseCase,
	invoices *usecase.InvoiceUseCase,
	catalog *usecase.CatalogUseCase,
	licenses *usecase.LicenseUseCase,
	health HealthChecker,
) *StoreFacade {
	return &StoreFacade{
		auth:     auth,
		checkout: checkout,
		orders:   orders,
		invoices: invoices,
		catalog:  catalog,
		licenses: licenses,
		health:   health,
	}
}

func (f *StoreFacade) Register(ctx context.Context, req usecase.RegisterRequest) (*model.User, string, error) {
	return f.auth.Register(ctx, req)
}

func (f *StoreFacade) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, email, password)
}

func (f *StoreFacade) ParseToken(token string) (pkgAuth.Claims, error) {
	return f.auth.ParseToken(token)
}

func (f *StoreFacade) PlaceOrder(ctx context.Context, req usecase.CheckoutRequest) (*model.Order, error) {
	return f.checkout.PlaceOrder(ctx, req)
}

func (f *StoreFacade) Order(ctx context.Context, id int64) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

func (f *StoreFacade) Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	return f.orders.List(ctx, filter)
}

func (f *StoreFacade) UserOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.orders.ListByUser(ctx, userID)
}

func (f *StoreFacade) TrackOrder(ctx context.Context, number, email string) (*model.Order, error) {
	return f.orders.Track(ctx, number, email)
}

func (f *StoreFacade) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus, tracking model.Tracking) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, id, status, tracking)
}

func (f *StoreFacade) DeleteOrder(ctx context.Context, id int64) error {
	return f.orders.Delete(ctx, id)
}

func (f *StoreFacade) RegenerateInvoice(ctx context.Context, orderID int64) (*model.Order, error) {
	return f.invoices.Regenerate(ctx, orderID)
}

func (f *StoreFacade) DownloadInvoice(ctx context.Context, orderID int64) (*model.InvoiceDocument, error) {
	return f.invoices.Download(ctx, orderID)
}

func (f *StoreFacade) Products(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	return f.catalog.Products(ctx, filter)
}

func (f *StoreFacade) Product(ctx context.Context, id int64) (*model.Product, error) {
	return f.catalog.Product(ctx, id)
}

func (f *StoreFacade) Stock(ctx context.Context, id int64) (*model.StockLevel, error) {
	return f.catalog.Stock(ctx, id)
}

func (f *StoreFacade) Restock(ctx context.Context, id int64, quantity int) (*model.Product, error) {
	return f.catalog.Restock(ctx, id, quantity)
}

func (f *StoreFacade) Packages(ctx context.Context) ([]model.Package, error) {
	return f.catalog.Packages(ctx)
}

func (f *StoreFacade) Package(ctx context.Context, id int64) (*model.Package, error) {
	return f.catalog.Package(ctx, id)
}

func (f *StoreFacade) Garages(ctx context.Context, county string) ([]model.Garage, error) {
	return f.catalog.Garages(ctx, county)
}

func (f *StoreFacade) Garage(ctx context.Context, id int64) (*model.Garage, error) {
	return f.catalog.Garage(ctx, id)
}

func (f *StoreFacade) VehicleLicense(ctx context.Context, registration string) (*model.License, error) {
	return f.licenses.ByVehicle(ctx, registration)
}

func (f *StoreFacade) CheckLicense(ctx context.Context, registration string) (usecase.LicenseCheck, error) {
	return f.licenses.Check(ctx, registration)
}

func (f *StoreFacade) RenewalPrice(licenseType string) (model.LicenseType, decimal.Decimal) {
	return f.licenses.RenewalPrice(licenseType)
}

func (f *StoreFacade) ActivateLicense(ctx context.Context, req usecase.ActivateLicenseRequest) (*model.License, error) {
	return f.licenses.Activate(ctx, req)
}

func (f *StoreFacade) RenewLicense(ctx context.Context, id int64, months int) (*model.License, error) {
	return f.licenses.Renew(ctx, id, months)
}

func (f *StoreFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
