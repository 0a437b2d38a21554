// Package facades holds HTTP facade stubs for handler and router tests.
package facades

import (
	"context"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/autoshop/internal/domain/errors"
	"github.com/polkiloo/autoshop/internal/domain/model"
	pkgAuth "github.com/polkiloo/autoshop/internal/pkg/auth"
	"github.com/polkiloo/autoshop/internal/usecase"
)

// AuthStub implements the authentication facade via overrides.
type AuthStub struct {
	RegisterFn     func(context.Context, usecase.RegisterRequest) (*model.User, string, error)
	AuthenticateFn func(context.Context, string, string) (*model.User, string, error)
	ParseFn        func(string) (pkgAuth.Claims, error)
}

// Register delegates to RegisterFn or returns a customer with token "token".
func (s AuthStub) Register(ctx context.Context, req usecase.RegisterRequest) (*model.User, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, req)
	}
	return &model.User{ID: 1, FullName: req.FullName, Email: req.Email, Role: model.RoleCustomer}, "token", nil
}

// Authenticate delegates to AuthenticateFn or succeeds.
func (s AuthStub) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return &model.User{ID: 1, Email: email, Role: model.RoleCustomer}, "token", nil
}

// ParseToken delegates to ParseFn or returns customer 1.
func (s AuthStub) ParseToken(token string) (pkgAuth.Claims, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return pkgAuth.Claims{UserID: 1, Role: string(model.RoleCustomer)}, nil
}

// OrderStub implements the order facade via overrides.
type OrderStub struct {
	PlaceFn        func(context.Context, usecase.CheckoutRequest) (*model.Order, error)
	GetFn          func(context.Context, int64) (*model.Order, error)
	ListFn         func(context.Context, model.OrderFilter) ([]model.Order, error)
	UserOrdersFn   func(context.Context, int64) ([]model.Order, error)
	TrackFn        func(context.Context, string, string) (*model.Order, error)
	UpdateStatusFn func(context.Context, int64, model.OrderStatus, model.Tracking) (*model.Order, error)
	DeleteFn       func(context.Context, int64) error
}

// PlaceOrder delegates to PlaceFn or returns a pending order.
func (s OrderStub) PlaceOrder(ctx context.Context, req usecase.CheckoutRequest) (*model.Order, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, req)
	}
	return &model.Order{ID: 1, Number: "ORD-20260101-ABCDE", UserID: req.UserID, Status: model.OrderStatusPending}, nil
}

// Order delegates to GetFn or returns an order with the given id.
func (s OrderStub) Order(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	return &model.Order{ID: id}, nil
}

// Orders delegates to ListFn.
func (s OrderStub) Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}
	return nil, nil
}

// UserOrders delegates to UserOrdersFn.
func (s OrderStub) UserOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.UserOrdersFn != nil {
		return s.UserOrdersFn(ctx, userID)
	}
	return nil, nil
}

// TrackOrder delegates to TrackFn or returns an order with the given number.
func (s OrderStub) TrackOrder(ctx context.Context, number, email string) (*model.Order, error) {
	if s.TrackFn != nil {
		return s.TrackFn(ctx, number, email)
	}
	return &model.Order{ID: 1, Number: number, GuestEmail: email}, nil
}

// UpdateOrderStatus delegates to UpdateStatusFn or applies the status.
func (s OrderStub) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus, tracking model.Tracking) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, status, tracking)
	}
	return &model.Order{ID: id, Status: status, Tracking: tracking}, nil
}

// DeleteOrder delegates to DeleteFn.
func (s OrderStub) DeleteOrder(ctx context.Context, id int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

// InvoiceStub implements the invoice facade via overrides.
type InvoiceStub struct {
	RegenerateFn func(context.Context, int64) (*model.Order, error)
	DownloadFn   func(context.Context, int64) (*model.InvoiceDocument, error)
}

// RegenerateInvoice delegates to RegenerateFn.
func (s InvoiceStub) RegenerateInvoice(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.RegenerateFn != nil {
		return s.RegenerateFn(ctx, orderID)
	}
	return &model.Order{ID: orderID, InvoiceURL: "/files/invoices/invoice.html", InvoiceQR: "qr"}, nil
}

// DownloadInvoice delegates to DownloadFn or reports the invoice missing.
func (s InvoiceStub) DownloadInvoice(ctx context.Context, orderID int64) (*model.InvoiceDocument, error) {
	if s.DownloadFn != nil {
		return s.DownloadFn(ctx, orderID)
	}
	return nil, domainErrors.ErrInvoiceUnavailable
}

// CatalogStub implements the catalog facade via overrides.
type CatalogStub struct {
	ProductsFn func(context.Context, model.ProductFilter) ([]model.Product, error)
	ProductFn  func(context.Context, int64) (*model.Product, error)
	StockFn    func(context.Context, int64) (*model.StockLevel, error)
	RestockFn  func(context.Context, int64, int) (*model.Product, error)
	PackagesFn func(context.Context) ([]model.Package, error)
	PackageFn  func(context.Context, int64) (*model.Package, error)
	GaragesFn  func(context.Context, string) ([]model.Garage, error)
	GarageFn   func(context.Context, int64) (*model.Garage, error)
}

// Products delegates to ProductsFn.
func (s CatalogStub) Products(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx, filter)
	}
	return nil, nil
}

// Product delegates to ProductFn.
func (s CatalogStub) Product(ctx context.Context, id int64) (*model.Product, error) {
	if s.ProductFn != nil {
		return s.ProductFn(ctx, id)
	}
	return &model.Product{ID: id}, nil
}

// Stock delegates to StockFn.
func (s CatalogStub) Stock(ctx context.Context, id int64) (*model.StockLevel, error) {
	if s.StockFn != nil {
		return s.StockFn(ctx, id)
	}
	return &model.StockLevel{ProductID: id}, nil
}

// Restock delegates to RestockFn.
func (s CatalogStub) Restock(ctx context.Context, id int64, quantity int) (*model.Product, error) {
	if s.RestockFn != nil {
		return s.RestockFn(ctx, id, quantity)
	}
	return &model.Product{ID: id, InStock: true, StockQuantity: quantity}, nil
}

// Packages delegates to PackagesFn.
func (s CatalogStub) Packages(ctx context.Context) ([]model.Package, error) {
	if s.PackagesFn != nil {
		return s.PackagesFn(ctx)
	}
	return nil, nil
}

// Package delegates to PackageFn.
func (s CatalogStub) Package(ctx context.Context, id int64) (*model.Package, error) {
	if s.PackageFn != nil {
		return s.PackageFn(ctx, id)
	}
	return &model.Package{ID: id}, nil
}

// Garages delegates to GaragesFn.
func (s CatalogStub) Garages(ctx context.Context, county string) ([]model.Garage, error) {
	if s.GaragesFn != nil {
		return s.GaragesFn(ctx, county)
	}
	return nil, nil
}

// Garage delegates to GarageFn.
func (s CatalogStub) Garage(ctx context.Context, id int64) (*model.Garage, error) {
	if s.GarageFn != nil {
		return s.GarageFn(ctx, id)
	}
	return &model.Garage{ID: id}, nil
}

// LicenseStub implements the licence facade via overrides.
type LicenseStub struct {
	VehicleFn  func(context.Context, string) (*model.License, error)
	CheckFn    func(context.Context, string) (usecase.LicenseCheck, error)
	ActivateFn func(context.Context, usecase.ActivateLicenseRequest) (*model.License, error)
	RenewFn    func(context.Context, int64, int) (*model.License, error)
}

// VehicleLicense delegates to VehicleFn.
func (s LicenseStub) VehicleLicense(ctx context.Context, registration string) (*model.License, error) {
	if s.VehicleFn != nil {
		return s.VehicleFn(ctx, registration)
	}
	return &model.License{ID: 1, VehicleRegistration: registration}, nil
}

// CheckLicense delegates to CheckFn.
func (s LicenseStub) CheckLicense(ctx context.Context, registration string) (usecase.LicenseCheck, error) {
	if s.CheckFn != nil {
		return s.CheckFn(ctx, registration)
	}
	return usecase.LicenseCheck{}, nil
}

// RenewalPrice uses the real price list.
func (s LicenseStub) RenewalPrice(licenseType string) (model.LicenseType, decimal.Decimal) {
	t := model.LicenseType(licenseType)
	if t != model.LicenseTypeAI {
		t = model.LicenseTypeNonAI
	}
	return t, model.RenewalPrice(t)
}

// ActivateLicense delegates to ActivateFn.
func (s LicenseStub) ActivateLicense(ctx context.Context, req usecase.ActivateLicenseRequest) (*model.License, error) {
	if s.ActivateFn != nil {
		return s.ActivateFn(ctx, req)
	}
	orderID := req.OrderID
	return &model.License{ID: 1, OrderID: &orderID, MDVRSerial: req.MDVRSerial, VehicleRegistration: req.VehicleRegistration}, nil
}

// RenewLicense delegates to RenewFn.
func (s LicenseStub) RenewLicense(ctx context.Context, id int64, months int) (*model.License, error) {
	if s.RenewFn != nil {
		return s.RenewFn(ctx, id, months)
	}
	return &model.License{ID: id, Status: model.LicenseStatusActive}, nil
}

// HealthStub reports Err from HealthCheck.
type HealthStub struct {
	Err error
}

// HealthCheck returns Err.
func (s HealthStub) HealthCheck(context.Context) error {
	return s.Err
}

// StoreStub combines every facade stub.
type StoreStub struct {
	AuthStub
	OrderStub
	InvoiceStub
	CatalogStub
	LicenseStub
	HealthStub
}
