package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes fulfilment lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// PaymentStatus describes settlement state of an order.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// PaymentMethod enumerates accepted payment channels.
type PaymentMethod string

const (
	PaymentMethodMpesa PaymentMethod = "mpesa"
	PaymentMethodCard  PaymentMethod = "card"
	PaymentMethodBank  PaymentMethod = "bank"
)

// Valid reports whether m is an accepted payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodMpesa, PaymentMethodCard, PaymentMethodBank:
		return true
	}
	return false
}

// InstallationMethod tells who fits the hardware.
type InstallationMethod string

const (
	InstallationSelf       InstallationMethod = "self"
	InstallationTechnician InstallationMethod = "technician"
)

// Valid reports whether m is a known installation method.
func (m InstallationMethod) Valid() bool {
	return m == InstallationSelf || m == InstallationTechnician
}

// ShippingAddress is copied onto the order at checkout and never re-derived.
type ShippingAddress struct {
	Name       string
	Phone      string
	Email      string
	Address    string
	City       string
	County     string
	PostalCode string
}

// Installation holds optional fitting details captured at checkout.
type Installation struct {
	Method              InstallationMethod
	GarageID            *int64
	Appointment         *time.Time
	VehicleMake         string
	VehicleModel        string
	VehicleRegistration string
}

// RequiresTechnician reports whether a garage visit was booked.
func (i *Installation) RequiresTechnician() bool {
	return i != nil && i.Method == InstallationTechnician
}

// Order describes a placed purchase.
type Order struct {
	ID            int64
	Number        string
	UserID        *int64
	GuestEmail    string
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Shipping      decimal.Decimal
	Total         decimal.Decimal
	Status        OrderStatus
	PaymentStatus PaymentStatus
	PaymentMethod PaymentMethod
	Address       ShippingAddress
	Installation  *Installation
	InvoiceURL    string
	InvoiceQR     string
	Tracking      Tracking
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time

	Items  []OrderItem
	User   *User
	Garage *Garage
}

// Tracking carries courier details attached when an order ships.
type Tracking struct {
	Number  string
	Carrier string
}

// CustomerEmail returns the registered user's address when a user is attached, else the guest email.
func (o *Order) CustomerEmail() string {
	if o.User != nil {
		return o.User.Email
	}
	return o.GuestEmail
}

// CustomerName mirrors CustomerEmail for display names.
func (o *Order) CustomerName() string {
	if o.User != nil && o.User.FullName != "" {
		return o.User.FullName
	}
	return o.Address.Name
}

// InvoicePending reports whether the invoice has not been generated yet.
func (o *Order) InvoicePending() bool {
	return o.InvoiceURL == ""
}

// GarageID returns the attached garage for technician installs.
func (o *Order) GarageID() (int64, bool) {
	if !o.Installation.RequiresTechnician() || o.Installation.GarageID == nil {
		return 0, false
	}
	return *o.Installation.GarageID, true
}

// TransitionStatus moves order to next and returns the previous status.
// Every transition is currently allowed.
func TransitionStatus(order *Order, next OrderStatus) OrderStatus {
	previous := order.Status
	order.Status = next
	return previous
}

// OrderItem is an immutable line snapshot taken at checkout.
type OrderItem struct {
	ID              int64
	OrderID         int64
	ProductID       int64
	ProductName     string
	ProductSKU      string
	ProductCategory ProductCategory
	UnitPrice       decimal.Decimal
	Quantity        int
	TotalPrice      decimal.Decimal
}

// NewOrderItem freezes product fields into a line for quantity units.
func NewOrderItem(product Product, quantity int) OrderItem {
	return OrderItem{
		ProductID:       product.ID,
		ProductName:     product.Name,
		ProductSKU:      product.SKU,
		ProductCategory: product.Category,
		UnitPrice:       product.Price,
		Quantity:        quantity,
		TotalPrice:      product.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// OrderFilter narrows order listings by owner.
type OrderFilter struct {
	UserID     *int64
	GuestEmail string
}
