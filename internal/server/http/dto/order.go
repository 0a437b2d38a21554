package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShippingAddress is the delivery contact captured at checkout.
type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	County     string `json:"county"`
	PostalCode string `json:"postalCode,omitempty"`
}

// CartItem is one requested product line.
type CartItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// InstallationDetails is the optional fitting booking.
type InstallationDetails struct {
	Method              string     `json:"method"`
	GarageID            *int64     `json:"garageId,omitempty"`
	AppointmentDate     *time.Time `json:"appointmentDate,omitempty"`
	VehicleMake         string     `json:"vehicleMake,omitempty"`
	VehicleModel        string     `json:"vehicleModel,omitempty"`
	VehicleRegistration string     `json:"vehicleRegistration,omitempty"`
}

// PlaceOrderRequest is the checkout payload.
type PlaceOrderRequest struct {
	ShippingAddress     ShippingAddress      `json:"shippingAddress"`
	PaymentMethod       string               `json:"paymentMethod"`
	CartItems           []CartItem           `json:"cartItems"`
	InstallationDetails *InstallationDetails `json:"installationDetails,omitempty"`
	Notes               string               `json:"notes,omitempty"`
}

// TrackOrderRequest is the guest lookup payload.
type TrackOrderRequest struct {
	OrderNumber string `json:"orderNumber"`
	Email       string `json:"email"`
}

// UpdateStatusRequest moves an order to a new status.
type UpdateStatusRequest struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	Carrier        string `json:"carrier,omitempty"`
}

// OrderItemResponse is a frozen order line.
type OrderItemResponse struct {
	ProductID       int64           `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductSKU      string          `json:"productSku"`
	ProductCategory string          `json:"productCategory"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Quantity        int             `json:"quantity"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
}

// OrderResponse is the full order view.
type OrderResponse struct {
	ID                  int64                `json:"id"`
	OrderNumber         string               `json:"orderNumber"`
	UserID              *int64               `json:"userId"`
	CustomerEmail       string               `json:"customerEmail"`
	Status              string               `json:"status"`
	PaymentStatus       string               `json:"paymentStatus"`
	PaymentMethod       string               `json:"paymentMethod"`
	Subtotal            decimal.Decimal      `json:"subtotal"`
	Tax                 decimal.Decimal      `json:"tax"`
	Shipping            decimal.Decimal      `json:"shipping"`
	Total               decimal.Decimal      `json:"total"`
	ShippingAddress     ShippingAddress      `json:"shippingAddress"`
	InstallationDetails *InstallationDetails `json:"installationDetails,omitempty"`
	InvoiceURL          *string              `json:"invoiceUrl"`
	TrackingNumber      string               `json:"trackingNumber,omitempty"`
	Carrier             string               `json:"carrier,omitempty"`
	Notes               string               `json:"notes,omitempty"`
	Items               []OrderItemResponse  `json:"items"`
	Garage              *GarageResponse      `json:"garage,omitempty"`
	User                *UserResponse        `json:"user,omitempty"`
	CreatedAt           time.Time            `json:"createdAt"`
	UpdatedAt           time.Time            `json:"updatedAt"`
}

// InvoiceResponse is returned after invoice regeneration.
type InvoiceResponse struct {
	InvoiceURL string `json:"invoiceUrl"`
	QRPayload  string `json:"qrPayload"`
}
