package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLine is one row on a rendered invoice.
type InvoiceLine struct {
	Description string
	Category    string
	UnitPrice   decimal.Decimal
	Quantity    int
	Total       decimal.Decimal
}

// InvoiceSnapshot is everything needed to render an invoice for an order.
type InvoiceSnapshot struct {
	Number        string
	OrderID       int64
	OrderNumber   string
	IssuedAt      time.Time
	PayUntil      time.Time
	BuyerName     string
	BuyerEmail    string
	Address       ShippingAddress
	Lines         []InvoiceLine
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Shipping      decimal.Decimal
	Total         decimal.Decimal
	Currency      string
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
}

// InvoiceDocument locates a rendered invoice.
type InvoiceDocument struct {
	URL       string
	QRPayload string
	Path      string
	Filename  string
}
