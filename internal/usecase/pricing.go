package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/polkiloo/autoshop/internal/domain/model"
)

// DefaultInstallationFee is charged as shipping for technician installs (KES).
var DefaultInstallationFee = decimal.NewFromInt(5000)

// Quote holds the monetary totals of a cart.
type Quote struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// Price totals resolved lines and adds the installation fee for technician installs.
// Tax is always zero at creation.
func Price(items []model.OrderItem, installation *model.Installation, installationFee decimal.Decimal) Quote {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.TotalPrice)
	}

	shipping := decimal.Zero
	if installation.RequiresTechnician() {
		shipping = installationFee
	}

	tax := decimal.Zero
	return Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}
