package model

import "github.com/shopspring/decimal"

// Package bundles products at a discounted price.
type Package struct {
	ID              int64
	Name            string
	Description     string
	TotalPrice      decimal.Decimal
	DiscountedPrice decimal.Decimal
	IsActive        bool
	SortOrder       int
	Items           []PackageItem
}

// PackageItem is one product inside a bundle.
type PackageItem struct {
	ProductID   int64
	ProductName string
	Quantity    int
}

// Savings is the amount saved against buying items separately.
func (p *Package) Savings() decimal.Decimal {
	return p.TotalPrice.Sub(p.DiscountedPrice)
}

// DiscountPercentage is Savings as a whole percentage of TotalPrice.
func (p *Package) DiscountPercentage() decimal.Decimal {
	if p.TotalPrice.IsZero() {
		return decimal.Zero
	}
	return p.Savings().Div(p.TotalPrice).Mul(decimal.NewFromInt(100)).Round(0)
}
