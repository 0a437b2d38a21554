package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductCategory groups catalog entries.
type ProductCategory string

const (
	CategoryMDVR         ProductCategory = "mdvr"
	CategoryCamera       ProductCategory = "camera"
	CategoryCable        ProductCategory = "cable"
	CategoryAccessory    ProductCategory = "accessory"
	CategoryInstallation ProductCategory = "installation"
	CategoryLicense      ProductCategory = "license"
)

// Valid reports whether c is a known category.
func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryMDVR, CategoryCamera, CategoryCable, CategoryAccessory, CategoryInstallation, CategoryLicense:
		return true
	}
	return false
}

// Product is a catalog entry.
type Product struct {
	ID            int64
	SKU           string
	Name          string
	Category      ProductCategory
	Description   string
	Price         decimal.Decimal
	InStock       bool
	StockQuantity int
	LicenseType   LicenseType
	CreatedAt     time.Time
	DeletedAt     *time.Time
}

// Available reports whether quantity units can be sold right now.
func (p *Product) Available(quantity int) bool {
	return p.DeletedAt == nil && p.InStock && p.StockQuantity >= quantity
}

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Category ProductCategory
	InStock  *bool
	Search   string
}

// StockLevel is the public stock view of a product.
type StockLevel struct {
	ProductID     int64
	InStock       bool
	StockQuantity int
}
