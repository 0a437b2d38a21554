package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductResponse is a catalog entry.
type ProductResponse struct {
	ID            int64           `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	InStock       bool            `json:"inStock"`
	StockQuantity int             `json:"stockQuantity"`
	LicenseType   string          `json:"licenseType,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// StockResponse is the public stock level of a product.
type StockResponse struct {
	ProductID     int64 `json:"productId"`
	InStock       bool  `json:"inStock"`
	StockQuantity int   `json:"stockQuantity"`
}

// RestockRequest adds units to a product.
type RestockRequest struct {
	Quantity int `json:"quantity"`
}

// PackageItemResponse is one product inside a bundle.
type PackageItemResponse struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
}

// PackageResponse is a discounted bundle.
type PackageResponse struct {
	ID                 int64                 `json:"id"`
	Name               string                `json:"name"`
	Description        string                `json:"description,omitempty"`
	TotalPrice         decimal.Decimal       `json:"totalPrice"`
	DiscountedPrice    decimal.Decimal       `json:"discountedPrice"`
	Savings            decimal.Decimal       `json:"savings"`
	DiscountPercentage decimal.Decimal       `json:"discountPercentage"`
	Items              []PackageItemResponse `json:"items"`
}

// GarageResponse is a partner workshop.
type GarageResponse struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Location string          `json:"location"`
	County   string          `json:"county"`
	Phone    string          `json:"phone,omitempty"`
	Email    string          `json:"email,omitempty"`
	Rating   decimal.Decimal `json:"rating"`
}
