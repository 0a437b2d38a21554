package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/autoshop/internal/domain/errors"
	"github.com/polkiloo/autoshop/internal/domain/model"
	"github.com/polkiloo/autoshop/internal/domain/repository"
)

// CatalogUseCase serves products, packages and partner garages.
type CatalogUseCase struct {
	products repository.ProductRepository
	packages repository.PackageRepository
	garages  repository.GarageRepository
	logger   *slog.Logger
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(products repository.ProductRepository, packages repository.PackageRepository, garages repository.GarageRepository, logger *slog.Logger) *CatalogUseCase {
	return &CatalogUseCase{products: products, packages: packages, garages: garages, logger: logger}
}

// Products lists catalog entries matching filter.
func (u *CatalogUseCase) Products(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		verr := domainErrors.NewValidationError()
		verr.Add("category", "is not a known category")
		return nil, verr
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return u.products.List(ctx, filter)
}

// Product returns one catalog entry.
func (u *CatalogUseCase) Product(ctx context.Context, id int64) (*model.Product, error) {
	return u.products.GetByID(ctx, id)
}

// Stock returns the stock level of a product.
func (u *CatalogUseCase) Stock(ctx context.Context, id int64) (*model.StockLevel, error) {
	product, err := u.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.StockLevel{ProductID: product.ID, InStock: product.InStock, StockQuantity: product.StockQuantity}, nil
}

// Restock adds quantity units and marks the product in stock.
func (u *CatalogUseCase) Restock(ctx context.Context, id int64, quantity int) (*model.Product, error) {
	if quantity < 1 {
		verr := domainErrors.NewValidationError()
		verr.Add("quantity", "must be at least 1")
		return nil, verr
	}
	product, err := u.products.IncreaseStock(ctx, id, quantity)
	if err != nil {
		return nil, fmt.Errorf("restock product %d: %w", id, err)
	}
	u.logger.Info("product restocked",
		slog.Int64("product_id", id),
		slog.Int("added", quantity),
		slog.Int("stock", product.StockQuantity),
	)
	return product, nil
}

// Packages lists active bundles.
func (u *CatalogUseCase) Packages(ctx context.Context) ([]model.Package, error) {
	return u.packages.ListActive(ctx)
}

// Package returns one bundle with its items.
func (u *CatalogUseCase) Package(ctx context.Context, id int64) (*model.Package, error) {
	return u.packages.GetByID(ctx, id)
}

// Garages lists active partner garages, best rated first, optionally in one county.
func (u *CatalogUseCase) Garages(ctx context.Context, county string) ([]model.Garage, error) {
	return u.garages.ListActive(ctx, strings.TrimSpace(county))
}

// Garage returns one partner garage.
func (u *CatalogUseCase) Garage(ctx context.Context, id int64) (*model.Garage, error) {
	return u.garages.GetByID(ctx, id)
}
