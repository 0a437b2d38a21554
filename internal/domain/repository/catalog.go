package repository

import (
	"context"

	"github.com/polkiloo/autoshop/internal/domain/model"
)

// GarageRepository lists partner garages.
type GarageRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Garage, error)
	ListActive(ctx context.Context, county string) ([]model.Garage, error)
}

// PackageRepository lists product bundles with their items.
type PackageRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Package, error)
	ListActive(ctx context.Context) ([]model.Package, error)
}

// LicenseRepository persists MDVR software licences.
type LicenseRepository interface {
	Create(ctx context.Context, license model.License) (*model.License, error)
	GetByID(ctx context.Context, id int64) (*model.License, error)
	GetByVehicle(ctx context.Context, registration string) (*model.License, error)
	UpdateTerm(ctx context.Context, license *model.License) error
}
