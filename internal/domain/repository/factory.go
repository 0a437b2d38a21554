package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Users() UserRepository
	Products() ProductRepository
	Orders() OrderRepository
	Garages() GarageRepository
	Packages() PackageRepository
	Licenses() LicenseRepository
}

// Backend is a storage engine exposing repositories and transactions.
type Backend interface {
	Factory
	Transactor
	HealthCheck(ctx context.Context) error
	Close()
}
