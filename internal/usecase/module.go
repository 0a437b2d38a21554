package usecase

import "go.uber.org/fx"

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewOrderNumberGenerator,
	NewAuthUseCase,
	NewCheckoutUseCase,
	NewOrderUseCase,
	NewInvoiceUseCase,
	NewLicenseUseCase,
	NewCatalogUseCase,
	func(u *InvoiceUseCase) InvoiceIssuer { return u },
)
