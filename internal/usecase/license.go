package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/autoshop/internal/domain/errors"
	"github.com/polkiloo/autoshop/internal/domain/model"
	"github.com/polkiloo/autoshop/internal/domain/repository"
)

const (
	defaultRenewalMonths = 12
	maxRenewalMonths     = 36
	licenseTermMonths    = 12
	licenseKeyPrefix     = "COLT"
	licenseKeyGroups     = 3
	licenseKeyGroupLen   = 4
)

// LicenseCheck is the public validity view of a vehicle's licence.
type LicenseCheck struct {
	Found         bool
	IsActive      bool
	Status        model.LicenseStatus
	ExpiryDate    time.Time
	DaysRemaining int
}

// ActivateLicenseRequest binds a new licence to an MDVR bought in an order.
type ActivateLicenseRequest struct {
	OrderID             int64
	MDVRSerial          string
	VehicleRegistration string
}

// LicenseUseCase manages MDVR software licences.
type LicenseUseCase struct {
	licenses repository.LicenseRepository
	orders   repository.OrderRepository
	products repository.ProductRepository
	now      func() time.Time
	intn     func(n int) int
	logger   *slog.Logger
}

// NewLicenseUseCase constructs LicenseUseCase.
func NewLicenseUseCase(licenses repository.LicenseRepository, orders repository.OrderRepository, products repository.ProductRepository, logger *slog.Logger) *LicenseUseCase {
	return &LicenseUseCase{licenses: licenses, orders: orders, products: products, now: time.Now, intn: rand.IntN, logger: logger}
}

// ByVehicle returns the licence registered for a vehicle.
func (u *LicenseUseCase) ByVehicle(ctx context.Context, registration string) (*model.License, error) {
	return u.licenses.GetByVehicle(ctx, strings.TrimSpace(registration))
}

// Check reports whether the vehicle holds a currently valid licence.
func (u *LicenseUseCase) Check(ctx context.Context, registration string) (LicenseCheck, error) {
	lic, err := u.ByVehicle(ctx, registration)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return LicenseCheck{}, nil
		}
		return LicenseCheck{}, err
	}
	now := u.now()
	status := lic.EffectiveStatus(now)
	return LicenseCheck{
		Found:         true,
		IsActive:      status == model.LicenseStatusActive,
		Status:        status,
		ExpiryDate:    lic.ExpiryDate,
		DaysRemaining: lic.DaysUntilExpiry(now),
	}, nil
}

// RenewalPrice returns the price for the given licence type; unknown types price as non-ai.
func (u *LicenseUseCase) RenewalPrice(licenseType string) (model.LicenseType, decimal.Decimal) {
	t := model.LicenseTypeNonAI
	if model.LicenseType(licenseType) == model.LicenseTypeAI {
		t = model.LicenseTypeAI
	}
	return t, model.RenewalPrice(t)
}

// Renew extends a licence by months (12 when zero) and reactivates it.
func (u *LicenseUseCase) Renew(ctx context.Context, id int64, months int) (*model.License, error) {
	if months == 0 {
		months = defaultRenewalMonths
	}
	if months < 1 || months > maxRenewalMonths {
		verr := domainErrors.NewValidationError()
		verr.Add("duration", fmt.Sprintf("must be between 1 and %d", maxRenewalMonths))
		return nil, verr
	}

	lic, err := u.licenses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lic.Renew(months)
	if err := u.licenses.UpdateTerm(ctx, lic); err != nil {
		return nil, fmt.Errorf("renew license: %w", err)
	}
	u.logger.Info("license renewed",
		slog.String("license", lic.LicenseKey),
		slog.Int("months", months),
		slog.Time("expires", lic.ExpiryDate),
	)
	return lic, nil
}

// Activate issues a one-year licence for the MDVR in an order.
// The licence type follows the MDVR product's licence type.
func (u *LicenseUseCase) Activate(ctx context.Context, req ActivateLicenseRequest) (*model.License, error) {
	req.MDVRSerial = strings.TrimSpace(req.MDVRSerial)
	req.VehicleRegistration = strings.TrimSpace(req.VehicleRegistration)

	verr := domainErrors.NewValidationError()
	if req.OrderID <= 0 {
		verr.Add("orderId", "is required")
	}
	if req.MDVRSerial == "" {
		verr.Add("mdvrSerialNumber", "is required")
	}
	if req.VehicleRegistration == "" {
		verr.Add("vehicleRegistration", "is required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if _, err := u.licenses.GetByVehicle(ctx, req.VehicleRegistration); err == nil {
		return nil, fmt.Errorf("license for %s: %w", req.VehicleRegistration, domainErrors.ErrAlreadyExists)
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, err
	}

	order, err := u.orders.GetByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			verr.Add("orderId", "order not found")
			return nil, verr
		}
		return nil, err
	}

	licenseType, found, err := u.mdvrLicenseType(ctx, order)
	if err != nil {
		return nil, err
	}
	if !found {
		verr.Add("orderId", "order contains no MDVR")
		return nil, verr
	}

	now := u.now()
	orderID := order.ID
	lic, err := u.licenses.Create(ctx, model.License{
		LicenseKey:          u.licenseKey(),
		OrderID:             &orderID,
		UserID:              order.UserID,
		MDVRSerial:          req.MDVRSerial,
		VehicleRegistration: req.VehicleRegistration,
		Type:                licenseType,
		ActivationDate:      now,
		ExpiryDate:          now.AddDate(0, licenseTermMonths, 0),
		Status:              model.LicenseStatusActive,
	})
	if err != nil {
		return nil, err
	}
	u.logger.Info("license activated", slog.String("license", lic.LicenseKey), slog.String("order", order.Number))
	return lic, nil
}

func (u *LicenseUseCase) mdvrLicenseType(ctx context.Context, order *model.Order) (model.LicenseType, bool, error) {
	for _, item := range order.Items {
		if item.ProductCategory != model.CategoryMDVR {
			continue
		}
		product, err := u.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				return model.LicenseTypeNonAI, true, nil
			}
			return "", false, err
		}
		if product.LicenseType == model.LicenseTypeAI {
			return model.LicenseTypeAI, true, nil
		}
		return model.LicenseTypeNonAI, true, nil
	}
	return "", false, nil
}

func (u *LicenseUseCase) licenseKey() string {
	var b strings.Builder
	b.WriteString(licenseKeyPrefix)
	for g := 0; g < licenseKeyGroups; g++ {
		b.WriteByte('-')
		for i := 0; i < licenseKeyGroupLen; i++ {
			b.WriteByte(orderNumberAlphabet[u.intn(len(orderNumberAlphabet))])
		}
	}
	return b.String()
}
