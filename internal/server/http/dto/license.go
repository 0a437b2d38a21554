package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LicenseResponse is an MDVR software licence.
type LicenseResponse struct {
	ID                  int64     `json:"id"`
	LicenseKey          string    `json:"licenseKey"`
	OrderID             *int64    `json:"orderId,omitempty"`
	MDVRSerialNumber    string    `json:"mdvrSerialNumber"`
	VehicleRegistration string    `json:"vehicleRegistration"`
	LicenseType         string    `json:"licenseType"`
	ActivationDate      time.Time `json:"activationDate"`
	ExpiryDate          time.Time `json:"expiryDate"`
	Status              string    `json:"status"`
}

// LicenseCheckResponse reports licence validity for a vehicle.
type LicenseCheckResponse struct {
	IsActive      bool       `json:"isActive"`
	Status        string     `json:"status,omitempty"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
	DaysRemaining *int       `json:"daysRemaining,omitempty"`
	Message       string     `json:"message,omitempty"`
}

// RenewalPriceResponse prices a yearly renewal.
type RenewalPriceResponse struct {
	LicenseType string          `json:"licenseType"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
}

// ActivateLicenseRequest binds a licence to an ordered MDVR.
type ActivateLicenseRequest struct {
	OrderID             int64  `json:"orderId"`
	MDVRSerialNumber    string `json:"mdvrSerialNumber"`
	VehicleRegistration string `json:"vehicleRegistration"`
}

// RenewLicenseRequest extends a licence by Duration months.
type RenewLicenseRequest struct {
	Duration int `json:"duration"`
}
