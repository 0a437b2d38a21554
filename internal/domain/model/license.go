package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LicenseType distinguishes AI-enabled MDVR software.
type LicenseType string

const (
	LicenseTypeAI    LicenseType = "ai"
	LicenseTypeNonAI LicenseType = "non-ai"
)

// LicenseStatus is the stored licence state.
type LicenseStatus string

const (
	LicenseStatusActive    LicenseStatus = "active"
	LicenseStatusExpired   LicenseStatus = "expired"
	LicenseStatusSuspended LicenseStatus = "suspended"
)

// RenewalPrice returns the yearly renewal price for t in KES.
func RenewalPrice(t LicenseType) decimal.Decimal {
	if t == LicenseTypeAI {
		return decimal.NewFromInt(12000)
	}
	return decimal.NewFromInt(8000)
}

// License is an MDVR software licence bound to a vehicle.
type License struct {
	ID                  int64
	LicenseKey          string
	OrderID             *int64
	UserID              *int64
	MDVRSerial          string
	VehicleRegistration string
	Type                LicenseType
	ActivationDate      time.Time
	ExpiryDate          time.Time
	Status              LicenseStatus
	CreatedAt           time.Time
}

// Renew extends the expiry by months and reactivates the licence.
func (l *License) Renew(months int) {
	l.ExpiryDate = l.ExpiryDate.AddDate(0, months, 0)
	l.Status = LicenseStatusActive
}

// EffectiveStatus reports expired for active licences past their expiry.
func (l *License) EffectiveStatus(now time.Time) LicenseStatus {
	if l.Status == LicenseStatusActive && now.After(l.ExpiryDate) {
		return LicenseStatusExpired
	}
	return l.Status
}

// DaysUntilExpiry is negative once the licence has lapsed.
func (l *License) DaysUntilExpiry(now time.Time) int {
	return int(l.ExpiryDate.Sub(now).Hours() / 24)
}
