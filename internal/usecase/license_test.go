package usecase

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/autoshop/internal/domain/errors"
	"github.com/polkiloo/autoshop/internal/domain/model"
	testhelpers "github.com/polkiloo/autoshop/internal/test"
)

var licenseKeyRe = regexp.MustCompile(`^COLT-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

var licenseNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func newLicenseFixture(t *testing.T) (*LicenseUseCase, *testhelpers.MemoryStore) {
	t.Helper()
	store := testhelpers.NewMemoryStore()
	uc := NewLicenseUseCase(store.Licenses(), store.Orders(), store.Products(), discardLogger())
	uc.now = func() time.Time { return licenseNow }
	return uc, store
}

func TestLicenseActivate(t *testing.T) {
	uc, store := newLicenseFixture(t)
	mdvr := store.AddProduct(model.Product{Name: "AI MDVR", Category: model.CategoryMDVR, LicenseType: model.LicenseTypeAI, Price: decimal.NewFromInt(1)})
	userID := int64(3)
	order := store.AddOrder(model.Order{Number: "ORD-20260601-LIC01", UserID: &userID, Items: []model.OrderItem{
		{ProductID: 99, ProductCategory: model.CategoryCable},
		{ProductID: mdvr.ID, ProductCategory: model.CategoryMDVR},
	}})

	lic, err := uc.Activate(context.Background(), ActivateLicenseRequest{OrderID: order.ID, MDVRSerial: "SN-1", VehicleRegistration: " KDA 001A "})
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !licenseKeyRe.MatchString(lic.LicenseKey) {
		t.Fatalf("unexpected key %q", lic.LicenseKey)
	}
	if lic.Type != model.LicenseTypeAI || lic.Status != model.LicenseStatusActive {
		t.Fatalf("unexpected licence %+v", lic)
	}
	if !lic.ExpiryDate.Equal(licenseNow.AddDate(1, 0, 0)) {
		t.Fatalf("unexpected expiry %s", lic.ExpiryDate)
	}
	if lic.VehicleRegistration != "KDA 001A" || lic.UserID == nil || *lic.UserID != 3 {
		t.Fatalf("unexpected binding %+v", lic)
	}

	_, err = uc.Activate(context.Background(), ActivateLicenseRequest{OrderID: order.ID, MDVRSerial: "SN-2", VehicleRegistration: "KDA 001A"})
	if !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists for second licence, got %v", err)
	}
}

func TestLicenseActivateRejects(t *testing.T) {
	uc, store := newLicenseFixture(t)
	noMDVR := store.AddOrder(model.Order{Number: "ORD-20260601-NOMDV", Items: []model.OrderItem{{ProductID: 1, ProductCategory: model.CategoryCamera}}})

	cases := []struct {
		name  string
		req   ActivateLicenseRequest
		field string
	}{
		{"missing fields", ActivateLicenseRequest{}, "mdvrSerialNumber"},
		{"unknown order", ActivateLicenseRequest{OrderID: 9999, MDVRSerial: "SN", VehicleRegistration: "KDB"}, "orderId"},
		{"no mdvr", ActivateLicenseRequest{OrderID: noMDVR.ID, MDVRSerial: "SN", VehicleRegistration: "KDB"}, "orderId"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Activate(context.Background(), tc.req)
			var verr *domainErrors.ValidationError
			if !errors.As(err, &verr) || len(verr.Fields[tc.field]) == 0 {
				t.Fatalf("expected field %q error, got %v", tc.field, err)
			}
		})
	}
}

func TestLicenseActivateDefaultsToNonAI(t *testing.T) {
	uc, store := newLicenseFixture(t)
	order := store.AddOrder(model.Order{Number: "ORD-20260601-GONE1", Items: []model.OrderItem{{ProductID: 555, ProductCategory: model.CategoryMDVR}}})

	lic, err := uc.Activate(context.Background(), ActivateLicenseRequest{OrderID: order.ID, MDVRSerial: "SN", VehicleRegistration: "KDC"})
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if lic.Type != model.LicenseTypeNonAI {
		t.Fatalf("expected non-ai, got %s", lic.Type)
	}
}

func TestLicenseCheck(t *testing.T) {
	uc, store := newLicenseFixture(t)
	store.AddLicense(model.License{VehicleRegistration: "KDD", Status: model.LicenseStatusActive, ExpiryDate: licenseNow.Add(10 * 24 * time.Hour)})
	store.AddLicense(model.License{VehicleRegistration: "KDE", Status: model.LicenseStatusActive, ExpiryDate: licenseNow.Add(-24 * time.Hour)})

	valid, err := uc.Check(context.Background(), "KDD")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !valid.Found || !valid.IsActive || valid.DaysRemaining != 10 {
		t.Fatalf("unexpected check %+v", valid)
	}

	lapsed, err := uc.Check(context.Background(), "KDE")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if lapsed.IsActive || lapsed.Status != model.LicenseStatusExpired {
		t.Fatalf("expected expired licence, got %+v", lapsed)
	}

	none, err := uc.Check(context.Background(), "NONE")
	if err != nil || none.Found {
		t.Fatalf("expected empty check, got %+v %v", none, err)
	}
}

func TestLicenseRenew(t *testing.T) {
	uc, store := newLicenseFixture(t)
	expiry := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	lic := store.AddLicense(model.License{VehicleRegistration: "KDF", Status: model.LicenseStatusExpired, ExpiryDate: expiry})

	renewed, err := uc.Renew(context.Background(), lic.ID, 0)
	if err != nil {
		t.Fatalf("renew: %v", err)
	}
	if !renewed.ExpiryDate.Equal(expiry.AddDate(0, 12, 0)) || renewed.Status != model.LicenseStatusActive {
		t.Fatalf("unexpected renewal %+v", renewed)
	}
	stored, _ := store.Licenses().GetByID(context.Background(), lic.ID)
	if !stored.ExpiryDate.Equal(renewed.ExpiryDate) {
		t.Fatal("renewal not persisted")
	}

	for _, months := range []int{-1, 37} {
		if _, err := uc.Renew(context.Background(), lic.ID, months); !errors.Is(err, domainErrors.ErrValidationFailed) {
			t.Fatalf("months %d: expected validation error, got %v", months, err)
		}
	}
	if _, err := uc.Renew(context.Background(), 9999, 6); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLicenseRenewalPrice(t *testing.T) {
	uc, _ := newLicenseFixture(t)
	cases := map[string]struct {
		typ   model.LicenseType
		price int64
	}{
		"ai":      {model.LicenseTypeAI, 12000},
		"non-ai":  {model.LicenseTypeNonAI, 8000},
		"unknown": {model.LicenseTypeNonAI, 8000},
	}
	for in, want := range cases {
		typ, price := uc.RenewalPrice(in)
		if typ != want.typ || !price.Equal(decimal.NewFromInt(want.price)) {
			t.Fatalf("%s: got %s %s", in, typ, price)
		}
	}
}
