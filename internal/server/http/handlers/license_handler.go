package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/autoshop/internal/domain/model"
	"github.com/polkiloo/autoshop/internal/server/http/dto"
	"github.com/polkiloo/autoshop/internal/usecase"
)

const currency = "KES"

// LicenseHandler serves MDVR licence endpoints.
type LicenseHandler struct {
	facade LicenseFacade
}

// NewLicenseHandler constructs LicenseHandler.
func NewLicenseHandler(facade LicenseFacade) *LicenseHandler {
	return &LicenseHandler{facade: facade}
}

// ByVehicle handles GET /api/licenses/vehicle/:registration.
func (h *LicenseHandler) ByVehicle(c *gin.Context) {
	lic, err := h.facade.VehicleLicense(c.Request.Context(), c.Param("registration"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLicenseResponse(lic))
}

// Check handles GET /api/licenses/check/:registration.
func (h *LicenseHandler) Check(c *gin.Context) {
	check, err := h.facade.CheckLicense(c.Request.Context(), c.Param("registration"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !check.Found {
		c.JSON(http.StatusOK, dto.LicenseCheckResponse{IsActive: false, Message: "no licence found for this vehicle"})
		return
	}
	expiry, days := check.ExpiryDate, check.DaysRemaining
	c.JSON(http.StatusOK, dto.LicenseCheckResponse{
		IsActive:      check.IsActive,
		Status:        string(check.Status),
		ExpiryDate:    &expiry,
		DaysRemaining: &days,
	})
}

// RenewalPrice handles GET /api/licenses/renewal-price?type=.
func (h *LicenseHandler) RenewalPrice(c *gin.Context) {
	licenseType, price := h.facade.RenewalPrice(c.Query("type"))
	c.JSON(http.StatusOK, dto.RenewalPriceResponse{LicenseType: string(licenseType), Price: price, Currency: currency})
}

// Activate handles POST /api/licenses/activate.
func (h *LicenseHandler) Activate(c *gin.Context) {
	var req dto.ActivateLicenseRequest
	if !bindJSON(c, &req) {
		return
	}
	lic, err := h.facade.ActivateLicense(c.Request.Context(), usecase.ActivateLicenseRequest{
		OrderID:             req.OrderID,
		MDVRSerial:          req.MDVRSerialNumber,
		VehicleRegistration: req.VehicleRegistration,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toLicenseResponse(lic))
}

// Renew handles POST /api/licenses/:id/renew. An empty body renews for a year.
func (h *LicenseHandler) Renew(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.RenewLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}
	lic, err := h.facade.RenewLicense(c.Request.Context(), id, req.Duration)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLicenseResponse(lic))
}

func toLicenseResponse(l *model.License) dto.LicenseResponse {
	return dto.LicenseResponse{
		ID:                  l.ID,
		LicenseKey:          l.LicenseKey,
		OrderID:             l.OrderID,
		MDVRSerialNumber:    l.MDVRSerial,
		VehicleRegistration: l.VehicleRegistration,
		LicenseType:         string(l.Type),
		ActivationDate:      l.ActivationDate,
		ExpiryDate:          l.ExpiryDate,
		Status:              string(l.Status),
	}
}
