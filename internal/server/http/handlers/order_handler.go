package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/autoshop/internal/domain/model"
	"github.com/polkiloo/autoshop/internal/server/http/dto"
	"github.com/polkiloo/autoshop/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Place handles POST /api/orders. An authenticated caller becomes the order owner.
func (h *OrderHandler) Place(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), toCheckoutRequest(req, currentUserRef(c)))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.facade.Order(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// List handles GET /api/orders?userId=&guestEmail=.
func (h *OrderHandler) List(c *gin.Context) {
	var filter model.OrderFilter
	if raw := c.Query("userId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "invalid userId")
			return
		}
		filter.UserID = &id
	}
	filter.GuestEmail = strings.TrimSpace(c.Query("guestEmail"))

	orders, err := h.facade.Orders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// Mine handles GET /api/my-orders.
func (h *OrderHandler) Mine(c *gin.Context) {
	orders, err := h.facade.UserOrders(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// Track handles POST /api/orders/track.
func (h *OrderHandler) Track(c *gin.Context) {
	var req dto.TrackOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.facade.TrackOrder(c.Request.Context(), req.OrderNumber, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// UpdateStatus handles PATCH /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), id, model.OrderStatus(req.Status), model.Tracking{
		Number:  req.TrackingNumber,
		Carrier: req.Carrier,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Delete handles DELETE /api/admin/orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.facade.DeleteOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toCheckoutRequest(req dto.PlaceOrderRequest, userID *int64) usecase.CheckoutRequest {
	out := usecase.CheckoutRequest{
		UserID: userID,
		Address: model.ShippingAddress{
			Name:       req.ShippingAddress.FullName,
			Phone:      req.ShippingAddress.Phone,
			Email:      req.ShippingAddress.Email,
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			County:     req.ShippingAddress.County,
			PostalCode: req.ShippingAddress.PostalCode,
		},
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		Items:         make([]usecase.CartLine, 0, len(req.CartItems)),
		Notes:         req.Notes,
	}
	for _, item := range req.CartItems {
		out.Items = append(out.Items, usecase.CartLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	if d := req.InstallationDetails; d != nil {
		out.Installation = &model.Installation{
			Method:              model.InstallationMethod(d.Method),
			GarageID:            d.GarageID,
			Appointment:         d.AppointmentDate,
			VehicleMake:         d.VehicleMake,
			VehicleModel:        d.VehicleModel,
			VehicleRegistration: d.VehicleRegistration,
		}
	}
	return out
}

func toOrderResponses(orders []model.Order) []dto.OrderResponse {
	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}
	return resp
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:            order.ID,
		OrderNumber:   order.Number,
		UserID:        order.UserID,
		CustomerEmail: order.CustomerEmail(),
		Status:        string(order.Status),
		PaymentStatus: string(order.PaymentStatus),
		PaymentMethod: string(order.PaymentMethod),
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		Shipping:      order.Shipping,
		Total:         order.Total,
		ShippingAddress: dto.ShippingAddress{
			FullName:   order.Address.Name,
			Phone:      order.Address.Phone,
			Email:      order.Address.Email,
			Address:    order.Address.Address,
			City:       order.Address.City,
			County:     order.Address.County,
			PostalCode: order.Address.PostalCode,
		},
		TrackingNumber: order.Tracking.Number,
		Carrier:        order.Tracking.Carrier,
		Notes:          order.Notes,
		Items:          make([]dto.OrderItemResponse, 0, len(order.Items)),
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
	if !order.InvoicePending() {
		url := order.InvoiceURL
		resp.InvoiceURL = &url
	}
	if inst := order.Installation; inst != nil {
		resp.InstallationDetails = &dto.InstallationDetails{
			Method:              string(inst.Method),
			GarageID:            inst.GarageID,
			AppointmentDate:     inst.Appointment,
			VehicleMake:         inst.VehicleMake,
			VehicleModel:        inst.VehicleModel,
			VehicleRegistration: inst.VehicleRegistration,
		}
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			ProductSKU:      item.ProductSKU,
			ProductCategory: string(item.ProductCategory),
			UnitPrice:       item.UnitPrice,
			Quantity:        item.Quantity,
			TotalPrice:      item.TotalPrice,
		})
	}
	if order.Garage != nil {
		garage := toGarageResponse(order.Garage)
		resp.Garage = &garage
	}
	if order.User != nil {
		user := toUserResponse(order.User)
		resp.User = &user
	}
	return resp
}
