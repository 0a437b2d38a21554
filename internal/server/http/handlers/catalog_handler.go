package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/autoshop/internal/domain/model"
	"github.com/polkiloo/autoshop/internal/server/http/dto"
)

// CatalogHandler serves products, packages and garages.
type CatalogHandler struct {
	facade CatalogFacade
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(facade CatalogFacade) *CatalogHandler {
	return &CatalogHandler{facade: facade}
}

// Products handles GET /api/products?category=&inStock=&search=.
func (h *CatalogHandler) Products(c *gin.Context) {
	filter := model.ProductFilter{
		Category: model.ProductCategory(c.Query("category")),
		Search:   c.Query("search"),
	}
	if raw := c.Query("inStock"); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "invalid inStock")
			return
		}
		filter.InStock = &inStock
	}

	products, err := h.facade.Products(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		resp = append(resp, toProductResponse(&products[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Product handles GET /api/products/:id.
func (h *CatalogHandler) Product(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.facade.Product(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

// Stock handles GET /api/products/:id/stock.
func (h *CatalogHandler) Stock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	level, err := h.facade.Stock(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StockResponse{ProductID: level.ProductID, InStock: level.InStock, StockQuantity: level.StockQuantity})
}

// Restock handles POST /api/admin/products/:id/restock.
func (h *CatalogHandler) Restock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.RestockRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.facade.Restock(c.Request.Context(), id, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

// Packages handles GET /api/packages.
func (h *CatalogHandler) Packages(c *gin.Context) {
	packages, err := h.facade.Packages(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.PackageResponse, 0, len(packages))
	for i := range packages {
		resp = append(resp, toPackageResponse(&packages[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Package handles GET /api/packages/:id.
func (h *CatalogHandler) Package(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	pkg, err := h.facade.Package(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPackageResponse(pkg))
}

// Garages handles GET /api/garages?county=.
func (h *CatalogHandler) Garages(c *gin.Context) {
	garages, err := h.facade.Garages(c.Request.Context(), c.Query("county"))
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]dto.GarageResponse, 0, len(garages))
	for i := range garages {
		resp = append(resp, toGarageResponse(&garages[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Garage handles GET /api/garages/:id.
func (h *CatalogHandler) Garage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	garage, err := h.facade.Garage(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGarageResponse(garage))
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Category:      string(p.Category),
		Description:   p.Description,
		Price:         p.Price,
		InStock:       p.InStock,
		StockQuantity: p.StockQuantity,
		LicenseType:   string(p.LicenseType),
		CreatedAt:     p.CreatedAt,
	}
}

func toPackageResponse(p *model.Package) dto.PackageResponse {
	resp := dto.PackageResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		TotalPrice:         p.TotalPrice,
		DiscountedPrice:    p.DiscountedPrice,
		Savings:            p.Savings(),
		DiscountPercentage: p.DiscountPercentage(),
		Items:              make([]dto.PackageItemResponse, 0, len(p.Items)),
	}
	for _, item := range p.Items {
		resp.Items = append(resp.Items, dto.PackageItemResponse{ProductID: item.ProductID, ProductName: item.ProductName, Quantity: item.Quantity})
	}
	return resp
}

func toGarageResponse(g *model.Garage) dto.GarageResponse {
	return dto.GarageResponse{
		ID:       g.ID,
		Name:     g.Name,
		Location: g.Location,
		County:   g.County,
		Phone:    g.Phone,
		Email:    g.Email,
		Rating:   g.Rating,
	}
}
