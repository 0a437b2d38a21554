package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/autoshop/internal/server/http/dto"
)

// InvoiceHandler serves order invoices.
type InvoiceHandler struct {
	facade InvoiceFacade
}

// NewInvoiceHandler constructs InvoiceHandler.
func NewInvoiceHandler(facade InvoiceFacade) *InvoiceHandler {
	return &InvoiceHandler{facade: facade}
}

// Download handles GET /api/orders/:id/invoice.
func (h *InvoiceHandler) Download(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.facade.DownloadInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(doc.Path, doc.Filename)
}

// Regenerate handles POST /api/orders/:id/invoice/regenerate.
func (h *InvoiceHandler) Regenerate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := h.facade.RegenerateInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.InvoiceResponse{InvoiceURL: order.InvoiceURL, QRPayload: order.InvoiceQR})
}
