package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/response"
)

// InvoiceHandler serves invoices and their printed receipts
type InvoiceHandler struct {
	billingService *service.BillingService
	receiptService *service.ReceiptService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(billingService *service.BillingService, receiptService *service.ReceiptService) *InvoiceHandler {
	return &InvoiceHandler{
		billingService: billingService,
		receiptService: receiptService,
	}
}

// Get returns an invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, err := h.billingService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice retrieved", invoice)
}

// Receipt renders the receipt of an invoice without printing it
func (h *InvoiceHandler) Receipt(c *gin.Context) {
	invoice, err := h.billingService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt retrieved", h.receiptService.BuildReceipt(invoice))
}

// Print sends the receipt of an invoice to the configured printer
// @Summary Print receipt
// @Description Print an invoice receipt. On printer failure the receipt is still returned.
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice id"
// @Success 200 {object} response.APIResponse
// @Failure 502 {object} response.APIResponse
// @Router /invoices/{id}/print [post]
func (h *InvoiceHandler) Print(c *gin.Context) {
	receipt, err := h.receiptService.PrintInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		if receipt != nil {
			response.ErrorWithData(c, err, receipt)
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt printed", receipt)
}

// PrinterStatus reports whether a printer is configured and reachable
func (h *InvoiceHandler) PrinterStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.receiptService.GetStatus())
}
