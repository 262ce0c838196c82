package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/billing-api/pkg/apperror"
)

// CheckoutHandler handles the payment stage of a workspace
type CheckoutHandler struct {
	billingService *service.BillingService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(billingService *service.BillingService) *CheckoutHandler {
	return &CheckoutHandler{billingService: billingService}
}

// Begin freezes the cart and opens the payment ledger
// @Summary Begin checkout
// @Tags checkout
// @Produce json
// @Param ws path string true "Workspace id"
// @Success 200 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /workspaces/{ws}/checkout [post]
func (h *CheckoutHandler) Begin(c *gin.Context) {
	view, err := h.billingService.BeginCheckout(c.Request.Context(), workspaceID(c), GetStaff(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Checkout started", view)
}

// Get returns the checkout state
func (h *CheckoutHandler) Get(c *gin.Context) {
	view, err := h.billingService.GetCheckout(c.Request.Context(), workspaceID(c), GetStaff(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Checkout retrieved", view)
}

// Cancel discards payments and reopens the cart
func (h *CheckoutHandler) Cancel(c *gin.Context) {
	cart, err := h.billingService.CancelCheckout(c.Request.Context(), workspaceID(c), GetStaff(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Checkout cancelled", cart)
}

// ListCreditNotes lists the customer's redeemable credit notes
func (h *CheckoutHandler) ListCreditNotes(c *gin.Context) {
	notes, err := h.billingService.ListCreditNotes(c.Request.Context(), workspaceID(c), GetStaff(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if notes == nil {
		notes = []entity.CreditNote{}
	}
	response.OK(c, "Credit notes retrieved", notes)
}

// QuoteCreditNotes returns how much the selected notes would cover
func (h *CheckoutHandler) QuoteCreditNotes(c *gin.Context) {
	var req request.QuoteCreditNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	amount, err := h.billingService.QuoteCreditNotes(c.Request.Context(), workspaceID(c), GetStaff(c), req.NoteIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Credit notes quoted", gin.H{"amount": amount})
}

// AddPayment appends a payment line
func (h *CheckoutHandler) AddPayment(c *gin.Context) {
	input, ok := bindPayment(c)
	if !ok {
		return
	}

	view, err := h.billingService.AddPayment(c.Request.Context(), workspaceID(c), GetStaff(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Payment added", view)
}

// EditPayment replaces a payment line
func (h *CheckoutHandler) EditPayment(c *gin.Context) {
	index, err := indexParam(c, "index")
	if err != nil {
		response.Error(c, err)
		return
	}
	input, ok := bindPayment(c)
	if !ok {
		return
	}

	view, err := h.billingService.EditPayment(c.Request.Context(), workspaceID(c), GetStaff(c), index, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment updated", view)
}

// RemovePayment removes a payment line
func (h *CheckoutHandler) RemovePayment(c *gin.Context) {
	index, err := indexParam(c, "index")
	if err != nil {
		response.Error(c, err)
		return
	}

	view, err := h.billingService.RemovePayment(c.Request.Context(), workspaceID(c), GetStaff(c), index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment removed", view)
}

// Confirm settles the bill and creates the invoice
// @Summary Confirm checkout
// @Description Redeem credit notes, create the invoice and clear the workspace. Send an Idempotency-Key header to make retries safe.
// @Tags checkout
// @Produce json
// @Param ws path string true "Workspace id"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 502 {object} response.APIResponse
// @Router /workspaces/{ws}/checkout/confirm [post]
func (h *CheckoutHandler) Confirm(c *gin.Context) {
	invoice, err := h.billingService.Confirm(c.Request.Context(), workspaceID(c), GetStaff(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Invoice created", invoice)
}

func bindPayment(c *gin.Context) (service.PaymentInput, bool) {
	var req request.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return service.PaymentInput{}, false
	}
	mode, err := enum.ParsePaymentMode(req.Mode)
	if err != nil {
		response.Error(c, apperror.NewFieldValidationError("mode", "unknown payment mode"))
		return service.PaymentInput{}, false
	}
	details, err := entity.DecodePaymentDetails(mode, req.Details)
	if err != nil {
		response.Error(c, apperror.NewFieldValidationError("details", "invalid payment details"))
		return service.PaymentInput{}, false
	}
	return service.PaymentInput{Amount: req.Amount, Details: details}, true
}
