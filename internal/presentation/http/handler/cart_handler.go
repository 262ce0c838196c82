package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/billing-api/pkg/apperror"
)

// CartHandler handles the open cart of a workspace along with catalog and
// customer lookups used while building it
type CartHandler struct {
	billingService *service.BillingService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(billingService *service.BillingService) *CartHandler {
	return &CartHandler{billingService: billingService}
}

// LookupBarcode resolves a barcode against the catalog
// @Summary Lookup barcode
// @Tags catalog
// @Produce json
// @Param barcode path string true "Barcode"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /catalog/barcode/{barcode} [get]
func (h *CartHandler) LookupBarcode(c *gin.Context) {
	item, err := h.billingService.LookupBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item retrieved", item)
}

// SearchCustomers searches customers by phone or name
// @Summary Search customers
// @Tags customers
// @Produce json
// @Param q query string true "Phone or name, at least 3 characters"
// @Success 200 {object} response.APIResponse
// @Router /customers [get]
func (h *CartHandler) SearchCustomers(c *gin.Context) {
	customers, err := h.billingService.SearchCustomers(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customers retrieved", customers)
}

// GetCart returns the workspace cart
func (h *CartHandler) GetCart(c *gin.Context) {
	cart := h.billingService.GetCart(c.Request.Context(), workspaceID(c), GetStaff(c))
	response.OK(c, "Cart retrieved", cart)
}

// Scan adds one unit of a scanned item
// @Summary Scan item
// @Tags cart
// @Accept json
// @Produce json
// @Param ws path string true "Workspace id"
// @Param request body request.ScanRequest true "Barcode"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /workspaces/{ws}/cart/lines [post]
func (h *CartHandler) Scan(c *gin.Context) {
	var req request.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.billingService.ScanBarcode(c.Request.Context(), workspaceID(c), GetStaff(c), req.Barcode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item added", cart)
}

// UpdateLine sets or adjusts a line quantity
func (h *CartHandler) UpdateLine(c *gin.Context) {
	var req request.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if (req.Quantity == nil) == (req.Delta == nil) {
		response.Error(c, apperror.NewFieldValidationError("quantity", "provide either quantity or delta"))
		return
	}

	ctx := c.Request.Context()
	ws, staff, sku := workspaceID(c), GetStaff(c), c.Param("sku")
	var cart *entity.Cart
	var err error
	if req.Quantity != nil {
		cart, err = h.billingService.SetQuantity(ctx, ws, staff, sku, *req.Quantity)
	} else {
		cart, err = h.billingService.ChangeQuantity(ctx, ws, staff, sku, *req.Delta)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Line updated", cart)
}

// RemoveLine drops a line from the cart
func (h *CartHandler) RemoveLine(c *gin.Context) {
	cart, err := h.billingService.RemoveLine(c.Request.Context(), workspaceID(c), GetStaff(c), c.Param("sku"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Line removed", cart)
}

// SetLineDiscount applies a manual discount to one line
func (h *CartHandler) SetLineDiscount(c *gin.Context) {
	var req request.DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	input, err := toDiscountInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	cart, err := h.billingService.SetLineDiscount(c.Request.Context(), workspaceID(c), GetStaff(c), c.Param("sku"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Line discount applied", cart)
}

// ClearLineDiscount removes the manual discount from a line
func (h *CartHandler) ClearLineDiscount(c *gin.Context) {
	cart, err := h.billingService.SetLineDiscount(c.Request.Context(), workspaceID(c), GetStaff(c), c.Param("sku"), nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Line discount cleared", cart)
}

// AddBillDiscount appends a manual bill discount
func (h *CartHandler) AddBillDiscount(c *gin.Context) {
	var req request.DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	input, err := toDiscountInput(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	cart, err := h.billingService.AddBillDiscount(c.Request.Context(), workspaceID(c), GetStaff(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Bill discount added", cart)
}

// RemoveBillDiscount removes a manual bill discount by position
func (h *CartHandler) RemoveBillDiscount(c *gin.Context) {
	index, err := indexParam(c, "index")
	if err != nil {
		response.Error(c, err)
		return
	}

	cart, err := h.billingService.RemoveBillDiscount(c.Request.Context(), workspaceID(c), GetStaff(c), index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bill discount removed", cart)
}

// SetTaxes sets the bill tax amount
func (h *CartHandler) SetTaxes(c *gin.Context) {
	var req request.TaxesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.billingService.SetTaxes(c.Request.Context(), workspaceID(c), GetStaff(c), req.Taxes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Taxes updated", cart)
}

// RefreshDiscounts re-runs the automatic discount rules when they are pending
func (h *CartHandler) RefreshDiscounts(c *gin.Context) {
	cart, err := h.billingService.RefreshDiscounts(c.Request.Context(), workspaceID(c), GetStaff(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discounts refreshed", cart)
}

// SetCustomer attaches a customer to the cart
func (h *CartHandler) SetCustomer(c *gin.Context) {
	var req request.SetCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.billingService.SetCustomer(c.Request.Context(), workspaceID(c), GetStaff(c), req.Phone, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer set", cart)
}

// SetGuest marks the cart as a walk-in sale
func (h *CartHandler) SetGuest(c *gin.Context) {
	cart, err := h.billingService.SetGuest(c.Request.Context(), workspaceID(c), GetStaff(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Guest customer set", cart)
}
