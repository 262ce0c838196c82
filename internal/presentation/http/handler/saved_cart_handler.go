package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/billing-api/internal/application/service"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/billing-api/pkg/pagination"
)

// SavedCartHandler handles parking and resuming carts
type SavedCartHandler struct {
	savedCartService *service.SavedCartService
}

// NewSavedCartHandler creates a new saved cart handler
func NewSavedCartHandler(savedCartService *service.SavedCartService) *SavedCartHandler {
	return &SavedCartHandler{savedCartService: savedCartService}
}

// Save parks the workspace cart
// @Summary Save cart
// @Tags saved-carts
// @Accept json
// @Produce json
// @Param ws path string true "Workspace id"
// @Param request body request.SaveCartRequest false "Label"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /workspaces/{ws}/cart/save [post]
func (h *SavedCartHandler) Save(c *gin.Context) {
	var req request.SaveCartRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	saved, err := h.savedCartService.Save(c.Request.Context(), workspaceID(c), GetStaff(c), req.Label)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Cart saved", saved)
}

// List lists saved carts of the store
// @Summary List saved carts
// @Tags saved-carts
// @Produce json
// @Param staff_id query string false "Created by"
// @Param status query string false "SAVED, LOCKED, EXPIRED or PENDING_SYNC"
// @Param q query string false "Label, customer name or phone"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Success 200 {object} response.APIResponse
// @Router /saved-carts [get]
func (h *SavedCartHandler) List(c *gin.Context) {
	var req request.ListSavedCartsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	input := &service.ListSavedCartsInput{
		StaffID:    req.StaffID,
		Search:     req.Search,
		Pagination: &pagination.PaginationParams{Page: req.Page, PerPage: req.PerPage},
	}
	if req.Status != "" {
		status, _ := enum.ParseSavedCartStatus(req.Status)
		input.Status = &status
	}

	result, err := h.savedCartService.List(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Saved carts retrieved", result)
}

// Resume brings a saved cart back into the workspace
func (h *SavedCartHandler) Resume(c *gin.Context) {
	result, err := h.savedCartService.Resume(c.Request.Context(), workspaceID(c), GetStaff(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	message := "Cart resumed"
	if result.ExpiredWarning {
		message = "Cart resumed; it had passed its expiry"
	}
	response.OK(c, message, result)
}

// Delete removes a saved cart
func (h *SavedCartHandler) Delete(c *gin.Context) {
	if err := h.savedCartService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
