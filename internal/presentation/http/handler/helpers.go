package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/billing-api/internal/domain/billing"
	"github.com/sangkips/billing-api/internal/domain/entity"
	"github.com/sangkips/billing-api/internal/domain/enum"
	"github.com/sangkips/billing-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billing-api/internal/presentation/http/middleware"
	"github.com/sangkips/billing-api/pkg/apperror"
)

// GetStaff returns the signed-in operator from the Gin context
func GetStaff(c *gin.Context) entity.Staff {
	return entity.Staff{
		ID:   c.GetString(middleware.StaffIDKey),
		Name: c.GetString(middleware.StaffNameKey),
	}
}

// workspaceID returns the :ws path parameter
func workspaceID(c *gin.Context) string {
	return strings.TrimSpace(c.Param("ws"))
}

// indexParam parses a non-negative integer path parameter
func indexParam(c *gin.Context, name string) (int, error) {
	index, err := strconv.Atoi(c.Param(name))
	if err != nil || index < 0 {
		return 0, apperror.NewFieldValidationError(name, "must be a non-negative integer")
	}
	return index, nil
}

func toDiscountInput(req *request.DiscountRequest) (billing.ManualDiscountInput, error) {
	kind, ok := enum.ParseDiscountType(req.Type)
	if !ok {
		return billing.ManualDiscountInput{}, apperror.NewFieldValidationError("type", "must be AMOUNT or PERCENT")
	}
	return billing.ManualDiscountInput{
		Type:       kind,
		Value:      req.Value,
		Reason:     req.Reason,
		ApprovedBy: req.ApprovedBy,
	}, nil
}
