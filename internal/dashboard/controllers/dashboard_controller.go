package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mkadima/hms-backend/internal/common/middlewares"
	"github.com/mkadima/hms-backend/internal/dashboard/services"
)

type DashboardController struct {
	Service *services.DashboardService
}

func NewDashboardController(service *services.DashboardService) *DashboardController {
	return &DashboardController{Service: service}
}

func tenantIDOf(c echo.Context) *uuid.UUID {
	if tenant := middlewares.TenantFromContext(c); tenant != nil {
		id := tenant.ID
		return &id
	}
	return nil
}

func (dc *DashboardController) Summary(c echo.Context) error {
	summary, err := dc.Service.Summary(tenantIDOf(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to build dashboard summary: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, summary)
}
