package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkadima/hms-backend/internal/tenants/models"
)

// TenantLister returns the hospitals to offer on the login picker.
// Implemented by the tenants service.
type TenantLister interface {
	List() ([]models.Tenant, error)
}

// TenantController serves the public tenant list. The picker runs before
// login, so no JWT.
type TenantController struct {
	Service TenantLister
}

func NewTenantController(service TenantLister) *TenantController {
	return &TenantController{Service: service}
}

func (tc *TenantController) ListTenants(c echo.Context) error {
	data, err := tc.Service.List()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve tenants: " + err.Error(),
			"data":    nil,
		})
	}
	if data == nil {
		data = []models.Tenant{}
	}
	return c.JSON(http.StatusOK, data)
}
