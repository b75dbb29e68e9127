package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mkadima/hms-backend/internal/billing/models"
	"github.com/mkadima/hms-backend/internal/billing/services"
	"github.com/mkadima/hms-backend/internal/common/middlewares"
)

// tenantIDOf returns the resolved tenant id or nil when the request is
// unscoped.
func tenantIDOf(c echo.Context) *uuid.UUID {
	if tenant := middlewares.TenantFromContext(c); tenant != nil {
		id := tenant.ID
		return &id
	}
	return nil
}

// ActeController handles the billable act catalog endpoints.
type ActeController struct {
	Service *services.ActeService
}

func NewActeController(service *services.ActeService) *ActeController {
	return &ActeController{Service: service}
}

// ListActes returns the flat catalog; the client groups sub-acts under their
// parents itself.
func (ac *ActeController) ListActes(c echo.Context) error {
	data, err := ac.Service.ListActes(tenantIDOf(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve actes: " + err.Error(),
			"data":    nil,
		})
	}
	if data == nil {
		data = []models.Acte{}
	}
	return c.JSON(http.StatusOK, data)
}

// CreateActe creates a top-level act or a sub-act.
func (ac *ActeController) CreateActe(c echo.Context) error {
	var req models.CreateActeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload: " + err.Error(),
			"data":    nil,
		})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "name is required",
			"data":    nil,
		})
	}
	if req.Currency != "" && !models.ValidCurrency(req.Currency) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "currency must be CDF or USD",
			"data":    nil,
		})
	}
	tenant := middlewares.TenantFromContext(c)
	if tenant == nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "tenant is required",
			"data":    nil,
		})
	}

	acte, err := ac.Service.CreateActe(tenant.ID, req)
	if err != nil {
		switch err {
		case services.ErrParentNotFound, services.ErrNestedSubActe:
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status":  http.StatusBadRequest,
				"message": err.Error(),
				"data":    nil,
			})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"status":  http.StatusInternalServerError,
				"message": "Failed to create acte: " + err.Error(),
				"data":    nil,
			})
		}
	}
	return c.JSON(http.StatusCreated, acte)
}
