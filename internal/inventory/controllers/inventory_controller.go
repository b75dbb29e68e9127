package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mkadima/hms-backend/internal/common/middlewares"
	"github.com/mkadima/hms-backend/internal/inventory/models"
	"github.com/mkadima/hms-backend/internal/inventory/services"
)

type InventoryController struct {
	Service *services.InventoryService
}

func NewInventoryController(service *services.InventoryService) *InventoryController {
	return &InventoryController{Service: service}
}

func tenantIDOf(c echo.Context) *uuid.UUID {
	if tenant := middlewares.TenantFromContext(c); tenant != nil {
		id := tenant.ID
		return &id
	}
	return nil
}

// ListItems returns inventory items; ?low=1 keeps only items at or below
// their reorder level.
func (ic *InventoryController) ListItems(c echo.Context) error {
	lowOnly := c.QueryParam("low") == "1" || c.QueryParam("low") == "true"
	data, err := ic.Service.ListItems(tenantIDOf(c), lowOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve inventory: " + err.Error(),
			"data":    nil,
		})
	}
	if data == nil {
		data = []models.InventoryItem{}
	}
	return c.JSON(http.StatusOK, data)
}

func (ic *InventoryController) GetItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid item id",
			"data":    nil,
		})
	}
	item, err := ic.Service.GetItem(id)
	if err != nil {
		if err == services.ErrItemNotFound {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Item not found",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve item: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, item)
}

func (ic *InventoryController) CreateItem(c echo.Context) error {
	var req models.ItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload: " + err.Error(),
			"data":    nil,
		})
	}
	if req.SKU == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "sku and name are required",
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

	item, err := ic.Service.CreateItem(tenant.ID, req)
	if err != nil {
		if err == services.ErrDuplicateSKU {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status":  http.StatusBadRequest,
				"message": err.Error(),
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to create item: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusCreated, item)
}

func (ic *InventoryController) UpdateItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid item id",
			"data":    nil,
		})
	}
	var req models.ItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload: " + err.Error(),
			"data":    nil,
		})
	}

	item, err := ic.Service.UpdateItem(id, req)
	if err != nil {
		if err == services.ErrItemNotFound {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Item not found",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to update item: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, item)
}

func (ic *InventoryController) DeleteItem(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid item id",
			"data":    nil,
		})
	}
	if err := ic.Service.DeleteItem(id); err != nil {
		if err == services.ErrItemNotFound {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Item not found",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to delete item: " + err.Error(),
			"data":    nil,
		})
	}
	return c.NoContent(http.StatusNoContent)
}
