package controllers

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mkadima/hms-backend/internal/billing/models"
	"github.com/mkadima/hms-backend/internal/billing/services"
	"github.com/mkadima/hms-backend/internal/common/middlewares"
	"github.com/mkadima/hms-backend/ws"
)

// BillingController handles invoice and payment ledger endpoints.
type BillingController struct {
	Service *services.BillingService
}

func NewBillingController(service *services.BillingService) *BillingController {
	return &BillingController{Service: service}
}

// broadcastTotals pushes the refreshed per-currency totals to connected
// dashboards after a mutation.
func (bc *BillingController) broadcastTotals(c echo.Context) {
	rows, err := bc.Service.Totals(tenantIDOf(c))
	if err != nil {
		log.Printf("billing: failed to compute totals for broadcast: %v", err)
		return
	}
	ws.HubInstance.BroadcastEvent("billing.totals", rows)
}

func billingID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// ListBilling returns invoices with their derived paid_total/remaining_due.
func (bc *BillingController) ListBilling(c echo.Context) error {
	data, err := bc.Service.ListBilling(tenantIDOf(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve billing data: " + err.Error(),
			"data":    nil,
		})
	}
	if data == nil {
		data = []models.Billing{}
	}
	return c.JSON(http.StatusOK, data)
}

// CreateBilling composes an invoice from the submitted draft. The server is
// the source of truth for the generated invoice.
func (bc *BillingController) CreateBilling(c echo.Context) error {
	var req models.CreateBillingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload: " + err.Error(),
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

	billing, err := bc.Service.CreateBilling(tenant.ID, req)
	if err != nil {
		if err == services.ErrPatientRequired {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status":  http.StatusBadRequest,
				"message": err.Error(),
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to create billing: " + err.Error(),
			"data":    nil,
		})
	}

	bc.broadcastTotals(c)
	return c.JSON(http.StatusCreated, billing)
}

// GetBilling returns one invoice; remaining_due comes from the ledger, the
// client never recomputes it.
func (bc *BillingController) GetBilling(c echo.Context) error {
	id, err := billingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid billing id",
			"data":    nil,
		})
	}
	billing, err := bc.Service.GetBilling(id)
	if err != nil {
		if err == services.ErrBillingNotFound {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Billing not found",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve billing: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, billing)
}

// AddPayment appends a payment and returns the updated invoice.
func (bc *BillingController) AddPayment(c echo.Context) error {
	id, err := billingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid billing id",
			"data":    nil,
		})
	}
	var req models.AddPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload: " + err.Error(),
			"data":    nil,
		})
	}

	billing, err := bc.Service.AddPayment(id, req)
	if err != nil {
		switch err {
		case services.ErrInvalidAmount:
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status":  http.StatusBadRequest,
				"message": "Amount must be > 0",
				"data":    nil,
			})
		case services.ErrBillingNotFound:
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Billing not found",
				"data":    nil,
			})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"status":  http.StatusInternalServerError,
				"message": "Failed to add payment: " + err.Error(),
				"data":    nil,
			})
		}
	}

	bc.broadcastTotals(c)
	return c.JSON(http.StatusOK, billing)
}

// UpdateBilling rewrites an invoice; submitted items replace the existing
// lines with fresh acte snapshots.
func (bc *BillingController) UpdateBilling(c echo.Context) error {
	id, err := billingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid billing id",
			"data":    nil,
		})
	}
	var req models.CreateBillingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload: " + err.Error(),
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

	billing, err := bc.Service.UpdateBilling(id, req)
	if err != nil {
		if err == services.ErrBillingNotFound {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Billing not found",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to update billing: " + err.Error(),
			"data":    nil,
		})
	}

	bc.broadcastTotals(c)
	return c.JSON(http.StatusOK, billing)
}

// Pay marks an invoice paid without recording a ledger payment.
func (bc *BillingController) Pay(c echo.Context) error {
	id, err := billingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid billing id",
			"data":    nil,
		})
	}
	billing, err := bc.Service.MarkPaid(id)
	if err != nil {
		switch err {
		case services.ErrAlreadyPaid:
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status":  http.StatusBadRequest,
				"message": "Billing already marked paid",
				"data":    nil,
			})
		case services.ErrBillingNotFound:
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Billing not found",
				"data":    nil,
			})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"status":  http.StatusInternalServerError,
				"message": "Failed to mark billing paid: " + err.Error(),
				"data":    nil,
			})
		}
	}
	return c.JSON(http.StatusOK, billing)
}

// DeleteBilling removes an invoice. Irreversible.
func (bc *BillingController) DeleteBilling(c echo.Context) error {
	id, err := billingID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid billing id",
			"data":    nil,
		})
	}
	if err := bc.Service.DeleteBilling(id); err != nil {
		if err == services.ErrBillingNotFound {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Billing not found",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to delete billing: " + err.Error(),
			"data":    nil,
		})
	}

	bc.broadcastTotals(c)
	return c.NoContent(http.StatusNoContent)
}

// Totals returns one aggregate row per currency.
func (bc *BillingController) Totals(c echo.Context) error {
	rows, err := bc.Service.Totals(tenantIDOf(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to compute totals: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, rows)
}
