package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mkadima/hms-backend/internal/appointments/models"
	"github.com/mkadima/hms-backend/internal/appointments/services"
	"github.com/mkadima/hms-backend/internal/common/middlewares"
)

type AppointmentController struct {
	Service *services.AppointmentService
}

func NewAppointmentController(service *services.AppointmentService) *AppointmentController {
	return &AppointmentController{Service: service}
}

func tenantIDOf(c echo.Context) *uuid.UUID {
	if tenant := middlewares.TenantFromContext(c); tenant != nil {
		id := tenant.ID
		return &id
	}
	return nil
}

func (ac *AppointmentController) ListAppointments(c echo.Context) error {
	data, err := ac.Service.ListAppointments(tenantIDOf(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve appointments: " + err.Error(),
			"data":    nil,
		})
	}
	if data == nil {
		data = []models.Appointment{}
	}
	return c.JSON(http.StatusOK, data)
}

func (ac *AppointmentController) GetAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid appointment id",
			"data":    nil,
		})
	}
	appt, err := ac.Service.GetAppointment(id)
	if err != nil {
		if err == services.ErrAppointmentNotFound {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Appointment not found",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve appointment: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, appt)
}

func (ac *AppointmentController) CreateAppointment(c echo.Context) error {
	var req models.AppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload: " + err.Error(),
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

	appt, err := ac.Service.CreateAppointment(tenant.ID, req)
	if err != nil {
		switch err {
		case services.ErrInvalidDate, services.ErrInvalidStatus:
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status":  http.StatusBadRequest,
				"message": err.Error(),
				"data":    nil,
			})
		default:
			if err.Error() == "patient is required" {
				return c.JSON(http.StatusBadRequest, map[string]interface{}{
					"status":  http.StatusBadRequest,
					"message": err.Error(),
					"data":    nil,
				})
			}
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"status":  http.StatusInternalServerError,
				"message": "Failed to create appointment: " + err.Error(),
				"data":    nil,
			})
		}
	}
	return c.JSON(http.StatusCreated, appt)
}

func (ac *AppointmentController) UpdateAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid appointment id",
			"data":    nil,
		})
	}
	var req models.AppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload: " + err.Error(),
			"data":    nil,
		})
	}

	appt, err := ac.Service.UpdateAppointment(id, req)
	if err != nil {
		switch err {
		case services.ErrAppointmentNotFound:
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Appointment not found",
				"data":    nil,
			})
		case services.ErrInvalidDate, services.ErrInvalidStatus:
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status":  http.StatusBadRequest,
				"message": err.Error(),
				"data":    nil,
			})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"status":  http.StatusInternalServerError,
				"message": "Failed to update appointment: " + err.Error(),
				"data":    nil,
			})
		}
	}
	return c.JSON(http.StatusOK, appt)
}

func (ac *AppointmentController) DeleteAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid appointment id",
			"data":    nil,
		})
	}
	if err := ac.Service.DeleteAppointment(id); err != nil {
		if err == services.ErrAppointmentNotFound {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Appointment not found",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to delete appointment: " + err.Error(),
			"data":    nil,
		})
	}
	return c.NoContent(http.StatusNoContent)
}
