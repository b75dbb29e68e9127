package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mkadima/hms-backend/internal/common/middlewares"
	"github.com/mkadima/hms-backend/internal/patients/models"
	"github.com/mkadima/hms-backend/internal/patients/services"
)

type PatientController struct {
	Service *services.PatientService
}

func NewPatientController(service *services.PatientService) *PatientController {
	return &PatientController{Service: service}
}

func tenantIDOf(c echo.Context) *uuid.UUID {
	if tenant := middlewares.TenantFromContext(c); tenant != nil {
		id := tenant.ID
		return &id
	}
	return nil
}

func (pc *PatientController) ListPatients(c echo.Context) error {
	data, err := pc.Service.ListPatients(tenantIDOf(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve patients: " + err.Error(),
			"data":    nil,
		})
	}
	if data == nil {
		data = []models.Patient{}
	}
	return c.JSON(http.StatusOK, data)
}

func (pc *PatientController) GetPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid patient id",
			"data":    nil,
		})
	}
	patient, err := pc.Service.GetPatient(id)
	if err != nil {
		if err == services.ErrPatientNotFound {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Patient not found",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve patient: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, patient)
}

func (pc *PatientController) CreatePatient(c echo.Context) error {
	var req models.PatientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload: " + err.Error(),
			"data":    nil,
		})
	}
	if req.FirstName == "" || req.LastName == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "first_name and last_name are required",
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

	patient, err := pc.Service.CreatePatient(tenant.ID, req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to create patient: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusCreated, patient)
}

func (pc *PatientController) UpdatePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid patient id",
			"data":    nil,
		})
	}
	var req models.PatientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload: " + err.Error(),
			"data":    nil,
		})
	}

	patient, err := pc.Service.UpdatePatient(id, req)
	if err != nil {
		if err == services.ErrPatientNotFound {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Patient not found",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to update patient: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, patient)
}

func (pc *PatientController) DeletePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid patient id",
			"data":    nil,
		})
	}
	if err := pc.Service.DeletePatient(id); err != nil {
		if err == services.ErrPatientNotFound {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Patient not found",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to delete patient: " + err.Error(),
			"data":    nil,
		})
	}
	return c.NoContent(http.StatusNoContent)
}
