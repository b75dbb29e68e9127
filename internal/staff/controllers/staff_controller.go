package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mkadima/hms-backend/internal/common/middlewares"
	"github.com/mkadima/hms-backend/internal/staff/models"
	"github.com/mkadima/hms-backend/internal/staff/services"
	"github.com/mkadima/hms-backend/pkg/utils"
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

type StaffController struct {
	Service *services.StaffService
}

func NewStaffController(service *services.StaffService) *StaffController {
	return &StaffController{Service: service}
}

func tenantIDOf(c echo.Context) *uuid.UUID {
	if tenant := middlewares.TenantFromContext(c); tenant != nil {
		id := tenant.ID
		return &id
	}
	return nil
}

func (sc *StaffController) tokenPair(profile *models.Profile, staffID string) (*models.TokenPair, error) {
	access, err := utils.GenerateJWTToken(staffID, profile.Username, profile.Role, profile.TenantSlug, time.Now().Add(accessTokenTTL))
	if err != nil {
		return nil, err
	}
	refresh, err := utils.GenerateJWTToken(staffID, profile.Username, profile.Role, profile.TenantSlug, time.Now().Add(refreshTokenTTL))
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{Access: access, Refresh: refresh, Profile: profile}, nil
}

// Login authenticates a staff account and returns an access/refresh pair.
func (sc *StaffController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil || req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "username and password are required",
			"data":    nil,
		})
	}

	profile, staffID, err := sc.Service.Authenticate(req.Username, req.Password)
	if err != nil {
		if err == services.ErrInvalidCredentials {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"status":  http.StatusUnauthorized,
				"message": "Invalid username or password",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Login failed: " + err.Error(),
			"data":    nil,
		})
	}

	pair, err := sc.tokenPair(profile, staffID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to issue token: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, pair)
}

// Refresh exchanges a valid refresh token for a new pair.
func (sc *StaffController) Refresh(c echo.Context) error {
	var req models.RefreshRequest
	if err := c.Bind(&req); err != nil || req.Refresh == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "refresh token is required",
			"data":    nil,
		})
	}
	claims, err := utils.ValidateJWTToken(req.Refresh)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"status":  http.StatusUnauthorized,
			"message": "Invalid refresh token: " + err.Error(),
			"data":    nil,
		})
	}

	profile, err := sc.Service.ProfileByUsername(claims.Username)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"status":  http.StatusUnauthorized,
			"message": "Unknown account",
			"data":    nil,
		})
	}
	pair, err := sc.tokenPair(profile, claims.IDStaff)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to issue token: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, pair)
}

// Me returns the authenticated profile, including tenant info for the
// client session.
func (sc *StaffController) Me(c echo.Context) error {
	claims, ok := c.Get(string(middlewares.ContextKeyClaims)).(*utils.Claims)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"status":  http.StatusUnauthorized,
			"message": "Missing or invalid JWT claims",
			"data":    nil,
		})
	}
	profile, err := sc.Service.ProfileByUsername(claims.Username)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]interface{}{
			"status":  http.StatusNotFound,
			"message": "Profile not found",
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, profile)
}

func (sc *StaffController) ListStaff(c echo.Context) error {
	data, err := sc.Service.ListStaff(tenantIDOf(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to retrieve staff: " + err.Error(),
			"data":    nil,
		})
	}
	if data == nil {
		data = []models.Staff{}
	}
	return c.JSON(http.StatusOK, data)
}

func (sc *StaffController) CreateStaff(c echo.Context) error {
	var req models.StaffRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload: " + err.Error(),
			"data":    nil,
		})
	}
	if !models.ValidRole(req.Role) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "role must be one of doctor, nurse, reception, billing, admin",
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

	st, err := sc.Service.CreateStaff(tenant.ID, req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to create staff: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusCreated, st)
}

// CreateUser links a login account to an existing staff member.
func (sc *StaffController) CreateUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid staff id",
			"data":    nil,
		})
	}
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request payload: " + err.Error(),
			"data":    nil,
		})
	}

	st, err := sc.Service.CreateUserForStaff(id, req)
	if err != nil {
		switch err {
		case services.ErrStaffNotFound:
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Staff not found",
				"data":    nil,
			})
		case services.ErrAlreadyLinked, services.ErrPasswordRequired:
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"status":  http.StatusBadRequest,
				"message": err.Error(),
				"data":    nil,
			})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"status":  http.StatusInternalServerError,
				"message": "Failed to create user: " + err.Error(),
				"data":    nil,
			})
		}
	}
	return c.JSON(http.StatusCreated, st)
}

func (sc *StaffController) DeleteStaff(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid staff id",
			"data":    nil,
		})
	}
	if err := sc.Service.DeleteStaff(id); err != nil {
		if err == services.ErrStaffNotFound {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"status":  http.StatusNotFound,
				"message": "Staff not found",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to delete staff: " + err.Error(),
			"data":    nil,
		})
	}
	return c.NoContent(http.StatusNoContent)
}
