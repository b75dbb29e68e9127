package middlewares

import (
	"github.com/labstack/echo/v4"

	tenantModels "github.com/mkadima/hms-backend/internal/tenants/models"
	"github.com/mkadima/hms-backend/pkg/utils"
)

// TenantResolver looks a tenant up by slug. Implemented by the tenants service.
type TenantResolver interface {
	BySlug(slug string) (*tenantModels.Tenant, error)
}

// TenantMiddleware resolves the request tenant from the X-Tenant-Slug header,
// the `tenant` query parameter, or the JWT tenant claim, in that order. An
// unknown or missing slug leaves the request without a tenant; queries then
// run unscoped.
func TenantMiddleware(resolver TenantResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			slug := c.Request().Header.Get("X-Tenant-Slug")
			if slug == "" {
				slug = c.QueryParam("tenant")
			}
			if slug == "" {
				if claims, ok := c.Get(string(ContextKeyClaims)).(*utils.Claims); ok {
					slug = claims.TenantSlug
				}
			}
			if slug != "" {
				if tenant, err := resolver.BySlug(slug); err == nil {
					c.Set(string(ContextKeyTenant), tenant)
				}
			}
			return next(c)
		}
	}
}

// TenantFromContext returns the resolved tenant or nil.
func TenantFromContext(c echo.Context) *tenantModels.Tenant {
	if t, ok := c.Get(string(ContextKeyTenant)).(*tenantModels.Tenant); ok {
		return t
	}
	return nil
}
