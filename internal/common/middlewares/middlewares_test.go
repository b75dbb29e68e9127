package middlewares

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tenantModels "github.com/mkadima/hms-backend/internal/tenants/models"
	"github.com/mkadima/hms-backend/pkg/utils"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func doRequest(t *testing.T, mw echo.MiddlewareFunc, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET("/protected", okHandler, mw)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTMiddlewareMissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	rec := doRequest(t, JWTMiddleware(), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareMalformedHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	rec := doRequest(t, JWTMiddleware(), func(r *http.Request) {
		r.Header.Set("Authorization", "Token abc")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := utils.GenerateJWTToken("staff-1", "admin1", "admin", "", time.Now().Add(time.Hour))
	require.NoError(t, err)

	rec := doRequest(t, JWTMiddleware(), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cases := []struct {
		role    string
		allowed []string
		want    int
	}{
		{"billing", []string{"admin", "billing"}, http.StatusOK},
		{"reception", []string{"admin", "billing"}, http.StatusForbidden},
		{"admin", []string{"admin"}, http.StatusOK},
	}
	for _, tc := range cases {
		token, err := utils.GenerateJWTToken("staff-1", "u", tc.role, "", time.Now().Add(time.Hour))
		require.NoError(t, err)

		e := echo.New()
		e.GET("/protected", okHandler, JWTMiddleware(), RequireRole(tc.allowed...))
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, "role %s allowed %v", tc.role, tc.allowed)
	}
}

type fakeResolver struct {
	tenants map[string]*tenantModels.Tenant
}

func (f *fakeResolver) BySlug(slug string) (*tenantModels.Tenant, error) {
	if t, ok := f.tenants[slug]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func TestTenantMiddlewareHeader(t *testing.T) {
	resolver := &fakeResolver{tenants: map[string]*tenantModels.Tenant{
		"clinique-kin": {Slug: "clinique-kin", Name: "Clinique de Kinshasa"},
	}}

	e := echo.New()
	var got *tenantModels.Tenant
	e.GET("/x", func(c echo.Context) error {
		got = TenantFromContext(c)
		return c.NoContent(http.StatusOK)
	}, TenantMiddleware(resolver))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Tenant-Slug", "clinique-kin")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.NotNil(t, got)
	assert.Equal(t, "clinique-kin", got.Slug)
}

func TestTenantMiddlewareQueryParamAndUnknownSlug(t *testing.T) {
	resolver := &fakeResolver{tenants: map[string]*tenantModels.Tenant{
		"clinique-kin": {Slug: "clinique-kin"},
	}}

	e := echo.New()
	var got *tenantModels.Tenant
	e.GET("/x", func(c echo.Context) error {
		got = TenantFromContext(c)
		return c.NoContent(http.StatusOK)
	}, TenantMiddleware(resolver))

	// query param works
	req := httptest.NewRequest(http.MethodGet, "/x?tenant=clinique-kin", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.NotNil(t, got)

	// unknown slug leaves the request without a tenant
	got = nil
	req = httptest.NewRequest(http.MethodGet, "/x?tenant=inconnu", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Nil(t, got)
}

func TestTenantMiddlewareFromClaims(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	resolver := &fakeResolver{tenants: map[string]*tenantModels.Tenant{
		"clinique-kin": {Slug: "clinique-kin"},
	}}
	token, err := utils.GenerateJWTToken("staff-1", "u", "billing", "clinique-kin", time.Now().Add(time.Hour))
	require.NoError(t, err)

	e := echo.New()
	var got *tenantModels.Tenant
	e.GET("/x", func(c echo.Context) error {
		got = TenantFromContext(c)
		return c.NoContent(http.StatusOK)
	}, JWTMiddleware(), TenantMiddleware(resolver))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.NotNil(t, got)
	assert.Equal(t, "clinique-kin", got.Slug)
}
