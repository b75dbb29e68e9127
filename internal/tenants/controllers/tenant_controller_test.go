package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkadima/hms-backend/internal/tenants/models"
)

type fakeLister struct {
	tenants []models.Tenant
	err     error
}

func (f *fakeLister) List() ([]models.Tenant, error) {
	return f.tenants, f.err
}

func listTenants(t *testing.T, lister *fakeLister) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET("/api/tenants/", NewTenantController(lister).ListTenants)
	req := httptest.NewRequest(http.MethodGet, "/api/tenants/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestListTenantsReturnsPicker(t *testing.T) {
	rec := listTenants(t, &fakeLister{tenants: []models.Tenant{
		{ID: uuid.New(), Slug: "hgr-kindu", Name: "HGR Kindu"},
		{ID: uuid.New(), Slug: "clinique-kin", Name: "Clinique de Kinshasa"},
	}})

	require.Equal(t, http.StatusOK, rec.Code)
	var got []models.Tenant
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "hgr-kindu", got[0].Slug)
}

func TestListTenantsEmpty(t *testing.T) {
	rec := listTenants(t, &fakeLister{})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListTenantsFailure(t *testing.T) {
	rec := listTenants(t, &fakeLister{err: errors.New("db down")})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
