package services

import (
	"database/sql"

	"github.com/mkadima/hms-backend/internal/tenants/models"
)

type TenantService struct {
	DB *sql.DB
}

func NewTenantService(db *sql.DB) *TenantService {
	return &TenantService{DB: db}
}

// BySlug looks up a tenant by its slug. Returns sql.ErrNoRows when unknown.
func (s *TenantService) BySlug(slug string) (*models.Tenant, error) {
	var t models.Tenant
	query := `SELECT id, slug, name, created_at FROM Tenant WHERE slug = ?`
	if err := s.DB.QueryRow(query, slug).Scan(&t.ID, &t.Slug, &t.Name, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all tenants, used by the login page to offer a hospital picker.
func (s *TenantService) List() ([]models.Tenant, error) {
	rows, err := s.DB.Query(`SELECT id, slug, name, created_at FROM Tenant ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Tenant
	for rows.Next() {
		var t models.Tenant
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
