package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mkadima/hms-backend/internal/inventory/models"
)

var (
	ErrItemNotFound = errors.New("inventory item not found")
	ErrDuplicateSKU = errors.New("sku already exists for this tenant")
)

type InventoryService struct {
	DB *sql.DB
}

func NewInventoryService(db *sql.DB) *InventoryService {
	return &InventoryService{DB: db}
}

const itemColumns = `id, tenant, sku, name, description, quantity, unit, reorder_level, location, created_at, updated_at`

func scanItem(row interface{ Scan(...interface{}) error }) (*models.InventoryItem, error) {
	var it models.InventoryItem
	var description, location sql.NullString
	if err := row.Scan(&it.ID, &it.Tenant, &it.SKU, &it.Name, &description,
		&it.Quantity, &it.Unit, &it.ReorderLevel, &location, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.Description = description.String
	it.Location = location.String
	return &it, nil
}

// ListItems returns items ordered by name. With lowOnly set, only items at
// or below their reorder level are returned.
func (s *InventoryService) ListItems(tenant *uuid.UUID, lowOnly bool) ([]models.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM Inventory_Item WHERE 1=1`
	var params []interface{}
	if tenant != nil {
		query += " AND tenant = ?"
		params = append(params, *tenant)
	}
	if lowOnly {
		query += " AND quantity <= reorder_level"
	}
	query += " ORDER BY name"

	rows, err := s.DB.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *it)
	}
	return result, rows.Err()
}

func (s *InventoryService) GetItem(id uuid.UUID) (*models.InventoryItem, error) {
	row := s.DB.QueryRow(`SELECT `+itemColumns+` FROM Inventory_Item WHERE id = ?`, id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, ErrItemNotFound
	}
	return it, err
}

func (s *InventoryService) CreateItem(tenant uuid.UUID, req models.ItemRequest) (*models.InventoryItem, error) {
	var exists int
	if err := s.DB.QueryRow(`SELECT COUNT(*) FROM Inventory_Item WHERE tenant = ? AND sku = ?`, tenant, req.SKU).Scan(&exists); err != nil {
		return nil, err
	}
	if exists > 0 {
		return nil, ErrDuplicateSKU
	}

	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}

	id := uuid.New()
	now := time.Now()
	_, err := s.DB.Exec(`
		INSERT INTO Inventory_Item (id, tenant, sku, name, description, quantity, unit, reorder_level, location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, tenant, req.SKU, req.Name, req.Description, req.Quantity, unit, req.ReorderLevel, req.Location, now, now)
	if err != nil {
		return nil, err
	}
	return s.GetItem(id)
}

func (s *InventoryService) UpdateItem(id uuid.UUID, req models.ItemRequest) (*models.InventoryItem, error) {
	if _, err := s.GetItem(id); err != nil {
		return nil, err
	}
	_, err := s.DB.Exec(`
		UPDATE Inventory_Item
		SET sku = ?, name = ?, description = ?, quantity = ?, unit = ?, reorder_level = ?, location = ?, updated_at = ?
		WHERE id = ?`,
		req.SKU, req.Name, req.Description, req.Quantity, req.Unit, req.ReorderLevel, req.Location, time.Now(), id)
	if err != nil {
		return nil, err
	}
	return s.GetItem(id)
}

func (s *InventoryService) DeleteItem(id uuid.UUID) error {
	res, err := s.DB.Exec(`DELETE FROM Inventory_Item WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrItemNotFound
	}
	return nil
}

// CountLowStock feeds the dashboard.
func (s *InventoryService) CountLowStock(tenant *uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM Inventory_Item WHERE quantity <= reorder_level`
	var params []interface{}
	if tenant != nil {
		query += " AND tenant = ?"
		params = append(params, *tenant)
	}
	var count int
	err := s.DB.QueryRow(query, params...).Scan(&count)
	return count, err
}
