package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem is one stocked article. SKU is unique per tenant.
type InventoryItem struct {
	ID           uuid.UUID `json:"id"`
	Tenant       uuid.UUID `json:"tenant"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Quantity     int       `json:"quantity"`
	Unit         string    `json:"unit"`
	ReorderLevel int       `json:"reorder_level"`
	Location     string    `json:"location,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ItemRequest is the create/update payload.
type ItemRequest struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Quantity     int    `json:"quantity"`
	Unit         string `json:"unit"`
	ReorderLevel int    `json:"reorder_level"`
	Location     string `json:"location"`
}
