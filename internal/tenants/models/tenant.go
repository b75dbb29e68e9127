package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is one hospital/clinic sharing the installation.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
