package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CurrencyCDF = "CDF"
	CurrencyUSD = "USD"
)

// Currencies lists the supported currencies in reporting order.
var Currencies = []string{CurrencyCDF, CurrencyUSD}

// ValidCurrency reports whether code is one of the supported currencies.
func ValidCurrency(code string) bool {
	for _, c := range Currencies {
		if c == code {
			return true
		}
	}
	return false
}

// Acte is a billable medical act. An acte with a parent is a sub-act; the
// hierarchy is exactly one level deep, enforced at creation time.
type Acte struct {
	ID          uuid.UUID       `json:"id"`
	Tenant      uuid.UUID       `json:"tenant"`
	Parent      *uuid.UUID      `json:"parent,omitempty"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateActeRequest is the POST /api/actes/ payload.
type CreateActeRequest struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Parent      string          `json:"parent"`
}
