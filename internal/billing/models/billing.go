package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Billing is an invoice issued to a patient. PaidTotal and RemainingDue are
// derived from the payment ledger, never stored.
type Billing struct {
	ID             uuid.UUID        `json:"id"`
	Tenant         uuid.UUID        `json:"tenant"`
	Patient        uuid.UUID        `json:"patient"`
	Appointment    *uuid.UUID       `json:"appointment,omitempty"`
	Amount         decimal.Decimal  `json:"amount"`
	Currency       string           `json:"currency"`
	Description    string           `json:"description"`
	IssuedAt       time.Time        `json:"issued_at"`
	PaidAt         *time.Time       `json:"paid_at,omitempty"`
	Items          []BillingItem    `json:"items"`
	Payments       []BillingPayment `json:"payments"`
	PaidTotal      decimal.Decimal  `json:"paid_total"`
	RemainingDue   decimal.Decimal  `json:"remaining_due"`
	PatientDisplay string           `json:"patient_display,omitempty"`
}

// BillingItem snapshots the acte description, unit price and computed total
// so historical invoices stay correct when acte prices change later.
type BillingItem struct {
	ID          uuid.UUID       `json:"id"`
	Billing     uuid.UUID       `json:"billing"`
	Acte        *uuid.UUID      `json:"acte,omitempty"`
	ActeDisplay string          `json:"acte_display,omitempty"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Currency    string          `json:"currency"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// ComputeTotal applies the line formula: quantity * unit_price - discount,
// floored at zero.
func (it *BillingItem) ComputeTotal() {
	total := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).Sub(it.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	it.Total = total
}

// BillingPayment is one payment recorded against an invoice. Payments are
// append-only; partial payments are supported.
type BillingPayment struct {
	ID       uuid.UUID       `json:"id"`
	Billing  uuid.UUID       `json:"billing"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Method   string          `json:"method,omitempty"`
	PaidAt   time.Time       `json:"paid_at"`
}

// TotalsRow is the per-currency aggregate served by GET /api/billing/totals/.
type TotalsRow struct {
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
	Paid     decimal.Decimal `json:"paid"`
	Unpaid   decimal.Decimal `json:"unpaid"`
}

// BillingItemInput is one line of a nested invoice create payload. Acte may
// be an id, a code or a display name; unit price and currency default to the
// resolved acte's values.
type BillingItemInput struct {
	Acte        string          `json:"acte"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Currency    string          `json:"currency"`
	Discount    decimal.Decimal `json:"discount"`
}

// CreateBillingRequest is the POST /api/billing/ payload. Either nested
// items or the convenience top-level acte form may be used.
type CreateBillingRequest struct {
	Patient     string             `json:"patient"`
	Appointment string             `json:"appointment"`
	Amount      decimal.Decimal    `json:"amount"`
	Currency    string             `json:"currency"`
	Description string             `json:"description"`
	Items       []BillingItemInput `json:"items"`

	// convenience single-acte form
	Acte     string `json:"acte"`
	Quantity int    `json:"quantity"`
}

// AddPaymentRequest is the POST /api/billing/:id/add_payment/ payload.
type AddPaymentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Method   string          `json:"method"`
}
