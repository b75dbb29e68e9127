package hmsclient

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	CurrencyCDF = "CDF"
	CurrencyUSD = "USD"
)

// Acte is a billable act from the catalog. Parent set means sub-act.
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
}

// CreateActeRequest is the POST /api/actes/ payload.
type CreateActeRequest struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Parent      string          `json:"parent,omitempty"`
}

// Billing is an invoice as served by the backend. PaidTotal and RemainingDue
// are derived server-side; the client never recomputes them.
type Billing struct {
	ID             uuid.UUID        `json:"id"`
	Tenant         uuid.UUID        `json:"tenant"`
	Patient        uuid.UUID        `json:"patient"`
	Amount         decimal.Decimal  `json:"amount"`
	Currency       string           `json:"currency"`
	Description    string           `json:"description"`
	IssuedAt       time.Time        `json:"issued_at"`
	PaidAt         *time.Time       `json:"paid_at,omitempty"`
	Items          []BillingItem    `json:"items"`
	Payments       []BillingPayment `json:"payments"`
	PaidTotal      decimal.Decimal  `json:"paid_total"`
	RemainingDue   *decimal.Decimal `json:"remaining_due,omitempty"`
	PatientDisplay string           `json:"patient_display,omitempty"`
}

type BillingItem struct {
	ID          uuid.UUID       `json:"id"`
	Acte        *uuid.UUID      `json:"acte,omitempty"`
	ActeDisplay string          `json:"acte_display,omitempty"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Currency    string          `json:"currency"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

type BillingPayment struct {
	ID       uuid.UUID       `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Method   string          `json:"method,omitempty"`
	PaidAt   time.Time       `json:"paid_at"`
}

// TotalsRow is one per-currency aggregate from GET /api/billing/totals/.
type TotalsRow struct {
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
	Paid     decimal.Decimal `json:"paid"`
	Unpaid   decimal.Decimal `json:"unpaid"`
}

// DraftItem is one composed invoice line.
type DraftItem struct {
	Acte        string          `json:"acte"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Currency    string          `json:"currency"`
	Discount    decimal.Decimal `json:"discount"`
}

// InvoiceDraft is the composed invoice, submitted as-is to POST /api/billing/.
type InvoiceDraft struct {
	Patient     string          `json:"patient"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Items       []DraftItem     `json:"items"`
}

// AddPaymentRequest is the POST /api/billing/:id/add_payment/ payload.
type AddPaymentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Method   string          `json:"method,omitempty"`
}

// Profile is the GET /api/me/ response.
type Profile struct {
	Username   string `json:"username"`
	Email      string `json:"email,omitempty"`
	Role       string `json:"role,omitempty"`
	TenantSlug string `json:"tenant_slug,omitempty"`
	TenantName string `json:"tenant_name,omitempty"`
}

// TokenPair is the login/refresh response.
type TokenPair struct {
	Access  string   `json:"access"`
	Refresh string   `json:"refresh"`
	Profile *Profile `json:"profile,omitempty"`
}

// Patient is the list shape from GET /api/patients/.
type Patient struct {
	ID                  uuid.UUID `json:"id"`
	MedicalRecordNumber string    `json:"medical_record_number"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	Gender              string    `json:"gender,omitempty"`
	Phone               string    `json:"phone,omitempty"`
}

// Appointment is the list shape from GET /api/appointments/.
type Appointment struct {
	ID      uuid.UUID  `json:"id"`
	Patient uuid.UUID  `json:"patient"`
	Staff   *uuid.UUID `json:"staff,omitempty"`
	Date    time.Time  `json:"date"`
	Status  string     `json:"status"`
	Reason  string     `json:"reason,omitempty"`
}
