package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Patient is one patient record. The medical record number is generated
// server-side and never editable.
type Patient struct {
	ID                  uuid.UUID  `json:"id"`
	Tenant              uuid.UUID  `json:"tenant"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	BirthDate           *time.Time `json:"birth_date,omitempty"`
	Gender              string     `json:"gender,omitempty"` // M, F or O
	Phone               string     `json:"phone,omitempty"`
	Email               string     `json:"email,omitempty"`
	Address             string     `json:"address,omitempty"`
	MedicalRecordNumber string     `json:"medical_record_number"`
	Allergies           string     `json:"allergies,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	// embedded on the detail endpoint only
	Appointments []AppointmentSummary `json:"appointments,omitempty"`
	Billings     []BillingSummary     `json:"billings,omitempty"`
}

// AppointmentSummary is the short appointment form embedded in a patient
// detail response.
type AppointmentSummary struct {
	ID     uuid.UUID  `json:"id"`
	Date   *time.Time `json:"date,omitempty"`
	Status string     `json:"status"`
	Reason string     `json:"reason,omitempty"`
}

// BillingSummary is the short invoice form embedded in a patient detail
// response.
type BillingSummary struct {
	ID       uuid.UUID       `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	IssuedAt time.Time       `json:"issued_at"`
	PaidAt   *time.Time      `json:"paid_at,omitempty"`
}

// PatientRequest is the create/update payload.
type PatientRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate string `json:"birth_date"` // YYYY-MM-DD
	Gender    string `json:"gender"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	Allergies string `json:"allergies"`
	Notes     string `json:"notes"`
}

// FormatRecordNumber builds a medical record number in the YYYY/MM/NNNN form
// used on patient cards.
func FormatRecordNumber(year int, month time.Month, seq int) string {
	return fmt.Sprintf("%d/%02d/%04d", year, int(month), seq)
}
