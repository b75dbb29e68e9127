package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mkadima/hms-backend/internal/billing/models"
)

var (
	ErrBillingNotFound = errors.New("billing not found")
	ErrInvalidAmount   = errors.New("amount must be > 0")
	ErrPatientRequired = errors.New("patient is required")
	ErrAlreadyPaid     = errors.New("billing already marked paid")
)

// BillingService handles invoices and their payment ledger. The backend is
// the single source of truth for paid_total and remaining_due.
type BillingService struct {
	DB    *sql.DB
	Actes *ActeService
}

func NewBillingService(db *sql.DB) *BillingService {
	return &BillingService{DB: db, Actes: NewActeService(db)}
}

// composeItems builds the line snapshots for an invoice. resolve looks an
// act reference up by id, code or name; a reference matching nothing leaves
// the line as submitted. Returns the lines and their summed total.
func composeItems(items []models.BillingItemInput, fallbackCurrency string, resolve func(ref string) (*models.Acte, error)) ([]models.BillingItem, decimal.Decimal, error) {
	var lines []models.BillingItem
	amount := decimal.Zero
	for _, in := range items {
		line := models.BillingItem{
			ID:          uuid.New(),
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Currency:    in.Currency,
			Discount:    in.Discount,
		}
		if line.Quantity < 1 {
			line.Quantity = 1
		}
		if in.Acte != "" {
			acte, err := resolve(in.Acte)
			if err != nil && err != sql.ErrNoRows {
				return nil, decimal.Zero, err
			}
			if acte != nil {
				line.Acte = &acte.ID
				line.ActeDisplay = acte.Name
				if line.UnitPrice.IsZero() {
					line.UnitPrice = acte.Amount
				}
				if line.Currency == "" {
					line.Currency = acte.Currency
				}
				if line.Description == "" {
					line.Description = acte.Name
				}
			}
		}
		if line.Currency == "" {
			line.Currency = fallbackCurrency
		}
		line.ComputeTotal()
		amount = amount.Add(line.Total)
		lines = append(lines, line)
	}
	return lines, amount, nil
}

// CreateBilling composes and stores an invoice. Nested items (or the
// convenience top-level acte form) snapshot the acte price and currency;
// the invoice amount is the sum of the line totals when not given.
func (s *BillingService) CreateBilling(tenant uuid.UUID, req models.CreateBillingRequest) (*models.Billing, error) {
	if req.Patient == "" {
		return nil, ErrPatientRequired
	}
	patientID, err := uuid.Parse(req.Patient)
	if err != nil {
		return nil, ErrPatientRequired
	}

	// top-level acte shorthand becomes a single nested item
	items := req.Items
	if len(items) == 0 && req.Acte != "" {
		qty := req.Quantity
		if qty == 0 {
			qty = 1
		}
		items = []models.BillingItemInput{{Acte: req.Acte, Description: req.Description, Quantity: qty}}
	}

	currency := req.Currency
	if currency == "" {
		currency = models.CurrencyCDF
	}

	lines, amount, err := composeItems(items, currency, func(ref string) (*models.Acte, error) {
		return s.Actes.resolveActe(&tenant, ref)
	})
	if err != nil {
		return nil, err
	}

	if !req.Amount.IsZero() {
		amount = req.Amount
	}

	id := uuid.New()
	now := time.Now()

	var appointmentVal interface{}
	if req.Appointment != "" {
		if aid, err := uuid.Parse(req.Appointment); err == nil {
			appointmentVal = aid
		}
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO Billing (id, tenant, patient, appointment, amount, currency, description, issued_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, tenant, patientID, appointmentVal, amount, currency, req.Description, now, now, now)
	if err != nil {
		return nil, err
	}

	for _, line := range lines {
		var acteVal interface{}
		if line.Acte != nil {
			acteVal = *line.Acte
		}
		_, err = tx.Exec(`
			INSERT INTO Billing_Item (id, billing, acte, description, quantity, unit_price, currency, discount, total, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			line.ID, id, acteVal, line.Description, line.Quantity, line.UnitPrice, line.Currency, line.Discount, line.Total, now, now)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetBilling(id)
}

const billingColumns = `b.id, b.tenant, b.patient, b.appointment, b.amount, b.currency, b.description, b.issued_at, b.paid_at,
		TRIM(CONCAT(COALESCE(p.last_name, ''), ' ', COALESCE(p.first_name, ''))),
		COALESCE(pay.paid, 0)`

const billingFrom = ` FROM Billing b
		LEFT JOIN Patient p ON b.patient = p.id
		LEFT JOIN (SELECT billing, SUM(amount) AS paid FROM Billing_Payment GROUP BY billing) pay ON pay.billing = b.id`

func scanBilling(row interface{ Scan(...interface{}) error }) (*models.Billing, error) {
	var b models.Billing
	var appointment uuid.NullUUID
	var description, patientDisplay sql.NullString
	var paidAt sql.NullTime
	if err := row.Scan(&b.ID, &b.Tenant, &b.Patient, &appointment, &b.Amount, &b.Currency,
		&description, &b.IssuedAt, &paidAt, &patientDisplay, &b.PaidTotal); err != nil {
		return nil, err
	}
	if appointment.Valid {
		b.Appointment = &appointment.UUID
	}
	if paidAt.Valid {
		t := paidAt.Time
		b.PaidAt = &t
	}
	b.Description = description.String
	b.PatientDisplay = patientDisplay.String
	b.RemainingDue = b.Amount.Sub(b.PaidTotal)
	return &b, nil
}

// GetBilling loads an invoice with its items, payments and derived ledger
// fields.
func (s *BillingService) GetBilling(id uuid.UUID) (*models.Billing, error) {
	row := s.DB.QueryRow(`SELECT `+billingColumns+billingFrom+` WHERE b.id = ?`, id)
	b, err := scanBilling(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBillingNotFound
		}
		return nil, err
	}
	if b.Items, err = s.loadItems(b.ID); err != nil {
		return nil, err
	}
	if b.Payments, err = s.loadPayments(b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBilling returns invoices ordered by issue date, newest first.
func (s *BillingService) ListBilling(tenant *uuid.UUID) ([]models.Billing, error) {
	query := `SELECT ` + billingColumns + billingFrom
	var params []interface{}
	if tenant != nil {
		query += " WHERE b.tenant = ?"
		params = append(params, *tenant)
	}
	query += " ORDER BY b.issued_at DESC"

	rows, err := s.DB.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Billing
	for rows.Next() {
		b, err := scanBilling(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if result[i].Items, err = s.loadItems(result[i].ID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *BillingService) loadItems(billingID uuid.UUID) ([]models.BillingItem, error) {
	rows, err := s.DB.Query(`
		SELECT i.id, i.billing, i.acte, COALESCE(a.name, ''), i.description, i.quantity, i.unit_price, i.currency, i.discount, i.total
		FROM Billing_Item i
		LEFT JOIN Acte a ON i.acte = a.id
		WHERE i.billing = ?
		ORDER BY i.created_at`, billingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.BillingItem
	for rows.Next() {
		var it models.BillingItem
		var acte uuid.NullUUID
		var description sql.NullString
		if err := rows.Scan(&it.ID, &it.Billing, &acte, &it.ActeDisplay, &description,
			&it.Quantity, &it.UnitPrice, &it.Currency, &it.Discount, &it.Total); err != nil {
			return nil, err
		}
		if acte.Valid {
			it.Acte = &acte.UUID
		}
		it.Description = description.String
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *BillingService) loadPayments(billingID uuid.UUID) ([]models.BillingPayment, error) {
	rows, err := s.DB.Query(`
		SELECT id, billing, amount, currency, method, paid_at
		FROM Billing_Payment
		WHERE billing = ?
		ORDER BY paid_at DESC`, billingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.BillingPayment
	for rows.Next() {
		var p models.BillingPayment
		var method sql.NullString
		if err := rows.Scan(&p.ID, &p.Billing, &p.Amount, &p.Currency, &method, &p.PaidAt); err != nil {
			return nil, err
		}
		p.Method = method.String
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// AddPayment appends one payment record to the invoice ledger and stamps
// paid_at once the payments cover the invoice amount. Returns the updated
// invoice with its derived fields.
func (s *BillingService) AddPayment(id uuid.UUID, req models.AddPaymentRequest) (*models.Billing, error) {
	if req.Amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	billing, err := s.GetBilling(id)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = billing.Currency
	}

	now := time.Now()
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO Billing_Payment (id, billing, amount, currency, method, paid_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New(), id, req.Amount, currency, req.Method, now, now, now)
	if err != nil {
		return nil, err
	}

	// re-aggregate after the insert; a pre-insert snapshot misses payments
	// recorded concurrently
	var paid decimal.Decimal
	if err := tx.QueryRow(`SELECT COALESCE(SUM(amount), 0) FROM Billing_Payment WHERE billing = ?`, id).Scan(&paid); err != nil {
		return nil, err
	}
	if billing.PaidAt == nil && paid.GreaterThanOrEqual(billing.Amount) {
		if _, err := tx.Exec(`UPDATE Billing SET paid_at = ?, updated_at = ? WHERE id = ?`, now, now, id); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetBilling(id)
}

// MarkPaid stamps paid_at without touching the payment ledger, for invoices
// settled outside the system. Rejects an invoice already stamped.
func (s *BillingService) MarkPaid(id uuid.UUID) (*models.Billing, error) {
	billing, err := s.GetBilling(id)
	if err != nil {
		return nil, err
	}
	if billing.PaidAt != nil {
		return nil, ErrAlreadyPaid
	}
	now := time.Now()
	if _, err := s.DB.Exec(`UPDATE Billing SET paid_at = ?, updated_at = ? WHERE id = ?`, now, now, id); err != nil {
		return nil, err
	}
	return s.GetBilling(id)
}

// UpdateBilling overwrites the editable invoice fields. When items are
// submitted the existing lines are deleted and recreated with fresh acte
// snapshots; the amount then follows the new line totals unless given.
func (s *BillingService) UpdateBilling(id uuid.UUID, req models.CreateBillingRequest) (*models.Billing, error) {
	existing, err := s.GetBilling(id)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = existing.Currency
	}
	description := req.Description
	if description == "" {
		description = existing.Description
	}
	amount := existing.Amount

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now()
	if len(req.Items) > 0 {
		tenant := existing.Tenant
		lines, sum, err := composeItems(req.Items, currency, func(ref string) (*models.Acte, error) {
			return s.Actes.resolveActe(&tenant, ref)
		})
		if err != nil {
			return nil, err
		}
		if _, err := tx.Exec(`DELETE FROM Billing_Item WHERE billing = ?`, id); err != nil {
			return nil, err
		}
		for _, line := range lines {
			var acteVal interface{}
			if line.Acte != nil {
				acteVal = *line.Acte
			}
			_, err = tx.Exec(`
				INSERT INTO Billing_Item (id, billing, acte, description, quantity, unit_price, currency, discount, total, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				line.ID, id, acteVal, line.Description, line.Quantity, line.UnitPrice, line.Currency, line.Discount, line.Total, now, now)
			if err != nil {
				return nil, err
			}
		}
		amount = sum
	}
	if !req.Amount.IsZero() {
		amount = req.Amount
	}

	_, err = tx.Exec(`UPDATE Billing SET amount = ?, currency = ?, description = ?, updated_at = ? WHERE id = ?`,
		amount, currency, description, now, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetBilling(id)
}

// DeleteBilling removes the invoice with its items and payments. Irreversible.
func (s *BillingService) DeleteBilling(id uuid.UUID) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM Billing_Payment WHERE billing = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM Billing_Item WHERE billing = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM Billing WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrBillingNotFound
	}
	return tx.Commit()
}

// Totals aggregates invoiced, paid and unpaid amounts per currency. One row
// per supported currency, zeroes when nothing is invoiced yet.
func (s *BillingService) Totals(tenant *uuid.UUID) ([]models.TotalsRow, error) {
	result := make([]models.TotalsRow, 0, len(models.Currencies))
	for _, cur := range models.Currencies {
		row := models.TotalsRow{Currency: cur}

		query := `SELECT COALESCE(SUM(amount), 0) FROM Billing WHERE currency = ?`
		params := []interface{}{cur}
		if tenant != nil {
			query += " AND tenant = ?"
			params = append(params, *tenant)
		}
		if err := s.DB.QueryRow(query, params...).Scan(&row.Total); err != nil {
			return nil, err
		}

		query = `SELECT COALESCE(SUM(p.amount), 0) FROM Billing_Payment p JOIN Billing b ON p.billing = b.id WHERE b.currency = ?`
		params = []interface{}{cur}
		if tenant != nil {
			query += " AND b.tenant = ?"
			params = append(params, *tenant)
		}
		if err := s.DB.QueryRow(query, params...).Scan(&row.Paid); err != nil {
			return nil, err
		}

		row.Unpaid = row.Total.Sub(row.Paid)
		result = append(result, row)
	}
	return result, nil
}
