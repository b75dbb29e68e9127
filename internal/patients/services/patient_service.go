package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mkadima/hms-backend/internal/patients/models"
)

var ErrPatientNotFound = errors.New("patient not found")

type PatientService struct {
	DB *sql.DB
}

func NewPatientService(db *sql.DB) *PatientService {
	return &PatientService{DB: db}
}

const patientColumns = `id, tenant, first_name, last_name, birth_date, gender, phone, email, address, medical_record_number, allergies, notes, created_at, updated_at`

func scanPatient(row interface{ Scan(...interface{}) error }) (*models.Patient, error) {
	var p models.Patient
	var birthDate sql.NullTime
	var gender, phone, email, address, allergies, notes sql.NullString
	if err := row.Scan(&p.ID, &p.Tenant, &p.FirstName, &p.LastName, &birthDate, &gender,
		&phone, &email, &address, &p.MedicalRecordNumber, &allergies, &notes,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if birthDate.Valid {
		t := birthDate.Time
		p.BirthDate = &t
	}
	p.Gender = gender.String
	p.Phone = phone.String
	p.Email = email.String
	p.Address = address.String
	p.Allergies = allergies.String
	p.Notes = notes.String
	return &p, nil
}

// ListPatients returns patients ordered by last name.
func (s *PatientService) ListPatients(tenant *uuid.UUID) ([]models.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM Patient`
	var params []interface{}
	if tenant != nil {
		query += " WHERE tenant = ?"
		params = append(params, *tenant)
	}
	query += " ORDER BY last_name"

	rows, err := s.DB.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

// GetPatient loads one patient with their recent appointments and invoices.
func (s *PatientService) GetPatient(id uuid.UUID) (*models.Patient, error) {
	row := s.DB.QueryRow(`SELECT `+patientColumns+` FROM Patient WHERE id = ?`, id)
	p, err := scanPatient(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	appts, err := s.DB.Query(`SELECT id, date, status, reason FROM Appointment WHERE patient = ? ORDER BY date DESC`, id)
	if err != nil {
		return nil, err
	}
	defer appts.Close()
	for appts.Next() {
		var a models.AppointmentSummary
		var date sql.NullTime
		var reason sql.NullString
		if err := appts.Scan(&a.ID, &date, &a.Status, &reason); err != nil {
			return nil, err
		}
		if date.Valid {
			t := date.Time
			a.Date = &t
		}
		a.Reason = reason.String
		p.Appointments = append(p.Appointments, a)
	}
	if err := appts.Err(); err != nil {
		return nil, err
	}

	bills, err := s.DB.Query(`SELECT id, amount, currency, issued_at, paid_at FROM Billing WHERE patient = ? ORDER BY issued_at DESC`, id)
	if err != nil {
		return nil, err
	}
	defer bills.Close()
	for bills.Next() {
		var b models.BillingSummary
		var paidAt sql.NullTime
		if err := bills.Scan(&b.ID, &b.Amount, &b.Currency, &b.IssuedAt, &paidAt); err != nil {
			return nil, err
		}
		if paidAt.Valid {
			t := paidAt.Time
			b.PaidAt = &t
		}
		p.Billings = append(p.Billings, b)
	}
	return p, bills.Err()
}

// CreatePatient inserts a patient and generates a medical record number in
// the YYYY/MM/NNNN form: a per-tenant monthly sequence with a uniqueness
// retry loop.
func (s *PatientService) CreatePatient(tenant uuid.UUID, req models.PatientRequest) (*models.Patient, error) {
	now := time.Now()

	var count int
	err := s.DB.QueryRow(`
		SELECT COUNT(*) FROM Patient
		WHERE tenant = ? AND YEAR(created_at) = ? AND MONTH(created_at) = ?`,
		tenant, now.Year(), int(now.Month())).Scan(&count)
	if err != nil {
		return nil, err
	}

	seq := count + 1
	recordNumber := models.FormatRecordNumber(now.Year(), now.Month(), seq)
	for {
		var exists int
		err := s.DB.QueryRow(`SELECT COUNT(*) FROM Patient WHERE tenant = ? AND medical_record_number = ?`,
			tenant, recordNumber).Scan(&exists)
		if err != nil {
			return nil, err
		}
		if exists == 0 {
			break
		}
		seq++
		recordNumber = models.FormatRecordNumber(now.Year(), now.Month(), seq)
	}

	id := uuid.New()
	var birthDate interface{}
	if req.BirthDate != "" {
		parsed, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return nil, errors.New("invalid birth_date, expected YYYY-MM-DD")
		}
		birthDate = parsed
	}

	_, err = s.DB.Exec(`
		INSERT INTO Patient (id, tenant, first_name, last_name, birth_date, gender, phone, email, address, medical_record_number, allergies, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, tenant, req.FirstName, req.LastName, birthDate, req.Gender, req.Phone,
		req.Email, req.Address, recordNumber, req.Allergies, req.Notes, now, now)
	if err != nil {
		return nil, err
	}

	return s.GetPatient(id)
}

// UpdatePatient overwrites the editable fields. The record number is kept.
func (s *PatientService) UpdatePatient(id uuid.UUID, req models.PatientRequest) (*models.Patient, error) {
	var birthDate interface{}
	if req.BirthDate != "" {
		parsed, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			return nil, errors.New("invalid birth_date, expected YYYY-MM-DD")
		}
		birthDate = parsed
	}

	_, err := s.DB.Exec(`
		UPDATE Patient
		SET first_name = ?, last_name = ?, birth_date = ?, gender = ?, phone = ?, email = ?, address = ?, allergies = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		req.FirstName, req.LastName, birthDate, req.Gender, req.Phone, req.Email,
		req.Address, req.Allergies, req.Notes, time.Now(), id)
	if err != nil {
		return nil, err
	}
	return s.GetPatient(id)
}

// DeletePatient removes a patient record.
func (s *PatientService) DeletePatient(id uuid.UUID) error {
	res, err := s.DB.Exec(`DELETE FROM Patient WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrPatientNotFound
	}
	return nil
}

// CountPatients feeds the dashboard.
func (s *PatientService) CountPatients(tenant *uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM Patient`
	var params []interface{}
	if tenant != nil {
		query += " WHERE tenant = ?"
		params = append(params, *tenant)
	}
	var count int
	err := s.DB.QueryRow(query, params...).Scan(&count)
	return count, err
}
