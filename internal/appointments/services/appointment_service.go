package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mkadima/hms-backend/internal/appointments/models"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidDate         = errors.New("invalid date, expected RFC 3339 or YYYY-MM-DDTHH:MM")
	ErrInvalidStatus       = errors.New("invalid status")
)

type AppointmentService struct {
	DB *sql.DB
}

func NewAppointmentService(db *sql.DB) *AppointmentService {
	return &AppointmentService{DB: db}
}

const appointmentColumns = `id, tenant, patient, staff, date, location, status, reason, created_at, updated_at`

func scanAppointment(row interface{ Scan(...interface{}) error }) (*models.Appointment, error) {
	var a models.Appointment
	var staff uuid.NullUUID
	var date sql.NullTime
	var location, reason sql.NullString
	if err := row.Scan(&a.ID, &a.Tenant, &a.Patient, &staff, &date, &location,
		&a.Status, &reason, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if staff.Valid {
		a.Staff = &staff.UUID
	}
	if date.Valid {
		t := date.Time
		a.Date = &t
	}
	a.Location = location.String
	a.Reason = reason.String
	return &a, nil
}

// parseDate accepts RFC 3339 or the datetime-local form the scheduling form
// sends.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, ErrInvalidDate
}

// ListAppointments returns appointments, newest first.
func (s *AppointmentService) ListAppointments(tenant *uuid.UUID) ([]models.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM Appointment`
	var params []interface{}
	if tenant != nil {
		query += " WHERE tenant = ?"
		params = append(params, *tenant)
	}
	query += " ORDER BY date DESC"

	rows, err := s.DB.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func (s *AppointmentService) GetAppointment(id uuid.UUID) (*models.Appointment, error) {
	row := s.DB.QueryRow(`SELECT `+appointmentColumns+` FROM Appointment WHERE id = ?`, id)
	a, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	return a, err
}

func (s *AppointmentService) CreateAppointment(tenant uuid.UUID, req models.AppointmentRequest) (*models.Appointment, error) {
	patientID, err := uuid.Parse(req.Patient)
	if err != nil {
		return nil, errors.New("patient is required")
	}

	status := req.Status
	if status == "" {
		status = models.StatusScheduled
	}
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	var staffVal interface{}
	if req.Staff != "" {
		if sid, err := uuid.Parse(req.Staff); err == nil {
			staffVal = sid
		}
	}
	var dateVal interface{}
	if date != nil {
		dateVal = *date
	}

	id := uuid.New()
	now := time.Now()
	_, err = s.DB.Exec(`
		INSERT INTO Appointment (id, tenant, patient, staff, date, location, status, reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, tenant, patientID, staffVal, dateVal, req.Location, status, req.Reason, now, now)
	if err != nil {
		return nil, err
	}
	return s.GetAppointment(id)
}

func (s *AppointmentService) UpdateAppointment(id uuid.UUID, req models.AppointmentRequest) (*models.Appointment, error) {
	existing, err := s.GetAppointment(id)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = existing.Status
	}
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	var dateVal interface{}
	if date != nil {
		dateVal = *date
	} else if existing.Date != nil {
		dateVal = *existing.Date
	}

	var staffVal interface{}
	if req.Staff != "" {
		if sid, err := uuid.Parse(req.Staff); err == nil {
			staffVal = sid
		}
	} else if existing.Staff != nil {
		staffVal = *existing.Staff
	}

	_, err = s.DB.Exec(`
		UPDATE Appointment SET staff = ?, date = ?, location = ?, status = ?, reason = ?, updated_at = ?
		WHERE id = ?`,
		staffVal, dateVal, req.Location, status, req.Reason, time.Now(), id)
	if err != nil {
		return nil, err
	}
	return s.GetAppointment(id)
}

func (s *AppointmentService) DeleteAppointment(id uuid.UUID) error {
	res, err := s.DB.Exec(`DELETE FROM Appointment WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// CountToday feeds the dashboard: appointments scheduled for the current day.
func (s *AppointmentService) CountToday(tenant *uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM Appointment WHERE DATE(date) = CURDATE()`
	var params []interface{}
	if tenant != nil {
		query += " AND tenant = ?"
		params = append(params, *tenant)
	}
	var count int
	err := s.DB.QueryRow(query, params...).Scan(&count)
	return count, err
}
