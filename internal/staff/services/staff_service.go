package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkadima/hms-backend/internal/staff/models"
)

var (
	ErrStaffNotFound      = errors.New("staff not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyLinked      = errors.New("staff already linked to a user")
	ErrPasswordRequired   = errors.New("password is required")
)

type StaffService struct {
	DB *sql.DB
}

func NewStaffService(db *sql.DB) *StaffService {
	return &StaffService{DB: db}
}

const staffColumns = `s.id, s.tenant, s.user, s.role, s.email, s.phone, s.is_active, s.created_at, s.updated_at,
		TRIM(CONCAT(COALESCE(u.first_name, ''), ' ', COALESCE(u.last_name, ''))), COALESCE(u.username, '')`

const staffFrom = ` FROM Staff s LEFT JOIN App_User u ON s.user = u.id`

func scanStaff(row interface{ Scan(...interface{}) error }) (*models.Staff, error) {
	var st models.Staff
	var user uuid.NullUUID
	var email, phone sql.NullString
	var fullName, username string
	if err := row.Scan(&st.ID, &st.Tenant, &user, &st.Role, &email, &phone,
		&st.IsActive, &st.CreatedAt, &st.UpdatedAt, &fullName, &username); err != nil {
		return nil, err
	}
	if user.Valid {
		st.User = &user.UUID
	}
	st.Email = email.String
	st.Phone = phone.String
	// display name preference: full name, then username, then email
	switch {
	case fullName != "":
		st.DisplayName = fullName
	case username != "":
		st.DisplayName = username
	case st.Email != "":
		st.DisplayName = st.Email
	}
	return &st, nil
}

// ListStaff returns staff ordered by role then name.
func (s *StaffService) ListStaff(tenant *uuid.UUID) ([]models.Staff, error) {
	query := `SELECT ` + staffColumns + staffFrom
	var params []interface{}
	if tenant != nil {
		query += " WHERE s.tenant = ?"
		params = append(params, *tenant)
	}
	query += " ORDER BY s.role, u.last_name, u.first_name"

	rows, err := s.DB.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Staff
	for rows.Next() {
		st, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *st)
	}
	return result, rows.Err()
}

func (s *StaffService) GetStaff(id uuid.UUID) (*models.Staff, error) {
	row := s.DB.QueryRow(`SELECT `+staffColumns+staffFrom+` WHERE s.id = ?`, id)
	st, err := scanStaff(row)
	if err == sql.ErrNoRows {
		return nil, ErrStaffNotFound
	}
	return st, err
}

// CreateStaff inserts a staff member; when a password is provided a linked
// login account is created with a derived unique username.
func (s *StaffService) CreateStaff(tenant uuid.UUID, req models.StaffRequest) (*models.Staff, error) {
	id := uuid.New()
	now := time.Now()
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	_, err := s.DB.Exec(`
		INSERT INTO Staff (id, tenant, user, role, email, phone, is_active, created_at, updated_at)
		VALUES (?, ?, NULL, ?, ?, ?, ?, ?, ?)`,
		id, tenant, req.Role, req.Email, req.Phone, isActive, now, now)
	if err != nil {
		return nil, err
	}

	if req.Password != "" {
		if _, err := s.linkUser(id, req.Username, req.Password, req.Email, req.FirstName, req.LastName); err != nil {
			return nil, err
		}
	}

	return s.GetStaff(id)
}

// CreateUserForStaff links a login account to an existing staff member.
func (s *StaffService) CreateUserForStaff(id uuid.UUID, req models.CreateUserRequest) (*models.Staff, error) {
	st, err := s.GetStaff(id)
	if err != nil {
		return nil, err
	}
	if st.User != nil {
		return nil, ErrAlreadyLinked
	}
	if req.Password == "" {
		return nil, ErrPasswordRequired
	}
	if _, err := s.linkUser(id, req.Username, req.Password, st.Email, "", ""); err != nil {
		return nil, err
	}
	return s.GetStaff(id)
}

// linkUser creates an App_User with a unique username and points the staff
// row at it.
func (s *StaffService) linkUser(staffID uuid.UUID, username, password, email, firstName, lastName string) (uuid.UUID, error) {
	if username == "" {
		if email != "" {
			username = strings.SplitN(email, "@", 2)[0]
		} else {
			username = "staff_" + staffID.String()[:8]
		}
	}

	orig := username
	counter := 1
	for {
		var exists int
		if err := s.DB.QueryRow(`SELECT COUNT(*) FROM App_User WHERE username = ?`, username).Scan(&exists); err != nil {
			return uuid.Nil, err
		}
		if exists == 0 {
			break
		}
		username = fmt.Sprintf("%s%d", orig, counter)
		counter++
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, err
	}

	userID := uuid.New()
	if _, err := s.DB.Exec(`
		INSERT INTO App_User (id, username, email, first_name, last_name, password)
		VALUES (?, ?, ?, ?, ?, ?)`,
		userID, username, email, firstName, lastName, string(hashed)); err != nil {
		return uuid.Nil, err
	}
	if _, err := s.DB.Exec(`UPDATE Staff SET user = ?, updated_at = ? WHERE id = ?`, userID, time.Now(), staffID); err != nil {
		return uuid.Nil, err
	}
	return userID, nil
}

func (s *StaffService) DeleteStaff(id uuid.UUID) error {
	res, err := s.DB.Exec(`DELETE FROM Staff WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrStaffNotFound
	}
	return nil
}

// Authenticate verifies the credentials and returns the profile used to
// build the token claims. Inactive staff cannot log in.
func (s *StaffService) Authenticate(username, password string) (*models.Profile, string, error) {
	var userID uuid.UUID
	var hashed string
	var email sql.NullString
	err := s.DB.QueryRow(`SELECT id, password, email FROM App_User WHERE username = ?`, username).
		Scan(&userID, &hashed, &email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	var staffID uuid.UUID
	var role string
	var isActive bool
	var tenantSlug, tenantName sql.NullString
	err = s.DB.QueryRow(`
		SELECT s.id, s.role, s.is_active, t.slug, t.name
		FROM Staff s
		LEFT JOIN Tenant t ON s.tenant = t.id
		WHERE s.user = ?`, userID).Scan(&staffID, &role, &isActive, &tenantSlug, &tenantName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !isActive {
		return nil, "", ErrInvalidCredentials
	}

	profile := &models.Profile{
		Username:   username,
		Email:      email.String,
		Role:       role,
		TenantSlug: tenantSlug.String,
		TenantName: tenantName.String,
	}
	return profile, staffID.String(), nil
}

// ProfileByUsername serves GET /api/me/.
func (s *StaffService) ProfileByUsername(username string) (*models.Profile, error) {
	var email sql.NullString
	var role, tenantSlug, tenantName sql.NullString
	err := s.DB.QueryRow(`
		SELECT u.email, s.role, t.slug, t.name
		FROM App_User u
		LEFT JOIN Staff s ON s.user = u.id
		LEFT JOIN Tenant t ON s.tenant = t.id
		WHERE u.username = ?`, username).Scan(&email, &role, &tenantSlug, &tenantName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return &models.Profile{
		Username:   username,
		Email:      email.String,
		Role:       role.String,
		TenantSlug: tenantSlug.String,
		TenantName: tenantName.String,
	}, nil
}
