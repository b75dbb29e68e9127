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
	ErrParentNotFound = errors.New("parent acte not found")
	ErrNestedSubActe  = errors.New("a sub-act cannot have sub-acts of its own")
)

// ActeService handles the billable act catalog.
type ActeService struct {
	DB *sql.DB
}

func NewActeService(db *sql.DB) *ActeService {
	return &ActeService{DB: db}
}

const acteColumns = `id, tenant, parent, code, name, description, amount, currency, active, created_at, updated_at`

func scanActe(row interface{ Scan(...interface{}) error }) (*models.Acte, error) {
	var a models.Acte
	var parent uuid.NullUUID
	var description sql.NullString
	if err := row.Scan(&a.ID, &a.Tenant, &parent, &a.Code, &a.Name, &description,
		&a.Amount, &a.Currency, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if parent.Valid {
		a.Parent = &parent.UUID
	}
	a.Description = description.String
	return &a, nil
}

// ListActes returns the active acts, tenant-scoped when a tenant is resolved,
// ordered by name. The client derives the parent/child grouping itself.
func (s *ActeService) ListActes(tenant *uuid.UUID) ([]models.Acte, error) {
	query := `SELECT ` + acteColumns + ` FROM Acte WHERE active = 1`
	var params []interface{}
	if tenant != nil {
		query += " AND tenant = ?"
		params = append(params, *tenant)
	}
	query += " ORDER BY name"

	rows, err := s.DB.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.Acte
	for rows.Next() {
		a, err := scanActe(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

// GetActe loads a single act by id.
func (s *ActeService) GetActe(id uuid.UUID) (*models.Acte, error) {
	row := s.DB.QueryRow(`SELECT `+acteColumns+` FROM Acte WHERE id = ?`, id)
	return scanActe(row)
}

// CreateActe inserts an act. When a parent is given the parent must itself be
// top-level (the hierarchy is one level deep) and its amount is recomputed as
// the sum of its children afterwards.
func (s *ActeService) CreateActe(tenant uuid.UUID, req models.CreateActeRequest) (*models.Acte, error) {
	currency := req.Currency
	if currency == "" {
		currency = models.CurrencyCDF
	}

	var parentID *uuid.UUID
	if req.Parent != "" {
		pid, err := uuid.Parse(req.Parent)
		if err != nil {
			return nil, ErrParentNotFound
		}
		parent, err := s.GetActe(pid)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if parent.Parent != nil {
			return nil, ErrNestedSubActe
		}
		parentID = &parent.ID
	}

	id := uuid.New()
	now := time.Now()
	var parentVal interface{}
	if parentID != nil {
		parentVal = *parentID
	}
	_, err := s.DB.Exec(`
		INSERT INTO Acte (id, tenant, parent, code, name, description, amount, currency, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		id, tenant, parentVal, req.Code, req.Name, req.Description, req.Amount, currency, now, now)
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		if err := s.recomputeParentAmount(*parentID); err != nil {
			return nil, err
		}
	}

	return s.GetActe(id)
}

// recomputeParentAmount keeps a parent's amount equal to the sum of its
// children's amounts whenever a child is written.
func (s *ActeService) recomputeParentAmount(parentID uuid.UUID) error {
	var total decimal.Decimal
	err := s.DB.QueryRow(`SELECT COALESCE(SUM(amount), 0) FROM Acte WHERE parent = ?`, parentID).Scan(&total)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(`UPDATE Acte SET amount = ?, updated_at = ? WHERE id = ?`, total, time.Now(), parentID)
	return err
}

// resolveActe finds an act by id, code or display name (in that order), so
// the client may send display values. Returns sql.ErrNoRows when nothing
// matches.
func (s *ActeService) resolveActe(tenant *uuid.UUID, ref string) (*models.Acte, error) {
	if id, err := uuid.Parse(ref); err == nil {
		if a, err := s.GetActe(id); err == nil {
			return a, nil
		} else if err != sql.ErrNoRows {
			return nil, err
		}
	}

	query := `SELECT ` + acteColumns + ` FROM Acte WHERE (LOWER(code) = LOWER(?) OR LOWER(name) = LOWER(?))`
	params := []interface{}{ref, ref}
	if tenant != nil {
		query += " AND tenant = ?"
		params = append(params, *tenant)
	}
	query += " LIMIT 1"
	return scanActe(s.DB.QueryRow(query, params...))
}
