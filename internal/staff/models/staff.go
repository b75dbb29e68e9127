package models

import (
	"time"

	"github.com/google/uuid"
)

// Staff roles, mirrored in the role gate middleware.
const (
	RoleDoctor    = "doctor"
	RoleNurse     = "nurse"
	RoleReception = "reception"
	RoleBilling   = "billing"
	RoleAdmin     = "admin"
)

var Roles = []string{RoleDoctor, RoleNurse, RoleReception, RoleBilling, RoleAdmin}

func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Staff is a hospital employee. A staff member may be linked to a login
// account; identity fields live on the account, not duplicated here.
type Staff struct {
	ID          uuid.UUID  `json:"id"`
	Tenant      uuid.UUID  `json:"tenant"`
	User        *uuid.UUID `json:"user,omitempty"`
	Role        string     `json:"role"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	IsActive    bool       `json:"is_active"`
	DisplayName string     `json:"display_name,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// User is a login account.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	Password  string    `json:"-"`
}

// StaffRequest is the create/update payload. Username and password are
// optional; when a password is given a linked account is created.
type StaffRequest struct {
	Role      string `json:"role"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	IsActive  *bool  `json:"is_active"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

// CreateUserRequest is the POST /api/staff/:id/create_user/ payload.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the POST /api/login/ payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest is the POST /api/token/refresh/ payload.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// Profile is the GET /api/me/ response, the shape the client session keeps.
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
