package domain

import "time"

// Roles conocidos. La escalación de rol es siempre en una sola dirección.
const (
	RoleUser    = "usuario"
	RoleCompany = "empresa"
	RoleAdmin   = "admin"
)

// User es el registro de identidad. ActionToken es el único slot de token
// pendiente: emitir uno nuevo invalida el anterior.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Sex          string     `json:"sex,omitempty"`
	Role         string     `json:"role"`
	CompanyID    *int64     `json:"company_id,omitempty"`
	DisabilityID *int64     `json:"disability_id,omitempty"`
	Verified     bool       `json:"verified"`
	ActionToken  string     `json:"-"`
	RegisteredAt time.Time  `json:"registered_at"`
}

// IsAdmin indica si el usuario tiene rol de administrador.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserDisability asocia un usuario con una discapacidad registrada.
type UserDisability struct {
	UserID         string `json:"user_id"`
	DisabilityID   int64  `json:"disability_id"`
	DisabilityName string `json:"disability_name"`
	Severity       string `json:"severity,omitempty"`
}
