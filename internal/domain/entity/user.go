package entity

import "time"

// Roles válidos para User.
const (
	RoleClient  = "client"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// ValidRole indica si el rol es uno de los soportados.
func ValidRole(role string) bool {
	switch role {
	case RoleClient, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User representa un usuario del sistema. Los clientes de las ventas también son User (role client)
// y se identifican externamente por su cédula.
type User struct {
	ID           string
	Email        string
	Cedula       string
	FullName     string
	PasswordHash string
	IsActive     bool
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
