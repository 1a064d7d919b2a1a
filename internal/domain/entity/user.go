package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"      // administra catálogo, transportadoras y usuarios
	RoleSupervisor = "supervisor" // planea olas, autoriza ajustes y devoluciones
	RoleOperario   = "operario"   // ejecuta picking, put-away y recepción
)

// User representa un usuario operativo del almacén.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"` // bcrypt hash, nunca plano en dominio después de persistir
	Name         string    `json:"name"`
	Role         string    `json:"role"` // admin, supervisor, operario
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
