package entity

import "time"

// Roles de operador del dashboard.
const (
	RoleAdmin    = "admin"
	RoleOperador = "operador"
)

// User cuenta de operador (autenticación del dashboard).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
