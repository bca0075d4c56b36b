package model

import (
	"time"

	"github.com/google/uuid"
)

// Usuario stores system users with role-based access.
// Rol: "despachador" | "supervisor" | "administrador"
type Usuario struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Username       string    `gorm:"uniqueIndex;not null"`
	NombreCompleto string    `gorm:"not null"`
	Email          *string
	PasswordHash   string `gorm:"not null"`
	Rol            string `gorm:"type:varchar(20);not null"`
	// SucursalID restricts the user to one branch; nil = all branches (admin)
	SucursalID *uuid.UUID `gorm:"type:uuid;index"`
	Activo     bool       `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
