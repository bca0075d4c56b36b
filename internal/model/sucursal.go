package model

import (
	"time"

	"github.com/google/uuid"
)

// Empresa is the tenant root: every sucursal, cliente and vale belongs to one.
type Empresa struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	NIT       *string   `gorm:"column:nit"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sucursal is one fuel station branch. Numero is a small correlative used to
// build ticket numbers (T{numero}-{fecha}-{seq}).
type Sucursal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID uuid.UUID `gorm:"type:uuid;not null;index"`
	Numero    int       `gorm:"not null;uniqueIndex"`
	Nombre    string    `gorm:"not null"`
	Direccion *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Empresa *Empresa `gorm:"foreignKey:EmpresaID"`
}

func (Sucursal) TableName() string { return "sucursales" }
