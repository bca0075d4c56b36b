package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipoCombustible is a fuel grade (e.g. SUPER, REGULAR, DIESEL).
type TipoCombustible struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo    string    `gorm:"uniqueIndex;not null"`
	Nombre    string    `gorm:"not null"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
}

func (TipoCombustible) TableName() string { return "tipos_combustible" }

// Tanque is a physical fuel reservoir tied to one branch and one fuel grade.
// StockActual is mutated exclusively through TanqueRepository — never by
// writing the column directly from services.
type Tanque struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	TipoCombustibleID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Codigo            string          `gorm:"not null"`
	CapacidadGalones  decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	StockActual       decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	StockMinimo       decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0"`
	Activo            bool            `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	TipoCombustible *TipoCombustible `gorm:"foreignKey:TipoCombustibleID"`
}

func (Tanque) TableName() string { return "tanques" }

// Bomba is a dispensing pump in a branch forecourt.
type Bomba struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID uuid.UUID `gorm:"type:uuid;not null;index"`
	Codigo     string    `gorm:"not null"`
	Activo     bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
}

func (Bomba) TableName() string { return "bombas" }

// Manguera is one hose of a pump; it draws from exactly one tank and
// therefore fixes the fuel grade a sale line dispenses.
type Manguera struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BombaID           uuid.UUID `gorm:"type:uuid;not null;index"`
	TanqueID          uuid.UUID `gorm:"type:uuid;not null;index"`
	TipoCombustibleID uuid.UUID `gorm:"type:uuid;not null"`
	Codigo            string    `gorm:"not null"`
	Activo            bool      `gorm:"not null;default:true"`
	CreatedAt         time.Time

	Bomba *Bomba `gorm:"foreignKey:BombaID"`
}

func (Manguera) TableName() string { return "mangueras" }
