package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PrecioCombustible is one pricing row per (sucursal, tipo combustible).
// The effective price at any instant is the active row with the latest
// VigenteDesde not in the future. Rows are never updated in place: a price
// change inserts a new row.
type PrecioCombustible struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_precio_sucursal_tipo"`
	TipoCombustibleID uuid.UUID       `gorm:"type:uuid;not null;index:idx_precio_sucursal_tipo"`
	PrecioUnitario    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	// IDPPorGalon is the per-gallon excise tax, additive to the price.
	IDPPorGalon  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0;column:idp_por_galon"`
	VigenteDesde time.Time       `gorm:"not null"`
	Activo       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
}

func (PrecioCombustible) TableName() string { return "precios_combustible" }
