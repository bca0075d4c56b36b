package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vale states.
const (
	ValeActivo  = "activo"
	ValeAgotado = "agotado"
	ValeVencido = "vencido"
	ValeAnulado = "anulado"
)

// Cliente is a corporate credit holder. SaldoActual is the outstanding
// balance across all consumed vales; it never exceeds LimiteCredito
// because the consume path guards the increment.
type Cliente struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	RazonSocial   string          `gorm:"not null"`
	NIT           *string         `gorm:"column:nit"`
	LimiteCredito decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SaldoActual   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Activo        bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Cliente) TableName() string { return "clientes" }

// Vale is a pre-authorized corporate credit voucher. MontoConsumido never
// exceeds MontoAutorizado; reaching it flips Estado to agotado. Both
// counters are mutated only by ValeRepository inside the sale transaction.
type Vale struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID uuid.UUID `gorm:"type:uuid;not null;index"`
	ClienteID uuid.UUID `gorm:"type:uuid;not null;index"`
	Codigo    string    `gorm:"uniqueIndex;not null"`
	// Optional fuel-grade restriction (vale only redeemable for diesel, etc.)
	TipoCombustibleID *uuid.UUID `gorm:"type:uuid"`

	MontoAutorizado    decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	MontoConsumido     decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	GalonesAutorizados *decimal.Decimal `gorm:"type:decimal(12,4)"`
	GalonesConsumidos  decimal.Decimal  `gorm:"type:decimal(12,4);not null;default:0"`

	FechaVencimiento time.Time `gorm:"type:date;not null"`
	// SucursalValida restricts redemption to one branch; nil = any branch.
	SucursalValida *uuid.UUID `gorm:"type:uuid"`
	Estado         string     `gorm:"type:varchar(20);not null;default:'activo'"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
}

func (Vale) TableName() string { return "vales" }

// SaldoDisponible returns the remaining redeemable amount on the vale.
func (v *Vale) SaldoDisponible() decimal.Decimal {
	return v.MontoAutorizado.Sub(v.MontoConsumido)
}
