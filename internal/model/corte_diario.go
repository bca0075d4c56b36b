package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Variance classifications for a corte diario.
const (
	CorteMerma    = "MERMA"
	CorteSobrante = "SOBRANTE"
	CorteExacto   = "EXACTO"
)

// CorteDiario is the end-of-day volumetric reconciliation of one tank:
// teorico = inicial + compras - ventas; variacion = fisico - teorico.
// Exactly one record exists per (sucursal, tanque, fecha) — a re-submission
// overwrites the previous one.
type CorteDiario struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_corte_sucursal_tanque_fecha"`
	TanqueID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_corte_sucursal_tanque_fecha"`
	TipoCombustibleID uuid.UUID `gorm:"type:uuid;not null"`
	Fecha             time.Time `gorm:"type:date;not null;uniqueIndex:idx_corte_sucursal_tanque_fecha"`

	StockInicial      decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	ComprasDia        decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	VentasDia         decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	StockFinalTeorico decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	StockFinalFisico  decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	// Variacion < 0 is merma (shrinkage), > 0 sobrante.
	Variacion           decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	PorcentajeVariacion decimal.Decimal `gorm:"type:decimal(8,4);not null"`

	UsuarioID uuid.UUID `gorm:"type:uuid;not null"`
	Notas     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CorteDiario) TableName() string { return "cortes_diarios" }

// Clasificacion returns MERMA, SOBRANTE or EXACTO according to the sign of
// the variance.
func (c *CorteDiario) Clasificacion() string {
	switch {
	case c.Variacion.IsNegative():
		return CorteMerma
	case c.Variacion.IsPositive():
		return CorteSobrante
	default:
		return CorteExacto
	}
}
