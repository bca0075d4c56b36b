package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement kinds.
const (
	MovimientoVenta  = "venta"
	MovimientoCompra = "compra"
)

// MovimientoCombustible is one immutable entry in the fuel ledger: each
// stock-affecting line (sale or purchase) appends exactly one, inside the
// same transaction as the stock mutation, so StockAntes/StockDespues are a
// true snapshot of that mutation. Entries are never updated or deleted —
// cancellations do not remove them; the corte diario absorbs corrections.
type MovimientoCombustible struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	TanqueID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	TipoCombustibleID uuid.UUID       `gorm:"type:uuid;not null"`
	TipoMovimiento    string          `gorm:"type:varchar(20);not null"`
	Galones           decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	StockAntes        decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	StockDespues      decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	// ReferenciaID links to the originating venta or compra.
	ReferenciaID uuid.UUID `gorm:"type:uuid;not null;index"`
	UsuarioID    uuid.UUID `gorm:"type:uuid;not null"`
	Fecha        time.Time `gorm:"not null;index"`
}

func (MovimientoCombustible) TableName() string { return "movimientos_combustible" }
