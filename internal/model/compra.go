package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Compra states.
const (
	CompraPendiente = "pendiente"
	CompraPagada    = "pagada"
	CompraAnulada   = "anulada"
)

// Proveedor is a fuel supplier (tanker trucks).
type Proveedor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID   uuid.UUID `gorm:"type:uuid;not null;index"`
	RazonSocial string    `gorm:"not null"`
	NIT         *string   `gorm:"column:nit"`
	Activo      bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Proveedor) TableName() string { return "proveedores" }

// Compra is a fuel purchase invoice header (one tanker delivery).
// Unlike sales, IVA here is additive: the wholesale invoice price excludes it.
type Compra struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ProveedorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	UsuarioID      uuid.UUID `gorm:"type:uuid;not null"`
	NumeroFactura  string    `gorm:"not null"`
	FechaFactura   time.Time `gorm:"not null"`
	FechaRecepcion time.Time `gorm:"not null;index"`

	Subtotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IDPTotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:idp_total"`
	IVATotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:iva_total"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Estado    string  `gorm:"type:varchar(20);not null;default:'pendiente'"`
	Notas     *string
	CreatedAt time.Time

	Detalles  []CompraDetalle `gorm:"foreignKey:CompraID"`
	Proveedor *Proveedor      `gorm:"foreignKey:ProveedorID"`
}

func (Compra) TableName() string { return "compras" }

// CompraDetalle is one received line: gallons poured into one tank.
type CompraDetalle struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	TanqueID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	TipoCombustibleID uuid.UUID       `gorm:"type:uuid;not null"`
	Galones           decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	PrecioUnitario    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IDPUnitario       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0;column:idp_unitario"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IDPTotal          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:idp_total"`
}

func (CompraDetalle) TableName() string { return "compra_detalle" }
