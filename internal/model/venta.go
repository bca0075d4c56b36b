package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta states.
const (
	VentaCompletada = "completada"
	VentaAnulada    = "anulada"
)

// Payment methods accepted at the POS.
const (
	PagoEfectivo = "efectivo"
	PagoTarjeta  = "tarjeta"
	PagoVale     = "vale"
	PagoMixto    = "mixto"
)

// Venta is a POS ticket header. Lines are immutable once the sale commits;
// only Estado may transition (completada -> anulada). Voiding does NOT
// reverse tank stock — fuel corrections flow through the corte diario.
type Venta struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID   uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_venta_ticket"`
	TurnoID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	UsuarioID    uuid.UUID  `gorm:"type:uuid;not null"`
	ClienteID    *uuid.UUID `gorm:"type:uuid;index"`
	ValeID       *uuid.UUID `gorm:"type:uuid;index"`
	NumeroTicket string     `gorm:"not null;uniqueIndex:idx_venta_ticket"`
	Fecha        time.Time  `gorm:"not null;index"`

	Subtotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IDPTotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:idp_total"`
	IVATotal decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:iva_total"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	FormaPago         string          `gorm:"type:varchar(20);not null"`
	MontoEfectivo     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MontoTarjeta      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	MontoVale         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ReferenciaTarjeta *string

	Estado    string  `gorm:"type:varchar(20);not null;default:'completada'"`
	Notas     *string
	CreatedAt time.Time

	Combustibles []VentaCombustible `gorm:"foreignKey:VentaID"`
	Productos    []VentaProducto    `gorm:"foreignKey:VentaID"`
	Usuario      *Usuario           `gorm:"foreignKey:UsuarioID"`
}

func (Venta) TableName() string { return "ventas" }

// VentaCombustible is one dispensed fuel line.
type VentaCombustible struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	SucursalID        uuid.UUID       `gorm:"type:uuid;not null"`
	MangueraID        uuid.UUID       `gorm:"type:uuid;not null"`
	TanqueID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	TipoCombustibleID uuid.UUID       `gorm:"type:uuid;not null"`
	Galones           decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	PrecioUnitario    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IDPUnitario       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0;column:idp_unitario"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IDPTotal          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:idp_total"`
	// Totalizer readings from the pump, when the operator captured them.
	LecturaInicial *decimal.Decimal `gorm:"type:decimal(14,4)"`
	LecturaFinal   *decimal.Decimal `gorm:"type:decimal(14,4)"`
}

func (VentaCombustible) TableName() string { return "venta_combustible" }

// VentaProducto is one shop-goods line.
type VentaProducto struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	SucursalID     uuid.UUID       `gorm:"type:uuid;not null"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (VentaProducto) TableName() string { return "venta_productos" }
