package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a forecourt shop item (lubricants, additives, snacks).
type Producto struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmpresaID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Codigo      string          `gorm:"uniqueIndex;not null"`
	Nombre      string          `gorm:"not null"`
	PrecioVenta decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Producto) TableName() string { return "productos" }

// InventarioProducto tracks shop stock per (sucursal, producto).
// Unlike tank stock there is no sufficiency guard on decrements, so the
// balance can go negative; the gap surfaces in shop stocktakes.
type InventarioProducto struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventario_sucursal_producto"`
	ProductoID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventario_sucursal_producto"`
	Stock      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	UpdatedAt  time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (InventarioProducto) TableName() string { return "inventario_productos" }
