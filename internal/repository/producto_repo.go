package repository

import (
	"context"
	"errors"

	"github.com/EnmerSandoval/gasolinera/internal/apierror"
	"github.com/EnmerSandoval/gasolinera/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductoRepository interface {
	FindActivo(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindActivoTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, empresaID uuid.UUID) ([]model.Producto, error)
	FindInventario(ctx context.Context, sucursalID, productoID uuid.UUID) (*model.InventarioProducto, error)
	// DescontarInventarioTx lowers shop stock without a sufficiency guard:
	// shop balances may go negative and are reconciled in stocktakes.
	DescontarInventarioTx(tx *gorm.DB, sucursalID, productoID uuid.UUID, cantidad decimal.Decimal) error
	SumarInventarioTx(tx *gorm.DB, sucursalID, productoID uuid.UUID, cantidad decimal.Decimal) error
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) FindActivo(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	return r.FindActivoTx(r.db.WithContext(ctx), id)
}

func (r *productoRepo) FindActivoTx(tx *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := tx.First(&p, "id = ? AND activo = true", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.New(apierror.KindNotFound, "Producto no encontrado")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) List(ctx context.Context, empresaID uuid.UUID) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).
		Where("empresa_id = ? AND activo = true", empresaID).
		Order("nombre").
		Find(&productos).Error
	return productos, err
}

func (r *productoRepo) FindInventario(ctx context.Context, sucursalID, productoID uuid.UUID) (*model.InventarioProducto, error) {
	var inv model.InventarioProducto
	err := r.db.WithContext(ctx).
		Preload("Producto").
		First(&inv, "sucursal_id = ? AND producto_id = ?", sucursalID, productoID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.New(apierror.KindNotFound, "Inventario no encontrado para el producto")
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *productoRepo) DescontarInventarioTx(tx *gorm.DB, sucursalID, productoID uuid.UUID, cantidad decimal.Decimal) error {
	res := tx.Exec(
		`UPDATE inventario_productos
		 SET stock = stock - ?, updated_at = NOW()
		 WHERE sucursal_id = ? AND producto_id = ?`,
		cantidad, sucursalID, productoID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.New(apierror.KindNotFound, "Inventario no encontrado para el producto")
	}
	return nil
}

func (r *productoRepo) SumarInventarioTx(tx *gorm.DB, sucursalID, productoID uuid.UUID, cantidad decimal.Decimal) error {
	res := tx.Exec(
		`UPDATE inventario_productos
		 SET stock = stock + ?, updated_at = NOW()
		 WHERE sucursal_id = ? AND producto_id = ?`,
		cantidad, sucursalID, productoID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apierror.New(apierror.KindNotFound, "Inventario no encontrado para el producto")
	}
	return nil
}
