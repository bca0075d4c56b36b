package repository

import (
	"context"
	"errors"

	"github.com/EnmerSandoval/gasolinera/internal/apierror"
	"github.com/EnmerSandoval/gasolinera/internal/dto"
	"github.com/EnmerSandoval/gasolinera/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CompraRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, c *model.Compra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	List(ctx context.Context, sucursalID uuid.UUID, filter dto.CompraFilter) ([]model.Compra, error)

	// SumGalonesDia returns total received gallons for a tank whose parent
	// purchase was received on fecha, excluding voided purchases.
	SumGalonesDia(ctx context.Context, tanqueID uuid.UUID, fecha string) (decimal.Decimal, error)

	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) DB() *gorm.DB { return r.db }

func (r *compraRepo) CreateTx(ctx context.Context, tx *gorm.DB, c *model.Compra) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).
		Preload("Detalles").
		Preload("Proveedor").
		First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.New(apierror.KindNotFound, "Compra no encontrada")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *compraRepo) List(ctx context.Context, sucursalID uuid.UUID, filter dto.CompraFilter) ([]model.Compra, error) {
	var compras []model.Compra
	err := r.db.WithContext(ctx).
		Preload("Proveedor").
		Where("sucursal_id = ?", sucursalID).
		Where("DATE(fecha_factura) BETWEEN ? AND ?", filter.FechaDesde, filter.FechaHasta).
		Order("fecha_factura DESC").
		Find(&compras).Error
	return compras, err
}

func (r *compraRepo) SumGalonesDia(ctx context.Context, tanqueID uuid.UUID, fecha string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.CompraDetalle{}).
		Select("COALESCE(SUM(compra_detalle.galones), 0)").
		Joins("JOIN compras ON compras.id = compra_detalle.compra_id").
		Where("compra_detalle.tanque_id = ?", tanqueID).
		Where("DATE(compras.fecha_recepcion) = ? AND compras.estado <> ?", fecha, model.CompraAnulada).
		Scan(&total).Error
	return total, err
}
