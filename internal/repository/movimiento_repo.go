package repository

import (
	"context"

	"github.com/EnmerSandoval/gasolinera/internal/dto"
	"github.com/EnmerSandoval/gasolinera/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MovimientoRepository is the append-only fuel ledger. CreateTx must run in
// the same transaction as the stock mutation it records; there is no Update
// or Delete by design.
type MovimientoRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimientoCombustible) error
	List(ctx context.Context, sucursalID uuid.UUID, filter dto.MovimientoFilter) ([]model.MovimientoCombustible, error)

	// SumGalonesByTanque returns total gallons moved for a tank and movement
	// kind within [desde, hasta] — used by consistency checks and reports.
	SumGalonesByTanque(ctx context.Context, tanqueID uuid.UUID, tipo, desde, hasta string) (decimal.Decimal, error)
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository { return &movimientoRepo{db: db} }

func (r *movimientoRepo) CreateTx(tx *gorm.DB, m *model.MovimientoCombustible) error {
	return tx.Create(m).Error
}

func (r *movimientoRepo) List(ctx context.Context, sucursalID uuid.UUID, filter dto.MovimientoFilter) ([]model.MovimientoCombustible, error) {
	q := r.db.WithContext(ctx).
		Where("sucursal_id = ?", sucursalID).
		Where("DATE(fecha) BETWEEN ? AND ?", filter.FechaDesde, filter.FechaHasta)

	if filter.TanqueID != "" {
		q = q.Where("tanque_id = ?", filter.TanqueID)
	}

	var movimientos []model.MovimientoCombustible
	err := q.Order("fecha DESC").Limit(200).Find(&movimientos).Error
	return movimientos, err
}

func (r *movimientoRepo) SumGalonesByTanque(ctx context.Context, tanqueID uuid.UUID, tipo, desde, hasta string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.MovimientoCombustible{}).
		Select("COALESCE(SUM(galones), 0)").
		Where("tanque_id = ? AND tipo_movimiento = ?", tanqueID, tipo).
		Where("DATE(fecha) BETWEEN ? AND ?", desde, hasta).
		Scan(&total).Error
	return total, err
}
