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

// TanqueRepository owns every write against tanques.stock_actual. Both
// mutators are single guarded UPDATE statements returning the new stock, so
// the before/after snapshot recorded in the movement ledger is exact even
// under concurrent transactions. A zero affected-row count on the decrement
// means the guard lost the race (or the stock was never sufficient) — the
// caller decides which error applies.
type TanqueRepository interface {
	FindActivo(ctx context.Context, id uuid.UUID) (*model.Tanque, error)
	FindActivoTx(tx *gorm.DB, id uuid.UUID) (*model.Tanque, error)
	ListBySucursal(ctx context.Context, sucursalID uuid.UUID) ([]model.Tanque, error)
	FindMangueraActiva(ctx context.Context, id uuid.UUID) (*model.Manguera, error)

	// HasStock is the sufficiency check callers run before a decrement.
	HasStock(ctx context.Context, id uuid.UUID, galones decimal.Decimal) (bool, error)

	// DescontarStockTx runs `stock_actual = stock_actual - galones` guarded by
	// `stock_actual >= galones` and returns the resulting stock. ErrStockGuard
	// is returned when no row was updated although the tank exists.
	DescontarStockTx(tx *gorm.DB, id uuid.UUID, galones decimal.Decimal) (decimal.Decimal, error)

	// SumarStockTx runs `stock_actual = stock_actual + galones` and returns
	// the resulting stock. Increments need no guard.
	SumarStockTx(tx *gorm.DB, id uuid.UUID, galones decimal.Decimal) (decimal.Decimal, error)

	// SetStockFisico overwrites stock_actual with a physical reading. Used
	// only by the corte diario correction step.
	SetStockFisico(ctx context.Context, id uuid.UUID, valor decimal.Decimal) error

	// DB exposes the underlying handle so services can open transactions.
	DB() *gorm.DB
}

// ErrStockGuard signals that the conditional decrement affected zero rows.
var ErrStockGuard = errors.New("stock guard rejected the update")

type tanqueRepo struct{ db *gorm.DB }

func NewTanqueRepository(db *gorm.DB) TanqueRepository { return &tanqueRepo{db: db} }

func (r *tanqueRepo) DB() *gorm.DB { return r.db }

func (r *tanqueRepo) FindActivo(ctx context.Context, id uuid.UUID) (*model.Tanque, error) {
	return findTanqueActivo(r.db.WithContext(ctx), id)
}

func (r *tanqueRepo) FindActivoTx(tx *gorm.DB, id uuid.UUID) (*model.Tanque, error) {
	return findTanqueActivo(tx, id)
}

func findTanqueActivo(db *gorm.DB, id uuid.UUID) (*model.Tanque, error) {
	var t model.Tanque
	err := db.Preload("TipoCombustible").
		Where("id = ? AND activo = true", id).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.New(apierror.KindNotFound, "Tanque no encontrado")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tanqueRepo) ListBySucursal(ctx context.Context, sucursalID uuid.UUID) ([]model.Tanque, error) {
	var tanques []model.Tanque
	err := r.db.WithContext(ctx).
		Preload("TipoCombustible").
		Where("sucursal_id = ? AND activo = true", sucursalID).
		Order("codigo").
		Find(&tanques).Error
	return tanques, err
}

func (r *tanqueRepo) FindMangueraActiva(ctx context.Context, id uuid.UUID) (*model.Manguera, error) {
	var m model.Manguera
	err := r.db.WithContext(ctx).
		Preload("Bomba").
		Where("id = ? AND activo = true", id).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.New(apierror.KindNotFound, "Manguera no encontrada")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *tanqueRepo) HasStock(ctx context.Context, id uuid.UUID, galones decimal.Decimal) (bool, error) {
	t, err := r.FindActivo(ctx, id)
	if err != nil {
		return false, err
	}
	return t.StockActual.GreaterThanOrEqual(galones), nil
}

func (r *tanqueRepo) DescontarStockTx(tx *gorm.DB, id uuid.UUID, galones decimal.Decimal) (decimal.Decimal, error) {
	var despues decimal.Decimal
	result := tx.Raw(`
		UPDATE tanques
		SET stock_actual = stock_actual - ?, updated_at = NOW()
		WHERE id = ? AND activo = true AND stock_actual >= ?
		RETURNING stock_actual`, galones, id, galones).
		Scan(&despues)
	if result.Error != nil {
		return decimal.Zero, result.Error
	}
	if result.RowsAffected == 0 {
		return decimal.Zero, ErrStockGuard
	}
	return despues, nil
}

func (r *tanqueRepo) SumarStockTx(tx *gorm.DB, id uuid.UUID, galones decimal.Decimal) (decimal.Decimal, error) {
	var despues decimal.Decimal
	result := tx.Raw(`
		UPDATE tanques
		SET stock_actual = stock_actual + ?, updated_at = NOW()
		WHERE id = ? AND activo = true
		RETURNING stock_actual`, galones, id).
		Scan(&despues)
	if result.Error != nil {
		return decimal.Zero, result.Error
	}
	if result.RowsAffected == 0 {
		return decimal.Zero, apierror.New(apierror.KindNotFound, "Tanque no encontrado")
	}
	return despues, nil
}

func (r *tanqueRepo) SetStockFisico(ctx context.Context, id uuid.UUID, valor decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&model.Tanque{}).
		Where("id = ? AND activo = true", id).
		Update("stock_actual", valor)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apierror.New(apierror.KindNotFound, "Tanque no encontrado")
	}
	return nil
}
