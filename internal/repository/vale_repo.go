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

// ValeRepository owns every write against voucher and client credit
// counters. Both consume updates are single guarded statements: the WHERE
// clause re-checks the balance that the service already validated, so a
// concurrent consumption that slipped in between validation and commit makes
// the update affect zero rows instead of breaking the invariant.
type ValeRepository interface {
	FindByCodigo(ctx context.Context, codigo string, empresaID uuid.UUID) (*model.Vale, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Vale, error)
	List(ctx context.Context, empresaID uuid.UUID, estado string) ([]model.Vale, error)

	// ConsumirTx increments monto/galones consumidos and flips the vale to
	// agotado when the authorized amount is reached. Returns ErrValeGuard on
	// a zero affected-row count.
	ConsumirTx(tx *gorm.DB, valeID uuid.UUID, monto, galones decimal.Decimal) error

	// CargarSaldoClienteTx increments the client's outstanding balance,
	// guarded by the credit limit. Returns ErrCreditoGuard when the guard
	// rejects the increment.
	CargarSaldoClienteTx(tx *gorm.DB, clienteID uuid.UUID, monto decimal.Decimal) error
}

var (
	ErrValeGuard    = errors.New("vale balance guard rejected the update")
	ErrCreditoGuard = errors.New("client credit guard rejected the update")
)

type valeRepo struct{ db *gorm.DB }

func NewValeRepository(db *gorm.DB) ValeRepository { return &valeRepo{db: db} }

func (r *valeRepo) FindByCodigo(ctx context.Context, codigo string, empresaID uuid.UUID) (*model.Vale, error) {
	var v model.Vale
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Where("codigo = ? AND empresa_id = ?", codigo, empresaID).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.New(apierror.KindNotFound, "Vale no encontrado")
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *valeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vale, error) {
	var v model.Vale
	err := r.db.WithContext(ctx).Preload("Cliente").First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.New(apierror.KindNotFound, "Vale no encontrado")
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *valeRepo) List(ctx context.Context, empresaID uuid.UUID, estado string) ([]model.Vale, error) {
	q := r.db.WithContext(ctx).Preload("Cliente").Where("empresa_id = ?", empresaID)
	if estado != "" {
		q = q.Where("estado = ?", estado)
	}
	var vales []model.Vale
	err := q.Order("created_at DESC").Find(&vales).Error
	return vales, err
}

func (r *valeRepo) ConsumirTx(tx *gorm.DB, valeID uuid.UUID, monto, galones decimal.Decimal) error {
	result := tx.Exec(`
		UPDATE vales
		SET monto_consumido = monto_consumido + ?,
		    galones_consumidos = galones_consumidos + ?,
		    estado = CASE
		        WHEN monto_consumido + ? >= monto_autorizado THEN 'agotado'
		        ELSE estado
		    END,
		    updated_at = NOW()
		WHERE id = ?
		  AND estado = 'activo'
		  AND monto_consumido + ? <= monto_autorizado`,
		monto, galones, monto, valeID, monto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrValeGuard
	}
	return nil
}

func (r *valeRepo) CargarSaldoClienteTx(tx *gorm.DB, clienteID uuid.UUID, monto decimal.Decimal) error {
	result := tx.Exec(`
		UPDATE clientes
		SET saldo_actual = saldo_actual + ?, updated_at = NOW()
		WHERE id = ?
		  AND activo = true
		  AND saldo_actual + ? <= limite_credito`,
		monto, clienteID, monto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCreditoGuard
	}
	return nil
}
