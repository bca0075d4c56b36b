package repository

import (
	"context"
	"errors"
	"time"

	"github.com/EnmerSandoval/gasolinera/internal/apierror"
	"github.com/EnmerSandoval/gasolinera/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PrecioRepository interface {
	// Vigente returns the effective price for the fuel type at the branch:
	// the active row with the latest vigente_desde not in the future.
	Vigente(ctx context.Context, sucursalID, tipoCombustibleID uuid.UUID) (*model.PrecioCombustible, error)
	ListVigentes(ctx context.Context, sucursalID uuid.UUID) ([]model.PrecioCombustible, error)
	Create(ctx context.Context, p *model.PrecioCombustible) error
}

type precioRepo struct{ db *gorm.DB }

func NewPrecioRepository(db *gorm.DB) PrecioRepository { return &precioRepo{db: db} }

func (r *precioRepo) Vigente(ctx context.Context, sucursalID, tipoCombustibleID uuid.UUID) (*model.PrecioCombustible, error) {
	var p model.PrecioCombustible
	err := r.db.WithContext(ctx).
		Where("sucursal_id = ? AND tipo_combustible_id = ? AND activo = true AND vigente_desde <= ?",
			sucursalID, tipoCombustibleID, time.Now()).
		Order("vigente_desde DESC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.New(apierror.KindNoPriceConfigured, "No hay precio vigente para el combustible en esta sucursal")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListVigentes returns one effective price per fuel type at the branch.
func (r *precioRepo) ListVigentes(ctx context.Context, sucursalID uuid.UUID) ([]model.PrecioCombustible, error) {
	var precios []model.PrecioCombustible
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (tipo_combustible_id) *
		     FROM precios_combustible
		     WHERE sucursal_id = ? AND activo = true AND vigente_desde <= ?
		     ORDER BY tipo_combustible_id, vigente_desde DESC`, sucursalID, time.Now()).
		Scan(&precios).Error
	return precios, err
}

func (r *precioRepo) Create(ctx context.Context, p *model.PrecioCombustible) error {
	return r.db.WithContext(ctx).Create(p).Error
}
