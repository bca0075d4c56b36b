package repository

import (
	"context"
	"errors"

	"github.com/EnmerSandoval/gasolinera/internal/apierror"
	"github.com/EnmerSandoval/gasolinera/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SucursalRepository interface {
	FindActivo(ctx context.Context, id uuid.UUID) (*model.Sucursal, error)
	// PerteneceAEmpresa reports whether the branch exists, is active and
	// belongs to the empresa. Used by the branch-scoping middleware.
	PerteneceAEmpresa(ctx context.Context, sucursalID, empresaID uuid.UUID) (bool, error)
	List(ctx context.Context, empresaID uuid.UUID) ([]model.Sucursal, error)
}

type sucursalRepo struct{ db *gorm.DB }

func NewSucursalRepository(db *gorm.DB) SucursalRepository { return &sucursalRepo{db: db} }

func (r *sucursalRepo) FindActivo(ctx context.Context, id uuid.UUID) (*model.Sucursal, error) {
	var s model.Sucursal
	err := r.db.WithContext(ctx).First(&s, "id = ? AND activo = true", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.New(apierror.KindNotFound, "Sucursal no encontrada")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sucursalRepo) PerteneceAEmpresa(ctx context.Context, sucursalID, empresaID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Sucursal{}).
		Where("id = ? AND empresa_id = ? AND activo = true", sucursalID, empresaID).
		Count(&count).Error
	return count > 0, err
}

func (r *sucursalRepo) List(ctx context.Context, empresaID uuid.UUID) ([]model.Sucursal, error) {
	var sucursales []model.Sucursal
	err := r.db.WithContext(ctx).
		Where("empresa_id = ? AND activo = true", empresaID).
		Order("numero").
		Find(&sucursales).Error
	return sucursales, err
}
