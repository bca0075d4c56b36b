package repository

import (
	"context"
	"errors"

	"github.com/EnmerSandoval/gasolinera/internal/apierror"
	"github.com/EnmerSandoval/gasolinera/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TurnoRepository interface {
	Create(ctx context.Context, t *model.Turno) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error)
	FindAbierto(ctx context.Context, usuarioID, sucursalID uuid.UUID) (*model.Turno, error)
	Update(ctx context.Context, t *model.Turno) error
}

type turnoRepo struct{ db *gorm.DB }

func NewTurnoRepository(db *gorm.DB) TurnoRepository { return &turnoRepo{db: db} }

func (r *turnoRepo) Create(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *turnoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.New(apierror.KindNotFound, "Turno no encontrado")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *turnoRepo) FindAbierto(ctx context.Context, usuarioID, sucursalID uuid.UUID) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).
		Where("usuario_id = ? AND sucursal_id = ? AND estado = ?", usuarioID, sucursalID, model.TurnoAbierto).
		Order("hora_inicio DESC").
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.New(apierror.KindNoOpenShift, "No tiene un turno abierto")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *turnoRepo) Update(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Save(t).Error
}
