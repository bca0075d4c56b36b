package repository

import (
	"context"
	"errors"
	"time"

	"github.com/EnmerSandoval/gasolinera/internal/dto"
	"github.com/EnmerSandoval/gasolinera/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CorteRepository interface {
	// Upsert inserts the corte or, when one already exists for the same
	// (sucursal, tanque, fecha), overwrites its figures.
	Upsert(ctx context.Context, c *model.CorteDiario) error
	FindByTanqueFecha(ctx context.Context, sucursalID, tanqueID uuid.UUID, fecha time.Time) (*model.CorteDiario, error)
	ListBySucursal(ctx context.Context, sucursalID uuid.UUID, desde, hasta time.Time) ([]model.CorteDiario, error)
	// MermasConsolidado aggregates variance per tank over a date range.
	MermasConsolidado(ctx context.Context, sucursalID uuid.UUID, desde, hasta time.Time) ([]dto.MermaTanque, error)
}

type corteRepo struct{ db *gorm.DB }

func NewCorteRepository(db *gorm.DB) CorteRepository { return &corteRepo{db: db} }

func (r *corteRepo) Upsert(ctx context.Context, c *model.CorteDiario) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sucursal_id"}, {Name: "tanque_id"}, {Name: "fecha"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"stock_inicial", "compras_dia", "ventas_dia",
				"stock_final_teorico", "stock_final_fisico",
				"variacion", "porcentaje_variacion",
				"usuario_id", "notas", "updated_at",
			}),
		}).
		Create(c).Error
}

func (r *corteRepo) FindByTanqueFecha(ctx context.Context, sucursalID, tanqueID uuid.UUID, fecha time.Time) (*model.CorteDiario, error) {
	var c model.CorteDiario
	err := r.db.WithContext(ctx).
		First(&c, "sucursal_id = ? AND tanque_id = ? AND fecha = ?",
			sucursalID, tanqueID, fecha.Format("2006-01-02")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *corteRepo) ListBySucursal(ctx context.Context, sucursalID uuid.UUID, desde, hasta time.Time) ([]model.CorteDiario, error) {
	var cortes []model.CorteDiario
	err := r.db.WithContext(ctx).
		Where("sucursal_id = ? AND fecha BETWEEN ? AND ?",
			sucursalID, desde.Format("2006-01-02"), hasta.Format("2006-01-02")).
		Order("fecha DESC, tanque_id").
		Find(&cortes).Error
	return cortes, err
}

func (r *corteRepo) MermasConsolidado(ctx context.Context, sucursalID uuid.UUID, desde, hasta time.Time) ([]dto.MermaTanque, error) {
	var filas []dto.MermaTanque
	err := r.db.WithContext(ctx).
		Raw(`SELECT c.tanque_id,
		            t.codigo AS tanque_codigo,
		            tc.nombre AS tipo_combustible,
		            COUNT(*) AS dias,
		            COALESCE(SUM(c.variacion), 0) AS variacion_total,
		            COALESCE(SUM(CASE WHEN c.variacion < 0 THEN c.variacion ELSE 0 END), 0) AS merma_total,
		            COALESCE(SUM(CASE WHEN c.variacion > 0 THEN c.variacion ELSE 0 END), 0) AS sobrante_total
		     FROM cortes_diarios c
		     JOIN tanques t ON t.id = c.tanque_id
		     JOIN tipos_combustible tc ON tc.id = c.tipo_combustible_id
		     WHERE c.sucursal_id = ? AND c.fecha BETWEEN ? AND ?
		     GROUP BY c.tanque_id, t.codigo, tc.nombre
		     ORDER BY merma_total`,
			sucursalID, desde.Format("2006-01-02"), hasta.Format("2006-01-02")).
		Scan(&filas).Error
	return filas, err
}
