package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EnmerSandoval/gasolinera/internal/apierror"
	"github.com/EnmerSandoval/gasolinera/internal/dto"
	"github.com/EnmerSandoval/gasolinera/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VentaRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// Anular flips the header to anulada and appends the motive to notas.
	// Stock and ledger entries are deliberately left untouched.
	Anular(ctx context.Context, id uuid.UUID, motivo string) error
	List(ctx context.Context, sucursalID uuid.UUID, filter dto.VentaFilter) ([]model.Venta, int64, error)

	// NextTicketNumber assigns the per-branch per-day correlative. It locks
	// the sucursal row for the rest of the transaction so two concurrent
	// sales in the same branch cannot read the same count; the unique index
	// on (sucursal_id, numero_ticket) is the backstop.
	NextTicketNumber(ctx context.Context, tx *gorm.DB, sucursalID uuid.UUID) (string, error)

	// SumGalonesDia returns total dispensed gallons for a tank on a date,
	// counting only completed sales.
	SumGalonesDia(ctx context.Context, tanqueID uuid.UUID, fecha string) (decimal.Decimal, error)

	TotalesDia(ctx context.Context, sucursalID uuid.UUID, fecha string) (*dto.VentaTotalesDia, error)
	DB() *gorm.DB
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) CreateTx(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Combustibles").
		Preload("Productos.Producto").
		Preload("Usuario").
		First(&v, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.New(apierror.KindNotFound, "Venta no encontrada")
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) Anular(ctx context.Context, id uuid.UUID, motivo string) error {
	return r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"estado": model.VentaAnulada,
			"notas":  gorm.Expr("CONCAT(COALESCE(notas || ' | ', ''), ?)", "Anulada: "+motivo),
		}).Error
}

func (r *ventaRepo) NextTicketNumber(ctx context.Context, tx *gorm.DB, sucursalID uuid.UUID) (string, error) {
	var sucursal model.Sucursal
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sucursal, "id = ? AND activo = true", sucursalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apierror.New(apierror.KindNotFound, "Sucursal no encontrada")
	}
	if err != nil {
		return "", err
	}

	// One clock for both the count window and the formatted date, so a
	// midnight rollover between the two cannot produce a mismatched ticket.
	hoy := time.Now()
	var count int64
	if err := tx.WithContext(ctx).Model(&model.Venta{}).
		Where("sucursal_id = ? AND DATE(fecha) = ?", sucursalID, hoy.Format("2006-01-02")).
		Count(&count).Error; err != nil {
		return "", err
	}

	return formatTicket(sucursal.Numero, hoy, count+1), nil
}

// formatTicket builds the per-branch per-day correlative: T{sucursal}-{YYYYMMDD}-{seq}.
func formatTicket(numeroSucursal int, fecha time.Time, seq int64) string {
	return fmt.Sprintf("T%d-%s-%04d", numeroSucursal, fecha.Format("20060102"), seq)
}

func (r *ventaRepo) SumGalonesDia(ctx context.Context, tanqueID uuid.UUID, fecha string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.VentaCombustible{}).
		Select("COALESCE(SUM(venta_combustible.galones), 0)").
		Joins("JOIN ventas ON ventas.id = venta_combustible.venta_id").
		Where("venta_combustible.tanque_id = ?", tanqueID).
		Where("DATE(ventas.fecha) = ? AND ventas.estado = ?", fecha, model.VentaCompletada).
		Scan(&total).Error
	return total, err
}

func (r *ventaRepo) TotalesDia(ctx context.Context, sucursalID uuid.UUID, fecha string) (*dto.VentaTotalesDia, error) {
	var totales dto.VentaTotalesDia
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select(`COUNT(*) AS total_tickets,
			COALESCE(SUM(total), 0) AS total_vendido,
			COALESCE(SUM(monto_efectivo), 0) AS total_efectivo,
			COALESCE(SUM(monto_tarjeta), 0) AS total_tarjeta,
			COALESCE(SUM(monto_vale), 0) AS total_vales,
			COALESCE(SUM(idp_total), 0) AS total_idp,
			COALESCE(SUM(iva_total), 0) AS total_iva`).
		Where("sucursal_id = ? AND DATE(fecha) = ? AND estado = ?", sucursalID, fecha, model.VentaCompletada).
		Scan(&totales).Error
	if err != nil {
		return nil, err
	}
	totales.Fecha = fecha
	return &totales, nil
}

func (r *ventaRepo) List(ctx context.Context, sucursalID uuid.UUID, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("sucursal_id = ?", sucursalID).
		Where("DATE(fecha) BETWEEN ? AND ?", filter.FechaDesde, filter.FechaHasta)

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ventas []model.Venta
	err := q.Preload("Combustibles").Preload("Productos.Producto").
		Order("fecha DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error

	return ventas, total, err
}
