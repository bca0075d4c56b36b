package service

import (
	"context"
	"time"

	"github.com/EnmerSandoval/gasolinera/internal/apierror"
	"github.com/EnmerSandoval/gasolinera/internal/dto"
	"github.com/EnmerSandoval/gasolinera/internal/model"
	"github.com/EnmerSandoval/gasolinera/internal/repository"
	"github.com/EnmerSandoval/gasolinera/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// CorteService is the daily volumetric reconciliation engine. It never
// touches the sale or purchase paths: it reads their aggregates and writes
// one reconciliation record per (sucursal, tanque, fecha).
type CorteService interface {
	Registrar(ctx context.Context, scope Scope, req dto.RegistrarCorteRequest) (*dto.CorteResponse, error)
	Listar(ctx context.Context, scope Scope, desde, hasta string) ([]dto.CorteResponse, error)
	ReporteMermas(ctx context.Context, scope Scope, desde, hasta string) (*dto.MermasReporteResponse, error)
}

type corteService struct {
	repo         repository.CorteRepository
	tanqueRepo   repository.TanqueRepository
	ventaRepo    repository.VentaRepository
	compraRepo   repository.CompraRepository
	movRepo      repository.MovimientoRepository
	sucursalRepo repository.SucursalRepository
	dispatcher   AlertDispatcher
}

func NewCorteService(
	repo repository.CorteRepository,
	tanqueRepo repository.TanqueRepository,
	ventaRepo repository.VentaRepository,
	compraRepo repository.CompraRepository,
	movRepo repository.MovimientoRepository,
	sucursalRepo repository.SucursalRepository,
	dispatcher AlertDispatcher,
) CorteService {
	return &corteService{
		repo:         repo,
		tanqueRepo:   tanqueRepo,
		ventaRepo:    ventaRepo,
		compraRepo:   compraRepo,
		movRepo:      movRepo,
		sucursalRepo: sucursalRepo,
		dispatcher:   dispatcher,
	}
}

var cien = decimal.NewFromInt(100)

// ── Registrar ─────────────────────────────────────────────────────────────────
//   teorico   = inicial + compras del día - ventas del día   (4 decimales)
//   variacion = físico - teorico
//
// The record upserts on (sucursal, tanque, fecha): a re-submission with a
// corrected dipstick reading overwrites the earlier one. Afterward the
// tank's stock is set to the physical reading in a separate step — the
// reconciliation record is the source of truth even if that step fails.

func (s *corteService) Registrar(ctx context.Context, scope Scope, req dto.RegistrarCorteRequest) (*dto.CorteResponse, error) {
	tanqueID, err := uuid.Parse(req.TanqueID)
	if err != nil {
		return nil, apierror.New(apierror.KindValidation, "tanque_id inválido")
	}
	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, apierror.New(apierror.KindValidation, "fecha inválida")
	}

	tanque, err := s.tanqueRepo.FindActivo(ctx, tanqueID)
	if err != nil {
		return nil, err
	}
	if tanque.SucursalID != scope.SucursalID {
		return nil, apierror.New(apierror.KindNotFound, "El tanque no pertenece a esta sucursal")
	}

	// An omitted opening stock defaults to the previous day's physical
	// reading, which is what the operator would copy over by hand.
	inicial := req.StockInicial
	if inicial.IsZero() {
		if anterior, err := s.repo.FindByTanqueFecha(ctx, scope.SucursalID, tanqueID, fecha.AddDate(0, 0, -1)); err == nil && anterior != nil {
			inicial = anterior.StockFinalFisico
		}
	}

	dia := fecha.Format("2006-01-02")
	compras, err := s.compraRepo.SumGalonesDia(ctx, tanqueID, dia)
	if err != nil {
		return nil, err
	}
	ventas, err := s.ventaRepo.SumGalonesDia(ctx, tanqueID, dia)
	if err != nil {
		return nil, err
	}

	// Cross-check the sale aggregate against the movement ledger. Voided
	// sales keep their ledger entries, so a difference is the day's voided
	// volume; anything else deserves a look.
	if ledger, err := s.movRepo.SumGalonesByTanque(ctx, tanqueID, model.MovimientoVenta, dia, dia); err == nil && !ledger.Equal(ventas) {
		log.Warn().
			Str("tanque_id", tanqueID.String()).
			Str("fecha", dia).
			Str("ventas_dia", ventas.String()).
			Str("ledger_ventas", ledger.String()).
			Msg("cierre diario: ventas del día difieren del libro de movimientos")
	}

	teorico := inicial.Add(compras).Sub(ventas).Round(4)
	variacion := req.StockFisico.Sub(teorico).Round(4)
	pct := decimal.Zero
	if teorico.IsPositive() {
		pct = variacion.Div(teorico).Mul(cien).Round(4)
	}

	corte := &model.CorteDiario{
		SucursalID:          scope.SucursalID,
		TanqueID:            tanqueID,
		TipoCombustibleID:   tanque.TipoCombustibleID,
		Fecha:               fecha,
		StockInicial:        inicial,
		ComprasDia:          compras,
		VentasDia:           ventas,
		StockFinalTeorico:   teorico,
		StockFinalFisico:    req.StockFisico,
		Variacion:           variacion,
		PorcentajeVariacion: pct,
		UsuarioID:           scope.UsuarioID,
		Notas:               req.Notas,
	}
	if err := s.repo.Upsert(ctx, corte); err != nil {
		return nil, err
	}

	// Correct the running stock to the physical reality. Deliberately not
	// part of the upsert transaction: the reconciliation record must survive
	// even when this write fails.
	if err := s.tanqueRepo.SetStockFisico(ctx, tanqueID, req.StockFisico); err != nil {
		return nil, err
	}

	// The corrected reading can leave the tank at or below its minimum just
	// like a sale can. Best effort, never fails the corte.
	if s.dispatcher != nil && req.StockFisico.LessThanOrEqual(tanque.StockMinimo) {
		sucursalNombre := scope.SucursalID.String()
		if sucursal, err := s.sucursalRepo.FindActivo(ctx, scope.SucursalID); err == nil {
			sucursalNombre = sucursal.Nombre
		}
		tipoNombre := ""
		if tanque.TipoCombustible != nil {
			tipoNombre = tanque.TipoCombustible.Nombre
		}
		_ = s.dispatcher.EnqueueAlertaStock(ctx, worker.AlertaStockPayload{
			SucursalNombre:  sucursalNombre,
			TanqueCodigo:    tanque.Codigo,
			TipoCombustible: tipoNombre,
			StockActual:     req.StockFisico.StringFixed(4),
			StockMinimo:     tanque.StockMinimo.StringFixed(4),
		})
	}

	return corteToResponse(corte), nil
}

func (s *corteService) Listar(ctx context.Context, scope Scope, desde, hasta string) ([]dto.CorteResponse, error) {
	d, h, err := parseRango(desde, hasta)
	if err != nil {
		return nil, err
	}
	cortes, err := s.repo.ListBySucursal(ctx, scope.SucursalID, d, h)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CorteResponse, 0, len(cortes))
	for i := range cortes {
		resp = append(resp, *corteToResponse(&cortes[i]))
	}
	return resp, nil
}

func (s *corteService) ReporteMermas(ctx context.Context, scope Scope, desde, hasta string) (*dto.MermasReporteResponse, error) {
	d, h, err := parseRango(desde, hasta)
	if err != nil {
		return nil, err
	}
	tanques, err := s.repo.MermasConsolidado(ctx, scope.SucursalID, d, h)
	if err != nil {
		return nil, err
	}
	return &dto.MermasReporteResponse{
		Desde:   d.Format("2006-01-02"),
		Hasta:   h.Format("2006-01-02"),
		Tanques: tanques,
	}, nil
}

func parseRango(desde, hasta string) (time.Time, time.Time, error) {
	hoy := time.Now()
	d := hoy
	h := hoy
	var err error
	if desde != "" {
		if d, err = time.Parse("2006-01-02", desde); err != nil {
			return d, h, apierror.New(apierror.KindValidation, "fecha_desde inválida")
		}
	}
	if hasta != "" {
		if h, err = time.Parse("2006-01-02", hasta); err != nil {
			return d, h, apierror.New(apierror.KindValidation, "fecha_hasta inválida")
		}
	}
	if h.Before(d) {
		return d, h, apierror.New(apierror.KindValidation, "El rango de fechas está invertido")
	}
	return d, h, nil
}

func corteToResponse(c *model.CorteDiario) *dto.CorteResponse {
	return &dto.CorteResponse{
		ID:                  c.ID.String(),
		TanqueID:            c.TanqueID.String(),
		Fecha:               c.Fecha.Format("2006-01-02"),
		StockInicial:        c.StockInicial,
		ComprasDia:          c.ComprasDia,
		VentasDia:           c.VentasDia,
		StockFinalTeorico:   c.StockFinalTeorico,
		StockFinalFisico:    c.StockFinalFisico,
		Variacion:           c.Variacion,
		PorcentajeVariacion: c.PorcentajeVariacion,
		Clasificacion:       c.Clasificacion(),
	}
}
