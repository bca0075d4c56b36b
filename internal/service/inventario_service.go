package service

import (
	"context"
	"time"

	"github.com/EnmerSandoval/gasolinera/internal/dto"
	"github.com/EnmerSandoval/gasolinera/internal/model"
	"github.com/EnmerSandoval/gasolinera/internal/repository"

	"github.com/shopspring/decimal"
)

type InventarioService interface {
	EstadoTanques(ctx context.Context, scope Scope) ([]dto.TanqueEstado, error)
	Movimientos(ctx context.Context, scope Scope, filter dto.MovimientoFilter) ([]model.MovimientoCombustible, error)
}

type inventarioService struct {
	tanqueRepo repository.TanqueRepository
	movRepo    repository.MovimientoRepository
}

func NewInventarioService(tanqueRepo repository.TanqueRepository, movRepo repository.MovimientoRepository) InventarioService {
	return &inventarioService{tanqueRepo: tanqueRepo, movRepo: movRepo}
}

func (s *inventarioService) EstadoTanques(ctx context.Context, scope Scope) ([]dto.TanqueEstado, error) {
	tanques, err := s.tanqueRepo.ListBySucursal(ctx, scope.SucursalID)
	if err != nil {
		return nil, err
	}
	estado := make([]dto.TanqueEstado, 0, len(tanques))
	for _, t := range tanques {
		pct := decimal.Zero
		if t.CapacidadGalones.IsPositive() {
			pct = t.StockActual.Div(t.CapacidadGalones).Mul(cien).Round(2)
		}
		tipo := ""
		if t.TipoCombustible != nil {
			tipo = t.TipoCombustible.Nombre
		}
		estado = append(estado, dto.TanqueEstado{
			ID:               t.ID.String(),
			Codigo:           t.Codigo,
			TipoCombustible:  tipo,
			CapacidadGalones: t.CapacidadGalones,
			StockActual:      t.StockActual,
			StockMinimo:      t.StockMinimo,
			PorcentajeLleno:  pct,
			BajoMinimo:       t.StockActual.LessThanOrEqual(t.StockMinimo),
		})
	}
	return estado, nil
}

func (s *inventarioService) Movimientos(ctx context.Context, scope Scope, filter dto.MovimientoFilter) ([]model.MovimientoCombustible, error) {
	hoy := time.Now().Format("2006-01-02")
	if filter.FechaDesde == "" {
		filter.FechaDesde = hoy
	}
	if filter.FechaHasta == "" {
		filter.FechaHasta = hoy
	}
	return s.movRepo.List(ctx, scope.SucursalID, filter)
}
