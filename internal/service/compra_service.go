package service

import (
	"context"
	"time"

	"github.com/EnmerSandoval/gasolinera/internal/apierror"
	"github.com/EnmerSandoval/gasolinera/internal/dto"
	"github.com/EnmerSandoval/gasolinera/internal/model"
	"github.com/EnmerSandoval/gasolinera/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CompraService interface {
	Registrar(ctx context.Context, scope Scope, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error)
	Obtener(ctx context.Context, scope Scope, id uuid.UUID) (*dto.CompraResponse, error)
	Listar(ctx context.Context, scope Scope, filter dto.CompraFilter) ([]dto.CompraResponse, error)
}

type compraService struct {
	repo       repository.CompraRepository
	tanqueRepo repository.TanqueRepository
	movRepo    repository.MovimientoRepository
	ivaRate    decimal.Decimal
}

func NewCompraService(
	repo repository.CompraRepository,
	tanqueRepo repository.TanqueRepository,
	movRepo repository.MovimientoRepository,
	ivaRate decimal.Decimal,
) CompraService {
	return &compraService{repo: repo, tanqueRepo: tanqueRepo, movRepo: movRepo, ivaRate: ivaRate}
}

type resolvedDetalle struct {
	tanqueID          uuid.UUID
	tipoCombustibleID uuid.UUID
	galones           decimal.Decimal
	precioUnitario    decimal.Decimal
	idpUnitario       decimal.Decimal
	subtotal          decimal.Decimal
	idpTotal          decimal.Decimal
}

// ── Registrar ─────────────────────────────────────────────────────────────────
// One tanker delivery: header + detail lines + stock increments + ledger
// entries, atomically. The wholesale invoice price excludes IVA, so here it
// is added on top of the subtotal (the opposite of sales, where the retail
// price already contains it).

func (s *compraService) Registrar(ctx context.Context, scope Scope, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error) {
	proveedorID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, apierror.New(apierror.KindValidation, "proveedor_id inválido")
	}
	fechaFactura, err := time.Parse("2006-01-02", req.FechaFactura)
	if err != nil {
		return nil, apierror.New(apierror.KindValidation, "fecha_factura inválida")
	}
	fechaRecepcion, err := time.Parse("2006-01-02", req.FechaRecepcion)
	if err != nil {
		return nil, apierror.New(apierror.KindValidation, "fecha_recepcion inválida")
	}

	// Pre-flight: every tank must exist, be active and belong to the branch
	detalles := make([]resolvedDetalle, 0, len(req.Detalles))
	subtotal := decimal.Zero
	idpTotal := decimal.Zero
	for _, d := range req.Detalles {
		tid, err := uuid.Parse(d.TanqueID)
		if err != nil {
			return nil, apierror.Newf(apierror.KindValidation, "tanque_id inválido: %s", d.TanqueID)
		}
		if !d.Galones.IsPositive() {
			return nil, apierror.New(apierror.KindValidation, "Los galones recibidos deben ser positivos")
		}
		if !d.PrecioUnitario.IsPositive() {
			return nil, apierror.New(apierror.KindValidation, "El precio unitario debe ser positivo")
		}
		tanque, err := s.tanqueRepo.FindActivo(ctx, tid)
		if err != nil {
			return nil, err
		}
		if tanque.SucursalID != scope.SucursalID {
			return nil, apierror.New(apierror.KindNotFound, "El tanque no pertenece a esta sucursal")
		}
		lineaSubtotal := d.Galones.Mul(d.PrecioUnitario).Round(2)
		lineaIDP := d.Galones.Mul(d.IDPUnitario).Round(2)
		subtotal = subtotal.Add(lineaSubtotal)
		idpTotal = idpTotal.Add(lineaIDP)
		detalles = append(detalles, resolvedDetalle{
			tanqueID:          tid,
			tipoCombustibleID: tanque.TipoCombustibleID,
			galones:           d.Galones,
			precioUnitario:    d.PrecioUnitario,
			idpUnitario:       d.IDPUnitario,
			subtotal:          lineaSubtotal,
			idpTotal:          lineaIDP,
		})
	}

	ivaTotal := subtotal.Mul(s.ivaRate).Round(2)
	total := subtotal.Add(idpTotal).Add(ivaTotal)

	var compra model.Compra
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		compra = model.Compra{
			SucursalID:     scope.SucursalID,
			ProveedorID:    proveedorID,
			UsuarioID:      scope.UsuarioID,
			NumeroFactura:  req.NumeroFactura,
			FechaFactura:   fechaFactura,
			FechaRecepcion: fechaRecepcion,
			Subtotal:       subtotal,
			IDPTotal:       idpTotal,
			IVATotal:       ivaTotal,
			Total:          total,
			Estado:         model.CompraPendiente,
			Notas:          req.Notas,
		}
		for _, d := range detalles {
			compra.Detalles = append(compra.Detalles, model.CompraDetalle{
				TanqueID:          d.tanqueID,
				TipoCombustibleID: d.tipoCombustibleID,
				Galones:           d.galones,
				PrecioUnitario:    d.precioUnitario,
				IDPUnitario:       d.idpUnitario,
				Subtotal:          d.subtotal,
				IDPTotal:          d.idpTotal,
			})
		}
		if err := s.repo.CreateTx(ctx, tx, &compra); err != nil {
			return err
		}

		for _, d := range detalles {
			despues, err := s.tanqueRepo.SumarStockTx(tx, d.tanqueID, d.galones)
			if err != nil {
				return err
			}
			mov := &model.MovimientoCombustible{
				SucursalID:        scope.SucursalID,
				TanqueID:          d.tanqueID,
				TipoCombustibleID: d.tipoCombustibleID,
				TipoMovimiento:    model.MovimientoCompra,
				Galones:           d.galones,
				StockAntes:        despues.Sub(d.galones),
				StockDespues:      despues,
				ReferenciaID:      compra.ID,
				UsuarioID:         scope.UsuarioID,
				Fecha:             fechaRecepcion,
			}
			if err := s.movRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return compraToResponse(&compra), nil
}

func (s *compraService) Obtener(ctx context.Context, scope Scope, id uuid.UUID) (*dto.CompraResponse, error) {
	compra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if compra.SucursalID != scope.SucursalID {
		return nil, apierror.New(apierror.KindNotFound, "Compra no encontrada")
	}
	return compraToResponse(compra), nil
}

func (s *compraService) Listar(ctx context.Context, scope Scope, filter dto.CompraFilter) ([]dto.CompraResponse, error) {
	hoy := time.Now().Format("2006-01-02")
	if filter.FechaDesde == "" {
		filter.FechaDesde = hoy
	}
	if filter.FechaHasta == "" {
		filter.FechaHasta = hoy
	}
	compras, err := s.repo.List(ctx, scope.SucursalID, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CompraResponse, 0, len(compras))
	for i := range compras {
		resp = append(resp, *compraToResponse(&compras[i]))
	}
	return resp, nil
}

func compraToResponse(c *model.Compra) *dto.CompraResponse {
	detalles := make([]dto.DetalleCompraResponse, 0, len(c.Detalles))
	for _, d := range c.Detalles {
		detalles = append(detalles, dto.DetalleCompraResponse{
			TanqueID:       d.TanqueID.String(),
			Galones:        d.Galones,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
			IDPTotal:       d.IDPTotal,
		})
	}
	proveedor := ""
	if c.Proveedor != nil {
		proveedor = c.Proveedor.RazonSocial
	}
	return &dto.CompraResponse{
		ID:             c.ID.String(),
		Proveedor:      proveedor,
		NumeroFactura:  c.NumeroFactura,
		FechaFactura:   c.FechaFactura.Format("2006-01-02"),
		FechaRecepcion: c.FechaRecepcion.Format("2006-01-02"),
		Detalles:       detalles,
		Subtotal:       c.Subtotal,
		IDPTotal:       c.IDPTotal,
		IVATotal:       c.IVATotal,
		Total:          c.Total,
		Estado:         c.Estado,
	}
}
