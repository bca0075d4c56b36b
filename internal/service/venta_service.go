package service

import (
	"context"
	"errors"
	"time"

	"github.com/EnmerSandoval/gasolinera/internal/apierror"
	"github.com/EnmerSandoval/gasolinera/internal/dto"
	"github.com/EnmerSandoval/gasolinera/internal/model"
	"github.com/EnmerSandoval/gasolinera/internal/repository"
	"github.com/EnmerSandoval/gasolinera/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	Registrar(ctx context.Context, scope Scope, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	Anular(ctx context.Context, scope Scope, id uuid.UUID, motivo string) error
	Obtener(ctx context.Context, scope Scope, id uuid.UUID) (*dto.VentaResponse, error)
	Listar(ctx context.Context, scope Scope, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	TotalesDia(ctx context.Context, scope Scope, fecha string) (*dto.VentaTotalesDia, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	tanqueRepo   repository.TanqueRepository
	precioRepo   repository.PrecioRepository
	productoRepo repository.ProductoRepository
	movRepo      repository.MovimientoRepository
	sucursalRepo repository.SucursalRepository
	turnos       TurnoService
	vales        ValeService
	dispatcher   AlertDispatcher
	ivaRate      decimal.Decimal
}

func NewVentaService(
	repo repository.VentaRepository,
	tanqueRepo repository.TanqueRepository,
	precioRepo repository.PrecioRepository,
	productoRepo repository.ProductoRepository,
	movRepo repository.MovimientoRepository,
	sucursalRepo repository.SucursalRepository,
	turnos TurnoService,
	vales ValeService,
	dispatcher AlertDispatcher,
	ivaRate decimal.Decimal,
) VentaService {
	return &ventaService{
		repo:         repo,
		tanqueRepo:   tanqueRepo,
		precioRepo:   precioRepo,
		productoRepo: productoRepo,
		movRepo:      movRepo,
		sucursalRepo: sucursalRepo,
		turnos:       turnos,
		vales:        vales,
		dispatcher:   dispatcher,
		ivaRate:      ivaRate,
	}
}

// resolvedCombustible is one fuel line after pre-flight resolution: the hose
// fixed the tank and grade, the effective price fixed the amounts.
type resolvedCombustible struct {
	mangueraID        uuid.UUID
	tanqueID          uuid.UUID
	tipoCombustibleID uuid.UUID
	tanqueCodigo      string
	tipoNombre        string
	stockMinimo       decimal.Decimal
	galones           decimal.Decimal
	precioUnitario    decimal.Decimal
	idpUnitario       decimal.Decimal
	subtotal          decimal.Decimal
	idpTotal          decimal.Decimal
	lecturaInicial    *decimal.Decimal
	lecturaFinal      *decimal.Decimal

	stockDespues decimal.Decimal // filled inside the transaction
}

type resolvedProducto struct {
	productoID     uuid.UUID
	nombre         string
	cantidad       decimal.Decimal
	precioUnitario decimal.Decimal
	subtotal       decimal.Decimal
}

// ── Registrar ─────────────────────────────────────────────────────────────────
// Full ACID sale:
//   1. Gate on an open turno for (usuario, sucursal)
//   2. Resolve fuel lines (manguera → tanque → precio vigente) and goods lines
//   3. Compute totals: IVA extracted from the price, IDP added on top
//   4. Pre-flight voucher validation when paying with vale
//   5. BEGIN TX: ticket, header+lines, guarded stock decrements + movimientos,
//      goods decrements, voucher consumption
//   6. COMMIT, then enqueue low-stock alerts (best effort)

func (s *ventaService) Registrar(ctx context.Context, scope Scope, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	if len(req.Combustibles) == 0 && len(req.Productos) == 0 {
		return nil, apierror.New(apierror.KindValidation, "La venta debe tener al menos una línea")
	}

	// 1. Open shift gate
	turno, err := s.turnos.Abierto(ctx, scope)
	if err != nil {
		return nil, err
	}

	// 2. Resolve fuel lines outside the transaction
	combustibles, err := s.resolverCombustibles(ctx, scope, req.Combustibles)
	if err != nil {
		return nil, err
	}
	productos, err := s.resolverProductos(ctx, req.Productos)
	if err != nil {
		return nil, err
	}

	// 3. Totals. The retail price already contains IVA, so it is extracted,
	// not added; IDP rides on top of the price.
	subtotal := decimal.Zero
	idpTotal := decimal.Zero
	galonesTotal := decimal.Zero
	for _, c := range combustibles {
		subtotal = subtotal.Add(c.subtotal)
		idpTotal = idpTotal.Add(c.idpTotal)
		galonesTotal = galonesTotal.Add(c.galones)
	}
	for _, p := range productos {
		subtotal = subtotal.Add(p.subtotal)
	}
	ivaTotal := subtotal.Mul(s.ivaRate).Div(decimal.NewFromInt(1).Add(s.ivaRate)).Round(2)
	total := subtotal.Add(idpTotal)

	// 4. Payment
	pago := req.Pago
	if pago.FormaPago == model.PagoVale && pago.MontoVale.IsZero() {
		pago.MontoVale = total
	}
	sumaPagos := pago.MontoEfectivo.Add(pago.MontoTarjeta).Add(pago.MontoVale)
	if sumaPagos.LessThan(total) {
		return nil, apierror.Newf(apierror.KindValidation,
			"El monto pagado %s es menor al total %s", sumaPagos.StringFixed(2), total.StringFixed(2))
	}

	var vale *model.Vale
	if pago.MontoVale.IsPositive() {
		if pago.CodigoVale == nil || *pago.CodigoVale == "" {
			return nil, apierror.New(apierror.KindValidation, "Pago con vale requiere codigo_vale")
		}
		vale, err = s.vales.Resolver(ctx, scope, *pago.CodigoVale, pago.MontoVale)
		if err != nil {
			return nil, err
		}
	}

	clienteID := parseOptionalUUID(req.ClienteID)
	if vale != nil {
		clienteID = &vale.ClienteID
	}

	// 5. ACID transaction
	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ticket, err := s.repo.NextTicketNumber(ctx, tx, scope.SucursalID)
		if err != nil {
			return err
		}

		venta = model.Venta{
			SucursalID:        scope.SucursalID,
			TurnoID:           turno.ID,
			UsuarioID:         scope.UsuarioID,
			ClienteID:         clienteID,
			NumeroTicket:      ticket,
			Fecha:             time.Now(),
			Subtotal:          subtotal,
			IDPTotal:          idpTotal,
			IVATotal:          ivaTotal,
			Total:             total,
			FormaPago:         pago.FormaPago,
			MontoEfectivo:     pago.MontoEfectivo,
			MontoTarjeta:      pago.MontoTarjeta,
			MontoVale:         pago.MontoVale,
			ReferenciaTarjeta: pago.ReferenciaTarjeta,
			Estado:            model.VentaCompletada,
			Notas:             req.Notas,
		}
		if vale != nil {
			venta.ValeID = &vale.ID
		}
		for _, c := range combustibles {
			venta.Combustibles = append(venta.Combustibles, model.VentaCombustible{
				SucursalID:        scope.SucursalID,
				MangueraID:        c.mangueraID,
				TanqueID:          c.tanqueID,
				TipoCombustibleID: c.tipoCombustibleID,
				Galones:           c.galones,
				PrecioUnitario:    c.precioUnitario,
				IDPUnitario:       c.idpUnitario,
				Subtotal:          c.subtotal,
				IDPTotal:          c.idpTotal,
				LecturaInicial:    c.lecturaInicial,
				LecturaFinal:      c.lecturaFinal,
			})
		}
		for _, p := range productos {
			venta.Productos = append(venta.Productos, model.VentaProducto{
				SucursalID:     scope.SucursalID,
				ProductoID:     p.productoID,
				Cantidad:       p.cantidad,
				PrecioUnitario: p.precioUnitario,
				Subtotal:       p.subtotal,
			})
		}

		if err := s.repo.CreateTx(ctx, tx, &venta); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierror.New(apierror.KindConcurrencyConflict, "Número de ticket duplicado, reintente la venta")
			}
			return err
		}

		// Guarded decrements + one immutable ledger entry per fuel line
		for i := range combustibles {
			c := &combustibles[i]
			tanque, err := s.tanqueRepo.FindActivoTx(tx, c.tanqueID)
			if err != nil {
				return err
			}
			if tanque.StockActual.LessThan(c.galones) {
				return apierror.Newf(apierror.KindInsufficientStock,
					"Stock insuficiente en tanque %s: disponible %s, solicitado %s",
					tanque.Codigo, tanque.StockActual.StringFixed(4), c.galones.StringFixed(4))
			}
			despues, err := s.tanqueRepo.DescontarStockTx(tx, c.tanqueID, c.galones)
			if err != nil {
				if errors.Is(err, repository.ErrStockGuard) {
					return apierror.Newf(apierror.KindConcurrencyConflict,
						"El stock del tanque %s fue consumido por otra venta", tanque.Codigo)
				}
				return err
			}
			c.stockDespues = despues

			mov := &model.MovimientoCombustible{
				SucursalID:        scope.SucursalID,
				TanqueID:          c.tanqueID,
				TipoCombustibleID: c.tipoCombustibleID,
				TipoMovimiento:    model.MovimientoVenta,
				Galones:           c.galones,
				StockAntes:        despues.Add(c.galones),
				StockDespues:      despues,
				ReferenciaID:      venta.ID,
				UsuarioID:         scope.UsuarioID,
				Fecha:             venta.Fecha,
			}
			if err := s.movRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		// Goods lines have no sufficiency guard; shop stock may go negative
		for _, p := range productos {
			if err := s.productoRepo.DescontarInventarioTx(tx, scope.SucursalID, p.productoID, p.cantidad); err != nil {
				return err
			}
		}

		if vale != nil {
			if err := s.vales.ConsumirTx(tx, vale, pago.MontoVale, galonesTotal); err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.alertarStockBajo(ctx, scope, combustibles)

	return s.ventaToResponse(&venta, combustibles, productos), nil
}

func (s *ventaService) resolverCombustibles(ctx context.Context, scope Scope, lineas []dto.LineaCombustibleRequest) ([]resolvedCombustible, error) {
	resolved := make([]resolvedCombustible, 0, len(lineas))
	for _, linea := range lineas {
		mid, err := uuid.Parse(linea.MangueraID)
		if err != nil {
			return nil, apierror.Newf(apierror.KindValidation, "manguera_id inválido: %s", linea.MangueraID)
		}
		manguera, err := s.tanqueRepo.FindMangueraActiva(ctx, mid)
		if err != nil {
			return nil, err
		}
		if manguera.Bomba != nil && manguera.Bomba.SucursalID != scope.SucursalID {
			return nil, apierror.New(apierror.KindNotFound, "La manguera no pertenece a esta sucursal")
		}
		tanque, err := s.tanqueRepo.FindActivo(ctx, manguera.TanqueID)
		if err != nil {
			return nil, err
		}
		precio, err := s.precioRepo.Vigente(ctx, scope.SucursalID, manguera.TipoCombustibleID)
		if err != nil {
			return nil, err
		}

		galones := linea.Galones
		if galones.IsZero() {
			if !linea.Monto.IsPositive() {
				return nil, apierror.New(apierror.KindValidation, "La línea de combustible requiere galones o monto positivo")
			}
			// Q-amount sale: the pump charges price + IDP per gallon
			galones = linea.Monto.DivRound(precio.PrecioUnitario.Add(precio.IDPPorGalon), 4)
		}
		if !galones.IsPositive() {
			return nil, apierror.New(apierror.KindValidation, "Los galones deben ser positivos")
		}

		// Early rejection before opening the transaction. The guarded
		// decrement inside the transaction remains the authoritative check.
		suficiente, err := s.tanqueRepo.HasStock(ctx, tanque.ID, galones)
		if err != nil {
			return nil, err
		}
		if !suficiente {
			return nil, apierror.Newf(apierror.KindInsufficientStock,
				"Stock insuficiente en tanque %s: disponible %s, solicitado %s",
				tanque.Codigo, tanque.StockActual.StringFixed(4), galones.StringFixed(4))
		}

		tipoNombre := ""
		if tanque.TipoCombustible != nil {
			tipoNombre = tanque.TipoCombustible.Nombre
		}
		resolved = append(resolved, resolvedCombustible{
			mangueraID:        mid,
			tanqueID:          tanque.ID,
			tipoCombustibleID: manguera.TipoCombustibleID,
			tanqueCodigo:      tanque.Codigo,
			tipoNombre:        tipoNombre,
			stockMinimo:       tanque.StockMinimo,
			galones:           galones,
			precioUnitario:    precio.PrecioUnitario,
			idpUnitario:       precio.IDPPorGalon,
			subtotal:          galones.Mul(precio.PrecioUnitario).Round(2),
			idpTotal:          galones.Mul(precio.IDPPorGalon).Round(2),
			lecturaInicial:    linea.LecturaInicial,
			lecturaFinal:      linea.LecturaFinal,
		})
	}
	return resolved, nil
}

func (s *ventaService) resolverProductos(ctx context.Context, lineas []dto.LineaProductoRequest) ([]resolvedProducto, error) {
	resolved := make([]resolvedProducto, 0, len(lineas))
	for _, linea := range lineas {
		pid, err := uuid.Parse(linea.ProductoID)
		if err != nil {
			return nil, apierror.Newf(apierror.KindValidation, "producto_id inválido: %s", linea.ProductoID)
		}
		if !linea.Cantidad.IsPositive() {
			return nil, apierror.New(apierror.KindValidation, "La cantidad del producto debe ser positiva")
		}
		producto, err := s.productoRepo.FindActivo(ctx, pid)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, resolvedProducto{
			productoID:     pid,
			nombre:         producto.Nombre,
			cantidad:       linea.Cantidad,
			precioUnitario: producto.PrecioVenta,
			subtotal:       linea.Cantidad.Mul(producto.PrecioVenta).Round(2),
		})
	}
	return resolved, nil
}

// alertarStockBajo enqueues one low-stock job per tank the sale left at or
// below its minimum. Best effort after commit: a Redis hiccup never fails
// the sale.
func (s *ventaService) alertarStockBajo(ctx context.Context, scope Scope, combustibles []resolvedCombustible) {
	if s.dispatcher == nil {
		return
	}
	sucursalNombre := scope.SucursalID.String()
	if sucursal, err := s.sucursalRepo.FindActivo(ctx, scope.SucursalID); err == nil {
		sucursalNombre = sucursal.Nombre
	}
	for _, c := range combustibles {
		if c.stockDespues.GreaterThan(c.stockMinimo) {
			continue
		}
		_ = s.dispatcher.EnqueueAlertaStock(ctx, worker.AlertaStockPayload{
			SucursalNombre:  sucursalNombre,
			TanqueCodigo:    c.tanqueCodigo,
			TipoCombustible: c.tipoNombre,
			StockActual:     c.stockDespues.StringFixed(4),
			StockMinimo:     c.stockMinimo.StringFixed(4),
		})
	}
}

// ── Anular ────────────────────────────────────────────────────────────────────
// Voiding flips the header state only. It does NOT return fuel to the tank
// and does not touch the movement ledger; the physical correction happens in
// the corte diario.

func (s *ventaService) Anular(ctx context.Context, scope Scope, id uuid.UUID, motivo string) error {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if venta.SucursalID != scope.SucursalID {
		return apierror.New(apierror.KindNotFound, "Venta no encontrada")
	}
	if venta.Estado == model.VentaAnulada {
		return apierror.New(apierror.KindValidation, "La venta ya está anulada")
	}
	return s.repo.Anular(ctx, id, motivo)
}

func (s *ventaService) Obtener(ctx context.Context, scope Scope, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if venta.SucursalID != scope.SucursalID {
		return nil, apierror.New(apierror.KindNotFound, "Venta no encontrada")
	}
	return ventaModelToResponse(venta), nil
}

// Listar returns a paginated list of sales, filtered by date range and
// estado. Default filter: today's completed sales.
func (s *ventaService) Listar(ctx context.Context, scope Scope, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	hoy := time.Now().Format("2006-01-02")
	if filter.FechaDesde == "" {
		filter.FechaDesde = hoy
	}
	if filter.FechaHasta == "" {
		filter.FechaHasta = hoy
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Estado == "" {
		filter.Estado = model.VentaCompletada
	}
	ventas, total, err := s.repo.List(ctx, scope.SucursalID, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		data = append(data, *ventaModelToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *ventaService) TotalesDia(ctx context.Context, scope Scope, fecha string) (*dto.VentaTotalesDia, error) {
	if fecha == "" {
		fecha = time.Now().Format("2006-01-02")
	}
	return s.repo.TotalesDia(ctx, scope.SucursalID, fecha)
}

// ventaToResponse enriches the freshly committed sale with the resolved
// names, which the model rows do not carry.
func (s *ventaService) ventaToResponse(v *model.Venta, combustibles []resolvedCombustible, productos []resolvedProducto) *dto.VentaResponse {
	resp := ventaModelToResponse(v)
	for i := range resp.Combustibles {
		if i < len(combustibles) {
			resp.Combustibles[i].TipoCombustible = combustibles[i].tipoNombre
		}
	}
	for i := range resp.Productos {
		if i < len(productos) {
			resp.Productos[i].Producto = productos[i].nombre
		}
	}
	return resp
}

func ventaModelToResponse(v *model.Venta) *dto.VentaResponse {
	combustibles := make([]dto.LineaCombustibleResponse, 0, len(v.Combustibles))
	for _, c := range v.Combustibles {
		combustibles = append(combustibles, dto.LineaCombustibleResponse{
			Galones:        c.Galones,
			PrecioUnitario: c.PrecioUnitario,
			IDPUnitario:    c.IDPUnitario,
			Subtotal:       c.Subtotal,
			IDPTotal:       c.IDPTotal,
		})
	}
	productos := make([]dto.LineaProductoResponse, 0, len(v.Productos))
	for _, p := range v.Productos {
		nombre := ""
		if p.Producto != nil {
			nombre = p.Producto.Nombre
		}
		productos = append(productos, dto.LineaProductoResponse{
			Producto:       nombre,
			Cantidad:       p.Cantidad,
			PrecioUnitario: p.PrecioUnitario,
			Subtotal:       p.Subtotal,
		})
	}
	return &dto.VentaResponse{
		ID:            v.ID.String(),
		NumeroTicket:  v.NumeroTicket,
		Fecha:         v.Fecha.Format(time.RFC3339),
		Combustibles:  combustibles,
		Productos:     productos,
		Subtotal:      v.Subtotal,
		IDPTotal:      v.IDPTotal,
		IVATotal:      v.IVATotal,
		Total:         v.Total,
		FormaPago:     v.FormaPago,
		MontoEfectivo: v.MontoEfectivo,
		MontoTarjeta:  v.MontoTarjeta,
		MontoVale:     v.MontoVale,
		Estado:        v.Estado,
	}
}

func parseOptionalUUID(s *string) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}
