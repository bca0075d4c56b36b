package service_test

import (
	"context"
	"fmt"
	"time"

	"github.com/EnmerSandoval/gasolinera/internal/apierror"
	"github.com/EnmerSandoval/gasolinera/internal/dto"
	"github.com/EnmerSandoval/gasolinera/internal/model"
	"github.com/EnmerSandoval/gasolinera/internal/repository"
	"github.com/EnmerSandoval/gasolinera/internal/service"
	"github.com/EnmerSandoval/gasolinera/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Fixture ids ───────────────────────────────────────────────────────────────

var (
	empresaID  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	sucursalID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	usuarioID  = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

func testScope() service.Scope {
	return service.Scope{EmpresaID: empresaID, SucursalID: sucursalID, UsuarioID: usuarioID}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── Tanque stub ───────────────────────────────────────────────────────────────

// stubTanqueRepo is an in-memory TanqueRepository. forceGuardErr simulates a
// concurrent decrement winning the race between the read and the guarded
// UPDATE.
type stubTanqueRepo struct {
	tanques       map[uuid.UUID]*model.Tanque
	mangueras     map[uuid.UUID]*model.Manguera
	forceGuardErr bool
	fisicoSets    map[uuid.UUID]decimal.Decimal
}

func newStubTanqueRepo() *stubTanqueRepo {
	return &stubTanqueRepo{
		tanques:    make(map[uuid.UUID]*model.Tanque),
		mangueras:  make(map[uuid.UUID]*model.Manguera),
		fisicoSets: make(map[uuid.UUID]decimal.Decimal),
	}
}

func (r *stubTanqueRepo) find(id uuid.UUID) (*model.Tanque, error) {
	t, ok := r.tanques[id]
	if !ok || !t.Activo {
		return nil, apierror.New(apierror.KindNotFound, "Tanque no encontrado")
	}
	return t, nil
}

func (r *stubTanqueRepo) FindActivo(_ context.Context, id uuid.UUID) (*model.Tanque, error) {
	return r.find(id)
}

func (r *stubTanqueRepo) FindActivoTx(_ *gorm.DB, id uuid.UUID) (*model.Tanque, error) {
	return r.find(id)
}

func (r *stubTanqueRepo) ListBySucursal(_ context.Context, sucursalID uuid.UUID) ([]model.Tanque, error) {
	var out []model.Tanque
	for _, t := range r.tanques {
		if t.SucursalID == sucursalID && t.Activo {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTanqueRepo) FindMangueraActiva(_ context.Context, id uuid.UUID) (*model.Manguera, error) {
	m, ok := r.mangueras[id]
	if !ok || !m.Activo {
		return nil, apierror.New(apierror.KindNotFound, "Manguera no encontrada")
	}
	return m, nil
}

func (r *stubTanqueRepo) HasStock(_ context.Context, id uuid.UUID, galones decimal.Decimal) (bool, error) {
	t, err := r.find(id)
	if err != nil {
		return false, err
	}
	return t.StockActual.GreaterThanOrEqual(galones), nil
}

func (r *stubTanqueRepo) DescontarStockTx(_ *gorm.DB, id uuid.UUID, galones decimal.Decimal) (decimal.Decimal, error) {
	t, err := r.find(id)
	if err != nil {
		return decimal.Zero, err
	}
	if r.forceGuardErr || t.StockActual.LessThan(galones) {
		return decimal.Zero, repository.ErrStockGuard
	}
	t.StockActual = t.StockActual.Sub(galones)
	return t.StockActual, nil
}

func (r *stubTanqueRepo) SumarStockTx(_ *gorm.DB, id uuid.UUID, galones decimal.Decimal) (decimal.Decimal, error) {
	t, err := r.find(id)
	if err != nil {
		return decimal.Zero, err
	}
	t.StockActual = t.StockActual.Add(galones)
	return t.StockActual, nil
}

func (r *stubTanqueRepo) SetStockFisico(_ context.Context, id uuid.UUID, valor decimal.Decimal) error {
	t, err := r.find(id)
	if err != nil {
		return err
	}
	t.StockActual = valor
	r.fisicoSets[id] = valor
	return nil
}

func (r *stubTanqueRepo) DB() *gorm.DB { return nil }

var _ repository.TanqueRepository = (*stubTanqueRepo)(nil)

// ── Venta stub ────────────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas    map[uuid.UUID]*model.Venta
	createErr error
	ticketSeq int
	ventasDia decimal.Decimal
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) CreateTx(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if r.createErr != nil {
		return r.createErr
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, apierror.New(apierror.KindNotFound, "Venta no encontrada")
	}
	return v, nil
}

func (r *stubVentaRepo) Anular(_ context.Context, id uuid.UUID, motivo string) error {
	v, ok := r.ventas[id]
	if !ok {
		return apierror.New(apierror.KindNotFound, "Venta no encontrada")
	}
	v.Estado = model.VentaAnulada
	nota := "Anulada: " + motivo
	v.Notas = &nota
	return nil
}

func (r *stubVentaRepo) List(_ context.Context, sucursalID uuid.UUID, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if v.SucursalID == sucursalID {
			out = append(out, *v)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) NextTicketNumber(_ context.Context, _ *gorm.DB, _ uuid.UUID) (string, error) {
	r.ticketSeq++
	return fmt.Sprintf("T1-%s-%04d", time.Now().Format("20060102"), r.ticketSeq), nil
}

func (r *stubVentaRepo) SumGalonesDia(_ context.Context, _ uuid.UUID, _ string) (decimal.Decimal, error) {
	return r.ventasDia, nil
}

func (r *stubVentaRepo) TotalesDia(_ context.Context, _ uuid.UUID, _ string) (*dto.VentaTotalesDia, error) {
	return &dto.VentaTotalesDia{}, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── Precio stub ───────────────────────────────────────────────────────────────

// stubPrecioRepo keys effective prices by fuel type.
type stubPrecioRepo struct {
	precios map[uuid.UUID]*model.PrecioCombustible
}

func newStubPrecioRepo() *stubPrecioRepo {
	return &stubPrecioRepo{precios: make(map[uuid.UUID]*model.PrecioCombustible)}
}

func (r *stubPrecioRepo) Vigente(_ context.Context, _, tipoID uuid.UUID) (*model.PrecioCombustible, error) {
	p, ok := r.precios[tipoID]
	if !ok {
		return nil, apierror.New(apierror.KindNoPriceConfigured, "No hay precio vigente configurado")
	}
	return p, nil
}

func (r *stubPrecioRepo) ListVigentes(_ context.Context, _ uuid.UUID) ([]model.PrecioCombustible, error) {
	var out []model.PrecioCombustible
	for _, p := range r.precios {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPrecioRepo) Create(_ context.Context, p *model.PrecioCombustible) error {
	r.precios[p.TipoCombustibleID] = p
	return nil
}

var _ repository.PrecioRepository = (*stubPrecioRepo)(nil)

// ── Producto stub ─────────────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos   map[uuid.UUID]*model.Producto
	descontados map[uuid.UUID]decimal.Decimal
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{
		productos:   make(map[uuid.UUID]*model.Producto),
		descontados: make(map[uuid.UUID]decimal.Decimal),
	}
}

func (r *stubProductoRepo) find(id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok || !p.Activo {
		return nil, apierror.New(apierror.KindNotFound, "Producto no encontrado")
	}
	return p, nil
}

func (r *stubProductoRepo) FindActivo(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	return r.find(id)
}

func (r *stubProductoRepo) FindActivoTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.find(id)
}

func (r *stubProductoRepo) List(_ context.Context, _ uuid.UUID) ([]model.Producto, error) {
	return nil, nil
}

func (r *stubProductoRepo) FindInventario(_ context.Context, _, _ uuid.UUID) (*model.InventarioProducto, error) {
	return nil, apierror.New(apierror.KindNotFound, "Inventario no encontrado")
}

func (r *stubProductoRepo) DescontarInventarioTx(_ *gorm.DB, _, productoID uuid.UUID, cantidad decimal.Decimal) error {
	r.descontados[productoID] = r.descontados[productoID].Add(cantidad)
	return nil
}

func (r *stubProductoRepo) SumarInventarioTx(_ *gorm.DB, _, productoID uuid.UUID, cantidad decimal.Decimal) error {
	r.descontados[productoID] = r.descontados[productoID].Sub(cantidad)
	return nil
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── Movimiento stub ───────────────────────────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []*model.MovimientoCombustible
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoCombustible) error {
	r.movimientos = append(r.movimientos, m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, _ uuid.UUID, _ dto.MovimientoFilter) ([]model.MovimientoCombustible, error) {
	var out []model.MovimientoCombustible
	for _, m := range r.movimientos {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubMovimientoRepo) SumGalonesByTanque(_ context.Context, tanqueID uuid.UUID, tipo, _, _ string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.movimientos {
		if m.TanqueID == tanqueID && m.TipoMovimiento == tipo {
			total = total.Add(m.Galones)
		}
	}
	return total, nil
}

var _ repository.MovimientoRepository = (*stubMovimientoRepo)(nil)

// ── Alert dispatcher stub ─────────────────────────────────────────────────────

type stubAlertas struct {
	payloads []worker.AlertaStockPayload
}

func (d *stubAlertas) EnqueueAlertaStock(_ context.Context, p worker.AlertaStockPayload) error {
	d.payloads = append(d.payloads, p)
	return nil
}

var _ service.AlertDispatcher = (*stubAlertas)(nil)

// ── Sucursal stub ─────────────────────────────────────────────────────────────

type stubSucursalRepo struct {
	sucursal *model.Sucursal
}

func (r *stubSucursalRepo) FindActivo(_ context.Context, id uuid.UUID) (*model.Sucursal, error) {
	if r.sucursal == nil || r.sucursal.ID != id {
		return nil, apierror.New(apierror.KindNotFound, "Sucursal no encontrada")
	}
	return r.sucursal, nil
}

func (r *stubSucursalRepo) PerteneceAEmpresa(_ context.Context, sucursalID, empresaID uuid.UUID) (bool, error) {
	return r.sucursal != nil && r.sucursal.ID == sucursalID && r.sucursal.EmpresaID == empresaID, nil
}

func (r *stubSucursalRepo) List(_ context.Context, _ uuid.UUID) ([]model.Sucursal, error) {
	if r.sucursal == nil {
		return nil, nil
	}
	return []model.Sucursal{*r.sucursal}, nil
}

var _ repository.SucursalRepository = (*stubSucursalRepo)(nil)

// ── Turno stub ────────────────────────────────────────────────────────────────

type stubTurnoRepo struct {
	turnos map[uuid.UUID]*model.Turno
}

func newStubTurnoRepo() *stubTurnoRepo {
	return &stubTurnoRepo{turnos: make(map[uuid.UUID]*model.Turno)}
}

func (r *stubTurnoRepo) Create(_ context.Context, t *model.Turno) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.turnos[t.ID] = t
	return nil
}

func (r *stubTurnoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Turno, error) {
	t, ok := r.turnos[id]
	if !ok {
		return nil, apierror.New(apierror.KindNotFound, "Turno no encontrado")
	}
	return t, nil
}

func (r *stubTurnoRepo) FindAbierto(_ context.Context, usuarioID, sucursalID uuid.UUID) (*model.Turno, error) {
	for _, t := range r.turnos {
		if t.UsuarioID == usuarioID && t.SucursalID == sucursalID && t.Estado == model.TurnoAbierto {
			return t, nil
		}
	}
	return nil, apierror.New(apierror.KindNoOpenShift, "No tiene un turno abierto")
}

func (r *stubTurnoRepo) Update(_ context.Context, t *model.Turno) error {
	r.turnos[t.ID] = t
	return nil
}

var _ repository.TurnoRepository = (*stubTurnoRepo)(nil)

// ── Vale stub ─────────────────────────────────────────────────────────────────

// stubValeRepoGuards simulates guard failures on the consume path.
type stubValeRepoGuards struct {
	consumirErr error
	cargarErr   error
}

type stubValeRepository struct {
	vales    map[string]*model.Vale
	guards   stubValeRepoGuards
	cargados map[uuid.UUID]decimal.Decimal
}

func newStubValeRepo() *stubValeRepository {
	return &stubValeRepository{
		vales:    make(map[string]*model.Vale),
		cargados: make(map[uuid.UUID]decimal.Decimal),
	}
}

func (r *stubValeRepository) FindByCodigo(_ context.Context, codigo string, empresaID uuid.UUID) (*model.Vale, error) {
	v, ok := r.vales[codigo]
	if !ok || v.EmpresaID != empresaID {
		return nil, apierror.New(apierror.KindNotFound, "Vale no encontrado")
	}
	return v, nil
}

func (r *stubValeRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Vale, error) {
	for _, v := range r.vales {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, apierror.New(apierror.KindNotFound, "Vale no encontrado")
}

func (r *stubValeRepository) List(_ context.Context, empresaID uuid.UUID, _ string) ([]model.Vale, error) {
	var out []model.Vale
	for _, v := range r.vales {
		if v.EmpresaID == empresaID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *stubValeRepository) ConsumirTx(_ *gorm.DB, valeID uuid.UUID, monto, galones decimal.Decimal) error {
	if r.guards.consumirErr != nil {
		return r.guards.consumirErr
	}
	for _, v := range r.vales {
		if v.ID == valeID {
			v.MontoConsumido = v.MontoConsumido.Add(monto)
			v.GalonesConsumidos = v.GalonesConsumidos.Add(galones)
			if v.MontoConsumido.GreaterThanOrEqual(v.MontoAutorizado) {
				v.Estado = model.ValeAgotado
			}
			return nil
		}
	}
	return repository.ErrValeGuard
}

func (r *stubValeRepository) CargarSaldoClienteTx(_ *gorm.DB, clienteID uuid.UUID, monto decimal.Decimal) error {
	if r.guards.cargarErr != nil {
		return r.guards.cargarErr
	}
	r.cargados[clienteID] = r.cargados[clienteID].Add(monto)
	return nil
}

var _ repository.ValeRepository = (*stubValeRepository)(nil)

// ── Compra stub ───────────────────────────────────────────────────────────────

type stubCompraRepo struct {
	compras    map[uuid.UUID]*model.Compra
	comprasDia decimal.Decimal
}

func newStubCompraRepo() *stubCompraRepo {
	return &stubCompraRepo{compras: make(map[uuid.UUID]*model.Compra)}
}

func (r *stubCompraRepo) CreateTx(_ context.Context, _ *gorm.DB, c *model.Compra) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.compras[c.ID] = c
	return nil
}

func (r *stubCompraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Compra, error) {
	c, ok := r.compras[id]
	if !ok {
		return nil, apierror.New(apierror.KindNotFound, "Compra no encontrada")
	}
	return c, nil
}

func (r *stubCompraRepo) List(_ context.Context, sucursalID uuid.UUID, _ dto.CompraFilter) ([]model.Compra, error) {
	var out []model.Compra
	for _, c := range r.compras {
		if c.SucursalID == sucursalID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCompraRepo) SumGalonesDia(_ context.Context, _ uuid.UUID, _ string) (decimal.Decimal, error) {
	return r.comprasDia, nil
}

func (r *stubCompraRepo) DB() *gorm.DB { return nil }

var _ repository.CompraRepository = (*stubCompraRepo)(nil)

// ── Corte stub ────────────────────────────────────────────────────────────────

type stubCorteRepo struct {
	cortes map[string]*model.CorteDiario
	mermas []dto.MermaTanque
}

func newStubCorteRepo() *stubCorteRepo {
	return &stubCorteRepo{cortes: make(map[string]*model.CorteDiario)}
}

func corteKey(sucursalID, tanqueID uuid.UUID, fecha time.Time) string {
	return sucursalID.String() + "|" + tanqueID.String() + "|" + fecha.Format("2006-01-02")
}

func (r *stubCorteRepo) Upsert(_ context.Context, c *model.CorteDiario) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cortes[corteKey(c.SucursalID, c.TanqueID, c.Fecha)] = c
	return nil
}

func (r *stubCorteRepo) FindByTanqueFecha(_ context.Context, sucursalID, tanqueID uuid.UUID, fecha time.Time) (*model.CorteDiario, error) {
	return r.cortes[corteKey(sucursalID, tanqueID, fecha)], nil
}

func (r *stubCorteRepo) ListBySucursal(_ context.Context, sucursalID uuid.UUID, _, _ time.Time) ([]model.CorteDiario, error) {
	var out []model.CorteDiario
	for _, c := range r.cortes {
		if c.SucursalID == sucursalID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCorteRepo) MermasConsolidado(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]dto.MermaTanque, error) {
	return r.mermas, nil
}

var _ repository.CorteRepository = (*stubCorteRepo)(nil)
