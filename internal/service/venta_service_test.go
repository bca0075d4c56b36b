package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/EnmerSandoval/gasolinera/internal/apierror"
	"github.com/EnmerSandoval/gasolinera/internal/dto"
	"github.com/EnmerSandoval/gasolinera/internal/model"
	"github.com/EnmerSandoval/gasolinera/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ventaFixture wires a VentaService against in-memory stubs: one branch, one
// tank of SUPER at Q30.00 + Q4.70 IDP, 1000 gal in stock, an open shift.
type ventaFixture struct {
	tanques    *stubTanqueRepo
	ventas     *stubVentaRepo
	precios    *stubPrecioRepo
	productos  *stubProductoRepo
	movs       *stubMovimientoRepo
	sucursales *stubSucursalRepo
	turnos     *stubTurnoRepo
	vales      *stubValeRepository
	alertas    *stubAlertas
	svc        service.VentaService

	tipoID     uuid.UUID
	tanqueID   uuid.UUID
	mangueraID uuid.UUID
}

func newVentaFixture(t *testing.T) *ventaFixture {
	t.Helper()
	f := &ventaFixture{
		tanques:    newStubTanqueRepo(),
		ventas:     newStubVentaRepo(),
		precios:    newStubPrecioRepo(),
		productos:  newStubProductoRepo(),
		movs:       &stubMovimientoRepo{},
		sucursales: &stubSucursalRepo{},
		turnos:     newStubTurnoRepo(),
		vales:      newStubValeRepo(),
		alertas:    &stubAlertas{},
		tipoID:     uuid.New(),
		tanqueID:   uuid.New(),
		mangueraID: uuid.New(),
	}

	f.sucursales.sucursal = &model.Sucursal{
		ID: sucursalID, EmpresaID: empresaID, Numero: 1, Nombre: "Central", Activo: true,
	}
	f.tanques.tanques[f.tanqueID] = &model.Tanque{
		ID:                f.tanqueID,
		SucursalID:        sucursalID,
		TipoCombustibleID: f.tipoID,
		Codigo:            "T-01",
		CapacidadGalones:  dec("10000"),
		StockActual:       dec("1000"),
		StockMinimo:       dec("100"),
		Activo:            true,
		TipoCombustible:   &model.TipoCombustible{ID: f.tipoID, Codigo: "SUPER", Nombre: "Super", Activo: true},
	}
	f.tanques.mangueras[f.mangueraID] = &model.Manguera{
		ID:                f.mangueraID,
		BombaID:           uuid.New(),
		TanqueID:          f.tanqueID,
		TipoCombustibleID: f.tipoID,
		Codigo:            "B1-M1",
		Activo:            true,
		Bomba:             &model.Bomba{SucursalID: sucursalID, Codigo: "B1", Activo: true},
	}
	f.precios.precios[f.tipoID] = &model.PrecioCombustible{
		ID:                uuid.New(),
		SucursalID:        sucursalID,
		TipoCombustibleID: f.tipoID,
		PrecioUnitario:    dec("30.00"),
		IDPPorGalon:       dec("4.70"),
		VigenteDesde:      time.Now().Add(-time.Hour),
		Activo:            true,
	}
	_ = f.turnos.Create(context.Background(), &model.Turno{
		SucursalID:      sucursalID,
		UsuarioID:       usuarioID,
		Fecha:           time.Now(),
		HoraInicio:      time.Now(),
		EfectivoInicial: dec("500"),
		Estado:          model.TurnoAbierto,
	})

	f.svc = service.NewVentaService(
		f.ventas, f.tanques, f.precios, f.productos, f.movs, f.sucursales,
		service.NewTurnoService(f.turnos),
		service.NewValeService(f.vales),
		f.alertas,
		dec("0.12"),
	)
	return f
}

func (f *ventaFixture) ventaCombustible(galones, monto string, pago dto.PagoRequest) dto.RegistrarVentaRequest {
	return dto.RegistrarVentaRequest{
		Combustibles: []dto.LineaCombustibleRequest{{
			MangueraID: f.mangueraID.String(),
			Galones:    dec(galones),
			Monto:      dec(monto),
		}},
		Pago: pago,
	}
}

func pagoEfectivo(monto string) dto.PagoRequest {
	return dto.PagoRequest{FormaPago: model.PagoEfectivo, MontoEfectivo: dec(monto)}
}

func TestRegistrarVentaCombustibleGalones(t *testing.T) {
	f := newVentaFixture(t)

	resp, err := f.svc.Registrar(context.Background(), testScope(), f.ventaCombustible("10", "0", pagoEfectivo("400")))
	require.NoError(t, err)

	// 10 gal × Q30.00 = Q300.00; IDP 10 × Q4.70 = Q47.00.
	// IVA is inside the price: 300 × 0.12/1.12 = 32.14. Total adds only IDP.
	assert.True(t, resp.Subtotal.Equal(dec("300.00")), "subtotal %s", resp.Subtotal)
	assert.True(t, resp.IDPTotal.Equal(dec("47.00")), "idp %s", resp.IDPTotal)
	assert.True(t, resp.IVATotal.Equal(dec("32.14")), "iva %s", resp.IVATotal)
	assert.True(t, resp.Total.Equal(dec("347.00")), "total %s", resp.Total)
	assert.NotEmpty(t, resp.NumeroTicket)
	assert.Equal(t, model.VentaCompletada, resp.Estado)

	// Stock decremented and exactly one ledger entry with a true snapshot
	assert.True(t, f.tanques.tanques[f.tanqueID].StockActual.Equal(dec("990")))
	require.Len(t, f.movs.movimientos, 1)
	mov := f.movs.movimientos[0]
	assert.Equal(t, model.MovimientoVenta, mov.TipoMovimiento)
	assert.True(t, mov.StockAntes.Equal(dec("1000")))
	assert.True(t, mov.StockDespues.Equal(dec("990")))
	assert.Equal(t, f.tanqueID, mov.TanqueID)
}

func TestRegistrarVentaCombustiblePorMonto(t *testing.T) {
	f := newVentaFixture(t)

	// Q100 at the pump price of Q34.70/gal (price + IDP) = 2.8818 gal
	resp, err := f.svc.Registrar(context.Background(), testScope(), f.ventaCombustible("0", "100", pagoEfectivo("100")))
	require.NoError(t, err)

	require.Len(t, resp.Combustibles, 1)
	assert.True(t, resp.Combustibles[0].Galones.Equal(dec("2.8818")), "galones %s", resp.Combustibles[0].Galones)
	assert.True(t, resp.Subtotal.Equal(dec("86.45")), "subtotal %s", resp.Subtotal)
	assert.True(t, resp.IDPTotal.Equal(dec("13.54")), "idp %s", resp.IDPTotal)
	assert.True(t, resp.Total.Equal(dec("99.99")), "total %s", resp.Total)
}

func TestRegistrarVentaSinLineas(t *testing.T) {
	f := newVentaFixture(t)

	_, err := f.svc.Registrar(context.Background(), testScope(), dto.RegistrarVentaRequest{Pago: pagoEfectivo("100")})
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestRegistrarVentaSinTurnoAbierto(t *testing.T) {
	f := newVentaFixture(t)
	otroUsuario := testScope()
	otroUsuario.UsuarioID = uuid.New()

	_, err := f.svc.Registrar(context.Background(), otroUsuario, f.ventaCombustible("10", "0", pagoEfectivo("400")))
	assert.True(t, apierror.IsKind(err, apierror.KindNoOpenShift), "got %v", err)
}

func TestRegistrarVentaStockInsuficiente(t *testing.T) {
	f := newVentaFixture(t)
	f.tanques.tanques[f.tanqueID].StockActual = dec("5")

	_, err := f.svc.Registrar(context.Background(), testScope(), f.ventaCombustible("10", "0", pagoEfectivo("400")))
	require.True(t, apierror.IsKind(err, apierror.KindInsufficientStock), "got %v", err)

	// The decrement never ran and no ledger entry exists
	assert.True(t, f.tanques.tanques[f.tanqueID].StockActual.Equal(dec("5")))
	assert.Empty(t, f.movs.movimientos)
}

func TestRegistrarVentaCarreraPorStock(t *testing.T) {
	f := newVentaFixture(t)
	// The read sees enough stock but the guarded UPDATE loses the race
	f.tanques.forceGuardErr = true

	_, err := f.svc.Registrar(context.Background(), testScope(), f.ventaCombustible("10", "0", pagoEfectivo("400")))
	assert.True(t, apierror.IsKind(err, apierror.KindConcurrencyConflict), "got %v", err)
}

func TestRegistrarVentaTicketDuplicado(t *testing.T) {
	f := newVentaFixture(t)
	f.ventas.createErr = gorm.ErrDuplicatedKey

	_, err := f.svc.Registrar(context.Background(), testScope(), f.ventaCombustible("10", "0", pagoEfectivo("400")))
	assert.True(t, apierror.IsKind(err, apierror.KindConcurrencyConflict), "got %v", err)
}

func TestRegistrarVentaPagoInsuficiente(t *testing.T) {
	f := newVentaFixture(t)

	_, err := f.svc.Registrar(context.Background(), testScope(), f.ventaCombustible("10", "0", pagoEfectivo("100")))
	assert.True(t, apierror.IsKind(err, apierror.KindValidation), "got %v", err)
}

func TestRegistrarVentaValeSinCodigo(t *testing.T) {
	f := newVentaFixture(t)
	pago := dto.PagoRequest{FormaPago: model.PagoVale}

	_, err := f.svc.Registrar(context.Background(), testScope(), f.ventaCombustible("10", "0", pago))
	assert.True(t, apierror.IsKind(err, apierror.KindValidation), "got %v", err)
}

func TestRegistrarVentaConVale(t *testing.T) {
	f := newVentaFixture(t)
	clienteID := uuid.New()
	f.vales.vales["VALE-100"] = &model.Vale{
		ID:               uuid.New(),
		EmpresaID:        empresaID,
		ClienteID:        clienteID,
		Codigo:           "VALE-100",
		MontoAutorizado:  dec("1000"),
		FechaVencimiento: time.Now().AddDate(0, 1, 0),
		Estado:           model.ValeActivo,
		Cliente: &model.Cliente{
			ID: clienteID, EmpresaID: empresaID, RazonSocial: "Transportes GT",
			LimiteCredito: dec("5000"), SaldoActual: dec("0"), Activo: true,
		},
	}
	codigo := "VALE-100"
	pago := dto.PagoRequest{FormaPago: model.PagoVale, CodigoVale: &codigo}

	resp, err := f.svc.Registrar(context.Background(), testScope(), f.ventaCombustible("10", "0", pago))
	require.NoError(t, err)

	// forma vale with no explicit monto covers the whole total
	assert.True(t, resp.MontoVale.Equal(dec("347.00")), "monto vale %s", resp.MontoVale)
	vale := f.vales.vales["VALE-100"]
	assert.True(t, vale.MontoConsumido.Equal(dec("347.00")))
	assert.True(t, vale.GalonesConsumidos.Equal(dec("10")))
	assert.True(t, f.vales.cargados[clienteID].Equal(dec("347.00")))
}

func TestRegistrarVentaConProductos(t *testing.T) {
	f := newVentaFixture(t)
	productoID := uuid.New()
	f.productos.productos[productoID] = &model.Producto{
		ID: productoID, EmpresaID: empresaID, Nombre: "Aceite 20W-50",
		PrecioVenta: dec("45.00"), Activo: true,
	}
	req := dto.RegistrarVentaRequest{
		Productos: []dto.LineaProductoRequest{{ProductoID: productoID.String(), Cantidad: dec("2")}},
		Pago:      pagoEfectivo("90"),
	}

	resp, err := f.svc.Registrar(context.Background(), testScope(), req)
	require.NoError(t, err)

	assert.True(t, resp.Subtotal.Equal(dec("90.00")))
	assert.True(t, resp.Total.Equal(dec("90.00")))
	assert.True(t, f.productos.descontados[productoID].Equal(dec("2")))
	assert.Empty(t, f.movs.movimientos, "goods do not touch the fuel ledger")
}

func TestAnularVenta(t *testing.T) {
	f := newVentaFixture(t)
	resp, err := f.svc.Registrar(context.Background(), testScope(), f.ventaCombustible("10", "0", pagoEfectivo("400")))
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	require.NoError(t, f.svc.Anular(context.Background(), testScope(), id, "Error de digitación"))

	venta := f.ventas.ventas[id]
	assert.Equal(t, model.VentaAnulada, venta.Estado)
	require.NotNil(t, venta.Notas)
	assert.Contains(t, *venta.Notas, "Error de digitación")

	// Voiding never returns fuel to the tank
	assert.True(t, f.tanques.tanques[f.tanqueID].StockActual.Equal(dec("990")))
	assert.Len(t, f.movs.movimientos, 1)

	// Second void is rejected
	err = f.svc.Anular(context.Background(), testScope(), id, "Otra vez")
	assert.True(t, apierror.IsKind(err, apierror.KindValidation), "got %v", err)
}

func TestAnularVentaOtraSucursal(t *testing.T) {
	f := newVentaFixture(t)
	resp, err := f.svc.Registrar(context.Background(), testScope(), f.ventaCombustible("10", "0", pagoEfectivo("400")))
	require.NoError(t, err)

	otra := testScope()
	otra.SucursalID = uuid.New()
	err = f.svc.Anular(context.Background(), otra, uuid.MustParse(resp.ID), "No es mía")
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound), "got %v", err)
}

func TestRegistrarVentaMangueraOtraSucursal(t *testing.T) {
	f := newVentaFixture(t)
	f.tanques.mangueras[f.mangueraID].Bomba.SucursalID = uuid.New()

	_, err := f.svc.Registrar(context.Background(), testScope(), f.ventaCombustible("10", "0", pagoEfectivo("400")))
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound), "got %v", err)
}

func TestRegistrarVentaSinPrecioVigente(t *testing.T) {
	f := newVentaFixture(t)
	delete(f.precios.precios, f.tipoID)

	_, err := f.svc.Registrar(context.Background(), testScope(), f.ventaCombustible("10", "0", pagoEfectivo("400")))
	assert.True(t, apierror.IsKind(err, apierror.KindNoPriceConfigured), "got %v", err)
}

func TestRegistrarVentaStockBajoMinimoEncolaAlerta(t *testing.T) {
	f := newVentaFixture(t)
	f.tanques.tanques[f.tanqueID].StockActual = dec("105")

	_, err := f.svc.Registrar(context.Background(), testScope(), f.ventaCombustible("10", "0", pagoEfectivo("400")))
	require.NoError(t, err)

	require.Len(t, f.alertas.payloads, 1)
	alerta := f.alertas.payloads[0]
	assert.Equal(t, "T-01", alerta.TanqueCodigo)
	assert.Equal(t, "Central", alerta.SucursalNombre)
	assert.Equal(t, "95.0000", alerta.StockActual)
	assert.Equal(t, "100.0000", alerta.StockMinimo)
}

func TestRegistrarVentaStockSobreMinimoNoAlerta(t *testing.T) {
	f := newVentaFixture(t)

	_, err := f.svc.Registrar(context.Background(), testScope(), f.ventaCombustible("10", "0", pagoEfectivo("400")))
	require.NoError(t, err)
	assert.Empty(t, f.alertas.payloads)
}

func TestRegistrarVentaSinDispatcher(t *testing.T) {
	f := newVentaFixture(t)
	f.tanques.tanques[f.tanqueID].StockActual = dec("105")
	svc := service.NewVentaService(
		f.ventas, f.tanques, f.precios, f.productos, f.movs, f.sucursales,
		service.NewTurnoService(f.turnos),
		service.NewValeService(f.vales),
		nil,
		dec("0.12"),
	)

	// A nil dispatcher must not panic when the sale crosses the minimum
	resp, err := svc.Registrar(context.Background(), testScope(), f.ventaCombustible("10", "0", pagoEfectivo("400")))
	require.NoError(t, err)
	assert.True(t, f.tanques.tanques[f.tanqueID].StockActual.Equal(dec("95")))
	assert.NotNil(t, resp)
}
