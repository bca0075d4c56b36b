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
)

type corteFixture struct {
	cortes     *stubCorteRepo
	tanques    *stubTanqueRepo
	ventas     *stubVentaRepo
	compras    *stubCompraRepo
	movs       *stubMovimientoRepo
	sucursales *stubSucursalRepo
	alertas    *stubAlertas
	svc        service.CorteService

	tanqueID uuid.UUID
}

func newCorteFixture(t *testing.T) *corteFixture {
	t.Helper()
	f := &corteFixture{
		cortes:     newStubCorteRepo(),
		tanques:    newStubTanqueRepo(),
		ventas:     newStubVentaRepo(),
		compras:    newStubCompraRepo(),
		movs:       &stubMovimientoRepo{},
		sucursales: &stubSucursalRepo{},
		alertas:    &stubAlertas{},
		tanqueID:   uuid.New(),
	}
	f.sucursales.sucursal = &model.Sucursal{
		ID: sucursalID, EmpresaID: empresaID, Numero: 1, Nombre: "Central", Activo: true,
	}
	f.tanques.tanques[f.tanqueID] = &model.Tanque{
		ID:                f.tanqueID,
		SucursalID:        sucursalID,
		TipoCombustibleID: uuid.New(),
		Codigo:            "T-01",
		CapacidadGalones:  dec("10000"),
		StockActual:       dec("800"),
		StockMinimo:       dec("500"),
		Activo:            true,
	}
	f.svc = service.NewCorteService(f.cortes, f.tanques, f.ventas, f.compras, f.movs, f.sucursales, f.alertas)
	return f
}

func (f *corteFixture) registrar(t *testing.T, inicial, fisico string) (*dto.CorteResponse, error) {
	t.Helper()
	return f.svc.Registrar(context.Background(), testScope(), dto.RegistrarCorteRequest{
		TanqueID:     f.tanqueID.String(),
		Fecha:        "2026-08-31",
		StockInicial: dec(inicial),
		StockFisico:  dec(fisico),
	})
}

func TestRegistrarCorteMerma(t *testing.T) {
	f := newCorteFixture(t)
	f.compras.comprasDia = dec("3000")
	f.ventas.ventasDia = dec("7200.5")

	// teorico = 5000 + 3000 - 7200.5 = 799.5; fisico 680.3 => merma de 119.2
	resp, err := f.registrar(t, "5000", "680.3")
	require.NoError(t, err)

	assert.True(t, resp.StockFinalTeorico.Equal(dec("799.5")), "teorico %s", resp.StockFinalTeorico)
	assert.True(t, resp.Variacion.Equal(dec("-119.2")), "variacion %s", resp.Variacion)
	assert.True(t, resp.PorcentajeVariacion.Equal(dec("-14.9093")), "pct %s", resp.PorcentajeVariacion)
	assert.Equal(t, model.CorteMerma, resp.Clasificacion)

	// Running stock corrected to the dipstick reading
	assert.True(t, f.tanques.tanques[f.tanqueID].StockActual.Equal(dec("680.3")))
	assert.True(t, f.tanques.fisicoSets[f.tanqueID].Equal(dec("680.3")))
}

func TestRegistrarCorteSobrante(t *testing.T) {
	f := newCorteFixture(t)
	f.compras.comprasDia = dec("0")
	f.ventas.ventasDia = dec("200")

	resp, err := f.registrar(t, "1000", "810.5")
	require.NoError(t, err)

	assert.True(t, resp.Variacion.Equal(dec("10.5")))
	assert.Equal(t, model.CorteSobrante, resp.Clasificacion)
}

func TestRegistrarCorteExacto(t *testing.T) {
	f := newCorteFixture(t)
	f.ventas.ventasDia = dec("200")

	resp, err := f.registrar(t, "1000", "800")
	require.NoError(t, err)

	assert.True(t, resp.Variacion.IsZero())
	assert.Equal(t, model.CorteExacto, resp.Clasificacion)
}

func TestRegistrarCorteReemplaza(t *testing.T) {
	f := newCorteFixture(t)
	f.ventas.ventasDia = dec("200")

	_, err := f.registrar(t, "1000", "790")
	require.NoError(t, err)
	// Corrected dipstick reading for the same day overwrites, never duplicates
	resp, err := f.registrar(t, "1000", "795")
	require.NoError(t, err)

	assert.Len(t, f.cortes.cortes, 1)
	assert.True(t, resp.StockFinalFisico.Equal(dec("795")))
}

func TestRegistrarCorteStockInicialDelCorteAnterior(t *testing.T) {
	f := newCorteFixture(t)
	f.ventas.ventasDia = dec("200")
	require.NoError(t, f.cortes.Upsert(context.Background(), &model.CorteDiario{
		SucursalID:       sucursalID,
		TanqueID:         f.tanqueID,
		Fecha:            time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		StockFinalFisico: dec("950"),
	}))

	// Omitted opening stock falls back to the previous day's reading
	resp, err := f.registrar(t, "0", "748.2")
	require.NoError(t, err)

	assert.True(t, resp.StockInicial.Equal(dec("950")), "inicial %s", resp.StockInicial)
	assert.True(t, resp.StockFinalTeorico.Equal(dec("750")), "teorico %s", resp.StockFinalTeorico)
	assert.True(t, resp.Variacion.Equal(dec("-1.8")), "variacion %s", resp.Variacion)
}

func TestRegistrarCorteAlertaStockBajo(t *testing.T) {
	f := newCorteFixture(t)
	f.ventas.ventasDia = dec("520")

	_, err := f.registrar(t, "1000", "478.6")
	require.NoError(t, err)

	require.Len(t, f.alertas.payloads, 1)
	alerta := f.alertas.payloads[0]
	assert.Equal(t, "T-01", alerta.TanqueCodigo)
	assert.Equal(t, "Central", alerta.SucursalNombre)
	assert.Equal(t, "478.6000", alerta.StockActual)
	assert.Equal(t, "500.0000", alerta.StockMinimo)
}

func TestRegistrarCorteStockSobreMinimoNoAlerta(t *testing.T) {
	f := newCorteFixture(t)
	f.ventas.ventasDia = dec("200")

	_, err := f.registrar(t, "1000", "795")
	require.NoError(t, err)
	assert.Empty(t, f.alertas.payloads)
}

func TestRegistrarCorteTanqueOtraSucursal(t *testing.T) {
	f := newCorteFixture(t)
	otra := testScope()
	otra.SucursalID = uuid.New()

	_, err := f.svc.Registrar(context.Background(), otra, dto.RegistrarCorteRequest{
		TanqueID:     f.tanqueID.String(),
		Fecha:        "2026-08-31",
		StockInicial: dec("1000"),
		StockFisico:  dec("800"),
	})
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound), "got %v", err)
}

func TestRegistrarCorteFechaInvalida(t *testing.T) {
	f := newCorteFixture(t)

	_, err := f.svc.Registrar(context.Background(), testScope(), dto.RegistrarCorteRequest{
		TanqueID:     f.tanqueID.String(),
		Fecha:        "31/08/2026",
		StockInicial: dec("1000"),
		StockFisico:  dec("800"),
	})
	assert.True(t, apierror.IsKind(err, apierror.KindValidation), "got %v", err)
}

func TestListarCortesRangoInvertido(t *testing.T) {
	f := newCorteFixture(t)

	_, err := f.svc.Listar(context.Background(), testScope(), "2026-08-31", "2026-08-01")
	assert.True(t, apierror.IsKind(err, apierror.KindValidation), "got %v", err)
}

func TestReporteMermas(t *testing.T) {
	f := newCorteFixture(t)
	f.cortes.mermas = []dto.MermaTanque{{
		TanqueID:       f.tanqueID.String(),
		TanqueCodigo:   "T-01",
		Dias:           5,
		VariacionTotal: dec("-230.4"),
		MermaTotal:     dec("-245.1"),
		SobranteTotal:  dec("14.7"),
	}}

	resp, err := f.svc.ReporteMermas(context.Background(), testScope(), "2026-08-01", "2026-08-31")
	require.NoError(t, err)

	assert.Equal(t, "2026-08-01", resp.Desde)
	assert.Equal(t, "2026-08-31", resp.Hasta)
	require.Len(t, resp.Tanques, 1)
	assert.Equal(t, "T-01", resp.Tanques[0].TanqueCodigo)
}
