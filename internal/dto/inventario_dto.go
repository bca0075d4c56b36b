package dto

import "github.com/shopspring/decimal"

// MovimientoFilter is bound from query string of GET /v1/inventario/movimientos.
type MovimientoFilter struct {
	TanqueID   string `form:"tanque_id"   validate:"omitempty,uuid"`
	FechaDesde string `form:"fecha_desde"` // YYYY-MM-DD; empty = today
	FechaHasta string `form:"fecha_hasta"`
}

// TanqueEstado is one row of the dashboard tank listing.
type TanqueEstado struct {
	ID               string          `json:"id"`
	Codigo           string          `json:"codigo"`
	TipoCombustible  string          `json:"tipo_combustible"`
	CapacidadGalones decimal.Decimal `json:"capacidad_galones"`
	StockActual      decimal.Decimal `json:"stock_actual"`
	StockMinimo      decimal.Decimal `json:"stock_minimo"`
	PorcentajeLleno  decimal.Decimal `json:"porcentaje_lleno"`
	BajoMinimo       bool            `json:"bajo_minimo"`
}

// ─── Corte diario ────────────────────────────────────────────────────────────

type RegistrarCorteRequest struct {
	TanqueID string `json:"tanque_id" validate:"required,uuid"`
	Fecha    string `json:"fecha"     validate:"required,datetime=2006-01-02"`
	// StockInicial is the opening stock for the day, usually the previous
	// day's physical reading.
	StockInicial decimal.Decimal `json:"stock_inicial" validate:"min=0"`
	// StockFisico is the dipstick measurement taken by the operator.
	StockFisico decimal.Decimal `json:"stock_fisico" validate:"min=0"`
	Notas       *string         `json:"notas"`
}

type CorteResponse struct {
	ID                  string          `json:"id"`
	TanqueID            string          `json:"tanque_id"`
	Fecha               string          `json:"fecha"`
	StockInicial        decimal.Decimal `json:"stock_inicial"`
	ComprasDia          decimal.Decimal `json:"compras_dia"`
	VentasDia           decimal.Decimal `json:"ventas_dia"`
	StockFinalTeorico   decimal.Decimal `json:"stock_final_teorico"`
	StockFinalFisico    decimal.Decimal `json:"stock_final_fisico"`
	Variacion           decimal.Decimal `json:"variacion"`
	PorcentajeVariacion decimal.Decimal `json:"porcentaje_variacion"`
	Clasificacion       string          `json:"clasificacion"` // MERMA | SOBRANTE | EXACTO
}

// MermaTanque aggregates variance per tank over a date range.
type MermaTanque struct {
	TanqueID        string          `json:"tanque_id"`
	TanqueCodigo    string          `json:"tanque_codigo"`
	TipoCombustible string          `json:"tipo_combustible"`
	Dias            int64           `json:"dias"`
	VariacionTotal  decimal.Decimal `json:"variacion_total"`
	MermaTotal      decimal.Decimal `json:"merma_total"`
	SobranteTotal   decimal.Decimal `json:"sobrante_total"`
}

type MermasReporteResponse struct {
	Desde   string        `json:"desde"`
	Hasta   string        `json:"hasta"`
	Tanques []MermaTanque `json:"tanques"`
}
