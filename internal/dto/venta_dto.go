package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	FechaDesde string `form:"fecha_desde"`               // YYYY-MM-DD; empty = today
	FechaHasta string `form:"fecha_hasta"`               // YYYY-MM-DD; empty = today
	Estado     string `form:"estado,default=completada"` // completada | anulada | all
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LineaCombustibleRequest is one fuel line: the hose fixes tank and grade,
// either gallons or a quetzal amount drives the quantity.
type LineaCombustibleRequest struct {
	MangueraID string `json:"manguera_id" validate:"required,uuid"`
	// Exactly one of Galones or Monto must be positive.
	Galones        decimal.Decimal  `json:"galones" validate:"min=0"`
	Monto          decimal.Decimal  `json:"monto"   validate:"min=0"`
	LecturaInicial *decimal.Decimal `json:"lectura_inicial"`
	LecturaFinal   *decimal.Decimal `json:"lectura_final"`
}

type LineaProductoRequest struct {
	ProductoID string          `json:"producto_id" validate:"required,uuid"`
	Cantidad   decimal.Decimal `json:"cantidad"    validate:"required"`
}

type PagoRequest struct {
	FormaPago         string          `json:"forma_pago" validate:"required,oneof=efectivo tarjeta vale mixto"`
	MontoEfectivo     decimal.Decimal `json:"monto_efectivo" validate:"min=0"`
	MontoTarjeta      decimal.Decimal `json:"monto_tarjeta"  validate:"min=0"`
	MontoVale         decimal.Decimal `json:"monto_vale"     validate:"min=0"`
	ReferenciaTarjeta *string         `json:"referencia_tarjeta"`
	// CodigoVale is required when the payment uses a voucher.
	CodigoVale *string `json:"codigo_vale"`
}

type RegistrarVentaRequest struct {
	Combustibles []LineaCombustibleRequest `json:"combustibles" validate:"omitempty,dive"`
	Productos    []LineaProductoRequest    `json:"productos"    validate:"omitempty,dive"`
	Pago         PagoRequest               `json:"pago"         validate:"required"`
	ClienteID    *string                   `json:"cliente_id"   validate:"omitempty,uuid"`
	Notas        *string                   `json:"notas"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LineaCombustibleResponse struct {
	TipoCombustible string          `json:"tipo_combustible"`
	Galones         decimal.Decimal `json:"galones"`
	PrecioUnitario  decimal.Decimal `json:"precio_unitario"`
	IDPUnitario     decimal.Decimal `json:"idp_unitario"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	IDPTotal        decimal.Decimal `json:"idp_total"`
}

type LineaProductoResponse struct {
	Producto       string          `json:"producto"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID            string                     `json:"id"`
	NumeroTicket  string                     `json:"numero_ticket"`
	Fecha         string                     `json:"fecha"`
	Combustibles  []LineaCombustibleResponse `json:"combustibles"`
	Productos     []LineaProductoResponse    `json:"productos"`
	Subtotal      decimal.Decimal            `json:"subtotal"`
	IDPTotal      decimal.Decimal            `json:"idp_total"`
	IVATotal      decimal.Decimal            `json:"iva_total"`
	Total         decimal.Decimal            `json:"total"`
	FormaPago     string                     `json:"forma_pago"`
	MontoEfectivo decimal.Decimal            `json:"monto_efectivo"`
	MontoTarjeta  decimal.Decimal            `json:"monto_tarjeta"`
	MontoVale     decimal.Decimal            `json:"monto_vale"`
	Estado        string                     `json:"estado"`
}

// VentaTotalesDia aggregates completed sales of one branch on one date.
type VentaTotalesDia struct {
	Fecha         string          `json:"fecha"`
	TotalTickets  int64           `json:"total_tickets"`
	TotalVendido  decimal.Decimal `json:"total_vendido"`
	TotalEfectivo decimal.Decimal `json:"total_efectivo"`
	TotalTarjeta  decimal.Decimal `json:"total_tarjeta"`
	TotalVales    decimal.Decimal `json:"total_vales"`
	TotalIDP      decimal.Decimal `json:"total_idp" gorm:"column:total_idp"`
	TotalIVA      decimal.Decimal `json:"total_iva" gorm:"column:total_iva"`
}
