package dto

import "github.com/shopspring/decimal"

// CompraFilter is bound from query string of GET /v1/compras.
type CompraFilter struct {
	FechaDesde string `form:"fecha_desde"` // YYYY-MM-DD; empty = today
	FechaHasta string `form:"fecha_hasta"`
}

type DetalleCompraRequest struct {
	TanqueID       string          `json:"tanque_id"       validate:"required,uuid"`
	Galones        decimal.Decimal `json:"galones"         validate:"required"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"required"`
	IDPUnitario    decimal.Decimal `json:"idp_unitario"    validate:"min=0"`
}

type RegistrarCompraRequest struct {
	ProveedorID    string                 `json:"proveedor_id"    validate:"required,uuid"`
	NumeroFactura  string                 `json:"numero_factura"  validate:"required,min=1,max=50"`
	FechaFactura   string                 `json:"fecha_factura"   validate:"required,datetime=2006-01-02"`
	FechaRecepcion string                 `json:"fecha_recepcion" validate:"required,datetime=2006-01-02"`
	Detalles       []DetalleCompraRequest `json:"detalles"        validate:"required,min=1,dive"`
	Notas          *string                `json:"notas"`
}

type DetalleCompraResponse struct {
	TanqueID       string          `json:"tanque_id"`
	Galones        decimal.Decimal `json:"galones"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	IDPTotal       decimal.Decimal `json:"idp_total"`
}

type CompraResponse struct {
	ID             string                  `json:"id"`
	Proveedor      string                  `json:"proveedor"`
	NumeroFactura  string                  `json:"numero_factura"`
	FechaFactura   string                  `json:"fecha_factura"`
	FechaRecepcion string                  `json:"fecha_recepcion"`
	Detalles       []DetalleCompraResponse `json:"detalles"`
	Subtotal       decimal.Decimal         `json:"subtotal"`
	IDPTotal       decimal.Decimal         `json:"idp_total"`
	IVATotal       decimal.Decimal         `json:"iva_total"`
	Total          decimal.Decimal         `json:"total"`
	Estado         string                  `json:"estado"`
}
