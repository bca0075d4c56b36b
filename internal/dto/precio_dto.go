package dto

import "github.com/shopspring/decimal"

type CrearPrecioRequest struct {
	TipoCombustibleID string          `json:"tipo_combustible_id" validate:"required,uuid"`
	PrecioUnitario    decimal.Decimal `json:"precio_unitario"     validate:"required"`
	IDPPorGalon       decimal.Decimal `json:"idp_por_galon"       validate:"min=0"`
	// VigenteDesde may be in the future to schedule the change; empty = now.
	VigenteDesde *string `json:"vigente_desde" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type PrecioResponse struct {
	ID                string          `json:"id"`
	TipoCombustibleID string          `json:"tipo_combustible_id"`
	PrecioUnitario    decimal.Decimal `json:"precio_unitario"`
	IDPPorGalon       decimal.Decimal `json:"idp_por_galon"`
	VigenteDesde      string          `json:"vigente_desde"`
}

type PreciosVigentesResponse struct {
	SucursalID string           `json:"sucursal_id"`
	Precios    []PrecioResponse `json:"precios"`
}
