package dto

import "github.com/shopspring/decimal"

type ValidarValeRequest struct {
	Codigo string `json:"codigo" validate:"required,min=1,max=50"`
	// Monto is the intended redemption amount; zero means "just check".
	Monto decimal.Decimal `json:"monto" validate:"min=0"`
}

// ValeResponse carries the voucher snapshot. On a business rejection
// (expired, exhausted, wrong branch) it is still populated so the POS can
// show the operator what the voucher looks like.
type ValeResponse struct {
	ID               string          `json:"id"`
	Codigo           string          `json:"codigo"`
	Cliente          string          `json:"cliente"`
	Estado           string          `json:"estado"`
	MontoAutorizado  decimal.Decimal `json:"monto_autorizado"`
	MontoConsumido   decimal.Decimal `json:"monto_consumido"`
	SaldoDisponible  decimal.Decimal `json:"saldo_disponible"`
	FechaVencimiento string          `json:"fecha_vencimiento"`
	CreditoCliente   decimal.Decimal `json:"credito_cliente"` // remaining client credit
}

type ValidarValeResponse struct {
	Valido bool          `json:"valido"`
	Motivo string        `json:"motivo,omitempty"`
	Vale   *ValeResponse `json:"vale,omitempty"`
}
