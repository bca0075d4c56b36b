package dto

import "github.com/shopspring/decimal"

type AbrirTurnoRequest struct {
	EfectivoInicial decimal.Decimal `json:"efectivo_inicial" validate:"min=0"`
}

type CerrarTurnoRequest struct {
	EfectivoFinal decimal.Decimal `json:"efectivo_final" validate:"min=0"`
	Notas         *string         `json:"notas"`
}

type TurnoResponse struct {
	ID              string           `json:"id"`
	SucursalID      string           `json:"sucursal_id"`
	UsuarioID       string           `json:"usuario_id"`
	Fecha           string           `json:"fecha"`
	HoraInicio      string           `json:"hora_inicio"`
	HoraFin         *string          `json:"hora_fin,omitempty"`
	EfectivoInicial decimal.Decimal  `json:"efectivo_inicial"`
	EfectivoFinal   *decimal.Decimal `json:"efectivo_final,omitempty"`
	Estado          string           `json:"estado"`
}
