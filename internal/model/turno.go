package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Turno states.
const (
	TurnoAbierto = "abierto"
	TurnoCerrado = "cerrado"
)

// Turno is a cashier work session. At most one abierto turno may exist per
// (usuario, sucursal); sale registration requires one.
type Turno struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SucursalID uuid.UUID `gorm:"type:uuid;not null;index:idx_turno_sucursal_usuario"`
	UsuarioID  uuid.UUID `gorm:"type:uuid;not null;index:idx_turno_sucursal_usuario"`
	Fecha      time.Time `gorm:"type:date;not null"`
	HoraInicio time.Time `gorm:"not null"`
	HoraFin    *time.Time

	EfectivoInicial decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	EfectivoFinal   *decimal.Decimal `gorm:"type:decimal(12,2)"`

	Estado    string  `gorm:"type:varchar(20);not null;default:'abierto'"`
	Notas     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Turno) TableName() string { return "turnos" }
