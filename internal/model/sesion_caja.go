package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SesionCaja represents the lifecycle of a cash register session.
// Estado: "abierta" | "cerrada"
//
// At most one session may be "abierta" at a time; the invariant is backed by
// a partial unique index on (estado) WHERE estado = 'abierta' (see infra).
type SesionCaja struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null"`
	MontoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// MontoEsperado is computed on close: MontoInicial + ventas en efectivo
	MontoEsperado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MontoContado  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Diferencia    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Resultado: "cuadra" when Diferencia is zero, "descuadre" otherwise
	Resultado *string `gorm:"type:varchar(20)"`
	Estado    string  `gorm:"type:varchar(20);not null;default:'abierta';index"`
	Notas     *string
	OpenedAt  time.Time
	ClosedAt  *time.Time
}

// TableName overrides GORM's default pluralization (sesion_cajas → sesiones_caja).
func (SesionCaja) TableName() string { return "sesiones_caja" }
