package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movimiento is a bookkeeping entry outside the sales flow: an expense
// ("gasto") or a manual income ("ingreso").
// Ambito: "negocio" | "personal" — which ledger the entry belongs to.
// Estado: "pagado" | "pendiente"
//
// Like sales, a movimiento created while a register session is open carries
// the session id; orphans fall into the daily midnight window.
type Movimiento struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo      string          `gorm:"type:varchar(20);not null;index"`
	Categoria string          `gorm:"not null;index"`
	Concepto  string          `gorm:"not null"`
	Proveedor *string
	Monto     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// MetodoPago: "efectivo" | "tarjeta" | "transferencia" | "otro"
	MetodoPago   string     `gorm:"type:varchar(20);not null"`
	Estado       string     `gorm:"type:varchar(20);not null;default:'pagado'"`
	Ambito       string     `gorm:"type:varchar(20);not null;default:'negocio';index"`
	CuentaID     *uuid.UUID `gorm:"type:uuid;index"`
	SesionCajaID *uuid.UUID `gorm:"type:uuid;index"`
	Fecha        time.Time  `gorm:"not null;index"`
	UsuarioID    uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt    time.Time

	Cuenta *Cuenta `gorm:"foreignKey:CuentaID"`
}
