package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venta is a completed (or credit-pending) sale.
// Estado: "pagada" | "pendiente"
//
// Prices are ITBIS-inclusive: Subtotal is the tax-exclusive base backed out of
// the gross (bruto / 1.18), ITBIS = bruto - Subtotal, Total = bruto - Descuento.
// A paid sale is immutable except for the cosmetic cliente_nombre patch.
type Venta struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroFactura string    `gorm:"uniqueIndex;not null"` // FACT-<año>-<secuencia>
	ClienteNombre *string
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ITBIS         decimal.Decimal `gorm:"type:decimal(12,2);not null;column:itbis"`
	Descuento     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// MetodoPago: "efectivo" | "tarjeta" | "transferencia" | "otro"
	MetodoPago string `gorm:"type:varchar(20);not null;index"`
	Estado     string `gorm:"type:varchar(20);not null;default:'pagada';index"`
	// SesionCajaID is set when a register session was open at creation time;
	// null sales are attributed to "today" by the midnight-window fallback.
	SesionCajaID *uuid.UUID `gorm:"type:uuid;index"`
	UsuarioID    uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt    time.Time

	Items []VentaItem `gorm:"foreignKey:VentaID"`
}

// VentaItem is one line of a sale. ProductoID is null for a venta libre
// (ad-hoc item not backed by inventory) — those never touch stock.
type VentaItem struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID  `gorm:"type:uuid;index;not null"`
	ProductoID     *uuid.UUID `gorm:"type:uuid;index"`
	Descripcion    string     `gorm:"not null"`
	Cantidad       int        `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"` // ITBIS-inclusive
	Importe        decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's pluralization (venta_items → ventas_items).
func (VentaItem) TableName() string { return "ventas_items" }
