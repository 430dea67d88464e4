package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre      string          `json:"nombre"       validate:"required,min=2"`
	Descripcion *string         `json:"descripcion"`
	Categoria   string          `json:"categoria"    validate:"required"`
	Precio      decimal.Decimal `json:"precio"       validate:"required,gt=0"` // ITBIS-inclusive
	Costo       decimal.Decimal `json:"costo"        validate:"min=0"`
	StockActual int             `json:"stock_actual" validate:"min=0"`
	StockMinimo int             `json:"stock_minimo" validate:"min=0"`
}

type ActualizarProductoRequest struct {
	Nombre      string           `json:"nombre"       validate:"omitempty,min=2"`
	Descripcion *string          `json:"descripcion"`
	Categoria   string           `json:"categoria"`
	Precio      *decimal.Decimal `json:"precio"       validate:"omitempty,gt=0"`
	Costo       *decimal.Decimal `json:"costo"`
	StockMinimo *int             `json:"stock_minimo" validate:"omitempty,min=0"`
}

// AjustarStockRequest adjusts stock by a signed delta (recount, spoilage, restock).
type AjustarStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Motivo string `json:"motivo" validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	Descripcion *string         `json:"descripcion"`
	Categoria   string          `json:"categoria"`
	Precio      decimal.Decimal `json:"precio"`
	Costo       decimal.Decimal `json:"costo"`
	StockActual int             `json:"stock_actual"`
	StockMinimo int             `json:"stock_minimo"`
	StockBajo   bool            `json:"stock_bajo"`
	Activo      bool            `json:"activo"`
}
