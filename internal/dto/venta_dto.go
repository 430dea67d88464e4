package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from the query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha  string `form:"fecha"`                  // YYYY-MM-DD; empty = today
	Estado string `form:"estado,default=pagada"`  // pagada | pendiente | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ItemVentaRequest is one sale line. ProductoID empty means venta libre: the
// line needs descripcion + precio_unitario and never touches stock. For
// inventory lines the unit price comes from the product record.
type ItemVentaRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"omitempty,uuid"`
	Descripcion    string          `json:"descripcion"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"min=0"`
}

type RegistrarVentaRequest struct {
	Items      []ItemVentaRequest `json:"items"       validate:"required,min=1,dive"`
	Cliente    *string            `json:"cliente"`
	MetodoPago string             `json:"metodo_pago" validate:"required,oneof=efectivo tarjeta transferencia otro"`
	// Descuento is interpreted per TipoDescuento: a percentage of the gross,
	// or a fixed amount. Zero means no discount.
	Descuento     decimal.Decimal `json:"descuento"      validate:"min=0"`
	TipoDescuento string          `json:"tipo_descuento" validate:"omitempty,oneof=porcentaje fijo"`
	Estado        string          `json:"estado"         validate:"omitempty,oneof=pagada pendiente"`
	// ClienteEmail: optional — when present, the e-mail worker sends the PDF invoice.
	ClienteEmail *string `json:"cliente_email" validate:"omitempty,email"`
}

type ActualizarClienteRequest struct {
	Cliente string `json:"cliente" validate:"required,min=2"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	Producto       string          `json:"producto"`
	VentaLibre     bool            `json:"venta_libre"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Importe        decimal.Decimal `json:"importe"`
}

type VentaResponse struct {
	ID            string              `json:"id"`
	NumeroFactura string              `json:"numero_factura"`
	Cliente       *string             `json:"cliente"`
	Items         []ItemVentaResponse `json:"items"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	ITBIS         decimal.Decimal     `json:"itbis"`
	Descuento     decimal.Decimal     `json:"descuento"`
	Total         decimal.Decimal     `json:"total"`
	MetodoPago    string              `json:"metodo_pago"`
	Estado        string              `json:"estado"`
	SesionCajaID  *string             `json:"sesion_caja_id"`
	CreatedAt     string              `json:"created_at"`
}
