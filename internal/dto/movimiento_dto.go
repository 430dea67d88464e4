package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarMovimientoRequest struct {
	Tipo      string          `json:"tipo"        validate:"omitempty,oneof=gasto ingreso"`
	Fecha     string          `json:"fecha"       validate:"omitempty,datetime=2006-01-02"`
	Categoria string          `json:"categoria"   validate:"required,min=2"`
	Concepto  string          `json:"concepto"    validate:"required,min=3"`
	Proveedor *string         `json:"proveedor"`
	Monto     decimal.Decimal `json:"monto"       validate:"required,gt=0"`
	MetodoPago string         `json:"metodo_pago" validate:"required,oneof=efectivo tarjeta transferencia otro"`
	Estado    string          `json:"estado"      validate:"omitempty,oneof=pagado pendiente"`
	Ambito    string          `json:"ambito"      validate:"omitempty,oneof=negocio personal"`
	CuentaID  *string         `json:"cuenta_id"   validate:"omitempty,uuid"`
}

// MovimientoFilter is bound from the query string of GET /v1/movimientos.
type MovimientoFilter struct {
	Ambito    string `form:"ambito"    validate:"omitempty,oneof=negocio personal"`
	Tipo      string `form:"tipo"      validate:"omitempty,oneof=gasto ingreso"`
	Categoria string `form:"categoria"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoResponse struct {
	ID           string          `json:"id"`
	Tipo         string          `json:"tipo"`
	Categoria    string          `json:"categoria"`
	Concepto     string          `json:"concepto"`
	Proveedor    *string         `json:"proveedor"`
	Monto        decimal.Decimal `json:"monto"`
	MetodoPago   string          `json:"metodo_pago"`
	Estado       string          `json:"estado"`
	Ambito       string          `json:"ambito"`
	CuentaID     *string         `json:"cuenta_id"`
	SesionCajaID *string         `json:"sesion_caja_id"`
	Fecha        string          `json:"fecha"`
}

type MovimientoListResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
