package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	MontoInicial decimal.Decimal `json:"monto_inicial" validate:"min=0"`
}

type CerrarCajaRequest struct {
	MontoContado decimal.Decimal `json:"monto_contado" validate:"min=0"`
	Notas        *string         `json:"notas"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// SesionCajaData is the open-session payload inside EstadoCajaResponse.
type SesionCajaData struct {
	SesionCajaID string          `json:"sesion_caja_id"`
	MontoInicial decimal.Decimal `json:"monto_inicial"`
	OpenedAt     string          `json:"opened_at"`
}

type EstadoCajaResponse struct {
	Abierta bool            `json:"abierta"`
	Data    *SesionCajaData `json:"data"`
}

type AbrirCajaResponse struct {
	SesionCajaID string          `json:"sesion_caja_id"`
	MontoInicial decimal.Decimal `json:"monto_inicial"`
	Estado       string          `json:"estado"`
	OpenedAt     string          `json:"opened_at"`
}

// CierreCajaResponse is the reconciliation report returned at close.
// Resultado: "cuadra" | "descuadre"
type CierreCajaResponse struct {
	SesionCajaID   string          `json:"sesion_caja_id"`
	MontoInicial   decimal.Decimal `json:"monto_inicial"`
	VentasEfectivo decimal.Decimal `json:"ventas_efectivo"`
	MontoEsperado  decimal.Decimal `json:"monto_esperado"`
	MontoContado   decimal.Decimal `json:"monto_contado"`
	Diferencia     decimal.Decimal `json:"diferencia"`
	Resultado      string          `json:"resultado"`
	Estado         string          `json:"estado"`
	ClosedAt       string          `json:"closed_at"`
}

// TotalesPorMetodo breaks sales down by payment method.
type TotalesPorMetodo struct {
	Efectivo      decimal.Decimal `json:"efectivo"`
	Tarjeta       decimal.Decimal `json:"tarjeta"`
	Transferencia decimal.Decimal `json:"transferencia"`
	Otro          decimal.Decimal `json:"otro"`
	Total         decimal.Decimal `json:"total"`
}

// ResumenDiarioResponse summarizes the open session, or — when no session is
// open — everything since local midnight (sesion_abierta tells which).
type ResumenDiarioResponse struct {
	SesionAbierta bool             `json:"sesion_abierta"`
	SesionCajaID  *string          `json:"sesion_caja_id"`
	Ventas        TotalesPorMetodo `json:"ventas"`
	TotalGastos   decimal.Decimal  `json:"total_gastos"`
	Balance       decimal.Decimal  `json:"balance"`
}

// ResumenSesionResponse is the per-session summary. For closed sessions it is
// served from cache and never recomputed.
type ResumenSesionResponse struct {
	SesionCajaID string           `json:"sesion_caja_id"`
	Estado       string           `json:"estado"`
	Ventas       TotalesPorMetodo `json:"ventas"`
	TotalGastos  decimal.Decimal  `json:"total_gastos"`
	Balance      decimal.Decimal  `json:"balance"`
}

type SesionListItem struct {
	SesionCajaID  string           `json:"sesion_caja_id"`
	MontoInicial  decimal.Decimal  `json:"monto_inicial"`
	MontoEsperado *decimal.Decimal `json:"monto_esperado"`
	MontoContado  *decimal.Decimal `json:"monto_contado"`
	Diferencia    *decimal.Decimal `json:"diferencia"`
	Resultado     *string          `json:"resultado"`
	Estado        string           `json:"estado"`
	OpenedAt      string           `json:"opened_at"`
	ClosedAt      *string          `json:"closed_at"`
}
