package dto

import "github.com/shopspring/decimal"

// DashboardFilter is bound from the query string of GET /v1/reportes/dashboard.
type DashboardFilter struct {
	Ambito string `form:"ambito,default=negocio" validate:"oneof=negocio personal"`
	Desde  string `form:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta  string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
}

type CategoriaTotal struct {
	Categoria string          `json:"categoria"`
	Total     decimal.Decimal `json:"total"`
}

type MesTotal struct {
	Mes      string          `json:"mes"` // YYYY-MM
	Ingresos decimal.Decimal `json:"ingresos"`
	Gastos   decimal.Decimal `json:"gastos"`
}

// DashboardResponse aggregates one ledger (negocio or personal) over a date
// range. In the negocio ambito, sales count as income alongside manual
// ingreso movimientos; the personal ambito only sees movimientos.
type DashboardResponse struct {
	Ambito             string           `json:"ambito"`
	Desde              string           `json:"desde"`
	Hasta              string           `json:"hasta"`
	TotalIngresos      decimal.Decimal  `json:"total_ingresos"`
	TotalGastos        decimal.Decimal  `json:"total_gastos"`
	Balance            decimal.Decimal  `json:"balance"`
	GastosPorCategoria []CategoriaTotal `json:"gastos_por_categoria"`
	PorMes             []MesTotal       `json:"por_mes"`
}
