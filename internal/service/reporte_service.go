package service

import (
	"context"
	"sort"
	"time"

	"github.com/dary2133/Kathcake-finanzas--sub000/internal/dto"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/repository"

	"github.com/shopspring/decimal"
)

type ReporteService interface {
	Dashboard(ctx context.Context, filter dto.DashboardFilter) (*dto.DashboardResponse, error)
}

type reporteService struct {
	repo repository.ReporteRepository
}

func NewReporteService(repo repository.ReporteRepository) ReporteService {
	return &reporteService{repo: repo}
}

// Dashboard aggregates one ledger over [desde, hasta). In the negocio ambito
// sales count as income next to manual ingreso movimientos; personal only
// sees movimientos. Defaults: desde = January 1st of the current year,
// hasta = tomorrow.
func (s *reporteService) Dashboard(ctx context.Context, filter dto.DashboardFilter) (*dto.DashboardResponse, error) {
	ambito := filter.Ambito
	if ambito == "" {
		ambito = "negocio"
	}

	now := time.Now()
	desde := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.Local)
	hasta := medianocheLocal(now).AddDate(0, 0, 1)
	if filter.Desde != "" {
		d, err := time.ParseInLocation("2006-01-02", filter.Desde, time.Local)
		if err == nil {
			desde = d
		}
	}
	if filter.Hasta != "" {
		// hasta is inclusive on the wire, exclusive in the queries
		h, err := time.ParseInLocation("2006-01-02", filter.Hasta, time.Local)
		if err == nil {
			hasta = h.AddDate(0, 0, 1)
		}
	}

	ingresos, err := s.repo.SumMovimientos(ctx, ambito, "ingreso", desde, hasta)
	if err != nil {
		return nil, err
	}
	gastos, err := s.repo.SumMovimientos(ctx, ambito, "gasto", desde, hasta)
	if err != nil {
		return nil, err
	}
	if ambito == "negocio" {
		ventas, err := s.repo.SumVentas(ctx, desde, hasta)
		if err != nil {
			return nil, err
		}
		ingresos = ingresos.Add(ventas)
	}

	porCategoria, err := s.repo.GastosPorCategoria(ctx, ambito, desde, hasta)
	if err != nil {
		return nil, err
	}

	ingresosMes, err := s.repo.MovimientosPorMes(ctx, ambito, "ingreso", desde, hasta)
	if err != nil {
		return nil, err
	}
	gastosMes, err := s.repo.MovimientosPorMes(ctx, ambito, "gasto", desde, hasta)
	if err != nil {
		return nil, err
	}
	var ventasMes []repository.MesRow
	if ambito == "negocio" {
		ventasMes, err = s.repo.VentasPorMes(ctx, desde, hasta)
		if err != nil {
			return nil, err
		}
	}

	categorias := make([]dto.CategoriaTotal, 0, len(porCategoria))
	for _, row := range porCategoria {
		categorias = append(categorias, dto.CategoriaTotal{Categoria: row.Categoria, Total: row.Total})
	}

	return &dto.DashboardResponse{
		Ambito:             ambito,
		Desde:              desde.Format("2006-01-02"),
		Hasta:              hasta.AddDate(0, 0, -1).Format("2006-01-02"),
		TotalIngresos:      ingresos,
		TotalGastos:        gastos,
		Balance:            ingresos.Sub(gastos),
		GastosPorCategoria: categorias,
		PorMes:             mergePorMes(ingresosMes, ventasMes, gastosMes),
	}, nil
}

// mergePorMes folds the three monthly series into one row per YYYY-MM.
func mergePorMes(ingresos, ventas, gastos []repository.MesRow) []dto.MesTotal {
	type acc struct{ ingresos, gastos decimal.Decimal }
	meses := map[string]*acc{}

	get := func(mes string) *acc {
		a, ok := meses[mes]
		if !ok {
			a = &acc{ingresos: decimal.Zero, gastos: decimal.Zero}
			meses[mes] = a
		}
		return a
	}
	for _, row := range ingresos {
		a := get(row.Mes)
		a.ingresos = a.ingresos.Add(row.Total)
	}
	for _, row := range ventas {
		a := get(row.Mes)
		a.ingresos = a.ingresos.Add(row.Total)
	}
	for _, row := range gastos {
		a := get(row.Mes)
		a.gastos = a.gastos.Add(row.Total)
	}

	keys := make([]string, 0, len(meses))
	for mes := range meses {
		keys = append(keys, mes)
	}
	sort.Strings(keys)

	out := make([]dto.MesTotal, 0, len(keys))
	for _, mes := range keys {
		a := meses[mes]
		out = append(out, dto.MesTotal{Mes: mes, Ingresos: a.ingresos, Gastos: a.gastos})
	}
	return out
}
