package repository

import (
	"context"
	"time"

	"github.com/dary2133/Kathcake-finanzas--sub000/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CategoriaRow / MesRow are aggregation rows for the dashboard queries.
type CategoriaRow struct {
	Categoria string
	Total     decimal.Decimal
}

type MesRow struct {
	Mes   string
	Total decimal.Decimal
}

// ReporteRepository holds the read-only aggregate queries behind the
// dashboard. All ranges are [desde, hasta).
type ReporteRepository interface {
	SumMovimientos(ctx context.Context, ambito, tipo string, desde, hasta time.Time) (decimal.Decimal, error)
	SumVentas(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, error)
	GastosPorCategoria(ctx context.Context, ambito string, desde, hasta time.Time) ([]CategoriaRow, error)
	MovimientosPorMes(ctx context.Context, ambito, tipo string, desde, hasta time.Time) ([]MesRow, error)
	VentasPorMes(ctx context.Context, desde, hasta time.Time) ([]MesRow, error)
}

type reporteRepo struct{ db *gorm.DB }

func NewReporteRepository(db *gorm.DB) ReporteRepository { return &reporteRepo{db: db} }

func (r *reporteRepo) SumMovimientos(ctx context.Context, ambito, tipo string, desde, hasta time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Movimiento{}).
		Select("COALESCE(SUM(monto), 0)").
		Where("ambito = ? AND tipo = ? AND fecha >= ? AND fecha < ?", ambito, tipo, desde, hasta).
		Scan(&total).Error
	return total, err
}

func (r *reporteRepo) SumVentas(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("COALESCE(SUM(total), 0)").
		Where("estado = 'pagada' AND created_at >= ? AND created_at < ?", desde, hasta).
		Scan(&total).Error
	return total, err
}

func (r *reporteRepo) GastosPorCategoria(ctx context.Context, ambito string, desde, hasta time.Time) ([]CategoriaRow, error) {
	var rows []CategoriaRow
	err := r.db.WithContext(ctx).Model(&model.Movimiento{}).
		Select("categoria, COALESCE(SUM(monto), 0) AS total").
		Where("ambito = ? AND tipo = 'gasto' AND fecha >= ? AND fecha < ?", ambito, desde, hasta).
		Group("categoria").
		Order("total DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *reporteRepo) MovimientosPorMes(ctx context.Context, ambito, tipo string, desde, hasta time.Time) ([]MesRow, error) {
	var rows []MesRow
	err := r.db.WithContext(ctx).Model(&model.Movimiento{}).
		Select("to_char(fecha, 'YYYY-MM') AS mes, COALESCE(SUM(monto), 0) AS total").
		Where("ambito = ? AND tipo = ? AND fecha >= ? AND fecha < ?", ambito, tipo, desde, hasta).
		Group("mes").
		Order("mes ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *reporteRepo) VentasPorMes(ctx context.Context, desde, hasta time.Time) ([]MesRow, error) {
	var rows []MesRow
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("to_char(created_at, 'YYYY-MM') AS mes, COALESCE(SUM(total), 0) AS total").
		Where("estado = 'pagada' AND created_at >= ? AND created_at < ?", desde, hasta).
		Group("mes").
		Order("mes ASC").
		Scan(&rows).Error
	return rows, err
}
