package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dary2133/Kathcake-finanzas--sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrSesionYaAbierta is returned by AbrirSesion when another session is open.
var ErrSesionYaAbierta = errors.New("ya existe una sesión de caja abierta")

type CajaRepository interface {
	// AbrirSesion creates the session inside a transaction that re-checks the
	// single-open invariant; the partial unique index on estado='abierta'
	// makes the check race-proof.
	AbrirSesion(ctx context.Context, s *model.SesionCaja) error
	FindSesionAbierta(ctx context.Context) (*model.SesionCaja, error)
	FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error)
	CerrarSesion(ctx context.Context, s *model.SesionCaja) error
	ListSesiones(ctx context.Context, page, limit int) ([]model.SesionCaja, int64, error)

	// Reconciliation sums. Only paid sales count.
	SumVentasPorMetodo(ctx context.Context, sesionID uuid.UUID) (map[string]decimal.Decimal, error)
	SumVentasPorMetodoDesde(ctx context.Context, desde time.Time) (map[string]decimal.Decimal, error)
	SumGastos(ctx context.Context, sesionID uuid.UUID) (decimal.Decimal, error)
	SumGastosDesde(ctx context.Context, desde time.Time) (decimal.Decimal, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) AbrirSesion(ctx context.Context, s *model.SesionCaja) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.SesionCaja{}).Where("estado = 'abierta'").Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrSesionYaAbierta
		}
		if err := tx.Create(s).Error; err != nil {
			// Lost the race — the unique index rejected the second insert.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSesionYaAbierta
			}
			return err
		}
		return nil
	})
}

func (r *cajaRepo) FindSesionAbierta(ctx context.Context) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).Where("estado = 'abierta'").First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cajaRepo) FindSesionByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	var s model.SesionCaja
	err := r.db.WithContext(ctx).First(&s, id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *cajaRepo) CerrarSesion(ctx context.Context, s *model.SesionCaja) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *cajaRepo) ListSesiones(ctx context.Context, page, limit int) ([]model.SesionCaja, int64, error) {
	var sesiones []model.SesionCaja
	var total int64

	q := r.db.WithContext(ctx).Model(&model.SesionCaja{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("opened_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&sesiones).Error
	return sesiones, total, err
}

type metodoSum struct {
	MetodoPago string
	Total      decimal.Decimal
}

func (r *cajaRepo) SumVentasPorMetodo(ctx context.Context, sesionID uuid.UUID) (map[string]decimal.Decimal, error) {
	var rows []metodoSum
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("metodo_pago, COALESCE(SUM(total), 0) AS total").
		Where("sesion_caja_id = ? AND estado = 'pagada'", sesionID).
		Group("metodo_pago").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return metodoSumsToMap(rows), nil
}

func (r *cajaRepo) SumVentasPorMetodoDesde(ctx context.Context, desde time.Time) (map[string]decimal.Decimal, error) {
	var rows []metodoSum
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Select("metodo_pago, COALESCE(SUM(total), 0) AS total").
		Where("sesion_caja_id IS NULL AND estado = 'pagada' AND created_at >= ?", desde).
		Group("metodo_pago").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return metodoSumsToMap(rows), nil
}

func (r *cajaRepo) SumGastos(ctx context.Context, sesionID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Movimiento{}).
		Select("COALESCE(SUM(monto), 0)").
		Where("sesion_caja_id = ? AND tipo = 'gasto'", sesionID).
		Scan(&total).Error
	return total, err
}

func (r *cajaRepo) SumGastosDesde(ctx context.Context, desde time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Movimiento{}).
		Select("COALESCE(SUM(monto), 0)").
		Where("sesion_caja_id IS NULL AND tipo = 'gasto' AND fecha >= ?", desde).
		Scan(&total).Error
	return total, err
}

func metodoSumsToMap(rows []metodoSum) map[string]decimal.Decimal {
	sums := map[string]decimal.Decimal{
		"efectivo":      decimal.Zero,
		"tarjeta":       decimal.Zero,
		"transferencia": decimal.Zero,
		"otro":          decimal.Zero,
	}
	for _, row := range rows {
		sums[row.MetodoPago] = row.Total
	}
	return sums
}
