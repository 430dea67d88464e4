package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dary2133/Kathcake-finanzas--sub000/internal/dto"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/model"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// resumenCachePrefix keys the closed-session summary cache. A closed session
// is terminal, so the cached summary never expires and re-reads are identical.
const resumenCachePrefix = "caja:resumen:"

type CajaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.AbrirCajaResponse, error)
	Estado(ctx context.Context) (*dto.EstadoCajaResponse, error)
	Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error)
	ResumenDiario(ctx context.Context) (*dto.ResumenDiarioResponse, error)
	ResumenSesion(ctx context.Context, sesionID uuid.UUID) (*dto.ResumenSesionResponse, error)
	Historial(ctx context.Context, page, limit int) ([]dto.SesionListItem, int64, error)
	// SesionAbierta is used by VentaService and MovimientoService to attach
	// new records to the open session. Returns (nil, nil) when none is open.
	SesionAbierta(ctx context.Context) (*model.SesionCaja, error)
}

type cajaService struct {
	repo repository.CajaRepository
	rdb  *redis.Client // nil in unit tests — caching is skipped
}

func NewCajaService(repo repository.CajaRepository, rdb *redis.Client) CajaService {
	return &cajaService{repo: repo, rdb: rdb}
}

// Conflict errors the HTTP layer maps to 409.
var (
	ErrSesionYaAbierta  = errors.New("Ya existe una caja abierta")
	ErrSinSesionAbierta = errors.New("No hay sesion de caja abierta")
)

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cajaService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.AbrirCajaResponse, error) {
	if req.MontoInicial.IsNegative() {
		return nil, errors.New("el monto inicial no puede ser negativo")
	}

	sesion := &model.SesionCaja{
		UsuarioID:    usuarioID,
		MontoInicial: req.MontoInicial,
		Estado:       "abierta",
		OpenedAt:     time.Now(),
	}
	if err := s.repo.AbrirSesion(ctx, sesion); err != nil {
		if errors.Is(err, repository.ErrSesionYaAbierta) {
			return nil, ErrSesionYaAbierta
		}
		return nil, err
	}

	return &dto.AbrirCajaResponse{
		SesionCajaID: sesion.ID.String(),
		MontoInicial: sesion.MontoInicial,
		Estado:       sesion.Estado,
		OpenedAt:     sesion.OpenedAt.Format(time.RFC3339),
	}, nil
}

// ── Estado ────────────────────────────────────────────────────────────────────

func (s *cajaService) Estado(ctx context.Context) (*dto.EstadoCajaResponse, error) {
	sesion, err := s.SesionAbierta(ctx)
	if err != nil {
		return nil, err
	}
	if sesion == nil {
		return &dto.EstadoCajaResponse{Abierta: false}, nil
	}
	return &dto.EstadoCajaResponse{
		Abierta: true,
		Data: &dto.SesionCajaData{
			SesionCajaID: sesion.ID.String(),
			MontoInicial: sesion.MontoInicial,
			OpenedAt:     sesion.OpenedAt.Format(time.RFC3339),
		},
	}, nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// Reconciliation: esperado = monto_inicial + ventas en efectivo de la sesión;
// diferencia = monto_contado - esperado. A zero difference is "cuadra",
// anything else "descuadre". Closing is terminal — no rollback path.

func (s *cajaService) Cerrar(ctx context.Context, req dto.CerrarCajaRequest) (*dto.CierreCajaResponse, error) {
	sesion, err := s.SesionAbierta(ctx)
	if err != nil {
		return nil, err
	}
	if sesion == nil {
		return nil, ErrSinSesionAbierta
	}

	sums, err := s.repo.SumVentasPorMetodo(ctx, sesion.ID)
	if err != nil {
		return nil, err
	}
	ventasEfectivo := sums["efectivo"]

	esperado := sesion.MontoInicial.Add(ventasEfectivo)
	diferencia := req.MontoContado.Sub(esperado)

	resultado := "descuadre"
	if diferencia.IsZero() {
		resultado = "cuadra"
	}

	now := time.Now()
	sesion.MontoEsperado = &esperado
	sesion.MontoContado = &req.MontoContado
	sesion.Diferencia = &diferencia
	sesion.Resultado = &resultado
	sesion.Notas = req.Notas
	sesion.Estado = "cerrada"
	sesion.ClosedAt = &now

	if err := s.repo.CerrarSesion(ctx, sesion); err != nil {
		return nil, err
	}

	// Freeze the summary so later reads never recompute.
	s.cacheResumen(ctx, sesion, sums)

	return &dto.CierreCajaResponse{
		SesionCajaID:   sesion.ID.String(),
		MontoInicial:   sesion.MontoInicial,
		VentasEfectivo: ventasEfectivo,
		MontoEsperado:  esperado,
		MontoContado:   req.MontoContado,
		Diferencia:     diferencia,
		Resultado:      resultado,
		Estado:         sesion.Estado,
		ClosedAt:       now.Format(time.RFC3339),
	}, nil
}

// ── ResumenDiario ─────────────────────────────────────────────────────────────
// Summarizes the open session. When no session is open, falls back to a
// since-local-midnight window so walk-up sales still show up as "today";
// sesion_abierta tells callers which of the two they got.

func (s *cajaService) ResumenDiario(ctx context.Context) (*dto.ResumenDiarioResponse, error) {
	sesion, err := s.SesionAbierta(ctx)
	if err != nil {
		return nil, err
	}

	if sesion != nil {
		sums, err := s.repo.SumVentasPorMetodo(ctx, sesion.ID)
		if err != nil {
			return nil, err
		}
		gastos, err := s.repo.SumGastos(ctx, sesion.ID)
		if err != nil {
			return nil, err
		}
		totales := totalesFromSums(sums)
		id := sesion.ID.String()
		return &dto.ResumenDiarioResponse{
			SesionAbierta: true,
			SesionCajaID:  &id,
			Ventas:        totales,
			TotalGastos:   gastos,
			Balance:       totales.Total.Sub(gastos),
		}, nil
	}

	medianoche := medianocheLocal(time.Now())
	sums, err := s.repo.SumVentasPorMetodoDesde(ctx, medianoche)
	if err != nil {
		return nil, err
	}
	gastos, err := s.repo.SumGastosDesde(ctx, medianoche)
	if err != nil {
		return nil, err
	}
	totales := totalesFromSums(sums)
	return &dto.ResumenDiarioResponse{
		SesionAbierta: false,
		Ventas:        totales,
		TotalGastos:   gastos,
		Balance:       totales.Total.Sub(gastos),
	}, nil
}

// ── ResumenSesion ─────────────────────────────────────────────────────────────

func (s *cajaService) ResumenSesion(ctx context.Context, sesionID uuid.UUID) (*dto.ResumenSesionResponse, error) {
	if cached := s.cachedResumen(ctx, sesionID); cached != nil {
		return cached, nil
	}

	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, errors.New("sesión de caja no encontrada")
	}

	sums, err := s.repo.SumVentasPorMetodo(ctx, sesion.ID)
	if err != nil {
		return nil, err
	}
	gastos, err := s.repo.SumGastos(ctx, sesion.ID)
	if err != nil {
		return nil, err
	}

	resumen := buildResumen(sesion, sums, gastos)
	if sesion.Estado == "cerrada" {
		s.cacheResumen(ctx, sesion, sums)
	}
	return resumen, nil
}

// ── Historial ─────────────────────────────────────────────────────────────────

func (s *cajaService) Historial(ctx context.Context, page, limit int) ([]dto.SesionListItem, int64, error) {
	sesiones, total, err := s.repo.ListSesiones(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.SesionListItem, 0, len(sesiones))
	for _, sesion := range sesiones {
		item := dto.SesionListItem{
			SesionCajaID:  sesion.ID.String(),
			MontoInicial:  sesion.MontoInicial,
			MontoEsperado: sesion.MontoEsperado,
			MontoContado:  sesion.MontoContado,
			Diferencia:    sesion.Diferencia,
			Resultado:     sesion.Resultado,
			Estado:        sesion.Estado,
			OpenedAt:      sesion.OpenedAt.Format(time.RFC3339),
		}
		if sesion.ClosedAt != nil {
			t := sesion.ClosedAt.Format(time.RFC3339)
			item.ClosedAt = &t
		}
		items = append(items, item)
	}
	return items, total, nil
}

// ── SesionAbierta ─────────────────────────────────────────────────────────────

func (s *cajaService) SesionAbierta(ctx context.Context) (*model.SesionCaja, error) {
	sesion, err := s.repo.FindSesionAbierta(ctx)
	if err != nil {
		if esNoEncontrado(err) {
			return nil, nil
		}
		return nil, err
	}
	return sesion, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *cajaService) cachedResumen(ctx context.Context, sesionID uuid.UUID) *dto.ResumenSesionResponse {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, resumenCachePrefix+sesionID.String()).Result()
	if err != nil {
		return nil
	}
	var resumen dto.ResumenSesionResponse
	if err := json.Unmarshal([]byte(raw), &resumen); err != nil {
		return nil
	}
	return &resumen
}

func (s *cajaService) cacheResumen(ctx context.Context, sesion *model.SesionCaja, sums map[string]decimal.Decimal) {
	if s.rdb == nil {
		return
	}
	gastos, err := s.repo.SumGastos(ctx, sesion.ID)
	if err != nil {
		return
	}
	resumen := buildResumen(sesion, sums, gastos)
	data, err := json.Marshal(resumen)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, resumenCachePrefix+sesion.ID.String(), data, 0).Err(); err != nil {
		log.Warn().Err(err).Str("sesion", sesion.ID.String()).Msg("caja: failed to cache resumen")
	}
}

func buildResumen(sesion *model.SesionCaja, sums map[string]decimal.Decimal, gastos decimal.Decimal) *dto.ResumenSesionResponse {
	totales := totalesFromSums(sums)
	return &dto.ResumenSesionResponse{
		SesionCajaID: sesion.ID.String(),
		Estado:       sesion.Estado,
		Ventas:       totales,
		TotalGastos:  gastos,
		Balance:      totales.Total.Sub(gastos),
	}
}

func totalesFromSums(sums map[string]decimal.Decimal) dto.TotalesPorMetodo {
	t := dto.TotalesPorMetodo{
		Efectivo:      sums["efectivo"],
		Tarjeta:       sums["tarjeta"],
		Transferencia: sums["transferencia"],
		Otro:          sums["otro"],
	}
	t.Total = t.Efectivo.Add(t.Tarjeta).Add(t.Transferencia).Add(t.Otro)
	return t
}

// medianocheLocal truncates t to local midnight — the fallback window origin
// for records created with no open session.
func medianocheLocal(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
