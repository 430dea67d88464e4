package service

import (
	"context"
	"testing"
	"time"

	"github.com/dary2133/Kathcake-finanzas--sub000/internal/dto"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/model"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory CajaRepository ─────────────────────────────────────────────────

type memCajaRepo struct {
	sesiones map[uuid.UUID]*model.SesionCaja
	// ventas por sesión: metodo → monto
	ventas map[uuid.UUID]map[string]decimal.Decimal
	gastos map[uuid.UUID]decimal.Decimal
	// fallback-window data (no session)
	ventasHoy map[string]decimal.Decimal
	gastosHoy decimal.Decimal
}

func newMemCajaRepo() *memCajaRepo {
	return &memCajaRepo{
		sesiones:  make(map[uuid.UUID]*model.SesionCaja),
		ventas:    make(map[uuid.UUID]map[string]decimal.Decimal),
		gastos:    make(map[uuid.UUID]decimal.Decimal),
		ventasHoy: make(map[string]decimal.Decimal),
	}
}

func (r *memCajaRepo) AbrirSesion(_ context.Context, s *model.SesionCaja) error {
	for _, existing := range r.sesiones {
		if existing.Estado == "abierta" {
			return repository.ErrSesionYaAbierta
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sesiones[s.ID] = s
	return nil
}

func (r *memCajaRepo) FindSesionAbierta(_ context.Context) (*model.SesionCaja, error) {
	for _, s := range r.sesiones {
		if s.Estado == "abierta" {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCajaRepo) FindSesionByID(_ context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	s, ok := r.sesiones[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *memCajaRepo) CerrarSesion(_ context.Context, s *model.SesionCaja) error {
	r.sesiones[s.ID] = s
	return nil
}

func (r *memCajaRepo) ListSesiones(_ context.Context, page, limit int) ([]model.SesionCaja, int64, error) {
	var out []model.SesionCaja
	for _, s := range r.sesiones {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *memCajaRepo) SumVentasPorMetodo(_ context.Context, sesionID uuid.UUID) (map[string]decimal.Decimal, error) {
	return withAllMethods(r.ventas[sesionID]), nil
}

func (r *memCajaRepo) SumVentasPorMetodoDesde(_ context.Context, _ time.Time) (map[string]decimal.Decimal, error) {
	return withAllMethods(r.ventasHoy), nil
}

func (r *memCajaRepo) SumGastos(_ context.Context, sesionID uuid.UUID) (decimal.Decimal, error) {
	return r.gastos[sesionID], nil
}

func (r *memCajaRepo) SumGastosDesde(_ context.Context, _ time.Time) (decimal.Decimal, error) {
	return r.gastosHoy, nil
}

func withAllMethods(src map[string]decimal.Decimal) map[string]decimal.Decimal {
	sums := map[string]decimal.Decimal{
		"efectivo":      decimal.Zero,
		"tarjeta":       decimal.Zero,
		"transferencia": decimal.Zero,
		"otro":          decimal.Zero,
	}
	for metodo, monto := range src {
		sums[metodo] = monto
	}
	return sums
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestAbrirCaja(t *testing.T) {
	repo := newMemCajaRepo()
	svc := NewCajaService(repo, nil)
	ctx := context.Background()

	resp, err := svc.Abrir(ctx, uuid.New(), dto.AbrirCajaRequest{
		MontoInicial: decimal.NewFromInt(1000),
	})
	require.NoError(t, err)
	assert.Equal(t, "abierta", resp.Estado)
	assert.True(t, resp.MontoInicial.Equal(decimal.NewFromInt(1000)))
}

func TestAbrirCajaConSesionAbierta(t *testing.T) {
	repo := newMemCajaRepo()
	svc := NewCajaService(repo, nil)
	ctx := context.Background()

	_, err := svc.Abrir(ctx, uuid.New(), dto.AbrirCajaRequest{MontoInicial: decimal.NewFromInt(500)})
	require.NoError(t, err)

	_, err = svc.Abrir(ctx, uuid.New(), dto.AbrirCajaRequest{MontoInicial: decimal.NewFromInt(500)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSesionYaAbierta)
}

func TestEstadoCaja(t *testing.T) {
	repo := newMemCajaRepo()
	svc := NewCajaService(repo, nil)
	ctx := context.Background()

	estado, err := svc.Estado(ctx)
	require.NoError(t, err)
	assert.False(t, estado.Abierta)
	assert.Nil(t, estado.Data)

	abierto, err := svc.Abrir(ctx, uuid.New(), dto.AbrirCajaRequest{MontoInicial: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	estado, err = svc.Estado(ctx)
	require.NoError(t, err)
	assert.True(t, estado.Abierta)
	require.NotNil(t, estado.Data)
	assert.Equal(t, abierto.SesionCajaID, estado.Data.SesionCajaID)
}

// Apertura con 1000, ventas en efectivo por 5000, contado 6000 → cuadra.
func TestCerrarCajaCuadra(t *testing.T) {
	repo := newMemCajaRepo()
	svc := NewCajaService(repo, nil)
	ctx := context.Background()

	abierto, err := svc.Abrir(ctx, uuid.New(), dto.AbrirCajaRequest{MontoInicial: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	sesionID := uuid.MustParse(abierto.SesionCajaID)
	repo.ventas[sesionID] = map[string]decimal.Decimal{
		"efectivo": decimal.NewFromInt(5000),
		"tarjeta":  decimal.NewFromInt(2000), // no afecta el cuadre de efectivo
	}

	cierre, err := svc.Cerrar(ctx, dto.CerrarCajaRequest{MontoContado: decimal.NewFromInt(6000)})
	require.NoError(t, err)
	assert.True(t, cierre.MontoEsperado.Equal(decimal.NewFromInt(6000)))
	assert.True(t, cierre.Diferencia.IsZero())
	assert.Equal(t, "cuadra", cierre.Resultado)
	assert.Equal(t, "cerrada", cierre.Estado)
}

// Contado 5800 con esperado 6000 → diferencia -200, descuadre.
func TestCerrarCajaDescuadre(t *testing.T) {
	repo := newMemCajaRepo()
	svc := NewCajaService(repo, nil)
	ctx := context.Background()

	abierto, err := svc.Abrir(ctx, uuid.New(), dto.AbrirCajaRequest{MontoInicial: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	sesionID := uuid.MustParse(abierto.SesionCajaID)
	repo.ventas[sesionID] = map[string]decimal.Decimal{"efectivo": decimal.NewFromInt(5000)}

	cierre, err := svc.Cerrar(ctx, dto.CerrarCajaRequest{MontoContado: decimal.NewFromInt(5800)})
	require.NoError(t, err)
	assert.True(t, cierre.Diferencia.Equal(decimal.NewFromInt(-200)))
	assert.Equal(t, "descuadre", cierre.Resultado)
}

func TestCerrarCajaSinSesion(t *testing.T) {
	repo := newMemCajaRepo()
	svc := NewCajaService(repo, nil)

	_, err := svc.Cerrar(context.Background(), dto.CerrarCajaRequest{MontoContado: decimal.NewFromInt(100)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSinSesionAbierta)
}

// El cierre es terminal: tras cerrar se puede abrir una nueva sesión.
func TestReaperturaTrasCierre(t *testing.T) {
	repo := newMemCajaRepo()
	svc := NewCajaService(repo, nil)
	ctx := context.Background()

	_, err := svc.Abrir(ctx, uuid.New(), dto.AbrirCajaRequest{MontoInicial: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	_, err = svc.Cerrar(ctx, dto.CerrarCajaRequest{MontoContado: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	_, err = svc.Abrir(ctx, uuid.New(), dto.AbrirCajaRequest{MontoInicial: decimal.NewFromInt(2000)})
	require.NoError(t, err)
}

func TestResumenDiarioConSesion(t *testing.T) {
	repo := newMemCajaRepo()
	svc := NewCajaService(repo, nil)
	ctx := context.Background()

	abierto, err := svc.Abrir(ctx, uuid.New(), dto.AbrirCajaRequest{MontoInicial: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	sesionID := uuid.MustParse(abierto.SesionCajaID)
	repo.ventas[sesionID] = map[string]decimal.Decimal{
		"efectivo": decimal.NewFromInt(3000),
		"tarjeta":  decimal.NewFromInt(1500),
	}
	repo.gastos[sesionID] = decimal.NewFromInt(500)

	resumen, err := svc.ResumenDiario(ctx)
	require.NoError(t, err)
	assert.True(t, resumen.SesionAbierta)
	assert.True(t, resumen.Ventas.Total.Equal(decimal.NewFromInt(4500)))
	assert.True(t, resumen.TotalGastos.Equal(decimal.NewFromInt(500)))
	assert.True(t, resumen.Balance.Equal(decimal.NewFromInt(4000)))
}

// Sin sesión abierta el resumen cae a la ventana desde medianoche y lo señala.
func TestResumenDiarioSinSesion(t *testing.T) {
	repo := newMemCajaRepo()
	repo.ventasHoy = map[string]decimal.Decimal{"efectivo": decimal.NewFromInt(800)}
	repo.gastosHoy = decimal.NewFromInt(100)
	svc := NewCajaService(repo, nil)

	resumen, err := svc.ResumenDiario(context.Background())
	require.NoError(t, err)
	assert.False(t, resumen.SesionAbierta)
	assert.Nil(t, resumen.SesionCajaID)
	assert.True(t, resumen.Ventas.Efectivo.Equal(decimal.NewFromInt(800)))
	assert.True(t, resumen.Balance.Equal(decimal.NewFromInt(700)))
}

func TestResumenSesionCerrada(t *testing.T) {
	repo := newMemCajaRepo()
	svc := NewCajaService(repo, nil)
	ctx := context.Background()

	abierto, err := svc.Abrir(ctx, uuid.New(), dto.AbrirCajaRequest{MontoInicial: decimal.NewFromInt(1000)})
	require.NoError(t, err)
	sesionID := uuid.MustParse(abierto.SesionCajaID)
	repo.ventas[sesionID] = map[string]decimal.Decimal{"efectivo": decimal.NewFromInt(5000)}

	_, err = svc.Cerrar(ctx, dto.CerrarCajaRequest{MontoContado: decimal.NewFromInt(6000)})
	require.NoError(t, err)

	resumen, err := svc.ResumenSesion(ctx, sesionID)
	require.NoError(t, err)
	assert.Equal(t, "cerrada", resumen.Estado)
	assert.True(t, resumen.Ventas.Efectivo.Equal(decimal.NewFromInt(5000)))
}

func TestMedianocheLocal(t *testing.T) {
	ref := time.Date(2026, 3, 15, 18, 42, 7, 0, time.Local)
	m := medianocheLocal(ref)
	assert.Equal(t, 0, m.Hour())
	assert.Equal(t, 0, m.Minute())
	assert.Equal(t, 15, m.Day())
}
