package service

import (
	"context"
	"testing"

	"github.com/dary2133/Kathcake-finanzas--sub000/internal/dto"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory repos ──────────────────────────────────────────────────────────

type memMovimientoRepo struct {
	movs []model.Movimiento
}

func (r *memMovimientoRepo) Create(_ context.Context, m *model.Movimiento) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movs = append(r.movs, *m)
	return nil
}

func (r *memMovimientoRepo) List(_ context.Context, filter dto.MovimientoFilter) ([]model.Movimiento, int64, error) {
	var out []model.Movimiento
	for _, m := range r.movs {
		if filter.Ambito != "" && m.Ambito != filter.Ambito {
			continue
		}
		if filter.Tipo != "" && m.Tipo != filter.Tipo {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

type memCuentaRepo struct {
	cuentas map[uuid.UUID]*model.Cuenta
}

func newMemCuentaRepo() *memCuentaRepo {
	return &memCuentaRepo{cuentas: make(map[uuid.UUID]*model.Cuenta)}
}

func (r *memCuentaRepo) Create(_ context.Context, c *model.Cuenta) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cuentas[c.ID] = c
	return nil
}

func (r *memCuentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cuenta, error) {
	c, ok := r.cuentas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *memCuentaRepo) List(_ context.Context) ([]model.Cuenta, error) {
	var out []model.Cuenta
	for _, c := range r.cuentas {
		if c.Activa {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCuentaRepo) Update(_ context.Context, c *model.Cuenta) error {
	r.cuentas[c.ID] = c
	return nil
}

func (r *memCuentaRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	if c, ok := r.cuentas[id]; ok {
		c.Activa = false
	}
	return nil
}

// ── Tests ────────────────────────────────────────────────────────────────────

func setupMovimientoService() (MovimientoService, *memMovimientoRepo, *memCuentaRepo, *memCajaRepo) {
	movRepo := &memMovimientoRepo{}
	cuentaRepo := newMemCuentaRepo()
	cajaRepo := newMemCajaRepo()
	caja := NewCajaService(cajaRepo, nil)
	return NewMovimientoService(movRepo, cuentaRepo, caja), movRepo, cuentaRepo, cajaRepo
}

func TestRegistrarMovimientoDefaults(t *testing.T) {
	svc, movRepo, _, _ := setupMovimientoService()

	resp, err := svc.Registrar(context.Background(), uuid.New(), dto.RegistrarMovimientoRequest{
		Categoria:  "insumos",
		Concepto:   "Harina y azúcar",
		Monto:      decimal.NewFromInt(850),
		MetodoPago: "efectivo",
	})
	require.NoError(t, err)
	assert.Equal(t, "gasto", resp.Tipo)
	assert.Equal(t, "pagado", resp.Estado)
	assert.Equal(t, "negocio", resp.Ambito)
	require.Len(t, movRepo.movs, 1)
}

func TestRegistrarMovimientoIngresoPersonal(t *testing.T) {
	svc, _, _, _ := setupMovimientoService()

	resp, err := svc.Registrar(context.Background(), uuid.New(), dto.RegistrarMovimientoRequest{
		Tipo:       "ingreso",
		Categoria:  "salario",
		Concepto:   "Pago quincenal",
		Monto:      decimal.NewFromInt(15000),
		MetodoPago: "transferencia",
		Ambito:     "personal",
	})
	require.NoError(t, err)
	assert.Equal(t, "ingreso", resp.Tipo)
	assert.Equal(t, "personal", resp.Ambito)
}

func TestRegistrarMovimientoFechaExplicita(t *testing.T) {
	svc, _, _, _ := setupMovimientoService()

	resp, err := svc.Registrar(context.Background(), uuid.New(), dto.RegistrarMovimientoRequest{
		Categoria:  "alquiler",
		Concepto:   "Renta del local",
		Monto:      decimal.NewFromInt(12000),
		MetodoPago: "transferencia",
		Fecha:      "2026-02-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01", resp.Fecha)
}

// El ámbito lo hereda de la cuenta; una cuenta personal no acepta ambito=negocio.
func TestRegistrarMovimientoHeredaAmbitoDeCuenta(t *testing.T) {
	svc, _, cuentaRepo, _ := setupMovimientoService()
	cuenta := &model.Cuenta{Nombre: "Ahorros", Ambito: "personal", Activa: true}
	require.NoError(t, cuentaRepo.Create(context.Background(), cuenta))
	id := cuenta.ID.String()

	resp, err := svc.Registrar(context.Background(), uuid.New(), dto.RegistrarMovimientoRequest{
		Categoria:  "varios",
		Concepto:   "Compra personal",
		Monto:      decimal.NewFromInt(300),
		MetodoPago: "tarjeta",
		CuentaID:   &id,
	})
	require.NoError(t, err)
	assert.Equal(t, "personal", resp.Ambito)

	_, err = svc.Registrar(context.Background(), uuid.New(), dto.RegistrarMovimientoRequest{
		Categoria:  "varios",
		Concepto:   "Compra cruzada",
		Monto:      decimal.NewFromInt(300),
		MetodoPago: "tarjeta",
		Ambito:     "negocio",
		CuentaID:   &id,
	})
	require.Error(t, err)
}

func TestRegistrarMovimientoCuentaDesactivada(t *testing.T) {
	svc, _, cuentaRepo, _ := setupMovimientoService()
	cuenta := &model.Cuenta{Nombre: "Vieja", Ambito: "negocio", Activa: false}
	require.NoError(t, cuentaRepo.Create(context.Background(), cuenta))
	id := cuenta.ID.String()

	_, err := svc.Registrar(context.Background(), uuid.New(), dto.RegistrarMovimientoRequest{
		Categoria:  "varios",
		Concepto:   "No debería entrar",
		Monto:      decimal.NewFromInt(100),
		MetodoPago: "efectivo",
		CuentaID:   &id,
	})
	require.Error(t, err)
}

// Todo movimiento de negocio con caja abierta queda atado a la sesión,
// sin importar el método de pago.
func TestRegistrarGastoConSesionAbierta(t *testing.T) {
	svc, _, _, cajaRepo := setupMovimientoService()
	caja := NewCajaService(cajaRepo, nil)
	abierto, err := caja.Abrir(context.Background(), uuid.New(), dto.AbrirCajaRequest{MontoInicial: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	for _, metodo := range []string{"efectivo", "tarjeta", "transferencia"} {
		resp, err := svc.Registrar(context.Background(), uuid.New(), dto.RegistrarMovimientoRequest{
			Categoria:  "insumos",
			Concepto:   "Mantequilla",
			Monto:      decimal.NewFromInt(200),
			MetodoPago: metodo,
		})
		require.NoError(t, err)
		require.NotNil(t, resp.SesionCajaID, metodo)
		assert.Equal(t, abierto.SesionCajaID, *resp.SesionCajaID, metodo)
	}
}

// Los movimientos personales nunca se atan a la caja del negocio.
func TestRegistrarGastoPersonalNoTomaSesion(t *testing.T) {
	svc, _, _, cajaRepo := setupMovimientoService()
	caja := NewCajaService(cajaRepo, nil)
	_, err := caja.Abrir(context.Background(), uuid.New(), dto.AbrirCajaRequest{MontoInicial: decimal.NewFromInt(1000)})
	require.NoError(t, err)

	resp, err := svc.Registrar(context.Background(), uuid.New(), dto.RegistrarMovimientoRequest{
		Categoria:  "ocio",
		Concepto:   "Cine",
		Monto:      decimal.NewFromInt(500),
		MetodoPago: "tarjeta",
		Ambito:     "personal",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.SesionCajaID)
}

func TestListMovimientosPorAmbito(t *testing.T) {
	svc, _, _, _ := setupMovimientoService()
	ctx := context.Background()
	uid := uuid.New()

	_, err := svc.Registrar(ctx, uid, dto.RegistrarMovimientoRequest{
		Categoria: "insumos", Concepto: "Harina", Monto: decimal.NewFromInt(100), MetodoPago: "efectivo",
	})
	require.NoError(t, err)
	_, err = svc.Registrar(ctx, uid, dto.RegistrarMovimientoRequest{
		Categoria: "ocio", Concepto: "Cine", Monto: decimal.NewFromInt(500), MetodoPago: "tarjeta", Ambito: "personal",
	})
	require.NoError(t, err)

	lista, err := svc.List(ctx, dto.MovimientoFilter{Ambito: "personal", Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, lista.Data, 1)
	assert.Equal(t, "ocio", lista.Data[0].Categoria)
}
