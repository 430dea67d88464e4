//go:build integration

package e2e

// e2e_test.go
// End-to-end integration tests using real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// These tests:
//   - Full sale cycle (login → crear producto → abrir caja → venta → resumen → cierre cuadrado)
//   - Double caja open rejected with 409
//   - Movimiento de gasto attaches to the open session and shows in resumen diario
//   - Sale with insufficient stock rejected without touching inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dary2133/Kathcake-finanzas--sub000/internal/config"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/infra"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/model"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
	engine *gin.Engine
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	// Start Postgres container
	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("kathcake_test"),
		tcPostgres.WithUsername("kathcake"),
		tcPostgres.WithPassword("kathcake"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Start Redis container
	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	// Build config
	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		NegocioNombre:      "Kathcake E2E",
		PDFStoragePath:     t.TempDir(),
	}

	// Connect DB + run migrations
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	require.NoError(t, infra.RunMigrations(db))

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("kathcake-e2e-pass"), 12)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.Usuario{
		Username:     "admin.e2e",
		Nombre:       "Admin E2E",
		PasswordHash: string(hash),
		Rol:          "admin",
		Activo:       true,
	}).Error)

	// Build router
	r, _ := router.New(cfg, db, rdb)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	// Login as admin
	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin.e2e", "password": "kathcake-e2e-pass"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{
		server: srv,
		token:  loginBody.AccessToken,
		engine: r,
	}
}

func crearProducto(t *testing.T, env *testEnv, nombre string, precio float64, stock int) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/productos",
		jsonBody(t, map[string]any{
			"nombre":       nombre,
			"categoria":    "bizcochos",
			"precio":       precio,
			"costo":        precio / 2,
			"stock_actual": stock,
			"stock_minimo": 1,
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

func abrirCaja(t *testing.T, env *testEnv, montoInicial float64) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/caja/abrir",
		jsonBody(t, map[string]any{"monto_inicial": montoInicial}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var caja struct {
		SesionCajaID string `json:"sesion_caja_id"`
	}
	decodeJSON(t, resp, &caja)
	require.NotEmpty(t, caja.SesionCajaID)
	return caja.SesionCajaID
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full sale cycle: the ITBIS split must hold end to end and the cash close
// must reconcile (monto inicial + ventas en efectivo == monto contado).
func TestE2E_FlujoVentaCompleto(t *testing.T) {
	env := setupTestEnv(t)

	prodID := crearProducto(t, env, "Bizcocho de chocolate", 590.0, 10)
	sesionID := abrirCaja(t, env, 1000.0)

	// Register sale: 2 × 590 = 1180 gross → 1000 subtotal + 180 ITBIS
	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"items": []map[string]any{
				{"producto_id": prodID, "cantidad": 2},
			},
			"metodo_pago": "efectivo",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, ventaResp.StatusCode)
	var venta struct {
		ID            string  `json:"id"`
		NumeroFactura string  `json:"numero_factura"`
		Subtotal      float64 `json:"subtotal,string"`
		ITBIS         float64 `json:"itbis,string"`
		Total         float64 `json:"total,string"`
		Estado        string  `json:"estado"`
		SesionCajaID  *string `json:"sesion_caja_id"`
	}
	decodeJSON(t, ventaResp, &venta)
	assert.Equal(t, fmt.Sprintf("FACT-%d-000001", time.Now().Year()), venta.NumeroFactura)
	assert.InDelta(t, 1000.0, venta.Subtotal, 0.001)
	assert.InDelta(t, 180.0, venta.ITBIS, 0.001)
	assert.InDelta(t, 1180.0, venta.Total, 0.001)
	assert.Equal(t, "pagada", venta.Estado)
	require.NotNil(t, venta.SesionCajaID)
	assert.Equal(t, sesionID, *venta.SesionCajaID)

	// Stock descended 10 → 8
	prodResp := do(t, env.server, "GET", "/v1/productos/"+prodID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		StockActual int `json:"stock_actual"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 8, prod.StockActual)

	// Resumen diario reflects the cash sale
	resumenResp := do(t, env.server, "GET", "/v1/ventas/resumen-diario", nil, env.token)
	require.Equal(t, http.StatusOK, resumenResp.StatusCode)
	var resumen struct {
		SesionAbierta bool `json:"sesion_abierta"`
		Ventas        struct {
			Efectivo float64 `json:"efectivo,string"`
			Total    float64 `json:"total,string"`
		} `json:"ventas"`
	}
	decodeJSON(t, resumenResp, &resumen)
	assert.True(t, resumen.SesionAbierta)
	assert.InDelta(t, 1180.0, resumen.Ventas.Efectivo, 0.001)

	// Close: 1000 inicial + 1180 efectivo = 2180 expected → cuadra
	cierreResp := do(t, env.server, "POST", "/v1/caja/cerrar",
		jsonBody(t, map[string]any{"monto_contado": 2180.0}),
		env.token,
	)
	require.Equal(t, http.StatusOK, cierreResp.StatusCode)
	var cierre struct {
		MontoEsperado float64 `json:"monto_esperado,string"`
		Diferencia    float64 `json:"diferencia,string"`
		Resultado     string  `json:"resultado"`
		Estado        string  `json:"estado"`
	}
	decodeJSON(t, cierreResp, &cierre)
	assert.InDelta(t, 2180.0, cierre.MontoEsperado, 0.001)
	assert.InDelta(t, 0.0, cierre.Diferencia, 0.001)
	assert.Equal(t, "cuadra", cierre.Resultado)
	assert.Equal(t, "cerrada", cierre.Estado)
}

// Opening a second session while one is open must fail with 409.
func TestE2E_CajaDobleApertura(t *testing.T) {
	env := setupTestEnv(t)

	abrirCaja(t, env, 500.0)

	resp := do(t, env.server, "POST", "/v1/caja/abrir",
		jsonBody(t, map[string]any{"monto_inicial": 500.0}),
		env.token,
	)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

// Two simultaneous opens race against the partial unique index: exactly one
// commits, the loser gets a clean 409 (never a raw driver error).
func TestE2E_CajaAperturaConcurrente(t *testing.T) {
	env := setupTestEnv(t)

	const n = 4
	codes := make(chan int, n)
	for i := 0; i < n; i++ {
		go func() {
			resp := do(t, env.server, "POST", "/v1/caja/abrir",
				jsonBody(t, map[string]any{"monto_inicial": 1000.0}),
				env.token,
			)
			defer resp.Body.Close()
			codes <- resp.StatusCode
		}()
	}

	created, conflicts := 0, 0
	for i := 0; i < n; i++ {
		switch code := <-codes; code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		default:
			t.Errorf("unexpected status %d on concurrent abrir", code)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, conflicts)
}

// A business expense registered while a session is open must attach to it and
// surface in the resumen diario even when not paid in cash.
func TestE2E_GastoEnSesionAbierta(t *testing.T) {
	env := setupTestEnv(t)

	sesionID := abrirCaja(t, env, 2000.0)

	movResp := do(t, env.server, "POST", "/v1/movimientos",
		jsonBody(t, map[string]any{
			"categoria":   "ingredientes",
			"concepto":    "Harina y azúcar",
			"monto":       350.0,
			"metodo_pago": "tarjeta",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, movResp.StatusCode)
	var mov struct {
		Tipo         string  `json:"tipo"`
		Ambito       string  `json:"ambito"`
		Estado       string  `json:"estado"`
		SesionCajaID *string `json:"sesion_caja_id"`
	}
	decodeJSON(t, movResp, &mov)
	assert.Equal(t, "gasto", mov.Tipo)
	assert.Equal(t, "negocio", mov.Ambito)
	assert.Equal(t, "pagado", mov.Estado)
	require.NotNil(t, mov.SesionCajaID)
	assert.Equal(t, sesionID, *mov.SesionCajaID)

	resumenResp := do(t, env.server, "GET", "/v1/ventas/resumen-diario", nil, env.token)
	require.Equal(t, http.StatusOK, resumenResp.StatusCode)
	var resumen struct {
		TotalGastos float64 `json:"total_gastos,string"`
		Balance     float64 `json:"balance,string"`
	}
	decodeJSON(t, resumenResp, &resumen)
	assert.InDelta(t, 350.0, resumen.TotalGastos, 0.001)
	assert.InDelta(t, -350.0, resumen.Balance, 0.001)
}

// Selling more units than stocked must fail and leave inventory untouched.
func TestE2E_VentaStockInsuficiente(t *testing.T) {
	env := setupTestEnv(t)

	prodID := crearProducto(t, env, "Cupcake de vainilla", 118.0, 1)
	abrirCaja(t, env, 500.0)

	ventaResp := do(t, env.server, "POST", "/v1/ventas",
		jsonBody(t, map[string]any{
			"items": []map[string]any{
				{"producto_id": prodID, "cantidad": 5},
			},
			"metodo_pago": "efectivo",
		}),
		env.token,
	)
	defer ventaResp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, ventaResp.StatusCode)

	prodResp := do(t, env.server, "GET", "/v1/productos/"+prodID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		StockActual int `json:"stock_actual"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 1, prod.StockActual)

	// No sale was recorded
	listResp := do(t, env.server, "GET", "/v1/ventas", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var list struct {
		Total int64 `json:"total"`
	}
	decodeJSON(t, listResp, &list)
	assert.Equal(t, int64(0), list.Total)
}
