package service

import (
	"context"
	"testing"

	"github.com/dary2133/Kathcake-finanzas--sub000/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrearYObtenerProducto(t *testing.T) {
	repo := newMemProductoRepo()
	svc := NewProductoService(repo)
	ctx := context.Background()

	creado, err := svc.Crear(ctx, dto.CrearProductoRequest{
		Nombre:      "Bizcocho de chocolate",
		Categoria:   "reposteria",
		Precio:      decimal.NewFromInt(590),
		Costo:       decimal.NewFromInt(210),
		StockActual: 5,
		StockMinimo: 2,
	})
	require.NoError(t, err)
	assert.True(t, creado.Activo)
	assert.False(t, creado.StockBajo)

	obtenido, err := svc.Obtener(ctx, uuid.MustParse(creado.ID))
	require.NoError(t, err)
	assert.Equal(t, "Bizcocho de chocolate", obtenido.Nombre)
}

// stock_bajo se enciende cuando stock_actual <= stock_minimo.
func TestProductoStockBajo(t *testing.T) {
	repo := newMemProductoRepo()
	svc := NewProductoService(repo)
	ctx := context.Background()

	creado, err := svc.Crear(ctx, dto.CrearProductoRequest{
		Nombre:      "Flan",
		Categoria:   "postres",
		Precio:      decimal.NewFromInt(100),
		StockActual: 2,
		StockMinimo: 3,
	})
	require.NoError(t, err)
	assert.True(t, creado.StockBajo)
}

func TestAjustarStock(t *testing.T) {
	repo := newMemProductoRepo()
	svc := NewProductoService(repo)
	ctx := context.Background()

	creado, err := svc.Crear(ctx, dto.CrearProductoRequest{
		Nombre: "Flan", Categoria: "postres", Precio: decimal.NewFromInt(100), StockActual: 5,
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	ajustado, err := svc.AjustarStock(ctx, id, dto.AjustarStockRequest{Delta: 10, Motivo: "reposición"})
	require.NoError(t, err)
	assert.Equal(t, 15, ajustado.StockActual)

	// un ajuste que dejaría stock negativo se rechaza
	_, err = svc.AjustarStock(ctx, id, dto.AjustarStockRequest{Delta: -20, Motivo: "merma"})
	require.Error(t, err)
}

func TestDesactivarYReactivarProducto(t *testing.T) {
	repo := newMemProductoRepo()
	svc := NewProductoService(repo)
	ctx := context.Background()

	creado, err := svc.Crear(ctx, dto.CrearProductoRequest{
		Nombre: "Tarta", Categoria: "reposteria", Precio: decimal.NewFromInt(800), StockActual: 3,
	})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	require.NoError(t, svc.Desactivar(ctx, id))
	activos, err := svc.Listar(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, activos)

	require.NoError(t, svc.Reactivar(ctx, id))
	activos, err = svc.Listar(ctx, false)
	require.NoError(t, err)
	assert.Len(t, activos, 1)
}
