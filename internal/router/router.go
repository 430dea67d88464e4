package router

import (
	"time"

	"github.com/dary2133/Kathcake-finanzas--sub000/internal/config"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/handler"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/middleware"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/repository"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/service"
	"github.com/dary2133/Kathcake-finanzas--sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine plus the
// worker dispatcher (main registers the pool handlers around it).
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, *worker.Dispatcher) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	cuentaRepo := repository.NewCuentaRepository(db)
	reporteRepo := repository.NewReporteRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo)
	cajaSvc := service.NewCajaService(cajaRepo, rdb)
	cuentaSvc := service.NewCuentaService(cuentaRepo)
	reporteSvc := service.NewReporteService(reporteRepo)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, cajaSvc, dispatcher)
	movimientoSvc := service.NewMovimientoService(movimientoRepo, cuentaRepo, cajaSvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	ventasH := handler.NewVentasHandler(ventaSvc, cajaSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	movimientosH := handler.NewMovimientosHandler(movimientoSvc)
	cuentasH := handler.NewCuentasHandler(cuentaSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cajero, admin — declared per-endpoint
		v1.POST("/ventas", middleware.RequireRole("cajero", "admin"), ventasH.Registrar)
		v1.GET("/ventas", middleware.RequireRole("cajero", "admin"), ventasH.Listar)
		v1.GET("/ventas/resumen-diario", middleware.RequireRole("cajero", "admin"), ventasH.ResumenDiario)
		v1.PATCH("/ventas/:id/cliente", middleware.RequireRole("cajero", "admin"), ventasH.ActualizarCliente)

		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", middleware.RequireRole("cajero", "admin"), cajaH.Abrir)
			caja.GET("/estado", middleware.RequireRole("cajero", "admin"), cajaH.Estado)
			caja.POST("/cerrar", middleware.RequireRole("cajero", "admin"), cajaH.Cerrar)
			caja.GET("/:id/resumen", middleware.RequireRole("cajero", "admin"), cajaH.ResumenSesion)
			caja.GET("/historial", middleware.RequireRole("admin"), cajaH.Historial)
		}

		v1.POST("/movimientos", middleware.RequireRole("cajero", "admin"), movimientosH.Registrar)
		v1.GET("/movimientos", middleware.RequireRole("cajero", "admin"), movimientosH.Listar)

		// Catalog reads are open to every authenticated role; writes are admin only
		v1.GET("/productos", middleware.RequireRole("cajero", "admin"), productosH.Listar)
		v1.GET("/productos/:id", middleware.RequireRole("cajero", "admin"), productosH.Obtener)
		prods := v1.Group("/productos", middleware.RequireRole("admin"))
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.PATCH("/:id/stock", productosH.AjustarStock)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
		}

		cuentas := v1.Group("/cuentas", middleware.RequireRole("admin"))
		{
			cuentas.POST("", cuentasH.Crear)
			cuentas.GET("", cuentasH.Listar)
			cuentas.PUT("/:id", cuentasH.Actualizar)
			cuentas.DELETE("/:id", cuentasH.Desactivar)
		}

		v1.GET("/reportes/dashboard", middleware.RequireRole("admin"), reportesH.Dashboard)

		usuarios := v1.Group("/usuarios", middleware.RequireRole("admin"))
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PUT("/:id", authH.ActualizarUsuario)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
			usuarios.PATCH("/:id/reactivar", authH.ReactivarUsuario)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, dispatcher
}
