package router

import (
	"time"

	"github.com/EnmerSandoval/gasolinera/internal/config"
	"github.com/EnmerSandoval/gasolinera/internal/handler"
	"github.com/EnmerSandoval/gasolinera/internal/middleware"
	"github.com/EnmerSandoval/gasolinera/internal/repository"
	"github.com/EnmerSandoval/gasolinera/internal/service"
	"github.com/EnmerSandoval/gasolinera/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
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
	sucursalRepo := repository.NewSucursalRepository(db)
	tanqueRepo := repository.NewTanqueRepository(db)
	precioRepo := repository.NewPrecioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	valeRepo := repository.NewValeRepository(db)
	turnoRepo := repository.NewTurnoRepository(db)
	corteRepo := repository.NewCorteRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	turnoSvc := service.NewTurnoService(turnoRepo)
	valeSvc := service.NewValeService(valeRepo)
	precioSvc := service.NewPrecioService(precioRepo, rdb)
	inventarioSvc := service.NewInventarioService(tanqueRepo, movimientoRepo)
	corteSvc := service.NewCorteService(corteRepo, tanqueRepo, ventaRepo, compraRepo, movimientoRepo, sucursalRepo, dispatcher)
	compraSvc := service.NewCompraService(compraRepo, tanqueRepo, movimientoRepo, cfg.IVA())
	ventaSvc := service.NewVentaService(
		ventaRepo, tanqueRepo, precioRepo, productoRepo, movimientoRepo,
		sucursalRepo, turnoSvc, valeSvc, dispatcher, cfg.IVA())

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	comprasH := handler.NewComprasHandler(compraSvc)
	valesH := handler.NewValesHandler(valeSvc)
	turnosH := handler.NewTurnosHandler(turnoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc, corteSvc)
	preciosH := handler.NewPreciosHandler(precioSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes: JWT first, then branch scoping
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	sucursalMW := middleware.SucursalScope(sucursalRepo)

	// Usuarios — empresa-wide, no branch scope needed
	usuarios := r.Group("/v1/usuarios", jwtMW, middleware.RequireRole("administrador"))
	{
		usuarios.POST("", authH.CrearUsuario)
		usuarios.GET("", authH.ListarUsuarios)
	}

	v1 := r.Group("/v1", jwtMW, sucursalMW)
	{
		operador := middleware.RequireRole("despachador", "supervisor", "administrador")
		supervisor := middleware.RequireRole("supervisor", "administrador")
		admin := middleware.RequireRole("administrador")

		v1.POST("/ventas", operador, ventasH.RegistrarVenta)
		v1.GET("/ventas", operador, ventasH.ListarVentas)
		v1.GET("/ventas/totales", supervisor, ventasH.TotalesDia)
		v1.GET("/ventas/:id", operador, ventasH.ObtenerVenta)
		v1.DELETE("/ventas/:id", supervisor, ventasH.AnularVenta)

		v1.POST("/compras", supervisor, comprasH.RegistrarCompra)
		v1.GET("/compras", supervisor, comprasH.ListarCompras)
		v1.GET("/compras/:id", supervisor, comprasH.ObtenerCompra)

		v1.POST("/vales/validar", operador, valesH.ValidarVale)
		v1.GET("/vales", supervisor, valesH.ListarVales)

		v1.POST("/turnos", operador, turnosH.AbrirTurno)
		v1.POST("/turnos/:id/cerrar", operador, turnosH.CerrarTurno)
		v1.GET("/turnos/actual", operador, turnosH.TurnoActual)

		inv := v1.Group("/inventario", supervisor)
		{
			inv.GET("/tanques", inventarioH.EstadoTanques)
			inv.GET("/movimientos", inventarioH.Movimientos)
			inv.POST("/corte-diario", inventarioH.RegistrarCorte)
			inv.GET("/cortes", inventarioH.ListarCortes)
			inv.GET("/mermas", inventarioH.ReporteMermas)
		}

		v1.GET("/precios/vigentes", operador, preciosH.PreciosVigentes)
		v1.POST("/precios", admin, preciosH.CrearPrecio)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
