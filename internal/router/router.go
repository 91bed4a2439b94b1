package router

import (
	"time"

	"github.com/breightend/Mykonos-os-sub001/internal/config"
	"github.com/breightend/Mykonos-os-sub001/internal/handler"
	"github.com/breightend/Mykonos-os-sub001/internal/infra"
	"github.com/breightend/Mykonos-os-sub001/internal/middleware"
	"github.com/breightend/Mykonos-os-sub001/internal/repository"
	"github.com/breightend/Mykonos-os-sub001/internal/service"
	"github.com/breightend/Mykonos-os-sub001/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer, dispatcher *worker.Dispatcher) *gin.Engine {
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
	entidadRepo := repository.NewEntidadRepository(db)
	sucursalRepo := repository.NewSucursalRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	atributoRepo := repository.NewAtributoRepository(db)
	stockRepo := repository.NewStockRepository(db)
	movInventarioRepo := repository.NewMovimientoInventarioRepository(db)
	movCuentaRepo := repository.NewMovimientoCuentaRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	intercambioRepo := repository.NewIntercambioRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	entidadSvc := service.NewEntidadService(entidadRepo)
	sucursalSvc := service.NewSucursalService(sucursalRepo)
	atributoSvc := service.NewAtributoService(atributoRepo)
	productoSvc := service.NewProductoService(productoRepo, stockRepo, rdb)
	stockSvc := service.NewStockService(stockRepo, productoRepo, atributoRepo, sucursalRepo, movInventarioRepo)
	cuentaSvc := service.NewCuentaService(movCuentaRepo, entidadRepo, dispatcher)
	compraSvc := service.NewCompraService(compraRepo, entidadRepo, productoRepo, atributoRepo, sucursalRepo, stockRepo, movInventarioRepo, cuentaSvc)
	ventaSvc := service.NewVentaService(ventaRepo, stockRepo, movInventarioRepo, cuentaSvc)
	intercambioSvc := service.NewIntercambioService(intercambioRepo, stockRepo, movInventarioRepo, cuentaSvc, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	entidadesH := handler.NewEntidadesHandler(entidadSvc)
	sucursalesH := handler.NewSucursalesHandler(sucursalSvc)
	atributosH := handler.NewAtributosHandler(atributoSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	consultaH := handler.NewConsultaPreciosHandler(productoSvc)
	stockH := handler.NewStockHandler(stockSvc)
	cuentasH := handler.NewCuentasHandler(cuentaSvc)
	comprasH := handler.NewComprasHandler(compraSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	intercambiosH := handler.NewIntercambiosHandler(intercambioSvc, dispatcher, cfg.PDFStoragePath)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailer))

	// Auth (public)
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required, read only
	r.GET("/api/price/:barcode", consultaH.PorCodigo)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	api := r.Group("/api", jwtMW)
	{
		// Roles: vendedor, deposito, administrador — declared per-endpoint
		todos := middleware.RequireRole("vendedor", "deposito", "administrador")
		admin := middleware.RequireRole("administrador")
		adminDeposito := middleware.RequireRole("deposito", "administrador")

		// Cuenta corriente ledger
		cuenta := api.Group("/account")
		{
			cuenta.POST("/debit", todos, cuentasH.Debitar)
			cuenta.POST("/credit", todos, cuentasH.Acreditar)
			cuenta.GET("/balance/:entity_id", todos, cuentasH.Saldo)
			cuenta.GET("/movements/:entity_id", todos, cuentasH.Movimientos)
			cuenta.GET("/validate/:entity_id", admin, cuentasH.ValidarIntegridad)
			cuenta.POST("/recalculate/:entity_id", admin, cuentasH.Recalcular)
		}

		// Cambios y devoluciones
		exchange := api.Group("/exchange")
		{
			exchange.POST("/create", todos, intercambiosH.Crear)
			exchange.GET("/history", todos, intercambiosH.Historial)
			exchange.POST("/validate-return", todos, intercambiosH.ValidarDevolucion)
			exchange.POST("/validate-new-product", todos, intercambiosH.ValidarProductoNuevo)
			exchange.GET("/:id/receipt", todos, intercambiosH.Comprobante)
		}

		// Compras a proveedores
		compras := api.Group("/purchases", adminDeposito)
		{
			compras.POST("", comprasH.Crear)
			compras.GET("", comprasH.Listar)
			compras.GET("/:id", comprasH.PorID)
			compras.POST("/:id/receive", comprasH.Recibir)
			compras.POST("/:id/cancel", comprasH.Cancelar)
		}

		// Ventas de mostrador
		api.POST("/sales", todos, ventasH.Registrar)
		api.GET("/sales", todos, ventasH.Listar)
		api.GET("/sales/:id", todos, ventasH.PorID)
		api.POST("/sales/:id/cancel", admin, ventasH.Anular)

		// Catalogo de productos
		api.GET("/products", todos, productosH.Listar)
		api.GET("/products/:id", todos, productosH.PorID)
		prods := api.Group("/products", admin)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/reactivate", productosH.Reactivar)
		}

		// Stock por sucursal
		stock := api.Group("/stock")
		{
			stock.GET("/variants/:barcode", todos, stockH.VariantePorCodigo)
			stock.GET("/by-product/:id", todos, stockH.PorProducto)
			stock.GET("/by-branch/:id", todos, stockH.PorSucursal)
			stock.GET("/movements", todos, stockH.Movimientos)
			stock.POST("/variants", adminDeposito, stockH.CrearVariante)
			stock.POST("/variants/:barcode/adjust", adminDeposito, stockH.Ajustar)
			stock.POST("/transfer", adminDeposito, stockH.Transferir)
		}

		// Clientes y proveedores
		api.GET("/entities", todos, entidadesH.Listar)
		api.GET("/entities/:id", todos, entidadesH.PorID)
		entidades := api.Group("/entities", admin)
		{
			entidades.POST("", entidadesH.Crear)
			entidades.PUT("/:id", entidadesH.Actualizar)
			entidades.DELETE("/:id", entidadesH.Desactivar)
		}

		// Sucursales
		api.GET("/branches", todos, sucursalesH.Listar)
		api.GET("/branches/:id", todos, sucursalesH.PorID)
		branches := api.Group("/branches", admin)
		{
			branches.POST("", sucursalesH.Crear)
			branches.PUT("/:id", sucursalesH.Actualizar)
		}

		// Talles y colores
		api.GET("/sizes", todos, atributosH.ListarTalles)
		api.GET("/colors", todos, atributosH.ListarColores)
		api.POST("/sizes", admin, atributosH.CrearTalle)
		api.POST("/colors", admin, atributosH.CrearColor)

		// Usuarios
		usuarios := api.Group("/users", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivate", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
