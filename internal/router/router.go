package router

import (
	"time"

	"github.com/KenthE710/antonella-management-server/internal/config"
	"github.com/KenthE710/antonella-management-server/internal/handler"
	"github.com/KenthE710/antonella-management-server/internal/middleware"
	"github.com/KenthE710/antonella-management-server/internal/repository"
	"github.com/KenthE710/antonella-management-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB. alertas receives
// low-stock notifications and may be nil.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, alertas service.AlertaNotifier) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	tipoRepo := repository.NewTipoRepository(db)
	marcaRepo := repository.NewMarcaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	loteRepo := repository.NewLoteRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	personalRepo := repository.NewPersonalRepository(db)
	servicioRepo := repository.NewServicioRepository(db)
	srRepo := repository.NewServicioRealizadoRepository(db)
	parametroRepo := repository.NewParametroRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	catalogoSvc := service.NewCatalogoService(tipoRepo, marcaRepo)
	productoSvc := service.NewProductoService(productoRepo, loteRepo, tipoRepo, marcaRepo)
	inventarioSvc := service.NewInventarioService(productoRepo, loteRepo, srRepo)
	clienteSvc := service.NewClienteService(clienteRepo)
	parametroSvc := service.NewParametroService(parametroRepo)
	personalSvc := service.NewPersonalService(personalRepo)
	servicioSvc := service.NewServicioService(servicioRepo, productoRepo, personalRepo, loteRepo)
	srSvc := service.NewServicioRealizadoService(
		srRepo, inventarioSvc, productoRepo, loteRepo,
		clienteRepo, servicioRepo, personalRepo,
		alertas, cfg.AlertaUsosMinimos,
	)

	// ── Handlers ─────────────────────────────────────────────────────────────
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	productosH := handler.NewProductosHandler(productoSvc, inventarioSvc)
	lotesH := handler.NewLotesHandler(inventarioSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	personalH := handler.NewPersonalHandler(personalSvc)
	serviciosH := handler.NewServiciosHandler(servicioSvc)
	srH := handler.NewServiciosRealizadosHandler(srSvc)
	parametrosH := handler.NewParametrosHandler(parametroSvc)

	// ── Routes ───────────────────────────────────────────────────────────────
	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")

	tipos := v1.Group("/producto-tipos")
	{
		tipos.POST("", catalogoH.CrearTipo)
		tipos.GET("", catalogoH.ListarTipos)
		tipos.PUT("/:id", catalogoH.ActualizarTipo)
		tipos.DELETE("/:id", catalogoH.DesactivarTipo)
	}

	marcas := v1.Group("/producto-marcas")
	{
		marcas.POST("", catalogoH.CrearMarca)
		marcas.GET("", catalogoH.ListarMarcas)
		marcas.PUT("/:id", catalogoH.ActualizarMarca)
		marcas.DELETE("/:id", catalogoH.DesactivarMarca)
	}

	prods := v1.Group("/productos")
	{
		prods.POST("", productosH.Crear)
		prods.GET("", productosH.Listar)
		prods.GET("/:id", productosH.ObtenerPorID)
		prods.PUT("/:id", productosH.Actualizar)
		prods.DELETE("/:id", productosH.Desactivar)
		prods.GET("/:id/existencias", productosH.Existencias)
		prods.GET("/:id/lotes", productosH.Lotes)
	}

	lotes := v1.Group("/lotes")
	{
		lotes.POST("", lotesH.Crear)
		lotes.GET("", lotesH.Listar)
		lotes.GET("/:id", lotesH.ObtenerPorID)
		lotes.PATCH("/:id/retirar", lotesH.Retirar)
		lotes.DELETE("/:id", lotesH.Eliminar)
	}

	clientes := v1.Group("/clientes")
	{
		clientes.POST("", clientesH.Crear)
		clientes.GET("", clientesH.Listar)
		clientes.GET("/:id", clientesH.ObtenerPorID)
		clientes.PUT("/:id", clientesH.Actualizar)
		clientes.DELETE("/:id", clientesH.Desactivar)
	}

	personal := v1.Group("/personal")
	{
		personal.POST("", personalH.Crear)
		personal.GET("", personalH.Listar)
		personal.GET("/:id", personalH.ObtenerPorID)
		personal.PUT("/:id", personalH.Actualizar)
		personal.DELETE("/:id", personalH.Desactivar)
	}

	servicios := v1.Group("/servicios")
	{
		servicios.POST("", serviciosH.Crear)
		servicios.GET("", serviciosH.Listar)
		servicios.GET("/:id", serviciosH.ObtenerPorID)
		servicios.PUT("/:id", serviciosH.Actualizar)
		servicios.DELETE("/:id", serviciosH.Desactivar)
	}

	sr := v1.Group("/servicios-realizados")
	{
		sr.POST("", srH.Registrar)
		sr.GET("", srH.Listar)
		sr.GET("/:id", srH.Obtener)
		sr.PATCH("/:id", srH.Actualizar)
		sr.DELETE("/:id", srH.Eliminar)
		sr.POST("/:id/productos", srH.AgregarProducto)
		sr.DELETE("/:id/productos/:consumo_id", srH.QuitarProducto)
	}

	params := v1.Group("/parametros")
	{
		params.POST("", parametrosH.Crear)
		params.GET("", parametrosH.Listar)
		params.GET("/:id", parametrosH.ObtenerPorID)
		params.PUT("/:id", parametrosH.Actualizar)
		params.DELETE("/:id", parametrosH.Desactivar)
	}

	return r
}
