package router

import (
	"time"

	"github.com/luccTech/caixa-formatura/internal/config"
	"github.com/luccTech/caixa-formatura/internal/handler"
	"github.com/luccTech/caixa-formatura/internal/middleware"
	"github.com/luccTech/caixa-formatura/internal/repository"
	"github.com/luccTech/caixa-formatura/internal/service"
	"github.com/luccTech/caixa-formatura/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
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
	produtoRepo := repository.NewProdutoRepository(db)
	caixaRepo := repository.NewCaixaRepository(db)
	vendaRepo := repository.NewVendaRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	catalogoSvc := service.NewCatalogoService(produtoRepo)
	caixaSvc := service.NewCaixaService(caixaRepo, vendaRepo, produtoRepo, dispatcher)
	vendaSvc := service.NewVendaService(vendaRepo, caixaSvc, caixaRepo, produtoRepo, dispatcher)
	relatorioSvc := service.NewRelatorioService(caixaRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	produtosH := handler.NewProdutosHandler(catalogoSvc)
	caixaH := handler.NewCaixaHandler(caixaSvc, vendaSvc)
	vendasH := handler.NewVendasHandler(vendaSvc)
	relatoriosH := handler.NewRelatoriosHandler(relatorioSvc, caixaRepo, cfg.PDFStoragePath)
	consultaH := handler.NewConsultaPrecosHandler(produtoRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	// Price check — read-only, redis-cached
	r.GET("/v1/precos/:codigo", consultaH.GetPrecoPorCodigo)

	v1 := r.Group("/v1")
	{
		produtos := v1.Group("/produtos")
		{
			produtos.POST("", produtosH.Criar)
			produtos.GET("", produtosH.Listar)
			produtos.GET("/:id", produtosH.ObterPorID)
			produtos.PUT("/:id", produtosH.Atualizar)
			produtos.DELETE("/:id", produtosH.Remover)
		}

		caixa := v1.Group("/caixa")
		{
			caixa.POST("/abrir", caixaH.Abrir)
			caixa.GET("/atual", caixaH.Atual)
			caixa.POST("/fechar", caixaH.Fechar)
			caixa.GET("/historico", caixaH.Historico)
			caixa.GET("/:id", caixaH.ObterPorID)
			caixa.DELETE("/:id", caixaH.Excluir)
			caixa.GET("/:id/vendas", caixaH.ListarVendas)

			// Staging itens of the open caixa
			caixa.POST("/itens", caixaH.AdicionarItem)
			caixa.PUT("/itens/:produto_id", caixaH.AjustarQuantidade)
			caixa.DELETE("/itens/:produto_id", caixaH.RemoverItem)
		}

		vendas := v1.Group("/vendas")
		{
			vendas.POST("", vendasH.Registrar)
			vendas.GET("/:id", vendasH.ObterPorID)
		}

		relatorios := v1.Group("/relatorios")
		{
			relatorios.GET("/estatisticas", relatoriosH.Estatisticas)
			relatorios.GET("/caixas/:id", relatoriosH.RelatorioCaixa)
			relatorios.GET("/caixas/:id/pdf", relatoriosH.RelatorioCaixaPDF)
			relatorios.GET("/caixas/:id/csv", relatoriosH.RelatorioCaixaCSV)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
