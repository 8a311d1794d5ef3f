package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/config"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/handler"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/infra"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/middleware"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/receipt"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/repository"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/service"
	"github.com/Nomade-PJ/Paulo-Cell-Es-Versel-sub000/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, cbTerminal, cbPix *infra.CircuitBreaker) *gin.Engine {
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

	// ── Infrastructure ───────────────────────────────────────────────────────
	terminal := infra.NewTerminalClient(cfg.TerminalURL, cfg.PagamentoTimeout())
	pix := infra.NewPixClient(cfg.PixURL, cfg.PagamentoTimeout())

	organizacaoID, _ := uuid.Parse(cfg.OrganizationID)

	loja := receipt.Loja{
		Nome:     cfg.LojaNome,
		CNPJ:     cfg.LojaCNPJ,
		Endereco: cfg.LojaEndereco,
		Telefone: cfg.LojaTelefone,
	}
	renderer := receipt.NovoRenderer(loja, cfg.LojaLocale)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	catalogoRepo := repository.NewCatalogoRepository(db)
	vendaRepo := repository.NewVendaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	catalogoSvc := service.NewCatalogoService(catalogoRepo, rdb, organizacaoID, cfg.CatalogoTTL())
	checkoutSvc := service.NewCheckoutService(
		catalogoSvc, vendaRepo,
		terminal, pix, cbTerminal, cbPix,
		renderer, dispatcher,
		organizacaoID, cfg.PagamentoTimeout(),
	)

	// ── Handlers ─────────────────────────────────────────────────────────────
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	checkoutH := handler.NewCheckoutHandler(checkoutSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, cbTerminal, cbPix))

	v1 := r.Group("/v1")
	{
		v1.GET("/produtos", catalogoH.Listar)
		v1.POST("/produtos/atualizar", catalogoH.Atualizar)

		v1.POST("/checkout", checkoutH.AbrirSessao)
		sessao := v1.Group("/checkout/:id")
		{
			sessao.GET("", checkoutH.ObterSessao)
			sessao.DELETE("", checkoutH.EncerrarSessao)

			sessao.POST("/itens", checkoutH.AdicionarItem)
			sessao.PATCH("/itens/:linha_id", checkoutH.AtualizarItem)
			sessao.DELETE("/itens/:linha_id", checkoutH.RemoverItem)

			sessao.PUT("/desconto", checkoutH.DefinirDesconto)

			sessao.PUT("/cliente", checkoutH.DefinirCliente)
			sessao.DELETE("/cliente", checkoutH.RemoverCliente)

			sessao.PUT("/pagamento", checkoutH.SelecionarMetodo)
			sessao.DELETE("/pagamento", checkoutH.CancelarPagamento)
			sessao.POST("/pagamento/terminal", checkoutH.PagamentoTerminal)
			sessao.POST("/pagamento/pix", checkoutH.CriarCobrancaPix)
			sessao.POST("/pagamento/pix/confirmar", checkoutH.ConfirmarPix)

			sessao.POST("/confirmar", checkoutH.ConfirmarVenda)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
