package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sistema-pericial/internal/controllers"
	"sistema-pericial/internal/repositories"
	"sistema-pericial/internal/services"
	"sistema-pericial/pkg/config"
	"sistema-pericial/pkg/middleware"
	"sistema-pericial/pkg/service"
)

// InitRouter monta toda a árvore de rotas e a cadeia de dependências:
// repositórios -> serviços -> controllers -> routers por vertical.
func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)

	// --- repositórios ---
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	usuarioRepo := repositories.NewUsuarioRepository(dbConn)
	cidadeRepo := repositories.NewCidadeRepository(dbConn)
	bairroRepo := repositories.NewBairroRepository(dbConn)
	servicoRepo := repositories.NewServicoPericialRepository(dbConn)
	classificacaoRepo := repositories.NewClassificacaoRepository(dbConn, "classificacoes_ocorrencia")
	exameRepo := repositories.NewClassificacaoRepository(dbConn, "exames")
	procedimentoRepo := repositories.NewProcedimentoRepository(dbConn)
	ocorrenciaRepo := repositories.NewOcorrenciaRepository(dbConn, procedimentoRepo)
	osRepo := repositories.NewOrdemServicoRepository(dbConn)
	movimentacaoRepo := repositories.NewMovimentacaoRepository(dbConn)
	laudoRepo := repositories.NewLaudoRepository(dbConn)
	analiseRepo := repositories.NewAnaliseCriminalRepository(dbConn)

	// --- serviços ---
	authService := services.NewAuthService(usuarioRepo, cacheRepo, jwtSvc, cfg.Auth, logger)
	usuarioService := services.NewUsuarioService(usuarioRepo, logger)
	cidadeService := services.NewCidadeService(cidadeRepo, cacheRepo, cfg.Auth, logger)
	bairroService := services.NewBairroService(bairroRepo, cacheRepo, cfg.Auth, logger)
	servicoService := services.NewServicoPericialService(servicoRepo, cacheRepo, cfg.Auth, logger)
	classificacaoService := services.NewClassificacaoService(classificacaoRepo, servicoRepo)
	exameService := services.NewClassificacaoService(exameRepo, servicoRepo)
	procedimentoService := services.NewProcedimentoService(procedimentoRepo)
	ocorrenciaService := services.NewOcorrenciaService(ocorrenciaRepo, classificacaoRepo, bairroRepo, osRepo, authService, logger)
	osService := services.NewOrdemServicoService(osRepo, ocorrenciaRepo, usuarioRepo, authService, logger)
	movimentacaoService := services.NewMovimentacaoService(movimentacaoRepo, ocorrenciaRepo, authService, logger)
	analiseService := services.NewAnaliseCriminalService(analiseRepo, logger)

	chatProvider := services.NewLocalChatProvider()
	if cfg.LaudoIA.BaseURL != "" {
		chatProvider = services.NewHTTPChatProvider(cfg.LaudoIA)
	}
	laudoService := services.NewLaudoService(laudoRepo, ocorrenciaRepo, cacheRepo, chatProvider, cfg.Auth, logger)

	// --- grupos ---
	// A troca de senha obrigatória bloqueia tudo, menos a própria rota de
	// troca, o logout e o /me.
	secure := api.Group("", authMW.Auth)
	protegido := secure.Group("", authMW.BlockUntilPasswordChanged)

	runAuthRouter(api, secure, controllers.NewAuthController(authService, logger))
	runUsuarioRouter(protegido, controllers.NewUsuarioController(usuarioService, logger), authMW)
	runCadastroRouters(protegido, authMW, logger,
		controllers.NewCidadeController(cidadeService, logger),
		controllers.NewBairroController(bairroService, logger),
		controllers.NewServicoPericialController(servicoService, logger),
		controllers.NewClassificacaoController(classificacaoService, "Classificação", logger),
		controllers.NewClassificacaoController(exameService, "Exame", logger),
		controllers.NewProcedimentoController(procedimentoService, logger),
	)
	runCatalogoRouters(protegido, dbConn, cacheRepo, cfg, authMW, logger)
	runOcorrenciaRouter(protegido,
		controllers.NewOcorrenciaController(ocorrenciaService, logger),
		controllers.NewMovimentacaoController(movimentacaoService, logger),
		controllers.NewLaudoController(laudoService, logger),
		controllers.NewOrdemServicoController(osService, logger),
		authMW)
	runOrdemServicoRouter(protegido, controllers.NewOrdemServicoController(osService, logger), authMW)
	runAnaliseCriminalRouter(protegido, controllers.NewAnaliseCriminalController(analiseService, logger))
	runLaudoRouter(protegido, controllers.NewLaudoController(laudoService, logger), authMW)

	logger.Info("rotas registradas")
}
