package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sistema-pericial/internal/controllers"
	"sistema-pericial/internal/entities"
	"sistema-pericial/internal/repositories"
	"sistema-pericial/internal/services"
	"sistema-pericial/pkg/config"
	"sistema-pericial/pkg/middleware"
)

// runCatalogoRouters registra os cinco dicionários simples. Todos seguem
// o mesmo contrato; só mudam a tabela, o prefixo e o rótulo.
func runCatalogoRouters(
	g *echo.Group,
	dbConn *pgxpool.Pool,
	cacheRepo repositories.CacheRepositoryInterface,
	cfg *config.Config,
	authMW *middleware.AuthMiddleware,
	logger *zap.Logger,
) {
	catalogos := []struct {
		tabela  string
		prefixo string
		rotulo  string
	}{
		{"cargos", "/cargos", "Cargo"},
		{"autoridades", "/autoridades", "Autoridade"},
		{"tipos_procedimento", "/tipos-procedimento", "Tipo de procedimento"},
		{"tipos_documento", "/tipos-documento", "Tipo de documento"},
		{"unidades_demandantes", "/unidades-demandantes", "Unidade demandante"},
	}

	adminOnly := authMW.RequirePerfil(entities.PerfilAdministrativo)

	for _, cat := range catalogos {
		repo := repositories.NewCatalogoRepository(dbConn, cat.tabela)
		svc := services.NewCatalogoService(repo, cacheRepo, cfg.Auth, logger)
		ctrl := controllers.NewCatalogoController(svc, cat.rotulo, logger)

		g.GET(cat.prefixo, ctrl.List)
		g.GET(cat.prefixo+"/dropdown", ctrl.Dropdown)
		g.GET(cat.prefixo+"/lixeira", ctrl.ListLixeira, adminOnly)
		g.GET(cat.prefixo+"/:id", ctrl.Find)
		g.POST(cat.prefixo, ctrl.Create, adminOnly)
		g.PUT(cat.prefixo+"/:id", ctrl.Update, adminOnly)
		g.DELETE(cat.prefixo+"/:id", ctrl.Delete, adminOnly)
		g.POST(cat.prefixo+"/:id/restaurar", ctrl.Restore, adminOnly)
	}
}
