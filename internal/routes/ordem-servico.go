package routes

import (
	"github.com/labstack/echo/v4"

	"sistema-pericial/internal/controllers"
	"sistema-pericial/internal/entities"
	"sistema-pericial/pkg/middleware"
)

func runOrdemServicoRouter(g *echo.Group, ctrl *controllers.OrdemServicoController, authMW *middleware.AuthMiddleware) {
	adminOnly := authMW.RequirePerfil(entities.PerfilAdministrativo)
	peritoOnly := authMW.RequirePerfil(entities.PerfilPerito)

	g.GET("/ordens-servico", ctrl.List)
	g.GET("/ordens-servico/pendentes-ciencia", ctrl.PendentesCiencia, peritoOnly)
	g.GET("/ordens-servico/:id", ctrl.Find)
	g.GET("/ordens-servico/:id/pdf", ctrl.PDF)
	g.POST("/ordens-servico", ctrl.Create, adminOnly)

	// Transições de quem executa: só o perito designado avança a OS, e o
	// repositório confere a titularidade.
	g.POST("/ordens-servico/:id/ciencia", ctrl.RegistrarCiencia, peritoOnly)
	g.POST("/ordens-servico/:id/iniciar", ctrl.Iniciar, peritoOnly)
	g.POST("/ordens-servico/:id/concluir", ctrl.Concluir, peritoOnly)
	g.POST("/ordens-servico/:id/justificar-atraso", ctrl.JustificarAtraso, peritoOnly)
}
