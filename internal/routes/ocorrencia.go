package routes

import (
	"github.com/labstack/echo/v4"

	"sistema-pericial/internal/controllers"
	"sistema-pericial/internal/entities"
	"sistema-pericial/pkg/middleware"
)

func runOcorrenciaRouter(
	g *echo.Group,
	ctrl *controllers.OcorrenciaController,
	movCtrl *controllers.MovimentacaoController,
	laudoCtrl *controllers.LaudoController,
	osCtrl *controllers.OrdemServicoController,
	authMW *middleware.AuthMiddleware,
) {
	adminOnly := authMW.RequirePerfil(entities.PerfilAdministrativo)
	peritoOuAdmin := authMW.RequirePerfil(entities.PerfilPerito, entities.PerfilAdministrativo)

	g.GET("/ocorrencias", ctrl.List)
	g.GET("/ocorrencias/lixeira", ctrl.ListLixeira, adminOnly)
	g.GET("/ocorrencias/:id", ctrl.Find)
	g.POST("/ocorrencias", ctrl.Create)
	g.PUT("/ocorrencias/:id", ctrl.Update)
	g.POST("/ocorrencias/:id/finalizar", ctrl.Finalizar, peritoOuAdmin)
	g.POST("/ocorrencias/:id/reabrir", ctrl.Reabrir, authMW.RequireSuperAdmin)
	g.POST("/ocorrencias/:id/procedimento", ctrl.VincularProcedimento)
	g.DELETE("/ocorrencias/:id", ctrl.Delete, adminOnly)
	g.POST("/ocorrencias/:id/restaurar", ctrl.Restore, adminOnly)

	// Sub-recursos da ocorrência.
	g.GET("/ocorrencias/:id/movimentacoes", movCtrl.ListByOcorrencia)
	g.GET("/ocorrencias/:id/movimentacoes/pdf", movCtrl.PDF)
	g.POST("/ocorrencias/:id/movimentacoes", movCtrl.Create)
	g.PUT("/ocorrencias/:id/movimentacoes/:movimentacaoId", movCtrl.Update)
	g.DELETE("/ocorrencias/:id/movimentacoes/:movimentacaoId", movCtrl.Delete)

	g.GET("/ocorrencias/:id/ordens-servico", osCtrl.ListByOcorrencia)
	g.GET("/ocorrencias/:id/laudos", laudoCtrl.ListByOcorrencia)
}
