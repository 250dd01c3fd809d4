package routes

import (
	"github.com/labstack/echo/v4"

	"sistema-pericial/internal/controllers"
	"sistema-pericial/internal/entities"
	"sistema-pericial/pkg/middleware"
)

func runLaudoRouter(g *echo.Group, ctrl *controllers.LaudoController, authMW *middleware.AuthMiddleware) {
	peritoOnly := authMW.RequirePerfil(entities.PerfilPerito)

	// O chat de redação é ferramenta do perito.
	g.POST("/laudos/chat", ctrl.IniciarChat, peritoOnly)
	g.POST("/laudos/chat/mensagem", ctrl.EnviarMensagem, peritoOnly)
	g.POST("/laudos/chat/gerar", ctrl.GerarLaudo, peritoOnly)

	g.GET("/laudos/:id", ctrl.Find)
	g.GET("/laudos/:id/pdf", ctrl.PDF)
}
