package routes

import (
	"github.com/labstack/echo/v4"

	"sistema-pericial/internal/controllers"
)

func runAnaliseCriminalRouter(g *echo.Group, ctrl *controllers.AnaliseCriminalController) {
	g.GET("/analise-criminal/estatisticas", ctrl.Estatisticas)
	g.GET("/analise-criminal/mapa", ctrl.Mapa)
	g.GET("/analise-criminal/relatorio", ctrl.Relatorio)
	g.GET("/analise-criminal/relatorio/xlsx", ctrl.RelatorioXLSX)
}
