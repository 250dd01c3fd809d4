package routes

import (
	"github.com/labstack/echo/v4"

	"sistema-pericial/internal/controllers"
)

func runAuthRouter(api *echo.Group, secure *echo.Group, ctrl *controllers.AuthController) {
	api.POST("/auth/login", ctrl.Login)
	api.POST("/auth/refresh", ctrl.Refresh)
	api.POST("/auth/registrar", ctrl.Registrar)

	// Fora do bloqueio de troca obrigatória: o usuário precisa conseguir
	// trocar a senha, sair e ver quem é.
	secure.POST("/auth/logout", ctrl.Logout)
	secure.PUT("/auth/senha", ctrl.ChangePassword)
	secure.GET("/auth/me", ctrl.Me)
}
