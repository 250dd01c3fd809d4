package routes

import (
	"github.com/labstack/echo/v4"

	"sistema-pericial/internal/controllers"
	"sistema-pericial/internal/entities"
	"sistema-pericial/pkg/middleware"
)

func runUsuarioRouter(g *echo.Group, ctrl *controllers.UsuarioController, authMW *middleware.AuthMiddleware) {
	// O dropdown de peritos serve a emissão de OS e a designação em
	// ocorrências; fica aberto a qualquer perfil autenticado.
	g.GET("/usuarios/peritos/dropdown", ctrl.DropdownPeritos)

	admin := g.Group("/usuarios", authMW.RequirePerfil(entities.PerfilAdministrativo))
	admin.GET("", ctrl.List)
	admin.GET("/lixeira", ctrl.ListLixeira)
	admin.GET("/:id", ctrl.Find)
	admin.PUT("/:id", ctrl.Update)
	admin.DELETE("/:id", ctrl.Delete)
	admin.POST("/:id/restaurar", ctrl.Restore)
	admin.POST("/:id/aprovar", ctrl.Aprovar)
	admin.POST("/:id/rejeitar", ctrl.Rejeitar)
	admin.POST("/:id/desativar", ctrl.Desativar)
	admin.POST("/:id/reativar", ctrl.Reativar)
	admin.POST("/:id/reset-senha", ctrl.ResetSenha)
}
