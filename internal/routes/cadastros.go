package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sistema-pericial/internal/controllers"
	"sistema-pericial/internal/entities"
	"sistema-pericial/pkg/middleware"
)

// runCadastroRouters registra os cadastros estruturados. Leituras e
// dropdowns ficam abertos a qualquer perfil; escrita e lixeira são do
// perfil administrativo.
func runCadastroRouters(
	g *echo.Group,
	authMW *middleware.AuthMiddleware,
	logger *zap.Logger,
	cidadeCtrl *controllers.CidadeController,
	bairroCtrl *controllers.BairroController,
	servicoCtrl *controllers.ServicoPericialController,
	classificacaoCtrl *controllers.ClassificacaoController,
	exameCtrl *controllers.ClassificacaoController,
	procedimentoCtrl *controllers.ProcedimentoController,
) {
	adminOnly := authMW.RequirePerfil(entities.PerfilAdministrativo)

	g.GET("/cidades", cidadeCtrl.List)
	g.GET("/cidades/dropdown", cidadeCtrl.Dropdown)
	g.GET("/cidades/lixeira", cidadeCtrl.ListLixeira, adminOnly)
	g.GET("/cidades/:id", cidadeCtrl.Find)
	g.POST("/cidades", cidadeCtrl.Create, adminOnly)
	g.PUT("/cidades/:id", cidadeCtrl.Update, adminOnly)
	g.DELETE("/cidades/:id", cidadeCtrl.Delete, adminOnly)
	g.POST("/cidades/:id/restaurar", cidadeCtrl.Restore, adminOnly)

	g.GET("/bairros", bairroCtrl.List)
	g.GET("/bairros/dropdown", bairroCtrl.Dropdown)
	g.GET("/bairros/lixeira", bairroCtrl.ListLixeira, adminOnly)
	g.GET("/bairros/:id", bairroCtrl.Find)
	g.POST("/bairros", bairroCtrl.Create, adminOnly)
	g.PUT("/bairros/:id", bairroCtrl.Update, adminOnly)
	g.DELETE("/bairros/:id", bairroCtrl.Delete, adminOnly)
	g.POST("/bairros/:id/restaurar", bairroCtrl.Restore, adminOnly)

	g.GET("/servicos-periciais", servicoCtrl.List)
	g.GET("/servicos-periciais/dropdown", servicoCtrl.Dropdown)
	g.GET("/servicos-periciais/lixeira", servicoCtrl.ListLixeira, adminOnly)
	g.GET("/servicos-periciais/:id", servicoCtrl.Find)
	g.POST("/servicos-periciais", servicoCtrl.Create, adminOnly)
	g.PUT("/servicos-periciais/:id", servicoCtrl.Update, adminOnly)
	g.DELETE("/servicos-periciais/:id", servicoCtrl.Delete, adminOnly)
	g.POST("/servicos-periciais/:id/restaurar", servicoCtrl.Restore, adminOnly)

	g.GET("/classificacoes", classificacaoCtrl.List)
	g.GET("/classificacoes/arvore", classificacaoCtrl.Arvore)
	g.GET("/classificacoes/lixeira", classificacaoCtrl.ListLixeira, adminOnly)
	g.GET("/classificacoes/:id", classificacaoCtrl.Find)
	g.POST("/classificacoes", classificacaoCtrl.Create, adminOnly)
	g.PUT("/classificacoes/:id", classificacaoCtrl.Update, adminOnly)
	g.DELETE("/classificacoes/:id", classificacaoCtrl.Delete, adminOnly)
	g.POST("/classificacoes/:id/restaurar", classificacaoCtrl.Restore, adminOnly)

	g.GET("/exames", exameCtrl.List)
	g.GET("/exames/arvore", exameCtrl.Arvore)
	g.GET("/exames/lixeira", exameCtrl.ListLixeira, adminOnly)
	g.GET("/exames/:id", exameCtrl.Find)
	g.POST("/exames", exameCtrl.Create, adminOnly)
	g.PUT("/exames/:id", exameCtrl.Update, adminOnly)
	g.DELETE("/exames/:id", exameCtrl.Delete, adminOnly)
	g.POST("/exames/:id/restaurar", exameCtrl.Restore, adminOnly)

	g.GET("/procedimentos", procedimentoCtrl.List)
	g.GET("/procedimentos/busca", procedimentoCtrl.FindByNumero)
	g.GET("/procedimentos/lixeira", procedimentoCtrl.ListLixeira, adminOnly)
	g.GET("/procedimentos/:id", procedimentoCtrl.Find)
	g.POST("/procedimentos", procedimentoCtrl.Create)
	g.PUT("/procedimentos/:id", procedimentoCtrl.Update, adminOnly)
	g.DELETE("/procedimentos/:id", procedimentoCtrl.Delete, adminOnly)
	g.POST("/procedimentos/:id/restaurar", procedimentoCtrl.Restore, adminOnly)
}
