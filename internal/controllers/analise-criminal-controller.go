package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sistema-pericial/internal/repositories"
	"sistema-pericial/internal/services"
	"sistema-pericial/pkg/utils"
)

type AnaliseCriminalController struct {
	service services.AnaliseCriminalServiceInterface
	logger  *zap.Logger
}

func NewAnaliseCriminalController(service services.AnaliseCriminalServiceInterface, logger *zap.Logger) *AnaliseCriminalController {
	return &AnaliseCriminalController{service: service, logger: logger}
}

// filtroFromQuery lê os filtros comuns do painel. Datas inválidas são
// ignoradas em vez de rejeitadas, como os demais filtros de listagem.
func filtroFromQuery(c echo.Context) repositories.FiltroAnalise {
	filtro := repositories.FiltroAnalise{
		ServicoPericialID: parseQueryID(c, "servico_pericial_id"),
		ClassificacaoID:   parseQueryID(c, "classificacao_id"),
		CidadeID:          parseQueryID(c, "cidade_id"),
	}
	if de, err := time.Parse("2006-01-02", c.QueryParam("de")); err == nil {
		filtro.De = de
	}
	if ate, err := time.Parse("2006-01-02", c.QueryParam("ate")); err == nil {
		filtro.Ate = ate
	}
	return filtro
}

func (ctrl *AnaliseCriminalController) Estatisticas(c echo.Context) error {
	estatisticas, err := ctrl.service.Estatisticas(c.Request().Context(), filtroFromQuery(c))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, estatisticas, "", http.StatusOK)
}

func (ctrl *AnaliseCriminalController) Mapa(c echo.Context) error {
	pontos, err := ctrl.service.PontosMapa(c.Request().Context(), filtroFromQuery(c))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, pontos, "", http.StatusOK)
}

func (ctrl *AnaliseCriminalController) Relatorio(c echo.Context) error {
	itens, err := ctrl.service.Relatorio(c.Request().Context(), filtroFromQuery(c))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, itens, "", http.StatusOK)
}

func (ctrl *AnaliseCriminalController) RelatorioXLSX(c echo.Context) error {
	conteudo, nome, err := ctrl.service.RelatorioXLSX(c.Request().Context(), filtroFromQuery(c))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+nome+`"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", conteudo)
}
