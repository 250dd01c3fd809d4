package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/services"
	"sistema-pericial/pkg/utils"
)

type LaudoController struct {
	service services.LaudoServiceInterface
	logger  *zap.Logger
}

func NewLaudoController(service services.LaudoServiceInterface, logger *zap.Logger) *LaudoController {
	return &LaudoController{service: service, logger: logger}
}

func (ctrl *LaudoController) IniciarChat(c echo.Context) error {
	usuarioID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.IniciarChatDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	sessao, err := ctrl.service.IniciarChat(c.Request().Context(), payload, usuarioID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, sessao, "Sessão de chat iniciada", http.StatusCreated)
}

func (ctrl *LaudoController) EnviarMensagem(c echo.Context) error {
	usuarioID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.EnviarMensagemDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	sessao, err := ctrl.service.EnviarMensagem(c.Request().Context(), payload, usuarioID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, sessao, "", http.StatusOK)
}

func (ctrl *LaudoController) GerarLaudo(c echo.Context) error {
	usuarioID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.GerarLaudoDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	laudo, err := ctrl.service.GerarLaudo(c.Request().Context(), payload, usuarioID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, laudo, "Laudo gerado", http.StatusCreated)
}

func (ctrl *LaudoController) Find(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	laudo, err := ctrl.service.Find(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, laudo, "", http.StatusOK)
}

func (ctrl *LaudoController) ListByOcorrencia(c echo.Context) error {
	ocorrenciaID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	laudos, err := ctrl.service.ListByOcorrencia(c.Request().Context(), ocorrenciaID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, laudos, "", http.StatusOK)
}

func (ctrl *LaudoController) PDF(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	conteudo, nome, err := ctrl.service.LaudoPDF(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+nome+`"`)
	return c.Blob(http.StatusOK, "application/pdf", conteudo)
}
