package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/services"
	"sistema-pericial/pkg/utils"
)

type MovimentacaoController struct {
	service services.MovimentacaoServiceInterface
	logger  *zap.Logger
}

func NewMovimentacaoController(service services.MovimentacaoServiceInterface, logger *zap.Logger) *MovimentacaoController {
	return &MovimentacaoController{service: service, logger: logger}
}

func (ctrl *MovimentacaoController) ListByOcorrencia(c echo.Context) error {
	ocorrenciaID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	movimentacoes, err := ctrl.service.ListByOcorrencia(c.Request().Context(), ocorrenciaID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, movimentacoes, "", http.StatusOK)
}

func (ctrl *MovimentacaoController) Create(c echo.Context) error {
	ocorrenciaID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	autorID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.CreateMovimentacaoDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	movimentacao, err := ctrl.service.Create(c.Request().Context(), ocorrenciaID, payload, autorID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, movimentacao, "Movimentação registrada", http.StatusCreated)
}

func (ctrl *MovimentacaoController) Update(c echo.Context) error {
	id, err := parseIDParam(c, "movimentacaoId")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	autorID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateMovimentacaoDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	movimentacao, err := ctrl.service.Update(c.Request().Context(), id, payload, autorID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, movimentacao, "Movimentação atualizada", http.StatusOK)
}

func (ctrl *MovimentacaoController) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "movimentacaoId")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	autorID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	superAdmin := utils.IsSuperAdminFromCtx(c.Request().Context())

	if err := ctrl.service.SoftDelete(c.Request().Context(), id, autorID, superAdmin); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, struct{}{}, "Movimentação removida", http.StatusOK)
}

func (ctrl *MovimentacaoController) PDF(c echo.Context) error {
	ocorrenciaID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	conteudo, nome, err := ctrl.service.PDF(c.Request().Context(), ocorrenciaID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+nome+`"`)
	return c.Blob(http.StatusOK, "application/pdf", conteudo)
}
