package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/services"
	"sistema-pericial/pkg/utils"
)

type OrdemServicoController struct {
	service services.OrdemServicoServiceInterface
	logger  *zap.Logger
}

func NewOrdemServicoController(service services.OrdemServicoServiceInterface, logger *zap.Logger) *OrdemServicoController {
	return &OrdemServicoController{service: service, logger: logger}
}

func (ctrl *OrdemServicoController) List(c echo.Context) error {
	params := utils.ParseQuery(c.QueryParams())
	ordens, total, err := ctrl.service.List(c.Request().Context(), params)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.PaginatedSuccessResponse(c, ordens, "", total, params.Page, params.Limit)
}

func (ctrl *OrdemServicoController) Find(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	ordem, err := ctrl.service.Find(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, ordem, "", http.StatusOK)
}

func (ctrl *OrdemServicoController) ListByOcorrencia(c echo.Context) error {
	ocorrenciaID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	ordens, err := ctrl.service.ListByOcorrencia(c.Request().Context(), ocorrenciaID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, ordens, "", http.StatusOK)
}

// PendentesCiencia lista as OS do perito logado aguardando ciência.
func (ctrl *OrdemServicoController) PendentesCiencia(c echo.Context) error {
	peritoID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	pendentes, err := ctrl.service.PendentesCiencia(c.Request().Context(), peritoID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, pendentes, "", http.StatusOK)
}

func (ctrl *OrdemServicoController) Create(c echo.Context) error {
	emissorID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.CreateOrdemServicoDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	ordem, err := ctrl.service.Create(c.Request().Context(), payload, emissorID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, ordem, "Ordem de serviço emitida", http.StatusCreated)
}

func (ctrl *OrdemServicoController) RegistrarCiencia(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	peritoID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var payload dto.TransicaoOrdemServicoDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.service.RegistrarCiencia(c.Request().Context(), id, peritoID, payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, struct{}{}, "Ciência registrada; o prazo começou a contar", http.StatusOK)
}

func (ctrl *OrdemServicoController) Iniciar(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	peritoID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.service.Iniciar(c.Request().Context(), id, peritoID); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, struct{}{}, "Atendimento iniciado", http.StatusOK)
}

func (ctrl *OrdemServicoController) Concluir(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	peritoID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	var payload dto.TransicaoOrdemServicoDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.service.Concluir(c.Request().Context(), id, peritoID, payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, struct{}{}, "Ordem de serviço concluída", http.StatusOK)
}

func (ctrl *OrdemServicoController) JustificarAtraso(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	peritoID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.JustificarAtrasoDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.service.JustificarAtraso(c.Request().Context(), id, peritoID, payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, struct{}{}, "Justificativa registrada", http.StatusOK)
}

func (ctrl *OrdemServicoController) PDF(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	conteudo, nome, err := ctrl.service.PDF(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+nome+`"`)
	return c.Blob(http.StatusOK, "application/pdf", conteudo)
}
