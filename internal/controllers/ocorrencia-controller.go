package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/services"
	"sistema-pericial/pkg/utils"
)

type OcorrenciaController struct {
	service services.OcorrenciaServiceInterface
	logger  *zap.Logger
}

func NewOcorrenciaController(service services.OcorrenciaServiceInterface, logger *zap.Logger) *OcorrenciaController {
	return &OcorrenciaController{service: service, logger: logger}
}

func (ctrl *OcorrenciaController) List(c echo.Context) error {
	params := utils.ParseQuery(c.QueryParams())
	ocorrencias, total, err := ctrl.service.List(c.Request().Context(), params)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.PaginatedSuccessResponse(c, ocorrencias, "", total, params.Page, params.Limit)
}

func (ctrl *OcorrenciaController) ListLixeira(c echo.Context) error {
	params := utils.ParseQuery(c.QueryParams())
	ocorrencias, total, err := ctrl.service.ListLixeira(c.Request().Context(), params)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.PaginatedSuccessResponse(c, ocorrencias, "", total, params.Page, params.Limit)
}

func (ctrl *OcorrenciaController) Find(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	ocorrencia, err := ctrl.service.Find(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, ocorrencia, "", http.StatusOK)
}

func (ctrl *OcorrenciaController) Create(c echo.Context) error {
	criadorID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.CreateOcorrenciaDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	ocorrencia, err := ctrl.service.Create(c.Request().Context(), payload, criadorID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, ocorrencia, "Ocorrência registrada", http.StatusCreated)
}

func (ctrl *OcorrenciaController) Update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateOcorrenciaDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	ocorrencia, err := ctrl.service.Update(c.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, ocorrencia, "Ocorrência atualizada", http.StatusOK)
}

func (ctrl *OcorrenciaController) Finalizar(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	usuarioID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.FinalizarOcorrenciaDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.service.Finalizar(c.Request().Context(), id, usuarioID, payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, struct{}{}, "Ocorrência finalizada", http.StatusOK)
}

func (ctrl *OcorrenciaController) Reabrir(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	usuarioID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.ReabrirOcorrenciaDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.service.Reabrir(c.Request().Context(), id, usuarioID, payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, struct{}{}, "Ocorrência reaberta", http.StatusOK)
}

func (ctrl *OcorrenciaController) VincularProcedimento(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.VincularProcedimentoDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	if err := ctrl.service.VincularProcedimento(c.Request().Context(), id, payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, struct{}{}, "Procedimento vinculado", http.StatusOK)
}

func (ctrl *OcorrenciaController) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.service.SoftDelete(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, struct{}{}, "Ocorrência movida para a lixeira", http.StatusOK)
}

func (ctrl *OcorrenciaController) Restore(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.service.Restore(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, struct{}{}, "Ocorrência restaurada", http.StatusOK)
}
