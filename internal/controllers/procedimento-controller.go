package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/services"
	apperrors "sistema-pericial/pkg/errors"
	"sistema-pericial/pkg/utils"
)

type ProcedimentoController struct {
	service services.ProcedimentoServiceInterface
	logger  *zap.Logger
}

func NewProcedimentoController(service services.ProcedimentoServiceInterface, logger *zap.Logger) *ProcedimentoController {
	return &ProcedimentoController{service: service, logger: logger}
}

func (ctrl *ProcedimentoController) List(c echo.Context) error {
	limit, offset, page := utils.ParsePaginationParams(c.QueryParams())
	procedimentos, total, err := ctrl.service.List(c.Request().Context(), limit, offset, c.QueryParam("search"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.PaginatedSuccessResponse(c, procedimentos, "", total, page, limit)
}

func (ctrl *ProcedimentoController) ListLixeira(c echo.Context) error {
	limit, offset, page := utils.ParsePaginationParams(c.QueryParams())
	procedimentos, total, err := ctrl.service.ListLixeira(c.Request().Context(), limit, offset, c.QueryParam("search"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.PaginatedSuccessResponse(c, procedimentos, "", total, page, limit)
}

func (ctrl *ProcedimentoController) Find(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	procedimento, err := ctrl.service.Find(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, procedimento, "", http.StatusOK)
}

// Busca usada no vínculo ocorrência x procedimento.
func (ctrl *ProcedimentoController) FindByNumero(c echo.Context) error {
	numero := c.QueryParam("numero")
	if numero == "" {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(400, "Informe o número do procedimento", apperrors.ErrBadRequest, nil), ctrl.logger)
	}
	procedimento, err := ctrl.service.FindByNumero(c.Request().Context(), numero)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, procedimento, "", http.StatusOK)
}

func (ctrl *ProcedimentoController) Create(c echo.Context) error {
	var payload dto.CreateProcedimentoDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	procedimento, err := ctrl.service.Create(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, procedimento, "Procedimento cadastrado", http.StatusCreated)
}

func (ctrl *ProcedimentoController) Update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateProcedimentoDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	procedimento, err := ctrl.service.Update(c.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, procedimento, "Procedimento atualizado", http.StatusOK)
}

func (ctrl *ProcedimentoController) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.service.SoftDelete(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, struct{}{}, "Procedimento movido para a lixeira", http.StatusOK)
}

func (ctrl *ProcedimentoController) Restore(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.service.Restore(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, struct{}{}, "Procedimento restaurado", http.StatusOK)
}
