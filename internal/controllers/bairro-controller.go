package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/services"
	"sistema-pericial/pkg/utils"
)

type BairroController struct {
	service services.BairroServiceInterface
	logger  *zap.Logger
}

func NewBairroController(service services.BairroServiceInterface, logger *zap.Logger) *BairroController {
	return &BairroController{service: service, logger: logger}
}

func (ctrl *BairroController) List(c echo.Context) error {
	limit, offset, page := utils.ParsePaginationParams(c.QueryParams())
	cidadeID := parseQueryID(c, "cidade_id")

	bairros, total, err := ctrl.service.List(c.Request().Context(), limit, offset, c.QueryParam("search"), cidadeID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.PaginatedSuccessResponse(c, bairros, "", total, page, limit)
}

func (ctrl *BairroController) ListLixeira(c echo.Context) error {
	limit, offset, page := utils.ParsePaginationParams(c.QueryParams())
	bairros, total, err := ctrl.service.ListLixeira(c.Request().Context(), limit, offset, c.QueryParam("search"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.PaginatedSuccessResponse(c, bairros, "", total, page, limit)
}

func (ctrl *BairroController) Find(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	bairro, err := ctrl.service.Find(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, bairro, "", http.StatusOK)
}

// Dropdown é em cascata: exige a cidade selecionada.
func (ctrl *BairroController) Dropdown(c echo.Context) error {
	cidadeID := parseQueryID(c, "cidade_id")
	items, err := ctrl.service.Dropdown(c.Request().Context(), cidadeID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, items, "", http.StatusOK)
}

func (ctrl *BairroController) Create(c echo.Context) error {
	var payload dto.CreateBairroDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	bairro, err := ctrl.service.Create(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, bairro, "Bairro cadastrado", http.StatusCreated)
}

func (ctrl *BairroController) Update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateBairroDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	bairro, err := ctrl.service.Update(c.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, bairro, "Bairro atualizado", http.StatusOK)
}

func (ctrl *BairroController) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.service.SoftDelete(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, struct{}{}, "Bairro movido para a lixeira", http.StatusOK)
}

func (ctrl *BairroController) Restore(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.service.Restore(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, struct{}{}, "Bairro restaurado", http.StatusOK)
}
