package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/services"
	"sistema-pericial/pkg/utils"
)

// CatalogoController atende os dicionários simples (unidades demandantes,
// autoridades, tipos de local, tipos de veículo, tipos de procedimento).
// Uma instância por dicionário; o rótulo entra nas mensagens de retorno.
type CatalogoController struct {
	service services.CatalogoServiceInterface
	rotulo  string
	logger  *zap.Logger
}

func NewCatalogoController(service services.CatalogoServiceInterface, rotulo string, logger *zap.Logger) *CatalogoController {
	return &CatalogoController{service: service, rotulo: rotulo, logger: logger}
}

func (ctrl *CatalogoController) List(c echo.Context) error {
	limit, offset, page := utils.ParsePaginationParams(c.QueryParams())
	search := c.QueryParam("search")

	items, total, err := ctrl.service.List(c.Request().Context(), limit, offset, search)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.PaginatedSuccessResponse(c, items, "", total, page, limit)
}

func (ctrl *CatalogoController) ListLixeira(c echo.Context) error {
	limit, offset, page := utils.ParsePaginationParams(c.QueryParams())
	search := c.QueryParam("search")

	items, total, err := ctrl.service.ListLixeira(c.Request().Context(), limit, offset, search)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.PaginatedSuccessResponse(c, items, "", total, page, limit)
}

func (ctrl *CatalogoController) Find(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	item, err := ctrl.service.Find(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, item, "", http.StatusOK)
}

func (ctrl *CatalogoController) Dropdown(c echo.Context) error {
	items, err := ctrl.service.Dropdown(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, items, "", http.StatusOK)
}

func (ctrl *CatalogoController) Create(c echo.Context) error {
	var payload dto.CreateCatalogoDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	item, err := ctrl.service.Create(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, item, ctrl.rotulo+" cadastrado(a)", http.StatusCreated)
}

func (ctrl *CatalogoController) Update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateCatalogoDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	item, err := ctrl.service.Update(c.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, item, ctrl.rotulo+" atualizado(a)", http.StatusOK)
}

func (ctrl *CatalogoController) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.service.SoftDelete(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, struct{}{}, ctrl.rotulo+" movido(a) para a lixeira", http.StatusOK)
}

func (ctrl *CatalogoController) Restore(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.service.Restore(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, struct{}{}, ctrl.rotulo+" restaurado(a)", http.StatusOK)
}
