package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/services"
	"sistema-pericial/pkg/utils"
)

type CidadeController struct {
	service services.CidadeServiceInterface
	logger  *zap.Logger
}

func NewCidadeController(service services.CidadeServiceInterface, logger *zap.Logger) *CidadeController {
	return &CidadeController{service: service, logger: logger}
}

func (ctrl *CidadeController) List(c echo.Context) error {
	limit, offset, page := utils.ParsePaginationParams(c.QueryParams())
	cidades, total, err := ctrl.service.List(c.Request().Context(), limit, offset, c.QueryParam("search"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.PaginatedSuccessResponse(c, cidades, "", total, page, limit)
}

func (ctrl *CidadeController) ListLixeira(c echo.Context) error {
	limit, offset, page := utils.ParsePaginationParams(c.QueryParams())
	cidades, total, err := ctrl.service.ListLixeira(c.Request().Context(), limit, offset, c.QueryParam("search"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.PaginatedSuccessResponse(c, cidades, "", total, page, limit)
}

func (ctrl *CidadeController) Find(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	cidade, err := ctrl.service.Find(c.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, cidade, "", http.StatusOK)
}

func (ctrl *CidadeController) Dropdown(c echo.Context) error {
	items, err := ctrl.service.Dropdown(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, items, "", http.StatusOK)
}

func (ctrl *CidadeController) Create(c echo.Context) error {
	var payload dto.CreateCidadeDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	cidade, err := ctrl.service.Create(c.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, cidade, "Cidade cadastrada", http.StatusCreated)
}

func (ctrl *CidadeController) Update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateCidadeDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	cidade, err := ctrl.service.Update(c.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, cidade, "Cidade atualizada", http.StatusOK)
}

func (ctrl *CidadeController) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.service.SoftDelete(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, struct{}{}, "Cidade movida para a lixeira", http.StatusOK)
}

func (ctrl *CidadeController) Restore(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.service.Restore(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, struct{}{}, "Cidade restaurada", http.StatusOK)
}
