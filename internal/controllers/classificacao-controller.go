package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/services"
	"sistema-pericial/pkg/utils"
)

// ClassificacaoController atende as duas hierarquias de dois níveis do
// sistema: classificações de ocorrência e exames. Uma instância por
// hierarquia, com o rótulo nas mensagens.
type ClassificacaoController struct {
	service services.ClassificacaoServiceInterface
	rotulo  string
	logger  *zap.Logger
}

func NewClassificacaoController(service services.ClassificacaoServiceInterface, rotulo string, logger *zap.Logger) *ClassificacaoController {
	return &ClassificacaoController{service: service, rotulo: rotulo, logger: logger}
}

func (ctrl *ClassificacaoController) List(c echo.Context) error {
	limit, offset, page := utils.ParsePaginationParams(c.QueryParams())
	servicoID := parseQueryID(c, "servico_pericial_id")

	items, total, err := ctrl.service.List(c.Request().Context(), limit, offset, c.QueryParam("search"), servicoID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.PaginatedSuccessResponse(c, items, "", total, page, limit)
}

func (ctrl *ClassificacaoController) ListLixeira(c echo.Context) error {
	limit, offset, page := utils.ParsePaginationParams(c.QueryParams())
	items, total, err := ctrl.service.ListLixeira(c.Request().Context(), limit, offset, c.QueryParam("search"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.PaginatedSuccessResponse(c, items, "", total, page, limit)
}

func (ctrl *ClassificacaoController) Find(c echo.Context) error {
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

// Arvore devolve grupos com seus subgrupos aninhados, filtrados por
// serviço pericial.
func (ctrl *ClassificacaoController) Arvore(c echo.Context) error {
	servicoID := parseQueryID(c, "servico_pericial_id")
	arvore, err := ctrl.service.Arvore(c.Request().Context(), servicoID)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, arvore, "", http.StatusOK)
}

func (ctrl *ClassificacaoController) Create(c echo.Context) error {
	var payload dto.CreateClassificacaoDTO
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

func (ctrl *ClassificacaoController) Update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateClassificacaoDTO
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

func (ctrl *ClassificacaoController) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.service.SoftDelete(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, struct{}{}, ctrl.rotulo+" movido(a) para a lixeira", http.StatusOK)
}

func (ctrl *ClassificacaoController) Restore(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	if err := ctrl.service.Restore(c.Request().Context(), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, struct{}{}, ctrl.rotulo+" restaurado(a)", http.StatusOK)
}
