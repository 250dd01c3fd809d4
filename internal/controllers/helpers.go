package controllers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "sistema-pericial/pkg/errors"
)

// parseIDParam lê um parâmetro numérico de rota; zero nunca é um ID válido.
func parseIDParam(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewHttpError(400, "Parâmetro '"+name+"' inválido", apperrors.ErrBadRequest, nil)
	}
	return id, nil
}

func parseQueryID(c echo.Context, name string) uint64 {
	id, _ := strconv.ParseUint(c.QueryParam(name), 10, 64)
	return id
}
