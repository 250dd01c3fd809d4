package utils

import (
	"errors"
	"math"
	"net/http"

	apperrors "sistema-pericial/pkg/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HttpResponse é o envelope único de resposta da API. O front antigo aceitava
// três formatos de erro diferentes; aqui normalizamos tudo em um só.
type HttpResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

type PaginatedResponse struct {
	Status     bool        `json:"status"`
	Body       interface{} `json:"body"`
	Message    string      `json:"message"`
	TotalCount uint64      `json:"total_count"`
	Page       uint64      `json:"page"`
	Limit      uint64      `json:"limit"`
	TotalPages uint64      `json:"total_pages"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	})
}

func PaginatedSuccessResponse(ctx echo.Context, body interface{}, message string, total, page, limit uint64) error {
	return ctx.JSON(http.StatusOK, &PaginatedResponse{
		Status:     true,
		Body:       body,
		Message:    message,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: TotalPages(total, limit),
	})
}

// TotalPages calcula ceil(total/limit); limite zero conta como uma página.
func TotalPages(total, limit uint64) uint64 {
	if limit == 0 {
		return 1
	}
	return uint64(math.Ceil(float64(total) / float64(limit)))
}

func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code := apperrors.StatusForError(err)
	message := err.Error()

	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		message = httpErr.Message
		if logger != nil {
			logger.Warn("erro na requisição",
				zap.Int("code", code),
				zap.String("message", message),
				zap.Any("details", httpErr.Details),
				zap.Error(httpErr.Err),
			)
		}
	} else if logger != nil && code >= http.StatusInternalServerError {
		logger.Error("erro interno", zap.Error(err))
		message = "erro interno do servidor"
	}

	return ctx.JSON(code, &HttpResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	})
}
