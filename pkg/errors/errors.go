package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// JWT e tokens
	ErrInvalidSigningMethod = errors.New("método de assinatura do token inválido")
	ErrInvalidToken         = errors.New("token inválido")
	ErrTokenExpired         = errors.New("token expirado")
	ErrTokenIsNotRefresh    = errors.New("o token informado não é um refresh token")
	ErrTokenIsNotAccess     = errors.New("o token informado não é um token de acesso")
	ErrRefreshTokenRevoked  = errors.New("refresh token revogado")

	// Autenticação / autorização
	ErrEmptyAuthHeader    = errors.New("cabeçalho de autorização ausente")
	ErrInvalidAuthHeader  = errors.New("formato do cabeçalho de autorização inválido")
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	ErrAccountLocked      = errors.New("conta temporariamente bloqueada por excesso de tentativas")
	ErrUnauthorized       = errors.New("não autorizado")
	ErrForbidden          = errors.New("acesso negado")
	ErrMustChangePassword = errors.New("é necessário trocar a senha antes de continuar")
	ErrUserNotFound       = errors.New("usuário não encontrado")
	ErrUserNotActive      = errors.New("usuário não está ativo")
	ErrSignatureInvalid   = errors.New("assinatura inválida: e-mail ou senha não conferem")

	// Gerais
	ErrNotFound   = errors.New("registro não encontrado")
	ErrConflict   = errors.New("registro já existe")
	ErrInUse      = errors.New("registro em uso por outros cadastros")
	ErrBadRequest = errors.New("requisição inválida")
)

// HttpError carrega o código HTTP junto da mensagem exibida ao usuário.
// A causa interna fica disponível para os logs via Unwrap.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}

// StatusForError traduz erros-sentinela no código HTTP correspondente.
func StatusForError(err error) int {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrInUse):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrEmptyAuthHeader),
		errors.Is(err, ErrInvalidAuthHeader),
		errors.Is(err, ErrTokenIsNotAccess),
		errors.Is(err, ErrTokenIsNotRefresh),
		errors.Is(err, ErrRefreshTokenRevoked),
		errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden),
		errors.Is(err, ErrMustChangePassword),
		errors.Is(err, ErrSignatureInvalid),
		errors.Is(err, ErrUserNotActive):
		return http.StatusForbidden
	case errors.Is(err, ErrAccountLocked):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
