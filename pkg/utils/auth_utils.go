package utils

import (
	"context"
	"fmt"

	"sistema-pericial/pkg/contextkeys"
	apperrors "sistema-pericial/pkg/errors"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("não foi possível gerar o hash da senha: %w", err)
	}
	return string(bytes), nil
}

func ComparePasswords(hashedPassword, plainPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
}

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok {
		return 0, apperrors.ErrUnauthorized
	}
	return userID, nil
}

func GetPerfilFromCtx(ctx context.Context) (string, error) {
	perfil, ok := ctx.Value(contextkeys.PerfilKey).(string)
	if !ok {
		return "", apperrors.ErrUnauthorized
	}
	return perfil, nil
}

func IsSuperAdminFromCtx(ctx context.Context) bool {
	isSuper, ok := ctx.Value(contextkeys.SuperAdminKey).(bool)
	return ok && isSuper
}

func GetServicosFromCtx(ctx context.Context) []uint64 {
	servicos, _ := ctx.Value(contextkeys.ServicosKey).([]uint64)
	return servicos
}

// CustomValidator adapta o go-playground/validator à interface echo.Validator.
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator(v *validator.Validate) *CustomValidator {
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return apperrors.NewHttpError(422, validationMessage(err), err, nil)
	}
	return nil
}

func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "dados inválidos"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("o campo '%s' é obrigatório", fe.Field())
	case "email":
		return fmt.Sprintf("o campo '%s' deve ser um e-mail válido", fe.Field())
	case "eqfield":
		return "as senhas informadas não conferem"
	case "min":
		return fmt.Sprintf("o campo '%s' é menor que o mínimo permitido", fe.Field())
	case "max":
		return fmt.Sprintf("o campo '%s' excede o tamanho máximo", fe.Field())
	case "cpf":
		return "CPF inválido"
	case "latitude_rr":
		return "latitude fora da área de atuação (0 a 5.5)"
	case "longitude_rr":
		return "longitude fora da área de atuação (-64 a -59)"
	default:
		return fmt.Sprintf("o campo '%s' é inválido", fe.Field())
	}
}
