package middleware

import (
	"context"
	"strings"

	"sistema-pericial/pkg/contextkeys"
	apperrors "sistema-pericial/pkg/errors"
	"sistema-pericial/pkg/service"
	"sistema-pericial/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		logger:     logger,
	}
}

// Auth extrai o bearer, valida e injeta a identidade no contexto da requisição.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("token rejeitado", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		if claims.IsRefreshToken {
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		ctx := c.Request().Context()
		ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, contextkeys.PerfilKey, claims.Perfil)
		ctx = context.WithValue(ctx, contextkeys.SuperAdminKey, claims.SuperAdmin)
		ctx = context.WithValue(ctx, contextkeys.ServicosKey, claims.ServicosPericiais)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Set("claims", claims)

		return next(c)
	}
}

// RequireSuperAdmin protege rotas exclusivas do super-admin (o análogo do
// guard de rota do front: quem não é super-admin nem chega no handler).
func (m *AuthMiddleware) RequireSuperAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !utils.IsSuperAdminFromCtx(c.Request().Context()) {
			return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
		}
		return next(c)
	}
}

// RequirePerfil libera a rota apenas para os perfis listados.
// Super-admin passa sempre.
func (m *AuthMiddleware) RequirePerfil(perfis ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if utils.IsSuperAdminFromCtx(ctx) {
				return next(c)
			}
			perfil, err := utils.GetPerfilFromCtx(ctx)
			if err != nil {
				return utils.ErrorResponse(c, err, m.logger)
			}
			for _, p := range perfis {
				if p == perfil {
					return next(c)
				}
			}
			return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
		}
	}
}

// BlockUntilPasswordChanged impede qualquer operação enquanto a troca de
// senha obrigatória estiver pendente. A própria rota de troca fica fora
// deste middleware.
func (m *AuthMiddleware) BlockUntilPasswordChanged(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get("claims").(*service.JwtCustomClaim)
		if ok && claims.MustChangePassword {
			return utils.ErrorResponse(c, apperrors.ErrMustChangePassword, m.logger)
		}
		return next(c)
	}
}
