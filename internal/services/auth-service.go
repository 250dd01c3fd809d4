package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/entities"
	"sistema-pericial/internal/repositories"
	"sistema-pericial/pkg/config"
	apperrors "sistema-pericial/pkg/errors"
	"sistema-pericial/pkg/service"
	"sistema-pericial/pkg/utils"
)

const (
	loginAttemptsKeyPrefix = "login_attempts:"
	lockoutKeyPrefix       = "lockout:"
	refreshTokenKeyPrefix  = "refresh_token:"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, *dto.UsuarioDTO, error)
	Refresh(ctx context.Context, payload dto.RefreshDTO) (*dto.TokenPairDTO, error)
	Logout(ctx context.Context, usuarioID uint64) error
	Registrar(ctx context.Context, payload dto.RegistrarDTO) (*dto.UsuarioDTO, error)
	ChangePassword(ctx context.Context, usuarioID uint64, payload dto.ChangePasswordDTO) error
	Me(ctx context.Context, usuarioID uint64) (*dto.UsuarioDTO, error)
	ConfirmarSenha(ctx context.Context, usuarioID uint64, senha string) error
	ValidarAssinatura(ctx context.Context, usuarioID uint64, assinatura dto.AssinaturaDTO) error
}

type AuthService struct {
	usuarioRepo repositories.UsuarioRepositoryInterface
	cacheRepo   repositories.CacheRepositoryInterface
	jwtService  service.JWTService
	authConfig  config.AuthConfig
	logger      *zap.Logger
}

func NewAuthService(
	usuarioRepo repositories.UsuarioRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	authConfig config.AuthConfig,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		usuarioRepo: usuarioRepo,
		cacheRepo:   cacheRepo,
		jwtService:  jwtService,
		authConfig:  authConfig,
		logger:      logger,
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *AuthService) tokenSubject(usuario *entities.Usuario) service.TokenSubject {
	return service.TokenSubject{
		UserID:             usuario.ID,
		Nome:               usuario.NomeCompleto,
		Perfil:             usuario.Perfil,
		SuperAdmin:         usuario.SuperAdmin,
		ServicosPericiais:  usuario.ServicosPericiais,
		MustChangePassword: usuario.MustChangePassword,
	}
}

// Login aplica o lockout progressivo antes de conferir a senha: conta
// tentativas por e-mail no Redis e bloqueia ao atingir o limite.
func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, *dto.UsuarioDTO, error) {
	lockoutKey := lockoutKeyPrefix + payload.Email
	if _, err := s.cacheRepo.Get(ctx, lockoutKey); err == nil {
		return nil, nil, apperrors.ErrAccountLocked
	} else if err != redis.Nil {
		s.logger.Warn("redis indisponível na checagem de lockout", zap.Error(err))
	}

	usuario, err := s.usuarioRepo.FindByEmail(ctx, payload.Email)
	if err != nil {
		// Resposta idêntica para usuário inexistente e senha errada.
		s.registrarTentativa(ctx, payload.Email)
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(usuario.Senha, payload.Senha); err != nil {
		s.registrarTentativa(ctx, payload.Email)
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	if usuario.Status == entities.UsuarioStatusPendente {
		return nil, nil, apperrors.NewHttpError(403, "Cadastro aguardando aprovação de um administrador", apperrors.ErrUserNotActive, nil)
	}
	if !usuario.Ativo() {
		return nil, nil, apperrors.ErrUserNotActive
	}

	if err := s.cacheRepo.Del(ctx, loginAttemptsKeyPrefix+payload.Email); err != nil {
		s.logger.Warn("não foi possível limpar o contador de tentativas", zap.Error(err))
	}

	access, refresh, err := s.jwtService.GenerateTokens(s.tokenSubject(usuario))
	if err != nil {
		return nil, nil, err
	}

	// Guarda o hash do refresh ativo; refresh antigo deixa de valer.
	refreshKey := fmt.Sprintf("%s%d", refreshTokenKeyPrefix, usuario.ID)
	if err := s.cacheRepo.Set(ctx, refreshKey, hashToken(refresh), s.jwtService.GetRefreshTokenTTL()); err != nil {
		return nil, nil, err
	}

	usuarioDTO, err := s.usuarioRepo.FindDTO(ctx, usuario.ID)
	if err != nil {
		return nil, nil, err
	}
	return &dto.TokenPairDTO{Access: access, Refresh: refresh}, usuarioDTO, nil
}

func (s *AuthService) registrarTentativa(ctx context.Context, email string) {
	attemptsKey := loginAttemptsKeyPrefix + email
	attempts, err := s.cacheRepo.Incr(ctx, attemptsKey)
	if err != nil {
		s.logger.Warn("não foi possível registrar tentativa de login", zap.Error(err))
		return
	}
	if attempts == 1 {
		if _, err := s.cacheRepo.Expire(ctx, attemptsKey, s.authConfig.LockoutDuration); err != nil {
			s.logger.Warn("não foi possível expirar o contador de tentativas", zap.Error(err))
		}
	}
	if attempts >= int64(s.authConfig.MaxLoginAttempts) {
		if err := s.cacheRepo.Set(ctx, lockoutKeyPrefix+email, "1", s.authConfig.LockoutDuration); err != nil {
			s.logger.Warn("não foi possível aplicar o lockout", zap.Error(err))
		}
	}
}

// Refresh rotaciona o par de tokens: o refresh usado é invalidado pela
// substituição do hash armazenado.
func (s *AuthService) Refresh(ctx context.Context, payload dto.RefreshDTO) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(payload.Refresh)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	refreshKey := fmt.Sprintf("%s%d", refreshTokenKeyPrefix, claims.UserID)
	stored, err := s.cacheRepo.Get(ctx, refreshKey)
	if err != nil || stored != hashToken(payload.Refresh) {
		return nil, apperrors.ErrRefreshTokenRevoked
	}

	usuario, err := s.usuarioRepo.Find(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !usuario.Ativo() {
		return nil, apperrors.ErrUserNotActive
	}

	access, refresh, err := s.jwtService.GenerateTokens(s.tokenSubject(usuario))
	if err != nil {
		return nil, err
	}
	if err := s.cacheRepo.Set(ctx, refreshKey, hashToken(refresh), s.jwtService.GetRefreshTokenTTL()); err != nil {
		return nil, err
	}
	return &dto.TokenPairDTO{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) Logout(ctx context.Context, usuarioID uint64) error {
	return s.cacheRepo.Del(ctx, fmt.Sprintf("%s%d", refreshTokenKeyPrefix, usuarioID))
}

// Registrar cria o auto-cadastro em estado PENDENTE, sem acesso até a
// aprovação.
func (s *AuthService) Registrar(ctx context.Context, payload dto.RegistrarDTO) (*dto.UsuarioDTO, error) {
	senhaHash, err := utils.HashPassword(payload.Senha)
	if err != nil {
		return nil, err
	}
	return s.usuarioRepo.Create(ctx, payload, senhaHash)
}

func (s *AuthService) ChangePassword(ctx context.Context, usuarioID uint64, payload dto.ChangePasswordDTO) error {
	usuario, err := s.usuarioRepo.Find(ctx, usuarioID)
	if err != nil {
		return err
	}
	if err := utils.ComparePasswords(usuario.Senha, payload.SenhaAtual); err != nil {
		return apperrors.NewHttpError(403, "Senha atual incorreta", apperrors.ErrInvalidCredentials, nil)
	}

	senhaHash, err := utils.HashPassword(payload.NovaSenha)
	if err != nil {
		return err
	}
	if err := s.usuarioRepo.UpdateSenha(ctx, usuarioID, senhaHash, false); err != nil {
		return err
	}
	// Troca de senha derruba o refresh ativo.
	return s.Logout(ctx, usuarioID)
}

func (s *AuthService) Me(ctx context.Context, usuarioID uint64) (*dto.UsuarioDTO, error) {
	return s.usuarioRepo.FindDTO(ctx, usuarioID)
}

// ConfirmarSenha revalida a senha do usuário autenticado antes de
// operações sensíveis (finalizar ocorrência, emitir OS, reabrir).
func (s *AuthService) ConfirmarSenha(ctx context.Context, usuarioID uint64, senha string) error {
	usuario, err := s.usuarioRepo.Find(ctx, usuarioID)
	if err != nil {
		return err
	}
	if err := utils.ComparePasswords(usuario.Senha, senha); err != nil {
		return apperrors.NewHttpError(403, "Senha incorreta", apperrors.ErrInvalidCredentials, nil)
	}
	return nil
}

// ValidarAssinatura confere e-mail e senha do próprio autor; a assinatura
// de movimentação só vale para o usuário autenticado.
func (s *AuthService) ValidarAssinatura(ctx context.Context, usuarioID uint64, assinatura dto.AssinaturaDTO) error {
	usuario, err := s.usuarioRepo.Find(ctx, usuarioID)
	if err != nil {
		return err
	}
	if !equalFoldEmail(usuario.Email, assinatura.Email) {
		return apperrors.ErrSignatureInvalid
	}
	if err := utils.ComparePasswords(usuario.Senha, assinatura.Senha); err != nil {
		return apperrors.ErrSignatureInvalid
	}
	return nil
}

func equalFoldEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
