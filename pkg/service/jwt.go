package service

import (
	"time"

	apperrors "sistema-pericial/pkg/errors"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JwtCustomClaim embute a identidade que o front decodifica do bearer:
// perfil, escopos de serviço pericial e a flag de troca obrigatória de senha.
// O servidor revalida tudo a cada chamada; o token é só um espelho.
type JwtCustomClaim struct {
	UserID             uint64   `json:"user_id"`
	Nome               string   `json:"nome"`
	Perfil             string   `json:"perfil"`
	SuperAdmin         bool     `json:"super_admin"`
	ServicosPericiais  []uint64 `json:"servicos_periciais"`
	MustChangePassword bool     `json:"must_change_password"`
	IsRefreshToken     bool     `json:"is_refresh"`
	jwt.RegisteredClaims
}

type TokenSubject struct {
	UserID             uint64
	Nome               string
	Perfil             string
	SuperAdmin         bool
	ServicosPericiais  []uint64
	MustChangePassword bool
}

type JWTService interface {
	GenerateTokens(subject TokenSubject) (access string, refresh string, err error)
	ValidateToken(tokenString string) (*JwtCustomClaim, error)
	GetAccessTokenTTL() time.Duration
	GetRefreshTokenTTL() time.Duration
}

type jwtService struct {
	secretKey       string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	logger          *zap.Logger
}

func NewJWTService(secretKey string, accessTokenExp, refreshTokenExp time.Duration, logger *zap.Logger) JWTService {
	return &jwtService{
		secretKey:       secretKey,
		accessTokenExp:  accessTokenExp,
		refreshTokenExp: refreshTokenExp,
		logger:          logger,
	}
}

func (s *jwtService) GenerateTokens(subject TokenSubject) (string, string, error) {
	now := time.Now()

	newClaims := func(ttl time.Duration, isRefresh bool) *JwtCustomClaim {
		return &JwtCustomClaim{
			UserID:             subject.UserID,
			Nome:               subject.Nome,
			Perfil:             subject.Perfil,
			SuperAdmin:         subject.SuperAdmin,
			ServicosPericiais:  subject.ServicosPericiais,
			MustChangePassword: subject.MustChangePassword,
			IsRefreshToken:     isRefresh,
			RegisteredClaims: jwt.RegisteredClaims{
				// O jti garante tokens distintos mesmo quando duas emissões
				// caem no mesmo segundo; a rotação de refresh depende disso.
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			},
		}
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS512, newClaims(s.accessTokenExp, false)).
		SignedString([]byte(s.secretKey))
	if err != nil {
		return "", "", err
	}

	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS512, newClaims(s.refreshTokenExp, true)).
		SignedString([]byte(s.secretKey))
	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

func (s *jwtService) ValidateToken(tokenString string) (*JwtCustomClaim, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JwtCustomClaim{}, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			return []byte(s.secretKey), nil
		default:
			return nil, apperrors.ErrInvalidSigningMethod
		}
	})
	if err != nil {
		s.logger.Debug("falha ao validar token", zap.Error(err))
		if claims, ok := tokenClaims(token); ok && claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*JwtCustomClaim)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
		return nil, apperrors.ErrTokenExpired
	}

	return claims, nil
}

func tokenClaims(token *jwt.Token) (*JwtCustomClaim, bool) {
	if token == nil {
		return nil, false
	}
	claims, ok := token.Claims.(*JwtCustomClaim)
	return claims, ok
}

func (s *jwtService) GetAccessTokenTTL() time.Duration  { return s.accessTokenExp }
func (s *jwtService) GetRefreshTokenTTL() time.Duration { return s.refreshTokenExp }
