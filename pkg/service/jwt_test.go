package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "sistema-pericial/pkg/errors"
)

func newTestJWTService(accessTTL, refreshTTL time.Duration) JWTService {
	return NewJWTService("segredo-de-teste", accessTTL, refreshTTL, zap.NewNop())
}

func testSubject() TokenSubject {
	return TokenSubject{
		UserID:            42,
		Nome:              "Perito de Teste",
		Perfil:            "PERITO",
		ServicosPericiais: []uint64{1, 3},
	}
}

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := newTestJWTService(time.Hour, 24*time.Hour)

	access, refresh, err := svc.GenerateTokens(testSubject())
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "PERITO", claims.Perfil)
	assert.Equal(t, []uint64{1, 3}, claims.ServicosPericiais)
	assert.False(t, claims.IsRefreshToken)

	refreshClaims, err := svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.True(t, refreshClaims.IsRefreshToken)
}

func TestGenerateTokens_SempreDistintos(t *testing.T) {
	svc := newTestJWTService(time.Hour, 24*time.Hour)

	// Duas emissões no mesmo segundo não podem colidir: o hash do refresh
	// armazenado no Redis precisa mudar a cada rotação.
	_, refresh1, err := svc.GenerateTokens(testSubject())
	require.NoError(t, err)
	_, refresh2, err := svc.GenerateTokens(testSubject())
	require.NoError(t, err)

	assert.NotEqual(t, refresh1, refresh2)
}

func TestValidateToken_Expirado(t *testing.T) {
	svc := newTestJWTService(-time.Minute, 24*time.Hour)

	access, _, err := svc.GenerateTokens(testSubject())
	require.NoError(t, err)

	_, err = svc.ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestValidateToken_SegredoErrado(t *testing.T) {
	svc := newTestJWTService(time.Hour, 24*time.Hour)
	outro := NewJWTService("outro-segredo", time.Hour, 24*time.Hour, zap.NewNop())

	access, _, err := svc.GenerateTokens(testSubject())
	require.NoError(t, err)

	_, err = outro.ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestValidateToken_Lixo(t *testing.T) {
	svc := newTestJWTService(time.Hour, 24*time.Hour)
	_, err := svc.ValidateToken("nem-de-longe-um-jwt")
	assert.Error(t, err)
}
