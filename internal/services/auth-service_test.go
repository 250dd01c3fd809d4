package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/entities"
	"sistema-pericial/pkg/config"
	apperrors "sistema-pericial/pkg/errors"
	"sistema-pericial/pkg/service"
	"sistema-pericial/pkg/utils"
)

// fakeCacheRepo guarda tudo em memória e devolve redis.Nil em chave
// ausente, como o repositório real.
type fakeCacheRepo struct {
	valores map[string]string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{valores: make(map[string]string)}
}

func (f *fakeCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.valores[key] = fmt.Sprintf("%v", value)
	return nil
}

func (f *fakeCacheRepo) Get(_ context.Context, key string) (string, error) {
	v, ok := f.valores[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeCacheRepo) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.valores, k)
	}
	return nil
}

func (f *fakeCacheRepo) Incr(_ context.Context, key string) (int64, error) {
	n := int64(0)
	fmt.Sscanf(f.valores[key], "%d", &n)
	n++
	f.valores[key] = fmt.Sprintf("%d", n)
	return n, nil
}

func (f *fakeCacheRepo) Expire(_ context.Context, _ string, _ time.Duration) (bool, error) {
	return true, nil
}

type fakeUsuarioRepo struct {
	usuarios map[uint64]*entities.Usuario
}

func newFakeUsuarioRepo(usuarios ...*entities.Usuario) *fakeUsuarioRepo {
	repo := &fakeUsuarioRepo{usuarios: make(map[uint64]*entities.Usuario)}
	for _, u := range usuarios {
		repo.usuarios[u.ID] = u
	}
	return repo
}

func (f *fakeUsuarioRepo) List(context.Context, uint64, uint64, string, string) ([]dto.UsuarioDTO, uint64, error) {
	return nil, 0, nil
}

func (f *fakeUsuarioRepo) ListLixeira(context.Context, uint64, uint64, string) ([]dto.UsuarioDTO, uint64, error) {
	return nil, 0, nil
}

func (f *fakeUsuarioRepo) Find(_ context.Context, id uint64) (*entities.Usuario, error) {
	u, ok := f.usuarios[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsuarioRepo) FindByEmail(_ context.Context, email string) (*entities.Usuario, error) {
	for _, u := range f.usuarios {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsuarioRepo) FindDTO(_ context.Context, id uint64) (*dto.UsuarioDTO, error) {
	u, ok := f.usuarios[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &dto.UsuarioDTO{ID: u.ID, NomeCompleto: u.NomeCompleto, Email: u.Email}, nil
}

func (f *fakeUsuarioRepo) DropdownPeritos(context.Context, uint64) ([]dto.DropdownItemDTO, error) {
	return nil, nil
}

func (f *fakeUsuarioRepo) Create(context.Context, dto.RegistrarDTO, string) (*dto.UsuarioDTO, error) {
	return nil, nil
}

func (f *fakeUsuarioRepo) Update(context.Context, uint64, dto.UpdateUsuarioDTO) (*dto.UsuarioDTO, error) {
	return nil, nil
}

func (f *fakeUsuarioRepo) UpdateStatus(context.Context, uint64, string) error { return nil }

func (f *fakeUsuarioRepo) Aprovar(context.Context, uint64, dto.AprovarUsuarioDTO) error { return nil }

func (f *fakeUsuarioRepo) UpdateSenha(_ context.Context, id uint64, senhaHash string, mustChange bool) error {
	if u, ok := f.usuarios[id]; ok {
		u.Senha = senhaHash
		u.MustChangePassword = mustChange
	}
	return nil
}

func (f *fakeUsuarioRepo) SoftDelete(context.Context, uint64) error { return nil }
func (f *fakeUsuarioRepo) Restore(context.Context, uint64) error    { return nil }

func usuarioDeTeste(t *testing.T, senha string) *entities.Usuario {
	t.Helper()
	hash, err := utils.HashPassword(senha)
	require.NoError(t, err)
	return &entities.Usuario{
		ID:           1,
		NomeCompleto: "Perito de Teste",
		Email:        "perito@teste.gov.br",
		Senha:        hash,
		Perfil:       entities.PerfilPerito,
		Status:       entities.UsuarioStatusAtivo,
	}
}

func newTestAuthService(t *testing.T, usuarios ...*entities.Usuario) (AuthServiceInterface, *fakeCacheRepo) {
	t.Helper()
	cache := newFakeCacheRepo()
	jwtSvc := service.NewJWTService("segredo-de-teste", time.Hour, 24*time.Hour, zap.NewNop())
	cfg := config.AuthConfig{
		MaxLoginAttempts: 3,
		LockoutDuration:  5 * time.Minute,
	}
	svc := NewAuthService(newFakeUsuarioRepo(usuarios...), cache, jwtSvc, cfg, zap.NewNop())
	return svc, cache
}

func TestLogin_Sucesso(t *testing.T) {
	svc, cache := newTestAuthService(t, usuarioDeTeste(t, "senha-forte"))

	tokens, usuario, err := svc.Login(context.Background(), dto.LoginDTO{
		Email: "perito@teste.gov.br", Senha: "senha-forte",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, tokens.Access)
	assert.NotEmpty(t, tokens.Refresh)
	assert.Equal(t, uint64(1), usuario.ID)
	assert.Contains(t, cache.valores, "refresh_token:1")
}

func TestLogin_CredenciaisInvalidas(t *testing.T) {
	svc, _ := newTestAuthService(t, usuarioDeTeste(t, "senha-forte"))

	// E-mail desconhecido e senha errada respondem de forma idêntica.
	_, _, err := svc.Login(context.Background(), dto.LoginDTO{Email: "nao@existe", Senha: "x"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), dto.LoginDTO{Email: "perito@teste.gov.br", Senha: "errada"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogin_LockoutAposTentativas(t *testing.T) {
	svc, _ := newTestAuthService(t, usuarioDeTeste(t, "senha-forte"))
	payload := dto.LoginDTO{Email: "perito@teste.gov.br", Senha: "errada"}

	for i := 0; i < 3; i++ {
		_, _, err := svc.Login(context.Background(), payload)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	}

	// Na quarta, nem a senha correta passa.
	_, _, err := svc.Login(context.Background(), dto.LoginDTO{
		Email: "perito@teste.gov.br", Senha: "senha-forte",
	})
	assert.ErrorIs(t, err, apperrors.ErrAccountLocked)
}

func TestLogin_PendenteBloqueado(t *testing.T) {
	usuario := usuarioDeTeste(t, "senha-forte")
	usuario.Status = entities.UsuarioStatusPendente
	svc, _ := newTestAuthService(t, usuario)

	_, _, err := svc.Login(context.Background(), dto.LoginDTO{
		Email: "perito@teste.gov.br", Senha: "senha-forte",
	})
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 403, httpErr.Code)
}

func TestRefresh_Rotaciona(t *testing.T) {
	svc, _ := newTestAuthService(t, usuarioDeTeste(t, "senha-forte"))

	tokens, _, err := svc.Login(context.Background(), dto.LoginDTO{
		Email: "perito@teste.gov.br", Senha: "senha-forte",
	})
	require.NoError(t, err)

	novos, err := svc.Refresh(context.Background(), dto.RefreshDTO{Refresh: tokens.Refresh})
	require.NoError(t, err)
	assert.NotEmpty(t, novos.Access)

	// O refresh antigo foi substituído pelo novo hash.
	_, err = svc.Refresh(context.Background(), dto.RefreshDTO{Refresh: tokens.Refresh})
	assert.ErrorIs(t, err, apperrors.ErrRefreshTokenRevoked)
}

func TestRefresh_NaoAceitaAccessToken(t *testing.T) {
	svc, _ := newTestAuthService(t, usuarioDeTeste(t, "senha-forte"))

	tokens, _, err := svc.Login(context.Background(), dto.LoginDTO{
		Email: "perito@teste.gov.br", Senha: "senha-forte",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), dto.RefreshDTO{Refresh: tokens.Access})
	assert.ErrorIs(t, err, apperrors.ErrTokenIsNotRefresh)
}

func TestConfirmarSenha(t *testing.T) {
	svc, _ := newTestAuthService(t, usuarioDeTeste(t, "senha-forte"))

	assert.NoError(t, svc.ConfirmarSenha(context.Background(), 1, "senha-forte"))

	err := svc.ConfirmarSenha(context.Background(), 1, "errada")
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 403, httpErr.Code)
}

func TestValidarAssinatura(t *testing.T) {
	svc, _ := newTestAuthService(t, usuarioDeTeste(t, "senha-forte"))

	// E-mail confere sem diferenciar maiúsculas.
	assert.NoError(t, svc.ValidarAssinatura(context.Background(), 1, dto.AssinaturaDTO{
		Email: "PERITO@teste.gov.br", Senha: "senha-forte",
	}))

	err := svc.ValidarAssinatura(context.Background(), 1, dto.AssinaturaDTO{
		Email: "outro@teste.gov.br", Senha: "senha-forte",
	})
	assert.ErrorIs(t, err, apperrors.ErrSignatureInvalid)

	err = svc.ValidarAssinatura(context.Background(), 1, dto.AssinaturaDTO{
		Email: "perito@teste.gov.br", Senha: "errada",
	})
	assert.ErrorIs(t, err, apperrors.ErrSignatureInvalid)
}

func TestChangePassword_DerrubaSessao(t *testing.T) {
	svc, cache := newTestAuthService(t, usuarioDeTeste(t, "senha-forte"))

	_, _, err := svc.Login(context.Background(), dto.LoginDTO{
		Email: "perito@teste.gov.br", Senha: "senha-forte",
	})
	require.NoError(t, err)
	require.Contains(t, cache.valores, "refresh_token:1")

	err = svc.ChangePassword(context.Background(), 1, dto.ChangePasswordDTO{
		SenhaAtual:     "senha-forte",
		NovaSenha:      "outra-senha-forte",
		ConfirmarSenha: "outra-senha-forte",
	})
	require.NoError(t, err)
	assert.NotContains(t, cache.valores, "refresh_token:1")

	assert.NoError(t, svc.ConfirmarSenha(context.Background(), 1, "outra-senha-forte"))
}
