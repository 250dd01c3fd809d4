package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/entities"
	"sistema-pericial/pkg/config"
	apperrors "sistema-pericial/pkg/errors"
)

type fakeLaudoRepo struct {
	laudos  map[uint64]*dto.LaudoDTO
	proximo uint64
}

func newFakeLaudoRepo() *fakeLaudoRepo {
	return &fakeLaudoRepo{laudos: make(map[uint64]*dto.LaudoDTO), proximo: 1}
}

func (f *fakeLaudoRepo) Find(_ context.Context, id uint64) (*dto.LaudoDTO, error) {
	l, ok := f.laudos[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return l, nil
}

func (f *fakeLaudoRepo) ListByOcorrencia(_ context.Context, ocorrenciaID uint64) ([]dto.LaudoDTO, error) {
	var out []dto.LaudoDTO
	for _, l := range f.laudos {
		if l.OcorrenciaID == ocorrenciaID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeLaudoRepo) Create(_ context.Context, ocorrenciaID uint64, sessaoID, conteudo string, _ uint64) (*dto.LaudoDTO, error) {
	laudo := &dto.LaudoDTO{ID: f.proximo, OcorrenciaID: ocorrenciaID, SessaoID: sessaoID, Conteudo: conteudo}
	f.laudos[f.proximo] = laudo
	f.proximo++
	return laudo, nil
}

func newTestLaudoService(t *testing.T) (LaudoServiceInterface, *fakeLaudoRepo, *fakeCacheRepo) {
	t.Helper()
	repo := newFakeLaudoRepo()
	cache := newFakeCacheRepo()
	ocorrenciaRepo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaEmAnalise))
	svc := NewLaudoService(repo, ocorrenciaRepo, cache, NewLocalChatProvider(),
		config.AuthConfig{}, zap.NewNop())
	return svc, repo, cache
}

func TestChatDeLaudo_FluxoCompleto(t *testing.T) {
	svc, repo, cache := newTestLaudoService(t)
	ctx := context.Background()

	sessao, err := svc.IniciarChat(ctx, dto.IniciarChatDTO{OcorrenciaID: 1}, 7)
	require.NoError(t, err)
	require.NotEmpty(t, sessao.SessaoID)
	// A mensagem de sistema com o contexto não aparece no transcript.
	assert.Empty(t, sessao.Mensagens)

	sessao, err = svc.EnviarMensagem(ctx, dto.EnviarMensagemDTO{
		SessaoID: sessao.SessaoID,
		Conteudo: "Descreva o local do fato",
	}, 7)
	require.NoError(t, err)
	require.Len(t, sessao.Mensagens, 2)
	assert.Equal(t, entities.ChatRoleUsuario, sessao.Mensagens[0].Role)
	assert.Equal(t, entities.ChatRoleIA, sessao.Mensagens[1].Role)

	laudo, err := svc.GerarLaudo(ctx, dto.GerarLaudoDTO{SessaoID: sessao.SessaoID}, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), laudo.OcorrenciaID)
	assert.Contains(t, laudo.Conteudo, "RASCUNHO DE LAUDO")
	assert.Contains(t, repo.laudos, laudo.ID)

	// A sessão é encerrada após a geração.
	assert.NotContains(t, cache.valores, "laudo_chat:"+sessao.SessaoID)
}

func TestChatDeLaudo_SessaoDeOutroUsuario(t *testing.T) {
	svc, _, _ := newTestLaudoService(t)
	ctx := context.Background()

	sessao, err := svc.IniciarChat(ctx, dto.IniciarChatDTO{OcorrenciaID: 1}, 7)
	require.NoError(t, err)

	_, err = svc.EnviarMensagem(ctx, dto.EnviarMensagemDTO{
		SessaoID: sessao.SessaoID, Conteudo: "oi",
	}, 8)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestChatDeLaudo_SessaoExpirada(t *testing.T) {
	svc, _, _ := newTestLaudoService(t)

	_, err := svc.EnviarMensagem(context.Background(), dto.EnviarMensagemDTO{
		SessaoID: "4c2a7c7e-0000-0000-0000-000000000000", Conteudo: "oi",
	}, 7)
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 404, httpErr.Code)
}

func TestGerarLaudo_SemRespostaDaIA(t *testing.T) {
	svc, _, _ := newTestLaudoService(t)
	ctx := context.Background()

	sessao, err := svc.IniciarChat(ctx, dto.IniciarChatDTO{OcorrenciaID: 1}, 7)
	require.NoError(t, err)

	_, err = svc.GerarLaudo(ctx, dto.GerarLaudoDTO{SessaoID: sessao.SessaoID}, 7)
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 409, httpErr.Code)
}
