package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/entities"
	apperrors "sistema-pericial/pkg/errors"
)

type fakeMovimentacaoRepo struct {
	movimentacoes map[uint64]*dto.MovimentacaoDTO
	removidas     []uint64
}

func newFakeMovimentacaoRepo(movimentacoes ...*dto.MovimentacaoDTO) *fakeMovimentacaoRepo {
	repo := &fakeMovimentacaoRepo{movimentacoes: make(map[uint64]*dto.MovimentacaoDTO)}
	for _, m := range movimentacoes {
		repo.movimentacoes[m.ID] = m
	}
	return repo
}

func (f *fakeMovimentacaoRepo) ListByOcorrencia(_ context.Context, ocorrenciaID uint64) ([]dto.MovimentacaoDTO, error) {
	var out []dto.MovimentacaoDTO
	for _, m := range f.movimentacoes {
		if m.OcorrenciaID == ocorrenciaID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMovimentacaoRepo) Find(_ context.Context, id uint64) (*dto.MovimentacaoDTO, error) {
	m, ok := f.movimentacoes[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return m, nil
}

func (f *fakeMovimentacaoRepo) Create(_ context.Context, ocorrenciaID uint64, payload dto.CreateMovimentacaoDTO, autorID uint64) (*dto.MovimentacaoDTO, error) {
	m := &dto.MovimentacaoDTO{
		ID:           uint64(len(f.movimentacoes) + 1),
		OcorrenciaID: ocorrenciaID,
		Assunto:      payload.Assunto,
		Descricao:    payload.Descricao,
		CriadaPor:    dto.ShortUsuarioDTO{ID: autorID},
	}
	f.movimentacoes[m.ID] = m
	return m, nil
}

func (f *fakeMovimentacaoRepo) Update(_ context.Context, id uint64, payload dto.UpdateMovimentacaoDTO, _ uint64) (*dto.MovimentacaoDTO, error) {
	m := f.movimentacoes[id]
	m.Assunto = payload.Assunto
	m.Descricao = payload.Descricao
	return m, nil
}

func (f *fakeMovimentacaoRepo) SoftDelete(_ context.Context, id uint64, _ uint64) error {
	f.removidas = append(f.removidas, id)
	return nil
}

func movimentacaoDeTeste(id, ocorrenciaID, autorID uint64) *dto.MovimentacaoDTO {
	return &dto.MovimentacaoDTO{
		ID:           id,
		OcorrenciaID: ocorrenciaID,
		Assunto:      "Coleta de vestígios",
		Descricao:    "Material coletado no local e encaminhado ao laboratório.",
		CriadaPor:    dto.ShortUsuarioDTO{ID: autorID, NomeCompleto: "Perito de Teste"},
		CreatedAt:    "2026-03-10 15:30:00",
	}
}

func newTestMovimentacaoService(repo *fakeMovimentacaoRepo, ocorrenciaRepo *fakeOcorrenciaRepo) MovimentacaoServiceInterface {
	auth := &stubAuthService{senha: "senha-ok"}
	return NewMovimentacaoService(repo, ocorrenciaRepo, auth, zap.NewNop())
}

func TestMovimentacaoCreate_AssinaturaInvalida(t *testing.T) {
	repo := newFakeMovimentacaoRepo()
	ocorrenciaRepo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaEmAnalise))
	svc := newTestMovimentacaoService(repo, ocorrenciaRepo)

	_, err := svc.Create(context.Background(), 1, dto.CreateMovimentacaoDTO{
		Assunto:    "Coleta de vestígios",
		Descricao:  "Material coletado no local.",
		Assinatura: dto.AssinaturaDTO{Email: "perito@teste.gov.br", Senha: "errada"},
	}, 7)

	assert.ErrorIs(t, err, apperrors.ErrSignatureInvalid)
	assert.Empty(t, repo.movimentacoes)
}

func TestMovimentacaoCreate_OcorrenciaFinalizada(t *testing.T) {
	repo := newFakeMovimentacaoRepo()
	ocorrenciaRepo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaFinalizada))
	svc := newTestMovimentacaoService(repo, ocorrenciaRepo)

	_, err := svc.Create(context.Background(), 1, dto.CreateMovimentacaoDTO{
		Assunto:    "Coleta de vestígios",
		Descricao:  "Material coletado no local.",
		Assinatura: dto.AssinaturaDTO{Email: "perito@teste.gov.br", Senha: "senha-ok"},
	}, 7)

	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 409, httpErr.Code)
}

func TestMovimentacaoUpdate_SoAutor(t *testing.T) {
	repo := newFakeMovimentacaoRepo(movimentacaoDeTeste(1, 1, 7))
	ocorrenciaRepo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaEmAnalise))
	svc := newTestMovimentacaoService(repo, ocorrenciaRepo)

	_, err := svc.Update(context.Background(), 1, dto.UpdateMovimentacaoDTO{
		Assunto:    "Coleta de vestígios",
		Descricao:  "Descrição revisada.",
		Assinatura: dto.AssinaturaDTO{Email: "outro@teste.gov.br", Senha: "senha-ok"},
	}, 8)

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestMovimentacaoSoftDelete_SoSuperAdmin(t *testing.T) {
	repo := newFakeMovimentacaoRepo(movimentacaoDeTeste(1, 1, 7))
	ocorrenciaRepo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaEmAnalise))
	svc := newTestMovimentacaoService(repo, ocorrenciaRepo)

	// Nem o autor remove a própria movimentação.
	err := svc.SoftDelete(context.Background(), 1, 7, false)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Empty(t, repo.removidas)

	err = svc.SoftDelete(context.Background(), 1, 9, true)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, repo.removidas)
}

func TestMovimentacoesPDF(t *testing.T) {
	repo := newFakeMovimentacaoRepo(movimentacaoDeTeste(1, 1, 7))
	ocorrenciaRepo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaEmAnalise))
	svc := newTestMovimentacaoService(repo, ocorrenciaRepo)

	conteudo, nome, err := svc.PDF(context.Background(), 1)
	require.NoError(t, err)
	assert.NotEmpty(t, conteudo)
	assert.Equal(t, "movimentacoes-ocorrencia-1.pdf", nome)
}
