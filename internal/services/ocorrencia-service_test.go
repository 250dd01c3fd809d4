package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/entities"
	"sistema-pericial/internal/repositories"
	apperrors "sistema-pericial/pkg/errors"
	"sistema-pericial/pkg/utils"
)

// stubAuthService aceita uma única senha fixa; o resto não é usado
// pelos serviços testados aqui.
type stubAuthService struct {
	senha string
}

func (s *stubAuthService) Login(context.Context, dto.LoginDTO) (*dto.TokenPairDTO, *dto.UsuarioDTO, error) {
	return nil, nil, nil
}
func (s *stubAuthService) Refresh(context.Context, dto.RefreshDTO) (*dto.TokenPairDTO, error) {
	return nil, nil
}
func (s *stubAuthService) Logout(context.Context, uint64) error { return nil }
func (s *stubAuthService) Registrar(context.Context, dto.RegistrarDTO) (*dto.UsuarioDTO, error) {
	return nil, nil
}
func (s *stubAuthService) ChangePassword(context.Context, uint64, dto.ChangePasswordDTO) error {
	return nil
}
func (s *stubAuthService) Me(context.Context, uint64) (*dto.UsuarioDTO, error) { return nil, nil }

func (s *stubAuthService) ConfirmarSenha(_ context.Context, _ uint64, senha string) error {
	if senha != s.senha {
		return apperrors.NewHttpError(403, "Senha incorreta", apperrors.ErrInvalidCredentials, nil)
	}
	return nil
}

func (s *stubAuthService) ValidarAssinatura(_ context.Context, _ uint64, assinatura dto.AssinaturaDTO) error {
	if assinatura.Senha != s.senha {
		return apperrors.ErrSignatureInvalid
	}
	return nil
}

type fakeOcorrenciaRepo struct {
	ocorrencias  map[uint64]*dto.OcorrenciaDTO
	finalizadas  []uint64
	reabertas    []uint64
	ultimoMotivo string
	statusSet    map[uint64]string
}

func newFakeOcorrenciaRepo(ocorrencias ...*dto.OcorrenciaDTO) *fakeOcorrenciaRepo {
	repo := &fakeOcorrenciaRepo{
		ocorrencias: make(map[uint64]*dto.OcorrenciaDTO),
		statusSet:   make(map[uint64]string),
	}
	for _, o := range ocorrencias {
		repo.ocorrencias[o.ID] = o
	}
	return repo
}

func (f *fakeOcorrenciaRepo) List(context.Context, utils.QueryParams) ([]dto.OcorrenciaDTO, uint64, error) {
	return nil, 0, nil
}

func (f *fakeOcorrenciaRepo) ListLixeira(context.Context, utils.QueryParams) ([]dto.OcorrenciaDTO, uint64, error) {
	return nil, 0, nil
}

func (f *fakeOcorrenciaRepo) Find(_ context.Context, id uint64) (*dto.OcorrenciaDTO, error) {
	o, ok := f.ocorrencias[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return o, nil
}

func (f *fakeOcorrenciaRepo) ProximoNumero(context.Context, int) (uint64, error) { return 1, nil }

func (f *fakeOcorrenciaRepo) Create(context.Context, repositories.CreateOcorrenciaParams, []uint64) (uint64, error) {
	return 99, nil
}

func (f *fakeOcorrenciaRepo) Update(context.Context, uint64, dto.UpdateOcorrenciaDTO) error {
	return nil
}

func (f *fakeOcorrenciaRepo) UpdateStatus(_ context.Context, id uint64, status string) error {
	f.statusSet[id] = status
	return nil
}

func (f *fakeOcorrenciaRepo) Finalizar(_ context.Context, id uint64, _ uint64) error {
	f.finalizadas = append(f.finalizadas, id)
	return nil
}

func (f *fakeOcorrenciaRepo) Reabrir(_ context.Context, id uint64, _ uint64, motivo string) error {
	f.reabertas = append(f.reabertas, id)
	f.ultimoMotivo = motivo
	return nil
}

func (f *fakeOcorrenciaRepo) VincularProcedimento(context.Context, uint64, uint64) error { return nil }
func (f *fakeOcorrenciaRepo) SoftDelete(context.Context, uint64) error                   { return nil }
func (f *fakeOcorrenciaRepo) Restore(context.Context, uint64) error                      { return nil }

type fakeClassificacaoRepo struct {
	classificacoes map[uint64]*dto.ClassificacaoDTO
}

func (f *fakeClassificacaoRepo) List(context.Context, uint64, uint64, string, uint64) ([]dto.ClassificacaoDTO, uint64, error) {
	return nil, 0, nil
}

func (f *fakeClassificacaoRepo) ListLixeira(context.Context, uint64, uint64, string) ([]dto.ClassificacaoDTO, uint64, error) {
	return nil, 0, nil
}

func (f *fakeClassificacaoRepo) Find(_ context.Context, id uint64) (*dto.ClassificacaoDTO, error) {
	c, ok := f.classificacoes[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return c, nil
}

func (f *fakeClassificacaoRepo) Arvore(context.Context, uint64) ([]dto.ClassificacaoArvoreDTO, error) {
	return nil, nil
}

func (f *fakeClassificacaoRepo) Create(context.Context, dto.CreateClassificacaoDTO) (*dto.ClassificacaoDTO, error) {
	return nil, nil
}

func (f *fakeClassificacaoRepo) Update(context.Context, uint64, dto.UpdateClassificacaoDTO) (*dto.ClassificacaoDTO, error) {
	return nil, nil
}

func (f *fakeClassificacaoRepo) SoftDelete(context.Context, uint64) error        { return nil }
func (f *fakeClassificacaoRepo) Restore(context.Context, uint64) error           { return nil }
func (f *fakeClassificacaoRepo) HasChildren(context.Context, uint64) (bool, error) { return false, nil }

type fakeBairroRepo struct {
	bairros map[uint64]*dto.BairroDTO
}

func (f *fakeBairroRepo) List(context.Context, uint64, uint64, string, uint64) ([]dto.BairroDTO, uint64, error) {
	return nil, 0, nil
}

func (f *fakeBairroRepo) ListLixeira(context.Context, uint64, uint64, string) ([]dto.BairroDTO, uint64, error) {
	return nil, 0, nil
}

func (f *fakeBairroRepo) Find(_ context.Context, id uint64) (*dto.BairroDTO, error) {
	b, ok := f.bairros[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return b, nil
}

func (f *fakeBairroRepo) Dropdown(context.Context, uint64) ([]dto.DropdownItemDTO, error) {
	return nil, nil
}

func (f *fakeBairroRepo) Create(context.Context, dto.CreateBairroDTO) (*dto.BairroDTO, error) {
	return nil, nil
}

func (f *fakeBairroRepo) Update(context.Context, uint64, dto.UpdateBairroDTO) (*dto.BairroDTO, error) {
	return nil, nil
}

func (f *fakeBairroRepo) SoftDelete(context.Context, uint64) error { return nil }
func (f *fakeBairroRepo) Restore(context.Context, uint64) error    { return nil }

type fakeOSRepo struct {
	aberta bool
}

func (f *fakeOSRepo) List(context.Context, utils.QueryParams) ([]dto.OrdemServicoDTO, uint64, error) {
	return nil, 0, nil
}

func (f *fakeOSRepo) Find(context.Context, uint64) (*dto.OrdemServicoDTO, error) { return nil, nil }

func (f *fakeOSRepo) ListByOcorrencia(context.Context, uint64) ([]dto.OrdemServicoDTO, error) {
	return nil, nil
}

func (f *fakeOSRepo) PendentesCiencia(context.Context, uint64) ([]dto.OrdemServicoDTO, error) {
	return nil, nil
}

func (f *fakeOSRepo) ProximoNumero(context.Context, int) (uint64, error) { return 1, nil }

func (f *fakeOSRepo) Create(context.Context, repositories.CreateOrdemServicoParams) (uint64, error) {
	return 1, nil
}

func (f *fakeOSRepo) RegistrarCiencia(context.Context, uint64, uint64) error        { return nil }
func (f *fakeOSRepo) Iniciar(context.Context, uint64, uint64) error                 { return nil }
func (f *fakeOSRepo) Concluir(context.Context, uint64, uint64) error                { return nil }
func (f *fakeOSRepo) JustificarAtraso(context.Context, uint64, uint64, string) error { return nil }

func (f *fakeOSRepo) ExisteAbertaParaOcorrencia(context.Context, uint64) (bool, error) {
	return f.aberta, nil
}

func ocorrenciaDeTeste(id uint64, status string) *dto.OcorrenciaDTO {
	return &dto.OcorrenciaDTO{
		ID:              id,
		Numero:          "000001/2026",
		Status:          status,
		Classificacao:   dto.DropdownItemDTO{ID: 10, Nome: "Homicídio"},
		ServicoPericial: dto.DropdownItemDTO{ID: 2, Nome: "Perícia de Local de Crime"},
	}
}

func newTestOcorrenciaService(repo *fakeOcorrenciaRepo, osRepo *fakeOSRepo) OcorrenciaServiceInterface {
	classRepo := &fakeClassificacaoRepo{classificacoes: map[uint64]*dto.ClassificacaoDTO{
		10: {ID: 10, Nome: "Homicídio", ServicoPericialID: 2},
		20: {ID: 20, Nome: "Extração de Dados", ServicoPericialID: 3},
	}}
	bairroRepo := &fakeBairroRepo{bairros: map[uint64]*dto.BairroDTO{
		5: {ID: 5, Nome: "Centro", Cidade: dto.CidadeDTO{ID: 1, Nome: "Boa Vista", UF: "RR"}},
	}}
	auth := &stubAuthService{senha: "senha-ok"}
	return NewOcorrenciaService(repo, classRepo, bairroRepo, osRepo, auth, zap.NewNop())
}

func TestOcorrenciaCreate_ClassificacaoDeOutroServico(t *testing.T) {
	svc := newTestOcorrenciaService(newFakeOcorrenciaRepo(), &fakeOSRepo{})

	lat, lon := 2.82, -60.67
	_, err := svc.Create(context.Background(), dto.CreateOcorrenciaDTO{
		ClassificacaoID:   20,
		ServicoPericialID: 2,
		OcorrenciaExterna: true,
		Latitude:          &lat,
		Longitude:         &lon,
	}, 1)

	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 422, httpErr.Code)
}

func TestOcorrenciaCreate_ExternaSemCoordenadas(t *testing.T) {
	svc := newTestOcorrenciaService(newFakeOcorrenciaRepo(), &fakeOSRepo{})

	_, err := svc.Create(context.Background(), dto.CreateOcorrenciaDTO{
		ClassificacaoID:   10,
		ServicoPericialID: 2,
		OcorrenciaExterna: true,
	}, 1)

	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 422, httpErr.Code)
}

func TestOcorrenciaCreate_ConvencionalBairroDeOutraCidade(t *testing.T) {
	svc := newTestOcorrenciaService(newFakeOcorrenciaRepo(), &fakeOSRepo{})

	cidade, bairro := uint64(9), uint64(5)
	_, err := svc.Create(context.Background(), dto.CreateOcorrenciaDTO{
		ClassificacaoID:   10,
		ServicoPericialID: 2,
		CidadeID:          &cidade,
		BairroID:          &bairro,
		Endereco:          "Rua Principal, 100",
	}, 1)

	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 422, httpErr.Code)
}

func TestOcorrenciaFinalizar(t *testing.T) {
	repo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaEmAnalise))
	svc := newTestOcorrenciaService(repo, &fakeOSRepo{})

	err := svc.Finalizar(context.Background(), 1, 7, dto.FinalizarOcorrenciaDTO{Senha: "senha-ok"})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, repo.finalizadas)
}

func TestOcorrenciaFinalizar_SenhaErrada(t *testing.T) {
	repo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaEmAnalise))
	svc := newTestOcorrenciaService(repo, &fakeOSRepo{})

	err := svc.Finalizar(context.Background(), 1, 7, dto.FinalizarOcorrenciaDTO{Senha: "errada"})
	require.Error(t, err)
	assert.Empty(t, repo.finalizadas)
}

func TestOcorrenciaFinalizar_StatusErrado(t *testing.T) {
	repo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaAguardandoPerito))
	svc := newTestOcorrenciaService(repo, &fakeOSRepo{})

	err := svc.Finalizar(context.Background(), 1, 7, dto.FinalizarOcorrenciaDTO{Senha: "senha-ok"})
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 409, httpErr.Code)
}

func TestOcorrenciaFinalizar_ComOSAberta(t *testing.T) {
	repo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaEmAnalise))
	svc := newTestOcorrenciaService(repo, &fakeOSRepo{aberta: true})

	err := svc.Finalizar(context.Background(), 1, 7, dto.FinalizarOcorrenciaDTO{Senha: "senha-ok"})
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 409, httpErr.Code)
	assert.Empty(t, repo.finalizadas)
}

func TestOcorrenciaReabrir(t *testing.T) {
	repo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaFinalizada))
	svc := newTestOcorrenciaService(repo, &fakeOSRepo{})

	err := svc.Reabrir(context.Background(), 1, 7, dto.ReabrirOcorrenciaDTO{
		Senha: "senha-ok", Motivo: "Novo vestígio localizado no local",
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, repo.reabertas)
	assert.Equal(t, "Novo vestígio localizado no local", repo.ultimoMotivo)
}

func TestOcorrenciaReabrir_SoFinalizada(t *testing.T) {
	repo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaEmAnalise))
	svc := newTestOcorrenciaService(repo, &fakeOSRepo{})

	err := svc.Reabrir(context.Background(), 1, 7, dto.ReabrirOcorrenciaDTO{
		Senha: "senha-ok", Motivo: "Motivo qualquer válido",
	})
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 409, httpErr.Code)
}

func TestOcorrenciaSoftDelete_BloqueiaComOSAberta(t *testing.T) {
	repo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaEmAnalise))
	svc := newTestOcorrenciaService(repo, &fakeOSRepo{aberta: true})

	err := svc.SoftDelete(context.Background(), 1)
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 409, httpErr.Code)
}
