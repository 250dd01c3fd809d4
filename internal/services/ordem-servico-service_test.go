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
)

// fakeOSRepoComFind estende o fake básico com ordens consultáveis.
type fakeOSRepoComFind struct {
	fakeOSRepo
	ordens         map[uint64]*dto.OrdemServicoDTO
	justificativas map[uint64]string
	criadas        []repositories.CreateOrdemServicoParams
	ciencias       []uint64
	concluidas     []uint64
	falhasNumero   int
}

func (f *fakeOSRepoComFind) Find(_ context.Context, id uint64) (*dto.OrdemServicoDTO, error) {
	o, ok := f.ordens[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return o, nil
}

func (f *fakeOSRepoComFind) Create(_ context.Context, params repositories.CreateOrdemServicoParams) (uint64, error) {
	f.criadas = append(f.criadas, params)
	if f.falhasNumero > 0 {
		f.falhasNumero--
		return 0, apperrors.NewHttpError(409, "Já existe ordem de serviço com este número", apperrors.ErrConflict, nil)
	}
	f.ordens[100] = &dto.OrdemServicoDTO{ID: 100, Numero: params.Numero, OcorrenciaID: params.OcorrenciaID}
	return 100, nil
}

func (f *fakeOSRepoComFind) RegistrarCiencia(_ context.Context, id uint64, _ uint64) error {
	f.ciencias = append(f.ciencias, id)
	return nil
}

func (f *fakeOSRepoComFind) Concluir(_ context.Context, id uint64, _ uint64) error {
	f.concluidas = append(f.concluidas, id)
	return nil
}

func (f *fakeOSRepoComFind) JustificarAtraso(_ context.Context, id uint64, _ uint64, justificativa string) error {
	f.justificativas[id] = justificativa
	return nil
}

func peritoDeTeste(id uint64, servicos ...uint64) *entities.Usuario {
	return &entities.Usuario{
		ID:                id,
		NomeCompleto:      "Perito Designado",
		Email:             "designado@teste.gov.br",
		Perfil:            entities.PerfilPerito,
		Status:            entities.UsuarioStatusAtivo,
		ServicosPericiais: servicos,
	}
}

func newTestOrdemServicoService(osRepo *fakeOSRepoComFind, ocorrenciaRepo *fakeOcorrenciaRepo, usuarios ...*entities.Usuario) OrdemServicoServiceInterface {
	auth := &stubAuthService{senha: "senha-ok"}
	return NewOrdemServicoService(osRepo, ocorrenciaRepo, newFakeUsuarioRepo(usuarios...), auth, zap.NewNop())
}

func newFakeOSRepoComFind(ordens ...*dto.OrdemServicoDTO) *fakeOSRepoComFind {
	repo := &fakeOSRepoComFind{
		ordens:         make(map[uint64]*dto.OrdemServicoDTO),
		justificativas: make(map[uint64]string),
	}
	for _, o := range ordens {
		repo.ordens[o.ID] = o
	}
	return repo
}

func TestOrdemServicoCreate_Sucesso(t *testing.T) {
	osRepo := newFakeOSRepoComFind()
	ocorrenciaRepo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaEmAnalise))
	svc := newTestOrdemServicoService(osRepo, ocorrenciaRepo, peritoDeTeste(7, 2))

	ordem, err := svc.Create(context.Background(), dto.CreateOrdemServicoDTO{
		OcorrenciaID: 1, PeritoID: 7, PrazoDias: 10, Senha: "senha-ok",
	}, 3)

	require.NoError(t, err)
	require.Len(t, osRepo.criadas, 1)
	assert.Equal(t, "OS-00001/", ordem.Numero[:9])
	assert.Equal(t, uint64(7), osRepo.criadas[0].PeritoID)
}

func TestOrdemServicoCreate_SenhaErrada(t *testing.T) {
	osRepo := newFakeOSRepoComFind()
	ocorrenciaRepo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaEmAnalise))
	svc := newTestOrdemServicoService(osRepo, ocorrenciaRepo, peritoDeTeste(7, 2))

	_, err := svc.Create(context.Background(), dto.CreateOrdemServicoDTO{
		OcorrenciaID: 1, PeritoID: 7, PrazoDias: 10, Senha: "errada",
	}, 3)

	require.Error(t, err)
	assert.Empty(t, osRepo.criadas)
}

func TestOrdemServicoCreate_OcorrenciaFinalizada(t *testing.T) {
	osRepo := newFakeOSRepoComFind()
	ocorrenciaRepo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaFinalizada))
	svc := newTestOrdemServicoService(osRepo, ocorrenciaRepo, peritoDeTeste(7, 2))

	_, err := svc.Create(context.Background(), dto.CreateOrdemServicoDTO{
		OcorrenciaID: 1, PeritoID: 7, PrazoDias: 10, Senha: "senha-ok",
	}, 3)

	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 409, httpErr.Code)
}

func TestOrdemServicoCreate_PeritoForaDoServico(t *testing.T) {
	osRepo := newFakeOSRepoComFind()
	ocorrenciaRepo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaEmAnalise))
	// O perito atende o serviço 3, a ocorrência é do serviço 2.
	svc := newTestOrdemServicoService(osRepo, ocorrenciaRepo, peritoDeTeste(7, 3))

	_, err := svc.Create(context.Background(), dto.CreateOrdemServicoDTO{
		OcorrenciaID: 1, PeritoID: 7, PrazoDias: 10, Senha: "senha-ok",
	}, 3)

	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 422, httpErr.Code)
}

func TestOrdemServicoCreate_DesignadoNaoEPerito(t *testing.T) {
	osRepo := newFakeOSRepoComFind()
	ocorrenciaRepo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaEmAnalise))
	administrativo := peritoDeTeste(7, 2)
	administrativo.Perfil = entities.PerfilAdministrativo
	svc := newTestOrdemServicoService(osRepo, ocorrenciaRepo, administrativo)

	_, err := svc.Create(context.Background(), dto.CreateOrdemServicoDTO{
		OcorrenciaID: 1, PeritoID: 7, PrazoDias: 10, Senha: "senha-ok",
	}, 3)

	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 422, httpErr.Code)
}

func TestOrdemServicoCreate_NumeroEmDisputa(t *testing.T) {
	// Emissão concorrente: a primeira tentativa colide na constraint de
	// unicidade do número e a numeração é recalculada.
	osRepo := newFakeOSRepoComFind()
	osRepo.falhasNumero = 1
	ocorrenciaRepo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaEmAnalise))
	svc := newTestOrdemServicoService(osRepo, ocorrenciaRepo, peritoDeTeste(7, 2))

	ordem, err := svc.Create(context.Background(), dto.CreateOrdemServicoDTO{
		OcorrenciaID: 1, PeritoID: 7, PrazoDias: 10, Senha: "senha-ok",
	}, 3)

	require.NoError(t, err)
	assert.Len(t, osRepo.criadas, 2)
	assert.NotEmpty(t, ordem.Numero)
}

func TestRegistrarCiencia_ExigeSenha(t *testing.T) {
	osRepo := newFakeOSRepoComFind()
	svc := newTestOrdemServicoService(osRepo, newFakeOcorrenciaRepo())

	err := svc.RegistrarCiencia(context.Background(), 1, 7, dto.TransicaoOrdemServicoDTO{Senha: "errada"})
	require.Error(t, err)
	assert.Empty(t, osRepo.ciencias)

	err = svc.RegistrarCiencia(context.Background(), 1, 7, dto.TransicaoOrdemServicoDTO{Senha: "senha-ok"})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, osRepo.ciencias)
}

func TestConcluir_ExigeSenha(t *testing.T) {
	osRepo := newFakeOSRepoComFind()
	svc := newTestOrdemServicoService(osRepo, newFakeOcorrenciaRepo())

	err := svc.Concluir(context.Background(), 1, 7, dto.TransicaoOrdemServicoDTO{Senha: "errada"})
	require.Error(t, err)
	assert.Empty(t, osRepo.concluidas)

	err = svc.Concluir(context.Background(), 1, 7, dto.TransicaoOrdemServicoDTO{Senha: "senha-ok"})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, osRepo.concluidas)
}

func TestIniciar_MoveOcorrenciaParaAnalise(t *testing.T) {
	osRepo := newFakeOSRepoComFind(&dto.OrdemServicoDTO{ID: 1, OcorrenciaID: 1, Status: entities.OSAberta})
	ocorrenciaRepo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaAguardandoPerito))
	svc := newTestOrdemServicoService(osRepo, ocorrenciaRepo, peritoDeTeste(7, 2))

	err := svc.Iniciar(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, entities.OcorrenciaEmAnalise, ocorrenciaRepo.statusSet[1])
}

func TestIniciar_OcorrenciaJaEmAnalise(t *testing.T) {
	osRepo := newFakeOSRepoComFind(&dto.OrdemServicoDTO{ID: 1, OcorrenciaID: 1, Status: entities.OSAberta})
	ocorrenciaRepo := newFakeOcorrenciaRepo(ocorrenciaDeTeste(1, entities.OcorrenciaEmAnalise))
	svc := newTestOrdemServicoService(osRepo, ocorrenciaRepo, peritoDeTeste(7, 2))

	err := svc.Iniciar(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Empty(t, ocorrenciaRepo.statusSet)
}

func TestJustificarAtraso_SoComPrazoEstourado(t *testing.T) {
	emDia := 5
	atrasada := -2

	osRepo := newFakeOSRepoComFind(
		&dto.OrdemServicoDTO{ID: 1, Status: entities.OSEmAndamento, DiasRestantes: &emDia},
		&dto.OrdemServicoDTO{ID: 2, Status: entities.OSEmAndamento, DiasRestantes: &atrasada},
	)
	ocorrenciaRepo := newFakeOcorrenciaRepo()
	svc := newTestOrdemServicoService(osRepo, ocorrenciaRepo)

	err := svc.JustificarAtraso(context.Background(), 1, 7, dto.JustificarAtrasoDTO{
		Justificativa: "Aguardando resultado de exame complementar",
	})
	require.Error(t, err)
	httpErr, ok := err.(*apperrors.HttpError)
	require.True(t, ok)
	assert.Equal(t, 409, httpErr.Code)

	err = svc.JustificarAtraso(context.Background(), 2, 7, dto.JustificarAtrasoDTO{
		Justificativa: "Aguardando resultado de exame complementar",
	})
	require.NoError(t, err)
	assert.Equal(t, "Aguardando resultado de exame complementar", osRepo.justificativas[2])
}
