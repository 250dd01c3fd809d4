package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/entities"
	"sistema-pericial/internal/repositories"
	apperrors "sistema-pericial/pkg/errors"
	"sistema-pericial/pkg/pdf"
	"sistema-pericial/pkg/utils"
)

type OrdemServicoServiceInterface interface {
	List(ctx context.Context, params utils.QueryParams) ([]dto.OrdemServicoDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.OrdemServicoDTO, error)
	ListByOcorrencia(ctx context.Context, ocorrenciaID uint64) ([]dto.OrdemServicoDTO, error)
	PendentesCiencia(ctx context.Context, peritoID uint64) (*dto.PendentesCienciaDTO, error)
	Create(ctx context.Context, payload dto.CreateOrdemServicoDTO, emissorID uint64) (*dto.OrdemServicoDTO, error)
	RegistrarCiencia(ctx context.Context, id uint64, peritoID uint64, payload dto.TransicaoOrdemServicoDTO) error
	Iniciar(ctx context.Context, id uint64, peritoID uint64) error
	Concluir(ctx context.Context, id uint64, peritoID uint64, payload dto.TransicaoOrdemServicoDTO) error
	JustificarAtraso(ctx context.Context, id uint64, peritoID uint64, payload dto.JustificarAtrasoDTO) error
	PDF(ctx context.Context, id uint64) ([]byte, string, error)
}

type OrdemServicoService struct {
	repo           repositories.OrdemServicoRepositoryInterface
	ocorrenciaRepo repositories.OcorrenciaRepositoryInterface
	usuarioRepo    repositories.UsuarioRepositoryInterface
	authService    AuthServiceInterface
	logger         *zap.Logger
}

func NewOrdemServicoService(
	repo repositories.OrdemServicoRepositoryInterface,
	ocorrenciaRepo repositories.OcorrenciaRepositoryInterface,
	usuarioRepo repositories.UsuarioRepositoryInterface,
	authService AuthServiceInterface,
	logger *zap.Logger,
) OrdemServicoServiceInterface {
	return &OrdemServicoService{
		repo:           repo,
		ocorrenciaRepo: ocorrenciaRepo,
		usuarioRepo:    usuarioRepo,
		authService:    authService,
		logger:         logger,
	}
}

func (s *OrdemServicoService) List(ctx context.Context, params utils.QueryParams) ([]dto.OrdemServicoDTO, uint64, error) {
	return s.repo.List(ctx, params)
}

func (s *OrdemServicoService) Find(ctx context.Context, id uint64) (*dto.OrdemServicoDTO, error) {
	return s.repo.Find(ctx, id)
}

func (s *OrdemServicoService) ListByOcorrencia(ctx context.Context, ocorrenciaID uint64) ([]dto.OrdemServicoDTO, error) {
	return s.repo.ListByOcorrencia(ctx, ocorrenciaID)
}

// PendentesCiencia substitui o antigo aviso por polling: o front consulta
// uma vez após o login e exibe o banner com as OS aguardando ciência.
func (s *OrdemServicoService) PendentesCiencia(ctx context.Context, peritoID uint64) (*dto.PendentesCienciaDTO, error) {
	ordens, err := s.repo.PendentesCiencia(ctx, peritoID)
	if err != nil {
		return nil, err
	}
	return &dto.PendentesCienciaDTO{Total: uint64(len(ordens)), Ordens: ordens}, nil
}

// Create emite a OS com confirmação de senha do emissor. O perito precisa
// ser um PERITO ativo com escopo no serviço pericial da ocorrência.
func (s *OrdemServicoService) Create(ctx context.Context, payload dto.CreateOrdemServicoDTO, emissorID uint64) (*dto.OrdemServicoDTO, error) {
	if err := s.authService.ConfirmarSenha(ctx, emissorID, payload.Senha); err != nil {
		return nil, err
	}

	ocorrencia, err := s.ocorrenciaRepo.Find(ctx, payload.OcorrenciaID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return nil, apperrors.NewHttpError(422, "Ocorrência informada não existe", apperrors.ErrNotFound, nil)
		}
		return nil, err
	}
	if ocorrencia.Status == entities.OcorrenciaFinalizada {
		return nil, apperrors.NewHttpError(409, "Ocorrência finalizada não recebe nova ordem de serviço", apperrors.ErrConflict, nil)
	}

	perito, err := s.usuarioRepo.Find(ctx, payload.PeritoID)
	if err != nil {
		if err == apperrors.ErrUserNotFound {
			return nil, apperrors.NewHttpError(422, "Perito informado não existe", apperrors.ErrNotFound, nil)
		}
		return nil, err
	}
	if perito.Perfil != entities.PerfilPerito || !perito.Ativo() {
		return nil, apperrors.NewHttpError(422, "O designado precisa ser um perito ativo", apperrors.ErrBadRequest, nil)
	}
	if !contemServico(perito.ServicosPericiais, ocorrencia.ServicoPericial.ID) {
		return nil, apperrors.NewHttpError(422, "Perito não atende o serviço pericial da ocorrência", apperrors.ErrBadRequest, nil)
	}

	ano := time.Now().Year()

	// Emissões concorrentes podem disputar o mesmo sequencial; a constraint
	// de unicidade detecta e a numeração é recalculada.
	var id uint64
	var numero string
	for tentativa := 0; ; tentativa++ {
		sequencial, err := s.repo.ProximoNumero(ctx, ano)
		if err != nil {
			return nil, err
		}
		numero = fmt.Sprintf("OS-%05d/%d", sequencial, ano)

		id, err = s.repo.Create(ctx, repositories.CreateOrdemServicoParams{
			Numero:              numero,
			OcorrenciaID:        payload.OcorrenciaID,
			PeritoID:            payload.PeritoID,
			PrazoDias:           payload.PrazoDias,
			UnidadeDemandanteID: payload.UnidadeDemandanteID,
			AutoridadeID:        payload.AutoridadeID,
			CreatedBy:           emissorID,
		})
		if err != nil {
			if errors.Is(err, apperrors.ErrConflict) && tentativa < 2 {
				continue
			}
			return nil, err
		}
		break
	}
	s.logger.Info("ordem de serviço emitida",
		zap.Uint64("id", id), zap.String("numero", numero), zap.Uint64("perito_id", payload.PeritoID))
	return s.repo.Find(ctx, id)
}

func contemServico(servicos []uint64, servicoID uint64) bool {
	for _, id := range servicos {
		if id == servicoID {
			return true
		}
	}
	return false
}

// RegistrarCiencia é assinado: o perito confirma a senha antes de o prazo
// começar a contar.
func (s *OrdemServicoService) RegistrarCiencia(ctx context.Context, id uint64, peritoID uint64, payload dto.TransicaoOrdemServicoDTO) error {
	if err := s.authService.ConfirmarSenha(ctx, peritoID, payload.Senha); err != nil {
		return err
	}
	return s.repo.RegistrarCiencia(ctx, id, peritoID)
}

// Iniciar abre o atendimento e puxa a ocorrência que ainda estava
// aguardando perito para EM_ANALISE.
func (s *OrdemServicoService) Iniciar(ctx context.Context, id uint64, peritoID uint64) error {
	ordem, err := s.repo.Find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Iniciar(ctx, id, peritoID); err != nil {
		return err
	}

	ocorrencia, err := s.ocorrenciaRepo.Find(ctx, ordem.OcorrenciaID)
	if err != nil {
		return err
	}
	if ocorrencia.Status == entities.OcorrenciaAguardandoPerito {
		return s.ocorrenciaRepo.UpdateStatus(ctx, ocorrencia.ID, entities.OcorrenciaEmAnalise)
	}
	return nil
}

func (s *OrdemServicoService) Concluir(ctx context.Context, id uint64, peritoID uint64, payload dto.TransicaoOrdemServicoDTO) error {
	if err := s.authService.ConfirmarSenha(ctx, peritoID, payload.Senha); err != nil {
		return err
	}
	return s.repo.Concluir(ctx, id, peritoID)
}

// JustificarAtraso só faz sentido com o prazo estourado.
func (s *OrdemServicoService) JustificarAtraso(ctx context.Context, id uint64, peritoID uint64, payload dto.JustificarAtrasoDTO) error {
	ordem, err := s.repo.Find(ctx, id)
	if err != nil {
		return err
	}
	if ordem.DiasRestantes == nil || *ordem.DiasRestantes >= 0 {
		return apperrors.NewHttpError(409, "A ordem de serviço não está atrasada", apperrors.ErrConflict, nil)
	}
	return s.repo.JustificarAtraso(ctx, id, peritoID, payload.Justificativa)
}

// PDF emite o documento da OS para impressão e assinatura.
func (s *OrdemServicoService) PDF(ctx context.Context, id uint64) ([]byte, string, error) {
	ordem, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, "", err
	}
	ocorrencia, err := s.ocorrenciaRepo.Find(ctx, ordem.OcorrenciaID)
	if err != nil {
		return nil, "", err
	}

	doc := pdf.NewDocument("ORDEM DE SERVIÇO " + ordem.Numero)
	doc.Section("Dados da Ocorrência")
	doc.Field("Nº da Ocorrência", ocorrencia.Numero)
	doc.Field("Classificação", ocorrencia.Classificacao.Nome)
	doc.Field("Serviço Pericial", ocorrencia.ServicoPericial.Nome)
	doc.Spacer()
	doc.Section("Designação")
	doc.Field("Perito designado", ordem.Perito.NomeCompleto)
	if ordem.UnidadeDemandante != nil {
		doc.Field("Unidade demandante", ordem.UnidadeDemandante.Nome)
	}
	if ordem.Autoridade != nil {
		doc.Field("Autoridade", ordem.Autoridade.Nome)
	}
	doc.Field("Prazo", fmt.Sprintf("%d dias", ordem.PrazoDias))
	doc.Field("Emitida em", ordem.EmitidaEm)
	doc.Field("Situação", ordem.Status)
	doc.Spacer()
	doc.Paragraph("O perito designado deve registrar ciência no sistema; o prazo conta a partir da data da ciência.")

	conteudo, err := doc.Output()
	if err != nil {
		return nil, "", err
	}
	return conteudo, fmt.Sprintf("ordem-servico-%d.pdf", ordem.ID), nil
}
