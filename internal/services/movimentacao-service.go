package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/entities"
	"sistema-pericial/internal/repositories"
	apperrors "sistema-pericial/pkg/errors"
	"sistema-pericial/pkg/pdf"
)

type MovimentacaoServiceInterface interface {
	ListByOcorrencia(ctx context.Context, ocorrenciaID uint64) ([]dto.MovimentacaoDTO, error)
	Create(ctx context.Context, ocorrenciaID uint64, payload dto.CreateMovimentacaoDTO, autorID uint64) (*dto.MovimentacaoDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateMovimentacaoDTO, autorID uint64) (*dto.MovimentacaoDTO, error)
	SoftDelete(ctx context.Context, id uint64, autorID uint64, superAdmin bool) error
	PDF(ctx context.Context, ocorrenciaID uint64) ([]byte, string, error)
}

type MovimentacaoService struct {
	repo           repositories.MovimentacaoRepositoryInterface
	ocorrenciaRepo repositories.OcorrenciaRepositoryInterface
	authService    AuthServiceInterface
	logger         *zap.Logger
}

func NewMovimentacaoService(
	repo repositories.MovimentacaoRepositoryInterface,
	ocorrenciaRepo repositories.OcorrenciaRepositoryInterface,
	authService AuthServiceInterface,
	logger *zap.Logger,
) MovimentacaoServiceInterface {
	return &MovimentacaoService{
		repo:           repo,
		ocorrenciaRepo: ocorrenciaRepo,
		authService:    authService,
		logger:         logger,
	}
}

func (s *MovimentacaoService) ListByOcorrencia(ctx context.Context, ocorrenciaID uint64) ([]dto.MovimentacaoDTO, error) {
	if _, err := s.ocorrenciaRepo.Find(ctx, ocorrenciaID); err != nil {
		return nil, err
	}
	return s.repo.ListByOcorrencia(ctx, ocorrenciaID)
}

// Create grava a movimentação após revalidar a assinatura (e-mail e senha
// do autor autenticado).
func (s *MovimentacaoService) Create(ctx context.Context, ocorrenciaID uint64, payload dto.CreateMovimentacaoDTO, autorID uint64) (*dto.MovimentacaoDTO, error) {
	if err := s.authService.ValidarAssinatura(ctx, autorID, payload.Assinatura); err != nil {
		return nil, err
	}

	ocorrencia, err := s.ocorrenciaRepo.Find(ctx, ocorrenciaID)
	if err != nil {
		return nil, err
	}
	if ocorrencia.Status == entities.OcorrenciaFinalizada {
		return nil, apperrors.NewHttpError(409, "Ocorrência finalizada não recebe movimentação", apperrors.ErrConflict, nil)
	}

	return s.repo.Create(ctx, ocorrenciaID, payload, autorID)
}

// Update permite edição apenas pelo autor original, com nova assinatura.
func (s *MovimentacaoService) Update(ctx context.Context, id uint64, payload dto.UpdateMovimentacaoDTO, autorID uint64) (*dto.MovimentacaoDTO, error) {
	if err := s.authService.ValidarAssinatura(ctx, autorID, payload.Assinatura); err != nil {
		return nil, err
	}

	movimentacao, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if movimentacao.CriadaPor.ID != autorID {
		return nil, apperrors.ErrForbidden
	}

	return s.repo.Update(ctx, id, payload, autorID)
}

// SoftDelete é exclusivo do super admin; nem o autor remove a própria
// movimentação. A linha fica na base com deleted_by.
func (s *MovimentacaoService) SoftDelete(ctx context.Context, id uint64, autorID uint64, superAdmin bool) error {
	if !superAdmin {
		return apperrors.ErrForbidden
	}
	if _, err := s.repo.Find(ctx, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id, autorID)
}

// PDF emite a linha do tempo de movimentações da ocorrência para anexar
// aos autos.
func (s *MovimentacaoService) PDF(ctx context.Context, ocorrenciaID uint64) ([]byte, string, error) {
	ocorrencia, err := s.ocorrenciaRepo.Find(ctx, ocorrenciaID)
	if err != nil {
		return nil, "", err
	}
	movimentacoes, err := s.repo.ListByOcorrencia(ctx, ocorrenciaID)
	if err != nil {
		return nil, "", err
	}

	doc := pdf.NewDocument("MOVIMENTAÇÕES DA OCORRÊNCIA " + ocorrencia.Numero)
	doc.Section("Identificação")
	doc.Field("Ocorrência", ocorrencia.Numero)
	doc.Field("Classificação", ocorrencia.Classificacao.Nome)
	doc.Field("Serviço Pericial", ocorrencia.ServicoPericial.Nome)
	doc.Field("Situação", ocorrencia.Status)
	doc.Spacer()

	for _, m := range movimentacoes {
		doc.Section(m.Assunto)
		doc.Field("Registrada por", m.CriadaPor.NomeCompleto)
		doc.Field("Em", m.CreatedAt)
		doc.Paragraph(m.Descricao)
		doc.Spacer()
	}
	if len(movimentacoes) == 0 {
		doc.Paragraph("Nenhuma movimentação registrada até o momento.")
	}

	conteudo, err := doc.Output()
	if err != nil {
		return nil, "", err
	}
	return conteudo, fmt.Sprintf("movimentacoes-ocorrencia-%d.pdf", ocorrenciaID), nil
}
