package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/entities"
	"sistema-pericial/internal/repositories"
	"sistema-pericial/pkg/config"
	apperrors "sistema-pericial/pkg/errors"
	"sistema-pericial/pkg/pdf"
	"sistema-pericial/pkg/utils"
)

const chatSessionKeyPrefix = "laudo_chat:"

type LaudoServiceInterface interface {
	IniciarChat(ctx context.Context, payload dto.IniciarChatDTO, usuarioID uint64) (*dto.ChatSessaoDTO, error)
	EnviarMensagem(ctx context.Context, payload dto.EnviarMensagemDTO, usuarioID uint64) (*dto.ChatSessaoDTO, error)
	GerarLaudo(ctx context.Context, payload dto.GerarLaudoDTO, usuarioID uint64) (*dto.LaudoDTO, error)
	Find(ctx context.Context, id uint64) (*dto.LaudoDTO, error)
	ListByOcorrencia(ctx context.Context, ocorrenciaID uint64) ([]dto.LaudoDTO, error)
	LaudoPDF(ctx context.Context, id uint64) ([]byte, string, error)
}

type LaudoService struct {
	repo           repositories.LaudoRepositoryInterface
	ocorrenciaRepo repositories.OcorrenciaRepositoryInterface
	cacheRepo      repositories.CacheRepositoryInterface
	provider       ChatProvider
	authConfig     config.AuthConfig
	logger         *zap.Logger
}

func NewLaudoService(
	repo repositories.LaudoRepositoryInterface,
	ocorrenciaRepo repositories.OcorrenciaRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	provider ChatProvider,
	authConfig config.AuthConfig,
	logger *zap.Logger,
) LaudoServiceInterface {
	return &LaudoService{
		repo:           repo,
		ocorrenciaRepo: ocorrenciaRepo,
		cacheRepo:      cacheRepo,
		provider:       provider,
		authConfig:     authConfig,
		logger:         logger,
	}
}

func (s *LaudoService) sessaoKey(sessaoID string) string {
	return chatSessionKeyPrefix + sessaoID
}

func (s *LaudoService) salvarSessao(ctx context.Context, sessao *entities.ChatSessao) error {
	encoded, err := json.Marshal(sessao)
	if err != nil {
		return err
	}
	return s.cacheRepo.Set(ctx, s.sessaoKey(sessao.SessaoID), string(encoded), s.authConfig.ChatSessionTTL)
}

func (s *LaudoService) carregarSessao(ctx context.Context, sessaoID string, usuarioID uint64) (*entities.ChatSessao, error) {
	raw, err := s.cacheRepo.Get(ctx, s.sessaoKey(sessaoID))
	if err != nil {
		return nil, apperrors.NewHttpError(404, "Sessão de chat não encontrada ou expirada", apperrors.ErrNotFound, nil)
	}
	var sessao entities.ChatSessao
	if err := json.Unmarshal([]byte(raw), &sessao); err != nil {
		return nil, err
	}
	// A sessão é pessoal: ninguém continua o chat de outro perito.
	if sessao.UsuarioID != usuarioID {
		return nil, apperrors.ErrForbidden
	}
	return &sessao, nil
}

func sessaoToDTO(sessao *entities.ChatSessao) *dto.ChatSessaoDTO {
	mensagens := make([]dto.ChatMensagemDTO, 0, len(sessao.Mensagens))
	for _, m := range sessao.Mensagens {
		if m.Role == entities.ChatRoleSistema {
			continue
		}
		mensagens = append(mensagens, dto.ChatMensagemDTO{
			Role:     m.Role,
			Conteudo: m.Conteudo,
			Em:       m.Em.Local().Format(utils.TimeLayout),
		})
	}
	return &dto.ChatSessaoDTO{
		SessaoID:     sessao.SessaoID,
		OcorrenciaID: sessao.OcorrenciaID,
		Mensagens:    mensagens,
	}
}

// IniciarChat abre a sessão com o contexto da ocorrência embutido na
// mensagem de sistema.
func (s *LaudoService) IniciarChat(ctx context.Context, payload dto.IniciarChatDTO, usuarioID uint64) (*dto.ChatSessaoDTO, error) {
	ocorrencia, err := s.ocorrenciaRepo.Find(ctx, payload.OcorrenciaID)
	if err != nil {
		return nil, err
	}

	contexto := fmt.Sprintf(
		"Você auxilia um perito criminal na redação de um laudo pericial. "+
			"Ocorrência %s, classificação %s, serviço %s, status %s. Histórico: %s",
		ocorrencia.Numero, ocorrencia.Classificacao.Nome,
		ocorrencia.ServicoPericial.Nome, ocorrencia.Status, ocorrencia.Historico)

	sessao := &entities.ChatSessao{
		SessaoID:     uuid.NewString(),
		OcorrenciaID: payload.OcorrenciaID,
		UsuarioID:    usuarioID,
		Mensagens: []entities.ChatMensagem{
			{Role: entities.ChatRoleSistema, Conteudo: contexto, Em: time.Now()},
		},
	}
	if err := s.salvarSessao(ctx, sessao); err != nil {
		return nil, err
	}
	return sessaoToDTO(sessao), nil
}

func (s *LaudoService) EnviarMensagem(ctx context.Context, payload dto.EnviarMensagemDTO, usuarioID uint64) (*dto.ChatSessaoDTO, error) {
	sessao, err := s.carregarSessao(ctx, payload.SessaoID, usuarioID)
	if err != nil {
		return nil, err
	}

	sessao.Mensagens = append(sessao.Mensagens, entities.ChatMensagem{
		Role:     entities.ChatRoleUsuario,
		Conteudo: payload.Conteudo,
		Em:       time.Now(),
	})

	resposta, err := s.provider.Responder(ctx, sessao.Mensagens)
	if err != nil {
		s.logger.Error("falha do provedor de IA", zap.Error(err))
		return nil, err
	}

	sessao.Mensagens = append(sessao.Mensagens, entities.ChatMensagem{
		Role:     entities.ChatRoleIA,
		Conteudo: resposta,
		Em:       time.Now(),
	})

	if err := s.salvarSessao(ctx, sessao); err != nil {
		return nil, err
	}
	return sessaoToDTO(sessao), nil
}

// GerarLaudo persiste a última resposta da IA como conteúdo do laudo e
// encerra a sessão.
func (s *LaudoService) GerarLaudo(ctx context.Context, payload dto.GerarLaudoDTO, usuarioID uint64) (*dto.LaudoDTO, error) {
	sessao, err := s.carregarSessao(ctx, payload.SessaoID, usuarioID)
	if err != nil {
		return nil, err
	}

	var conteudo string
	for i := len(sessao.Mensagens) - 1; i >= 0; i-- {
		if sessao.Mensagens[i].Role == entities.ChatRoleIA {
			conteudo = sessao.Mensagens[i].Conteudo
			break
		}
	}
	if conteudo == "" {
		return nil, apperrors.NewHttpError(409, "A sessão ainda não tem rascunho de laudo", apperrors.ErrConflict, nil)
	}

	laudo, err := s.repo.Create(ctx, sessao.OcorrenciaID, sessao.SessaoID, conteudo, usuarioID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheRepo.Del(ctx, s.sessaoKey(sessao.SessaoID)); err != nil {
		s.logger.Warn("não foi possível encerrar a sessão de chat", zap.Error(err))
	}
	s.logger.Info("laudo gerado", zap.Uint64("laudo_id", laudo.ID), zap.Uint64("ocorrencia_id", sessao.OcorrenciaID))
	return laudo, nil
}

func (s *LaudoService) Find(ctx context.Context, id uint64) (*dto.LaudoDTO, error) {
	return s.repo.Find(ctx, id)
}

func (s *LaudoService) ListByOcorrencia(ctx context.Context, ocorrenciaID uint64) ([]dto.LaudoDTO, error) {
	if _, err := s.ocorrenciaRepo.Find(ctx, ocorrenciaID); err != nil {
		return nil, err
	}
	return s.repo.ListByOcorrencia(ctx, ocorrenciaID)
}

// LaudoPDF renderiza o laudo no papel timbrado institucional.
func (s *LaudoService) LaudoPDF(ctx context.Context, id uint64) ([]byte, string, error) {
	laudo, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, "", err
	}
	ocorrencia, err := s.ocorrenciaRepo.Find(ctx, laudo.OcorrenciaID)
	if err != nil {
		return nil, "", err
	}

	doc := pdf.NewDocument("LAUDO PERICIAL")
	doc.Section("Identificação")
	doc.Field("Ocorrência", ocorrencia.Numero)
	doc.Field("Classificação", ocorrencia.Classificacao.Nome)
	doc.Field("Serviço Pericial", ocorrencia.ServicoPericial.Nome)
	doc.Field("Perito", laudo.GeradoPor.NomeCompleto)
	doc.Field("Data de emissão", laudo.CreatedAt)
	doc.Spacer()
	doc.Section("Conteúdo")
	doc.Paragraph(laudo.Conteudo)

	conteudo, err := doc.Output()
	if err != nil {
		return nil, "", err
	}
	nome := fmt.Sprintf("laudo-%d.pdf", laudo.ID)
	return conteudo, nome, nil
}
