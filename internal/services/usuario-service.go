package services

import (
	"context"

	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/entities"
	"sistema-pericial/internal/repositories"
	apperrors "sistema-pericial/pkg/errors"
	"sistema-pericial/pkg/utils"
)

type UsuarioServiceInterface interface {
	List(ctx context.Context, limit, offset uint64, search, status string) ([]dto.UsuarioDTO, uint64, error)
	ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.UsuarioDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.UsuarioDTO, error)
	DropdownPeritos(ctx context.Context, servicoID uint64) ([]dto.DropdownItemDTO, error)
	Aprovar(ctx context.Context, id uint64, payload dto.AprovarUsuarioDTO) error
	Rejeitar(ctx context.Context, id uint64) error
	Update(ctx context.Context, id uint64, payload dto.UpdateUsuarioDTO) (*dto.UsuarioDTO, error)
	Desativar(ctx context.Context, id uint64, solicitanteID uint64) error
	Reativar(ctx context.Context, id uint64) error
	ResetSenha(ctx context.Context, id uint64, payload dto.ResetSenhaAdminDTO) error
	SoftDelete(ctx context.Context, id uint64, solicitanteID uint64) error
	Restore(ctx context.Context, id uint64) error
}

type UsuarioService struct {
	usuarioRepo repositories.UsuarioRepositoryInterface
	logger      *zap.Logger
}

func NewUsuarioService(usuarioRepo repositories.UsuarioRepositoryInterface, logger *zap.Logger) UsuarioServiceInterface {
	return &UsuarioService{usuarioRepo: usuarioRepo, logger: logger}
}

func (s *UsuarioService) List(ctx context.Context, limit, offset uint64, search, status string) ([]dto.UsuarioDTO, uint64, error) {
	return s.usuarioRepo.List(ctx, limit, offset, search, status)
}

func (s *UsuarioService) ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.UsuarioDTO, uint64, error) {
	return s.usuarioRepo.ListLixeira(ctx, limit, offset, search)
}

func (s *UsuarioService) Find(ctx context.Context, id uint64) (*dto.UsuarioDTO, error) {
	return s.usuarioRepo.FindDTO(ctx, id)
}

func (s *UsuarioService) DropdownPeritos(ctx context.Context, servicoID uint64) ([]dto.DropdownItemDTO, error) {
	return s.usuarioRepo.DropdownPeritos(ctx, servicoID)
}

func (s *UsuarioService) Aprovar(ctx context.Context, id uint64, payload dto.AprovarUsuarioDTO) error {
	if payload.Perfil == entities.PerfilPerito && len(payload.ServicosPericiais) == 0 {
		return apperrors.NewHttpError(422, "Perito precisa de ao menos um serviço pericial", apperrors.ErrBadRequest, nil)
	}
	if err := s.usuarioRepo.Aprovar(ctx, id, payload); err != nil {
		return err
	}
	s.logger.Info("usuário aprovado", zap.Uint64("usuario_id", id), zap.String("perfil", payload.Perfil))
	return nil
}

// Rejeitar descarta o auto-cadastro pendente.
func (s *UsuarioService) Rejeitar(ctx context.Context, id uint64) error {
	usuario, err := s.usuarioRepo.Find(ctx, id)
	if err != nil {
		return err
	}
	if usuario.Status != entities.UsuarioStatusPendente {
		return apperrors.NewHttpError(409, "Apenas cadastros pendentes podem ser rejeitados", apperrors.ErrConflict, nil)
	}
	return s.usuarioRepo.SoftDelete(ctx, id)
}

func (s *UsuarioService) Update(ctx context.Context, id uint64, payload dto.UpdateUsuarioDTO) (*dto.UsuarioDTO, error) {
	if payload.Perfil.Valid {
		switch payload.Perfil.String {
		case entities.PerfilPerito, entities.PerfilOperacional, entities.PerfilAdministrativo:
		default:
			return nil, apperrors.NewHttpError(422, "Perfil inválido", apperrors.ErrBadRequest, nil)
		}
	}
	return s.usuarioRepo.Update(ctx, id, payload)
}

// Desativar impede a auto-desativação; sempre sobra ao menos o próprio
// administrador ativo.
func (s *UsuarioService) Desativar(ctx context.Context, id uint64, solicitanteID uint64) error {
	if id == solicitanteID {
		return apperrors.NewHttpError(409, "Não é possível desativar a própria conta", apperrors.ErrConflict, nil)
	}
	return s.usuarioRepo.UpdateStatus(ctx, id, entities.UsuarioStatusInativo)
}

func (s *UsuarioService) Reativar(ctx context.Context, id uint64) error {
	return s.usuarioRepo.UpdateStatus(ctx, id, entities.UsuarioStatusAtivo)
}

// ResetSenha é o reset administrativo: troca a senha e força a troca no
// próximo login.
func (s *UsuarioService) ResetSenha(ctx context.Context, id uint64, payload dto.ResetSenhaAdminDTO) error {
	senhaHash, err := utils.HashPassword(payload.NovaSenha)
	if err != nil {
		return err
	}
	return s.usuarioRepo.UpdateSenha(ctx, id, senhaHash, true)
}

// SoftDelete manda o cadastro para a lixeira; ninguém remove a própria conta.
func (s *UsuarioService) SoftDelete(ctx context.Context, id uint64, solicitanteID uint64) error {
	if id == solicitanteID {
		return apperrors.NewHttpError(409, "Não é possível remover a própria conta", apperrors.ErrConflict, nil)
	}
	if err := s.usuarioRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("usuário removido", zap.Uint64("usuario_id", id), zap.Uint64("solicitante_id", solicitanteID))
	return nil
}

// Restore devolve o cadastro da lixeira com status INATIVO.
func (s *UsuarioService) Restore(ctx context.Context, id uint64) error {
	return s.usuarioRepo.Restore(ctx, id)
}
