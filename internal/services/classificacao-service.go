package services

import (
	"context"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/repositories"
	apperrors "sistema-pericial/pkg/errors"
)

// ClassificacaoService mantém as hierarquias de dois níveis (classificações
// de ocorrência e exames). As regras são as mesmas para as duas tabelas:
// grupo na raiz, subgrupo sempre filho de grupo do mesmo serviço pericial.
type ClassificacaoServiceInterface interface {
	List(ctx context.Context, limit, offset uint64, search string, servicoID uint64) ([]dto.ClassificacaoDTO, uint64, error)
	ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.ClassificacaoDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.ClassificacaoDTO, error)
	Arvore(ctx context.Context, servicoID uint64) ([]dto.ClassificacaoArvoreDTO, error)
	Create(ctx context.Context, payload dto.CreateClassificacaoDTO) (*dto.ClassificacaoDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateClassificacaoDTO) (*dto.ClassificacaoDTO, error)
	SoftDelete(ctx context.Context, id uint64) error
	Restore(ctx context.Context, id uint64) error
}

type ClassificacaoService struct {
	repo        repositories.ClassificacaoRepositoryInterface
	servicoRepo repositories.ServicoPericialRepositoryInterface
}

func NewClassificacaoService(
	repo repositories.ClassificacaoRepositoryInterface,
	servicoRepo repositories.ServicoPericialRepositoryInterface,
) ClassificacaoServiceInterface {
	return &ClassificacaoService{repo: repo, servicoRepo: servicoRepo}
}

func (s *ClassificacaoService) List(ctx context.Context, limit, offset uint64, search string, servicoID uint64) ([]dto.ClassificacaoDTO, uint64, error) {
	return s.repo.List(ctx, limit, offset, search, servicoID)
}

func (s *ClassificacaoService) ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.ClassificacaoDTO, uint64, error) {
	return s.repo.ListLixeira(ctx, limit, offset, search)
}

func (s *ClassificacaoService) Find(ctx context.Context, id uint64) (*dto.ClassificacaoDTO, error) {
	return s.repo.Find(ctx, id)
}

func (s *ClassificacaoService) Arvore(ctx context.Context, servicoID uint64) ([]dto.ClassificacaoArvoreDTO, error) {
	if servicoID == 0 {
		return nil, apperrors.NewHttpError(400, "Informe o serviço pericial para montar a árvore", apperrors.ErrBadRequest, nil)
	}
	return s.repo.Arvore(ctx, servicoID)
}

// validarParent garante a profundidade máxima de dois níveis e o serviço
// pericial coerente entre grupo e subgrupo.
func (s *ClassificacaoService) validarParent(ctx context.Context, parentID, servicoID uint64) error {
	parent, err := s.repo.Find(ctx, parentID)
	if err != nil {
		if err == apperrors.ErrNotFound {
			return apperrors.NewHttpError(422, "Grupo informado não existe", apperrors.ErrNotFound, nil)
		}
		return err
	}
	if parent.ParentID != nil {
		return apperrors.NewHttpError(422, "Subgrupo não pode ter filhos: a hierarquia tem no máximo dois níveis", apperrors.ErrBadRequest, nil)
	}
	if parent.ServicoPericialID != servicoID {
		return apperrors.NewHttpError(422, "Grupo pertence a outro serviço pericial", apperrors.ErrBadRequest, nil)
	}
	return nil
}

func (s *ClassificacaoService) Create(ctx context.Context, payload dto.CreateClassificacaoDTO) (*dto.ClassificacaoDTO, error) {
	exists, err := s.servicoRepo.Exists(ctx, payload.ServicoPericialID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewHttpError(422, "Serviço pericial informado não existe", apperrors.ErrNotFound, nil)
	}
	if payload.ParentID != nil {
		if err := s.validarParent(ctx, *payload.ParentID, payload.ServicoPericialID); err != nil {
			return nil, err
		}
	}
	return s.repo.Create(ctx, payload)
}

func (s *ClassificacaoService) Update(ctx context.Context, id uint64, payload dto.UpdateClassificacaoDTO) (*dto.ClassificacaoDTO, error) {
	atual, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	servicoID := atual.ServicoPericialID
	if payload.ServicoPericialID.Valid {
		servicoID = payload.ServicoPericialID.Uint64
		exists, err := s.servicoRepo.Exists(ctx, servicoID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperrors.NewHttpError(422, "Serviço pericial informado não existe", apperrors.ErrNotFound, nil)
		}
	}

	if payload.ParentID.Valid {
		if payload.ParentID.Uint64 == id {
			return nil, apperrors.NewHttpError(422, "Grupo não pode ser pai de si mesmo", apperrors.ErrBadRequest, nil)
		}
		if err := s.validarParent(ctx, payload.ParentID.Uint64, servicoID); err != nil {
			return nil, err
		}
	}

	// Grupo com subgrupos não vira subgrupo.
	if payload.ParentID.Valid && atual.ParentID == nil {
		hasChildren, err := s.repo.HasChildren(ctx, id)
		if err != nil {
			return nil, err
		}
		if hasChildren {
			return nil, apperrors.NewHttpError(422, "Grupo com subgrupos não pode virar subgrupo", apperrors.ErrBadRequest, nil)
		}
	}

	return s.repo.Update(ctx, id, payload)
}

func (s *ClassificacaoService) SoftDelete(ctx context.Context, id uint64) error {
	hasChildren, err := s.repo.HasChildren(ctx, id)
	if err != nil {
		return err
	}
	if hasChildren {
		return apperrors.NewHttpError(409, "Exclua os subgrupos antes de excluir o grupo", apperrors.ErrInUse, nil)
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *ClassificacaoService) Restore(ctx context.Context, id uint64) error {
	return s.repo.Restore(ctx, id)
}
