package services

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/repositories"
	"sistema-pericial/pkg/config"
	apperrors "sistema-pericial/pkg/errors"
)

type BairroServiceInterface interface {
	List(ctx context.Context, limit, offset uint64, search string, cidadeID uint64) ([]dto.BairroDTO, uint64, error)
	ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.BairroDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.BairroDTO, error)
	Dropdown(ctx context.Context, cidadeID uint64) ([]dto.DropdownItemDTO, error)
	Create(ctx context.Context, payload dto.CreateBairroDTO) (*dto.BairroDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateBairroDTO) (*dto.BairroDTO, error)
	SoftDelete(ctx context.Context, id uint64) error
	Restore(ctx context.Context, id uint64) error
}

type BairroService struct {
	repo       repositories.BairroRepositoryInterface
	cacheRepo  repositories.CacheRepositoryInterface
	authConfig config.AuthConfig
	logger     *zap.Logger
}

func NewBairroService(
	repo repositories.BairroRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	authConfig config.AuthConfig,
	logger *zap.Logger,
) BairroServiceInterface {
	return &BairroService{repo: repo, cacheRepo: cacheRepo, authConfig: authConfig, logger: logger}
}

// O dropdown de bairros é sempre por cidade; a chave de cache acompanha.
func bairroDropdownKey(cidadeID uint64) string {
	return fmt.Sprintf("dropdown:bairros:%d", cidadeID)
}

func (s *BairroService) invalidarDropdown(ctx context.Context, cidadeID uint64) {
	if cidadeID == 0 {
		return
	}
	if err := s.cacheRepo.Del(ctx, bairroDropdownKey(cidadeID)); err != nil {
		s.logger.Warn("não foi possível invalidar o cache de dropdown de bairros",
			zap.Uint64("cidade_id", cidadeID), zap.Error(err))
	}
}

func (s *BairroService) List(ctx context.Context, limit, offset uint64, search string, cidadeID uint64) ([]dto.BairroDTO, uint64, error) {
	return s.repo.List(ctx, limit, offset, search, cidadeID)
}

func (s *BairroService) ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.BairroDTO, uint64, error) {
	return s.repo.ListLixeira(ctx, limit, offset, search)
}

func (s *BairroService) Find(ctx context.Context, id uint64) (*dto.BairroDTO, error) {
	return s.repo.Find(ctx, id)
}

// Dropdown exige a cidade: bairro nunca é listado solto.
func (s *BairroService) Dropdown(ctx context.Context, cidadeID uint64) ([]dto.DropdownItemDTO, error) {
	if cidadeID == 0 {
		return nil, apperrors.NewHttpError(400, "Informe a cidade para listar os bairros", apperrors.ErrBadRequest, nil)
	}

	if cached, err := s.cacheRepo.Get(ctx, bairroDropdownKey(cidadeID)); err == nil {
		var items []dto.DropdownItemDTO
		if err := json.Unmarshal([]byte(cached), &items); err == nil {
			return items, nil
		}
	}

	items, err := s.repo.Dropdown(ctx, cidadeID)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(items); err == nil {
		if err := s.cacheRepo.Set(ctx, bairroDropdownKey(cidadeID), string(encoded), s.authConfig.DropdownCacheTTL); err != nil {
			s.logger.Warn("não foi possível gravar o cache de dropdown de bairros", zap.Error(err))
		}
	}
	return items, nil
}

func (s *BairroService) Create(ctx context.Context, payload dto.CreateBairroDTO) (*dto.BairroDTO, error) {
	result, err := s.repo.Create(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.invalidarDropdown(ctx, payload.CidadeID)
	return result, nil
}

func (s *BairroService) Update(ctx context.Context, id uint64, payload dto.UpdateBairroDTO) (*dto.BairroDTO, error) {
	// Se o bairro mudar de cidade, as duas listas ficam obsoletas.
	anterior, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := s.repo.Update(ctx, id, payload)
	if err != nil {
		return nil, err
	}
	s.invalidarDropdown(ctx, anterior.Cidade.ID)
	if result.Cidade.ID != anterior.Cidade.ID {
		s.invalidarDropdown(ctx, result.Cidade.ID)
	}
	return result, nil
}

func (s *BairroService) SoftDelete(ctx context.Context, id uint64) error {
	bairro, err := s.repo.Find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidarDropdown(ctx, bairro.Cidade.ID)
	return nil
}

func (s *BairroService) Restore(ctx context.Context, id uint64) error {
	if err := s.repo.Restore(ctx, id); err != nil {
		return err
	}
	if bairro, err := s.repo.Find(ctx, id); err == nil {
		s.invalidarDropdown(ctx, bairro.Cidade.ID)
	}
	return nil
}
