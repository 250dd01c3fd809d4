package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/repositories"
	"sistema-pericial/pkg/config"
)

type CidadeServiceInterface interface {
	List(ctx context.Context, limit, offset uint64, search string) ([]dto.CidadeDTO, uint64, error)
	ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.CidadeDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.CidadeDTO, error)
	Dropdown(ctx context.Context) ([]dto.DropdownItemDTO, error)
	Create(ctx context.Context, payload dto.CreateCidadeDTO) (*dto.CidadeDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateCidadeDTO) (*dto.CidadeDTO, error)
	SoftDelete(ctx context.Context, id uint64) error
	Restore(ctx context.Context, id uint64) error
}

type CidadeService struct {
	repo       repositories.CidadeRepositoryInterface
	cacheRepo  repositories.CacheRepositoryInterface
	authConfig config.AuthConfig
	logger     *zap.Logger
}

func NewCidadeService(
	repo repositories.CidadeRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	authConfig config.AuthConfig,
	logger *zap.Logger,
) CidadeServiceInterface {
	return &CidadeService{repo: repo, cacheRepo: cacheRepo, authConfig: authConfig, logger: logger}
}

const cidadeDropdownKey = "dropdown:cidades"

func (s *CidadeService) invalidarDropdown(ctx context.Context) {
	if err := s.cacheRepo.Del(ctx, cidadeDropdownKey); err != nil {
		s.logger.Warn("não foi possível invalidar o cache de dropdown de cidades", zap.Error(err))
	}
}

func (s *CidadeService) List(ctx context.Context, limit, offset uint64, search string) ([]dto.CidadeDTO, uint64, error) {
	return s.repo.List(ctx, limit, offset, search)
}

func (s *CidadeService) ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.CidadeDTO, uint64, error) {
	return s.repo.ListLixeira(ctx, limit, offset, search)
}

func (s *CidadeService) Find(ctx context.Context, id uint64) (*dto.CidadeDTO, error) {
	return s.repo.Find(ctx, id)
}

// Dropdown é cacheado no Redis; qualquer escrita invalida a chave.
func (s *CidadeService) Dropdown(ctx context.Context) ([]dto.DropdownItemDTO, error) {
	if cached, err := s.cacheRepo.Get(ctx, cidadeDropdownKey); err == nil {
		var items []dto.DropdownItemDTO
		if err := json.Unmarshal([]byte(cached), &items); err == nil {
			return items, nil
		}
	}

	items, err := s.repo.Dropdown(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(items); err == nil {
		if err := s.cacheRepo.Set(ctx, cidadeDropdownKey, string(encoded), s.authConfig.DropdownCacheTTL); err != nil {
			s.logger.Warn("não foi possível gravar o cache de dropdown de cidades", zap.Error(err))
		}
	}
	return items, nil
}

func (s *CidadeService) Create(ctx context.Context, payload dto.CreateCidadeDTO) (*dto.CidadeDTO, error) {
	result, err := s.repo.Create(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.invalidarDropdown(ctx)
	return result, nil
}

func (s *CidadeService) Update(ctx context.Context, id uint64, payload dto.UpdateCidadeDTO) (*dto.CidadeDTO, error) {
	result, err := s.repo.Update(ctx, id, payload)
	if err != nil {
		return nil, err
	}
	s.invalidarDropdown(ctx)
	return result, nil
}

func (s *CidadeService) SoftDelete(ctx context.Context, id uint64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidarDropdown(ctx)
	return nil
}

func (s *CidadeService) Restore(ctx context.Context, id uint64) error {
	if err := s.repo.Restore(ctx, id); err != nil {
		return err
	}
	s.invalidarDropdown(ctx)
	return nil
}
