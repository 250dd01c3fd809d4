package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/repositories"
	"sistema-pericial/pkg/config"
)

// CatalogoService serve os dicionários simples. O dropdown é cacheado no
// Redis com TTL curto; qualquer escrita invalida a chave.
type CatalogoServiceInterface interface {
	List(ctx context.Context, limit, offset uint64, search string) ([]dto.CatalogoDTO, uint64, error)
	ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.CatalogoDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.CatalogoDTO, error)
	Dropdown(ctx context.Context) ([]dto.DropdownItemDTO, error)
	Create(ctx context.Context, payload dto.CreateCatalogoDTO) (*dto.CatalogoDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateCatalogoDTO) (*dto.CatalogoDTO, error)
	SoftDelete(ctx context.Context, id uint64) error
	Restore(ctx context.Context, id uint64) error
}

type CatalogoService struct {
	repo       repositories.CatalogoRepositoryInterface
	cacheRepo  repositories.CacheRepositoryInterface
	authConfig config.AuthConfig
	logger     *zap.Logger
}

func NewCatalogoService(
	repo repositories.CatalogoRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	authConfig config.AuthConfig,
	logger *zap.Logger,
) CatalogoServiceInterface {
	return &CatalogoService{repo: repo, cacheRepo: cacheRepo, authConfig: authConfig, logger: logger}
}

func (s *CatalogoService) dropdownCacheKey() string {
	return "dropdown:" + s.repo.Table()
}

func (s *CatalogoService) invalidarDropdown(ctx context.Context) {
	if err := s.cacheRepo.Del(ctx, s.dropdownCacheKey()); err != nil {
		s.logger.Warn("não foi possível invalidar o cache de dropdown",
			zap.String("tabela", s.repo.Table()), zap.Error(err))
	}
}

func (s *CatalogoService) List(ctx context.Context, limit, offset uint64, search string) ([]dto.CatalogoDTO, uint64, error) {
	return s.repo.List(ctx, limit, offset, search)
}

func (s *CatalogoService) ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.CatalogoDTO, uint64, error) {
	return s.repo.ListLixeira(ctx, limit, offset, search)
}

func (s *CatalogoService) Find(ctx context.Context, id uint64) (*dto.CatalogoDTO, error) {
	return s.repo.Find(ctx, id)
}

func (s *CatalogoService) Dropdown(ctx context.Context) ([]dto.DropdownItemDTO, error) {
	if cached, err := s.cacheRepo.Get(ctx, s.dropdownCacheKey()); err == nil {
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
		if err := s.cacheRepo.Set(ctx, s.dropdownCacheKey(), string(encoded), s.authConfig.DropdownCacheTTL); err != nil {
			s.logger.Warn("não foi possível gravar o cache de dropdown", zap.Error(err))
		}
	}
	return items, nil
}

func (s *CatalogoService) Create(ctx context.Context, payload dto.CreateCatalogoDTO) (*dto.CatalogoDTO, error) {
	result, err := s.repo.Create(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.invalidarDropdown(ctx)
	return result, nil
}

func (s *CatalogoService) Update(ctx context.Context, id uint64, payload dto.UpdateCatalogoDTO) (*dto.CatalogoDTO, error) {
	result, err := s.repo.Update(ctx, id, payload)
	if err != nil {
		return nil, err
	}
	s.invalidarDropdown(ctx)
	return result, nil
}

func (s *CatalogoService) SoftDelete(ctx context.Context, id uint64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidarDropdown(ctx)
	return nil
}

func (s *CatalogoService) Restore(ctx context.Context, id uint64) error {
	if err := s.repo.Restore(ctx, id); err != nil {
		return err
	}
	s.invalidarDropdown(ctx)
	return nil
}
