package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/repositories"
	"sistema-pericial/pkg/config"
)

type ServicoPericialServiceInterface interface {
	List(ctx context.Context, limit, offset uint64, search string) ([]dto.ServicoPericialDTO, uint64, error)
	ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.ServicoPericialDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.ServicoPericialDTO, error)
	Dropdown(ctx context.Context) ([]dto.DropdownItemDTO, error)
	Create(ctx context.Context, payload dto.CreateServicoPericialDTO) (*dto.ServicoPericialDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateServicoPericialDTO) (*dto.ServicoPericialDTO, error)
	SoftDelete(ctx context.Context, id uint64) error
	Restore(ctx context.Context, id uint64) error
}

type ServicoPericialService struct {
	repo       repositories.ServicoPericialRepositoryInterface
	cacheRepo  repositories.CacheRepositoryInterface
	authConfig config.AuthConfig
	logger     *zap.Logger
}

func NewServicoPericialService(
	repo repositories.ServicoPericialRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	authConfig config.AuthConfig,
	logger *zap.Logger,
) ServicoPericialServiceInterface {
	return &ServicoPericialService{repo: repo, cacheRepo: cacheRepo, authConfig: authConfig, logger: logger}
}

const servicoPericialDropdownKey = "dropdown:servicos_periciais"

func (s *ServicoPericialService) invalidarDropdown(ctx context.Context) {
	if err := s.cacheRepo.Del(ctx, servicoPericialDropdownKey); err != nil {
		s.logger.Warn("não foi possível invalidar o cache de dropdown de serviços periciais", zap.Error(err))
	}
}

func (s *ServicoPericialService) List(ctx context.Context, limit, offset uint64, search string) ([]dto.ServicoPericialDTO, uint64, error) {
	return s.repo.List(ctx, limit, offset, search)
}

func (s *ServicoPericialService) ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.ServicoPericialDTO, uint64, error) {
	return s.repo.ListLixeira(ctx, limit, offset, search)
}

func (s *ServicoPericialService) Find(ctx context.Context, id uint64) (*dto.ServicoPericialDTO, error) {
	return s.repo.Find(ctx, id)
}

// Dropdown é cacheado no Redis; qualquer escrita invalida a chave.
func (s *ServicoPericialService) Dropdown(ctx context.Context) ([]dto.DropdownItemDTO, error) {
	if cached, err := s.cacheRepo.Get(ctx, servicoPericialDropdownKey); err == nil {
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
		if err := s.cacheRepo.Set(ctx, servicoPericialDropdownKey, string(encoded), s.authConfig.DropdownCacheTTL); err != nil {
			s.logger.Warn("não foi possível gravar o cache de dropdown de serviços periciais", zap.Error(err))
		}
	}
	return items, nil
}

func (s *ServicoPericialService) Create(ctx context.Context, payload dto.CreateServicoPericialDTO) (*dto.ServicoPericialDTO, error) {
	result, err := s.repo.Create(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.invalidarDropdown(ctx)
	return result, nil
}

func (s *ServicoPericialService) Update(ctx context.Context, id uint64, payload dto.UpdateServicoPericialDTO) (*dto.ServicoPericialDTO, error) {
	result, err := s.repo.Update(ctx, id, payload)
	if err != nil {
		return nil, err
	}
	s.invalidarDropdown(ctx)
	return result, nil
}

func (s *ServicoPericialService) SoftDelete(ctx context.Context, id uint64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidarDropdown(ctx)
	return nil
}

func (s *ServicoPericialService) Restore(ctx context.Context, id uint64) error {
	if err := s.repo.Restore(ctx, id); err != nil {
		return err
	}
	s.invalidarDropdown(ctx)
	return nil
}
