package services

import (
	"context"

	"sistema-pericial/internal/dto"
	"sistema-pericial/internal/repositories"
)

type ProcedimentoServiceInterface interface {
	List(ctx context.Context, limit, offset uint64, search string) ([]dto.ProcedimentoDTO, uint64, error)
	ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.ProcedimentoDTO, uint64, error)
	Find(ctx context.Context, id uint64) (*dto.ProcedimentoDTO, error)
	FindByNumero(ctx context.Context, numero string) (*dto.ProcedimentoDTO, error)
	Create(ctx context.Context, payload dto.CreateProcedimentoDTO) (*dto.ProcedimentoDTO, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateProcedimentoDTO) (*dto.ProcedimentoDTO, error)
	SoftDelete(ctx context.Context, id uint64) error
	Restore(ctx context.Context, id uint64) error
}

type ProcedimentoService struct {
	repo repositories.ProcedimentoRepositoryInterface
}

func NewProcedimentoService(repo repositories.ProcedimentoRepositoryInterface) ProcedimentoServiceInterface {
	return &ProcedimentoService{repo: repo}
}

func (s *ProcedimentoService) List(ctx context.Context, limit, offset uint64, search string) ([]dto.ProcedimentoDTO, uint64, error) {
	return s.repo.List(ctx, limit, offset, search)
}

func (s *ProcedimentoService) ListLixeira(ctx context.Context, limit, offset uint64, search string) ([]dto.ProcedimentoDTO, uint64, error) {
	return s.repo.ListLixeira(ctx, limit, offset, search)
}

func (s *ProcedimentoService) Find(ctx context.Context, id uint64) (*dto.ProcedimentoDTO, error) {
	return s.repo.Find(ctx, id)
}

func (s *ProcedimentoService) FindByNumero(ctx context.Context, numero string) (*dto.ProcedimentoDTO, error) {
	return s.repo.FindByNumero(ctx, numero)
}

func (s *ProcedimentoService) Create(ctx context.Context, payload dto.CreateProcedimentoDTO) (*dto.ProcedimentoDTO, error) {
	return s.repo.Create(ctx, payload)
}

func (s *ProcedimentoService) Update(ctx context.Context, id uint64, payload dto.UpdateProcedimentoDTO) (*dto.ProcedimentoDTO, error) {
	return s.repo.Update(ctx, id, payload)
}

func (s *ProcedimentoService) SoftDelete(ctx context.Context, id uint64) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *ProcedimentoService) Restore(ctx context.Context, id uint64) error {
	return s.repo.Restore(ctx, id)
}
