package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sistema-pericial/internal/dto"
	"sistema-pericial/pkg/config"
	apperrors "sistema-pericial/pkg/errors"
)

type fakeCidadeRepo struct {
	cidades       map[uint64]*dto.CidadeDTO
	dropdownCalls int
}

func newFakeCidadeRepo(cidades ...*dto.CidadeDTO) *fakeCidadeRepo {
	repo := &fakeCidadeRepo{cidades: make(map[uint64]*dto.CidadeDTO)}
	for _, c := range cidades {
		repo.cidades[c.ID] = c
	}
	return repo
}

func (f *fakeCidadeRepo) List(_ context.Context, _, _ uint64, _ string) ([]dto.CidadeDTO, uint64, error) {
	return nil, 0, nil
}

func (f *fakeCidadeRepo) ListLixeira(_ context.Context, _, _ uint64, _ string) ([]dto.CidadeDTO, uint64, error) {
	return nil, 0, nil
}

func (f *fakeCidadeRepo) Find(_ context.Context, id uint64) (*dto.CidadeDTO, error) {
	c, ok := f.cidades[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return c, nil
}

func (f *fakeCidadeRepo) Dropdown(_ context.Context) ([]dto.DropdownItemDTO, error) {
	f.dropdownCalls++
	items := make([]dto.DropdownItemDTO, 0, len(f.cidades))
	for _, c := range f.cidades {
		items = append(items, dto.DropdownItemDTO{ID: c.ID, Nome: c.Nome})
	}
	return items, nil
}

func (f *fakeCidadeRepo) Create(_ context.Context, payload dto.CreateCidadeDTO) (*dto.CidadeDTO, error) {
	c := &dto.CidadeDTO{ID: uint64(len(f.cidades) + 1), Nome: payload.Nome, UF: payload.UF}
	f.cidades[c.ID] = c
	return c, nil
}

func (f *fakeCidadeRepo) Update(_ context.Context, id uint64, payload dto.UpdateCidadeDTO) (*dto.CidadeDTO, error) {
	c := f.cidades[id]
	if payload.Nome.Valid {
		c.Nome = payload.Nome.String
	}
	return c, nil
}

func (f *fakeCidadeRepo) SoftDelete(_ context.Context, id uint64) error {
	delete(f.cidades, id)
	return nil
}

func (f *fakeCidadeRepo) Restore(_ context.Context, _ uint64) error { return nil }

func newTestCidadeService(repo *fakeCidadeRepo, cache *fakeCacheRepo) CidadeServiceInterface {
	cfg := config.AuthConfig{DropdownCacheTTL: time.Minute}
	return NewCidadeService(repo, cache, cfg, zap.NewNop())
}

func TestCidadeDropdown_UsaCache(t *testing.T) {
	repo := newFakeCidadeRepo(&dto.CidadeDTO{ID: 1, Nome: "Boa Vista", UF: "RR"})
	svc := newTestCidadeService(repo, newFakeCacheRepo())

	primeira, err := svc.Dropdown(context.Background())
	require.NoError(t, err)
	require.Len(t, primeira, 1)

	segunda, err := svc.Dropdown(context.Background())
	require.NoError(t, err)
	assert.Equal(t, primeira, segunda)
	assert.Equal(t, 1, repo.dropdownCalls)
}

func TestCidadeDropdown_EscritaInvalidaCache(t *testing.T) {
	repo := newFakeCidadeRepo(&dto.CidadeDTO{ID: 1, Nome: "Boa Vista", UF: "RR"})
	svc := newTestCidadeService(repo, newFakeCacheRepo())

	_, err := svc.Dropdown(context.Background())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), dto.CreateCidadeDTO{Nome: "Caracaraí", UF: "RR"})
	require.NoError(t, err)

	itens, err := svc.Dropdown(context.Background())
	require.NoError(t, err)
	assert.Len(t, itens, 2)
	assert.Equal(t, 2, repo.dropdownCalls)
}
